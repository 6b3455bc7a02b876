package site

// pageTemplate is the html/template for every page. The "gallery" block
// is rendered below the article on the examples index.
const pageTemplate = `<!DOCTYPE html>
<html lang="{{.Lang}}" data-theme="light">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>{{.Title}} | {{.SiteName}}</title>
  {{with .Description}}<meta name="description" content="{{.}}">{{end}}
  {{range .Locales}}<link rel="alternate" hreflang="{{.Code}}" href="{{.Href}}">
  {{end}}<link rel="stylesheet" href="/static/style.css">
  <link rel="stylesheet" href="/static/chroma.css">
</head>
<body data-locale="{{.Locale}}" data-path="{{.Path}}"{{if .Live}} data-live="true"{{end}}
  data-copy-label="{{call .Msg "copy.copy"}}" data-copied-label="{{call .Msg "copy.copied"}}">
  <header class="site-header">
    {{if .Sidebar}}<button class="menu-toggle" id="menu-toggle" aria-label="Toggle sidebar">
      <svg width="24" height="24" viewBox="0 0 24 24" fill="none" stroke="currentColor" stroke-width="2">
        <line x1="3" y1="6" x2="21" y2="6"/><line x1="3" y1="12" x2="21" y2="12"/><line x1="3" y1="18" x2="21" y2="18"/>
      </svg>
    </button>{{end}}
    <a class="brand" href="{{.HomeHref}}">{{.SiteName}}</a>
    <nav class="top-nav">
      <a href="{{.DocsHref}}"{{if eq .Area "docs"}} class="active"{{end}}>{{call .Msg "nav.docs"}}</a>
      <a href="{{.ExamplesHref}}"{{if eq .Area "examples"}} class="active"{{end}}>{{call .Msg "nav.examples"}}</a>
    </nav>
    <div class="header-search">
      <input type="search" id="search-input" placeholder="{{call .Msg "search.placeholder"}}" autocomplete="off" data-empty="{{call .Msg "search.empty"}}">
      <div class="search-results" id="search-results" hidden></div>
    </div>
    <div class="locale-switch" aria-label="{{call .Msg "nav.language"}}">
      {{range .Locales}}<a href="{{.Href}}" hreflang="{{.Code}}" data-locale="{{.Code}}"{{if .Active}} class="active" aria-current="true"{{end}}>{{.Label}}</a>{{end}}
    </div>
    <button class="theme-toggle" id="theme-toggle" aria-label="Toggle theme">
      <svg class="sun-icon" width="20" height="20" viewBox="0 0 24 24" fill="none" stroke="currentColor" stroke-width="2">
        <circle cx="12" cy="12" r="5"/><line x1="12" y1="1" x2="12" y2="3"/><line x1="12" y1="21" x2="12" y2="23"/><line x1="4.22" y1="4.22" x2="5.64" y2="5.64"/><line x1="18.36" y1="18.36" x2="19.78" y2="19.78"/><line x1="1" y1="12" x2="3" y2="12"/><line x1="21" y1="12" x2="23" y2="12"/><line x1="4.22" y1="19.78" x2="5.64" y2="18.36"/><line x1="18.36" y1="5.64" x2="19.78" y2="4.22"/>
      </svg>
      <svg class="moon-icon" width="20" height="20" viewBox="0 0 24 24" fill="none" stroke="currentColor" stroke-width="2">
        <path d="M21 12.79A9 9 0 1 1 11.21 3 7 7 0 0 0 21 12.79z"/>
      </svg>
    </button>
  </header>
  <div class="layout">
    {{if .Sidebar}}<nav class="sidebar" id="sidebar">
      <div class="sidebar-tree" id="sidebar-tree">
        {{.Sidebar}}
      </div>
    </nav>
    <div class="sidebar-overlay" id="sidebar-overlay"></div>{{end}}
    <main class="content">
      <article class="page-content" id="page-content">
        {{if .NotFound}}<div class="not-found">
          <h1>404</h1>
          <h2>{{call .Msg "notfound.title"}}</h2>
          <p>{{call .Msg "notfound.body"}}</p>
          <a class="button" href="{{.HomeHref}}">{{call .Msg "notfound.back"}}</a>
        </div>{{else}}{{.Content}}{{end}}
        {{if .Gallery}}{{template "gallery" .}}{{end}}
      </article>
    </main>
  </div>
  <footer class="site-footer">{{call .Msg "footer.copyright" .SiteName}}</footer>
  <script src="/static/site.js"></script>
</body>
</html>
{{define "gallery"}}{{$g := .Gallery}}
<section class="gallery" id="gallery">
  <form class="gallery-search" method="get" id="gallery-form">
    <input type="search" name="q" id="gallery-query" value="{{$g.Query}}" placeholder="{{call .Msg "examples.search"}}" autocomplete="off">
    <input type="hidden" name="category" id="gallery-category" value="{{$g.Category}}">
  </form>
  <div class="category-tabs" role="tablist">
    {{range $g.Categories}}<a class="category-tab{{if .Active}} active{{end}}" role="tab" href="?category={{.Slug}}" data-category="{{.Slug}}" aria-selected="{{.Active}}">{{.Label}}</a>{{end}}
  </div>
  {{if $g.Featured}}<div class="featured" id="gallery-featured">
    <h2>{{call .Msg "examples.featured"}}</h2>
    <div class="card-grid">{{range $g.Featured}}{{template "card" .}}{{end}}</div>
  </div>{{end}}
  <div class="card-grid" id="gallery-grid">{{range $g.Examples}}{{template "card" .}}{{end}}</div>
  <p class="gallery-empty" id="gallery-empty"{{if $g.Examples}} hidden{{end}}>{{call .Msg "examples.empty"}}</p>
</section>
{{end}}
{{define "card"}}<a class="example-card" href="{{.Href}}" data-category="{{.Category}}" data-keywords="{{.Keywords}}">
  {{if or .New .Popular}}<div class="card-badges">{{if .New}}<span class="badge badge-new">{{.NewLabel}}</span>{{end}}{{if .Popular}}<span class="badge badge-popular">{{.PopularLabel}}</span>{{end}}</div>{{end}}
  <h3>{{.Title}}</h3>
  <p>{{.Description}}</p>
  {{if .Features}}<ul class="card-features">{{range .Features}}<li>{{.}}</li>{{end}}</ul>{{end}}
  <div class="card-meta">
    <span class="card-category">{{.CategoryLabel}}</span>
    <span class="card-difficulty difficulty-{{lower .Difficulty}}">{{.DifficultyLabel}}: {{.Difficulty}}</span>
  </div>
</a>{{end}}`

// cssContent is the stylesheet served at /static/style.css.
const cssContent = `/* ============ CSS Variables ============ */
:root {
  --bg: #ffffff;
  --bg-secondary: #f8f9fa;
  --bg-sidebar: #f1f3f5;
  --text: #212529;
  --text-secondary: #495057;
  --text-muted: #868e96;
  --border: #dee2e6;
  --accent: #e8590c;
  --accent-hover: #d9480f;
  --accent-light: #fff4e6;
  --code-bg: #f8f9fa;
  --code-border: #e9ecef;
  --link: #e8590c;
  --header-height: 56px;
  --sidebar-width: 260px;
  --content-max-width: 960px;
  --shadow: 0 1px 3px rgba(0,0,0,0.08);
  --shadow-lg: 0 4px 12px rgba(0,0,0,0.1);
  --success: #2f9e44;
  --danger: #e03131;
}

[data-theme="dark"] {
  --bg: #1a1b26;
  --bg-secondary: #1f2030;
  --bg-sidebar: #16171f;
  --text: #c0caf5;
  --text-secondary: #a9b1d6;
  --text-muted: #565f89;
  --border: #292e42;
  --accent: #ff9e64;
  --accent-hover: #ffb07c;
  --accent-light: #2a2233;
  --code-bg: #1f2030;
  --code-border: #292e42;
  --link: #ff9e64;
  --shadow: 0 1px 3px rgba(0,0,0,0.3);
  --shadow-lg: 0 4px 12px rgba(0,0,0,0.4);
}

/* ============ Base ============ */
*, *::before, *::after { box-sizing: border-box; margin: 0; padding: 0; }

body {
  font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, "PingFang SC", "Microsoft YaHei", sans-serif;
  color: var(--text);
  background: var(--bg);
  line-height: 1.7;
  min-height: 100vh;
  display: flex;
  flex-direction: column;
}

/* ============ Header ============ */
.site-header {
  height: var(--header-height);
  display: flex;
  align-items: center;
  gap: 20px;
  padding: 0 24px;
  border-bottom: 1px solid var(--border);
  background: var(--bg);
  position: sticky;
  top: 0;
  z-index: 50;
}

.brand { font-weight: 700; font-size: 1.1rem; color: var(--accent); text-decoration: none; }
.top-nav { display: flex; gap: 16px; }
.top-nav a { color: var(--text-secondary); text-decoration: none; font-size: 0.92rem; }
.top-nav a.active, .top-nav a:hover { color: var(--accent); }

.header-search { position: relative; margin-left: auto; width: 260px; }
#search-input {
  width: 100%;
  padding: 6px 12px;
  border: 1px solid var(--border);
  border-radius: 6px;
  font-size: 0.85rem;
  background: var(--bg);
  color: var(--text);
  outline: none;
}
#search-input:focus { border-color: var(--accent); box-shadow: 0 0 0 3px var(--accent-light); }

.search-results {
  position: absolute;
  top: 40px;
  right: 0;
  width: 380px;
  max-height: 420px;
  overflow-y: auto;
  background: var(--bg);
  border: 1px solid var(--border);
  border-radius: 8px;
  box-shadow: var(--shadow-lg);
}
.search-results a { display: block; padding: 10px 14px; color: var(--text); text-decoration: none; border-bottom: 1px solid var(--border); }
.search-results a:hover, .search-results a.selected { background: var(--accent-light); }
.search-results .result-title { font-weight: 600; font-size: 0.9rem; }
.search-results .result-snippet { font-size: 0.8rem; color: var(--text-muted); }
.search-results .search-empty { padding: 12px 14px; font-size: 0.85rem; color: var(--text-muted); }

.locale-switch { display: flex; gap: 6px; }
.locale-switch a {
  font-size: 0.8rem;
  padding: 2px 8px;
  border: 1px solid var(--border);
  border-radius: 12px;
  color: var(--text-secondary);
  text-decoration: none;
}
.locale-switch a.active { border-color: var(--accent); color: var(--accent); }

.menu-toggle { display: none; background: none; border: none; color: var(--text); cursor: pointer; }

.theme-toggle {
  background: none;
  border: 1px solid var(--border);
  border-radius: 6px;
  color: var(--text);
  cursor: pointer;
  padding: 6px 8px;
  display: flex;
  align-items: center;
}
[data-theme="dark"] .sun-icon { display: inline; }
[data-theme="dark"] .moon-icon { display: none; }
[data-theme="light"] .sun-icon { display: none; }
[data-theme="light"] .moon-icon { display: inline; }

/* ============ Layout & Sidebar ============ */
.layout { display: flex; flex: 1; }

.sidebar {
  width: var(--sidebar-width);
  flex-shrink: 0;
  background: var(--bg-sidebar);
  border-right: 1px solid var(--border);
  position: sticky;
  top: var(--header-height);
  height: calc(100vh - var(--header-height));
  overflow-y: auto;
  padding: 12px 0;
}
.sidebar-tree ul { list-style: none; }
.sidebar-tree .dir-toggle {
  display: block;
  padding: 8px 16px 4px;
  font-size: 0.78rem;
  font-weight: 700;
  text-transform: uppercase;
  letter-spacing: 0.04em;
  color: var(--text-secondary);
  cursor: pointer;
  user-select: none;
}
.sidebar-tree .nav-section > ul { display: none; }
.sidebar-tree .nav-section.expanded > ul { display: block; }
.sidebar-tree .file a {
  display: block;
  padding: 3px 16px 3px 24px;
  font-size: 0.86rem;
  color: var(--text-muted);
  text-decoration: none;
  border-left: 2px solid transparent;
}
.sidebar-tree .home-link a { padding-left: 16px; }
.sidebar-tree .file a:hover { color: var(--accent); }
.sidebar-tree .file a.active {
  color: var(--accent);
  font-weight: 600;
  border-left-color: var(--accent);
  background: var(--accent-light);
}

.sidebar-overlay { display: none; position: fixed; inset: 0; background: rgba(0,0,0,0.4); z-index: 99; }
.sidebar-overlay.visible { display: block; }

/* ============ Content ============ */
.content { flex: 1; min-width: 0; }
.page-content { max-width: var(--content-max-width); margin: 0 auto; padding: 32px 40px 64px; }
.page-content h1 { font-size: 2rem; margin: 0 0 16px; padding-bottom: 8px; border-bottom: 2px solid var(--border); }
.page-content h2 { font-size: 1.45rem; margin: 32px 0 12px; padding-bottom: 6px; border-bottom: 1px solid var(--border); }
.page-content h3 { font-size: 1.15rem; margin: 24px 0 8px; }
.page-content p, .page-content ul, .page-content ol, .page-content table { margin: 0 0 16px; }
.page-content ul, .page-content ol { padding-left: 24px; }
.page-content a { color: var(--link); text-decoration: none; }
.page-content a:hover { text-decoration: underline; }
.page-content table { border-collapse: collapse; width: 100%; font-size: 0.9rem; }
.page-content th, .page-content td { border: 1px solid var(--border); padding: 6px 10px; text-align: left; }
.page-content th { background: var(--bg-secondary); }
.page-content :not(pre) > code {
  background: var(--code-bg);
  border: 1px solid var(--code-border);
  border-radius: 4px;
  padding: 1px 5px;
  font-size: 0.86em;
}

/* ============ Code blocks ============ */
.code-block {
  margin: 0 0 20px;
  border: 1px solid var(--code-border);
  border-radius: 8px;
  overflow: hidden;
  background: var(--code-bg);
}
.code-header {
  display: flex;
  align-items: center;
  justify-content: flex-end;
  gap: 8px;
  padding: 6px 12px;
  border-bottom: 1px solid var(--code-border);
  font-size: 0.8rem;
  color: var(--text-muted);
}
.code-filename { margin-right: auto; font-family: "SF Mono", Menlo, Consolas, monospace; }
.copy-button {
  background: var(--bg);
  border: 1px solid var(--border);
  border-radius: 4px;
  padding: 2px 10px;
  font-size: 0.78rem;
  color: var(--text-secondary);
  cursor: pointer;
}
.copy-button:hover { border-color: var(--accent); color: var(--accent); }
.copy-button.copied { border-color: var(--success); color: var(--success); }
.code-block pre {
  margin: 0;
  padding: 14px 16px;
  overflow-x: auto;
  font-family: "SF Mono", Menlo, Consolas, monospace;
  font-size: 0.84rem;
  line-height: 1.55;
  background: transparent;
}
.code-block pre[data-fallback] { color: var(--text-secondary); }

/* ============ Tabs ============ */
.tabs { margin: 24px 0; }
.tab-list { display: flex; gap: 4px; border-bottom: 1px solid var(--border); margin-bottom: 16px; }
.tab {
  background: none;
  border: none;
  border-bottom: 2px solid transparent;
  padding: 8px 16px;
  font-size: 0.92rem;
  color: var(--text-secondary);
  cursor: pointer;
}
.tab:hover { color: var(--accent); }
.tab.active { color: var(--accent); border-bottom-color: var(--accent); font-weight: 600; }
.tab-panel[hidden] { display: none; }

/* ============ Examples gallery ============ */
.gallery { margin-top: 24px; }
.gallery-search input {
  width: 100%;
  padding: 10px 14px;
  border: 1px solid var(--border);
  border-radius: 8px;
  font-size: 0.95rem;
  background: var(--bg);
  color: var(--text);
}
.category-tabs { display: flex; flex-wrap: wrap; gap: 8px; margin: 16px 0 24px; }
.category-tab {
  padding: 4px 14px;
  border: 1px solid var(--border);
  border-radius: 16px;
  font-size: 0.85rem;
  color: var(--text-secondary);
  text-decoration: none;
}
.page-content .category-tab:hover { text-decoration: none; border-color: var(--accent); }
.category-tab.active { background: var(--accent); border-color: var(--accent); color: #fff; }
.featured { margin-bottom: 32px; }
.featured[hidden] { display: none; }
.card-grid { display: grid; grid-template-columns: repeat(auto-fill, minmax(260px, 1fr)); gap: 16px; }
.example-card {
  display: flex;
  flex-direction: column;
  gap: 8px;
  padding: 18px;
  border: 1px solid var(--border);
  border-radius: 10px;
  background: var(--bg);
  color: var(--text);
  box-shadow: var(--shadow);
  transition: box-shadow 0.2s, border-color 0.2s;
}
.page-content a.example-card { color: var(--text); }
.page-content a.example-card:hover { text-decoration: none; border-color: var(--accent); box-shadow: var(--shadow-lg); }
.example-card[hidden] { display: none; }
.example-card h3 { margin: 0; font-size: 1.05rem; }
.example-card p { margin: 0; font-size: 0.88rem; color: var(--text-secondary); }
.card-badges { display: flex; gap: 6px; }
.badge { font-size: 0.7rem; font-weight: 700; padding: 1px 8px; border-radius: 10px; }
.badge-new { background: #d3f9d8; color: #2b8a3e; }
.badge-popular { background: #ffe8cc; color: #d9480f; }
.card-features { list-style: none; padding: 0; display: flex; flex-wrap: wrap; gap: 6px; margin: 0; }
.card-features li { font-size: 0.75rem; padding: 1px 8px; border-radius: 4px; background: var(--bg-secondary); color: var(--text-muted); }
.card-meta { display: flex; justify-content: space-between; margin-top: auto; font-size: 0.78rem; color: var(--text-muted); }
.difficulty-beginner { color: var(--success); }
.difficulty-advanced { color: var(--danger); }
.gallery-empty { text-align: center; color: var(--text-muted); padding: 32px 0; }

/* ============ 404 ============ */
.not-found { text-align: center; padding: 64px 0; }
.page-content .not-found h1 { font-size: 4rem; border: none; color: var(--accent); }
.not-found .button {
  display: inline-block;
  margin-top: 16px;
  padding: 8px 20px;
  border-radius: 6px;
  background: var(--accent);
  color: #fff;
}

/* ============ Footer ============ */
.site-footer {
  border-top: 1px solid var(--border);
  padding: 16px 24px;
  text-align: center;
  font-size: 0.8rem;
  color: var(--text-muted);
}

/* ============ Responsive ============ */
@media (max-width: 900px) {
  .menu-toggle { display: block; }
  .header-search { display: none; }
  .sidebar {
    position: fixed;
    left: 0;
    z-index: 100;
    transform: translateX(-100%);
    transition: transform 0.2s;
  }
  .sidebar.open { transform: none; }
  .page-content { padding: 24px 20px 48px; }
}
`

// jsContent is the browser script served at /static/site.js. With
// data-live on <body> it drives tabs and copy buttons through the page's
// websocket session; otherwise it works on the static markup alone.
const jsContent = `(function() {
  "use strict";

  var html = document.documentElement;
  var body = document.body;
  var live = body.getAttribute("data-live") === "true";
  var locale = body.getAttribute("data-locale") || "";
  var labels = {
    copy: body.getAttribute("data-copy-label") || "Copy",
    copied: body.getAttribute("data-copied-label") || "Copied"
  };

  function escapeHtml(str) {
    var div = document.createElement("div");
    div.textContent = str;
    return div.innerHTML;
  }

  // ===== Theme toggle =====
  var themeToggle = document.getElementById("theme-toggle");

  function getStoredTheme() {
    try { return localStorage.getItem("kinlink-theme"); } catch(e) { return null; }
  }

  function setTheme(theme) {
    html.setAttribute("data-theme", theme);
    try { localStorage.setItem("kinlink-theme", theme); } catch(e) {}
  }

  var stored = getStoredTheme();
  if (stored) {
    setTheme(stored);
  } else if (window.matchMedia && window.matchMedia("(prefers-color-scheme: dark)").matches) {
    setTheme("dark");
  }

  if (themeToggle) {
    themeToggle.addEventListener("click", function() {
      var current = html.getAttribute("data-theme") || "light";
      setTheme(current === "dark" ? "light" : "dark");
    });
  }

  // ===== Sidebar =====
  var menuToggle = document.getElementById("menu-toggle");
  var sidebar = document.getElementById("sidebar");
  var overlay = document.getElementById("sidebar-overlay");

  function toggleSidebar() {
    sidebar.classList.toggle("open");
    overlay.classList.toggle("visible");
  }

  if (menuToggle && sidebar) menuToggle.addEventListener("click", toggleSidebar);
  if (overlay && sidebar) overlay.addEventListener("click", toggleSidebar);

  document.querySelectorAll(".dir-toggle").forEach(function(toggle) {
    toggle.addEventListener("click", function() {
      this.parentElement.classList.toggle("expanded");
    });
  });

  // ===== Locale switch remembers the choice =====
  document.querySelectorAll(".locale-switch a").forEach(function(a) {
    a.addEventListener("click", function() {
      document.cookie = "KINLINK_LOCALE=" + a.getAttribute("data-locale") + "; path=/; SameSite=Lax";
    });
  });

  // ===== Live session =====
  var socket = null;
  var queue = [];

  function send(msg) {
    if (!socket) return false;
    if (socket.readyState === WebSocket.OPEN) {
      socket.send(JSON.stringify(msg));
    } else {
      queue.push(msg);
    }
    return true;
  }

  function applyBlocks(blocks) {
    blocks.forEach(function(b) {
      var pre = document.querySelector('pre[data-block="' + b.id + '"]');
      if (!pre || pre.getAttribute("data-highlighted") === "true") return;
      var code = pre.querySelector("code");
      if (!code) return;
      code.innerHTML = b.html;
      pre.setAttribute("data-highlighted", "true");
      if (b.fallback) {
        pre.setAttribute("data-fallback", "true");
      } else {
        pre.classList.add("chroma");
      }
    });
  }

  function setCopied(id, copied) {
    document.querySelectorAll('.copy-button[data-block="' + id + '"]').forEach(function(btn) {
      btn.classList.toggle("copied", copied);
      btn.textContent = copied ? labels.copied : labels.copy;
    });
  }

  function handleMessage(msg) {
    switch (msg.type) {
    case "session":
      body.setAttribute("data-session", msg.session);
      break;
    case "highlighted":
      applyBlocks(msg.blocks || []);
      break;
    case "panel":
      var group = document.querySelector('.tabs[data-tab-group="' + msg.group + '"]');
      if (!group) return;
      var panel = group.querySelector('.tab-panel[data-panel="' + msg.panel + '"]');
      if (panel && panel.getAttribute("data-lazy") === "true") {
        panel.innerHTML = msg.html;
        panel.removeAttribute("data-lazy");
      }
      break;
    case "page":
      var article = document.getElementById("page-content");
      if (article) article.innerHTML = msg.html;
      if (msg.title) document.title = msg.title;
      if (msg.path && msg.path !== location.pathname) history.pushState({}, "", msg.path);
      break;
    case "clipboard":
      navigator.clipboard.writeText(msg.text).then(function() {
        send({ type: "clipboard-ack", seq: msg.seq, ok: true });
      }, function() {
        send({ type: "clipboard-ack", seq: msg.seq, ok: false });
      });
      break;
    case "copied":
      setCopied(msg.block || 0, !!msg.copied);
      break;
    case "reload":
      location.reload();
      break;
    case "error":
      if (window.console) console.warn("live session:", msg.error);
      break;
    }
  }

  if (live && window.WebSocket) {
    var scheme = location.protocol === "https:" ? "wss://" : "ws://";
    var path = body.getAttribute("data-path") || location.pathname;
    socket = new WebSocket(scheme + location.host + "/ws?path=" + encodeURIComponent(path));
    socket.addEventListener("open", function() {
      queue.splice(0).forEach(function(msg) { socket.send(JSON.stringify(msg)); });
    });
    socket.addEventListener("message", function(ev) {
      try { handleMessage(JSON.parse(ev.data)); } catch(e) {}
    });
    socket.addEventListener("close", function() { socket = null; });
  }

  // ===== Tabs =====
  document.addEventListener("click", function(ev) {
    var tab = ev.target.closest(".tab[data-tab-group]");
    if (!tab) return;
    var groupId = tab.getAttribute("data-tab-group");
    var panelId = tab.getAttribute("data-panel");
    var group = tab.closest(".tabs");
    group.querySelectorAll(".tab").forEach(function(t) {
      var active = t === tab;
      t.classList.toggle("active", active);
      t.setAttribute("aria-selected", active ? "true" : "false");
    });
    group.querySelectorAll(".tab-panel").forEach(function(p) {
      p.hidden = p.getAttribute("data-panel") !== panelId;
    });
    send({ type: "select", group: groupId, panel: panelId });
  });

  // ===== Copy buttons =====
  var resetTimers = {};

  document.addEventListener("click", function(ev) {
    var btn = ev.target.closest(".copy-button[data-block]");
    if (!btn) return;
    var id = parseInt(btn.getAttribute("data-block"), 10);
    if (send({ type: "copy", block: id })) return;

    var pre = btn.closest(".code-block").querySelector("pre");
    navigator.clipboard.writeText(pre.textContent).then(function() {
      setCopied(id, true);
      clearTimeout(resetTimers[id]);
      resetTimers[id] = setTimeout(function() { setCopied(id, false); }, 2000);
    }, function(err) {
      if (window.console) console.warn("copy failed:", err);
    });
  });

  // ===== Search =====
  var searchInput = document.getElementById("search-input");
  var searchResults = document.getElementById("search-results");
  var staticIndex = null;
  var searchTimer = null;

  function showResults(results) {
    if (results.length === 0) {
      searchResults.innerHTML = '<div class="search-empty">' + escapeHtml(searchInput.getAttribute("data-empty") || "") + '</div>';
    } else {
      searchResults.innerHTML = results.map(function(r) {
        return '<a href="' + escapeHtml(r.route) + '"><div class="result-title">' + escapeHtml(r.title) + '</div>' +
          (r.snippet || r.description ? '<div class="result-snippet">' + escapeHtml(r.snippet || r.description) + '</div>' : '') + '</a>';
      }).join("");
    }
    searchResults.hidden = false;
  }

  function searchStatic(query) {
    var q = query.toLowerCase();
    var run = function() {
      var hits = staticIndex.filter(function(e) {
        return e.locale === locale && (e.title + " " + (e.description || "") + " " + (e.body || "")).toLowerCase().indexOf(q) !== -1;
      }).slice(0, 8);
      showResults(hits);
    };
    if (staticIndex) return run();
    fetch("/search-index.json")
      .then(function(r) { return r.json(); })
      .then(function(data) { staticIndex = data; run(); })
      .catch(function() { staticIndex = []; run(); });
  }

  function searchLive(query) {
    fetch("/api/search?q=" + encodeURIComponent(query) + "&locale=" + encodeURIComponent(locale))
      .then(function(r) { return r.json(); })
      .then(function(data) { showResults(data.results || []); })
      .catch(function() { showResults([]); });
  }

  if (searchInput && searchResults) {
    searchInput.addEventListener("input", function() {
      var query = this.value.trim();
      clearTimeout(searchTimer);
      if (query === "") {
        searchResults.hidden = true;
        return;
      }
      searchTimer = setTimeout(function() {
        if (live) { searchLive(query); } else { searchStatic(query); }
      }, 150);
    });
    document.addEventListener("click", function(ev) {
      if (!ev.target.closest(".header-search")) searchResults.hidden = true;
    });
    searchInput.addEventListener("keydown", function(ev) {
      if (ev.key === "Escape") { searchResults.hidden = true; this.blur(); }
    });
  }

  // ===== Examples gallery =====
  var gallery = document.getElementById("gallery");
  if (gallery) {
    var queryInput = document.getElementById("gallery-query");
    var categoryInput = document.getElementById("gallery-category");
    var featured = document.getElementById("gallery-featured");
    var empty = document.getElementById("gallery-empty");
    var cards = gallery.querySelectorAll("#gallery-grid .example-card");

    var filter = function() {
      var q = queryInput.value.trim().toLowerCase();
      var cat = categoryInput.value || "all";
      var shown = 0;
      cards.forEach(function(card) {
        var matchQuery = q === "" || card.getAttribute("data-keywords").indexOf(q) !== -1;
        var matchCat = cat === "all" || card.getAttribute("data-category").indexOf(cat) !== -1;
        card.hidden = !(matchQuery && matchCat);
        if (!card.hidden) shown++;
      });
      if (featured) featured.hidden = q !== "" || cat !== "all";
      empty.hidden = shown !== 0;
      gallery.querySelectorAll(".category-tab").forEach(function(t) {
        var active = t.getAttribute("data-category") === cat;
        t.classList.toggle("active", active);
        t.setAttribute("aria-selected", active ? "true" : "false");
      });
      var params = new URLSearchParams();
      if (q) params.set("q", q);
      if (cat !== "all") params.set("category", cat);
      var qs = params.toString();
      history.replaceState({}, "", location.pathname + (qs ? "?" + qs : ""));
    };

    queryInput.addEventListener("input", filter);
    document.getElementById("gallery-form").addEventListener("submit", function(ev) { ev.preventDefault(); filter(); });
    gallery.querySelectorAll(".category-tab").forEach(function(t) {
      t.addEventListener("click", function(ev) {
        ev.preventDefault();
        categoryInput.value = t.getAttribute("data-category");
        filter();
      });
    });
  }
})();
`
