// Package render turns content pages into HTML and builds the per-page
// code-block arena the highlight controller works on.
package render

import (
	"bytes"
	"fmt"
	"html"
	"strconv"
	"strings"
	"sync"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	gmhtml "github.com/yuin/goldmark/renderer/html"
	xhtml "golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/ziadkadry99/kinlink-docs/internal/content"
	"github.com/ziadkadry99/kinlink-docs/internal/highlight"
)

// Options control how a page is rendered.
type Options struct {
	// CopyLabel is the text of copy buttons.
	CopyLabel string
	// MountAll mounts every panel up front, as a static export needs.
	MountAll bool
}

// Renderer converts markdown to HTML.
type Renderer struct {
	md goldmark.Markdown
}

// New creates a renderer with GFM, heading ids and raw HTML passthrough.
func New() *Renderer {
	return &Renderer{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithParserOptions(parser.WithAutoHeadingID()),
			goldmark.WithRendererOptions(gmhtml.WithUnsafe()),
		),
	}
}

// PanelKey is the arena panel name of a tab panel.
func PanelKey(group, panel string) string {
	return group + "/" + panel
}

type blockNodes struct {
	pre     *xhtml.Node
	code    *xhtml.Node
	applied bool
}

// Page is a rendered page. Its node tree is rewritten in place as blocks
// get marked, so serialization always reflects the current marks.
type Page struct {
	Source *content.Page
	Doc    *highlight.Document

	opts Options

	mu     sync.Mutex
	body   *xhtml.Node
	panels map[string]*xhtml.Node
	blocks []*blockNodes
}

// Render converts page and registers every code block in a new Document.
// The body and the default panel are mounted.
func (r *Renderer) Render(page *content.Page, opts Options) (*Page, error) {
	if opts.CopyLabel == "" {
		opts.CopyLabel = "Copy"
	}
	p := &Page{
		Source: page,
		Doc:    highlight.NewDocument(page.Route),
		opts:   opts,
		panels: make(map[string]*xhtml.Node),
	}

	body, err := r.fragment(page.Body)
	if err != nil {
		return nil, fmt.Errorf("rendering %s: %w", page.Route, err)
	}
	p.body = body
	p.collect(body, highlight.BodyPanel)

	if g := page.Tabs; g != nil {
		for _, panel := range g.Panels {
			root, err := r.fragment(panel.Body)
			if err != nil {
				return nil, fmt.Errorf("rendering %s panel %s: %w", page.Route, panel.ID, err)
			}
			p.panels[panel.ID] = root
			p.collect(root, PanelKey(g.ID, panel.ID))
			if opts.MountAll || panel.ID == g.Default {
				p.Doc.Mount(PanelKey(g.ID, panel.ID))
			}
		}
	}
	return p, nil
}

// fragment renders markdown and parses the result under a detached <div>.
func (r *Renderer) fragment(md string) (*xhtml.Node, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(md), &buf); err != nil {
		return nil, fmt.Errorf("markdown: %w", err)
	}
	root := &xhtml.Node{Type: xhtml.ElementNode, Data: "div", DataAtom: atom.Div}
	nodes, err := xhtml.ParseFragment(&buf, root)
	if err != nil {
		return nil, fmt.Errorf("parsing html: %w", err)
	}
	for _, n := range nodes {
		root.AppendChild(n)
	}
	return root, nil
}

// collect registers every <pre><code> under root as a block of panel and
// wraps it with a header holding the filename and copy button.
func (p *Page) collect(root *xhtml.Node, panel string) {
	var pres []*xhtml.Node
	var walk func(*xhtml.Node)
	walk = func(n *xhtml.Node) {
		if n.Type == xhtml.ElementNode && n.DataAtom == atom.Pre {
			pres = append(pres, n)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)

	for _, pre := range pres {
		code := firstElement(pre)
		if code == nil || code.DataAtom != atom.Code {
			continue
		}
		sample := content.CodeSample{
			Source:   strings.TrimSuffix(textContent(code), "\n"),
			Language: languageOf(code),
			Filename: attr(pre, "data-filename"),
		}
		b := p.Doc.Add(panel, sample)
		setAttr(pre, "data-block", strconv.Itoa(b.ID))
		if sample.Language != "" {
			setAttr(pre, "data-language", sample.Language)
		}
		p.wrap(pre, b.ID, sample.Filename)
		p.blocks = append(p.blocks, &blockNodes{pre: pre, code: code})
	}
}

func (p *Page) wrap(pre *xhtml.Node, id int, filename string) {
	wrapper := element("div", "class", "code-block", "data-block", strconv.Itoa(id))
	header := element("div", "class", "code-header")
	if filename != "" {
		name := element("span", "class", "code-filename")
		name.AppendChild(&xhtml.Node{Type: xhtml.TextNode, Data: filename})
		header.AppendChild(name)
	}
	button := element("button", "type", "button", "class", "copy-button", "data-block", strconv.Itoa(id))
	button.AppendChild(&xhtml.Node{Type: xhtml.TextNode, Data: p.opts.CopyLabel})
	header.AppendChild(button)
	wrapper.AppendChild(header)

	pre.Parent.InsertBefore(wrapper, pre)
	pre.Parent.RemoveChild(pre)
	wrapper.AppendChild(pre)
}

// apply rewrites newly marked blocks. Callers hold p.mu.
func (p *Page) apply() {
	for i, bn := range p.blocks {
		if bn.applied {
			continue
		}
		b, ok := p.Doc.Block(i)
		if !ok {
			continue
		}
		out, ok := b.Output()
		if !ok {
			continue
		}
		for c := bn.code.FirstChild; c != nil; {
			next := c.NextSibling
			bn.code.RemoveChild(c)
			c = next
		}
		bn.code.AppendChild(&xhtml.Node{Type: xhtml.RawNode, Data: out})
		setAttr(bn.pre, "data-highlighted", "true")
		if b.Fallback() {
			setAttr(bn.pre, "data-fallback", "true")
		} else {
			setAttr(bn.pre, "class", strings.TrimSpace(attr(bn.pre, "class")+" chroma"))
		}
		bn.applied = true
	}
}

// BodyHTML serializes the prose outside any tab group.
func (p *Page) BodyHTML() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.apply()
	return children(p.body)
}

// PanelHTML serializes the content of a tab panel. ok is false for unknown
// or unmounted panels.
func (p *Page) PanelHTML(panel string) (string, bool) {
	g := p.Source.Tabs
	if g == nil || !p.Doc.Mounted(PanelKey(g.ID, panel)) {
		return "", false
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	root, ok := p.panels[panel]
	if !ok {
		return "", false
	}
	p.apply()
	return children(root), true
}

// HTML serializes the whole article with active as the visible panel. An
// empty active selects the group's default. Unmounted panels are emitted
// as empty lazy shells.
func (p *Page) HTML(active string) string {
	var sb strings.Builder
	sb.WriteString(p.BodyHTML())

	g := p.Source.Tabs
	if g == nil {
		return sb.String()
	}
	if active == "" {
		active = g.Default
	}

	fmt.Fprintf(&sb, "<div class=\"tabs\" data-tab-group=\"%s\">", html.EscapeString(g.ID))
	sb.WriteString("<div class=\"tab-list\" role=\"tablist\">")
	for _, panel := range g.Panels {
		cls := "tab"
		if panel.ID == active {
			cls += " active"
		}
		fmt.Fprintf(&sb, "<button type=\"button\" role=\"tab\" class=\"%s\" data-tab-group=\"%s\" data-panel=\"%s\" aria-selected=\"%t\">%s</button>",
			cls, html.EscapeString(g.ID), html.EscapeString(panel.ID), panel.ID == active, html.EscapeString(panel.Label))
	}
	sb.WriteString("</div>")

	for _, panel := range g.Panels {
		fmt.Fprintf(&sb, "<div class=\"tab-panel\" role=\"tabpanel\" data-panel=\"%s\"", html.EscapeString(panel.ID))
		if panel.ID != active {
			sb.WriteString(" hidden")
		}
		inner, mounted := p.PanelHTML(panel.ID)
		if !mounted {
			sb.WriteString(" data-lazy=\"true\"")
		}
		sb.WriteString(">")
		sb.WriteString(inner)
		sb.WriteString("</div>")
	}
	sb.WriteString("</div>")
	return sb.String()
}

// Text returns the prose of the page, code blocks and buttons excluded.
func (p *Page) Text() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	var sb strings.Builder
	proseText(&sb, p.body)
	if g := p.Source.Tabs; g != nil {
		for _, panel := range g.Panels {
			proseText(&sb, p.panels[panel.ID])
		}
	}
	return strings.Join(strings.Fields(sb.String()), " ")
}
