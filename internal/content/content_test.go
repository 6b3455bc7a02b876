package content

import (
	"errors"
	"strings"
	"testing"
	"testing/fstest"
)

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"samples/hello.js":       {Data: []byte("/**\n * Say hello\n */\nconsole.log('<hi>');\n")},
		"samples/notes.txt":      {Data: []byte("ignored")},
		"pages/en/index.md":      {Data: []byte("---\ntitle: Home\n---\n# Welcome\n")},
		"pages/en/docs/index.md": {Data: []byte("---\nsection: Start\nsection_order: 1\norder: 1\n---\n# Intro\n\ntext\n")},
		"pages/en/docs/setup.md": {Data: []byte("---\ntitle: Setup\nsection: Start\nsection_order: 1\norder: 2\n---\nbody\n")},
		"pages/en/docs/api.md":   {Data: []byte("---\ntitle: API\nsection: Reference\nsection_order: 2\n---\nbody\n")},
		"pages/en/examples/hello.md": {Data: []byte(strings.Join([]string{
			"---",
			"title: Hello",
			"tabs: code",
			"---",
			"intro",
			"",
			"<!-- panel: overview | Overview -->",
			"about",
			"",
			"<!-- panel: code | Code -->",
			"@sample hello.js",
			"",
		}, "\n"))},
		"catalog/en.yaml": {Data: []byte(`
categories:
  - slug: all
    label: All
  - slug: validation
    label: Validation
examples:
  - title: Custom Validation
    description: Validate input
    category: validation
    features: [Validators]
    href: /examples/custom-validation
    popular: true
  - title: Field Linking
    description: Link fields
    category: form-manipulation
    features: [Conditional logic]
    href: /examples/field-linking
    difficulty: Advanced
`)},
		"messages/en.yaml": {Data: []byte("copy.copy: Copy\ncopy.copied: Copied\n")},
	}
}

func TestLoad(t *testing.T) {
	site, err := Load(testFS(), []string{"en"})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if got := len(site.Pages("en")); got != 5 {
		t.Errorf("pages = %d, want 5", got)
	}
	if got := len(site.Samples()); got != 1 {
		t.Fatalf("samples = %d, want 1 (non-code files skipped)", got)
	}

	sample, err := site.Sample("hello.js")
	if err != nil {
		t.Fatalf("Sample: %v", err)
	}
	if sample.Title != "Say hello" {
		t.Errorf("sample title = %q, want %q", sample.Title, "Say hello")
	}
	if sample.Language != "javascript" {
		t.Errorf("sample language = %q, want javascript", sample.Language)
	}

	if got := site.Messages("en")["copy.copied"]; got != "Copied" {
		t.Errorf("message = %q, want Copied", got)
	}
}

func TestRouteFor(t *testing.T) {
	tests := []struct {
		rel  string
		want string
	}{
		{"index.md", "/"},
		{"docs/index.md", "/docs"},
		{"docs/installation.md", "/docs/installation"},
		{"docs/api-reference/index.md", "/docs/api-reference"},
		{"reindex.md", "/reindex"},
	}
	for _, tt := range tests {
		if got := routeFor(tt.rel); got != tt.want {
			t.Errorf("routeFor(%q) = %q, want %q", tt.rel, got, tt.want)
		}
	}
}

func TestPageTitleFallback(t *testing.T) {
	site, err := Load(testFS(), []string{"en"})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	p, err := site.Page("en", "/docs")
	if err != nil {
		t.Fatalf("Page: %v", err)
	}
	if p.Title != "Intro" {
		t.Errorf("title = %q, want Intro (from heading)", p.Title)
	}
}

func TestPageTabs(t *testing.T) {
	site, err := Load(testFS(), []string{"en"})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	p, err := site.Page("en", "/examples/hello")
	if err != nil {
		t.Fatalf("Page: %v", err)
	}
	if p.Body != "intro" {
		t.Errorf("body = %q, want intro", p.Body)
	}
	if p.Tabs == nil {
		t.Fatal("expected tab group")
	}
	if p.Tabs.Default != "code" {
		t.Errorf("default = %q, want code", p.Tabs.Default)
	}
	if len(p.Tabs.Panels) != 2 {
		t.Fatalf("panels = %d, want 2", len(p.Tabs.Panels))
	}
	code, ok := p.Tabs.Panel("code")
	if !ok {
		t.Fatal("code panel missing")
	}
	if !strings.Contains(code.Body, `data-sample="hello.js"`) {
		t.Errorf("code panel does not embed sample: %q", code.Body)
	}
	if !strings.Contains(code.Body, "&lt;hi&gt;") {
		t.Errorf("sample source not escaped: %q", code.Body)
	}
	if code.Label != "Code" {
		t.Errorf("label = %q, want Code", code.Label)
	}
}

func TestPageNotFound(t *testing.T) {
	site, err := Load(testFS(), []string{"en"})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, err := site.Page("en", "/missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
	if _, err := site.Page("fr", "/"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
	if _, err := site.Sample("nope.js"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		edit func(fstest.MapFS)
	}{
		{"missing sample", func(m fstest.MapFS) {
			m["pages/en/bad.md"] = &fstest.MapFile{Data: []byte("@sample missing.js\n")}
		}},
		{"unknown default tab", func(m fstest.MapFS) {
			m["pages/en/bad.md"] = &fstest.MapFile{Data: []byte("---\ntabs: nope\n---\n<!-- panel: a | A -->\nx\n")}
		}},
		{"unterminated front matter", func(m fstest.MapFS) {
			m["pages/en/bad.md"] = &fstest.MapFile{Data: []byte("---\ntitle: x\n")}
		}},
		{"duplicate route", func(m fstest.MapFS) {
			m["pages/en/dup.md"] = &fstest.MapFile{Data: []byte("---\nroute: /docs/setup\n---\nx\n")}
		}},
		{"missing catalog", func(m fstest.MapFS) {
			delete(m, "catalog/en.yaml")
		}},
		{"missing locale", func(m fstest.MapFS) {
			delete(m, "pages/en/index.md")
			delete(m, "pages/en/docs/index.md")
			delete(m, "pages/en/docs/setup.md")
			delete(m, "pages/en/docs/api.md")
			delete(m, "pages/en/examples/hello.md")
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fsys := testFS()
			tt.edit(fsys)
			if _, err := Load(fsys, []string{"en"}); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestSidebar(t *testing.T) {
	site, err := Load(testFS(), []string{"en"})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	sections := site.Sidebar("en")
	if len(sections) != 2 {
		t.Fatalf("sections = %d, want 2", len(sections))
	}
	if sections[0].Title != "Start" || sections[1].Title != "Reference" {
		t.Errorf("section order = %q, %q", sections[0].Title, sections[1].Title)
	}
	if len(sections[0].Items) != 2 || sections[0].Items[0].Route != "/docs" || sections[0].Items[1].Route != "/docs/setup" {
		t.Errorf("start items = %+v", sections[0].Items)
	}
}

func TestCatalogFilter(t *testing.T) {
	site, err := Load(testFS(), []string{"en"})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	cat := site.Catalog("en")

	tests := []struct {
		query    string
		category string
		want     int
	}{
		{"", "", 2},
		{"", AllCategories, 2},
		{"", "validation", 1},
		{"LINK", "", 1},
		{"conditional", "", 1},
		{"validate", "form-manipulation", 0},
		{"nothing", "", 0},
	}
	for _, tt := range tests {
		if got := len(cat.Filter(tt.query, tt.category)); got != tt.want {
			t.Errorf("Filter(%q, %q) = %d, want %d", tt.query, tt.category, got, tt.want)
		}
	}

	if cat.Examples[0].Difficulty != DefaultDifficulty {
		t.Errorf("difficulty = %q, want default", cat.Examples[0].Difficulty)
	}
	if cat.Examples[1].Difficulty != "Advanced" {
		t.Errorf("difficulty = %q, want Advanced", cat.Examples[1].Difficulty)
	}
	if got := len(cat.Featured()); got != 1 {
		t.Errorf("featured = %d, want 1", got)
	}
	if got := cat.CategoryLabel("validation"); got != "Validation" {
		t.Errorf("label = %q", got)
	}
	if got := cat.CategoryLabel("unknown"); got != "unknown" {
		t.Errorf("label = %q", got)
	}
}

func TestEmbeddedContent(t *testing.T) {
	site, err := Load(Embedded(), []string{"zh", "en"})
	if err != nil {
		t.Fatalf("Load embedded: %v", err)
	}
	for _, locale := range []string{"zh", "en"} {
		if _, err := site.Page(locale, "/"); err != nil {
			t.Errorf("%s home: %v", locale, err)
		}
		p, err := site.Page(locale, "/examples/field-linking")
		if err != nil {
			t.Fatalf("%s field-linking: %v", locale, err)
		}
		if p.Tabs == nil || p.Tabs.Default != "overview" {
			t.Errorf("%s field-linking tabs = %+v", locale, p.Tabs)
		}
		for _, ex := range site.Catalog(locale).Examples {
			if _, err := site.Page(locale, ex.Href); err != nil {
				t.Errorf("%s catalog href %s: %v", locale, ex.Href, err)
			}
		}
	}
	if len(site.Pages("zh")) != len(site.Pages("en")) {
		t.Errorf("zh has %d pages, en has %d", len(site.Pages("zh")), len(site.Pages("en")))
	}
}

func TestFrontMatterVariants(t *testing.T) {
	tests := []struct {
		name      string
		data      string
		wantTitle string
		wantOrder int
	}{
		{"crlf", "---\r\ntitle: Win\r\norder: 3\r\n---\r\n# Heading\r\n", "Win", 3},
		{"empty header", "---\n---\n# Bare\n", "Bare", 0},
		{"empty header crlf", "---\r\n---\r\n# Bare\r\n", "Bare", 0},
		{"closed at eof", "---\ntitle: Only\n---", "Only", 0},
		{"no header", "# Plain\n", "Plain", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fsys := testFS()
			fsys["pages/en/variant.md"] = &fstest.MapFile{Data: []byte(tt.data)}
			site, err := Load(fsys, []string{"en"})
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			p, err := site.Page("en", "/variant")
			if err != nil {
				t.Fatalf("Page: %v", err)
			}
			if p.Title != tt.wantTitle {
				t.Errorf("title = %q, want %q", p.Title, tt.wantTitle)
			}
			if p.Order != tt.wantOrder {
				t.Errorf("order = %d, want %d", p.Order, tt.wantOrder)
			}
			if strings.Contains(p.Body, "---") || strings.Contains(p.Body, "\r") {
				t.Errorf("body kept header residue: %q", p.Body)
			}
		})
	}
}
