package content

import (
	"bytes"
	"fmt"
	"html"
	"io/fs"
	"path"
	"regexp"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"
)

// Site is the full content set: pages, samples and catalogs per locale.
type Site struct {
	Locales []string

	pages    map[string]map[string]*Page
	samples  map[string]Sample
	catalogs map[string]*Catalog
	messages map[string]map[string]string
}

// frontMatter is the YAML header of a page file.
type frontMatter struct {
	Title        string `yaml:"title"`
	Description  string `yaml:"description"`
	Route        string `yaml:"route"`
	Section      string `yaml:"section"`
	SectionOrder int    `yaml:"section_order"`
	Order        int    `yaml:"order"`
	Tabs         string `yaml:"tabs"`
}

var (
	panelMarker = regexp.MustCompile(`^<!--\s*panel:\s*([a-z0-9-]+)\s*\|\s*(.*?)\s*-->\s*$`)
	sampleLine  = regexp.MustCompile(`^@sample\s+(\S+)\s*$`)
)

// sampleLanguages maps sample file extensions to language tags.
var sampleLanguages = map[string]string{
	".js":   "javascript",
	".ts":   "typescript",
	".css":  "css",
	".json": "json",
	".sh":   "bash",
	".html": "html",
}

// Load reads pages, samples, catalogs and messages from fsys for every
// locale in locales.
func Load(fsys fs.FS, locales []string) (*Site, error) {
	s := &Site{
		Locales:  locales,
		pages:    make(map[string]map[string]*Page),
		samples:  make(map[string]Sample),
		catalogs: make(map[string]*Catalog),
		messages: make(map[string]map[string]string),
	}

	if err := s.loadSamples(fsys); err != nil {
		return nil, err
	}

	for _, locale := range locales {
		if err := s.loadPages(fsys, locale); err != nil {
			return nil, err
		}
		if err := s.loadCatalog(fsys, locale); err != nil {
			return nil, err
		}
		if err := s.loadMessages(fsys, locale); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *Site) loadSamples(fsys fs.FS) error {
	matches, err := doublestar.Glob(fsys, "samples/*.*")
	if err != nil {
		return fmt.Errorf("globbing samples: %w", err)
	}
	for _, p := range matches {
		lang, ok := sampleLanguages[path.Ext(p)]
		if !ok {
			continue
		}
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return fmt.Errorf("reading sample %s: %w", p, err)
		}
		name := path.Base(p)
		src := string(data)
		s.samples[name] = Sample{
			Name:       name,
			Title:      sampleTitle(src, name),
			CodeSample: CodeSample{Source: src, Language: lang, Filename: name},
		}
	}
	return nil
}

// sampleTitle returns the first text line of a leading block comment.
func sampleTitle(src, fallback string) string {
	for _, line := range strings.Split(src, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case line == "" || line == "/**" || line == "/*":
			continue
		case strings.HasPrefix(line, "* "):
			return strings.TrimPrefix(line, "* ")
		case strings.HasPrefix(line, "// "):
			return strings.TrimPrefix(line, "// ")
		default:
			return fallback
		}
	}
	return fallback
}

func (s *Site) loadPages(fsys fs.FS, locale string) error {
	root := "pages/" + locale
	if _, err := fs.Stat(fsys, root); err != nil {
		return fmt.Errorf("locale %s: %w", locale, err)
	}
	matches, err := doublestar.Glob(fsys, root+"/**/*.md")
	if err != nil {
		return fmt.Errorf("globbing pages: %w", err)
	}

	pages := make(map[string]*Page)
	for _, p := range matches {
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return fmt.Errorf("reading %s: %w", p, err)
		}
		page, err := s.parsePage(data, locale, strings.TrimPrefix(p, root+"/"))
		if err != nil {
			return fmt.Errorf("parsing %s: %w", p, err)
		}
		page.Path = p
		if prev, dup := pages[page.Route]; dup {
			return fmt.Errorf("route %s defined by both %s and %s", page.Route, prev.Path, p)
		}
		pages[page.Route] = page
	}
	s.pages[locale] = pages
	return nil
}

// routeFor maps a page path relative to its locale root to a route:
// index.md -> /, docs/index.md -> /docs, docs/installation.md -> /docs/installation.
func routeFor(rel string) string {
	rel = strings.TrimSuffix(rel, ".md")
	if rel == "index" {
		return "/"
	}
	return "/" + strings.TrimSuffix(rel, "/index")
}

// splitFrontMatter separates a leading "---" delimited YAML header from the
// page body. CRLF line endings are normalized first; the header may be empty
// and its closing delimiter may end the file.
func splitFrontMatter(data []byte) (header, body []byte, err error) {
	data = bytes.ReplaceAll(data, []byte("\r\n"), []byte("\n"))
	if !bytes.HasPrefix(data, []byte("---\n")) {
		return nil, data, nil
	}
	rest := data[4:]
	if bytes.HasPrefix(rest, []byte("---\n")) || bytes.Equal(rest, []byte("---")) {
		return nil, bytes.TrimPrefix(rest[3:], []byte("\n")), nil
	}
	if end := bytes.Index(rest, []byte("\n---\n")); end >= 0 {
		return rest[:end], rest[end+5:], nil
	}
	if bytes.HasSuffix(rest, []byte("\n---")) {
		return rest[:len(rest)-4], nil, nil
	}
	return nil, nil, fmt.Errorf("unterminated front matter")
}

func (s *Site) parsePage(data []byte, locale, rel string) (*Page, error) {
	var fm frontMatter
	header, body, err := splitFrontMatter(data)
	if err != nil {
		return nil, err
	}
	if len(header) > 0 {
		if err := yaml.Unmarshal(header, &fm); err != nil {
			return nil, fmt.Errorf("front matter: %w", err)
		}
	}

	page := &Page{
		Locale:       locale,
		Route:        routeFor(rel),
		Title:        fm.Title,
		Description:  fm.Description,
		Section:      fm.Section,
		SectionOrder: fm.SectionOrder,
		Order:        fm.Order,
	}
	if fm.Route != "" {
		page.Route = fm.Route
	}

	expanded, err := s.expandSamples(string(body))
	if err != nil {
		return nil, err
	}
	page.Body, page.Tabs = splitPanels(expanded)
	if page.Tabs != nil {
		page.Tabs.Default = fm.Tabs
		if page.Tabs.Default == "" {
			page.Tabs.Default = page.Tabs.Panels[0].ID
		}
		if _, ok := page.Tabs.Panel(page.Tabs.Default); !ok {
			return nil, fmt.Errorf("default tab %q has no panel", page.Tabs.Default)
		}
	}
	if page.Title == "" {
		page.Title = extractTitle(page.Body, rel)
	}
	return page, nil
}

// splitPanels cuts body at panel markers. Text before the first marker is
// the page body.
func splitPanels(body string) (string, *TabGroup) {
	lines := strings.Split(body, "\n")
	var head []string
	var group *TabGroup
	var cur []string

	flush := func() {
		if group != nil && len(group.Panels) > 0 {
			group.Panels[len(group.Panels)-1].Body = strings.TrimSpace(strings.Join(cur, "\n"))
		}
		cur = nil
	}

	for _, line := range lines {
		if m := panelMarker.FindStringSubmatch(strings.TrimSpace(line)); m != nil {
			flush()
			if group == nil {
				group = &TabGroup{ID: "tabs"}
			}
			group.Panels = append(group.Panels, Panel{ID: m[1], Label: m[2]})
			continue
		}
		if group == nil {
			head = append(head, line)
		} else {
			cur = append(cur, line)
		}
	}
	flush()
	return strings.TrimSpace(strings.Join(head, "\n")), group
}

// expandSamples replaces "@sample name" lines with a raw <pre> block that
// carries the sample's filename.
func (s *Site) expandSamples(body string) (string, error) {
	lines := strings.Split(body, "\n")
	for i, line := range lines {
		m := sampleLine.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}
		sample, ok := s.samples[m[1]]
		if !ok {
			return "", fmt.Errorf("sample %q: %w", m[1], ErrNotFound)
		}
		lines[i] = SampleHTML(sample)
	}
	return strings.Join(lines, "\n"), nil
}

// SampleHTML renders sample as a raw HTML code block.
func SampleHTML(sample Sample) string {
	return fmt.Sprintf("<pre data-filename=\"%s\" data-sample=\"%s\"><code class=\"language-%s\">%s</code></pre>\n",
		html.EscapeString(sample.Filename),
		html.EscapeString(sample.Name),
		html.EscapeString(sample.Language),
		html.EscapeString(strings.TrimRight(sample.Source, "\n")),
	)
}

// extractTitle pulls the first # heading from markdown, or falls back to the file name.
func extractTitle(body, rel string) string {
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "# ") {
			return strings.TrimPrefix(line, "# ")
		}
	}
	return strings.TrimSuffix(path.Base(rel), ".md")
}

func (s *Site) loadCatalog(fsys fs.FS, locale string) error {
	data, err := fs.ReadFile(fsys, "catalog/"+locale+".yaml")
	if err != nil {
		return fmt.Errorf("reading catalog for %s: %w", locale, err)
	}
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return fmt.Errorf("parsing catalog for %s: %w", locale, err)
	}
	for i := range c.Examples {
		if c.Examples[i].Difficulty == "" {
			c.Examples[i].Difficulty = DefaultDifficulty
		}
	}
	s.catalogs[locale] = &c
	return nil
}

func (s *Site) loadMessages(fsys fs.FS, locale string) error {
	data, err := fs.ReadFile(fsys, "messages/"+locale+".yaml")
	if err != nil {
		return fmt.Errorf("reading messages for %s: %w", locale, err)
	}
	m := make(map[string]string)
	if err := yaml.Unmarshal(data, &m); err != nil {
		return fmt.Errorf("parsing messages for %s: %w", locale, err)
	}
	s.messages[locale] = m
	return nil
}

// Page returns the page for route in locale.
func (s *Site) Page(locale, route string) (*Page, error) {
	pages, ok := s.pages[locale]
	if !ok {
		return nil, fmt.Errorf("locale %q: %w", locale, ErrNotFound)
	}
	p, ok := pages[route]
	if !ok {
		return nil, fmt.Errorf("page %s%s: %w", locale, route, ErrNotFound)
	}
	return p, nil
}

// Pages returns every page of locale sorted by route.
func (s *Site) Pages(locale string) []*Page {
	var out []*Page
	for _, p := range s.pages[locale] {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Route < out[j].Route })
	return out
}

// Sample returns the named sample.
func (s *Site) Sample(name string) (Sample, error) {
	sample, ok := s.samples[name]
	if !ok {
		return Sample{}, fmt.Errorf("sample %q: %w", name, ErrNotFound)
	}
	return sample, nil
}

// Samples returns every sample sorted by name.
func (s *Site) Samples() []Sample {
	out := make([]Sample, 0, len(s.samples))
	for _, sample := range s.samples {
		out = append(out, sample)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Catalog returns the examples gallery of locale.
func (s *Site) Catalog(locale string) *Catalog {
	if c, ok := s.catalogs[locale]; ok {
		return c
	}
	return &Catalog{}
}

// Messages returns the UI strings of locale.
func (s *Site) Messages(locale string) map[string]string {
	return s.messages[locale]
}

// Sidebar groups the pages of locale that declare a section, ordered by
// section_order then order.
func (s *Site) Sidebar(locale string) []SidebarSection {
	type entry struct {
		order int
		item  SidebarItem
	}
	sectionOrder := make(map[string]int)
	entries := make(map[string][]entry)
	for _, p := range s.pages[locale] {
		if p.Section == "" {
			continue
		}
		if _, seen := sectionOrder[p.Section]; !seen || p.SectionOrder < sectionOrder[p.Section] {
			sectionOrder[p.Section] = p.SectionOrder
		}
		entries[p.Section] = append(entries[p.Section], entry{p.Order, SidebarItem{Title: p.Title, Route: p.Route}})
	}

	titles := make([]string, 0, len(entries))
	for t := range entries {
		titles = append(titles, t)
	}
	sort.Slice(titles, func(i, j int) bool {
		if sectionOrder[titles[i]] != sectionOrder[titles[j]] {
			return sectionOrder[titles[i]] < sectionOrder[titles[j]]
		}
		return titles[i] < titles[j]
	})

	out := make([]SidebarSection, 0, len(titles))
	for _, t := range titles {
		es := entries[t]
		sort.Slice(es, func(i, j int) bool {
			if es[i].order != es[j].order {
				return es[i].order < es[j].order
			}
			return es[i].item.Route < es[j].item.Route
		})
		sec := SidebarSection{Title: t}
		for _, e := range es {
			sec.Items = append(sec.Items, e.item)
		}
		out = append(out, sec)
	}
	return out
}
