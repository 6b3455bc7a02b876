package site

import (
	"html/template"
	"io"
	"strings"

	"golang.org/x/text/language/display"

	"github.com/ziadkadry99/kinlink-docs/internal/content"
	"github.com/ziadkadry99/kinlink-docs/internal/i18n"
)

var pageTmpl = template.Must(template.New("page").Funcs(template.FuncMap{
	"lower": strings.ToLower,
}).Parse(pageTemplate))

// pageData holds the data passed to the HTML template for each page.
type pageData struct {
	Lang        string
	Locale      string
	SiteName    string
	Title       string
	Description string
	// Path is the public path of the page, used to attach a live session.
	Path string
	// Area is "docs" or "examples" and highlights the top navigation.
	Area         string
	HomeHref     string
	DocsHref     string
	ExamplesHref string
	Locales      []localeLink
	Sidebar      template.HTML
	Content      template.HTML
	Gallery      *galleryData
	NotFound     bool
	Live         bool
	Msg          func(key string, args ...any) string
}

type localeLink struct {
	Code   string
	Label  string
	Href   string
	Active bool
}

type galleryData struct {
	Query      string
	Category   string
	Categories []categoryTab
	Examples   []exampleCard
	Featured   []exampleCard
}

type categoryTab struct {
	Slug   string
	Label  string
	Active bool
}

// exampleCard is a catalog example prepared for one locale: Href is the
// public path and Keywords the lowercased text the gallery filter matches.
type exampleCard struct {
	content.Example
	CategoryLabel   string
	Keywords        string
	NewLabel        string
	PopularLabel    string
	DifficultyLabel string
}

// layout fills the parts of pageData shared by every page of locale.
func (s *Site) layout(src *content.Site, msgs *i18n.Messages, locale, route string, live bool) pageData {
	link := func(r string) string { return s.router.LocalizedPath(locale, r) }

	data := pageData{
		Lang:         s.router.Tag(locale).String(),
		Locale:       locale,
		SiteName:     s.cfg.SiteName,
		Path:         link(route),
		Area:         areaOf(route),
		HomeHref:     link("/"),
		DocsHref:     link("/docs"),
		ExamplesHref: link("/examples"),
		Live:         live,
		Msg: func(key string, args ...any) string {
			return msgs.T(locale, key, args...)
		},
	}
	for _, l := range s.router.Locales {
		data.Locales = append(data.Locales, localeLink{
			Code:   l,
			Label:  display.Self.Name(s.router.Tag(l)),
			Href:   s.router.LocalizedPath(l, route),
			Active: l == locale,
		})
	}
	if route != "/" {
		data.Sidebar = template.HTML(sidebarHTML(src.Sidebar(locale), route, data.Msg("nav.home"), link))
	}
	return data
}

func areaOf(route string) string {
	switch {
	case route == "/docs" || strings.HasPrefix(route, "/docs/"):
		return "docs"
	case route == "/examples" || strings.HasPrefix(route, "/examples/"):
		return "examples"
	}
	return ""
}

// gallery prepares the examples index. The featured row is shown only
// while no filter is applied.
func (s *Site) gallery(src *content.Site, msgs *i18n.Messages, locale, query, category string) *galleryData {
	cat := src.Catalog(locale)
	if category == "" {
		category = content.AllCategories
	}

	g := &galleryData{Query: query, Category: category}
	for _, c := range cat.Categories {
		g.Categories = append(g.Categories, categoryTab{Slug: c.Slug, Label: c.Label, Active: c.Slug == category})
	}
	for _, ex := range cat.Filter(query, category) {
		g.Examples = append(g.Examples, s.card(cat, msgs, locale, ex))
	}
	if strings.TrimSpace(query) == "" && category == content.AllCategories {
		for _, ex := range cat.Featured() {
			g.Featured = append(g.Featured, s.card(cat, msgs, locale, ex))
		}
	}
	return g
}

func (s *Site) card(cat *content.Catalog, msgs *i18n.Messages, locale string, ex content.Example) exampleCard {
	keywords := append([]string{ex.Title, ex.Description}, ex.Features...)
	ex.Href = s.localizeHref(locale, ex.Href)
	return exampleCard{
		Example:         ex,
		CategoryLabel:   cat.CategoryLabel(ex.Category),
		Keywords:        strings.ToLower(strings.Join(keywords, " ")),
		NewLabel:        msgs.T(locale, "examples.new"),
		PopularLabel:    msgs.T(locale, "examples.popular"),
		DifficultyLabel: msgs.T(locale, "examples.difficulty"),
	}
}

// localizeHref maps a site-relative href to its public path. External
// links are returned unchanged.
func (s *Site) localizeHref(locale, href string) string {
	if !strings.HasPrefix(href, "/") || strings.HasPrefix(href, "//") {
		return href
	}
	return s.router.LocalizedPath(locale, href)
}

func renderTemplate(w io.Writer, data pageData) error {
	return pageTmpl.Execute(w, data)
}
