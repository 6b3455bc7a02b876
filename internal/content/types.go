package content

import "errors"

// ErrNotFound is returned for unknown routes, samples and locales.
var ErrNotFound = errors.New("not found")

// CodeSample is an immutable piece of source shown on a page.
type CodeSample struct {
	Source   string
	Language string
	Filename string
}

// Sample is a named entry of the code-sample gallery.
type Sample struct {
	Name  string
	Title string
	CodeSample
}

// Page is one documentation route in one locale.
type Page struct {
	Locale       string
	Route        string
	Title        string
	Description  string
	Section      string
	SectionOrder int
	Order        int
	// Body is the markdown before the first panel marker.
	Body string
	// Tabs is nil for pages without panels.
	Tabs *TabGroup
	// Path is the source file inside the content filesystem.
	Path string
}

// TabGroup is the tabbed region of a page. Only one panel is visible at a
// time; Default is visible on first render.
type TabGroup struct {
	ID      string
	Default string
	Panels  []Panel
}

// Panel returns the panel with the given id.
func (g *TabGroup) Panel(id string) (Panel, bool) {
	for _, p := range g.Panels {
		if p.ID == id {
			return p, true
		}
	}
	return Panel{}, false
}

// Panel is one tab of a TabGroup.
type Panel struct {
	ID    string
	Label string
	Body  string
}

// SidebarSection is a titled group of sidebar links.
type SidebarSection struct {
	Title string
	Items []SidebarItem
}

// SidebarItem is one sidebar link.
type SidebarItem struct {
	Title string
	Route string
}
