package site

import (
	"fmt"
	"html"
	"strings"

	"github.com/ziadkadry99/kinlink-docs/internal/content"
)

// sidebarHTML renders the grouped sidebar navigation. The section holding
// activeRoute is expanded and its link marked active. link maps a
// locale-free route to its public path.
func sidebarHTML(sections []content.SidebarSection, activeRoute, homeLabel string, link func(string) string) string {
	var b strings.Builder

	homeActive := ""
	if activeRoute == "/" {
		homeActive = ` class="active"`
	}
	fmt.Fprintf(&b, `<ul><li class="file home-link"><a href="%s"%s>%s</a></li></ul>`+"\n",
		html.EscapeString(link("/")), homeActive, html.EscapeString(homeLabel))

	for _, sec := range sections {
		expanded := ""
		if sectionContains(sec, activeRoute) {
			expanded = " expanded"
		}
		fmt.Fprintf(&b, `<div class="nav-section%s"><span class="dir-toggle">%s</span>`+"\n",
			expanded, html.EscapeString(sec.Title))
		b.WriteString("<ul>\n")
		for _, item := range sec.Items {
			activeClass := ""
			if item.Route == activeRoute {
				activeClass = ` class="active" aria-current="page"`
			}
			fmt.Fprintf(&b, `<li class="file"><a href="%s"%s>%s</a></li>`+"\n",
				html.EscapeString(link(item.Route)), activeClass, html.EscapeString(item.Title))
		}
		b.WriteString("</ul></div>\n")
	}
	return b.String()
}

func sectionContains(sec content.SidebarSection, route string) bool {
	for _, item := range sec.Items {
		if item.Route == route {
			return true
		}
	}
	return false
}
