package site

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/ziadkadry99/kinlink-docs/internal/content"
	"github.com/ziadkadry99/kinlink-docs/internal/render"
	"github.com/ziadkadry99/kinlink-docs/internal/search"
)

// maxIndexedBody caps the prose stored per page.
const maxIndexedBody = 4000

// BuildSearchIndex renders every page of locale and returns its searchable
// text. Code blocks are left out of the body.
func BuildSearchIndex(r *render.Renderer, src *content.Site, locale string) ([]search.Entry, error) {
	pages := src.Pages(locale)
	entries := make([]search.Entry, 0, len(pages))
	for _, p := range pages {
		rp, err := r.Render(p, render.Options{MountAll: true})
		if err != nil {
			return nil, fmt.Errorf("rendering %s: %w", p.Route, err)
		}
		body := []rune(rp.Text())
		if len(body) > maxIndexedBody {
			body = body[:maxIndexedBody]
		}
		entries = append(entries, search.Entry{
			Locale:      locale,
			Route:       p.Route,
			Title:       p.Title,
			Description: p.Description,
			Section:     p.Section,
			Body:        string(body),
		})
	}
	return entries, nil
}

// WriteSearchIndex writes the search index as JSON to the given path.
func WriteSearchIndex(entries []search.Entry, outputPath string) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(outputPath, data, 0o644)
}
