package site

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"

	"github.com/ziadkadry99/kinlink-docs/internal/progress"
	"github.com/ziadkadry99/kinlink-docs/internal/search"
)

// Build exports every route of every locale as static HTML under outDir.
// All tab panels are mounted and highlighted up front. Returns the number
// of pages written.
func (s *Site) Build(ctx context.Context, outDir string, rep progress.Reporter) (int, error) {
	if rep == nil {
		rep = progress.Nop{}
	}
	src, msgs := s.snapshot()

	type job struct{ locale, route string }
	var jobs []job
	for _, locale := range s.router.Locales {
		for _, p := range src.Pages(locale) {
			jobs = append(jobs, job{locale, p.Route})
		}
	}
	if len(jobs) == 0 {
		return 0, fmt.Errorf("no pages to build")
	}

	if err := os.MkdirAll(filepath.Join(outDir, "static"), 0o755); err != nil {
		return 0, err
	}

	rep.Start(len(jobs))
	for i, j := range jobs {
		if err := ctx.Err(); err != nil {
			return i, err
		}
		rp, _, err := s.renderPage(j.locale, j.route, "", true)
		if err != nil {
			return i, fmt.Errorf("rendering %s%s: %w", j.locale, j.route, err)
		}

		data := s.layout(src, msgs, j.locale, j.route, false)
		data.Title = rp.Source.Title
		data.Description = rp.Source.Description
		data.Content = template.HTML(rp.HTML(""))
		if j.route == "/examples" {
			data.Gallery = s.gallery(src, msgs, j.locale, "", "")
		}

		if err := writePage(outDir, data.Path, data); err != nil {
			return i, fmt.Errorf("writing %s: %w", data.Path, err)
		}
		rep.Update(i+1, data.Path)
	}
	rep.Finish()

	notFound := s.layout(src, msgs, s.router.Default, "/404", false)
	notFound.Title = msgs.T(s.router.Default, "notfound.title")
	notFound.NotFound = true
	notFound.Sidebar = ""
	if err := writeFile(filepath.Join(outDir, "404.html"), notFound); err != nil {
		return len(jobs), err
	}

	if err := s.writeAssets(outDir); err != nil {
		return len(jobs), err
	}

	var entries []search.Entry
	for _, locale := range s.router.Locales {
		e, err := BuildSearchIndex(s.renderer, src, locale)
		if err != nil {
			return len(jobs), fmt.Errorf("building search index: %w", err)
		}
		entries = append(entries, s.localizeEntries(locale, e)...)
	}
	if err := WriteSearchIndex(entries, filepath.Join(outDir, "search-index.json")); err != nil {
		return len(jobs), fmt.Errorf("writing search index: %w", err)
	}

	s.log.Info("static site built", "dir", outDir, "pages", len(jobs))
	return len(jobs), nil
}

func (s *Site) writeAssets(outDir string) error {
	static := filepath.Join(outDir, "static")
	if err := os.WriteFile(filepath.Join(static, "style.css"), []byte(cssContent), 0o644); err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(static, "site.js"), []byte(jsContent), 0o644); err != nil {
		return err
	}
	var css bytes.Buffer
	if err := s.hl.WriteCSS(&css); err != nil {
		return fmt.Errorf("writing chroma css: %w", err)
	}
	return os.WriteFile(filepath.Join(static, "chroma.css"), css.Bytes(), 0o644)
}

// writePage writes data to <outDir>/<publicPath>/index.html.
func writePage(outDir, publicPath string, data pageData) error {
	rel := strings.Trim(publicPath, "/")
	return writeFile(filepath.Join(outDir, filepath.FromSlash(rel), "index.html"), data)
}

func writeFile(path string, data pageData) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return renderTemplate(f, data)
}
