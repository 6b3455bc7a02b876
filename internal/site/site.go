// Package site serves and exports the localized documentation site.
package site

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/ziadkadry99/kinlink-docs/internal/config"
	"github.com/ziadkadry99/kinlink-docs/internal/content"
	"github.com/ziadkadry99/kinlink-docs/internal/copystats"
	"github.com/ziadkadry99/kinlink-docs/internal/db"
	"github.com/ziadkadry99/kinlink-docs/internal/highlight"
	"github.com/ziadkadry99/kinlink-docs/internal/i18n"
	"github.com/ziadkadry99/kinlink-docs/internal/live"
	"github.com/ziadkadry99/kinlink-docs/internal/render"
	"github.com/ziadkadry99/kinlink-docs/internal/search"
)

// Site ties content, rendering, search and live sessions together. Content
// can be swapped at runtime with Reload.
type Site struct {
	cfg      *config.Config
	log      *slog.Logger
	router   *i18n.Router
	renderer *render.Renderer
	hl       *highlight.Chroma
	index    *search.Index
	stats    *copystats.Store
	hub      *live.Hub

	mu      sync.RWMutex
	content *content.Site
	msgs    *i18n.Messages
}

// New creates a site over src. The database backs the search index and
// copy statistics.
func New(ctx context.Context, cfg *config.Config, src *content.Site, database *db.DB, log *slog.Logger) (*Site, error) {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	router, err := i18n.New(cfg.DefaultLocale, cfg.Locales, string(cfg.LocalePrefix), cfg.DetectLocale)
	if err != nil {
		return nil, fmt.Errorf("locale router: %w", err)
	}

	s := &Site{
		cfg:      cfg,
		log:      log,
		router:   router,
		renderer: render.New(),
		hl:       highlight.NewChroma(cfg.Highlight.Style, cfg.Highlight.LineNumbers),
		index:    search.NewIndex(database),
		stats:    copystats.NewStore(database),
	}
	s.hub = live.NewHub(s, s.hl, live.Options{
		Delay:            cfg.Highlight.Delay,
		ResetAfter:       cfg.Copy.ResetAfter,
		ClipboardTimeout: cfg.Copy.WriteTimeout,
		Logger:           log.With("component", "live"),
		Stats:            s.stats,
	})

	if err := s.Reload(ctx, src); err != nil {
		return nil, err
	}
	return s, nil
}

// Router returns the locale router.
func (s *Site) Router() *i18n.Router { return s.router }

// Hub returns the live session hub.
func (s *Site) Hub() *live.Hub { return s.hub }

// Stats returns the copy statistics store.
func (s *Site) Stats() *copystats.Store { return s.stats }

// Index returns the search index.
func (s *Site) Index() *search.Index { return s.index }

// Content returns the current content set.
func (s *Site) Content() *content.Site {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.content
}

func (s *Site) snapshot() (*content.Site, *i18n.Messages) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.content, s.msgs
}

// Reload swaps in src, rebuilds UI messages and reindexes every locale.
// Open browsers are told to reload.
func (s *Site) Reload(ctx context.Context, src *content.Site) error {
	byLocale := make(map[string]map[string]string, len(s.router.Locales))
	for _, locale := range s.router.Locales {
		byLocale[locale] = src.Messages(locale)
	}
	msgs, err := i18n.NewMessages(s.router, byLocale)
	if err != nil {
		return fmt.Errorf("loading messages: %w", err)
	}

	for _, locale := range s.router.Locales {
		entries, err := BuildSearchIndex(s.renderer, src, locale)
		if err != nil {
			return fmt.Errorf("indexing %s: %w", locale, err)
		}
		if err := s.index.Replace(ctx, locale, entries); err != nil {
			return fmt.Errorf("indexing %s: %w", locale, err)
		}
	}

	s.mu.Lock()
	first := s.content == nil
	s.content, s.msgs = src, msgs
	s.mu.Unlock()

	if !first {
		s.log.Info("content reloaded", "sessions", s.hub.Count())
		s.hub.Reload()
	}
	return nil
}

// Resolve renders the page behind a public path for a live session.
func (s *Site) Resolve(path string) (string, *render.Page, error) {
	locale, route, _ := s.router.Split(path)
	if route != "/" {
		route = strings.TrimSuffix(route, "/")
	}
	src, msgs := s.snapshot()
	page, err := src.Page(locale, route)
	if err != nil {
		return "", nil, err
	}
	rp, err := s.renderer.Render(page, render.Options{CopyLabel: msgs.T(locale, "copy.copy")})
	if err != nil {
		return "", nil, err
	}
	return locale, rp, nil
}

// renderPage renders route for an HTTP response. Blocks visible on first
// paint are highlighted before the page is written.
func (s *Site) renderPage(locale, route, active string, mountAll bool) (*render.Page, string, error) {
	src, msgs := s.snapshot()
	page, err := src.Page(locale, route)
	if err != nil {
		return nil, "", err
	}
	rp, err := s.renderer.Render(page, render.Options{
		CopyLabel: msgs.T(locale, "copy.copy"),
		MountAll:  mountAll,
	})
	if err != nil {
		return nil, "", err
	}

	if g := page.Tabs; g != nil && active != "" {
		if _, ok := g.Panel(active); ok {
			rp.Doc.Mount(render.PanelKey(g.ID, active))
		} else {
			active = ""
		}
	}
	res := highlight.Pass(rp.Doc.Attached(), s.hl, s.log)
	if res.Fallbacks > 0 {
		s.log.Debug("plain-text fallbacks", "locale", locale, "route", route, "count", res.Fallbacks)
	}
	return rp, active, nil
}

func isNotFound(err error) bool {
	return errors.Is(err, content.ErrNotFound)
}
