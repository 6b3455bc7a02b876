package site

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"os/exec"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/ziadkadry99/kinlink-docs/internal/content"
	"github.com/ziadkadry99/kinlink-docs/internal/copystats"
	"github.com/ziadkadry99/kinlink-docs/internal/i18n"
	"github.com/ziadkadry99/kinlink-docs/internal/search"
)

// Handler builds the chi router serving the live site.
func (s *Site) Handler() http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{Logger: slogPrinter{s}, NoColor: true}))
	r.Use(middleware.Recoverer)
	r.Use(s.router.Middleware)
	r.Use(middleware.StripSlashes)

	// CORS
	corsOpts := cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods:   []string{"GET", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	if s.cfg.CORSAllowAll {
		corsOpts.AllowedOrigins = []string{"*"}
	}

	// The websocket outlives any request timeout.
	r.Get("/ws", s.hub.ServeHTTP)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(60 * time.Second))

		r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "sessions": s.hub.Count()})
		})

		r.Get("/static/style.css", serveAsset("text/css; charset=utf-8", cssContent))
		r.Get("/static/site.js", serveAsset("text/javascript; charset=utf-8", jsContent))
		r.Get("/static/chroma.css", s.handleChromaCSS)
		r.Get("/search-index.json", s.handleSearchIndex)

		r.Group(func(r chi.Router) {
			r.Use(cors.Handler(corsOpts))
			r.Get("/api/search", s.handleSearch)
			r.Get("/api/examples", s.handleExamples)
			copystats.RegisterRoutes(r, s.stats)
		})

		r.Get("/*", s.handlePage)
	})

	return r
}

// slogPrinter adapts the site logger to chi's request logger.
type slogPrinter struct{ s *Site }

func (p slogPrinter) Print(v ...any) {
	p.s.log.Debug(strings.TrimSpace(fmt.Sprint(v...)), "component", "http")
}

func serveAsset(contentType, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", contentType)
		w.Write([]byte(body))
	}
}

func (s *Site) handleChromaCSS(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := s.hl.WriteCSS(&buf); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	w.Write(buf.Bytes())
}

func (s *Site) handlePage(w http.ResponseWriter, r *http.Request) {
	locale := i18n.FromContext(r.Context())
	if locale == "" {
		locale = s.router.Default
	}
	route := strings.TrimSuffix(r.URL.Path, "/")
	if route == "" {
		route = "/"
	}

	rp, active, err := s.renderPage(locale, route, r.URL.Query().Get("tab"), false)
	if isNotFound(err) {
		s.notFound(w, locale, route)
		return
	}
	if err != nil {
		s.log.Error("rendering page", "locale", locale, "route", route, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	src, msgs := s.snapshot()
	data := s.layout(src, msgs, locale, route, true)
	data.Title = rp.Source.Title
	data.Description = rp.Source.Description
	data.Content = template.HTML(rp.HTML(active))
	if route == "/examples" {
		q := r.URL.Query()
		data.Gallery = s.gallery(src, msgs, locale, q.Get("q"), q.Get("category"))
	}
	s.write(w, http.StatusOK, data)
}

func (s *Site) notFound(w http.ResponseWriter, locale, route string) {
	src, msgs := s.snapshot()
	data := s.layout(src, msgs, locale, route, false)
	data.Title = msgs.T(locale, "notfound.title")
	data.NotFound = true
	data.Sidebar = ""
	s.write(w, http.StatusNotFound, data)
}

func (s *Site) write(w http.ResponseWriter, status int, data pageData) {
	var buf bytes.Buffer
	if err := renderTemplate(&buf, data); err != nil {
		s.log.Error("executing template", "path", data.Path, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}

// requestLocale prefers an explicit ?locale= over the one the locale
// middleware resolved.
func (s *Site) requestLocale(r *http.Request) string {
	if l := r.URL.Query().Get("locale"); s.router.Supported(l) {
		return l
	}
	if l := i18n.FromContext(r.Context()); l != "" {
		return l
	}
	return s.router.Default
}

// searchResponse is the JSON response for the /api/search endpoint.
type searchResponse struct {
	Locale  string       `json:"locale"`
	Results []search.Hit `json:"results"`
}

func (s *Site) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "query is required"})
		return
	}

	limit := search.DefaultLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid limit"})
			return
		}
		limit = n
	}

	locale := s.requestLocale(r)
	hits, err := s.index.Search(r.Context(), locale, query, limit)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "search failed: " + err.Error()})
		return
	}
	for i := range hits {
		hits[i].Route = s.router.LocalizedPath(locale, hits[i].Route)
	}
	if hits == nil {
		hits = []search.Hit{}
	}
	writeJSON(w, http.StatusOK, searchResponse{Locale: locale, Results: hits})
}

// examplesResponse is the JSON response for the /api/examples endpoint.
type examplesResponse struct {
	Locale     string             `json:"locale"`
	Categories []content.Category `json:"categories"`
	Examples   []content.Example  `json:"examples"`
}

func (s *Site) handleExamples(w http.ResponseWriter, r *http.Request) {
	locale := s.requestLocale(r)
	src, _ := s.snapshot()
	cat := src.Catalog(locale)

	q := r.URL.Query()
	examples := cat.Filter(q.Get("q"), q.Get("category"))
	for i := range examples {
		examples[i].Href = s.localizeHref(locale, examples[i].Href)
	}
	if examples == nil {
		examples = []content.Example{}
	}
	writeJSON(w, http.StatusOK, examplesResponse{Locale: locale, Categories: cat.Categories, Examples: examples})
}

func (s *Site) handleSearchIndex(w http.ResponseWriter, r *http.Request) {
	src, _ := s.snapshot()
	var all []search.Entry
	for _, locale := range s.router.Locales {
		entries, err := BuildSearchIndex(s.renderer, src, locale)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		all = append(all, s.localizeEntries(locale, entries)...)
	}
	writeJSON(w, http.StatusOK, all)
}

func (s *Site) localizeEntries(locale string, entries []search.Entry) []search.Entry {
	out := make([]search.Entry, len(entries))
	for i, e := range entries {
		e.Route = s.router.LocalizedPath(locale, e.Route)
		out[i] = e
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// Serve runs the live site on addr until ctx is cancelled. If open is
// set the site is opened in the default browser.
func (s *Site) Serve(ctx context.Context, addr string, open bool) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	if open {
		host := addr
		if strings.HasPrefix(host, ":") {
			host = "localhost" + host
		}
		go openBrowser("http://" + host)
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("serving documentation", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.hub.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	return nil
}

// openBrowser opens the given URL in the default browser.
func openBrowser(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", url)
	case "darwin":
		cmd = exec.Command("open", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	_ = cmd.Start()
}
