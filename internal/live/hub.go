// Package live runs one websocket session per open page. A session owns
// the page's code-block arena, its tab groups and its copy buttons, and
// pushes highlighted markup to the browser as panels become visible.
package live

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/ziadkadry99/kinlink-docs/internal/copystats"
	"github.com/ziadkadry99/kinlink-docs/internal/highlight"
	"github.com/ziadkadry99/kinlink-docs/internal/render"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Pages resolves a public path to a freshly rendered page.
type Pages interface {
	Resolve(path string) (locale string, page *render.Page, err error)
}

// CopyRecorder stores copy attempts.
type CopyRecorder interface {
	Record(ctx context.Context, ev copystats.Event) error
}

// Options configure sessions.
type Options struct {
	// Delay defers highlight scans after a notification.
	Delay time.Duration
	// ResetAfter is the copy-button confirmation window.
	ResetAfter time.Duration
	// ClipboardTimeout bounds the wait for a clipboard ack.
	ClipboardTimeout time.Duration
	// Rate and Burst size the per-session message limiter.
	Rate  float64
	Burst int

	Logger *slog.Logger
	Stats  CopyRecorder
}

func (o *Options) defaults() {
	if o.Delay <= 0 {
		o.Delay = highlight.DefaultDelay
	}
	if o.ClipboardTimeout <= 0 {
		o.ClipboardTimeout = 5 * time.Second
	}
	if o.Rate <= 0 {
		o.Rate = 20
	}
	if o.Burst <= 0 {
		o.Burst = 40
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.DiscardHandler)
	}
}

// Hub tracks live sessions.
type Hub struct {
	pages Pages
	hl    highlight.Highlighter
	opts  Options
	log   *slog.Logger

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewHub creates a hub that renders pages through pages and highlights
// with hl.
func NewHub(pages Pages, hl highlight.Highlighter, opts Options) *Hub {
	opts.defaults()
	return &Hub{
		pages:    pages,
		hl:       hl,
		opts:     opts,
		log:      opts.Logger,
		sessions: make(map[string]*Session),
	}
}

// ServeHTTP upgrades the request and runs a session for the page named by
// the "path" query parameter until the connection closes.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade", "error", err)
		return
	}

	s := newSession(uuid.New().String(), h, conn, rate.NewLimiter(rate.Limit(h.opts.Rate), h.opts.Burst))
	h.register(s)
	defer h.unregister(s)

	if err := s.send(ServerMessage{Type: MsgSession, Session: s.ID}); err != nil {
		s.close()
		return
	}
	if path := r.URL.Query().Get("path"); path != "" {
		s.navigate(path, false)
	}
	s.run()
}

func (h *Hub) register(s *Session) {
	h.mu.Lock()
	h.sessions[s.ID] = s
	n := len(h.sessions)
	h.mu.Unlock()
	h.log.Debug("session opened", "session", s.ID, "active", n)
}

func (h *Hub) unregister(s *Session) {
	h.mu.Lock()
	delete(h.sessions, s.ID)
	n := len(h.sessions)
	h.mu.Unlock()
	h.log.Debug("session closed", "session", s.ID, "active", n)
}

// Count returns the number of open sessions.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}

// Broadcast sends msg to every session.
func (h *Hub) Broadcast(msg ServerMessage) {
	h.mu.RLock()
	sessions := make([]*Session, 0, len(h.sessions))
	for _, s := range h.sessions {
		sessions = append(sessions, s)
	}
	h.mu.RUnlock()

	for _, s := range sessions {
		if err := s.send(msg); err != nil {
			h.log.Debug("broadcast failed", "session", s.ID, "error", err)
		}
	}
}

// Reload tells every browser to reload its page.
func (h *Hub) Reload() {
	h.log.Info("broadcasting reload", "sessions", h.Count())
	h.Broadcast(ServerMessage{Type: MsgReload})
}

// Close closes every session.
func (h *Hub) Close() {
	h.mu.RLock()
	sessions := make([]*Session, 0, len(h.sessions))
	for _, s := range h.sessions {
		sessions = append(sessions, s)
	}
	h.mu.RUnlock()

	for _, s := range sessions {
		s.close()
	}
}
