package live

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/ziadkadry99/kinlink-docs/internal/copybutton"
	"github.com/ziadkadry99/kinlink-docs/internal/copystats"
	"github.com/ziadkadry99/kinlink-docs/internal/highlight"
	"github.com/ziadkadry99/kinlink-docs/internal/render"
	"github.com/ziadkadry99/kinlink-docs/internal/tabs"
)

const writeWait = 10 * time.Second

var errSessionClosed = errors.New("session closed")

// Session is one browser tab attached to one page at a time.
type Session struct {
	ID string

	hub       *Hub
	conn      *websocket.Conn
	limiter   *rate.Limiter
	log       *slog.Logger
	clipboard *wsClipboard
	ctrl      *highlight.Controller

	ctx    context.Context
	cancel context.CancelFunc

	writeMu sync.Mutex

	mu      sync.Mutex
	path    string
	locale  string
	page    *render.Page
	groups  map[string]*tabs.Group
	buttons map[int]*copybutton.Button
	closed  bool
	copies  sync.WaitGroup
}

func newSession(id string, hub *Hub, conn *websocket.Conn, limiter *rate.Limiter) *Session {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Session{
		ID:      id,
		hub:     hub,
		conn:    conn,
		limiter: limiter,
		log:     hub.log.With("session", id),
		ctx:     ctx,
		cancel:  cancel,
		groups:  make(map[string]*tabs.Group),
		buttons: make(map[int]*copybutton.Button),
	}
	s.clipboard = newClipboard(s.send, hub.opts.ClipboardTimeout)
	s.ctrl = highlight.NewController(hub.hl,
		highlight.WithDelay(hub.opts.Delay),
		highlight.WithLogger(s.log),
		highlight.OnScan(s.scanned),
	)
	return s
}

// run reads client messages until the connection fails.
func (s *Session) run() {
	defer s.close()
	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.log.Debug("websocket read", "error", err)
			}
			return
		}
		if !s.limiter.Allow() {
			s.sendError("rate limit exceeded")
			continue
		}
		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			s.sendError("malformed message")
			continue
		}
		s.dispatch(msg)
	}
}

func (s *Session) dispatch(msg ClientMessage) {
	switch msg.Type {
	case MsgSelect:
		s.selectPanel(msg.Group, msg.Panel)
	case MsgNavigate:
		s.navigate(msg.Path, true)
	case MsgCopy:
		s.copyBlock(msg.Block)
	case MsgClipboardAck:
		if !s.clipboard.ack(msg.Seq, msg.OK) {
			s.log.Debug("stale clipboard ack", "seq", msg.Seq)
		}
	default:
		s.sendError(fmt.Sprintf("unknown message type %q", msg.Type))
	}
}

// navigate renders path into a fresh arena and makes it current. With
// announce the new page markup is sent before its blocks are highlighted.
func (s *Session) navigate(path string, announce bool) {
	locale, page, err := s.hub.pages.Resolve(path)
	if err != nil {
		s.sendError(fmt.Sprintf("navigate %s: %v", path, err))
		return
	}

	groups := make(map[string]*tabs.Group)
	if g := page.Source.Tabs; g != nil {
		ids := make([]string, len(g.Panels))
		for i, p := range g.Panels {
			ids[i] = p.ID
		}
		group, err := tabs.New(g.ID, ids, g.Default)
		if err != nil {
			s.sendError(fmt.Sprintf("navigate %s: %v", path, err))
			return
		}
		group.Subscribe(func(ev tabs.Event) { s.showPanel(page, ev.Group, ev.Panel) })
		groups[g.ID] = group
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	old := s.buttons
	s.path, s.locale, s.page = path, locale, page
	s.groups = groups
	s.buttons = make(map[int]*copybutton.Button)
	s.mu.Unlock()

	for _, b := range old {
		b.Close()
	}

	if announce {
		if err := s.send(ServerMessage{
			Type:  MsgPage,
			Path:  path,
			Title: page.Source.Title,
			HTML:  page.HTML(""),
		}); err != nil {
			return
		}
	}
	s.log.Debug("navigated", "path", path, "locale", locale, "blocks", page.Doc.Len())
	s.ctrl.Navigate(page.Doc)
}

func (s *Session) selectPanel(group, panel string) {
	s.mu.Lock()
	g, ok := s.groups[group]
	s.mu.Unlock()
	if !ok {
		s.sendError(fmt.Sprintf("unknown tab group %q", group))
		return
	}
	if _, err := g.Select(panel); err != nil {
		s.sendError(err.Error())
	}
}

// showPanel mounts a newly selected panel, ships its markup the first time
// and schedules a scan of its blocks.
func (s *Session) showPanel(page *render.Page, group, panel string) {
	if s.current() != page {
		return
	}
	key := render.PanelKey(group, panel)
	if page.Doc.Mount(key) {
		html, _ := page.PanelHTML(panel)
		if err := s.send(ServerMessage{Type: MsgPanel, Group: group, Panel: panel, HTML: html}); err != nil {
			return
		}
	}
	s.ctrl.PanelVisible(key)
}

// scanned forwards the output of a highlight pass to the browser.
func (s *Session) scanned(res highlight.Result) {
	if len(res.Highlighted) == 0 {
		return
	}
	s.mu.Lock()
	page, path := s.page, s.path
	s.mu.Unlock()
	if page == nil || page.Doc != res.Doc {
		return
	}

	blocks := make([]BlockUpdate, 0, len(res.Highlighted))
	for _, b := range res.Highlighted {
		html, _ := b.Output()
		blocks = append(blocks, BlockUpdate{ID: b.ID, HTML: html, Fallback: b.Fallback()})
	}
	if err := s.send(ServerMessage{Type: MsgHighlighted, Path: path, Blocks: blocks}); err != nil {
		s.log.Debug("send highlighted", "error", err)
	}
}

func (s *Session) copyBlock(id int) {
	s.mu.Lock()
	page, locale := s.page, s.locale
	if page == nil || s.closed {
		s.mu.Unlock()
		s.sendError("no page")
		return
	}
	block, ok := page.Doc.Block(id)
	if !ok {
		s.mu.Unlock()
		s.sendError(fmt.Sprintf("unknown block %d", id))
		return
	}
	button, ok := s.buttons[id]
	if !ok {
		button = copybutton.New(block.Sample.Source, s.clipboard,
			copybutton.WithResetAfter(s.hub.opts.ResetAfter),
			copybutton.WithLogger(s.log),
			copybutton.OnChange(func(copied bool) {
				_ = s.send(ServerMessage{Type: MsgCopied, Block: id, Copied: copied})
			}),
		)
		s.buttons[id] = button
	}
	s.copies.Add(1)
	s.mu.Unlock()

	// The ack arrives through the read loop, so the click cannot block it.
	go func() {
		defer s.copies.Done()
		ok := button.Click(s.ctx)
		s.record(copystats.Event{
			SessionID: s.ID,
			Locale:    locale,
			Route:     page.Source.Route,
			BlockID:   id,
			Sample:    block.Sample.Filename,
			Language:  block.Sample.Language,
			Source:    copystats.SourceWeb,
			Success:   ok,
		})
	}()
}

func (s *Session) record(ev copystats.Event) {
	if s.hub.opts.Stats == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.hub.opts.Stats.Record(ctx, ev); err != nil {
		s.log.Warn("recording copy", "error", err)
	}
}

func (s *Session) current() *render.Page {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.page
}

func (s *Session) send(msg ServerMessage) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if s.ctx.Err() != nil {
		return errSessionClosed
	}
	_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return s.conn.WriteJSON(msg)
}

func (s *Session) sendError(text string) {
	if err := s.send(ServerMessage{Type: MsgError, Error: text}); err != nil {
		s.log.Debug("send error", "error", err)
	}
}

func (s *Session) close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	buttons := s.buttons
	s.buttons = nil
	s.mu.Unlock()

	s.cancel()
	s.clipboard.close()
	s.ctrl.Close()
	s.copies.Wait()
	for _, b := range buttons {
		b.Close()
	}

	s.writeMu.Lock()
	_ = s.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
	_ = s.conn.Close()
	s.writeMu.Unlock()
}
