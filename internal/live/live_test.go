package live

import (
	"context"
	"errors"
	"html"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ziadkadry99/kinlink-docs/internal/content"
	"github.com/ziadkadry99/kinlink-docs/internal/copystats"
	"github.com/ziadkadry99/kinlink-docs/internal/render"
)

type fakeHighlighter struct{}

func (fakeHighlighter) Highlight(language, source string) (string, error) {
	if language == "broken" {
		return "", errors.New("boom")
	}
	return "<span class=\"hl\">" + html.EscapeString(source) + "</span>", nil
}

type fakePages struct {
	r     *render.Renderer
	pages map[string]*content.Page
}

func (f fakePages) Resolve(path string) (string, *render.Page, error) {
	src, ok := f.pages[path]
	if !ok {
		return "", nil, content.ErrNotFound
	}
	page, err := f.r.Render(src, render.Options{})
	return "en", page, err
}

type recorder struct {
	mu     sync.Mutex
	events []copystats.Event
}

func (r *recorder) Record(_ context.Context, ev copystats.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return nil
}

func (r *recorder) snapshot() []copystats.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]copystats.Event(nil), r.events...)
}

func testPages() fakePages {
	return fakePages{
		r: render.New(),
		pages: map[string]*content.Page{
			"/en/examples/demo": {
				Locale: "en",
				Route:  "/examples/demo",
				Title:  "Demo",
				Body:   "Intro\n\n```js\nconsole.log(1)\n```\n",
				Tabs: &content.TabGroup{
					ID:      "demo",
					Default: "overview",
					Panels: []content.Panel{
						{ID: "overview", Label: "Overview", Body: "About the demo."},
						{ID: "code", Label: "Code", Body: "```js\nkintone.events.on('app.record.show', fn)\n```\n"},
					},
				},
			},
			"/en/docs": {
				Locale: "en",
				Route:  "/docs",
				Title:  "Docs",
				Body:   "```broken\nx\n```\n",
			},
		},
	}
}

func newTestHub(t *testing.T, opts Options) (*Hub, string) {
	t.Helper()
	if opts.Delay == 0 {
		opts.Delay = 5 * time.Millisecond
	}
	hub := NewHub(testPages(), fakeHighlighter{}, opts)
	srv := httptest.NewServer(hub)
	t.Cleanup(srv.Close)
	t.Cleanup(hub.Close)
	return hub, "ws" + strings.TrimPrefix(srv.URL, "http")
}

func dial(t *testing.T, url, path string) *websocket.Conn {
	t.Helper()
	if path != "" {
		url += "?path=" + path
	}
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	msg := read(t, conn)
	require.Equal(t, MsgSession, msg.Type)
	require.NotEmpty(t, msg.Session)
	return conn
}

func read(t *testing.T, conn *websocket.Conn) ServerMessage {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg ServerMessage
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func readType(t *testing.T, conn *websocket.Conn, typ string) ServerMessage {
	t.Helper()
	for {
		msg := read(t, conn)
		if msg.Type == typ {
			return msg
		}
	}
}

func write(t *testing.T, conn *websocket.Conn, msg ClientMessage) {
	t.Helper()
	require.NoError(t, conn.WriteJSON(msg))
}

func TestConnectHighlightsVisibleBlocks(t *testing.T) {
	_, url := newTestHub(t, Options{})
	conn := dial(t, url, "/en/examples/demo")

	msg := read(t, conn)
	require.Equal(t, MsgHighlighted, msg.Type)
	assert.Equal(t, "/en/examples/demo", msg.Path)
	require.Len(t, msg.Blocks, 1)
	assert.Equal(t, 0, msg.Blocks[0].ID)
	assert.Equal(t, `<span class="hl">console.log(1)</span>`, msg.Blocks[0].HTML)
	assert.False(t, msg.Blocks[0].Fallback)
}

func TestConnectFallback(t *testing.T) {
	_, url := newTestHub(t, Options{})
	conn := dial(t, url, "/en/docs")

	msg := readType(t, conn, MsgHighlighted)
	require.Len(t, msg.Blocks, 1)
	assert.True(t, msg.Blocks[0].Fallback)
	assert.Equal(t, "x", msg.Blocks[0].HTML)
}

func TestSelectMountsAndHighlightsPanel(t *testing.T) {
	_, url := newTestHub(t, Options{})
	conn := dial(t, url, "/en/examples/demo")
	readType(t, conn, MsgHighlighted)

	write(t, conn, ClientMessage{Type: MsgSelect, Group: "demo", Panel: "code"})

	panel := read(t, conn)
	require.Equal(t, MsgPanel, panel.Type)
	assert.Equal(t, "demo", panel.Group)
	assert.Equal(t, "code", panel.Panel)
	assert.Contains(t, panel.HTML, `data-block="1"`)

	hl := read(t, conn)
	require.Equal(t, MsgHighlighted, hl.Type)
	require.Len(t, hl.Blocks, 1)
	assert.Equal(t, 1, hl.Blocks[0].ID)

	// Going back and forth re-highlights nothing and resends no markup.
	write(t, conn, ClientMessage{Type: MsgSelect, Group: "demo", Panel: "overview"})
	write(t, conn, ClientMessage{Type: MsgSelect, Group: "demo", Panel: "code"})
	write(t, conn, ClientMessage{Type: "ping"})
	msg := read(t, conn)
	assert.Equal(t, MsgError, msg.Type)
	assert.Contains(t, msg.Error, "ping")
}

func TestSelectErrors(t *testing.T) {
	_, url := newTestHub(t, Options{})
	conn := dial(t, url, "/en/examples/demo")
	readType(t, conn, MsgHighlighted)

	write(t, conn, ClientMessage{Type: MsgSelect, Group: "demo", Panel: "nope"})
	msg := read(t, conn)
	assert.Equal(t, MsgError, msg.Type)
	assert.Contains(t, msg.Error, "unknown panel")

	write(t, conn, ClientMessage{Type: MsgSelect, Group: "other", Panel: "code"})
	msg = read(t, conn)
	assert.Equal(t, MsgError, msg.Type)
	assert.Contains(t, msg.Error, "unknown tab group")
}

func TestNavigate(t *testing.T) {
	_, url := newTestHub(t, Options{})
	conn := dial(t, url, "/en/docs")
	readType(t, conn, MsgHighlighted)

	write(t, conn, ClientMessage{Type: MsgNavigate, Path: "/en/examples/demo"})
	page := read(t, conn)
	require.Equal(t, MsgPage, page.Type)
	assert.Equal(t, "Demo", page.Title)
	assert.Contains(t, page.HTML, `data-tab-group="demo"`)

	hl := read(t, conn)
	require.Equal(t, MsgHighlighted, hl.Type)
	assert.Equal(t, "/en/examples/demo", hl.Path)

	write(t, conn, ClientMessage{Type: MsgNavigate, Path: "/en/missing"})
	msg := read(t, conn)
	assert.Equal(t, MsgError, msg.Type)
	assert.Contains(t, msg.Error, "not found")
}

func TestCopyRoundTrip(t *testing.T) {
	stats := &recorder{}
	_, url := newTestHub(t, Options{ResetAfter: 30 * time.Millisecond, Stats: stats})
	conn := dial(t, url, "/en/examples/demo")
	readType(t, conn, MsgHighlighted)

	write(t, conn, ClientMessage{Type: MsgCopy, Block: 0})
	clip := read(t, conn)
	require.Equal(t, MsgClipboard, clip.Type)
	assert.Equal(t, "console.log(1)", clip.Text)

	write(t, conn, ClientMessage{Type: MsgClipboardAck, Seq: clip.Seq, OK: true})
	on := read(t, conn)
	require.Equal(t, MsgCopied, on.Type)
	assert.True(t, on.Copied)
	assert.Equal(t, 0, on.Block)

	off := read(t, conn)
	require.Equal(t, MsgCopied, off.Type)
	assert.False(t, off.Copied)

	require.Eventually(t, func() bool { return len(stats.snapshot()) == 1 }, time.Second, 5*time.Millisecond)
	ev := stats.snapshot()[0]
	assert.True(t, ev.Success)
	assert.Equal(t, copystats.SourceWeb, ev.Source)
	assert.Equal(t, "/examples/demo", ev.Route)
	assert.Equal(t, "en", ev.Locale)
	assert.Equal(t, "js", ev.Language)
}

func TestCopyRejected(t *testing.T) {
	stats := &recorder{}
	_, url := newTestHub(t, Options{Stats: stats})
	conn := dial(t, url, "/en/examples/demo")
	readType(t, conn, MsgHighlighted)

	write(t, conn, ClientMessage{Type: MsgCopy, Block: 0})
	clip := read(t, conn)
	require.Equal(t, MsgClipboard, clip.Type)
	write(t, conn, ClientMessage{Type: MsgClipboardAck, Seq: clip.Seq, OK: false})

	require.Eventually(t, func() bool { return len(stats.snapshot()) == 1 }, time.Second, 5*time.Millisecond)
	assert.False(t, stats.snapshot()[0].Success)

	// A copied message would have been written before the event was recorded.
	write(t, conn, ClientMessage{Type: "ping"})
	msg := read(t, conn)
	assert.Equal(t, MsgError, msg.Type)
}

func TestCopyUnknownBlock(t *testing.T) {
	_, url := newTestHub(t, Options{})
	conn := dial(t, url, "/en/examples/demo")
	readType(t, conn, MsgHighlighted)

	write(t, conn, ClientMessage{Type: MsgCopy, Block: 9})
	msg := read(t, conn)
	assert.Equal(t, MsgError, msg.Type)
	assert.Contains(t, msg.Error, "unknown block")
}

func TestClipboardTimeout(t *testing.T) {
	stats := &recorder{}
	_, url := newTestHub(t, Options{ClipboardTimeout: 20 * time.Millisecond, Stats: stats})
	conn := dial(t, url, "/en/examples/demo")
	readType(t, conn, MsgHighlighted)

	write(t, conn, ClientMessage{Type: MsgCopy, Block: 0})
	clip := read(t, conn)
	require.Equal(t, MsgClipboard, clip.Type)

	require.Eventually(t, func() bool { return len(stats.snapshot()) == 1 }, time.Second, 5*time.Millisecond)
	assert.False(t, stats.snapshot()[0].Success)

	// A late ack is dropped without an error.
	write(t, conn, ClientMessage{Type: MsgClipboardAck, Seq: clip.Seq, OK: true})
	write(t, conn, ClientMessage{Type: "ping"})
	msg := read(t, conn)
	assert.Equal(t, MsgError, msg.Type)
	assert.Contains(t, msg.Error, "ping")
}

func TestBroadcastReload(t *testing.T) {
	hub, url := newTestHub(t, Options{})
	a := dial(t, url, "")
	b := dial(t, url, "")
	require.Eventually(t, func() bool { return hub.Count() == 2 }, time.Second, 5*time.Millisecond)

	hub.Reload()
	assert.Equal(t, MsgReload, read(t, a).Type)
	assert.Equal(t, MsgReload, read(t, b).Type)

	a.Close()
	require.Eventually(t, func() bool { return hub.Count() == 1 }, time.Second, 5*time.Millisecond)
}

func TestRateLimit(t *testing.T) {
	_, url := newTestHub(t, Options{Rate: 0.001, Burst: 1})
	conn := dial(t, url, "")

	write(t, conn, ClientMessage{Type: "ping"})
	write(t, conn, ClientMessage{Type: "ping"})

	first := read(t, conn)
	assert.Contains(t, first.Error, "unknown message type")
	second := read(t, conn)
	assert.Equal(t, "rate limit exceeded", second.Error)
}

func TestMalformedMessage(t *testing.T) {
	_, url := newTestHub(t, Options{})
	conn := dial(t, url, "")

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("{not json")))
	msg := read(t, conn)
	assert.Equal(t, MsgError, msg.Type)
	assert.Equal(t, "malformed message", msg.Error)
}
