package highlight

import (
	"log/slog"
	"sync"
	"time"
)

// DefaultDelay is the deferral between a notification and its scan. A
// panel's content may be attached a moment after it is announced visible.
const DefaultDelay = 100 * time.Millisecond

// Controller turns visibility and navigation notifications into deferred
// highlight passes over the current Document.
//
// Overlapping scans are allowed; per-block marks keep them idempotent. A
// scan that fires after a later navigation walks the new document.
type Controller struct {
	hl     Highlighter
	delay  time.Duration
	log    *slog.Logger
	onScan func(Result)

	mu      sync.Mutex
	doc     *Document
	pending map[*time.Timer]struct{}
	closed  bool
	wg      sync.WaitGroup
}

// Option configures a Controller.
type Option func(*Controller)

// WithDelay sets the scan deferral.
func WithDelay(d time.Duration) Option {
	return func(c *Controller) { c.delay = d }
}

// WithLogger sets the logger used for skipped blocks.
func WithLogger(log *slog.Logger) Option {
	return func(c *Controller) { c.log = log }
}

// OnScan registers a callback invoked after every completed scan, from the
// scan's goroutine.
func OnScan(fn func(Result)) Option {
	return func(c *Controller) { c.onScan = fn }
}

// NewController creates a controller with no current document.
func NewController(hl Highlighter, opts ...Option) *Controller {
	c := &Controller{
		hl:      hl,
		delay:   DefaultDelay,
		log:     slog.New(slog.DiscardHandler),
		pending: make(map[*time.Timer]struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Document returns the current document.
func (c *Controller) Document() *Document {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.doc
}

// Navigate makes doc current and schedules a whole-document scan.
func (c *Controller) Navigate(doc *Document) {
	c.mu.Lock()
	c.doc = doc
	c.mu.Unlock()
	c.schedule(BodyPanel, true)
}

// PanelVisible schedules a scan of panel in the current document.
func (c *Controller) PanelVisible(panel string) {
	c.schedule(panel, false)
}

// Wait blocks until every scheduled scan has run or been stopped. It must
// not race with new notifications.
func (c *Controller) Wait() {
	c.wg.Wait()
}

// Close stops pending scans. Later notifications are ignored.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	for t := range c.pending {
		if t.Stop() {
			c.wg.Done()
		}
	}
	c.pending = nil
}

func (c *Controller) schedule(panel string, whole bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}

	c.wg.Add(1)
	var t *time.Timer
	// The callback takes c.mu first, so t is assigned before it is read.
	t = time.AfterFunc(c.delay, func() {
		defer c.wg.Done()

		c.mu.Lock()
		delete(c.pending, t)
		doc, closed := c.doc, c.closed
		c.mu.Unlock()

		if closed || doc == nil {
			return
		}
		c.scan(doc, panel, whole)
	})
	c.pending[t] = struct{}{}
}

func (c *Controller) scan(doc *Document, panel string, whole bool) {
	var blocks []*Block
	if whole {
		blocks = doc.Attached()
	} else {
		if !doc.Mounted(panel) {
			c.log.Debug("scan of unmounted panel", "route", doc.Route, "panel", panel)
			return
		}
		blocks = doc.Blocks(panel)
	}

	res := Pass(blocks, c.hl, c.log)
	res.Doc = doc
	res.Panel = panel
	res.Whole = whole
	if len(res.Highlighted) > 0 {
		c.log.Debug("highlight pass",
			"route", doc.Route,
			"panel", panel,
			"highlighted", len(res.Highlighted),
			"fallbacks", res.Fallbacks,
		)
	}
	if c.onScan != nil {
		c.onScan(res)
	}
}
