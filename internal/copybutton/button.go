// Package copybutton implements the copy-to-clipboard button shown next to
// code blocks.
package copybutton

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

// DefaultResetAfter is how long a button shows its confirmation.
const DefaultResetAfter = 2 * time.Second

// ErrClipboardUnavailable is returned by clipboards that cannot be written.
var ErrClipboardUnavailable = errors.New("clipboard unavailable")

// Clipboard is a platform clipboard capability.
type Clipboard interface {
	WriteText(ctx context.Context, text string) error
}

// ClipboardFunc adapts a function to Clipboard.
type ClipboardFunc func(ctx context.Context, text string) error

// WriteText calls f.
func (f ClipboardFunc) WriteText(ctx context.Context, text string) error {
	return f(ctx, text)
}

// Button copies a fixed source string. Each button owns its own flag and
// reset timer.
type Button struct {
	source     string
	clipboard  Clipboard
	resetAfter time.Duration
	log        *slog.Logger
	onChange   func(copied bool)

	mu     sync.Mutex
	copied bool
	gen    uint64
	timer  *time.Timer
	closed bool
}

// Option configures a Button.
type Option func(*Button)

// WithResetAfter sets how long the copied flag stays on.
func WithResetAfter(d time.Duration) Option {
	return func(b *Button) {
		if d > 0 {
			b.resetAfter = d
		}
	}
}

// WithLogger sets the logger for clipboard failures.
func WithLogger(log *slog.Logger) Option {
	return func(b *Button) { b.log = log }
}

// OnChange registers fn to be called whenever the copied flag flips. The
// revert call runs on the timer goroutine.
func OnChange(fn func(copied bool)) Option {
	return func(b *Button) { b.onChange = fn }
}

// New creates a button bound to source.
func New(source string, clipboard Clipboard, opts ...Option) *Button {
	b := &Button{
		source:     source,
		clipboard:  clipboard,
		resetAfter: DefaultResetAfter,
		log:        slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Source returns the text the button copies.
func (b *Button) Source() string { return b.source }

// Copied reports whether the confirmation is showing.
func (b *Button) Copied() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.copied
}

// Click writes the source to the clipboard. On success the copied flag is
// set and reverts after the reset window; a later click restarts the
// window. A failed write is logged and leaves the flag untouched. Click
// reports whether the write succeeded.
func (b *Button) Click(ctx context.Context) bool {
	if b.clipboard == nil {
		b.log.Warn("copy failed", "error", ErrClipboardUnavailable)
		return false
	}
	if err := b.clipboard.WriteText(ctx, b.source); err != nil {
		b.log.Warn("copy failed", "error", err)
		return false
	}

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return true
	}
	if b.timer != nil {
		b.timer.Stop()
	}
	b.gen++
	gen := b.gen
	flipped := !b.copied
	b.copied = true
	b.timer = time.AfterFunc(b.resetAfter, func() { b.reset(gen) })
	b.mu.Unlock()

	if flipped && b.onChange != nil {
		b.onChange(true)
	}
	return true
}

func (b *Button) reset(gen uint64) {
	b.mu.Lock()
	if gen != b.gen || !b.copied {
		b.mu.Unlock()
		return
	}
	b.copied = false
	b.timer = nil
	b.mu.Unlock()

	if b.onChange != nil {
		b.onChange(false)
	}
}

// Close stops the reset timer. The flag keeps its last value.
func (b *Button) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
}
