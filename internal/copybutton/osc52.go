package copybutton

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"sync"
)

// MaxOSC52 is the largest payload most terminals accept in one sequence.
const MaxOSC52 = 100_000

// OSC52 writes to the system clipboard of a terminal emulator through the
// OSC 52 escape sequence.
type OSC52 struct {
	mu sync.Mutex
	w  io.Writer
}

// NewOSC52 returns a clipboard that writes escape sequences to w.
func NewOSC52(w io.Writer) *OSC52 {
	return &OSC52{w: w}
}

// WriteText emits the sequence for text.
func (c *OSC52) WriteText(ctx context.Context, text string) error {
	if c == nil || c.w == nil {
		return ErrClipboardUnavailable
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	payload := base64.StdEncoding.EncodeToString([]byte(text))
	if len(payload) > MaxOSC52 {
		return fmt.Errorf("osc52: %d byte payload exceeds %d: %w", len(payload), MaxOSC52, ErrClipboardUnavailable)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, err := fmt.Fprintf(c.w, "\x1b]52;c;%s\a", payload); err != nil {
		return fmt.Errorf("osc52: %w", err)
	}
	return nil
}
