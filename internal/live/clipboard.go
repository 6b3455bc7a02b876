package live

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ziadkadry99/kinlink-docs/internal/copybutton"
)

// errClipboardRejected is returned when the browser refuses the write.
var errClipboardRejected = errors.New("clipboard write rejected")

// wsClipboard asks the browser to write text and waits for its ack.
type wsClipboard struct {
	send    func(ServerMessage) error
	timeout time.Duration

	mu      sync.Mutex
	seq     uint64
	pending map[uint64]chan bool
	closed  bool
}

func newClipboard(send func(ServerMessage) error, timeout time.Duration) *wsClipboard {
	return &wsClipboard{
		send:    send,
		timeout: timeout,
		pending: make(map[uint64]chan bool),
	}
}

// WriteText implements copybutton.Clipboard.
func (c *wsClipboard) WriteText(ctx context.Context, text string) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return copybutton.ErrClipboardUnavailable
	}
	c.seq++
	seq := c.seq
	ack := make(chan bool, 1)
	c.pending[seq] = ack
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		delete(c.pending, seq)
		c.mu.Unlock()
	}()

	if err := c.send(ServerMessage{Type: MsgClipboard, Seq: seq, Text: text}); err != nil {
		return fmt.Errorf("%w: %v", copybutton.ErrClipboardUnavailable, err)
	}

	timer := time.NewTimer(c.timeout)
	defer timer.Stop()
	select {
	case ok, open := <-ack:
		if !open {
			return copybutton.ErrClipboardUnavailable
		}
		if !ok {
			return errClipboardRejected
		}
		return nil
	case <-timer.C:
		return fmt.Errorf("%w: no ack for write %d", copybutton.ErrClipboardUnavailable, seq)
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ack resolves the pending write seq. Unknown or late acks are dropped.
func (c *wsClipboard) ack(seq uint64, ok bool) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	ch, found := c.pending[seq]
	if !found {
		return false
	}
	delete(c.pending, seq)
	ch <- ok
	return true
}

// close fails every pending write.
func (c *wsClipboard) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	for seq, ch := range c.pending {
		close(ch)
		delete(c.pending, seq)
	}
}
