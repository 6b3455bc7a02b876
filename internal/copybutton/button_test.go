package copybutton

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memClipboard struct {
	mu     sync.Mutex
	writes []string
	err    error
}

func (m *memClipboard) WriteText(_ context.Context, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.writes = append(m.writes, text)
	return nil
}

func TestClickSetsAndClearsFlag(t *testing.T) {
	cb := &memClipboard{}
	changes := make(chan bool, 4)
	b := New("console.log(1)", cb,
		WithResetAfter(50*time.Millisecond),
		OnChange(func(c bool) { changes <- c }),
	)
	defer b.Close()

	require.True(t, b.Click(context.Background()))
	assert.True(t, b.Copied())
	assert.Equal(t, []string{"console.log(1)"}, cb.writes)
	assert.True(t, <-changes)

	select {
	case c := <-changes:
		assert.False(t, c)
	case <-time.After(time.Second):
		t.Fatal("flag was not reset")
	}
	assert.False(t, b.Copied())
}

func TestClickFailureLeavesFlag(t *testing.T) {
	cb := &memClipboard{err: errors.New("denied")}
	calls := 0
	b := New("x", cb, OnChange(func(bool) { calls++ }))
	defer b.Close()

	assert.False(t, b.Click(context.Background()))
	assert.False(t, b.Copied())
	assert.Zero(t, calls)
}

func TestClickWithoutClipboard(t *testing.T) {
	b := New("x", nil)
	assert.False(t, b.Click(context.Background()))
	assert.False(t, b.Copied())
}

func TestRepeatedClickRestartsWindow(t *testing.T) {
	cb := &memClipboard{}
	b := New("x", cb, WithResetAfter(80*time.Millisecond))
	defer b.Close()

	require.True(t, b.Click(context.Background()))
	time.Sleep(50 * time.Millisecond)
	require.True(t, b.Click(context.Background()))
	time.Sleep(50 * time.Millisecond)
	assert.True(t, b.Copied(), "second click should extend the window")

	assert.Eventually(t, func() bool { return !b.Copied() }, time.Second, 10*time.Millisecond)
}

func TestButtonsAreIndependent(t *testing.T) {
	cb := &memClipboard{}
	a := New("a", cb, WithResetAfter(time.Hour))
	b := New("b", cb, WithResetAfter(time.Hour))
	defer a.Close()
	defer b.Close()

	a.Click(context.Background())
	assert.True(t, a.Copied())
	assert.False(t, b.Copied())
}

func TestCloseStopsReset(t *testing.T) {
	cb := &memClipboard{}
	b := New("x", cb, WithResetAfter(20*time.Millisecond))
	b.Click(context.Background())
	b.Close()

	time.Sleep(60 * time.Millisecond)
	assert.True(t, b.Copied())
}

func TestOSC52(t *testing.T) {
	var buf bytes.Buffer
	c := NewOSC52(&buf)

	require.NoError(t, c.WriteText(context.Background(), "hello"))
	want := "\x1b]52;c;" + base64.StdEncoding.EncodeToString([]byte("hello")) + "\a"
	assert.Equal(t, want, buf.String())
}

func TestOSC52Errors(t *testing.T) {
	var nilClip *OSC52
	assert.ErrorIs(t, nilClip.WriteText(context.Background(), "x"), ErrClipboardUnavailable)

	c := NewOSC52(&bytes.Buffer{})
	assert.ErrorIs(t, c.WriteText(context.Background(), strings.Repeat("x", MaxOSC52)), ErrClipboardUnavailable)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, c.WriteText(ctx, "x"), context.Canceled)
}

func TestButtonWithOSC52(t *testing.T) {
	var buf bytes.Buffer
	b := New("const a = 1;", NewOSC52(&buf), WithResetAfter(time.Hour))
	defer b.Close()

	require.True(t, b.Click(context.Background()))
	assert.Contains(t, buf.String(), base64.StdEncoding.EncodeToString([]byte("const a = 1;")))
}
