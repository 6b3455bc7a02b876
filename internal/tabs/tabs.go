// Package tabs holds the visibility state of tab containers. Only explicit
// selection changes which panel is visible, and every change is announced
// to subscribers.
package tabs

import (
	"errors"
	"fmt"
	"sync"
)

// ErrUnknownPanel is returned when selecting a panel the group does not own.
var ErrUnknownPanel = errors.New("unknown panel")

// Event announces that Panel of Group became visible.
type Event struct {
	Group    string
	Panel    string
	Previous string
}

// Listener receives visibility events. It runs on the selecting goroutine
// after the group's lock is released.
type Listener func(Event)

// Group is a tab container with a fixed, ordered set of panels.
type Group struct {
	id     string
	panels []string

	mu        sync.Mutex
	active    string
	listeners []Listener
}

// New creates a group whose active panel is initial. An empty initial
// selects the first panel.
func New(id string, panels []string, initial string) (*Group, error) {
	if len(panels) == 0 {
		return nil, fmt.Errorf("tab group %q has no panels", id)
	}
	seen := make(map[string]bool, len(panels))
	for _, p := range panels {
		if seen[p] {
			return nil, fmt.Errorf("tab group %q: duplicate panel %q", id, p)
		}
		seen[p] = true
	}
	if initial == "" {
		initial = panels[0]
	}
	if !seen[initial] {
		return nil, fmt.Errorf("tab group %q: initial %q: %w", id, initial, ErrUnknownPanel)
	}
	return &Group{
		id:     id,
		panels: append([]string(nil), panels...),
		active: initial,
	}, nil
}

// ID returns the group id.
func (g *Group) ID() string { return g.id }

// Panels returns the panel ids in display order.
func (g *Group) Panels() []string {
	return append([]string(nil), g.panels...)
}

// Active returns the visible panel.
func (g *Group) Active() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.active
}

// Has reports whether panel belongs to the group.
func (g *Group) Has(panel string) bool {
	for _, p := range g.panels {
		if p == panel {
			return true
		}
	}
	return false
}

// Subscribe registers fn for future visibility events.
func (g *Group) Subscribe(fn Listener) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.listeners = append(g.listeners, fn)
}

// Select makes panel visible. Selecting the active panel is a no-op and
// reports false.
func (g *Group) Select(panel string) (bool, error) {
	if !g.Has(panel) {
		return false, fmt.Errorf("tab group %q: %q: %w", g.id, panel, ErrUnknownPanel)
	}

	g.mu.Lock()
	if g.active == panel {
		g.mu.Unlock()
		return false, nil
	}
	ev := Event{Group: g.id, Panel: panel, Previous: g.active}
	g.active = panel
	listeners := append([]Listener(nil), g.listeners...)
	g.mu.Unlock()

	for _, fn := range listeners {
		fn(ev)
	}
	return true, nil
}
