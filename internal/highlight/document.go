// Package highlight keeps server-rendered code blocks in sync with the
// panels a reader can actually see.
//
// Every rendered page owns a Document: an arena of code blocks, each
// carrying its own HighlightMark. Tab components announce visibility
// changes explicitly and a Controller highlights the newly visible blocks
// after a short deferred delay. A block moves from unmarked to marked
// exactly once; there is no way back.
package highlight

import (
	"sync"
	"sync/atomic"

	"github.com/ziadkadry99/kinlink-docs/internal/content"
)

// BodyPanel is the panel id of content outside any tab group. It is
// mounted from the start.
const BodyPanel = ""

const (
	stateUnmarked int32 = iota
	stateClaimed
	stateMarked
)

// Block is one code block inside a Document.
type Block struct {
	ID     int
	Panel  string
	Sample content.CodeSample

	state    atomic.Int32
	output   string
	fallback bool
}

// Marked reports whether the block carries its HighlightMark.
func (b *Block) Marked() bool {
	return b.state.Load() == stateMarked
}

// Output returns the markup produced for a marked block. ok is false while
// the block is unmarked.
func (b *Block) Output() (html string, ok bool) {
	if !b.Marked() {
		return "", false
	}
	return b.output, true
}

// Fallback reports whether the block was marked with plain escaped text
// because highlighting failed.
func (b *Block) Fallback() bool {
	return b.Marked() && b.fallback
}

// claim moves the block out of the unmarked state. Only one caller wins.
func (b *Block) claim() bool {
	return b.state.CompareAndSwap(stateUnmarked, stateClaimed)
}

// mark publishes the output. Must only be called by the claim winner.
func (b *Block) mark(out string, fallback bool) {
	b.output = out
	b.fallback = fallback
	b.state.Store(stateMarked)
}

// Document is the per-page arena of code blocks. Panels other than the
// body start unmounted and contribute no blocks to scans until Mount.
type Document struct {
	Route string

	mu      sync.RWMutex
	blocks  []*Block
	mounted map[string]bool
}

// NewDocument creates an empty document for route.
func NewDocument(route string) *Document {
	return &Document{
		Route:   route,
		mounted: map[string]bool{BodyPanel: true},
	}
}

// Add appends a block for sample to panel and returns it.
func (d *Document) Add(panel string, sample content.CodeSample) *Block {
	d.mu.Lock()
	defer d.mu.Unlock()
	b := &Block{ID: len(d.blocks), Panel: panel, Sample: sample}
	d.blocks = append(d.blocks, b)
	return b
}

// Mount attaches panel so its blocks become visible to scans. It reports
// whether the panel was newly mounted.
func (d *Document) Mount(panel string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.mounted[panel] {
		return false
	}
	d.mounted[panel] = true
	return true
}

// Mounted reports whether panel is attached.
func (d *Document) Mounted(panel string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.mounted[panel]
}

// Block returns the block with the given id.
func (d *Document) Block(id int) (*Block, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if id < 0 || id >= len(d.blocks) {
		return nil, false
	}
	return d.blocks[id], true
}

// Blocks returns the blocks of panel, or nil when the panel is not mounted.
func (d *Document) Blocks(panel string) []*Block {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if !d.mounted[panel] {
		return nil
	}
	var out []*Block
	for _, b := range d.blocks {
		if b.Panel == panel {
			out = append(out, b)
		}
	}
	return out
}

// Attached returns every block whose panel is mounted.
func (d *Document) Attached() []*Block {
	d.mu.RLock()
	defer d.mu.RUnlock()
	var out []*Block
	for _, b := range d.blocks {
		if d.mounted[b.Panel] {
			out = append(out, b)
		}
	}
	return out
}

// Len returns the number of blocks in the arena.
func (d *Document) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.blocks)
}
