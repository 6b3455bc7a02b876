package highlight

import (
	"html"
	"log/slog"
)

// Result summarizes one highlight pass.
type Result struct {
	// Doc is the scanned document. Pass leaves it nil.
	Doc *Document
	// Panel is the scanned panel, or BodyPanel for a whole-document pass.
	Panel string
	// Whole is true for a pass triggered by navigation.
	Whole bool
	// Highlighted lists the blocks this pass marked, fallbacks included.
	Highlighted []*Block
	// Fallbacks counts blocks marked with plain text.
	Fallbacks int
}

// Pass marks every unmarked block in blocks. Blocks already marked, or
// claimed by a concurrent pass, are skipped. A failing block falls back to
// escaped plain text and never stops its siblings.
func Pass(blocks []*Block, hl Highlighter, log *slog.Logger) Result {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	var res Result
	for _, b := range blocks {
		if !b.claim() {
			continue
		}
		out, fallback := apply(hl, b, log)
		b.mark(out, fallback)
		res.Highlighted = append(res.Highlighted, b)
		if fallback {
			res.Fallbacks++
		}
	}
	return res
}

func apply(hl Highlighter, b *Block, log *slog.Logger) (out string, fallback bool) {
	defer func() {
		if r := recover(); r != nil {
			log.Debug("highlighter panicked", "block", b.ID, "language", b.Sample.Language, "panic", r)
			out, fallback = html.EscapeString(b.Sample.Source), true
		}
	}()

	s, err := hl.Highlight(b.Sample.Language, b.Sample.Source)
	if err != nil {
		log.Debug("highlight skipped", "block", b.ID, "language", b.Sample.Language, "error", err)
		return html.EscapeString(b.Sample.Source), true
	}
	return s, false
}
