package highlight

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// ErrUnsupportedLanguage is returned when no lexer matches a language tag.
var ErrUnsupportedLanguage = errors.New("unsupported language")

// Highlighter turns source text into highlighted markup.
type Highlighter interface {
	Highlight(language, source string) (string, error)
}

// Chroma highlights with chroma lexers and emits class-based markup, so
// the page only needs the stylesheet from WriteCSS.
type Chroma struct {
	style     *chroma.Style
	formatter *chromahtml.Formatter
}

// NewChroma returns a Chroma highlighter for the named style. Unknown
// style names fall back to chroma's default style.
func NewChroma(style string, lineNumbers bool) *Chroma {
	return &Chroma{
		style: styles.Get(style),
		formatter: chromahtml.New(
			chromahtml.WithClasses(true),
			chromahtml.PreventSurroundingPre(true),
			chromahtml.WithLineNumbers(lineNumbers),
		),
	}
}

// Highlight implements Highlighter.
func (c *Chroma) Highlight(language, source string) (string, error) {
	lang := NormalizeLanguage(language)
	if lang == "" {
		return "", fmt.Errorf("%w: empty tag", ErrUnsupportedLanguage)
	}
	lexer := lexers.Get(lang)
	if lexer == nil {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedLanguage, lang)
	}
	lexer = chroma.Coalesce(lexer)

	it, err := lexer.Tokenise(nil, source)
	if err != nil {
		return "", fmt.Errorf("tokenising %s: %w", lang, err)
	}

	var buf bytes.Buffer
	if err := c.formatter.Format(&buf, c.style, it); err != nil {
		return "", fmt.Errorf("formatting %s: %w", lang, err)
	}
	return buf.String(), nil
}

// WriteCSS writes the stylesheet for the configured style.
func (c *Chroma) WriteCSS(w io.Writer) error {
	return c.formatter.WriteCSS(w, c.style)
}

// NormalizeLanguage strips a "language-" class prefix and lowercases the tag.
func NormalizeLanguage(tag string) string {
	tag = strings.TrimSpace(strings.ToLower(tag))
	return strings.TrimPrefix(tag, "language-")
}
