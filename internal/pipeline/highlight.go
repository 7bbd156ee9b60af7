package pipeline

import (
	"html"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// DefaultCodeTheme is the chroma style used for code blocks. It is a dark
// theme so token colors read well on the code block background.
const DefaultCodeTheme = "monokai"

// Highlighter colors code block contents with inline styles. Inline styles
// are required because the .doc export carries no stylesheet.
type Highlighter struct {
	style     *chroma.Style
	formatter *chromahtml.Formatter
}

// NewHighlighter creates a Highlighter for the named chroma theme.
// Unknown themes fall back to chroma's default style.
func NewHighlighter(theme string) *Highlighter {
	return &Highlighter{
		style: styles.Get(theme),
		formatter: chromahtml.New(
			chromahtml.WithClasses(false),
			chromahtml.PreventSurroundingPre(true),
		),
	}
}

// Highlight returns HTML for code in the given language. Code in an
// unknown or empty language is escaped but not colored.
func (h *Highlighter) Highlight(code, language string) string {
	if language == "" {
		return html.EscapeString(code)
	}
	lexer := lexers.Get(language)
	if lexer == nil {
		return html.EscapeString(code)
	}
	lexer = chroma.Coalesce(lexer)

	it, err := lexer.Tokenise(nil, code)
	if err != nil {
		return html.EscapeString(code)
	}

	var sb strings.Builder
	if err := h.formatter.Format(&sb, h.style, it); err != nil {
		return html.EscapeString(code)
	}
	return sb.String()
}
