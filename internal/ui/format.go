package ui

import (
	"io"
	"strings"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/muesli/reflow/wordwrap"
)

// WrapText wraps text at width columns and indents every line by indent
// spaces.
func WrapText(text string, width, indent int) string {
	if width-indent > 10 {
		width -= indent
	}
	return Indent(wordwrap.String(strings.TrimSpace(text), width), indent)
}

// Highlight writes source to w with syntax highlighting for lexer. With plain
// set the source is written as is.
func Highlight(w io.Writer, source, lexer string, plain bool) error {
	if plain {
		_, err := io.WriteString(w, source)
		return err
	}
	return quick.Highlight(w, source, lexer, "terminal256", "monokai")
}
