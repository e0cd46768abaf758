package display

import (
	"github.com/muesli/reflow/wordwrap"
)

// DefaultWidth matches the usual telnet terminal width of a console session.
const DefaultWidth = 80

// Wrap word-wraps console output to DefaultWidth, preserving ANSI escape
// sequences.
func Wrap(text string) string {
	return wordwrap.String(text, DefaultWidth)
}
