// Package prompt renders menus and collects answers for the interactive loop.
// Line works on any reader/writer pair; TUI drives Bubble Tea on a terminal.
package prompt

import (
	"errors"
	"io"

	"github.com/idilsaglam/toodoo/internal/ui"
)

// ErrClosed is returned when input ends (EOF, Ctrl-C, Esc).
var ErrClosed = errors.New("prompt: input closed")

// Choice is one menu entry. Key is what Choose returns; Label is what the
// user sees and may type; Help is an optional description.
type Choice struct {
	Key   string
	Label string
	Help  string
}

// Interactive reports whether both ends look like a terminal.
func Interactive(in io.Reader, out io.Writer) bool {
	return ui.IsTerminal(in) && ui.IsTerminal(out)
}
