package ui

import (
	"fmt"
	"io"
	"os"
)

// ANSI SGR sequences the palettes are built from.
const (
	reset     = "\033[0m"
	bold      = "\033[1m"
	fgRed     = "\033[31m"
	fgGreen   = "\033[32m"
	fgYellow  = "\033[33m"
	fgBlue    = "\033[34m"
	fgGray    = "\033[90m"
	fgMagenta = "\033[95m"
	fgCyan    = "\033[96m"
)

// colorOn gates every escape sequence this package emits. Off until the
// caller has decided the output can take colour.
var colorOn bool

// SetColor turns colour output on or off.
func SetColor(on bool) { colorOn = on }

// IsTerminal reports whether v is an *os.File attached to a character device.
func IsTerminal(v any) bool {
	f, ok := v.(*os.File)
	if !ok {
		return false
	}
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

// C wraps s in color. It is a no-op while colour is off or color is empty.
func C(color, s string) string {
	if !colorOn || color == "" {
		return s
	}
	return color + s + reset
}

// Fail prints msg as a failure line.
func Fail(w io.Writer, msg string) {
	t := Current()
	fmt.Fprintln(w, C(t.Error, t.FailMark+" "+msg))
}
