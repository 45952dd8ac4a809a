package ui

import "strings"

// Theme is what a session is drawn with: a palette (ANSI sequences, empty
// for none), task marks and the frame around the welcome panel.
type Theme struct {
	Name string

	Title, Muted, Error string
	Done, Open, Overdue string

	Checked, Unchecked string // task checkbox in menus
	DoneMark, OpenMark string // counters in Stats
	FailMark           string

	TL, TR, BL, BR, H, V string
}

var themes = map[string]Theme{
	"classic": {
		Name: "classic",
		Title: bold, Muted: fgGray, Error: fgRed,
		Done: fgGreen, Open: fgYellow, Overdue: fgRed,
		Checked: "☑", Unchecked: "☐",
		DoneMark: "✔", OpenMark: "•", FailMark: "✖",
		TL: "┌", TR: "┐", BL: "└", BR: "┘", H: "─", V: "│",
	},
	"neon": {
		Name: "neon",
		Title: fgMagenta, Muted: fgGray, Error: fgRed,
		Done: fgCyan, Open: fgBlue, Overdue: fgMagenta + bold,
		Checked: "◼", Unchecked: "◻",
		DoneMark: "✔", OpenMark: "•", FailMark: "✖",
		TL: "╭", TR: "╮", BL: "╰", BR: "╯", H: "─", V: "│",
	},
	// mono has no palette at all, so it stays plain whatever SetColor says
	"mono": {
		Name: "mono",
		Checked: "[x]", Unchecked: "[ ]",
		DoneMark: "x", OpenMark: "-", FailMark: "!",
		TL: "+", TR: "+", BL: "+", BR: "+", H: "-", V: "|",
	},
}

var current = themes["classic"]

// SetTheme switches to the named theme. Unknown names leave the current
// theme in place and report false.
func SetTheme(name string) bool {
	t, ok := themes[strings.ToLower(name)]
	if ok {
		current = t
	}
	return ok
}

// Current is the active theme.
func Current() Theme { return current }
