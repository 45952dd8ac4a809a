package prompt

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/idilsaglam/toodoo/internal/ui"
	"github.com/idilsaglam/toodoo/internal/validate"
)

// Line is a plain line-oriented prompter: numbered menus, one answer per line.
type Line struct {
	in  *bufio.Reader
	out io.Writer
}

func NewLine(in io.Reader, out io.Writer) *Line {
	return &Line{in: bufio.NewReader(in), out: out}
}

func (p *Line) Say(msg string) {
	fmt.Fprintln(p.out, msg)
}

// Choose prints the menu and reads until the answer names one entry: its
// label, its number, or a prefix matching a single label. A label equal to
// the answer wins over the number; a label shared by several entries must be
// picked by number.
func (p *Line) Choose(ctx context.Context, question string, choices []Choice) (string, error) {
	if len(choices) == 0 {
		return "", errors.New("prompt: empty menu")
	}
	width := 0
	for _, c := range choices {
		width = max(width, len(c.Label))
	}
	for {
		for i, c := range choices {
			line := fmt.Sprintf("%2d. %-*s", i+1, width, c.Label)
			if c.Help != "" {
				line += "  " + ui.C(ui.Current().Muted, c.Help)
			}
			fmt.Fprintln(p.out, strings.TrimRight(line, " "))
		}
		ans, err := p.ask(ctx, question)
		if err != nil {
			return "", err
		}
		c, err := match(choices, ans)
		if err == nil {
			return c.Key, nil
		}
		msg := fmt.Sprintf("You must choose one of 1-%d or a name from the menu.", len(choices))
		if errors.Is(err, errAmbiguous) {
			msg = fmt.Sprintf("More than one entry is named %q, answer with its number.", ans)
		}
		fmt.Fprintln(p.out, ui.C(ui.Current().Error, msg))
	}
}

// Ask reads a line, re-asking while check rejects it. A nil check accepts anything.
func (p *Line) Ask(ctx context.Context, question string, check func(string) error) (string, error) {
	for {
		ans, err := p.ask(ctx, question)
		if err != nil {
			return "", err
		}
		if check == nil {
			return ans, nil
		}
		if err := check(ans); err != nil {
			fmt.Fprintln(p.out, ui.C(ui.Current().Error, err.Error()))
			continue
		}
		return ans, nil
	}
}

// Confirm reads until the answer is exactly one character from allowed.
func (p *Line) Confirm(ctx context.Context, question, allowed string) (rune, error) {
	for {
		ans, err := p.ask(ctx, question)
		if err != nil {
			return 0, err
		}
		r, err := validate.Confirm(ans, allowed)
		if err != nil {
			fmt.Fprintln(p.out, ui.C(ui.Current().Error, err.Error()))
			continue
		}
		return r, nil
	}
}

func (p *Line) ask(ctx context.Context, question string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	fmt.Fprint(p.out, question+" ")
	s, err := p.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && s != "" {
			return strings.TrimSpace(s), nil
		}
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(p.out)
			return "", ErrClosed
		}
		return "", fmt.Errorf("prompt: read: %w", err)
	}
	return strings.TrimSpace(s), nil
}

var (
	errNoMatch   = errors.New("no menu entry matches")
	errAmbiguous = errors.New("several menu entries match")
)

func match(choices []Choice, ans string) (Choice, error) {
	if ans == "" {
		return Choice{}, errNoMatch
	}
	var exact []Choice
	for _, c := range choices {
		if c.Label == ans {
			exact = append(exact, c)
		}
	}
	switch len(exact) {
	case 1:
		return exact[0], nil
	case 0:
	default:
		return Choice{}, errAmbiguous
	}
	if n, err := strconv.Atoi(ans); err == nil && n >= 1 && n <= len(choices) {
		return choices[n-1], nil
	}
	var found []Choice
	for _, c := range choices {
		if strings.HasPrefix(c.Label, ans) {
			found = append(found, c)
		}
	}
	if len(found) == 1 {
		return found[0], nil
	}
	return Choice{}, errNoMatch
}
