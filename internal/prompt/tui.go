package prompt

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/toodoo/internal/validate"
)

// TUI asks every question with a small inline Bubble Tea program.
type TUI struct {
	in  io.Reader
	out io.Writer
}

func NewTUI(in io.Reader, out io.Writer) *TUI {
	return &TUI{in: in, out: out}
}

func (p *TUI) Say(msg string) {
	fmt.Fprintln(p.out, msg)
}

func (p *TUI) Choose(ctx context.Context, question string, choices []Choice) (string, error) {
	if len(choices) == 0 {
		return "", errors.New("prompt: empty menu")
	}
	m, err := p.run(ctx, newMenuModel(question, choices))
	if err != nil {
		return "", err
	}
	mm := m.(menuModel)
	if mm.cancelled || !mm.done {
		return "", ErrClosed
	}
	p.echo(question, mm.picked.Label)
	return mm.picked.Key, nil
}

func (p *TUI) Ask(ctx context.Context, question string, check func(string) error) (string, error) {
	m, err := p.run(ctx, newInputModel(question, 200, check))
	if err != nil {
		return "", err
	}
	im := m.(inputModel)
	if im.cancelled {
		return "", ErrClosed
	}
	p.echo(question, im.value)
	return im.value, nil
}

func (p *TUI) Confirm(ctx context.Context, question, allowed string) (rune, error) {
	var answer rune
	check := func(s string) error {
		r, err := validate.Confirm(s, allowed)
		answer = r
		return err
	}
	m, err := p.run(ctx, newInputModel(question, 1, check))
	if err != nil {
		return 0, err
	}
	im := m.(inputModel)
	if im.cancelled {
		return 0, ErrClosed
	}
	p.echo(question, im.value)
	return answer, nil
}

func (p *TUI) run(ctx context.Context, m tea.Model) (tea.Model, error) {
	prog := tea.NewProgram(m, tea.WithContext(ctx), tea.WithInput(p.in), tea.WithOutput(p.out))
	final, err := prog.Run()
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("prompt: %w", err)
	}
	return final, nil
}

// echo leaves the answered question in the scrollback once the program exits.
func (p *TUI) echo(question, answer string) {
	fmt.Fprintln(p.out, titleStyle.Render(question)+" "+answerStyle.Render(answer))
}

// -------------- menu ----------------

// choiceItem adapts a Choice to bubbles/list.Item.
type choiceItem struct{ Choice }

func (i choiceItem) Title() string       { return i.Label }
func (i choiceItem) Description() string { return i.Help }
func (i choiceItem) FilterValue() string { return i.Label }

// single-line delegate: "> label  help"
type choiceDelegate struct{}

func (d choiceDelegate) Height() int                               { return 1 }
func (d choiceDelegate) Spacing() int                              { return 0 }
func (d choiceDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d choiceDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(choiceItem)
	if !ok {
		return
	}
	line := it.Label
	if it.Help != "" {
		line += "  " + mutedStyle.Render(it.Help)
	}
	prefix := "  "
	if index == m.Index() {
		prefix = selectedStyle.Render("> ")
	}
	fmt.Fprint(w, prefix+line)
}

type menuModel struct {
	list      list.Model
	picked    Choice
	done      bool
	cancelled bool
}

func newMenuModel(question string, choices []Choice) menuModel {
	items := make([]list.Item, 0, len(choices))
	for _, c := range choices {
		items = append(items, choiceItem{c})
	}
	l := list.New(items, choiceDelegate{}, 80, menuHeight(len(items), 24))
	l.Title = question
	l.Styles.Title = titleStyle
	l.Styles.HelpStyle = helpStyle
	l.Styles.PaginationStyle = helpStyle
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.FilterInput.Prompt = "/ "
	pick := key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "choose"))
	l.AdditionalShortHelpKeys = func() []key.Binding { return []key.Binding{pick} }
	l.KeyMap.Quit.SetEnabled(false)
	l.KeyMap.ForceQuit.SetEnabled(false)
	return menuModel{list: l}
}

// room for title, help and pagination around the items
func menuHeight(n, termHeight int) int {
	h := n + 6
	if termHeight > 2 && h > termHeight-2 {
		h = termHeight - 2
	}
	return h
}

func (m menuModel) Init() tea.Cmd { return nil }

func (m menuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width-2, menuHeight(len(m.list.Items()), msg.Height))
		return m, nil
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.cancelled = true
			return m, tea.Quit
		}
		// esc and enter belong to the filter while it is open
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch msg.String() {
		case "esc":
			m.cancelled = true
			return m, tea.Quit
		case "enter":
			if it, ok := m.list.SelectedItem().(choiceItem); ok {
				m.picked = it.Choice
				m.done = true
				return m, tea.Quit
			}
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m menuModel) View() string {
	if m.done || m.cancelled {
		return ""
	}
	return m.list.View()
}

// -------------- free text ----------------

type inputModel struct {
	question  string
	ti        textinput.Model
	check     func(string) error
	errMsg    string
	value     string
	done      bool
	cancelled bool
}

func newInputModel(question string, limit int, check func(string) error) inputModel {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.CharLimit = limit
	ti.Focus()
	return inputModel{question: question, ti: ti, check: check}
}

func (m inputModel) Init() tea.Cmd { return textinput.Blink }

func (m inputModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.String() {
		case "ctrl+c", "esc":
			m.cancelled = true
			return m, tea.Quit
		case "enter":
			v := strings.TrimSpace(m.ti.Value())
			if m.check != nil {
				if err := m.check(v); err != nil {
					m.errMsg = err.Error()
					return m, nil
				}
			}
			m.value = v
			m.done = true
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.ti, cmd = m.ti.Update(msg)
	return m, cmd
}

func (m inputModel) View() string {
	if m.done || m.cancelled {
		return ""
	}
	title := titleStyle.Render(m.question)
	if m.errMsg != "" {
		title += " " + errorStyle.Render(m.errMsg)
	}
	return inputBar.Render(title+"\n"+m.ti.View()) + "\n"
}
