package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/idilsaglam/toodoo/internal/apperror"
	"github.com/idilsaglam/toodoo/internal/model"
	"github.com/idilsaglam/toodoo/internal/prompt"
	"github.com/idilsaglam/toodoo/internal/todo"
	"github.com/idilsaglam/toodoo/internal/ui"
)

// Prompter renders menus and collects answers. prompt.Line and prompt.TUI
// implement it.
type Prompter interface {
	Choose(ctx context.Context, question string, choices []prompt.Choice) (string, error)
	Ask(ctx context.Context, question string, check func(string) error) (string, error)
	Confirm(ctx context.Context, question, allowed string) (rune, error)
	Say(msg string)
}

// Session is what the loop remembers between menus.
type Session struct {
	User     *model.User // logged-in user, nil before login
	List     *model.List // active list, nil outside a list
	ShowDone bool        // done-filter: show completed (true) or open (false) tasks
}

// App is the interactive menu loop.
type App struct {
	Session

	svc    *todo.Service
	p      Prompter
	logger *log.Logger

	// Now is "today" for overdue checks.
	Now func() time.Time
}

func New(svc *todo.Service, p Prompter, logger *log.Logger) *App {
	if logger == nil {
		logger = log.Default()
	}
	return &App{svc: svc, p: p, logger: logger, Now: time.Now}
}

// action is one menu entry available in the current state.
type action struct {
	key  string
	help string
	run  func(ctx context.Context) error
}

const keyQuit = "quit"

// Run shows the menu until the user quits or input ends. Any returned error
// is fatal: a store failure or a selection that no longer exists.
func (a *App) Run(ctx context.Context) error {
	a.p.Say(ui.Panel([]string{ui.C(ui.Current().Title, "Welcome to your personal TooDoo app.")}))
	for {
		quit, err := a.Step(ctx)
		if errors.Is(err, prompt.ErrClosed) {
			a.logger.Debug("input closed")
			return nil
		}
		if err != nil {
			return err
		}
		if quit {
			return nil
		}
	}
}

// Step shows one menu and performs the chosen action. It reports true when
// the user picked quit.
func (a *App) Step(ctx context.Context) (bool, error) {
	actions := a.actions()
	choices := make([]prompt.Choice, 0, len(actions)+1)
	for _, act := range actions {
		choices = append(choices, prompt.Choice{Key: act.key, Label: act.key, Help: act.help})
	}
	choices = append(choices, prompt.Choice{Key: keyQuit, Label: keyQuit, Help: "Quit!"})

	key, err := a.p.Choose(ctx, a.menuPrompt(), choices)
	if err != nil {
		return false, err
	}
	if key == keyQuit {
		a.logger.Debug("quit")
		return true, nil
	}
	for _, act := range actions {
		if act.key != key {
			continue
		}
		a.logger.Debug("action", "key", key)
		err := act.run(ctx)
		if err != nil && !apperror.IsFatal(err) {
			// validation slipped past the prompt; report and show the menu again
			a.p.Say(ui.C(ui.Current().Error, err.Error()))
			return false, nil
		}
		return false, err
	}
	return false, fmt.Errorf("unknown menu choice %q", key)
}

// actions lists what the current session state allows, in menu order.
func (a *App) actions() []action {
	switch {
	case a.User == nil:
		return []action{
			{"new_user", "Create a new user.", a.newUser},
			{"login", "Login with an existing account.", a.login},
		}
	case a.List == nil:
		return []action{
			{"delete_account", "Delete the current user account.", a.deleteUser},
			{"new_list", "Create a new todo list.", a.newList},
			{"pick_list", "Work on an existing list.", a.pickList},
			{"remove_list", "Delete a todo list.", a.deleteList},
		}
	default:
		return []action{
			{"new_task", "Add a new task.", a.newTask},
			{"mark_done", "Mark a task finished.", a.markDone},
			{"move_date", "Change a task's due date.", a.changeDueDate},
			{"edit_task", "Update a task's description.", a.editTask},
			{"show_done", "Toggle display of tasks you've finished.", a.showDone},
			{"show_overdue", "Show a list of tasks that are overdue, oldest first.", a.showOverdue},
			{"back", "Go work on another Toodoo list!", a.back},
		}
	}
}

func (a *App) menuPrompt() string {
	switch {
	case a.User == nil:
		return "What would you like to do?"
	case a.List == nil:
		return fmt.Sprintf("[%s] What would you like to do?", a.User.Name)
	default:
		return fmt.Sprintf("[%s / %s] What would you like to do?", a.User.Name, a.List.Title)
	}
}
