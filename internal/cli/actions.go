package cli

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/idilsaglam/toodoo/internal/model"
	"github.com/idilsaglam/toodoo/internal/prompt"
	"github.com/idilsaglam/toodoo/internal/ui"
	"github.com/idilsaglam/toodoo/internal/validate"
)

const (
	keyBack    = "back"
	gotIt      = "You got it!"
	datePrompt = "Select date as MM/DD/YYYY or hit enter to skip."
)

// -------------- logged out ----------------

func (a *App) newUser(ctx context.Context) error {
	a.p.Say("Creating a new user:")
	name, err := a.p.Ask(ctx, "Username?", validate.UserName)
	if err != nil {
		return err
	}
	u, err := a.svc.CreateUser(ctx, name)
	if err != nil {
		return err
	}
	a.User, a.List = u, nil
	a.p.Say(fmt.Sprintf("We've created your account and logged you in. Thanks %s!", u.Name))
	return nil
}

func (a *App) login(ctx context.Context) error {
	users, err := a.svc.Users(ctx)
	if err != nil {
		return err
	}
	choices := make([]prompt.Choice, 0, len(users)+1)
	for _, u := range users {
		choices = append(choices, recordChoice(u.ID, u.Name, "Login as "+u.Name+"."))
	}
	choices = append(choices, backChoice("Just kidding, back to main menu!"))

	id, back, err := a.pick(ctx, "Please choose an account:", choices)
	if err != nil {
		return err
	}
	if back {
		a.p.Say(gotIt)
		a.User = nil
		return nil
	}
	u, err := a.svc.User(ctx, id)
	if err != nil {
		return err
	}
	a.User, a.List = u, nil
	return nil
}

// -------------- logged in ----------------

func (a *App) deleteUser(ctx context.Context) error {
	ok, err := a.confirm(ctx, "Are you *sure* you want to stop using TooDoo?")
	if err != nil || !ok {
		return err
	}
	if err := a.svc.DeleteUser(ctx, a.User); err != nil {
		return err
	}
	a.User, a.List = nil, nil
	return nil
}

func (a *App) newList(ctx context.Context) error {
	a.p.Say("Creating a new todo list.")
	title, err := a.p.Ask(ctx, "What do you want to name your Toodoo list as?", validate.Required("title"))
	if err != nil {
		return err
	}
	l, err := a.svc.CreateList(ctx, a.User, title)
	if err != nil {
		return err
	}
	a.List = l
	return nil
}

func (a *App) pickList(ctx context.Context) error {
	id, ok, err := a.chooseList(ctx, "Which Toodoo list do you want to use?", "Just kidding, back to the main menu!")
	if err != nil || !ok {
		return err
	}
	l, err := a.svc.List(ctx, id)
	if err != nil {
		return err
	}
	a.List = l
	return nil
}

func (a *App) deleteList(ctx context.Context) error {
	id, ok, err := a.chooseList(ctx, "Which Toodoo list do you want to delete?", "Keep them all, back to the main menu!")
	if err != nil || !ok {
		return err
	}
	l, err := a.svc.List(ctx, id)
	if err != nil {
		return err
	}
	yes, err := a.confirm(ctx, "Are you *sure* you want to delete this list?")
	if err != nil || !yes {
		return err
	}
	if err := a.svc.DeleteList(ctx, l); err != nil {
		return err
	}
	a.List = nil
	return nil
}

// chooseList offers the user's lists plus back. ok is false when there was
// nothing to pick or the user went back.
func (a *App) chooseList(ctx context.Context, question, backHelp string) (id int64, ok bool, err error) {
	lists, err := a.svc.Lists(ctx, a.User)
	if err != nil {
		return 0, false, err
	}
	if len(lists) == 0 {
		a.p.Say("No lists yet. Create one with new_list.")
		return 0, false, nil
	}
	choices := make([]prompt.Choice, 0, len(lists)+1)
	for _, l := range lists {
		choices = append(choices, recordChoice(l.ID, l.Title, ""))
	}
	choices = append(choices, backChoice(backHelp))

	id, back, err := a.pick(ctx, question, choices)
	if err != nil {
		return 0, false, err
	}
	if back {
		a.p.Say(gotIt)
		return 0, false, nil
	}
	return id, true, nil
}

// -------------- inside a list ----------------

func (a *App) newTask(ctx context.Context) error {
	name, err := a.p.Ask(ctx, "What task would you like to add?", validate.Required("task"))
	if err != nil {
		return err
	}
	it, err := a.svc.CreateItem(ctx, a.List, name, nil)
	if err != nil {
		return err
	}
	due, err := a.askDueDate(ctx)
	if err != nil {
		return err
	}
	_, err = a.svc.SetDueDate(ctx, it, due)
	return err
}

func (a *App) markDone(ctx context.Context) error {
	it, err := a.chooseItem(ctx, "Which Toodoo task is done?")
	if err != nil || it == nil {
		return err
	}
	a.p.Say(it.Name + " is done!")
	_, err = a.svc.MarkDone(ctx, it, true)
	return err
}

func (a *App) changeDueDate(ctx context.Context) error {
	it, err := a.chooseItem(ctx, "Which Toodoo task needs a new date?")
	if err != nil || it == nil {
		return err
	}
	due, err := a.askDueDate(ctx)
	if err != nil {
		return err
	}
	_, err = a.svc.SetDueDate(ctx, it, due)
	return err
}

func (a *App) editTask(ctx context.Context) error {
	it, err := a.chooseItem(ctx, "Which Toodoo task needs editing?")
	if err != nil || it == nil {
		return err
	}
	name, err := a.p.Ask(ctx, "What do you want to change the task to?", validate.Required("task"))
	if err != nil {
		return err
	}
	renamed, err := a.svc.Rename(ctx, it, name)
	if err != nil {
		return err
	}
	a.p.Say(fmt.Sprintf("%s is now %s!", it.Name, renamed.Name))
	return nil
}

// showDone flips the done-filter and lists the tasks on that side of it.
func (a *App) showDone(ctx context.Context) error {
	a.ShowDone = !a.ShowDone

	all, err := a.svc.Items(ctx, a.List)
	if err != nil {
		return err
	}
	done := 0
	for _, it := range all {
		if it.Done {
			done++
		}
	}
	a.p.Say(ui.C(ui.Current().Muted, ui.Stats(done, len(all)-done)+"  "+ui.ProgressBar(done, len(all), 20)))

	heading := "Incomplete tasks:"
	if a.ShowDone {
		heading = "Completed tasks:"
	}
	a.p.Say(heading)

	items, err := a.svc.ItemsByDone(ctx, a.List, a.ShowDone)
	if err != nil {
		return err
	}
	for _, it := range items {
		a.p.Say(it.Name)
	}
	return nil
}

// showOverdue prints "<YYYY-MM-DD> -- <name>" for tasks due before today.
func (a *App) showOverdue(ctx context.Context) error {
	items, err := a.svc.Overdue(ctx, a.List, a.Now())
	if err != nil {
		return err
	}
	if len(items) == 0 {
		a.p.Say(ui.C(ui.Current().Muted, "Nothing overdue."))
		return nil
	}
	for _, it := range items {
		a.p.Say(fmt.Sprintf("%s -- %s", it.DueString(), it.Name))
	}
	return nil
}

func (a *App) back(context.Context) error {
	a.p.Say(gotIt)
	a.List = nil
	return nil
}

// chooseItem offers the active list's tasks plus back. A nil item means
// there was nothing to pick or the user went back.
func (a *App) chooseItem(ctx context.Context, question string) (*model.Item, error) {
	items, err := a.svc.Items(ctx, a.List)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		a.p.Say("No tasks yet. Add one with new_task.")
		return nil, nil
	}
	choices := make([]prompt.Choice, 0, len(items)+1)
	for _, it := range items {
		choices = append(choices, recordChoice(it.ID, it.Name, itemHelp(it, a.Now())))
	}
	choices = append(choices, backChoice("Never mind."))

	id, back, err := a.pick(ctx, question, choices)
	if err != nil {
		return nil, err
	}
	if back {
		a.p.Say(gotIt)
		return nil, nil
	}
	return a.svc.Item(ctx, id)
}

// -------------- prompt helpers ----------------

// askDueDate returns nil when the answer is not a valid MM/DD/YYYY date.
func (a *App) askDueDate(ctx context.Context) (*time.Time, error) {
	s, err := a.p.Ask(ctx, datePrompt, nil)
	if err != nil {
		return nil, err
	}
	due, ok := validate.ParseDueDate(s)
	if !ok {
		return nil, nil
	}
	return &due, nil
}

func (a *App) confirm(ctx context.Context, question string) (bool, error) {
	r, err := a.p.Confirm(ctx, question, "yn")
	if err != nil {
		return false, err
	}
	return r == 'y', nil
}

// pick resolves a record menu to the chosen id.
func (a *App) pick(ctx context.Context, question string, choices []prompt.Choice) (id int64, back bool, err error) {
	key, err := a.p.Choose(ctx, question, choices)
	if err != nil {
		return 0, false, err
	}
	if key == keyBack {
		return 0, true, nil
	}
	id, err = strconv.ParseInt(key, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("menu key %q: %w", key, err)
	}
	return id, false, nil
}

func recordChoice(id int64, label, help string) prompt.Choice {
	return prompt.Choice{Key: strconv.FormatInt(id, 10), Label: label, Help: help}
}

// itemHelp is the checkbox and due date shown next to a task. Open tasks
// past their due date are flagged.
func itemHelp(it model.Item, today time.Time) string {
	t := ui.Current()
	help := t.Unchecked
	if it.Done {
		help = t.Checked
	}
	if due := it.DueString(); due != "" {
		help += " " + due
	}
	if !it.Done && it.Overdue(today) {
		help += " " + ui.C(t.Overdue, "(overdue)")
	}
	return help
}

func backChoice(help string) prompt.Choice {
	return prompt.Choice{Key: keyBack, Label: keyBack, Help: help}
}
