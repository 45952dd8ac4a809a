package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/toodoo/internal/apperror"
	"github.com/idilsaglam/toodoo/internal/model"
	"github.com/idilsaglam/toodoo/internal/prompt"
	"github.com/idilsaglam/toodoo/internal/store/sqlite"
	"github.com/idilsaglam/toodoo/internal/todo"
	"github.com/idilsaglam/toodoo/internal/ui"
	"github.com/idilsaglam/toodoo/internal/validate"
)

// script is a Prompter fed from a fixed list of answers. Menu answers are
// labels (or 1-based numbers when no label matches); everything said is
// recorded line by line.
type script struct {
	t       *testing.T
	answers []string
	said    []string
	menus   [][]string
	// onChoose runs before a menu answer is returned
	onChoose func(question string)
}

func (s *script) next() (string, error) {
	if len(s.answers) == 0 {
		return "", prompt.ErrClosed
	}
	ans := s.answers[0]
	s.answers = s.answers[1:]
	return ans, nil
}

func (s *script) Choose(_ context.Context, question string, choices []prompt.Choice) (string, error) {
	var labels []string
	for _, c := range choices {
		labels = append(labels, c.Label)
	}
	s.menus = append(s.menus, labels)

	ans, err := s.next()
	if err != nil {
		return "", err
	}
	if s.onChoose != nil {
		s.onChoose(question)
	}
	for _, c := range choices {
		if c.Label == ans {
			return c.Key, nil
		}
	}
	if n, err := strconv.Atoi(ans); err == nil && n >= 1 && n <= len(choices) {
		return choices[n-1].Key, nil
	}
	s.t.Fatalf("%q is not on the menu %v (question %q)", ans, labels, question)
	return "", nil
}

func (s *script) Ask(_ context.Context, _ string, check func(string) error) (string, error) {
	for {
		ans, err := s.next()
		if err != nil {
			return "", err
		}
		if check != nil {
			if err := check(ans); err != nil {
				s.said = append(s.said, "invalid: "+err.Error())
				continue
			}
		}
		return ans, nil
	}
}

func (s *script) Confirm(_ context.Context, _ string, allowed string) (rune, error) {
	for {
		ans, err := s.next()
		if err != nil {
			return 0, err
		}
		r, err := validate.Confirm(ans, allowed)
		if err != nil {
			s.said = append(s.said, "invalid: "+err.Error())
			continue
		}
		return r, nil
	}
}

func (s *script) Say(msg string) {
	s.said = append(s.said, strings.Split(msg, "\n")...)
}

// after returns what was said following the last occurrence of line.
func (s *script) after(line string) []string {
	for i := len(s.said) - 1; i >= 0; i-- {
		if s.said[i] == line {
			return s.said[i+1:]
		}
	}
	return nil
}

func newTestApp(t *testing.T, answers ...string) (*App, *script) {
	t.Helper()
	ui.SetColor(false)

	db, err := sqlite.Open(filepath.Join(t.TempDir(), "app.db"), log.New(io.Discard))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	s := &script{t: t, answers: answers}
	app := New(todo.NewService(db), s, log.New(io.Discard))
	app.Now = func() time.Time { return time.Date(2024, 6, 1, 12, 0, 0, 0, time.Local) }
	return app, s
}

// steps runs n menu rounds and fails on error or an early quit.
func steps(t *testing.T, app *App, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		quit, err := app.Step(context.Background())
		require.NoError(t, err, "step %d", i+1)
		require.False(t, quit, "step %d quit early", i+1)
	}
}

func TestMenusFollowSessionState(t *testing.T) {
	app, s := newTestApp(t,
		"new_user", "alice",
		"new_list", "groceries",
		"back",
		"quit",
	)
	steps(t, app, 3)
	quit, err := app.Step(context.Background())
	require.NoError(t, err)
	assert.True(t, quit)

	require.Len(t, s.menus, 4)
	assert.Equal(t, []string{"new_user", "login", "quit"}, s.menus[0])
	assert.Equal(t, []string{"delete_account", "new_list", "pick_list", "remove_list", "quit"}, s.menus[1])
	assert.Equal(t, []string{"new_task", "mark_done", "move_date", "edit_task", "show_done", "show_overdue", "back", "quit"}, s.menus[2])
	assert.Equal(t, s.menus[1], s.menus[3], "back returns to list selection")
}

func TestNewUser_RepromptsUntilValid(t *testing.T) {
	app, s := newTestApp(t, "new_user", "not valid", "", "alice")
	steps(t, app, 1)

	require.NotNil(t, app.User)
	assert.Equal(t, "alice", app.User.Name)
	assert.Contains(t, s.said, "invalid: name may only contain letters, digits and underscores")
	assert.Contains(t, s.said, "invalid: name is required")
	assert.Contains(t, s.said, "We've created your account and logged you in. Thanks alice!")

	users, err := app.svc.Users(context.Background())
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestLogin(t *testing.T) {
	app, s := newTestApp(t, "login", "bob", "quit")
	ctx := context.Background()
	_, err := app.svc.CreateUser(ctx, "alice")
	require.NoError(t, err)
	_, err = app.svc.CreateUser(ctx, "bob")
	require.NoError(t, err)

	steps(t, app, 1)
	require.NotNil(t, app.User)
	assert.Equal(t, "bob", app.User.Name)
	assert.Equal(t, []string{"alice", "bob", "back"}, s.menus[1])
}

func TestLogin_Back(t *testing.T) {
	app, s := newTestApp(t, "login", "back")
	_, err := app.svc.CreateUser(context.Background(), "alice")
	require.NoError(t, err)

	steps(t, app, 1)
	assert.Nil(t, app.User)
	assert.Equal(t, "You got it!", s.said[len(s.said)-1])
}

func TestDeleteAccount(t *testing.T) {
	app, s := newTestApp(t,
		"new_user", "alice",
		"delete_account", "n",
		"delete_account", "Y", "yes", "y",
	)
	steps(t, app, 2)
	require.NotNil(t, app.User, "n keeps the account")

	steps(t, app, 1)
	assert.Nil(t, app.User)
	assert.Contains(t, s.said, "invalid: please answer with one of: y/n")

	users, err := app.svc.Users(context.Background())
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestPickAndDeleteList(t *testing.T) {
	app, s := newTestApp(t,
		"new_user", "alice",
		"new_list", "groceries",
		"back",
		"new_list", "chores",
		"back",
		"pick_list", "back",
		"pick_list", "groceries",
		"back",
		"remove_list", "chores", "n",
		"remove_list", "chores", "y",
	)
	steps(t, app, 6)
	assert.Nil(t, app.List, "back from pick_list leaves no active list")

	steps(t, app, 1)
	require.NotNil(t, app.List)
	assert.Equal(t, "groceries", app.List.Title)

	steps(t, app, 3)
	assert.Nil(t, app.List)

	lists, err := app.svc.Lists(context.Background(), app.User)
	require.NoError(t, err)
	require.Len(t, lists, 1)
	assert.Equal(t, "groceries", lists[0].Title)
	assert.Equal(t, []string{"groceries", "chores", "back"}, s.menus[len(s.menus)-1])
}

func TestPickList_NoLists(t *testing.T) {
	app, s := newTestApp(t, "new_user", "alice", "pick_list")
	steps(t, app, 2)
	assert.Nil(t, app.List)
	assert.Equal(t, "No lists yet. Create one with new_list.", s.said[len(s.said)-1])
}

func TestShowOverdue(t *testing.T) {
	app, s := newTestApp(t,
		"new_user", "alice",
		"new_list", "groceries",
		"new_task", "milk", "01/01/2020",
		"new_task", "eggs", "06/01/2024", // due today: not overdue
		"new_task", "bread", "",
		"new_task", "jam", "12/31/2019",
		"show_overdue",
	)
	steps(t, app, 7)

	assert.Equal(t, []string{"2019-12-31 -- jam", "2020-01-01 -- milk"}, s.said[len(s.said)-2:])
}

func TestShowOverdue_Nothing(t *testing.T) {
	app, s := newTestApp(t, "new_user", "alice", "new_list", "groceries", "show_overdue")
	steps(t, app, 3)
	assert.Equal(t, "Nothing overdue.", s.said[len(s.said)-1])
}

func TestDoneFilter(t *testing.T) {
	app, s := newTestApp(t,
		"new_user", "alice",
		"new_list", "groceries",
		"new_task", "milk", "01/01/2020",
		"new_task", "eggs", "",
		"mark_done", "milk",
		"show_done",
		"show_done",
	)
	steps(t, app, 5)
	assert.Equal(t, "milk is done!", s.said[len(s.said)-1])
	assert.False(t, app.ShowDone)

	steps(t, app, 1)
	assert.True(t, app.ShowDone)
	assert.Equal(t, []string{"milk"}, s.after("Completed tasks:"))

	steps(t, app, 1)
	assert.False(t, app.ShowDone)
	assert.Equal(t, []string{"eggs"}, s.after("Incomplete tasks:"))
}

func TestDoneFilter_ToggleTwiceRestores(t *testing.T) {
	app, s := newTestApp(t,
		"new_user", "alice",
		"new_list", "groceries",
		"new_task", "milk", "",
		"show_done", "show_done", "show_done",
	)
	steps(t, app, 4)
	before := append([]string(nil), s.said[len(s.said)-2:]...)
	flag := app.ShowDone

	steps(t, app, 2)
	assert.Equal(t, flag, app.ShowDone)
	assert.Equal(t, before, s.said[len(s.said)-2:])
	assert.Equal(t, "Completed tasks:", before[1])
}

func TestEditTask(t *testing.T) {
	app, s := newTestApp(t,
		"new_user", "alice",
		"new_list", "groceries",
		"new_task", "milk", "",
		"edit_task", "milk", "  ", "oat milk",
	)
	steps(t, app, 4)
	assert.Equal(t, "milk is now oat milk!", s.said[len(s.said)-1])

	items, err := app.svc.Items(context.Background(), app.List)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "oat milk", items[0].Name)
}

func TestChangeDueDate(t *testing.T) {
	app, _ := newTestApp(t,
		"new_user", "alice",
		"new_list", "groceries",
		"new_task", "milk", "01/01/2020",
		"move_date", "milk", "02/30/2024",
		"move_date", "milk", "13/01/2024",
	)
	ctx := context.Background()
	steps(t, app, 4)

	items, err := app.svc.Items(ctx, app.List)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-01", items[0].DueString())

	// an unparseable date counts as skip, which clears the date
	steps(t, app, 1)
	items, err = app.svc.Items(ctx, app.List)
	require.NoError(t, err)
	assert.Nil(t, items[0].DueDate)
}

func TestTaskMenus_Empty(t *testing.T) {
	app, s := newTestApp(t, "new_user", "alice", "new_list", "groceries", "mark_done")
	steps(t, app, 3)
	assert.Equal(t, "No tasks yet. Add one with new_task.", s.said[len(s.said)-1])
}

func TestQuitFromAnyState(t *testing.T) {
	prefixes := [][]string{
		nil,
		{"new_user", "alice"},
		{"new_user", "alice", "new_list", "groceries"},
	}
	for i, prefix := range prefixes {
		t.Run(strconv.Itoa(i), func(t *testing.T) {
			app, _ := newTestApp(t, append(prefix, "quit")...)
			steps(t, app, len(prefix)/2)
			quit, err := app.Step(context.Background())
			require.NoError(t, err)
			assert.True(t, quit)
		})
	}
}

func TestRun_EndOfInputEndsCleanly(t *testing.T) {
	app, s := newTestApp(t, "new_user", "alice")
	require.NoError(t, app.Run(context.Background()))
	assert.Contains(t, strings.Join(s.said, "\n"), "Welcome to your personal TooDoo app.")
}

func TestStaleSelectionIsFatal(t *testing.T) {
	app, s := newTestApp(t,
		"new_user", "alice",
		"new_list", "groceries",
		"back",
		"pick_list", "groceries",
	)
	steps(t, app, 3)

	s.onChoose = func(question string) {
		if question != "Which Toodoo list do you want to use?" {
			return
		}
		lists, err := app.svc.Lists(context.Background(), app.User)
		require.NoError(t, err)
		require.NoError(t, app.svc.DeleteList(context.Background(), &lists[0]))
	}
	_, err := app.Step(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperror.ErrNotFound))
	assert.True(t, apperror.IsFatal(err))
}

func TestRun_WithLinePrompter(t *testing.T) {
	ui.SetColor(false)

	db, err := sqlite.Open(filepath.Join(t.TempDir(), "line.db"), log.New(io.Discard))
	require.NoError(t, err)
	defer db.Close()

	input := strings.Join([]string{
		"new_user", "alice",
		"new_list", "groceries",
		"new_task", "milk", "01/01/2020",
		"show_overdue",
		"mark_done", "milk",
		"show_done",
		"quit",
	}, "\n") + "\n"
	var out bytes.Buffer
	app := New(todo.NewService(db), prompt.NewLine(strings.NewReader(input), &out), log.New(io.Discard))
	app.Now = func() time.Time { return time.Date(2024, 6, 1, 0, 0, 0, 0, time.Local) }

	require.NoError(t, app.Run(context.Background()))

	got := out.String()
	assert.Contains(t, got, "2020-01-01 -- milk\n")
	assert.Contains(t, got, "milk is done!\n")
	assert.Contains(t, got, "Completed tasks:\nmilk\n")
}

func TestItemHelp(t *testing.T) {
	ui.SetColor(false)
	today := time.Date(2020, 1, 1, 9, 0, 0, 0, time.UTC)
	due := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "☐ 2020-01-01", itemHelp(model.Item{DueDate: &due}, today))
	assert.Equal(t, "☑", itemHelp(model.Item{Done: true}, today))

	past := time.Date(2019, 12, 31, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "☐ 2019-12-31 (overdue)", itemHelp(model.Item{DueDate: &past}, today))
	assert.Equal(t, "☑ 2019-12-31", itemHelp(model.Item{DueDate: &past, Done: true}, today),
		"finished tasks are never overdue")
}
