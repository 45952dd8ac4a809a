package todo

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/toodoo/internal/apperror"
	"github.com/idilsaglam/toodoo/internal/model"
	"github.com/idilsaglam/toodoo/internal/store/sqlite"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	db, err := sqlite.Open(filepath.Join(t.TempDir(), "todo.db"), log.New(io.Discard))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewService(db)
}

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func names(items []model.Item) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Name)
	}
	return out
}

func TestCreateUser(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	for _, name := range []string{"alice", "bob_2", "Z"} {
		u, err := svc.CreateUser(ctx, name)
		require.NoError(t, err, name)
		assert.Equal(t, name, u.Name)
		assert.NotZero(t, u.ID)
	}

	for _, name := range []string{"", "two words", "semi;colon", "émoji 🙂"} {
		_, err := svc.CreateUser(ctx, name)
		assert.True(t, errors.Is(err, apperror.ErrValidation), "name %q: %v", name, err)
	}

	users, err := svc.Users(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 3, "rejected names must not be persisted")
}

func TestCreateList_RequiresTitle(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	u, err := svc.CreateUser(ctx, "alice")
	require.NoError(t, err)

	_, err = svc.CreateList(ctx, u, "   ")
	assert.True(t, errors.Is(err, apperror.ErrValidation))

	l, err := svc.CreateList(ctx, u, "groceries")
	require.NoError(t, err)
	assert.Equal(t, u.ID, l.UserID)

	lists, err := svc.Lists(ctx, u)
	require.NoError(t, err)
	require.Len(t, lists, 1)
	assert.Equal(t, "groceries", lists[0].Title)
}

func TestRenameRoundTrip(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	u, _ := svc.CreateUser(ctx, "alice")
	l, _ := svc.CreateList(ctx, u, "groceries")

	it, err := svc.CreateItem(ctx, l, "milk", nil)
	require.NoError(t, err)
	_, err = svc.Rename(ctx, it, "oat milk")
	require.NoError(t, err)

	items, err := svc.Items(ctx, l)
	require.NoError(t, err)
	assert.Equal(t, []string{"oat milk"}, names(items))

	_, err = svc.Rename(ctx, it, "")
	assert.True(t, errors.Is(err, apperror.ErrValidation))
}

func TestSetDueDateAndMarkDone(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	u, _ := svc.CreateUser(ctx, "alice")
	l, _ := svc.CreateList(ctx, u, "groceries")
	it, err := svc.CreateItem(ctx, l, "milk", nil)
	require.NoError(t, err)
	assert.Nil(t, it.DueDate)
	assert.False(t, it.Done)

	it, err = svc.SetDueDate(ctx, it, date(2024, 2, 29))
	require.NoError(t, err)
	assert.Equal(t, "2024-02-29", it.DueString())

	it, err = svc.SetDueDate(ctx, it, nil)
	require.NoError(t, err)
	assert.Nil(t, it.DueDate)

	it, err = svc.MarkDone(ctx, it, true)
	require.NoError(t, err)
	assert.True(t, it.Done)

	got, err := svc.Item(ctx, it.ID)
	require.NoError(t, err)
	assert.True(t, got.Done)
	assert.Nil(t, got.DueDate)
}

func TestOverdue_MatchesStrictlyEarlierDates(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	u, _ := svc.CreateUser(ctx, "alice")
	l, _ := svc.CreateList(ctx, u, "groceries")

	asOf := time.Date(2024, 6, 15, 9, 0, 0, 0, time.UTC)
	start := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	// spread due dates around asOf in a scrambled order
	offsets := []int{40, 3, 45, 0, 17, 52, 44, 1, 30, 46}
	var want []model.Item
	for i, off := range offsets {
		due := start.AddDate(0, 0, off)
		it, err := svc.CreateItem(ctx, l, "task"+string(rune('a'+i)), &due)
		require.NoError(t, err)
		if due.Before(model.Day(asOf)) {
			want = append(want, *it)
		}
	}
	_, err := svc.CreateItem(ctx, l, "no date", nil)
	require.NoError(t, err)

	sort.SliceStable(want, func(i, j int) bool { return want[i].DueDate.Before(*want[j].DueDate) })

	got, err := svc.Overdue(ctx, l, asOf)
	require.NoError(t, err)
	assert.Equal(t, names(want), names(got))
	for _, it := range got {
		assert.True(t, it.DueDate.Before(model.Day(asOf)))
	}
	// 2024-05-01 + 45 days is 2024-06-15, which equals asOf
	assert.NotContains(t, names(got), "taskc")
}

func TestItemsByDone(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	u, _ := svc.CreateUser(ctx, "alice")
	l, _ := svc.CreateList(ctx, u, "chores")

	var items []*model.Item
	for _, n := range []string{"dishes", "laundry", "vacuum"} {
		it, err := svc.CreateItem(ctx, l, n, nil)
		require.NoError(t, err)
		items = append(items, it)
	}
	_, err := svc.MarkDone(ctx, items[1], true)
	require.NoError(t, err)

	done, err := svc.ItemsByDone(ctx, l, true)
	require.NoError(t, err)
	assert.Equal(t, []string{"laundry"}, names(done))

	open, err := svc.ItemsByDone(ctx, l, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"dishes", "vacuum"}, names(open))
}

func TestDeleteUser_RemovesEverything(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	u, _ := svc.CreateUser(ctx, "alice")
	l, _ := svc.CreateList(ctx, u, "groceries")
	it, _ := svc.CreateItem(ctx, l, "milk", nil)

	require.NoError(t, svc.DeleteUser(ctx, u))

	_, err := svc.User(ctx, u.ID)
	assert.True(t, errors.Is(err, apperror.ErrNotFound))
	_, err = svc.List(ctx, l.ID)
	assert.True(t, errors.Is(err, apperror.ErrNotFound))
	_, err = svc.Item(ctx, it.ID)
	assert.True(t, errors.Is(err, apperror.ErrNotFound))
}

func TestStoreFailureIsPersistenceError(t *testing.T) {
	db, err := sqlite.Open(filepath.Join(t.TempDir(), "closed.db"), log.New(io.Discard))
	require.NoError(t, err)
	svc := NewService(db)
	require.NoError(t, db.Close())

	_, err = svc.Users(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperror.ErrPersistence))
	assert.True(t, apperror.IsFatal(err))
}
