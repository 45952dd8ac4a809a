// Package todo is the domain layer: users own lists, lists hold items.
// It validates input, talks to a store.Store and turns storage failures into
// apperror values.
package todo

import (
	"context"
	"strings"
	"time"

	"github.com/idilsaglam/toodoo/internal/apperror"
	"github.com/idilsaglam/toodoo/internal/model"
	"github.com/idilsaglam/toodoo/internal/store"
	"github.com/idilsaglam/toodoo/internal/validate"
)

type Service struct {
	store store.Store
	v     *validate.Validator
}

func NewService(s store.Store) *Service {
	return &Service{store: s, v: validate.New()}
}

// -------------- users ----------------

// CreateUser persists a user whose name is one or more word characters.
func (s *Service) CreateUser(ctx context.Context, name string) (*model.User, error) {
	u := &model.User{Name: name}
	if err := s.v.Struct(u); err != nil {
		return nil, err
	}
	if err := s.store.CreateUser(ctx, u); err != nil {
		return nil, apperror.Persistence("create user", err)
	}
	return u, nil
}

func (s *Service) Users(ctx context.Context) ([]model.User, error) {
	users, err := s.store.ListUsers(ctx)
	return users, apperror.Persistence("list users", err)
}

func (s *Service) User(ctx context.Context, id int64) (*model.User, error) {
	u, err := s.store.GetUser(ctx, id)
	return u, apperror.Persistence("get user", err)
}

// DeleteUser removes the user, its lists and their items.
func (s *Service) DeleteUser(ctx context.Context, u *model.User) error {
	return apperror.Persistence("delete user", s.store.DeleteUser(ctx, u.ID))
}

// -------------- lists ----------------

func (s *Service) CreateList(ctx context.Context, u *model.User, title string) (*model.List, error) {
	l := &model.List{UserID: u.ID, Title: strings.TrimSpace(title)}
	if err := s.v.Struct(l); err != nil {
		return nil, err
	}
	if err := s.store.CreateList(ctx, l); err != nil {
		return nil, apperror.Persistence("create list", err)
	}
	return l, nil
}

func (s *Service) Lists(ctx context.Context, u *model.User) ([]model.List, error) {
	lists, err := s.store.ListsByUser(ctx, u.ID)
	return lists, apperror.Persistence("list lists", err)
}

func (s *Service) List(ctx context.Context, id int64) (*model.List, error) {
	l, err := s.store.GetList(ctx, id)
	return l, apperror.Persistence("get list", err)
}

// DeleteList removes the list and its items.
func (s *Service) DeleteList(ctx context.Context, l *model.List) error {
	return apperror.Persistence("delete list", s.store.DeleteList(ctx, l.ID))
}

// -------------- items ----------------

// CreateItem adds a task to l. due may be nil.
func (s *Service) CreateItem(ctx context.Context, l *model.List, name string, due *time.Time) (*model.Item, error) {
	it := &model.Item{ListID: l.ID, Name: strings.TrimSpace(name), DueDate: model.DayPtr(due)}
	if err := s.v.Struct(it); err != nil {
		return nil, err
	}
	if err := s.store.CreateItem(ctx, it); err != nil {
		return nil, apperror.Persistence("create item", err)
	}
	return it, nil
}

func (s *Service) Items(ctx context.Context, l *model.List) ([]model.Item, error) {
	items, err := s.store.ItemsByList(ctx, l.ID)
	return items, apperror.Persistence("list items", err)
}

func (s *Service) Item(ctx context.Context, id int64) (*model.Item, error) {
	it, err := s.store.GetItem(ctx, id)
	return it, apperror.Persistence("get item", err)
}

// SetDueDate replaces the due date; nil clears it.
func (s *Service) SetDueDate(ctx context.Context, it *model.Item, due *time.Time) (*model.Item, error) {
	next := *it
	next.DueDate = model.DayPtr(due)
	return s.update(ctx, &next)
}

func (s *Service) Rename(ctx context.Context, it *model.Item, name string) (*model.Item, error) {
	next := *it
	next.Name = strings.TrimSpace(name)
	if err := s.v.Struct(&next); err != nil {
		return nil, err
	}
	return s.update(ctx, &next)
}

func (s *Service) MarkDone(ctx context.Context, it *model.Item, done bool) (*model.Item, error) {
	next := *it
	next.Done = done
	return s.update(ctx, &next)
}

func (s *Service) update(ctx context.Context, it *model.Item) (*model.Item, error) {
	if err := s.store.UpdateItem(ctx, it); err != nil {
		return nil, apperror.Persistence("update item", err)
	}
	return it, nil
}

// Overdue lists items due strictly before asOf's calendar day, oldest first.
// An item due on asOf itself is not overdue.
func (s *Service) Overdue(ctx context.Context, l *model.List, asOf time.Time) ([]model.Item, error) {
	items, err := s.store.OverdueItems(ctx, l.ID, asOf)
	return items, apperror.Persistence("overdue items", err)
}

// ItemsByDone lists the items whose done flag equals done, in creation order.
func (s *Service) ItemsByDone(ctx context.Context, l *model.List, done bool) ([]model.Item, error) {
	items, err := s.store.ItemsByDone(ctx, l.ID, done)
	return items, apperror.Persistence("items by done", err)
}
