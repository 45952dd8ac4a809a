// Package store defines the persistence contract the todo service runs on.
// Backends live in subpackages: sqlite (default) and postgres.
package store

import (
	"context"
	"time"

	"github.com/idilsaglam/toodoo/internal/model"
)

// Store is the relational data-access layer. Listing methods return rows in
// creation order (ascending id) unless noted. Get* methods return an
// apperror.NotFound error for missing rows.
//
// Deleting a user removes its lists and their items; deleting a list removes
// its items.
type Store interface {
	CreateUser(ctx context.Context, u *model.User) error
	ListUsers(ctx context.Context) ([]model.User, error)
	GetUser(ctx context.Context, id int64) (*model.User, error)
	DeleteUser(ctx context.Context, id int64) error

	CreateList(ctx context.Context, l *model.List) error
	ListsByUser(ctx context.Context, userID int64) ([]model.List, error)
	GetList(ctx context.Context, id int64) (*model.List, error)
	DeleteList(ctx context.Context, id int64) error

	CreateItem(ctx context.Context, it *model.Item) error
	ItemsByList(ctx context.Context, listID int64) ([]model.Item, error)
	GetItem(ctx context.Context, id int64) (*model.Item, error)
	// UpdateItem writes name, due date and done flag back.
	UpdateItem(ctx context.Context, it *model.Item) error

	// OverdueItems returns items with a due date strictly before asOf's day,
	// oldest due date first.
	OverdueItems(ctx context.Context, listID int64, asOf time.Time) ([]model.Item, error)
	ItemsByDone(ctx context.Context, listID int64, done bool) ([]model.Item, error)

	Close() error
}
