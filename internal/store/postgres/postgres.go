// Package postgres is the PostgreSQL store backend, for people who keep their
// lists in a server database. It uses a pgx connection pool.
package postgres

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/idilsaglam/toodoo/internal/apperror"
	"github.com/idilsaglam/toodoo/internal/model"
	"github.com/idilsaglam/toodoo/internal/store"
)

//go:embed schema.sql
var schemaSQL string

var _ store.Store = (*DB)(nil)

// DB implements store.Store on a pgx pool.
type DB struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

// Open connects to dsn, pings and runs the schema.
func Open(ctx context.Context, dsn string, logger *log.Logger) (*DB, error) {
	if logger == nil {
		logger = log.Default()
	}
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: parsing dsn: %w", err)
	}
	cfg.MaxConns = 2
	cfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("postgres: creating pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: pinging database: %w", err)
	}
	if _, err := pool.Exec(ctx, schemaSQL); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: running migrations: %w", err)
	}

	logger.Debug("postgres store opened", "host", cfg.ConnConfig.Host, "database", cfg.ConnConfig.Database)
	return &DB{pool: pool, logger: logger}, nil
}

func (db *DB) Close() error {
	db.pool.Close()
	return nil
}

// ---------------- users ----------------

func (db *DB) CreateUser(ctx context.Context, u *model.User) error {
	err := db.pool.QueryRow(ctx,
		`INSERT INTO users (name) VALUES ($1) RETURNING id, created_at, updated_at`,
		u.Name,
	).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return fmt.Errorf("postgres: inserting user %q: %w", u.Name, err)
	}
	db.logger.Debug("user created", "id", u.ID, "name", u.Name)
	return nil
}

func (db *DB) ListUsers(ctx context.Context) ([]model.User, error) {
	rows, err := db.pool.Query(ctx, `SELECT id, name, created_at, updated_at FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("postgres: listing users: %w", err)
	}
	users, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.User, error) {
		var u model.User
		err := row.Scan(&u.ID, &u.Name, &u.CreatedAt, &u.UpdatedAt)
		return u, err
	})
	if err != nil {
		return nil, fmt.Errorf("postgres: scanning users: %w", err)
	}
	return users, nil
}

func (db *DB) GetUser(ctx context.Context, id int64) (*model.User, error) {
	var u model.User
	err := db.pool.QueryRow(ctx,
		`SELECT id, name, created_at, updated_at FROM users WHERE id = $1`, id,
	).Scan(&u.ID, &u.Name, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NotFound("user", id)
		}
		return nil, fmt.Errorf("postgres: getting user %d: %w", id, err)
	}
	return &u, nil
}

// DeleteUser removes the user together with its lists and their items.
func (db *DB) DeleteUser(ctx context.Context, id int64) error {
	err := pgx.BeginFunc(ctx, db.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx,
			`DELETE FROM items WHERE list_id IN (SELECT id FROM lists WHERE user_id = $1)`, id); err != nil {
			return fmt.Errorf("deleting items: %w", err)
		}
		if _, err := tx.Exec(ctx, `DELETE FROM lists WHERE user_id = $1`, id); err != nil {
			return fmt.Errorf("deleting lists: %w", err)
		}
		tag, err := tx.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("deleting user: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return apperror.NotFound("user", id)
		}
		return nil
	})
	if err != nil {
		return wrap(err, "postgres: deleting user %d", id)
	}
	db.logger.Debug("user deleted", "id", id)
	return nil
}

// ---------------- lists ----------------

func (db *DB) CreateList(ctx context.Context, l *model.List) error {
	err := db.pool.QueryRow(ctx,
		`INSERT INTO lists (user_id, title) VALUES ($1, $2) RETURNING id, created_at, updated_at`,
		l.UserID, l.Title,
	).Scan(&l.ID, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return fmt.Errorf("postgres: inserting list %q for user %d: %w", l.Title, l.UserID, err)
	}
	db.logger.Debug("list created", "id", l.ID, "user_id", l.UserID, "title", l.Title)
	return nil
}

func (db *DB) ListsByUser(ctx context.Context, userID int64) ([]model.List, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, user_id, title, created_at, updated_at FROM lists WHERE user_id = $1 ORDER BY id`, userID)
	if err != nil {
		return nil, fmt.Errorf("postgres: listing lists of user %d: %w", userID, err)
	}
	lists, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.List, error) {
		var l model.List
		err := row.Scan(&l.ID, &l.UserID, &l.Title, &l.CreatedAt, &l.UpdatedAt)
		return l, err
	})
	if err != nil {
		return nil, fmt.Errorf("postgres: scanning lists: %w", err)
	}
	return lists, nil
}

func (db *DB) GetList(ctx context.Context, id int64) (*model.List, error) {
	var l model.List
	err := db.pool.QueryRow(ctx,
		`SELECT id, user_id, title, created_at, updated_at FROM lists WHERE id = $1`, id,
	).Scan(&l.ID, &l.UserID, &l.Title, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NotFound("list", id)
		}
		return nil, fmt.Errorf("postgres: getting list %d: %w", id, err)
	}
	return &l, nil
}

// DeleteList removes the list and its items.
func (db *DB) DeleteList(ctx context.Context, id int64) error {
	err := pgx.BeginFunc(ctx, db.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM items WHERE list_id = $1`, id); err != nil {
			return fmt.Errorf("deleting items: %w", err)
		}
		tag, err := tx.Exec(ctx, `DELETE FROM lists WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("deleting list: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return apperror.NotFound("list", id)
		}
		return nil
	})
	if err != nil {
		return wrap(err, "postgres: deleting list %d", id)
	}
	db.logger.Debug("list deleted", "id", id)
	return nil
}

// ---------------- items ----------------

const itemColumns = `id, list_id, name, due_date, task_done, created_at, updated_at`

func (db *DB) CreateItem(ctx context.Context, it *model.Item) error {
	it.DueDate = model.DayPtr(it.DueDate)
	err := db.pool.QueryRow(ctx,
		`INSERT INTO items (list_id, name, due_date, task_done) VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at, updated_at`,
		it.ListID, it.Name, it.DueDate, it.Done,
	).Scan(&it.ID, &it.CreatedAt, &it.UpdatedAt)
	if err != nil {
		return fmt.Errorf("postgres: inserting item %q into list %d: %w", it.Name, it.ListID, err)
	}
	db.logger.Debug("item created", "id", it.ID, "list_id", it.ListID, "name", it.Name, "due", it.DueString())
	return nil
}

func (db *DB) ItemsByList(ctx context.Context, listID int64) ([]model.Item, error) {
	return db.queryItems(ctx, `SELECT `+itemColumns+` FROM items WHERE list_id = $1 ORDER BY id`, listID)
}

func (db *DB) GetItem(ctx context.Context, id int64) (*model.Item, error) {
	rows, err := db.pool.Query(ctx, `SELECT `+itemColumns+` FROM items WHERE id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("postgres: getting item %d: %w", id, err)
	}
	it, err := pgx.CollectExactlyOneRow(rows, scanItem)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NotFound("item", id)
		}
		return nil, fmt.Errorf("postgres: getting item %d: %w", id, err)
	}
	return &it, nil
}

func (db *DB) UpdateItem(ctx context.Context, it *model.Item) error {
	it.DueDate = model.DayPtr(it.DueDate)
	err := db.pool.QueryRow(ctx,
		`UPDATE items SET name = $1, due_date = $2, task_done = $3, updated_at = NOW()
		 WHERE id = $4 RETURNING updated_at`,
		it.Name, it.DueDate, it.Done, it.ID,
	).Scan(&it.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperror.NotFound("item", it.ID)
		}
		return fmt.Errorf("postgres: updating item %d: %w", it.ID, err)
	}
	db.logger.Debug("item updated", "id", it.ID, "name", it.Name, "due", it.DueString(), "done", it.Done)
	return nil
}

func (db *DB) OverdueItems(ctx context.Context, listID int64, asOf time.Time) ([]model.Item, error) {
	return db.queryItems(ctx,
		`SELECT `+itemColumns+` FROM items
		 WHERE list_id = $1 AND due_date IS NOT NULL AND due_date < $2
		 ORDER BY due_date, id`,
		listID, model.Day(asOf))
}

func (db *DB) ItemsByDone(ctx context.Context, listID int64, done bool) ([]model.Item, error) {
	return db.queryItems(ctx,
		`SELECT `+itemColumns+` FROM items WHERE list_id = $1 AND task_done = $2 ORDER BY id`,
		listID, done)
}

func (db *DB) queryItems(ctx context.Context, query string, args ...any) ([]model.Item, error) {
	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("postgres: querying items: %w", err)
	}
	items, err := pgx.CollectRows(rows, scanItem)
	if err != nil {
		return nil, fmt.Errorf("postgres: scanning items: %w", err)
	}
	return items, nil
}

func scanItem(row pgx.CollectableRow) (model.Item, error) {
	var it model.Item
	err := row.Scan(&it.ID, &it.ListID, &it.Name, &it.DueDate, &it.Done, &it.CreatedAt, &it.UpdatedAt)
	it.DueDate = model.DayPtr(it.DueDate)
	return it, err
}

func wrap(err error, format string, args ...any) error {
	if errors.Is(err, apperror.ErrNotFound) {
		return err
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}
