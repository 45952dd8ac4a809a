package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/idilsaglam/toodoo/internal/apperror"
	"github.com/idilsaglam/toodoo/internal/model"
)

// CreateUser inserts u and fills in its ID and timestamps.
func (db *DB) CreateUser(ctx context.Context, u *model.User) error {
	now := time.Now()
	res, err := db.conn.ExecContext(ctx,
		`INSERT INTO users (name, created_at, updated_at) VALUES (?, ?, ?)`,
		u.Name, now, now,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting user %q: %w", u.Name, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading user id: %w", err)
	}
	u.ID, u.CreatedAt, u.UpdatedAt = id, now, now
	db.logger.Debug("user created", "id", u.ID, "name", u.Name)
	return nil
}

func (db *DB) ListUsers(ctx context.Context) ([]model.User, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, name, created_at, updated_at FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing users: %w", err)
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Name, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, fmt.Errorf("sqlite: scanning user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating users: %w", err)
	}
	return users, nil
}

func (db *DB) GetUser(ctx context.Context, id int64) (*model.User, error) {
	var u model.User
	err := db.conn.QueryRowContext(ctx,
		`SELECT id, name, created_at, updated_at FROM users WHERE id = ?`, id,
	).Scan(&u.ID, &u.Name, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("user", id)
		}
		return nil, fmt.Errorf("sqlite: getting user %d: %w", id, err)
	}
	return &u, nil
}

// DeleteUser removes the user together with its lists and their items.
func (db *DB) DeleteUser(ctx context.Context, id int64) error {
	err := db.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM items WHERE list_id IN (SELECT id FROM lists WHERE user_id = ?)`, id); err != nil {
			return fmt.Errorf("deleting items: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM lists WHERE user_id = ?`, id); err != nil {
			return fmt.Errorf("deleting lists: %w", err)
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("deleting user: %w", err)
		}
		return mustAffect(res, "user", id)
	})
	if err != nil {
		return wrap(err, "sqlite: deleting user %d", id)
	}
	db.logger.Debug("user deleted", "id", id)
	return nil
}

// mustAffect turns a zero-row delete/update into NotFound.
func mustAffect(res sql.Result, resource string, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return apperror.NotFound(resource, id)
	}
	return nil
}

// wrap adds context to err unless it is already a NotFound.
func wrap(err error, format string, args ...any) error {
	if errors.Is(err, apperror.ErrNotFound) {
		return err
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}
