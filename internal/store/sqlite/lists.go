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

func (db *DB) CreateList(ctx context.Context, l *model.List) error {
	now := time.Now()
	res, err := db.conn.ExecContext(ctx,
		`INSERT INTO lists (user_id, title, created_at, updated_at) VALUES (?, ?, ?, ?)`,
		l.UserID, l.Title, now, now,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting list %q for user %d: %w", l.Title, l.UserID, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading list id: %w", err)
	}
	l.ID, l.CreatedAt, l.UpdatedAt = id, now, now
	db.logger.Debug("list created", "id", l.ID, "user_id", l.UserID, "title", l.Title)
	return nil
}

func (db *DB) ListsByUser(ctx context.Context, userID int64) ([]model.List, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, user_id, title, created_at, updated_at
		 FROM lists WHERE user_id = ? ORDER BY id`, userID)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing lists of user %d: %w", userID, err)
	}
	defer rows.Close()

	var lists []model.List
	for rows.Next() {
		var l model.List
		if err := rows.Scan(&l.ID, &l.UserID, &l.Title, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, fmt.Errorf("sqlite: scanning list: %w", err)
		}
		lists = append(lists, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating lists: %w", err)
	}
	return lists, nil
}

func (db *DB) GetList(ctx context.Context, id int64) (*model.List, error) {
	var l model.List
	err := db.conn.QueryRowContext(ctx,
		`SELECT id, user_id, title, created_at, updated_at FROM lists WHERE id = ?`, id,
	).Scan(&l.ID, &l.UserID, &l.Title, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("list", id)
		}
		return nil, fmt.Errorf("sqlite: getting list %d: %w", id, err)
	}
	return &l, nil
}

// DeleteList removes the list and its items.
func (db *DB) DeleteList(ctx context.Context, id int64) error {
	err := db.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM items WHERE list_id = ?`, id); err != nil {
			return fmt.Errorf("deleting items: %w", err)
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM lists WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("deleting list: %w", err)
		}
		return mustAffect(res, "list", id)
	})
	if err != nil {
		return wrap(err, "sqlite: deleting list %d", id)
	}
	db.logger.Debug("list deleted", "id", id)
	return nil
}
