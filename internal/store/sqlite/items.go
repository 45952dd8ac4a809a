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

const itemColumns = `id, list_id, name, due_date, task_done, created_at, updated_at`

func (db *DB) CreateItem(ctx context.Context, it *model.Item) error {
	now := time.Now()
	res, err := db.conn.ExecContext(ctx,
		`INSERT INTO items (list_id, name, due_date, task_done, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		it.ListID, it.Name, dueArg(it.DueDate), it.Done, now, now,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting item %q into list %d: %w", it.Name, it.ListID, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading item id: %w", err)
	}
	it.ID, it.CreatedAt, it.UpdatedAt = id, now, now
	it.DueDate = model.DayPtr(it.DueDate)
	db.logger.Debug("item created", "id", it.ID, "list_id", it.ListID, "name", it.Name, "due", it.DueString())
	return nil
}

func (db *DB) ItemsByList(ctx context.Context, listID int64) ([]model.Item, error) {
	return db.queryItems(ctx,
		`SELECT `+itemColumns+` FROM items WHERE list_id = ? ORDER BY id`, listID)
}

func (db *DB) GetItem(ctx context.Context, id int64) (*model.Item, error) {
	it, err := scanItem(db.conn.QueryRowContext(ctx,
		`SELECT `+itemColumns+` FROM items WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("item", id)
		}
		return nil, fmt.Errorf("sqlite: getting item %d: %w", id, err)
	}
	return &it, nil
}

func (db *DB) UpdateItem(ctx context.Context, it *model.Item) error {
	now := time.Now()
	res, err := db.conn.ExecContext(ctx,
		`UPDATE items SET name = ?, due_date = ?, task_done = ?, updated_at = ? WHERE id = ?`,
		it.Name, dueArg(it.DueDate), it.Done, now, it.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating item %d: %w", it.ID, err)
	}
	if err := mustAffect(res, "item", it.ID); err != nil {
		return wrap(err, "sqlite: updating item %d", it.ID)
	}
	it.UpdatedAt = now
	it.DueDate = model.DayPtr(it.DueDate)
	db.logger.Debug("item updated", "id", it.ID, "name", it.Name, "due", it.DueString(), "done", it.Done)
	return nil
}

func (db *DB) OverdueItems(ctx context.Context, listID int64, asOf time.Time) ([]model.Item, error) {
	return db.queryItems(ctx,
		`SELECT `+itemColumns+` FROM items
		 WHERE list_id = ? AND due_date IS NOT NULL AND due_date < ?
		 ORDER BY due_date, id`,
		listID, model.FormatDay(model.Day(asOf)))
}

func (db *DB) ItemsByDone(ctx context.Context, listID int64, done bool) ([]model.Item, error) {
	return db.queryItems(ctx,
		`SELECT `+itemColumns+` FROM items WHERE list_id = ? AND task_done = ? ORDER BY id`,
		listID, done)
}

func (db *DB) queryItems(ctx context.Context, query string, args ...any) ([]model.Item, error) {
	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: querying items: %w", err)
	}
	defer rows.Close()

	var items []model.Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning item: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating items: %w", err)
	}
	return items, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanItem(row scanner) (model.Item, error) {
	var (
		it  model.Item
		due sql.NullString
	)
	if err := row.Scan(&it.ID, &it.ListID, &it.Name, &due, &it.Done, &it.CreatedAt, &it.UpdatedAt); err != nil {
		return model.Item{}, err
	}
	if due.Valid && due.String != "" {
		d, err := time.Parse(model.DayLayout, due.String)
		if err != nil {
			return model.Item{}, fmt.Errorf("parsing due_date %q: %w", due.String, err)
		}
		it.DueDate = &d
	}
	return it, nil
}

// dueArg stores a due date as YYYY-MM-DD, or NULL.
func dueArg(due *time.Time) any {
	if due == nil {
		return nil
	}
	return model.FormatDay(model.Day(*due))
}
