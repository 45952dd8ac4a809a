package model

import "time"

// DayLayout is how due dates are printed and stored as text.
const DayLayout = "2006-01-02"

// User owns lists. Items are reached through those lists.
type User struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name" validate:"required,word"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// List is a named collection of items belonging to one user.
type List struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Title     string    `json:"title" validate:"required,notblank"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Item is a single task. DueDate is nil when no date was given.
type Item struct {
	ID        int64      `json:"id"`
	ListID    int64      `json:"list_id"`
	Name      string     `json:"name" validate:"required,notblank"`
	DueDate   *time.Time `json:"due_date"`
	Done      bool       `json:"task_done"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Overdue reports whether the item has a due date strictly before asOf's day.
func (it Item) Overdue(asOf time.Time) bool {
	return it.DueDate != nil && Day(*it.DueDate).Before(Day(asOf))
}

// DueString is the due date as YYYY-MM-DD, or "" when unset.
func (it Item) DueString() string {
	if it.DueDate == nil {
		return ""
	}
	return FormatDay(*it.DueDate)
}

// Day drops the time of day, keeping t's calendar date in UTC.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DayPtr is Day for optional dates.
func DayPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	d := Day(*t)
	return &d
}

func FormatDay(t time.Time) string { return t.Format(DayLayout) }
