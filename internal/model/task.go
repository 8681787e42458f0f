package model

import (
	"fmt"
	"time"
)

type Task struct {
	ID          int64     `gorm:"primaryKey;autoIncrement"`
	ColumnID    int64     `gorm:"not null;index"`
	Title       string    `gorm:"not null"`
	Description string
	DueDate     time.Time `gorm:"type:date;not null"`
	Blocked     bool      `gorm:"not null"`
	CreatedAt   time.Time `gorm:"not null"`

	Column *Column `gorm:"foreignKey:ColumnID"`
}

// NewTask returns an unsaved, unblocked task placed in column.
func NewTask(title, description string, dueDate time.Time, column *Column) (*Task, error) {
	if err := ValidateTitle(title); err != nil {
		return nil, err
	}
	if column == nil {
		return nil, fmt.Errorf("task %q: column is required", title)
	}
	return &Task{
		ColumnID:    column.ID,
		Title:       title,
		Description: description,
		DueDate:     DateOf(dueDate),
		CreatedAt:   time.Now().UTC(),
		Column:      column,
	}, nil
}

// BoardID returns the board the task's current column belongs to, or 0 when unresolved.
func (t *Task) BoardID() int64 {
	if t.Column == nil {
		return 0
	}
	return t.Column.BoardID
}

// Block reports whether the call changed the task's state.
func (t *Task) Block() bool {
	if t.Blocked {
		return false
	}
	t.Blocked = true
	return true
}

// Unblock reports whether the call changed the task's state. The column is left as is.
func (t *Task) Unblock() bool {
	if !t.Blocked {
		return false
	}
	t.Blocked = false
	return true
}

// Move reassigns the task to another column. A blocked task is left untouched.
func (t *Task) Move(to *Column) error {
	if t.Blocked {
		return fmt.Errorf("%w: task %d must be unblocked before it can move", ErrTaskBlocked, t.ID)
	}
	t.Column = to
	t.ColumnID = to.ID
	return nil
}

// DateOf drops the clock part of t, keeping its calendar date at UTC midnight.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ValidateDueDate rejects due dates that fall before the calendar day of now
// or outside the four-digit years DateLayout can express.
func ValidateDueDate(dueDate, now time.Time) error {
	if err := ValidateDateRange(dueDate); err != nil {
		return err
	}
	if DateOf(dueDate).Before(DateOf(now)) {
		return fmt.Errorf("%w: %s is before %s", ErrInvalidDueDate,
			DateOf(dueDate).Format(DateLayout), DateOf(now).Format(DateLayout))
	}
	return nil
}

// ValidateDateRange rejects dates whose year does not fit in DateLayout.
func ValidateDateRange(t time.Time) error {
	if y := t.Year(); y < 0 || y > 9999 {
		return fmt.Errorf("%w: year %d is out of range", ErrInvalidDueDate, y)
	}
	return nil
}

// DateLayout is the canonical textual form of a due date.
const DateLayout = "2006-01-02"
