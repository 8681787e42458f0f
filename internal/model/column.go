package model

import "fmt"

// ColumnType is the closed set of lanes every board carries.
type ColumnType string

const (
	ColumnToDo       ColumnType = "TO_DO"
	ColumnInProgress ColumnType = "IN_PROGRESS"
	ColumnDone       ColumnType = "DONE"
	ColumnPaused     ColumnType = "PAUSED"
)

// ColumnTypes lists the column types in creation order.
func ColumnTypes() []ColumnType {
	return []ColumnType{ColumnToDo, ColumnInProgress, ColumnDone, ColumnPaused}
}

// Title returns the display name of the lane.
func (t ColumnType) Title() string {
	switch t {
	case ColumnToDo:
		return "To Do"
	case ColumnInProgress:
		return "In Progress"
	case ColumnDone:
		return "Done"
	case ColumnPaused:
		return "Paused"
	}
	return string(t)
}

func (t ColumnType) Valid() bool {
	switch t {
	case ColumnToDo, ColumnInProgress, ColumnDone, ColumnPaused:
		return true
	}
	return false
}

// ParseColumnType accepts only the canonical upper-case names.
func ParseColumnType(s string) (ColumnType, error) {
	t := ColumnType(s)
	if !t.Valid() {
		return "", fmt.Errorf("unknown column type %q", s)
	}
	return t, nil
}

type Column struct {
	ID      int64      `gorm:"primaryKey;autoIncrement"`
	BoardID int64      `gorm:"not null;index"`
	Type    ColumnType `gorm:"type:varchar(16);not null"`

	Board *Board `gorm:"foreignKey:BoardID"`
}

// NewColumn returns an unsaved column of the given type attached to board.
func NewColumn(board *Board, t ColumnType) *Column {
	return &Column{
		BoardID: board.ID,
		Type:    t,
		Board:   board,
	}
}
