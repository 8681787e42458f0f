package service

import (
	"time"

	"taskboard/internal/model"
)

type UpdateBoardInput struct {
	ID    int64
	Title string
}

type CreateTaskInput struct {
	Title       string
	Description string
	DueDate     time.Time
	ColumnID    int64
}

type UpdateTaskInput struct {
	ID          int64
	Title       string
	Description string
	DueDate     time.Time
}

type MoveTaskInput struct {
	TaskID   int64
	ColumnID int64
}

// CompleteBoard is a board with every column and the tasks inside each.
// Columns and Tasks are never nil.
type CompleteBoard struct {
	ID        int64
	Title     string
	CreatedAt time.Time
	Columns   []ColumnView
}

type ColumnView struct {
	ID    int64
	Type  model.ColumnType
	Tasks []TaskView
}

type TaskView struct {
	ID          int64
	Title       string
	Description string
	DueDate     time.Time
	Blocked     bool
	CreatedAt   time.Time
}

// TotalTasks counts the tasks across all columns.
func (b *CompleteBoard) TotalTasks() int {
	total := 0
	for _, c := range b.Columns {
		total += len(c.Tasks)
	}
	return total
}

// Progress is the share of tasks sitting in DONE, as a whole percentage
// rounded down. A board without tasks is at 0.
func (b *CompleteBoard) Progress() int {
	total := b.TotalTasks()
	if total == 0 {
		return 0
	}
	done := 0
	for _, c := range b.Columns {
		if c.Type == model.ColumnDone {
			done += len(c.Tasks)
		}
	}
	return done * 100 / total
}

// BoardSummary is the one-line view of a board used by listings.
type BoardSummary struct {
	ID         int64
	Title      string
	CreatedAt  time.Time
	TotalTasks int
	Progress   int
}

func newTaskView(t model.Task) TaskView {
	return TaskView{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		DueDate:     t.DueDate,
		Blocked:     t.Blocked,
		CreatedAt:   t.CreatedAt,
	}
}
