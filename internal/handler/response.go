package handler

import (
	"time"

	"taskboard/internal/model"
	"taskboard/internal/service"
)

type BoardResponse struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	CreatedAt string `json:"created_at"`
}

type BoardSummaryResponse struct {
	ID         int64  `json:"id"`
	Title      string `json:"title"`
	CreatedAt  string `json:"created_at"`
	TotalTasks int    `json:"total_tasks"`
	Progress   int    `json:"progress"`
}

type CompleteBoardResponse struct {
	ID         int64            `json:"id"`
	Title      string           `json:"title"`
	CreatedAt  string           `json:"created_at"`
	TotalTasks int              `json:"total_tasks"`
	Progress   int              `json:"progress"`
	Columns    []ColumnResponse `json:"columns"`
}

type ColumnResponse struct {
	ID    int64          `json:"id"`
	Type  string         `json:"type"`
	Title string         `json:"title"`
	Tasks []TaskResponse `json:"tasks"`
}

type TaskResponse struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	DueDate     string `json:"due_date"`
	Blocked     bool   `json:"blocked"`
	CreatedAt   string `json:"created_at"`
	ColumnID    int64  `json:"column_id,omitempty"`
	BoardID     int64  `json:"board_id,omitempty"`
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func newBoardResponse(b *model.Board) BoardResponse {
	return BoardResponse{ID: b.ID, Title: b.Title, CreatedAt: formatTime(b.CreatedAt)}
}

func newTaskResponse(t *model.Task) TaskResponse {
	return TaskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		DueDate:     t.DueDate.Format(model.DateLayout),
		Blocked:     t.Blocked,
		CreatedAt:   formatTime(t.CreatedAt),
		ColumnID:    t.ColumnID,
		BoardID:     t.BoardID(),
	}
}

func newColumnResponse(c service.ColumnView) ColumnResponse {
	tasks := make([]TaskResponse, len(c.Tasks))
	for i, t := range c.Tasks {
		tasks[i] = TaskResponse{
			ID:          t.ID,
			Title:       t.Title,
			Description: t.Description,
			DueDate:     t.DueDate.Format(model.DateLayout),
			Blocked:     t.Blocked,
			CreatedAt:   formatTime(t.CreatedAt),
		}
	}
	return ColumnResponse{ID: c.ID, Type: string(c.Type), Title: c.Type.Title(), Tasks: tasks}
}

func newCompleteBoardResponse(b *service.CompleteBoard) CompleteBoardResponse {
	columns := make([]ColumnResponse, len(b.Columns))
	for i, c := range b.Columns {
		columns[i] = newColumnResponse(c)
	}
	return CompleteBoardResponse{
		ID:         b.ID,
		Title:      b.Title,
		CreatedAt:  formatTime(b.CreatedAt),
		TotalTasks: b.TotalTasks(),
		Progress:   b.Progress(),
		Columns:    columns,
	}
}
