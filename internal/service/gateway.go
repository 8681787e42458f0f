// Package service holds the board and task use cases. It talks to storage only
// through the gateway interfaces below, so the file, memory and relational
// backends are interchangeable.
package service

import (
	"context"

	"taskboard/internal/model"
)

// BoardGateway stores boards. DeleteByID also removes the board's columns and tasks.
type BoardGateway interface {
	Save(ctx context.Context, board *model.Board) (*model.Board, error)
	FindByID(ctx context.Context, id int64) (*model.Board, error)
	ExistsByID(ctx context.Context, id int64) (bool, error)
	ExistsByTitle(ctx context.Context, title string) (bool, error)
	ExistsByTitleExcludingID(ctx context.Context, title string, id int64) (bool, error)
	ListAll(ctx context.Context) ([]model.Board, error)
	DeleteByID(ctx context.Context, id int64) error
}

type ColumnGateway interface {
	Save(ctx context.Context, column *model.Column) (*model.Column, error)
	FindByID(ctx context.Context, id int64) (*model.Column, error)
	ListByBoardID(ctx context.Context, boardID int64) ([]model.Column, error)
}

// TaskGateway stores tasks. Title checks are scoped to one board.
type TaskGateway interface {
	Save(ctx context.Context, task *model.Task) (*model.Task, error)
	FindByID(ctx context.Context, id int64) (*model.Task, error)
	// ExistsByID reports whether a task row is stored, even one whose column
	// can no longer be resolved and which FindByID reports as missing. Delete
	// relies on this to purge such rows.
	ExistsByID(ctx context.Context, id int64) (bool, error)
	ExistsByTitleInBoard(ctx context.Context, title string, boardID int64) (bool, error)
	ExistsByTitleInBoardExcludingID(ctx context.Context, title string, boardID, id int64) (bool, error)
	ListByBoardID(ctx context.Context, boardID int64) ([]model.Task, error)
	ListByColumnID(ctx context.Context, columnID int64) ([]model.Task, error)
	DeleteByID(ctx context.Context, id int64) error
}
