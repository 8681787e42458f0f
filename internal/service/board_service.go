package service

import (
	"context"
	"errors"
	"fmt"

	"taskboard/internal/model"
)

type BoardService struct {
	boards  BoardGateway
	columns ColumnGateway
	tasks   TaskGateway
}

func NewBoardService(boards BoardGateway, columns ColumnGateway, tasks TaskGateway) *BoardService {
	return &BoardService{
		boards:  boards,
		columns: columns,
		tasks:   tasks,
	}
}

// Create stores a new board and one column per type, in type order.
// Nothing is written when the title is rejected, and a board whose columns
// could not all be stored is deleted again.
func (s *BoardService) Create(ctx context.Context, title string) (*model.Board, error) {
	board, err := model.NewBoard(title)
	if err != nil {
		return nil, err
	}
	if err := s.ensureTitleFree(ctx, title, 0); err != nil {
		return nil, err
	}

	board, err = s.boards.Save(ctx, board)
	if err != nil {
		return nil, err
	}
	for _, t := range model.ColumnTypes() {
		if _, err := s.columns.Save(ctx, model.NewColumn(board, t)); err != nil {
			err = fmt.Errorf("create %s column for board %d: %w", t, board.ID, err)
			if rbErr := s.boards.DeleteByID(ctx, board.ID); rbErr != nil {
				return nil, errors.Join(err, fmt.Errorf("roll back board %d: %w", board.ID, rbErr))
			}
			return nil, err
		}
	}
	return board, nil
}

// Update renames a board.
func (s *BoardService) Update(ctx context.Context, in UpdateBoardInput) (*model.Board, error) {
	board, err := s.boards.FindByID(ctx, in.ID)
	if err != nil {
		return nil, err
	}
	if err := model.ValidateTitle(in.Title); err != nil {
		return nil, err
	}
	if err := s.ensureTitleFree(ctx, in.Title, board.ID); err != nil {
		return nil, err
	}

	board.Title = in.Title
	return s.boards.Save(ctx, board)
}

// Delete removes a board together with its columns and tasks.
func (s *BoardService) Delete(ctx context.Context, id int64) error {
	exists, err := s.boards.ExistsByID(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("board %d: %w", id, model.ErrNotFound)
	}
	return s.boards.DeleteByID(ctx, id)
}

// Get returns a single board.
func (s *BoardService) Get(ctx context.Context, id int64) (*model.Board, error) {
	return s.boards.FindByID(ctx, id)
}

// Complete assembles the board with its columns and their tasks.
func (s *BoardService) Complete(ctx context.Context, id int64) (*CompleteBoard, error) {
	board, err := s.boards.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.complete(ctx, board)
}

// List returns every board ordered by ID with its task count and progress.
func (s *BoardService) List(ctx context.Context) ([]BoardSummary, error) {
	boards, err := s.boards.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	summaries := make([]BoardSummary, 0, len(boards))
	for i := range boards {
		cb, err := s.complete(ctx, &boards[i])
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, BoardSummary{
			ID:         cb.ID,
			Title:      cb.Title,
			CreatedAt:  cb.CreatedAt,
			TotalTasks: cb.TotalTasks(),
			Progress:   cb.Progress(),
		})
	}
	return summaries, nil
}

func (s *BoardService) complete(ctx context.Context, board *model.Board) (*CompleteBoard, error) {
	columns, err := s.columns.ListByBoardID(ctx, board.ID)
	if err != nil {
		return nil, err
	}

	views := make([]ColumnView, 0, len(columns))
	for _, c := range columns {
		tasks, err := s.tasks.ListByColumnID(ctx, c.ID)
		if err != nil {
			return nil, err
		}
		taskViews := make([]TaskView, 0, len(tasks))
		for _, t := range tasks {
			taskViews = append(taskViews, newTaskView(t))
		}
		views = append(views, ColumnView{ID: c.ID, Type: c.Type, Tasks: taskViews})
	}

	return &CompleteBoard{
		ID:        board.ID,
		Title:     board.Title,
		CreatedAt: board.CreatedAt,
		Columns:   views,
	}, nil
}

func (s *BoardService) ensureTitleFree(ctx context.Context, title string, selfID int64) error {
	var (
		taken bool
		err   error
	)
	if selfID == 0 {
		taken, err = s.boards.ExistsByTitle(ctx, title)
	} else {
		taken, err = s.boards.ExistsByTitleExcludingID(ctx, title, selfID)
	}
	if err != nil {
		return err
	}
	if taken {
		return fmt.Errorf("%w: %q", model.ErrDuplicateTitle, title)
	}
	return nil
}
