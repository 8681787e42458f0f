package service

import (
	"context"
	"fmt"
	"time"

	"taskboard/internal/model"
)

type TaskService struct {
	tasks   TaskGateway
	columns ColumnGateway
	now     func() time.Time
}

func NewTaskService(tasks TaskGateway, columns ColumnGateway) *TaskService {
	return &TaskService{
		tasks:   tasks,
		columns: columns,
		now:     time.Now,
	}
}

// WithClock replaces the clock used to decide whether a due date is in the past.
func (s *TaskService) WithClock(now func() time.Time) *TaskService {
	s.now = now
	return s
}

// Create places a new, unblocked task in a column. Checks run in order:
// column exists, due date, title free within the column's board.
func (s *TaskService) Create(ctx context.Context, in CreateTaskInput) (*model.Task, error) {
	column, err := s.columns.FindByID(ctx, in.ColumnID)
	if err != nil {
		return nil, err
	}
	if err := model.ValidateDueDate(in.DueDate, s.now()); err != nil {
		return nil, err
	}
	if err := model.ValidateTitle(in.Title); err != nil {
		return nil, err
	}
	taken, err := s.tasks.ExistsByTitleInBoard(ctx, in.Title, column.BoardID)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, fmt.Errorf("%w: %q", model.ErrDuplicateTitle, in.Title)
	}

	task, err := model.NewTask(in.Title, in.Description, in.DueDate, column)
	if err != nil {
		return nil, err
	}
	return s.tasks.Save(ctx, task)
}

// Update changes title, description and due date. The column is kept.
func (s *TaskService) Update(ctx context.Context, in UpdateTaskInput) (*model.Task, error) {
	task, err := s.tasks.FindByID(ctx, in.ID)
	if err != nil {
		return nil, err
	}
	if err := model.ValidateDueDate(in.DueDate, s.now()); err != nil {
		return nil, err
	}
	if err := model.ValidateTitle(in.Title); err != nil {
		return nil, err
	}
	taken, err := s.tasks.ExistsByTitleInBoardExcludingID(ctx, in.Title, task.BoardID(), task.ID)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, fmt.Errorf("%w: %q", model.ErrDuplicateTitle, in.Title)
	}

	task.Title = in.Title
	task.Description = in.Description
	task.DueDate = model.DateOf(in.DueDate)
	return s.tasks.Save(ctx, task)
}

// Move puts the task in another column of the same board.
func (s *TaskService) Move(ctx context.Context, in MoveTaskInput) (*model.Task, error) {
	task, err := s.tasks.FindByID(ctx, in.TaskID)
	if err != nil {
		return nil, err
	}
	target, err := s.columns.FindByID(ctx, in.ColumnID)
	if err != nil {
		return nil, err
	}

	if task.ColumnID == target.ID {
		return nil, fmt.Errorf("%w: task %d, column %d", model.ErrInvalidMoveTarget, task.ID, target.ID)
	}
	if task.BoardID() != target.BoardID {
		return nil, fmt.Errorf("%w: column %d belongs to board %d, task %d to board %d",
			model.ErrInvalidMoveTarget, target.ID, target.BoardID, task.ID, task.BoardID())
	}
	if err := task.Move(target); err != nil {
		return nil, err
	}
	return s.tasks.Save(ctx, task)
}

// Block marks the task blocked. An already blocked task is not written again.
func (s *TaskService) Block(ctx context.Context, id int64) (*model.Task, error) {
	task, err := s.tasks.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !task.Block() {
		return task, nil
	}
	return s.tasks.Save(ctx, task)
}

// Unblock clears the blocked flag. An unblocked task is not written again.
func (s *TaskService) Unblock(ctx context.Context, id int64) (*model.Task, error) {
	task, err := s.tasks.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !task.Unblock() {
		return task, nil
	}
	return s.tasks.Save(ctx, task)
}

func (s *TaskService) Delete(ctx context.Context, id int64) error {
	exists, err := s.tasks.ExistsByID(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("task %d: %w", id, model.ErrNotFound)
	}
	return s.tasks.DeleteByID(ctx, id)
}

func (s *TaskService) Get(ctx context.Context, id int64) (*model.Task, error) {
	return s.tasks.FindByID(ctx, id)
}
