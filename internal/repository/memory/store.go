// Package memory keeps boards, columns and tasks in process memory. It is the
// backend for tests and throwaway runs; nothing survives a restart.
package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"

	log "github.com/sirupsen/logrus"

	"taskboard/internal/model"
)

// state is shared by the three stores so a board delete can drop its
// dependents under the same lock.
type state struct {
	mu      sync.RWMutex
	boards  map[int64]model.Board
	columns map[int64]model.Column
	tasks   map[int64]model.Task

	lastBoardID, lastColumnID, lastTaskID int64

	logger *log.Logger
}

type Backend struct {
	Boards  *BoardStore
	Columns *ColumnStore
	Tasks   *TaskStore
}

func New(logger *log.Logger) *Backend {
	if logger == nil {
		logger = log.StandardLogger()
	}
	s := &state{
		boards:  make(map[int64]model.Board),
		columns: make(map[int64]model.Column),
		tasks:   make(map[int64]model.Task),
		logger:  logger,
	}
	return &Backend{
		Boards:  &BoardStore{s: s},
		Columns: &ColumnStore{s: s},
		Tasks:   &TaskStore{s: s},
	}
}

type BoardStore struct{ s *state }

func (r *BoardStore) Save(ctx context.Context, board *model.Board) (*model.Board, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if board.ID == 0 {
		r.s.lastBoardID++
		board.ID = r.s.lastBoardID
	}
	r.s.lastBoardID = max(r.s.lastBoardID, board.ID)
	r.s.boards[board.ID] = *board
	return board, nil
}

func (r *BoardStore) FindByID(ctx context.Context, id int64) (*model.Board, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	b, ok := r.s.boards[id]
	if !ok {
		return nil, fmt.Errorf("board %d: %w", id, model.ErrNotFound)
	}
	return &b, nil
}

func (r *BoardStore) ExistsByID(ctx context.Context, id int64) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	_, ok := r.s.boards[id]
	return ok, nil
}

func (r *BoardStore) ExistsByTitle(ctx context.Context, title string) (bool, error) {
	return r.ExistsByTitleExcludingID(ctx, title, 0)
}

func (r *BoardStore) ExistsByTitleExcludingID(ctx context.Context, title string, id int64) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, b := range r.s.boards {
		if b.ID != id && model.SameTitle(b.Title, title) {
			return true, nil
		}
	}
	return false, nil
}

func (r *BoardStore) ListAll(ctx context.Context) ([]model.Board, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	boards := make([]model.Board, 0, len(r.s.boards))
	for _, b := range r.s.boards {
		boards = append(boards, b)
	}
	slices.SortFunc(boards, func(a, b model.Board) int {
		return cmp.Compare(a.ID, b.ID)
	})
	return boards, nil
}

// DeleteByID removes the board, its columns and their tasks in one step.
func (r *BoardStore) DeleteByID(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	columns, tasks := 0, 0
	for cid, c := range r.s.columns {
		if c.BoardID != id {
			continue
		}
		for tid, t := range r.s.tasks {
			if t.ColumnID == cid {
				delete(r.s.tasks, tid)
				tasks++
			}
		}
		delete(r.s.columns, cid)
		columns++
	}
	delete(r.s.boards, id)

	r.s.logger.WithFields(log.Fields{"board_id": id, "columns": columns, "tasks": tasks}).
		Debug("board deleted with dependents")
	return nil
}

type ColumnStore struct{ s *state }

func (r *ColumnStore) Save(ctx context.Context, column *model.Column) (*model.Column, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.boards[column.BoardID]; !ok {
		return nil, fmt.Errorf("column board %d: %w", column.BoardID, model.ErrNotFound)
	}
	if column.ID == 0 {
		r.s.lastColumnID++
		column.ID = r.s.lastColumnID
	}
	r.s.lastColumnID = max(r.s.lastColumnID, column.ID)

	stored := *column
	stored.Board = nil
	r.s.columns[column.ID] = stored
	return column, nil
}

func (r *ColumnStore) FindByID(ctx context.Context, id int64) (*model.Column, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	c, ok := r.s.resolveColumn(id)
	if !ok {
		return nil, fmt.Errorf("column %d: %w", id, model.ErrNotFound)
	}
	return c, nil
}

func (r *ColumnStore) ListByBoardID(ctx context.Context, boardID int64) ([]model.Column, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	columns := []model.Column{}
	for id, c := range r.s.columns {
		if c.BoardID != boardID {
			continue
		}
		resolved, ok := r.s.resolveColumn(id)
		if ok {
			columns = append(columns, *resolved)
		}
	}
	slices.SortFunc(columns, func(a, b model.Column) int {
		return cmp.Compare(a.ID, b.ID)
	})
	return columns, nil
}

type TaskStore struct{ s *state }

func (r *TaskStore) Save(ctx context.Context, task *model.Task) (*model.Task, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.columns[task.ColumnID]; !ok {
		return nil, fmt.Errorf("task column %d: %w", task.ColumnID, model.ErrNotFound)
	}
	if task.ID == 0 {
		r.s.lastTaskID++
		task.ID = r.s.lastTaskID
	}
	r.s.lastTaskID = max(r.s.lastTaskID, task.ID)

	stored := *task
	stored.Column = nil
	r.s.tasks[task.ID] = stored
	return task, nil
}

func (r *TaskStore) FindByID(ctx context.Context, id int64) (*model.Task, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	t, ok := r.s.resolveTask(id)
	if !ok {
		return nil, fmt.Errorf("task %d: %w", id, model.ErrNotFound)
	}
	return t, nil
}

func (r *TaskStore) ExistsByID(ctx context.Context, id int64) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	_, ok := r.s.tasks[id]
	return ok, nil
}

func (r *TaskStore) ExistsByTitleInBoard(ctx context.Context, title string, boardID int64) (bool, error) {
	return r.ExistsByTitleInBoardExcludingID(ctx, title, boardID, 0)
}

func (r *TaskStore) ExistsByTitleInBoardExcludingID(ctx context.Context, title string, boardID, id int64) (bool, error) {
	tasks, err := r.ListByBoardID(ctx, boardID)
	if err != nil {
		return false, err
	}
	for _, t := range tasks {
		if t.ID != id && model.SameTitle(t.Title, title) {
			return true, nil
		}
	}
	return false, nil
}

func (r *TaskStore) ListByBoardID(ctx context.Context, boardID int64) ([]model.Task, error) {
	return r.list(func(t *model.Task) bool { return t.BoardID() == boardID }), nil
}

func (r *TaskStore) ListByColumnID(ctx context.Context, columnID int64) ([]model.Task, error) {
	return r.list(func(t *model.Task) bool { return t.ColumnID == columnID }), nil
}

func (r *TaskStore) DeleteByID(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	delete(r.s.tasks, id)
	return nil
}

func (r *TaskStore) list(keep func(t *model.Task) bool) []model.Task {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	tasks := []model.Task{}
	for id := range r.s.tasks {
		t, ok := r.s.resolveTask(id)
		if ok && keep(t) {
			tasks = append(tasks, *t)
		}
	}
	slices.SortFunc(tasks, func(a, b model.Task) int {
		return cmp.Compare(a.ID, b.ID)
	})
	return tasks
}

// resolveColumn returns a copy of the column with its board attached.
// Callers hold s.mu.
func (s *state) resolveColumn(id int64) (*model.Column, bool) {
	c, ok := s.columns[id]
	if !ok {
		return nil, false
	}
	b, ok := s.boards[c.BoardID]
	if !ok {
		return nil, false
	}
	c.Board = &b
	return &c, true
}

func (s *state) resolveTask(id int64) (*model.Task, bool) {
	t, ok := s.tasks[id]
	if !ok {
		return nil, false
	}
	c, ok := s.resolveColumn(t.ColumnID)
	if !ok {
		return nil, false
	}
	t.Column = c
	return &t, true
}
