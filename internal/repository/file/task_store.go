package file

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"

	log "github.com/sirupsen/logrus"

	"taskboard/internal/model"
)

const tasksFile = "tasks.csv"

var taskHeader = []string{"ID", "TITLE", "DESCRIPTION", "DUE_DATE", "BLOCKED", "CREATED_AT", "COLUMN_ID"}

// TaskStore persists tasks. A task reaches its board only through its column,
// which is why it must be purged before the columns on a board delete.
type TaskStore struct {
	table   *table
	columns *ColumnStore
	logger  *log.Logger
}

func NewTaskStore(dir string, columns *ColumnStore, logger *log.Logger) (*TaskStore, error) {
	logger = orStandard(logger)
	t, err := openTable(filepath.Join(dir, tasksFile), taskHeader, logger)
	if err != nil {
		return nil, err
	}
	return &TaskStore{table: t, columns: columns, logger: logger}, nil
}

func (s *TaskStore) Save(ctx context.Context, task *model.Task) (*model.Task, error) {
	if task.Column != nil {
		task.ColumnID = task.Column.ID
	}
	if task.ColumnID == 0 {
		return nil, fmt.Errorf("task %q has no column", task.Title)
	}
	// A year formatDate cannot write in four digits would make the file unreadable.
	if err := model.ValidateDateRange(task.DueDate); err != nil {
		return nil, err
	}
	id, err := s.table.upsert(task.ID, func(id int64) []string {
		return []string{
			formatID(id),
			task.Title,
			task.Description,
			formatDate(task.DueDate),
			formatBool(task.Blocked),
			formatTimestamp(task.CreatedAt),
			formatID(task.ColumnID),
		}
	})
	if err != nil {
		return nil, err
	}
	task.ID = id
	return task, nil
}

// FindByID resolves the task, its column and the column's board.
func (s *TaskStore) FindByID(ctx context.Context, id int64) (*model.Task, error) {
	row, ok, err := s.table.find(id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("task %d: %w", id, model.ErrNotFound)
	}
	task, err := s.decode(row)
	if err != nil {
		return nil, err
	}
	column, err := s.columns.FindByID(ctx, task.ColumnID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			s.logger.WithFields(log.Fields{"task_id": id, "column_id": task.ColumnID}).
				Warn("task references a missing column")
			return nil, fmt.Errorf("task %d: %w", id, model.ErrNotFound)
		}
		return nil, err
	}
	task.Column = column
	return task, nil
}

func (s *TaskStore) ExistsByID(ctx context.Context, id int64) (bool, error) {
	_, ok, err := s.table.find(id)
	return ok, err
}

func (s *TaskStore) ExistsByTitleInBoard(ctx context.Context, title string, boardID int64) (bool, error) {
	return s.anyTitleInBoard(ctx, title, boardID, 0)
}

func (s *TaskStore) ExistsByTitleInBoardExcludingID(ctx context.Context, title string, boardID, id int64) (bool, error) {
	return s.anyTitleInBoard(ctx, title, boardID, id)
}

// ListByBoardID returns the tasks sitting in any column of the board.
func (s *TaskStore) ListByBoardID(ctx context.Context, boardID int64) ([]model.Task, error) {
	columns, err := s.columns.ListByBoardID(ctx, boardID)
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]*model.Column, len(columns))
	for i := range columns {
		byID[columns[i].ID] = &columns[i]
	}
	return s.collect(func(columnID int64) *model.Column { return byID[columnID] })
}

func (s *TaskStore) ListByColumnID(ctx context.Context, columnID int64) ([]model.Task, error) {
	column, err := s.columns.FindByID(ctx, columnID)
	if errors.Is(err, model.ErrNotFound) {
		return []model.Task{}, nil
	}
	if err != nil {
		return nil, err
	}
	return s.collect(func(id int64) *model.Column {
		if id == columnID {
			return column
		}
		return nil
	})
}

func (s *TaskStore) DeleteByID(ctx context.Context, id int64) error {
	_, err := s.table.removeWhere("delete", idIs(0, id))
	return err
}

// OnEntityDeleted removes every task of the deleted board. It relies on the
// board's columns still being readable.
func (s *TaskStore) OnEntityDeleted(ctx context.Context, boardID int64) error {
	tasks, err := s.ListByBoardID(ctx, boardID)
	if err != nil {
		return err
	}
	doomed := make(map[int64]struct{}, len(tasks))
	for _, t := range tasks {
		doomed[t.ID] = struct{}{}
	}
	n, err := s.table.removeWhere("cascade", func(row []string) (bool, error) {
		id, err := parseID(row[0])
		if err != nil {
			return false, err
		}
		_, hit := doomed[id]
		return hit, nil
	})
	if err != nil {
		return err
	}
	s.logger.WithFields(log.Fields{"board_id": boardID, "removed": n}).Debug("purged tasks")
	return nil
}

// collect decodes the rows whose column is returned by resolve, ordered by ID.
func (s *TaskStore) collect(resolve func(columnID int64) *model.Column) ([]model.Task, error) {
	rows, err := s.table.rows()
	if err != nil {
		return nil, err
	}
	tasks := []model.Task{}
	for _, row := range rows {
		task, err := s.decode(row)
		if err != nil {
			return nil, err
		}
		column := resolve(task.ColumnID)
		if column == nil {
			continue
		}
		task.Column = column
		tasks = append(tasks, *task)
	}
	slices.SortFunc(tasks, func(a, b model.Task) int {
		return cmp.Compare(a.ID, b.ID)
	})
	return tasks, nil
}

func (s *TaskStore) anyTitleInBoard(ctx context.Context, title string, boardID, excludeID int64) (bool, error) {
	tasks, err := s.ListByBoardID(ctx, boardID)
	if err != nil {
		return false, err
	}
	for _, t := range tasks {
		if model.SameTitle(t.Title, title) && (excludeID == 0 || t.ID != excludeID) {
			return true, nil
		}
	}
	return false, nil
}

func (s *TaskStore) decode(row []string) (*model.Task, error) {
	id, err := parseID(row[0])
	if err != nil {
		return nil, s.table.fail("decode", 0, err)
	}
	dueDate, err := parseDate(row[3])
	if err != nil {
		return nil, s.table.fail("decode", id, err)
	}
	blocked, err := parseBool(row[4])
	if err != nil {
		return nil, s.table.fail("decode", id, err)
	}
	createdAt, err := parseTimestamp(row[5])
	if err != nil {
		return nil, s.table.fail("decode", id, err)
	}
	columnID, err := parseID(row[6])
	if err != nil {
		return nil, s.table.fail("decode", id, err)
	}
	return &model.Task{
		ID:          id,
		ColumnID:    columnID,
		Title:       row[1],
		Description: row[2],
		DueDate:     dueDate,
		Blocked:     blocked,
		CreatedAt:   createdAt,
	}, nil
}
