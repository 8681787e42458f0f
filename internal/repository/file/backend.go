package file

import (
	log "github.com/sirupsen/logrus"
)

// Backend groups the three tables kept under one data directory.
type Backend struct {
	Boards  *BoardStore
	Columns *ColumnStore
	Tasks   *TaskStore
}

// Open creates or loads boards.csv, columns.csv and tasks.csv under dir and
// wires the board cascade. Tasks are registered before columns: a task finds
// its board through its column, so purging columns first would strand tasks.
func Open(dir string, logger *log.Logger) (*Backend, error) {
	logger = orStandard(logger)

	boards, err := NewBoardStore(dir, logger)
	if err != nil {
		return nil, err
	}
	columns, err := NewColumnStore(dir, boards, logger)
	if err != nil {
		return nil, err
	}
	tasks, err := NewTaskStore(dir, columns, logger)
	if err != nil {
		return nil, err
	}

	boards.OnDelete("tasks", tasks)
	boards.OnDelete("columns", columns)

	logger.WithField("dir", dir).Info("file storage ready")
	return &Backend{Boards: boards, Columns: columns, Tasks: tasks}, nil
}
