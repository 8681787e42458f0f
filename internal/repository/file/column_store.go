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

const columnsFile = "columns.csv"

var columnHeader = []string{"ID", "BOARD_ID", "TYPE"}

// ColumnStore persists columns. Each row keeps its board by ID only; the board
// is looked up again on every read.
type ColumnStore struct {
	table  *table
	boards *BoardStore
	logger *log.Logger
}

func NewColumnStore(dir string, boards *BoardStore, logger *log.Logger) (*ColumnStore, error) {
	logger = orStandard(logger)
	t, err := openTable(filepath.Join(dir, columnsFile), columnHeader, logger)
	if err != nil {
		return nil, err
	}
	return &ColumnStore{table: t, boards: boards, logger: logger}, nil
}

func (s *ColumnStore) Save(ctx context.Context, column *model.Column) (*model.Column, error) {
	if column.Board != nil {
		column.BoardID = column.Board.ID
	}
	if column.BoardID == 0 {
		return nil, fmt.Errorf("column of type %s has no board", column.Type)
	}
	id, err := s.table.upsert(column.ID, func(id int64) []string {
		return []string{formatID(id), formatID(column.BoardID), string(column.Type)}
	})
	if err != nil {
		return nil, err
	}
	column.ID = id
	return column, nil
}

// FindByID resolves the column and its board. A column whose board is gone is
// reported as not found.
func (s *ColumnStore) FindByID(ctx context.Context, id int64) (*model.Column, error) {
	row, ok, err := s.table.find(id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("column %d: %w", id, model.ErrNotFound)
	}
	column, err := s.decode(row)
	if err != nil {
		return nil, err
	}
	board, err := s.boards.FindByID(ctx, column.BoardID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			s.logger.WithFields(log.Fields{"column_id": id, "board_id": column.BoardID}).
				Warn("column references a missing board")
			return nil, fmt.Errorf("column %d: %w", id, model.ErrNotFound)
		}
		return nil, err
	}
	column.Board = board
	return column, nil
}

// ListByBoardID returns the board's columns ordered by ID, or none when the
// board does not exist.
func (s *ColumnStore) ListByBoardID(ctx context.Context, boardID int64) ([]model.Column, error) {
	board, err := s.boards.FindByID(ctx, boardID)
	if errors.Is(err, model.ErrNotFound) {
		return []model.Column{}, nil
	}
	if err != nil {
		return nil, err
	}

	rows, err := s.table.rows()
	if err != nil {
		return nil, err
	}
	columns := []model.Column{}
	for _, row := range rows {
		column, err := s.decode(row)
		if err != nil {
			return nil, err
		}
		if column.BoardID != boardID {
			continue
		}
		column.Board = board
		columns = append(columns, *column)
	}
	slices.SortFunc(columns, func(a, b model.Column) int {
		return cmp.Compare(a.ID, b.ID)
	})
	return columns, nil
}

// OnEntityDeleted removes every column of the deleted board.
func (s *ColumnStore) OnEntityDeleted(ctx context.Context, boardID int64) error {
	n, err := s.table.removeWhere("cascade", idIs(1, boardID))
	if err != nil {
		return err
	}
	s.logger.WithFields(log.Fields{"board_id": boardID, "removed": n}).Debug("purged columns")
	return nil
}

func (s *ColumnStore) decode(row []string) (*model.Column, error) {
	id, err := parseID(row[0])
	if err != nil {
		return nil, s.table.fail("decode", 0, err)
	}
	boardID, err := parseID(row[1])
	if err != nil {
		return nil, s.table.fail("decode", id, err)
	}
	t, err := model.ParseColumnType(row[2])
	if err != nil {
		return nil, s.table.fail("decode", id, err)
	}
	return &model.Column{ID: id, BoardID: boardID, Type: t}, nil
}
