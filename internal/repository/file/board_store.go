package file

import (
	"cmp"
	"context"
	"fmt"
	"path/filepath"
	"slices"

	log "github.com/sirupsen/logrus"

	"taskboard/internal/model"
)

const boardsFile = "boards.csv"

var boardHeader = []string{"ID", "TITLE", "CREATED_AT"}

// BoardStore persists boards and is the only store that triggers a cascade.
type BoardStore struct {
	table   *table
	cascade *Cascade
	logger  *log.Logger
}

func NewBoardStore(dir string, logger *log.Logger) (*BoardStore, error) {
	logger = orStandard(logger)
	t, err := openTable(filepath.Join(dir, boardsFile), boardHeader, logger)
	if err != nil {
		return nil, err
	}
	return &BoardStore{table: t, cascade: newCascade(logger), logger: logger}, nil
}

// OnDelete registers a dependent store. See Cascade.Register for ordering.
func (s *BoardStore) OnDelete(name string, l DeletionListener) {
	s.cascade.Register(name, l)
}

// Cascade exposes the listener chain fired by DeleteByID.
func (s *BoardStore) Cascade() *Cascade {
	return s.cascade
}

func (s *BoardStore) Save(ctx context.Context, board *model.Board) (*model.Board, error) {
	id, err := s.table.upsert(board.ID, func(id int64) []string {
		return []string{formatID(id), board.Title, formatTimestamp(board.CreatedAt)}
	})
	if err != nil {
		return nil, err
	}
	board.ID = id
	return board, nil
}

func (s *BoardStore) FindByID(ctx context.Context, id int64) (*model.Board, error) {
	row, ok, err := s.table.find(id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("board %d: %w", id, model.ErrNotFound)
	}
	return s.decode(row)
}

func (s *BoardStore) ExistsByID(ctx context.Context, id int64) (bool, error) {
	_, ok, err := s.table.find(id)
	return ok, err
}

func (s *BoardStore) ExistsByTitle(ctx context.Context, title string) (bool, error) {
	return s.anyTitle(title, 0)
}

func (s *BoardStore) ExistsByTitleExcludingID(ctx context.Context, title string, id int64) (bool, error) {
	return s.anyTitle(title, id)
}

// ListAll returns every board ordered by ID.
func (s *BoardStore) ListAll(ctx context.Context) ([]model.Board, error) {
	rows, err := s.table.rows()
	if err != nil {
		return nil, err
	}
	boards := make([]model.Board, 0, len(rows))
	for _, row := range rows {
		b, err := s.decode(row)
		if err != nil {
			return nil, err
		}
		boards = append(boards, *b)
	}
	slices.SortFunc(boards, func(a, b model.Board) int {
		return cmp.Compare(a.ID, b.ID)
	})
	return boards, nil
}

// DeleteByID purges every dependent through the cascade before the board row
// itself goes. If a listener fails the board row is kept so a retry can finish.
func (s *BoardStore) DeleteByID(ctx context.Context, id int64) error {
	if err := s.cascade.Notify(ctx, id); err != nil {
		return err
	}
	_, err := s.table.removeWhere("delete", idIs(0, id))
	return err
}

func (s *BoardStore) anyTitle(title string, excludeID int64) (bool, error) {
	rows, err := s.table.rows()
	if err != nil {
		return false, err
	}
	for _, row := range rows {
		if !model.SameTitle(row[1], title) {
			continue
		}
		id, err := parseID(row[0])
		if err != nil {
			return false, s.table.fail("exists", 0, err)
		}
		if excludeID == 0 || id != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (s *BoardStore) decode(row []string) (*model.Board, error) {
	id, err := parseID(row[0])
	if err != nil {
		return nil, s.table.fail("decode", 0, err)
	}
	createdAt, err := parseTimestamp(row[2])
	if err != nil {
		return nil, s.table.fail("decode", id, err)
	}
	return &model.Board{ID: id, Title: row[1], CreatedAt: createdAt}, nil
}

func orStandard(logger *log.Logger) *log.Logger {
	if logger == nil {
		return log.StandardLogger()
	}
	return logger
}
