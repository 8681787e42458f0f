// Package file is a flat-file storage backend: one delimited text table per
// entity type, rewritten whole on every mutation.
package file

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"sync"

	log "github.com/sirupsen/logrus"

	"taskboard/internal/model"
)

const delimiter = ';'

// table is a header line followed by one delimited row per record, ID first.
// The mutex covers a single read-modify-write; it is never held while another
// table is consulted.
type table struct {
	path   string
	header []string
	logger *log.Logger

	mu sync.Mutex
	// lastID is the highest ID handed out or seen by this process, so deleting
	// the newest row does not free its ID for the next save.
	lastID int64
}

func openTable(path string, header []string, logger *log.Logger) (*table, error) {
	t := &table{path: path, header: header, logger: logger}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, t.fail("init", 0, err)
	}

	_, err := os.Stat(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		if err := t.writeLocked(nil); err != nil {
			return nil, err
		}
		t.logger.WithField("file", t.name()).Debug("created table")
		return t, nil
	case err != nil:
		return nil, t.fail("init", 0, err)
	}

	// An existing file must carry our header and well-formed rows.
	rows, err := t.rows()
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		id, err := parseID(row[0])
		if err != nil {
			return nil, t.fail("init", 0, err)
		}
		t.lastID = max(t.lastID, id)
	}
	return t, nil
}

func (t *table) name() string {
	return filepath.Base(t.path)
}

// rows returns every data row, header excluded, in file order.
func (t *table) rows() ([][]string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.readLocked()
}

// find returns the first row whose ID equals id.
func (t *table) find(id int64) ([]string, bool, error) {
	rows, err := t.rows()
	if err != nil {
		return nil, false, err
	}
	for _, row := range rows {
		rowID, err := parseID(row[0])
		if err != nil {
			return nil, false, t.fail("find", id, err)
		}
		if rowID == id {
			return row, true, nil
		}
	}
	return nil, false, nil
}

// upsert writes the row produced by encode. An id of 0 allocates max(ID)+1,
// never going below the high-water mark; any other id replaces the row
// carrying it, or appends when there is none.
func (t *table) upsert(id int64, encode func(id int64) []string) (int64, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	rows, err := t.readLocked()
	if err != nil {
		return 0, err
	}

	if id == 0 {
		var maxID int64
		for _, row := range rows {
			rowID, err := parseID(row[0])
			if err != nil {
				return 0, t.fail("allocate id", 0, err)
			}
			maxID = max(maxID, rowID)
		}
		id = max(maxID, t.lastID) + 1
	} else {
		kept := rows[:0]
		for _, row := range rows {
			rowID, err := parseID(row[0])
			if err != nil {
				return 0, t.fail("save", id, err)
			}
			if rowID != id {
				kept = append(kept, row)
			}
		}
		rows = kept
	}

	rows = append(rows, encode(id))
	if err := t.writeLocked(rows); err != nil {
		return 0, err
	}
	t.lastID = max(t.lastID, id)
	return id, nil
}

// removeWhere drops every row matched by match and reports how many went.
// The file is left untouched when nothing matches.
func (t *table) removeWhere(op string, match func(row []string) (bool, error)) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	rows, err := t.readLocked()
	if err != nil {
		return 0, err
	}

	kept := make([][]string, 0, len(rows))
	for _, row := range rows {
		hit, err := match(row)
		if err != nil {
			return 0, t.fail(op, 0, err)
		}
		if !hit {
			kept = append(kept, row)
		}
	}

	removed := len(rows) - len(kept)
	if removed == 0 {
		return 0, nil
	}
	if err := t.writeLocked(kept); err != nil {
		return 0, err
	}
	return removed, nil
}

func (t *table) readLocked() ([][]string, error) {
	f, err := os.Open(t.path)
	if err != nil {
		return nil, t.fail("read", 0, err)
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(bufio.NewReader(f))
	r.Comma = delimiter
	r.FieldsPerRecord = len(t.header)

	head, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, t.fail("read", 0, errors.New("missing header"))
	}
	if err != nil {
		return nil, t.fail("read", 0, err)
	}
	if !slices.Equal(head, t.header) {
		return nil, t.fail("read", 0, fmt.Errorf("unexpected header %q", head))
	}

	rows, err := r.ReadAll()
	if err != nil {
		return nil, t.fail("read", 0, err)
	}
	for _, row := range rows {
		for i := range row {
			row[i] = unescapeField(row[i])
		}
	}
	return rows, nil
}

// writeLocked replaces the file with header plus rows via a temp file and a
// rename, so readers see either the old table or the new one.
func (t *table) writeLocked(rows [][]string) error {
	dir := filepath.Dir(t.path)
	tmp, err := os.CreateTemp(dir, t.name()+".tmp.*")
	if err != nil {
		return t.fail("write", 0, err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		_ = tmp.Close()
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	bw := bufio.NewWriter(tmp)
	w := csv.NewWriter(bw)
	w.Comma = delimiter
	if err := w.Write(t.header); err != nil {
		return t.fail("write", 0, err)
	}
	for _, row := range rows {
		encoded := make([]string, len(row))
		for i, field := range row {
			encoded[i] = escapeField(field)
		}
		if err := w.Write(encoded); err != nil {
			return t.fail("write", 0, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return t.fail("write", 0, err)
	}
	if err := bw.Flush(); err != nil {
		return t.fail("write", 0, err)
	}
	if err := tmp.Sync(); err != nil {
		return t.fail("write", 0, err)
	}
	if err := tmp.Close(); err != nil {
		return t.fail("write", 0, err)
	}
	if err := os.Rename(tmpName, t.path); err != nil {
		return t.fail("write", 0, err)
	}
	committed = true
	return nil
}

func (t *table) fail(op string, id int64, err error) error {
	entry := t.logger.WithFields(log.Fields{"file": t.name(), "op": op})
	if id != 0 {
		entry = entry.WithField("id", id)
	}
	entry.WithError(err).Error("table access failed")
	return fmt.Errorf("%w: %s %s: %w", model.ErrStorage, op, t.name(), err)
}
