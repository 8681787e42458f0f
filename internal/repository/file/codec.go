package file

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"taskboard/internal/model"
)

// Field encodings are locale independent so a row reads back to the exact value written.

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("bad id %q", s)
	}
	return id, nil
}

// escapeField hides carriage returns from the csv reader, which folds \r\n
// into \n even inside quoted fields. Backslashes are doubled so the escape
// can be told apart from literal text.
func escapeField(s string) string {
	if !strings.ContainsAny(s, "\\\r") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 2)
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\':
			b.WriteString(`\\`)
		case '\r':
			b.WriteString(`\r`)
		default:
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

// unescapeField reverses escapeField. A backslash before any other byte is
// kept as written.
func unescapeField(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' || i+1 == len(s) {
			b.WriteByte(s[i])
			continue
		}
		switch s[i+1] {
		case '\\':
			b.WriteByte('\\')
			i++
		case 'r':
			b.WriteByte('\r')
			i++
		default:
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

func formatDate(t time.Time) string {
	return model.DateOf(t).Format(model.DateLayout)
}

func parseDate(s string) (time.Time, error) {
	t, err := time.Parse(model.DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("bad date %q", s)
	}
	return t, nil
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("bad timestamp %q", s)
	}
	return t.UTC(), nil
}

func formatBool(b bool) string {
	return strconv.FormatBool(b)
}

func parseBool(s string) (bool, error) {
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("bad flag %q", s)
	}
	return b, nil
}

// idIs builds a row predicate on the ID stored at column col.
func idIs(col int, id int64) func(row []string) (bool, error) {
	return func(row []string) (bool, error) {
		rowID, err := parseID(row[col])
		if err != nil {
			return false, err
		}
		return rowID == id, nil
	}
}
