package ledger

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

var columnNameSanitizer = strings.NewReplacer(" ", "", "_", "", ".", "", "-", "", "/", "")

func normalizeColumnName(name string) string {
	name = strings.TrimSpace(strings.ToLower(strings.TrimPrefix(name, "\ufeff")))
	return columnNameSanitizer.Replace(name)
}

var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// table is a CSV file with its header indexed by normalized column name.
type table struct {
	name    string
	columns map[string]int
	rows    [][]string
}

func readTable(r io.Reader, name string, required ...string) (*table, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%s: empty file", name)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: failed to read header: %w", name, err)
	}

	t := &table{name: name, columns: make(map[string]int, len(header))}
	for i, h := range header {
		t.columns[normalizeColumnName(h)] = i
	}
	for _, col := range required {
		if _, ok := t.columns[normalizeColumnName(col)]; !ok {
			return nil, fmt.Errorf("%s: missing column %q", name, col)
		}
	}

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		if isBlank(record) {
			continue
		}
		t.rows = append(t.rows, record)
	}

	return t, nil
}

func isBlank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func (t *table) has(col string) bool {
	_, ok := t.columns[normalizeColumnName(col)]
	return ok
}

func (t *table) str(row []string, col string) string {
	idx, ok := t.columns[normalizeColumnName(col)]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// rowErr reports a bad value with its 1-based line number (header is line 1).
func (t *table) rowErr(i int, col, value string, err error) error {
	return fmt.Errorf("%s line %d: invalid %s %q: %w", t.name, i+2, col, value, err)
}

func (t *table) float(i int, col string) (float64, error) {
	v := strings.ReplaceAll(t.str(t.rows[i], col), ",", "")
	if v == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, t.rowErr(i, col, v, err)
	}
	return f, nil
}

func (t *table) int64(i int, col string) (int64, error) {
	v := strings.ReplaceAll(t.str(t.rows[i], col), ",", "")
	if v == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		// Spreadsheet exports write integers as 12.0
		f, ferr := strconv.ParseFloat(v, 64)
		if ferr != nil || f != float64(int64(f)) {
			return 0, t.rowErr(i, col, v, err)
		}
		n = int64(f)
	}
	return n, nil
}

func (t *table) requiredInt64(i int, col string) (int64, error) {
	if t.str(t.rows[i], col) == "" {
		return 0, t.rowErr(i, col, "", errors.New("value is required"))
	}
	return t.int64(i, col)
}

func (t *table) boolean(i int, col string, fallback bool) (bool, error) {
	v := strings.ToLower(t.str(t.rows[i], col))
	switch v {
	case "":
		return fallback, nil
	case "yes", "y", "active":
		return true, nil
	case "no", "n", "inactive":
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, t.rowErr(i, col, v, err)
	}
	return b, nil
}

func (t *table) timestamp(i int, col string) (time.Time, error) {
	v := t.str(t.rows[i], col)
	for _, layout := range timestampLayouts {
		if ts, err := time.ParseInLocation(layout, v, time.UTC); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, t.rowErr(i, col, v, errors.New("unrecognized time format"))
}
