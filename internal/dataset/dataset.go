package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
)

// Dataset is an in-memory table with dynamically named columns. No schema is
// guaranteed beyond a header row; missing cells read as empty strings.
type Dataset struct {
	ID      string
	Columns []string
	Rows    [][]string

	colIndex map[string]int
}

// LoadCSV reads a header row plus data rows. Zero data rows is valid. Ragged
// rows are padded on read through Value.
func LoadCSV(r io.Reader) (*Dataset, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("csv is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	columns := make([]string, len(header))
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		columns[i] = strings.TrimSpace(h)
	}

	var rows [][]string
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row: %w", err)
		}
		row := make([]string, len(rec))
		for i, v := range rec {
			row[i] = strings.TrimSpace(v)
		}
		rows = append(rows, row)
	}

	return New(columns, rows), nil
}

// New builds a Dataset around already parsed columns and rows.
func New(columns []string, rows [][]string) *Dataset {
	idx := make(map[string]int, len(columns))
	for i, c := range columns {
		if _, ok := idx[c]; !ok {
			idx[c] = i
		}
	}
	return &Dataset{
		ID:       uuid.NewString(),
		Columns:  columns,
		Rows:     rows,
		colIndex: idx,
	}
}

func (d *Dataset) HasColumn(name string) bool {
	_, ok := d.colIndex[name]
	return ok
}

// ColumnIndex returns -1 when the column does not exist.
func (d *Dataset) ColumnIndex(name string) int {
	i, ok := d.colIndex[name]
	if !ok {
		return -1
	}
	return i
}

// Value returns the cell at (row, column), or "" when either is absent.
func (d *Dataset) Value(row int, column string) string {
	i, ok := d.colIndex[column]
	if !ok || row < 0 || row >= len(d.Rows) {
		return ""
	}
	r := d.Rows[row]
	if i >= len(r) {
		return ""
	}
	return r[i]
}

func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Rows)
}
