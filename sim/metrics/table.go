// Package metrics turns finalized entity records into output tables, adds the
// derived wait and dwell columns, and summarizes columns into KPIs.
package metrics

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
)

// Row is one finalized entity. Values are float64, int or string; a column
// the entity never reached is simply absent.
type Row map[string]any

// Float returns the numeric value of col, if present.
func (r Row) Float(col string) (float64, bool) {
	switch v := r[col].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	}
	return 0, false
}

// Table is an ordered set of rows plus the union of their columns in a
// deterministic order.
type Table struct {
	Columns []string
	Rows    []Row
}

// NewTable builds a table whose columns are the union of keys across rows.
// Columns listed in order come first in that order; any others follow
// alphabetically.
func NewTable(rows []Row, order []string) *Table {
	present := map[string]bool{}
	for _, r := range rows {
		for k := range r {
			present[k] = true
		}
	}
	cols := make([]string, 0, len(present))
	for _, c := range order {
		if present[c] {
			cols = append(cols, c)
			delete(present, c)
		}
	}
	extra := make([]string, 0, len(present))
	for c := range present {
		extra = append(extra, c)
	}
	sort.Strings(extra)
	return &Table{Columns: append(cols, extra...), Rows: rows}
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Has reports whether col is part of the table.
func (t *Table) Has(col string) bool {
	for _, c := range t.Columns {
		if c == col {
			return true
		}
	}
	return false
}

// Values returns the numeric values of col in row order, skipping rows where
// it is absent.
func (t *Table) Values(col string) []float64 {
	out := make([]float64, 0, len(t.Rows))
	for _, r := range t.Rows {
		if v, ok := r.Float(col); ok {
			out = append(out, v)
		}
	}
	return out
}

// Filter returns a table with the rows accepted by keep and the same column
// ordering rules.
func (t *Table) Filter(keep func(Row) bool, order []string) *Table {
	rows := make([]Row, 0, len(t.Rows))
	for _, r := range t.Rows {
		if keep(r) {
			rows = append(rows, r)
		}
	}
	return NewTable(rows, order)
}

// WriteCSV writes a header row and one line per row. Absent cells are empty.
func (t *Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Columns); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	record := make([]string, len(t.Columns))
	for i, r := range t.Rows {
		for j, c := range t.Columns {
			record[j] = formatCell(r[c])
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing row %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatCell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int:
		return strconv.Itoa(x)
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	}
	return fmt.Sprint(v)
}
