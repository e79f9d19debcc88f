// Package record provides the read-only record view the profiling engine
// consumes: a finite ordered sequence of rows whose cells are tagged
// null/number/string variants, with O(1) column lookup.
package record

import (
	"fmt"
	"sort"
)

// View is a read-only, column-major sequence of records. Column set and
// order are fixed at construction and identical for every row.
type View struct {
	columns []string
	index   map[string]int
	data    [][]Cell // data[i] holds column columns[i], length == rows
	rows    int
}

// New builds a view from an ordered column list and row-major cells.
// Every row must have exactly one cell per column.
func New(columns []string, rows [][]Cell) (*View, error) {
	index := make(map[string]int, len(columns))
	for i, name := range columns {
		if name == "" {
			return nil, fmt.Errorf("column %d has an empty name", i)
		}
		if _, dup := index[name]; dup {
			return nil, fmt.Errorf("duplicate column name %q", name)
		}
		index[name] = i
	}

	data := make([][]Cell, len(columns))
	for i := range data {
		data[i] = make([]Cell, len(rows))
	}
	for r, row := range rows {
		if len(row) != len(columns) {
			return nil, fmt.Errorf("row %d has %d cells, expected %d", r, len(row), len(columns))
		}
		for c, cell := range row {
			data[c][r] = cell
		}
	}

	return &View{columns: columns, index: index, data: data, rows: len(rows)}, nil
}

// FromRecords builds a view from generic key-value records, as delivered by
// the compare endpoint. Column order follows sorted key order of the first
// record (JSON objects carry no order); later records must not introduce
// new keys, and missing keys become null cells.
func FromRecords(records []map[string]Cell) (*View, error) {
	if len(records) == 0 {
		return New(nil, nil)
	}

	columns := make([]string, 0, len(records[0]))
	for name := range records[0] {
		columns = append(columns, name)
	}
	sort.Strings(columns)

	known := make(map[string]bool, len(columns))
	for _, name := range columns {
		known[name] = true
	}

	rows := make([][]Cell, len(records))
	for r, rec := range records {
		for name := range rec {
			if !known[name] {
				return nil, fmt.Errorf("record %d introduces unknown column %q", r, name)
			}
		}
		row := make([]Cell, len(columns))
		for c, name := range columns {
			if cell, ok := rec[name]; ok {
				row[c] = cell
			} else {
				row[c] = Null()
			}
		}
		rows[r] = row
	}

	return New(columns, rows)
}

// Len returns the record count
func (v *View) Len() int {
	return v.rows
}

// Columns returns the ordered column names. Callers must not mutate the
// returned slice.
func (v *View) Columns() []string {
	return v.columns
}

// ColumnCount returns the number of columns
func (v *View) ColumnCount() int {
	return len(v.columns)
}

// HasColumn reports whether the named column exists
func (v *View) HasColumn(name string) bool {
	_, ok := v.index[name]
	return ok
}

// Column returns all cells of the named column in original row order.
// Callers must not mutate the returned slice.
func (v *View) Column(name string) ([]Cell, bool) {
	i, ok := v.index[name]
	if !ok {
		return nil, false
	}
	return v.data[i], true
}

// Cell returns the cell at (row, column)
func (v *View) Cell(row int, column string) (Cell, bool) {
	i, ok := v.index[column]
	if !ok || row < 0 || row >= v.rows {
		return Cell{}, false
	}
	return v.data[i][row], true
}

// SliceRows returns a view over rows [from, to). The result shares cell
// storage with the receiver.
func (v *View) SliceRows(from, to int) *View {
	if from < 0 {
		from = 0
	}
	if to > v.rows {
		to = v.rows
	}
	if from > to {
		from = to
	}
	data := make([][]Cell, len(v.data))
	for i := range v.data {
		data[i] = v.data[i][from:to]
	}
	return &View{columns: v.columns, index: v.index, data: data, rows: to - from}
}

// SelectRows returns a view containing the given row indices in order
func (v *View) SelectRows(indices []int) *View {
	data := make([][]Cell, len(v.data))
	for i := range v.data {
		col := make([]Cell, 0, len(indices))
		for _, r := range indices {
			col = append(col, v.data[i][r])
		}
		data[i] = col
	}
	return &View{columns: v.columns, index: v.index, data: data, rows: len(indices)}
}

// SelectColumns returns a view restricted to the named columns, in the
// given order. Cell storage is shared.
func (v *View) SelectColumns(names []string) (*View, error) {
	index := make(map[string]int, len(names))
	data := make([][]Cell, len(names))
	columns := make([]string, len(names))
	for i, name := range names {
		src, ok := v.index[name]
		if !ok {
			return nil, fmt.Errorf("unknown column %q", name)
		}
		if _, dup := index[name]; dup {
			return nil, fmt.Errorf("duplicate column name %q", name)
		}
		columns[i] = name
		index[name] = i
		data[i] = v.data[src]
	}
	return &View{columns: columns, index: index, data: data, rows: v.rows}, nil
}
