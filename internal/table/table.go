// Package table holds the in-memory record table and the loaders that fill it
// from CSV/TSV and XLSX files.
package table

import (
	"strings"
)

// Table is an ordered sequence of rows sharing one column set.
type Table struct {
	Name    string    `json:"name,omitempty" yaml:"name,omitempty"`
	Columns []string  `json:"columns" yaml:"columns"`
	Rows    [][]Value `json:"rows" yaml:"rows"`
	// Index holds the original 0-based position of every row. For a table
	// built by a loader it is 0..n-1; sub-tables keep their parent positions.
	Index []int `json:"index" yaml:"index"`
}

// New returns an empty table with the given columns.
func New(name string, columns []string) *Table {
	cols := make([]string, len(columns))
	copy(cols, columns)
	return &Table{Name: name, Columns: cols}
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.Rows) }

// ColumnIndex returns the position of name, or -1. Matching is exact.
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

func (t *Table) HasColumn(name string) bool { return t.ColumnIndex(name) >= 0 }

// Append adds a row, padding with nulls or truncating to the column count.
func (t *Table) Append(row []Value) {
	r := make([]Value, len(t.Columns))
	copy(r, row)
	t.Rows = append(t.Rows, r)
	t.Index = append(t.Index, len(t.Index))
}

// RowIndex returns the original position of row i.
func (t *Table) RowIndex(i int) int {
	if i < len(t.Index) {
		return t.Index[i]
	}
	return i
}

// Column returns the values of the named column, or nil if absent.
func (t *Table) Column(name string) []Value {
	idx := t.ColumnIndex(name)
	if idx < 0 {
		return nil
	}
	out := make([]Value, len(t.Rows))
	for i, r := range t.Rows {
		out[i] = r[idx]
	}
	return out
}

// SetColumn replaces the named column in place, or appends it when absent.
// vals must have one entry per row.
func (t *Table) SetColumn(name string, vals []Value) {
	idx := t.ColumnIndex(name)
	if idx < 0 {
		t.Columns = append(t.Columns, name)
		for i := range t.Rows {
			t.Rows[i] = append(t.Rows[i], Value{})
		}
		idx = len(t.Columns) - 1
	}
	for i := range t.Rows {
		if i < len(vals) {
			t.Rows[i][idx] = vals[i]
		} else {
			t.Rows[i][idx] = Value{}
		}
	}
}

// Subset returns a new table holding the rows at the given positions of t,
// in the order given. Row slices are copied; original positions are kept.
func (t *Table) Subset(positions []int) *Table {
	out := New(t.Name, t.Columns)
	out.Rows = make([][]Value, 0, len(positions))
	out.Index = make([]int, 0, len(positions))
	for _, p := range positions {
		r := make([]Value, len(t.Rows[p]))
		copy(r, t.Rows[p])
		out.Rows = append(out.Rows, r)
		out.Index = append(out.Index, t.RowIndex(p))
	}
	return out
}

// Clone returns a deep copy of t.
func (t *Table) Clone() *Table {
	all := make([]int, len(t.Rows))
	for i := range all {
		all[i] = i
	}
	return t.Subset(all)
}

// NumericColumns lists, in column order, the columns whose non-null values
// are all numbers and that hold at least one number. Columns named in
// exclude are skipped.
func (t *Table) NumericColumns(exclude ...string) []string {
	skip := make(map[string]bool, len(exclude))
	for _, e := range exclude {
		skip[e] = true
	}
	var out []string
	for j, name := range t.Columns {
		if skip[name] {
			continue
		}
		nums := 0
		mixed := false
		for _, r := range t.Rows {
			switch r[j].Kind {
			case Null:
			case Number:
				nums++
			default:
				mixed = true
			}
			if mixed {
				break
			}
		}
		if !mixed && nums > 0 {
			out = append(out, name)
		}
	}
	return out
}

// Floats returns the non-null numeric values of a column together with the
// row positions they came from.
func (t *Table) Floats(name string) ([]float64, []int) {
	idx := t.ColumnIndex(name)
	if idx < 0 {
		return nil, nil
	}
	vals := make([]float64, 0, len(t.Rows))
	rows := make([]int, 0, len(t.Rows))
	for i, r := range t.Rows {
		if r[idx].Kind == Number {
			vals = append(vals, r[idx].Num)
			rows = append(rows, i)
		}
	}
	return vals, rows
}

// RowKey encodes a full row so that two rows share a key iff every field
// compares equal (null equals null).
func RowKey(row []Value) string {
	var b strings.Builder
	for _, v := range row {
		v.writeKey(&b)
	}
	return b.String()
}
