// Package schema has the table model and shared constants for all parts of cheetah.
package schema

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Errors returned by Table mutations.
var (
	ErrDuplicateColumn = errors.New("duplicate column")
	ErrColumnLength    = errors.New("column length does not match table")
	ErrUnknownColumn   = errors.New("unknown column")
)

// Column is a named, ordered list of cells.
type Column struct {
	Name   string
	Values []Value
}

// Table is an ordered set of named columns with positionally aligned rows.
type Table struct {
	rows    int
	columns []Column
}

// NewTable returns an empty table whose columns will each hold rows cells.
func NewTable(rows int) *Table {
	return &Table{rows: rows}
}

// Len returns the number of rows.
func (t *Table) Len() int { return t.rows }

// Width returns the number of columns.
func (t *Table) Width() int { return len(t.columns) }

// Columns returns the column names in order.
func (t *Table) Columns() []string {
	names := make([]string, len(t.columns))
	for i, c := range t.columns {
		names[i] = c.Name
	}
	return names
}

func (t *Table) indexOf(name string) int {
	for i, c := range t.columns {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// HasColumn reports whether a column with the given name exists.
func (t *Table) HasColumn(name string) bool { return t.indexOf(name) >= 0 }

// Column returns the cells of the named column.
func (t *Table) Column(name string) ([]Value, bool) {
	i := t.indexOf(name)
	if i < 0 {
		return nil, false
	}
	return t.columns[i].Values, true
}

// Cell returns a single cell by row index and column name.
func (t *Table) Cell(row int, name string) (Value, bool) {
	values, ok := t.Column(name)
	if !ok || row < 0 || row >= t.rows {
		return Value{}, false
	}
	return values[row], true
}

// AddColumn appends a column to the end of the table.
func (t *Table) AddColumn(name string, values []Value) error {
	if t.HasColumn(name) {
		return fmt.Errorf("%w: %q", ErrDuplicateColumn, name)
	}
	if len(values) != t.rows {
		return fmt.Errorf("%w: %q has %d values, table has %d rows", ErrColumnLength, name, len(values), t.rows)
	}
	t.columns = append(t.columns, Column{Name: name, Values: values})
	return nil
}

// SetColumn replaces the cells of an existing column in place.
func (t *Table) SetColumn(name string, values []Value) error {
	i := t.indexOf(name)
	if i < 0 {
		return fmt.Errorf("%w: %q", ErrUnknownColumn, name)
	}
	if len(values) != t.rows {
		return fmt.Errorf("%w: %q has %d values, table has %d rows", ErrColumnLength, name, len(values), t.rows)
	}
	t.columns[i].Values = values
	return nil
}

// DropColumn removes the named column and reports whether it existed.
func (t *Table) DropColumn(name string) bool {
	i := t.indexOf(name)
	if i < 0 {
		return false
	}
	t.columns = append(t.columns[:i], t.columns[i+1:]...)
	return true
}

// Row returns the cells of row i in column order.
func (t *Table) Row(i int) []Value {
	row := make([]Value, len(t.columns))
	for j, c := range t.columns {
		row[j] = c.Values[i]
	}
	return row
}

// Select returns a new table holding only the named columns, in the given order.
func (t *Table) Select(names ...string) (*Table, error) {
	out := NewTable(t.rows)
	for _, name := range names {
		values, ok := t.Column(name)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, name)
		}
		if err := out.AddColumn(name, values); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Clone returns a copy of the table that shares no column slices with t.
func (t *Table) Clone() *Table {
	out := &Table{rows: t.rows, columns: make([]Column, len(t.columns))}
	for i, c := range t.columns {
		values := make([]Value, len(c.Values))
		copy(values, c.Values)
		out.columns[i] = Column{Name: c.Name, Values: values}
	}
	return out
}

// tableJSON is the wire form of a Table.
type tableJSON struct {
	Columns []string  `json:"columns"`
	Rows    [][]Value `json:"rows"`
}

// MarshalJSON encodes the table as {"columns": [...], "rows": [[...], ...]}.
func (t *Table) MarshalJSON() ([]byte, error) {
	out := tableJSON{Columns: t.Columns(), Rows: make([][]Value, t.rows)}
	for i := range t.rows {
		out.Rows[i] = t.Row(i)
	}
	return json.Marshal(out)
}
