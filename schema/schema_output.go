package schema

import "encoding/json"

// Cell is one table cell in long form, used by the parquet export and the table store.
type Cell struct {
	Row         int
	ColumnIndex int
	Column      string
	Kind        ValueKind
	Number      *float64
	Text        *string
}

// ParseValueKind maps a kind name back to its ValueKind.
func ParseValueKind(s string) (ValueKind, bool) {
	for _, k := range []ValueKind{KindMissing, KindNumber, KindText, KindSequence} {
		if k.String() == s {
			return k, true
		}
	}
	return KindMissing, false
}

// Cells flattens the table into long form, row by row.
// Sequences are stored as their JSON text.
func (t *Table) Cells() []Cell {
	cells := make([]Cell, 0, t.rows*len(t.columns))
	for i := range t.rows {
		for j, c := range t.columns {
			cells = append(cells, newCell(i, j, c.Name, c.Values[i]))
		}
	}
	return cells
}

func newCell(row, index int, column string, v Value) Cell {
	cell := Cell{Row: row, ColumnIndex: index, Column: column, Kind: v.Kind()}
	switch v.Kind() {
	case KindNumber:
		n, _ := v.Number()
		cell.Number = &n
	case KindText:
		s, _ := v.Text()
		cell.Text = &s
	case KindSequence:
		raw, err := json.Marshal(v)
		if err == nil {
			s := string(raw)
			cell.Text = &s
		}
	}
	return cell
}
