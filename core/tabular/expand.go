package tabular

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gcopen/cheetah/schema"
)

// Errors describing why a list column cannot be expanded.
var (
	ErrNotSequence   = errors.New("cell is not a sequence")
	ErrNonNumeric    = errors.New("sequence element is not numeric")
	ErrEmptyLists    = errors.New("no cell holds any element")
	ErrNameCollision = errors.New("expanded column name already exists")
)

// Suffixes for the two-element value and duration pair.
const (
	ValueSuffix    = "_value"
	DurationSuffix = "_duration"
)

// ExpandedNames returns the column names a list column of the given width
// expands into.
func ExpandedNames(column string, width int) []string {
	if width == 2 {
		return []string{column + ValueSuffix, column + DurationSuffix}
	}
	names := make([]string, width)
	for i := range width {
		names[i] = column + "_" + strconv.Itoa(i)
	}
	return names
}

// ExpandListColumn replaces a column of numeric sequences with one column per
// sequence position, appended at the end of the table. Shorter sequences leave
// missing values in the trailing positions. Either the whole column expands or
// the table is left untouched and an error is returned.
func ExpandListColumn(t *schema.Table, column string) error {
	values, ok := t.Column(column)
	if !ok {
		return fmt.Errorf("%w: %q", schema.ErrUnknownColumn, column)
	}

	rows := make([][]schema.Value, len(values))
	width := 0
	for i, v := range values {
		if v.IsMissing() {
			continue
		}
		elems, ok := v.Sequence()
		if !ok {
			return fmt.Errorf("%w: row %d holds a %s", ErrNotSequence, i, v.Kind())
		}
		row, err := numericElements(elems)
		if err != nil {
			return fmt.Errorf("row %d: %w", i, err)
		}
		rows[i] = row
		width = max(width, len(row))
	}
	if width == 0 {
		return ErrEmptyLists
	}

	names := ExpandedNames(column, width)
	for _, name := range names {
		if t.HasColumn(name) {
			return fmt.Errorf("%w: %q", ErrNameCollision, name)
		}
	}

	columns := make([][]schema.Value, width)
	for j := range columns {
		columns[j] = make([]schema.Value, len(rows))
		for i, row := range rows {
			if j < len(row) {
				columns[j][i] = row[j]
			}
		}
	}

	for j, name := range names {
		if err := t.AddColumn(name, columns[j]); err != nil {
			for _, added := range names[:j] {
				t.DropColumn(added)
			}
			return err
		}
	}
	t.DropColumn(column)
	return nil
}

// numericElements reads sequence elements as numbers. Numeric strings are
// accepted because the bulk export stores most metrics as text.
func numericElements(elems []schema.Value) ([]schema.Value, error) {
	out := make([]schema.Value, len(elems))
	for i, e := range elems {
		switch e.Kind() {
		case schema.KindMissing, schema.KindNumber:
			out[i] = e
		case schema.KindText:
			s, _ := e.Text()
			f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
			if err != nil {
				return nil, fmt.Errorf("%w: element %d holds %q", ErrNonNumeric, i, s)
			}
			out[i] = schema.Number(f)
		default:
			return nil, fmt.Errorf("%w: element %d holds a %s", ErrNonNumeric, i, e.Kind())
		}
	}
	return out, nil
}
