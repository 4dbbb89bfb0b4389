package tabular

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/gcopen/cheetah/schema"
	"github.com/tidwall/gjson"
)

// MetricMarker is the substring that marks a column as a quantitative metric.
const MetricMarker = "METRIC"

// ErrNotObject is returned when a summary row is not a JSON object.
var ErrNotObject = errors.New("summary row is not a JSON object")

// FlattenSummary turns row objects into a table, one row per object. Nested
// objects become dotted column names. Columns appear in the order they are
// first seen; rows lacking a column hold missing values.
func FlattenSummary(rides []json.RawMessage) (*schema.Table, error) {
	var order []string
	seen := make(map[string]bool)
	rows := make([]map[string]schema.Value, len(rides))

	for i, raw := range rides {
		if !gjson.ValidBytes(raw) {
			return nil, fmt.Errorf("row %d: invalid JSON", i)
		}
		obj := gjson.ParseBytes(raw)
		if !obj.IsObject() {
			return nil, fmt.Errorf("row %d: %w", i, ErrNotObject)
		}
		row := make(map[string]schema.Value)
		flattenObject("", obj, func(name string, v schema.Value) {
			if !seen[name] {
				seen[name] = true
				order = append(order, name)
			}
			row[name] = v
		})
		rows[i] = row
	}

	table := schema.NewTable(len(rows))
	for _, name := range order {
		values := make([]schema.Value, len(rows))
		for i, row := range rows {
			values[i] = row[name]
		}
		if err := table.AddColumn(name, values); err != nil {
			return nil, err
		}
	}
	return table, nil
}

// NormalizeSummary flattens the rows, then normalizes every metric column.
func NormalizeSummary(rides []json.RawMessage) (*schema.Table, Diagnostics, error) {
	table, err := FlattenSummary(rides)
	if err != nil {
		return nil, nil, err
	}
	return table, NormalizeMetrics(table), nil
}

// NormalizeMetrics coerces textual metric columns to numbers and expands
// metric columns holding sequences. Columns that fail are left as they were
// and reported.
func NormalizeMetrics(t *schema.Table) Diagnostics {
	var diags Diagnostics
	for _, name := range t.Columns() {
		if !strings.Contains(name, MetricMarker) {
			continue
		}
		values, _ := t.Column(name)
		switch ShapeOf(values) {
		case ShapeText:
			coerced, err := CoerceNumeric(values)
			if err != nil {
				diags = append(diags, &CoercionFailure{Column: name, Stage: StageCoerce, Err: err})
				continue
			}
			_ = t.SetColumn(name, coerced)
		case ShapeNumericSequence:
			if err := ExpandListColumn(t, name); err != nil {
				diags = append(diags, &CoercionFailure{Column: name, Stage: StageExpand, Err: err})
			}
		case ShapeNumber, ShapeMissing:
		}
	}
	return diags
}

// DetectListColumns returns the columns whose first non-missing value is a sequence.
func DetectListColumns(t *schema.Table) []string {
	var names []string
	for _, name := range t.Columns() {
		values, _ := t.Column(name)
		if ShapeOf(values) == ShapeNumericSequence {
			names = append(names, name)
		}
	}
	return names
}

// UnpackListColumns expands the named columns on a copy of t. Unknown names
// fail the call before any work; columns that cannot be expanded are kept and
// reported.
func UnpackListColumns(t *schema.Table, columns []string) (*schema.Table, Diagnostics, error) {
	for _, name := range columns {
		if !t.HasColumn(name) {
			return nil, nil, fmt.Errorf("%w: %q", schema.ErrUnknownColumn, name)
		}
	}

	out := t.Clone()
	var diags Diagnostics
	for _, name := range columns {
		if err := ExpandListColumn(out, name); err != nil {
			diags = append(diags, &CoercionFailure{Column: name, Stage: StageExpand, Err: err})
		}
	}
	return out, diags, nil
}

func flattenObject(prefix string, obj gjson.Result, emit func(string, schema.Value)) {
	obj.ForEach(func(key, value gjson.Result) bool {
		name := key.String()
		if prefix != "" {
			name = prefix + "." + name
		}
		if value.IsObject() {
			flattenObject(name, value, emit)
			return true
		}
		emit(name, valueOf(value))
		return true
	})
}

func valueOf(r gjson.Result) schema.Value {
	switch r.Type {
	case gjson.Number:
		return schema.Number(r.Num)
	case gjson.String:
		return schema.Text(r.Str)
	case gjson.True:
		return schema.Text("true")
	case gjson.False:
		return schema.Text("false")
	case gjson.JSON:
		if r.IsArray() {
			items := r.Array()
			elems := make([]schema.Value, len(items))
			for i, item := range items {
				elems[i] = valueOf(item)
			}
			return schema.Sequence(elems...)
		}
		return schema.Text(r.Raw)
	default:
		return schema.Missing()
	}
}
