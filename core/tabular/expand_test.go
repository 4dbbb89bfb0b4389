package tabular

import (
	"testing"

	"github.com/gcopen/cheetah/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seq(xs ...float64) schema.Value {
	elems := make([]schema.Value, len(xs))
	for i, x := range xs {
		elems[i] = schema.Number(x)
	}
	return schema.Sequence(elems...)
}

func TestExpandedNames(t *testing.T) {
	tests := []struct {
		name     string
		width    int
		expected []string
	}{
		{"Single", 1, []string{"c_0"}},
		{"Pair", 2, []string{"c_value", "c_duration"}},
		{"Triple", 3, []string{"c_0", "c_1", "c_2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExpandedNames("c", tt.width))
		})
	}
}

func TestExpandListColumn_Pairs(t *testing.T) {
	table := schema.NewTable(3)
	require.NoError(t, table.AddColumn("power", []schema.Value{seq(250, 60), seq(300, 20), seq(180, 600)}))

	require.NoError(t, ExpandListColumn(table, "power"))

	assert.False(t, table.HasColumn("power"))
	value, _ := table.Column("power_value")
	duration, _ := table.Column("power_duration")
	assert.Equal(t, []schema.Value{schema.Number(250), schema.Number(300), schema.Number(180)}, value)
	assert.Equal(t, []schema.Value{schema.Number(60), schema.Number(20), schema.Number(600)}, duration)
}

func TestExpandListColumn_NWide(t *testing.T) {
	for _, n := range []int{1, 3, 5} {
		table := schema.NewTable(2)
		row := make([]float64, n)
		for i := range row {
			row[i] = float64(i)
		}
		require.NoError(t, table.AddColumn("z", []schema.Value{seq(row...), seq(row...)}))

		require.NoError(t, ExpandListColumn(table, "z"))
		assert.Equal(t, ExpandedNames("z", n), table.Columns())
	}
}

func TestExpandListColumn_AllOrNothing(t *testing.T) {
	tests := []struct {
		name   string
		values []schema.Value
		target error
	}{
		{"Scalar Cell", []schema.Value{seq(1, 2), schema.Number(3)}, ErrNotSequence},
		{"Text Element", []schema.Value{seq(1, 2), schema.Sequence(schema.Text("abc"))}, ErrNonNumeric},
		{"Nested Sequence", []schema.Value{schema.Sequence(seq(1))}, ErrNonNumeric},
		{"Only Empty Lists", []schema.Value{schema.Sequence(), schema.Missing()}, ErrEmptyLists},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := schema.NewTable(len(tt.values))
			require.NoError(t, table.AddColumn("c", tt.values))
			before := table.Clone()

			err := ExpandListColumn(table, "c")
			assert.ErrorIs(t, err, tt.target)
			assert.Equal(t, before.Columns(), table.Columns())
			got, _ := table.Column("c")
			assert.Equal(t, tt.values, got)
		})
	}
}

func TestExpandListColumn_NameCollision(t *testing.T) {
	table := schema.NewTable(1)
	require.NoError(t, table.AddColumn("c", []schema.Value{seq(1, 2)}))
	require.NoError(t, table.AddColumn("c_value", []schema.Value{schema.Number(9)}))

	err := ExpandListColumn(table, "c")
	assert.ErrorIs(t, err, ErrNameCollision)
	assert.Equal(t, []string{"c", "c_value"}, table.Columns())
}

func TestExpandListColumn_Unknown(t *testing.T) {
	err := ExpandListColumn(schema.NewTable(0), "missing")
	assert.ErrorIs(t, err, schema.ErrUnknownColumn)
}

func TestShapeOf(t *testing.T) {
	assert.Equal(t, ShapeMissing, ShapeOf(nil))
	assert.Equal(t, ShapeText, ShapeOf([]schema.Value{schema.Missing(), schema.Text("1"), seq(1)}))
	assert.Equal(t, ShapeNumericSequence, ShapeOf([]schema.Value{seq(1), schema.Text("x")}))
	assert.Equal(t, ShapeNumber, ShapeOf([]schema.Value{schema.Number(1)}))
	assert.Equal(t, "numeric sequence", ShapeNumericSequence.String())
}

func TestCoerceNumeric(t *testing.T) {
	out, err := CoerceNumeric([]schema.Value{schema.Text(" 1.5 "), schema.Missing(), schema.Number(2)})
	require.NoError(t, err)
	assert.Equal(t, []schema.Value{schema.Number(1.5), schema.Missing(), schema.Number(2)}, out)

	_, err = CoerceNumeric([]schema.Value{schema.Text("")})
	assert.ErrorIs(t, err, ErrNotNumeric)

	_, err = CoerceNumeric([]schema.Value{seq(1)})
	assert.ErrorIs(t, err, ErrNotNumeric)
}
