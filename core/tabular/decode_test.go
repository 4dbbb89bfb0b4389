package tabular

import (
	"testing"

	"github.com/gcopen/cheetah/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanHeader(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"Plain", "date", "date"},
		{"Leading Space", " time", "time"},
		{"Quoted With Space", ` "Duration"`, "Duration"},
		{"Single Quotes", "'Sport'", "Sport"},
		{"Trailing CR", "filename\r", "filename"},
		{"Byte Order Mark", "\ufeffdate", "date"},
		{"Inner Space Kept", ` "Average Power" `, "Average Power"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CleanHeader(tt.input))
		})
	}
}

func TestDecodeDelimited_Inference(t *testing.T) {
	text := "date, time, \"Duration\", Sport, TSS\n2024/01/02,07:00:00,3600,Bike,55.5\n2024/01/03,08:00:00,1800,Run,\n"

	table, err := DecodeDelimited(text, ',')
	require.NoError(t, err)

	assert.Equal(t, []string{"date", "time", "Duration", "Sport", "TSS"}, table.Columns())
	assert.Equal(t, 2, table.Len())

	duration, _ := table.Column("Duration")
	assert.Equal(t, []schema.Value{schema.Number(3600), schema.Number(1800)}, duration)

	sport, _ := table.Column("Sport")
	assert.Equal(t, []schema.Value{schema.Text("Bike"), schema.Text("Run")}, sport)

	tss, _ := table.Column("TSS")
	assert.Equal(t, []schema.Value{schema.Number(55.5), schema.Missing()}, tss)

	date, _ := table.Column("date")
	assert.Equal(t, schema.KindText, date[0].Kind())
}

func TestDecodeDelimited_HeaderIdempotent(t *testing.T) {
	plain := "a,b,c\n1,x,2\n"
	padded := " \"a\" , \"b\" ,  c \n1,x,2\n"

	first, err := DecodeDelimited(plain, ',')
	require.NoError(t, err)
	second, err := DecodeDelimited(padded, ',')
	require.NoError(t, err)

	assert.Equal(t, first.Columns(), second.Columns())
}

func TestDecodeDelimited_Separator(t *testing.T) {
	table, err := DecodeDelimited("secs;watts\n1;250\n2;260\n", ';')
	require.NoError(t, err)

	watts, ok := table.Column("watts")
	require.True(t, ok)
	assert.Equal(t, []schema.Value{schema.Number(250), schema.Number(260)}, watts)
}

func TestDecodeDelimited_ShortAndLongRows(t *testing.T) {
	table, err := DecodeDelimited("a,b\n1\n", ',')
	require.NoError(t, err)
	b, _ := table.Column("b")
	assert.Equal(t, []schema.Value{schema.Missing()}, b)

	_, err = DecodeDelimited("a,b\n1,2,3\n", ',')
	assert.ErrorIs(t, err, ErrRaggedRow)
}

func TestDecodeDelimited_HeaderOnly(t *testing.T) {
	table, err := DecodeDelimited("filename,date\n", ',')
	require.NoError(t, err)
	assert.Equal(t, 0, table.Len())
	assert.Equal(t, []string{"filename", "date"}, table.Columns())
}

func TestDecodeDelimited_Empty(t *testing.T) {
	_, err := DecodeDelimited("  \n", ',')
	assert.ErrorIs(t, err, ErrEmptyPayload)
}

func TestDecodeDelimited_DuplicateAndBlankHeaders(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected []string
	}{
		{"Repeat And Blank", "x,x,\n1,2,3\n", []string{"x", "x.1", "Unnamed: 2"}},
		{"Suffix Already Taken", "a,a.1,a\n1,2,3\n", []string{"a", "a.1", "a.2"}},
		{"Three Repeats", "a,a,a\n1,2,3\n", []string{"a", "a.1", "a.2"}},
		{"Generated Then Real", "a,a,a.1\n1,2,3\n", []string{"a", "a.1", "a.1.1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := DecodeDelimited(tt.text, ',')
			require.NoError(t, err)
			assert.Equal(t, tt.expected, table.Columns())
		})
	}
}

func TestDecodeDelimited_WordsStayText(t *testing.T) {
	table, err := DecodeDelimited("label\nInf\nNaN\n", ',')
	require.NoError(t, err)
	label, _ := table.Column("label")
	assert.Equal(t, []schema.Value{schema.Text("Inf"), schema.Text("NaN")}, label)
}
