// Package parquet exports tables and stored runs to Parquet files using
// github.com/parquet-go/parquet-go. Tables are written in long form, one
// record per cell, so any column layout fits one fixed schema.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/gcopen/cheetah/schema"
	"github.com/parquet-go/parquet-go"
)

// TableCell is one cell of a rendered table.
type TableCell struct {
	// RowIndex is the zero-based row of the cell
	RowIndex int32 `parquet:"row_index,snappy"`

	// ColumnIndex is the zero-based position of the column
	ColumnIndex int32 `parquet:"column_index,snappy"`

	// ColumnName is the column the cell belongs to
	ColumnName string `parquet:"column_name,snappy"`

	// Kind is missing, number, text or sequence
	Kind string `parquet:"kind,snappy,dict"`

	// Number is set for numeric cells
	Number *float64 `parquet:"number,optional,snappy"`

	// Text is set for text cells and holds the JSON array of sequence cells
	Text *string `parquet:"text,optional,snappy"`
}

// ExportRun represents one saved table.
// This struct maps to the cheetah_export_runs database table.
type ExportRun struct {
	RunID       int64     `parquet:"run_id,snappy"`
	Resource    string    `parquet:"resource,snappy,dict"`
	Athlete     *string   `parquet:"athlete,optional,snappy"`
	RowCount    int32     `parquet:"row_count,snappy"`
	ColumnCount int32     `parquet:"column_count,snappy"`
	CreatedAt   time.Time `parquet:"created_at,snappy"`
}

// StoredCell is a TableCell tagged with the run it was saved under.
// This struct maps to the cheetah_export_cells database table.
type StoredCell struct {
	RunID       int64    `parquet:"run_id,snappy"`
	RowIndex    int32    `parquet:"row_index,snappy"`
	ColumnIndex int32    `parquet:"column_index,snappy"`
	ColumnName  string   `parquet:"column_name,snappy"`
	Kind        string   `parquet:"kind,snappy,dict"`
	Number      *float64 `parquet:"number,optional,snappy"`
	Text        *string  `parquet:"text,optional,snappy"`
}

// WriteTableParquet writes every cell of t to outputPath.
func WriteTableParquet(t *schema.Table, outputPath string) error {
	return writeParquet(ConvertTableCells(t), outputPath)
}

// WriteExportRunsParquet writes a slice of ExportRun structs to a Parquet file.
func WriteExportRunsParquet(data []ExportRun, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteStoredCellsParquet writes a slice of StoredCell structs to a Parquet file.
func WriteStoredCellsParquet(data []StoredCell, outputPath string) error {
	return writeParquet(data, outputPath)
}

// writeParquet creates outputPath and writes data with a schema inferred from T's tags.
func writeParquet[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// ConvertTableCells flattens t into TableCell records.
func ConvertTableCells(t *schema.Table) []TableCell {
	cells := t.Cells()
	result := make([]TableCell, len(cells))
	for i, c := range cells {
		result[i] = TableCell{
			RowIndex:    int32(c.Row),
			ColumnIndex: int32(c.ColumnIndex),
			ColumnName:  c.Column,
			Kind:        c.Kind.String(),
			Number:      c.Number,
			Text:        c.Text,
		}
	}
	return result
}

// ConvertExportRunRecords converts schema.ExportRunRecord to ExportRun for Parquet export.
func ConvertExportRunRecords(records []schema.ExportRunRecord) []ExportRun {
	result := make([]ExportRun, len(records))
	for i, record := range records {
		var athlete *string
		if record.Athlete != "" {
			a := record.Athlete
			athlete = &a
		}
		result[i] = ExportRun{
			RunID:       record.RunID,
			Resource:    record.Resource,
			Athlete:     athlete,
			RowCount:    int32(record.RowCount),
			ColumnCount: int32(record.ColumnCount),
			CreatedAt:   record.CreatedAt,
		}
	}
	return result
}

// ConvertExportCellRecords converts schema.ExportCellRecord to StoredCell for Parquet export.
func ConvertExportCellRecords(records []schema.ExportCellRecord) []StoredCell {
	result := make([]StoredCell, len(records))
	for i, record := range records {
		result[i] = StoredCell{
			RunID:       record.RunID,
			RowIndex:    int32(record.Row),
			ColumnIndex: int32(record.ColumnIndex),
			ColumnName:  record.Column,
			Kind:        record.Kind.String(),
			Number:      record.Number,
			Text:        record.Text,
		}
	}
	return result
}
