package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"

	"github.com/gcopen/cheetah/internal/contract"
	"github.com/gcopen/cheetah/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// missingCell is shown in text tables for missing values.
const missingCell = "-"

// writeTableText generates and writes the human-readable table.
func writeTableText(w io.Writer, t *schema.Table, cfg *contract.Config, fmtFloat func(float64) string) error {
	table := tablewriter.NewWriter(w)

	headers := t.Columns()
	table.Header(headers)

	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	maxWidth := getMaxCellWidth(cfg, len(headers))
	data := make([][]string, 0, t.Len())
	for i := range t.Len() {
		values := t.Row(i)
		row := make([]string, len(values))
		for j, v := range values {
			row[j] = formatTextCell(v, cfg, fmtFloat, maxWidth)
		}
		data = append(data, row)
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Showing %d rows and %d columns\n", t.Len(), t.Width())
	return err
}

// formatTextCell renders one value for the text table.
func formatTextCell(v schema.Value, cfg *contract.Config, fmtFloat func(float64) string, maxWidth int) string {
	switch v.Kind() {
	case schema.KindMissing:
		if cfg.UseColors {
			return contract.MissingColor.Sprint(missingCell)
		}
		return missingCell
	case schema.KindNumber:
		n, _ := v.Number()
		if n == math.Trunc(n) && math.Abs(n) < 1e15 {
			return fmt.Sprintf("%d", int64(n))
		}
		return fmtFloat(n)
	default:
		return contract.TruncateText(v.String(), maxWidth)
	}
}

// writeTableCSV writes the table with the column names as header. Numbers keep
// full precision and missing values are empty fields.
func writeTableCSV(w io.Writer, t *schema.Table) error {
	return writeCSVWithHeader(w, t.Columns(), func(cw *csv.Writer) error {
		for i := range t.Len() {
			values := t.Row(i)
			record := make([]string, len(values))
			for j, v := range values {
				record[j] = v.String()
			}
			if err := cw.Write(record); err != nil {
				return fmt.Errorf("failed to write CSV row %d: %w", i, err)
			}
		}
		return nil
	})
}
