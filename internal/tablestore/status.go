package tablestore

import (
	"fmt"
	"io"
	"slices"

	"github.com/gcopen/cheetah/internal/contract"
	"github.com/gcopen/cheetah/schema"
)

// PrintStoreStatus prints table store status information.
func PrintStoreStatus(w io.Writer, status schema.StoreStatus, cfg *contract.Config) {
	connected := contract.GetPlainHealthLabel(status.Connected)
	if cfg != nil && cfg.UseColors {
		connected = contract.GetColorHealthLabel(status.Connected)
	}
	_, _ = fmt.Fprintf(w, "Store Backend: %s\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Connected: %s\n", connected)
	if !status.Connected {
		return
	}
	_, _ = fmt.Fprintf(w, "Total Runs: %d\n", status.TotalRuns)
	if status.TotalRuns > 0 {
		_, _ = fmt.Fprintf(w, "Last Run ID: %d\n", status.LastRunID)
		_, _ = fmt.Fprintf(w, "Last Run: %s\n", status.LastRunTime.Format("2006-01-02 15:04:05"))
		_, _ = fmt.Fprintf(w, "Oldest Run: %s\n", status.OldestRunTime.Format("2006-01-02 15:04:05"))
		_, _ = fmt.Fprintf(w, "Total Rows Stored: %d\n", status.TotalRows)
	}
	_, _ = fmt.Fprintln(w, "Table Sizes:")
	tables := make([]string, 0, len(status.TableSizes))
	for table := range status.TableSizes {
		tables = append(tables, table)
	}
	slices.Sort(tables)
	for _, table := range tables {
		_, _ = fmt.Fprintf(w, "  %s: %d rows\n", table, status.TableSizes[table])
	}
}
