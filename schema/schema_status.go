package schema

import "time"

// StoreStatus represents the status of the table store.
type StoreStatus struct {
	Backend       string           `json:"backend"`
	Connected     bool             `json:"connected"`
	TotalRuns     int              `json:"total_runs"`
	LastRunID     int64            `json:"last_run_id"`
	LastRunTime   time.Time        `json:"last_run_time"`
	OldestRunTime time.Time        `json:"oldest_run_time"`
	TotalRows     int64            `json:"total_rows"`
	TableSizes    map[string]int64 `json:"table_sizes"`
}

// ExportRunRecord represents a row from the cheetah_export_runs table.
type ExportRunRecord struct {
	RunID       int64
	Resource    string
	Athlete     string
	RowCount    int
	ColumnCount int
	CreatedAt   time.Time
}

// ExportCellRecord represents a row from the cheetah_export_cells table.
type ExportCellRecord struct {
	RunID int64
	Cell
}
