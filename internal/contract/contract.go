// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"
	"net/url"

	"github.com/gcopen/cheetah/schema"
)

// Response is the raw result of one transport call.
type Response struct {
	StatusCode int
	Text       string
}

// OK reports whether the status is in the 2xx range.
func (r Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Transport issues requests against the fitness-data service.
// This allows the client logic to be tested without a running service.
type Transport interface {
	// Get fetches identifier with the given query and returns the status and body.
	// Implementations do not retry.
	Get(ctx context.Context, identifier string, query url.Values) (Response, error)
}

// Discovery lists and reads the bulk export directory tree.
// This allows the export reader to be tested without touching the disk.
type Discovery interface {
	// ListSubdirectories returns the names of the immediate subdirectories of root.
	ListSubdirectories(root string) ([]string, error)

	// ListFiles returns the names of the regular files directly inside dir.
	ListFiles(dir string) ([]string, error)

	// ReadFile returns the contents of path.
	ReadFile(path string) ([]byte, error)
}

// SaveRequest describes one table handed to a TableStore.
type SaveRequest struct {
	Resource string
	Athlete  string
	Table    *schema.Table
}

// TableStore persists decoded tables for later analysis.
type TableStore interface {
	// SaveTable stores every cell of the table and returns the run ID.
	SaveTable(req SaveRequest) (int64, error)

	// GetStatus returns status information about the store
	GetStatus() (schema.StoreStatus, error)

	// GetAllRuns returns every recorded run, oldest first
	GetAllRuns() ([]schema.ExportRunRecord, error)

	// GetAllCells returns every stored cell ordered by run, row and column position
	GetAllCells() ([]schema.ExportCellRecord, error)

	// Close closes the underlying connection
	Close() error
}
