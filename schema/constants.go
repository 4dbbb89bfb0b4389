package schema

// Custom string types for type safety.
type (
	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for the table store.
	DatabaseBackend string

	// ActivityFormat represents the payload format requested for a single activity.
	ActivityFormat string
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All store backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite"
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none" // default
)

// All activity formats the service can produce.
const (
	CSVFormat  ActivityFormat = "csv" // default
	JSONFormat ActivityFormat = "json"
	TCXFormat  ActivityFormat = "tcx"
	PWXFormat  ActivityFormat = "pwx"
)

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidStoreBackends lists all valid store backends.
var ValidStoreBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// ValidActivityFormats lists all valid activity formats.
var ValidActivityFormats = map[ActivityFormat]struct{}{
	CSVFormat:  {},
	JSONFormat: {},
	TCXFormat:  {},
	PWXFormat:  {},
}
