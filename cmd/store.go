package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/gcopen/cheetah/internal/contract"
	"github.com/gcopen/cheetah/internal/tablestore"
	"github.com/gcopen/cheetah/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// storeConfigSetup loads the minimal configuration store commands need.
// It never contacts the service and never opens the store.
func storeConfigSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	// Handle empty backend as NoneBackend
	backend := schema.NoneBackend
	if backendStr := viper.GetString("store-backend"); backendStr != "" {
		backend = schema.DatabaseBackend(strings.ToLower(backendStr))
	}
	if _, ok := schema.ValidStoreBackends[backend]; !ok {
		return fmt.Errorf("invalid store backend '%s'. must be sqlite, mysql, postgresql, none", backend)
	}

	connStr := viper.GetString("store-db-connect")
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	colors, err := contract.ParseBoolString(viper.GetString("color"))
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}

	cfg.StoreBackend = backend
	cfg.StoreDBConnect = connStr
	cfg.OutputFile = viper.GetString("output-file")
	cfg.UseColors = colors
	return nil
}

// storeSetup loads store configuration and opens the store, creating its tables.
func storeSetup() error {
	if err := storeConfigSetup(); err != nil {
		return err
	}
	store, err := tablestore.NewTableStore(cfg.StoreBackend, cfg.StoreDBConnect)
	if err != nil {
		return fmt.Errorf("failed to initialize table store: %w", err)
	}
	rt.Store = store
	return nil
}

// storeSetupWrapper wraps storeSetup to provide PreRunE for store commands.
func storeSetupWrapper(_ *cobra.Command, _ []string) error {
	return storeSetup()
}

// storeConfigSetupWrapper wraps storeConfigSetup for commands that manage
// the database directly, such as clear and migrate.
func storeConfigSetupWrapper(_ *cobra.Command, _ []string) error {
	return storeConfigSetup()
}

// storeCmd focused on stored table management.
//
// Note: store subcommands use minimal initialization instead of the full
// sharedSetup. They do not need the service or an export root.
var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Manage tables recorded by the table store",
	Long: `Manage the tables that data commands record when a store backend is configured.

With --store-backend set, every table a data command prints is also saved:
- Run metadata (resource, athlete, time, row and column counts)
- Every cell with its row, column and value kind

Supported backends: SQLite, MySQL, PostgreSQL, or None (default, disabled)

Subcommands:
  status  - Show store statistics
  export  - Export data to Parquet for analytics
  clear   - Remove all stored tables
  migrate - Run database schema migrations

Examples:
  # Record every summary fetched this week
  export CHEETAH_STORE_BACKEND=sqlite
  cheetah summary "Jane Doe"

  # Check what was recorded
  cheetah store status`,
}

// storeClearCmd clears the stored tables.
var storeClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all stored tables",
	Long: `Delete every stored run and cell.

For SQLite the database file is removed. For MySQL and PostgreSQL the
store tables are dropped and recreated on next use.

WARNING: This action cannot be undone. Consider exporting data first.

Examples:
  # Export before clearing
  cheetah store export --output-file backup
  cheetah store clear`,
	PreRunE: storeConfigSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		if err := tablestore.ClearStore(cfg.StoreBackend, cfg.StoreDBConnect); err != nil {
			return fmt.Errorf("failed to clear stored tables: %w", err)
		}
		fmt.Println("Stored tables cleared successfully.")
		return nil
	},
}

// storeStatusCmd shows store status.
var storeStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display store statistics and connection details",
	Long: `Show detailed information about the table store.

Displays:
- Backend type and connection status
- Total number of runs stored
- Last and oldest run timestamps
- Total rows across all runs
- Database table sizes

Examples:
  cheetah store status --store-backend sqlite`,
	PreRunE: storeSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		status, err := rt.Store.GetStatus()
		if err != nil {
			return fmt.Errorf("failed to get store status: %w", err)
		}
		tablestore.PrintStoreStatus(os.Stdout, status, cfg)
		return nil
	},
}

// storeExportCmd exports stored tables to Parquet files.
var storeExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export stored tables to Parquet for BI tools and analytics",
	Long: `Export all stored runs and cells to Parquet format.

Writes two files next to the given prefix:
- <prefix>.runs.parquet  - one row per stored table
- <prefix>.cells.parquet - one row per cell, with its value kind

Requires: --output-file parameter

Examples:
  cheetah store export --output-file cheetah-data

  # Use with DuckDB for analysis
  duckdb -c "SELECT resource, count(*) FROM read_parquet('cheetah-data.runs.parquet') GROUP BY 1"`,
	PreRunE: storeSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		if err := tablestore.ExecuteStoreExport(os.Stdout, rt.Store, cfg.OutputFile); err != nil {
			return fmt.Errorf("failed to export stored tables: %w", err)
		}
		return nil
	},
}

// storeMigrateCmd runs database migrations for the table store.
var storeMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the table store.

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  cheetah store migrate --store-backend postgresql --store-db-connect "$PG_DSN"

  # Rollback to initial state
  cheetah store migrate --target-version 0`,
	PreRunE: storeConfigSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		targetVersion := viper.GetInt("target-version")
		if err := tablestore.MigrateStore(cfg.StoreBackend, cfg.StoreDBConnect, targetVersion); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
		return nil
	},
}
