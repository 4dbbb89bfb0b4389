// Package cmd defines the command-line interface for cheetah.
package cmd

import (
	"github.com/gcopen/cheetah/core/address"
	"github.com/gcopen/cheetah/internal/contract"
	"github.com/gcopen/cheetah/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(athletesCmd)
	rootCmd.AddCommand(rosterCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(activitiesCmd)
	rootCmd.AddCommand(measuresCmd)
	rootCmd.AddCommand(zonesCmd)
	rootCmd.AddCommand(meanmaxCmd)
	rootCmd.AddCommand(activityCmd)
	rootCmd.AddCommand(opendataCmd)
	rootCmd.AddCommand(storeCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the bulk export subcommands to the parent opendata command
	opendataCmd.AddCommand(opendataAthletesCmd)
	opendataCmd.AddCommand(opendataFilesCmd)
	opendataCmd.AddCommand(opendataSummaryCmd)
	opendataCmd.AddCommand(opendataActivityCmd)

	// Add the store subcommands to the parent store command
	storeCmd.AddCommand(storeClearCmd)
	storeCmd.AddCommand(storeStatusCmd)
	storeCmd.AddCommand(storeExportCmd)
	storeCmd.AddCommand(storeMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("base-url", address.DefaultBaseURL, "Base URL of the fitness-data service (http or https)")
	rootCmd.PersistentFlags().String("timeout", contract.DefaultTimeout.String(), "Timeout for a single request to the service")
	rootCmd.PersistentFlags().Bool("health-check", false, "Probe the service before running the command")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns in text output")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("opendata-root", "", "Root directory of an OpenData bulk export")
	rootCmd.PersistentFlags().String("store-backend", string(schema.NoneBackend), "Table store backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("store-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Date ranges share names across commands, so they are read from each
	// command's own flag set instead of Viper.
	activitiesCmd.Flags().String("since", "", "Earliest activity date (yyyy/mm/dd)")
	activitiesCmd.Flags().String("before", "", "Latest activity date (yyyy/mm/dd)")
	activitiesCmd.Flags().String("metrics", "", "Comma-separated metric names to include")
	activitiesCmd.Flags().String("metadata", "", "Comma-separated metadata fields to include")
	activitiesCmd.Flags().Bool("intervals", false, "Include interval data")
	activitiesCmd.Flags().Bool("filenames-only", false, "Print only the activity file names")
	activitiesCmd.Flags().String("columns", "", "Comma-separated columns to keep")

	measuresCmd.Flags().String("since", "", "Earliest measure date (yyyy/mm/dd)")
	measuresCmd.Flags().String("before", "", "Latest measure date (yyyy/mm/dd)")

	zonesCmd.Flags().String("for", contract.DefaultZonesFor, "Zone type: power or hr or pace")
	zonesCmd.Flags().String("sport", contract.DefaultSport, "Sport the zones apply to")

	meanmaxCmd.Flags().String("series", contract.DefaultSeries, "Data series, e.g. watts or hr")
	meanmaxCmd.Flags().String("activity", "", "Activity file name")
	meanmaxCmd.Flags().String("since", "", "Range start (yyyy/mm/dd), requires --before")
	meanmaxCmd.Flags().String("before", "", "Range end (yyyy/mm/dd), requires --since")

	activityCmd.Flags().String("format", string(schema.CSVFormat), "Activity format: csv or json or tcx or pwx")

	opendataSummaryCmd.Flags().Bool("no-float", false, "Keep metric columns as text instead of coercing them to numbers")
	opendataSummaryCmd.Flags().Bool("unpack-lists", false, "Expand every detected list column")
	opendataSummaryCmd.Flags().String("unpack", "", "Comma-separated list columns to expand")

	// Bind all flags of storeMigrateCmd to Viper
	storeMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(storeMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding store migrate flags", err)
	}
}
