package contract

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gcopen/cheetah/core/address"
	"github.com/gcopen/cheetah/schema"
	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5"
)

// Default values for configuration.
const (
	DefaultPrecision = 2
	MaxPrecision     = 6
	DefaultSport     = "Bike"
	DefaultZonesFor  = "power"
	DefaultSeries    = "watts"
)

// Config holds the runtime configuration for every command.
// This struct remains the "final, validated" config.
type Config struct {
	BaseURL     string
	Timeout     time.Duration
	HealthCheck bool

	Output     schema.OutputMode
	OutputFile string
	Precision  int
	Width      int // Terminal width override (0 = auto-detect)
	UseColors  bool

	OpenDataRoot string

	StoreBackend   schema.DatabaseBackend
	StoreDBConnect string // Please use env var as this is plaintext
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// --- Fields from rootCmd.PersistentFlags() ---
	BaseURL        string `mapstructure:"base-url"`
	Timeout        string `mapstructure:"timeout"`
	HealthCheck    bool   `mapstructure:"health-check"`
	Output         string `mapstructure:"output"`
	OutputFile     string `mapstructure:"output-file"`
	Precision      int    `mapstructure:"precision"`
	Width          int    `mapstructure:"width"`
	Color          string `mapstructure:"color"`
	OpenDataRoot   string `mapstructure:"opendata-root"`
	StoreBackend   string `mapstructure:"store-backend"`
	StoreDBConnect string `mapstructure:"store-db-connect"`
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processConnection(cfg, input); err != nil {
		return err
	}
	if err := validateStoreConfig(cfg, input); err != nil {
		return err
	}
	return processOpenDataRoot(cfg, input)
}

// validateSimpleInputs processes and validates the output related fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width
	cfg.HealthCheck = input.HealthCheck

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	if input.Precision < 0 || input.Precision > MaxPrecision {
		return fmt.Errorf("precision must be between 0 and %d (received %d)", MaxPrecision, input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", input.Output)
	}
	if cfg.Output == schema.ParquetOut && cfg.OutputFile == "" {
		return fmt.Errorf("parquet output requires --output-file")
	}

	if input.Width < 0 {
		return fmt.Errorf("width cannot be negative (received %d)", input.Width)
	}
	return nil
}

// processConnection validates the service address and request timeout.
func processConnection(cfg *Config, input *ConfigRawInput) error {
	resolver, err := address.NewResolver(input.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base-url '%s': %w", input.BaseURL, err)
	}
	cfg.BaseURL = resolver.Base()

	cfg.Timeout = DefaultTimeout
	if input.Timeout != "" {
		d, err := time.ParseDuration(input.Timeout)
		if err != nil {
			return fmt.Errorf("invalid timeout '%s': %w", input.Timeout, err)
		}
		if d <= 0 {
			return fmt.Errorf("timeout must be positive (received %s)", input.Timeout)
		}
		cfg.Timeout = d
	}
	return nil
}

// validateStoreConfig validates the table store backend configuration.
func validateStoreConfig(cfg *Config, input *ConfigRawInput) error {
	cfg.StoreBackend = schema.NoneBackend
	if input.StoreBackend != "" {
		cfg.StoreBackend = schema.DatabaseBackend(strings.ToLower(input.StoreBackend))
	}
	if _, ok := schema.ValidStoreBackends[cfg.StoreBackend]; !ok {
		return fmt.Errorf("invalid store backend '%s'. must be sqlite, mysql, postgresql, none", input.StoreBackend)
	}
	cfg.StoreDBConnect = input.StoreDBConnect
	return ValidateDatabaseConnectionString(cfg.StoreBackend, cfg.StoreDBConnect)
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("store-db-connect is required when using %s backend", backend)
		}
		if _, err := mysql.ParseDSN(connStr); err != nil {
			return fmt.Errorf("invalid MySQL connection string: %w. Expected user:password@tcp(host:port)/dbname", err)
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("store-db-connect is required when using %s backend", backend)
		}
		if _, err := pgx.ParseConfig(connStr); err != nil {
			return fmt.Errorf("invalid PostgreSQL connection string: %w. Expected host=... dbname=... or postgres://", err)
		}
	}
	return nil
}

// processOpenDataRoot checks that a configured export root is a directory.
func processOpenDataRoot(cfg *Config, input *ConfigRawInput) error {
	cfg.OpenDataRoot = input.OpenDataRoot
	if cfg.OpenDataRoot == "" {
		return nil
	}
	info, err := os.Stat(cfg.OpenDataRoot)
	if err != nil {
		return fmt.Errorf("invalid opendata-root '%s': %w", cfg.OpenDataRoot, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("invalid opendata-root '%s': not a directory", cfg.OpenDataRoot)
	}
	return nil
}
