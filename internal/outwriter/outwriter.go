// Package outwriter has output and writer logic.
package outwriter

import (
	"fmt"
	"io"
	"os"

	"github.com/gcopen/cheetah/internal/contract"
	"github.com/gcopen/cheetah/internal/parquet"
	"github.com/gcopen/cheetah/schema"
)

// WriteTable outputs a table, dispatching based on the output format configured.
func WriteTable(t *schema.Table, cfg *contract.Config) error {
	fmtFloat := createFloatFormatter(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, t)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeTableCSV(w, t)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if err := parquet.WriteTableParquet(t, cfg.OutputFile); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
		fmt.Fprintf(os.Stderr, "💾 Wrote Parquet to %s\n", cfg.OutputFile)
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeTableText(w, t, cfg, fmtFloat)
		}, "Wrote table")
	}
	return nil
}

// WriteRaw outputs a payload exactly as received.
func WriteRaw(text string, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		_, err := io.WriteString(w, text)
		return err
	}, "Wrote payload")
}

// PrintHealth prints the result of a health probe.
func PrintHealth(w io.Writer, baseURL string, probeErr error, cfg *contract.Config) error {
	ok := probeErr == nil
	label := contract.GetPlainHealthLabel(ok)
	if cfg.UseColors {
		label = contract.GetColorHealthLabel(ok)
	}
	if _, err := fmt.Fprintf(w, "API Status: %s\n", label); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Base URL: %s\n", baseURL); err != nil {
		return err
	}
	if !ok {
		if _, err := fmt.Fprintf(w, "Reason: %v\n", probeErr); err != nil {
			return err
		}
	}
	return nil
}
