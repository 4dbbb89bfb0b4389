package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
)

// Health label constants.
const (
	AvailableValue   = "Available"   // Service answered the probe
	UnavailableValue = "Unavailable" // Service did not answer
)

// Color variables for console output.
var (
	AvailableColor   = color.New(color.FgGreen, color.Bold) // AvailableColor marks a reachable service.
	UnavailableColor = color.New(color.FgRed, color.Bold)   // UnavailableColor represents standard danger.
	MissingColor     = color.New(color.FgHiBlack)           // MissingColor dims absent cells.
	HeaderColor      = color.New(color.FgCyan)
)

// GetPlainHealthLabel returns a plain text label for the result of a health probe.
func GetPlainHealthLabel(ok bool) string {
	if ok {
		return AvailableValue
	}
	return UnavailableValue
}

// GetColorHealthLabel returns a colored health label for console output.
func GetColorHealthLabel(ok bool) string {
	text := GetPlainHealthLabel(ok)
	if ok {
		return AvailableColor.Sprint(text)
	}
	return UnavailableColor.Sprint(text)
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. It falls back to os.Stdout when no path is given.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// GetStoreDBFilePath returns the path to the SQLite DB file for exported tables.
func GetStoreDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".cheetah_store.db"
	}
	return filepath.Join(homeDir, ".cheetah_store.db")
}

// TruncateText truncates a cell to a maximum width with an ellipsis suffix.
// Requires maxWidth > 3 so there is room for the "..." and at least one character.
func TruncateText(s string, maxWidth int) string {
	runes := []rune(s)
	if len(runes) > maxWidth && maxWidth > 3 {
		return string(runes[:maxWidth-3]) + "..."
	}
	return s
}

// SplitList splits a comma separated flag value, trimming blanks and
// dropping empty entries.
func SplitList(s string) []string {
	var out []string
	for part := range strings.SplitSeq(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
