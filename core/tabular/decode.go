// Package tabular decodes service payloads into typed tables.
//
// Delimited text from the remote service is decoded with per-column numeric
// inference. JSON summaries from the bulk export are flattened, then their
// metric columns are coerced to numbers or expanded from lists into fixed
// columns. Failures on a single column never abort a decode: the column is
// kept as it was and a CoercionFailure is reported.
package tabular

import (
	"encoding/csv"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/gcopen/cheetah/schema"
)

// Errors returned by DecodeDelimited.
var (
	ErrEmptyPayload = errors.New("empty payload")
	ErrRaggedRow    = errors.New("row has more fields than header")
)

// DecodeDelimited splits text into a table using sep. Header cells are
// trimmed of surrounding quotes and whitespace. A column whose non-empty cells
// all parse as numbers becomes numeric; any other column stays textual.
func DecodeDelimited(text string, sep rune) (*schema.Table, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyPayload
	}

	reader := csv.NewReader(strings.NewReader(text))
	reader.Comma = sep
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("decode delimited payload: %w", err)
	}
	if len(records) == 0 {
		return nil, ErrEmptyPayload
	}

	names := headerNames(records[0])
	rows := records[1:]
	for i, rec := range rows {
		if len(rec) > len(names) {
			return nil, fmt.Errorf("%w: line %d has %d fields, header has %d", ErrRaggedRow, i+2, len(rec), len(names))
		}
	}

	table := schema.NewTable(len(rows))
	for j, name := range names {
		raw := make([]string, len(rows))
		for i, rec := range rows {
			if j < len(rec) {
				raw[i] = rec[j]
			}
		}
		if err := table.AddColumn(name, inferColumn(raw)); err != nil {
			return nil, err
		}
	}
	return table, nil
}

// CleanHeader trims quote and whitespace padding from a header cell.
func CleanHeader(h string) string {
	return strings.TrimFunc(h, func(r rune) bool {
		return unicode.IsSpace(r) || r == '"' || r == '\'' || r == '\ufeff'
	})
}

// headerNames cleans header cells, naming blank ones and suffixing repeats.
func headerNames(header []string) []string {
	names := make([]string, len(header))
	seen := make(map[string]bool, len(header))
	suffix := make(map[string]int)
	for i, h := range header {
		name := CleanHeader(h)
		if name == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}
		// A generated name may already be a real header, so keep counting.
		for base := name; seen[name]; {
			suffix[base]++
			name = fmt.Sprintf("%s.%d", base, suffix[base])
		}
		seen[name] = true
		names[i] = name
	}
	return names
}

func inferColumn(raw []string) []schema.Value {
	values := make([]schema.Value, len(raw))
	numeric := true
	for i, s := range raw {
		if s == "" {
			continue
		}
		f, ok := parseNumber(s)
		if !ok {
			numeric = false
			break
		}
		values[i] = schema.Number(f)
	}
	if numeric {
		return values
	}

	for i, s := range raw {
		if s == "" {
			values[i] = schema.Missing()
			continue
		}
		values[i] = schema.Text(s)
	}
	return values
}

// parseNumber accepts finite decimal numbers only, so words such as "Inf" or
// "NaN" in a text column do not turn it numeric.
func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
