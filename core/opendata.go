package core

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gcopen/cheetah/core/tabular"
	"github.com/gcopen/cheetah/internal/contract"
	"github.com/gcopen/cheetah/schema"
	"github.com/tidwall/gjson"
)

// Bulk export layout constants.
const (
	IndexDir = "INDEX"
	RidesKey = "RIDES"
)

// Dataset reads an OpenData bulk export rooted at one directory.
type Dataset struct {
	root      string
	discovery contract.Discovery
	registry  *Registry
}

// NewDataset creates a reader for root. Athlete ids are listed on first use.
func NewDataset(root string, discovery contract.Discovery) *Dataset {
	d := &Dataset{root: root, discovery: discovery}
	d.registry = NewRegistry(d.listAthletes)
	return d
}

// Root returns the export root directory.
func (d *Dataset) Root() string { return d.root }

// Invalidate forgets the athlete listing so the next call lists the root again.
func (d *Dataset) Invalidate() { d.registry.Invalidate() }

// AthleteIDs returns the athlete directories under the root, sorted.
func (d *Dataset) AthleteIDs(ctx context.Context) ([]string, error) {
	return d.registry.Athletes(ctx)
}

// ActivityFiles returns the csv activity files of an athlete, sorted.
func (d *Dataset) ActivityFiles(ctx context.Context, id string) ([]string, error) {
	if err := d.registry.Validate(ctx, id); err != nil {
		return nil, err
	}
	names, err := d.discovery.ListFiles(filepath.Join(d.root, id))
	if err != nil {
		return nil, err
	}
	var files []string
	for _, name := range names {
		if isActivityFile(name) {
			files = append(files, name)
		}
	}
	slices.Sort(files)
	return files, nil
}

// SummaryPath returns the path of an athlete's summary file.
func (d *Dataset) SummaryPath(id string) string {
	return filepath.Join(d.root, id, "{"+id+"}.json")
}

// AthleteSummary reads the summary file of an athlete and returns one row per
// activity. With makeFloat the metric columns are normalized and any columns
// that could not be are reported as diagnostics.
func (d *Dataset) AthleteSummary(ctx context.Context, id string, makeFloat bool) (*schema.Table, tabular.Diagnostics, error) {
	if err := d.registry.Validate(ctx, id); err != nil {
		return nil, nil, err
	}
	path := d.SummaryPath(id)
	data, err := d.discovery.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	rides, err := extractRides(data)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	if !makeFloat {
		table, err := tabular.FlattenSummary(rides)
		return table, nil, err
	}
	return tabular.NormalizeSummary(rides)
}

// ActivityTable decodes one csv activity file of an athlete.
func (d *Dataset) ActivityTable(ctx context.Context, id, filename string) (*schema.Table, error) {
	if filepath.Base(filename) != filename || !isActivityFile(filename) {
		return nil, fmt.Errorf("invalid activity file %q", filename)
	}
	if err := d.registry.Validate(ctx, id); err != nil {
		return nil, err
	}
	data, err := d.discovery.ReadFile(filepath.Join(d.root, id, filename))
	if err != nil {
		return nil, err
	}
	table, err := tabular.DecodeDelimited(string(data), ',')
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", filename, err)
	}
	return table, nil
}

// DetectListColumns returns the columns of t holding sequences.
func (d *Dataset) DetectListColumns(t *schema.Table) []string {
	return tabular.DetectListColumns(t)
}

// UnpackListColumns expands the named list columns on a copy of t.
func (d *Dataset) UnpackListColumns(t *schema.Table, columns []string) (*schema.Table, tabular.Diagnostics, error) {
	return tabular.UnpackListColumns(t, columns)
}

func (d *Dataset) listAthletes(_ context.Context) ([]string, error) {
	dirs, err := d.discovery.ListSubdirectories(d.root)
	if err != nil {
		return nil, fmt.Errorf("list athletes: %w", err)
	}
	ids := slices.DeleteFunc(slices.Clone(dirs), func(name string) bool { return name == IndexDir })
	slices.Sort(ids)
	return ids, nil
}

// extractRides returns the raw row objects under the RIDES key.
func extractRides(data []byte) ([]json.RawMessage, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("invalid JSON")
	}
	rides := gjson.GetBytes(data, RidesKey)
	if !rides.IsArray() {
		return nil, ErrMissingRides
	}
	var out []json.RawMessage
	rides.ForEach(func(_, row gjson.Result) bool {
		out = append(out, json.RawMessage(row.Raw))
		return true
	})
	return out, nil
}

func isActivityFile(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), ".csv")
}
