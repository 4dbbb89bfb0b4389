// Package core has the client, export reader and command orchestration logic.
package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/gcopen/cheetah/core/tabular"
	"github.com/gcopen/cheetah/internal/contract"
	"github.com/gcopen/cheetah/internal/outwriter"
	"github.com/gcopen/cheetah/schema"
)

// Resource names recorded with every stored table.
const (
	ResourceAthletes      = "athletes"
	ResourceRoster        = "roster"
	ResourceSummary       = "summary"
	ResourceActivities    = "activities"
	ResourceMeasureGroups = "measure_groups"
	ResourceMeasures      = "measures"
	ResourceZones         = "zones"
	ResourceMeanMax       = "meanmax"
	ResourceActivity      = "activity"
	ResourceLocalAthletes = "opendata_athletes"
	ResourceLocalFiles    = "opendata_files"
	ResourceLocalSummary  = "opendata_summary"
	ResourceLocalActivity = "opendata_activity"
)

// ErrNoOpenDataRoot is returned by export reader commands run without a root.
var ErrNoOpenDataRoot = errors.New("opendata-root is required for bulk export commands")

// Runtime bundles what a command needs: validated config plus its collaborators.
// Client and Dataset are only set for the commands that use them. Store may be nil.
type Runtime struct {
	Config  *contract.Config
	Client  *Client
	Dataset *Dataset
	Store   contract.TableStore
}

// ExecuteHealth probes the service and prints the result. The probe error is
// returned so callers can set the exit status.
func ExecuteHealth(ctx context.Context, rt *Runtime, w io.Writer) error {
	probeErr := rt.Client.CheckHealth(ctx)
	if err := outwriter.PrintHealth(w, rt.Client.BaseURL(), probeErr, rt.Config); err != nil {
		return err
	}
	return probeErr
}

// ExecuteAthletes lists the athlete ids of the roster.
func ExecuteAthletes(ctx context.Context, rt *Runtime) error {
	ids, err := rt.Client.Athletes(ctx)
	if err != nil {
		return err
	}
	return emit(rt, ResourceAthletes, "", ListTable("athlete", ids))
}

// ExecuteRoster prints the full roster table.
func ExecuteRoster(ctx context.Context, rt *Runtime) error {
	table, err := rt.Client.Roster(ctx)
	if err != nil {
		return err
	}
	return emit(rt, ResourceRoster, "", table)
}

// ExecuteSummary prints the per-activity summary of an athlete.
func ExecuteSummary(ctx context.Context, rt *Runtime, athlete string) error {
	table, err := rt.Client.AthleteSummary(ctx, athlete)
	if err != nil {
		return err
	}
	return emit(rt, ResourceSummary, athlete, table)
}

// ExecuteActivities prints the activity list of an athlete.
func ExecuteActivities(ctx context.Context, rt *Runtime, athlete string, q ActivityQuery) error {
	table, err := rt.Client.Activities(ctx, athlete, q)
	if err != nil {
		return err
	}
	return emit(rt, ResourceActivities, athlete, table)
}

// ExecuteMeasures prints one measure group, or the group names when group is empty.
func ExecuteMeasures(ctx context.Context, rt *Runtime, athlete, group, since, before string) error {
	if group == "" {
		groups, err := rt.Client.MeasureGroups(ctx, athlete)
		if err != nil {
			return err
		}
		return emit(rt, ResourceMeasureGroups, athlete, ListTable("group", groups))
	}
	table, err := rt.Client.Measures(ctx, athlete, group, since, before)
	if err != nil {
		return err
	}
	return emit(rt, ResourceMeasures, athlete, table)
}

// ExecuteZones prints the zone table of an athlete.
func ExecuteZones(ctx context.Context, rt *Runtime, athlete string, q ZoneQuery) error {
	table, err := rt.Client.Zones(ctx, athlete, q)
	if err != nil {
		return err
	}
	return emit(rt, ResourceZones, athlete, table)
}

// ExecuteMeanMax prints a mean-max curve.
func ExecuteMeanMax(ctx context.Context, rt *Runtime, athlete string, q MeanMaxQuery) error {
	table, err := rt.Client.MeanMax(ctx, athlete, q)
	if err != nil {
		return err
	}
	return emit(rt, ResourceMeanMax, athlete, table)
}

// ExecuteActivity prints one activity. Non-csv formats are written as received
// and never stored.
func ExecuteActivity(ctx context.Context, rt *Runtime, athlete, filename string, format schema.ActivityFormat) error {
	payload, err := rt.Client.Activity(ctx, athlete, filename, format)
	if err != nil {
		return err
	}
	if payload.Table == nil {
		return outwriter.WriteRaw(payload.Raw.Text, rt.Config)
	}
	return emit(rt, ResourceActivity, athlete, payload.Table)
}

// LocalSummaryOptions controls how a bulk export summary is normalized.
type LocalSummaryOptions struct {
	NoFloat     bool     // Flatten only, without metric coercion or expansion
	UnpackLists bool     // Expand every detected list column
	Unpack      []string // Extra columns to expand
}

// ExecuteLocalAthletes lists the athlete ids of the bulk export.
func ExecuteLocalAthletes(ctx context.Context, rt *Runtime) error {
	if rt.Dataset == nil {
		return ErrNoOpenDataRoot
	}
	ids, err := rt.Dataset.AthleteIDs(ctx)
	if err != nil {
		return err
	}
	return emit(rt, ResourceLocalAthletes, "", ListTable("athlete", ids))
}

// ExecuteLocalFiles lists the activity files of one exported athlete.
func ExecuteLocalFiles(ctx context.Context, rt *Runtime, id string) error {
	if rt.Dataset == nil {
		return ErrNoOpenDataRoot
	}
	files, err := rt.Dataset.ActivityFiles(ctx, id)
	if err != nil {
		return err
	}
	return emit(rt, ResourceLocalFiles, id, ListTable(FilenameColumn, files))
}

// ExecuteLocalSummary prints the normalized summary of one exported athlete.
// Columns that could not be normalized are reported as warnings.
func ExecuteLocalSummary(ctx context.Context, rt *Runtime, id string, opts LocalSummaryOptions) error {
	if rt.Dataset == nil {
		return ErrNoOpenDataRoot
	}
	table, diags, err := rt.Dataset.AthleteSummary(ctx, id, !opts.NoFloat)
	if err != nil {
		return err
	}
	warnDiagnostics(diags)

	columns := slices.Clone(opts.Unpack)
	if opts.UnpackLists {
		for _, name := range rt.Dataset.DetectListColumns(table) {
			if !slices.Contains(columns, name) {
				columns = append(columns, name)
			}
		}
	}
	if len(columns) > 0 {
		unpacked, unpackDiags, err := rt.Dataset.UnpackListColumns(table, columns)
		if err != nil {
			return err
		}
		warnDiagnostics(unpackDiags)
		table = unpacked
	}
	return emit(rt, ResourceLocalSummary, id, table)
}

// ExecuteLocalActivity prints one exported activity file.
func ExecuteLocalActivity(ctx context.Context, rt *Runtime, id, filename string) error {
	if rt.Dataset == nil {
		return ErrNoOpenDataRoot
	}
	table, err := rt.Dataset.ActivityTable(ctx, id, filename)
	if err != nil {
		return err
	}
	return emit(rt, ResourceLocalActivity, id, table)
}

// ListTable turns a list of names into a single-column table.
func ListTable(column string, names []string) *schema.Table {
	values := make([]schema.Value, len(names))
	for i, name := range names {
		values[i] = schema.Text(name)
	}
	table := schema.NewTable(len(names))
	_ = table.AddColumn(column, values)
	return table
}

// emit writes the table and, when a store is configured, records it.
// A failed save is a warning since the table has already been written.
func emit(rt *Runtime, resource, athlete string, table *schema.Table) error {
	if err := outwriter.WriteTable(table, rt.Config); err != nil {
		return err
	}
	if rt.Store == nil {
		return nil
	}
	if _, err := rt.Store.SaveTable(contract.SaveRequest{Resource: resource, Athlete: athlete, Table: table}); err != nil {
		contract.LogWarn(fmt.Sprintf("Cannot store %s table", resource), err)
	}
	return nil
}

func warnDiagnostics(diags tabular.Diagnostics) {
	for _, d := range diags {
		contract.LogWarn("Normalization", d)
	}
}
