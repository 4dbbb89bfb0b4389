package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/gcopen/cheetah/core"
	"github.com/gcopen/cheetah/internal/contract"
	"github.com/gcopen/cheetah/schema"
	"github.com/spf13/cobra"
)

// healthCmd probes the service.
var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check that the fitness-data service is reachable.",
	Long: `Issue one request to the service root and report whether it answered.

Exits with status 1 when the service is not reachable, which makes it
usable as a readiness probe in scripts:

Example:
  cheetah health && cheetah athletes`,
	PreRunE: remoteSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		return core.ExecuteHealth(rootCtx, rt, os.Stdout)
	},
}

// athletesCmd lists athlete ids.
var athletesCmd = &cobra.Command{
	Use:   "athletes",
	Short: "List the athletes known to the service.",
	Long: `Print one athlete name per row, in roster order. The names are the values
accepted by every command that takes an <athlete> argument.`,
	PreRunE: remoteSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		if err := core.ExecuteAthletes(rootCtx, rt); err != nil {
			return fmt.Errorf("cannot list athletes: %w", err)
		}
		return nil
	},
}

// rosterCmd prints the roster table.
var rosterCmd = &cobra.Command{
	Use:   "roster",
	Short: "Print the full athlete roster.",
	Long:  `Print the roster table as returned by the service, including every column it reports.`,
	PreRunE: remoteSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		if err := core.ExecuteRoster(rootCtx, rt); err != nil {
			return fmt.Errorf("cannot print roster: %w", err)
		}
		return nil
	},
}

// summaryCmd prints the per-activity metric summary.
var summaryCmd = &cobra.Command{
	Use:   "summary <athlete>",
	Short: "Print the per-activity metric summary of an athlete.",
	Long: `Print one row per activity with every metric the service computes.

Example:
  cheetah summary "Jane Doe" --output csv --output-file jane.csv`,
	Args:    cobra.ExactArgs(1),
	PreRunE: remoteSetupWrapper,
	RunE: func(_ *cobra.Command, args []string) error {
		if err := core.ExecuteSummary(rootCtx, rt, args[0]); err != nil {
			return fmt.Errorf("cannot print summary: %w", err)
		}
		return nil
	},
}

// activitiesCmd lists the activities of an athlete.
var activitiesCmd = &cobra.Command{
	Use:   "activities <athlete>",
	Short: "List the activities of an athlete.",
	Long: `List activities with optional metrics and metadata.

Dates use the service format yyyy/mm/dd and are passed through unchanged.
Metric and metadata names are comma-separated.

Examples:
  # Activities in the first quarter with two metrics
  cheetah activities "Jane Doe" --since 2024/01/01 --before 2024/03/31 --metrics TSS,IF

  # Only the file names, ready for the activity command
  cheetah activities "Jane Doe" --filenames-only`,
	Args:    cobra.ExactArgs(1),
	PreRunE: remoteSetupWrapper,
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		q := core.ActivityQuery{}
		q.Since, _ = flags.GetString("since")
		q.Before, _ = flags.GetString("before")
		q.Intervals, _ = flags.GetBool("intervals")
		q.FilenamesOnly, _ = flags.GetBool("filenames-only")
		metrics, _ := flags.GetString("metrics")
		metadata, _ := flags.GetString("metadata")
		columns, _ := flags.GetString("columns")
		q.Metrics = contract.SplitList(metrics)
		q.Metadata = contract.SplitList(metadata)
		q.Columns = contract.SplitList(columns)
		if err := core.ExecuteActivities(rootCtx, rt, args[0], q); err != nil {
			return fmt.Errorf("cannot list activities: %w", err)
		}
		return nil
	},
}

// measuresCmd prints a measure group.
var measuresCmd = &cobra.Command{
	Use:   "measures <athlete> [group]",
	Short: "Print body measures of an athlete.",
	Long: `Without a group, print the measure groups the athlete has.
With a group, print its measures, optionally limited to a date range.

Example:
  cheetah measures "Jane Doe" Body --since 2024/01/01 --before 2024/12/31`,
	Args:    cobra.RangeArgs(1, 2),
	PreRunE: remoteSetupWrapper,
	RunE: func(cmd *cobra.Command, args []string) error {
		group := ""
		if len(args) > 1 {
			group = args[1]
		}
		since, _ := cmd.Flags().GetString("since")
		before, _ := cmd.Flags().GetString("before")
		if err := core.ExecuteMeasures(rootCtx, rt, args[0], group, since, before); err != nil {
			return fmt.Errorf("cannot print measures: %w", err)
		}
		return nil
	},
}

// zonesCmd prints the zone table.
var zonesCmd = &cobra.Command{
	Use:   "zones <athlete>",
	Short: "Print the training zones of an athlete.",
	Long: `Print zone boundaries for power, heart rate or pace.

Example:
  cheetah zones "Jane Doe" --for hr --sport Run`,
	Args:    cobra.ExactArgs(1),
	PreRunE: remoteSetupWrapper,
	RunE: func(cmd *cobra.Command, args []string) error {
		q := core.ZoneQuery{}
		q.For, _ = cmd.Flags().GetString("for")
		q.Sport, _ = cmd.Flags().GetString("sport")
		if err := core.ExecuteZones(rootCtx, rt, args[0], q); err != nil {
			return fmt.Errorf("cannot print zones: %w", err)
		}
		return nil
	},
}

// meanmaxCmd prints a mean-max curve.
var meanmaxCmd = &cobra.Command{
	Use:   "meanmax <athlete>",
	Short: "Print a mean-max curve for one activity or a date range.",
	Long: `Print the best average of a data series for every duration.

Pass either --activity or both --since and --before.

Examples:
  cheetah meanmax "Jane Doe" --activity 2024_05_01_08_00_00.json
  cheetah meanmax "Jane Doe" --series hr --since 2024/01/01 --before 2024/06/30`,
	Args:    cobra.ExactArgs(1),
	PreRunE: remoteSetupWrapper,
	RunE: func(cmd *cobra.Command, args []string) error {
		q := core.MeanMaxQuery{}
		q.Series, _ = cmd.Flags().GetString("series")
		q.ActivityFilename, _ = cmd.Flags().GetString("activity")
		q.Since, _ = cmd.Flags().GetString("since")
		q.Before, _ = cmd.Flags().GetString("before")
		if err := core.ExecuteMeanMax(rootCtx, rt, args[0], q); err != nil {
			return fmt.Errorf("cannot print mean-max curve: %w", err)
		}
		return nil
	},
}

// activityCmd prints one activity.
var activityCmd = &cobra.Command{
	Use:   "activity <athlete> <filename>",
	Short: "Print the samples of one activity.",
	Long: `Print one activity. The csv format is decoded into a table; json, tcx and pwx
are written exactly as the service returns them.

Example:
  cheetah activity "Jane Doe" 2024_05_01_08_00_00.json --format tcx --output-file ride.tcx`,
	Args:    cobra.ExactArgs(2),
	PreRunE: remoteSetupWrapper,
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, _ := cmd.Flags().GetString("format")
		format, err := parseActivityFormat(raw)
		if err != nil {
			return fmt.Errorf("cannot print activity: %w", err)
		}
		if err := core.ExecuteActivity(rootCtx, rt, args[0], args[1], format); err != nil {
			return fmt.Errorf("cannot print activity: %w", err)
		}
		return nil
	},
}

func parseActivityFormat(raw string) (schema.ActivityFormat, error) {
	format := schema.ActivityFormat(strings.ToLower(raw))
	if _, ok := schema.ValidActivityFormats[format]; !ok {
		return "", fmt.Errorf("invalid format '%s'. must be csv, json, tcx, pwx", raw)
	}
	return format, nil
}
