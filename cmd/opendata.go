package cmd

import (
	"fmt"

	"github.com/gcopen/cheetah/core"
	"github.com/gcopen/cheetah/internal/contract"
	"github.com/spf13/cobra"
)

// opendataCmd is the parent for the bulk export commands.
var opendataCmd = &cobra.Command{
	Use:   "opendata",
	Short: "Read an OpenData bulk export without the service.",
	Long: `Read athletes, summaries and activity files from an OpenData bulk export on disk.

Every subcommand needs the export root, given by --opendata-root or
CHEETAH_OPENDATA_ROOT. The root holds one directory per athlete id.`,
}

// opendataAthletesCmd lists exported athletes.
var opendataAthletesCmd = &cobra.Command{
	Use:     "athletes",
	Short:   "List the athlete ids of the export.",
	PreRunE: localSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		if err := core.ExecuteLocalAthletes(rootCtx, rt); err != nil {
			return fmt.Errorf("cannot list exported athletes: %w", err)
		}
		return nil
	},
}

// opendataFilesCmd lists exported activity files.
var opendataFilesCmd = &cobra.Command{
	Use:     "files <id>",
	Short:   "List the activity files of one exported athlete.",
	Args:    cobra.ExactArgs(1),
	PreRunE: localSetupWrapper,
	RunE: func(_ *cobra.Command, args []string) error {
		if err := core.ExecuteLocalFiles(rootCtx, rt, args[0]); err != nil {
			return fmt.Errorf("cannot list exported files: %w", err)
		}
		return nil
	},
}

// opendataSummaryCmd prints a normalized athlete summary.
var opendataSummaryCmd = &cobra.Command{
	Use:   "summary <id>",
	Short: "Print the normalized activity summary of one exported athlete.",
	Long: `Flatten the athlete's summary document into one row per activity.

Metric columns are coerced to numbers unless --no-float is given. List
columns can be expanded into one column per element: pairs become
<name>_value and <name>_duration, any other width <name>_0..<name>_n.
Columns that cannot be normalized are kept as they are and reported on stderr.

Examples:
  # Expand every list column that is detected
  cheetah opendata summary 0031326a-e2e4-4f6a-8a4f-1b6a0bd4f5a1 --unpack-lists

  # Expand one column and keep text values
  cheetah opendata summary 0031326a-e2e4-4f6a-8a4f-1b6a0bd4f5a1 --no-float --unpack power_zone`,
	Args:    cobra.ExactArgs(1),
	PreRunE: localSetupWrapper,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := core.LocalSummaryOptions{}
		opts.NoFloat, _ = cmd.Flags().GetBool("no-float")
		opts.UnpackLists, _ = cmd.Flags().GetBool("unpack-lists")
		unpack, _ := cmd.Flags().GetString("unpack")
		opts.Unpack = contract.SplitList(unpack)
		if err := core.ExecuteLocalSummary(rootCtx, rt, args[0], opts); err != nil {
			return fmt.Errorf("cannot print exported summary: %w", err)
		}
		return nil
	},
}

// opendataActivityCmd prints one exported activity file.
var opendataActivityCmd = &cobra.Command{
	Use:     "activity <id> <filename>",
	Short:   "Print one exported activity file.",
	Args:    cobra.ExactArgs(2),
	PreRunE: localSetupWrapper,
	RunE: func(_ *cobra.Command, args []string) error {
		if err := core.ExecuteLocalActivity(rootCtx, rt, args[0], args[1]); err != nil {
			return fmt.Errorf("cannot print exported activity: %w", err)
		}
		return nil
	},
}
