package cmd

import (
	"github.com/gcopen/cheetah/core"
	"github.com/gcopen/cheetah/internal/contract"
	"github.com/gcopen/cheetah/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the Cheetah MCP server",
	Long: `Launch an MCP server over stdio that lets AI agents read athletes, activities,
zones, measures and mean-max curves through standard tools.

The bulk export tools are available when --opendata-root is set.`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		// stdio carries the protocol, so only setup errors are reported.
		if err := remoteSetup(rootCtx, cmd, args); err != nil {
			return err
		}
		if cfg.OpenDataRoot != "" {
			rt.Dataset = core.NewDataset(cfg.OpenDataRoot, contract.NewLocalDiscovery())
		}
		return nil
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, rt.Client, rt.Dataset, version)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
