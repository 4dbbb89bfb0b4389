package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gcopen/cheetah/core"
	"github.com/gcopen/cheetah/core/address"
	"github.com/gcopen/cheetah/internal/contract"
	"github.com/gcopen/cheetah/internal/tablestore"
	"github.com/gcopen/cheetah/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// All linker flags will be set by goreleaser infra at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCtx is the root context for all operations.
var rootCtx = context.Background()

// cfg will hold the validated, final configuration.
var cfg = &contract.Config{}

// input holds the raw, unvalidated configuration from all sources (file, env, flags).
// Viper will unmarshal into this struct.
var input = &contract.ConfigRawInput{}

// rt holds the collaborators built by the setup functions.
var rt = &core.Runtime{Config: cfg}

// rootCmd is the command-line entrypoint for all other commands.
var rootCmd = &cobra.Command{
	Use:   "cheetah",
	Short: "Read fitness data from a local GoldenCheetah service or an OpenData export.",
	Long: `Cheetah pulls athletes, activities, zones, measures and mean-max curves from the
GoldenCheetah API running on this machine, and reads OpenData bulk exports offline.`,
	Version:            version,
	SilenceErrors:      true,
	SilenceUsage:       true,
	DisableSuggestions: true,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.SetConfigName(".cheetah") // Name of config file (without extension)
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME")
	}

	viper.SetEnvPrefix("CHEETAH")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("base-url", address.DefaultBaseURL)
	viper.SetDefault("timeout", contract.DefaultTimeout.String())
	viper.SetDefault("precision", contract.DefaultPrecision)
	viper.SetDefault("output", schema.TextOut)
	viper.SetDefault("store-backend", schema.NoneBackend)
	viper.SetDefault("store-db-connect", "")
	viper.SetDefault("color", "yes")
}

// sharedSetup unmarshals config, runs validation and opens the table store.
func sharedSetup(_ context.Context, _ *cobra.Command, _ []string) error {
	// 1. Read config file. This merges defaults, file, env, and flags.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found, which is fine; we'll use defaults/env/flags.
	}

	// 2. Unmarshal all resolved values from Viper into our raw input struct.
	if err := viper.Unmarshal(input); err != nil {
		return fmt.Errorf("unable to unmarshal config: %w", err)
	}

	// 3. Run all validation and parsing into the global 'cfg'.
	if err := contract.ProcessAndValidate(cfg, input); err != nil {
		return err
	}

	// 4. Open the table store when one is configured
	if cfg.StoreBackend != schema.NoneBackend {
		store, err := tablestore.NewTableStore(cfg.StoreBackend, cfg.StoreDBConnect)
		if err != nil {
			return fmt.Errorf("failed to initialize table store: %w", err)
		}
		rt.Store = store
	}
	return nil
}

// remoteSetup runs sharedSetup and builds the service client.
func remoteSetup(ctx context.Context, cmd *cobra.Command, args []string) error {
	if err := sharedSetup(ctx, cmd, args); err != nil {
		return err
	}
	client, err := core.NewClientFromConfig(ctx, cfg, userAgent())
	if err != nil {
		return err
	}
	rt.Client = client
	return nil
}

// localSetup runs sharedSetup and opens the bulk export.
func localSetup(ctx context.Context, cmd *cobra.Command, args []string) error {
	if err := sharedSetup(ctx, cmd, args); err != nil {
		return err
	}
	if cfg.OpenDataRoot == "" {
		return core.ErrNoOpenDataRoot
	}
	rt.Dataset = core.NewDataset(cfg.OpenDataRoot, contract.NewLocalDiscovery())
	return nil
}

// remoteSetupWrapper wraps remoteSetup to provide context for Cobra's PreRunE.
func remoteSetupWrapper(cmd *cobra.Command, args []string) error {
	return remoteSetup(rootCtx, cmd, args)
}

// localSetupWrapper wraps localSetup to provide context for Cobra's PreRunE.
func localSetupWrapper(cmd *cobra.Command, args []string) error {
	return localSetup(rootCtx, cmd, args)
}

// loadConfigFile handles config file loading logic common to all setup functions.
func loadConfigFile() error {
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.SetConfigName(".cheetah")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME")
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}
	return nil
}

func userAgent() string {
	return "cheetah/" + version
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// Close releases the table store if one was opened.
func Close() error {
	if rt.Store == nil {
		return nil
	}
	return rt.Store.Close()
}
