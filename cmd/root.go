package cmd

import (
	"fmt"

	"github.com/gil0mendes/LAOS/cmd/project"
	globalConfig "github.com/gil0mendes/LAOS/internal/config"
	"github.com/gil0mendes/LAOS/internal/di"
	"github.com/gil0mendes/LAOS/internal/logging"
	"github.com/gil0mendes/LAOS/internal/ui"
	"github.com/gil0mendes/LAOS/pkg/buildutil"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Exit statuses
const (
	ExitOK    = 0
	ExitError = 1
	ExitStop  = 2
)

// Global flags
var (
	logLevel     string
	plainOutput  bool
	noCache      bool
	manifestPath string
)

// rt is shared with every subcommand and filled in before they run.
var rt = &project.Runtime{}

var rootCmd = &cobra.Command{
	Use:   "laos-build",
	Short: "Build configuration helpers for the LAOS tree",
	Long: `laos-build configures a LAOS build tree from its build manifest.

A manifest (laos.yml, laos.yaml or laos.toml) declares the build options of a
project, the source groups that depend on them and the external tools the
build runs. laos-build resolves it into a configuration:

* Option defaults are merged with KEY=VALUE overrides or a .config file
* Every tool is looked up in PATH and, when asked, its version is read
* Every source group is resolved against the enabled features

Configuration errors end the process with status 2.`,
	Example: `  # Configure with the defaults of the manifest
  laos-build configure

  # Configure with a feature turned off
  laos-build configure CONFIG_TARGET_HAS_UI=n

  # Show the build options and their help
  laos-build configure --options-help

  # Print the sources of a group
  laos-build sources loader

  # Find a program in PATH
  laos-build which nasm`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		// Skip for help commands
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}
		return setupRuntime(cmd.Flags())
	},
}

// Execute runs the root command and returns the process exit status.
func Execute() int {
	err := rootCmd.Execute()
	defer teardownRuntime()

	if err == nil {
		return ExitOK
	}

	if buildutil.IsStop(err) {
		fmt.Fprintln(ui.ErrorOutput, ui.ErrorStyle.Bold(true).Render(err.Error()))
		return ExitStop
	}

	ui.PrintError(err.Error())
	return ExitError
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&globalConfig.ConfigPath, "config", "c", globalConfig.DefaultConfigPath, "Path to the configuration file")
	flags.StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flags.BoolVar(&plainOutput, "plain", false, "Disable spinners, colors and prompts")
	flags.BoolVar(&noCache, "no-cache", false, "Do not read or write the configure cache")
	flags.StringVarP(&manifestPath, "manifest", "m", "", "Path to the build manifest")

	rootCmd.AddCommand(project.NewConfigureCommand(rt))
	rootCmd.AddCommand(project.NewSourcesCommand(rt))
	rootCmd.AddCommand(project.NewWhichCommand(rt))
	rootCmd.AddCommand(project.NewCheckCommand(rt))
	rootCmd.AddCommand(project.NewStatusCommand(rt))
	rootCmd.AddCommand(project.NewInitCommand(rt))
	rootCmd.AddCommand(project.NewManifestCommand(rt))
}

// setupRuntime loads the configuration, applies the flags that override it
// and builds the logger and the container.
func setupRuntime(flags *pflag.FlagSet) error {
	cfg, err := globalConfig.LoadConfig(globalConfig.ConfigPath)
	if err != nil {
		return err
	}

	if flags.Changed("log-level") {
		cfg.Log.Level = logLevel
	}
	if flags.Changed("plain") {
		cfg.UI.Plain = plainOutput
	}
	if noCache {
		cfg.Cache.Enabled = false
	}
	if manifestPath != "" {
		cfg.Manifest.Path = manifestPath
	}

	logger, err := logging.New(logging.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}

	container, err := di.NewContainer(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to build container: %w", err)
	}

	rt.Config = cfg
	rt.Logger = logger
	rt.Container = container
	return nil
}

func teardownRuntime() {
	if rt.Container != nil {
		if err := rt.Container.Close(); err != nil && rt.Logger != nil {
			rt.Logger.Errorf("failed to close container: %v", err)
		}
	}
	if rt.Logger != nil {
		_ = rt.Logger.Sync()
	}
}
