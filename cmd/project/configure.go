package project

import (
	"context"
	"fmt"
	"sort"

	"github.com/gil0mendes/LAOS/internal/services"
	"github.com/gil0mendes/LAOS/internal/ui"
	"github.com/gil0mendes/LAOS/internal/ui/operations"
	"github.com/gil0mendes/LAOS/pkg/manifest"
	"github.com/gil0mendes/LAOS/pkg/types"
	"github.com/spf13/cobra"
)

type configureOptions struct {
	optionsHelp bool
	configFile  string
}

func NewConfigureCommand(rt *Runtime) *cobra.Command {
	opts := &configureOptions{}

	cmd := &cobra.Command{
		Use:   "configure [KEY=VALUE...]",
		Short: "Configure the build tree",
		Long: `Configure the build tree described by the build manifest.

The configure phase:

1. Merges the option defaults with the .config file and KEY=VALUE overrides
2. Looks up every tool in PATH and reads its version
3. Resolves every source group against the enabled features
4. Records the result in the configure cache

A missing required tool or an override naming an unknown option stops the
configuration with exit status 2. With --options-help the options are listed
and such errors are only reported as warnings.`,
		Example: `  # Configure with the manifest defaults
  laos-build configure

  # Start from a Kconfig file and turn one feature off
  laos-build configure --config-file .config CONFIG_SHELL=n

  # List the build options
  laos-build configure --options-help`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigure(cmd.Context(), rt, opts, args)
		},
	}

	cmd.Flags().BoolVar(&opts.optionsHelp, "options-help", false, "List the build options and do not stop on configuration errors")
	cmd.Flags().StringVar(&opts.configFile, "config-file", "", "Kconfig style file with feature states")

	return cmd
}

func runConfigure(ctx context.Context, rt *Runtime, opts *configureOptions, args []string) error {
	m, path, err := rt.LoadManifest()
	if err != nil {
		return err
	}

	overrides, err := readOverrides(opts.configFile, args)
	if err != nil {
		return err
	}

	service, err := rt.ConfigureService()
	if err != nil {
		return err
	}

	req := services.ConfigureRequest{
		ManifestPath: path,
		Manifest:     m,
		Overrides:    overrides,
		HelpMode:     opts.optionsHelp,
	}

	if opts.optionsHelp {
		printOptionsHelp(m)
	}

	if ctx == nil {
		ctx = context.Background()
	}

	return operations.WithSteps(rt.Plain(), "Configuring "+m.Project.Name+"...", func(step operations.StepFunc) (interface{}, error) {
		req.Progress = step
		return service.Configure(ctx, req)
	}, func(result interface{}) {
		displayConfiguration(result.(*types.Configuration))
	})
}

func printOptionsHelp(m *manifest.BuildManifest) {
	ui.PrintSection("Build options")
	if len(m.Options) == 0 {
		ui.PrintEmptyState("The manifest declares no options")
		return
	}

	for _, opt := range m.Options {
		fmt.Fprintf(ui.Output, "  %s %s\n",
			ui.HeaderStyle.Render(opt.Name),
			ui.DimStyle.Render(fmt.Sprintf("(default: %s)", enabledLabel(bool(opt.Default)))))
		if opt.Help != "" {
			fmt.Fprintln(ui.Output, ui.WrapText(opt.Help, ui.TerminalWidth(), 6))
		}
	}
	fmt.Fprintln(ui.Output)
}

func displayConfiguration(result *types.Configuration) {
	for _, warning := range result.Warnings {
		ui.PrintWarning(warning)
	}

	if result.HelpMode {
		return
	}

	ui.PrintSuccess("Configured " + result.Project)
	fmt.Fprintln(ui.Output)

	ui.PrintInfo("Manifest", result.ManifestPath)
	ui.PrintInfo("Digest", result.Digest)

	enabled := result.EnabledFeatures()
	ui.PrintMetadata("Features ›", fmt.Sprintf("%d of %d enabled", len(enabled), len(result.Features)))
	ui.PrintList(enabled)

	groups := make([]string, 0, len(result.Groups))
	for group := range result.Groups {
		groups = append(groups, group)
	}
	sort.Strings(groups)

	ui.PrintMetadata("Groups ›", "")
	for _, group := range groups {
		ui.PrintList([]string{fmt.Sprintf("%s: %s", group, ui.Pluralize(len(result.Groups[group]), "file"))})
	}

	ui.PrintMetadata("Tools ›", "")
	for _, tool := range result.Tools {
		line := tool.Name + " " + ui.ArrowSymbol + " "
		if tool.Found {
			line += tool.Path
			if tool.Version != "" {
				line += " (" + tool.Version + ")"
			}
		} else {
			line += ui.StyleStatusValue("missing")
		}
		ui.PrintList([]string{line})
	}
}
