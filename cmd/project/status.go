package project

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/gil0mendes/LAOS/internal/ui"
	laoserrors "github.com/gil0mendes/LAOS/pkg/errors"
	"github.com/spf13/cobra"
)

type statusOptions struct {
	asJSON bool
	all    bool
	forget bool
}

func NewStatusCommand(rt *Runtime) *cobra.Command {
	opts := &statusOptions{}

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the last configuration",
		Long: `Show the configuration recorded by the last successful configure run of the
manifest, and whether the manifest changed since.

With --all every manifest recorded in the configure cache is listed. With
--forget the recorded configuration of the manifest is dropped.`,
		Example: `  # Show the configuration of the current manifest
  laos-build status

  # List every configured manifest
  laos-build status --all

  # Drop the recorded configuration
  laos-build status --forget`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			switch {
			case opts.all:
				return listConfigurations(cmd.OutOrStdout(), rt, opts.asJSON)
			case opts.forget:
				return forgetConfiguration(rt)
			}
			return showConfiguration(cmd.OutOrStdout(), rt, opts.asJSON)
		},
	}

	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "Print the configuration as JSON")
	cmd.Flags().BoolVar(&opts.all, "all", false, "List every configured manifest")
	cmd.Flags().BoolVar(&opts.forget, "forget", false, "Drop the recorded configuration of the manifest")
	cmd.MarkFlagsMutuallyExclusive("all", "forget")

	return cmd
}

func showConfiguration(w io.Writer, rt *Runtime, asJSON bool) error {
	_, path, err := rt.LoadManifest()
	if err != nil {
		return err
	}

	service, err := rt.ConfigureService()
	if err != nil {
		return err
	}

	result, err := service.LastConfiguration(path)
	if laoserrors.IsCacheMiss(err) {
		ui.PrintEmptyState("Not configured yet; run laos-build configure")
		return nil
	}
	if err != nil {
		return err
	}

	if asJSON {
		return printJSON(w, result)
	}

	ui.PrintInfo("Project", result.Project)
	ui.PrintInfo("Manifest", result.ManifestPath)
	ui.PrintInfo("Configured", result.ConfiguredAt.Local().Format(time.RFC1123))
	ui.PrintInfo("Digest", result.Digest)

	table := ui.NewTable([]string{"FEATURE", "STATE"})
	for _, name := range sortedFeatures(result.Features) {
		table.AddRow(name, enabledLabel(result.Features[name]))
	}
	fmt.Fprint(ui.Output, ui.RenderTable(table))

	if info, err := os.Stat(path); err == nil && info.ModTime().After(result.ConfiguredAt) {
		ui.PrintWarning("The manifest changed since it was configured")
	}
	return nil
}

func listConfigurations(w io.Writer, rt *Runtime, asJSON bool) error {
	store, err := rt.Cache()
	if err != nil {
		return err
	}

	configs, err := store.List()
	if err != nil {
		return fmt.Errorf("failed to list configurations: %w", err)
	}
	sort.Slice(configs, func(i, j int) bool {
		return configs[i].ManifestPath < configs[j].ManifestPath
	})

	if asJSON {
		return printJSON(w, configs)
	}

	if len(configs) == 0 {
		ui.PrintEmptyState("No configured manifests")
		return nil
	}

	table := ui.NewTable([]string{"PROJECT", "MANIFEST", "CONFIGURED", "DIGEST"})
	for _, cfg := range configs {
		table.AddRow(cfg.Project, cfg.ManifestPath,
			cfg.ConfiguredAt.Local().Format(time.DateTime),
			ui.TruncateWithEllipsis(cfg.Digest, 19))
	}
	fmt.Fprint(ui.Output, ui.RenderTable(table))
	return nil
}

func forgetConfiguration(rt *Runtime) error {
	_, path, err := rt.LoadManifest()
	if err != nil {
		return err
	}

	store, err := rt.Cache()
	if err != nil {
		return err
	}

	if _, err := store.Get(path); laoserrors.IsCacheMiss(err) {
		ui.PrintEmptyState("Nothing recorded for " + path)
		return nil
	}

	if err := store.Delete(path); err != nil {
		return fmt.Errorf("failed to forget %s: %w", path, err)
	}
	rt.Logger.Debugf("dropped configuration of %s", path)
	ui.PrintSuccess("Forgot the configuration of " + path)
	return nil
}

func printJSON(w io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal configuration: %w", err)
	}
	fmt.Fprintln(w, string(data))
	return nil
}
