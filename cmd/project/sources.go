package project

import (
	"fmt"

	"github.com/gil0mendes/LAOS/internal/services"
	"github.com/spf13/cobra"
)

type sourcesOptions struct {
	configFile string
	relative   bool
}

func NewSourcesCommand(rt *Runtime) *cobra.Command {
	opts := &sourcesOptions{}

	cmd := &cobra.Command{
		Use:   "sources <group> [KEY=VALUE...]",
		Short: "Print the resolved sources of a group",
		Long: `Print the source files of a group, one per line, with the entries whose
features are all disabled left out. The order is the order of the manifest.`,
		Example: `  # Sources of the loader with the manifest defaults
  laos-build sources loader

  # Paths relative to the manifest directory
  laos-build sources loader --relative CONFIG_SHELL=y`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, path, err := rt.LoadManifest()
			if err != nil {
				return err
			}

			overrides, err := readOverrides(opts.configFile, args[1:])
			if err != nil {
				return err
			}

			service, err := rt.ConfigureService()
			if err != nil {
				return err
			}

			refs, err := service.ResolveGroup(services.ConfigureRequest{
				ManifestPath: path,
				Manifest:     m,
				Overrides:    overrides,
			}, args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, ref := range refs {
				if opts.relative {
					fmt.Fprintln(out, ref.Path)
				} else {
					fmt.Fprintln(out, ref.String())
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.configFile, "config-file", "", "Kconfig style file with feature states")
	cmd.Flags().BoolVar(&opts.relative, "relative", false, "Print paths relative to the manifest directory")

	return cmd
}
