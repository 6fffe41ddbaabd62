package project

import (
	"context"
	"fmt"

	"github.com/gil0mendes/LAOS/internal/ui"
	"github.com/gil0mendes/LAOS/internal/ui/operations"
	"github.com/gil0mendes/LAOS/pkg/buildutil"
	"github.com/gil0mendes/LAOS/pkg/manifest"
	"github.com/gil0mendes/LAOS/pkg/toolchain"
	"github.com/spf13/cobra"
)

func NewCheckCommand(rt *Runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Check the tools the build needs",
		Long: `Look up every tool declared by the manifest and print where it was found
and which version it reports. Exits with status 2 when a required tool is
missing.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, _, err := rt.LoadManifest()
			if err != nil {
				return err
			}

			service, err := rt.ConfigureService()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			var (
				results  []toolchain.Result
				probeErr error
			)
			err = operations.WithSpinner(rt.Plain(), "Probing tools...", func() (interface{}, error) {
				found, err := service.CheckTools(ctx, m)
				if found == nil {
					return nil, err
				}
				probeErr = err
				return found, nil
			}, func(result interface{}) {
				results = result.([]toolchain.Result)
			})
			if err != nil {
				return err
			}

			fmt.Fprint(ui.Output, toolTable(m, results))
			if probeErr != nil {
				ui.PrintWarning(probeErr.Error())
			}
			return missingRequired(m, results)
		},
	}
}

func toolTable(m *manifest.BuildManifest, results []toolchain.Result) string {
	table := ui.NewTable([]string{"TOOL", "STATUS", "PATH", "VERSION"})
	for i, result := range results {
		status := "found"
		if !result.Found {
			status = "missing"
			if !m.Tools[i].Required {
				status = "optional"
			}
		}
		table.AddRow(result.Name, status, result.Path, ui.TruncateWithEllipsis(result.Version, 40))
	}
	return ui.RenderTable(table)
}

// missingRequired returns a stop error for the first required tool that was
// not found.
func missingRequired(m *manifest.BuildManifest, results []toolchain.Result) error {
	for i, result := range results {
		if m.Tools[i].Required && !result.Found {
			return buildutil.Stop(m.Tools[i].MissingMessage(), false)
		}
	}
	return nil
}
