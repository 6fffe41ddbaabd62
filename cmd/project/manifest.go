package project

import (
	"fmt"
	"os"

	"github.com/gil0mendes/LAOS/internal/ui"
	"github.com/gil0mendes/LAOS/pkg/buildutil"
	"github.com/gil0mendes/LAOS/pkg/manifest"
	"github.com/spf13/cobra"
)

func NewManifestCommand(rt *Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "manifest",
		Short:   "Inspect the build manifest",
		Aliases: []string{"mf"},
	}

	cmd.AddCommand(newManifestShowCommand(rt))
	cmd.AddCommand(newManifestValidateCommand(rt))

	return cmd
}

func newManifestShowCommand(rt *Runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the build manifest",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, path, err := rt.LoadManifest()
			if err != nil {
				return err
			}

			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("failed to read manifest: %w", err)
			}

			return ui.Highlight(cmd.OutOrStdout(), string(data), manifest.FormatOf(path), rt.Plain())
		},
	}
}

func newManifestValidateCommand(rt *Runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate the build manifest",
		Long: `Parse and validate the build manifest and list its source groups. Entries
are shown as written, conditional ones with their features.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, path, err := rt.LoadManifest()
			if err != nil {
				return err
			}

			ui.PrintSuccess(path + " is valid")
			ui.PrintInfo("Options", fmt.Sprint(len(m.Options)))
			ui.PrintInfo("Tools", fmt.Sprint(len(m.Tools)))

			for _, group := range m.Groups() {
				entries, err := m.Entries(group)
				if err != nil {
					return err
				}
				ui.PrintSection(group)
				described := make([]string, len(entries))
				for i, entry := range entries {
					described[i] = buildutil.Describe(entry)
				}
				ui.PrintList(described)
			}
			return nil
		},
	}
}
