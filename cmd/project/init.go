package project

import (
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/gil0mendes/LAOS/internal/ui"
	"github.com/spf13/cobra"
)

func NewInitCommand(rt *Runtime) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Write a starter build manifest",
		Long: `Write a starter build manifest into dir, the current directory by default.
The project is named after the directory. An existing manifest is never
overwritten.`,
		Example: `  laos-build init
  laos-build init ./kernel --format toml`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			if format == "" && !rt.Plain() && isInteractive() {
				if err := selectFormat(&format); err != nil {
					return err
				}
			}

			if rt.Container == nil {
				return errNotReady
			}
			service, err := rt.Container.GetProjectService()
			if err != nil {
				return err
			}

			path, err := service.InitProject(dir, format)
			if err != nil {
				return err
			}

			ui.PrintSuccess("Created " + path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "Manifest format (yaml or toml)")

	return cmd
}

func selectFormat(format *string) error {
	baseStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ui.InfoColor))
	theme := huh.Theme{
		Focused: huh.FieldStyles{
			Title:          baseStyle.Bold(true),
			SelectedOption: ui.SelectStyle,
			SelectSelector: baseStyle,
		},
	}

	formatField := huh.NewSelect[string]().
		Title("Choose a manifest format").
		Options(
			huh.NewOption("YAML (laos.yml)", "yaml"),
			huh.NewOption("TOML (laos.toml)", "toml"),
		).
		Value(format)

	form := huh.NewForm(huh.NewGroup(formatField))
	if err := form.WithTheme(&theme).Run(); err != nil {
		return fmt.Errorf("error during format selection: %w", err)
	}
	return nil
}
