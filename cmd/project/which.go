package project

import (
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"
)

func NewWhichCommand(rt *Runtime) *cobra.Command {
	var copyPath bool

	cmd := &cobra.Command{
		Use:   "which <program>",
		Short: "Locate a program",
		Long: `Print the path of the executable that would run for program.

A program containing a path separator is checked as is. Otherwise every
PATH entry is tried in order. Exits with status 1 when nothing is found.`,
		Example: `  laos-build which nasm
  laos-build which ./tools/mkimage --copy`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if rt.Container == nil {
				return errNotReady
			}
			locator, err := rt.Container.GetLocator()
			if err != nil {
				return err
			}

			path, found, err := locator.Which(args[0])
			if err != nil {
				return err
			}
			if !found {
				return fmt.Errorf("%s not found", args[0])
			}

			fmt.Fprintln(cmd.OutOrStdout(), path)

			if copyPath {
				if err := clipboard.WriteAll(path); err != nil {
					rt.Logger.Warnf("failed to copy to clipboard: %v", err)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&copyPath, "copy", false, "Copy the path to the clipboard")

	return cmd
}
