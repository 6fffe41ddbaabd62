package project

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/gil0mendes/LAOS/pkg/manifest"
	"github.com/mattn/go-isatty"
)

func absolute(path string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	return absPath, nil
}

// readOverrides merges the feature states of a .config file, if any, with
// KEY=VALUE arguments. Arguments win over the file.
func readOverrides(configFile string, args []string) (map[string]bool, error) {
	var fromFile map[string]bool
	if configFile != "" {
		var err error
		if fromFile, err = manifest.ReadConfigFile(configFile); err != nil {
			return nil, err
		}
	}

	fromArgs, err := manifest.ParseOverrides(args)
	if err != nil {
		return nil, err
	}

	return manifest.Merge(fromFile, fromArgs), nil
}

// isInteractive reports whether stdin is a terminal.
func isInteractive() bool {
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func enabledLabel(on bool) string {
	if on {
		return "enabled"
	}
	return "disabled"
}

func sortedFeatures(features map[string]bool) []string {
	names := make([]string, 0, len(features))
	for name := range features {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
