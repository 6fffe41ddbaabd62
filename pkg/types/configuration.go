package types

import (
	"sort"
	"time"

	"github.com/gil0mendes/LAOS/pkg/buildutil"
	"github.com/gil0mendes/LAOS/pkg/toolchain"
)

// Configuration is the outcome of a configure run.
type Configuration struct {
	ManifestPath string                         `json:"manifest_path"`
	Project      string                         `json:"project"`
	Features     buildutil.FeatureConfig        `json:"features"`
	Groups       map[string][]buildutil.FileRef `json:"groups"`
	Tools        []toolchain.Result             `json:"tools"`
	Warnings     []string                       `json:"warnings,omitempty"`
	Digest       string                         `json:"digest"`
	HelpMode     bool                           `json:"help_mode"`
	ConfiguredAt time.Time                      `json:"configured_at"`
}

// EnabledFeatures returns the names of the enabled features, sorted.
func (c *Configuration) EnabledFeatures() []string {
	var enabled []string
	for name, on := range c.Features {
		if on {
			enabled = append(enabled, name)
		}
	}
	sort.Strings(enabled)
	return enabled
}

// Tool returns the probe result for name.
func (c *Configuration) Tool(name string) (toolchain.Result, bool) {
	for _, t := range c.Tools {
		if t.Name == name {
			return t, true
		}
	}
	return toolchain.Result{}, false
}
