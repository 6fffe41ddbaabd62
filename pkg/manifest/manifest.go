package manifest

import (
	"fmt"
	"sort"

	"github.com/BurntSushi/toml"
	"github.com/gil0mendes/LAOS/pkg/buildutil"
	laoserrors "github.com/gil0mendes/LAOS/pkg/errors"
	"gopkg.in/yaml.v2"
)

// BuildManifest describes a project: its build options, the source groups
// that depend on them and the external tools the build needs.
type BuildManifest struct {
	Project ProjectSettings       `yaml:"project" toml:"project"`
	Options []Option              `yaml:"options,omitempty" toml:"options,omitempty" validate:"dive"`
	Sources map[string]SourceList `yaml:"sources,omitempty" toml:"sources,omitempty" validate:"dive,keys,required,endkeys,dive"`
	Tools   []Tool                `yaml:"tools,omitempty" toml:"tools,omitempty" validate:"dive"`
}

type ProjectSettings struct {
	Name    string `yaml:"name" toml:"name" validate:"required"`
	Version string `yaml:"version,omitempty" toml:"version,omitempty"`
}

// Option is a named feature switch.
type Option struct {
	Name    string `yaml:"name" toml:"name" validate:"required"`
	Help    string `yaml:"help,omitempty" toml:"help,omitempty"`
	Default Value  `yaml:"default" toml:"default"`
}

// Tool is an external program the build runs.
type Tool struct {
	Name        string   `yaml:"name" toml:"name" validate:"required"`
	Required    bool     `yaml:"required" toml:"required"`
	VersionArgs []string `yaml:"version_args,omitempty" toml:"version_args,omitempty"`
	Message     string   `yaml:"message,omitempty" toml:"message,omitempty"`
}

// MissingMessage is the text reported when the tool cannot be found.
func (t Tool) MissingMessage() string {
	if t.Message != "" {
		return t.Message
	}
	return fmt.Sprintf("Could not find %s in PATH", t.Name)
}

func (m *BuildManifest) MarshalYaml() ([]byte, error) {
	return yaml.Marshal(m)
}

func (m *BuildManifest) MarshalToml() ([]byte, error) {
	return toml.Marshal(m)
}

// Option returns the option called name.
func (m *BuildManifest) Option(name string) (Option, bool) {
	for _, opt := range m.Options {
		if opt.Name == name {
			return opt, true
		}
	}
	return Option{}, false
}

// FeatureConfig returns the option defaults with overrides applied on top.
// Overriding an undeclared option is an error.
func (m *BuildManifest) FeatureConfig(overrides map[string]bool) (buildutil.FeatureConfig, error) {
	config := make(buildutil.FeatureConfig, len(m.Options))
	for _, opt := range m.Options {
		config[opt.Name] = bool(opt.Default)
	}

	for _, name := range sortedKeys(overrides) {
		if _, ok := config[name]; !ok {
			return nil, fmt.Errorf("%w: %s", laoserrors.ErrUnknownOption, name)
		}
		config[name] = overrides[name]
	}

	return config, nil
}

// Groups returns the source group names in sorted order.
func (m *BuildManifest) Groups() []string {
	names := make([]string, 0, len(m.Sources))
	for name := range m.Sources {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Entries returns the source entries of group.
func (m *BuildManifest) Entries(group string) ([]buildutil.Entry, error) {
	list, ok := m.Sources[group]
	if !ok {
		return nil, fmt.Errorf("%w: %s", laoserrors.ErrUnknownGroup, group)
	}
	return list.Entries(), nil
}

// Starter returns the manifest written by "laos-build init".
func Starter(name string) *BuildManifest {
	return &BuildManifest{
		Project: ProjectSettings{
			Name:    name,
			Version: "0.1.0",
		},
		Options: []Option{
			{Name: "CONFIG_DEBUG", Help: "Build with debugging output and assertions enabled.", Default: false},
		},
		Sources: map[string]SourceList{
			"main": {
				{Path: "source/main.c"},
				{Features: []string{"CONFIG_DEBUG"}, Path: "source/debug.c"},
			},
		},
		Tools: []Tool{
			{Name: "cc", Required: true, VersionArgs: []string{"--version"}},
		},
	}
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
