package manifest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gil0mendes/LAOS/pkg/buildutil"
	laoserrors "github.com/gil0mendes/LAOS/pkg/errors"
	"github.com/go-git/go-git/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const yamlManifest = `
project:
  name: laos
  version: 0.2.0
options:
  - name: CONFIG_TARGET_HAS_UI
    help: Include the interactive menu.
    default: y
  - name: CONFIG_DEBUG
    default: false
  - name: CONFIG_LINUX
    default: 1
sources:
  loader:
    - source/loader/initium.c
    - [CONFIG_TARGET_HAS_UI, source/ui.c]
    - [CONFIG_DEBUG, CONFIG_LINUX, source/platform/bios/loader/linux.c]
    - [CONFIG_DEBUG, source/debug.c]
tools:
  - name: nasm
    required: true
    version_args: ["-v"]
    message: nasm is required to build the BIOS platform
  - name: mkisofs
`

const tomlManifest = `
[project]
name = "laos"

[[options]]
name = "CONFIG_TARGET_HAS_UI"
default = "yes"

[[options]]
name = "CONFIG_DEBUG"
default = false

[sources]
loader = [
  "source/loader/initium.c",
  ["CONFIG_TARGET_HAS_UI", "source/ui.c"],
  ["CONFIG_DEBUG", "source/debug.c"],
]

[[tools]]
name = "nasm"
required = true
`

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestParseManifestYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "laos.yml")
	writeFile(t, path, yamlManifest)

	m, err := ParseManifest(path)
	require.NoError(t, err)

	assert.Equal(t, "laos", m.Project.Name)
	assert.Equal(t, "0.2.0", m.Project.Version)
	require.Len(t, m.Options, 3)
	assert.True(t, bool(m.Options[0].Default))
	assert.False(t, bool(m.Options[1].Default))
	assert.True(t, bool(m.Options[2].Default))

	loader := m.Sources["loader"]
	require.Len(t, loader, 4)
	assert.Empty(t, loader[0].Features)
	assert.Equal(t, "source/loader/initium.c", loader[0].Path)
	assert.Equal(t, []string{"CONFIG_DEBUG", "CONFIG_LINUX"}, loader[2].Features)
	assert.Equal(t, "source/platform/bios/loader/linux.c", loader[2].Path)

	require.Len(t, m.Tools, 2)
	assert.Equal(t, []string{"-v"}, m.Tools[0].VersionArgs)
	assert.Equal(t, "nasm is required to build the BIOS platform", m.Tools[0].MissingMessage())
	assert.Equal(t, "Could not find mkisofs in PATH", m.Tools[1].MissingMessage())
}

func TestParseManifestTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "laos.toml")
	writeFile(t, path, tomlManifest)

	m, err := ParseManifest(path)
	require.NoError(t, err)

	assert.Equal(t, "laos", m.Project.Name)
	assert.True(t, bool(m.Options[0].Default))

	loader := m.Sources["loader"]
	require.Len(t, loader, 3)
	assert.Equal(t, []string{"CONFIG_TARGET_HAS_UI"}, loader[1].Features)
	assert.Equal(t, "source/ui.c", loader[1].Path)
}

func TestParseManifestDefaultFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "laos.yaml"), yamlManifest)

	originalDir, err := os.Getwd()
	require.NoError(t, err)
	defer os.Chdir(originalDir)
	require.NoError(t, os.Chdir(dir))

	m, err := ParseManifest("")
	require.NoError(t, err)
	assert.Equal(t, "laos", m.Project.Name)
}

func TestParseManifestErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "missing project name", content: "project:\n  version: 1\n"},
		{name: "conditional without features", content: "project:\n  name: x\nsources:\n  main:\n    - [only/a/path.c]\n"},
		{name: "empty path", content: "project:\n  name: x\nsources:\n  main:\n    - \"\"\n"},
		{name: "duplicate option", content: "project:\n  name: x\noptions:\n  - name: A\n  - name: A\n"},
		{name: "duplicate tool", content: "project:\n  name: x\ntools:\n  - name: cc\n  - name: cc\n"},
		{name: "unknown field", content: "project:\n  name: x\nunknown: true\n"},
		{name: "bad option default", content: "project:\n  name: x\noptions:\n  - name: A\n    default: maybe\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.content), "yaml")
			require.Error(t, err)
			assert.True(t, laoserrors.IsInvalidManifest(err), "unexpected error: %v", err)
		})
	}
}

func TestParseManifestNotFound(t *testing.T) {
	_, err := ParseManifest(filepath.Join(t.TempDir(), "laos.yml"))
	assert.ErrorIs(t, err, laoserrors.ErrManifestNotFound)
}

func TestFeatureConfig(t *testing.T) {
	m, err := Decode([]byte(yamlManifest), "yaml")
	require.NoError(t, err)

	t.Run("defaults", func(t *testing.T) {
		config, err := m.FeatureConfig(nil)
		require.NoError(t, err)
		assert.Equal(t, buildutil.FeatureConfig{
			"CONFIG_TARGET_HAS_UI": true,
			"CONFIG_DEBUG":         false,
			"CONFIG_LINUX":         true,
		}, config)
	})

	t.Run("overrides", func(t *testing.T) {
		config, err := m.FeatureConfig(map[string]bool{"CONFIG_DEBUG": true, "CONFIG_LINUX": false})
		require.NoError(t, err)
		assert.True(t, config["CONFIG_DEBUG"])
		assert.False(t, config["CONFIG_LINUX"])
	})

	t.Run("unknown override", func(t *testing.T) {
		_, err := m.FeatureConfig(map[string]bool{"CONFIG_NOPE": true})
		assert.ErrorIs(t, err, laoserrors.ErrUnknownOption)
	})
}

func TestEntries(t *testing.T) {
	m, err := Decode([]byte(yamlManifest), "yaml")
	require.NoError(t, err)

	entries, err := m.Entries("loader")
	require.NoError(t, err)

	config, err := m.FeatureConfig(nil)
	require.NoError(t, err)

	refs, err := buildutil.FeatureSources(config, entries)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"source/loader/initium.c",
		"source/ui.c",
		"source/platform/bios/loader/linux.c",
	}, buildutil.Paths(refs))

	_, err = m.Entries("kernel")
	assert.ErrorIs(t, err, laoserrors.ErrUnknownGroup)
	assert.Equal(t, []string{"loader"}, m.Groups())
}

func TestStarterRoundTrip(t *testing.T) {
	starter := Starter("laos")

	t.Run("yaml", func(t *testing.T) {
		data, err := starter.MarshalYaml()
		require.NoError(t, err)
		assert.Contains(t, string(data), "- - CONFIG_DEBUG")

		decoded, err := Decode(data, "yaml")
		require.NoError(t, err)
		assert.Equal(t, starter, decoded)
	})

	t.Run("toml", func(t *testing.T) {
		data, err := starter.MarshalToml()
		require.NoError(t, err)

		decoded, err := Decode(data, "toml")
		require.NoError(t, err)
		assert.Equal(t, starter.Sources, decoded.Sources)
		assert.Equal(t, starter.Project, decoded.Project)
	})
}

func TestFindManifest(t *testing.T) {
	t.Run("walks up to the worktree root", func(t *testing.T) {
		root := t.TempDir()
		_, err := git.PlainInit(root, false)
		require.NoError(t, err)

		writeFile(t, filepath.Join(root, "laos.toml"), tomlManifest)
		nested := filepath.Join(root, "source", "platform", "bios")
		require.NoError(t, os.MkdirAll(nested, 0o755))

		path, err := FindManifest(nested)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(root, "laos.toml"), path)
	})

	t.Run("prefers the closest manifest", func(t *testing.T) {
		root := t.TempDir()
		_, err := git.PlainInit(root, false)
		require.NoError(t, err)

		writeFile(t, filepath.Join(root, "laos.yml"), yamlManifest)
		writeFile(t, filepath.Join(root, "test", "laos.yml"), yamlManifest)

		path, err := FindManifest(filepath.Join(root, "test"))
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(root, "test", "laos.yml"), path)
	})

	t.Run("stops at the worktree root", func(t *testing.T) {
		outer := t.TempDir()
		writeFile(t, filepath.Join(outer, "laos.yml"), yamlManifest)

		repo := filepath.Join(outer, "repo")
		_, err := git.PlainInit(repo, false)
		require.NoError(t, err)

		_, err = FindManifest(repo)
		assert.ErrorIs(t, err, laoserrors.ErrManifestNotFound)
	})
}

func TestSourceDecodeRejectsNonStrings(t *testing.T) {
	var s Source
	err := s.UnmarshalTOML([]interface{}{"CONFIG_A", int64(3)})
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "expected a string"))
}
