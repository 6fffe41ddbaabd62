package project

import (
	"bytes"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/gil0mendes/LAOS/internal/config"
	"github.com/gil0mendes/LAOS/internal/di"
	"github.com/gil0mendes/LAOS/internal/logging"
	"github.com/gil0mendes/LAOS/internal/ui"
	"github.com/gil0mendes/LAOS/pkg/buildutil"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testManifest = `
project:
  name: laos
options:
  - name: CONFIG_TARGET_HAS_UI
    help: Build the interactive menu.
    default: y
  - name: CONFIG_SHELL
    default: n
sources:
  loader:
    - source/loader.c
    - [CONFIG_TARGET_HAS_UI, source/ui.c]
    - [CONFIG_SHELL, source/shell.c]
tools:
  - name: nasm
    required: true
    message: nasm is required to build the BIOS platform
`

type env struct {
	rt       *Runtime
	dir      string
	binDir   string
	manifest string
	out      *bytes.Buffer
}

func setup(t *testing.T, tools ...string) *env {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("tool stubs rely on unix permissions")
	}

	dir := t.TempDir()
	manifestPath := filepath.Join(dir, "laos.yml")
	require.NoError(t, os.WriteFile(manifestPath, []byte(testManifest), 0o644))

	binDir := t.TempDir()
	for _, tool := range tools {
		require.NoError(t, os.WriteFile(filepath.Join(binDir, tool), []byte("#!/bin/sh\n"), 0o755))
	}
	t.Setenv("PATH", binDir)

	cfg := config.DefaultConfig()
	cfg.Cache.Dir = t.TempDir()
	cfg.Manifest.Path = manifestPath
	cfg.UI.Plain = true

	logger := logging.NewNop()
	container, err := di.NewContainer(cfg, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Close() })

	var out bytes.Buffer
	previous := ui.Output
	ui.Output = &out
	t.Cleanup(func() { ui.Output = previous })

	return &env{
		rt:       &Runtime{Config: cfg, Logger: logger, Container: container},
		dir:      dir,
		binDir:   binDir,
		manifest: manifestPath,
		out:      &out,
	}
}

func (e *env) run(cmd *cobra.Command, args ...string) error {
	cmd.SetOut(e.out)
	cmd.SetErr(e.out)
	cmd.SetArgs(args)
	return cmd.Execute()
}

func TestConfigureCommand(t *testing.T) {
	e := setup(t, "nasm")

	require.NoError(t, e.run(NewConfigureCommand(e.rt), "CONFIG_SHELL=y"))
	assert.Contains(t, e.out.String(), "Configured laos")
	assert.Contains(t, e.out.String(), "loader: 3 files")

	e.out.Reset()
	require.NoError(t, e.run(NewStatusCommand(e.rt)))
	assert.Contains(t, e.out.String(), "CONFIG_SHELL")
	assert.Contains(t, e.out.String(), "sha256:")
}

func TestConfigureCommandStops(t *testing.T) {
	e := setup(t)

	err := e.run(NewConfigureCommand(e.rt))
	require.Error(t, err)
	assert.True(t, buildutil.IsStop(err))
	assert.Equal(t, "nasm is required to build the BIOS platform", err.Error())
}

func TestConfigureCommandOptionsHelp(t *testing.T) {
	e := setup(t)

	require.NoError(t, e.run(NewConfigureCommand(e.rt), "--options-help", "CONFIG_UNKNOWN=y"))
	out := e.out.String()
	assert.Contains(t, out, "CONFIG_TARGET_HAS_UI")
	assert.Contains(t, out, "Build the interactive menu.")
	assert.Contains(t, out, "nasm is required to build the BIOS platform")
	assert.NotContains(t, out, "Configured laos")
}

func TestConfigureCommandConfigFile(t *testing.T) {
	e := setup(t, "nasm")
	configFile := filepath.Join(e.dir, ".config")
	require.NoError(t, os.WriteFile(configFile, []byte("# CONFIG_TARGET_HAS_UI is not set\nCONFIG_SHELL=y\n"), 0o644))

	require.NoError(t, e.run(NewSourcesCommand(e.rt), "loader", "--relative", "--config-file", configFile))
	assert.Equal(t, "source/loader.c\nsource/shell.c\n", e.out.String())

	e.out.Reset()
	require.NoError(t, e.run(NewSourcesCommand(e.rt), "loader", "--relative", "--config-file", configFile, "CONFIG_SHELL=n"))
	assert.Equal(t, "source/loader.c\n", e.out.String())
}

func TestSourcesCommand(t *testing.T) {
	e := setup(t)

	require.NoError(t, e.run(NewSourcesCommand(e.rt), "loader"))
	lines := strings.Split(strings.TrimSpace(e.out.String()), "\n")
	assert.Equal(t, []string{
		filepath.Join(e.dir, "source", "loader.c"),
		filepath.Join(e.dir, "source", "ui.c"),
	}, lines)

	err := e.run(NewSourcesCommand(e.rt), "kernel")
	assert.Error(t, err)
}

func TestWhichCommand(t *testing.T) {
	e := setup(t, "nasm")

	require.NoError(t, e.run(NewWhichCommand(e.rt), "nasm"))
	assert.Equal(t, filepath.Join(e.binDir, "nasm")+"\n", e.out.String())

	err := e.run(NewWhichCommand(e.rt), "ld.lld")
	require.Error(t, err)
	assert.False(t, buildutil.IsStop(err))
}

func TestCheckCommand(t *testing.T) {
	e := setup(t, "nasm")
	require.NoError(t, e.run(NewCheckCommand(e.rt)))
	assert.Contains(t, e.out.String(), "found")

	e = setup(t)
	err := e.run(NewCheckCommand(e.rt))
	assert.True(t, buildutil.IsStop(err))
	assert.Contains(t, e.out.String(), "missing")
}

func TestStatusNotConfigured(t *testing.T) {
	e := setup(t)
	require.NoError(t, e.run(NewStatusCommand(e.rt)))
	assert.Contains(t, e.out.String(), "Not configured yet")
}

func TestStatusAll(t *testing.T) {
	e := setup(t, "nasm")

	require.NoError(t, e.run(NewStatusCommand(e.rt), "--all"))
	assert.Contains(t, e.out.String(), "No configured manifests")

	require.NoError(t, e.run(NewConfigureCommand(e.rt)))
	e.out.Reset()

	require.NoError(t, e.run(NewStatusCommand(e.rt), "--all"))
	assert.Contains(t, e.out.String(), "PROJECT")
	assert.Contains(t, e.out.String(), e.manifest)
	assert.Contains(t, e.out.String(), "sha256:")
}

func TestStatusForget(t *testing.T) {
	e := setup(t, "nasm")

	require.NoError(t, e.run(NewStatusCommand(e.rt), "--forget"))
	assert.Contains(t, e.out.String(), "Nothing recorded")

	require.NoError(t, e.run(NewConfigureCommand(e.rt)))
	e.out.Reset()

	require.NoError(t, e.run(NewStatusCommand(e.rt), "--forget"))
	assert.Contains(t, e.out.String(), "Forgot the configuration")

	e.out.Reset()
	require.NoError(t, e.run(NewStatusCommand(e.rt)))
	assert.Contains(t, e.out.String(), "Not configured yet")
}

func TestStatusAllForgetExclusive(t *testing.T) {
	e := setup(t)
	assert.Error(t, e.run(NewStatusCommand(e.rt), "--all", "--forget"))
}

func TestInitCommand(t *testing.T) {
	e := setup(t)
	target := filepath.Join(t.TempDir(), "kernel")

	require.NoError(t, e.run(NewInitCommand(e.rt), target, "--format", "toml"))
	_, err := os.Stat(filepath.Join(target, "laos.toml"))
	assert.NoError(t, err)

	assert.Error(t, e.run(NewInitCommand(e.rt), target, "--format", "yaml"))
}

func TestManifestCommands(t *testing.T) {
	e := setup(t)

	require.NoError(t, e.run(NewManifestCommand(e.rt), "show"))
	assert.Equal(t, testManifest, e.out.String())

	e.out.Reset()
	require.NoError(t, e.run(NewManifestCommand(e.rt), "validate"))
	assert.Contains(t, e.out.String(), "[CONFIG_SHELL] source/shell.c")
}
