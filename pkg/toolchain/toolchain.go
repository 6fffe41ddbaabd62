package toolchain

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"

	"github.com/gil0mendes/LAOS/pkg/buildutil"
	laoserrors "github.com/gil0mendes/LAOS/pkg/errors"
)

// Probe describes an external program the build depends on.
type Probe struct {
	Name        string
	VersionArgs []string
}

// Result is the outcome of a probe. Path and Version are empty when the
// program was not found.
type Result struct {
	Name    string `json:"name"`
	Path    string `json:"path,omitempty"`
	Found   bool   `json:"found"`
	Version string `json:"version,omitempty"`
}

type ProbeError struct {
	Err    error
	Stderr string
	Step   string
}

func (e *ProbeError) Error() string {
	if e.Stderr != "" {
		return e.Step + ": " + e.Stderr
	}
	return e.Step + ": " + e.Err.Error()
}

func (e *ProbeError) Unwrap() []error {
	return []error{laoserrors.ErrProbeFailed, e.Err}
}

// Check looks the program up with locator and, when the probe has version
// arguments, runs it to read its version. A program that is not found is
// not an error; Result.Found tells.
func Check(ctx context.Context, locator *buildutil.Locator, probe Probe) (*Result, error) {
	path, found, err := locator.Which(probe.Name)
	if err != nil {
		return nil, err
	}

	result := &Result{Name: probe.Name, Path: path, Found: found}
	if !found || len(probe.VersionArgs) == 0 {
		return result, nil
	}

	version, err := readVersion(ctx, path, probe.VersionArgs)
	if err != nil {
		return result, err
	}
	result.Version = version
	return result, nil
}

func readVersion(ctx context.Context, path string, args []string) (string, error) {
	cmd := exec.CommandContext(ctx, path, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", &ProbeError{
			Err:    err,
			Stderr: strings.TrimSpace(stderr.String()),
			Step:   "version check of " + path,
		}
	}

	if line := firstLine(stdout.String()); line != "" {
		return line, nil
	}
	return firstLine(stderr.String()), nil
}

func firstLine(s string) string {
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return line
		}
	}
	return ""
}

// IsProbeError reports whether err came from running a tool.
func IsProbeError(err error) bool {
	var probeErr *ProbeError
	return errors.As(err, &probeErr)
}
