package project

import (
	"errors"
	"fmt"
	"os"

	"github.com/gil0mendes/LAOS/internal/cache"
	"github.com/gil0mendes/LAOS/internal/config"
	"github.com/gil0mendes/LAOS/internal/di"
	"github.com/gil0mendes/LAOS/internal/logging"
	"github.com/gil0mendes/LAOS/internal/services"
	"github.com/gil0mendes/LAOS/pkg/manifest"
)

// Runtime is what the root command prepares for its subcommands.
type Runtime struct {
	Config    *config.Config
	Logger    logging.Logger
	Container *di.Container
}

var errNotReady = errors.New("runtime is not initialized")

// Plain reports whether spinners, colors and prompts are off.
func (r *Runtime) Plain() bool {
	return r.Config != nil && r.Config.UI.Plain
}

// LoadManifest parses the manifest named by the configuration or, when none
// is named, the first one found from the working directory upwards. The
// returned path is absolute.
func (r *Runtime) LoadManifest() (*manifest.BuildManifest, string, error) {
	if r.Config == nil {
		return nil, "", errNotReady
	}

	path := r.Config.Manifest.Path
	if path == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, "", fmt.Errorf("failed to get current directory: %w", err)
		}
		if path, err = manifest.FindManifest(cwd); err != nil {
			return nil, "", err
		}
	}

	m, err := manifest.ParseManifest(path)
	if err != nil {
		return nil, "", err
	}

	absPath, err := absolute(path)
	if err != nil {
		return nil, "", err
	}

	r.Logger.Debugf("using manifest %s", absPath)
	return m, absPath, nil
}

// ConfigureService returns the configure service of the container.
func (r *Runtime) ConfigureService() (services.ConfigureService, error) {
	if r.Container == nil {
		return nil, errNotReady
	}
	return r.Container.GetConfigureService()
}

// Cache returns the configure cache of the container.
func (r *Runtime) Cache() (cache.Cache, error) {
	if r.Container == nil {
		return nil, errNotReady
	}
	return r.Container.GetCache()
}
