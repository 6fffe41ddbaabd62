package services

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gil0mendes/LAOS/pkg/manifest"
)

// ProjectService creates new build descriptions
type ProjectService interface {
	// InitProject writes a starter manifest named after the directory
	InitProject(dir string, format string) (string, error)
}

type projectService struct{}

// NewProjectService creates a new instance of the project service
func NewProjectService() ProjectService {
	return &projectService{}
}

// InitProject writes a starter manifest into dir and returns its path. The
// directory is created when missing; an existing manifest is never replaced.
func (p *projectService) InitProject(dir string, format string) (string, error) {
	format = strings.ToLower(format)
	if format == "" {
		format = "yaml"
	}

	fileName, err := manifestFileName(format)
	if err != nil {
		return "", err
	}

	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", dir, err)
	}

	for _, name := range manifest.DefaultFiles {
		if _, err := os.Stat(filepath.Join(absDir, name)); err == nil {
			return "", errors.New("a build manifest already exists in " + absDir)
		}
	}

	if err := os.MkdirAll(absDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	return createManifestFile(absDir, fileName, filepath.Base(absDir), format)
}

func manifestFileName(format string) (string, error) {
	switch format {
	case "yaml", "yml":
		return "laos.yml", nil
	case "toml":
		return "laos.toml", nil
	default:
		return "", fmt.Errorf("unsupported manifest format: %s", format)
	}
}

// createManifestFile writes the starter manifest for project name
func createManifestFile(dir, fileName, name, format string) (string, error) {
	starter := manifest.Starter(name)

	var (
		data []byte
		err  error
	)
	if format == "toml" {
		data, err = starter.MarshalToml()
	} else {
		data, err = starter.MarshalYaml()
	}
	if err != nil {
		return "", fmt.Errorf("failed to marshal manifest: %w", err)
	}

	manifestPath := filepath.Join(dir, fileName)
	if err := os.WriteFile(manifestPath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write manifest file: %w", err)
	}

	return manifestPath, nil
}
