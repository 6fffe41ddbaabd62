package manifest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	laoserrors "github.com/gil0mendes/LAOS/pkg/errors"
	"github.com/go-git/go-git/v5"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v2"
)

// DefaultFiles are the manifest names looked up when no path is given, in
// order of preference.
var DefaultFiles = []string{"laos.yml", "laos.yaml", "laos.toml"}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterStructValidation(func(sl validator.StructLevel) {
		source := sl.Current().Interface().(Source)
		if strings.TrimSpace(source.Path) == "" {
			sl.ReportError(source.Path, "Path", "Path", "required", "")
		}
	}, Source{})
	return v
}

// ParseManifest reads and validates the manifest at filePath. An empty path
// means the first of DefaultFiles present in the current directory.
func ParseManifest(filePath string) (*BuildManifest, error) {
	if filePath == "" {
		found := false
		for _, file := range DefaultFiles {
			if _, err := os.Stat(file); err == nil {
				filePath = file
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("%w: expected %s in current directory", laoserrors.ErrManifestNotFound, DefaultFiles[0])
		}
	}

	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve manifest path: %w", err)
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", laoserrors.ErrManifestNotFound, absPath)
		}
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	return Decode(data, FormatOf(absPath))
}

// Decode parses data in the given format ("yaml" or "toml") and validates it.
func Decode(data []byte, format string) (*BuildManifest, error) {
	var m BuildManifest

	switch format {
	case "toml":
		if err := toml.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("%w: %v", laoserrors.ErrInvalidManifest, err)
		}
	case "yaml":
		if err := yaml.UnmarshalStrict(data, &m); err != nil {
			return nil, fmt.Errorf("%w: %v", laoserrors.ErrInvalidManifest, err)
		}
	default:
		return nil, fmt.Errorf("%w: unsupported format %q", laoserrors.ErrInvalidManifest, format)
	}

	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Validate checks required fields and duplicate names.
func (m *BuildManifest) Validate() error {
	if err := validate.Struct(m); err != nil {
		return fmt.Errorf("%w: %v", laoserrors.ErrInvalidManifest, err)
	}

	seen := make(map[string]bool, len(m.Options))
	for _, opt := range m.Options {
		if seen[opt.Name] {
			return fmt.Errorf("%w: option %s declared twice", laoserrors.ErrInvalidManifest, opt.Name)
		}
		seen[opt.Name] = true
	}

	tools := make(map[string]bool, len(m.Tools))
	for _, tool := range m.Tools {
		if tools[tool.Name] {
			return fmt.Errorf("%w: tool %s declared twice", laoserrors.ErrInvalidManifest, tool.Name)
		}
		tools[tool.Name] = true
	}

	return nil
}

// FindManifest looks for one of DefaultFiles in start and its parents. The
// search stops at the root of the enclosing git worktree, or at the
// filesystem root outside of one.
func FindManifest(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", start, err)
	}

	stop := worktreeRoot(dir)
	for {
		for _, name := range DefaultFiles {
			candidate := filepath.Join(dir, name)
			if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
				return candidate, nil
			}
		}

		parent := filepath.Dir(dir)
		if dir == stop || parent == dir {
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("%w: no %s in %s or its parents", laoserrors.ErrManifestNotFound, strings.Join(DefaultFiles, ", "), start)
}

// worktreeRoot returns the top directory of the git worktree containing dir,
// or "" when dir is not inside one.
func worktreeRoot(dir string) string {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return ""
	}
	wt, err := repo.Worktree()
	if err != nil {
		return ""
	}
	return filepath.Clean(wt.Filesystem.Root())
}

// FormatOf reports the manifest format implied by the file name.
func FormatOf(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return "toml"
	}
	return "yaml"
}
