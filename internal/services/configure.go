package services

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/gil0mendes/LAOS/internal/cache"
	"github.com/gil0mendes/LAOS/internal/logging"
	"github.com/gil0mendes/LAOS/pkg/buildutil"
	laoserrors "github.com/gil0mendes/LAOS/pkg/errors"
	"github.com/gil0mendes/LAOS/pkg/manifest"
	"github.com/gil0mendes/LAOS/pkg/toolchain"
	"github.com/gil0mendes/LAOS/pkg/types"
)

// ConfigureService defines the operations behind the configure phase
type ConfigureService interface {
	// Configure resolves features, probes tools and resolves every source group
	Configure(ctx context.Context, req ConfigureRequest) (*types.Configuration, error)

	// ResolveGroup resolves a single source group
	ResolveGroup(req ConfigureRequest, group string) ([]buildutil.FileRef, error)

	// CheckTools probes every tool declared by the manifest
	CheckTools(ctx context.Context, m *manifest.BuildManifest) ([]toolchain.Result, error)

	// LastConfiguration returns the cached result of the last configure run
	LastConfiguration(manifestPath string) (*types.Configuration, error)
}

// ConfigureRequest carries one configure invocation
type ConfigureRequest struct {
	// Absolute path of the manifest; source paths are relative to its directory
	ManifestPath string
	Manifest     *manifest.BuildManifest

	// Feature states given on the command line or read from a .config file
	Overrides map[string]bool

	// HelpMode is set when the user asked for option help. Stop errors are
	// suppressed and nothing is cached.
	HelpMode bool

	// Progress, if set, is told about each tool check and group resolution
	Progress func(step string)
}

func (r ConfigureRequest) step(format string, args ...interface{}) {
	if r.Progress != nil {
		r.Progress(fmt.Sprintf(format, args...))
	}
}

type configureService struct {
	locator      *buildutil.Locator
	cache        cache.Cache
	logger       logging.Logger
	probeTimeout time.Duration
	now          func() time.Time
}

// NewConfigureService creates a new instance of the configure service. A
// zero probeTimeout leaves version checks unbounded.
func NewConfigureService(locator *buildutil.Locator, store cache.Cache, logger logging.Logger, probeTimeout time.Duration) ConfigureService {
	if store == nil {
		store = cache.Disabled()
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &configureService{
		locator:      locator,
		cache:        store,
		logger:       logger,
		probeTimeout: probeTimeout,
		now:          time.Now,
	}
}

// Configure runs the configure phase for req
func (s *configureService) Configure(ctx context.Context, req ConfigureRequest) (*types.Configuration, error) {
	m := req.Manifest
	logger := s.logger.With(logging.String("project", m.Project.Name), logging.Bool("help_mode", req.HelpMode))

	features, err := s.features(req)
	if err != nil {
		return nil, err
	}

	result := &types.Configuration{
		ManifestPath: req.ManifestPath,
		Project:      m.Project.Name,
		Features:     features,
		Groups:       make(map[string][]buildutil.FileRef, len(m.Sources)),
		HelpMode:     req.HelpMode,
		ConfiguredAt: s.now().UTC(),
	}

	// Probe tools
	for _, tool := range m.Tools {
		req.step("Checking %s", tool.Name)
		probe, err := s.check(ctx, tool)
		if err != nil && !toolchain.IsProbeError(err) {
			return nil, fmt.Errorf("failed to probe %s: %w", tool.Name, err)
		}
		if probe != nil {
			result.Tools = append(result.Tools, *probe)
		}

		switch {
		case err != nil:
			if tool.Required {
				if stop := buildutil.Stopf(req.HelpMode, "%s: %v", tool.Name, err); stop != nil {
					return nil, stop
				}
			}
			result.Warnings = append(result.Warnings, err.Error())
			logger.Warnf("probe of %s failed: %v", tool.Name, err)
		case !probe.Found:
			if tool.Required {
				if stop := buildutil.Stop(tool.MissingMessage(), req.HelpMode); stop != nil {
					return nil, stop
				}
			}
			result.Warnings = append(result.Warnings, tool.MissingMessage())
			logger.Warnf("tool %s not found", tool.Name)
		default:
			logger.Debugf("found %s at %s", tool.Name, probe.Path)
		}
	}

	// Resolve source groups
	dir := filepath.Dir(req.ManifestPath)
	for _, group := range m.Groups() {
		req.step("Resolving %s", group)
		refs, err := buildutil.FeatureSourcesIn(dir, features, m.Sources[group].Entries())
		if err != nil {
			return nil, fmt.Errorf("source group %s: %w", group, err)
		}
		result.Groups[group] = refs
		logger.Debugf("group %s resolved to %d of %d sources", group, len(refs), len(m.Sources[group]))
	}

	digest, err := hashConfiguration(result)
	if err != nil {
		return nil, err
	}
	result.Digest = digest

	if !req.HelpMode {
		if err := s.cache.Put(result); err != nil {
			// A configuration that cannot be cached is still valid
			logger.Warnf("failed to cache configuration: %v", err)
		}
	}

	logger.Printf("configured %s (%s)", m.Project.Name, digest)
	return result, nil
}

// ResolveGroup resolves one source group of the manifest
func (s *configureService) ResolveGroup(req ConfigureRequest, group string) ([]buildutil.FileRef, error) {
	entries, err := req.Manifest.Entries(group)
	if err != nil {
		return nil, err
	}

	features, err := s.features(req)
	if err != nil {
		return nil, err
	}

	return buildutil.FeatureSourcesIn(filepath.Dir(req.ManifestPath), features, entries)
}

// CheckTools probes every tool declared by the manifest, in declaration order
func (s *configureService) CheckTools(ctx context.Context, m *manifest.BuildManifest) ([]toolchain.Result, error) {
	results := make([]toolchain.Result, 0, len(m.Tools))
	var probeErrs []error

	for _, tool := range m.Tools {
		probe, err := s.check(ctx, tool)
		if err != nil {
			if !toolchain.IsProbeError(err) {
				return nil, err
			}
			probeErrs = append(probeErrs, err)
		}
		results = append(results, *probe)
	}

	return results, errors.Join(probeErrs...)
}

// LastConfiguration returns the cached configuration of a manifest
func (s *configureService) LastConfiguration(manifestPath string) (*types.Configuration, error) {
	return s.cache.Get(manifestPath)
}

// check probes a single tool within the probe timeout
func (s *configureService) check(ctx context.Context, tool manifest.Tool) (*toolchain.Result, error) {
	if s.probeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.probeTimeout)
		defer cancel()
	}
	return toolchain.Check(ctx, s.locator, toolchain.Probe{Name: tool.Name, VersionArgs: tool.VersionArgs})
}

// features merges option defaults and overrides. An override naming an
// undeclared option stops the configuration outside of help mode; in help
// mode unknown overrides are dropped.
func (s *configureService) features(req ConfigureRequest) (buildutil.FeatureConfig, error) {
	features, err := req.Manifest.FeatureConfig(req.Overrides)
	if err == nil {
		return features, nil
	}
	if !errors.Is(err, laoserrors.ErrUnknownOption) {
		return nil, err
	}

	if stop := buildutil.Stop(err.Error(), req.HelpMode); stop != nil {
		return nil, stop
	}

	known := make(map[string]bool, len(req.Overrides))
	for name, value := range req.Overrides {
		if _, ok := req.Manifest.Option(name); ok {
			known[name] = value
		}
	}
	return req.Manifest.FeatureConfig(known)
}

// hashConfiguration computes a digest of everything that influences the build
func hashConfiguration(cfg *types.Configuration) (string, error) {
	h := sha256.New()
	if err := hashJSON(h, struct {
		Project  string                         `json:"project"`
		Features buildutil.FeatureConfig        `json:"features"`
		Groups   map[string][]buildutil.FileRef `json:"groups"`
		Tools    []toolchain.Result             `json:"tools"`
	}{cfg.Project, cfg.Features, cfg.Groups, cfg.Tools}); err != nil {
		return "", err
	}
	return fmt.Sprintf("sha256:%x", h.Sum(nil)), nil
}

func hashJSON(hasher io.Writer, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if _, err := hasher.Write(data); err != nil {
		return fmt.Errorf("failed to hash config: %w", err)
	}
	return nil
}
