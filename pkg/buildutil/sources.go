package buildutil

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

var (
	// ErrUnknownFeature is returned when an entry names a feature missing
	// from the FeatureConfig.
	ErrUnknownFeature = errors.New("unknown feature")
	// ErrNoFeatures is returned for a conditional entry declared without
	// features.
	ErrNoFeatures = errors.New("conditional source has no features")
)

// FeatureConfig maps a feature name to its enabled state.
type FeatureConfig map[string]bool

// Entry is a single item of a source list. It is either a PlainFile or a
// ConditionalFile.
type Entry interface {
	SourcePath() string
	isEntry()
}

// PlainFile is always part of the resolved list.
type PlainFile struct {
	Path string
}

func (p PlainFile) SourcePath() string { return p.Path }
func (PlainFile) isEntry()             {}

// ConditionalFile is part of the resolved list when any of its features is
// enabled.
type ConditionalFile struct {
	Features []string
	Path     string
}

func (c ConditionalFile) SourcePath() string { return c.Path }
func (ConditionalFile) isEntry()             {}

// Plain returns a PlainFile entry for path.
func Plain(path string) Entry {
	return PlainFile{Path: path}
}

// Conditional returns a ConditionalFile entry for path. It panics when no
// features are given.
func Conditional(path string, features ...string) Entry {
	if len(features) == 0 {
		panic(fmt.Sprintf("buildutil: conditional source %q declared without features", path))
	}
	return ConditionalFile{
		Features: append([]string(nil), features...),
		Path:     path,
	}
}

// UnknownFeatureError is returned when an entry names a feature that is
// missing from the FeatureConfig.
type UnknownFeatureError struct {
	Feature string
	Path    string
}

func (e *UnknownFeatureError) Error() string {
	return fmt.Sprintf("unknown feature %q referenced by %s", e.Feature, e.Path)
}

func (e *UnknownFeatureError) Unwrap() error {
	return ErrUnknownFeature
}

// FileRef is a resolved source file. Path is kept as declared and Dir is the
// directory it is relative to, if any.
type FileRef struct {
	Dir  string `json:"dir,omitempty"`
	Path string `json:"path"`
}

// String returns the path of the file, joined with Dir when Path is relative.
func (f FileRef) String() string {
	if f.Dir == "" || filepath.IsAbs(f.Path) {
		return f.Path
	}
	return filepath.Join(f.Dir, f.Path)
}

// FeatureSources resolves entries against config. The result keeps the input
// order, with disabled conditional entries left out.
func FeatureSources(config FeatureConfig, entries []Entry) ([]FileRef, error) {
	return FeatureSourcesIn("", config, entries)
}

// FeatureSourcesIn is FeatureSources with every FileRef anchored at dir.
func FeatureSourcesIn(dir string, config FeatureConfig, entries []Entry) ([]FileRef, error) {
	output := make([]FileRef, 0, len(entries))

	for _, entry := range entries {
		switch e := entry.(type) {
		case PlainFile:
			output = append(output, FileRef{Dir: dir, Path: e.Path})
		case ConditionalFile:
			enabled, err := anyEnabled(config, e)
			if err != nil {
				return nil, err
			}
			if enabled {
				output = append(output, FileRef{Dir: dir, Path: e.Path})
			}
		default:
			return nil, fmt.Errorf("unsupported source entry %T", entry)
		}
	}

	return output, nil
}

// anyEnabled looks up every feature of the entry before combining them, so
// an unknown name is reported even when an earlier feature is enabled.
func anyEnabled(config FeatureConfig, entry ConditionalFile) (bool, error) {
	if len(entry.Features) == 0 {
		return false, fmt.Errorf("%w: %s", ErrNoFeatures, entry.Path)
	}

	enabled := false
	for _, feature := range entry.Features {
		value, ok := config[feature]
		if !ok {
			return false, &UnknownFeatureError{Feature: feature, Path: entry.Path}
		}
		enabled = enabled || value
	}
	return enabled, nil
}

// Paths returns the string form of every ref.
func Paths(refs []FileRef) []string {
	paths := make([]string, len(refs))
	for i, ref := range refs {
		paths[i] = ref.String()
	}
	return paths
}

// Describe renders an entry the way it is written in a manifest.
func Describe(entry Entry) string {
	switch e := entry.(type) {
	case ConditionalFile:
		return fmt.Sprintf("[%s] %s", strings.Join(e.Features, " | "), e.Path)
	default:
		return entry.SourcePath()
	}
}
