package manifest

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gil0mendes/LAOS/pkg/buildutil"
)

var errEmptySource = errors.New("source entry has an empty path")

// Source is one entry of a source group. It is written either as a path or
// as a list whose last element is the path and whose other elements are the
// features that enable it.
type Source struct {
	Features []string
	Path     string
}

// SourceList is an ordered source group.
type SourceList []Source

// Entry converts s into a buildutil entry.
func (s Source) Entry() buildutil.Entry {
	if len(s.Features) == 0 {
		return buildutil.Plain(s.Path)
	}
	return buildutil.Conditional(s.Path, s.Features...)
}

// Entries converts the list into buildutil entries.
func (l SourceList) Entries() []buildutil.Entry {
	entries := make([]buildutil.Entry, len(l))
	for i, s := range l {
		entries[i] = s.Entry()
	}
	return entries
}

func (s *Source) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var path string
	if err := unmarshal(&path); err == nil {
		return s.set(nil, path)
	}

	var parts []string
	if err := unmarshal(&parts); err != nil {
		return fmt.Errorf("source entry must be a path or a list of features ending with a path: %w", err)
	}
	return s.setParts(parts)
}

func (s Source) MarshalYAML() (interface{}, error) {
	if len(s.Features) == 0 {
		return s.Path, nil
	}
	return append(append([]string(nil), s.Features...), s.Path), nil
}

func (s *Source) UnmarshalTOML(data interface{}) error {
	switch v := data.(type) {
	case string:
		return s.set(nil, v)
	case []interface{}:
		parts := make([]string, len(v))
		for i, item := range v {
			str, ok := item.(string)
			if !ok {
				return fmt.Errorf("source entry element %d is %T, expected a string", i, item)
			}
			parts[i] = str
		}
		return s.setParts(parts)
	default:
		return fmt.Errorf("source entry must be a path or a list of features ending with a path, got %T", data)
	}
}

func (s Source) MarshalTOML() ([]byte, error) {
	if len(s.Features) == 0 {
		return []byte(strconv.Quote(s.Path)), nil
	}

	quoted := make([]string, 0, len(s.Features)+1)
	for _, f := range s.Features {
		quoted = append(quoted, strconv.Quote(f))
	}
	quoted = append(quoted, strconv.Quote(s.Path))
	return []byte("[" + strings.Join(quoted, ", ") + "]"), nil
}

func (s *Source) setParts(parts []string) error {
	if len(parts) < 2 {
		return fmt.Errorf("conditional source entry %v needs at least one feature and a path", parts)
	}
	return s.set(parts[:len(parts)-1], parts[len(parts)-1])
}

func (s *Source) set(features []string, path string) error {
	if strings.TrimSpace(path) == "" {
		return errEmptySource
	}
	for _, f := range features {
		if strings.TrimSpace(f) == "" {
			return fmt.Errorf("source entry %s lists an empty feature name", path)
		}
	}
	s.Features = features
	s.Path = path
	return nil
}

// Value is a feature state. It decodes from booleans, numbers and the usual
// y/n, yes/no, on/off and true/false spellings.
type Value bool

func (v *Value) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var raw interface{}
	if err := unmarshal(&raw); err != nil {
		return err
	}
	b, err := ParseValue(raw)
	if err != nil {
		return err
	}
	*v = Value(b)
	return nil
}

func (v *Value) UnmarshalTOML(data interface{}) error {
	b, err := ParseValue(data)
	if err != nil {
		return err
	}
	*v = Value(b)
	return nil
}

// ParseValue converts a decoded configuration value into a feature state.
func ParseValue(raw interface{}) (bool, error) {
	switch v := raw.(type) {
	case nil:
		return false, nil
	case bool:
		return v, nil
	case int:
		return v != 0, nil
	case int64:
		return v != 0, nil
	case uint64:
		return v != 0, nil
	case float64:
		return v != 0, nil
	case string:
		return ParseBool(v)
	default:
		return false, fmt.Errorf("cannot use %T as a feature value", raw)
	}
}

// ParseBool parses the textual spellings of a feature state.
func ParseBool(s string) (bool, error) {
	v := strings.ToLower(strings.Trim(strings.TrimSpace(s), `"'`))
	switch v {
	case "y", "yes", "on", "true", "1":
		return true, nil
	case "n", "no", "off", "false", "0", "":
		return false, nil
	default:
		if n, err := strconv.ParseFloat(v, 64); err == nil {
			return n != 0, nil
		}
		return false, fmt.Errorf("invalid feature value %q", s)
	}
}
