package manifest

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
)

// ParseOverrides parses KEY=VALUE arguments into feature states.
func ParseOverrides(args []string) (map[string]bool, error) {
	overrides := make(map[string]bool, len(args))
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid override %q: expected KEY=VALUE", arg)
		}
		enabled, err := ParseBool(value)
		if err != nil {
			return nil, fmt.Errorf("invalid override %q: %w", arg, err)
		}
		overrides[key] = enabled
	}
	return overrides, nil
}

var notSetLine = regexp.MustCompile(`^#\s*(\S+) is not set\s*$`)

// ReadConfigFile reads a Kconfig style ".config" file. Lines look like
// "CONFIG_X=y" or "# CONFIG_X is not set"; other comments are ignored.
func ReadConfigFile(path string) (map[string]bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	overrides, err := ParseConfig(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return overrides, nil
}

// ParseConfig parses Kconfig style assignments from r.
func ParseConfig(r io.Reader) (map[string]bool, error) {
	overrides := make(map[string]bool)
	scanner := bufio.NewScanner(r)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "#") {
			if m := notSetLine.FindStringSubmatch(line); m != nil {
				overrides[m[1]] = false
			}
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return nil, fmt.Errorf("line %d: expected KEY=VALUE", lineNo)
		}
		overrides[strings.TrimSpace(key)] = Truthy(value)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return overrides, nil
}

// Truthy reports whether a Kconfig value enables a feature. Known boolean
// spellings are honoured; any other non-empty value, such as a string or hex
// option, counts as enabled.
func Truthy(value string) bool {
	if enabled, err := ParseBool(value); err == nil {
		return enabled
	}
	return true
}

// Merge returns the union of the given override sets. Later sets win.
func Merge(sets ...map[string]bool) map[string]bool {
	merged := make(map[string]bool)
	for _, set := range sets {
		for k, v := range set {
			merged[k] = v
		}
	}
	return merged
}
