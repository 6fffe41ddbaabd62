package buildutil

import (
	"errors"
	"io/fs"
	"path/filepath"
	"strings"
)

// ErrPathUnset is returned when a bare program name is looked up and the
// PATH variable does not exist.
var ErrPathUnset = errors.New("PATH environment variable is not set")

// AccessExecute is the access mode that asks for execute permission.
const AccessExecute uint32 = 0x1

// Host is the slice of the operating system the Locator needs: environment
// variables and file metadata.
type Host interface {
	LookupEnv(key string) (string, bool)
	Stat(name string) (fs.FileInfo, error)
	Access(name string, mode uint32) error
}

// Locator finds executables the way a shell does.
type Locator struct {
	host Host
}

// NewLocator returns a Locator backed by host. A nil host means the running
// process.
func NewLocator(host Host) *Locator {
	if host == nil {
		host = OSHost{}
	}
	return &Locator{host: host}
}

// Which returns the resolved path of program and true, or "" and false when
// it cannot be found.
//
// A program with a directory component is checked as is and PATH is not
// consulted. Otherwise every PATH entry, with surrounding quotes removed, is
// tried in order. A missing PATH variable is an error.
func (l *Locator) Which(program string) (string, bool, error) {
	if dir, _ := filepath.Split(program); dir != "" {
		if l.IsExecutable(program) {
			return program, true, nil
		}
		return "", false, nil
	}

	pathEnv, ok := l.host.LookupEnv("PATH")
	if !ok {
		return "", false, ErrPathUnset
	}

	for _, dir := range strings.Split(pathEnv, string(filepath.ListSeparator)) {
		dir = strings.Trim(dir, `"`)
		candidate := filepath.Join(dir, program)
		if l.IsExecutable(candidate) {
			return candidate, true, nil
		}
	}

	return "", false, nil
}

// IsExecutable reports whether path is a regular file the process may
// execute.
func (l *Locator) IsExecutable(path string) bool {
	info, err := l.host.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return false
	}
	return l.host.Access(path, AccessExecute) == nil
}

// Which looks program up against the running process environment.
func Which(program string) (string, bool, error) {
	return NewLocator(nil).Which(program)
}
