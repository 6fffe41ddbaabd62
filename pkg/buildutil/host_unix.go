//go:build unix

package buildutil

import "golang.org/x/sys/unix"

// Access checks the permissions of the calling process on name, honouring
// its real user and group.
func (OSHost) Access(name string, mode uint32) error {
	return unix.Access(name, mode)
}
