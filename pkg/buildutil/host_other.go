//go:build !unix

package buildutil

import "os"

// Access only checks that name exists; there are no execute bits to test.
func (OSHost) Access(name string, _ uint32) error {
	_, err := os.Stat(name)
	return err
}
