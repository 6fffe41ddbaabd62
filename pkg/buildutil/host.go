package buildutil

import (
	"io/fs"
	"os"
)

// OSHost is the Host of the running process.
type OSHost struct{}

func (OSHost) LookupEnv(key string) (string, bool) {
	return os.LookupEnv(key)
}

func (OSHost) Stat(name string) (fs.FileInfo, error) {
	return os.Stat(name)
}
