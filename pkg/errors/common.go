package errors

import (
	"errors"
	"fmt"
)

var (
	ErrManifestNotFound = errors.New("build manifest not found")
	ErrInvalidManifest  = errors.New("invalid build manifest")
	ErrUnknownGroup     = errors.New("unknown source group")
	ErrUnknownOption    = errors.New("unknown build option")

	ErrToolMissing = errors.New("required tool not found")
	ErrProbeFailed = errors.New("tool probe failed")

	ErrCacheMiss = errors.New("no cached configuration")
)

func WithDetails(err error, details string) error {
	return fmt.Errorf("%s: %w", details, err)
}

func IsManifestNotFound(err error) bool {
	return errors.Is(err, ErrManifestNotFound)
}

func IsInvalidManifest(err error) bool {
	return errors.Is(err, ErrInvalidManifest)
}

func IsCacheMiss(err error) bool {
	return errors.Is(err, ErrCacheMiss)
}
