// Package linker places resolved patch files into the game's data directory.
package linker

import (
	"errors"
	"fmt"
	"os"

	"hd2mm/internal/domain"
)

// Linker places and removes patch files in the game's data directory.
// Deploy never replaces an existing destination.
type Linker interface {
	Deploy(src, dst string) error
	Undeploy(dst string) error
	IsDeployed(src, dst string) (bool, error)
	Method() domain.LinkMethod
}

// New creates a linker for the given method
func New(method domain.LinkMethod) Linker {
	switch method {
	case domain.LinkSymlink:
		return NewSymlink()
	case domain.LinkHardlink:
		return NewHardlink()
	default:
		return NewCopy()
	}
}

// checkFree fails with ErrDestinationExists if anything is already at dst
func checkFree(dst string) error {
	_, err := os.Lstat(dst)
	if err == nil {
		return fmt.Errorf("%w: %s", domain.ErrDestinationExists, dst)
	}
	if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("checking destination: %w", err)
	}
	return nil
}

// removeFile deletes dst, treating a missing file as already removed
func removeFile(dst string) error {
	if err := os.Remove(dst); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing file: %w", err)
	}
	return nil
}
