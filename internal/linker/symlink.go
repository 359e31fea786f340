package linker

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"hd2mm/internal/domain"
)

// SymlinkLinker places patch files as symbolic links into the mod store
type SymlinkLinker struct{}

// NewSymlink creates a new symlink linker
func NewSymlink() *SymlinkLinker {
	return &SymlinkLinker{}
}

// Deploy creates a symlink at dst pointing to src
func (l *SymlinkLinker) Deploy(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return fmt.Errorf("creating destination dir: %w", err)
	}
	if err := checkFree(dst); err != nil {
		return err
	}

	if err := os.Symlink(src, dst); err != nil {
		if errors.Is(err, os.ErrExist) {
			return fmt.Errorf("%w: %s", domain.ErrDestinationExists, dst)
		}
		return fmt.Errorf("creating symlink: %w", err)
	}

	return nil
}

// Undeploy removes the symlink at dst. Regular files are left alone.
func (l *SymlinkLinker) Undeploy(dst string) error {
	info, err := os.Lstat(dst)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil // Already removed
		}
		return fmt.Errorf("checking file: %w", err)
	}

	if info.Mode()&os.ModeSymlink == 0 {
		return fmt.Errorf("not a symlink: %s", dst)
	}

	return removeFile(dst)
}

// IsDeployed reports whether dst is a symlink pointing to src
func (l *SymlinkLinker) IsDeployed(src, dst string) (bool, error) {
	info, err := os.Lstat(dst)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	if info.Mode()&os.ModeSymlink == 0 {
		return false, nil
	}

	target, err := os.Readlink(dst)
	if err != nil {
		return false, fmt.Errorf("reading symlink: %w", err)
	}
	return target == src, nil
}

// Method returns the link method
func (l *SymlinkLinker) Method() domain.LinkMethod {
	return domain.LinkSymlink
}
