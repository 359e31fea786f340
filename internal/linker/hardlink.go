package linker

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"hd2mm/internal/domain"
)

// HardlinkLinker places patch files as hard links (same filesystem only)
type HardlinkLinker struct{}

// NewHardlink creates a new hardlink linker
func NewHardlink() *HardlinkLinker {
	return &HardlinkLinker{}
}

// Deploy creates a hard link at dst to src
func (l *HardlinkLinker) Deploy(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return fmt.Errorf("creating destination dir: %w", err)
	}
	if err := checkFree(dst); err != nil {
		return err
	}

	if err := os.Link(src, dst); err != nil {
		if errors.Is(err, os.ErrExist) {
			return fmt.Errorf("%w: %s", domain.ErrDestinationExists, dst)
		}
		return fmt.Errorf("creating hardlink: %w", err)
	}

	return nil
}

// Undeploy removes the file at dst
func (l *HardlinkLinker) Undeploy(dst string) error {
	return removeFile(dst)
}

// IsDeployed reports whether dst and src are the same file
func (l *HardlinkLinker) IsDeployed(src, dst string) (bool, error) {
	dstInfo, err := os.Stat(dst)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	srcInfo, err := os.Stat(src)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return os.SameFile(srcInfo, dstInfo), nil
}

// Method returns the link method
func (l *HardlinkLinker) Method() domain.LinkMethod {
	return domain.LinkHardlink
}
