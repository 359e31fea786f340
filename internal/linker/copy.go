package linker

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"hd2mm/internal/domain"
)

// CopyLinker places patch files by copying them
type CopyLinker struct{}

// NewCopy creates a new copy linker
func NewCopy() *CopyLinker {
	return &CopyLinker{}
}

// Deploy copies src to a new file at dst
func (l *CopyLinker) Deploy(src, dst string) (err error) {
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return fmt.Errorf("creating destination dir: %w", err)
	}

	srcFile, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("opening source: %w", err)
	}
	defer srcFile.Close()

	srcInfo, err := srcFile.Stat()
	if err != nil {
		return fmt.Errorf("stat source: %w", err)
	}

	dstFile, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_EXCL, srcInfo.Mode().Perm())
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return fmt.Errorf("%w: %s", domain.ErrDestinationExists, dst)
		}
		return fmt.Errorf("creating destination: %w", err)
	}
	defer func() {
		if cerr := dstFile.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("closing destination: %w", cerr)
		}
	}()

	if _, err := io.Copy(dstFile, srcFile); err != nil {
		return fmt.Errorf("copying file: %w", err)
	}

	return nil
}

// Undeploy removes the file at dst
func (l *CopyLinker) Undeploy(dst string) error {
	return removeFile(dst)
}

// IsDeployed reports whether dst is a regular file the same size as src
func (l *CopyLinker) IsDeployed(src, dst string) (bool, error) {
	dstInfo, err := os.Lstat(dst)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	if !dstInfo.Mode().IsRegular() {
		return false, nil
	}
	srcInfo, err := os.Stat(src)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return srcInfo.Size() == dstInfo.Size(), nil
}

// Method returns the link method
func (l *CopyLinker) Method() domain.LinkMethod {
	return domain.LinkCopy
}
