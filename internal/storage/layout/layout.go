// Package layout names the files and directories under the storage root.
package layout

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

const (
	modsDir     = "mods"
	profilesDir = "profiles"
	dbFile      = "hd2mm.db"
	lockFile    = "hd2mm.lock"
)

// Layout resolves paths inside a storage root
type Layout struct {
	root string
}

// New creates a layout rooted at root
func New(root string) *Layout {
	return &Layout{root: root}
}

// Root returns the storage root
func (l *Layout) Root() string {
	return l.root
}

// ModsDir holds one directory per installed mod
func (l *Layout) ModsDir() string {
	return filepath.Join(l.root, modsDir)
}

// ProfilesDir holds one JSON file per profile
func (l *Layout) ProfilesDir() string {
	return filepath.Join(l.root, profilesDir)
}

// ModPath returns the directory a mod with the given directory name is stored in
func (l *Layout) ModPath(dirName string) string {
	return filepath.Join(l.ModsDir(), dirName)
}

// DBPath returns the deployment ledger database path
func (l *Layout) DBPath() string {
	return filepath.Join(l.root, dbFile)
}

// LockPath returns the single-instance lock file path
func (l *Layout) LockPath() string {
	return filepath.Join(l.root, lockFile)
}

// Ensure creates the mods and profiles directories if they are missing
func (l *Layout) Ensure() error {
	for _, dir := range []string{l.ModsDir(), l.ProfilesDir()} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}
	return nil
}

// ListFiles returns all files under dir, relative to dir
func ListFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		relPath, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		files = append(files, relPath)
		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("listing files: %w", err)
	}

	return files, nil
}

// Size returns the total size of the files under dir
func Size(dir string) (int64, error) {
	var totalSize int64
	err := filepath.WalkDir(dir, func(_ string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		totalSize += info.Size()
		return nil
	})

	if err != nil {
		return 0, fmt.Errorf("calculating size: %w", err)
	}

	return totalSize, nil
}
