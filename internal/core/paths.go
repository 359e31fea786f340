package core

import (
	"fmt"
	"os"
	"path/filepath"

	"hd2mm/internal/domain"
)

// GameDirName is the directory name of a game installation
const GameDirName = "Helldivers 2"

// ValidateGamePath returns the game installation root for path. path may be
// the installation directory itself or any direct child of it. The root must
// contain both a data and a bin directory.
func ValidateGamePath(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("%w: no path given", domain.ErrInvalidGamePath)
	}

	root := filepath.Clean(path)
	if filepath.Base(root) != GameDirName {
		root = filepath.Dir(root)
	}
	if filepath.Base(root) != GameDirName {
		return "", fmt.Errorf("%w: %s is not a %q directory", domain.ErrInvalidGamePath, path, GameDirName)
	}

	for _, sub := range []string{"data", "bin"} {
		if !isDir(filepath.Join(root, sub)) {
			return "", fmt.Errorf("%w: %s has no %s directory", domain.ErrInvalidGamePath, root, sub)
		}
	}

	return root, nil
}

// ValidateDir checks that path is an existing directory. kind is the
// sentinel wrapped into the returned error.
func ValidateDir(path string, kind error) (string, error) {
	if path == "" {
		return "", fmt.Errorf("%w: no path given", kind)
	}
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", kind, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%w: %s is not a directory", kind, path)
	}
	return filepath.Clean(path), nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
