// Package config provides configuration file parsing, default locations and
// profile persistence.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const appName = "hd2mm"

// ExpandPath replaces a leading "~" with the user's home directory.
// Other paths are returned unchanged.
func ExpandPath(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

// DefaultConfigDir returns ~/.config/hd2mm
func DefaultConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home directory: %w", err)
	}
	return filepath.Join(home, ".config", appName), nil
}

// DefaultStorageDir returns ~/.local/share/hd2mm
func DefaultStorageDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home directory: %w", err)
	}
	return filepath.Join(home, ".local", "share", appName), nil
}

// DefaultTempDir returns a hd2mm directory under the system temp directory
func DefaultTempDir() string {
	return filepath.Join(os.TempDir(), appName)
}
