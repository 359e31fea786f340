package core

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"hd2mm/internal/domain"
	"hd2mm/internal/manifest"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// ModError reports a mod directory that could not be loaded during the
// start-up scan of the mod store.
type ModError struct {
	Dir string
	Err error
}

func (e *ModError) Error() string {
	return fmt.Sprintf("loading mod %s: %v", e.Dir, e.Err)
}

func (e *ModError) Unwrap() error {
	return e.Err
}

// ModStore is the ordered set of installed mods. GUIDs are unique.
type ModStore struct {
	mods []*domain.Mod
}

// Mods returns the installed mods in store order
func (s *ModStore) Mods() []*domain.Mod {
	return s.mods
}

// Len returns the number of installed mods
func (s *ModStore) Len() int {
	return len(s.mods)
}

// Has reports whether a mod with guid is installed
func (s *ModStore) Has(guid uuid.UUID) bool {
	return s.Get(guid) != nil
}

// Get returns the mod with guid, or nil
func (s *ModStore) Get(guid uuid.UUID) *domain.Mod {
	for _, m := range s.mods {
		if m.GUID() == guid {
			return m
		}
	}
	return nil
}

func (s *ModStore) add(m *domain.Mod) error {
	if s.Has(m.GUID()) {
		return fmt.Errorf("%w: %s", domain.ErrModExists, m.GUID())
	}
	s.mods = append(s.mods, m)
	return nil
}

func (s *ModStore) remove(guid uuid.UUID) {
	for i, m := range s.mods {
		if m.GUID() == guid {
			s.mods = append(s.mods[:i], s.mods[i+1:]...)
			return
		}
	}
}

// scanStore loads every immediate subdirectory of modsDir as a mod. The first
// directory that fails aborts the scan.
func scanStore(modsDir string, logger *log.Logger) (*ModStore, error) {
	store := &ModStore{}

	entries, err := os.ReadDir(modsDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return store, nil
		}
		return nil, fmt.Errorf("reading mods dir: %w", err)
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		dir := filepath.Join(modsDir, entry.Name())

		m, err := manifest.Load(filepath.Join(dir, manifest.FileName))
		if err != nil {
			return nil, &ModError{Dir: entry.Name(), Err: err}
		}
		if err := store.add(&domain.Mod{Manifest: m, Path: dir}); err != nil {
			return nil, &ModError{Dir: entry.Name(), Err: err}
		}

		logger.Debug("loaded mod", "name", m.Name(), "guid", m.GUID(), "legacy", m.IsLegacy())
	}

	return store, nil
}
