// Package core implements the mod engine: the mod store and archive
// ingestion, profile selection state, deployment resolution and the write
// step that places resolved patch files into the game's data directory.
package core

import (
	"fmt"
	"path/filepath"

	"hd2mm/internal/domain"
	"hd2mm/internal/linker"
	"hd2mm/internal/storage/config"
	"hd2mm/internal/storage/db"
	"hd2mm/internal/storage/layout"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// Options configures a ModManager
type Options struct {
	GamePath    string // Game installation root, or a direct child of it
	StoragePath string // Existing directory holding mods, profiles and the ledger
	TempPath    string // Existing directory for archive extraction
	LinkMethod  domain.LinkMethod
	Logger      *log.Logger // Defaults to log.Default()
}

// ModManager owns the validated paths, the mod store and the profiles.
// It is not safe for concurrent use.
type ModManager struct {
	gamePath string
	tempPath string
	layout   *layout.Layout

	store     *ModStore
	profiles  []*domain.Profile
	db        *db.DB
	linker    linker.Linker
	extractor *Extractor
	log       *log.Logger
}

// New validates the configured paths, scans the mod store and loads every
// profile. Any invalid path or unreadable mod fails construction.
func New(opts Options) (*ModManager, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	gamePath, err := ValidateGamePath(opts.GamePath)
	if err != nil {
		return nil, err
	}
	storagePath, err := ValidateDir(opts.StoragePath, domain.ErrInvalidStoragePath)
	if err != nil {
		return nil, err
	}
	tempPath, err := ValidateDir(opts.TempPath, domain.ErrInvalidTempPath)
	if err != nil {
		return nil, err
	}

	lay := layout.New(storagePath)
	if err := lay.Ensure(); err != nil {
		return nil, err
	}

	store, err := scanStore(lay.ModsDir(), logger)
	if err != nil {
		return nil, err
	}

	profiles, err := config.LoadProfiles(lay.ProfilesDir())
	if err != nil {
		return nil, fmt.Errorf("loading profiles: %w", err)
	}

	database, err := db.New(lay.DBPath())
	if err != nil {
		return nil, err
	}

	m := &ModManager{
		gamePath:  gamePath,
		tempPath:  tempPath,
		layout:    lay,
		store:     store,
		profiles:  profiles,
		db:        database,
		linker:    linker.New(opts.LinkMethod),
		extractor: NewExtractor(),
		log:       logger,
	}
	m.reconcileProfiles()

	logger.Debug("mod manager ready", "game", gamePath, "storage", storagePath,
		"mods", store.Len(), "profiles", len(profiles), "link", m.linker.Method())

	return m, nil
}

// Close releases the deployment ledger
func (m *ModManager) Close() error {
	if m.db != nil {
		return m.db.Close()
	}
	return nil
}

// GamePath returns the validated game installation root
func (m *ModManager) GamePath() string {
	return m.gamePath
}

// DataDir returns the game's data directory patch files are deployed to
func (m *ModManager) DataDir() string {
	return filepath.Join(m.gamePath, "data")
}

// StoragePath returns the storage root
func (m *ModManager) StoragePath() string {
	return m.layout.Root()
}

// TempPath returns the extraction root
func (m *ModManager) TempPath() string {
	return m.tempPath
}

// LinkMethod returns how deployed files are placed
func (m *ModManager) LinkMethod() domain.LinkMethod {
	return m.linker.Method()
}

// Store returns the mod store
func (m *ModManager) Store() *ModStore {
	return m.store
}

// Mods returns the installed mods in store order
func (m *ModManager) Mods() []*domain.Mod {
	return m.store.Mods()
}

// HasMod reports whether a mod with guid is installed
func (m *ModManager) HasMod(guid uuid.UUID) bool {
	return m.store.Has(guid)
}

// Mod returns the installed mod with guid
func (m *ModManager) Mod(guid uuid.UUID) (*domain.Mod, error) {
	mod := m.store.Get(guid)
	if mod == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrModNotFound, guid)
	}
	return mod, nil
}

// reconcileProfiles aligns each stored selection with its mod's current option count
func (m *ModManager) reconcileProfiles() {
	for _, p := range m.profiles {
		for guid, state := range p.Mods {
			mod := m.store.Get(guid)
			if mod == nil {
				continue
			}
			want := len(mod.Manifest.Options())
			have := len(state.Options)
			if state.Reconcile(want) {
				m.log.Warn("profile selection out of date with manifest",
					"profile", p.Name, "mod", mod.Name(), "options", have, "manifest_options", want)
			}
		}
	}
}
