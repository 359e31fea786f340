package core

import (
	"fmt"

	"hd2mm/internal/domain"
	"hd2mm/internal/storage/config"

	"github.com/google/uuid"
)

// ProfileIndexError reports a profile index with no matching profile
type ProfileIndexError struct {
	Index int
}

func (e *ProfileIndexError) Error() string {
	return fmt.Sprintf("%v: index %d", domain.ErrProfileNotFound, e.Index)
}

func (e *ProfileIndexError) Unwrap() error {
	return domain.ErrProfileNotFound
}

// Profiles returns every loaded profile
func (m *ModManager) Profiles() []*domain.Profile {
	return m.profiles
}

// Profile returns the profile at index
func (m *ModManager) Profile(index int) (*domain.Profile, error) {
	if index < 0 || index >= len(m.profiles) {
		return nil, &ProfileIndexError{Index: index}
	}
	return m.profiles[index], nil
}

// ProfileByName returns the index and profile with the given name
func (m *ModManager) ProfileByName(name string) (int, *domain.Profile, error) {
	for i, p := range m.profiles {
		if p.Name == name {
			return i, p, nil
		}
	}
	return -1, nil, fmt.Errorf("%w: %s", domain.ErrProfileNotFound, name)
}

// CreateProfile adds and persists an empty profile. Names, and the file
// names derived from them, must be unique.
func (m *ModManager) CreateProfile(name string) (*domain.Profile, error) {
	profile := domain.NewProfile(name)
	for _, p := range m.profiles {
		if p.Name == name || p.File == profile.File {
			return nil, fmt.Errorf("%w: %s", domain.ErrProfileExists, name)
		}
	}

	if err := config.SaveProfile(m.layout.ProfilesDir(), profile); err != nil {
		return nil, err
	}
	m.profiles = append(m.profiles, profile)
	return profile, nil
}

// DeleteProfile removes the profile at index and its file
func (m *ModManager) DeleteProfile(index int) error {
	profile, err := m.Profile(index)
	if err != nil {
		return err
	}
	if err := config.DeleteProfile(m.layout.ProfilesDir(), profile); err != nil {
		return err
	}
	m.profiles = append(m.profiles[:index], m.profiles[index+1:]...)
	return nil
}

// SaveProfiles writes every profile to disk
func (m *ModManager) SaveProfiles() error {
	for _, p := range m.profiles {
		if err := config.SaveProfile(m.layout.ProfilesDir(), p); err != nil {
			return fmt.Errorf("saving profile %s: %w", p.Name, err)
		}
	}
	return nil
}

// SetModEnabled includes an installed mod in profile, or toggles its entry.
// A mod new to the profile starts from domain.NewModState.
func (m *ModManager) SetModEnabled(profile *domain.Profile, guid uuid.UUID, enabled bool) error {
	mod, err := m.Mod(guid)
	if err != nil {
		return err
	}
	profile.AddMod(guid, domain.NewModState(len(mod.Manifest.Options())))
	profile.State(guid).Enabled = enabled
	return nil
}

// SetOption selects or deselects option optIndex of a mod in profile. When
// sub is non-negative it becomes the chosen sub-option.
func (m *ModManager) SetOption(profile *domain.Profile, guid uuid.UUID, optIndex int, enabled bool, sub int) error {
	mod, err := m.Mod(guid)
	if err != nil {
		return err
	}
	state := profile.State(guid)
	if state == nil {
		return fmt.Errorf("%w: %s is not in profile %s", domain.ErrModNotFound, mod.Name(), profile.Name)
	}

	opts := mod.Manifest.Options()
	if optIndex < 0 || optIndex >= len(opts) {
		return fmt.Errorf("%w: option %d of %s (has %d)", domain.ErrOptionRange, optIndex, mod.Name(), len(opts))
	}
	if sub >= 0 && sub >= len(opts[optIndex].SubOptions) {
		return fmt.Errorf("%w: sub-option %d of %s/%s (has %d)",
			domain.ErrSubOptionRange, sub, mod.Name(), opts[optIndex].Name, len(opts[optIndex].SubOptions))
	}

	state.Reconcile(len(opts))
	state.Options[optIndex] = enabled
	if sub >= 0 {
		state.SubOptions[optIndex] = sub
	}
	return nil
}
