package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"hd2mm/internal/domain"

	"github.com/google/uuid"
)

const profileExt = ".json"

// profileFile is the JSON representation of a profile
type profileFile struct {
	Name string                          `json:"Name"`
	Mods map[uuid.UUID]*domain.ModState `json:"Mods"`
}

// ProfilePath returns the file a profile is persisted to inside profilesDir
func ProfilePath(profilesDir string, profile *domain.Profile) string {
	return filepath.Join(profilesDir, profile.File+profileExt)
}

// LoadProfile reads a profile from path. The file stem becomes the profile's File.
func LoadProfile(path string) (*domain.Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, fmt.Errorf("reading profile: %w", err)
	}

	var pf profileFile
	if err := json.Unmarshal(data, &pf); err != nil {
		return nil, fmt.Errorf("parsing profile %s: %w", filepath.Base(path), err)
	}

	profile := domain.NewProfile(pf.Name)
	profile.File = strings.TrimSuffix(filepath.Base(path), profileExt)
	for guid, state := range pf.Mods {
		if state == nil {
			continue
		}
		profile.Mods[guid] = state
	}

	return profile, nil
}

// SaveProfile writes a profile to profilesDir, replacing any previous version
func SaveProfile(profilesDir string, profile *domain.Profile) error {
	pf := profileFile{Name: profile.Name, Mods: profile.Mods}
	if pf.Mods == nil {
		pf.Mods = map[uuid.UUID]*domain.ModState{}
	}

	data, err := json.MarshalIndent(&pf, "", "\t")
	if err != nil {
		return fmt.Errorf("marshaling profile: %w", err)
	}

	if err := os.MkdirAll(profilesDir, 0755); err != nil {
		return fmt.Errorf("creating profiles dir: %w", err)
	}

	if err := os.WriteFile(ProfilePath(profilesDir, profile), data, 0644); err != nil {
		return fmt.Errorf("writing profile: %w", err)
	}

	return nil
}

// LoadProfiles reads every profile in profilesDir, ordered by file name
func LoadProfiles(profilesDir string) ([]*domain.Profile, error) {
	entries, err := os.ReadDir(profilesDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading profiles dir: %w", err)
	}

	var profiles []*domain.Profile
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), profileExt) {
			continue
		}
		profile, err := LoadProfile(filepath.Join(profilesDir, entry.Name()))
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, profile)
	}

	return profiles, nil
}

// DeleteProfile removes a profile's file from profilesDir
func DeleteProfile(profilesDir string, profile *domain.Profile) error {
	if err := os.Remove(ProfilePath(profilesDir, profile)); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.ErrProfileNotFound
		}
		return fmt.Errorf("deleting profile: %w", err)
	}
	return nil
}
