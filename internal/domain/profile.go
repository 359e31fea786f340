package domain

import (
	"github.com/google/uuid"
)

// ModState is a profile's selection for one mod. Options and SubOptions are
// index-aligned with the mod manifest's option list.
type ModState struct {
	Enabled    bool   `json:"Enabled"`
	Options    []bool `json:"Options"`
	SubOptions []int  `json:"SubOptions"`
}

// NewModState returns a state for a mod with optionCount options: the mod
// is enabled, every option is on and every choice is its first sub-option.
func NewModState(optionCount int) ModState {
	s := ModState{
		Enabled:    true,
		Options:    make([]bool, optionCount),
		SubOptions: make([]int, optionCount),
	}
	for i := range s.Options {
		s.Options[i] = true
	}
	return s
}

// OptionEnabled reports whether option i is selected. Indices past the end
// of the recorded state count as disabled.
func (s *ModState) OptionEnabled(i int) bool {
	return i >= 0 && i < len(s.Options) && s.Options[i]
}

// SubOption returns the chosen sub-option index for option i.
func (s *ModState) SubOption(i int) (int, bool) {
	if i < 0 || i >= len(s.SubOptions) {
		return 0, false
	}
	return s.SubOptions[i], true
}

// Reconcile pads or truncates the per-option slices to optionCount. New
// options start disabled. Returns true if anything changed.
func (s *ModState) Reconcile(optionCount int) bool {
	changed := false
	if len(s.Options) != optionCount {
		s.Options = resize(s.Options, optionCount)
		changed = true
	}
	if len(s.SubOptions) != optionCount {
		s.SubOptions = resize(s.SubOptions, optionCount)
		changed = true
	}
	return changed
}

func resize[T any](in []T, n int) []T {
	if len(in) >= n {
		return in[:n:n]
	}
	out := make([]T, n)
	copy(out, in)
	return out
}

// Profile is a named selection of mods and their options
type Profile struct {
	Name string
	File string // Sanitized file name (without extension) used for persistence
	Mods map[uuid.UUID]*ModState
}

// NewProfile creates an empty profile
func NewProfile(name string) *Profile {
	file := SanitizeFileName(name)
	if file == "" {
		file = "profile"
	}
	return &Profile{
		Name: name,
		File: file,
		Mods: make(map[uuid.UUID]*ModState),
	}
}

// AddMod records state for guid unless the profile already has an entry for it.
// Returns whether the entry was inserted.
func (p *Profile) AddMod(guid uuid.UUID, state ModState) bool {
	if p.Mods == nil {
		p.Mods = make(map[uuid.UUID]*ModState)
	}
	if _, ok := p.Mods[guid]; ok {
		return false
	}
	p.Mods[guid] = &state
	return true
}

// RemoveMod drops guid from the profile. Absent GUIDs are ignored.
func (p *Profile) RemoveMod(guid uuid.UUID) {
	delete(p.Mods, guid)
}

// State returns the selection for guid, or nil if the mod is not in the profile.
func (p *Profile) State(guid uuid.UUID) *ModState {
	return p.Mods[guid]
}

// HasMod reports whether guid is part of the profile
func (p *Profile) HasMod(guid uuid.UUID) bool {
	_, ok := p.Mods[guid]
	return ok
}
