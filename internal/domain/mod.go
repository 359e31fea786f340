package domain

import (
	"hd2mm/internal/manifest"

	"github.com/google/uuid"
)

// Mod is a manifest bound to the directory holding its payload
type Mod struct {
	Manifest *manifest.Manifest
	Path     string // Absolute mod directory inside the storage root
}

// GUID returns the mod's identifier
func (m *Mod) GUID() uuid.UUID {
	return m.Manifest.GUID()
}

// Name returns the manifest's display name
func (m *Mod) Name() string {
	return m.Manifest.Name()
}
