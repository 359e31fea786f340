// Package manifest models the manifest.json shipped inside every mod and
// the versioned codec that reads it.
//
// Two schemas exist on disk. The legacy schema has no Version field and
// stores options as a flat list of folder names. Version 1 stores a full
// option tree. Both decode into the same Manifest value; encoding always
// writes version 1.
package manifest

import (
	"sync"

	"github.com/google/uuid"
)

// CurrentVersion is the schema version written by Encode.
const CurrentVersion = 1

// DefaultOptionName names the synthetic option produced for legacy
// manifests and for inferred manifests.
const DefaultOptionName = "Default"

// SubOption is one mutually exclusive choice under an Option.
type SubOption struct {
	Name        string
	Description string
	Include     []string // Relative to the mod directory, never empty
}

// Option is a toggle. When it carries sub-options exactly one of them is
// selected in addition to the option's own includes.
type Option struct {
	Name        string
	Description string
	Include     []string
	SubOptions  []SubOption
}

// HasSubOptions reports whether the option is a choice rather than a plain toggle
func (o Option) HasSubOptions() bool {
	return len(o.SubOptions) > 0
}

// NexusData links a mod to its NexusMods page
type NexusData struct {
	ID      uint32
	Version string
}

// schema is the closed set of on-disk manifest shapes.
type schema interface {
	version() int
}

type legacySchema struct {
	guid        uuid.UUID
	name        string
	description string
	iconPath    string
	options     []string
	hasOptions  bool
}

func (legacySchema) version() int { return 0 }

type v1Schema struct {
	guid        uuid.UUID
	name        string
	description string
	iconPath    string
	options     []Option
	nexus       *NexusData
}

func (v1Schema) version() int { return 1 }

// Manifest describes a mod's identity, metadata and selectable content.
// A Manifest must not be copied after first use.
type Manifest struct {
	data schema

	translateOnce sync.Once
	translated    []Option
}

// New creates a manifest in the current schema.
func New(guid uuid.UUID, name, description, iconPath string, options []Option, nexus *NexusData) *Manifest {
	return &Manifest{
		data: v1Schema{
			guid:        guid,
			name:        name,
			description: description,
			iconPath:    iconPath,
			options:     compactOptions(options),
			nexus:       nexus,
		},
	}
}

// compactOptions copies opts with empty slices replaced by nil, so a manifest
// holds the same value before and after an encode/decode cycle.
func compactOptions(opts []Option) []Option {
	if len(opts) == 0 {
		return nil
	}
	out := make([]Option, len(opts))
	for i, opt := range opts {
		out[i] = opt
		if len(opt.Include) == 0 {
			out[i].Include = nil
		}
		if len(opt.SubOptions) == 0 {
			out[i].SubOptions = nil
		}
	}
	return out
}

// GUID returns the immutable mod identifier.
func (m *Manifest) GUID() uuid.UUID {
	switch d := m.data.(type) {
	case legacySchema:
		return d.guid
	case v1Schema:
		return d.guid
	}
	return uuid.Nil
}

func (m *Manifest) Name() string {
	switch d := m.data.(type) {
	case legacySchema:
		return d.name
	case v1Schema:
		return d.name
	}
	return ""
}

func (m *Manifest) Description() string {
	switch d := m.data.(type) {
	case legacySchema:
		return d.description
	case v1Schema:
		return d.description
	}
	return ""
}

// IconPath returns the icon path relative to the mod directory, or "" when absent.
func (m *Manifest) IconPath() string {
	switch d := m.data.(type) {
	case legacySchema:
		return d.iconPath
	case v1Schema:
		return d.iconPath
	}
	return ""
}

// Nexus returns the NexusMods metadata, or nil. Legacy manifests never carry it.
func (m *Manifest) Nexus() *NexusData {
	if d, ok := m.data.(v1Schema); ok {
		return d.nexus
	}
	return nil
}

// IsLegacy reports whether the manifest was decoded from the legacy schema.
func (m *Manifest) IsLegacy() bool {
	_, ok := m.data.(legacySchema)
	return ok
}

// Version returns the schema version the manifest was read from (0 for legacy).
func (m *Manifest) Version() int {
	return m.data.version()
}

// Options returns the option tree, or nil when the manifest has none.
//
// For legacy manifests the flat name list is translated on first call into a
// single "Default" option with one sub-option per name. The result is cached
// for the lifetime of the manifest and the same slice is returned on every
// call, so callers may keep references into it.
func (m *Manifest) Options() []Option {
	switch d := m.data.(type) {
	case v1Schema:
		return d.options
	case legacySchema:
		if !d.hasOptions {
			return nil
		}
		m.translateOnce.Do(func() {
			m.translated = translateLegacy(d.options)
		})
		return m.translated
	}
	return nil
}

func translateLegacy(names []string) []Option {
	subs := make([]SubOption, 0, len(names))
	for _, name := range names {
		subs = append(subs, SubOption{
			Name:    name,
			Include: []string{name},
		})
	}
	return []Option{{
		Name:       DefaultOptionName,
		SubOptions: subs,
	}}
}
