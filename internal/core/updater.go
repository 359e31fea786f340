package core

import (
	"context"
	"errors"
	"fmt"

	"hd2mm/internal/domain"
)

// VersionLookup fetches the latest published version of a NexusMods mod
type VersionLookup interface {
	LatestVersion(ctx context.Context, modID uint32) (string, error)
}

// Update describes an installed mod with a newer version available
type Update struct {
	Mod            *domain.Mod
	NexusID        uint32
	CurrentVersion string
	LatestVersion  string
}

// CheckUpdates looks up every installed mod whose manifest carries NexusMods
// data. Lookup failures are collected and returned together with the updates
// that could be determined.
func (m *ModManager) CheckUpdates(ctx context.Context, lookup VersionLookup) ([]Update, error) {
	var updates []Update
	var checkErrs []error

	for _, mod := range m.store.Mods() {
		nexus := mod.Manifest.Nexus()
		if nexus == nil {
			continue
		}

		select {
		case <-ctx.Done():
			return updates, ctx.Err()
		default:
		}

		latest, err := lookup.LatestVersion(ctx, nexus.ID)
		if err != nil {
			checkErrs = append(checkErrs, fmt.Errorf("mod %s: %w", mod.Name(), err))
			continue
		}
		m.log.Debug("checked version", "mod", mod.Name(), "current", nexus.Version, "latest", latest)

		if domain.IsNewerVersion(nexus.Version, latest) {
			updates = append(updates, Update{
				Mod:            mod,
				NexusID:        nexus.ID,
				CurrentVersion: nexus.Version,
				LatestVersion:  latest,
			})
		}
	}

	if len(checkErrs) > 0 {
		return updates, fmt.Errorf("update check had %d error(s): %w", len(checkErrs), errors.Join(checkErrs...))
	}
	return updates, nil
}
