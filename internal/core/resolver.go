package core

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"hd2mm/internal/domain"
)

// Resolution maps each hash identity to its contributing triplets in
// traversal order. Order lists the hash identities as first seen.
type Resolution struct {
	Groups map[string][]domain.Triplet
	Order  []string
}

// Len returns the total number of triplets
func (r *Resolution) Len() int {
	n := 0
	for _, ts := range r.Groups {
		n += len(ts)
	}
	return n
}

func (r *Resolution) add(t domain.Triplet) {
	if _, ok := r.Groups[t.Hash]; !ok {
		r.Order = append(r.Order, t.Hash)
	}
	r.Groups[t.Hash] = append(r.Groups[t.Hash], t)
}

// Resolve computes the patch triplets the profile at index selects
func (m *ModManager) Resolve(profileIndex int) (*Resolution, error) {
	profile, err := m.Profile(profileIndex)
	if err != nil {
		return nil, err
	}
	return m.ResolveProfile(profile)
}

// ResolveProfile walks the mods in store order and collects the patch
// triplets contributed by the profile's selected options. Profile entries
// for mods that are not installed, disabled mods and deselected options
// contribute nothing.
func (m *ModManager) ResolveProfile(profile *domain.Profile) (*Resolution, error) {
	res := &Resolution{Groups: make(map[string][]domain.Triplet)}

	for _, mod := range m.store.Mods() {
		state := profile.State(mod.GUID())
		if state == nil || !state.Enabled {
			continue
		}

		dirs, err := contributionDirs(mod, state)
		if err != nil {
			return nil, err
		}

		for _, dir := range dirs {
			triplets, err := scanTriplets(dir)
			if err != nil {
				return nil, fmt.Errorf("resolving %s: %w", mod.Name(), err)
			}
			m.log.Debug("scanned contribution", "mod", mod.Name(), "dir", dir, "triplets", len(triplets))
			for _, t := range triplets {
				t.ModGUID = mod.GUID()
				res.add(t)
			}
		}
	}

	return res, nil
}

// contributionDirs lists the directories a mod contributes under state
func contributionDirs(mod *domain.Mod, state *domain.ModState) ([]string, error) {
	opts := mod.Manifest.Options()
	if len(opts) == 0 {
		return []string{mod.Path}, nil
	}

	var includes []string
	for i, opt := range opts {
		if !state.OptionEnabled(i) {
			continue
		}
		includes = append(includes, opt.Include...)

		if !opt.HasSubOptions() {
			continue
		}
		sub, ok := state.SubOption(i)
		if !ok || sub < 0 || sub >= len(opt.SubOptions) {
			return nil, fmt.Errorf("%w: %s option %q selects sub-option %d of %d",
				domain.ErrSubOptionRange, mod.Name(), opt.Name, sub, len(opt.SubOptions))
		}
		includes = append(includes, opt.SubOptions[sub].Include...)
	}

	dirs := make([]string, 0, len(includes))
	for _, inc := range includes {
		dir, err := modSubPath(mod.Path, inc)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", mod.Name(), err)
		}
		dirs = append(dirs, dir)
	}
	return dirs, nil
}

// modSubPath joins an include path onto the mod directory, refusing paths
// that leave it.
func modSubPath(modPath, include string) (string, error) {
	dir := filepath.Join(modPath, filepath.FromSlash(include))
	rel, err := filepath.Rel(modPath, dir)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("include path %q leaves the mod directory", include)
	}
	return dir, nil
}

// scanTriplets groups the patch files directly inside dir into triplets,
// ordered by hash identity as first seen and then by index.
func scanTriplets(dir string) ([]domain.Triplet, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", dir, err)
	}

	type key struct {
		hash  string
		index int
	}
	found := make(map[key]*domain.Triplet)
	var hashes []string
	indices := make(map[string][]int)

	for _, entry := range entries {
		if entry.IsDir() || !domain.IsPatchName(entry.Name()) {
			continue
		}
		pf, err := domain.ParsePatchName(entry.Name())
		if err != nil {
			return nil, err
		}

		k := key{pf.Hash, pf.Index}
		t, ok := found[k]
		if !ok {
			t = &domain.Triplet{Hash: pf.Hash, Index: pf.Index, Dir: dir}
			found[k] = t
			if _, seen := indices[pf.Hash]; !seen {
				hashes = append(hashes, pf.Hash)
			}
			indices[pf.Hash] = append(indices[pf.Hash], pf.Index)
		}
		t.Set(pf.Role, filepath.Join(dir, entry.Name()))
	}

	var triplets []domain.Triplet
	for _, hash := range hashes {
		idx := indices[hash]
		sort.Ints(idx)
		for _, i := range idx {
			triplets = append(triplets, *found[key{hash, i}])
		}
	}
	return triplets, nil
}
