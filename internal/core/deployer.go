package core

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"hd2mm/internal/domain"
	"hd2mm/internal/linker"
	"hd2mm/internal/storage/db"
)

// DeployResult summarizes one deployment
type DeployResult struct {
	DeploymentID int64
	Purged       int
	Groups       int
	Files        []db.DeployedFile
}

// FileStatus is a ledger entry checked against the data directory
type FileStatus struct {
	db.DeployedFile
	Present bool // The file in the data directory still matches its source
}

// Deploy resolves the profile at index and writes the result into the
// game's data directory.
func (m *ModManager) Deploy(ctx context.Context, profileIndex int) (*DeployResult, error) {
	profile, err := m.Profile(profileIndex)
	if err != nil {
		return nil, err
	}
	return m.DeployProfile(ctx, profile)
}

// DeployProfile purges the data directory and places every resolved patch
// file. Each hash identity's triplets are renumbered from 0 in traversal
// order, so mods later in the store get higher patch indices.
func (m *ModManager) DeployProfile(ctx context.Context, profile *domain.Profile) (*DeployResult, error) {
	res, err := m.ResolveProfile(profile)
	if err != nil {
		return nil, err
	}

	purged, err := m.Purge()
	if err != nil {
		return nil, err
	}

	id, err := m.db.BeginDeployment(profile.Name, m.linker.Method())
	if err != nil {
		return nil, err
	}

	result := &DeployResult{DeploymentID: id, Purged: purged, Groups: len(res.Order)}
	dataDir := m.DataDir()

	for _, hash := range res.Order {
		for k, t := range res.Groups[hash] {
			if err := ctx.Err(); err != nil {
				return result, err
			}

			for _, role := range []domain.PatchRole{domain.RoleMain, domain.RoleStream, domain.RoleGPU} {
				src := t.Path(role)
				if src == "" {
					continue
				}
				name := domain.PatchFile{Hash: hash, Index: k, Role: role}.FileName()
				if err := m.linker.Deploy(src, filepath.Join(dataDir, name)); err != nil {
					return result, fmt.Errorf("deploying %s: %w", name, err)
				}

				f := db.DeployedFile{
					FileName:   name,
					Hash:       hash,
					Index:      k,
					Role:       role,
					ModGUID:    t.ModGUID,
					SourcePath: src,
				}
				if err := m.db.SaveDeployedFile(id, f); err != nil {
					return result, err
				}
				result.Files = append(result.Files, f)
				m.log.Debug("deployed file", "file", name, "source", src)
			}
		}
	}

	return result, nil
}

// Purge deletes every file directly under the data directory whose name
// contains "patch_" and clears the deployed-file ledger. Files recorded in
// the ledger are removed through the linker that placed them. Returns the
// number of files removed.
func (m *ModManager) Purge() (int, error) {
	names, err := m.patchFiles()
	if err != nil {
		return 0, err
	}

	last, err := m.db.LastDeployment()
	if err != nil {
		return 0, err
	}
	var lnk linker.Linker
	if last != nil {
		lnk = linker.New(last.LinkMethod)
	}

	removed := 0
	for _, name := range names {
		if err := m.removePatchFile(lnk, name); err != nil {
			return removed, err
		}
		removed++
	}

	if err := m.db.ClearDeployedFiles(); err != nil {
		return removed, err
	}

	m.log.Debug("purged data directory", "removed", removed)
	return removed, nil
}

// removePatchFile undeploys a ledger-tracked file, or deletes it outright
// when nothing deployed it or the linker refuses (e.g. a symlink replaced
// by a regular file).
func (m *ModManager) removePatchFile(lnk linker.Linker, name string) error {
	path := filepath.Join(m.DataDir(), name)

	if lnk != nil {
		owner, err := m.db.GetFileOwner(name)
		if err != nil {
			return err
		}
		if owner != nil {
			err := lnk.Undeploy(path)
			if err == nil {
				return nil
			}
			m.log.Debug("undeploy failed, removing directly", "file", name, "err", err)
		}
	}

	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing %s: %w", name, err)
	}
	return nil
}

// patchFiles lists the "patch_" file names directly under the data directory
func (m *ModManager) patchFiles() ([]string, error) {
	entries, err := os.ReadDir(m.DataDir())
	if err != nil {
		return nil, fmt.Errorf("reading data directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.Contains(entry.Name(), "patch_") {
			continue
		}
		names = append(names, entry.Name())
	}
	return names, nil
}

// UntrackedFiles returns the "patch_" files in the data directory that no
// deployment recorded, such as files copied in by hand or by another tool.
func (m *ModManager) UntrackedFiles() ([]string, error) {
	names, err := m.patchFiles()
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var untracked []string
	for _, name := range names {
		owner, err := m.db.GetFileOwner(name)
		if err != nil {
			return nil, err
		}
		if owner == nil {
			untracked = append(untracked, name)
		}
	}
	return untracked, nil
}

// LastDeployment returns the most recent deployment, or nil if nothing has been deployed
func (m *ModManager) LastDeployment() (*db.Deployment, error) {
	return m.db.LastDeployment()
}

// DeploymentStatus checks every ledger entry against the data directory
// using the link method it was deployed with.
func (m *ModManager) DeploymentStatus() (*db.Deployment, []FileStatus, error) {
	last, err := m.db.LastDeployment()
	if err != nil || last == nil {
		return nil, nil, err
	}

	files, err := m.db.DeployedFiles()
	if err != nil {
		return nil, nil, err
	}

	lnk := linker.New(last.LinkMethod)
	statuses := make([]FileStatus, 0, len(files))
	for _, f := range files {
		present, err := lnk.IsDeployed(f.SourcePath, filepath.Join(m.DataDir(), f.FileName))
		if err != nil {
			return nil, nil, fmt.Errorf("checking %s: %w", f.FileName, err)
		}
		statuses = append(statuses, FileStatus{DeployedFile: f, Present: present})
	}

	return last, statuses, nil
}
