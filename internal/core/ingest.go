package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"hd2mm/internal/domain"
	"hd2mm/internal/manifest"

	"github.com/google/uuid"
)

// Ingestion steps reported by AddError
const (
	StepValidate = "validating archive"
	StepExtract  = "extracting archive"
	StepManifest = "reading manifest"
	StepInfer    = "inferring manifest"
	StepMove     = "moving mod into storage"
	StepLoad     = "loading stored manifest"
)

// AddError reports which ingestion step failed. TempDir is the extraction
// directory left behind for the caller to inspect or remove, if one was created.
type AddError struct {
	Step    string
	TempDir string
	Err     error
}

func (e *AddError) Error() string {
	return fmt.Sprintf("%s: %v", e.Step, e.Err)
}

func (e *AddError) Unwrap() error {
	return e.Err
}

// AddMod ingests an archive into the mod store and returns the new mod's GUID.
// Archives without a manifest.json get one inferred from their layout.
func (m *ModManager) AddMod(ctx context.Context, archivePath string) (uuid.UUID, error) {
	fail := func(step, tempDir string, err error) (uuid.UUID, error) {
		return uuid.Nil, &AddError{Step: step, TempDir: tempDir, Err: err}
	}

	info, err := os.Stat(archivePath)
	if err != nil {
		return fail(StepValidate, "", err)
	}
	if !info.Mode().IsRegular() {
		return fail(StepValidate, "", fmt.Errorf("%w: %s", domain.ErrNotAFile, archivePath))
	}
	if !m.extractor.CanExtract(archivePath) {
		return fail(StepValidate, "", fmt.Errorf("%w: %q", domain.ErrUnsupportedArchive, filepath.Ext(archivePath)))
	}

	stem := archiveStem(archivePath)
	tempDir, err := os.MkdirTemp(m.tempPath, domain.SafeDirName(stem)+"-*")
	if err != nil {
		return fail(StepExtract, "", fmt.Errorf("creating temp directory: %w", err))
	}

	m.log.Debug("extracting archive", "archive", archivePath, "dest", tempDir)
	if err := m.extractor.Extract(ctx, archivePath, tempDir); err != nil {
		return fail(StepExtract, tempDir, err)
	}

	manifestPath := filepath.Join(tempDir, manifest.FileName)
	var man *manifest.Manifest
	if _, err := os.Stat(manifestPath); err == nil {
		man, err = manifest.Load(manifestPath)
		if err != nil {
			return fail(StepManifest, tempDir, err)
		}
		if m.store.Has(man.GUID()) {
			return fail(StepManifest, tempDir, fmt.Errorf("%w: %s", domain.ErrModExists, man.GUID()))
		}
	} else if errors.Is(err, os.ErrNotExist) {
		man, err = m.inferManifest(tempDir, archivePath)
		if err != nil {
			return fail(StepInfer, tempDir, err)
		}
		if err := manifest.Create(manifestPath, man); err != nil {
			return fail(StepInfer, tempDir, err)
		}
		m.log.Debug("inferred manifest", "name", man.Name(), "guid", man.GUID(),
			"sub_options", len(man.Options()[0].SubOptions))
	} else {
		return fail(StepManifest, tempDir, err)
	}

	dest := m.layout.ModPath(domain.SafeDirName(man.Name()))
	if err := moveDir(tempDir, dest); err != nil {
		return fail(StepMove, tempDir, err)
	}
	m.log.Debug("stored mod", "name", man.Name(), "path", dest)

	stored, err := manifest.Load(filepath.Join(dest, manifest.FileName))
	if err != nil {
		return fail(StepLoad, "", err)
	}
	if err := m.store.add(&domain.Mod{Manifest: stored, Path: dest}); err != nil {
		return fail(StepLoad, "", err)
	}

	return stored.GUID(), nil
}

// RemoveMod deletes an installed mod's directory and drops it from the store.
// Unknown GUIDs are ignored.
func (m *ModManager) RemoveMod(guid uuid.UUID) error {
	mod := m.store.Get(guid)
	if mod == nil {
		return nil
	}
	if err := os.RemoveAll(mod.Path); err != nil {
		return fmt.Errorf("removing mod directory: %w", err)
	}
	m.store.remove(guid)
	m.log.Debug("removed mod", "name", mod.Name(), "guid", guid)
	return nil
}

// inferManifest builds a manifest for an extracted archive without one. Each
// top-level directory becomes a sub-option of a single Default option whose
// own include is the mod root.
// Archive names in the NexusMods download format also yield NexusData.
func (m *ModManager) inferManifest(dir, archive string) (*manifest.Manifest, error) {
	name := archiveStem(archive)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading extracted files: %w", err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: archive is empty", domain.ErrCannotInfer)
	}

	var subs []manifest.SubOption
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		subs = append(subs, manifest.SubOption{
			Name:    entry.Name(),
			Include: []string{entry.Name()},
		})
	}

	guid := uuid.New()
	for m.store.Has(guid) {
		guid = uuid.New()
	}

	return manifest.New(guid, name, "", "", []manifest.Option{{
		Name:       manifest.DefaultOptionName,
		Include:    []string{"."},
		SubOptions: subs,
	}}, ParseNexusFileName(archive)), nil
}

// archiveStem returns the archive's file name without its extension
func archiveStem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// moveDir renames src to dst, copying across filesystems when rename fails.
// An existing dst is never replaced.
func moveDir(src, dst string) error {
	if _, err := os.Lstat(dst); err == nil {
		return fmt.Errorf("%w: %s", domain.ErrDestinationExists, dst)
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("checking destination: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return fmt.Errorf("creating mods directory: %w", err)
	}

	if err := os.Rename(src, dst); err == nil {
		return nil
	}

	// Cross-device: fall back to copy
	if err := copyDir(src, dst); err != nil {
		os.RemoveAll(dst)
		return fmt.Errorf("copying to storage: %w", err)
	}
	if err := os.RemoveAll(src); err != nil {
		return fmt.Errorf("removing extraction directory: %w", err)
	}
	return nil
}

// copyDir recursively copies a directory using streaming I/O to avoid loading
// entire files into memory (important for large mod archives).
func copyDir(src, dst string) error {
	return filepath.Walk(src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		relPath, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		dstPath := filepath.Join(dst, relPath)

		if info.IsDir() {
			return os.MkdirAll(dstPath, info.Mode().Perm()|0700)
		}

		return copyFileStreaming(path, dstPath)
	})
}

// copyFileStreaming copies a file using streaming to avoid loading it all into memory
func copyFileStreaming(src, dst string) error {
	srcFile, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("opening source: %w", err)
	}
	defer srcFile.Close()

	srcInfo, err := srcFile.Stat()
	if err != nil {
		return fmt.Errorf("stat source: %w", err)
	}

	dstFile, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, srcInfo.Mode())
	if err != nil {
		return fmt.Errorf("creating destination: %w", err)
	}
	defer dstFile.Close()

	if _, err := io.Copy(dstFile, srcFile); err != nil {
		return fmt.Errorf("copying: %w", err)
	}

	return dstFile.Sync()
}
