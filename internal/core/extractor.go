package core

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"hd2mm/internal/domain"
)

// Extractor unpacks mod archives
type Extractor struct{}

// NewExtractor creates a new Extractor
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract unpacks a .zip, .7z or .rar archive into destDir. When everything
// in the archive sits under one top-level folder, that folder's contents
// become the root of destDir. 7z and rar need the 7z binary.
func (e *Extractor) Extract(ctx context.Context, archivePath, destDir string) error {
	format := e.DetectFormat(archivePath)
	if format == "" {
		return fmt.Errorf("%w: %q", domain.ErrUnsupportedArchive, filepath.Ext(archivePath))
	}

	if err := os.MkdirAll(destDir, 0755); err != nil {
		return fmt.Errorf("creating destination directory: %w", err)
	}

	var err error
	switch format {
	case "zip":
		err = e.extractZip(archivePath, destDir)
	case "7z", "rar":
		err = e.extract7z(ctx, archivePath, destDir)
	}
	if err != nil {
		return err
	}

	return stripSingleTopDir(destDir)
}

// stripSingleTopDir hoists the contents of dir's only child into dir when
// that child is a directory. The child is first moved into a fresh staging
// directory so none of its entries can clash with it.
func stripSingleTopDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("reading extracted files: %w", err)
	}
	if len(entries) != 1 || !entries[0].IsDir() {
		return nil
	}

	staging, err := os.MkdirTemp(dir, ".strip-*")
	if err != nil {
		return fmt.Errorf("creating staging folder: %w", err)
	}
	wrapper := filepath.Join(staging, entries[0].Name())
	if err := os.Rename(filepath.Join(dir, entries[0].Name()), wrapper); err != nil {
		return fmt.Errorf("staging top-level folder: %w", err)
	}

	children, err := os.ReadDir(wrapper)
	if err != nil {
		return fmt.Errorf("reading top-level folder: %w", err)
	}
	for _, child := range children {
		if err := os.Rename(filepath.Join(wrapper, child.Name()), filepath.Join(dir, child.Name())); err != nil {
			return fmt.Errorf("moving %s out of top-level folder: %w", child.Name(), err)
		}
	}

	return os.RemoveAll(staging)
}

// CanExtract reports whether filename has a supported archive extension
func (e *Extractor) CanExtract(filename string) bool {
	return e.DetectFormat(filename) != ""
}

// DetectFormat maps a file extension to "zip", "7z" or "rar", or "" if unsupported
func (e *Extractor) DetectFormat(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".zip":
		return "zip"
	case ".7z":
		return "7z"
	case ".rar":
		return "rar"
	default:
		return ""
	}
}

// extractZip unpacks every entry of a zip archive into destDir
func (e *Extractor) extractZip(archivePath, destDir string) (err error) {
	zr, err := zip.OpenReader(archivePath)
	if err != nil {
		return fmt.Errorf("opening zip: %w", err)
	}
	defer func() {
		if cerr := zr.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("closing zip: %w", cerr)
		}
	}()

	for _, entry := range zr.File {
		target, err := entryPath(destDir, entry.Name)
		if err != nil {
			return err
		}
		if entry.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0755); err != nil {
				return fmt.Errorf("creating %s: %w", entry.Name, err)
			}
			continue
		}
		if err := writeZipEntry(entry, target); err != nil {
			return err
		}
	}
	return nil
}

// writeZipEntry copies one file entry to target, creating parent folders.
// Folders are always 0755 so archives with read-only folder modes still unpack.
func writeZipEntry(entry *zip.File, target string) (err error) {
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return fmt.Errorf("creating folder for %s: %w", entry.Name, err)
	}

	src, err := entry.Open()
	if err != nil {
		return fmt.Errorf("opening %s in archive: %w", entry.Name, err)
	}
	defer src.Close()

	dst, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, entry.Mode())
	if err != nil {
		return fmt.Errorf("creating %s: %w", target, err)
	}
	defer func() {
		if cerr := dst.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("closing %s: %w", target, cerr)
		}
	}()

	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("unpacking %s: %w", entry.Name, err)
	}
	return nil
}

// entryPath joins an archive entry name onto destDir and rejects names that
// would land outside it, such as "../../escaped.txt".
func entryPath(destDir, name string) (string, error) {
	root := filepath.Clean(destDir)
	target := filepath.Join(root, filepath.FromSlash(name))

	rel, err := filepath.Rel(root, target)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(os.PathSeparator)) {
		return "", fmt.Errorf("archive entry escapes destination: %s", name)
	}
	return target, nil
}

// sevenZipTimeout bounds a single 7z run; corrupt archives can hang it
const sevenZipTimeout = 5 * time.Minute

// extract7z shells out to the 7z binary for .7z and .rar archives
func (e *Extractor) extract7z(ctx context.Context, archivePath, destDir string) error {
	if _, err := exec.LookPath("7z"); err != nil {
		return errors.New("7z not found in PATH: it is needed for .7z and .rar archives (p7zip-full)")
	}

	ctx, cancel := context.WithTimeout(ctx, sevenZipTimeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, "7z", "x", "-y", "-o"+destDir, archivePath).CombinedOutput()
	switch {
	case err == nil:
		return nil
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		return fmt.Errorf("7z gave up on %s after %v", filepath.Base(archivePath), sevenZipTimeout)
	case ctx.Err() != nil:
		return ctx.Err()
	default:
		return fmt.Errorf("7z failed on %s: %w\n%s", filepath.Base(archivePath), err, out)
	}
}
