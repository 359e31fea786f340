package core_test

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"hd2mm/internal/core"
	"hd2mm/internal/domain"
	"hd2mm/internal/manifest"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

const testHash = "abcdef0123456789"

type testEnv struct {
	game    string
	storage string
	temp    string
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()
	root := t.TempDir()
	env := testEnv{
		game:    filepath.Join(root, core.GameDirName),
		storage: filepath.Join(root, "storage"),
		temp:    filepath.Join(root, "tmp"),
	}
	for _, dir := range []string{
		filepath.Join(env.game, "data"),
		filepath.Join(env.game, "bin"),
		env.storage,
		env.temp,
	} {
		require.NoError(t, os.MkdirAll(dir, 0755))
	}
	return env
}

func (e testEnv) options(method domain.LinkMethod) core.Options {
	return core.Options{
		GamePath:    e.game,
		StoragePath: e.storage,
		TempPath:    e.temp,
		LinkMethod:  method,
		Logger:      log.New(io.Discard),
	}
}

func (e testEnv) dataDir() string {
	return filepath.Join(e.game, "data")
}

func newTestManager(t *testing.T, env testEnv) *core.ModManager {
	t.Helper()
	m, err := core.New(env.options(domain.LinkCopy))
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, m.Close())
	})
	return m
}

// writeMod stores a mod directly under the storage root's mods directory
func writeMod(t *testing.T, env testEnv, dir string, m *manifest.Manifest, files map[string]string) string {
	t.Helper()
	modDir := filepath.Join(env.storage, "mods", dir)
	require.NoError(t, os.MkdirAll(modDir, 0755))
	require.NoError(t, manifest.Save(filepath.Join(modDir, manifest.FileName), m))
	writeFiles(t, modDir, files)
	return modDir
}

func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
}

// tripletFiles returns the three patch files for hash and index, each
// holding content tagged with its role.
func tripletFiles(prefix, hash string, index int, tag string) map[string]string {
	pf := domain.PatchFile{Hash: hash, Index: index}
	files := make(map[string]string)
	for _, role := range []domain.PatchRole{domain.RoleMain, domain.RoleStream, domain.RoleGPU} {
		pf.Role = role
		files[prefix+pf.FileName()] = tag + ":" + role.String()
	}
	return files
}

func merge(maps ...map[string]string) map[string]string {
	out := make(map[string]string)
	for _, m := range maps {
		for k, v := range m {
			out[k] = v
		}
	}
	return out
}

// skinMod has one toggle option and one choice between two variants
func skinMod(guid uuid.UUID) *manifest.Manifest {
	return manifest.New(guid, "Skins", "", "", []manifest.Option{
		{Name: "Body", Description: "", Include: []string{"Body"}},
		{Name: "Helmet", Description: "", SubOptions: []manifest.SubOption{
			{Name: "Red", Include: []string{"Helmet/Red"}},
			{Name: "Blue", Include: []string{"Helmet/Blue"}},
		}},
	}, nil)
}
