package main

import (
	"os"
	"path/filepath"
	"testing"

	"hd2mm/internal/domain"
	"hd2mm/internal/storage/config"
	"hd2mm/internal/storage/layout"

	"github.com/gofrs/flock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	bodyHash   = "abcdef0123456789"
	helmetHash = "0123456789abcdef"
)

// armorArchive builds a manifest-less archive with two variant folders
func armorArchive(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "Armor.zip")
	writeZip(t, path, map[string]string{
		"Body/" + bodyHash + ".patch_0":                   "body",
		"Body/" + bodyHash + ".patch_0.stream":            "body stream",
		"Body/" + bodyHash + ".patch_0.gpu_resources":     "body gpu",
		"Helmet/" + helmetHash + ".patch_0":               "helmet",
		"Helmet/" + helmetHash + ".patch_0.gpu_resources": "helmet gpu",
	})
	return path
}

func TestCLI_AddDeployStatusPurge(t *testing.T) {
	env := newCLIEnv(t)
	archive := armorArchive(t)
	dataDir := filepath.Join(env.game, "data")

	out := env.mustRun(t, "mod", "add", archive)
	assert.Contains(t, out, "✓ Armor")

	out = env.mustRun(t, "mod", "list")
	assert.Contains(t, out, "Armor")

	out = env.mustRun(t, "mod", "show", "armor", "--files")
	assert.Contains(t, out, "[0] Default")
	assert.Contains(t, out, "0. Body")
	assert.Contains(t, out, "1. Helmet")
	assert.Contains(t, out, "manifest.json")

	out = env.mustRun(t, "profile", "create", "Main")
	assert.Contains(t, out, "Active profile: Main")
	cfg, err := config.Load(env.config)
	require.NoError(t, err)
	assert.Equal(t, "Main", cfg.ActiveProfile)

	env.mustRun(t, "profile", "enable", "Armor")

	out = env.mustRun(t, "profile", "show")
	assert.Contains(t, out, "Default=Body")

	out = env.mustRun(t, "resolve")
	assert.Contains(t, out, bodyHash)
	assert.NotContains(t, out, helmetHash)

	out = env.mustRun(t, "deploy")
	assert.Contains(t, out, "3 file(s) for 1 hash(es) using copy")
	for _, name := range []string{bodyHash + ".patch_0", bodyHash + ".patch_0.stream", bodyHash + ".patch_0.gpu_resources"} {
		assert.FileExists(t, filepath.Join(dataDir, name))
	}

	// Switch the choice to the helmet folder and redeploy
	env.mustRun(t, "profile", "option", "Armor", "0", "--sub", "1")
	out = env.mustRun(t, "deploy")
	assert.Contains(t, out, "2 file(s) for 1 hash(es)")
	assert.Contains(t, out, "3 old file(s) removed")
	assert.NoFileExists(t, filepath.Join(dataDir, bodyHash+".patch_0"))
	assert.FileExists(t, filepath.Join(dataDir, helmetHash+".patch_0.gpu_resources"))

	out = env.mustRun(t, "status")
	assert.Contains(t, out, "Last deployment: Main")
	assert.Contains(t, out, "All 2 file(s) in place")

	require.NoError(t, os.Remove(filepath.Join(dataDir, helmetHash+".patch_0")))
	out = env.mustRun(t, "status")
	assert.Contains(t, out, "1 of 2 file(s) missing")
	assert.NotContains(t, out, "untracked")

	require.NoError(t, os.WriteFile(filepath.Join(dataDir, "stray.patch_0"), []byte("x"), 0644))
	out = env.mustRun(t, "status", "--verbose")
	assert.Contains(t, out, "1 untracked patch file(s)")
	assert.Contains(t, out, "stray.patch_0")

	out = env.mustRun(t, "purge")
	assert.Contains(t, out, "Removed 2 patch file(s)")
	entries, err := os.ReadDir(dataDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestCLI_AddFailureCleansExtraction(t *testing.T) {
	env := newCLIEnv(t)
	archive := armorArchive(t)

	env.mustRun(t, "mod", "add", archive)

	// Same archive again infers a new GUID but collides on the directory name
	_, err := env.run(t, "mod", "add", archive)
	require.Error(t, err)

	entries, err := os.ReadDir(env.temp)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestCLI_RemoveDropsModFromProfiles(t *testing.T) {
	env := newCLIEnv(t)
	env.mustRun(t, "mod", "add", armorArchive(t))
	env.mustRun(t, "profile", "create", "Main")
	env.mustRun(t, "profile", "enable", "Armor")

	out := env.mustRun(t, "mod", "remove", "Armor")
	assert.Contains(t, out, "Removed Armor")

	profile, err := config.LoadProfile(filepath.Join(env.storage, "profiles", "Main.json"))
	require.NoError(t, err)
	assert.Empty(t, profile.Mods)

	_, err = env.run(t, "mod", "show", "Armor")
	assert.ErrorIs(t, err, domain.ErrModNotFound)
}

func TestCLI_ProfileLifecycle(t *testing.T) {
	env := newCLIEnv(t)

	out := env.mustRun(t, "profile", "list")
	assert.Contains(t, out, "No profiles")

	env.mustRun(t, "profile", "create", "One")
	out = env.mustRun(t, "profile", "create", "Two")
	assert.NotContains(t, out, "Active profile")

	_, err := env.run(t, "profile", "create", "One")
	assert.ErrorIs(t, err, domain.ErrProfileExists)

	env.mustRun(t, "profile", "use", "Two")
	out = env.mustRun(t, "profile", "list")
	assert.Contains(t, out, "* Two")

	env.mustRun(t, "profile", "delete", "Two")
	cfg, err := config.Load(env.config)
	require.NoError(t, err)
	assert.Empty(t, cfg.ActiveProfile)

	_, err = env.run(t, "deploy")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no profile specified")

	_, err = env.run(t, "--profile", "Missing", "deploy")
	assert.ErrorIs(t, err, domain.ErrProfileNotFound)
}

func TestCLI_OptionRange(t *testing.T) {
	env := newCLIEnv(t)
	env.mustRun(t, "mod", "add", armorArchive(t))
	env.mustRun(t, "profile", "create", "Main")
	env.mustRun(t, "profile", "enable", "Armor")

	_, err := env.run(t, "profile", "option", "Armor", "3")
	assert.ErrorIs(t, err, domain.ErrOptionRange)

	_, err = env.run(t, "profile", "option", "Armor", "0", "--sub", "5")
	assert.ErrorIs(t, err, domain.ErrSubOptionRange)

	_, err = env.run(t, "profile", "option", "Armor", "x")
	assert.Error(t, err)
}

func TestCLI_StorageLocked(t *testing.T) {
	env := newCLIEnv(t)
	require.NoError(t, os.MkdirAll(env.storage, 0755))

	lock := flock.New(layout.New(env.storage).LockPath())
	ok, err := lock.TryLock()
	require.NoError(t, err)
	require.True(t, ok)
	t.Cleanup(func() { _ = lock.Unlock() })

	_, err = env.run(t, "mod", "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "another hd2mm instance")
}

func TestCLI_ConfigSet(t *testing.T) {
	env := newCLIEnv(t)

	env.mustRun(t, "config", "set", "game_path", filepath.Join(env.game, "bin"))
	env.mustRun(t, "config", "set", "link_method", "hardlink")

	cfg, err := config.Load(env.config)
	require.NoError(t, err)
	assert.Equal(t, env.game, cfg.GamePath)
	assert.Equal(t, domain.LinkHardlink, cfg.LinkMethod)

	_, err = env.run(t, "config", "set", "link_method", "junction")
	assert.Error(t, err)
	_, err = env.run(t, "config", "set", "colour", "red")
	assert.Error(t, err)
	_, err = env.run(t, "config", "set", "game_path", t.TempDir())
	assert.ErrorIs(t, err, domain.ErrInvalidGamePath)

	out := env.mustRun(t, "config", "show")
	assert.Contains(t, out, "link_method:    hardlink")
}
