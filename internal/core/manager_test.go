package core_test

import (
	"os"
	"path/filepath"
	"testing"

	"hd2mm/internal/core"
	"hd2mm/internal/domain"
	"hd2mm/internal/manifest"
	"hd2mm/internal/storage/config"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_InvalidPaths(t *testing.T) {
	env := newTestEnv(t)

	opts := env.options(domain.LinkCopy)
	opts.GamePath = filepath.Join(env.storage, "nowhere")
	_, err := core.New(opts)
	assert.ErrorIs(t, err, domain.ErrInvalidGamePath)

	opts = env.options(domain.LinkCopy)
	opts.StoragePath = filepath.Join(env.storage, "missing")
	_, err = core.New(opts)
	assert.ErrorIs(t, err, domain.ErrInvalidStoragePath)

	opts = env.options(domain.LinkCopy)
	opts.TempPath = ""
	_, err = core.New(opts)
	assert.ErrorIs(t, err, domain.ErrInvalidTempPath)
}

func TestNew_EmptyStorage(t *testing.T) {
	env := newTestEnv(t)
	m := newTestManager(t, env)

	assert.Empty(t, m.Mods())
	assert.Empty(t, m.Profiles())
	assert.Equal(t, env.game, m.GamePath())
	assert.Equal(t, filepath.Join(env.game, "data"), m.DataDir())
	assert.Equal(t, domain.LinkCopy, m.LinkMethod())
	assert.Equal(t, env.storage, m.StoragePath())
	assert.Equal(t, env.temp, m.TempPath())
	assert.Zero(t, m.Store().Len())

	// Layout directories are created
	assert.DirExists(t, filepath.Join(env.storage, "mods"))
	assert.DirExists(t, filepath.Join(env.storage, "profiles"))
	assert.FileExists(t, filepath.Join(env.storage, "hd2mm.db"))
}

func TestNew_ScansStore(t *testing.T) {
	env := newTestEnv(t)
	first, second := uuid.New(), uuid.New()
	writeMod(t, env, "B Mod", manifest.New(second, "B Mod", "", "", nil, nil), nil)
	writeMod(t, env, "A Mod", manifest.New(first, "A Mod", "", "", nil, nil), nil)

	// Stray files next to mod directories are ignored
	require.NoError(t, os.WriteFile(filepath.Join(env.storage, "mods", "readme.txt"), nil, 0644))

	m := newTestManager(t, env)

	mods := m.Mods()
	require.Len(t, mods, 2)
	assert.Equal(t, "A Mod", mods[0].Name())
	assert.Equal(t, "B Mod", mods[1].Name())
	assert.Equal(t, filepath.Join(env.storage, "mods", "A Mod"), mods[0].Path)
	assert.True(t, m.HasMod(first))
	assert.False(t, m.HasMod(uuid.New()))

	mod, err := m.Mod(second)
	require.NoError(t, err)
	assert.Equal(t, "B Mod", mod.Name())

	_, err = m.Mod(uuid.New())
	assert.ErrorIs(t, err, domain.ErrModNotFound)
}

func TestNew_MalformedManifestAbortsScan(t *testing.T) {
	env := newTestEnv(t)
	writeMod(t, env, "Good", manifest.New(uuid.New(), "Good", "", "", nil, nil), nil)

	bad := filepath.Join(env.storage, "mods", "Broken")
	require.NoError(t, os.MkdirAll(bad, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(bad, manifest.FileName), []byte(`{"Version": 2}`), 0644))

	_, err := core.New(env.options(domain.LinkCopy))
	var modErr *core.ModError
	require.ErrorAs(t, err, &modErr)
	assert.Equal(t, "Broken", modErr.Dir)

	var verr *manifest.UnknownVersionError
	assert.ErrorAs(t, err, &verr)
}

func TestNew_MissingManifestAbortsScan(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, os.MkdirAll(filepath.Join(env.storage, "mods", "Empty"), 0755))

	_, err := core.New(env.options(domain.LinkCopy))
	var modErr *core.ModError
	require.ErrorAs(t, err, &modErr)
	assert.Equal(t, "Empty", modErr.Dir)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestNew_DuplicateGUIDAbortsScan(t *testing.T) {
	env := newTestEnv(t)
	guid := uuid.New()
	writeMod(t, env, "One", manifest.New(guid, "One", "", "", nil, nil), nil)
	writeMod(t, env, "Two", manifest.New(guid, "Two", "", "", nil, nil), nil)

	_, err := core.New(env.options(domain.LinkCopy))
	assert.ErrorIs(t, err, domain.ErrModExists)
}

func TestNew_ReconcilesProfiles(t *testing.T) {
	env := newTestEnv(t)
	guid := uuid.New()
	writeMod(t, env, "Skins", skinMod(guid), nil)

	stale := domain.NewProfile("Default")
	stale.AddMod(guid, domain.ModState{Enabled: true, Options: []bool{true}, SubOptions: []int{0}})
	orphan := uuid.New()
	stale.AddMod(orphan, domain.ModState{Enabled: true, Options: []bool{true, true, true}, SubOptions: []int{0, 0, 0}})
	require.NoError(t, config.SaveProfile(filepath.Join(env.storage, "profiles"), stale))

	m := newTestManager(t, env)

	require.Len(t, m.Profiles(), 1)
	p := m.Profiles()[0]
	assert.Equal(t, []bool{true, false}, p.State(guid).Options)
	assert.Equal(t, []int{0, 0}, p.State(guid).SubOptions)

	// Mods that are not installed are left as recorded
	assert.Len(t, p.State(orphan).Options, 3)
}
