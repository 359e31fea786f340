package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"hd2mm/internal/domain"
	"hd2mm/internal/storage/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_DefaultValues(t *testing.T) {
	dir := t.TempDir()
	cfg, err := config.Load(dir)
	require.NoError(t, err)

	assert.Equal(t, domain.LinkCopy, cfg.LinkMethod)
	assert.Empty(t, cfg.GamePath)
	assert.Empty(t, cfg.ActiveProfile)
}

func TestLoadConfig_FromFile(t *testing.T) {
	dir := t.TempDir()

	content := `
game_path: /games/Helldivers 2
storage_path: /srv/hd2mm
link_method: hardlink
active_profile: Armor
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.FileName), []byte(content), 0644))

	cfg, err := config.Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "/games/Helldivers 2", cfg.GamePath)
	assert.Equal(t, "/srv/hd2mm", cfg.StoragePath)
	assert.Equal(t, domain.LinkHardlink, cfg.LinkMethod)
	assert.Equal(t, "Armor", cfg.ActiveProfile)
}

func TestLoadConfig_InvalidLinkMethod(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.FileName), []byte("link_method: teleport\n"), 0644))

	_, err := config.Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "teleport")
}

func TestLoadConfig_ExpandsHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.FileName), []byte("storage_path: ~/mods\n"), 0644))

	cfg, err := config.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "mods"), cfg.StoragePath)
}

func TestSaveConfig_RoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")

	cfg := &config.Config{
		GamePath:      "/games/Helldivers 2",
		LinkMethod:    domain.LinkSymlink,
		NexusAPIKey:   "secret",
		ActiveProfile: "Default",
	}
	require.NoError(t, cfg.Save(dir))

	loaded, err := config.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, cfg.GamePath, loaded.GamePath)
	assert.Equal(t, domain.LinkSymlink, loaded.LinkMethod)
	assert.Equal(t, "secret", loaded.NexusAPIKey)
	assert.Equal(t, "Default", loaded.ActiveProfile)
}

func TestExpandPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	tests := []struct {
		in   string
		want string
	}{
		{"~", home},
		{"~/a/b", filepath.Join(home, "a", "b")},
		{"/abs/path", "/abs/path"},
		{"relative", "relative"},
		{"~user/x", "~user/x"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := config.ExpandPath(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDefaultDirs(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfgDir, err := config.DefaultConfigDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".config", "hd2mm"), cfgDir)

	storage, err := config.DefaultStorageDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".local", "share", "hd2mm"), storage)

	assert.Equal(t, "hd2mm", filepath.Base(config.DefaultTempDir()))
}
