package storage

import (
	"os"
	"path/filepath"
	"testing"

	"powertimer/internal/core/commands"
	"powertimer/internal/platform"
	"powertimer/internal/ui/preferences"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	settings, err := LoadSettings(filepath.Join(t.TempDir(), "settings.yaml"))

	require.NoError(t, err)
	assert.Equal(t, preferences.DefaultSettings(), settings)
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "PowerTimer", "settings.yaml")
	want := preferences.Settings{
		ShowNotifications: false,
		KeepAwake:         true,
		DefaultMediaIsAll: true,
		EndCommands:       []string{commands.PauseMedia, commands.LockScreen},
		Autostart:         true,
	}

	require.NoError(t, SaveSettings(path, want))
	got, err := LoadSettings(path)

	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestSaveEmptyCommandListSurvivesReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	settings := preferences.DefaultSettings()
	settings.EndCommands = nil

	require.NoError(t, SaveSettings(path, settings))
	got, err := LoadSettings(path)

	require.NoError(t, err)
	assert.NotNil(t, got.EndCommands)
	assert.Empty(t, got.EndCommands)
}

func TestLoadExplicitEmptyCommandList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte("selected_timer_end_commands: []\n"), 0o644))

	got, err := LoadSettings(path)

	require.NoError(t, err)
	require.NotNil(t, got.EndCommands)
	assert.Empty(t, got.EndCommands)
	assert.False(t, got.CommandEnabled(commands.PauseMedia))
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte("enable_keep_awake: true\n"), 0o644))

	got, err := LoadSettings(path)

	require.NoError(t, err)
	assert.True(t, got.KeepAwake)
	assert.True(t, got.ShowNotifications)
	assert.Equal(t, []string{commands.PauseMedia}, got.EndCommands)
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte("show_notifications: [oops"), 0o644))

	settings, err := LoadSettings(path)

	require.Error(t, err)
	assert.Equal(t, preferences.DefaultSettings(), settings)
}

func TestResolvePath(t *testing.T) {
	configDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", configDir)
	t.Setenv("HOME", configDir)
	t.Setenv("AppData", configDir)

	path, err := ResolvePath(platform.NewService(), "PowerTimer")

	require.NoError(t, err)
	assert.Equal(t, "settings.yaml", filepath.Base(path))
	assert.Equal(t, "PowerTimer", filepath.Base(filepath.Dir(path)))
}
