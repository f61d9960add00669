package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"powertimer/internal/platform"
	"powertimer/internal/ui/preferences"

	"github.com/google/renameio/v2"
	"gopkg.in/yaml.v3"
)

const settingsFileName = "settings.yaml"

type yamlSettings struct {
	ShowNotifications *bool    `yaml:"show_notifications"`
	EnableKeepAwake   *bool    `yaml:"enable_keep_awake"`
	DefaultMediaIsAll *bool    `yaml:"default_media_is_all"`
	EndCommands       []string `yaml:"selected_timer_end_commands"`
	Autostart         *bool    `yaml:"autostart"`
}

// ResolvePath returns the settings file location for appName.
func ResolvePath(service platform.Service, appName string) (string, error) {
	configDir, err := service.GetConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(configDir, appName, settingsFileName), nil
}

// LoadSettings reads user preferences from YAML at path.
// If the file does not exist, default settings are returned.
func LoadSettings(path string) (preferences.Settings, error) {
	settings := preferences.DefaultSettings()

	rawData, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return settings, nil
		}
		return settings, fmt.Errorf("read settings file: %w", err)
	}

	var fileData yamlSettings
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		return settings, fmt.Errorf("parse settings yaml: %w", err)
	}

	applyYamlSettings(&settings, fileData)
	return settings, nil
}

// SaveSettings writes user preferences to YAML at path, replacing the file atomically.
func SaveSettings(path string, settings preferences.Settings) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	endCommands := settings.EndCommands
	if endCommands == nil {
		endCommands = []string{}
	}
	fileData := yamlSettings{
		ShowNotifications: &settings.ShowNotifications,
		EnableKeepAwake:   &settings.KeepAwake,
		DefaultMediaIsAll: &settings.DefaultMediaIsAll,
		EndCommands:       endCommands,
		Autostart:         &settings.Autostart,
	}

	serialized, err := yaml.Marshal(fileData)
	if err != nil {
		return fmt.Errorf("marshal settings yaml: %w", err)
	}

	if err := renameio.WriteFile(path, serialized, 0o644); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}

	return nil
}

func applyYamlSettings(settings *preferences.Settings, fileData yamlSettings) {
	if fileData.ShowNotifications != nil {
		settings.ShowNotifications = *fileData.ShowNotifications
	}
	if fileData.EnableKeepAwake != nil {
		settings.KeepAwake = *fileData.EnableKeepAwake
	}
	if fileData.DefaultMediaIsAll != nil {
		settings.DefaultMediaIsAll = *fileData.DefaultMediaIsAll
	}
	if fileData.EndCommands != nil {
		settings.EndCommands = append([]string{}, fileData.EndCommands...)
	}
	if fileData.Autostart != nil {
		settings.Autostart = *fileData.Autostart
	}
}
