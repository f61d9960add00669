package preferences

import (
	"powertimer/internal/core/commands"
	"powertimer/internal/core/model"
)

// Settings defines editable user preferences.
type Settings struct {
	ShowNotifications bool
	KeepAwake         bool
	DefaultMediaIsAll bool
	EndCommands       []string
	Autostart         bool
}

// DefaultSettings returns default settings for PowerTimer.
func DefaultSettings() Settings {
	return Settings{
		ShowNotifications: true,
		KeepAwake:         false,
		DefaultMediaIsAll: false,
		EndCommands:       []string{commands.PauseMedia},
		Autostart:         false,
	}
}

// Options converts settings to the runtime options consumed by the core.
func (settings Settings) Options() model.Options {
	return model.Options{
		ShowNotifications: settings.ShowNotifications,
		KeepAwake:         settings.KeepAwake,
		DefaultMediaIsAll: settings.DefaultMediaIsAll,
		EndCommands:       append([]string(nil), settings.EndCommands...),
	}
}

// CommandEnabled reports whether label is among the selected end commands.
func (settings Settings) CommandEnabled(label string) bool {
	for _, selected := range settings.EndCommands {
		if selected == label {
			return true
		}
	}
	return false
}
