package preferences

import (
	"powertimer/internal/core/commands"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
)

// Window handles the preferences UI.
type Window struct {
	window        fyne.Window
	settings      Settings
	onSave        func(Settings)
	notifications *widget.Check
	keepAwake     *widget.Check
	defaultAll    *widget.Check
	autostart     *widget.Check
	endCommands   *widget.CheckGroup
}

// New creates a preferences window.
func New(app fyne.App, settings Settings, onSave func(Settings)) *Window {
	window := app.NewWindow("PowerTimer Settings")

	notifications := widget.NewCheck("Enable notifications", nil)
	keepAwake := widget.NewCheck("Keep the system awake while the timer runs", nil)
	defaultAll := widget.NewCheck("Select all media players by default", nil)
	autostart := widget.NewCheck("Start on login", nil)
	endCommands := widget.NewCheckGroup(commands.Labels(), nil)

	form := container.NewVBox(
		widget.NewLabelWithStyle("Options", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		keepAwake,
		notifications,
		defaultAll,
		autostart,
		widget.NewLabelWithStyle("When the timer ends", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		endCommands,
		widget.NewLabel("If the computer falls asleep the timer won't trigger."),
	)

	saveButton := widget.NewButton("Save", nil)
	cancelButton := widget.NewButton("Cancel", nil)
	buttons := container.NewHBox(saveButton, layout.NewSpacer(), cancelButton)

	window.SetContent(container.NewBorder(nil, buttons, nil, nil, form))
	window.Resize(fyne.NewSize(420, 360))
	window.SetCloseIntercept(func() {
		window.Hide()
	})

	prefs := &Window{
		window:        window,
		onSave:        onSave,
		notifications: notifications,
		keepAwake:     keepAwake,
		defaultAll:    defaultAll,
		autostart:     autostart,
		endCommands:   endCommands,
	}
	prefs.UpdateSettings(settings)

	saveButton.OnTapped = prefs.handleSave
	cancelButton.OnTapped = func() {
		prefs.UpdateSettings(prefs.settings)
		window.Hide()
	}

	return prefs
}

// Show displays the preferences window.
func (prefs *Window) Show() {
	prefs.window.Show()
	prefs.window.RequestFocus()
}

// UpdateSettings replaces window values.
func (prefs *Window) UpdateSettings(settings Settings) {
	prefs.settings = settings
	prefs.notifications.SetChecked(settings.ShowNotifications)
	prefs.keepAwake.SetChecked(settings.KeepAwake)
	prefs.defaultAll.SetChecked(settings.DefaultMediaIsAll)
	prefs.autostart.SetChecked(settings.Autostart)
	prefs.endCommands.SetSelected(append([]string(nil), settings.EndCommands...))
}

func (prefs *Window) handleSave() {
	settings := prefs.settings
	settings.ShowNotifications = prefs.notifications.Checked
	settings.KeepAwake = prefs.keepAwake.Checked
	settings.DefaultMediaIsAll = prefs.defaultAll.Checked
	settings.Autostart = prefs.autostart.Checked
	settings.EndCommands = orderedSelection(prefs.endCommands.Selected)

	prefs.settings = settings
	if prefs.onSave != nil {
		prefs.onSave(settings)
	}
	prefs.window.Hide()
}

// orderedSelection returns the selected labels in execution order.
func orderedSelection(selected []string) []string {
	chosen := make(map[string]bool, len(selected))
	for _, label := range selected {
		chosen[label] = true
	}
	ordered := []string{}
	for _, label := range commands.Labels() {
		if chosen[label] {
			ordered = append(ordered, label)
		}
	}
	return ordered
}
