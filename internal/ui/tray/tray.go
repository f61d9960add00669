package tray

import (
	"fmt"

	"powertimer/internal/core/model"
	"powertimer/internal/core/timekeeper"
	"powertimer/internal/platform"
	"powertimer/resources"

	"fyne.io/fyne/v2"
)

const menuTitle = "PowerTimer"

// App is the part of desktop.App the tray needs.
type App interface {
	SetSystemTrayMenu(menu *fyne.Menu)
	SetSystemTrayIcon(icon fyne.Resource)
}

// Callbacks defines tray action handlers.
type Callbacks struct {
	OnToggle         func()
	OnStop           func()
	OnAdjust         func(direction int)
	OnCycleStep      func()
	OnSelectPlayer   func(player string)
	OnRefreshPlayers func()
	OnPreferences    func()
	OnQuit           func()
}

// Manager renders timer state into the system tray menu and forwards user intents.
type Manager struct {
	app          App
	callbacks    Callbacks
	snapshot     timekeeper.Snapshot
	players      []string
	mediaVisible bool
	iconName     string
	menu         *fyne.Menu
}

// New creates a tray manager with the provided callbacks.
func New(app App, callbacks Callbacks) *Manager {
	manager := &Manager{
		app:       app,
		callbacks: callbacks,
		snapshot: timekeeper.Snapshot{
			State:           timekeeper.StateIdle,
			DurationMinutes: model.DefaultTimerMinutes,
			StepMinutes:     model.TimerSteps[model.DefaultStepIndex],
			SelectedPlayer:  model.PlayerNone,
		},
	}
	manager.refresh()
	return manager
}

// Render reflects a timer snapshot in the menu and icon.
func (manager *Manager) Render(snapshot timekeeper.Snapshot) {
	manager.snapshot = snapshot
	manager.refresh()
}

// SetPlayers replaces the discovered media players listed in the source menu.
func (manager *Manager) SetPlayers(players []string) {
	manager.players = append([]string(nil), players...)
	manager.refresh()
}

// SetMediaVisible shows or hides the media source menu.
func (manager *Manager) SetMediaVisible(visible bool) {
	manager.mediaVisible = visible
	manager.refresh()
}

// Menu returns the menu last handed to the tray.
func (manager *Manager) Menu() *fyne.Menu {
	return manager.menu
}

// FormatRemaining renders seconds as "M:SS left".
func FormatRemaining(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d left", seconds/60, seconds%60)
}

func (manager *Manager) refresh() {
	manager.menu = manager.buildMenu()
	if manager.app == nil {
		return
	}
	manager.app.SetSystemTrayMenu(manager.menu)

	iconName := iconFor(manager.snapshot.State)
	if iconName != manager.iconName {
		manager.iconName = iconName
		manager.app.SetSystemTrayIcon(resources.MustIcon(iconName))
	}
}

func (manager *Manager) buildMenu() *fyne.Menu {
	snapshot := manager.snapshot

	status := fyne.NewMenuItem(statusLabel(snapshot), nil)
	status.Disabled = true

	toggle := fyne.NewMenuItem(toggleLabel(snapshot), manager.call(manager.callbacks.OnToggle))
	stop := fyne.NewMenuItem("Stop", manager.call(manager.callbacks.OnStop))
	stop.Disabled = !snapshot.Running()

	duration := fyne.NewMenuItem(fmt.Sprintf("Duration: %d min", snapshot.DurationMinutes), nil)
	duration.Disabled = true
	increase := fyne.NewMenuItem(fmt.Sprintf("Add %dm", snapshot.StepMinutes), manager.adjust(1))
	decrease := fyne.NewMenuItem(fmt.Sprintf("Remove %dm", snapshot.StepMinutes), manager.adjust(-1))
	step := fyne.NewMenuItem(fmt.Sprintf("Step: %dm", snapshot.StepMinutes), manager.call(manager.callbacks.OnCycleStep))

	items := []*fyne.MenuItem{
		status,
		toggle,
		stop,
		fyne.NewMenuItemSeparator(),
		duration,
		increase,
		decrease,
		step,
	}

	if manager.mediaVisible {
		sources := fyne.NewMenuItem("Media Sources", nil)
		sources.ChildMenu = fyne.NewMenu("", manager.sourceItems()...)
		items = append(items, fyne.NewMenuItemSeparator(), sources)
	}

	items = append(items,
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Settings", manager.call(manager.callbacks.OnPreferences)),
		fyne.NewMenuItem("Quit", manager.call(manager.callbacks.OnQuit)),
	)

	return fyne.NewMenu(menuTitle, items...)
}

func (manager *Manager) sourceItems() []*fyne.MenuItem {
	ids := append([]string{model.PlayerNone, model.PlayerAll}, manager.players...)
	items := make([]*fyne.MenuItem, 0, len(ids)+2)
	for _, id := range ids {
		player := id
		item := fyne.NewMenuItem(platform.FriendlyName(player), func() {
			if manager.callbacks.OnSelectPlayer != nil {
				manager.callbacks.OnSelectPlayer(player)
			}
		})
		item.Checked = manager.snapshot.SelectedPlayer == player
		items = append(items, item)
	}
	items = append(items,
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Refresh players", manager.call(manager.callbacks.OnRefreshPlayers)),
	)
	return items
}

func (manager *Manager) call(callback func()) func() {
	return func() {
		if callback != nil {
			callback()
		}
	}
}

func (manager *Manager) adjust(direction int) func() {
	return func() {
		if manager.callbacks.OnAdjust != nil {
			manager.callbacks.OnAdjust(direction)
		}
	}
}

func statusLabel(snapshot timekeeper.Snapshot) string {
	switch snapshot.State {
	case timekeeper.StateRunning:
		return FormatRemaining(snapshot.RemainingSeconds)
	case timekeeper.StatePaused:
		return FormatRemaining(snapshot.RemainingSeconds) + " (paused)"
	default:
		return "Timer idle"
	}
}

func toggleLabel(snapshot timekeeper.Snapshot) string {
	switch snapshot.State {
	case timekeeper.StateRunning:
		return "Pause"
	case timekeeper.StatePaused:
		return "Resume"
	default:
		return "Start"
	}
}

func iconFor(state timekeeper.State) string {
	switch state {
	case timekeeper.StateRunning:
		return resources.IconRunning
	case timekeeper.StatePaused:
		return resources.IconPaused
	default:
		return resources.IconIdle
	}
}
