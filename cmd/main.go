package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"powertimer/internal/core/commands"
	"powertimer/internal/core/model"
	"powertimer/internal/core/timekeeper"
	xlog "powertimer/internal/log"
	"powertimer/internal/platform"
	"powertimer/internal/storage"
	"powertimer/internal/ui/notify"
	"powertimer/internal/ui/preferences"
	"powertimer/internal/ui/tray"
	"powertimer/resources"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"
	"github.com/rs/zerolog"
)

const (
	appName       = "PowerTimer"
	appID         = "io.github.powertimer"
	inhibitReason = "Timer running"
)

func main() {
	xlog.Configure(xlog.Config{})
	logger := xlog.WithComponent("main")

	bus := platform.NewSessionBus()
	defer func() {
		_ = bus.Close()
	}()

	guard, err := platform.AcquireSingleInstance(bus, appName)
	switch {
	case errors.Is(err, platform.ErrAlreadyRunning):
		logger.Info().Str("event", "app.already_running").Msg("another instance owns the bus name")
		return
	case err != nil:
		logger.Warn().Err(err).Str("event", "app.single_instance_unavailable").Msg("continuing without single-instance guard")
	}
	defer func() {
		_ = guard.Release()
	}()

	fyneApp := app.NewWithID(appID)
	fyneApp.SetIcon(resources.MustIcon(resources.IconApp))
	desktopApp, ok := fyneApp.(desktop.App)
	if !ok {
		logger.Error().Str("event", "app.tray_unsupported").Msg("system tray unsupported on this platform")
		return
	}

	service := platform.NewService()
	settingsPath, err := storage.ResolvePath(service, appName)
	if err != nil {
		logger.Error().Err(err).Str("event", "config.path_failed").Msg("cannot resolve settings path")
		return
	}
	settings, err := storage.LoadSettings(settingsPath)
	if err != nil {
		logger.Warn().Err(err).Str("event", "config.load_failed").Msg("using default settings")
	}

	notifier := notify.New(fyneApp, settings.ShowNotifications)
	runner := platform.NewRunner(xlog.WithComponent("exec"))
	players := platform.NewPlayers(runner, notifier, xlog.WithComponent("players"))
	bluetooth := platform.NewBluetooth(runner, notifier)
	locker := platform.NewScreenLocker(bus)
	inhibitor := platform.NewSessionInhibitor(bus)

	registry := commands.NewRegistry(xlog.WithComponent("commands"),
		commands.Command{
			Label: commands.PauseMedia,
			Action: func(ctx context.Context, env commands.Env) error {
				return players.PauseSelected(ctx, env.SelectedPlayer)
			},
		},
		commands.Command{
			Label: commands.LockScreen,
			Action: func(ctx context.Context, _ commands.Env) error {
				return locker.Lock(ctx)
			},
		},
		commands.Command{
			Label: commands.DisableBluetooth,
			Action: func(context.Context, commands.Env) error {
				return bluetooth.Disable()
			},
		},
	)

	syncAutostart(service, settings.Autostart, logger)

	keeper := timekeeper.New(model.DefaultTimerConfig(), registry, timekeeper.Config{
		TickInterval:  time.Second,
		AppID:         appID,
		InhibitReason: inhibitReason,
	})
	keeper.SetInhibitor(inhibitor)
	keeper.UpdateOptions(settings.Options())
	keeper.SelectPlayer(settings.Options().DefaultPlayer())

	var trayManager *tray.Manager
	var prefsWindow *preferences.Window

	applySettings := func(updated preferences.Settings) {
		syncAutostart(service, updated.Autostart, logger)
		notifier.SetEnabled(updated.ShowNotifications)
		keeper.UpdateOptions(updated.Options())
		trayManager.SetMediaVisible(updated.CommandEnabled(commands.PauseMedia))
		prefsWindow.UpdateSettings(updated)
	}

	refreshPlayers := func() {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			ids := players.List(ctx)
			fyne.Do(func() {
				trayManager.SetPlayers(ids)
			})
		}()
	}

	prefsWindow = preferences.New(fyneApp, settings, func(updated preferences.Settings) {
		if err := storage.SaveSettings(settingsPath, updated); err != nil {
			logger.Error().Err(err).Str("event", "config.save_failed").Msg("failed to save settings")
			notifier.Notify("Error", fmt.Sprintf("Failed to save settings: %v", err))
		}
		applySettings(updated)
	})

	trayManager = tray.New(desktopApp, tray.Callbacks{
		OnToggle:         keeper.Toggle,
		OnStop:           keeper.Stop,
		OnAdjust:         keeper.AdjustDuration,
		OnCycleStep:      keeper.CycleStep,
		OnSelectPlayer:   keeper.SelectPlayer,
		OnRefreshPlayers: refreshPlayers,
		OnPreferences: func() {
			prefsWindow.Show()
		},
		OnQuit: func() {
			fyneApp.Quit()
		},
	})
	trayManager.SetMediaVisible(settings.CommandEnabled(commands.PauseMedia))
	trayManager.Render(keeper.Snapshot())
	refreshPlayers()

	watchCtx, stopWatching := context.WithCancel(context.Background())
	watcher := storage.NewWatcher(settingsPath, func(updated preferences.Settings) {
		fyne.Do(func() {
			applySettings(updated)
		})
	}, xlog.WithComponent("settings"))
	if err := watcher.Start(watchCtx); err != nil {
		logger.Warn().Err(err).Str("event", "config.watch_failed").Msg("settings changes on disk will not be picked up")
	}

	events := keeper.Subscribe(16)
	go func() {
		for event := range events {
			handleEvent(event, notifier, trayManager)
		}
	}()

	logger.Info().
		Str("event", "app.started").
		Str("settings", settingsPath).
		Str("bus_name", guard.Name()).
		Msg("PowerTimer running in the system tray")

	fyneApp.Run()

	keeper.Close()
	stopWatching()
	_ = watcher.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := inhibitor.Release(ctx); err != nil {
		logger.Warn().Err(err).Str("event", "inhibit.release_failed").Msg("failed to release sleep inhibition")
	}
}

// syncAutostart makes the login entry follow the autostart setting.
func syncAutostart(service platform.Service, wanted bool, logger zerolog.Logger) {
	if err := platform.SyncAutostart(service, appName, wanted); err != nil {
		logger.Warn().
			Err(err).
			Bool("wanted", wanted).
			Str("event", "autostart.sync_failed").
			Msg("failed to update autostart entry")
	}
}

func handleEvent(event timekeeper.Event, notifier *notify.Notifier, trayManager *tray.Manager) {
	if event.Type == timekeeper.EventStarted {
		notifier.Notify("Timer Started", fmt.Sprintf("Media will pause in %d minutes", event.Snapshot.DurationMinutes))
	}
	fyne.Do(func() {
		trayManager.Render(event.Snapshot)
	})
}
