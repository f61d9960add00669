package platform

import (
	"context"
	"errors"
	"fmt"

	"github.com/godbus/dbus/v5"
)

type screenSaver struct {
	name  string
	path  dbus.ObjectPath
	iface string
}

// Tried in order; GNOME Shell first, then the freedesktop interface that
// KDE and most other desktops implement.
var screenSavers = []screenSaver{
	{name: "org.gnome.ScreenSaver", path: "/org/gnome/ScreenSaver", iface: "org.gnome.ScreenSaver"},
	{name: "org.freedesktop.ScreenSaver", path: "/org/freedesktop/ScreenSaver", iface: "org.freedesktop.ScreenSaver"},
}

// ScreenLocker locks the session through the screensaver D-Bus service.
type ScreenLocker struct {
	resolve objectResolver
}

// NewScreenLocker returns a locker using the shared session bus.
func NewScreenLocker(bus *SessionBus) *ScreenLocker {
	return &ScreenLocker{resolve: bus.Object}
}

// Lock asks the session to lock immediately.
func (locker *ScreenLocker) Lock(ctx context.Context) error {
	var errs []error
	for _, saver := range screenSavers {
		object, err := locker.resolve(saver.name, saver.path)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		call := object.CallWithContext(ctx, saver.iface+".Lock", 0)
		if call.Err == nil {
			return nil
		}
		errs = append(errs, fmt.Errorf("%s: %w", saver.name, call.Err))
	}
	return fmt.Errorf("lock screen: %w", errors.Join(errs...))
}
