package platform

import (
	"context"
	"errors"
	"testing"

	"github.com/godbus/dbus/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLockUsesGnomeScreenSaver(t *testing.T) {
	bus := newFakeBus()
	locker := &ScreenLocker{resolve: bus.resolve}

	require.NoError(t, locker.Lock(context.Background()))
	assert.Equal(t, []string{"org.gnome.ScreenSaver.Lock"}, bus.methods())
}

func TestLockFallsBackToFreedesktop(t *testing.T) {
	bus := newFakeBus()
	bus.responses["org.gnome.ScreenSaver.Lock"] = &dbus.Call{Err: errors.New("unknown method")}
	locker := &ScreenLocker{resolve: bus.resolve}

	require.NoError(t, locker.Lock(context.Background()))
	assert.Equal(t, []string{"org.gnome.ScreenSaver.Lock", "org.freedesktop.ScreenSaver.Lock"}, bus.methods())
}

func TestLockFailsWhenNoScreenSaver(t *testing.T) {
	bus := newFakeBus()
	bus.missing["org.gnome.ScreenSaver"] = true
	bus.responses["org.freedesktop.ScreenSaver.Lock"] = &dbus.Call{Err: errors.New("not supported")}
	locker := &ScreenLocker{resolve: bus.resolve}

	err := locker.Lock(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "org.gnome.ScreenSaver")
	assert.Contains(t, err.Error(), "not supported")
}
