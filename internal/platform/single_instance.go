package platform

import (
	"errors"
	"fmt"
	"strings"

	"github.com/godbus/dbus/v5"
)

// ErrAlreadyRunning indicates another instance already owns the bus name.
var ErrAlreadyRunning = errors.New("instance already running")

type nameOwner interface {
	RequestName(name string, flags dbus.RequestNameFlags) (dbus.RequestNameReply, error)
	ReleaseName(name string) (dbus.ReleaseNameReply, error)
}

// InstanceGuard holds the well-known bus name that marks the running instance.
type InstanceGuard struct {
	owner nameOwner
	name  string
}

// AcquireSingleInstance claims a well-known session bus name derived from appName.
func AcquireSingleInstance(bus *SessionBus, appName string) (*InstanceGuard, error) {
	conn, err := bus.Conn()
	if err != nil {
		return nil, fmt.Errorf("single instance: %w", err)
	}
	return acquireName(conn, BusName(appName))
}

func acquireName(owner nameOwner, name string) (*InstanceGuard, error) {
	reply, err := owner.RequestName(name, dbus.NameFlagDoNotQueue)
	if err != nil {
		return nil, fmt.Errorf("request bus name %s: %w", name, err)
	}
	if reply != dbus.RequestNameReplyPrimaryOwner {
		return nil, ErrAlreadyRunning
	}
	return &InstanceGuard{owner: owner, name: name}, nil
}

// Release gives the bus name back.
func (guard *InstanceGuard) Release() error {
	if guard == nil || guard.owner == nil {
		return nil
	}
	if _, err := guard.owner.ReleaseName(guard.name); err != nil {
		return fmt.Errorf("release bus name %s: %w", guard.name, err)
	}
	return nil
}

// Name returns the owned bus name.
func (guard *InstanceGuard) Name() string {
	if guard == nil {
		return ""
	}
	return guard.name
}

// BusName builds a valid well-known bus name for the application.
func BusName(appName string) string {
	var builder strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(appName)) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			builder.WriteRune(r)
		}
	}
	name := builder.String()
	if name == "" || (name[0] >= '0' && name[0] <= '9') {
		name = "app" + name
	}
	return "io.github.powertimer." + name
}
