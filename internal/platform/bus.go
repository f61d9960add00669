package platform

import (
	"context"
	"fmt"
	"sync"

	"github.com/godbus/dbus/v5"
)

// BusObject is the subset of dbus.BusObject used for method calls.
type BusObject interface {
	CallWithContext(ctx context.Context, method string, flags dbus.Flags, args ...interface{}) *dbus.Call
}

type objectResolver func(dest string, path dbus.ObjectPath) (BusObject, error)

// SessionBus lazily opens one shared session bus connection.
type SessionBus struct {
	mu      sync.Mutex
	conn    *dbus.Conn
	connect func() (*dbus.Conn, error)
}

// NewSessionBus returns a SessionBus that connects on first use.
func NewSessionBus() *SessionBus {
	return &SessionBus{connect: func() (*dbus.Conn, error) {
		return dbus.ConnectSessionBus()
	}}
}

// Conn returns the shared connection, dialing it if needed.
func (bus *SessionBus) Conn() (*dbus.Conn, error) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	if bus.conn != nil && bus.conn.Connected() {
		return bus.conn, nil
	}
	conn, err := bus.connect()
	if err != nil {
		return nil, fmt.Errorf("connect session bus: %w", err)
	}
	bus.conn = conn
	return conn, nil
}

// Object returns a remote object on the session bus.
func (bus *SessionBus) Object(dest string, path dbus.ObjectPath) (BusObject, error) {
	conn, err := bus.Conn()
	if err != nil {
		return nil, err
	}
	return conn.Object(dest, path), nil
}

// Close closes the shared connection if it was opened.
func (bus *SessionBus) Close() error {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	if bus.conn == nil {
		return nil
	}
	err := bus.conn.Close()
	bus.conn = nil
	return err
}
