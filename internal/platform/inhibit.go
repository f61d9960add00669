package platform

import (
	"context"
	"fmt"
	"sync"

	"powertimer/internal/core/timekeeper"

	"github.com/godbus/dbus/v5"
)

const (
	sessionManagerName = "org.gnome.SessionManager"
	sessionManagerPath = dbus.ObjectPath("/org/gnome/SessionManager")

	inhibitSuspend uint32 = 4
	inhibitIdle    uint32 = 8
)

// SessionInhibitor holds at most one suspend inhibition from the session manager.
type SessionInhibitor struct {
	mu      sync.Mutex
	resolve objectResolver
	current *sessionLease
}

type sessionLease struct {
	inhibitor *SessionInhibitor
	cookie    uint32
}

// NewSessionInhibitor returns an inhibitor talking to the GNOME session manager.
func NewSessionInhibitor(bus *SessionBus) *SessionInhibitor {
	return &SessionInhibitor{resolve: bus.Object}
}

// Acquire asks the session manager to block suspend and idle. While a lease is
// held, Acquire returns it unchanged.
func (inhibitor *SessionInhibitor) Acquire(ctx context.Context, appID, reason string) (timekeeper.Lease, error) {
	inhibitor.mu.Lock()
	defer inhibitor.mu.Unlock()
	if inhibitor.current != nil {
		return inhibitor.current, nil
	}

	object, err := inhibitor.resolve(sessionManagerName, sessionManagerPath)
	if err != nil {
		return nil, fmt.Errorf("inhibit: %w", err)
	}

	var cookie uint32
	call := object.CallWithContext(ctx, sessionManagerName+".Inhibit", 0,
		appID, uint32(0), reason, inhibitSuspend|inhibitIdle)
	if err := call.Store(&cookie); err != nil {
		return nil, fmt.Errorf("inhibit: %w", err)
	}

	inhibitor.current = &sessionLease{inhibitor: inhibitor, cookie: cookie}
	return inhibitor.current, nil
}

// Release gives back the held lease. It is a no-op when nothing is held.
func (inhibitor *SessionInhibitor) Release(ctx context.Context) error {
	inhibitor.mu.Lock()
	defer inhibitor.mu.Unlock()
	return inhibitor.releaseLocked(ctx, inhibitor.current)
}

func (inhibitor *SessionInhibitor) heldCookie() (uint32, bool) {
	inhibitor.mu.Lock()
	defer inhibitor.mu.Unlock()
	if inhibitor.current == nil {
		return 0, false
	}
	return inhibitor.current.cookie, true
}

func (inhibitor *SessionInhibitor) releaseLocked(ctx context.Context, lease *sessionLease) error {
	if lease == nil || inhibitor.current != lease {
		return nil
	}
	inhibitor.current = nil

	object, err := inhibitor.resolve(sessionManagerName, sessionManagerPath)
	if err != nil {
		return fmt.Errorf("uninhibit: %w", err)
	}
	call := object.CallWithContext(ctx, sessionManagerName+".Uninhibit", 0, lease.cookie)
	if call.Err != nil {
		return fmt.Errorf("uninhibit cookie %d: %w", lease.cookie, call.Err)
	}
	return nil
}

func (lease *sessionLease) Release(ctx context.Context) error {
	lease.inhibitor.mu.Lock()
	defer lease.inhibitor.mu.Unlock()
	return lease.inhibitor.releaseLocked(ctx, lease)
}
