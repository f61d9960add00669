package platform

import (
	"errors"
	"testing"

	"github.com/godbus/dbus/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeOwner struct {
	reply    dbus.RequestNameReply
	err      error
	released []string
}

func (owner *fakeOwner) RequestName(string, dbus.RequestNameFlags) (dbus.RequestNameReply, error) {
	return owner.reply, owner.err
}

func (owner *fakeOwner) ReleaseName(name string) (dbus.ReleaseNameReply, error) {
	owner.released = append(owner.released, name)
	return dbus.ReleaseNameReplyReleased, nil
}

func TestAcquireNamePrimaryOwner(t *testing.T) {
	owner := &fakeOwner{reply: dbus.RequestNameReplyPrimaryOwner}

	guard, err := acquireName(owner, "io.github.powertimer.test")

	require.NoError(t, err)
	assert.Equal(t, "io.github.powertimer.test", guard.Name())
	require.NoError(t, guard.Release())
	assert.Equal(t, []string{"io.github.powertimer.test"}, owner.released)
}

func TestAcquireNameAlreadyOwned(t *testing.T) {
	owner := &fakeOwner{reply: dbus.RequestNameReplyExists}

	_, err := acquireName(owner, "io.github.powertimer.test")

	assert.ErrorIs(t, err, ErrAlreadyRunning)
}

func TestAcquireNameBusError(t *testing.T) {
	owner := &fakeOwner{err: errors.New("disconnected")}

	_, err := acquireName(owner, "io.github.powertimer.test")

	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrAlreadyRunning)
}

func TestNilGuardRelease(t *testing.T) {
	var guard *InstanceGuard
	assert.NoError(t, guard.Release())
	assert.Empty(t, guard.Name())
}

func TestBusName(t *testing.T) {
	assert.Equal(t, "io.github.powertimer.powertimer", BusName("PowerTimer"))
	assert.Equal(t, "io.github.powertimer.mytimer2", BusName(" My Timer-2 "))
	assert.Equal(t, "io.github.powertimer.app9lives", BusName("9lives"))
	assert.Equal(t, "io.github.powertimer.app", BusName(""))
}
