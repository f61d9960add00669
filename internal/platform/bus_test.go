package platform

import (
	"errors"
	"testing"

	"github.com/godbus/dbus/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSessionBusDoesNotConnectEagerly(t *testing.T) {
	bus := NewSessionBus()

	require.NotNil(t, bus.connect)
	assert.Nil(t, bus.conn)
	assert.NoError(t, bus.Close())
}

func TestSessionBusConnectFailure(t *testing.T) {
	dialErr := errors.New("no session bus")
	attempts := 0
	bus := &SessionBus{connect: func() (*dbus.Conn, error) {
		attempts++
		return nil, dialErr
	}}

	_, err := bus.Conn()
	require.ErrorIs(t, err, dialErr)

	_, err = bus.Object(sessionManagerName, sessionManagerPath)
	require.ErrorIs(t, err, dialErr)
	assert.Equal(t, 2, attempts)
}
