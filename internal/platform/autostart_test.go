package platform

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeService struct {
	enabled   bool
	statusErr error
	calls     []string
}

func (service *fakeService) GetConfigDir() (string, error) {
	return "/tmp/config", nil
}

func (service *fakeService) EnableAutostart(appName, execPath string) error {
	service.calls = append(service.calls, "enable")
	service.enabled = true
	return nil
}

func (service *fakeService) DisableAutostart(appName string) error {
	service.calls = append(service.calls, "disable")
	service.enabled = false
	return nil
}

func (service *fakeService) AutostartEnabled(appName string) (bool, error) {
	service.calls = append(service.calls, "status")
	return service.enabled, service.statusErr
}

func TestSyncAutostartLeavesMissingEntryAlone(t *testing.T) {
	service := &fakeService{}

	require.NoError(t, SyncAutostart(service, "PowerTimer", false))
	assert.Equal(t, []string{"status"}, service.calls)
}

func TestSyncAutostartRemovesUnwantedEntry(t *testing.T) {
	service := &fakeService{enabled: true}

	require.NoError(t, SyncAutostart(service, "PowerTimer", false))
	assert.Equal(t, []string{"status", "disable"}, service.calls)
	assert.False(t, service.enabled)
}

func TestSyncAutostartRewritesWantedEntry(t *testing.T) {
	service := &fakeService{enabled: true}

	require.NoError(t, SyncAutostart(service, "PowerTimer", true))
	assert.Equal(t, []string{"enable"}, service.calls)
}

func TestSyncAutostartStatusError(t *testing.T) {
	statusErr := errors.New("permission denied")
	service := &fakeService{enabled: true, statusErr: statusErr}

	require.ErrorIs(t, SyncAutostart(service, "PowerTimer", false), statusErr)
	assert.Equal(t, []string{"status"}, service.calls)
}
