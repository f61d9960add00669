package main

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

type fakeService struct {
	enabled   bool
	enableErr error
}

func (service *fakeService) GetConfigDir() (string, error) {
	return "/tmp/config", nil
}

func (service *fakeService) EnableAutostart(appName, execPath string) error {
	if service.enableErr != nil {
		return service.enableErr
	}
	service.enabled = true
	return nil
}

func (service *fakeService) DisableAutostart(appName string) error {
	service.enabled = false
	return nil
}

func (service *fakeService) AutostartEnabled(appName string) (bool, error) {
	return service.enabled, nil
}

func TestSyncAutostartFollowsSetting(t *testing.T) {
	service := &fakeService{}

	syncAutostart(service, true, zerolog.Nop())
	assert.True(t, service.enabled)

	syncAutostart(service, false, zerolog.Nop())
	assert.False(t, service.enabled)
}

func TestSyncAutostartFailureIsLogged(t *testing.T) {
	service := &fakeService{enableErr: errors.New("read-only config dir")}

	assert.NotPanics(t, func() {
		syncAutostart(service, true, zerolog.Nop())
	})
	assert.False(t, service.enabled)
}
