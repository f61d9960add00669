package platform

import (
	"errors"
	"fmt"
	"os"
)

// ErrUnsupported indicates the operation is not available on this system.
var ErrUnsupported = errors.New("unsupported on this platform")

// Service defines OS-specific helpers needed by the application.
type Service interface {
	GetConfigDir() (string, error)
	EnableAutostart(appName, execPath string) error
	DisableAutostart(appName string) error
	AutostartEnabled(appName string) (bool, error)
}

type platformService struct{}

// NewService returns a platform-specific implementation.
func NewService() Service {
	return &platformService{}
}

// GetConfigDir returns the OS-standard configuration directory.
func (service *platformService) GetConfigDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err == nil && configDir != "" {
		return configDir, nil
	}

	homeDir, homeErr := os.UserHomeDir()
	if homeErr != nil {
		if err != nil {
			return "", fmt.Errorf("get config dir: %w", err)
		}
		return "", fmt.Errorf("get config dir: %w", homeErr)
	}

	return fallbackConfigDir(homeDir), nil
}

// SyncAutostart makes the autostart entry match the wanted state. An enabled
// entry is rewritten so it points at the current executable.
func SyncAutostart(service Service, appName string, wanted bool) error {
	if !wanted {
		enabled, err := service.AutostartEnabled(appName)
		if err != nil {
			return err
		}
		if !enabled {
			return nil
		}
		return service.DisableAutostart(appName)
	}
	execPath, err := os.Executable()
	if err != nil {
		return fmt.Errorf("enable autostart: resolve executable: %w", err)
	}
	return service.EnableAutostart(appName, execPath)
}
