//go:build !linux

package platform

import (
	"fmt"
	"path/filepath"
)

func (service *platformService) EnableAutostart(appName, execPath string) error {
	return fmt.Errorf("enable autostart: %w", ErrUnsupported)
}

func (service *platformService) DisableAutostart(appName string) error {
	return nil
}

func (service *platformService) AutostartEnabled(appName string) (bool, error) {
	return false, nil
}

func fallbackConfigDir(homeDir string) string {
	return filepath.Join(homeDir, ".config")
}
