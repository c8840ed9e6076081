// Package platform wraps the OS-specific pieces the app needs: config
// directory resolution, launch-at-login registration and the
// single-instance lock.
package platform

import (
	"fmt"
	"os"
)

// Service exposes the OS-specific helpers.
type Service interface {
	GetConfigDir() (string, error)
	EnableAutostart(appName, execPath string) error
	DisableAutostart(appName string) error
}

type platformService struct{}

// NewService returns the implementation for the current OS.
func NewService() Service {
	return &platformService{}
}

// GetConfigDir returns the OS-standard configuration directory, falling
// back to a home-relative default when the OS lookup fails.
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
