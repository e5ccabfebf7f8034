package paths

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/adrg/xdg"

	"StackSnap/internal/constants"
	"StackSnap/internal/version"
)

var (
	// ConfigHomeOverride allows overriding the config home for tests.
	ConfigHomeOverride string
	// StateHomeOverride allows overriding the state home for tests.
	StateHomeOverride string
)

// GetConfigFilePath returns the absolute path to the stacksnap.toml file.
// It places it in a subdirectory named after the application
// (e.g., ~/.config/stacksnap/stacksnap.toml).
func GetConfigFilePath() string {
	return filepath.Join(GetConfigDir(), constants.AppConfigName)
}

// GetConfigDir returns the absolute path to the stacksnap configuration directory.
func GetConfigDir() string {
	if ConfigHomeOverride != "" {
		return ConfigHomeOverride
	}
	appName := strings.ToLower(version.ApplicationName)
	if runtime.GOOS == "darwin" {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", appName)
	}
	return filepath.Join(xdg.ConfigHome, appName)
}

// GetStateDir returns the absolute path to the stacksnap state directory.
func GetStateDir() string {
	if StateHomeOverride != "" {
		return StateHomeOverride
	}
	appName := strings.ToLower(version.ApplicationName)
	return filepath.Join(xdg.StateHome, appName)
}

// GetLogFilePath returns the absolute path to the application log file.
func GetLogFilePath() string {
	return filepath.Join(GetStateDir(), constants.AppLogFileName)
}
