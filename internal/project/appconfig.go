package project

import (
	"os"
	"path/filepath"

	"github.com/piwi3910/ensurefill/internal/model"
)

// DefaultConfigDir returns the default directory for application configuration.
// On all platforms this is ~/.ensurefill/
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".ensurefill")
}

// DefaultConfigPath returns the default path for the application config file.
func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.yaml")
}

// SaveAppConfig persists an AppConfig to the given path. Files ending in
// .yaml or .yml are written as YAML, anything else as JSON.
// It creates any missing parent directories automatically.
func SaveAppConfig(path string, config model.AppConfig) error {
	return writeFile(path, config)
}

// LoadAppConfig reads an AppConfig from the given path.
// If the file does not exist, it returns DefaultAppConfig with no error.
// Keys missing from the file keep their default values.
func LoadAppConfig(path string) (model.AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return model.DefaultAppConfig(), nil
		}
		return model.AppConfig{}, err
	}
	config := model.DefaultAppConfig()
	if err := unmarshal(path, data, &config); err != nil {
		return model.AppConfig{}, err
	}
	// Ensure RecentFiles is never nil
	if config.RecentFiles == nil {
		config.RecentFiles = []string{}
	}
	return config, nil
}

// AddRecentFile moves path to the front of the recent file list, keeping
// at most limit entries.
func AddRecentFile(config *model.AppConfig, path string, limit int) {
	files := []string{path}
	for _, f := range config.RecentFiles {
		if f != path && len(files) < limit {
			files = append(files, f)
		}
	}
	config.RecentFiles = files
}
