package config

import (
	"errors"
	"io/fs"
	"log"
	"path/filepath"

	"github.com/spf13/afero"
)

// Initialize writes the default configuration into the directory unless one
// already exists, then loads it.
func Initialize(dir string, logger *log.Logger) (*Configuration, error) {
	return InitializeFs(afero.NewOsFs(), dir, logger)
}

// InitializeFs is Initialize on the given filesystem.
func InitializeFs(fsys afero.Fs, dir string, logger *log.Logger) (*Configuration, error) {
	configPath := filepath.Join(dir, ConfigurationName)

	switch _, err := fsys.Stat(configPath); {
	case err == nil:
		logger.Printf("Found existing %s, keeping it", configPath)

	case errors.Is(err, fs.ErrNotExist):
		if err := afero.WriteFile(fsys, configPath, defaultConfigData, 0600); err != nil {
			return nil, err
		}
		logger.Printf("Wrote %s", configPath)

	default:
		return nil, err
	}

	return LoadFs(fsys, dir)
}
