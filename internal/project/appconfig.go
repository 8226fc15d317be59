package project

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/piwi3910/SquareFit/internal/model"
)

// DefaultConfigDir returns the default directory for application configuration.
// On all platforms this is ~/.squarefit/
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".squarefit")
}

// DefaultConfigPath returns the default path for the application config file.
func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.toml")
}

// SaveConfig persists a Config to the given path as TOML.
// It creates any missing parent directories automatically.
func SaveConfig(path string, config model.Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	var buffer bytes.Buffer
	if err := toml.NewEncoder(&buffer).Encode(config); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return os.WriteFile(path, buffer.Bytes(), 0644)
}

// LoadConfig reads a Config from the given path. Keys missing from the file
// keep their DefaultConfig values. If the file does not exist, it returns
// DefaultConfig with no error.
func LoadConfig(path string) (model.Config, error) {
	config := model.DefaultConfig()
	if _, err := toml.DecodeFile(path, &config); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return model.DefaultConfig(), nil
		}
		return model.Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	config.Solver = config.Solver.Normalize()
	return config, nil
}
