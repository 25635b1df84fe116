package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// loadFileOverlay reads a YAML, JSON or TOML file and merges the keys it sets
// over cfg. Keys absent from the file keep their environment values.
func loadFileOverlay(path string, cfg *Config) error {
	cleanPath := filepath.Clean(path)
	if strings.Contains(cleanPath, "..") {
		return fmt.Errorf("directory traversal not allowed in config path: %s", path)
	}

	v := viper.New()
	v.SetConfigFile(cleanPath)

	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config file %s: %w", cleanPath, err)
	}

	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("failed to decode config file %s: %w", cleanPath, err)
	}

	return nil
}
