package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// UserDir is the per-user directory below $HOME holding config, logs and scores.
const UserDir = ".stg"

// Load loads the configuration.
// Search order: customPath -> ~/.stg/config.{yaml,toml} -> ./configs/stg.{yaml,toml} -> embedded default.
// Files overlay the hardcoded defaults, so a file only needs the keys it changes.
func Load(customPath string) (Config, error) {
	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return Config{}, fmt.Errorf("config: failed to read %s: %w", customPath, err)
		}
		cfg, err := Decode(customPath, data)
		if err != nil {
			return Config{}, err
		}
		return cfg, nil
	}

	candidates := []string{
		userConfigPath("config.yaml"),
		userConfigPath("config.toml"),
		filepath.Join("configs", "stg.yaml"),
		filepath.Join("configs", "stg.toml"),
	}
	for _, path := range candidates {
		if path == "" {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		if cfg, err := Decode(path, data); err == nil {
			return cfg, nil
		}
	}

	// Use embedded default YAML
	cfg, err := Decode("stg.yaml", defaultYAML)
	if err != nil {
		return Default(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// Decode parses data over Default(), picking TOML or YAML by the file
// extension of name.
func Decode(name string, data []byte) (Config, error) {
	cfg := Default()

	switch strings.ToLower(filepath.Ext(name)) {
	case ".toml":
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&cfg); err != nil {
			return Config{}, fmt.Errorf("config: failed to parse %s: %w", name, err)
		}
	default:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return Config{}, fmt.Errorf("config: failed to parse %s: %w", name, err)
		}
	}
	return cfg, nil
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, UserDir, filename)
}
