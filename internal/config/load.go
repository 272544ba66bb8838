package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// ErrInvalid is returned by Validate for settings the viewer cannot start with.
var ErrInvalid = errors.New("invalid config")

// Load loads configuration with priority: defaults < file < flags.
func Load() (*Config, error) {
	cfg := Default()

	// Explicit -config wins over the search path
	configPath := ConfigPath()
	if configPath == "" {
		configPath = findConfigFile()
	}

	if configPath != "" {
		if err := loadFromFile(cfg, configPath); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", configPath, err)
		}
	}

	applyFlags(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile reads a single config file over the defaults, ignoring flags.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	if err := loadFromFile(cfg, path); err != nil {
		return nil, fmt.Errorf("loading config from %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every section.
func (c *Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("%w: window size %dx%d", ErrInvalid, c.Window.Width, c.Window.Height)
	}
	if err := c.Terrain.Validate(); err != nil {
		return fmt.Errorf("%w: terrain: %w", ErrInvalid, err)
	}
	if c.Terrain.BlendThreshold < 0 || c.Terrain.BlendThreshold >= 1 {
		return fmt.Errorf("%w: blend threshold %v must be in [0, 1)", ErrInvalid, c.Terrain.BlendThreshold)
	}
	if !(c.Terrain.NoiseInfluence >= 0 && c.Terrain.NoiseInfluence <= 1) {
		return fmt.Errorf("%w: noise influence %v must be in [0, 1]", ErrInvalid, c.Terrain.NoiseInfluence)
	}

	cam := c.Camera
	if cam.FOV <= 0 || cam.FOV >= 180 {
		return fmt.Errorf("%w: camera fov %v must be in (0, 180)", ErrInvalid, cam.FOV)
	}
	if cam.NearPlane <= 0 || cam.FarPlane <= cam.NearPlane {
		return fmt.Errorf("%w: camera clip planes near=%v far=%v", ErrInvalid, cam.NearPlane, cam.FarPlane)
	}
	if cam.OrthographicSize <= 0 {
		return fmt.Errorf("%w: orthographic size %v must be positive", ErrInvalid, cam.OrthographicSize)
	}
	return nil
}

// findConfigFile looks for config in standard locations.
func findConfigFile() string {
	candidates := []string{
		"./config.yaml",
		filepath.Join(ConfigDir(), "config.yaml"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// ConfigDir returns the OS-appropriate config directory.
func ConfigDir() string {
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "TerrainLab")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "TerrainLab")
	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "terrainlab")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "terrainlab")
	}
}

// loadFromFile merges a YAML file over the values already in cfg.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}
