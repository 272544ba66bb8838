package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/gpr300/terrainlab/internal/engine/terrain"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Window.Width != 1280 {
		t.Errorf("expected width 1280, got %d", cfg.Window.Width)
	}
	if cfg.Window.Height != 720 {
		t.Errorf("expected height 720, got %d", cfg.Window.Height)
	}
	if !cfg.Window.VSync {
		t.Error("expected vsync to be true by default")
	}

	if cfg.Terrain.Config != terrain.DefaultConfig() {
		t.Errorf("expected terrain defaults, got %+v", cfg.Terrain.Config)
	}
	if cfg.Terrain.ColorBands != "" {
		t.Errorf("expected default palette, got %s", cfg.Terrain.ColorBands)
	}
	if cfg.Terrain.Texture != "" || cfg.Terrain.NoiseTexture != "" {
		t.Errorf("expected untextured terrain, got %q and %q", cfg.Terrain.Texture, cfg.Terrain.NoiseTexture)
	}
	if cfg.Terrain.NoiseInfluence != 0.4 {
		t.Errorf("expected noise influence 0.4, got %v", cfg.Terrain.NoiseInfluence)
	}

	if cfg.Camera.FOV != 60 {
		t.Errorf("expected fov 60, got %v", cfg.Camera.FOV)
	}
	if cfg.Camera.Orthographic {
		t.Error("expected perspective projection by default")
	}

	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")

	yamlContent := `
window:
  width: 1920
  height: 1080
  fullscreen: true

terrain:
  resolution: 256
  width: 500
  length: 400
  min_height: -5
  max_height: 60
  redistribution: 2
  blur: 0
  heightmap: "maps/island.png"
  color_bands: "maps/island-bands.yaml"
  texture: "maps/grass.png"
  noise_texture: "maps/noise.tga"
  noise_influence: 0.75

camera:
  fov: 45
  orthographic: true
  orthographic_size: 300
  position: [1, 2, 3]

logging:
  level: "debug"
  log_file: "terrain.log"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Window.Width != 1920 || cfg.Window.Height != 1080 {
		t.Errorf("expected 1920x1080, got %dx%d", cfg.Window.Width, cfg.Window.Height)
	}
	if !cfg.Window.Fullscreen {
		t.Error("expected fullscreen to be true")
	}

	want := terrain.Config{
		Resolution:     256,
		Width:          500,
		Length:         400,
		MinHeight:      -5,
		MaxHeight:      60,
		Redistribution: 2,
		Blur:           0,
	}
	if cfg.Terrain.Config != want {
		t.Errorf("terrain = %+v, want %+v", cfg.Terrain.Config, want)
	}
	if cfg.Terrain.Heightmap != "maps/island.png" {
		t.Errorf("expected heightmap maps/island.png, got %s", cfg.Terrain.Heightmap)
	}
	if cfg.Terrain.ColorBands != "maps/island-bands.yaml" {
		t.Errorf("expected colour bands file, got %s", cfg.Terrain.ColorBands)
	}
	if cfg.Terrain.Texture != "maps/grass.png" || cfg.Terrain.NoiseTexture != "maps/noise.tga" {
		t.Errorf("expected texture paths, got %q and %q", cfg.Terrain.Texture, cfg.Terrain.NoiseTexture)
	}
	if cfg.Terrain.NoiseInfluence != 0.75 {
		t.Errorf("expected noise influence 0.75, got %v", cfg.Terrain.NoiseInfluence)
	}

	if cfg.Camera.FOV != 45 || !cfg.Camera.Orthographic || cfg.Camera.OrthographicSize != 300 {
		t.Errorf("camera = %+v", cfg.Camera)
	}
	if cfg.Camera.Position != [3]float32{1, 2, 3} {
		t.Errorf("expected position [1 2 3], got %v", cfg.Camera.Position)
	}
	// Keys absent from the file keep their defaults
	if cfg.Camera.NearPlane != 0.1 {
		t.Errorf("expected default near plane, got %v", cfg.Camera.NearPlane)
	}

	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "terrain.log" {
		t.Errorf("expected log file 'terrain.log', got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "invalid.yaml")

	invalidYAML := `
terrain:
  resolution: not a number
  invalid syntax here
`

	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	if err := loadFromFile(cfg, "/nonexistent/path/config.yaml"); err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero window", func(c *Config) { c.Window.Width = 0 }},
		{"zero resolution", func(c *Config) { c.Terrain.Resolution = 0 }},
		{"negative terrain width", func(c *Config) { c.Terrain.Width = -1 }},
		{"blend threshold one", func(c *Config) { c.Terrain.BlendThreshold = 1 }},
		{"negative noise influence", func(c *Config) { c.Terrain.NoiseInfluence = -0.1 }},
		{"noise influence above one", func(c *Config) { c.Terrain.NoiseInfluence = 1.5 }},
		{"fov 180", func(c *Config) { c.Camera.FOV = 180 }},
		{"near zero", func(c *Config) { c.Camera.NearPlane = 0 }},
		{"far before near", func(c *Config) { c.Camera.FarPlane = c.Camera.NearPlane }},
		{"ortho size zero", func(c *Config) { c.Camera.OrthographicSize = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalid) {
				t.Errorf("expected ErrInvalid, got %v", err)
			}
		})
	}
}

func TestValidateWrapsTerrainError(t *testing.T) {
	cfg := Default()
	cfg.Terrain.Redistribution = -1
	if err := cfg.Validate(); !errors.Is(err, terrain.ErrInvalidConfig) {
		t.Errorf("expected terrain.ErrInvalidConfig in chain, got %v", err)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()

	good := filepath.Join(dir, "good.yaml")
	if err := os.WriteFile(good, []byte("terrain:\n  resolution: 64\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := LoadFile(good)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Terrain.Resolution != 64 {
		t.Errorf("expected resolution 64, got %d", cfg.Terrain.Resolution)
	}

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("terrain:\n  resolution: 0\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadFile(bad); !errors.Is(err, ErrInvalid) {
		t.Errorf("expected ErrInvalid, got %v", err)
	}
}

func TestExampleConfigMatchesDefaults(t *testing.T) {
	cfg, err := LoadFile(filepath.Join("..", "..", "config.example.yaml"))
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}

	want := Default()
	want.Terrain.ColorBands = "assets/bands.yaml"
	want.Terrain.Texture = "assets/texture.png"
	want.Terrain.NoiseTexture = "assets/noise.png"
	if *cfg != *want {
		t.Errorf("example config drifted from defaults:\n got %+v\nwant %+v", *cfg, *want)
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()

	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	tmpDir := t.TempDir()
	os.Chdir(tmpDir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "xdg"))

	if path := findConfigFile(); path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("window:\n  width: 800\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	if path := findConfigFile(); path == "" {
		t.Error("expected to find config.yaml in current directory")
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		verify   func(*testing.T, *Config)
		teardown func()
	}{
		{
			name:  "debug flag",
			setup: func() { *flagDebug = true },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
			},
			teardown: func() { *flagDebug = false },
		},
		{
			name:  "heightmap flag",
			setup: func() { *flagHeightmap = "other.png" },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Terrain.Heightmap != "other.png" {
					t.Errorf("expected heightmap other.png, got %s", cfg.Terrain.Heightmap)
				}
			},
			teardown: func() { *flagHeightmap = "" },
		},
		{
			name:  "resolution flag",
			setup: func() { *flagResolution = 32 },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Terrain.Resolution != 32 {
					t.Errorf("expected resolution 32, got %d", cfg.Terrain.Resolution)
				}
			},
			teardown: func() { *flagResolution = 0 },
		},
		{
			name: "width and height flags",
			setup: func() {
				*flagWidth = 2560
				*flagHeight = 1440
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Window.Width != 2560 || cfg.Window.Height != 1440 {
					t.Errorf("expected 2560x1440, got %dx%d", cfg.Window.Width, cfg.Window.Height)
				}
			},
			teardown: func() {
				*flagWidth = 0
				*flagHeight = 0
			},
		},
		{
			name:  "ortho flag",
			setup: func() { *flagOrtho = true },
			verify: func(t *testing.T, cfg *Config) {
				if !cfg.Camera.Orthographic {
					t.Error("expected orthographic camera with ortho flag")
				}
			},
			teardown: func() { *flagOrtho = false },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			defer tt.teardown()

			cfg := Default()
			applyFlags(cfg)
			tt.verify(t, cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")

	yamlContent := `
window:
  width: 1600
  height: 900
terrain:
  resolution: 128
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	*flagWidth = 1920
	*flagResolution = 16
	defer func() {
		*flagConfig = ""
		*flagWidth = 0
		*flagResolution = 0
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Flags beat the file
	if cfg.Window.Width != 1920 {
		t.Errorf("expected width 1920 from flag, got %d", cfg.Window.Width)
	}
	if cfg.Terrain.Resolution != 16 {
		t.Errorf("expected resolution 16 from flag, got %d", cfg.Terrain.Resolution)
	}
	// The file beats the defaults
	if cfg.Window.Height != 900 {
		t.Errorf("expected height 900 from file, got %d", cfg.Window.Height)
	}
}

func TestSaveToRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.Terrain.Resolution = 77
	cfg.Terrain.Heightmap = "x.png"
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	loaded, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if loaded.Terrain.Resolution != 77 || loaded.Terrain.Heightmap != "x.png" {
		t.Errorf("round trip lost terrain settings: %+v", loaded.Terrain)
	}
}
