// Package config handles viewer configuration loading and management.
package config

import "github.com/gpr300/terrainlab/internal/engine/terrain"

// Config holds all viewer settings.
type Config struct {
	Window  WindowConfig  `yaml:"window"`
	Terrain TerrainConfig `yaml:"terrain"`
	Camera  CameraConfig  `yaml:"camera"`
	Logging LoggingConfig `yaml:"logging"`
}

// WindowConfig holds display settings.
type WindowConfig struct {
	Title      string `yaml:"title"`
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Fullscreen bool   `yaml:"fullscreen"`
	VSync      bool   `yaml:"vsync"`
}

// TerrainConfig holds the mesh settings plus where to find its inputs.
type TerrainConfig struct {
	terrain.Config `yaml:",inline"`

	Heightmap      string  `yaml:"heightmap"`       // Image path, empty for a flat grid
	ColorBands     string  `yaml:"color_bands"`     // Palette YAML, empty for the default palette
	BlendThreshold float32 `yaml:"blend_threshold"` // Normalized width of the blend between bands

	Texture        string  `yaml:"texture"`         // Surface texture tiled once per cell, empty for none
	NoiseTexture   string  `yaml:"noise_texture"`   // Grayscale noise stretched over the terrain, empty for none
	NoiseInfluence float32 `yaml:"noise_influence"` // 0 ignores the noise, 1 multiplies by it fully
}

// CameraConfig holds the initial camera and its controllers.
type CameraConfig struct {
	Position         [3]float32 `yaml:"position"`
	Target           [3]float32 `yaml:"target"`
	FOV              float32    `yaml:"fov"`
	NearPlane        float32    `yaml:"near"`
	FarPlane         float32    `yaml:"far"`
	Orthographic     bool       `yaml:"orthographic"`
	OrthographicSize float32    `yaml:"orthographic_size"`
	Orbit            bool       `yaml:"orbit"`
	OrbitRadius      float32    `yaml:"orbit_radius"`
	OrbitHeight      float32    `yaml:"orbit_height"`
	OrbitSpeed       float32    `yaml:"orbit_speed"`
	MoveSpeed        float32    `yaml:"move_speed"`
	Sensitivity      float32    `yaml:"sensitivity"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Title:  "terrainlab",
			Width:  1280,
			Height: 720,
			VSync:  true,
		},
		Terrain: TerrainConfig{
			Config:         terrain.DefaultConfig(),
			Heightmap:      "assets/heightmap.png",
			BlendThreshold: 0.01,
			NoiseInfluence: 0.4,
		},
		Camera: CameraConfig{
			Position:         [3]float32{0, 150, 500},
			Target:           [3]float32{0, 0, 0},
			FOV:              60,
			NearPlane:        0.1,
			FarPlane:         3000,
			OrthographicSize: 600,
			Orbit:            true,
			OrbitRadius:      500,
			OrbitHeight:      150,
			OrbitSpeed:       0.2,
			MoveSpeed:        15,
			Sensitivity:      0.1,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
