package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"strings"

	"voxelstream/internal/world"

	"gopkg.in/yaml.v3"
)

// EnvConfigPath names the environment variable consulted when no config path is given.
const EnvConfigPath = "VOXELSTREAM_CONFIG"

// Config is the root configuration, loaded from YAML on top of Default().
type Config struct {
	World   WorldConfig   `yaml:"world"`
	Terrain TerrainConfig `yaml:"terrain"`
	Render  RenderConfig  `yaml:"render"`
	Metrics MetricsConfig `yaml:"metrics"`
	Log     LogConfig     `yaml:"log"`
}

// WorldConfig holds streaming settings.
type WorldConfig struct {
	RenderDistance  int `yaml:"render_distance"` // in chunks
	Workers         int `yaml:"workers"`
	JobQueueSize    int `yaml:"job_queue_size"`
	ResultQueueSize int `yaml:"result_queue_size"`
}

// RenderConfig holds window and draw settings.
type RenderConfig struct {
	Width    int      `yaml:"width"`
	Height   int      `yaml:"height"`
	FPSLimit int      `yaml:"fps_limit"` // 0 disables the limiter
	FOV      float32  `yaml:"fov"`
	VSync    bool     `yaml:"vsync"`
	Textures []string `yaml:"textures"` // top, bottom, side, stone; empty uses generated tiles
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// LogConfig selects the log level ("debug", "info", "warn", "error").
type LogConfig struct {
	Level string `yaml:"level"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		World: WorldConfig{
			RenderDistance:  8,
			Workers:         max(runtime.NumCPU(), 1),
			JobQueueSize:    4096,
			ResultQueueSize: 1024,
		},
		Terrain: DefaultTerrain(),
		Render: RenderConfig{
			Width:    1280,
			Height:   720,
			FPSLimit: 144,
			FOV:      70,
		},
		Metrics: MetricsConfig{
			Addr: ":2112",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads a YAML file over the defaults.
// If path == "", the VOXELSTREAM_CONFIG environment variable is tried; with neither set
// the defaults are returned.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		path = os.Getenv(EnvConfigPath)
		if path == "" {
			return cfg, nil
		}
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate reports every out-of-range setting.
func (c *Config) Validate() error {
	var errs []error
	if c.World.RenderDistance < 0 {
		errs = append(errs, fmt.Errorf("world.render_distance must be >= 0, got %d", c.World.RenderDistance))
	}
	if c.World.Workers <= 0 {
		errs = append(errs, fmt.Errorf("world.workers must be > 0, got %d", c.World.Workers))
	}
	if c.World.JobQueueSize <= 0 || c.World.ResultQueueSize <= 0 {
		errs = append(errs, errors.New("world queue sizes must be > 0"))
	}
	if err := c.Terrain.validate(); err != nil {
		errs = append(errs, err)
	}
	if c.Render.Width <= 0 || c.Render.Height <= 0 {
		errs = append(errs, fmt.Errorf("render size must be positive, got %dx%d", c.Render.Width, c.Render.Height))
	}
	if n := len(c.Render.Textures); n != 0 && n != world.TextureLayerCount {
		errs = append(errs, fmt.Errorf("render.textures must list %d images, got %d", world.TextureLayerCount, n))
	}
	if c.Render.FPSLimit < 0 {
		errs = append(errs, fmt.Errorf("render.fps_limit must be >= 0, got %d", c.Render.FPSLimit))
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// ParseLevel maps a level name to slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("log.level: unknown level %q", s)
	}
}

// Overrides holds values set explicitly on the command line.
type Overrides struct {
	Seed           *int64
	RenderDistance *int
	Workers        *int
}

// Apply copies every non-nil override into c.
func (c *Config) Apply(o Overrides) {
	if o.Seed != nil {
		c.Terrain.Seed = *o.Seed
	}
	if o.RenderDistance != nil {
		c.World.RenderDistance = *o.RenderDistance
	}
	if o.Workers != nil {
		c.World.Workers = *o.Workers
	}
}
