package utils

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/sheikhrachel/torus-gol/render"
)

// Renderer names accepted by Config.Renderer
const (
	RendererTerminal = "terminal"
	RendererEbiten   = "ebiten"
	RendererNone     = "none"
)

var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds the configuration for the game
type Config struct {
	Size                int           `json:"size" yaml:"size"`
	FrameRate           time.Duration `json:"frame_rate" yaml:"frame_rate"`
	MaxGenerations      int           `json:"max_generations" yaml:"max_generations"`
	Seed                int64         `json:"seed" yaml:"seed"`
	UseParallel         bool          `json:"use_parallel" yaml:"use_parallel"`
	Workers             int           `json:"workers" yaml:"workers"`
	UseMemoryPool       bool          `json:"use_memory_pool" yaml:"use_memory_pool"`
	Renderer            string        `json:"renderer" yaml:"renderer"`
	AutoRestart         bool          `json:"auto_restart" yaml:"auto_restart"`
	StagnationThreshold int           `json:"stagnation_threshold" yaml:"stagnation_threshold"`
	RefreshInterval     int           `json:"refresh_interval" yaml:"refresh_interval"`
	StatsFile           string        `json:"stats_file" yaml:"stats_file"`
	SnapshotFile        string        `json:"snapshot_file" yaml:"snapshot_file"`
	LogLevel            string        `json:"log_level" yaml:"log_level"`
	Render              render.Config `json:"render" yaml:"render"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Size:                128,
		FrameRate:           time.Second / 60,
		MaxGenerations:      0, // run until interrupted
		Seed:                0, // time-based
		UseParallel:         false,
		Workers:             0, // one per CPU
		UseMemoryPool:       true,
		Renderer:            RendererTerminal,
		AutoRestart:         false,
		StagnationThreshold: 5,
		RefreshInterval:     200, // generations between forced restarts, 0 disables
		LogLevel:            "info",
		Render:              render.DefaultConfig(),
	}
}

// LoadConfig loads configuration from a JSON or YAML file, chosen by extension.
// Fields missing from the file keep their default values.
func LoadConfig(filename string) (Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(filename)
	if err != nil {
		return config, errors.Wrapf(err, "[LoadConfig] failed to read file: %+v", filename)
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &config)
	default:
		err = json.Unmarshal(data, &config)
	}
	if err != nil {
		return config, errors.Wrapf(err, "[LoadConfig] failed to unmarshal data from file: %+v", filename)
	}

	return config, nil
}

// Validate checks that the configuration can start a run
func (c Config) Validate() error {
	if c.Size < 1 {
		return errors.Wrapf(ErrInvalidConfig, "[Validate] size %d must be at least 1", c.Size)
	}
	if c.FrameRate < 0 {
		return errors.Wrapf(ErrInvalidConfig, "[Validate] frame_rate %s is negative", c.FrameRate)
	}
	if c.MaxGenerations < 0 {
		return errors.Wrapf(ErrInvalidConfig, "[Validate] max_generations %d is negative", c.MaxGenerations)
	}
	if c.Workers < 0 {
		return errors.Wrapf(ErrInvalidConfig, "[Validate] workers %d is negative", c.Workers)
	}
	if c.RefreshInterval < 0 {
		return errors.Wrapf(ErrInvalidConfig, "[Validate] refresh_interval %d is negative", c.RefreshInterval)
	}
	switch c.Renderer {
	case RendererTerminal, RendererEbiten, RendererNone:
	default:
		return errors.Wrapf(ErrInvalidConfig, "[Validate] unknown renderer %q", c.Renderer)
	}
	if err := c.Render.Validate(); err != nil {
		return errors.Wrap(err, "[Validate] render")
	}
	return nil
}

// TPS converts the frame rate to ticks per second, 0 meaning uncapped
func (c Config) TPS() int {
	if c.FrameRate <= 0 {
		return 0
	}
	return int(time.Second / c.FrameRate)
}
