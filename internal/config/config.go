package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/forPelevin/cinedex/internal/domain/segment"
)

// Config holds all application configuration. The zero path loads
// documented defaults; a YAML file overrides them field by field.
type Config struct {
	// SegmentDuration is the length of each indexed segment in seconds.
	SegmentDuration float64 `yaml:"segment_duration"`
	// Workers bounds how many segments are classified concurrently.
	Workers int `yaml:"workers"`

	Segment segment.Config `yaml:"segment"`

	FFmpeg FFmpegConfig `yaml:"ffmpeg"`
}

type FFmpegConfig struct {
	FFprobePath string `yaml:"ffprobe_path"`
}

// Load reads configuration from path, or returns defaults when path is
// empty or the file does not exist.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = findConfigFile()
	}
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the configuration to path, mainly so users can dump the
// defaults and start tuning thresholds from there.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func (c *Config) Validate() error {
	if c.SegmentDuration <= 0 {
		return fmt.Errorf("segment duration must be > 0, got %v", c.SegmentDuration)
	}
	if c.SegmentDuration > 10 {
		return fmt.Errorf("segment duration above 10s defeats segment-level search, got %v", c.SegmentDuration)
	}
	if c.Workers <= 0 {
		return fmt.Errorf("workers must be > 0, got %d", c.Workers)
	}
	return c.Segment.Validate()
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		SegmentDuration: 1.0,
		Workers:         4,
		Segment:         segment.DefaultConfig(),
		FFmpeg: FFmpegConfig{
			FFprobePath: "ffprobe",
		},
	}
}

func findConfigFile() string {
	for _, p := range []string{"cinedex.yaml", ".cinedex.yaml"} {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}
