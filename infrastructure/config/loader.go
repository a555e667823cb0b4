package config

import (
	"errors"
	"fmt"
	"os"

	"extract-mp3/domain/video"

	"gopkg.in/yaml.v3"
)

// DefaultPath is where commands look for configuration when --config is not set
const DefaultPath = "config/config.yaml"

// Config represents the complete application configuration
type Config struct {
	Paths   PathsConfig   `yaml:"paths"`
	Audio   AudioConfig   `yaml:"audio"`
	FFmpeg  FFmpegConfig  `yaml:"ffmpeg"`
	Logging LoggingConfig `yaml:"logging"`
}

// PathsConfig contains the default input and output locations
type PathsConfig struct {
	SourceFile      string `yaml:"source_file"`
	OutputDirectory string `yaml:"output_directory"`
}

// AudioConfig contains audio extraction settings
type AudioConfig struct {
	Bitrate    string `yaml:"bitrate"`
	SampleRate int    `yaml:"sample_rate"`
}

// FFmpegConfig locates the media toolkit binaries
type FFmpegConfig struct {
	FFmpegPath  string `yaml:"ffmpeg_path"`
	FFprobePath string `yaml:"ffprobe_path"`
}

// LoggingConfig controls diagnostic output
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Default returns the configuration used when no file is present
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Paths.SourceFile == "" {
		c.Paths.SourceFile = video.DefaultSourcePath
	}
	if c.Audio.Bitrate == "" {
		c.Audio.Bitrate = video.DefaultAudioBitrate
	}
	if c.Audio.SampleRate == 0 {
		c.Audio.SampleRate = video.DefaultSampleRate
	}
	if c.FFmpeg.FFmpegPath == "" {
		c.FFmpeg.FFmpegPath = "ffmpeg"
	}
	if c.FFmpeg.FFprobePath == "" {
		c.FFmpeg.FFprobePath = "ffprobe"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
}

// Load reads and parses the configuration from the specified YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if cfg.Audio.SampleRate != 0 && !video.ValidSampleRate(cfg.Audio.SampleRate) {
		return nil, fmt.Errorf("audio.sample_rate %d is not supported, expected one of %v", cfg.Audio.SampleRate, video.SupportedSampleRates)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// LoadOrDefault loads path, falling back to Default when the file does not exist.
// Any other read or parse failure is returned.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Save writes the configuration to the specified YAML file
func Save(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
