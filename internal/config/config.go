package config

import (
	"context"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type contextKey string

const configKey contextKey = "config"

// Config holds all application configuration
type Config struct {
	// Canvas settings
	Canvas CanvasConfig `yaml:"canvas"`

	// FFmpeg settings
	FFmpeg FFmpegConfig `yaml:"ffmpeg"`

	// Export settings
	Export ExportConfig `yaml:"export"`

	// Text layer defaults
	Text TextConfig `yaml:"text"`

	// Image sequence defaults
	Sequence SequenceConfig `yaml:"sequence"`
}

type CanvasConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
	FPS    int `yaml:"fps"`
}

type FFmpegConfig struct {
	BinaryPath string `yaml:"binary_path"`
	Threads    int    `yaml:"threads"`
}

type ExportConfig struct {
	Quality          string  `yaml:"quality"`
	PreferredEncoder string  `yaml:"preferred_encoder"`
	MusicVolume      float64 `yaml:"music_volume"`
	VoiceVolume      float64 `yaml:"voice_volume"`
}

type TextConfig struct {
	FontFamily string `yaml:"font_family"`
	FontSize   int    `yaml:"font_size"`
	FontColor  string `yaml:"font_color"`
}

type SequenceConfig struct {
	DurationPerImage float64 `yaml:"duration_per_image"`
}

// Load reads configuration from file or returns defaults
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

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
		return nil, err
	}

	return cfg, nil
}

// Save writes configuration to file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

func defaultConfig() *Config {
	return &Config{
		Canvas: CanvasConfig{
			Width:  720,
			Height: 1280,
			FPS:    30,
		},
		FFmpeg: FFmpegConfig{
			BinaryPath: "ffmpeg",
			Threads:    0,
		},
		Export: ExportConfig{
			Quality:          "high",
			PreferredEncoder: "",
			MusicVolume:      1.0,
			VoiceVolume:      1.0,
		},
		Text: TextConfig{
			FontFamily: "Arial",
			FontSize:   24,
			FontColor:  "#FFFFFF",
		},
		Sequence: SequenceConfig{
			DurationPerImage: 3.0,
		},
	}
}

func findConfigFile() string {
	candidates := []string{
		"./config.yaml",
		"./config.yml",
		filepath.Join(os.Getenv("HOME"), ".slopstudio", "config.yaml"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// WithConfig stores config in context
func WithConfig(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configKey, cfg)
}

// FromContext retrieves config from context
func FromContext(ctx context.Context) *Config {
	if cfg, ok := ctx.Value(configKey).(*Config); ok {
		return cfg
	}
	return defaultConfig()
}
