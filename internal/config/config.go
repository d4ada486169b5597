package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	TrackPath          string  `json:"track_path"`
	DefaultVolume      float64 `json:"default_volume"`
	Headless           bool    `json:"headless"`
	RequireInteraction bool    `json:"require_interaction"`
	FrameRate          int     `json:"frame_rate"`
	LogFile            string  `json:"log_file"`
	KeyBindings        KeyMap  `json:"key_bindings"`
}

// KeyMap defines keyboard shortcuts
type KeyMap struct {
	PlayPause  string `json:"play_pause"`
	VolumeUp   string `json:"volume_up"`
	VolumeDown string `json:"volume_down"`
	Recording  string `json:"recording"`
	Memory     string `json:"memory"`
	FadeOut    string `json:"fade_out"`
	FadeIn     string `json:"fade_in"`
	Quit       string `json:"quit"`
}

// GetDefaultConfig returns default configuration
func GetDefaultConfig() *Config {
	return &Config{
		TrackPath:          "assets/fullsong.mp3",
		DefaultVolume:      0.5,
		Headless:           false,
		RequireInteraction: true,
		FrameRate:          60,
		LogFile:            "bgaudio.log",
		KeyBindings: KeyMap{
			PlayPause:  " ",
			VolumeUp:   "+",
			VolumeDown: "-",
			Recording:  "r",
			Memory:     "m",
			FadeOut:    "f",
			FadeIn:     "F",
			Quit:       "q",
		},
	}
}

// FrameInterval returns the time between fade steps
func (c *Config) FrameInterval() time.Duration {
	if c.FrameRate <= 0 {
		return time.Second / 60
	}
	return time.Second / time.Duration(c.FrameRate)
}

// LoadConfig reads and unmarshals configuration from file. Fields missing
// from the file keep their defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return GetDefaultConfig(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := GetDefaultConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	config.normalize()
	return config, nil
}

// SaveConfig marshals and saves configuration to file
func SaveConfig(config *Config, path string) error {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// LoadOrCreate loads config from path or creates default if not exists
func LoadOrCreate(path string) (*Config, error) {
	config, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	// Save default config if file didn't exist
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := SaveConfig(config, path); err != nil {
			return nil, fmt.Errorf("failed to save default config: %w", err)
		}
	}

	return config, nil
}

// LoadEnvFile loads variables from a .env file into the process
// environment. A missing file is not an error.
func LoadEnvFile(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load env file: %w", err)
	}
	return nil
}

// ApplyEnv overrides fields from BGAUDIO_* environment variables
func (c *Config) ApplyEnv() error {
	if v := os.Getenv("BGAUDIO_TRACK"); v != "" {
		c.TrackPath = v
	}
	if v := os.Getenv("BGAUDIO_LOG_FILE"); v != "" {
		c.LogFile = v
	}
	if v := os.Getenv("BGAUDIO_VOLUME"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid BGAUDIO_VOLUME: %w", err)
		}
		c.DefaultVolume = f
	}
	if v := os.Getenv("BGAUDIO_HEADLESS"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid BGAUDIO_HEADLESS: %w", err)
		}
		c.Headless = b
	}
	if v := os.Getenv("BGAUDIO_REQUIRE_INTERACTION"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid BGAUDIO_REQUIRE_INTERACTION: %w", err)
		}
		c.RequireInteraction = b
	}
	c.normalize()
	return nil
}

func (c *Config) normalize() {
	if c.DefaultVolume < 0 {
		c.DefaultVolume = 0
	}
	if c.DefaultVolume > 1 {
		c.DefaultVolume = 1
	}
}

// GetConfigPath returns the default config file path
func GetConfigPath() string {
	// Check environment variable first
	if path := os.Getenv("BGAUDIO_CONFIG"); path != "" {
		return path
	}

	// Use XDG config directory if available
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "bgaudio", "config.json")
	}

	// Fall back to home directory
	home, err := os.UserHomeDir()
	if err != nil {
		return "./config.json"
	}

	return filepath.Join(home, ".config", "bgaudio", "config.json")
}
