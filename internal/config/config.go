package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Backend  BackendConfig  `mapstructure:"backend"`
	Metadata MetadataConfig `mapstructure:"metadata"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// BackendConfig holds movie catalogue service configuration. An empty URL
// puts the client in offline mirror mode.
type BackendConfig struct {
	URL string `mapstructure:"url"`
}

// MetadataConfig holds the external metadata provider configuration
type MetadataConfig struct {
	URL    string `mapstructure:"url"`
	Bearer string `mapstructure:"bearer"` // Provider API token, independent of backend auth
}

// CacheConfig holds the local mirror location
type CacheConfig struct {
	Dir string `mapstructure:"dir"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Backend: BackendConfig{
			URL: "",
		},
		Metadata: MetadataConfig{
			URL:    "https://api.themoviedb.org/3",
			Bearer: "",
		},
		Cache: CacheConfig{
			Dir: defaultCacheDir(),
		},
		Logging: LoggingConfig{
			File:  defaultLogPath(),
			Level: "INFO",
		},
	}
}

// defaultLogPath returns the default log file path for the current OS
func defaultLogPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "marquee", "marquee.log")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "marquee", "marquee.log")
	}
}

// defaultCacheDir returns the default mirror directory for the current OS
func defaultCacheDir() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "marquee", "cache")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "marquee", "cache")
	}
}

// defaultConfigPath returns the default config file path for the current OS
func defaultConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "marquee")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "marquee")
	}
}

// Exists reports whether a config file is present in any search path.
// A missing file marks a first run.
func Exists() bool {
	return existsIn([]string{defaultConfigPath(), "."})
}

func existsIn(dirs []string) bool {
	for _, dir := range dirs {
		if _, err := os.Stat(filepath.Join(dir, "config.yaml")); err == nil {
			return true
		}
	}
	return false
}

// LoadConfig loads configuration from file and environment
func LoadConfig() (*Config, error) {
	cfg := DefaultConfig()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(defaultConfigPath())
	viper.AddConfigPath(".")

	// Environment variable overrides
	viper.SetEnvPrefix("MARQUEE")
	viper.AutomaticEnv()

	// Read config file if it exists
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves the current configuration to file
func SaveConfig(cfg *Config) error {
	configPath := defaultConfigPath()

	if err := os.MkdirAll(configPath, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Set fields individually to ensure correct key names (snake_case)
	viper.Set("backend.url", cfg.Backend.URL)
	viper.Set("metadata.url", cfg.Metadata.URL)
	viper.Set("metadata.bearer", cfg.Metadata.Bearer)
	viper.Set("cache.dir", cfg.Cache.Dir)
	viper.Set("logging.file", cfg.Logging.File)
	viper.Set("logging.level", cfg.Logging.Level)

	configFile := filepath.Join(configPath, "config.yaml")
	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// HasBackend returns true when a catalogue backend is configured
func (c *Config) HasBackend() bool {
	return c.Backend.URL != ""
}

// HasMetadata returns true when the external provider token is set
func (c *Config) HasMetadata() bool {
	return c.Metadata.Bearer != ""
}
