package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const appName = "recraft"

// Config holds all application configuration
type Config struct {
	API       APIConfig       `mapstructure:"api"`
	Endpoints EndpointsConfig `mapstructure:"endpoints"`
	Output    OutputConfig    `mapstructure:"output"`
	Progress  ProgressConfig  `mapstructure:"progress"`
	Store     StoreConfig     `mapstructure:"store"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// APIConfig holds remote API settings
type APIConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Token   string        `mapstructure:"token"` // Overrides the stored token; never written back
	Timeout time.Duration `mapstructure:"timeout"`
}

// EndpointsConfig holds operation paths relative to the base URL
type EndpointsConfig struct {
	Generate          string `mapstructure:"generate"`
	RemoveBackground  string `mapstructure:"remove_background"`
	Vectorize         string `mapstructure:"vectorize"`
	ClarityUpscale    string `mapstructure:"clarity_upscale"`
	GenerativeUpscale string `mapstructure:"generative_upscale"`
}

// OutputConfig holds download settings
type OutputConfig struct {
	Dir string `mapstructure:"dir"` // Local directory or bucket URL; empty means cwd
}

// ProgressConfig holds progress display settings
type ProgressConfig struct {
	Interval time.Duration `mapstructure:"interval"`
}

// StoreConfig holds secret store settings
type StoreConfig struct {
	Path string `mapstructure:"path"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL: "https://external.api.recraft.ai/v1",
			Timeout: 60 * time.Second,
		},
		Endpoints: EndpointsConfig{
			Generate:          "/images/generations",
			RemoveBackground:  "/images/removeBackground",
			Vectorize:         "/images/vectorize",
			ClarityUpscale:    "/images/clarityUpscale",
			GenerativeUpscale: "/images/generativeUpscale",
		},
		Progress: ProgressConfig{
			Interval: 500 * time.Millisecond,
		},
		Store: StoreConfig{
			Path: filepath.Join(dataDir(), "secrets.db"),
		},
		Logging: LoggingConfig{
			File:  filepath.Join(dataDir(), appName+".log"),
			Level: "INFO",
		},
	}
}

// dataDir returns the per-user data directory for the current OS
func dataDir() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), appName)
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", appName)
	}
}

// DefaultConfigPath returns the default config directory for the current OS
func DefaultConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), appName)
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", appName)
	}
}

// Load reads config.yaml from configDir (DefaultConfigPath when empty) and
// the working directory, then applies RECRAFT_* environment overrides.
// A missing config file is not an error.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigPath()
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configDir)
	v.AddConfigPath(".")

	// Environment variable overrides, e.g. RECRAFT_API_TOKEN
	v.SetEnvPrefix("RECRAFT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Register every key so env overrides reach Unmarshal
	setDefaults(v, DefaultConfig())

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	cfg.Store.Path = expandHome(cfg.Store.Path)
	cfg.Logging.File = expandHome(cfg.Logging.File)
	cfg.Output.Dir = expandHome(cfg.Output.Dir)

	return cfg, nil
}

func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("api.base_url", cfg.API.BaseURL)
	v.SetDefault("api.token", cfg.API.Token)
	v.SetDefault("api.timeout", cfg.API.Timeout)

	v.SetDefault("endpoints.generate", cfg.Endpoints.Generate)
	v.SetDefault("endpoints.remove_background", cfg.Endpoints.RemoveBackground)
	v.SetDefault("endpoints.vectorize", cfg.Endpoints.Vectorize)
	v.SetDefault("endpoints.clarity_upscale", cfg.Endpoints.ClarityUpscale)
	v.SetDefault("endpoints.generative_upscale", cfg.Endpoints.GenerativeUpscale)

	v.SetDefault("output.dir", cfg.Output.Dir)
	v.SetDefault("progress.interval", cfg.Progress.Interval)
	v.SetDefault("store.path", cfg.Store.Path)

	v.SetDefault("logging.file", cfg.Logging.File)
	v.SetDefault("logging.level", cfg.Logging.Level)
}

// expandHome replaces a leading ~ with the user's home directory
func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
