package adapter

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/viper"
)

// DefaultCollection is the store collection ingredients live under
const DefaultCollection = "ingredients"

// Config holds all application configuration
type Config struct {
	Store   StoreConfig   `mapstructure:"store"`
	Search  SearchConfig  `mapstructure:"search"`
	Cache   CacheConfig   `mapstructure:"cache"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// StoreConfig holds remote store configuration
type StoreConfig struct {
	URL        string `mapstructure:"url"`        // Database URL, e.g. https://x.firebaseio.com
	Auth       string `mapstructure:"auth"`       // Database secret or ID token, optional
	Collection string `mapstructure:"collection"` // Top-level node holding ingredients
}

// SearchConfig holds search behaviour
type SearchConfig struct {
	DebounceMS  int `mapstructure:"debounce_ms"`
	HistorySize int `mapstructure:"history_size"` // 0 disables query history
}

// CacheConfig holds local cache configuration
type CacheConfig struct {
	Dir string `mapstructure:"dir"` // empty uses the OS default
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Store: StoreConfig{
			Collection: DefaultCollection,
		},
		Search: SearchConfig{
			DebounceMS:  500,
			HistorySize: 50,
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
		return filepath.Join(os.Getenv("APPDATA"), "larder", "larder.log")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "larder", "larder.log")
	}
}

// defaultConfigPath returns the default config directory for the current OS
func defaultConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "larder")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "larder")
	}
}

// defaultCachePath returns the default cache directory for the current OS
func defaultCachePath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("LOCALAPPDATA"), "larder", "cache")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "larder", "cache")
	}
}

// LoadConfig loads configuration from file and environment
func LoadConfig() (*Config, error) {
	return loadConfig(viper.GetViper(), defaultConfigPath(), ".")
}

func loadConfig(v *viper.Viper, paths ...string) (*Config, error) {
	cfg := DefaultConfig()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	// LARDER_STORE_URL and friends
	v.SetEnvPrefix("LARDER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindKeys(v, cfg)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	if cfg.Store.Collection == "" {
		cfg.Store.Collection = DefaultCollection
	}

	return cfg, nil
}

// bindKeys registers every key so AutomaticEnv can see it during Unmarshal
func bindKeys(v *viper.Viper, cfg *Config) {
	v.SetDefault("store.url", cfg.Store.URL)
	v.SetDefault("store.auth", cfg.Store.Auth)
	v.SetDefault("store.collection", cfg.Store.Collection)
	v.SetDefault("search.debounce_ms", cfg.Search.DebounceMS)
	v.SetDefault("search.history_size", cfg.Search.HistorySize)
	v.SetDefault("cache.dir", cfg.Cache.Dir)
	v.SetDefault("logging.file", cfg.Logging.File)
	v.SetDefault("logging.level", cfg.Logging.Level)
}

// SaveConfig saves the current configuration to file
func SaveConfig(cfg *Config) error {
	return saveConfig(viper.GetViper(), defaultConfigPath(), cfg)
}

func saveConfig(v *viper.Viper, configPath string, cfg *Config) error {
	// Set fields individually to keep snake_case key names
	v.Set("store.url", cfg.Store.URL)
	v.Set("store.auth", cfg.Store.Auth)
	v.Set("store.collection", cfg.Store.Collection)

	v.Set("search.debounce_ms", cfg.Search.DebounceMS)
	v.Set("search.history_size", cfg.Search.HistorySize)

	v.Set("cache.dir", cfg.Cache.Dir)

	v.Set("logging.file", cfg.Logging.File)
	v.Set("logging.level", cfg.Logging.Level)

	return writeConfig(v, configPath)
}

// ClearStoreConfig removes the store URL and credentials while preserving
// other settings
func ClearStoreConfig() error {
	return clearStoreConfig(viper.GetViper(), defaultConfigPath())
}

func clearStoreConfig(v *viper.Viper, configPath string) error {
	v.Set("store.url", "")
	v.Set("store.auth", "")
	return writeConfig(v, configPath)
}

func writeConfig(v *viper.Viper, configPath string) error {
	if err := os.MkdirAll(configPath, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	configFile := filepath.Join(configPath, "config.yaml")
	if err := v.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// IsConfigured returns true if a store URL is set. Auth is optional since
// databases with open rules need none.
func (c *Config) IsConfigured() bool {
	return c.Store.URL != ""
}

// CachePath returns the configured cache directory, falling back to the OS
// default
func (c *Config) CachePath() string {
	if c.Cache.Dir != "" {
		return c.Cache.Dir
	}
	return defaultCachePath()
}
