package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/zapidan/newsletter-hub-sub011/internal/domain"
	"github.com/zapidan/newsletter-hub-sub011/internal/eventbus"
)

// Config represents the application configuration
type Config struct {
	API     APIConfig     `toml:"api"`
	Feed    FeedConfig    `toml:"feed"`
	Viewer  ViewerConfig  `toml:"viewer"`
	Log     LogConfig     `toml:"log"`
	Metrics MetricsConfig `toml:"metrics"`
}

// APIConfig describes how to reach the newsletter API.
type APIConfig struct {
	BaseURL string        `toml:"base_url"`
	Token   string        `toml:"token"`
	Timeout time.Duration `toml:"timeout"`
}

// FeedConfig controls page fetching.
type FeedConfig struct {
	PageSize   int `toml:"page_size"`
	MaxRetries int `toml:"max_retries"`
}

// ViewerConfig holds list-view settings.
type ViewerConfig struct {
	// MinLoadInterval is the load-trigger cooldown. Rapid re-intersections
	// within this window never issue a second fetch.
	MinLoadInterval time.Duration `toml:"min_load_interval"`

	// SentinelMargin extends the viewport by this many rows when deciding
	// whether the sentinel is visible (rootMargin analog).
	SentinelMargin int `toml:"sentinel_margin"`

	Filter   string `toml:"filter"`
	SortBy   string `toml:"sort_by"`
	SortDesc bool   `toml:"sort_desc"`
}

// LogConfig controls logging output.
type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// MetricsConfig controls the optional Prometheus listener.
type MetricsConfig struct {
	// Addr is the listen address for /metrics; empty disables the listener.
	Addr string `toml:"addr"`
}

// ConfigService handles configuration management
type ConfigService interface {
	Load() (*Config, error)
	Save(config *Config) error
	LoadFromPath(path string) (*Config, error)
	SaveToPath(config *Config, path string) error
}

// configService is the concrete implementation
type configService struct {
	bus      eventbus.EventBus
	filePath string
}

// NewConfigService creates a new config service
func NewConfigService() ConfigService {
	configDir, err := os.UserConfigDir()
	if err != nil {
		// Fallback to home directory
		configDir, err = os.UserHomeDir()
		if err != nil {
			configDir = "."
		}
		configDir = filepath.Join(configDir, ".config")
	}

	appDir := filepath.Join(configDir, "newsletterhub")
	os.MkdirAll(appDir, 0755)

	return &configService{
		filePath: filepath.Join(appDir, "config.toml"),
	}
}

// NewConfigServiceWithBus creates a config service with event bus support
func NewConfigServiceWithBus(bus eventbus.EventBus) ConfigService {
	cs := NewConfigService().(*configService)
	cs.bus = bus
	return cs
}

// Load loads the configuration from file
func (cs *configService) Load() (*Config, error) {
	if _, err := os.Stat(cs.filePath); os.IsNotExist(err) {
		// Return default config if file doesn't exist
		cfg := DefaultConfig()
		cs.publishLoaded(cfg)
		return cfg, nil
	}

	cfg, err := cs.LoadFromPath(cs.filePath)
	if err != nil {
		return nil, err
	}

	cs.publishLoaded(cfg)
	return cfg, nil
}

// Save saves the configuration to file
func (cs *configService) Save(config *Config) error {
	if err := cs.SaveToPath(config, cs.filePath); err != nil {
		return err
	}

	if cs.bus != nil {
		cs.bus.Publish(eventbus.ConfigSavedEvent{})
	}

	return nil
}

// LoadFromPath loads configuration from a specific path
func (cs *configService) LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	applyBounds(cfg)
	return cfg, nil
}

// SaveToPath saves configuration to a specific path
func (cs *configService) SaveToPath(config *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

func (cs *configService) publishLoaded(cfg *Config) {
	if cs.bus != nil {
		cs.bus.Publish(eventbus.ConfigLoadedEvent{Query: cfg.Query()})
	}
}

// Query returns the FilterSort described by the viewer settings.
func (c *Config) Query() domain.FilterSort {
	query := domain.DefaultFilterSort()

	switch domain.Filter(c.Viewer.Filter) {
	case domain.FilterAll, domain.FilterUnread, domain.FilterArchived:
		query.Filter = domain.Filter(c.Viewer.Filter)
	}
	switch domain.SortField(c.Viewer.SortBy) {
	case domain.SortByReceivedAt, domain.SortByTitle:
		query.SortBy = domain.SortField(c.Viewer.SortBy)
	}
	query.Desc = c.Viewer.SortDesc

	return query
}

// applyBounds clamps values a hand-edited config file could break.
func applyBounds(cfg *Config) {
	if cfg.Feed.PageSize <= 0 {
		cfg.Feed.PageSize = DefaultPageSize
	}
	if cfg.Feed.MaxRetries < 0 {
		cfg.Feed.MaxRetries = 0
	}
	if cfg.Viewer.MinLoadInterval <= 0 {
		cfg.Viewer.MinLoadInterval = DefaultMinLoadInterval
	}
	if cfg.Viewer.SentinelMargin < 0 {
		cfg.Viewer.SentinelMargin = 0
	}
	if cfg.API.Timeout <= 0 {
		cfg.API.Timeout = DefaultAPITimeout
	}
}

// Defaults for values the config file may omit.
const (
	DefaultPageSize        = 25
	DefaultMaxRetries      = 3
	DefaultMinLoadInterval = 500 * time.Millisecond
	DefaultSentinelMargin  = 2
	DefaultAPITimeout      = 15 * time.Second
)

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	query := domain.DefaultFilterSort()

	return &Config{
		API: APIConfig{
			BaseURL: "https://api.newsletterhub.app",
			Timeout: DefaultAPITimeout,
		},
		Feed: FeedConfig{
			PageSize:   DefaultPageSize,
			MaxRetries: DefaultMaxRetries,
		},
		Viewer: ViewerConfig{
			MinLoadInterval: DefaultMinLoadInterval,
			SentinelMargin:  DefaultSentinelMargin,
			Filter:          string(query.Filter),
			SortBy:          string(query.SortBy),
			SortDesc:        query.Desc,
		},
		Log: LogConfig{
			Level: "info",
			File:  "newsletterhub.log",
		},
	}
}
