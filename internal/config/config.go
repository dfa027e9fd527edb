package config

import (
	"embed"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

//go:embed default_config.yaml
var defaultConfigFS embed.FS

// Service is a content-producing unit whose authors write about tickers.
type Service struct {
	ID         int    `yaml:"id"`
	Name       string `yaml:"name"`
	PrettyName string `yaml:"pretty_name"`
	FeedURL    string `yaml:"feed_url"`
	Enabled    bool   `yaml:"enabled"`
}

// DisplayName is the pretty name, falling back to the short name.
func (s Service) DisplayName() string {
	if s.PrettyName != "" {
		return s.PrettyName
	}
	return s.Name
}

// Scorecard is a service's list of open positions, fetched by name from the
// scorecard API.
type Scorecard struct {
	Name       string `yaml:"name"`
	PrettyName string `yaml:"pretty_name"`
	ServiceID  int    `yaml:"service_id"`
}

type ImportConfig struct {
	RatePerSecond float64 `yaml:"rate_per_second"`
	Timeout       string  `yaml:"timeout"`
	ScorecardURL  string  `yaml:"scorecard_url"`
}

type ServerConfig struct {
	Address string `yaml:"address"`
}

type SlackConfig struct {
	WebhookURL string `yaml:"webhook_url"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

type Config struct {
	RefreshInterval string       `yaml:"refresh_interval"`
	Retention       string       `yaml:"retention"`
	PageSize        int          `yaml:"page_size,omitempty"`
	TopTickers      int          `yaml:"top_tickers,omitempty"`
	AuthorWindow    string       `yaml:"author_window,omitempty"`
	Timezone        string       `yaml:"timezone,omitempty"`
	Services        []Service    `yaml:"services"`
	Scorecards      []Scorecard  `yaml:"scorecards"`
	Import          ImportConfig `yaml:"import"`
	Server          ServerConfig `yaml:"server"`
	Slack           SlackConfig  `yaml:"slack"`
	Log             LogConfig    `yaml:"log"`
}

func (c *Config) RefreshDuration() time.Duration {
	d, err := time.ParseDuration(c.RefreshInterval)
	if err != nil {
		return 30 * time.Minute
	}
	return d
}

func (c *Config) RetentionDuration() time.Duration {
	return parseDays(c.Retention, 365*24*time.Hour)
}

// AuthorWindowDuration is how far back "recent" author activity reaches.
func (c *Config) AuthorWindowDuration() time.Duration {
	return parseDays(c.AuthorWindow, 10*24*time.Hour)
}

func (c *Config) ImportTimeout() time.Duration {
	d, err := time.ParseDuration(c.Import.Timeout)
	if err != nil || d <= 0 {
		return 30 * time.Second
	}
	return d
}

// GetPageSize returns the listing page size, defaulting to 25.
func (c *Config) GetPageSize() int {
	if c.PageSize <= 0 {
		return 25
	}
	return c.PageSize
}

// GetTopTickers returns how many tickers the coverage ranking keeps, defaulting to 15.
func (c *Config) GetTopTickers() int {
	if c.TopTickers <= 0 {
		return 15
	}
	return c.TopTickers
}

// Location resolves the configured time zone used for calendar days.
// Unknown zones fall back to UTC.
func (c *Config) Location() *time.Location {
	if c.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// SlackWebhook returns the webhook from config, or from SATELLITE_SLACK_WEBHOOK.
func (c *Config) SlackWebhook() string {
	if c.Slack.WebhookURL != "" {
		return c.Slack.WebhookURL
	}
	return os.Getenv("SATELLITE_SLACK_WEBHOOK")
}

func (c *Config) EnabledServices() []Service {
	var out []Service
	for _, s := range c.Services {
		if s.Enabled {
			out = append(out, s)
		}
	}
	return out
}

func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, "satellite", "config.yaml")
}

func StorePath() string {
	return filepath.Join(xdg.CacheHome, "satellite", "satellite.db")
}

func parseDays(s string, fallback time.Duration) time.Duration {
	if s == "" {
		return fallback
	}
	d, err := ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}

// ParseDuration accepts Go durations plus an "Nd" day form such as "7d".
func ParseDuration(s string) (time.Duration, error) {
	if len(s) > 1 && s[len(s)-1] == 'd' {
		var days int
		if _, err := fmt.Sscanf(s, "%dd", &days); err == nil && days >= 0 {
			return time.Duration(days) * 24 * time.Hour, nil
		}
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q (use e.g. 7d or 48h)", s)
	}
	return d, nil
}

func loadDefaults() (*Config, error) {
	data, err := defaultConfigFS.ReadFile("default_config.yaml")
	if err != nil {
		return nil, fmt.Errorf("reading embedded config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded config: %w", err)
	}
	return &cfg, nil
}

func Load(path string) (*Config, error) {
	defaults, err := loadDefaults()
	if err != nil {
		return nil, err
	}

	if path == "" {
		path = DefaultConfigPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Non-fatal: embedded defaults still apply
			_ = writeDefaults(path)
			return defaults, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg := *defaults
	cfg.Services = nil
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	mergeDefaultServices(&cfg, defaults)

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// mergeDefaultServices keeps user services, refreshes feed URLs of services
// that also ship in the defaults, and appends defaults the user does not have.
func mergeDefaultServices(cfg, defaults *Config) {
	index := make(map[int]int, len(cfg.Services))
	for i, s := range cfg.Services {
		index[s.ID] = i
	}
	for _, d := range defaults.Services {
		if i, ok := index[d.ID]; ok {
			cfg.Services[i].FeedURL = d.FeedURL
			continue
		}
		cfg.Services = append(cfg.Services, d)
	}
}

func writeDefaults(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, _ := defaultConfigFS.ReadFile("default_config.yaml")
	return os.WriteFile(path, data, 0o644)
}

func validate(cfg *Config) error {
	seen := make(map[int]bool, len(cfg.Services))
	for i, s := range cfg.Services {
		if s.ID <= 0 {
			return fmt.Errorf("service %d: id must be positive, got %d", i, s.ID)
		}
		if seen[s.ID] {
			return fmt.Errorf("service %d: duplicate id %d", i, s.ID)
		}
		seen[s.ID] = true
		if s.Name == "" {
			return fmt.Errorf("service %d: name is required", s.ID)
		}
		if s.FeedURL == "" {
			continue
		}
		u, err := url.Parse(s.FeedURL)
		if err != nil {
			return fmt.Errorf("service %q: invalid feed_url: %w", s.Name, err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("service %q: feed_url scheme must be http or https, got %q", s.Name, u.Scheme)
		}
	}
	for i, sc := range cfg.Scorecards {
		if sc.Name == "" {
			return fmt.Errorf("scorecard %d: name is required", i)
		}
		if !seen[sc.ServiceID] {
			return fmt.Errorf("scorecard %q: unknown service_id %d", sc.Name, sc.ServiceID)
		}
	}
	return nil
}
