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

// Source is one collected feed. Category tags every record the feed
// yields and becomes a facet value in the browser.
type Source struct {
	Name     string `yaml:"name"`
	URL      string `yaml:"url"`
	Category string `yaml:"category,omitempty"`
	Enabled  bool   `yaml:"enabled"`
}

type Config struct {
	// DataURL points the browser at a published archive (site root
	// serving data/ and archive/). Empty means read DataDir locally.
	DataURL string `yaml:"data_url,omitempty"`
	// DataDir is the local archive root the collector writes and the
	// browser falls back to. Empty means the XDG data dir.
	DataDir string `yaml:"data_dir,omitempty"`

	KeepYears    int    `yaml:"keep_years,omitempty"`
	LatestMonths int    `yaml:"latest_months,omitempty"`
	Timezone     string `yaml:"timezone,omitempty"`

	Sources []Source `yaml:"sources"`
}

// GetKeepYears returns the archive retention in years, defaulting to 5.
func (c *Config) GetKeepYears() int {
	if c.KeepYears <= 0 {
		return 5
	}
	return c.KeepYears
}

// GetLatestMonths returns the hot window width, defaulting to 3 months.
func (c *Config) GetLatestMonths() int {
	if c.LatestMonths <= 0 {
		return 3
	}
	return c.LatestMonths
}

// Location resolves the month-bucketing timezone, defaulting to JST
// (the archive's publication locale). An unknown name falls back to
// UTC rather than failing the command.
func (c *Config) Location() *time.Location {
	name := c.Timezone
	if name == "" {
		name = "Asia/Tokyo"
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}

// ResolvedDataDir returns the local archive root.
func (c *Config) ResolvedDataDir() string {
	if c.DataDir != "" {
		return c.DataDir
	}
	return filepath.Join(xdg.DataHome, "newsarc")
}

func (c *Config) EnabledSources() []Source {
	var out []Source
	for _, s := range c.Sources {
		if s.Enabled {
			out = append(out, s)
		}
	}
	return out
}

func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, "newsarc", "config.yaml")
}

// CachePath is the collector's SQLite accumulation store.
func CachePath() string {
	return filepath.Join(xdg.CacheHome, "newsarc", "items.db")
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
			// Write defaults to config path on first run
			if err := writeDefaults(path); err != nil {
				// Non-fatal: just use embedded defaults
				return defaults, nil
			}
			return defaults, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func writeDefaults(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, _ := defaultConfigFS.ReadFile("default_config.yaml")
	return os.WriteFile(path, data, 0o644)
}

func validate(cfg *Config) error {
	if cfg.DataURL != "" {
		u, err := url.Parse(cfg.DataURL)
		if err != nil {
			return fmt.Errorf("invalid data_url: %w", err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("data_url scheme must be http or https, got %q", u.Scheme)
		}
	}
	for i, s := range cfg.Sources {
		if s.Name == "" {
			return fmt.Errorf("source %d: name is required", i)
		}
		if s.URL == "" {
			return fmt.Errorf("source %q: url is required", s.Name)
		}
		u, err := url.Parse(s.URL)
		if err != nil {
			return fmt.Errorf("source %q: invalid url: %w", s.Name, err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("source %q: url scheme must be http or https, got %q", s.Name, u.Scheme)
		}
	}
	return nil
}
