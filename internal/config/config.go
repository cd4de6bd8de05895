package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/dgallion1/navgest/internal/interact"
	"github.com/dgallion1/navgest/internal/nav"
)

type Config struct {
	Port string `env:"PORT" envDefault:"8090"`

	// Fragment sources; at least one is required. When both are set the
	// origin is tried first.
	FragmentBaseURL string        `env:"FRAGMENT_BASE_URL"`
	FragmentAPIKey  string        `env:"FRAGMENT_API_KEY"`
	FragmentDir     string        `env:"FRAGMENT_DIR"`
	FragmentTimeout time.Duration `env:"FRAGMENT_TIMEOUT" envDefault:"10s"`

	// Fragment cache
	CacheTTL     time.Duration `env:"FRAGMENT_CACHE_TTL" envDefault:"5m"`
	CacheCleanup time.Duration `env:"FRAGMENT_CACHE_CLEANUP" envDefault:"1m"`

	// Navigation
	NavPath      string   `env:"NAV_PATH" envDefault:"/nav"`
	CodeBasePath string   `env:"CODE_BASE_PATH"`
	DirectLabels []string `env:"NAV_DIRECT_LABELS" envDefault:"Stories" envSeparator:","`
	BadgeMarker  string   `env:"NAV_BADGE_MARKER" envDefault:"150years"`
	PolicyFile   string   `env:"NAV_POLICY_FILE"`

	// Auth
	NavgestAPIKey string `env:"NAVGEST_API_KEY"`

	// Upload limits
	MaxUploadBytes int64 `env:"MAX_UPLOAD_BYTES" envDefault:"5242880"` // 5MB

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Loaded from PolicyFile, or built from the fields above.
	Policy      nav.Policy
	Breakpoints interact.Breakpoints
	Timings     interact.Timings
}

// PolicyFile is the YAML document named by NAV_POLICY_FILE. Absent keys
// keep the environment or built-in values.
type PolicyFile struct {
	nav.Policy  `yaml:",inline"`
	Breakpoints interact.Breakpoints `yaml:"breakpoints"`
	Timings     interact.Timings     `yaml:"timings"`
}

func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	cfg.Policy = nav.Policy{
		DirectLabels: cfg.DirectLabels,
		BadgeMarker:  cfg.BadgeMarker,
		CodeBasePath: cfg.CodeBasePath,
	}
	cfg.Breakpoints = interact.DefaultBreakpoints()
	cfg.Timings = interact.DefaultTimings()

	if cfg.PolicyFile != "" {
		if err := cfg.LoadPolicy(cfg.PolicyFile); err != nil {
			return Config{}, err
		}
	}
	if cfg.FragmentTimeout <= 0 {
		cfg.FragmentTimeout = 10 * time.Second
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 5 << 20
	}
	if cfg.CacheCleanup <= 0 {
		cfg.CacheCleanup = time.Minute
	}
	return cfg, nil
}

// LoadPolicy overlays the YAML policy file at path onto c.
func (c *Config) LoadPolicy(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read policy file: %w", err)
	}
	pf := PolicyFile{Policy: c.Policy, Breakpoints: c.Breakpoints, Timings: c.Timings}
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return fmt.Errorf("parse policy file %s: %w", path, err)
	}
	c.Policy = pf.Policy
	c.Breakpoints = pf.Breakpoints
	c.Timings = pf.Timings
	return nil
}

func (c Config) Validate() error {
	if c.FragmentBaseURL == "" && c.FragmentDir == "" {
		return errors.New("FRAGMENT_BASE_URL or FRAGMENT_DIR is required")
	}
	if !strings.HasPrefix(c.NavPath, "/") {
		return fmt.Errorf("NAV_PATH must start with /: %q", c.NavPath)
	}
	b := c.Breakpoints
	if b.Tablet <= 0 || b.TabletMax < b.Tablet || b.Desktop <= b.TabletMax {
		return fmt.Errorf("breakpoints out of order: %d/%d/%d", b.Tablet, b.TabletMax, b.Desktop)
	}
	return nil
}

// SlogLevel maps LOG_LEVEL to a slog level; unknown values mean info.
func (c Config) SlogLevel() slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return l
}
