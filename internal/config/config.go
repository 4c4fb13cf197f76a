package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/fincast-dev/fincast/internal/aggregate"
	"github.com/fincast-dev/fincast/internal/plan"
)

// FileName is the project configuration file looked up by every command.
const FileName = "fincast.yaml"

// Store backends.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Backends lists the accepted store.backend values.
var Backends = []string{BackendMemory, BackendFile, BackendSQLite}

// EnvFileName is the optional dotenv file read from the project directory.
const EnvFileName = ".env"

// Environment overrides applied by ApplyEnv.
const (
	EnvStoreBackend = "FINCAST_STORE_BACKEND"
	EnvStorePath    = "FINCAST_STORE_PATH"
	EnvLogLevel     = "FINCAST_LOG_LEVEL"
	EnvLogFormat    = "FINCAST_LOG_FORMAT"
	EnvAddr         = "FINCAST_ADDR"
)

// Config represents the top-level fincast.yaml configuration.
type Config struct {
	Store    StoreConfig    `yaml:"store"`
	Defaults DefaultsConfig `yaml:"defaults"`
	Log      LogConfig      `yaml:"log"`
	Server   ServerConfig   `yaml:"server"`
}

// StoreConfig selects where simulated scenarios are kept.
type StoreConfig struct {
	Backend string `yaml:"backend"`
	Path    string `yaml:"path,omitempty"` // file or database path; empty uses the backend default
}

// DefaultsConfig fills plan fields a plan file leaves out.
type DefaultsConfig struct {
	StartYear  int     `yaml:"start_year"`
	Years      int     `yaml:"years"`
	Resolution string  `yaml:"resolution"`
	TaxRate    float64 `yaml:"tax_rate"`
}

// LogConfig controls logger construction.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // text or json
}

// ServerConfig controls the HTTP API.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// Load reads a fincast.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// LoadOrDefault reads path when it exists and falls back to Default.
func LoadOrDefault(path string, startYear int) (*Config, error) {
	cfg, err := Load(path)
	if err == nil {
		return cfg, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return Default(startYear), nil
	}
	return nil, err
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new project.
func Default(startYear int) *Config {
	return &Config{
		Store: StoreConfig{
			Backend: BackendFile,
		},
		Defaults: DefaultsConfig{
			StartYear:  startYear,
			Years:      5,
			Resolution: string(aggregate.Yearly),
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
	}
}

// PlanOptions returns the normalization options derived from the defaults section.
func (c *Config) PlanOptions() plan.Options {
	return plan.Options{
		DefaultStartYear: c.Defaults.StartYear,
		DefaultYears:     c.Defaults.Years,
		DefaultTaxRate:   c.Defaults.TaxRate,
	}
}

// ApplyEnv loads an optional .env file from the project directory dir and
// overrides config values from FINCAST_* variables. Variables already set in
// the environment win over the file.
func (c *Config) ApplyEnv(dir string) {
	_ = godotenv.Load(filepath.Join(dir, EnvFileName))

	if v := os.Getenv(EnvStoreBackend); v != "" {
		c.Store.Backend = v
	}
	if v := os.Getenv(EnvStorePath); v != "" {
		c.Store.Path = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		c.Log.Format = v
	}
	if v := os.Getenv(EnvAddr); v != "" {
		c.Server.Addr = v
	}
}

// Validate checks enumerated values and ranges.
func (c *Config) Validate() error {
	var errs []string

	if !slices.Contains(Backends, c.Store.Backend) {
		errs = append(errs, fmt.Sprintf("store.backend %q must be one of %s", c.Store.Backend, strings.Join(Backends, ", ")))
	}
	if c.Defaults.Resolution != "" {
		if _, err := aggregate.ParseResolution(c.Defaults.Resolution); err != nil {
			errs = append(errs, "defaults.resolution: "+err.Error())
		}
	}
	if c.Defaults.Years < 0 || c.Defaults.Years > plan.MaxYears {
		errs = append(errs, "defaults.years must be between 1 and "+strconv.Itoa(plan.MaxYears))
	}
	if c.Defaults.StartYear != 0 && (c.Defaults.StartYear < 1000 || c.Defaults.StartYear > 9999) {
		errs = append(errs, fmt.Sprintf("defaults.start_year %d is not a 4-digit year", c.Defaults.StartYear))
	}
	if c.Defaults.TaxRate < 0 || c.Defaults.TaxRate > 100 {
		errs = append(errs, fmt.Sprintf("defaults.tax_rate %g must be between 0 and 100", c.Defaults.TaxRate))
	}
	if c.Log.Level != "" {
		if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
			errs = append(errs, "log.level: "+err.Error())
		}
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json":
	default:
		errs = append(errs, fmt.Sprintf("log.format %q must be text or json", c.Log.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(errs, "; "))
	}
	return nil
}
