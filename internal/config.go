package internal

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables that override the config file.
const (
	EnvDataDir  = "SUBTRACK_DATA_DIR"
	EnvBackend  = "SUBTRACK_BACKEND"
	EnvCurrency = "SUBTRACK_CURRENCY"
	EnvLogLevel = "SUBTRACK_LOG_LEVEL"
)

var (
	logLevels  = []string{"debug", "info", "warn", "error"}
	logFormats = []string{"text", "json"}
)

type Config struct {
	// DataDir holds the store files and the login session
	DataDir string `yaml:"data_dir,omitempty"`

	// Backend selects the store: json, sqlite or memory
	Backend string `yaml:"backend,omitempty"`

	// Currency is the display currency for totals. Empty means detect from locale.
	Currency string `yaml:"currency,omitempty"`

	UpcomingDays          int     `yaml:"upcoming_days,omitempty"`
	UpcomingLimit         int     `yaml:"upcoming_limit,omitempty"`
	HighSpendingThreshold float64 `yaml:"high_spending_threshold,omitempty"`

	// Categories are offered in addition to the default category list
	Categories []string `yaml:"categories,omitempty"`

	// UseDefaultKnown controls whether the built-in service patterns are used
	// to suggest categories. Defaults to true.
	UseDefaultKnown *bool `yaml:"use_default_known,omitempty"`

	// Known maps name patterns to categories; checked before the built-in list
	Known []KnownService `yaml:"known,omitempty"`

	LogLevel  string `yaml:"log_level,omitempty"`
	LogFormat string `yaml:"log_format,omitempty"`

	// BcryptCost for password hashes; 0 means bcrypt.DefaultCost
	BcryptCost int `yaml:"bcrypt_cost,omitempty"`
}

// DefaultConfigPath returns the default config file path (~/.subscription-tracker/config.yaml)
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".subscription-tracker", "config.yaml")
}

// DefaultDataDir returns ~/.subscription-tracker/data
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".subscription-tracker", "data")
	}
	return filepath.Join(home, ".subscription-tracker", "data")
}

// NewDefaultConfig creates a config with every setting at its default.
// Use this when no config file exists.
func NewDefaultConfig() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.DataDir == "" {
		c.DataDir = DefaultDataDir()
	}
	if c.Backend == "" {
		c.Backend = BackendJSON
	}
	if c.UpcomingDays == 0 {
		c.UpcomingDays = DefaultUpcomingDays
	}
	if c.UpcomingLimit == 0 {
		c.UpcomingLimit = DefaultUpcomingLimit
	}
	if c.HighSpendingThreshold == 0 {
		c.HighSpendingThreshold = DefaultHighSpendingThreshold
	}
	if c.LogLevel == "" {
		c.LogLevel = "warn"
	}
	if c.LogFormat == "" {
		c.LogFormat = "text"
	}
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	for i := range cfg.Known {
		if err := cfg.Known[i].compile(); err != nil {
			return nil, err
		}
	}

	cfg.DataDir = expandHome(cfg.DataDir)
	cfg.applyDefaults()
	return &cfg, nil
}

// LoadConfigOrDefault loads path. A missing file yields the defaults unless
// required is set, e.g. when the path was given explicitly.
func LoadConfigOrDefault(path string, required bool) (*Config, error) {
	cfg, err := LoadConfig(path)
	if errors.Is(err, fs.ErrNotExist) && !required {
		return NewDefaultConfig(), nil
	}
	return cfg, err
}

func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	// Create parent directories if they don't exist
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating directory %s: %w", dir, err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// LoadEnvFiles loads KEY=VALUE files into the process environment without
// overriding variables that are already set. Missing files are skipped.
func LoadEnvFiles(paths ...string) error {
	for _, p := range paths {
		if _, err := os.Stat(p); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("loading env file %s: %w", p, err)
		}
	}
	return nil
}

// ApplyEnv overrides config values from the environment.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := getenv(EnvDataDir); v != "" {
		c.DataDir = expandHome(v)
	}
	if v := getenv(EnvBackend); v != "" {
		c.Backend = strings.ToLower(v)
	}
	if v := getenv(EnvCurrency); v != "" {
		c.Currency = strings.ToUpper(v)
	}
	if v := getenv(EnvLogLevel); v != "" {
		c.LogLevel = strings.ToLower(v)
	}
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error
	if c.DataDir == "" {
		errs = append(errs, errors.New("data_dir is required"))
	}
	if !slices.Contains(Backends, c.Backend) {
		errs = append(errs, fmt.Errorf("backend must be one of %v, got %q", Backends, c.Backend))
	}
	if c.Currency != "" && !currencyCode.MatchString(c.Currency) {
		errs = append(errs, fmt.Errorf("currency must be a 3-letter code, got %q", c.Currency))
	}
	if c.UpcomingDays < 0 {
		errs = append(errs, fmt.Errorf("upcoming_days must not be negative, got %d", c.UpcomingDays))
	}
	if c.UpcomingLimit < 0 {
		errs = append(errs, fmt.Errorf("upcoming_limit must not be negative, got %d", c.UpcomingLimit))
	}
	if c.HighSpendingThreshold < 0 {
		errs = append(errs, fmt.Errorf("high_spending_threshold must not be negative, got %s",
			strconv.FormatFloat(c.HighSpendingThreshold, 'f', -1, 64)))
	}
	if !slices.Contains(logLevels, c.LogLevel) {
		errs = append(errs, fmt.Errorf("log_level must be one of %v, got %q", logLevels, c.LogLevel))
	}
	if !slices.Contains(logFormats, c.LogFormat) {
		errs = append(errs, fmt.Errorf("log_format must be one of %v, got %q", logFormats, c.LogFormat))
	}
	for _, k := range c.Known {
		if strings.TrimSpace(k.Category) == "" {
			errs = append(errs, fmt.Errorf("known pattern %q has no category", k.Pattern))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// SuggestCategory checks the user's known patterns, then the built-in list
// unless disabled.
func (c *Config) SuggestCategory(name string) string {
	if c == nil {
		return SuggestCategory(name)
	}
	if cat, ok := MatchCategory(c.Known, name); ok {
		return cat
	}
	if c.UseDefaultKnown == nil || *c.UseDefaultKnown {
		return SuggestCategory(name)
	}
	return CategoryOther
}

// AvailableCategories returns the defaults plus configured and known categories.
func (c *Config) AvailableCategories() []string {
	if c == nil {
		return AvailableCategories(nil)
	}
	extra := append([]string{}, c.Categories...)
	for _, k := range c.Known {
		extra = append(extra, k.Category)
	}
	return AvailableCategories(extra)
}

// SummaryOptions returns the dashboard settings.
func (c *Config) SummaryOptions() SummaryOptions {
	return SummaryOptions{
		UpcomingDays:          c.UpcomingDays,
		UpcomingLimit:         c.UpcomingLimit,
		HighSpendingThreshold: c.HighSpendingThreshold,
	}
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}
