package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Database drivers.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Cache drivers.
const (
	CacheNone   = "none"
	CacheMemory = "memory"
	CacheRedis  = "redis"
)

// Config holds the khadamat service configuration.
type Config struct {
	HTTP       HTTPConfig       `yaml:"http"`
	Database   DatabaseConfig   `yaml:"database"`
	Catalog    CatalogConfig    `yaml:"catalog"`
	Cache      CacheConfig      `yaml:"cache"`
	Search     SearchConfig     `yaml:"search"`
	Format     FormatConfig     `yaml:"format"`
	Completion CompletionConfig `yaml:"completion"`
	Auth       AuthConfig       `yaml:"auth"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings. No keys disables auth.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// DatabaseConfig selects the record store.
type DatabaseConfig struct {
	Driver           string `yaml:"driver"` // memory (default), sqlite, postgres
	DSN              string `yaml:"dsn"`    // postgres connection string
	Path             string `yaml:"path"`   // sqlite file
	ReadinessTimeout int    `yaml:"readiness_timeout_sec"`
}

// CatalogConfig controls seeding the record store from a YAML file.
type CatalogConfig struct {
	Path        string `yaml:"path"`
	SeedOnStart bool   `yaml:"seed_on_start"`
}

// CacheConfig selects the key-value store used for exchanges, completion
// responses and budget counters.
type CacheConfig struct {
	Driver             string   `yaml:"driver"` // none (default), memory, redis
	Addrs              []string `yaml:"addrs"`
	Username           string   `yaml:"username"`
	Password           string   `yaml:"password"`
	DB                 int      `yaml:"db"`
	KeyPrefix          string   `yaml:"key_prefix"` // deployment namespace, e.g. "staging:"
	ExchangeTTLHours   int      `yaml:"exchange_ttl_hours"`
	CompletionTTLHours int      `yaml:"completion_ttl_hours"`
}

// SearchConfig tunes matching.
type SearchConfig struct {
	DefaultLimit        int    `yaml:"default_limit"`
	MaxLimit            int    `yaml:"max_limit"`
	Order               string `yaml:"order"`         // recent (default), name
	VariantsPath        string `yaml:"variants_path"` // empty uses the built-in table
	MinPatternRunes     int    `yaml:"min_pattern_runes"`
	ClassifierCacheSize int    `yaml:"classifier_cache_size"`
}

// FormatConfig tunes the rendered answer.
type FormatConfig struct {
	DescriptionMaxRunes int    `yaml:"description_max_runes"`
	MaxRequirements     int    `yaml:"max_requirements"`
	SuggestionCount     int    `yaml:"suggestion_count"`
	ServiceBaseURL      string `yaml:"service_base_url"`
}

// CompletionConfig configures text completion providers.
type CompletionConfig struct {
	Enabled         bool   `yaml:"enabled"`
	DefaultProvider string `yaml:"default_provider"`
	DefaultModel    string `yaml:"default_model"`
	TimeoutSec      int    `yaml:"timeout_sec"`
	// ClassifyWithProvider asks the default provider to classify queries before the rules.
	ClassifyWithProvider bool                      `yaml:"classify_with_provider"`
	Providers            map[string]ProviderConfig `yaml:"providers"`
}

// BudgetConfig holds token budget settings.
type BudgetConfig struct {
	DailyTokenLimit   int64  `yaml:"daily_token_limit"`   // 0 = unlimited
	MonthlyTokenLimit int64  `yaml:"monthly_token_limit"` // 0 = unlimited
	Action            string `yaml:"action"`              // "reject" | "warn" (default)
}

// ProviderConfig holds one OpenAI-compatible provider.
type ProviderConfig struct {
	APIKey  string       `yaml:"api_key"`
	BaseURL string       `yaml:"base_url"`
	Budget  BudgetConfig `yaml:"budget"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	return LoadFile(findConfigPath(env))
}

// LoadFile reads configuration from an explicit path.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	return Parse(data)
}

// Parse expands ${VAR} references, decodes YAML, applies defaults and validates.
func Parse(data []byte) (Config, error) {
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 30
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Database.Driver == "" {
		c.Database.Driver = DriverMemory
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.Cache.Driver == "" {
		c.Cache.Driver = CacheNone
	}
	if c.Cache.ExchangeTTLHours <= 0 {
		c.Cache.ExchangeTTLHours = 24 * 30
	}
	if c.Cache.CompletionTTLHours <= 0 {
		c.Cache.CompletionTTLHours = 24
	}
	if c.Search.DefaultLimit <= 0 {
		c.Search.DefaultLimit = 8
	}
	if c.Search.MaxLimit <= 0 {
		c.Search.MaxLimit = 50
	}
	if c.Search.Order == "" {
		c.Search.Order = "recent"
	}
	if c.Search.MinPatternRunes <= 0 {
		c.Search.MinPatternRunes = 3
	}
	if c.Search.ClassifierCacheSize <= 0 {
		c.Search.ClassifierCacheSize = 1024
	}
	if c.Format.DescriptionMaxRunes <= 0 {
		c.Format.DescriptionMaxRunes = 120
	}
	if c.Format.MaxRequirements <= 0 {
		c.Format.MaxRequirements = 3
	}
	if c.Format.SuggestionCount <= 0 {
		c.Format.SuggestionCount = 5
	}
	if c.Completion.TimeoutSec <= 0 {
		c.Completion.TimeoutSec = 20
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if err := c.Database.validate(); err != nil {
		return err
	}
	if err := c.Cache.validate(); err != nil {
		return err
	}
	if c.Search.DefaultLimit > c.Search.MaxLimit {
		return fmt.Errorf("search.default_limit (%d) exceeds search.max_limit (%d)",
			c.Search.DefaultLimit, c.Search.MaxLimit)
	}
	switch c.Search.Order {
	case "recent", "name":
	default:
		return fmt.Errorf("search.order must be \"recent\" or \"name\", got %q", c.Search.Order)
	}
	if c.Catalog.SeedOnStart && c.Catalog.Path == "" {
		return fmt.Errorf("catalog.path is required when catalog.seed_on_start is set")
	}
	return c.Completion.validate()
}

func (d *DatabaseConfig) validate() error {
	switch d.Driver {
	case DriverMemory:
	case DriverSQLite:
		if d.Path == "" {
			return fmt.Errorf("database.path is required for the sqlite driver")
		}
	case DriverPostgres:
		if d.DSN == "" {
			return fmt.Errorf("database.dsn is required for the postgres driver")
		}
	default:
		return fmt.Errorf("database.driver must be memory, sqlite or postgres, got %q", d.Driver)
	}
	return nil
}

func (c *CacheConfig) validate() error {
	switch c.Driver {
	case CacheNone, CacheMemory:
	case CacheRedis:
		if len(c.Addrs) == 0 {
			return fmt.Errorf("cache.addrs is required for the redis driver")
		}
	default:
		return fmt.Errorf("cache.driver must be none, memory or redis, got %q", c.Driver)
	}
	return nil
}

func (c *CompletionConfig) validate() error {
	for name, p := range c.Providers {
		switch p.Budget.Action {
		case "", "warn", "reject":
			// ok
		default:
			return fmt.Errorf(
				"completion.providers.%s.budget.action must be \"warn\" or \"reject\", got %q",
				name, p.Budget.Action,
			)
		}
	}
	if !c.Enabled {
		return nil
	}
	if c.DefaultProvider == "" || c.DefaultModel == "" {
		return fmt.Errorf("completion.default_provider and completion.default_model are required when completion is enabled")
	}
	if _, ok := c.Providers[c.DefaultProvider]; !ok {
		return fmt.Errorf("completion.default_provider %q is not configured in completion.providers", c.DefaultProvider)
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
