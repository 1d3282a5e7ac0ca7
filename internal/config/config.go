package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/tagrank/internal/domain/ranking"
	"github.com/kailas-cloud/tagrank/internal/domain/tag"
)

// Config holds the tagrank service configuration.
type Config struct {
	HTTP       HTTPConfig       `yaml:"http"`
	Auth       AuthConfig       `yaml:"auth"`
	Logging    LoggingConfig    `yaml:"logging"`
	Database   DatabaseConfig   `yaml:"database"`
	Storage    StorageConfig    `yaml:"storage"`
	Catalog    CatalogConfig    `yaml:"catalog"`
	Classifier ClassifierConfig `yaml:"classifier"`
	Cache      CacheConfig      `yaml:"cache"`
	Ranking    RankingConfig    `yaml:"ranking"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
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

// DatabaseConfig holds Redis connection settings.
// No addrs means the prediction cache and budget persistence are off.
type DatabaseConfig struct {
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// StorageConfig holds storage settings.
type StorageConfig struct {
	KeyPrefix string `yaml:"key_prefix"`
}

// Catalog sources.
const (
	SourceCSV      = "csv"
	SourceJSON     = "json"
	SourcePostgres = "postgres"
	SourceSample   = "sample"
)

// CatalogConfig holds catalog loading settings.
type CatalogConfig struct {
	Source string `yaml:"source"` // csv | json | postgres | sample
	Path   string `yaml:"path"`
	DSN    string `yaml:"dsn"`
	// Query overrides the postgres SELECT; columns must match the catalog row names.
	Query string `yaml:"query"`
	// DisableSampleFallback makes a failed load fatal instead of serving the sample catalog.
	DisableSampleFallback bool `yaml:"disable_sample_fallback"`
	ReloadIntervalSec     int  `yaml:"reload_interval_sec"` // 0 = no periodic reload
}

// Classifier providers.
const (
	ProviderNone    = "none"
	ProviderKeyword = "keyword"
	ProviderOpenAI  = "openai"
)

// ClassifierConfig holds classifier settings.
type ClassifierConfig struct {
	Provider        string       `yaml:"provider"` // none | keyword | openai
	APIKey          string       `yaml:"api_key"`
	BaseURL         string       `yaml:"base_url"`
	Model           string       `yaml:"model"`
	Vocabulary      []string     `yaml:"vocabulary"`
	TimeoutMs       int          `yaml:"timeout_ms"`
	CollisionPolicy string       `yaml:"collision_policy"` // last_wins | max | sum
	Budget          BudgetConfig `yaml:"budget"`
}

// BudgetConfig holds classifier token budget settings.
type BudgetConfig struct {
	DailyTokenLimit   int64  `yaml:"daily_token_limit"`   // 0 = unlimited
	MonthlyTokenLimit int64  `yaml:"monthly_token_limit"` // 0 = unlimited
	Action            string `yaml:"action"`              // "reject" | "warn" (default)
}

// CacheConfig holds prediction cache settings.
type CacheConfig struct {
	Enabled bool `yaml:"enabled"`
	TTLSec  int  `yaml:"ttl_sec"`
}

// RankingConfig holds scoring settings.
type RankingConfig struct {
	Preset         string                `yaml:"preset"`
	Weights        *ranking.Weights      `yaml:"weights"` // overrides the preset entirely
	Keywords       []ranking.KeywordRule `yaml:"keywords"`
	Fallback       *FallbackOverride     `yaml:"fallback"`
	DefaultTopK    int                   `yaml:"default_top_k"`
	PreferCategory bool                  `yaml:"prefer_category"`
}

// FallbackOverride replaces individual substring weights; omitted fields keep their defaults.
type FallbackOverride struct {
	ExactTitle *float64 `yaml:"exact_title"`
	TitleWord  *float64 `yaml:"title_word"`
	Brand      *float64 `yaml:"brand"`
	Category   *float64 `yaml:"category"`
	Intent     *float64 `yaml:"intent"`
	Attribute  *float64 `yaml:"attribute"`
	MinWordLen *int     `yaml:"min_word_len"`
}

// ScoringWeights resolves the preset and explicit override.
func (r RankingConfig) ScoringWeights() (ranking.Weights, error) {
	if r.Weights != nil {
		return *r.Weights, nil
	}
	w, err := ranking.Preset(r.Preset)
	if err != nil {
		return ranking.Weights{}, fmt.Errorf("ranking.preset: %w", err)
	}
	return w, nil
}

// KeywordRules returns the configured table or the built-in one.
func (r RankingConfig) KeywordRules() []ranking.KeywordRule {
	if len(r.Keywords) > 0 {
		return r.Keywords
	}
	return ranking.DefaultKeywordRules()
}

// FallbackWeights returns the default substring weights with the configured overrides applied.
func (r RankingConfig) FallbackWeights() ranking.FallbackWeights {
	w := ranking.DefaultFallbackWeights()
	o := r.Fallback
	if o == nil {
		return w
	}
	for _, f := range []struct {
		dst *float64
		src *float64
	}{
		{&w.ExactTitle, o.ExactTitle},
		{&w.TitleWord, o.TitleWord},
		{&w.Brand, o.Brand},
		{&w.Category, o.Category},
		{&w.Intent, o.Intent},
		{&w.Attribute, o.Attribute},
	} {
		if f.src != nil {
			*f.dst = *f.src
		}
	}
	if o.MinWordLen != nil {
		w.MinWordLen = *o.MinWordLen
	}
	return w
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
// A .env file in the working directory, when present, seeds the environment first.
func Load(env string) (Config, error) {
	_ = godotenv.Load()

	return LoadFile(findConfigPath(env))
}

// LoadFile reads configuration from an explicit path.
func LoadFile(configPath string) (Config, error) {
	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
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
		c.HTTP.WriteTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.Storage.KeyPrefix == "" {
		c.Storage.KeyPrefix = "tagrank:"
	}
	if c.Catalog.Source == "" {
		c.Catalog.Source = SourceSample
		if c.Catalog.Path != "" {
			c.Catalog.Source = SourceCSV
		}
	}
	if c.Classifier.Provider == "" {
		c.Classifier.Provider = ProviderNone
	}
	if c.Classifier.TimeoutMs <= 0 {
		c.Classifier.TimeoutMs = 3000
	}
	if c.Classifier.CollisionPolicy == "" {
		c.Classifier.CollisionPolicy = string(tag.LastWins)
	}
	if len(c.Classifier.Vocabulary) == 0 {
		c.Classifier.Vocabulary = tag.DefaultVocabulary()
	}
	if c.Cache.TTLSec <= 0 {
		c.Cache.TTLSec = 86400
	}
	if c.Ranking.Preset == "" {
		c.Ranking.Preset = ranking.PresetDefault
	}
	if c.Ranking.DefaultTopK <= 0 {
		c.Ranking.DefaultTopK = 5
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if err := c.Catalog.validate(); err != nil {
		return err
	}
	if err := c.Classifier.validate(); err != nil {
		return err
	}
	if c.Cache.Enabled && len(c.Database.Addrs) == 0 {
		return fmt.Errorf("cache.enabled requires database.addrs")
	}
	if _, err := c.Ranking.ScoringWeights(); err != nil {
		return err
	}
	if o := c.Ranking.Fallback; o != nil && o.MinWordLen != nil && *o.MinWordLen < 0 {
		return fmt.Errorf("ranking.fallback.min_word_len must not be negative, got %d", *o.MinWordLen)
	}
	return nil
}

func (c *CatalogConfig) validate() error {
	switch c.Source {
	case SourceCSV, SourceJSON:
		if c.Path == "" {
			return fmt.Errorf("catalog.path is required for source %q", c.Source)
		}
	case SourcePostgres:
		if c.DSN == "" {
			return fmt.Errorf("catalog.dsn is required for source %q", c.Source)
		}
	case SourceSample:
	default:
		return fmt.Errorf("catalog.source must be one of csv, json, postgres, sample, got %q", c.Source)
	}
	if c.ReloadIntervalSec < 0 {
		return fmt.Errorf("catalog.reload_interval_sec must not be negative")
	}
	return nil
}

func (c *ClassifierConfig) validate() error {
	switch c.Provider {
	case ProviderNone, ProviderKeyword:
	case ProviderOpenAI:
		if c.Model == "" {
			return fmt.Errorf("classifier.model is required for provider %q", c.Provider)
		}
	default:
		return fmt.Errorf("classifier.provider must be one of none, keyword, openai, got %q", c.Provider)
	}
	if _, err := tag.ParseCollisionPolicy(c.CollisionPolicy); err != nil {
		return fmt.Errorf("classifier.collision_policy: %w", err)
	}
	switch c.Budget.Action {
	case "", "warn", "reject":
		// ok
	default:
		return fmt.Errorf("classifier.budget.action must be \"warn\" or \"reject\", got %q", c.Budget.Action)
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
