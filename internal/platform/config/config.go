// Package config loads service configuration from defaults, an optional YAML
// file and NAMESCREEN_* environment variables, in increasing priority.
package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const EnvPrefix = "NAMESCREEN"

type Config struct {
	Server     Server     `mapstructure:"server" yaml:"server"`
	Log        Log        `mapstructure:"log" yaml:"log"`
	Screening  Screening  `mapstructure:"screening" yaml:"screening"`
	Scoring    Scoring    `mapstructure:"scoring" yaml:"scoring"`
	Translator Translator `mapstructure:"translator" yaml:"translator"`
	Registry   Registry   `mapstructure:"registry" yaml:"registry"`
	Redis      Redis      `mapstructure:"redis" yaml:"redis"`
	Kafka      Kafka      `mapstructure:"kafka" yaml:"kafka"`
	Audit      Audit      `mapstructure:"audit" yaml:"audit"`
	Ingest     Ingest     `mapstructure:"ingest" yaml:"ingest"`
	RateLimit  RateLimit  `mapstructure:"rate_limit" yaml:"rate_limit"`
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr              string        `mapstructure:"addr" yaml:"addr"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout" yaml:"read_header_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
	// AdminSecret signs admin bearer tokens. Empty disables admin endpoints.
	AdminSecret string `mapstructure:"admin_secret" yaml:"admin_secret"`
}

type Log struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

type Screening struct {
	DefaultMode        string   `mapstructure:"default_mode" yaml:"default_mode"`
	MaxCandidates      int      `mapstructure:"max_candidates" yaml:"max_candidates"`
	CanonicalLanguages []string `mapstructure:"canonical_languages" yaml:"canonical_languages"`
	// Segmentation enables Japanese morphological segmentation of pass-through names.
	Segmentation bool `mapstructure:"segmentation" yaml:"segmentation"`
	// StrictLength bounds query names to 2..30 tokens after routing.
	StrictLength bool `mapstructure:"strict_length" yaml:"strict_length"`
}

// OpenAI points at any OpenAI-compatible endpoint.
type OpenAI struct {
	APIKey  string        `mapstructure:"api_key" yaml:"api_key"`
	BaseURL string        `mapstructure:"base_url" yaml:"base_url"`
	Model   string        `mapstructure:"model" yaml:"model"`
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

type Scoring struct {
	Strategy         string        `mapstructure:"strategy" yaml:"strategy"`
	Exclusive        bool          `mapstructure:"exclusive" yaml:"exclusive"`
	Workers          int           `mapstructure:"workers" yaml:"workers"`
	QueueSize        int           `mapstructure:"queue_size" yaml:"queue_size"`
	CandidateTimeout time.Duration `mapstructure:"candidate_timeout" yaml:"candidate_timeout"`
	Embedding        Embedding     `mapstructure:"embedding" yaml:"embedding"`
	Classifier       Classifier    `mapstructure:"classifier" yaml:"classifier"`
}

type Embedding struct {
	Provider   string        `mapstructure:"provider" yaml:"provider"`
	Dimensions int           `mapstructure:"dimensions" yaml:"dimensions"`
	CacheTTL   time.Duration `mapstructure:"cache_ttl" yaml:"cache_ttl"`
	OpenAI     OpenAI        `mapstructure:"openai" yaml:"openai"`
}

type Classifier struct {
	Provider string `mapstructure:"provider" yaml:"provider"`
	OpenAI   OpenAI `mapstructure:"openai" yaml:"openai"`
}

type Translator struct {
	Enabled       bool          `mapstructure:"enabled" yaml:"enabled"`
	CacheTTL      time.Duration `mapstructure:"cache_ttl" yaml:"cache_ttl"`
	RatePerSecond float64       `mapstructure:"rate_per_second" yaml:"rate_per_second"`
	Burst         int           `mapstructure:"burst" yaml:"burst"`
	OpenAI        OpenAI        `mapstructure:"openai" yaml:"openai"`
}

type Registry struct {
	// Backend is memory, sqlite or postgres.
	Backend     string `mapstructure:"backend" yaml:"backend"`
	SQLitePath  string `mapstructure:"sqlite_path" yaml:"sqlite_path"`
	PostgresDSN string `mapstructure:"postgres_dsn" yaml:"postgres_dsn"`
}

// Redis enables the candidate cache when URL is set.
type Redis struct {
	URL          string        `mapstructure:"url" yaml:"url"`
	PoolSize     int           `mapstructure:"pool_size" yaml:"pool_size"`
	MinIdleConns int           `mapstructure:"min_idle_conns" yaml:"min_idle_conns"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout" yaml:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout" yaml:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout" yaml:"write_timeout"`
	CacheTTL     time.Duration `mapstructure:"cache_ttl" yaml:"cache_ttl"`
	Prefix       string        `mapstructure:"prefix" yaml:"prefix"`
}

type Kafka struct {
	Brokers           []string `mapstructure:"brokers" yaml:"brokers"`
	Topic             string   `mapstructure:"topic" yaml:"topic"`
	CreateTopic       bool     `mapstructure:"create_topic" yaml:"create_topic"`
	Partitions        int32    `mapstructure:"partitions" yaml:"partitions"`
	ReplicationFactor int16    `mapstructure:"replication_factor" yaml:"replication_factor"`
}

type Audit struct {
	// Sink is memory, kafka or postgres.
	Sink   string `mapstructure:"sink" yaml:"sink"`
	Buffer int    `mapstructure:"buffer" yaml:"buffer"`
	// PostgresDSN defaults to registry.postgres_dsn.
	PostgresDSN string `mapstructure:"postgres_dsn" yaml:"postgres_dsn"`
}

// RateLimit budgets requests per client IP. Windows live in Redis when
// redis.url is set, otherwise in process memory.
type RateLimit struct {
	Enabled  bool       `mapstructure:"enabled" yaml:"enabled"`
	Screen   RateBudget `mapstructure:"screen" yaml:"screen"`
	Registry RateBudget `mapstructure:"registry" yaml:"registry"`
}

type RateBudget struct {
	Requests int           `mapstructure:"requests" yaml:"requests"`
	Window   time.Duration `mapstructure:"window" yaml:"window"`
}

type Source struct {
	Name     string `mapstructure:"name" yaml:"name"`
	Format   string `mapstructure:"format" yaml:"format"`
	Location string `mapstructure:"location" yaml:"location"`
}

type Ingest struct {
	Sources   []Source      `mapstructure:"sources" yaml:"sources"`
	OnStartup bool          `mapstructure:"on_startup" yaml:"on_startup"`
	Timeout   time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.read_header_timeout", 5*time.Second)
	v.SetDefault("server.shutdown_timeout", 15*time.Second)
	v.SetDefault("server.admin_secret", "")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("screening.default_mode", "strict")
	v.SetDefault("screening.max_candidates", 500)
	v.SetDefault("screening.canonical_languages", []string{"en"})
	v.SetDefault("screening.segmentation", false)
	v.SetDefault("screening.strict_length", true)

	v.SetDefault("scoring.strategy", "lexical")
	v.SetDefault("scoring.exclusive", false)
	v.SetDefault("scoring.workers", 0)
	v.SetDefault("scoring.queue_size", 0)
	v.SetDefault("scoring.candidate_timeout", 2*time.Second)
	v.SetDefault("scoring.embedding.provider", "hashing")
	v.SetDefault("scoring.embedding.dimensions", 256)
	v.SetDefault("scoring.embedding.cache_ttl", 10*time.Minute)
	setOpenAIDefaults(v, "scoring.embedding.openai")
	v.SetDefault("scoring.classifier.provider", "feature")
	setOpenAIDefaults(v, "scoring.classifier.openai")

	v.SetDefault("translator.enabled", false)
	v.SetDefault("translator.cache_ttl", time.Hour)
	v.SetDefault("translator.rate_per_second", 5.0)
	v.SetDefault("translator.burst", 10)
	setOpenAIDefaults(v, "translator.openai")

	v.SetDefault("registry.backend", "memory")
	v.SetDefault("registry.sqlite_path", "namescreen.db")
	v.SetDefault("registry.postgres_dsn", "")

	v.SetDefault("redis.url", "")
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("redis.min_idle_conns", 2)
	v.SetDefault("redis.dial_timeout", 2*time.Second)
	v.SetDefault("redis.read_timeout", 500*time.Millisecond)
	v.SetDefault("redis.write_timeout", 500*time.Millisecond)
	v.SetDefault("redis.cache_ttl", 5*time.Minute)
	v.SetDefault("redis.prefix", "namescreen:registry")

	v.SetDefault("kafka.brokers", []string{})
	v.SetDefault("kafka.topic", "namescreen.audit")
	v.SetDefault("kafka.create_topic", true)
	v.SetDefault("kafka.partitions", 3)
	v.SetDefault("kafka.replication_factor", 1)

	v.SetDefault("audit.sink", "memory")
	v.SetDefault("audit.buffer", 0)
	v.SetDefault("audit.postgres_dsn", "")

	v.SetDefault("rate_limit.enabled", false)
	v.SetDefault("rate_limit.screen.requests", 600)
	v.SetDefault("rate_limit.screen.window", time.Minute)
	v.SetDefault("rate_limit.registry.requests", 60)
	v.SetDefault("rate_limit.registry.window", time.Minute)

	v.SetDefault("ingest.sources", []Source{})
	v.SetDefault("ingest.on_startup", false)
	v.SetDefault("ingest.timeout", 5*time.Minute)
}

func setOpenAIDefaults(v *viper.Viper, prefix string) {
	v.SetDefault(prefix+".api_key", "")
	v.SetDefault(prefix+".base_url", "")
	v.SetDefault(prefix+".model", "")
	v.SetDefault(prefix+".timeout", 10*time.Second)
}

// Load reads configuration. path may be empty.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the service cannot start with.
func (c *Config) Validate() error {
	var errs []error
	check := func(field, value string, allowed ...string) {
		if !slices.Contains(allowed, strings.ToLower(value)) {
			errs = append(errs, fmt.Errorf("%s must be one of %s, got %q", field, strings.Join(allowed, "|"), value))
		}
	}
	check("log.level", c.Log.Level, "debug", "info", "warn", "error")
	check("log.format", c.Log.Format, "json", "text")
	check("screening.default_mode", c.Screening.DefaultMode, "strict", "permissive")
	check("scoring.strategy", c.Scoring.Strategy, "lexical", "semantic", "classifier")
	check("scoring.embedding.provider", c.Scoring.Embedding.Provider, "hashing", "openai")
	check("scoring.classifier.provider", c.Scoring.Classifier.Provider, "feature", "openai")
	check("registry.backend", c.Registry.Backend, "memory", "sqlite", "postgres")
	check("audit.sink", c.Audit.Sink, "memory", "kafka", "postgres")

	if c.Screening.MaxCandidates <= 0 {
		errs = append(errs, errors.New("screening.max_candidates must be positive"))
	}
	if strings.EqualFold(c.Registry.Backend, "postgres") && c.Registry.PostgresDSN == "" {
		errs = append(errs, errors.New("registry.postgres_dsn is required for the postgres backend"))
	}
	if strings.EqualFold(c.Audit.Sink, "kafka") && len(c.Kafka.Brokers) == 0 {
		errs = append(errs, errors.New("kafka.brokers is required for the kafka audit sink"))
	}
	if strings.EqualFold(c.Audit.Sink, "postgres") && c.AuditDSN() == "" {
		errs = append(errs, errors.New("audit.postgres_dsn or registry.postgres_dsn is required for the postgres audit sink"))
	}
	if c.RateLimit.Enabled {
		for name, b := range map[string]RateBudget{"screen": c.RateLimit.Screen, "registry": c.RateLimit.Registry} {
			if b.Requests > 0 && b.Window <= 0 {
				errs = append(errs, fmt.Errorf("rate_limit.%s.window must be positive", name))
			}
		}
	}
	for i, src := range c.Ingest.Sources {
		if src.Location == "" {
			errs = append(errs, fmt.Errorf("ingest.sources[%d] has no location", i))
		}
		check(fmt.Sprintf("ingest.sources[%d].format", i), src.Format, "sdn", "yaml")
	}
	return errors.Join(errs...)
}

// AuditDSN is the Postgres DSN used by the postgres audit sink.
func (c *Config) AuditDSN() string {
	if c.Audit.PostgresDSN != "" {
		return c.Audit.PostgresDSN
	}
	return c.Registry.PostgresDSN
}

// Redacted returns a copy safe to print.
func (c Config) Redacted() Config {
	mask := func(s string) string {
		if s == "" {
			return ""
		}
		return "******"
	}
	c.Server.AdminSecret = mask(c.Server.AdminSecret)
	c.Scoring.Embedding.OpenAI.APIKey = mask(c.Scoring.Embedding.OpenAI.APIKey)
	c.Scoring.Classifier.OpenAI.APIKey = mask(c.Scoring.Classifier.OpenAI.APIKey)
	c.Translator.OpenAI.APIKey = mask(c.Translator.OpenAI.APIKey)
	c.Registry.PostgresDSN = mask(c.Registry.PostgresDSN)
	c.Audit.PostgresDSN = mask(c.Audit.PostgresDSN)
	c.Redis.URL = mask(c.Redis.URL)
	return c
}
