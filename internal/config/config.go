// Package config assembles runtime settings from three layers applied in
// order: built-in defaults, an optional YAML file, and environment
// variables. Later layers win.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/avandersen/prosecheck/internal/annotator"
	"github.com/avandersen/prosecheck/internal/checker"
	"github.com/avandersen/prosecheck/internal/chunker"
	"github.com/avandersen/prosecheck/internal/logging"
)

// Environment variables understood by Load. Provider settings reuse the
// annotator package's variable names.
const (
	EnvConfigPath        = "PROSECHECK_CONFIG"
	EnvHTTPAddr          = "PROSECHECK_HTTP_ADDR"
	EnvDBPath            = "PROSECHECK_DB_PATH"
	EnvSentencesPerChunk = "PROSECHECK_SENTENCES_PER_CHUNK"
	EnvMaxChunkChars     = "PROSECHECK_MAX_CHUNK_CHARS"
	EnvMaxConcurrent     = "PROSECHECK_MAX_CONCURRENT_CHUNKS"
	EnvLogLevel          = "PROSECHECK_LOG_LEVEL"
	EnvLogFormat         = "PROSECHECK_LOG_FORMAT"
)

// Defaults for settings the pipeline packages do not own
const (
	DefaultHTTPAddr = ":8080"
	DefaultDBPath   = "prosecheck.db"
)

// Bounds enforced by Validate
const (
	MinSentencesPerChunk = 1
	MaxSentencesPerChunk = 10
	MinChunkChars        = 200
	MaxConcurrentLimit   = 32
)

// Config is the full runtime configuration
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Pipeline PipelineConfig `yaml:"pipeline"`
	Provider ProviderConfig `yaml:"provider"`
	Log      logging.Config `yaml:"log"`
}

// ServerConfig holds HTTP service settings
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// DatabaseConfig holds SQLite settings
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// PipelineConfig holds segmentation and concurrency settings
type PipelineConfig struct {
	SentencesPerChunk   int `yaml:"sentences_per_chunk"`
	MaxChunkChars       int `yaml:"max_chunk_chars"`
	MaxConcurrentChunks int `yaml:"max_concurrent_chunks"`

	// Abbreviations extends the segmenter's no-break list for
	// domain-specific terms (e.g. "approx", "fig")
	Abbreviations []string `yaml:"abbreviations"`
}

// ProviderConfig holds correction source settings
type ProviderConfig struct {
	Name         string   `yaml:"name"`
	Model        string   `yaml:"model"`
	APIKey       string   `yaml:"api_key"`
	BaseURL      string   `yaml:"base_url"`
	CacheSize    int      `yaml:"cache_size"`
	Timeout      Duration `yaml:"timeout"`
	DisableRules bool     `yaml:"disable_rules"`
}

// Duration accepts Go duration strings ("90s", "2m") in YAML
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Server:   ServerConfig{Addr: DefaultHTTPAddr},
		Database: DatabaseConfig{Path: DefaultDBPath},
		Pipeline: PipelineConfig{
			SentencesPerChunk:   chunker.DefaultSentencesPerChunk,
			MaxChunkChars:       chunker.DefaultMaxChunkChars,
			MaxConcurrentChunks: checker.DefaultMaxConcurrentChunks,
		},
	}
}

// Load builds the runtime configuration using the YAML file named by
// PROSECHECK_CONFIG when one is set.
func Load() (*Config, error) {
	return LoadFile(os.Getenv(EnvConfigPath))
}

// LoadFile builds the runtime configuration from defaults, the YAML file
// at path (skipped when path is empty), and environment overrides.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overrides file and default values with environment variables.
// Malformed numeric values are ignored rather than fatal.
func (c *Config) applyEnv() {
	if v := os.Getenv(EnvHTTPAddr); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv(EnvDBPath); v != "" {
		c.Database.Path = v
	}
	if v := os.Getenv(EnvSentencesPerChunk); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Pipeline.SentencesPerChunk = n
		}
	}
	if v := os.Getenv(EnvMaxChunkChars); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Pipeline.MaxChunkChars = n
		}
	}
	if v := os.Getenv(EnvMaxConcurrent); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Pipeline.MaxConcurrentChunks = n
		}
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		c.Log.Format = v
	}

	if v := os.Getenv(annotator.EnvProvider); v != "" {
		c.Provider.Name = v
	}
	if v := os.Getenv(annotator.EnvModel); v != "" {
		c.Provider.Model = v
	}
	if v := os.Getenv(annotator.EnvOpenAIAPIKey); v != "" {
		c.Provider.APIKey = v
	}
	if v := os.Getenv(annotator.EnvOpenAIBaseURL); v != "" {
		c.Provider.BaseURL = v
	}
	if v := os.Getenv(annotator.EnvCacheSize); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Provider.CacheSize = n
		}
	}
	if v := os.Getenv(annotator.EnvTimeout); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Provider.Timeout = Duration(d)
		}
	}
	if v := os.Getenv(annotator.EnvRules); v != "" {
		c.Provider.DisableRules = annotator.RulesDisabled(v)
	}
}

// Validate clamps numeric settings into their working ranges and rejects
// settings the pipeline cannot start with.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultHTTPAddr
	}
	if c.Database.Path == "" {
		c.Database.Path = DefaultDBPath
	}

	if c.Pipeline.SentencesPerChunk < MinSentencesPerChunk {
		c.Pipeline.SentencesPerChunk = MinSentencesPerChunk
	}
	if c.Pipeline.SentencesPerChunk > MaxSentencesPerChunk {
		c.Pipeline.SentencesPerChunk = MaxSentencesPerChunk
	}
	if c.Pipeline.MaxChunkChars < MinChunkChars {
		c.Pipeline.MaxChunkChars = chunker.DefaultMaxChunkChars
	}
	if c.Pipeline.MaxConcurrentChunks < 1 {
		c.Pipeline.MaxConcurrentChunks = checker.DefaultMaxConcurrentChunks
	}
	if c.Pipeline.MaxConcurrentChunks > MaxConcurrentLimit {
		c.Pipeline.MaxConcurrentChunks = MaxConcurrentLimit
	}

	if c.Provider.CacheSize < 0 {
		c.Provider.CacheSize = 0
	}
	if c.Provider.Timeout < 0 {
		c.Provider.Timeout = 0
	}

	switch strings.ToLower(c.Provider.Name) {
	case "", annotator.ProviderOpenAI, annotator.ProviderRules:
	default:
		return fmt.Errorf("%w: %q", annotator.ErrUnknownProvider, c.Provider.Name)
	}

	return nil
}

// AnnotatorConfig maps the provider section onto the annotator factory
func (c *Config) AnnotatorConfig(log *zap.Logger) annotator.Config {
	return annotator.Config{
		Provider:     c.Provider.Name,
		Model:        c.Provider.Model,
		APIKey:       c.Provider.APIKey,
		BaseURL:      c.Provider.BaseURL,
		CacheSize:    c.Provider.CacheSize,
		Timeout:      time.Duration(c.Provider.Timeout),
		DisableRules: c.Provider.DisableRules,
		Logger:       log,
	}
}

// CheckerConfig maps the pipeline section onto the checker
func (c *Config) CheckerConfig() *checker.Config {
	return &checker.Config{MaxConcurrentChunks: c.Pipeline.MaxConcurrentChunks}
}
