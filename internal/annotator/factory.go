package annotator

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Provider names and environment configuration
const (
	ProviderOpenAI = "openai"
	ProviderRules  = "rules"

	EnvProvider      = "PROSECHECK_PROVIDER"
	EnvModel         = "PROSECHECK_MODEL"
	EnvOpenAIBaseURL = "PROSECHECK_OPENAI_BASE_URL"
	EnvOpenAIAPIKey  = "OPENAI_API_KEY"
	EnvRules         = "PROSECHECK_RULES"
	EnvCacheSize     = "PROSECHECK_CACHE_SIZE"
	EnvTimeout       = "PROSECHECK_REQUEST_TIMEOUT"
)

// Config holds annotator configuration
type Config struct {
	Provider     string
	Model        string
	APIKey       string
	BaseURL      string
	CacheSize    int
	Timeout      time.Duration
	DisableRules bool
	Logger       *zap.Logger
}

// NewFromEnv builds the annotator set from environment variables.
// Priority:
//  1. PROSECHECK_PROVIDER (openai, rules)
//  2. OPENAI_API_KEY present selects openai
//  3. Fall back to the rules annotator alone
//
// The rules annotator rides along with openai unless PROSECHECK_RULES
// turns it off.
func NewFromEnv(log *zap.Logger) ([]Annotator, error) {
	cfg := Config{
		Provider: os.Getenv(EnvProvider),
		Model:    os.Getenv(EnvModel),
		APIKey:   os.Getenv(EnvOpenAIAPIKey),
		BaseURL:  os.Getenv(EnvOpenAIBaseURL),
		Logger:   log,
	}
	if v := os.Getenv(EnvCacheSize); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.CacheSize = n
		}
	}
	if v := os.Getenv(EnvTimeout); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Timeout = d
		}
	}
	cfg.DisableRules = RulesDisabled(os.Getenv(EnvRules))

	return New(cfg)
}

// New builds the annotator set from explicit configuration. The returned
// slice is ordered by priority; the merger prefers earlier sources when
// findings collide.
func New(cfg Config) ([]Annotator, error) {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	cache := NewCache(cfg.CacheSize)

	provider := strings.ToLower(cfg.Provider)
	switch provider {
	case ProviderOpenAI:
		oa, err := NewOpenAI(cfg, cache)
		if err != nil {
			return nil, err
		}
		return withRules(oa, cfg.DisableRules, log), nil
	case ProviderRules:
		return []Annotator{NewRules(log)}, nil
	case "":
		// Auto-detect below
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, cfg.Provider)
	}

	// Auto-detect based on available API keys
	if cfg.APIKey != "" || os.Getenv(EnvOpenAIAPIKey) != "" {
		oa, err := NewOpenAI(cfg, cache)
		if err != nil {
			return nil, err
		}
		return withRules(oa, cfg.DisableRules, log), nil
	}

	if cfg.DisableRules {
		return nil, fmt.Errorf("%w: no API key found and rules disabled", ErrNoProvider)
	}
	return []Annotator{NewRules(log)}, nil
}

func withRules(primary Annotator, disable bool, log *zap.Logger) []Annotator {
	if disable {
		return []Annotator{primary}
	}
	return []Annotator{primary, NewRules(log)}
}

// DetectProvider returns the primary provider the current environment selects
func DetectProvider() string {
	if p := os.Getenv(EnvProvider); p != "" {
		return strings.ToLower(p)
	}
	if os.Getenv(EnvOpenAIAPIKey) != "" {
		return ProviderOpenAI
	}
	return ProviderRules
}

// RulesDisabled interprets the PROSECHECK_RULES value. Rules run by
// default; only an explicit negative turns them off.
func RulesDisabled(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "0", "false", "off", "disabled", "no":
		return true
	}
	return false
}
