// Package config loads the notetaker configuration from file, environment and flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/Veraticus/physician-notetaker/internal/classify"
	"github.com/Veraticus/physician-notetaker/internal/common"
	"github.com/Veraticus/physician-notetaker/internal/llm"
)

// EnvPrefix prefixes environment overrides, e.g. NOTETAKER_LOGGING_LEVEL.
const EnvPrefix = "NOTETAKER"

// Config is the complete application configuration.
type Config struct {
	Logging  LoggingConfig  `mapstructure:"logging"`
	Output   OutputConfig   `mapstructure:"output"`
	Backend  BackendConfig  `mapstructure:"backend"`
	Analysis AnalysisConfig `mapstructure:"analysis"`
}

// LoggingConfig configures the process logger.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// AnalysisConfig holds the classifier policy and the knobs of the report.
type AnalysisConfig struct {
	classify.Policy `mapstructure:",squash"`
	// OverallEvidenceLimit caps the indicators of the overall sentiment.
	OverallEvidenceLimit int  `mapstructure:"overall_evidence_limit"`
	TopN                 int  `mapstructure:"top_n"`
	Concurrency          int  `mapstructure:"concurrency"`
	Narrative            bool `mapstructure:"narrative"`
}

// BackendConfig configures the optional language model backend.
type BackendConfig struct {
	Provider   string        `mapstructure:"provider"`
	Model      string        `mapstructure:"model"`
	APIKey     string        `mapstructure:"api_key"`
	APIKeyEnv  string        `mapstructure:"api_key_env"`
	BaseURL    string        `mapstructure:"base_url"`
	Timeout    time.Duration `mapstructure:"timeout"`
	CacheTTL   time.Duration `mapstructure:"cache_ttl"`
	RetryDelay time.Duration `mapstructure:"retry_delay"`
	MaxRetries int           `mapstructure:"max_retries"`
	RateLimit  int           `mapstructure:"rate_limit"`
	Enabled    bool          `mapstructure:"enabled"`
}

// OutputConfig controls where the report is written.
type OutputConfig struct {
	Path   string `mapstructure:"path"`
	Format string `mapstructure:"format"`
}

// SetDefaults registers the default value of every option on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	p := classify.DefaultPolicy()
	v.SetDefault("analysis.pattern_weight", p.PatternWeight)
	v.SetDefault("analysis.keyword_weight", p.KeywordWeight)
	v.SetDefault("analysis.question_bonus", p.QuestionBonus)
	v.SetDefault("analysis.secondary_ratio", p.SecondaryRatio)
	v.SetDefault("analysis.max_secondary", p.MaxSecondary)
	v.SetDefault("analysis.low_signal", p.LowSignal)
	v.SetDefault("analysis.fallback_confidence", p.FallbackConfidence)
	v.SetDefault("analysis.zero_score_confidence", p.ZeroScoreConfidence)
	v.SetDefault("analysis.epsilon", p.Epsilon)
	v.SetDefault("analysis.evidence_limit", p.EvidenceLimit)
	v.SetDefault("analysis.negation_window", p.NegationWindow)
	v.SetDefault("analysis.negation_credit", p.NegationCredit)
	v.SetDefault("analysis.intensifier_factor", p.IntensifierFactor)
	v.SetDefault("analysis.neutral_bias", p.NeutralBias)
	v.SetDefault("analysis.overall_evidence_limit", 5)
	v.SetDefault("analysis.top_n", 15)
	v.SetDefault("analysis.concurrency", 4)
	v.SetDefault("analysis.narrative", false)

	v.SetDefault("backend.enabled", false)
	v.SetDefault("backend.provider", "openai")
	v.SetDefault("backend.model", "gpt-4o-mini")
	v.SetDefault("backend.api_key_env", "OPENAI_API_KEY")
	v.SetDefault("backend.timeout", "30s")
	v.SetDefault("backend.cache_ttl", "15m")
	v.SetDefault("backend.max_retries", 3)
	v.SetDefault("backend.retry_delay", "1s")
	v.SetDefault("backend.rate_limit", 60)

	v.SetDefault("output.path", "analysis_results.json")
	v.SetDefault("output.format", "json")
}

// FromViper decodes and validates the configuration held by v.
func FromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.Output.Path = ExpandPath(cfg.Output.Path)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Load reads the configuration file at path, applying defaults and
// environment overrides. An empty path searches the default locations; a
// missing file there is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	SetDefaults(v)

	if err := Read(v, path); err != nil {
		return nil, err
	}
	return FromViper(v)
}

// Read points v at path, or at the default search locations when path is
// empty, enables environment overrides and reads the file.
func Read(v *viper.Viper, path string) error {
	if path != "" {
		v.SetConfigFile(ExpandPath(path))
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "notetaker"))
		}
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}
	return nil
}

// Validate checks that all configuration values are usable.
func (c *Config) Validate() error {
	if _, err := common.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("%w: logging.level must be one of: debug, info, warn, error", common.ErrInvalidConfig)
	}
	if c.Logging.Format != "console" && c.Logging.Format != "json" {
		return fmt.Errorf("%w: logging.format must be one of: console, json", common.ErrInvalidConfig)
	}

	if err := c.Analysis.Policy.Validate(); err != nil {
		return fmt.Errorf("%w: analysis: %w", common.ErrInvalidConfig, err)
	}
	if c.Analysis.OverallEvidenceLimit < 1 {
		return fmt.Errorf("%w: analysis.overall_evidence_limit must be at least 1", common.ErrInvalidConfig)
	}
	if c.Analysis.TopN < 1 {
		return fmt.Errorf("%w: analysis.top_n must be at least 1", common.ErrInvalidConfig)
	}
	if c.Analysis.Concurrency < 1 {
		return fmt.Errorf("%w: analysis.concurrency must be at least 1", common.ErrInvalidConfig)
	}

	switch c.Output.Format {
	case "json", "yaml":
	default:
		return fmt.Errorf("%w: output.format must be one of: json, yaml", common.ErrInvalidConfig)
	}

	if c.Backend.Enabled {
		switch strings.ToLower(c.Backend.Provider) {
		case "openai", "azure", "local":
		default:
			return fmt.Errorf("%w: backend.provider must be one of: openai, azure, local", common.ErrInvalidConfig)
		}
		if c.Backend.MaxRetries < 1 {
			return fmt.Errorf("%w: backend.max_retries must be at least 1", common.ErrInvalidConfig)
		}
		if c.Backend.RateLimit < 1 {
			return fmt.Errorf("%w: backend.rate_limit must be at least 1", common.ErrInvalidConfig)
		}
	}

	return nil
}

// ResolveAPIKey returns the backend API key. It follows this precedence:
// 1. backend.api_key (config file or NOTETAKER_BACKEND_API_KEY)
// 2. the environment variable named by backend.api_key_env
func (b BackendConfig) ResolveAPIKey() string {
	if b.APIKey != "" {
		return b.APIKey
	}
	if b.APIKeyEnv != "" {
		return os.Getenv(b.APIKeyEnv)
	}
	return ""
}

// LLM converts the backend section into the language model client config.
func (b BackendConfig) LLM() llm.Config {
	return llm.Config{
		Provider:   strings.ToLower(b.Provider),
		APIKey:     b.ResolveAPIKey(),
		Model:      b.Model,
		BaseURL:    b.BaseURL,
		MaxRetries: b.MaxRetries,
		RetryDelay: b.RetryDelay,
		Timeout:    b.Timeout,
		CacheTTL:   b.CacheTTL,
		RateLimit:  b.RateLimit,
	}
}

// ExpandPath expands a leading ~ and $VAR references in path.
func ExpandPath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = home + strings.TrimPrefix(path, "~")
		}
	}
	return os.ExpandEnv(path)
}
