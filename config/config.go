package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable, e.g. TORIMO_DATASET_PATH
const EnvPrefix = "TORIMO"

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Dataset   DatasetConfig   `mapstructure:"dataset"`
	Matching  MatchingConfig  `mapstructure:"matching"`
	USDA      USDAConfig      `mapstructure:"usda"`
	Cache     CacheConfig     `mapstructure:"cache"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	Gemini    GeminiConfig    `mapstructure:"gemini"`
	Log       LogConfig       `mapstructure:"log"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port            string        `mapstructure:"port"`
	Environment     string        `mapstructure:"environment"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// DatasetConfig locates the nutrition tables and the persisted alias table
type DatasetConfig struct {
	Path         string `mapstructure:"path"`
	OverridePath string `mapstructure:"override_path"`
	AliasPath    string `mapstructure:"alias_path"`
}

// MatchingConfig holds the fuzzy matching calibration
type MatchingConfig struct {
	AliasThreshold   float64 `mapstructure:"alias_threshold"`
	DatasetThreshold float64 `mapstructure:"dataset_threshold"`
	SuggestionCutoff float64 `mapstructure:"suggestion_cutoff"`
	SuggestionLimit  int     `mapstructure:"suggestion_limit"`
}

// USDAConfig holds USDA API configuration. An empty APIKey disables the
// external lookup step.
type USDAConfig struct {
	APIKey   string        `mapstructure:"api_key"`
	BaseURL  string        `mapstructure:"base_url"`
	Timeout  time.Duration `mapstructure:"timeout"`
	PageSize int           `mapstructure:"page_size"`
}

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	Type     string        `mapstructure:"type"` // "memory", "redis" or "none"
	RedisURL string        `mapstructure:"redis_url"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	USDA int `mapstructure:"usda"` // requests per hour
}

// GeminiConfig configures the optional LLM collaborator. An empty APIKey
// disables it.
type GeminiConfig struct {
	APIKey  string        `mapstructure:"api_key"`
	BaseURL string        `mapstructure:"base_url"`
	Model   string        `mapstructure:"model"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Load loads configuration from a .env file, environment variables and
// config files
func Load() (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, err
	}

	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/torimo/")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// loadEnvFile loads ./.env when present. Variables already set in the
// environment win over the file.
func loadEnvFile() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("error reading .env file: %w", err)
	}
	return nil
}

// setDefaults sets default configuration values. Every key needs a default
// so AutomaticEnv can override it during Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:5173"})
	v.SetDefault("server.shutdown_timeout", "10s")

	v.SetDefault("dataset.path", "data/foods.csv")
	v.SetDefault("dataset.override_path", "data/foods_custom.csv")
	v.SetDefault("dataset.alias_path", "data/food_aliases.json")

	v.SetDefault("matching.alias_threshold", 0.68)
	v.SetDefault("matching.dataset_threshold", 0.70)
	v.SetDefault("matching.suggestion_cutoff", 0.6)
	v.SetDefault("matching.suggestion_limit", 3)

	v.SetDefault("usda.api_key", "")
	v.SetDefault("usda.base_url", "https://api.nal.usda.gov/fdc")
	v.SetDefault("usda.timeout", "6s")
	v.SetDefault("usda.page_size", 5)

	v.SetDefault("cache.type", "memory")
	v.SetDefault("cache.redis_url", "")
	v.SetDefault("cache.ttl", "720h") // 30 days

	v.SetDefault("ratelimit.usda", 1000)

	v.SetDefault("gemini.api_key", "")
	v.SetDefault("gemini.base_url", "https://generativelanguage.googleapis.com")
	v.SetDefault("gemini.model", "gemini-1.5-flash")
	v.SetDefault("gemini.timeout", "10s")

	v.SetDefault("log.level", "info")
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}

	if config.Dataset.Path == "" {
		return fmt.Errorf("dataset path is required (set %s_DATASET_PATH)", EnvPrefix)
	}

	thresholds := map[string]float64{
		"alias_threshold":   config.Matching.AliasThreshold,
		"dataset_threshold": config.Matching.DatasetThreshold,
		"suggestion_cutoff": config.Matching.SuggestionCutoff,
	}
	for name, th := range thresholds {
		if th <= 0 || th > 1 {
			return fmt.Errorf("matching.%s must be within (0,1], got: %v", name, th)
		}
	}
	if config.Matching.SuggestionLimit < 1 {
		return fmt.Errorf("matching.suggestion_limit must be at least 1, got: %d", config.Matching.SuggestionLimit)
	}

	if config.USDA.APIKey != "" && config.USDA.BaseURL == "" {
		return fmt.Errorf("USDA base URL is required when an API key is set")
	}
	if config.USDA.Timeout <= 0 {
		return fmt.Errorf("usda.timeout must be positive, got: %v", config.USDA.Timeout)
	}
	if config.RateLimit.USDA <= 0 {
		return fmt.Errorf("ratelimit.usda must be positive, got: %d", config.RateLimit.USDA)
	}

	switch config.Cache.Type {
	case "memory", "redis", "none":
	default:
		return fmt.Errorf("cache type must be 'memory', 'redis' or 'none', got: %s", config.Cache.Type)
	}
	if config.Cache.Type == "redis" && config.Cache.RedisURL == "" {
		return fmt.Errorf("Redis URL is required when cache type is 'redis'")
	}

	return nil
}
