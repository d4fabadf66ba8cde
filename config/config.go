package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server     ServerConfig
	Log        LogConfig
	Dataset    DatasetConfig
	Reference  ReferenceConfig
	OCR        OCRConfig
	Cache      CacheConfig
	RateLimit  RateLimitConfig
	Classifier ClassifierConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port            string        `mapstructure:"port"`
	Environment     string        `mapstructure:"environment"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	MaxUploadBytes  int64         `mapstructure:"max_upload_bytes"`
}

// LogConfig holds logger configuration
type LogConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

// DatasetConfig points at the ingredient reference dataset (CSV or XLSX)
type DatasetConfig struct {
	Path  string `mapstructure:"path"`
	Watch bool   `mapstructure:"watch"`
}

// ReferenceConfig configures the fallback reference-table lookup.
// An empty Source disables the lookup.
type ReferenceConfig struct {
	Source      string        `mapstructure:"source"` // file path or http(s) URL
	Timeout     time.Duration `mapstructure:"timeout"`
	MaxAttempts int           `mapstructure:"max_attempts"`
}

// OCRConfig selects and tunes the OCR engine
type OCRConfig struct {
	Engine          string        `mapstructure:"engine"` // "vision", "tesseract" or "none"
	Timeout         time.Duration `mapstructure:"timeout"`
	Language        string        `mapstructure:"language"`
	CredentialsFile string        `mapstructure:"credentials_file"`
}

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	Type       string        `mapstructure:"type"` // "memory", "redis" or "sqlite"
	RedisURL   string        `mapstructure:"redis_url"`
	SQLitePath string        `mapstructure:"sqlite_path"`
	TTL        time.Duration `mapstructure:"ttl"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP int `mapstructure:"per_ip"` // requests per minute, 0 disables
}

// ClassifierConfig holds matching policy settings
type ClassifierConfig struct {
	IgnoredTerms []string `mapstructure:"ignored_terms"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/labellens/")

	v.SetEnvPrefix("LABELLENS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Config file is optional; env vars and defaults are enough
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
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

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:*"})
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "60s")
	v.SetDefault("server.shutdown_timeout", "15s")
	v.SetDefault("server.max_upload_bytes", 10<<20)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)

	v.SetDefault("dataset.path", "ingredients.csv")
	v.SetDefault("dataset.watch", false)

	v.SetDefault("reference.source", "sample.html")
	v.SetDefault("reference.timeout", "5s")
	v.SetDefault("reference.max_attempts", 3)

	v.SetDefault("ocr.engine", "vision")
	v.SetDefault("ocr.timeout", "30s")
	v.SetDefault("ocr.language", "eng")
	v.SetDefault("ocr.credentials_file", "")

	v.SetDefault("cache.type", "memory")
	v.SetDefault("cache.redis_url", "")
	v.SetDefault("cache.sqlite_path", "labellens-cache.db")
	v.SetDefault("cache.ttl", "24h")

	v.SetDefault("ratelimit.per_ip", 60)

	v.SetDefault("classifier.ignored_terms", DefaultIgnoredTerms)
}

// DefaultIgnoredTerms are nutrition-panel words that are never ingredients
var DefaultIgnoredTerms = []string{
	"measure", "energy", "protein", "protien",
	"total carbohydrate", "total dietary fibre", "total fiber",
	"fat", "cholesterol", "calcium", "iron", "sodium", "potassium",
	"phosphorus", "phosphorous", "riboflavin", "niacin", "folate",
}

// validate validates the configuration
func validate(config *Config) error {
	if strings.TrimSpace(config.Dataset.Path) == "" {
		return fmt.Errorf("dataset path is required (set LABELLENS_DATASET_PATH)")
	}

	switch config.OCR.Engine {
	case "vision", "tesseract", "none":
	default:
		return fmt.Errorf("ocr engine must be 'vision', 'tesseract' or 'none', got: %s", config.OCR.Engine)
	}

	switch config.Cache.Type {
	case "memory":
	case "redis":
		if config.Cache.RedisURL == "" {
			return fmt.Errorf("Redis URL is required when cache type is 'redis'")
		}
	case "sqlite":
		if config.Cache.SQLitePath == "" {
			return fmt.Errorf("SQLite path is required when cache type is 'sqlite'")
		}
	default:
		return fmt.Errorf("cache type must be 'memory', 'redis' or 'sqlite', got: %s", config.Cache.Type)
	}

	if config.Reference.MaxAttempts < 1 {
		return fmt.Errorf("reference max_attempts must be at least 1, got: %d", config.Reference.MaxAttempts)
	}

	if config.RateLimit.PerIP < 0 {
		return fmt.Errorf("ratelimit per_ip must not be negative, got: %d", config.RateLimit.PerIP)
	}

	return nil
}

// LoadEnvFile loads a .env file from the working directory if one exists.
// Variables already present in the environment are not overridden.
func LoadEnvFile() error {
	if _, err := os.Stat(".env"); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return godotenv.Load()
}
