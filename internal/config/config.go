package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
	Extract    ExtractConfig    `yaml:"extract" mapstructure:"extract"`
	Classifier ClassifierConfig `yaml:"classifier" mapstructure:"classifier"`
	Store      StoreConfig      `yaml:"store" mapstructure:"store"`
	Server     ServerConfig     `yaml:"server" mapstructure:"server"`
	Fetch      FetchConfig      `yaml:"fetch" mapstructure:"fetch"`
}

// ExtractConfig holds the default pipeline arguments.
type ExtractConfig struct {
	Strict      bool    `yaml:"strict" mapstructure:"strict"`
	Locale      string  `yaml:"locale" mapstructure:"locale"`
	Threshold   float64 `yaml:"threshold" mapstructure:"threshold"`
	BaseDate    string  `yaml:"base_date" mapstructure:"base_date"` // YYYY-MM-DD; empty means Jan 1 of this year
	Concurrency int     `yaml:"concurrency" mapstructure:"concurrency"`
}

// ClassifierConfig selects the false-positive model.
type ClassifierConfig struct {
	ModelPath string `yaml:"model_path" mapstructure:"model_path"` // empty uses the embedded model
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	RateLimit      float64  `yaml:"rate_limit" mapstructure:"rate_limit"` // requests per second
	Burst          int      `yaml:"burst" mapstructure:"burst"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
	MaxBodyBytes   int64    `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
}

// FetchConfig configures document loading over HTTP.
type FetchConfig struct {
	TimeoutSecs int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	MaxBytes    int64   `yaml:"max_bytes" mapstructure:"max_bytes"`
	UserAgent   string  `yaml:"user_agent" mapstructure:"user_agent"`
	MaxRetries  int     `yaml:"max_retries" mapstructure:"max_retries"`
	RateLimit   float64 `yaml:"rate_limit" mapstructure:"rate_limit"` // requests per second per host
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("DATEXTRACT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("extract.strict", false)
	v.SetDefault("extract.locale", "")
	v.SetDefault("extract.threshold", 0.5)
	v.SetDefault("extract.base_date", "")
	v.SetDefault("extract.concurrency", 4)
	v.SetDefault("classifier.model_path", "")
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "datextract.db")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.rate_limit", 20.0)
	v.SetDefault("server.burst", 40)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("server.max_body_bytes", 5<<20)
	v.SetDefault("fetch.timeout_secs", 30)
	v.SetDefault("fetch.max_bytes", 20<<20)
	v.SetDefault("fetch.user_agent", "datextract/1.0")
	v.SetDefault("fetch.max_retries", 3)
	v.SetDefault("fetch.rate_limit", 5.0)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// BaseDate parses Extract.BaseDate. The zero time means "use the default".
func (c *Config) BaseDate() (time.Time, error) {
	if c.Extract.BaseDate == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse("2006-01-02", c.Extract.BaseDate)
	if err != nil {
		return time.Time{}, eris.Wrapf(err, "config: parse extract.base_date %q", c.Extract.BaseDate)
	}
	return t, nil
}

// Validate checks the settings a command mode depends on. Modes are
// "extract", "serve" and "runs".
func (c *Config) Validate(mode string) error {
	var errs []string

	switch mode {
	case "extract":
		errs = append(errs, c.validateExtract()...)
	case "serve":
		errs = append(errs, c.validateExtract()...)
		errs = append(errs, c.validateStore()...)
		if c.Server.Port <= 0 || c.Server.Port > 65535 {
			errs = append(errs, "server.port must be > 0 and <= 65535")
		}
		if c.Server.RateLimit < 0 {
			errs = append(errs, "server.rate_limit must be >= 0")
		}
		if c.Server.RateLimit > 0 && c.Server.Burst < 1 {
			errs = append(errs, "server.burst must be >= 1 when rate limiting")
		}
	case "runs":
		errs = append(errs, c.validateStore()...)
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if len(errs) > 0 {
		return eris.New(fmt.Sprintf("config: validation failed: %s", strings.Join(errs, "; ")))
	}
	return nil
}

func (c *Config) validateExtract() []string {
	var errs []string
	if c.Extract.Threshold < 0 || c.Extract.Threshold > 1 {
		errs = append(errs, "extract.threshold must be between 0 and 1")
	}
	if c.Extract.Concurrency < 1 || c.Extract.Concurrency > 64 {
		errs = append(errs, "extract.concurrency must be between 1 and 64")
	}
	if _, err := c.BaseDate(); err != nil {
		errs = append(errs, "extract.base_date must be YYYY-MM-DD")
	}
	return errs
}

func (c *Config) validateStore() []string {
	var errs []string
	switch c.Store.Driver {
	case "sqlite", "postgres":
	default:
		errs = append(errs, fmt.Sprintf("store.driver %q must be sqlite or postgres", c.Store.Driver))
	}
	if c.Store.DatabaseURL == "" {
		errs = append(errs, "store.database_url is required")
	}
	return errs
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
