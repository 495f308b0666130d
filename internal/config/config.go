package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Feed   FeedConfig   `yaml:"feed" mapstructure:"feed"`
	Facts  FactsConfig  `yaml:"facts" mapstructure:"facts"`
	Cache  CacheConfig  `yaml:"cache" mapstructure:"cache"`
	Server ServerConfig `yaml:"server" mapstructure:"server"`
	Log    LogConfig    `yaml:"log" mapstructure:"log"`
}

// FeedConfig configures how region feeds are fetched and read.
type FeedConfig struct {
	BaseURL         string `yaml:"base_url" mapstructure:"base_url"`
	DetailBaseURL   string `yaml:"detail_base_url" mapstructure:"detail_base_url"`
	MapBaseURL      string `yaml:"map_base_url" mapstructure:"map_base_url"`
	UserAgent       string `yaml:"user_agent" mapstructure:"user_agent"`
	TimeoutSecs     int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	Charset         string `yaml:"charset" mapstructure:"charset"`
	DefaultModality string `yaml:"default_modality" mapstructure:"default_modality"`
	// MaxMB caps the downloaded document size.
	MaxMB int `yaml:"max_mb" mapstructure:"max_mb"`
}

// Timeout returns the per-request timeout.
func (c FeedConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSecs) * time.Second
}

// FactsConfig configures text classification.
type FactsConfig struct {
	// VocabularyPath overrides the built-in keyword vocabulary when set.
	VocabularyPath string `yaml:"vocabulary_path" mapstructure:"vocabulary_path"`
}

// CacheConfig configures the region result cache.
type CacheConfig struct {
	TTLMinutes int `yaml:"ttl_minutes" mapstructure:"ttl_minutes"`
}

// TTL returns the cache time-to-live.
func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLMinutes) * time.Minute
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment. Variables in a .env
// file in the working directory are added to the environment without
// overriding ones already set.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, eris.Wrap(err, "config: load .env")
	}

	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("IMOVEIS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("feed.base_url", "https://venda-imoveis.caixa.gov.br/listaweb")
	v.SetDefault("feed.detail_base_url", "https://venda-imoveis.caixa.gov.br/sistema/detalhe-imovel.asp?hdnimovel=")
	v.SetDefault("feed.map_base_url", "https://www.google.com/maps/search/?api=1&query=")
	v.SetDefault("feed.user_agent", "")
	v.SetDefault("feed.timeout_secs", 20)
	v.SetDefault("feed.charset", "windows-1252")
	v.SetDefault("feed.default_modality", "Venda Direta Online")
	v.SetDefault("feed.max_mb", 64)
	v.SetDefault("facts.vocabulary_path", "")
	v.SetDefault("cache.ttl_minutes", 60)
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

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

// Validate checks the settings a command mode depends on. Mode is one of
// "listings" or "serve".
func (c *Config) Validate(mode string) error {
	var errs []string

	if c.Feed.BaseURL == "" {
		errs = append(errs, "feed.base_url is required")
	}
	if c.Feed.TimeoutSecs <= 0 {
		errs = append(errs, "feed.timeout_secs must be > 0")
	}

	switch mode {
	case "listings":
	case "serve":
		if c.Server.Port <= 0 || c.Server.Port > 65535 {
			errs = append(errs, "server.port must be > 0 and <= 65535")
		}
		if c.Cache.TTLMinutes <= 0 {
			errs = append(errs, "cache.ttl_minutes must be > 0")
		}
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if len(errs) > 0 {
		return eris.Errorf("config: %s", strings.Join(errs, "; "))
	}
	return nil
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
