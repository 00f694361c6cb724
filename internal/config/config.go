package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store   StoreConfig   `yaml:"store" mapstructure:"store"`
	Server  ServerConfig  `yaml:"server" mapstructure:"server"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
	Cache   CacheConfig   `yaml:"cache" mapstructure:"cache"`
	Dataset DatasetConfig `yaml:"dataset" mapstructure:"dataset"`
	Script  ScriptConfig  `yaml:"script" mapstructure:"script"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	MaxConns    int32  `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns    int32  `yaml:"min_conns" mapstructure:"min_conns"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port               int      `yaml:"port" mapstructure:"port"`
	RateLimit          float64  `yaml:"rate_limit" mapstructure:"rate_limit"` // requests per second, 0 disables
	RateBurst          int      `yaml:"rate_burst" mapstructure:"rate_burst"`
	CORSOrigins        []string `yaml:"cors_origins" mapstructure:"cors_origins"`
	RequestTimeoutSecs int      `yaml:"request_timeout_secs" mapstructure:"request_timeout_secs"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// CacheConfig configures the optional Redis cache for analytics reads.
type CacheConfig struct {
	RedisURL string `yaml:"redis_url" mapstructure:"redis_url"`
	TTLSecs  int    `yaml:"ttl_secs" mapstructure:"ttl_secs"`
	Prefix   string `yaml:"prefix" mapstructure:"prefix"`
}

// DatasetConfig points the importer at source files.
type DatasetConfig struct {
	H1BPath         string `yaml:"h1b_path" mapstructure:"h1b_path"`
	BLSPath         string `yaml:"bls_path" mapstructure:"bls_path"`
	H1BLimit        int    `yaml:"h1b_limit" mapstructure:"h1b_limit"`
	BLSLimit        int    `yaml:"bls_limit" mapstructure:"bls_limit"`
	BatchSize       int    `yaml:"batch_size" mapstructure:"batch_size"`
	RefreshSchedule string `yaml:"refresh_schedule" mapstructure:"refresh_schedule"` // cron spec, empty disables
}

// ScriptConfig configures the script composer.
type ScriptConfig struct {
	PhrasesPath string `yaml:"phrases_path" mapstructure:"phrases_path"` // overrides the embedded phrase bank
}

// Load reads config.yaml from the working directory, a .env file if one
// exists, and COACH_* environment variables, in increasing precedence.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, eris.Wrap(err, "config: load .env")
	}

	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("COACH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("store.driver", "postgres")
	v.SetDefault("store.database_url", "")
	v.SetDefault("store.max_conns", 10)
	v.SetDefault("store.min_conns", 2)
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.rate_limit", 20.0)
	v.SetDefault("server.rate_burst", 40)
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("server.request_timeout_secs", 15)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("cache.redis_url", "")
	v.SetDefault("cache.ttl_secs", 300)
	v.SetDefault("cache.prefix", "coach:")
	v.SetDefault("dataset.h1b_path", "")
	v.SetDefault("dataset.bls_path", "")
	v.SetDefault("dataset.h1b_limit", 30000)
	v.SetDefault("dataset.bls_limit", 15000)
	v.SetDefault("dataset.batch_size", 500)
	v.SetDefault("dataset.refresh_schedule", "")
	v.SetDefault("script.phrases_path", "")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read config file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	// DATABASE_URL is the conventional variable on hosted Postgres platforms.
	if cfg.Store.DatabaseURL == "" {
		cfg.Store.DatabaseURL = os.Getenv("DATABASE_URL")
	}

	return &cfg, nil
}

// Validate checks the settings a command needs. mode is "serve", "import"
// or anything else for store-only commands.
func (c *Config) Validate(mode string) error {
	var errs []string

	switch c.Store.Driver {
	case "postgres":
		if c.Store.DatabaseURL == "" {
			errs = append(errs, "store.database_url is required for the postgres driver")
		}
	case "sqlite":
	default:
		errs = append(errs, "store.driver must be postgres or sqlite, got "+c.Store.Driver)
	}
	if c.Store.MinConns > c.Store.MaxConns {
		errs = append(errs, "store.min_conns must not exceed store.max_conns")
	}
	if c.Cache.RedisURL != "" && strings.TrimSpace(c.Cache.Prefix) == "" {
		errs = append(errs, "cache.prefix must not be empty when cache.redis_url is set")
	}

	switch mode {
	case "serve":
		if c.Server.Port <= 0 || c.Server.Port > 65535 {
			errs = append(errs, "server.port must be between 1 and 65535")
		}
		if c.Server.RateLimit < 0 {
			errs = append(errs, "server.rate_limit must not be negative")
		}
		if c.Server.RateLimit > 0 && c.Server.RateBurst <= 0 {
			errs = append(errs, "server.rate_burst must be positive when rate limiting is enabled")
		}
		if c.Dataset.RefreshSchedule != "" && c.Dataset.H1BPath == "" && c.Dataset.BLSPath == "" {
			errs = append(errs, "dataset.refresh_schedule needs dataset.h1b_path or dataset.bls_path")
		}
	case "import":
		if c.Dataset.H1BPath == "" && c.Dataset.BLSPath == "" {
			errs = append(errs, "at least one of dataset.h1b_path or dataset.bls_path is required")
		}
	}

	if len(errs) > 0 {
		return eris.Errorf("config: invalid (%s)", strings.Join(errs, "; "))
	}
	return nil
}

// InitLogger configures the global zap logger.
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
