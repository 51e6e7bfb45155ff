// Package config loads runtime settings from .env files, an optional YAML
// file and the environment, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const defaultJWTSecret = "dev-secret-key"

type Config struct {
	Env        string `mapstructure:"env"`
	Port       int    `mapstructure:"port"`
	AppName    string `mapstructure:"app_name"`
	AppVersion string `mapstructure:"app_version"`

	Database  DatabaseConfig  `mapstructure:",squash"`
	JWT       JWTConfig       `mapstructure:",squash"`
	Upload    UploadConfig    `mapstructure:",squash"`
	LLM       LLMConfig       `mapstructure:",squash"`
	Log       LogConfig       `mapstructure:",squash"`
	RateLimit RateLimitConfig `mapstructure:",squash"`

	CORSAllowOrigins []string `mapstructure:"cors_allow_origins"`
}

type DatabaseConfig struct {
	Driver string `mapstructure:"database_driver"`
	URL    string `mapstructure:"database_url"`

	PostgresUser     string `mapstructure:"postgres_user"`
	PostgresPassword string `mapstructure:"postgres_password"`
	PostgresHost     string `mapstructure:"postgres_host"`
	PostgresPort     string `mapstructure:"postgres_port"`
	PostgresDB       string `mapstructure:"postgres_db"`

	MaxOpenConns       int           `mapstructure:"db_max_open_conns"`
	MaxIdleConns       int           `mapstructure:"db_max_idle_conns"`
	ConnMaxLifetime    time.Duration `mapstructure:"db_conn_max_lifetime"`
	SlowQueryThreshold time.Duration `mapstructure:"db_slow_query_threshold"`
	AutoMigrate        bool          `mapstructure:"db_auto_migrate"`
}

type JWTConfig struct {
	Secret      string `mapstructure:"jwt_secret"`
	ExpireHours int    `mapstructure:"jwt_expire_hours"`
}

func (c JWTConfig) TTL() time.Duration {
	return time.Duration(c.ExpireHours) * time.Hour
}

type UploadConfig struct {
	Dir   string `mapstructure:"upload_dir"`
	MaxMB int64  `mapstructure:"max_upload_mb"`
}

func (c UploadConfig) MaxBytes() int64 {
	return c.MaxMB << 20
}

type LLMConfig struct {
	Enabled bool          `mapstructure:"use_llm"`
	APIKey  string        `mapstructure:"gemini_api_key"`
	Model   string        `mapstructure:"llm_model"`
	Timeout time.Duration `mapstructure:"llm_timeout"`
}

// Available reports whether the AI parser can be constructed at all.
func (c LLMConfig) Available() bool {
	return c.Enabled && c.APIKey != ""
}

type LogConfig struct {
	Level      string `mapstructure:"log_level"`
	Format     string `mapstructure:"log_format"`
	File       string `mapstructure:"log_file"`
	MaxSizeMB  int    `mapstructure:"log_max_size_mb"`
	MaxBackups int    `mapstructure:"log_max_backups"`
	MaxAgeDays int    `mapstructure:"log_max_age_days"`
}

type RateLimitConfig struct {
	AuthRPS   float64 `mapstructure:"rate_limit_auth_rps"`
	AuthBurst int     `mapstructure:"rate_limit_auth_burst"`
}

// Load reads configuration. configFile may be empty; a missing file is not
// an error, a malformed one is.
func Load(configFile string) (*Config, error) {
	env := strings.ToLower(os.Getenv("ENV"))
	if env != "prod" {
		// Each file is optional; godotenv never overrides variables already set.
		for _, f := range []string{"backend.env", ".env"} {
			_ = godotenv.Load(f)
		}
	}

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if configFile != "" {
		if _, err := os.Stat(configFile); err == nil {
			v.SetConfigFile(configFile)
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.Env = strings.ToLower(cfg.Env)
	if !v.IsSet("db_auto_migrate") {
		cfg.Database.AutoMigrate = !cfg.IsProd()
	}

	if err := cfg.resolveDatabaseURL(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

func (c *Config) IsProd() bool {
	return c.Env == "prod"
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func (c *Config) resolveDatabaseURL() error {
	d := &c.Database
	if d.URL != "" {
		return nil
	}
	switch d.Driver {
	case "sqlite":
		d.URL = "tracker.db?_pragma=foreign_keys(1)"
		return nil
	case "postgres":
		if d.PostgresUser == "" || d.PostgresPassword == "" || d.PostgresDB == "" {
			return errors.New("DATABASE_URL not set and POSTGRES_{USER,PASSWORD,DB} incomplete")
		}
		u := url.URL{
			Scheme: "postgresql",
			User:   url.UserPassword(d.PostgresUser, d.PostgresPassword),
			Host:   net.JoinHostPort(d.PostgresHost, d.PostgresPort),
			Path:   "/" + d.PostgresDB,
		}
		d.URL = u.String()
		return nil
	}
	return nil
}

func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported database driver: %s", c.Database.Driver)
	}
	if c.JWT.Secret == "" {
		return errors.New("JWT_SECRET must not be empty")
	}
	if c.IsProd() && c.JWT.Secret == defaultJWTSecret {
		return errors.New("JWT_SECRET must be set in prod")
	}
	if c.JWT.ExpireHours <= 0 {
		return fmt.Errorf("invalid JWT_EXPIRE_HOURS: %d", c.JWT.ExpireHours)
	}
	if c.Upload.MaxMB <= 0 {
		return fmt.Errorf("invalid MAX_UPLOAD_MB: %d", c.Upload.MaxMB)
	}
	if c.RateLimit.AuthRPS <= 0 || c.RateLimit.AuthBurst <= 0 {
		return errors.New("auth rate limit must be positive")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "dev")
	v.SetDefault("port", 8000)
	v.SetDefault("app_name", "JobAppTracker API")
	v.SetDefault("app_version", "0.1.0")

	v.SetDefault("database_driver", "postgres")
	v.SetDefault("database_url", "")
	v.SetDefault("postgres_user", "")
	v.SetDefault("postgres_password", "")
	v.SetDefault("postgres_host", "localhost")
	v.SetDefault("postgres_port", "5432")
	v.SetDefault("postgres_db", "")
	v.SetDefault("db_max_open_conns", 25)
	v.SetDefault("db_max_idle_conns", 5)
	v.SetDefault("db_conn_max_lifetime", "5m")
	v.SetDefault("db_slow_query_threshold", "200ms")
	// No default: unset means "migrate outside prod".
	_ = v.BindEnv("db_auto_migrate")

	v.SetDefault("jwt_secret", defaultJWTSecret)
	v.SetDefault("jwt_expire_hours", 24)

	v.SetDefault("upload_dir", "./uploads")
	v.SetDefault("max_upload_mb", 10)

	v.SetDefault("use_llm", false)
	v.SetDefault("gemini_api_key", "")
	v.SetDefault("llm_model", "gemini-2.5-flash")
	v.SetDefault("llm_timeout", "20s")

	v.SetDefault("cors_allow_origins", []string{"*"})

	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")
	v.SetDefault("log_file", "")
	v.SetDefault("log_max_size_mb", 100)
	v.SetDefault("log_max_backups", 10)
	v.SetDefault("log_max_age_days", 30)

	v.SetDefault("rate_limit_auth_rps", 1.0)
	v.SetDefault("rate_limit_auth_burst", 5)
}
