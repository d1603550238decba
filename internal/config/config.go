// Package config loads server settings from defaults, an optional YAML
// file and the environment, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/msomdec/bookshelf/internal/domain"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	minSecretLength = 32
	minBcryptCost   = 4
	maxBcryptCost   = 14
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Bcrypt   BcryptConfig   `mapstructure:"bcrypt"`
	Log      LogConfig      `mapstructure:"log"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf(":%d", s.Port)
}

// DatabaseConfig selects and locates the store.
type DatabaseConfig struct {
	Driver string `mapstructure:"driver"`
	Path   string `mapstructure:"path"`
	DSN    string `mapstructure:"dsn"`
}

// JWTConfig holds token signing settings.
type JWTConfig struct {
	Secret          string        `mapstructure:"secret"`
	AccessTokenTTL  time.Duration `mapstructure:"access_token_ttl"`
	RefreshTokenTTL time.Duration `mapstructure:"refresh_token_ttl"`
}

// BcryptConfig holds password hashing settings.
type BcryptConfig struct {
	Cost int `mapstructure:"cost"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration. path may be empty, in which case only defaults
// and environment variables apply. The result is validated.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if errors.As(err, &notFound) {
				return nil, fmt.Errorf("%w: config file %s not found", domain.ErrConfiguration, path)
			}
			return nil, fmt.Errorf("%w: read config file: %v", domain.ErrConfiguration, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("%w: decode config: %v", domain.ErrConfiguration, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)

	v.SetDefault("database.driver", DriverSQLite)
	v.SetDefault("database.path", "bookshelf.db")
	v.SetDefault("database.dsn", "")

	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.access_token_ttl", "15m")
	v.SetDefault("jwt.refresh_token_ttl", "168h") // 7 days

	v.SetDefault("bcrypt.cost", 12)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// Validate reports the first invalid setting as a domain.ErrConfiguration.
func (c *Config) Validate() error {
	switch {
	case c.JWT.Secret == "":
		return fmt.Errorf("%w: JWT_SECRET is required", domain.ErrConfiguration)
	case len(c.JWT.Secret) < minSecretLength:
		return fmt.Errorf("%w: JWT_SECRET must be at least %d characters for HMAC-SHA256 security", domain.ErrConfiguration, minSecretLength)
	case c.JWT.AccessTokenTTL <= 0 || c.JWT.RefreshTokenTTL <= 0:
		return fmt.Errorf("%w: token TTLs must be positive", domain.ErrConfiguration)
	case c.Bcrypt.Cost < minBcryptCost || c.Bcrypt.Cost > maxBcryptCost:
		return fmt.Errorf("%w: BCRYPT_COST must be between %d and %d", domain.ErrConfiguration, minBcryptCost, maxBcryptCost)
	case c.Server.Port <= 0 || c.Server.Port > 65535:
		return fmt.Errorf("%w: invalid server port %d", domain.ErrConfiguration, c.Server.Port)
	}

	switch c.Database.Driver {
	case DriverSQLite:
		if c.Database.Path == "" {
			return fmt.Errorf("%w: DATABASE_PATH is required for sqlite", domain.ErrConfiguration)
		}
	case DriverPostgres:
		if c.Database.DSN == "" {
			return fmt.Errorf("%w: DATABASE_DSN is required for postgres", domain.ErrConfiguration)
		}
	default:
		return fmt.Errorf("%w: unknown database driver %q", domain.ErrConfiguration, c.Database.Driver)
	}

	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("%w: unknown log format %q", domain.ErrConfiguration, c.Log.Format)
	}
	return nil
}
