package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/msomdec/bookshelf/internal/config"
	"github.com/msomdec/bookshelf/internal/domain"
)

const secret = "0123456789abcdef0123456789abcdef"

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", secret)

	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, ":8080", cfg.Server.Addr())
	assert.Equal(t, config.DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, "bookshelf.db", cfg.Database.Path)
	assert.Equal(t, 15*time.Minute, cfg.JWT.AccessTokenTTL)
	assert.Equal(t, 7*24*time.Hour, cfg.JWT.RefreshTokenTTL)
	assert.Equal(t, 12, cfg.Bcrypt.Cost)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("JWT_SECRET", secret)
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("DATABASE_DRIVER", "postgres")
	t.Setenv("DATABASE_DSN", "postgres://localhost/bookshelf")
	t.Setenv("BCRYPT_COST", "4")
	t.Setenv("JWT_ACCESS_TOKEN_TTL", "5m")
	t.Setenv("LOG_FORMAT", "json")

	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, config.DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, "postgres://localhost/bookshelf", cfg.Database.DSN)
	assert.Equal(t, 4, cfg.Bcrypt.Cost)
	assert.Equal(t, 5*time.Minute, cfg.JWT.AccessTokenTTL)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bookshelf.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 7070
jwt:
  secret: `+secret+`
bcrypt:
  cost: 6
`), 0o600))
	t.Setenv("BCRYPT_COST", "5")

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, secret, cfg.JWT.Secret)
	// Environment wins over the file.
	assert.Equal(t, 5, cfg.Bcrypt.Cost)
}

func TestLoad_MissingFile(t *testing.T) {
	t.Setenv("JWT_SECRET", secret)
	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, domain.ErrConfiguration)
}

func TestLoad_MissingSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	_, err := config.Load("")
	assert.ErrorIs(t, err, domain.ErrConfiguration)
}

func TestValidate(t *testing.T) {
	valid := func() config.Config {
		return config.Config{
			Server:   config.ServerConfig{Port: 8080},
			Database: config.DatabaseConfig{Driver: config.DriverSQLite, Path: "x.db"},
			JWT:      config.JWTConfig{Secret: secret, AccessTokenTTL: time.Minute, RefreshTokenTTL: time.Hour},
			Bcrypt:   config.BcryptConfig{Cost: 10},
			Log:      config.LogConfig{Level: "info", Format: "text"},
		}
	}

	base := valid()
	require.NoError(t, base.Validate())

	tests := []struct {
		name   string
		mutate func(c *config.Config)
	}{
		{"empty secret", func(c *config.Config) { c.JWT.Secret = "" }},
		{"short secret", func(c *config.Config) { c.JWT.Secret = "short" }},
		{"cost too low", func(c *config.Config) { c.Bcrypt.Cost = 3 }},
		{"cost too high", func(c *config.Config) { c.Bcrypt.Cost = 15 }},
		{"unknown driver", func(c *config.Config) { c.Database.Driver = "mysql" }},
		{"postgres without dsn", func(c *config.Config) { c.Database.Driver = config.DriverPostgres }},
		{"sqlite without path", func(c *config.Config) { c.Database.Path = "" }},
		{"zero access ttl", func(c *config.Config) { c.JWT.AccessTokenTTL = 0 }},
		{"negative refresh ttl", func(c *config.Config) { c.JWT.RefreshTokenTTL = -time.Second }},
		{"bad port", func(c *config.Config) { c.Server.Port = 0 }},
		{"bad log format", func(c *config.Config) { c.Log.Format = "xml" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(&c)
			assert.ErrorIs(t, c.Validate(), domain.ErrConfiguration)
		})
	}
}
