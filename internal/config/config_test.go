package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const validYAML = `
app:
  name: weekboard
  version: 1.0.0
  environment: local
server:
  port: 8080
  read_timeout: 10
  write_timeout: 10
  idle_timeout: 60
  shutdown_timeout: 15
database:
  driver: sqlite
  path: weekboard.db
redis:
  host: localhost
  port: 6379
jwt:
  access_secret: test-access
  refresh_secret: test-refresh
  access_token_duration: 15
  refresh_token_duration: 10080
log:
  level: info
  format: json
analytics:
  cache_ttl: 60
  snapshot_minutes: 5
`

func TestLoad(t *testing.T) {
	path := writeConfig(t, validYAML)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "weekboard", cfg.App.Name)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, "weekboard.db", cfg.Database.Path)
	assert.Equal(t, 60, cfg.Analytics.CacheTTL)
	assert.Equal(t, 5, cfg.Analytics.SnapshotMinutes)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadInvalidYAML(t *testing.T) {
	path := writeConfig(t, "server: [not a map")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	path := writeConfig(t, validYAML)

	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("JWT_ACCESS_SECRET", "from-env")
	t.Setenv("RATE_LIMIT_ENABLED", "TRUE")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, "from-env", cfg.JWT.AccessSecret)
	assert.True(t, cfg.RateLimit.Enabled)
}

func TestValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(cfg *Config)
		wantErr string
	}{
		{
			"missing port",
			func(cfg *Config) { cfg.Server.Port = 0 },
			"server port",
		},
		{
			"unknown driver",
			func(cfg *Config) { cfg.Database.Driver = "oracle" },
			"unsupported database driver",
		},
		{
			"sqlite without path",
			func(cfg *Config) { cfg.Database.Path = "" },
			"database path",
		},
		{
			"postgres without host",
			func(cfg *Config) {
				cfg.Database.Driver = DriverPostgres
				cfg.Database.Host = ""
			},
			"database host",
		},
		{
			"missing access secret",
			func(cfg *Config) { cfg.JWT.AccessSecret = "" },
			"access secret",
		},
		{
			"bogus environment",
			func(cfg *Config) { cfg.App.Environment = "staging" },
			"invalid environment",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, validYAML)
			cfg, err := Load(path)
			require.NoError(t, err)

			tt.mutate(cfg)
			err = validate(cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
