package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("MUX_TOKEN_ID", "id")
	t.Setenv("MUX_TOKEN_SECRET", "secret")
	t.Setenv("JWT_SECRET", "jwt")
	t.Setenv(ConfigPathEnvVar, "")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 20, cfg.Gateway.Capacity)
	assert.Equal(t, time.Second, cfg.Gateway.Interval)
	assert.Equal(t, 0, cfg.Gateway.MaxPending)
	assert.Equal(t, "memory", cfg.Gateway.Backend)
	assert.Equal(t, ":8080", cfg.Server.Addr)
}

func TestLoad_FileThenEnv(t *testing.T) {
	setRequired(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
gateway:
  capacity: 10
  interval: 2s
server:
  addr: ":9090"
  cors_origins: ["https://a.example.com"]
`), 0o600))

	t.Setenv("GATEWAY_CAPACITY", "15")
	t.Setenv("GATEWAY_MAX_PENDING", "100")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 15, cfg.Gateway.Capacity, "env wins over file")
	assert.Equal(t, 2*time.Second, cfg.Gateway.Interval)
	assert.Equal(t, 100, cfg.Gateway.MaxPending)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, []string{"https://a.example.com"}, cfg.Server.CORSOrigins)
}

func TestLoad_CORSFromEnvList(t *testing.T) {
	setRequired(t)
	t.Chdir(t.TempDir())
	t.Setenv("CORS_ORIGINS", "https://a.example.com, https://b.example.com")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.Server.CORSOrigins)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		c := defaultConfig()
		c.Mux.TokenID, c.Mux.TokenSecret = "id", "secret"
		c.Auth.JWTSecret = "jwt"
		return c
	}
	require.NoError(t, valid().Validate())

	cases := map[string]func(c *Config){
		"zero capacity":        func(c *Config) { c.Gateway.Capacity = 0 },
		"zero interval":        func(c *Config) { c.Gateway.Interval = 0 },
		"negative max pending": func(c *Config) { c.Gateway.MaxPending = -1 },
		"unknown backend":      func(c *Config) { c.Gateway.Backend = "etcd" },
		"redis without addr":   func(c *Config) { c.Gateway.Backend = "redis" },
		"stats without addr":   func(c *Config) { c.Redis.StatsEnabled = true },
		"unknown stats bucket": func(c *Config) { c.Redis.StatsBucket = "hour" },
		"missing mux token":    func(c *Config) { c.Mux.TokenSecret = "" },
		"bad mux url":          func(c *Config) { c.Mux.BaseURL = "not a url" },
		"missing jwt secret":   func(c *Config) { c.Auth.JWTSecret = "" },
		"inbound zero rps":     func(c *Config) { c.Inbound.RPS = 0 },
		"negative concurrency": func(c *Config) { c.Inbound.ConcurrencyMax = -1 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			c := valid()
			mutate(c)
			assert.Error(t, c.Validate())
		})
	}
}

func TestEnvTransformFunc_IgnoresUnknown(t *testing.T) {
	assert.Equal(t, "", envTransformFunc("PATH"))
	assert.Equal(t, "gateway.capacity", envTransformFunc("GATEWAY_CAPACITY"))
}

func TestLoadDatabase_SkipsServiceValidation(t *testing.T) {
	t.Setenv(ConfigPathEnvVar, "")
	t.Setenv("DATABASE_URL", "")
	t.Chdir(t.TempDir())

	_, err := LoadDatabase("")
	require.Error(t, err)

	t.Setenv("DATABASE_URL", "postgres://u:p@localhost:5432/videoadmin")
	db, err := LoadDatabase("")
	require.NoError(t, err)
	assert.Equal(t, "postgres://u:p@localhost:5432/videoadmin", db.URL)
	assert.True(t, db.AutoMigrate)
}
