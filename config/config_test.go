package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFromDefaults(t *testing.T) {
	c, err := LoadFrom(filepath.Join(t.TempDir(), "missing.json"))
	require.NoError(t, err)

	assert.Equal(t, "8080", c.AppPort)
	assert.Equal(t, "mysql", c.DBDriver)
	assert.Equal(t, "", c.DBPort)
	assert.Equal(t, []string{"*"}, c.AllowedOrigins)
	assert.Equal(t, 60, c.RateLimitPerMinute)
	assert.Equal(t, 6379, c.RedisPort)
	assert.Equal(t, "info", c.LogLevel)
	assert.True(t, c.SanitizeHTML)
	assert.Empty(t, c.RedisHost)
}

func TestLoadFromYAML(t *testing.T) {
	path := writeFile(t, "config.yaml", `
app:
  AppPort: "9090"
  JWTSecret: from-file
  AllowedOrigins: ["https://blog.example.com"]
  SanitizeHTML: false
  RateLimitPerMinute: 10
database:
  Driver: postgres
  DBHost: db
  DBName: blog
redis:
  RedisHost: cache
log:
  Level: debug
  GinMode: debug
`)
	c, err := LoadFrom(path)
	require.NoError(t, err)

	assert.Equal(t, "9090", c.AppPort)
	assert.Equal(t, "from-file", c.JWTSecret)
	assert.Equal(t, []string{"https://blog.example.com"}, c.AllowedOrigins)
	assert.False(t, c.SanitizeHTML)
	assert.Equal(t, 10, c.RateLimitPerMinute)
	assert.Equal(t, "postgres", c.DBDriver)
	assert.Equal(t, "db", c.DBHost)
	assert.Equal(t, "blog", c.DBName)
	assert.Equal(t, "cache", c.RedisHost)
	assert.Equal(t, "debug", c.LogLevel)
	assert.Equal(t, "debug", c.GinMode)
}

func TestLoadFromJSON(t *testing.T) {
	path := writeFile(t, "config.json", `{
  "app": {"JWTSecret": "json-secret"},
  "database": {"Driver": "mysql", "DBPort": "3307"}
}`)
	c, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, "json-secret", c.JWTSecret)
	assert.Equal(t, "3307", c.DBPort)
	assert.True(t, c.SanitizeHTML)
}

func TestLoadFromInvalidFile(t *testing.T) {
	path := writeFile(t, "config.json", `{not json`)
	_, err := LoadFrom(path)
	assert.Error(t, err)
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeFile(t, "config.yaml", `
app:
  JWTSecret: from-file
database:
  Driver: mysql
`)
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("SANITIZE_HTML", "false")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "-1")
	t.Setenv("REDIS_PORT", "6380")

	c, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", c.JWTSecret)
	assert.Equal(t, "postgres", c.DBDriver)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, c.AllowedOrigins)
	assert.False(t, c.SanitizeHTML)
	assert.Equal(t, -1, c.RateLimitPerMinute)
	assert.Equal(t, 6380, c.RedisPort)
}

func TestConfigFileFromEnv(t *testing.T) {
	t.Setenv("CONFIG_FILE", "/etc/aiblog/config.yaml")
	assert.Equal(t, "/etc/aiblog/config.yaml", configFile())
}
