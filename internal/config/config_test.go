package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"CONFIG_FILE", "PORT", "DATABASE_PATH", "JWT_SECRET", "LOG_LEVEL", "APP_ENV",
		"ACCESS_TOKEN_TTL", "REFRESH_TOKEN_TTL", "ALLOWED_ORIGINS", "CREATE_SUPERUSER",
		"SUPERUSER_USERNAME", "SUPERUSER_EMAIL", "SUPERUSER_PASSWORD",
	} {
		if v, ok := os.LookupEnv(key); ok {
			os.Unsetenv(key)
			t.Cleanup(func() { os.Setenv(key, v) })
		}
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, "./devcheck.db", cfg.DatabasePath)
	assert.Equal(t, 30*time.Minute, cfg.AccessTokenTTL)
	assert.Equal(t, devJWTSecret, cfg.JWTSecret)
	assert.False(t, cfg.Superuser.Create)
	assert.Equal(t, "admin", cfg.Superuser.Username)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "devcheck.yaml")
	content := `
port: 9000
database_path: /tmp/from-file.db
access_token_ttl: 5m
allowed_origins: ["https://devcheck.example"]
superuser:
  create: true
  username: root
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("DATABASE_PATH", "/tmp/from-env.db")
	t.Setenv("JWT_SECRET", "s3cret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.ServerPort)
	assert.Equal(t, "/tmp/from-env.db", cfg.DatabasePath)
	assert.Equal(t, 5*time.Minute, cfg.AccessTokenTTL)
	assert.Equal(t, []string{"https://devcheck.example"}, cfg.AllowedOrigins)
	assert.True(t, cfg.Superuser.Create)
	assert.Equal(t, "root", cfg.Superuser.Username)
	assert.Equal(t, "s3cret", cfg.JWTSecret)
}

func TestLoad_CreateSuperuserFlag(t *testing.T) {
	clearEnv(t)

	t.Setenv("CREATE_SUPERUSER", "True")
	t.Setenv("SUPERUSER_PASSWORD", "StrongPassword123")
	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.Superuser.Create)
	assert.Equal(t, "StrongPassword123", cfg.Superuser.Password)

	t.Setenv("CREATE_SUPERUSER", "true")
	cfg, err = Load()
	require.NoError(t, err)
	assert.False(t, cfg.Superuser.Create, "only the exact value True enables the bootstrap")
}

func TestLoad_ProductionRequiresSecret(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_ENV", "production")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_InvalidValues(t *testing.T) {
	clearEnv(t)

	t.Setenv("PORT", "eighty")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("PORT", "8080")
	t.Setenv("ACCESS_TOKEN_TTL", "forever")
	_, err = Load()
	assert.Error(t, err)
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, splitList(" a, ,b ,"))
	assert.Nil(t, splitList(""))
}
