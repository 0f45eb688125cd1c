package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv_Defaults(t *testing.T) {
	for _, key := range []string{"APP_ENV", "PORT", "DB_DSN", "MONGO_URI", "UPLOAD_DIR", "RATE_LIMIT_RPS", "CORS_ALLOWED_ORIGINS", "AUTO_MIGRATE"} {
		t.Setenv(key, "")
	}

	cfg := FromEnv()

	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, 5000, cfg.Server.Port)
	assert.Equal(t, ":5000", cfg.Addr())
	assert.Equal(t, defaultDSN, cfg.Database.DSN)
	assert.Equal(t, "books", cfg.Database.Name)
	assert.Equal(t, "uploads", cfg.Upload.Dir)
	assert.Equal(t, int64(5<<20), cfg.Upload.MaxBytes)
	assert.Equal(t, []string{"*"}, cfg.Server.CORSAllowedOrigins)
	assert.Zero(t, cfg.Server.RateLimitRPS)
	assert.False(t, cfg.Database.AutoMigrate)
	assert.False(t, cfg.IsTest())
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("APP_ENV", "test")
	t.Setenv("PORT", "8081")
	t.Setenv("DB_DSN", "")
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("DB_TIMEOUT", "3")
	t.Setenv("READ_TIMEOUT", "250ms")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test, http://b.test ,")
	t.Setenv("RATE_LIMIT_RPS", "2.5")
	t.Setenv("AUTO_MIGRATE", "true")
	t.Setenv("MAX_UPLOAD_BYTES", "1024")

	cfg := FromEnv()

	assert.True(t, cfg.IsTest())
	assert.Equal(t, ":8081", cfg.Addr())
	assert.Equal(t, "mongodb://localhost:27017", cfg.Database.DSN)
	assert.Equal(t, 3*time.Second, cfg.Database.Timeout)
	assert.Equal(t, 250*time.Millisecond, cfg.Server.ReadTimeout)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.Server.CORSAllowedOrigins)
	assert.Equal(t, 2.5, cfg.Server.RateLimitRPS)
	assert.True(t, cfg.Database.AutoMigrate)
	assert.Equal(t, int64(1024), cfg.Upload.MaxBytes)
}

func TestFromEnv_DBDSNWinsOverMongoURI(t *testing.T) {
	t.Setenv("DB_DSN", "postgres://u:p@db/books")
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")

	assert.Equal(t, "postgres://u:p@db/books", FromEnv().Database.DSN)
}

func TestFromEnv_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("PORT", "not-a-port")
	t.Setenv("DB_TIMEOUT", "soon")
	t.Setenv("AUTO_MIGRATE", "maybe")

	cfg := FromEnv()

	assert.Equal(t, 5000, cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Database.Timeout)
	assert.False(t, cfg.Database.AutoMigrate)
}

func TestLoadEnvFiles_DoesNotOverrideExistingEnv(t *testing.T) {
	tmp := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmp, ".env"), []byte("DB_DSN=from_file\nDB_NAME=from_file\n"), 0o644))

	t.Setenv("DB_DSN", "from_env")
	t.Setenv("DB_NAME", "")
	require.NoError(t, os.Unsetenv("DB_NAME"))

	cwd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(tmp))
	t.Cleanup(func() { _ = os.Chdir(cwd) })

	LoadEnvFiles()

	assert.Equal(t, "from_env", os.Getenv("DB_DSN"))
	assert.Equal(t, "from_file", os.Getenv("DB_NAME"))
}
