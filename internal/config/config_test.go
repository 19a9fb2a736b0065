package config_test

import (
	"os"
	"testing"
	"time"

	"products/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir changes the working directory for the duration of the test.
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.App.Port)
	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, 10*time.Second, cfg.App.ShutdownTimeout)
	assert.Equal(t, config.DriverMemory, cfg.Store.Driver)
	assert.Equal(t, "products", cfg.RabbitMQ.Exchange)
	assert.Empty(t, cfg.RabbitMQ.URL)
	assert.Empty(t, cfg.Auth.JWTSecret)
	assert.False(t, cfg.App.SeedDemoData)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("APP_PORT", ":9090")
	t.Setenv("STORE_DRIVER", "sqlite")
	t.Setenv("DATABASE_DSN", "file::memory:")
	t.Setenv("SEED_DEMO_DATA", "true")
	t.Setenv("JWT_SECRET", "s3cret")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.App.Port)
	assert.Equal(t, config.DriverSQLite, cfg.Store.Driver)
	assert.Equal(t, "file::memory:", cfg.Store.DSN)
	assert.True(t, cfg.App.SeedDemoData)
	assert.Equal(t, "s3cret", cfg.Auth.JWTSecret)
}

func TestLoad_RejectsInvalidStore(t *testing.T) {
	chdir(t, t.TempDir())

	t.Setenv("STORE_DRIVER", "mongo")
	_, err := config.Load()
	assert.ErrorContains(t, err, "unknown store driver")

	t.Setenv("STORE_DRIVER", "pgx")
	_, err = config.Load()
	assert.ErrorContains(t, err, "DATABASE_DSN is required")
}
