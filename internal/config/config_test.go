package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"patrimon/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Port)
	assert.Equal(t, "localhost", cfg.DB.Host)
	assert.Equal(t, 4, cfg.Recon.Concurrency)
	assert.Equal(t, 120*time.Second, cfg.Recon.ScanTimeout)
	assert.Equal(t, 20, cfg.Recon.HeaderRows)
	assert.Equal(t, 20, cfg.Recon.HeaderCols)
	assert.Equal(t, int64(25), cfg.S3.MaxFileSizeMB)
	assert.NotEmpty(t, cfg.CORS.AllowedOrigins)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PATRIMON_RECON_CONCURRENCY", "8")
	t.Setenv("PATRIMON_DB_NAME", "patrimon_test")
	t.Setenv("PATRIMON_JWT_ACCESS_EXPIRY", "5m")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 8, cfg.Recon.Concurrency)
	assert.Equal(t, "patrimon_test", cfg.DB.Name)
	assert.Equal(t, 5*time.Minute, cfg.JWT.AccessTokenExpiry)
}

func TestDSN(t *testing.T) {
	db := config.DBConfig{
		Host: "db.internal", Port: 5433, User: "u", Password: "p",
		Name: "patrimon_db", SSLMode: "require",
	}
	assert.Equal(t, "postgres://u:p@db.internal:5433/patrimon_db?sslmode=require", db.DSN())
}

func TestLoad_PortFallback(t *testing.T) {
	t.Setenv("PORT", "9090")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Server.Port)
}
