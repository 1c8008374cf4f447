package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testConfig struct {
	Base
	PriceMin float64 `envconfig:"PRICE_MIN" default:"0"`
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	os.Unsetenv("PORT")

	var cfg testConfig
	require.NoError(t, Load(zap.NewNop(), &cfg, filepath.Join(t.TempDir(), "missing.env")))
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 25, cfg.Pool.MaxOpenConns)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_EnvFile(t *testing.T) {
	t.Setenv("PRICE_MIN", "")
	os.Unsetenv("PRICE_MIN")
	t.Setenv("ENVIRONMENT", "production")

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("PRICE_MIN=40\nENVIRONMENT=staging\n"), 0o600))

	var cfg testConfig
	require.NoError(t, Load(zap.NewNop(), &cfg, path))
	assert.Equal(t, 40.0, cfg.PriceMin)
	// godotenv never overrides variables that are already set
	assert.Equal(t, "production", cfg.Environment)
	assert.True(t, cfg.IsProduction())
}

func TestMaskURL(t *testing.T) {
	assert.Equal(t, "postgres://app:xxxxx@db:5432/bnb", MaskURL("postgres://app:secret@db:5432/bnb"))
	assert.Equal(t, "postgres://app:xxxxx@db:5432/bnb?sslmode=disable", MaskURL("postgres://app:s%2Acret@db:5432/bnb?sslmode=disable"))
	assert.Equal(t, "postgres://app@db/bnb", MaskURL("postgres://app@db/bnb"))
	assert.Equal(t, "redis://cache:6379/0", MaskURL("redis://cache:6379/0"))
	assert.Equal(t, "", MaskURL(""))
}
