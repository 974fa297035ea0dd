package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"govitrine/config"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "postgres://localhost/govitrine")
	t.Setenv("JWT_SECRET_KEY", "segredo")
}

func TestLoadConfig_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := config.LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 5*time.Second, cfg.DBTimeout)
	assert.Equal(t, time.Minute, cfg.CatalogSnapshotTTL)
	assert.Equal(t, 12, cfg.CatalogPageSize)
	assert.Equal(t, 72*time.Hour, cfg.CartSessionTTL)
	assert.Equal(t, "pt-BR", cfg.CatalogLocale)
}

func TestLoadConfig_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("CATALOG_PAGE_SIZE", "24")
	t.Setenv("RATE_LIMIT_PERIOD_MIN", "2")
	t.Setenv("LOW_STOCK_THRESHOLD", "3")

	cfg, err := config.LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, 24, cfg.CatalogPageSize)
	assert.Equal(t, 2*time.Minute, cfg.RateLimitPeriod)
	assert.Equal(t, 3, cfg.LowStockThreshold)
}

func TestLoadConfig_ReportsAllProblems(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_SECRET_KEY", "")
	t.Setenv("CATALOG_PAGE_SIZE", "doze")

	_, err := config.LoadConfig()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
	assert.Contains(t, err.Error(), "JWT_SECRET_KEY")
	assert.Contains(t, err.Error(), "CATALOG_PAGE_SIZE")
}

func TestLoadConfig_MaxPageSizeBelowDefault(t *testing.T) {
	setRequired(t)
	t.Setenv("CATALOG_PAGE_SIZE", "50")
	t.Setenv("CATALOG_MAX_PAGE_SIZE", "10")

	_, err := config.LoadConfig()

	assert.Error(t, err)
}
