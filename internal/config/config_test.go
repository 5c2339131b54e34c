package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func baseEnv() map[string]string {
	return map[string]string{
		"DATABASE_URL": "postgres://localhost:5432/nextrade_test",
		"REDIS_URL":    "redis://localhost:6379/1",
		"JWT_SECRET":   "test-secret",
	}
}

func TestLoadForTestsAppliesOverrides(t *testing.T) {
	env := baseEnv()
	env["PRICING_TAX_RATE_BPS"] = "850"
	env["SHIPPING_FLAT_FEE"] = "599"
	env["SHIPPING_FREE_SUBTOTAL"] = "100000"

	cfg, err := LoadForTests(env)
	require.NoError(t, err)
	require.Equal(t, 850, cfg.TaxRateBPS)
	require.Equal(t, int64(599), cfg.ShippingFlatFee)
	require.Equal(t, int64(100000), cfg.ShippingFreeMinimum)
}

func TestLoadForTestsUsesDefaults(t *testing.T) {
	cfg, err := LoadForTests(baseEnv())
	require.NoError(t, err)
	require.Equal(t, "USD", cfg.CurrencyCode)
	require.Equal(t, "nextrade", cfg.JWTIssuer)
	require.Equal(t, 720*time.Hour, cfg.CartTTL)
	require.Equal(t, 20, cfg.CatalogDefaultLimit)
	require.Equal(t, ":8080", cfg.HTTPAddr())
}

func TestLoadForTestsRejectsNegativeTaxRate(t *testing.T) {
	env := baseEnv()
	env["PRICING_TAX_RATE_BPS"] = "-1"

	_, err := LoadForTests(env)
	require.Error(t, err)
	require.Contains(t, err.Error(), "PRICING_TAX_RATE_BPS")
}

func TestLoadForTestsRequiresJWTSecret(t *testing.T) {
	env := baseEnv()
	env["JWT_SECRET"] = ""

	_, err := LoadForTests(env)
	require.Error(t, err)
}
