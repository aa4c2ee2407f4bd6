package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "caffeineCart", cfg.Cart.StorageKey)
	assert.Equal(t, 15*time.Minute, cfg.Cart.ReceiptTTL)
	assert.Equal(t, 30*time.Minute, cfg.Cart.SessionIdleTTL)
	assert.Equal(t, 30*time.Second, cfg.Orders.Timeout)
	assert.Equal(t, "http://localhost:3000", cfg.Orders.BaseURL)
	assert.Equal(t, StorageSQLite, cfg.Storage.Driver)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("ORDER_API_URL", "https://orders.example.com")
	t.Setenv("ORDER_API_TIMEOUT", "5s")
	t.Setenv("STORAGE_DRIVER", "redis")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("CART_STORAGE_KEY", "myCart")
	t.Setenv("SESSION_IDLE_TTL", "5m")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://orders.example.com", cfg.Orders.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.Orders.Timeout)
	assert.Equal(t, StorageRedis, cfg.Storage.Driver)
	assert.Equal(t, 3, cfg.Storage.Redis.DB)
	assert.Equal(t, "myCart", cfg.Cart.StorageKey)
	assert.Equal(t, 5*time.Minute, cfg.Cart.SessionIdleTTL)
}

func TestLoad_UnknownDriver(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "localstorage")

	_, err := Load()
	require.ErrorContains(t, err, "unknown STORAGE_DRIVER")
}

func TestLoad_BadTimeout(t *testing.T) {
	t.Setenv("ORDER_API_TIMEOUT", "soon")

	_, err := Load()
	require.ErrorContains(t, err, "ORDER_API_TIMEOUT")
}

func TestLoad_BadSessionIdleTTL(t *testing.T) {
	for _, v := range []string{"later", "0s", "-1m"} {
		t.Setenv("SESSION_IDLE_TTL", v)

		_, err := Load()
		require.ErrorContains(t, err, "SESSION_IDLE_TTL", v)
	}
}
