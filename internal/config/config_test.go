package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ListenPort)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 15, cfg.JWT.AccessTTLMins)
	assert.Equal(t, 168, cfg.JWT.RefreshTTLHours)
	assert.Equal(t, 5, cfg.Inventory.DefaultMinQuantity)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("CLINIC_LISTEN_PORT", "9090")
	t.Setenv("CLINIC_LOG_LEVEL", "debug")
	t.Setenv("CLINIC_JWT_SECRET", "env-secret")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.ListenPort)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "env-secret", cfg.JWT.Secret)
}
