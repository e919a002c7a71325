package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "")
		t.Setenv("RABBITMQ_URL", "")
		t.Setenv("REGISTRY_PLATFORM_FEE_BPS", "")
		t.Setenv("REGISTRY_ENFORCE_EVENT_END", "")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, defaultDatabaseURL, cfg.DatabaseURL)
		assert.Equal(t, defaultAMQPURL, cfg.AMQPURL)
		assert.Zero(t, cfg.PlatformFeeBps)
		assert.False(t, cfg.EnforceEventEnd)
	})

	t.Run("environment overrides", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "postgres://other:other@db:5432/other")
		t.Setenv("RABBITMQ_URL", "amqp://broker:5672/")
		t.Setenv("REGISTRY_PLATFORM_FEE_BPS", "2500")
		t.Setenv("REGISTRY_ENFORCE_EVENT_END", "true")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "postgres://other:other@db:5432/other", cfg.DatabaseURL)
		assert.Equal(t, "amqp://broker:5672/", cfg.AMQPURL)
		assert.Equal(t, 2500, cfg.PlatformFeeBps)
		assert.True(t, cfg.EnforceEventEnd)
	})

	t.Run("invalid fee", func(t *testing.T) {
		t.Setenv("REGISTRY_PLATFORM_FEE_BPS", "ten")

		_, err := Load()
		assert.ErrorContains(t, err, "REGISTRY_PLATFORM_FEE_BPS")
	})

	t.Run("invalid cutoff flag", func(t *testing.T) {
		t.Setenv("REGISTRY_PLATFORM_FEE_BPS", "")
		t.Setenv("REGISTRY_ENFORCE_EVENT_END", "maybe")

		_, err := Load()
		assert.ErrorContains(t, err, "REGISTRY_ENFORCE_EVENT_END")
	})
}
