package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name     string
		envVars  map[string]string
		validate func(t *testing.T, cfg *Config)
	}{
		{
			name:    "load default configuration",
			envVars: map[string]string{},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "0.0.0.0", cfg.ServerHost)
				assert.Equal(t, 8080, cfg.ServerPort)
				assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
				assert.Equal(t, "postgres", cfg.DBDriver)
				assert.Equal(t, 25, cfg.DBMaxOpenConnections)
				assert.Equal(t, 5*time.Minute, cfg.DBConnMaxLifetime)
				assert.Equal(t, "info", cfg.LogLevel)
				assert.Equal(t, "webhooks", cfg.MetricsNamespace)
				assert.Empty(t, cfg.AdminTokenHash)
				assert.Empty(t, cfg.WebhookStripeSecret)
				assert.Equal(t, 5*time.Minute, cfg.WebhookSignatureTolerance)
				assert.Equal(t, 10*time.Second, cfg.WebhookProcessingTimeout)
				assert.Equal(t, int64(1<<20), cfg.WebhookMaxBodyBytes)
				assert.True(t, cfg.RateLimitWebhookEnabled)
				assert.True(t, cfg.OutboundEnabled)
				assert.Equal(t, 8, cfg.OutboundConcurrency)
				assert.Equal(t, 10*time.Second, cfg.OutboundTimeout)
				assert.Equal(t, int64(64<<10), cfg.OutboundMaxResponseBytes)
			},
		},
		{
			name: "load custom database configuration",
			envVars: map[string]string{
				"DB_DRIVER":               "mysql",
				"DB_CONNECTION_STRING":    "user:password@tcp(localhost:3306)/testdb",
				"DB_MAX_OPEN_CONNECTIONS": "50",
				"DB_CONN_MAX_LIFETIME":    "10",
			},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "mysql", cfg.DBDriver)
				assert.Equal(t, "user:password@tcp(localhost:3306)/testdb", cfg.DBConnectionString)
				assert.Equal(t, 50, cfg.DBMaxOpenConnections)
				assert.Equal(t, 10*time.Minute, cfg.DBConnMaxLifetime)
			},
		},
		{
			name: "load custom webhook configuration",
			envVars: map[string]string{
				"WEBHOOK_STRIPE_SECRET":               "whsec_test",
				"WEBHOOK_SIGNATURE_TOLERANCE_SECONDS": "60",
				"WEBHOOK_PROCESSING_TIMEOUT_SECONDS":  "3",
				"WEBHOOK_MAX_BODY_BYTES":              "2048",
				"RATE_LIMIT_WEBHOOK_ENABLED":          "false",
				"RATE_LIMIT_WEBHOOK_REQUESTS_PER_SEC": "2.5",
				"RATE_LIMIT_WEBHOOK_BURST":            "4",
			},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "whsec_test", cfg.WebhookStripeSecret)
				assert.Equal(t, time.Minute, cfg.WebhookSignatureTolerance)
				assert.Equal(t, 3*time.Second, cfg.WebhookProcessingTimeout)
				assert.Equal(t, int64(2048), cfg.WebhookMaxBodyBytes)
				assert.False(t, cfg.RateLimitWebhookEnabled)
				assert.Equal(t, 2.5, cfg.RateLimitWebhookRequestsPerSec)
				assert.Equal(t, 4, cfg.RateLimitWebhookBurst)
			},
		},
		{
			name: "load custom outbound configuration",
			envVars: map[string]string{
				"OUTBOUND_ENABLED":             "false",
				"OUTBOUND_CONCURRENCY":         "2",
				"OUTBOUND_TIMEOUT_SECONDS":     "1",
				"OUTBOUND_MAX_RESPONSE_BYTES":  "512",
				"SUBSCRIPTION_SECRETS_KEY_URI": "base64key://smGbjm71Nxd1Ig5FS0wj9SlbzAIrnolCz9bQQ6uAhl4=",
			},
			validate: func(t *testing.T, cfg *Config) {
				assert.False(t, cfg.OutboundEnabled)
				assert.Equal(t, 2, cfg.OutboundConcurrency)
				assert.Equal(t, time.Second, cfg.OutboundTimeout)
				assert.Equal(t, int64(512), cfg.OutboundMaxResponseBytes)
				assert.Equal(
					t,
					"base64key://smGbjm71Nxd1Ig5FS0wj9SlbzAIrnolCz9bQQ6uAhl4=",
					cfg.SubscriptionSecretsKeyURI,
				)
			},
		},
		{
			name: "load custom log level",
			envVars: map[string]string{
				"LOG_LEVEL": "debug",
			},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "debug", cfg.LogLevel)
				assert.Equal(t, "debug", cfg.GetGinMode())
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Clearenv()

			for key, value := range tt.envVars {
				err := os.Setenv(key, value)
				require.NoError(t, err)
			}

			cfg := Load()

			tt.validate(t, cfg)
		})
	}
}

func TestGetGinMode(t *testing.T) {
	for _, level := range []string{"info", "warn", "error", "unknown"} {
		cfg := &Config{LogLevel: level}
		assert.Equal(t, "release", cfg.GetGinMode(), level)
	}
}
