package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, key := range []string{"KYC_ADDR", "KYC_WEBHOOK_URL", "KYC_DRAFT_TTL", "KYC_KAFKA_BROKERS", "KYC_BLOB_DRIVER", "KYC_SESSION_KEY"} {
		t.Setenv(key, "")
	}

	cfg := FromEnv()

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, DefaultWebhookURL, cfg.Webhook.URL)
	assert.Equal(t, 2*time.Hour, cfg.DraftTTL)
	assert.Equal(t, "memory", cfg.Blob.Driver)
	assert.Empty(t, cfg.Audit.KafkaBrokers)
	assert.NotEmpty(t, cfg.SessionKey)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("KYC_ADDR", ":9090")
	t.Setenv("KYC_WEBHOOK_URL", "http://localhost:5678/webhook/test")
	t.Setenv("KYC_WEBHOOK_TIMEOUT", "5s")
	t.Setenv("KYC_DRAFT_TTL", "not-a-duration")
	t.Setenv("KYC_KAFKA_BROKERS", "kafka-1:9092, ,kafka-2:9092")
	t.Setenv("KYC_COOKIE_SECURE", "true")

	cfg := FromEnv()

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, "http://localhost:5678/webhook/test", cfg.Webhook.URL)
	assert.Equal(t, 5*time.Second, cfg.Webhook.Timeout)
	assert.Equal(t, 2*time.Hour, cfg.DraftTTL, "invalid durations fall back to the default")
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Audit.KafkaBrokers)
	assert.True(t, cfg.CookieSecure)
}
