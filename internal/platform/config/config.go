package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// DefaultWebhookURL is the intake endpoint the form posts to.
const DefaultWebhookURL = "https://n8n.srv920835.hstgr.cloud/webhook/OGUNINVEST-KYC"

// Server captures process level configuration.
type Server struct {
	Addr           string
	LogLevel       string
	LogFormat      string
	SessionKey     string
	CookieSecure   bool
	DraftTTL       time.Duration
	MaxUploadBytes int64
	ReferenceFile  string

	Webhook WebhookConfig
	Redis   RedisConfig
	Audit   AuditConfig
	Blob    BlobConfig
}

// WebhookConfig configures the outbound submission client.
type WebhookConfig struct {
	URL     string
	Timeout time.Duration
}

// RedisConfig configures the optional Redis draft store.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// AuditConfig selects where submission outcome events go. Empty DSN and
// brokers mean log-only.
type AuditConfig struct {
	PostgresDSN  string
	KafkaBrokers []string
	KafkaTopic   string
}

// BlobConfig selects the attachment store.
type BlobConfig struct {
	Driver      string
	S3Bucket    string
	S3Region    string
	S3Endpoint  string
	S3PathStyle bool
	S3Prefix    string
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	sessionKey := os.Getenv("KYC_SESSION_KEY")
	if sessionKey == "" {
		// Development default; production deployments must override it.
		sessionKey = "dev-session-key-change-in-production"
	}

	return Server{
		Addr:           envOr("KYC_ADDR", ":8080"),
		LogLevel:       envOr("KYC_LOG_LEVEL", "info"),
		LogFormat:      envOr("KYC_LOG_FORMAT", "json"),
		SessionKey:     sessionKey,
		CookieSecure:   os.Getenv("KYC_COOKIE_SECURE") == "true",
		DraftTTL:       envDuration("KYC_DRAFT_TTL", 2*time.Hour),
		MaxUploadBytes: envInt64("KYC_MAX_UPLOAD_BYTES", 20<<20),
		ReferenceFile:  os.Getenv("KYC_REFERENCE_FILE"),
		Webhook: WebhookConfig{
			URL:     envOr("KYC_WEBHOOK_URL", DefaultWebhookURL),
			Timeout: envDuration("KYC_WEBHOOK_TIMEOUT", 30*time.Second),
		},
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     int(envInt64("REDIS_POOL_SIZE", 10)),
			MinIdleConns: int(envInt64("REDIS_MIN_IDLE_CONNS", 2)),
			DialTimeout:  envDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Audit: AuditConfig{
			PostgresDSN:  os.Getenv("KYC_AUDIT_DSN"),
			KafkaBrokers: envList("KYC_KAFKA_BROKERS"),
			KafkaTopic:   envOr("KYC_KAFKA_TOPIC", "kyc.submissions"),
		},
		Blob: BlobConfig{
			Driver:      envOr("KYC_BLOB_DRIVER", "memory"),
			S3Bucket:    os.Getenv("KYC_BLOB_S3_BUCKET"),
			S3Region:    os.Getenv("KYC_BLOB_S3_REGION"),
			S3Endpoint:  os.Getenv("KYC_BLOB_S3_ENDPOINT"),
			S3PathStyle: strings.EqualFold(os.Getenv("KYC_BLOB_S3_PATH_STYLE"), "true"),
			S3Prefix:    envOr("KYC_BLOB_S3_PREFIX", "attachments/"),
		},
	}
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func envInt64(key string, fallback int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func envList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
