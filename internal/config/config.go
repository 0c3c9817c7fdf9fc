package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config aggregates runtime configuration for the Nuvoryx API.
type Config struct {
	Server   ServerConfig
	Postgres PostgresConfig
	Blob     BlobConfig
	MinIO    MinIOConfig
	Auth     AuthConfig
	Mail     MailConfig
	Metrics  MetricsConfig
}

// ServerConfig parameterizes the HTTP server.
type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	MaxUploadMB  int64
}

// Address returns the listen address in host:port form.
func (s ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// PostgresConfig contains PostgreSQL connection details.
type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

// DSN returns the PostgreSQL DSN string.
func (p PostgresConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		p.User, p.Password, p.Host, p.Port, p.Database, p.SSLMode)
}

// BlobConfig selects and parameterizes the physical blob backend.
type BlobConfig struct {
	// Backend is "disk" or "minio".
	Backend string
	// Root is the upload directory for the disk backend.
	Root string
}

// MinIOConfig carries MinIO connection and bucket information.
type MinIOConfig struct {
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	UseSSL          bool
	Region          string
}

// AuthConfig groups authentication settings.
type AuthConfig struct {
	AccessTokenSecret  string
	AccessTokenTTL     time.Duration
	ConfirmTokenSecret string
	ConfirmTokenTTL    time.Duration
	ConfirmBaseURL     string
	BcryptCost         int
}

// MailConfig groups SMTP settings. An empty Host disables delivery.
type MailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	Sender   string
}

// MetricsConfig groups observability settings.
type MetricsConfig struct {
	PrometheusPath string
}

// Load reads configuration from environment variables, applying defaults.
func Load() (Config, error) {
	cfg := Config{
		Server: ServerConfig{
			Host:         getString("NUVORYX_API_HOST", "0.0.0.0"),
			Port:         getInt("NUVORYX_API_PORT", 8080),
			ReadTimeout:  getDuration("NUVORYX_API_READ_TIMEOUT", 15*time.Second),
			WriteTimeout: getDuration("NUVORYX_API_WRITE_TIMEOUT", 60*time.Second),
			IdleTimeout:  getDuration("NUVORYX_API_IDLE_TIMEOUT", 60*time.Second),
			MaxUploadMB:  int64(getInt("NUVORYX_MAX_UPLOAD_MB", 500)),
		},
		Postgres: PostgresConfig{
			Host:     getString("POSTGRES_HOST", "localhost"),
			Port:     getInt("POSTGRES_PORT", 5432),
			User:     getString("POSTGRES_USER", "nuvoryx_app"),
			Password: getString("POSTGRES_PASSWORD", "change-me"),
			Database: getString("POSTGRES_DB", "nuvoryx"),
			SSLMode:  strings.ToLower(getString("POSTGRES_SSL_MODE", "disable")),
		},
		Blob: BlobConfig{
			Backend: strings.ToLower(getString("NUVORYX_BLOB_BACKEND", "disk")),
			Root:    getString("NUVORYX_UPLOAD_DIR", "./uploads"),
		},
		MinIO: MinIOConfig{
			Endpoint:        getString("MINIO_ENDPOINT", "localhost:9000"),
			AccessKeyID:     getString("MINIO_ROOT_USER", "nuvoryx"),
			SecretAccessKey: getString("MINIO_ROOT_PASSWORD", "change-me-strong-password"),
			Bucket:          getString("MINIO_BUCKET", "nuvoryx"),
			UseSSL:          getBool("MINIO_USE_SSL", false),
			Region:          getString("MINIO_REGION", ""),
		},
		Auth:    loadAuthConfig(),
		Mail:    loadMailConfig(),
		Metrics: MetricsConfig{PrometheusPath: getString("NUVORYX_METRICS_PATH", "/metrics")},
	}

	if cfg.Blob.Backend != "disk" && cfg.Blob.Backend != "minio" {
		return Config{}, fmt.Errorf("unknown blob backend %q", cfg.Blob.Backend)
	}
	return cfg, nil
}

func loadAuthConfig() AuthConfig {
	cost := getInt("NUVORYX_AUTH_BCRYPT_COST", 12)
	if cost < 4 || cost > 31 {
		cost = 12
	}

	return AuthConfig{
		AccessTokenSecret:  getString("NUVORYX_JWT_SECRET", "change-me-to-a-32-byte-secret"),
		AccessTokenTTL:     getDuration("NUVORYX_AUTH_ACCESS_TOKEN_TTL", 12*time.Hour),
		ConfirmTokenSecret: getString("NUVORYX_CONFIRM_SECRET", "change-me-confirmation-secret"),
		ConfirmTokenTTL:    getDuration("NUVORYX_CONFIRM_TOKEN_TTL", time.Hour),
		ConfirmBaseURL:     getString("NUVORYX_CONFIRM_BASE_URL", "http://localhost:8080/v1/auth/confirm"),
		BcryptCost:         cost,
	}
}

func loadMailConfig() MailConfig {
	return MailConfig{
		Host:     getString("MAIL_HOST", ""),
		Port:     getInt("MAIL_PORT", 587),
		Username: getString("MAIL_USERNAME", ""),
		Password: getString("MAIL_PASSWORD", ""),
		Sender:   getString("MAIL_SENDER", "no-reply@nuvoryx.local"),
	}
}

func getString(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if val, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	if val, ok := os.LookupEnv(key); ok {
		val = strings.ToLower(strings.TrimSpace(val))
		switch val {
		case "1", "true", "t", "yes", "y":
			return true
		case "0", "false", "f", "no", "n":
			return false
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if val, ok := os.LookupEnv(key); ok {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
	}
	return fallback
}
