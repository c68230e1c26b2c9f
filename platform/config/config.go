// Package config loads application configuration from the environment.
// This is part of the platform layer and contains no business logic.
//
// Modules depend on the narrow per-concern interfaces below rather than the
// full Config struct, so each module declares exactly what it reads.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DatabaseConfig exposes database connection settings.
type DatabaseConfig interface {
	GetDatabaseURL() string
}

// HTTPConfig exposes HTTP server settings.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSOrigins() []string
}

// TelegramConfig exposes Telegram Bot API settings.
type TelegramConfig interface {
	GetTelegramBotToken() string
	GetTelegramAPIBaseURL() string
	GetTelegramWebhookSecret() string
}

// BotConfig exposes bot behaviour settings.
type BotConfig interface {
	GetMasterUserID() string
	GetInviteTTLDays() int
	GetStatusMenuFile() string
}

// AIConfig exposes the LLM extraction settings.
type AIConfig interface {
	GetGeminiAPIKey() string
	GetGeminiModel() string
	IsExtractionEnabled() bool
}

// JWTConfig exposes reporting-API token settings.
type JWTConfig interface {
	GetJWTSecret() string
	GetJWTTTL() time.Duration
}

// SchedulerConfig exposes asynq/redis settings.
type SchedulerConfig interface {
	GetRedisURL() string
	GetAsynqQueueName() string
	GetAsynqConcurrency() int
	GetEventRetentionDays() int
}

// DedupConfig exposes the dedup fast-path cache settings.
type DedupConfig interface {
	GetRedisURL() string
	GetDedupCacheTTL() time.Duration
}

// EmailConfig exposes SMTP notification settings.
type EmailConfig interface {
	GetEmailEnabled() bool
	GetSMTPHost() string
	GetSMTPPort() int
	GetSMTPUsername() string
	GetSMTPPassword() string
	GetEmailFromAddress() string
	GetEmailToAddress() string
}

// MinIOConfig exposes export object storage settings.
type MinIOConfig interface {
	GetMinIOEndpoint() string
	GetMinIOAccessKey() string
	GetMinIOSecretKey() string
	GetMinIOUseSSL() bool
	GetMinIOBucketExports() string
	IsMinIOEnabled() bool
}

// Config holds all application configuration loaded from the environment.
type Config struct {
	Env      string
	HTTPAddr string

	DatabaseURL string

	TelegramBotToken      string
	TelegramAPIBaseURL    string
	TelegramWebhookSecret string

	MasterUserID   string
	InviteTTLDays  int
	StatusMenuFile string

	GeminiAPIKey string
	GeminiModel  string

	JWTSecret string
	JWTTTL    time.Duration

	RedisURL           string
	AsynqQueueName     string
	AsynqConcurrency   int
	EventRetentionDays int
	DedupCacheTTL      time.Duration

	EmailEnabled     bool
	SMTPHost         string
	SMTPPort         int
	SMTPUsername     string
	SMTPPassword     string
	EmailFromAddress string
	EmailToAddress   string

	MinIOEndpoint      string
	MinIOAccessKey     string
	MinIOSecretKey     string
	MinIOUseSSL        bool
	MinIOBucketExports string

	CORSOrigins []string
}

// Load reads configuration from the environment (and .env when present).
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Env:      getEnv("APP_ENV", "development"),
		HTTPAddr: getEnv("HTTP_ADDR", ":8080"),

		DatabaseURL: getEnv("DATABASE_URL", ""),

		TelegramBotToken:      getEnv("TELEGRAM_BOT_TOKEN", ""),
		TelegramAPIBaseURL:    getEnv("TELEGRAM_API_BASE_URL", "https://api.telegram.org"),
		TelegramWebhookSecret: getEnv("TELEGRAM_WEBHOOK_SECRET", ""),

		MasterUserID:   getEnv("MASTER_USER_ID", ""),
		InviteTTLDays:  getEnvInt("INVITE_EXPIRES_DAYS", 7),
		StatusMenuFile: getEnv("STATUS_MENU_FILE", ""),

		GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
		GeminiModel:  getEnv("GEMINI_MODEL", "gemini-2.0-flash"),

		JWTSecret: getEnv("JWT_SECRET", ""),
		JWTTTL:    mustDuration(getEnv("JWT_TTL", "720h")),

		RedisURL:           getEnv("REDIS_URL", ""),
		AsynqQueueName:     getEnv("ASYNQ_QUEUE", "default"),
		AsynqConcurrency:   getEnvInt("ASYNQ_CONCURRENCY", 5),
		EventRetentionDays: getEnvInt("EVENT_RETENTION_DAYS", 30),
		DedupCacheTTL:      mustDuration(getEnv("DEDUP_CACHE_TTL", "24h")),

		EmailEnabled:     strings.EqualFold(getEnv("EMAIL_ENABLED", "false"), "true"),
		SMTPHost:         getEnv("SMTP_HOST", ""),
		SMTPPort:         getEnvInt("SMTP_PORT", 587),
		SMTPUsername:     getEnv("SMTP_USERNAME", ""),
		SMTPPassword:     getEnv("SMTP_PASSWORD", ""),
		EmailFromAddress: getEnv("EMAIL_FROM_ADDRESS", ""),
		EmailToAddress:   getEnv("EMAIL_TO_ADDRESS", ""),

		MinIOEndpoint:      getEnv("MINIO_ENDPOINT", ""),
		MinIOAccessKey:     getEnv("MINIO_ACCESS_KEY", ""),
		MinIOSecretKey:     getEnv("MINIO_SECRET_KEY", ""),
		MinIOUseSSL:        strings.EqualFold(getEnv("MINIO_USE_SSL", "false"), "true"),
		MinIOBucketExports: getEnv("MINIO_BUCKET_EXPORTS", "work-order-exports"),

		CORSOrigins: splitCSV(getEnv("CORS_ORIGINS", "http://localhost:4200")),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.TelegramBotToken == "" {
		return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN is required")
	}
	if cfg.EmailEnabled && (cfg.SMTPHost == "" || cfg.EmailFromAddress == "") {
		return nil, fmt.Errorf("SMTP_HOST and EMAIL_FROM_ADDRESS are required when EMAIL_ENABLED is true")
	}
	if cfg.InviteTTLDays < 1 {
		return nil, fmt.Errorf("INVITE_EXPIRES_DAYS must be at least 1")
	}

	return cfg, nil
}

func (c *Config) GetDatabaseURL() string { return c.DatabaseURL }

func (c *Config) GetHTTPAddr() string      { return c.HTTPAddr }
func (c *Config) GetCORSOrigins() []string { return c.CORSOrigins }

func (c *Config) GetTelegramBotToken() string      { return c.TelegramBotToken }
func (c *Config) GetTelegramAPIBaseURL() string    { return c.TelegramAPIBaseURL }
func (c *Config) GetTelegramWebhookSecret() string { return c.TelegramWebhookSecret }

func (c *Config) GetMasterUserID() string   { return c.MasterUserID }
func (c *Config) GetInviteTTLDays() int     { return c.InviteTTLDays }
func (c *Config) GetStatusMenuFile() string { return c.StatusMenuFile }

func (c *Config) GetGeminiAPIKey() string   { return c.GeminiAPIKey }
func (c *Config) GetGeminiModel() string    { return c.GeminiModel }
func (c *Config) IsExtractionEnabled() bool { return c.GeminiAPIKey != "" }

func (c *Config) GetJWTSecret() string     { return c.JWTSecret }
func (c *Config) GetJWTTTL() time.Duration { return c.JWTTTL }

func (c *Config) GetRedisURL() string             { return c.RedisURL }
func (c *Config) GetAsynqQueueName() string       { return c.AsynqQueueName }
func (c *Config) GetAsynqConcurrency() int        { return c.AsynqConcurrency }
func (c *Config) GetEventRetentionDays() int      { return c.EventRetentionDays }
func (c *Config) GetDedupCacheTTL() time.Duration { return c.DedupCacheTTL }

func (c *Config) GetEmailEnabled() bool       { return c.EmailEnabled && c.SMTPHost != "" }
func (c *Config) GetSMTPHost() string         { return c.SMTPHost }
func (c *Config) GetSMTPPort() int            { return c.SMTPPort }
func (c *Config) GetSMTPUsername() string     { return c.SMTPUsername }
func (c *Config) GetSMTPPassword() string     { return c.SMTPPassword }
func (c *Config) GetEmailFromAddress() string { return c.EmailFromAddress }
func (c *Config) GetEmailToAddress() string   { return c.EmailToAddress }

func (c *Config) GetMinIOEndpoint() string      { return c.MinIOEndpoint }
func (c *Config) GetMinIOAccessKey() string     { return c.MinIOAccessKey }
func (c *Config) GetMinIOSecretKey() string     { return c.MinIOSecretKey }
func (c *Config) GetMinIOUseSSL() bool          { return c.MinIOUseSSL }
func (c *Config) GetMinIOBucketExports() string { return c.MinIOBucketExports }
func (c *Config) IsMinIOEnabled() bool          { return c.MinIOEndpoint != "" }

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	val := getEnv(key, "")
	if val == "" {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(val))
	if err != nil {
		return fallback
	}
	return n
}

func mustDuration(value string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0
	}
	return d
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	results := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}
