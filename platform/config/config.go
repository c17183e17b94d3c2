// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// DatabaseConfig provides database connection settings.
type DatabaseConfig interface {
	GetDatabaseURL() string
}

// RedisConfig provides redis connection settings for sessions and queues.
type RedisConfig interface {
	GetRedisURL() string
}

// SessionConfig provides settings for the session store.
type SessionConfig interface {
	RedisConfig
	GetSessionCookieName() string
	GetSessionTTL() time.Duration
	GetSessionCookieSecure() bool
}

// JWTConfig provides JWT validation settings for the admin middleware.
type JWTConfig interface {
	GetJWTSecret() string
}

// AdminConfig provides settings for the admin authentication module.
type AdminConfig interface {
	JWTConfig
	GetAdminEmail() string
	GetAdminPasswordHash() string
	GetAdminTokenTTL() time.Duration
}

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
	GetCORSAllowCreds() bool
}

// StoreConfig provides settings consumed by the store page renderer.
type StoreConfig interface {
	GetImageHost() string
	GetProcessorURL() string
}

// EmailConfig provides settings for order confirmation email delivery.
type EmailConfig interface {
	GetEmailEnabled() bool
	GetSMTPHost() string
	GetSMTPPort() int
	GetSMTPUsername() string
	GetSMTPPassword() string
	GetEmailFromName() string
	GetEmailFromAddress() string
}

// SchedulerConfig provides settings for the background task queue.
type SchedulerConfig interface {
	RedisConfig
	GetAsynqQueueName() string
	GetAsynqConcurrency() int
}

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values.
type Config struct {
	Env                 string
	HTTPAddr            string
	DatabaseURL         string
	RedisURL            string
	SessionCookieName   string
	SessionTTL          time.Duration
	SessionCookieSecure bool
	JWTSecret           string
	AdminEmail          string
	AdminPasswordHash   string
	AdminTokenTTL       time.Duration
	CORSAllowAll        bool
	CORSOrigins         []string
	CORSAllowCreds      bool
	ImageHost           string
	ProcessorURL        string
	EmailEnabled        bool
	SMTPHost            string
	SMTPPort            int
	SMTPUsername        string
	SMTPPassword        string
	EmailFromName       string
	EmailFromAddress    string
	AsynqQueueName      string
	AsynqConcurrency    int
}

// =============================================================================
// Interface Implementations
// =============================================================================

// DatabaseConfig implementation
func (c *Config) GetDatabaseURL() string { return c.DatabaseURL }

// RedisConfig implementation
func (c *Config) GetRedisURL() string { return c.RedisURL }

// SessionConfig implementation
func (c *Config) GetSessionCookieName() string { return c.SessionCookieName }
func (c *Config) GetSessionTTL() time.Duration { return c.SessionTTL }
func (c *Config) GetSessionCookieSecure() bool { return c.SessionCookieSecure }

// JWTConfig implementation
func (c *Config) GetJWTSecret() string { return c.JWTSecret }

// AdminConfig implementation
func (c *Config) GetAdminEmail() string           { return c.AdminEmail }
func (c *Config) GetAdminPasswordHash() string    { return c.AdminPasswordHash }
func (c *Config) GetAdminTokenTTL() time.Duration { return c.AdminTokenTTL }

// HTTPConfig implementation
func (c *Config) GetHTTPAddr() string      { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool    { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string { return c.CORSOrigins }
func (c *Config) GetCORSAllowCreds() bool  { return c.CORSAllowCreds }

// StoreConfig implementation
func (c *Config) GetImageHost() string    { return c.ImageHost }
func (c *Config) GetProcessorURL() string { return c.ProcessorURL }

// EmailConfig implementation
func (c *Config) GetEmailEnabled() bool       { return c.EmailEnabled }
func (c *Config) GetSMTPHost() string         { return c.SMTPHost }
func (c *Config) GetSMTPPort() int            { return c.SMTPPort }
func (c *Config) GetSMTPUsername() string     { return c.SMTPUsername }
func (c *Config) GetSMTPPassword() string     { return c.SMTPPassword }
func (c *Config) GetEmailFromName() string    { return c.EmailFromName }
func (c *Config) GetEmailFromAddress() string { return c.EmailFromAddress }

// SchedulerConfig implementation
func (c *Config) GetAsynqQueueName() string { return c.AsynqQueueName }
func (c *Config) GetAsynqConcurrency() int  { return c.AsynqConcurrency }

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "http://localhost:4200"))
	corsAllowAll := strings.EqualFold(getEnv("CORS_ALLOW_ALL", "false"), "true")
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	smtpHost := getEnv("SMTP_HOST", "")
	emailEnabled := strings.EqualFold(getEnv("EMAIL_ENABLED", "true"), "true")

	sessionCookieSecure := strings.EqualFold(getEnv("SESSION_COOKIE_SECURE", ""), "true")
	if getEnv("SESSION_COOKIE_SECURE", "") == "" {
		sessionCookieSecure = strings.EqualFold(getEnv("APP_ENV", "development"), "production")
	}

	cfg := &Config{
		Env:                 getEnv("APP_ENV", "development"),
		HTTPAddr:            getEnv("HTTP_ADDR", ":8080"),
		DatabaseURL:         getEnv("DATABASE_URL", ""),
		RedisURL:            getEnv("REDIS_URL", "redis://localhost:6379/0"),
		SessionCookieName:   getEnv("SESSION_COOKIE_NAME", "storefront_sid"),
		SessionTTL:          mustDuration(getEnv("SESSION_TTL", "24h")),
		SessionCookieSecure: sessionCookieSecure,
		JWTSecret:           getEnv("JWT_SECRET", ""),
		AdminEmail:          getEnv("ADMIN_EMAIL", ""),
		AdminPasswordHash:   getEnv("ADMIN_PASSWORD_HASH", ""),
		AdminTokenTTL:       mustDuration(getEnv("ADMIN_TOKEN_TTL", "12h")),
		CORSAllowAll:        corsAllowAll,
		CORSOrigins:         corsOrigins,
		CORSAllowCreds:      strings.EqualFold(getEnv("CORS_ALLOW_CREDENTIALS", "true"), "true"),
		ImageHost:           getEnv("IMG_HOST", "localhost:8080"),
		ProcessorURL:        getEnv("PAYMENT_PROCESSOR_URL", ""),
		EmailEnabled:        emailEnabled && smtpHost != "",
		SMTPHost:            smtpHost,
		SMTPPort:            mustInt(getEnv("SMTP_PORT", "587")),
		SMTPUsername:        getEnv("SMTP_USERNAME", ""),
		SMTPPassword:        getEnv("SMTP_PASSWORD", ""),
		EmailFromName:       getEnv("EMAIL_FROM_NAME", "Storefront"),
		EmailFromAddress:    getEnv("EMAIL_FROM_ADDRESS", ""),
		AsynqQueueName:      getEnv("ASYNQ_QUEUE", "default"),
		AsynqConcurrency:    mustInt(getEnv("ASYNQ_CONCURRENCY", "10")),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.EmailEnabled && cfg.EmailFromAddress == "" {
		return nil, fmt.Errorf("EMAIL_FROM_ADDRESS is required when email is enabled")
	}
	if cfg.CORSAllowAll && cfg.CORSAllowCreds {
		return nil, fmt.Errorf("CORS_ALLOW_CREDENTIALS cannot be true when CORS_ALLOW_ALL is true")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func mustDuration(value string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0
	}
	return d
}

func mustInt(value string) int {
	result, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return result
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

func containsWildcard(origins []string) bool {
	for _, origin := range origins {
		if origin == "*" {
			return true
		}
	}
	return false
}
