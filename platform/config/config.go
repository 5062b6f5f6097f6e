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

// JWTConfig provides JWT validation settings for middleware.
type JWTConfig interface {
	GetJWTAccessSecret() string
}

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
	GetCORSAllowCreds() bool
	GetPublicBaseURL() string
	GetGlobalRateRPS() float64
	GetGlobalRateBurst() int
}

// RedisConfig provides settings for the Redis-backed rate limiter.
type RedisConfig interface {
	GetRedisURL() string
	IsRedisEnabled() bool
}

// SchedulerConfig provides settings for the asynq task queue.
type SchedulerConfig interface {
	GetSchedulerRedisURL() string
	GetSchedulerTLSInsecure() bool
	GetSchedulerQueue() string
	GetSchedulerConcurrency() int
	IsSchedulerEnabled() bool
}

// EmailConfig provides settings for SMTP email sending.
type EmailConfig interface {
	GetEmailEnabled() bool
	GetSMTPHost() string
	GetSMTPPort() int
	GetSMTPUsername() string
	GetSMTPPassword() string
	GetEmailFromName() string
	GetEmailFromAddress() string
}

// MinIOConfig provides settings for MinIO S3-compatible storage.
type MinIOConfig interface {
	GetMinIOEndpoint() string
	GetMinIOAccessKey() string
	GetMinIOSecretKey() string
	GetMinIOUseSSL() bool
	GetMinIOMaxFileSize() int64
	GetMinioBucketCompanyLogos() string
	GetMinioBucketInstallerAvatars() string
	GetMinioBucketResumes() string
	IsMinIOEnabled() bool
}

// GeocoderConfig provides settings for the OpenCage forward-geocoding API.
type GeocoderConfig interface {
	GetOpenCageAPIKey() string
	IsGeocoderEnabled() bool
}

// SearchConfig provides tuning knobs for the search engine.
type SearchConfig interface {
	GetRadiusCandidateCap() int
}

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values.
type Config struct {
	Env                         string
	HTTPAddr                    string
	PublicBaseURL               string
	DatabaseURL                 string
	JWTAccessSecret             string
	CORSAllowAll                bool
	CORSOrigins                 []string
	CORSAllowCreds              bool
	RedisURL                    string
	SchedulerRedisURL           string
	SchedulerTLSInsecure        bool
	SchedulerQueue              string
	SchedulerConcurrency        int
	EmailEnabled                bool
	SMTPHost                    string
	SMTPPort                    int
	SMTPUsername                string
	SMTPPassword                string
	EmailFromName               string
	EmailFromAddress            string
	MinIOEndpoint               string
	MinIOAccessKey              string
	MinIOSecretKey              string
	MinIOUseSSL                 bool
	MinIOMaxFileSize            int64
	MinioBucketCompanyLogos     string
	MinioBucketInstallerAvatars string
	MinioBucketResumes          string
	OpenCageAPIKey              string
	RadiusCandidateCap          int
	ExpirySweepInterval         time.Duration
	GlobalRateRPS               float64
	GlobalRateBurst             int
}

// =============================================================================
// Interface Implementations
// =============================================================================

// DatabaseConfig implementation
func (c *Config) GetDatabaseURL() string { return c.DatabaseURL }

// JWTConfig implementation
func (c *Config) GetJWTAccessSecret() string { return c.JWTAccessSecret }

// HTTPConfig implementation
func (c *Config) GetHTTPAddr() string      { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool    { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string { return c.CORSOrigins }
func (c *Config) GetCORSAllowCreds() bool     { return c.CORSAllowCreds }
func (c *Config) GetPublicBaseURL() string    { return c.PublicBaseURL }
func (c *Config) GetGlobalRateRPS() float64   { return c.GlobalRateRPS }
func (c *Config) GetGlobalRateBurst() int     { return c.GlobalRateBurst }

// RedisConfig implementation
func (c *Config) GetRedisURL() string  { return c.RedisURL }
func (c *Config) IsRedisEnabled() bool { return c.RedisURL != "" }

// SchedulerConfig implementation
func (c *Config) GetSchedulerRedisURL() string {
	if c.SchedulerRedisURL != "" {
		return c.SchedulerRedisURL
	}
	return c.RedisURL
}
func (c *Config) GetSchedulerTLSInsecure() bool { return c.SchedulerTLSInsecure }
func (c *Config) GetSchedulerQueue() string     { return c.SchedulerQueue }
func (c *Config) GetSchedulerConcurrency() int  { return c.SchedulerConcurrency }
func (c *Config) IsSchedulerEnabled() bool      { return c.GetSchedulerRedisURL() != "" }

// EmailConfig implementation
func (c *Config) GetEmailEnabled() bool       { return c.EmailEnabled }
func (c *Config) GetSMTPHost() string         { return c.SMTPHost }
func (c *Config) GetSMTPPort() int            { return c.SMTPPort }
func (c *Config) GetSMTPUsername() string     { return c.SMTPUsername }
func (c *Config) GetSMTPPassword() string     { return c.SMTPPassword }
func (c *Config) GetEmailFromName() string    { return c.EmailFromName }
func (c *Config) GetEmailFromAddress() string { return c.EmailFromAddress }

// MinIOConfig implementation
func (c *Config) GetMinIOEndpoint() string   { return c.MinIOEndpoint }
func (c *Config) GetMinIOAccessKey() string  { return c.MinIOAccessKey }
func (c *Config) GetMinIOSecretKey() string  { return c.MinIOSecretKey }
func (c *Config) GetMinIOUseSSL() bool       { return c.MinIOUseSSL }
func (c *Config) GetMinIOMaxFileSize() int64 { return c.MinIOMaxFileSize }
func (c *Config) GetMinioBucketCompanyLogos() string {
	return c.MinioBucketCompanyLogos
}
func (c *Config) GetMinioBucketInstallerAvatars() string {
	return c.MinioBucketInstallerAvatars
}
func (c *Config) GetMinioBucketResumes() string {
	return c.MinioBucketResumes
}
func (c *Config) IsMinIOEnabled() bool { return c.MinIOEndpoint != "" }

// GeocoderConfig implementation
func (c *Config) GetOpenCageAPIKey() string { return c.OpenCageAPIKey }
func (c *Config) IsGeocoderEnabled() bool   { return c.OpenCageAPIKey != "" }

// SearchConfig implementation
func (c *Config) GetRadiusCandidateCap() int { return c.RadiusCandidateCap }

// Load reads configuration from the environment (and .env if present).
func Load() (*Config, error) {
	_ = godotenv.Load()

	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", ""))
	corsAllowAll := containsWildcard(corsOrigins) || len(corsOrigins) == 0

	emailEnabled := strings.EqualFold(getEnv("EMAIL_ENABLED", "true"), "true")
	smtpHost := getEnv("SMTP_HOST", "")

	cfg := &Config{
		Env:                         getEnv("APP_ENV", "development"),
		HTTPAddr:                    getEnv("HTTP_ADDR", ":8080"),
		PublicBaseURL:               getEnv("PUBLIC_BASE_URL", "http://localhost:3000"),
		DatabaseURL:                 getEnv("DATABASE_URL", ""),
		JWTAccessSecret:             getEnv("JWT_ACCESS_SECRET", ""),
		CORSAllowAll:                corsAllowAll,
		CORSOrigins:                 corsOrigins,
		CORSAllowCreds:              strings.EqualFold(getEnv("CORS_ALLOW_CREDENTIALS", "false"), "true"),
		RedisURL:                    getEnv("REDIS_URL", ""),
		SchedulerRedisURL:           getEnv("SCHEDULER_REDIS_URL", ""),
		SchedulerTLSInsecure:        strings.EqualFold(getEnv("SCHEDULER_TLS_INSECURE", "false"), "true"),
		SchedulerQueue:              getEnv("SCHEDULER_QUEUE", "default"),
		SchedulerConcurrency:        int(mustInt64(getEnv("SCHEDULER_CONCURRENCY", "10"))),
		EmailEnabled:                emailEnabled && smtpHost != "",
		SMTPHost:                    smtpHost,
		SMTPPort:                    int(mustInt64(getEnv("SMTP_PORT", "587"))),
		SMTPUsername:                getEnv("SMTP_USERNAME", ""),
		SMTPPassword:                getEnv("SMTP_PASSWORD", ""),
		EmailFromName:               getEnv("EMAIL_FROM_NAME", "Trade Careers"),
		EmailFromAddress:            getEnv("EMAIL_FROM_ADDRESS", ""),
		MinIOEndpoint:               getEnv("MINIO_ENDPOINT", ""),
		MinIOAccessKey:              getEnv("MINIO_ACCESS_KEY", ""),
		MinIOSecretKey:              getEnv("MINIO_SECRET_KEY", ""),
		MinIOUseSSL:                 strings.EqualFold(getEnv("MINIO_USE_SSL", "false"), "true"),
		MinIOMaxFileSize:            mustInt64(getEnv("MINIO_MAX_FILE_SIZE", "5242880")),
		MinioBucketCompanyLogos:     getEnv("MINIO_BUCKET_COMPANY_LOGOS", "company-logos"),
		MinioBucketInstallerAvatars: getEnv("MINIO_BUCKET_INSTALLER_AVATARS", "installer-avatars"),
		MinioBucketResumes:          getEnv("MINIO_BUCKET_RESUMES", "resumes"),
		OpenCageAPIKey:              getEnv("OPENCAGE_API_KEY", ""),
		RadiusCandidateCap:          int(mustInt64(getEnv("RADIUS_CANDIDATE_CAP", "2000"))),
		ExpirySweepInterval:         mustDuration(getEnv("EXPIRY_SWEEP_INTERVAL", "1h")),
		GlobalRateRPS:               mustFloat64(getEnv("GLOBAL_RATE_RPS", "25")),
		GlobalRateBurst:             int(mustInt64(getEnv("GLOBAL_RATE_BURST", "50"))),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.JWTAccessSecret == "" {
		return nil, fmt.Errorf("JWT_ACCESS_SECRET is required")
	}
	if cfg.EmailEnabled && cfg.EmailFromAddress == "" {
		return nil, fmt.Errorf("EMAIL_FROM_ADDRESS is required when email is enabled")
	}
	if cfg.CORSAllowAll && cfg.CORSAllowCreds {
		return nil, fmt.Errorf("CORS_ALLOW_CREDENTIALS cannot be true when CORS_ALLOW_ALL is true")
	}
	if cfg.RadiusCandidateCap <= 0 {
		cfg.RadiusCandidateCap = 2000
	}
	if cfg.ExpirySweepInterval <= 0 {
		cfg.ExpirySweepInterval = time.Hour
	}
	if cfg.GlobalRateRPS <= 0 {
		cfg.GlobalRateRPS = 25
	}
	if cfg.GlobalRateBurst <= 0 {
		cfg.GlobalRateBurst = 50
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

func mustInt64(value string) int64 {
	result, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0
	}
	return result
}

func mustFloat64(value string) float64 {
	result, err := strconv.ParseFloat(value, 64)
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

func containsWildcard(values []string) bool {
	for _, value := range values {
		if value == "*" {
			return true
		}
	}
	return false
}
