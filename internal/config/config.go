package config

import (
	"os"
	"strconv"
	"time"

	"github.com/hivesocial/moderation-backend/internal/moderation"
)

type Config struct {
	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Redis (suspension gate mirror; empty addr disables it)
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// JWT
	JWTSecret        string
	JWTAccessExpiry  time.Duration
	JWTRefreshExpiry time.Duration

	// Moderation thresholds (auditable; served via the guidelines endpoint)
	WarningThreshold     float64
	RestrictionThreshold float64
	SuspensionThreshold  float64
	StrikeCap            float64
	RestrictionDays      int
	SuspensionDays       int
	MaxContentLength     int

	// Notifications (empty values disable the corresponding channel)
	TelegramBotToken string
	TelegramChatID   int64
	SendGridAPIKey   string
	EmailFromName    string
	EmailFromAddr    string

	// Admin
	AdminEmails  string
	AdminUserIDs string
	AdminToken   string

	// Server
	Port        string
	CORSOrigins string
}

func Load() *Config {
	defaults := moderation.DefaultPolicy()

	return &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "moderation_db"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       parseInt(getEnv("REDIS_DB", "0"), 0),

		JWTSecret:        getEnv("JWT_SECRET", ""),
		JWTAccessExpiry:  parseDuration(getEnv("JWT_ACCESS_EXPIRY", "15m")),
		JWTRefreshExpiry: parseDuration(getEnv("JWT_REFRESH_EXPIRY", "168h")),

		WarningThreshold:     parseFloat(getEnv("MOD_WARNING_THRESHOLD", ""), defaults.WarningThreshold),
		RestrictionThreshold: parseFloat(getEnv("MOD_RESTRICTION_THRESHOLD", ""), defaults.RestrictionThreshold),
		SuspensionThreshold:  parseFloat(getEnv("MOD_SUSPENSION_THRESHOLD", ""), defaults.SuspensionThreshold),
		StrikeCap:            parseFloat(getEnv("MOD_STRIKE_CAP", ""), defaults.StrikeCap),
		RestrictionDays:      parseInt(getEnv("MOD_RESTRICTION_DAYS", ""), defaults.RestrictionDays),
		SuspensionDays:       parseInt(getEnv("MOD_SUSPENSION_DAYS", ""), defaults.SuspensionDays),
		MaxContentLength:     parseInt(getEnv("MOD_MAX_CONTENT_LENGTH", ""), defaults.MaxContentLength),

		TelegramBotToken: getEnv("TELEGRAM_BOT_TOKEN", ""),
		TelegramChatID:   int64(parseInt(getEnv("TELEGRAM_CHAT_ID", "0"), 0)),
		SendGridAPIKey:   getEnv("SENDGRID_API_KEY", ""),
		EmailFromName:    getEnv("EMAIL_FROM_NAME", "Trust & Safety"),
		EmailFromAddr:    getEnv("EMAIL_FROM_ADDR", ""),

		AdminEmails:  getEnv("ADMIN_EMAILS", ""),
		AdminUserIDs: getEnv("ADMIN_USER_IDS", ""),
		AdminToken:   getEnv("ADMIN_TOKEN", ""),

		Port:        getEnv("PORT", "8080"),
		CORSOrigins: getEnv("CORS_ORIGINS", "*"),
	}
}

// ModerationPolicy assembles the engine policy from the loaded thresholds.
func (c *Config) ModerationPolicy() moderation.Policy {
	return moderation.Policy{
		WarningThreshold:     c.WarningThreshold,
		RestrictionThreshold: c.RestrictionThreshold,
		SuspensionThreshold:  c.SuspensionThreshold,
		StrikeCap:            c.StrikeCap,
		RestrictionDays:      c.RestrictionDays,
		SuspensionDays:       c.SuspensionDays,
		MaxContentLength:     c.MaxContentLength,
	}
}

func (c *Config) DSN() string {
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode +
		" TimeZone=UTC"
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func parseDuration(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 15 * time.Minute
	}
	return d
}

func parseFloat(s string, fallback float64) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fallback
	}
	return f
}

func parseInt(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return n
}
