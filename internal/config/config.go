package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port           string
	BaseURL        string
	DatabaseURL    string
	RedisURL       string
	JWTSecret      string
	SessionTTL     time.Duration
	OTPTTL         time.Duration
	AllowedOrigins []string
	LogFile        string
	Email          EmailConfig
}

type EmailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	Secure   bool
}

func (e EmailConfig) Enabled() bool {
	return e.Host != "" && e.Port != 0 && e.From != ""
}

// Load reads the configuration from the environment. JWT_SECRET is the
// only hard requirement: without signing-key material no session token
// can be issued or verified. DATABASE_URL and REDIS_URL are optional;
// when absent the server falls back to the in-memory store and the
// in-process mail queue.
func Load() (Config, error) {
	clean := func(val string) string {
		return strings.Trim(val, "\"' \t\r\n")
	}

	otpMinutes, err := strconv.Atoi(getenvDefault("OTP_EXPIRE_MINUTES", "10"))
	if err != nil || otpMinutes <= 0 {
		otpMinutes = 10
	}

	sessionHours, err := strconv.Atoi(getenvDefault("SESSION_TTL_HOURS", "168"))
	if err != nil || sessionHours <= 0 {
		sessionHours = 168
	}

	emailPort, err := strconv.Atoi(clean(getenvDefault("EMAIL_SERVER_PORT", "587")))
	if err != nil {
		emailPort = 587
	}

	cfg := Config{
		Port:           getenvDefault("PORT", "8080"),
		BaseURL:        firstNonEmpty(os.Getenv("CLIENT_URL"), os.Getenv("APP_BASE_URL"), "http://localhost:5173"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		RedisURL:       os.Getenv("REDIS_URL"),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		SessionTTL:     time.Duration(sessionHours) * time.Hour,
		OTPTTL:         time.Duration(otpMinutes) * time.Minute,
		AllowedOrigins: parseList(getenvDefault("ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:5174")),
		LogFile:        getenvDefault("LOG_FILE", "logs/server.log"),
	}

	cfg.Email = EmailConfig{
		Host:     clean(os.Getenv("EMAIL_SERVER_HOST")),
		Port:     emailPort,
		Username: clean(os.Getenv("EMAIL_SERVER_USER")),
		Password: clean(os.Getenv("EMAIL_SERVER_PASSWORD")),
		From:     clean(os.Getenv("EMAIL_FROM")),
		Secure:   parseBool(os.Getenv("EMAIL_SERVER_SECURE")),
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required")
	}

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func parseBool(val string) bool {
	if val == "" {
		return false
	}
	val = strings.ToLower(strings.Trim(val, "\"' "))
	return val == "1" || val == "true" || val == "yes"
}

func parseList(val string) []string {
	parts := strings.Split(val, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
