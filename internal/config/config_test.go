package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_RequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("CLIENT_URL", "")
	t.Setenv("APP_BASE_URL", "")
	t.Setenv("PORT", "")
	t.Setenv("OTP_EXPIRE_MINUTES", "")
	t.Setenv("SESSION_TTL_HOURS", "")
	t.Setenv("ALLOWED_ORIGINS", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "http://localhost:5173", cfg.BaseURL)
	assert.Equal(t, 10*time.Minute, cfg.OTPTTL)
	assert.Equal(t, 7*24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, []string{"http://localhost:5173", "http://localhost:5174"}, cfg.AllowedOrigins)
	assert.False(t, cfg.Email.Enabled())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("CLIENT_URL", "https://authflow.example")
	t.Setenv("OTP_EXPIRE_MINUTES", "5")
	t.Setenv("SESSION_TTL_HOURS", "24")
	t.Setenv("ALLOWED_ORIGINS", "https://authflow.example, https://staging.authflow.example")
	t.Setenv("EMAIL_SERVER_HOST", "smtp.example")
	t.Setenv("EMAIL_SERVER_PORT", "465")
	t.Setenv("EMAIL_FROM", "no-reply@example")
	t.Setenv("EMAIL_SERVER_SECURE", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://authflow.example", cfg.BaseURL)
	assert.Equal(t, 5*time.Minute, cfg.OTPTTL)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, []string{"https://authflow.example", "https://staging.authflow.example"}, cfg.AllowedOrigins)
	assert.True(t, cfg.Email.Enabled())
	assert.Equal(t, 465, cfg.Email.Port)
	assert.True(t, cfg.Email.Secure)
}

func TestLoad_IgnoresBadNumericValues(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("OTP_EXPIRE_MINUTES", "not-a-number")
	t.Setenv("SESSION_TTL_HOURS", "-3")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 10*time.Minute, cfg.OTPTTL)
	assert.Equal(t, 7*24*time.Hour, cfg.SessionTTL)
}
