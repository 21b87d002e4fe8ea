package contact

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"ENV", "PORT", "LISTEN_ADDR", "ALLOWED_ORIGINS", "TRUST_PROXY", "MAX_BODY_KB",
		"RATE_LIMIT_MAX", "RATE_LIMIT_WINDOW", "RECAPTCHA_SECRET", "RECAPTCHA_VERIFY_URL",
		"VERIFY_TIMEOUT", "RECIPIENT_EMAIL", "SMTP_HOST", "SMTP_PORT", "SMTP_SECURE",
		"SMTP_USER", "SMTP_PASS", "SMTP_FROM", "LOG_LEVEL", "LOG_FORMAT", "LOG_FILE",
	} {
		t.Setenv(k, "")
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	clearConfigEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, ":4000", cfg.ListenAddr)
	assert.Equal(t, 6, cfg.RateLimitMax)
	assert.Equal(t, time.Minute, cfg.RateWindow)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
	assert.Equal(t, DefaultVerifyURL, cfg.VerifyURL)
	assert.Equal(t, 587, cfg.SMTP.Port)
	assert.False(t, cfg.RelayConfigured())
	assert.False(t, cfg.VerificationConfigured())
}

func TestLoadConfigFromEnv(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("PORT", "8080")
	t.Setenv("RECAPTCHA_SECRET", "secret")
	t.Setenv("RECIPIENT_EMAIL", "owner@example.com")
	t.Setenv("SMTP_HOST", "smtp.example.com")
	t.Setenv("SMTP_PORT", "465")
	t.Setenv("SMTP_SECURE", "true")
	t.Setenv("SMTP_USER", "relay@example.com")
	t.Setenv("SMTP_PASS", "pw")
	t.Setenv("RATE_LIMIT_WINDOW", "2m")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example.com,https://b.example.com")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.True(t, cfg.RelayConfigured())
	assert.True(t, cfg.VerificationConfigured())
	assert.True(t, cfg.SMTP.Secure)
	assert.Equal(t, "smtp.example.com:465", cfg.SMTP.Addr())
	assert.Equal(t, "relay@example.com", cfg.SMTP.From)
	assert.Equal(t, 2*time.Minute, cfg.RateWindow)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.AllowedOrigins)
}

func TestLoadConfigListenAddrOverridesPort(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("PORT", "8080")
	t.Setenv("LISTEN_ADDR", "127.0.0.1:9000")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9000", cfg.ListenAddr)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"ok", func(*Config) {}, ""},
		{"relay without host", func(c *Config) { c.SMTP.Host = "" }, "SMTP_HOST"},
		{"relay without recipient", func(c *Config) { c.Recipient = "" }, "RECIPIENT_EMAIL"},
		{"no relay needs nothing", func(c *Config) { c.SMTP = SMTPConfig{}; c.Recipient = "" }, ""},
		{"zero limit", func(c *Config) { c.RateLimitMax = 0 }, "RATE_LIMIT_MAX"},
		{"zero window", func(c *Config) { c.RateWindow = 0 }, "RATE_LIMIT_WINDOW"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}
