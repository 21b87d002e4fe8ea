package contact

import (
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/nazarhussain/site-contact/env"
)

/*
ENV-ONLY CONFIG (a .env.<ENV> or .env file is loaded first when present):
  Server:
    ENV (default "development")
    PORT (default 4000), LISTEN_ADDR overrides it
    ALLOWED_ORIGINS="https://a.com,https://b.com" (default "*")
    TRUST_PROXY (default false) // take the client address from X-Forwarded-For / X-Real-IP
    MAX_BODY_KB (default 64)

  Abuse mitigation:
    RATE_LIMIT_MAX (default 6)
    RATE_LIMIT_WINDOW (default 60s)
    RECAPTCHA_SECRET            // optional; tokens are only checked when set
    RECAPTCHA_VERIFY_URL
    VERIFY_TIMEOUT (default 10s)

  Delivery (relay is disabled while SMTP_USER is empty):
    RECIPIENT_EMAIL
    SMTP_HOST, SMTP_PORT (default 587), SMTP_SECURE (true = implicit TLS)
    SMTP_USER, SMTP_PASS
    SMTP_FROM (default SMTP_USER)

  Logging:
    LOG_LEVEL, LOG_FORMAT (text|json), LOG_FILE, LOG_MAX_SIZE_MB, LOG_MAX_BACKUPS, LOG_MAX_AGE_DAYS
*/

const DefaultVerifyURL = "https://www.google.com/recaptcha/api/siteverify"

type SMTPConfig struct {
	Host   string `env:"SMTP_HOST"`
	Port   int    `env:"SMTP_PORT" envDefault:"587"`
	Secure bool   `env:"SMTP_SECURE" envDefault:"false"`
	User   string `env:"SMTP_USER"`
	Pass   string `env:"SMTP_PASS"`
	From   string `env:"SMTP_FROM"`
}

// Addr is host:port of the relay.
func (s SMTPConfig) Addr() string {
	return net.JoinHostPort(s.Host, fmt.Sprint(s.Port))
}

type LogConfig struct {
	Level      string `env:"LOG_LEVEL" envDefault:"info"`
	Format     string `env:"LOG_FORMAT" envDefault:"text"`
	File       string `env:"LOG_FILE"`
	MaxSizeMB  int    `env:"LOG_MAX_SIZE_MB" envDefault:"10"`
	MaxBackups int    `env:"LOG_MAX_BACKUPS" envDefault:"3"`
	MaxAgeDays int    `env:"LOG_MAX_AGE_DAYS" envDefault:"28"`
}

type Config struct {
	Environment    string        `env:"ENV" envDefault:"development"`
	Port           int           `env:"PORT" envDefault:"4000"`
	ListenAddr     string        `env:"LISTEN_ADDR"`
	AllowedOrigins []string      `env:"ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`
	TrustProxy     bool          `env:"TRUST_PROXY" envDefault:"false"`
	MaxBodyKB      int           `env:"MAX_BODY_KB" envDefault:"64"`
	RateLimitMax   int           `env:"RATE_LIMIT_MAX" envDefault:"6"`
	RateWindow     time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"60s"`

	RecaptchaSecret string        `env:"RECAPTCHA_SECRET"`
	VerifyURL       string        `env:"RECAPTCHA_VERIFY_URL" envDefault:"https://www.google.com/recaptcha/api/siteverify"`
	VerifyTimeout   time.Duration `env:"VERIFY_TIMEOUT" envDefault:"10s"`

	Recipient string `env:"RECIPIENT_EMAIL"`
	SMTP      SMTPConfig
	Log       LogConfig
}

// LoadConfig loads .env files for the current ENV and parses the environment.
func LoadConfig() (*Config, error) {
	if _, err := env.Load(env.DotenvFiles(env.Lookup("ENV", "development"))...); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = fmt.Sprintf(":%d", cfg.Port)
	}
	if cfg.SMTP.From == "" {
		cfg.SMTP.From = cfg.SMTP.User
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// RelayConfigured reports whether submissions are delivered by mail.
func (c *Config) RelayConfigured() bool {
	return c.SMTP.User != ""
}

// VerificationConfigured reports whether tokens are checked with the verification service.
func (c *Config) VerificationConfigured() bool {
	return c.RecaptchaSecret != ""
}

func (c *Config) Validate() error {
	var errs []error
	if c.RateLimitMax <= 0 {
		errs = append(errs, errors.New("RATE_LIMIT_MAX must be positive"))
	}
	if c.RateWindow <= 0 {
		errs = append(errs, errors.New("RATE_LIMIT_WINDOW must be positive"))
	}
	if c.MaxBodyKB <= 0 {
		errs = append(errs, errors.New("MAX_BODY_KB must be positive"))
	}
	if c.RelayConfigured() {
		if c.SMTP.Host == "" {
			errs = append(errs, errors.New("SMTP_HOST is required when SMTP_USER is set"))
		}
		if c.Recipient == "" {
			errs = append(errs, errors.New("RECIPIENT_EMAIL is required when SMTP_USER is set"))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
