package config

import (
	"log/slog"
	"strings"
	"time"

	"github.com/gotify/configor"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"

	"github.com/COSYNTRA/cosyntrafinal3/internal/urlutil"
)

type Configuration struct {
	App struct {
		Port      int    `default:"8080" env:"APP_PORT"`
		LogLevel  string `default:"info" env:"LOG_LEVEL"`
		WebDir    string `default:"web" env:"WEB_DIR"`
		UserAgent string `default:"cosyntra-careers/1.0" env:"HTTP_USER_AGENT"`
	}
	Careers struct {
		ListingURL     string  `default:"https://script.google.com/macros/s/AKfycbx7EMVPCcN7pYMehKLWSUXc5-ZgtlpmS3G3TG22ZdKB6O8w9QoH_gd9Pc4DOH6VRGsH/exec" env:"CAREERS_LISTING_URL"`
		SubmitURL      string  `default:"https://script.google.com/macros/s/AKfycbyefRZ07ydnlJc0ef_FmUZ977BZ7zyNxLuRJsgDYqhE9s8OvcTEcyB8FLOtk4-1uaf8/exec" env:"CAREERS_SUBMIT_URL"`
		PollInterval   string  `default:"10s" env:"CAREERS_POLL_INTERVAL"`
		PollTimeout    string  `default:"" env:"CAREERS_POLL_TIMEOUT"`
		SubmitOpaque   bool    `default:"false" env:"CAREERS_SUBMIT_OPAQUE"`
		MaxUploadBytes int64   `default:"10485760" env:"CAREERS_MAX_UPLOAD_BYTES"`
		SubmitRPS      float64 `default:"1" env:"CAREERS_SUBMIT_RPS"`
	}
	Contact struct {
		Provider string `default:"emailjs" env:"CONTACT_PROVIDER"`
		To       string `default:"info@cosyntra.com" env:"CONTACT_TO"`
	}
	EmailJS struct {
		ServiceID  string `default:"" env:"EMAILJS_SERVICE_ID"`
		TemplateID string `default:"" env:"EMAILJS_TEMPLATE_ID"`
		PublicKey  string `default:"" env:"EMAILJS_PUBLIC_KEY"`
	}
	Smtp struct {
		Host       string `default:"" env:"SMTP_HOST"`
		Port       string `default:"587" env:"SMTP_PORT"`
		User       string `default:"" env:"SMTP_USER"`
		Password   string `default:"" env:"SMTP_PASSWORD"`
		From       string `default:"" env:"SMTP_FROM"`
		TLSEnabled *bool  `default:"true" env:"SMTP_TLS_ENABLED"`
	}
}

const (
	ProviderEmailJS = "emailjs"
	ProviderSMTP    = "smtp"
)

// Load reads .env (if present), then the given yaml files, then the environment.
func Load(files ...string) (*Configuration, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded", "error", err)
	}

	conf := new(Configuration)
	if err := configor.New(&configor.Config{}).Load(conf, files...); err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	return conf, nil
}

func (c *Configuration) Validate() error {
	if _, err := urlutil.Normalize(c.Careers.ListingURL); err != nil {
		return errors.Wrap(err, "careers listing url")
	}
	if _, err := urlutil.Normalize(c.Careers.SubmitURL); err != nil {
		return errors.Wrap(err, "careers submit url")
	}
	if _, err := c.PollInterval(); err != nil {
		return err
	}
	if _, err := c.PollTimeout(); err != nil {
		return err
	}
	if c.Careers.MaxUploadBytes <= 0 {
		return errors.New("careers max upload bytes must be positive")
	}
	switch c.ContactProvider() {
	case ProviderEmailJS, ProviderSMTP:
	default:
		return errors.Errorf("unknown contact provider %q", c.Contact.Provider)
	}
	return nil
}

func (c *Configuration) PollInterval() (time.Duration, error) {
	d, err := time.ParseDuration(c.Careers.PollInterval)
	if err != nil {
		return 0, errors.Wrap(err, "careers poll interval")
	}
	if d <= 0 {
		return 0, errors.Errorf("careers poll interval must be positive, got %s", d)
	}
	return d, nil
}

// PollTimeout bounds one listing fetch. Zero means "use the poll interval".
func (c *Configuration) PollTimeout() (time.Duration, error) {
	raw := strings.TrimSpace(c.Careers.PollTimeout)
	if raw == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, errors.Wrap(err, "careers poll timeout")
	}
	if d < 0 {
		return 0, errors.Errorf("careers poll timeout must not be negative, got %s", d)
	}
	return d, nil
}

func (c *Configuration) ContactProvider() string {
	return strings.ToLower(strings.TrimSpace(c.Contact.Provider))
}

func (c *Configuration) SmtpTLS() bool {
	return c.Smtp.TLSEnabled == nil || *c.Smtp.TLSEnabled
}

func (c *Configuration) LogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.App.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}
