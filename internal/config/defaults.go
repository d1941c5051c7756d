package config

import (
	"fmt"
	"strings"
	"time"
)

// DefaultApplier applies defaults for a specific configuration domain.
type DefaultApplier interface {
	ApplyDefaults(cfg *Config) error
	Domain() string
}

// SiteDefaultApplier handles site metadata defaults.
type SiteDefaultApplier struct{}

func (s *SiteDefaultApplier) Domain() string { return "site" }

func (s *SiteDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Site.Title == "" {
		cfg.Site.Title = "Insights"
	}
	cfg.Site.BaseURL = strings.TrimRight(cfg.Site.BaseURL, "/")
	return nil
}

// ContentDefaultApplier handles content source and normalizer defaults.
type ContentDefaultApplier struct{}

func (c *ContentDefaultApplier) Domain() string { return "content" }

func (c *ContentDefaultApplier) ApplyDefaults(cfg *Config) error {
	if len(cfg.Content.Extensions) == 0 {
		cfg.Content.Extensions = []string{".md", ".mdx"}
	}
	for i, ext := range cfg.Content.Extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext != "" && !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		cfg.Content.Extensions[i] = ext
	}

	d := &cfg.Content.Defaults
	if d.Title == "" {
		d.Title = "Untitled"
	}
	if d.Author == "" {
		d.Author = "Editorial Team"
	}
	if d.Description == "" {
		d.Description = "No description available."
	}
	if d.Category == "" {
		d.Category = "Insights"
	}
	return nil
}

// RemoteDefaultApplier handles contents API resolver defaults.
type RemoteDefaultApplier struct{}

func (r *RemoteDefaultApplier) Domain() string { return "remote" }

func (r *RemoteDefaultApplier) ApplyDefaults(cfg *Config) error {
	rc := &cfg.Remote
	if rc.APIURL == "" {
		rc.APIURL = "https://api.github.com"
	}
	rc.APIURL = strings.TrimRight(rc.APIURL, "/")
	if rc.Branch == "" {
		rc.Branch = "main"
	}
	if len(rc.Paths) == 0 {
		rc.Paths = []string{"content/articles", "content/future-insights"}
	}
	if rc.Timeout <= 0 {
		rc.Timeout = 15 * time.Second
	}

	// An omitted retry block gets linear backoff with two retries (three attempts).
	if rc.Retry.Mode == "" {
		rc.Retry.Mode = RetryBackoffLinear
		if rc.Retry.MaxRetries == 0 {
			rc.Retry.MaxRetries = 2
		}
	} else {
		mode := NormalizeRetryBackoff(string(rc.Retry.Mode))
		if mode == "" {
			return fmt.Errorf("invalid remote.retry.mode: %s", rc.Retry.Mode)
		}
		rc.Retry.Mode = mode
	}
	if rc.Retry.MaxRetries < 0 {
		rc.Retry.MaxRetries = 0
	}
	if rc.Retry.Initial <= 0 {
		rc.Retry.Initial = 500 * time.Millisecond
	}
	if rc.Retry.Max <= 0 {
		rc.Retry.Max = 5 * time.Second
	}
	return nil
}

// RenderDefaultApplier handles renderer defaults.
type RenderDefaultApplier struct{}

func (r *RenderDefaultApplier) Domain() string { return "render" }

func (r *RenderDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Render.HighlightStyle == "" {
		cfg.Render.HighlightStyle = "github"
	}
	if cfg.Render.ExcerptRunes <= 0 {
		cfg.Render.ExcerptRunes = 200
	}
	if cfg.Render.WordsPerMinute <= 0 {
		cfg.Render.WordsPerMinute = 220
	}
	return nil
}

// ServerDefaultApplier handles HTTP server defaults.
type ServerDefaultApplier struct{}

func (s *ServerDefaultApplier) Domain() string { return "server" }

func (s *ServerDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	if cfg.Server.ReadTimeout <= 0 {
		cfg.Server.ReadTimeout = 30 * time.Second
	}
	if cfg.Server.WriteTimeout <= 0 {
		cfg.Server.WriteTimeout = 30 * time.Second
	}
	if cfg.Server.ShutdownTimeout <= 0 {
		cfg.Server.ShutdownTimeout = 10 * time.Second
	}
	return nil
}

// MailDefaultApplier handles mail endpoint defaults.
type MailDefaultApplier struct{}

func (m *MailDefaultApplier) Domain() string { return "mail" }

func (m *MailDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Mail.NewsletterSubject == "" {
		cfg.Mail.NewsletterSubject = "Newsletter signup"
	}
	if cfg.Mail.Timeout <= 0 {
		cfg.Mail.Timeout = 10 * time.Second
	}
	return nil
}

// MonitoringDefaultApplier handles metrics and probe defaults.
type MonitoringDefaultApplier struct{}

func (m *MonitoringDefaultApplier) Domain() string { return "monitoring" }

func (m *MonitoringDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Monitoring.ProbeInterval <= 0 {
		cfg.Monitoring.ProbeInterval = 5 * time.Minute
	}
	return nil
}

// LoggingDefaultApplier normalizes the logging section.
type LoggingDefaultApplier struct{}

func (l *LoggingDefaultApplier) Domain() string { return "logging" }

func (l *LoggingDefaultApplier) ApplyDefaults(cfg *Config) error {
	cfg.Logging.Level = NormalizeLogLevel(string(cfg.Logging.Level))
	cfg.Logging.Format = NormalizeLogFormat(string(cfg.Logging.Format))
	return nil
}

// DefaultAppliers returns the ordered appliers used by Load and Default.
func DefaultAppliers() []DefaultApplier {
	return []DefaultApplier{
		&SiteDefaultApplier{},
		&ContentDefaultApplier{},
		&RemoteDefaultApplier{},
		&RenderDefaultApplier{},
		&ServerDefaultApplier{},
		&MailDefaultApplier{},
		&MonitoringDefaultApplier{},
		&LoggingDefaultApplier{},
	}
}

func applyDefaults(cfg *Config) error {
	for _, applier := range DefaultAppliers() {
		if err := applier.ApplyDefaults(cfg); err != nil {
			return fmt.Errorf("apply %s defaults: %w", applier.Domain(), err)
		}
	}
	return nil
}
