package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/insightsite/internal/foundation/errors"
)

// Config represents the application configuration.
type Config struct {
	Site       SiteConfig       `yaml:"site"`
	Content    ContentConfig    `yaml:"content"`
	Remote     RemoteConfig     `yaml:"remote"`
	Render     RenderConfig     `yaml:"render"`
	Server     ServerConfig     `yaml:"server"`
	Mail       MailConfig       `yaml:"mail"`
	Monitoring MonitoringConfig `yaml:"monitoring"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// SiteConfig holds brand-level metadata used by the page templates.
type SiteConfig struct {
	Title       string `yaml:"title"`
	Tagline     string `yaml:"tagline,omitempty"`
	Description string `yaml:"description,omitempty"`
	BaseURL     string `yaml:"base_url,omitempty"`
	About       string `yaml:"about,omitempty"`
}

// ContentConfig controls the local content sources and the normalizer defaults.
type ContentConfig struct {
	// DisableBundled skips the content compiled into the binary.
	DisableBundled bool `yaml:"disable_bundled,omitempty"`
	// Directories scanned by the filesystem resolver, in order.
	Directories []string `yaml:"directories,omitempty"`
	// Extensions recognized as content files (with leading dot).
	Extensions []string `yaml:"extensions,omitempty"`
	// FallbackFile optionally replaces the built-in fallback list (YAML list of documents).
	FallbackFile string         `yaml:"fallback_file,omitempty"`
	Defaults     DefaultsConfig `yaml:"defaults"`
}

// DefaultsConfig is the default-value table applied by the front matter normalizer.
type DefaultsConfig struct {
	Title       string `yaml:"title"`
	Author      string `yaml:"author"`
	Description string `yaml:"description"`
	Category    string `yaml:"category"`
}

// RemoteConfig configures the repository contents API resolver.
type RemoteConfig struct {
	Enabled bool          `yaml:"enabled"`
	APIURL  string        `yaml:"api_url,omitempty"`
	Owner   string        `yaml:"owner,omitempty"`
	Repo    string        `yaml:"repo,omitempty"`
	Branch  string        `yaml:"branch,omitempty"`
	Paths   []string      `yaml:"paths,omitempty"`
	Token   string        `yaml:"token,omitempty"`
	Timeout time.Duration `yaml:"timeout,omitempty"`
	Retry   RetryConfig   `yaml:"retry"`
}

// RetryConfig holds the backoff settings for transient remote failures.
type RetryConfig struct {
	Mode       RetryBackoffMode `yaml:"mode,omitempty"`
	Initial    time.Duration    `yaml:"initial,omitempty"`
	Max        time.Duration    `yaml:"max,omitempty"`
	MaxRetries int              `yaml:"max_retries,omitempty"`
}

// RenderConfig tunes the Markdown renderer.
type RenderConfig struct {
	HighlightStyle string `yaml:"highlight_style,omitempty"`
	ExcerptRunes   int    `yaml:"excerpt_runes,omitempty"`
	WordsPerMinute int    `yaml:"words_per_minute,omitempty"`
}

// ServerConfig configures the HTTP site.
type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	ReadTimeout     time.Duration `yaml:"read_timeout,omitempty"`
	WriteTimeout    time.Duration `yaml:"write_timeout,omitempty"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout,omitempty"`
	// MediaDir is served under /media/ when set.
	MediaDir string `yaml:"media_dir,omitempty"`
}

// MailConfig configures the mail-send endpoint used by the contact and newsletter forms.
type MailConfig struct {
	Endpoint          string        `yaml:"endpoint,omitempty"`
	Token             string        `yaml:"token,omitempty"`
	NewsletterSubject string        `yaml:"newsletter_subject,omitempty"`
	Timeout           time.Duration `yaml:"timeout,omitempty"`
}

// MonitoringConfig configures metrics and the periodic source probe.
type MonitoringConfig struct {
	DisableMetrics bool          `yaml:"disable_metrics,omitempty"`
	DisableProbe   bool          `yaml:"disable_probe,omitempty"`
	ProbeInterval  time.Duration `yaml:"probe_interval,omitempty"`
}

// LoggingConfig selects the root logger level and output format.
type LoggingConfig struct {
	Level  LogLevel  `yaml:"level,omitempty"`
	Format LogFormat `yaml:"format,omitempty"`
}

// Default returns a configuration with every default applied, used when no file is present.
func Default() *Config {
	cfg := &Config{}
	if err := applyDefaults(cfg); err != nil {
		// defaults for an empty config never fail
		panic(err)
	}
	return cfg
}

// Load loads configuration from the specified file.
func Load(configPath string) (*Config, error) {
	if err := loadEnvFile(); err != nil {
		fmt.Fprintf(os.Stderr, "Note: .env file not found or couldn't be loaded: %v\n", err)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.ConfigError("configuration file not found").
				WithContext("path", configPath).
				Build()
		}
		return nil, errors.ConfigError("failed to read config file").
			WithCause(err).
			WithContext("path", configPath).
			Build()
	}

	return Parse(data)
}

// Parse decodes YAML configuration bytes, expanding ${VAR} references and applying defaults.
func Parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, errors.ConfigError("failed to unmarshal config").WithCause(err).Build()
	}
	if err := applyDefaults(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Init creates a new configuration file with example content.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return errors.ConfigError("configuration file already exists (use --force to overwrite)").
			WithContext("path", configPath).
			Build()
	}

	example := Config{
		Site: SiteConfig{
			Title:       "Counsel & Craft",
			Tagline:     "Careers, craft and the future of legal work",
			Description: "Insights for lawyers building the next chapter of their careers.",
			BaseURL:     "https://example.com",
		},
		Content: ContentConfig{
			Directories: []string{"content/articles", "content/future-insights"},
		},
		Remote: RemoteConfig{
			Enabled: false,
			Owner:   "example",
			Repo:    "site-content",
			Branch:  "main",
			Paths:   []string{"content/articles", "content/future-insights"},
			Token:   "${INSIGHTSITE_REMOTE_TOKEN}",
		},
		Mail: MailConfig{
			Endpoint: "https://mail.example.com/send",
			Token:    "${INSIGHTSITE_MAIL_TOKEN}",
		},
	}
	if err := applyDefaults(&example); err != nil {
		return err
	}

	data, err := yaml.Marshal(&example)
	if err != nil {
		return errors.InternalError("failed to marshal config").WithCause(err).Build()
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return errors.FileSystemError("failed to write config file").
			WithCause(err).
			WithContext("path", configPath).
			Build()
	}
	return nil
}
