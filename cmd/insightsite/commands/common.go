package commands

import (
	"io"
	"log/slog"
	"os"

	"git.home.luguber.info/inful/insightsite/internal/config"
	"git.home.luguber.info/inful/insightsite/internal/logfields"
)

// Global context passed to subcommands.
type Global struct {
	Logger *slog.Logger
	// Stdout receives command output; os.Stdout when nil.
	Stdout io.Writer
}

func (g *Global) out() io.Writer {
	if g == nil || g.Stdout == nil {
		return os.Stdout
	}
	return g.Stdout
}

func (g *Global) logger() *slog.Logger {
	if g == nil || g.Logger == nil {
		return slog.Default()
	}
	return g.Logger
}

// CLI definition & global flags.
type CLI struct {
	Config  string `short:"c" help:"Configuration file path" default:"config.yaml" type:"path"`
	Verbose bool   `short:"v" help:"Enable verbose logging"`

	Serve   ServeCmd   `cmd:"" help:"Serve the site and JSON API"`
	List    ListCmd    `cmd:"" help:"List the insights the site would serve"`
	Show    ShowCmd    `cmd:"" help:"Show one insight by slug"`
	Lint    LintCmd    `cmd:"" help:"Check content for documents that would be dropped or defaulted"`
	Init    InitCmd    `cmd:"" help:"Initialize a new configuration file"`
	Version VersionCmd `cmd:"" help:"Print version information"`

	cfg    *config.Config
	cfgErr error
}

// AfterApply runs after flag parsing: loads the configuration once and sets
// up the root logger from it.
// nolint:unparam // configuration errors surface when a command asks for Settings.
func (c *CLI) AfterApply() error {
	cfg, found, err := loadConfig(c.Config)
	c.cfg, c.cfgErr = cfg, err

	level := slog.LevelInfo
	format := config.LogFormatText
	if cfg != nil {
		level = cfg.Logging.Level.SlogLevel()
		format = cfg.Logging.Format
	}
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := newLogger(os.Stderr, level, format)
	slog.SetDefault(logger)

	if err == nil && !found {
		logger.Debug("No configuration file, using defaults", logfields.Path(c.Config))
	}
	return nil
}

// Settings returns the configuration loaded by AfterApply.
func (c *CLI) Settings() (*config.Config, error) {
	if c.cfgErr != nil {
		return nil, c.cfgErr
	}
	if c.cfg == nil {
		return config.Default(), nil
	}
	return c.cfg, nil
}

// loadConfig reads path, falling back to the defaults when the file does not exist.
func loadConfig(path string) (*config.Config, bool, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return config.Default(), false, nil
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, true, err
	}
	return cfg, true, nil
}

func newLogger(w io.Writer, level slog.Level, format config.LogFormat) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	if format == config.LogFormatJSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
