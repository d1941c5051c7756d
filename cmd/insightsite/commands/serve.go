package commands

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"git.home.luguber.info/inful/insightsite/internal/config"
	"git.home.luguber.info/inful/insightsite/internal/mailer"
	"git.home.luguber.info/inful/insightsite/internal/metrics"
	"git.home.luguber.info/inful/insightsite/internal/probe"
	"git.home.luguber.info/inful/insightsite/internal/server/httpserver"
	"git.home.luguber.info/inful/insightsite/internal/services"
	"git.home.luguber.info/inful/insightsite/internal/version"
)

// ServeCmd implements the 'serve' command.
type ServeCmd struct {
	Addr      string `short:"a" help:"Listen address (overrides server.addr)"`
	MediaDir  string `help:"Directory served for relative media paths (overrides server.media_dir)" type:"path"`
	NoProbe   bool   `help:"Disable the periodic source probe"`
	NoMetrics bool   `help:"Disable the /metrics endpoint"`
}

func (s *ServeCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.Settings()
	if err != nil {
		return err
	}
	s.apply(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return serve(ctx, cfg, g.logger(), nil)
}

func (s *ServeCmd) apply(cfg *config.Config) {
	if s.Addr != "" {
		cfg.Server.Addr = s.Addr
	}
	if s.MediaDir != "" {
		cfg.Server.MediaDir = s.MediaDir
	}
	if s.NoProbe {
		cfg.Monitoring.DisableProbe = true
	}
	if s.NoMetrics {
		cfg.Monitoring.DisableMetrics = true
	}
}

// serve runs the site until ctx is canceled. ready, when set, receives the
// bound address once the listener is up.
func serve(ctx context.Context, cfg *config.Config, logger *slog.Logger, ready func(addr string)) error {
	var (
		recorder    metrics.Recorder = metrics.NoopRecorder{}
		promHandler http.Handler
	)
	if !cfg.Monitoring.DisableMetrics {
		reg := metrics.NewRegistry()
		recorder = metrics.NewPrometheusRecorder(reg)
		promHandler = metrics.HTTPHandler(reg)
	}

	cat, err := buildCatalog(cfg, logger, recorder)
	if err != nil {
		return err
	}

	mailOpts := mailer.FromConfig(cfg.Mail)
	mailOpts.Recorder = recorder
	mailOpts.Logger = logger
	mail := mailer.New(mailOpts)
	if !mail.Configured() {
		logger.Warn("Mail endpoint not configured; contact and newsletter forms are disabled")
	}

	deps := httpserver.Dependencies{
		Config:            cfg,
		Catalog:           cat,
		Renderer:          newRenderer(cfg, logger, recorder),
		Mailer:            mail,
		Recorder:          recorder,
		PrometheusHandler: promHandler,
		Logger:            logger,
	}

	orchestrator := services.NewOrchestrator(cfg.Server.ShutdownTimeout, logger)
	var httpDeps []string
	if !cfg.Monitoring.DisableProbe {
		p := probe.New(cat, probe.Options{Recorder: recorder, Logger: logger})
		sched, err := probe.NewScheduler(p)
		if err != nil {
			return err
		}
		if err := orchestrator.Register(&probeService{scheduler: sched, interval: cfg.Monitoring.ProbeInterval}); err != nil {
			return err
		}
		deps.Status = p
		httpDeps = append(httpDeps, serviceProbe)
	}

	srv, err := httpserver.New(deps)
	if err != nil {
		return err
	}
	if err := orchestrator.Register(&httpService{server: srv, deps: httpDeps}); err != nil {
		return err
	}

	if err := orchestrator.StartAll(ctx); err != nil {
		return err
	}
	logger.Info("insightsite serving",
		slog.String("addr", srv.Addr()),
		slog.String("version", version.Version),
		slog.Any("resolvers", cat.Resolvers()))
	if ready != nil {
		ready(srv.Addr())
	}

	<-ctx.Done()
	logger.Info("Shutting down")
	return orchestrator.StopAll()
}
