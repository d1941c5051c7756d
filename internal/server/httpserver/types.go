package httpserver

import (
	"log/slog"
	"net/http"

	"git.home.luguber.info/inful/insightsite/internal/config"
	"git.home.luguber.info/inful/insightsite/internal/metrics"
	"git.home.luguber.info/inful/insightsite/internal/server/handlers"
)

// Dependencies are the collaborators the site is served from.
type Dependencies struct {
	Config   *config.Config
	Catalog  handlers.Catalog
	Renderer handlers.Renderer
	Mailer   handlers.Mailer

	// Optional: probe status for /api/status.
	Status handlers.StatusSource

	// Optional: request metrics and the /metrics endpoint.
	Recorder          metrics.Recorder
	PrometheusHandler http.Handler

	Logger *slog.Logger
}
