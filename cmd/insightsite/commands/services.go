package commands

import (
	"context"
	"time"

	"git.home.luguber.info/inful/insightsite/internal/probe"
	"git.home.luguber.info/inful/insightsite/internal/server/httpserver"
	"git.home.luguber.info/inful/insightsite/internal/services"
)

const (
	serviceProbe = "probe"
	serviceHTTP  = "http"
)

type probeService struct {
	scheduler *probe.Scheduler
	interval  time.Duration
}

func (p *probeService) Name() string                    { return serviceProbe }
func (p *probeService) Dependencies() []string          { return nil }
func (p *probeService) Start(ctx context.Context) error { return p.scheduler.Start(ctx, p.interval) }
func (p *probeService) Stop(context.Context) error      { return p.scheduler.Stop() }

type httpService struct {
	server *httpserver.Server
	deps   []string
}

func (h *httpService) Name() string                    { return serviceHTTP }
func (h *httpService) Dependencies() []string          { return h.deps }
func (h *httpService) Start(ctx context.Context) error { return h.server.Start(ctx) }
func (h *httpService) Stop(ctx context.Context) error  { return h.server.Stop(ctx) }

var (
	_ services.ManagedService = (*probeService)(nil)
	_ services.ManagedService = (*httpService)(nil)
)
