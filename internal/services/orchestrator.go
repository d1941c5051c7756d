// Package services starts and stops the long-running parts of the site (the
// content probe and the HTTP server) in dependency order.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"git.home.luguber.info/inful/insightsite/internal/foundation/errors"
	"git.home.luguber.info/inful/insightsite/internal/logfields"
)

// ServiceStatus represents the current state of a service.
type ServiceStatus string

const (
	StatusNotStarted ServiceStatus = "not_started"
	StatusRunning    ServiceStatus = "running"
	StatusStopped    ServiceStatus = "stopped"
	StatusFailed     ServiceStatus = "failed"
)

// ManagedService is a component with a start/stop lifecycle.
type ManagedService interface {
	Name() string

	// Start begins the service. ctx bounds the service's whole lifetime, not
	// just startup, so Start must return once the service is running.
	Start(ctx context.Context) error

	// Stop shuts the service down within ctx's deadline.
	Stop(ctx context.Context) error

	// Dependencies names services that must be running first.
	Dependencies() []string
}

// ServiceInfo describes one registered service.
type ServiceInfo struct {
	Name         string        `json:"name"`
	Status       ServiceStatus `json:"status"`
	Dependencies []string      `json:"dependencies,omitempty"`
	StartedAt    *time.Time    `json:"started_at,omitempty"`
	LastError    string        `json:"last_error,omitempty"`
}

// Orchestrator manages the lifecycle of services with dependency resolution.
type Orchestrator struct {
	mu         sync.RWMutex
	services   map[string]ManagedService
	status     map[string]ServiceStatus
	startedAt  map[string]time.Time
	lastErrors map[string]error
	logger     *slog.Logger

	stopTimeout time.Duration
}

// NewOrchestrator creates an orchestrator that gives each service stopTimeout to shut down.
func NewOrchestrator(stopTimeout time.Duration, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	if stopTimeout <= 0 {
		stopTimeout = 10 * time.Second
	}
	return &Orchestrator{
		services:    make(map[string]ManagedService),
		status:      make(map[string]ServiceStatus),
		startedAt:   make(map[string]time.Time),
		lastErrors:  make(map[string]error),
		logger:      logger,
		stopTimeout: stopTimeout,
	}
}

// Register adds a service.
func (o *Orchestrator) Register(service ManagedService) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	name := service.Name()
	if name == "" {
		return errors.ValidationError("service name cannot be empty").Build()
	}
	if _, exists := o.services[name]; exists {
		return errors.ValidationError("service already registered").WithContext("service", name).Build()
	}

	o.services[name] = service
	o.status[name] = StatusNotStarted
	o.logger.Debug("Service registered", slog.String("service", name), slog.Any("dependencies", service.Dependencies()))
	return nil
}

// StartAll starts every service in dependency order. If one fails, the
// services already started are stopped again.
func (o *Orchestrator) StartAll(ctx context.Context) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	order, err := o.startOrder()
	if err != nil {
		return errors.InternalError("failed to calculate service start order").WithCause(err).Build()
	}

	o.logger.Info("Starting services", logfields.Count(len(order)), slog.Any("order", order))
	for i, name := range order {
		if err := o.start(ctx, name); err != nil {
			o.stopInOrder(reverse(order[:i]))
			return err
		}
	}
	return nil
}

// StopAll stops running services in reverse dependency order.
func (o *Orchestrator) StopAll() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	order, err := o.startOrder()
	if err != nil {
		return errors.InternalError("failed to calculate service stop order").WithCause(err).Build()
	}
	if lastErr := o.stopInOrder(reverse(order)); lastErr != nil {
		return errors.InternalError("some services failed to stop gracefully").WithCause(lastErr).Build()
	}
	return nil
}

// Info returns every registered service, sorted by name.
func (o *Orchestrator) Info() []ServiceInfo {
	o.mu.RLock()
	defer o.mu.RUnlock()

	infos := make([]ServiceInfo, 0, len(o.services))
	for _, name := range o.names() {
		info := ServiceInfo{
			Name:         name,
			Status:       o.status[name],
			Dependencies: o.services[name].Dependencies(),
		}
		if t, ok := o.startedAt[name]; ok {
			info.StartedAt = &t
		}
		if err := o.lastErrors[name]; err != nil {
			info.LastError = err.Error()
		}
		infos = append(infos, info)
	}
	return infos
}

func (o *Orchestrator) names() []string {
	names := make([]string, 0, len(o.services))
	for name := range o.services {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// startOrder is a topological sort of the services; ties resolve by name.
func (o *Orchestrator) startOrder() ([]string, error) {
	visited := make(map[string]bool)
	visiting := make(map[string]bool)
	var order []string

	var visit func(string) error
	visit = func(name string) error {
		if visiting[name] {
			return fmt.Errorf("circular dependency detected involving service: %s", name)
		}
		if visited[name] {
			return nil
		}
		service, exists := o.services[name]
		if !exists {
			return fmt.Errorf("service not found: %s", name)
		}

		visiting[name] = true
		for _, dep := range service.Dependencies() {
			if err := visit(dep); err != nil {
				return err
			}
		}
		visiting[name] = false
		visited[name] = true
		order = append(order, name)
		return nil
	}

	for _, name := range o.names() {
		if err := visit(name); err != nil {
			return nil, err
		}
	}
	return order, nil
}

func (o *Orchestrator) start(ctx context.Context, name string) error {
	started := time.Now()
	if err := o.services[name].Start(ctx); err != nil {
		o.status[name] = StatusFailed
		o.lastErrors[name] = err
		return errors.InternalError("failed to start service").
			WithCause(err).
			WithContext("service", name).
			Build()
	}
	o.status[name] = StatusRunning
	o.startedAt[name] = started
	o.lastErrors[name] = nil
	o.logger.Info("Service started", slog.String("service", name), logfields.DurationMS(float64(time.Since(started).Microseconds())/1000))
	return nil
}

// stopInOrder stops the running services in order and returns the last error.
func (o *Orchestrator) stopInOrder(order []string) error {
	var lastErr error
	for _, name := range order {
		if o.status[name] != StatusRunning {
			continue
		}
		ctx, cancel := context.WithTimeout(context.Background(), o.stopTimeout)
		err := o.services[name].Stop(ctx)
		cancel()
		if err != nil {
			o.status[name] = StatusFailed
			o.lastErrors[name] = err
			lastErr = err
			o.logger.Error("Error stopping service", slog.String("service", name), logfields.Error(err))
			continue
		}
		o.status[name] = StatusStopped
		o.logger.Info("Service stopped", slog.String("service", name))
	}
	return lastErr
}

func reverse(names []string) []string {
	out := make([]string, len(names))
	for i, name := range names {
		out[len(names)-1-i] = name
	}
	return out
}
