package services

import (
	"context"
	stderrors "errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/insightsite/internal/foundation/errors"
)

// journal records lifecycle calls across services.
type journal struct {
	mu     sync.Mutex
	events []string
}

func (j *journal) add(event string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.events = append(j.events, event)
}

func (j *journal) list() []string {
	j.mu.Lock()
	defer j.mu.Unlock()
	return append([]string(nil), j.events...)
}

type mockService struct {
	name      string
	deps      []string
	failStart bool
	failStop  bool
	log       *journal
}

func (m *mockService) Name() string           { return m.name }
func (m *mockService) Dependencies() []string { return m.deps }

func (m *mockService) Start(context.Context) error {
	if m.failStart {
		return stderrors.New("start failure")
	}
	m.log.add("start " + m.name)
	return nil
}

func (m *mockService) Stop(context.Context) error {
	m.log.add("stop " + m.name)
	if m.failStop {
		return stderrors.New("stop failure")
	}
	return nil
}

func newTestOrchestrator() *Orchestrator {
	return NewOrchestrator(0, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestOrchestrator_DependencyOrder(t *testing.T) {
	log := &journal{}
	o := newTestOrchestrator()
	require.NoError(t, o.Register(&mockService{name: "http", deps: []string{"probe"}, log: log}))
	require.NoError(t, o.Register(&mockService{name: "probe", log: log}))

	require.NoError(t, o.StartAll(context.Background()))
	require.NoError(t, o.StopAll())

	assert.Equal(t, []string{"start probe", "start http", "stop http", "stop probe"}, log.list())
	for _, info := range o.Info() {
		assert.Equal(t, StatusStopped, info.Status, info.Name)
		assert.NotNil(t, info.StartedAt)
	}
}

func TestOrchestrator_RegisterValidation(t *testing.T) {
	o := newTestOrchestrator()
	require.NoError(t, o.Register(&mockService{name: "probe", log: &journal{}}))

	err := o.Register(&mockService{name: "probe", log: &journal{}})
	assert.True(t, errors.HasCategory(err, errors.CategoryValidation))

	err = o.Register(&mockService{log: &journal{}})
	assert.True(t, errors.HasCategory(err, errors.CategoryValidation))
}

func TestOrchestrator_StartFailureStopsStartedServices(t *testing.T) {
	log := &journal{}
	o := newTestOrchestrator()
	require.NoError(t, o.Register(&mockService{name: "probe", log: log}))
	require.NoError(t, o.Register(&mockService{name: "http", deps: []string{"probe"}, failStart: true, log: log}))

	err := o.StartAll(context.Background())
	require.Error(t, err)
	assert.Equal(t, []string{"start probe", "stop probe"}, log.list())

	infos := o.Info()
	require.Len(t, infos, 2)
	assert.Equal(t, "http", infos[0].Name)
	assert.Equal(t, StatusFailed, infos[0].Status)
	assert.Equal(t, "start failure", infos[0].LastError)
	assert.Equal(t, StatusStopped, infos[1].Status)
}

func TestOrchestrator_CircularDependency(t *testing.T) {
	o := newTestOrchestrator()
	require.NoError(t, o.Register(&mockService{name: "a", deps: []string{"b"}, log: &journal{}}))
	require.NoError(t, o.Register(&mockService{name: "b", deps: []string{"a"}, log: &journal{}}))

	assert.Error(t, o.StartAll(context.Background()))
}

func TestOrchestrator_MissingDependency(t *testing.T) {
	o := newTestOrchestrator()
	require.NoError(t, o.Register(&mockService{name: "http", deps: []string{"probe"}, log: &journal{}}))

	assert.Error(t, o.StartAll(context.Background()))
}

func TestOrchestrator_StopErrorReported(t *testing.T) {
	log := &journal{}
	o := newTestOrchestrator()
	require.NoError(t, o.Register(&mockService{name: "probe", failStop: true, log: log}))
	require.NoError(t, o.StartAll(context.Background()))

	err := o.StopAll()
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryInternal))
}
