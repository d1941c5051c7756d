package retry

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/insightsite/internal/config"
	"git.home.luguber.info/inful/insightsite/internal/foundation/errors"
)

func TestDefaultPolicy(t *testing.T) {
	p := DefaultPolicy()
	assert.Equal(t, config.RetryBackoffLinear, p.Mode)
	assert.Equal(t, 500*time.Millisecond, p.Initial)
	assert.Equal(t, 5*time.Second, p.Max)
	assert.Equal(t, 2, p.MaxRetries)
}

func TestNewPolicyOverrides(t *testing.T) {
	p := NewPolicy(config.RetryBackoffFixed, 5*time.Second, 2*time.Second, 5)
	// initial > max is clamped
	assert.Equal(t, 2*time.Second, p.Initial)
	assert.Equal(t, 2*time.Second, p.Max)
	assert.Equal(t, config.RetryBackoffFixed, p.Mode)
	assert.Equal(t, 5, p.MaxRetries)

	unknown := NewPolicy("sometimes", 0, 0, -1)
	assert.Equal(t, DefaultPolicy(), unknown)
}

func TestFromConfig(t *testing.T) {
	p := FromConfig(config.RetryConfig{Mode: config.RetryBackoffExponential, Initial: time.Millisecond, Max: 4 * time.Millisecond, MaxRetries: 3})
	assert.Equal(t, config.RetryBackoffExponential, p.Mode)
	assert.Equal(t, 3, p.MaxRetries)
	assert.Equal(t, 4*time.Millisecond, p.Delay(3))
}

func TestDelayModes(t *testing.T) {
	fixed := NewPolicy(config.RetryBackoffFixed, 100*time.Millisecond, 500*time.Millisecond, 3)
	for i := 1; i <= 3; i++ {
		if d := fixed.Delay(i); d != 100*time.Millisecond {
			t.Fatalf("fixed attempt %d expected 100ms got %v", i, d)
		}
	}

	linear := NewPolicy(config.RetryBackoffLinear, 100*time.Millisecond, 250*time.Millisecond, 5)
	cases := []struct {
		attempt int
		want    time.Duration
	}{{1, 100 * time.Millisecond}, {2, 200 * time.Millisecond}, {3, 250 * time.Millisecond}, {4, 250 * time.Millisecond}}
	for _, c := range cases {
		assert.Equal(t, c.want, linear.Delay(c.attempt), "linear attempt %d", c.attempt)
	}

	exp := NewPolicy(config.RetryBackoffExponential, 50*time.Millisecond, 160*time.Millisecond, 5)
	expCases := []struct {
		attempt int
		want    time.Duration
	}{{1, 50 * time.Millisecond}, {2, 100 * time.Millisecond}, {3, 160 * time.Millisecond}, {40, 160 * time.Millisecond}}
	for _, c := range expCases {
		assert.Equal(t, c.want, exp.Delay(c.attempt), "exp attempt %d", c.attempt)
	}

	assert.Zero(t, linear.Delay(0))
	assert.Zero(t, linear.Delay(-1))
}

func TestValidate(t *testing.T) {
	require.Error(t, Policy{Mode: config.RetryBackoffLinear, Max: time.Second}.Validate())
	require.Error(t, Policy{Mode: config.RetryBackoffLinear, Initial: time.Second}.Validate())
	require.Error(t, Policy{Initial: time.Second, Max: time.Second, MaxRetries: -1}.Validate())
	require.NoError(t, DefaultPolicy().Validate())
}

func TestDo_RetriesTransientErrors(t *testing.T) {
	p := NewPolicy(config.RetryBackoffFixed, time.Millisecond, time.Millisecond, 2)

	calls := 0
	var retried []int
	err := p.Do(context.Background(), func(context.Context) error {
		calls++
		if calls < 3 {
			return errors.NetworkError("flaky").Build()
		}
		return nil
	}, func(attempt int, _ error) { retried = append(retried, attempt) })

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, []int{1, 2}, retried)
}

func TestDo_GivesUpAfterMaxRetries(t *testing.T) {
	p := NewPolicy(config.RetryBackoffFixed, time.Millisecond, time.Millisecond, 1)

	calls := 0
	err := p.Do(context.Background(), func(context.Context) error {
		calls++
		return errors.RemoteError("still down").Build()
	}, nil)

	require.Error(t, err)
	assert.Equal(t, 2, calls)
}

func TestDo_PermanentErrorNotRetried(t *testing.T) {
	p := NewPolicy(config.RetryBackoffFixed, time.Millisecond, time.Millisecond, 5)

	calls := 0
	err := p.Do(context.Background(), func(context.Context) error {
		calls++
		return stderrors.New("permanent")
	}, nil)

	require.EqualError(t, err, "permanent")
	assert.Equal(t, 1, calls)
}

func TestDo_StopsOnContextCancel(t *testing.T) {
	p := NewPolicy(config.RetryBackoffFixed, time.Hour, time.Hour, 3)
	ctx, cancel := context.WithCancel(context.Background())

	err := p.Do(ctx, func(context.Context) error {
		cancel()
		return errors.NetworkError("flaky").Build()
	}, nil)

	require.ErrorIs(t, err, context.Canceled)
}
