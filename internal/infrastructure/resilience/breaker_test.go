package resilience

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errUpstream = errors.New("upstream failed")

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time          { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestBreaker(clock *fakeClock, maxRequests uint32, trip uint32) *Breaker {
	return New("ai", Settings{
		MaxRequests: maxRequests,
		Interval:    time.Minute,
		Timeout:     10 * time.Second,
		ReadyToTrip: func(c Counts) bool { return c.ConsecutiveFailures >= trip },
		Now:         clock.Now,
	})
}

func fail() error    { return errUpstream }
func succeed() error { return nil }

func TestBreakerStateTransitions(t *testing.T) {
	tests := []struct {
		name     string
		requests []func() error
		want     State
	}{
		{"stays closed on successes", []func() error{succeed, succeed, succeed}, StateClosed},
		{"stays closed below threshold", []func() error{fail, fail, succeed, fail}, StateClosed},
		{"opens after consecutive failures", []func() error{fail, fail, fail}, StateOpen},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newTestBreaker(&fakeClock{now: time.Unix(0, 0)}, 1, 3)
			for _, req := range tt.requests {
				_ = b.Do(req)
			}
			assert.Equal(t, tt.want, b.State())
		})
	}
}

func TestBreakerCounts(t *testing.T) {
	b := newTestBreaker(&fakeClock{now: time.Unix(0, 0)}, 1, 3)

	require.NoError(t, b.Do(succeed))
	counts := b.Counts()
	assert.Equal(t, uint32(1), counts.Requests)
	assert.Equal(t, uint32(1), counts.TotalSuccesses)
	assert.Equal(t, uint32(1), counts.ConsecutiveSuccesses)

	assert.ErrorIs(t, b.Do(fail), errUpstream)
	counts = b.Counts()
	assert.Equal(t, uint32(2), counts.Requests)
	assert.Equal(t, uint32(1), counts.TotalFailures)
	assert.Equal(t, uint32(1), counts.ConsecutiveFailures)
	assert.Equal(t, uint32(0), counts.ConsecutiveSuccesses)
}

func TestBreakerIntervalClearsCounts(t *testing.T) {
	clock := &fakeClock{now: time.Unix(0, 0)}
	b := newTestBreaker(clock, 1, 3)

	_ = b.Do(fail)
	_ = b.Do(fail)
	clock.Advance(2 * time.Minute)
	_ = b.Do(fail)

	assert.Equal(t, StateClosed, b.State())
	assert.Equal(t, uint32(1), b.Counts().ConsecutiveFailures)
}

func TestBreakerOpenRejects(t *testing.T) {
	b := newTestBreaker(&fakeClock{now: time.Unix(0, 0)}, 1, 2)
	_ = b.Do(fail)
	_ = b.Do(fail)

	called := false
	err := b.Do(func() error { called = true; return nil })
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.False(t, called)
}

func TestBreakerHalfOpen(t *testing.T) {
	clock := &fakeClock{now: time.Unix(0, 0)}
	b := newTestBreaker(clock, 2, 2)
	_ = b.Do(fail)
	_ = b.Do(fail)
	require.Equal(t, StateOpen, b.State())

	clock.Advance(11 * time.Second)
	assert.Equal(t, StateHalfOpen, b.State())

	require.NoError(t, b.Do(succeed))
	assert.Equal(t, StateHalfOpen, b.State())
	require.NoError(t, b.Do(succeed))
	assert.Equal(t, StateClosed, b.State())
}

func TestBreakerHalfOpenFailureReopens(t *testing.T) {
	clock := &fakeClock{now: time.Unix(0, 0)}
	b := newTestBreaker(clock, 1, 2)
	_ = b.Do(fail)
	_ = b.Do(fail)
	clock.Advance(11 * time.Second)

	assert.ErrorIs(t, b.Do(fail), errUpstream)
	assert.Equal(t, StateOpen, b.State())
}

func TestBreakerCancellationIsNotAFailure(t *testing.T) {
	b := newTestBreaker(&fakeClock{now: time.Unix(0, 0)}, 1, 1)
	err := b.Do(func() error { return context.Canceled })

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, StateClosed, b.State())
}

func TestBreakerCallbacks(t *testing.T) {
	clock := &fakeClock{now: time.Unix(0, 0)}
	var transitions []string

	b := New("ai", Settings{
		Timeout:     time.Second,
		ReadyToTrip: func(c Counts) bool { return c.ConsecutiveFailures >= 2 },
		Now:         clock.Now,
		OnStateChange: func(name string, from, to State) {
			transitions = append(transitions, name+":"+from.String()+"->"+to.String())
		},
	})

	_ = b.Do(fail)
	_ = b.Do(fail)
	clock.Advance(2 * time.Second)
	_ = b.Do(succeed)

	assert.Equal(t, []string{"ai:closed->open", "ai:open->half-open", "ai:half-open->closed"}, transitions)
}

func TestCall(t *testing.T) {
	b := newTestBreaker(&fakeClock{now: time.Unix(0, 0)}, 1, 1)

	v, err := Call(b, func() (string, error) { return "ok", nil })
	require.NoError(t, err)
	assert.Equal(t, "ok", v)

	_, err = Call(b, func() (int, error) { return 0, errUpstream })
	assert.ErrorIs(t, err, errUpstream)
	_, err = Call(b, func() (int, error) { return 1, nil })
	assert.ErrorIs(t, err, ErrCircuitOpen)
}

func TestBreakerPanicCountsAsFailure(t *testing.T) {
	b := newTestBreaker(&fakeClock{now: time.Unix(0, 0)}, 1, 1)
	assert.Panics(t, func() {
		_ = b.Do(func() error { panic("boom") })
	})
	assert.Equal(t, StateOpen, b.State())
}
