package backend

import (
	"context"
	"sync"
	"time"

	"github.com/brianvoe/gofakeit/v7"
)

// Latency simulates the round trip of a network call. Each Wait draws a fresh
// delay uniformly from [min, max].
type Latency struct {
	min   time.Duration
	max   time.Duration
	mu    sync.Mutex
	faker *gofakeit.Faker
}

// NewLatency builds a simulator. A zero max disables waiting entirely.
func NewLatency(min, max time.Duration) *Latency {
	if max < min {
		max = min
	}
	return &Latency{
		min:   min,
		max:   max,
		faker: gofakeit.New(0),
	}
}

// NoLatency is used by tests and by callers that front a real backend.
func NoLatency() *Latency {
	return NewLatency(0, 0)
}

// Draw picks the next delay.
func (l *Latency) Draw() time.Duration {
	if l == nil || l.max <= 0 {
		return 0
	}
	if l.max == l.min {
		return l.min
	}

	l.mu.Lock()
	d := l.faker.Float64Range(float64(l.min), float64(l.max))
	l.mu.Unlock()

	return time.Duration(d)
}

// Wait blocks for one drawn delay or until ctx is done.
func (l *Latency) Wait(ctx context.Context) error {
	d := l.Draw()
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
