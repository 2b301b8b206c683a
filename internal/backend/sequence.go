package backend

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"
)

// Sequencer hands out identifiers. Next is called before any suspension point,
// so two in-flight creates can never observe the same value.
type Sequencer interface {
	Next(ctx context.Context) (int64, error)
}

// Counter is the in-process Sequencer. Values are never reused, even after the
// record holding them is deleted.
type Counter struct {
	last atomic.Int64
}

// NewCounter returns a counter whose first value is start+1.
func NewCounter(start int64) *Counter {
	c := &Counter{}
	c.last.Store(start)
	return c
}

func (c *Counter) Next(_ context.Context) (int64, error) {
	return c.last.Add(1), nil
}

// HumanID formats the display identifier, e.g. HumanID("PAT", 1) == "PAT001".
func HumanID(prefix string, n int64) string {
	return fmt.Sprintf("%s%03d", prefix, n)
}

// Clock is injected so tests can control timestamps.
type Clock func() time.Time

// Restamp returns now, or the smallest step after prev when the clock has not
// advanced, keeping updatedAt strictly increasing.
func Restamp(prev, now time.Time) time.Time {
	if now.After(prev) {
		return now
	}
	return prev.Add(time.Microsecond)
}
