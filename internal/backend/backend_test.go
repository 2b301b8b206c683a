package backend

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"
)

func TestEnvelopeJSON(t *testing.T) {
	tests := []struct {
		name     string
		envelope any
		expected string
	}{
		{
			name:     "failure carries null data",
			envelope: NotFound[*struct{}]("Patient not found"),
			expected: `{"success":false,"data":null,"message":"Patient not found"}`,
		},
		{
			name:     "empty list is an array",
			envelope: List[int](nil, ""),
			expected: `{"success":true,"data":[],"total":0}`,
		},
		{
			name:     "page metadata",
			envelope: List([]int{1, 2}, "").WithPage(1, 10),
			expected: `{"success":true,"data":[1,2],"total":2,"page":1,"limit":10}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := json.Marshal(tt.envelope)
			if err != nil {
				t.Fatalf("marshal: %v", err)
			}
			if string(raw) != tt.expected {
				t.Errorf("Expected %s, got %s", tt.expected, raw)
			}
		})
	}
}

func TestFailKinds(t *testing.T) {
	if env := Invalid[int]("Invalid credentials"); env.Success || env.Kind != KindInvalid {
		t.Errorf("unexpected invalid envelope: %+v", env)
	}
	if env := Unavailable[int]("down"); env.Kind != KindUnavailable {
		t.Errorf("Expected kind %q, got %q", KindUnavailable, env.Kind)
	}
	if env := Cancelled[int](context.Canceled); env.Kind != KindCancelled || env.Message == "" {
		t.Errorf("unexpected cancelled envelope: %+v", env)
	}
}

func TestLatencyDrawWithinBounds(t *testing.T) {
	l := NewLatency(2*time.Millisecond, 5*time.Millisecond)
	for i := 0; i < 200; i++ {
		d := l.Draw()
		if d < 2*time.Millisecond || d > 5*time.Millisecond {
			t.Fatalf("draw %s outside [2ms, 5ms]", d)
		}
	}
}

func TestLatencyDisabled(t *testing.T) {
	if d := NoLatency().Draw(); d != 0 {
		t.Errorf("Expected no delay, got %s", d)
	}
	var l *Latency
	if err := l.Wait(context.Background()); err != nil {
		t.Errorf("nil latency should not fail: %v", err)
	}
}

func TestLatencyWaitHonoursContext(t *testing.T) {
	l := NewLatency(time.Second, time.Second)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	if err := l.Wait(ctx); err == nil {
		t.Fatal("expected context error")
	}
	if time.Since(start) > 500*time.Millisecond {
		t.Error("wait did not stop on cancellation")
	}
}

func TestCounterConcurrentUnique(t *testing.T) {
	c := NewCounter(3)
	const n = 500

	var (
		mu   sync.Mutex
		seen = make(map[int64]bool, n)
		wg   sync.WaitGroup
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id, _ := c.Next(context.Background())
			mu.Lock()
			seen[id] = true
			mu.Unlock()
		}()
	}
	wg.Wait()

	if len(seen) != n {
		t.Fatalf("Expected %d unique ids, got %d", n, len(seen))
	}
	if !seen[4] || !seen[n+3] {
		t.Error("ids should start right after the seed value")
	}
}

func TestHumanID(t *testing.T) {
	tests := []struct {
		prefix   string
		n        int64
		expected string
	}{
		{"PAT", 1, "PAT001"},
		{"APT", 42, "APT042"},
		{"FB", 1234, "FB1234"},
	}
	for _, tt := range tests {
		if got := HumanID(tt.prefix, tt.n); got != tt.expected {
			t.Errorf("Expected %s, got %s", tt.expected, got)
		}
	}
}

func TestRestampStrictlyIncreases(t *testing.T) {
	prev := time.Date(2025, 1, 15, 14, 30, 0, 0, time.UTC)

	if got := Restamp(prev, prev); !got.After(prev) {
		t.Errorf("same instant must advance, got %s", got)
	}
	if got := Restamp(prev, prev.Add(-time.Hour)); !got.After(prev) {
		t.Errorf("clock going backwards must still advance, got %s", got)
	}
	later := prev.Add(time.Minute)
	if got := Restamp(prev, later); !got.Equal(later) {
		t.Errorf("Expected %s, got %s", later, got)
	}
}
