package redisclient

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Sequencer hands out ids with INCR so several processes sharing one store
// never mint the same id.
type Sequencer struct {
	client *redis.Client
	key    string
}

func NewSequencer(client *redis.Client, resource string) *Sequencer {
	return &Sequencer{client: client, key: "seq:" + resource}
}

func (s *Sequencer) Next(ctx context.Context) (int64, error) {
	n, err := s.client.Incr(ctx, s.key).Result()
	if err != nil {
		return 0, fmt.Errorf("incr %s: %w", s.key, err)
	}
	return n, nil
}

var floorScript = redis.NewScript(`
local cur = tonumber(redis.call("GET", KEYS[1]) or "0")
local floor = tonumber(ARGV[1])
if cur < floor then
  redis.call("SET", KEYS[1], floor)
  return floor
end
return cur
`)

// EnsureFloor raises the counter to at least min, so ids issued after a
// reseed start above the highest stored id. It never lowers the counter.
func (s *Sequencer) EnsureFloor(ctx context.Context, min int64) (int64, error) {
	cur, err := floorScript.Run(ctx, s.client, []string{s.key}, min).Int64()
	if err != nil {
		return 0, fmt.Errorf("floor %s: %w", s.key, err)
	}
	return cur, nil
}
