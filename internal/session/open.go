package session

import (
	"context"

	"github.com/hackgods/medi-assist/internal/config"
	redisclient "github.com/hackgods/medi-assist/internal/redis"
)

// Open picks the store from cfg: a file when SessionFile is set, Redis when
// only Redis is configured, memory otherwise. The returned func releases
// whatever the store holds open.
func Open(ctx context.Context, cfg config.Config, namespace string) (*Session, func(), error) {
	switch {
	case cfg.SessionFile != "":
		return New(NewFileStore(cfg.SessionFile)), func() {}, nil
	case cfg.RedisAddr != "":
		rdb, err := redisclient.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisUsername, cfg.RedisPassword)
		if err != nil {
			return nil, nil, err
		}
		store := NewRedisStore(rdb, namespace, cfg.RefreshTokenTTL)
		return New(store), func() { _ = rdb.Close() }, nil
	default:
		return New(NewMemoryStore()), func() {}, nil
	}
}
