package rdx

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"recreo/config"
	"recreo/logging"
)

// Connect opens a client and pings it. An empty address means publishing
// is disabled and (nil, nil) is returned.
func Connect(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	if cfg.Addr == "" {
		return nil, nil
	}
	conn := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := conn.Ping(ctx).Err(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.Addr, err)
	}
	logging.Info().Str("addr", cfg.Addr).Int("db", cfg.DB).Msg("redis connected")
	return conn, nil
}
