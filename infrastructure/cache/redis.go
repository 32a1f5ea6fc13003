package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"creator-ops/infrastructure/logger"

	"github.com/redis/go-redis/v9"
)

// RedisOptions is the subset of connection settings the service needs.
type RedisOptions struct {
	Host     string
	Port     string
	Username string
	Password string
	Database string
}

// NewRedisClient connects and pings. Callers fall back to in-process locking on error.
func NewRedisClient(ctx context.Context, opts RedisOptions) (*redis.Client, error) {
	db := 0
	if opts.Database != "" {
		n, err := strconv.Atoi(opts.Database)
		if err != nil {
			return nil, fmt.Errorf("redis database %q: %w", opts.Database, err)
		}
		db = n
	}

	client := redis.NewClient(&redis.Options{
		Addr:        fmt.Sprintf("%s:%s", opts.Host, opts.Port),
		Username:    opts.Username,
		Password:    opts.Password,
		DB:          db,
		DialTimeout: 3 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	logger.GetLogger().WithField("addr", client.Options().Addr).Info("Connected to redis")
	return client, nil
}
