// Package redisclient создает подключение к Redis с проверкой доступности.
package redisclient

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrConnect Redis недоступен при старте
var ErrConnect = errors.New("redisclient: failed to connect to redis")

// Config параметры подключения
type Config struct {
	Address  string
	Password string
	DB       int
	PoolSize int
}

// New создает клиента и проверяет соединение PING с таймаутом
func New(cfg Config) (*redis.Client, error) {
	if cfg.Address == "" {
		cfg.Address = "localhost:6379"
	}
	if cfg.PoolSize == 0 {
		cfg.PoolSize = 10
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("%w: %s: %v", ErrConnect, cfg.Address, err)
	}

	return rdb, nil
}
