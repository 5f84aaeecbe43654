// Package usage хранит снимок счётчиков использования в Redis (JSON).
package usage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

var (
	// ErrCacheMiss снимка нет в кэше
	ErrCacheMiss = errors.New("usage.cache: miss")

	// ErrRedis ошибка обращения к Redis
	ErrRedis = errors.New("usage.cache: redis error")

	// ErrCodec снимок не удалось (де)сериализовать
	ErrCodec = errors.New("usage.cache: codec error")
)

type entry struct {
	TenantID              int64     `json:"tenantId"`
	Period                string    `json:"period"`
	Users                 int       `json:"users"`
	Clients               int       `json:"clients"`
	AppointmentsThisMonth int       `json:"appointmentsThisMonth"`
	Services              int       `json:"services"`
	UpdatedAt             time.Time `json:"updatedAt"`
}

// Cache кэш счётчиков использования
type Cache struct {
	rdb redis.Cmdable
	ttl time.Duration
}

// NewCache создает кэш; ttl <= 0 означает хранение без срока
func NewCache(rdb redis.Cmdable, ttl time.Duration) *Cache {
	return &Cache{rdb: rdb, ttl: ttl}
}

// Key ключ снимка арендатора за период
func Key(tenantID int64, period string) string {
	return fmt.Sprintf("usage:%d:%s", tenantID, period)
}

// Get читает снимок, ErrCacheMiss если его нет
func (c *Cache) Get(ctx context.Context, tenantID int64, period string) (*domain.UsageCounter, error) {
	raw, err := c.rdb.Get(ctx, Key(tenantID, period)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Get - get key: %v", ErrRedis, err)
	}

	var e entry
	if err := json.Unmarshal(raw, &e); err != nil {
		return nil, fmt.Errorf("%w: Get - unmarshal: %v", ErrCodec, err)
	}

	return &domain.UsageCounter{
		TenantID:              e.TenantID,
		Period:                e.Period,
		Users:                 e.Users,
		Clients:               e.Clients,
		AppointmentsThisMonth: e.AppointmentsThisMonth,
		Services:              e.Services,
		UpdatedAt:             e.UpdatedAt,
	}, nil
}

// Set перезаписывает снимок
func (c *Cache) Set(ctx context.Context, u *domain.UsageCounter) error {
	raw, err := json.Marshal(entry{
		TenantID:              u.TenantID,
		Period:                u.Period,
		Users:                 u.Users,
		Clients:               u.Clients,
		AppointmentsThisMonth: u.AppointmentsThisMonth,
		Services:              u.Services,
		UpdatedAt:             u.UpdatedAt,
	})
	if err != nil {
		return fmt.Errorf("%w: Set - marshal: %v", ErrCodec, err)
	}

	if err := c.rdb.Set(ctx, Key(u.TenantID, u.Period), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("%w: Set - set key: %v", ErrRedis, err)
	}
	return nil
}
