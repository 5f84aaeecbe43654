// Package locker реализует распределённую блокировку на Redis (SET NX PX)
// с токеном владельца и атомарным снятием через Lua.
package locker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix            = "lock:"
	defaultRetryInterval = 25 * time.Millisecond
)

var (
	// ErrLockTimeout блокировку не удалось взять за отведённое время
	ErrLockTimeout = errors.New("locker: timed out waiting for lock")

	// ErrLockLost блокировка истекла или перехвачена до снятия
	ErrLockLost = errors.New("locker: lock is no longer held")

	// ErrRedis ошибка обращения к Redis
	ErrRedis = errors.New("locker: redis error")
)

// releaseScript удаляет ключ, только если он всё ещё принадлежит владельцу токена
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Locker выдаёт блокировки с фиксированным TTL
type Locker struct {
	rdb           redis.Cmdable
	ttl           time.Duration
	wait          time.Duration
	retryInterval time.Duration
}

// New создает Locker. ttl ограничивает время жизни блокировки,
// wait - сколько ждать освобождения занятого ключа.
func New(rdb redis.Cmdable, ttl, wait time.Duration) *Locker {
	return &Locker{
		rdb:           rdb,
		ttl:           ttl,
		wait:          wait,
		retryInterval: defaultRetryInterval,
	}
}

// Lock взятая блокировка
type Lock struct {
	rdb   redis.Cmdable
	key   string
	token string
}

// AppointmentsDayKey ключ блокировки календаря арендатора на дату
func AppointmentsDayKey(tenantID int64, date time.Time) string {
	return fmt.Sprintf("appointments:%d:%s", tenantID, date.Format("2006-01-02"))
}

// Acquire берёт блокировку, повторяя попытки до истечения wait или отмены ctx
func (l *Locker) Acquire(ctx context.Context, key string) (*Lock, error) {
	lockKey := keyPrefix + key
	token := uuid.NewString()
	deadline := time.Now().Add(l.wait)

	for {
		ok, err := l.rdb.SetNX(ctx, lockKey, token, l.ttl).Result()
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			return nil, fmt.Errorf("%w: Acquire - setnx %s: %v", ErrRedis, lockKey, err)
		}
		if ok {
			return &Lock{rdb: l.rdb, key: lockKey, token: token}, nil
		}

		if !time.Now().Add(l.retryInterval).Before(deadline) {
			return nil, fmt.Errorf("%w: %s", ErrLockTimeout, key)
		}

		timer := time.NewTimer(l.retryInterval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
}

// Release снимает блокировку, если она всё ещё принадлежит этому владельцу
func (lk *Lock) Release(ctx context.Context) error {
	deleted, err := releaseScript.Run(ctx, lk.rdb, []string{lk.key}, lk.token).Int()
	if err != nil {
		return fmt.Errorf("%w: Release - eval %s: %v", ErrRedis, lk.key, err)
	}
	if deleted == 0 {
		return ErrLockLost
	}
	return nil
}

// Key ключ блокировки в Redis
func (lk *Lock) Key() string {
	return lk.key
}

// WithLock выполняет fn под блокировкой key.
// Ошибка fn возвращается как есть; ошибка снятия возвращается, только если fn завершилась успешно.
func (l *Locker) WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	lock, err := l.Acquire(ctx, key)
	if err != nil {
		return err
	}

	fnErr := fn(ctx)

	// снимаем даже при отменённом запросе, иначе ключ провисит до TTL
	releaseErr := lock.Release(context.WithoutCancel(ctx))
	if fnErr != nil {
		return fnErr
	}
	return releaseErr
}
