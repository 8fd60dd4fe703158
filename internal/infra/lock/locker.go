package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// DefaultTTL время жизни блокировки слота, если не задано в конфиге
const DefaultTTL = 5 * time.Second

// VehicleSlotKey ключ блокировки слота автомобиля клиента
func VehicleSlotKey(vehicleClientID int64, date, t string) string {
	return fmt.Sprintf("lock:vehicle-slot:%d:%s:%s", vehicleClientID, date, t)
}

// StaffSlotKey ключ блокировки слота механика
func StaffSlotKey(staffID int64, date, t string) string {
	return fmt.Sprintf("lock:staff-slot:%d:%s:%s", staffID, date, t)
}

// RedisLocker распределенная блокировка слотов на SETNX.
// Снимается Lua-скриптом только владельцем токена.
type RedisLocker struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisLocker создает блокировщик слотов поверх Redis
func NewRedisLocker(client *redis.Client, ttl time.Duration) *RedisLocker {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisLocker{
		client: client,
		ttl:    ttl,
	}
}

// WithLock захватывает все ключи по порядку и выполняет fn.
// Если хотя бы один ключ занят, уже захваченные освобождаются и возвращается ErrLockNotAcquired.
func (l *RedisLocker) WithLock(ctx context.Context, keys []string, fn func(ctx context.Context) error) error {
	token := uuid.NewString()
	acquired := make([]string, 0, len(keys))

	defer func() {
		for _, key := range acquired {
			_ = l.release(context.WithoutCancel(ctx), key, token)
		}
	}()

	for _, key := range keys {
		ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrAcquire, key, err)
		}
		if !ok {
			return fmt.Errorf("%w: %s", ErrLockNotAcquired, key)
		}
		acquired = append(acquired, key)
	}

	ctxWithTimeout, cancel := context.WithTimeout(ctx, l.ttl)
	defer cancel()

	return fn(ctxWithTimeout)
}

var unlockScript = redis.NewScript(`
local val = redis.call("GET", KEYS[1])
if val == ARGV[1] then
  return redis.call("DEL", KEYS[1])
else
  return 0
end
`)

func (l *RedisLocker) release(ctx context.Context, key, token string) error {
	_, err := unlockScript.Run(ctx, l.client, []string{key}, token).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("release slot lock: %w", err)
	}
	return nil
}

// NoopLocker используется, когда Redis выключен в конфиге.
// Гонку в этом случае закрывают SERIALIZABLE транзакция и уникальные индексы.
type NoopLocker struct{}

// NewNoopLocker создает блокировщик-заглушку
func NewNoopLocker() *NoopLocker {
	return &NoopLocker{}
}

// WithLock просто выполняет fn
func (NoopLocker) WithLock(ctx context.Context, _ []string, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
