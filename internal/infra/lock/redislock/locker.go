// Package redislock serializes reservations across engine instances.
// Each key is a Redis string set with SET NX PX holding a random token;
// release deletes the key only while it still holds that token.
package redislock

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	DefaultTTL           = 10 * time.Second
	DefaultRetryInterval = 25 * time.Millisecond
	DefaultPrefix        = "lock"

	releaseTimeout = 2 * time.Second
)

var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0
`)

// Options параметры блокировки
type Options struct {
	// TTL ограничивает время жизни ключа, если процесс упал, не освободив его
	TTL time.Duration
	// RetryInterval пауза между попытками захвата занятого ключа
	RetryInterval time.Duration
	Prefix        string
}

// Locker распределенная блокировка по набору ключей
type Locker struct {
	client redis.UniversalClient
	opts   Options
	log    Logger
}

// New создает Locker. Нулевые значения Options заменяются значениями по умолчанию
func New(client redis.UniversalClient, opts Options, log Logger) *Locker {
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}
	if opts.RetryInterval <= 0 {
		opts.RetryInterval = DefaultRetryInterval
	}
	if opts.Prefix == "" {
		opts.Prefix = DefaultPrefix
	}
	return &Locker{client: client, opts: opts, log: log}
}

// Lock захватывает все ключи в отсортированном порядке и возвращает функцию освобождения.
// При отмене ctx или ошибке Redis уже захваченные ключи освобождаются
func (l *Locker) Lock(ctx context.Context, keys ...string) (func(), error) {
	token := uuid.NewString()
	ordered := normalize(keys)
	acquired := make([]string, 0, len(ordered))

	for _, key := range ordered {
		redisKey := l.opts.Prefix + ":" + key
		if err := l.acquire(ctx, redisKey, token); err != nil {
			l.release(acquired, token)
			return nil, err
		}
		acquired = append(acquired, redisKey)
	}

	var once sync.Once
	return func() {
		once.Do(func() { l.release(acquired, token) })
	}, nil
}

func (l *Locker) acquire(ctx context.Context, key, token string) error {
	ticker := time.NewTicker(l.opts.RetryInterval)
	defer ticker.Stop()

	for {
		ok, err := l.client.SetNX(ctx, key, token, l.opts.TTL).Result()
		if err != nil {
			if ctx.Err() != nil {
				return fmt.Errorf("%w: %s: %w", ErrNotAcquired, key, ctx.Err())
			}
			return fmt.Errorf("%w: SETNX %s: %v", ErrRedis, key, err)
		}
		if ok {
			return nil
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: %s: %w", ErrNotAcquired, key, ctx.Err())
		case <-ticker.C:
		}
	}
}

// release не зависит от контекста запроса: отмененный запрос все равно должен отдать ключи
func (l *Locker) release(keys []string, token string) {
	if len(keys) == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), releaseTimeout)
	defer cancel()

	for i := len(keys) - 1; i >= 0; i-- {
		if err := releaseScript.Run(ctx, l.client, []string{keys[i]}, token).Err(); err != nil {
			// Ключ истечет по TTL
			l.log.Warn("redislock: failed to release key=%s: %v", keys[i], err)
		}
	}
}

func normalize(keys []string) []string {
	seen := make(map[string]struct{}, len(keys))
	out := make([]string, 0, len(keys))
	for _, key := range keys {
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, key)
	}
	sort.Strings(out)
	return out
}
