package redislock

import "errors"

var (
	// ErrNotAcquired возвращается, когда ключ не удалось захватить до отмены контекста
	ErrNotAcquired = errors.New("redislock: lock not acquired")

	// ErrRedis возвращается при ошибках обращения к Redis
	ErrRedis = errors.New("redislock: redis error")
)
