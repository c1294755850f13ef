package keylock

import (
	"context"
	"sort"
	"sync"
)

// KeyLock набор мьютексов, адресуемых строковым ключом
// Записи удаляются, когда на ключ больше никто не претендует, поэтому память не растет
// с количеством когда-либо использованных ключей
type KeyLock struct {
	mu      sync.Mutex
	entries map[string]*entry
}

type entry struct {
	ch   chan struct{}
	refs int
}

// New создает пустой KeyLock
func New() *KeyLock {
	return &KeyLock{entries: make(map[string]*entry)}
}

// Lock захватывает все ключи в отсортированном порядке (защита от deadlock)
// Возвращает функцию освобождения. При отмене ctx уже захваченные ключи освобождаются
func (k *KeyLock) Lock(ctx context.Context, keys ...string) (func(), error) {
	ordered := normalize(keys)
	acquired := make([]string, 0, len(ordered))

	for _, key := range ordered {
		if err := k.acquire(ctx, key); err != nil {
			k.release(acquired)
			return nil, err
		}
		acquired = append(acquired, key)
	}

	var once sync.Once
	return func() {
		once.Do(func() { k.release(acquired) })
	}, nil
}

// Len возвращает количество ключей, которые сейчас удерживаются или ожидаются
func (k *KeyLock) Len() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.entries)
}

func (k *KeyLock) acquire(ctx context.Context, key string) error {
	k.mu.Lock()
	e, ok := k.entries[key]
	if !ok {
		e = &entry{ch: make(chan struct{}, 1)}
		k.entries[key] = e
	}
	e.refs++
	k.mu.Unlock()

	select {
	case e.ch <- struct{}{}:
		return nil
	case <-ctx.Done():
		k.unref(key, e)
		return ctx.Err()
	}
}

func (k *KeyLock) release(keys []string) {
	for i := len(keys) - 1; i >= 0; i-- {
		k.mu.Lock()
		e := k.entries[keys[i]]
		k.mu.Unlock()

		<-e.ch
		k.unref(keys[i], e)
	}
}

func (k *KeyLock) unref(key string, e *entry) {
	k.mu.Lock()
	defer k.mu.Unlock()
	e.refs--
	if e.refs == 0 {
		delete(k.entries, key)
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
