package keylock

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLock_MutualExclusion(t *testing.T) {
	kl := New()

	var inside, maxInside int32
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := kl.Lock(context.Background(), "tenant:a")
			assert.NoError(t, err)
			defer unlock()

			n := atomic.AddInt32(&inside, 1)
			for {
				cur := atomic.LoadInt32(&maxInside)
				if n <= cur || atomic.CompareAndSwapInt32(&maxInside, cur, n) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			atomic.AddInt32(&inside, -1)
		}()
	}

	wg.Wait()
	assert.Equal(t, int32(1), maxInside)
	assert.Equal(t, 0, kl.Len())
}

func TestLock_DifferentKeysDoNotBlock(t *testing.T) {
	kl := New()

	unlockA, err := kl.Lock(context.Background(), "a")
	require.NoError(t, err)
	defer unlockA()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	unlockB, err := kl.Lock(ctx, "b")
	require.NoError(t, err)
	unlockB()
}

func TestLock_ContextCancelled(t *testing.T) {
	kl := New()

	unlock, err := kl.Lock(context.Background(), "a")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err = kl.Lock(ctx, "b", "a")
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	// "b" должен быть освобожден после неудачной попытки
	unlockB, err := kl.Lock(context.Background(), "b")
	require.NoError(t, err)
	unlockB()

	unlock()
	assert.Equal(t, 0, kl.Len())
}

func TestLock_MultipleKeysOrderIndependent(t *testing.T) {
	kl := New()
	var wg sync.WaitGroup

	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			unlock, err := kl.Lock(context.Background(), "x", "y")
			assert.NoError(t, err)
			unlock()
		}()
		go func() {
			defer wg.Done()
			unlock, err := kl.Lock(context.Background(), "y", "x", "y")
			assert.NoError(t, err)
			unlock()
		}()
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("deadlock acquiring keys in different order")
	}
}

func TestLock_UnlockIsIdempotent(t *testing.T) {
	kl := New()

	unlock, err := kl.Lock(context.Background(), "a")
	require.NoError(t, err)
	unlock()
	assert.NotPanics(t, unlock)
	assert.Equal(t, 0, kl.Len())
}
