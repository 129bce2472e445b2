package api

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTurnLocksReleaseEvictsEntry(t *testing.T) {
	locks := newTurnLocks()

	release := locks.lock("household-1")
	locks.mu.Lock()
	assert.Len(t, locks.m, 1)
	locks.mu.Unlock()

	release()
	locks.mu.Lock()
	assert.Empty(t, locks.m, "released conversations must not linger in the lock map")
	locks.mu.Unlock()
}

func TestTurnLocksKeepEntryWhileWaiterQueued(t *testing.T) {
	locks := newTurnLocks()

	release := locks.lock("busy")

	acquired := make(chan func())
	go func() {
		acquired <- locks.lock("busy")
	}()

	// Give the waiter time to register its reference before releasing.
	time.Sleep(20 * time.Millisecond)
	locks.mu.Lock()
	require.Len(t, locks.m, 1)
	locks.mu.Unlock()

	release()
	secondRelease := <-acquired
	secondRelease()

	locks.mu.Lock()
	assert.Empty(t, locks.m)
	locks.mu.Unlock()
}

func TestTurnLocksSerializeSameConversation(t *testing.T) {
	locks := newTurnLocks()
	var active, maxActive int
	var mu sync.Mutex
	var wg sync.WaitGroup

	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release := locks.lock("shared")
			defer release()

			mu.Lock()
			active++
			if active > maxActive {
				maxActive = active
			}
			mu.Unlock()

			time.Sleep(time.Millisecond)

			mu.Lock()
			active--
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, maxActive, "turns on one conversation must never overlap")
}

func TestLimiterPoolSweepsIdleEntries(t *testing.T) {
	pool := newLimiterPool(100, 100)

	// Fill the pool to its cap with entries already past the idle cutoff.
	stale := time.Now().Add(-2 * limiterIdleAfter)
	pool.mu.Lock()
	for i := 0; i < maxLimiterEntries; i++ {
		pool.m[fmt.Sprintf("idle-%d", i)] = &limiterEntry{lastSeen: stale}
	}
	pool.mu.Unlock()

	require.True(t, pool.Allow("fresh"))

	pool.mu.Lock()
	defer pool.mu.Unlock()
	assert.Len(t, pool.m, 1, "idle buckets must be swept when the pool is full")
	_, ok := pool.m["fresh"]
	assert.True(t, ok)
}

func TestLimiterPoolKeepsActiveEntries(t *testing.T) {
	pool := newLimiterPool(100, 100)

	require.True(t, pool.Allow("a"))
	require.True(t, pool.Allow("b"))
	require.True(t, pool.Allow("a"))

	pool.mu.Lock()
	defer pool.mu.Unlock()
	assert.Len(t, pool.m, 2, "recently used buckets survive")
}
