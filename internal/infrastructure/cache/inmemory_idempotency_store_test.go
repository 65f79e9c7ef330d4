package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryIdempotencyStore_MarkProcessed(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()

	ctx := context.Background()

	newlyMarked, err := store.MarkProcessed(ctx, "event-1", time.Minute)
	require.NoError(t, err)
	assert.True(t, newlyMarked)

	newlyMarked, err = store.MarkProcessed(ctx, "event-1", time.Minute)
	require.NoError(t, err)
	assert.False(t, newlyMarked, "second mark for the same event should report duplicate")

	newlyMarked, err = store.MarkProcessed(ctx, "event-2", time.Minute)
	require.NoError(t, err)
	assert.True(t, newlyMarked, "a different event ID is independent")
}

func TestInMemoryIdempotencyStore_IsProcessed(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()

	ctx := context.Background()

	processed, err := store.IsProcessed(ctx, "unknown")
	require.NoError(t, err)
	assert.False(t, processed)

	_, err = store.MarkProcessed(ctx, "event-1", time.Minute)
	require.NoError(t, err)

	processed, err = store.IsProcessed(ctx, "event-1")
	require.NoError(t, err)
	assert.True(t, processed)
}

func TestInMemoryIdempotencyStore_TTLExpiry(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()

	ctx := context.Background()

	_, err := store.MarkProcessed(ctx, "event-1", 10*time.Millisecond)
	require.NoError(t, err)

	time.Sleep(20 * time.Millisecond)

	processed, err := store.IsProcessed(ctx, "event-1")
	require.NoError(t, err)
	assert.False(t, processed, "entry should expire after its TTL")

	newlyMarked, err := store.MarkProcessed(ctx, "event-1", time.Minute)
	require.NoError(t, err)
	assert.True(t, newlyMarked, "an expired entry can be marked again")
}

func TestInMemoryIdempotencyStore_Size(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()

	ctx := context.Background()
	assert.Equal(t, 0, store.Size())

	_, err := store.MarkProcessed(ctx, "event-1", time.Minute)
	require.NoError(t, err)
	_, err = store.MarkProcessed(ctx, "event-2", time.Minute)
	require.NoError(t, err)

	assert.Equal(t, 2, store.Size())
}

func TestInMemoryIdempotencyStore_CloseIsIdempotent(t *testing.T) {
	store := NewInMemoryIdempotencyStore()

	require.NoError(t, store.Close())
	require.NoError(t, store.Close())
}

func TestInMemoryIdempotencyStore_ConcurrentMarking(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()

	ctx := context.Background()
	const goroutines = 20

	results := make(chan bool, goroutines)
	for i := 0; i < goroutines; i++ {
		go func() {
			newlyMarked, err := store.MarkProcessed(ctx, "contended", time.Minute)
			assert.NoError(t, err)
			results <- newlyMarked
		}()
	}

	winners := 0
	for i := 0; i < goroutines; i++ {
		if <-results {
			winners++
		}
	}
	assert.Equal(t, 1, winners, "exactly one goroutine should win the mark")
}
