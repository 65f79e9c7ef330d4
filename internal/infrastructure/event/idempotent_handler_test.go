package event

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mfgworks/erp/internal/domain/shared"
	"github.com/mfgworks/erp/internal/infrastructure/cache"
)

type failingStore struct{}

func (failingStore) MarkProcessed(context.Context, string, time.Duration) (bool, error) {
	return false, errors.New("store unavailable")
}
func (failingStore) IsProcessed(context.Context, string) (bool, error) {
	return false, errors.New("store unavailable")
}
func (failingStore) Close() error { return nil }

func TestIdempotentHandler_ProcessesFirstDelivery(t *testing.T) {
	store := cache.NewInMemoryIdempotencyStore()
	defer store.Close()

	inner := &recordingHandler{types: []string{"X"}}
	handler := NewIdempotentHandler(inner, store, zap.NewNop())

	err := handler.Handle(context.Background(), newReceivedEvent(t))

	require.NoError(t, err)
	assert.Equal(t, 1, inner.seen())
	assert.Equal(t, int64(1), handler.GetMetrics().Stats().EventsProcessed)
}

func TestIdempotentHandler_SkipsDuplicateDelivery(t *testing.T) {
	store := cache.NewInMemoryIdempotencyStore()
	defer store.Close()

	inner := &recordingHandler{}
	handler := NewIdempotentHandler(inner, store, zap.NewNop())
	event := newReceivedEvent(t)

	require.NoError(t, handler.Handle(context.Background(), event))
	require.NoError(t, handler.Handle(context.Background(), event))

	assert.Equal(t, 1, inner.seen(), "second delivery of the same event ID is swallowed")
	stats := handler.GetMetrics().Stats()
	assert.Equal(t, int64(1), stats.EventsProcessed)
	assert.Equal(t, int64(1), stats.EventsDuplicate)
}

func TestIdempotentHandler_DistinctEventsBothProcessed(t *testing.T) {
	store := cache.NewInMemoryIdempotencyStore()
	defer store.Close()

	inner := &recordingHandler{}
	handler := NewIdempotentHandler(inner, store, zap.NewNop())

	require.NoError(t, handler.Handle(context.Background(), newReceivedEvent(t)))
	require.NoError(t, handler.Handle(context.Background(), newReceivedEvent(t)))

	assert.Equal(t, 2, inner.seen())
}

func TestIdempotentHandler_StoreFailureProcessesAnyway(t *testing.T) {
	inner := &recordingHandler{}
	handler := NewIdempotentHandler(inner, failingStore{}, zap.NewNop())

	err := handler.Handle(context.Background(), newReceivedEvent(t))

	require.NoError(t, err)
	assert.Equal(t, 1, inner.seen(), "dedup degrades open, never drops events")
}

func TestIdempotentHandler_HandlerErrorPropagates(t *testing.T) {
	store := cache.NewInMemoryIdempotencyStore()
	defer store.Close()

	inner := &recordingHandler{err: errors.New("downstream broken")}
	handler := NewIdempotentHandler(inner, store, zap.NewNop())

	err := handler.Handle(context.Background(), newReceivedEvent(t))

	require.Error(t, err)
	assert.Equal(t, int64(1), handler.GetMetrics().Stats().EventsFailed)
}

func TestIdempotentHandler_Disabled(t *testing.T) {
	store := cache.NewInMemoryIdempotencyStore()
	defer store.Close()

	inner := &recordingHandler{}
	handler := NewIdempotentHandler(inner, store, zap.NewNop(),
		WithIdempotencyConfig(shared.IdempotencyConfig{Enabled: false}))
	event := newReceivedEvent(t)

	require.NoError(t, handler.Handle(context.Background(), event))
	require.NoError(t, handler.Handle(context.Background(), event))

	assert.Equal(t, 2, inner.seen())
}

func TestIdempotentHandler_DelegatesEventTypes(t *testing.T) {
	store := cache.NewInMemoryIdempotencyStore()
	defer store.Close()

	inner := &recordingHandler{types: []string{"A", "B"}}
	handler := NewIdempotentHandler(inner, store, zap.NewNop())
	assert.Equal(t, []string{"A", "B"}, handler.EventTypes())
}

func TestWrapHandlersWithIdempotency(t *testing.T) {
	store := cache.NewInMemoryIdempotencyStore()
	defer store.Close()

	handlers := []shared.EventHandler{&recordingHandler{}, &recordingHandler{}}
	wrapped := WrapHandlersWithIdempotency(handlers, store, zap.NewNop())

	require.Len(t, wrapped, 2)
	for _, h := range wrapped {
		assert.IsType(t, &IdempotentHandler{}, h)
	}
}
