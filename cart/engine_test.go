package cart

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"fusion6/models"
	"fusion6/store"
)

func newTestStore() *store.Store {
	return store.New(store.NewMemoryBackend())
}

func TestEngine_PersistsAfterEveryAction(t *testing.T) {
	ctx := context.Background()
	st := newTestStore()
	e := NewEngine(ctx, st, WithAckDelay(0))

	e.Add(ctx, burger)
	saved := store.Load(ctx, st, StorageKey, persistedCart{})
	require.Len(t, saved.Items, 1)

	e.Add(ctx, fries)
	e.SetQuantity(ctx, "fries", 4)
	saved = store.Load(ctx, st, StorageKey, persistedCart{})
	require.Len(t, saved.Items, 2)
	assert.Equal(t, 4, saved.Items[1].Quantity)

	e.Clear(ctx)
	saved = store.Load(ctx, st, StorageKey, persistedCart{Items: []models.LineItem{{ID: "sentinel"}}})
	assert.Empty(t, saved.Items)
}

func TestEngine_RestoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	st := newTestStore()

	first := NewEngine(ctx, st, WithAckDelay(0))
	first.Add(ctx, bowl)
	first.Add(ctx, burger)
	first.Add(ctx, bowl)
	first.SetQuantity(ctx, "1", 3)

	restored := NewEngine(ctx, st, WithAckDelay(0))

	assert.Equal(t, first.Snapshot().Items, restored.Snapshot().Items)
	assert.Nil(t, restored.Snapshot().LastAdded)
}

func TestEngine_MalformedStorageStartsEmpty(t *testing.T) {
	ctx := context.Background()
	backend := store.NewMemoryBackend()
	require.NoError(t, backend.Set(ctx, StorageKey, []byte(`{"items":"oops"}`), 0))

	e := NewEngine(ctx, store.New(backend))

	assert.True(t, e.Snapshot().IsEmpty())
}

func TestEngine_RestoreDropsInvalidLines(t *testing.T) {
	ctx := context.Background()
	st := newTestStore()
	st.Save(ctx, StorageKey, persistedCart{Items: []models.LineItem{
		{ID: "1", Price: 14.99, Quantity: 1},
		{ID: "2", Price: 12.99, Quantity: 0},
		{ID: "1", Price: 14.99, Quantity: 1},
	}})

	e := NewEngine(ctx, st)

	items := e.Snapshot().Items
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)
}

func TestEngine_LastAddedSelfClears(t *testing.T) {
	ctx := context.Background()
	e := NewEngine(ctx, newTestStore(), WithAckDelay(20*time.Millisecond))
	defer e.Close()

	c := e.Add(ctx, burger)
	require.NotNil(t, c.LastAdded)
	assert.Equal(t, "1", c.LastAdded.ID)

	assert.Eventually(t, func() bool {
		return e.Snapshot().LastAdded == nil
	}, time.Second, 5*time.Millisecond)

	assert.Len(t, e.Snapshot().Items, 1)
}

func TestEngine_CloseCancelsAcknowledgement(t *testing.T) {
	ctx := context.Background()
	e := NewEngine(ctx, newTestStore(), WithAckDelay(10*time.Millisecond))

	e.Add(ctx, burger)
	e.Close()

	time.Sleep(40 * time.Millisecond)
	assert.NotNil(t, e.Snapshot().LastAdded)
}

func TestEngine_SnapshotIsDetached(t *testing.T) {
	ctx := context.Background()
	e := NewEngine(ctx, newTestStore(), WithAckDelay(0))
	e.Add(ctx, burger)

	snap := e.Snapshot()
	snap.Items[0].Quantity = 99

	assert.Equal(t, 1, e.Snapshot().Items[0].Quantity)
}

func TestEngine_Drain(t *testing.T) {
	ctx := context.Background()
	st := newTestStore()
	e := NewEngine(ctx, st, WithAckDelay(0))

	assert.True(t, e.Drain(ctx).IsEmpty())

	e.Add(ctx, burger)
	e.Add(ctx, burger)

	drained := e.Drain(ctx)
	assert.Equal(t, 29.98, drained.Subtotal())
	assert.True(t, e.Snapshot().IsEmpty())
	assert.Empty(t, store.Load(ctx, st, StorageKey, persistedCart{}).Items)
}

func TestRegistry_OneEnginePerProfile(t *testing.T) {
	ctx := context.Background()
	backend := store.NewMemoryBackend()
	profiles := store.NewProfiles(store.New(backend), store.New(backend, store.WithTTL(time.Hour)))
	r := NewRegistry(profiles, zap.NewNop(), Limits{}, WithAckDelay(0))
	defer r.Close()

	a := r.For(ctx, "a")
	assert.Same(t, a, r.For(ctx, "a"))

	a.Add(ctx, burger)
	assert.True(t, r.For(ctx, "b").Snapshot().IsEmpty())

	saved := store.Load(ctx, profiles.Local("a"), StorageKey, persistedCart{})
	assert.Len(t, saved.Items, 1)
}

func newTestProfiles() *store.Profiles {
	backend := store.NewMemoryBackend()
	return store.NewProfiles(store.New(backend), store.New(backend, store.WithTTL(time.Hour)))
}

func TestRegistry_EvictsIdleEngines(t *testing.T) {
	ctx := context.Background()
	profiles := newTestProfiles()
	r := NewRegistry(profiles, zap.NewNop(), Limits{IdleTimeout: time.Minute}, WithAckDelay(0))
	defer r.Close()

	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return now }

	for i := 0; i < 100; i++ {
		r.For(ctx, fmt.Sprintf("guest-%d", i)).Snapshot()
	}
	active := r.For(ctx, "active")
	active.Add(ctx, burger)
	assert.Equal(t, 101, r.Len())

	now = now.Add(50 * time.Second)
	assert.Same(t, active, r.For(ctx, "active"))

	now = now.Add(40 * time.Second)
	r.For(ctx, "active")
	assert.Equal(t, 1, r.Len())

	now = now.Add(2 * time.Minute)
	restored := r.For(ctx, "active")
	assert.NotSame(t, active, restored)
	assert.Equal(t, 1, restored.Snapshot().ItemCount())
}

func TestRegistry_CapsLiveEngines(t *testing.T) {
	ctx := context.Background()
	r := NewRegistry(newTestProfiles(), zap.NewNop(), Limits{IdleTimeout: time.Hour, MaxEngines: 3}, WithAckDelay(0))
	defer r.Close()

	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return now }

	for i := 0; i < 10; i++ {
		now = now.Add(time.Second)
		r.For(ctx, fmt.Sprintf("guest-%d", i)).Snapshot()
	}
	assert.Equal(t, 3, r.Len())

	newest := r.For(ctx, "guest-9")
	now = now.Add(time.Second)
	r.For(ctx, "guest-10")
	assert.Same(t, newest, r.For(ctx, "guest-9"))
}
