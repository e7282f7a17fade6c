package cart

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"fusion6/models"
	"fusion6/store"
)

// StorageKey is where a profile's cart is persisted.
const StorageKey = "cart"

const DefaultAckDelay = 2 * time.Second

type persistedCart struct {
	Items []models.LineItem `json:"items"`
}

// Engine owns one profile's cart. Every action runs to completion under the
// engine lock and is mirrored to the store before the lock is released.
type Engine struct {
	mu     sync.Mutex
	state  models.Cart
	store  *store.Store
	logger *zap.Logger

	ackDelay time.Duration
	ackTimer *time.Timer
	closed   bool
}

type Option func(*Engine)

// WithAckDelay sets how long the last-added acknowledgement stays up.
func WithAckDelay(d time.Duration) Option {
	return func(e *Engine) { e.ackDelay = d }
}

func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// NewEngine restores the cart persisted in st, starting empty when nothing
// usable is stored.
func NewEngine(ctx context.Context, st *store.Store, opts ...Option) *Engine {
	e := &Engine{
		store:    st,
		logger:   zap.NewNop(),
		ackDelay: DefaultAckDelay,
	}
	for _, opt := range opts {
		opt(e)
	}

	saved := store.Load(ctx, st, StorageKey, persistedCart{})
	items, dropped := normalize(saved.Items)
	if dropped > 0 {
		e.logger.Warn("dropped invalid cart lines on restore", zap.Int("dropped", dropped))
	}
	e.state = models.Cart{Items: items}

	return e
}

// Dispatch applies a and returns a copy of the resulting cart.
func (e *Engine) Dispatch(ctx context.Context, a Action) models.Cart {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.dispatchLocked(ctx, a)
}

func (e *Engine) dispatchLocked(ctx context.Context, a Action) models.Cart {
	e.state = Reduce(e.state, a)
	e.persist(ctx)

	switch a.(type) {
	case Add:
		e.scheduleAck()
	case Clear, ClearLastAdded:
		e.stopAck()
	}

	e.logger.Debug("cart action applied",
		zap.String("action", actionName(a)),
		zap.Int("lines", len(e.state.Items)),
		zap.Int("item_count", e.state.ItemCount()))

	return e.state.Clone()
}

func (e *Engine) Add(ctx context.Context, p models.Product) models.Cart {
	return e.Dispatch(ctx, Add{Product: p})
}

func (e *Engine) Remove(ctx context.Context, id string) models.Cart {
	return e.Dispatch(ctx, Remove{ID: id})
}

func (e *Engine) SetQuantity(ctx context.Context, id string, quantity int) models.Cart {
	return e.Dispatch(ctx, SetQuantity{ID: id, Quantity: quantity})
}

func (e *Engine) Clear(ctx context.Context) models.Cart {
	return e.Dispatch(ctx, Clear{})
}

func (e *Engine) ClearLastAdded(ctx context.Context) models.Cart {
	return e.Dispatch(ctx, ClearLastAdded{})
}

// Snapshot returns a deep copy of the current cart.
func (e *Engine) Snapshot() models.Cart {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Clone()
}

// Drain returns the current cart and empties it in one step. An empty cart
// is returned untouched.
func (e *Engine) Drain(ctx context.Context) models.Cart {
	e.mu.Lock()
	defer e.mu.Unlock()

	snapshot := e.state.Clone()
	if !snapshot.IsEmpty() {
		e.dispatchLocked(ctx, Clear{})
	}
	return snapshot
}

// Close cancels the pending acknowledgement timer.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closed = true
	e.stopAck()
}

func (e *Engine) persist(ctx context.Context) {
	e.store.Save(ctx, StorageKey, persistedCart{Items: e.state.Items})
}

func (e *Engine) scheduleAck() {
	e.stopAck()
	if e.closed || e.ackDelay <= 0 {
		return
	}

	var timer *time.Timer
	timer = time.AfterFunc(e.ackDelay, func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		// A newer Add replaced this timer.
		if e.ackTimer != timer {
			return
		}
		e.ackTimer = nil
		e.state = Reduce(e.state, ClearLastAdded{})
		e.persist(context.Background())
	})
	e.ackTimer = timer
}

func (e *Engine) stopAck() {
	if e.ackTimer != nil {
		e.ackTimer.Stop()
		e.ackTimer = nil
	}
}
