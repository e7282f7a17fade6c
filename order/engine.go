package order

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"fusion6/models"
	"fusion6/store"
)

// Storage keys. KeyOrders is used both for a profile's log and for the
// shop-wide log read by the admin pages.
const (
	KeyOrders      = "orders"
	KeyLatestOrder = "latestOrder"
)

var (
	ErrEmptyCartCheckout = errors.New("cannot place an order from an empty cart")
	ErrOrderNotFound     = errors.New("order not found")
)

// CartSource hands over the cart being checked out, leaving it empty.
type CartSource interface {
	Drain(ctx context.Context) models.Cart
}

type Engine struct {
	shop      *store.Store
	publisher Publisher
	logger    *zap.Logger

	now   func() time.Time
	newID func() string

	// serializes read-modify-write of the order logs
	mu sync.Mutex
	wg sync.WaitGroup
}

func NewEngine(shop *store.Store, publisher Publisher, logger *zap.Logger) *Engine {
	if publisher == nil {
		publisher = NoopPublisher{}
	}
	return &Engine{
		shop:      shop,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
		newID:     newOrderID,
	}
}

func newOrderID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// PlaceOrder turns the cart held by src into an order. The cart is emptied
// as part of the same step; an empty cart yields ErrEmptyCartCheckout and
// nothing is written.
func (e *Engine) PlaceOrder(ctx context.Context, profile *store.Store, src CartSource, userID string, buyer *models.Buyer) (*models.Order, error) {
	snapshot := src.Drain(ctx)
	if snapshot.IsEmpty() {
		return nil, ErrEmptyCartCheckout
	}

	order := &models.Order{
		ID:        e.newID(),
		UserID:    userID,
		Items:     models.CloneItems(snapshot.Items),
		Total:     snapshot.Subtotal(),
		Status:    models.StatusPlaced,
		Timestamp: e.now().UTC(),
	}
	if buyer != nil && (buyer.Name != "" || buyer.Email != "") {
		b := *buyer
		order.Buyer = &b
	}

	e.mu.Lock()
	e.appendTo(ctx, profile, *order)
	e.appendTo(ctx, e.shop, *order)
	profile.Save(ctx, KeyLatestOrder, order.Latest())
	e.mu.Unlock()

	e.logger.Info("order placed",
		zap.String("order_id", order.ID),
		zap.String("user_id", userID),
		zap.Int("lines", len(order.Items)),
		zap.Float64("total", order.Total))

	e.publish(order)

	return order, nil
}

func (e *Engine) appendTo(ctx context.Context, st *store.Store, order models.Order) {
	orders := store.Load(ctx, st, KeyOrders, []models.Order{})
	st.Save(ctx, KeyOrders, append(orders, order))
}

func (e *Engine) publish(order *models.Order) {
	e.wg.Add(1)
	go func() {
		defer e.wg.Done()

		pubCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := e.publisher.PublishOrderPlaced(pubCtx, order); err != nil {
			e.logger.Warn("failed to publish order.placed event",
				zap.String("order_id", order.ID),
				zap.Error(err))
		}
	}()
}

// Wait blocks until in-flight event publishes have finished.
func (e *Engine) Wait() {
	e.wg.Wait()
}

func (e *Engine) Orders(ctx context.Context, profile *store.Store) []models.Order {
	return store.Load(ctx, profile, KeyOrders, []models.Order{})
}

// ClearOrders empties the profile's order log. The latest-order record used
// for tracking is left alone.
func (e *Engine) ClearOrders(ctx context.Context, profile *store.Store) {
	e.mu.Lock()
	defer e.mu.Unlock()
	profile.Clear(ctx, KeyOrders)
}

func (e *Engine) Latest(ctx context.Context, profile *store.Store) (models.LatestOrder, error) {
	return LoadLatest(ctx, profile)
}

// LoadLatest reads the latest-order record of a profile.
func LoadLatest(ctx context.Context, profile *store.Store) (models.LatestOrder, error) {
	latest := store.Load(ctx, profile, KeyLatestOrder, models.LatestOrder{})
	if latest.OrderID == "" {
		return models.LatestOrder{}, ErrOrderNotFound
	}
	return latest, nil
}

func (e *Engine) ShopOrders(ctx context.Context) []models.Order {
	return store.Load(ctx, e.shop, KeyOrders, []models.Order{})
}

func (e *Engine) ShopOrder(ctx context.Context, id string) (*models.Order, error) {
	for _, o := range e.ShopOrders(ctx) {
		if o.ID == id {
			return &o, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrOrderNotFound, id)
}
