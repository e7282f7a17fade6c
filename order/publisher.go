package order

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"fusion6/models"
)

const SubjectOrderPlaced = "order.placed"

type Publisher interface {
	PublishOrderPlaced(ctx context.Context, order *models.Order) error
	Close()
}

type OrderPlacedEvent struct {
	OrderID   string  `json:"order_id"`
	UserID    string  `json:"user_id,omitempty"`
	ItemCount int     `json:"item_count"`
	Total     float64 `json:"total"`
	PlacedAt  string  `json:"placed_at"`
}

type NatsPublisher struct {
	nc     *nats.Conn
	logger *zap.Logger
}

func NewNatsPublisher(ctx context.Context, url string, logger *zap.Logger) (*NatsPublisher, error) {
	var nc *nats.Conn
	var err error

	for i := 0; i < 3; i++ {
		nc, err = nats.Connect(url,
			nats.Name("fusion6"),
			nats.MaxReconnects(5),
			nats.ReconnectWait(2*time.Second),
			nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
				logger.Warn("NATS disconnected", zap.Error(err))
			}),
			nats.ReconnectHandler(func(nc *nats.Conn) {
				logger.Info("NATS reconnected", zap.String("url", nc.ConnectedUrl()))
			}),
		)
		if err == nil {
			logger.Info("connected to NATS", zap.String("url", url))
			return &NatsPublisher{nc: nc, logger: logger}, nil
		}

		logger.Warn("failed to connect to NATS", zap.Int("attempt", i+1), zap.Error(err))

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("failed to connect to NATS: %w", err)
		case <-time.After(2 * time.Second):
		}
	}

	return nil, fmt.Errorf("failed to connect to NATS after retries: %w", err)
}

func (p *NatsPublisher) PublishOrderPlaced(ctx context.Context, order *models.Order) error {
	event := OrderPlacedEvent{
		OrderID:   order.ID,
		UserID:    order.UserID,
		ItemCount: len(order.Items),
		Total:     order.Total,
		PlacedAt:  order.Timestamp.Format(time.RFC3339),
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	for i := 0; i < 3; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err := p.nc.Publish(SubjectOrderPlaced, data); err != nil {
			p.logger.Warn("failed to publish to NATS", zap.Int("attempt", i+1), zap.Error(err))
			time.Sleep(time.Second)
			continue
		}
		if err := p.nc.FlushTimeout(2 * time.Second); err != nil {
			p.logger.Warn("failed to flush NATS connection", zap.Error(err))
			continue
		}

		p.logger.Info("published order.placed event", zap.String("order_id", order.ID))
		return nil
	}

	return fmt.Errorf("failed to publish %s after retries", SubjectOrderPlaced)
}

func (p *NatsPublisher) Close() {
	if p.nc != nil && !p.nc.IsClosed() {
		p.nc.Close()
		p.logger.Info("NATS connection closed")
	}
}

// NoopPublisher is used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) PublishOrderPlaced(ctx context.Context, order *models.Order) error {
	return nil
}

func (NoopPublisher) Close() {}
