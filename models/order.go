package models

import (
	"fmt"
	"strings"
	"time"
)

// OrderStatus advances strictly in declaration order.
type OrderStatus int

const (
	StatusPlaced OrderStatus = iota
	StatusPreparing
	StatusOutForDelivery
	StatusDelivered
)

var statusNames = [...]string{"Placed", "Preparing", "OutForDelivery", "Delivered"}

var statusLabels = [...]string{"Order Placed", "Preparing", "Out for Delivery", "Delivered"}

// OrderStatuses lists every status in timeline order.
func OrderStatuses() []OrderStatus {
	return []OrderStatus{StatusPlaced, StatusPreparing, StatusOutForDelivery, StatusDelivered}
}

func (s OrderStatus) Valid() bool {
	return s >= StatusPlaced && s <= StatusDelivered
}

func (s OrderStatus) Terminal() bool {
	return s == StatusDelivered
}

func (s OrderStatus) String() string {
	if !s.Valid() {
		return fmt.Sprintf("OrderStatus(%d)", int(s))
	}
	return statusNames[s]
}

// Label is the human readable timeline caption.
func (s OrderStatus) Label() string {
	if !s.Valid() {
		return s.String()
	}
	return statusLabels[s]
}

func (s OrderStatus) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid order status %d", int(s))
	}
	return []byte(s.String()), nil
}

func (s *OrderStatus) UnmarshalText(text []byte) error {
	for i, name := range statusNames {
		if strings.EqualFold(name, string(text)) {
			*s = OrderStatus(i)
			return nil
		}
	}
	return fmt.Errorf("invalid order status %q", string(text))
}

type Buyer struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

// Order is immutable once placed except for Status.
type Order struct {
	ID        string      `json:"id"`
	UserID    string      `json:"userId,omitempty"`
	Items     []LineItem  `json:"items"`
	Total     float64     `json:"total"`
	Status    OrderStatus `json:"status"`
	Timestamp time.Time   `json:"timestamp"`
	Buyer     *Buyer      `json:"buyer,omitempty"`
}

// LatestOrder is the record the tracking view reads.
type LatestOrder struct {
	OrderID   string     `json:"orderId"`
	Timestamp time.Time  `json:"timestamp"`
	Items     []LineItem `json:"items"`
	Total     float64    `json:"total"`
}

func (o Order) Latest() LatestOrder {
	return LatestOrder{
		OrderID:   o.ID,
		Timestamp: o.Timestamp,
		Items:     CloneItems(o.Items),
		Total:     o.Total,
	}
}
