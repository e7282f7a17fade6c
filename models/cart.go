package models

import "math"

type LineItem struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Image    string  `json:"image"`
	Category string  `json:"category,omitempty"`
	Quantity int     `json:"quantity"`
}

func NewLineItem(p Product, quantity int) LineItem {
	return LineItem{
		ID:       p.ID,
		Name:     p.Name,
		Price:    p.Price,
		Image:    p.Image,
		Category: p.Category,
		Quantity: quantity,
	}
}

func (li LineItem) Total() float64 {
	return li.Price * float64(li.Quantity)
}

// Cart holds line items in the order they were first added. Totals are
// always derived from Items.
type Cart struct {
	Items     []LineItem `json:"items"`
	LastAdded *LineItem  `json:"lastAddedItem,omitempty"`
}

func (c Cart) Subtotal() float64 {
	var subtotal float64
	for _, item := range c.Items {
		subtotal += item.Total()
	}
	return RoundCents(subtotal)
}

func (c Cart) ItemCount() int {
	var count int
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}

func (c Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

func (c Cart) Item(id string) (LineItem, bool) {
	for _, item := range c.Items {
		if item.ID == id {
			return item, true
		}
	}
	return LineItem{}, false
}

// Clone returns a deep copy that shares no memory with c.
func (c Cart) Clone() Cart {
	out := Cart{Items: CloneItems(c.Items)}
	if c.LastAdded != nil {
		last := *c.LastAdded
		out.LastAdded = &last
	}
	return out
}

func CloneItems(items []LineItem) []LineItem {
	out := make([]LineItem, len(items))
	copy(out, items)
	return out
}

func RoundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
