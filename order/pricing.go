package order

import "fusion6/models"

// Pricing holds the surcharges shown in the checkout summary. They are never
// stored on an order.
type Pricing struct {
	TaxRate          float64
	DeliveryFee      float64
	FreeDeliveryOver float64
}

var DefaultPricing = Pricing{
	TaxRate:          0.10,
	DeliveryFee:      5,
	FreeDeliveryOver: 50,
}

type Summary struct {
	Subtotal  float64 `json:"subtotal"`
	Tax       float64 `json:"tax"`
	Delivery  float64 `json:"delivery"`
	Total     float64 `json:"total"`
	ItemCount int     `json:"itemCount"`
}

func (p Pricing) Summarize(c models.Cart) Summary {
	subtotal := c.Subtotal()
	tax := models.RoundCents(subtotal * p.TaxRate)

	delivery := p.DeliveryFee
	if subtotal > p.FreeDeliveryOver || c.IsEmpty() {
		delivery = 0
	}

	return Summary{
		Subtotal:  subtotal,
		Tax:       tax,
		Delivery:  delivery,
		Total:     models.RoundCents(subtotal + tax + delivery),
		ItemCount: c.ItemCount(),
	}
}
