package cart

import "fusion6/models"

// Reduce returns the cart that results from applying a to c. It never
// modifies c.
func Reduce(c models.Cart, a Action) models.Cart {
	next := c.Clone()

	switch a := a.(type) {
	case Add:
		for i := range next.Items {
			if next.Items[i].ID == a.Product.ID {
				next.Items[i].Quantity++
				last := next.Items[i]
				next.LastAdded = &last
				return next
			}
		}
		item := models.NewLineItem(a.Product, 1)
		next.Items = append(next.Items, item)
		next.LastAdded = &item

	case Remove:
		next.Items = without(next.Items, a.ID)

	case SetQuantity:
		if a.Quantity <= 0 {
			next.Items = without(next.Items, a.ID)
			break
		}
		for i := range next.Items {
			if next.Items[i].ID == a.ID {
				next.Items[i].Quantity = a.Quantity
			}
		}

	case Clear:
		next.Items = []models.LineItem{}
		next.LastAdded = nil

	case ClearLastAdded:
		next.LastAdded = nil
	}

	return next
}

func without(items []models.LineItem, id string) []models.LineItem {
	out := items[:0]
	for _, item := range items {
		if item.ID != id {
			out = append(out, item)
		}
	}
	return out
}

// normalize enforces the line invariants on restored data: no empty ids, no
// non-positive quantities, at most one line per id.
func normalize(items []models.LineItem) (out []models.LineItem, dropped int) {
	out = make([]models.LineItem, 0, len(items))
	index := make(map[string]int, len(items))

	for _, item := range items {
		if item.ID == "" || item.Quantity < 1 || item.Price < 0 {
			dropped++
			continue
		}
		if i, ok := index[item.ID]; ok {
			out[i].Quantity += item.Quantity
			dropped++
			continue
		}
		index[item.ID] = len(out)
		out = append(out, item)
	}
	return out, dropped
}
