package cart

import "fusion6/models"

// Action is one cart mutation. The set of actions is closed.
type Action interface {
	action()
}

// Add puts one unit of Product in the cart.
type Add struct {
	Product models.Product
}

type Remove struct {
	ID string
}

// SetQuantity replaces a line's quantity; Quantity <= 0 removes the line.
type SetQuantity struct {
	ID       string
	Quantity int
}

type Clear struct{}

type ClearLastAdded struct{}

func (Add) action()            {}
func (Remove) action()         {}
func (SetQuantity) action()    {}
func (Clear) action()          {}
func (ClearLastAdded) action() {}

func actionName(a Action) string {
	switch a.(type) {
	case Add:
		return "add"
	case Remove:
		return "remove"
	case SetQuantity:
		return "set_quantity"
	case Clear:
		return "clear"
	case ClearLastAdded:
		return "clear_last_added"
	default:
		return "unknown"
	}
}
