package domain

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultStock is the quantity ceiling assumed when a product carries no
// usable stock value at add time.
const DefaultStock = 10

// Outcome reports how a cart command resolved. Commands never fail; they
// either apply, apply with a clamp, or degrade to a no-op, and the outcome
// lets callers decide whether to surface feedback.
type Outcome string

const (
	// OutcomeApplied means the command changed the cart as requested.
	OutcomeApplied Outcome = "applied"
	// OutcomeClamped means the command changed the cart but the requested
	// quantity was reduced to the line item's stock ceiling.
	OutcomeClamped Outcome = "clamped"
	// OutcomeNoOpNotFound means the referenced line item does not exist.
	OutcomeNoOpNotFound Outcome = "noop_not_found"
	// OutcomeNoOpAtCeiling means the line item is already at its stock
	// ceiling and the quantity was left unchanged.
	OutcomeNoOpAtCeiling Outcome = "noop_at_ceiling"
)

// Changed reports whether the command modified the cart.
func (o Outcome) Changed() bool {
	return o == OutcomeApplied || o == OutcomeClamped
}

// CartLineItem is one row in the cart: a single product and its requested
// quantity, with a denormalized snapshot of the product's display data
// captured at add time. The snapshot is never refreshed if the underlying
// product changes.
type CartLineItem struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Image     string          `json:"image"`
	Category  string          `json:"category"`
	Quantity  int             `json:"quantity"`
	// Stock is the quantity ceiling snapshotted from the catalog at add
	// time. It is used only to clamp quantity locally and is not
	// re-validated against the live catalog.
	Stock int `json:"stock"`
}

// ProductSnapshot carries the product data copied onto a line item at add
// time.
type ProductSnapshot struct {
	ProductID string
	Name      string
	Price     decimal.Decimal
	Image     string
	Category  string
	Stock     int
}

// Cart holds an ordered collection of line items, unique by product ID.
// Line item order is insertion order of first add. Mutation goes through
// the six commands below; each leaves the cart in a valid state.
type Cart struct {
	Items []CartLineItem `json:"items"`
}

// AddItem merges quantity into the existing line item for the product, or
// appends a new line item with a freshly generated ID. Merged quantities
// clamp to the stored snapshot stock; the snapshot taken at first add
// governs, not the stock passed on later calls.
func (c *Cart) AddItem(p ProductSnapshot, quantity int) Outcome {
	if i := c.indexByProductID(p.ProductID); i >= 0 {
		item := &c.Items[i]
		item.Quantity += quantity
		if item.Quantity > item.Stock {
			item.Quantity = item.Stock
			return OutcomeClamped
		}
		return OutcomeApplied
	}

	stock := p.Stock
	if stock <= 0 {
		stock = DefaultStock
	}

	c.Items = append(c.Items, CartLineItem{
		ID:        uuid.NewString(),
		ProductID: p.ProductID,
		Name:      p.Name,
		Price:     p.Price,
		Image:     p.Image,
		Category:  p.Category,
		Quantity:  quantity,
		Stock:     stock,
	})
	return OutcomeApplied
}

// RemoveItem removes the line item with the given ID.
func (c *Cart) RemoveItem(lineItemID string) Outcome {
	i := c.indexByID(lineItemID)
	if i < 0 {
		return OutcomeNoOpNotFound
	}
	c.Items = append(c.Items[:i], c.Items[i+1:]...)
	return OutcomeApplied
}

// UpdateQuantity sets the line item's quantity. A quantity of zero or below
// removes the line item; a quantity above the stock ceiling clamps to it.
func (c *Cart) UpdateQuantity(lineItemID string, quantity int) Outcome {
	i := c.indexByID(lineItemID)
	if i < 0 {
		return OutcomeNoOpNotFound
	}

	if quantity <= 0 {
		c.Items = append(c.Items[:i], c.Items[i+1:]...)
		return OutcomeApplied
	}

	item := &c.Items[i]
	if quantity > item.Stock {
		item.Quantity = item.Stock
		return OutcomeClamped
	}
	item.Quantity = quantity
	return OutcomeApplied
}

// IncrementQuantity raises the line item's quantity by one, refusing to
// exceed the stock ceiling.
func (c *Cart) IncrementQuantity(lineItemID string) Outcome {
	i := c.indexByID(lineItemID)
	if i < 0 {
		return OutcomeNoOpNotFound
	}

	item := &c.Items[i]
	if item.Quantity >= item.Stock {
		return OutcomeNoOpAtCeiling
	}
	item.Quantity++
	return OutcomeApplied
}

// DecrementQuantity lowers the line item's quantity by one. Decrementing
// the last unit removes the line item from the cart.
func (c *Cart) DecrementQuantity(lineItemID string) Outcome {
	i := c.indexByID(lineItemID)
	if i < 0 {
		return OutcomeNoOpNotFound
	}

	item := &c.Items[i]
	if item.Quantity <= 1 {
		c.Items = append(c.Items[:i], c.Items[i+1:]...)
		return OutcomeApplied
	}
	item.Quantity--
	return OutcomeApplied
}

// Clear empties the cart unconditionally.
func (c *Cart) Clear() Outcome {
	c.Items = nil
	return OutcomeApplied
}

// ItemCount returns the sum of quantities across all line items.
func (c *Cart) ItemCount() int {
	var count int
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}

// Subtotal returns the unrounded sum of price * quantity across all line
// items. Display rounding is a presentation concern.
func (c *Cart) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}

// FindByProductID returns the line item referencing the given product.
func (c *Cart) FindByProductID(productID string) (CartLineItem, bool) {
	if i := c.indexByProductID(productID); i >= 0 {
		return c.Items[i], true
	}
	return CartLineItem{}, false
}

func (c *Cart) indexByProductID(productID string) int {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return i
		}
	}
	return -1
}

func (c *Cart) indexByID(lineItemID string) int {
	for i := range c.Items {
		if c.Items[i].ID == lineItemID {
			return i
		}
	}
	return -1
}
