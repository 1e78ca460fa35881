// Package cart holds a shopper's in-memory basket. Nothing is persisted.
package cart

import "stylemart/internal/catalog"

type Item struct {
	Product  catalog.Product `json:"product"`
	Quantity int             `json:"quantity"`
}

// Cart keeps items in insertion order. The zero value is an empty cart.
type Cart struct {
	items []Item
}

// Set stores qty for product. A quantity of zero or less removes it.
func (c *Cart) Set(p catalog.Product, qty int) {
	i := c.index(p.ID)
	switch {
	case qty <= 0 && i >= 0:
		c.items = append(c.items[:i], c.items[i+1:]...)
	case qty <= 0:
	case i >= 0:
		c.items[i].Quantity = qty
	default:
		c.items = append(c.items, Item{Product: p, Quantity: qty})
	}
}

// Add changes the quantity of product by delta and returns the new quantity.
func (c *Cart) Add(p catalog.Product, delta int) int {
	qty := delta
	if i := c.index(p.ID); i >= 0 {
		qty += c.items[i].Quantity
	}
	c.Set(p, qty)
	if qty < 0 {
		return 0
	}
	return qty
}

func (c *Cart) Remove(productID string) {
	if i := c.index(productID); i >= 0 {
		c.items = append(c.items[:i], c.items[i+1:]...)
	}
}

func (c *Cart) Items() []Item {
	out := make([]Item, len(c.items))
	copy(out, c.items)
	return out
}

// Count is the number of units across all lines.
func (c *Cart) Count() int {
	n := 0
	for _, it := range c.items {
		n += it.Quantity
	}
	return n
}

func (c *Cart) Subtotal() int {
	total := 0
	for _, it := range c.items {
		total += it.Product.Price * it.Quantity
	}
	return total
}

func (c *Cart) Empty() bool {
	return len(c.items) == 0
}

func (c *Cart) Clear() {
	c.items = nil
}

func (c *Cart) index(id string) int {
	for i, it := range c.items {
		if it.Product.ID == id {
			return i
		}
	}
	return -1
}
