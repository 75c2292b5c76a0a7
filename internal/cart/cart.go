package cart

import (
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ItemSnapshot captures the product fields frozen into a cart line at add time.
// Later catalog edits do not touch lines already in a cart.
type ItemSnapshot struct {
	ProductID uuid.UUID
	Name      string
	Price     decimal.Decimal
	ImageURL  *string
}

// Line is one cart entry: an add-time product snapshot plus a quantity.
type Line struct {
	ItemSnapshot
	Quantity int
}

// Cart holds a single session's lines keyed by product id, in insertion order.
// It is never persisted; a process restart drops all carts.
type Cart struct {
	mu     sync.Mutex
	order  []uuid.UUID
	lines  map[uuid.UUID]*Line
	isOpen bool
}

// New returns an empty cart.
func New() *Cart {
	return &Cart{
		lines: make(map[uuid.UUID]*Line),
	}
}

// AddItem inserts a new line with quantity 1, or bumps the quantity by one
// when the product is already in the cart. The stored snapshot from the first
// add wins.
func (c *Cart) AddItem(item ItemSnapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if line, ok := c.lines[item.ProductID]; ok {
		line.Quantity++
		return
	}
	c.lines[item.ProductID] = &Line{ItemSnapshot: item, Quantity: 1}
	c.order = append(c.order, item.ProductID)
}

// RemoveItem deletes the line for the product. Absent products are a no-op.
func (c *Cart) RemoveItem(productID uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.removeLocked(productID)
}

// UpdateQuantity sets the line's quantity. Zero or negative removes the line.
// Absent products are a no-op.
func (c *Cart) UpdateQuantity(productID uuid.UUID, quantity int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	line, ok := c.lines[productID]
	if !ok {
		return
	}
	if quantity <= 0 {
		c.removeLocked(productID)
		return
	}
	line.Quantity = quantity
}

// DropLines subtracts the given quantities from the matching lines, removing
// a line when nothing is left. Quantity added after the snapshot was taken
// survives; lines for unknown products are a no-op.
func (c *Cart) DropLines(lines []Line) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, dropped := range lines {
		line, ok := c.lines[dropped.ProductID]
		if !ok {
			continue
		}
		line.Quantity -= dropped.Quantity
		if line.Quantity <= 0 {
			c.removeLocked(dropped.ProductID)
		}
	}
}

// Clear drops every line but keeps the panel flag untouched.
func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = make(map[uuid.UUID]*Line)
	c.order = nil
}

// Lines returns the cart contents in insertion order as copies.
func (c *Cart) Lines() []Line {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Line, 0, len(c.order))
	for _, id := range c.order {
		if line, ok := c.lines[id]; ok {
			out = append(out, *line)
		}
	}
	return out
}

// Total sums price*quantity across all lines with exact decimal arithmetic.
func (c *Cart) Total() decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()

	total := decimal.Zero
	for _, line := range c.lines {
		total = total.Add(line.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return total
}

// ItemCount sums quantities across all lines.
func (c *Cart) ItemCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	count := 0
	for _, line := range c.lines {
		count += line.Quantity
	}
	return count
}

// IsOpen reports the cart panel flag.
func (c *Cart) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.isOpen
}

// SetIsOpen toggles the cart panel flag.
func (c *Cart) SetIsOpen(open bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.isOpen = open
}

func (c *Cart) removeLocked(productID uuid.UUID) {
	if _, ok := c.lines[productID]; !ok {
		return
	}
	delete(c.lines, productID)
	for i, id := range c.order {
		if id == productID {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}
