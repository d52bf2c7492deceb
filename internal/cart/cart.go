// Package cart maintains the session's cart lines and favorites set.
// The invariant is one line per (productID, size, color) triple: repeated
// adds merge into the existing line's quantity, and a line whose quantity
// would drop to zero is removed outright.
//
// Every mutation persists the resulting snapshot through the injected
// Store before returning, and the store is the sole source of truth on
// rehydration - there is no merge-on-load.
package cart

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/matthieukhl/storefront/internal/models"
)

// DefaultColor is the color recorded for products without a color
// breakdown.
const DefaultColor = "default"

// Cart aggregates cart lines for one session.
type Cart struct {
	lines []models.CartLine
	store Store
}

// Open rehydrates a cart from its store. A missing or corrupt snapshot
// yields an empty cart, never an error: the snapshot came from local
// storage and may have been truncated or hand-edited.
func Open(store Store) *Cart {
	c := &Cart{lines: []models.CartLine{}, store: store}
	data, ok, err := store.Load()
	if err != nil || !ok {
		return c
	}
	var lines []models.CartLine
	if err := json.Unmarshal(data, &lines); err != nil {
		return c
	}
	if lines != nil {
		c.lines = lines
	}
	return c
}

// AddLine merges quantity into the line keyed by (product.ID, size, color),
// creating the line if the triple is new. A nil color resolves to the
// product's first color, or DefaultColor when the product has none.
//
// No stock cap is enforced here: callers validate quantity against
// inventory.AvailableFor before calling.
func (c *Cart) AddLine(p *models.Product, size string, quantity int, color string) error {
	if p == nil || quantity <= 0 {
		return nil
	}
	if color == "" {
		if len(p.Colors) > 0 {
			color = p.Colors[0].Name
		} else {
			color = DefaultColor
		}
	}
	for i := range c.lines {
		if c.lines[i].ProductID == p.ID && c.lines[i].Size == size && c.lines[i].Color == color {
			c.lines[i].Quantity += quantity
			return c.persist()
		}
	}
	c.lines = append(c.lines, models.CartLine{
		ProductID: p.ID,
		Name:      p.Name,
		Size:      size,
		Color:     color,
		Quantity:  quantity,
		UnitPrice: p.Price,
		Image:     p.Image,
	})
	return c.persist()
}

// RemoveLine deletes the line matching the triple. An empty color removes
// the first (productID, size) match regardless of color, a legacy policy
// kept for callers that predate color variants.
func (c *Cart) RemoveLine(productID, size, color string) error {
	for i := range c.lines {
		if c.lines[i].Matches(productID, size, color) {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return c.persist()
		}
	}
	return nil
}

// SetQuantity overwrites the matched line's quantity. A quantity of zero
// or less removes the line entirely.
func (c *Cart) SetQuantity(productID, size string, quantity int, color string) error {
	if quantity <= 0 {
		return c.RemoveLine(productID, size, color)
	}
	for i := range c.lines {
		if c.lines[i].Matches(productID, size, color) {
			c.lines[i].Quantity = quantity
			return c.persist()
		}
	}
	return nil
}

// Clear empties the cart in a single transition.
func (c *Cart) Clear() error {
	c.lines = []models.CartLine{}
	return c.persist()
}

// Restore replaces the cart contents with a previously captured
// snapshot and persists it. Used to roll back a failed optimistic
// mutation.
func (c *Cart) Restore(lines []models.CartLine) error {
	if lines == nil {
		lines = []models.CartLine{}
	}
	c.lines = lines
	return c.persist()
}

// Lines returns the cart lines in insertion order.
func (c *Cart) Lines() []models.CartLine {
	out := make([]models.CartLine, len(c.lines))
	copy(out, c.lines)
	return out
}

// Total is the sum of unit price times quantity over all lines.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.lines {
		total = total.Add(l.LineTotal())
	}
	return total
}

// Count is the total item quantity across lines, used for the cart badge.
func (c *Cart) Count() int {
	n := 0
	for _, l := range c.lines {
		n += l.Quantity
	}
	return n
}

func (c *Cart) persist() error {
	data, err := json.Marshal(c.lines)
	if err != nil {
		return fmt.Errorf("failed to serialize cart: %w", err)
	}
	if err := c.store.Save(data); err != nil {
		return fmt.Errorf("failed to persist cart: %w", err)
	}
	return nil
}
