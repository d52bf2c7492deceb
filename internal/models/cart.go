package models

import "github.com/shopspring/decimal"

// CartLine is one row in a cart, uniquely keyed by (ProductID, Size, Color).
// Quantity is always >= 1; a line that would drop to zero is removed, not
// kept at zero.
type CartLine struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	Size      string          `json:"size"`
	Color     string          `json:"color"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Image     string          `json:"image"`
}

// LineTotal is the line's price contribution.
func (l CartLine) LineTotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Matches reports whether the line is the one keyed by the given triple.
// An empty color matches any color; callers that care about color must
// pass it explicitly.
func (l CartLine) Matches(productID, size, color string) bool {
	if l.ProductID != productID || l.Size != size {
		return false
	}
	return color == "" || l.Color == color
}
