package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ColorVariant is one color option of a product with its own stock counter.
// Names are unique within a product.
type ColorVariant struct {
	Name  string `json:"name" db:"name"`
	Code  string `json:"code" db:"code"` // hex, e.g. "#1a1a1a"
	Stock int    `json:"stock" db:"stock"`
}

// SizeVariant is one size option of a product with its own stock counter.
// Labels are unique within a product.
type SizeVariant struct {
	Label string `json:"size" db:"label"`
	Stock int    `json:"stock" db:"stock"`
}

// Product is the canonical product shape. Color and size stock are tracked
// independently; there is no per-(color,size) joint counter. TotalStock is
// only meaningful when the product has no variant breakdown.
type Product struct {
	ID          string          `json:"id" db:"id"`
	Name        string          `json:"name" db:"name"`
	Description string          `json:"description" db:"description"`
	Category    string          `json:"category" db:"category"`
	Price       decimal.Decimal `json:"price" db:"price"`
	Image       string          `json:"image" db:"image"`
	Colors      []ColorVariant  `json:"colors"`
	Sizes       []SizeVariant   `json:"sizes"`
	TotalStock  int             `json:"totalStock" db:"total_stock"`
	CreatedAt   time.Time       `json:"createdAt" db:"created_at"`
}

// HasVariants reports whether availability must be derived from the
// color/size breakdown rather than TotalStock.
func (p *Product) HasVariants() bool {
	return len(p.Colors) > 0 && len(p.Sizes) > 0
}

// ColorByName returns the color variant with the given name, if present.
func (p *Product) ColorByName(name string) (ColorVariant, bool) {
	for _, c := range p.Colors {
		if c.Name == name {
			return c, true
		}
	}
	return ColorVariant{}, false
}

// SizeByLabel returns the size variant with the given label, if present.
func (p *Product) SizeByLabel(label string) (SizeVariant, bool) {
	for _, s := range p.Sizes {
		if s.Label == label {
			return s, true
		}
	}
	return SizeVariant{}, false
}

// Product categories
const (
	CategoryClothing = "clothing"
	CategoryShoes    = "shoes"
	CategoryBags     = "bags"
	CategorySports   = "sports"
)
