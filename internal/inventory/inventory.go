// Package inventory derives purchasable quantities from a product's
// color/size stock matrix. Stock is tracked per color and per size
// independently, not per exact combination, so availability for a pair is
// the minimum of the two counters: a conservative floor, not a true joint
// count. A joint (color x size) matrix does not exist in the data model;
// if one is ever added this package should be replaced, not patched.
//
// Product data originates from an admin form and is not fully trusted, so
// every function here is total: missing or malformed variant data yields
// zero/false/empty, never an error.
package inventory

import "github.com/matthieukhl/storefront/internal/models"

// AvailableFor returns how many units of the given (color, size) pair can
// be purchased. Products without a variant breakdown are treated as a
// single undivided pool of TotalStock.
func AvailableFor(p *models.Product, color, size string) int {
	if p == nil {
		return 0
	}
	if !p.HasVariants() {
		if p.TotalStock < 0 {
			return 0
		}
		return p.TotalStock
	}
	c, ok := p.ColorByName(color)
	if !ok || c.Stock <= 0 {
		return 0
	}
	s, ok := p.SizeByLabel(size)
	if !ok || s.Stock <= 0 {
		return 0
	}
	if c.Stock < s.Stock {
		return c.Stock
	}
	return s.Stock
}

// TotalAvailableCombinations sums AvailableFor over every (color, size)
// pair where both counters are positive. Pairs with a zero counter on
// either side contribute nothing.
func TotalAvailableCombinations(p *models.Product) int {
	if p == nil || !p.HasVariants() {
		return 0
	}
	total := 0
	for _, c := range p.Colors {
		if c.Stock <= 0 {
			continue
		}
		for _, s := range p.Sizes {
			if s.Stock <= 0 {
				continue
			}
			total += AvailableFor(p, c.Name, s.Label)
		}
	}
	return total
}

// IsInStock reports whether any purchasable combination exists. Products
// without a variant breakdown fall back to TotalStock.
func IsInStock(p *models.Product) bool {
	if p == nil {
		return false
	}
	if !p.HasVariants() {
		return p.TotalStock > 0
	}
	return TotalAvailableCombinations(p) > 0
}

// FilterAvailableSizes returns the size labels purchasable for the given
// color, preserving the product's original size order. Callers re-select
// the first returned size (or none) when the previous choice drops out
// after a color change.
func FilterAvailableSizes(p *models.Product, color string) []string {
	if p == nil {
		return []string{}
	}
	sizes := make([]string, 0, len(p.Sizes))
	for _, s := range p.Sizes {
		if AvailableFor(p, color, s.Label) > 0 {
			sizes = append(sizes, s.Label)
		}
	}
	return sizes
}
