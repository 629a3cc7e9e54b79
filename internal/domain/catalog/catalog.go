// Package catalog holds the storefront's view of the backend catalog:
// passive category, subcategory and product records, slug derivation for
// readable routes, and client-side listing helpers.
package catalog

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Category is a top-level catalog category mirrored from the backend.
type Category struct {
	ID    string
	Name  string
	Image string
}

// SubCategory is a second-level catalog entry under a Category.
type SubCategory struct {
	ID         string
	CategoryID string
	Name       string
	Image      string
}

// Product is a catalog item mirrored from the backend.
type Product struct {
	ID            string
	Title         string
	Description   string
	Image         string
	Price         decimal.Decimal
	Quantity      int
	CategoryID    string
	SubCategoryID string
	StoreID       string
	CreatedAt     time.Time
}

// Slug returns the URL slug for the category name.
func (c Category) Slug() string { return Slugify(c.Name) }

// Slug returns the URL slug for the subcategory name.
func (s SubCategory) Slug() string { return Slugify(s.Name) }

// Slugify derives a URL-friendly slug from a human-readable name: lowercased,
// runs of non-alphanumeric characters collapsed to single hyphens, leading
// and trailing hyphens trimmed.
func Slugify(name string) string {
	var b strings.Builder
	b.Grow(len(name))

	prevHyphen := false
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			prevHyphen = false
		default:
			if !prevHyphen && b.Len() > 0 {
				b.WriteByte('-')
				prevHyphen = true
			}
		}
	}

	return strings.TrimRight(b.String(), "-")
}
