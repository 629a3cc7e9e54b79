package catalog

import (
	"sort"
	"strings"
)

// Sort orders for product listings.
const (
	SortNewest    = "newest"
	SortPriceAsc  = "price_asc"
	SortPriceDesc = "price_desc"
	SortTitle     = "title"
)

// ListParams controls client-side pagination, sorting and filtering of a
// fetched product list.
type ListParams struct {
	Page    int    // 1-based; values < 1 are treated as 1
	PerPage int    // values < 1 fall back to DefaultPerPage
	Sort    string // one of the Sort constants; unknown values keep input order
	Query   string // case-insensitive substring match on the product title
}

// DefaultPerPage is used when ListParams.PerPage is not set.
const DefaultPerPage = 12

// ListPage is one page of a product listing.
type ListPage struct {
	Items      []Product
	Total      int
	Page       int
	PerPage    int
	TotalPages int
}

// ApplyListing filters, sorts and paginates products according to params.
// The input slice is not modified.
func ApplyListing(products []Product, params ListParams) ListPage {
	filtered := filterProducts(products, params.Query)
	sortProducts(filtered, params.Sort)

	perPage := params.PerPage
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	page := params.Page
	if page < 1 {
		page = 1
	}

	total := len(filtered)
	totalPages := (total + perPage - 1) / perPage
	if totalPages == 0 {
		totalPages = 1
	}
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * perPage
	end := min(start+perPage, total)
	if start > total {
		start = total
	}

	return ListPage{
		Items:      filtered[start:end],
		Total:      total,
		Page:       page,
		PerPage:    perPage,
		TotalPages: totalPages,
	}
}

func filterProducts(products []Product, query string) []Product {
	out := make([]Product, 0, len(products))
	q := strings.ToLower(strings.TrimSpace(query))
	for _, p := range products {
		if q == "" || strings.Contains(strings.ToLower(p.Title), q) {
			out = append(out, p)
		}
	}
	return out
}

func sortProducts(products []Product, order string) {
	switch order {
	case SortPriceAsc:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].Price.LessThan(products[j].Price)
		})
	case SortPriceDesc:
		sort.SliceStable(products, func(i, j int) bool {
			return products[j].Price.LessThan(products[i].Price)
		})
	case SortTitle:
		sort.SliceStable(products, func(i, j int) bool {
			return strings.ToLower(products[i].Title) < strings.ToLower(products[j].Title)
		})
	case SortNewest:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].CreatedAt.After(products[j].CreatedAt)
		})
	}
}
