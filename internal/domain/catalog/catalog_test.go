package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"simple", "Candles", "candles"},
		{"spaces", "Home Decor", "home-decor"},
		{"ampersand", "Bath & Body", "bath-body"},
		{"mixed runs", "Gifts -- Under $20!", "gifts-under-20"},
		{"leading trailing", "  Sale  ", "sale"},
		{"empty", "", ""},
		{"only symbols", "&&&", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.in))
		})
	}
}

type mockLister struct {
	categories []Category
	subs       map[string][]SubCategory
	catCalls   int
	subCalls   int
	err        error
}

func (m *mockLister) Categories(_ context.Context) ([]Category, error) {
	m.catCalls++
	return m.categories, m.err
}

func (m *mockLister) SubCategories(_ context.Context, categoryID string) ([]SubCategory, error) {
	m.subCalls++
	return m.subs[categoryID], m.err
}

func TestResolver_CategoryID(t *testing.T) {
	lister := &mockLister{categories: []Category{
		{ID: "c1", Name: "Home Decor"},
		{ID: "c2", Name: "Bath & Body"},
	}}
	r := NewResolver(lister)

	id, err := r.CategoryID(context.Background(), "bath-body")
	require.NoError(t, err)
	assert.Equal(t, "c2", id)

	// Second lookup is served from cache.
	id, err = r.CategoryID(context.Background(), "home-decor")
	require.NoError(t, err)
	assert.Equal(t, "c1", id)
	assert.Equal(t, 1, lister.catCalls)
}

func TestResolver_UnknownSlug(t *testing.T) {
	r := NewResolver(&mockLister{})

	_, err := r.CategoryID(context.Background(), "nope")
	require.ErrorIs(t, err, ErrUnknownSlug)
}

func TestResolver_ListError(t *testing.T) {
	r := NewResolver(&mockLister{err: errors.New("boom")})

	_, err := r.CategoryID(context.Background(), "any")
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrUnknownSlug)
}

func TestResolver_SubCategoryID(t *testing.T) {
	lister := &mockLister{subs: map[string][]SubCategory{
		"c1": {
			{ID: "s1", CategoryID: "c1", Name: "Wall Art"},
			{ID: "s2", CategoryID: "c1", Name: "Vases"},
		},
	}}
	r := NewResolver(lister)

	id, err := r.SubCategoryID(context.Background(), "c1", "wall-art")
	require.NoError(t, err)
	assert.Equal(t, "s1", id)

	id, err = r.SubCategoryID(context.Background(), "c1", "vases")
	require.NoError(t, err)
	assert.Equal(t, "s2", id)
	assert.Equal(t, 1, lister.subCalls)

	_, err = r.SubCategoryID(context.Background(), "c2", "vases")
	require.ErrorIs(t, err, ErrUnknownSlug)
}

func listingFixture() []Product {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	mk := func(id, title, price string, age int) Product {
		return Product{
			ID:        id,
			Title:     title,
			Price:     decimal.RequireFromString(price),
			CreatedAt: base.Add(-time.Duration(age) * time.Hour),
		}
	}
	return []Product{
		mk("p1", "Scented Candle", "12.50", 3),
		mk("p2", "Ceramic Vase", "24.00", 1),
		mk("p3", "Candle Holder", "8.99", 2),
		mk("p4", "Throw Pillow", "18.00", 0),
	}
}

func TestApplyListing_Filter(t *testing.T) {
	page := ApplyListing(listingFixture(), ListParams{Query: "candle"})

	require.Len(t, page.Items, 2)
	assert.Equal(t, 2, page.Total)
	for _, p := range page.Items {
		assert.Contains(t, []string{"p1", "p3"}, p.ID)
	}
}

func TestApplyListing_SortPrice(t *testing.T) {
	page := ApplyListing(listingFixture(), ListParams{Sort: SortPriceAsc})
	require.Len(t, page.Items, 4)
	assert.Equal(t, "p3", page.Items[0].ID)
	assert.Equal(t, "p2", page.Items[3].ID)

	page = ApplyListing(listingFixture(), ListParams{Sort: SortPriceDesc})
	assert.Equal(t, "p2", page.Items[0].ID)
}

func TestApplyListing_SortNewest(t *testing.T) {
	page := ApplyListing(listingFixture(), ListParams{Sort: SortNewest})
	assert.Equal(t, "p4", page.Items[0].ID)
	assert.Equal(t, "p1", page.Items[3].ID)
}

func TestApplyListing_Pagination(t *testing.T) {
	page := ApplyListing(listingFixture(), ListParams{Page: 2, PerPage: 3, Sort: SortTitle})

	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 2, page.TotalPages)
	assert.Equal(t, 4, page.Total)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Throw Pillow", page.Items[0].Title)
}

func TestApplyListing_PageBeyondEndClamps(t *testing.T) {
	page := ApplyListing(listingFixture(), ListParams{Page: 99, PerPage: 3})

	assert.Equal(t, 2, page.Page)
	require.Len(t, page.Items, 1)
}

func TestApplyListing_EmptyInput(t *testing.T) {
	page := ApplyListing(nil, ListParams{})

	assert.Empty(t, page.Items)
	assert.Equal(t, 0, page.Total)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 1, page.TotalPages)
}
