package cart

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestItem(id, title string, price string) Item {
	return Item{
		ID:    id,
		Title: title,
		Image: title + ".png",
		Price: decimal.RequireFromString(price),
	}
}

func TestAdd_FreshItemStartsAtOne(t *testing.T) {
	s := NewStore()
	s.Add(newTestItem("p1", "Mug", "9.99"))

	assert.Equal(t, 1, s.ItemCount("p1"))
	assert.Equal(t, 1, s.TotalCount())
}

func TestAdd_RepeatIncrementsQuantity(t *testing.T) {
	s := NewStore()
	for range 4 {
		s.Add(newTestItem("p1", "Mug", "9.99"))
	}

	assert.Equal(t, 4, s.ItemCount("p1"))
}

func TestAdd_RepeatKeepsFirstDisplayFields(t *testing.T) {
	s := NewStore()
	s.Add(newTestItem("p1", "Mug", "9.99"))
	s.Add(Item{ID: "p1", Title: "IGNORED", Image: "y.png", Price: decimal.RequireFromString("999")})

	items := s.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "Mug", items[0].Title)
	assert.Equal(t, "Mug.png", items[0].Image)
	assert.True(t, items[0].Price.Equal(decimal.RequireFromString("9.99")))
	assert.Equal(t, 2, items[0].Quantity)
}

func TestRemove_DecrementsAboveOne(t *testing.T) {
	s := NewStore()
	s.Add(newTestItem("p1", "Mug", "9.99"))
	s.Add(newTestItem("p1", "Mug", "9.99"))

	s.Remove("p1")

	assert.Equal(t, 1, s.ItemCount("p1"))
}

func TestRemove_FloorDeletesLine(t *testing.T) {
	s := NewStore()
	s.Add(newTestItem("p1", "Mug", "9.99"))

	s.Remove("p1")

	assert.Equal(t, 0, s.ItemCount("p1"))
	assert.Empty(t, s.Items())
	assert.Equal(t, 0, s.TotalCount())
}

func TestRemove_AbsentIDIsNoOp(t *testing.T) {
	s := NewStore()
	s.Add(newTestItem("p1", "Mug", "9.99"))

	require.NotPanics(t, func() { s.Remove("nonexistent") })

	assert.Equal(t, 1, s.ItemCount("p1"))
	assert.Equal(t, 1, s.TotalCount())
}

func TestTotalCount_SumsAcrossLines(t *testing.T) {
	s := NewStore()
	s.Add(newTestItem("a", "A", "1"))
	s.Add(newTestItem("a", "A", "1"))
	s.Add(newTestItem("b", "B", "2"))
	s.Add(newTestItem("b", "B", "2"))
	s.Add(newTestItem("b", "B", "2"))

	assert.Equal(t, 5, s.TotalCount())
}

func TestClear_EmptiesUnconditionally(t *testing.T) {
	s := NewStore()
	s.Add(newTestItem("a", "A", "1"))
	s.Add(newTestItem("b", "B", "2"))

	s.Clear()

	assert.Equal(t, 0, s.TotalCount())
	assert.Equal(t, 0, s.ItemCount("a"))
	assert.Equal(t, 0, s.ItemCount("b"))
	assert.Empty(t, s.Items())
}

func TestSubtotal(t *testing.T) {
	s := NewStore()
	s.Add(newTestItem("a", "A", "9.99"))
	s.Add(newTestItem("a", "A", "9.99"))
	s.Add(newTestItem("b", "B", "0.01"))

	assert.True(t, s.Subtotal().Equal(decimal.RequireFromString("19.99")))
}

func TestSubscribe_NotifiedOnEveryMutation(t *testing.T) {
	s := NewStore()
	calls := 0
	unsub := s.Subscribe(func() { calls++ })

	s.Add(newTestItem("a", "A", "1"))
	s.Remove("a")
	s.Clear()
	require.Equal(t, 3, calls)

	unsub()
	s.Add(newTestItem("b", "B", "1"))
	assert.Equal(t, 3, calls)
}

func TestSubscribe_SnapshotVisibleInCallback(t *testing.T) {
	s := NewStore()
	var seen int
	s.Subscribe(func() { seen = s.TotalCount() })

	s.Add(newTestItem("a", "A", "1"))
	s.Add(newTestItem("a", "A", "1"))

	assert.Equal(t, 2, seen)
}

func TestEndToEndScenario(t *testing.T) {
	s := NewStore()

	s.Add(newTestItem("p1", "Mug", "9.99"))
	require.Equal(t, 1, s.ItemCount("p1"))
	require.Equal(t, 1, s.TotalCount())

	s.Add(Item{ID: "p1", Title: "IGNORED", Image: "y.png", Price: decimal.RequireFromString("999")})
	items := s.Items()
	require.Len(t, items, 1)
	require.Equal(t, "Mug", items[0].Title)
	require.True(t, items[0].Price.Equal(decimal.RequireFromString("9.99")))
	require.Equal(t, 2, items[0].Quantity)

	s.Remove("p1")
	require.Equal(t, 1, s.ItemCount("p1"))

	s.Remove("p1")
	assert.Equal(t, 0, s.TotalCount())
	assert.Empty(t, s.Items())
}
