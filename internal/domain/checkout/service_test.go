package checkout

import (
	"context"
	"testing"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AnasBaqai/cozy-glam/internal/domain/cart"
)

type mockSubmitter struct {
	lines []Line
	total decimal.Decimal
	err   error
}

func (m *mockSubmitter) SubmitOrder(_ context.Context, lines []Line, total decimal.Decimal) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	m.lines = lines
	m.total = total
	return "order-1", nil
}

func fixtureCart() *cart.Store {
	c := cart.NewStore()
	c.Add(cart.Item{ID: "p1", Title: "Mug", Image: "mug.png", Price: decimal.RequireFromString("9.99")})
	c.Add(cart.Item{ID: "p1"})
	c.Add(cart.Item{ID: "p2", Title: "Vase", Image: "vase.png", Price: decimal.RequireFromString("24.00")})
	return c
}

func TestSummarize(t *testing.T) {
	svc := NewService(&mockSubmitter{})

	sum := svc.Summarize(fixtureCart())

	require.Len(t, sum.Lines, 2)
	assert.Equal(t, 3, sum.ItemCount)
	assert.Equal(t, "Mug", sum.Lines[0].Title)
	assert.True(t, sum.Lines[0].Subtotal.Equal(decimal.RequireFromString("19.98")))
	assert.True(t, sum.Total.Equal(decimal.RequireFromString("43.98")))
}

func TestSummarize_EmptyCart(t *testing.T) {
	svc := NewService(&mockSubmitter{})

	sum := svc.Summarize(cart.NewStore())

	assert.Empty(t, sum.Lines)
	assert.Equal(t, 0, sum.ItemCount)
	assert.True(t, sum.Total.IsZero())
}

func TestSubmit_ClearsCartOnSuccess(t *testing.T) {
	sub := &mockSubmitter{}
	svc := NewService(sub)
	c := fixtureCart()

	orderID, err := svc.Submit(context.Background(), c)
	require.NoError(t, err)
	assert.Equal(t, "order-1", orderID)
	assert.Equal(t, 0, c.TotalCount())

	require.Len(t, sub.lines, 2)
	assert.True(t, sub.total.Equal(decimal.RequireFromString("43.98")))
}

func TestSubmit_EmptyCart(t *testing.T) {
	svc := NewService(&mockSubmitter{})

	_, err := svc.Submit(context.Background(), cart.NewStore())
	require.ErrorIs(t, err, ErrEmptyCart)
}

func TestSubmit_FailureLeavesCartIntact(t *testing.T) {
	svc := NewService(&mockSubmitter{err: errors.New("out of stock")})
	c := fixtureCart()

	_, err := svc.Submit(context.Background(), c)
	require.Error(t, err)
	assert.Equal(t, 3, c.TotalCount())
}
