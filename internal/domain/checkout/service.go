// Package checkout summarizes the cart and submits it as an order through
// the backend.
package checkout

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/AnasBaqai/cozy-glam/internal/domain/cart"
)

// ErrEmptyCart is returned when checkout is attempted with no items.
var ErrEmptyCart = errors.New("cart is empty")

// Line is one summarized cart line with its computed subtotal.
type Line struct {
	ProductID string
	Title     string
	Image     string
	Price     decimal.Decimal
	Quantity  int
	Subtotal  decimal.Decimal
}

// Summary is the checkout view of the cart: all lines plus totals.
type Summary struct {
	Lines     []Line
	ItemCount int
	Total     decimal.Decimal
}

// Submitter submits a summarized order to the backend and returns the
// created order's ID.
type Submitter interface {
	SubmitOrder(ctx context.Context, lines []Line, total decimal.Decimal) (string, error)
}

// Service turns a cart into an order.
type Service struct {
	submitter Submitter
}

// NewService creates a checkout Service.
func NewService(submitter Submitter) *Service {
	return &Service{submitter: submitter}
}

// Summarize builds the checkout summary from a cart snapshot.
func (s *Service) Summarize(c *cart.Store) Summary {
	items := c.Items()
	out := Summary{Total: decimal.Zero}
	for _, it := range items {
		sub := it.Subtotal()
		out.Lines = append(out.Lines, Line{
			ProductID: it.ID,
			Title:     it.Title,
			Image:     it.Image,
			Price:     it.Price,
			Quantity:  it.Quantity,
			Subtotal:  sub,
		})
		out.ItemCount += it.Quantity
		out.Total = out.Total.Add(sub)
	}
	out.Total = out.Total.Round(2)
	return out
}

// Submit summarizes the cart, submits the order, and clears the cart on
// success. The cart is left untouched when submission fails so the buyer can
// retry.
func (s *Service) Submit(ctx context.Context, c *cart.Store) (string, error) {
	summary := s.Summarize(c)
	if summary.ItemCount == 0 {
		return "", ErrEmptyCart
	}

	orderID, err := s.submitter.SubmitOrder(ctx, summary.Lines, summary.Total)
	if err != nil {
		return "", errors.Wrap(err, "submit order")
	}

	c.Clear()
	return orderID, nil
}
