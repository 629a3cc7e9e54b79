package backend

import (
	"context"
	"net/url"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"
)

// OrderLine is one line of a submitted or fetched order.
type OrderLine struct {
	ProductID string
	Title     string
	Price     decimal.Decimal
	Quantity  int
}

// Order is the backend's order record as seen from the seller dashboard.
type Order struct {
	ID        string
	Lines     []OrderLine
	Total     decimal.Decimal
	Status    string
	CreatedAt time.Time
}

// CreateOrder submits a buyer order and returns the created order's ID. The
// backend is the final arbiter of inventory; an out-of-stock line surfaces
// as an APIError like any other rejection.
func (c *Client) CreateOrder(ctx context.Context, lines []OrderLine, total decimal.Decimal) (string, error) {
	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("items")
	e.ArrStart()
	for _, line := range lines {
		e.ObjStart()
		e.FieldStart("productId")
		e.Str(line.ProductID)
		e.FieldStart("quantity")
		e.Int(line.Quantity)
		e.ObjEnd()
	}
	e.ArrEnd()
	e.FieldStart("total")
	e.Num(jx.Num(total.String()))
	e.ObjEnd()

	data, err := c.send(ctx, "POST", "/orders", e.Bytes())
	if err != nil {
		return "", err
	}
	return decodeIDField(data, "id")
}

// SellerOrders fetches orders placed against the authenticated seller's
// store.
func (c *Client) SellerOrders(ctx context.Context) ([]Order, error) {
	data, err := c.get(ctx, "/seller/orders", nil)
	if err != nil {
		return nil, err
	}

	var out []Order
	d := jx.DecodeBytes(data)
	if err := d.Arr(func(d *jx.Decoder) error {
		o, err := decodeOrder(d)
		if err != nil {
			return err
		}
		out = append(out, o)
		return nil
	}); err != nil {
		return nil, errors.Wrap(ErrUnexpectedShape, err.Error())
	}
	return out, nil
}

// AcceptOrder marks a seller order as accepted.
func (c *Client) AcceptOrder(ctx context.Context, orderID string) error {
	_, err := c.send(ctx, "POST", "/seller/orders/"+url.PathEscape(orderID)+"/accept", nil)
	return err
}

func decodeOrder(d *jx.Decoder) (Order, error) {
	var o Order
	err := d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "id":
			o.ID, err = d.Str()
		case "status":
			o.Status, err = d.Str()
		case "total":
			o.Total, err = decodeDecimal(d)
		case "createdAt":
			o.CreatedAt, err = decodeTime(d)
		case "items":
			err = d.Arr(func(d *jx.Decoder) error {
				line, err := decodeOrderLine(d)
				if err != nil {
					return err
				}
				o.Lines = append(o.Lines, line)
				return nil
			})
		default:
			err = d.Skip()
		}
		return err
	})
	if err != nil {
		return o, err
	}
	if o.ID == "" {
		return o, errors.New("order missing id")
	}
	return o, nil
}

func decodeOrderLine(d *jx.Decoder) (OrderLine, error) {
	var line OrderLine
	err := d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "productId":
			line.ProductID, err = d.Str()
		case "title":
			line.Title, err = d.Str()
		case "price":
			line.Price, err = decodeDecimal(d)
		case "quantity":
			line.Quantity, err = d.Int()
		default:
			err = d.Skip()
		}
		return err
	})
	return line, err
}
