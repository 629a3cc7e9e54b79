package backend

import (
	"context"
	"net/url"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"

	"github.com/AnasBaqai/cozy-glam/internal/domain/catalog"
)

// Categories fetches the top-level category list.
func (c *Client) Categories(ctx context.Context) ([]catalog.Category, error) {
	data, err := c.get(ctx, "/categories", nil)
	if err != nil {
		return nil, err
	}

	var out []catalog.Category
	d := jx.DecodeBytes(data)
	if err := d.Arr(func(d *jx.Decoder) error {
		cat, err := decodeCategory(d)
		if err != nil {
			return err
		}
		out = append(out, cat)
		return nil
	}); err != nil {
		return nil, errors.Wrap(ErrUnexpectedShape, err.Error())
	}
	return out, nil
}

// SubCategories fetches the subcategories of one category.
func (c *Client) SubCategories(ctx context.Context, categoryID string) ([]catalog.SubCategory, error) {
	data, err := c.get(ctx, "/categories/"+url.PathEscape(categoryID)+"/subcategories", nil)
	if err != nil {
		return nil, err
	}

	var out []catalog.SubCategory
	d := jx.DecodeBytes(data)
	if err := d.Arr(func(d *jx.Decoder) error {
		sub, err := decodeSubCategory(d)
		if err != nil {
			return err
		}
		out = append(out, sub)
		return nil
	}); err != nil {
		return nil, errors.Wrap(ErrUnexpectedShape, err.Error())
	}
	return out, nil
}

// Products fetches the full product list.
func (c *Client) Products(ctx context.Context) ([]catalog.Product, error) {
	return c.productList(ctx, "/products", nil)
}

// ProductsByCategory fetches products belonging to a category.
func (c *Client) ProductsByCategory(ctx context.Context, categoryID string) ([]catalog.Product, error) {
	return c.productList(ctx, "/products", url.Values{"category": {categoryID}})
}

// ProductsBySubCategory fetches products belonging to a subcategory.
func (c *Client) ProductsBySubCategory(ctx context.Context, subCategoryID string) ([]catalog.Product, error) {
	return c.productList(ctx, "/products", url.Values{"subcategory": {subCategoryID}})
}

// SellerProducts fetches the authenticated seller's own product listings.
func (c *Client) SellerProducts(ctx context.Context) ([]catalog.Product, error) {
	return c.productList(ctx, "/seller/products", nil)
}

func (c *Client) productList(ctx context.Context, path string, query url.Values) ([]catalog.Product, error) {
	data, err := c.get(ctx, path, query)
	if err != nil {
		return nil, err
	}

	var out []catalog.Product
	d := jx.DecodeBytes(data)
	if err := d.Arr(func(d *jx.Decoder) error {
		p, err := decodeProduct(d)
		if err != nil {
			return err
		}
		out = append(out, p)
		return nil
	}); err != nil {
		return nil, errors.Wrap(ErrUnexpectedShape, err.Error())
	}
	return out, nil
}

// ProductByID fetches a single product.
func (c *Client) ProductByID(ctx context.Context, id string) (*catalog.Product, error) {
	data, err := c.get(ctx, "/products/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, err
	}

	d := jx.DecodeBytes(data)
	p, err := decodeProduct(d)
	if err != nil {
		return nil, errors.Wrap(ErrUnexpectedShape, err.Error())
	}
	return &p, nil
}

// AvailableQuantity fetches the live stock level for a product. It satisfies
// stock.Levels.
func (c *Client) AvailableQuantity(ctx context.Context, productID string) (int, error) {
	data, err := c.get(ctx, "/products/"+url.PathEscape(productID)+"/stock", nil)
	if err != nil {
		return 0, err
	}

	qty := -1
	d := jx.DecodeBytes(data)
	if err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "quantity":
			n, err := d.Int()
			if err != nil {
				return err
			}
			qty = n
			return nil
		default:
			return d.Skip()
		}
	}); err != nil {
		return 0, errors.Wrap(ErrUnexpectedShape, err.Error())
	}
	if qty < 0 {
		return 0, errors.Wrap(ErrUnexpectedShape, "missing quantity")
	}
	return qty, nil
}

// ProductInput is the payload for creating or updating a product listing.
type ProductInput struct {
	Title         string
	Description   string
	Image         string
	Price         decimal.Decimal
	Quantity      int
	CategoryID    string
	SubCategoryID string
}

// CreateProduct creates a seller product listing and returns its ID.
func (c *Client) CreateProduct(ctx context.Context, in ProductInput) (string, error) {
	data, err := c.send(ctx, "POST", "/products", encodeProductInput(in))
	if err != nil {
		return "", err
	}
	return decodeIDField(data, "id")
}

// UpdateProduct updates an existing seller product listing.
func (c *Client) UpdateProduct(ctx context.Context, id string, in ProductInput) error {
	_, err := c.send(ctx, "PUT", "/products/"+url.PathEscape(id), encodeProductInput(in))
	return err
}

// DeleteProduct removes a seller product listing.
func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	_, err := c.do(ctx, "DELETE", "/products/"+url.PathEscape(id), nil, "", nil)
	return err
}

func encodeProductInput(in ProductInput) []byte {
	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("title")
	e.Str(in.Title)
	e.FieldStart("description")
	e.Str(in.Description)
	e.FieldStart("image")
	e.Str(in.Image)
	e.FieldStart("price")
	e.Num(jx.Num(in.Price.String()))
	e.FieldStart("quantity")
	e.Int(in.Quantity)
	e.FieldStart("categoryId")
	e.Str(in.CategoryID)
	e.FieldStart("subCategoryId")
	e.Str(in.SubCategoryID)
	e.ObjEnd()
	return e.Bytes()
}

func decodeCategory(d *jx.Decoder) (catalog.Category, error) {
	var cat catalog.Category
	err := d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "id":
			cat.ID, err = d.Str()
		case "name":
			cat.Name, err = d.Str()
		case "image":
			cat.Image, err = d.Str()
		default:
			err = d.Skip()
		}
		return err
	})
	if err != nil {
		return cat, err
	}
	if cat.ID == "" || cat.Name == "" {
		return cat, errors.New("category missing id or name")
	}
	return cat, nil
}

func decodeSubCategory(d *jx.Decoder) (catalog.SubCategory, error) {
	var sub catalog.SubCategory
	err := d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "id":
			sub.ID, err = d.Str()
		case "categoryId":
			sub.CategoryID, err = d.Str()
		case "name":
			sub.Name, err = d.Str()
		case "image":
			sub.Image, err = d.Str()
		default:
			err = d.Skip()
		}
		return err
	})
	if err != nil {
		return sub, err
	}
	if sub.ID == "" || sub.Name == "" {
		return sub, errors.New("subcategory missing id or name")
	}
	return sub, nil
}

func decodeProduct(d *jx.Decoder) (catalog.Product, error) {
	var p catalog.Product
	err := d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "id":
			p.ID, err = d.Str()
		case "title":
			p.Title, err = d.Str()
		case "description":
			p.Description, err = d.Str()
		case "image":
			p.Image, err = d.Str()
		case "price":
			p.Price, err = decodeDecimal(d)
		case "quantity":
			p.Quantity, err = d.Int()
		case "categoryId":
			p.CategoryID, err = d.Str()
		case "subCategoryId":
			p.SubCategoryID, err = d.Str()
		case "storeId":
			p.StoreID, err = d.Str()
		case "createdAt":
			p.CreatedAt, err = decodeTime(d)
		default:
			err = d.Skip()
		}
		return err
	})
	if err != nil {
		return p, err
	}
	if p.ID == "" || p.Title == "" {
		return p, errors.New("product missing id or title")
	}
	return p, nil
}

// decodeDecimal accepts the canonical JSON number form for prices.
func decodeDecimal(d *jx.Decoder) (decimal.Decimal, error) {
	n, err := d.Num()
	if err != nil {
		return decimal.Zero, err
	}
	return decimal.NewFromString(n.String())
}

func decodeTime(d *jx.Decoder) (time.Time, error) {
	s, err := d.Str()
	if err != nil {
		return time.Time{}, err
	}
	return time.Parse(time.RFC3339, s)
}

// decodeIDField extracts a single string field from a response object.
func decodeIDField(data []byte, field string) (string, error) {
	var id string
	d := jx.DecodeBytes(data)
	if err := d.Obj(func(d *jx.Decoder, key string) error {
		if key == field {
			var err error
			id, err = d.Str()
			return err
		}
		return d.Skip()
	}); err != nil {
		return "", errors.Wrap(ErrUnexpectedShape, err.Error())
	}
	if id == "" {
		return "", errors.Wrapf(ErrUnexpectedShape, "missing %s", field)
	}
	return id, nil
}
