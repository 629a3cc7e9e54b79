package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/url"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"

	"github.com/AnasBaqai/cozy-glam/internal/domain/onboarding"
)

// SellerStore is the backend's store record for a registered seller.
type SellerStore struct {
	ID        string
	StoreName string
	Email     string
	Phone     string
	City      string
	Country   string
	LogoURL   string
	Verified  bool
}

// SubmitStore creates the seller's store and returns its ID. It satisfies
// onboarding.StoreSubmitter together with SubmitVerification.
func (c *Client) SubmitStore(ctx context.Context, payload onboarding.StorePayload) (string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", errors.Wrap(err, "marshal store payload")
	}
	data, err := c.send(ctx, "POST", "/stores", body)
	if err != nil {
		return "", err
	}
	return decodeIDField(data, "id")
}

// UpdateStore updates an existing seller store. The payload uses the same
// wire field names as creation, postcode rename included.
func (c *Client) UpdateStore(ctx context.Context, storeID string, payload onboarding.StorePayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return errors.Wrap(err, "marshal store payload")
	}
	_, err = c.send(ctx, "PUT", "/stores/"+url.PathEscape(storeID), body)
	return err
}

// SubmitVerification submits the uploaded verification document references.
func (c *Client) SubmitVerification(ctx context.Context, payload onboarding.VerificationPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return errors.Wrap(err, "marshal verification payload")
	}
	_, err = c.send(ctx, "POST", "/stores/"+url.PathEscape(payload.StoreID)+"/verification", body)
	return err
}

// FetchStore fetches the authenticated seller's store, or nil when none has
// been created yet.
func (c *Client) FetchStore(ctx context.Context) (*SellerStore, error) {
	data, err := c.get(ctx, "/stores/me", nil)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Status == 404 {
			return nil, nil
		}
		return nil, err
	}

	var s SellerStore
	d := jx.DecodeBytes(data)
	if err := d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "id":
			s.ID, err = d.Str()
		case "storeName":
			s.StoreName, err = d.Str()
		case "email":
			s.Email, err = d.Str()
		case "phone":
			s.Phone, err = d.Str()
		case "city":
			s.City, err = d.Str()
		case "country":
			s.Country, err = d.Str()
		case "logoUrl":
			s.LogoURL, err = d.Str()
		case "verified":
			s.Verified, err = d.Bool()
		default:
			err = d.Skip()
		}
		return err
	}); err != nil {
		return nil, errors.Wrap(ErrUnexpectedShape, err.Error())
	}
	if s.ID == "" {
		return nil, errors.Wrap(ErrUnexpectedShape, "store missing id")
	}
	return &s, nil
}

// UploadFile uploads one file as multipart form data and returns the
// reference URL the backend assigned. It satisfies onboarding.Uploader.
func (c *Client) UploadFile(ctx context.Context, name string, content []byte) (string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", name)
	if err != nil {
		return "", errors.Wrap(err, "create form file")
	}
	if _, err := fw.Write(content); err != nil {
		return "", errors.Wrap(err, "write form file")
	}
	if err := mw.Close(); err != nil {
		return "", errors.Wrap(err, "close multipart writer")
	}

	data, err := c.do(ctx, "POST", "/upload", nil, mw.FormDataContentType(), &buf)
	if err != nil {
		return "", err
	}
	return decodeIDField(data, "url")
}
