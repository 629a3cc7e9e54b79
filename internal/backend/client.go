// Package backend is a thin typed client for the external Cozy Glam REST
// API. Every call decodes exactly one canonical response schema; a response
// that does not match is a hard error rather than a shape to sniff around.
//
// The client applies no retry policy and no timeout beyond the transport
// defaults: a failed request is reported once and the user tries again.
package backend

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// ErrUnexpectedShape is returned when a response does not match the
// canonical schema for the endpoint.
var ErrUnexpectedShape = errors.New("unexpected response shape")

// APIError is a non-2xx backend response reduced to a single message, taken
// from the response body when present.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend returned %d: %s", e.Status, e.Message)
}

// Client talks to the backend API at a single configured base URL.
type Client struct {
	baseURL string
	http    *http.Client
	token   string
}

// New creates a Client for the given base URL. Outbound requests are traced
// via otelhttp.
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

// WithToken returns a copy of the client that sends the given bearer token
// on every request.
func (c *Client) WithToken(token string) *Client {
	clone := *c
	clone.token = token
	return &clone
}

// Ping issues a GET against the API root to verify the backend is reachable.
// Used by the readiness probe.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/", nil)
	if err != nil {
		return errors.Wrap(err, "build request")
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrap(err, "ping backend")
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= http.StatusInternalServerError {
		return errors.Errorf("backend unhealthy: %d", resp.StatusCode)
	}
	return nil
}

// get issues a GET and returns the raw response body.
func (c *Client) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	return c.do(ctx, http.MethodGet, path, query, "", nil)
}

// send issues a request with a JSON body and returns the raw response body.
func (c *Client) send(ctx context.Context, method, path string, body []byte) ([]byte, error) {
	return c.do(ctx, method, path, nil, "application/json", bytes.NewReader(body))
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, contentType string, body io.Reader) ([]byte, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, errors.Wrap(err, "build request")
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "%s %s", method, path)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "read response body")
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &APIError{
			Status:  resp.StatusCode,
			Message: errorMessage(data),
		}
	}
	return data, nil
}

// errorMessage extracts a human-readable message from an error response
// body, falling back to a generic message when the body has none.
func errorMessage(data []byte) string {
	msg := "something went wrong, please try again"

	d := jx.DecodeBytes(data)
	if d.Next() != jx.Object {
		return msg
	}
	_ = d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "message", "error":
			s, err := d.Str()
			if err != nil {
				return err
			}
			if s != "" {
				msg = s
			}
			return nil
		default:
			return d.Skip()
		}
	})
	return msg
}
