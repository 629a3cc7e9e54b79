// Package handler exposes the storefront API consumed by the browser
// frontend: cart, catalog, checkout, auth, and the seller dashboard.
package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/AnasBaqai/cozy-glam/internal/backend"
	"github.com/AnasBaqai/cozy-glam/internal/domain/catalog"
	"github.com/AnasBaqai/cozy-glam/internal/domain/checkout"
	"github.com/AnasBaqai/cozy-glam/internal/domain/onboarding"
	"github.com/AnasBaqai/cozy-glam/internal/session"
	"github.com/AnasBaqai/cozy-glam/pkg/httpmiddleware"
)

// Handler serves the storefront API.
type Handler struct {
	sessions *session.Manager
	client   *backend.Client
	resolver *catalog.Resolver
}

// NewHandler constructs a Handler with its dependencies.
func NewHandler(
	sessions *session.Manager,
	client *backend.Client,
	resolver *catalog.Resolver,
) *Handler {
	return &Handler{
		sessions: sessions,
		client:   client,
		resolver: resolver,
	}
}

// orderSubmitter adapts the backend client to checkout.Submitter.
type orderSubmitter struct {
	client *backend.Client
}

func (o *orderSubmitter) SubmitOrder(ctx context.Context, lines []checkout.Line, total decimal.Decimal) (string, error) {
	out := make([]backend.OrderLine, len(lines))
	for i, line := range lines {
		out[i] = backend.OrderLine{
			ProductID: line.ProductID,
			Title:     line.Title,
			Price:     line.Price,
			Quantity:  line.Quantity,
		}
	}
	return o.client.CreateOrder(ctx, out, total)
}

// checkoutFor builds a checkout service that submits with the session's
// credentials.
func (h *Handler) checkoutFor(s *session.Session) *checkout.Service {
	return checkout.NewService(&orderSubmitter{client: h.authed(s)})
}

// Routes registers all API routes on mux.
func (h *Handler) Routes(mux *http.ServeMux) {
	// Auth and profile.
	mux.HandleFunc("POST /api/auth/signup", h.signup)
	mux.HandleFunc("POST /api/auth/login", h.login)
	mux.HandleFunc("POST /api/auth/logout", h.logout)
	mux.HandleFunc("GET /api/profile", h.profile)
	mux.HandleFunc("PUT /api/profile", h.updateProfile)
	mux.HandleFunc("GET /api/flash", h.flash)

	// Catalog and navigation.
	mux.HandleFunc("GET /api/categories", h.categories)
	mux.HandleFunc("GET /api/categories/{categorySlug}/subcategories", h.subCategories)
	mux.HandleFunc("POST /api/nav/hover", h.navHover)
	mux.HandleFunc("POST /api/nav/leave", h.navLeave)
	mux.HandleFunc("GET /api/nav/flyout", h.navFlyout)
	mux.HandleFunc("GET /api/products", h.products)
	mux.HandleFunc("GET /api/products/{id}", h.productByID)

	// Cart and checkout.
	mux.HandleFunc("GET /api/cart", h.cartView)
	mux.HandleFunc("POST /api/cart/items", h.cartAdd)
	mux.HandleFunc("POST /api/cart/items/{id}/increase", h.cartIncrease)
	mux.HandleFunc("DELETE /api/cart/items/{id}", h.cartRemove)
	mux.HandleFunc("DELETE /api/cart", h.cartClear)
	mux.HandleFunc("GET /api/cart/badge", h.cartBadge)
	mux.HandleFunc("POST /api/checkout", h.checkoutSubmit)

	// Seller dashboard.
	mux.HandleFunc("GET /api/seller/store", h.sellerStore)
	mux.HandleFunc("POST /api/seller/store", h.sellerStoreCreate)
	mux.HandleFunc("PUT /api/seller/store/{id}", h.sellerStoreUpdate)
	mux.HandleFunc("POST /api/seller/store/{id}/verification", h.sellerVerification)
	mux.HandleFunc("GET /api/seller/products", h.sellerProducts)
	mux.HandleFunc("POST /api/seller/products", h.sellerProductCreate)
	mux.HandleFunc("PUT /api/seller/products/{id}", h.sellerProductUpdate)
	mux.HandleFunc("DELETE /api/seller/products/{id}", h.sellerProductDelete)
	mux.HandleFunc("GET /api/seller/orders", h.sellerOrders)
	mux.HandleFunc("POST /api/seller/orders/{id}/accept", h.sellerOrderAccept)
}

// sess resolves the request's session from the X-Session-ID header, creating
// one when absent, and echoes the ID on the response so the frontend can
// persist it.
func (h *Handler) sess(w http.ResponseWriter, r *http.Request) *session.Session {
	s := h.sessions.GetOrCreate(r.Header.Get(httpmiddleware.SessionIDHeader))
	w.Header().Set(httpmiddleware.SessionIDHeader, s.ID)
	return s
}

// authed returns a backend client carrying the session's bearer token.
func (h *Handler) authed(s *session.Session) *backend.Client {
	if tok := s.Token(); tok != "" {
		return h.client.WithToken(tok)
	}
	return h.client
}

type errorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError reduces err to one user-visible message. Backend rejections
// keep their status and message; validation problems map to 400; everything
// else becomes a generic 502.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var apiErr *backend.APIError
	if errors.As(err, &apiErr) {
		writeJSON(w, apiErr.Status, errorResponse{Code: apiErr.Status, Message: apiErr.Message})
		return
	}

	var valErr *onboarding.ValidationError
	if errors.As(err, &valErr) {
		writeJSON(w, http.StatusBadRequest, errorResponse{Code: http.StatusBadRequest, Message: valErr.Error()})
		return
	}

	if errors.Is(err, catalog.ErrUnknownSlug) {
		writeJSON(w, http.StatusNotFound, errorResponse{Code: http.StatusNotFound, Message: "not found"})
		return
	}
	if errors.Is(err, checkout.ErrEmptyCart) {
		writeJSON(w, http.StatusBadRequest, errorResponse{Code: http.StatusBadRequest, Message: "cart is empty"})
		return
	}

	zctx.From(r.Context()).Error("request failed", zap.Error(err))
	writeJSON(w, http.StatusBadGateway, errorResponse{
		Code:    http.StatusBadGateway,
		Message: "something went wrong, please try again",
	})
}

func decodeBody(r *http.Request, v any) error {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errors.Wrap(err, "decode request body")
	}
	return nil
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Code: http.StatusBadRequest, Message: msg})
}
