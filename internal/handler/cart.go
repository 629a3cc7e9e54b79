package handler

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/AnasBaqai/cozy-glam/internal/domain/cart"
	"github.com/AnasBaqai/cozy-glam/internal/session"
)

type cartItemResponse struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Image       string `json:"image"`
	Price       string `json:"price"`
	Quantity    int    `json:"quantity"`
	Subtotal    string `json:"subtotal"`
	CanIncrease bool   `json:"canIncrease"`
}

type cartResponse struct {
	Items      []cartItemResponse `json:"items"`
	ItemCount  int                `json:"itemCount"`
	Total      string             `json:"total"`
	StockError bool               `json:"stockError"`
}

// cartView renders the cart page view: all lines with their stock-gated
// increase affordance, refreshing the stock snapshot when the cart changed
// since the last view. A failed refresh sets one error flag; unfetched items
// stay unconstrained.
func (h *Handler) cartView(w http.ResponseWriter, r *http.Request) {
	s := h.sess(w, r)

	items := s.Cart.Items()

	stockErr := false
	if s.StockStale() {
		ids := make([]string, len(items))
		for i, it := range items {
			ids[i] = it.ID
		}
		if err := s.Stock.Refresh(r.Context(), ids); err != nil {
			stockErr = true
		} else {
			s.ClearStockStale()
		}
	}

	writeJSON(w, http.StatusOK, buildCartResponse(s, items, stockErr))
}

func buildCartResponse(s *session.Session, items []cart.Item, stockErr bool) cartResponse {
	resp := cartResponse{
		Items: make([]cartItemResponse, 0, len(items)),
		Total: decimal.Zero.String(),
	}
	total := decimal.Zero
	for _, it := range items {
		resp.Items = append(resp.Items, cartItemResponse{
			ID:          it.ID,
			Title:       it.Title,
			Image:       it.Image,
			Price:       it.Price.String(),
			Quantity:    it.Quantity,
			Subtotal:    it.Subtotal().String(),
			CanIncrease: s.Stock.CanIncrease(it.ID, it.Quantity),
		})
		resp.ItemCount += it.Quantity
		total = total.Add(it.Subtotal())
	}
	resp.Total = total.Round(2).String()
	resp.StockError = stockErr
	return resp
}

type addItemRequest struct {
	ID    string          `json:"id"`
	Title string          `json:"title"`
	Image string          `json:"image"`
	Price decimal.Decimal `json:"price"`
}

// cartAdd handles "add to cart" from listing and product pages. Repeat adds
// for the same product increment its quantity; the display fields from the
// first add win.
func (h *Handler) cartAdd(w http.ResponseWriter, r *http.Request) {
	s := h.sess(w, r)

	var req addItemRequest
	if err := decodeBody(r, &req); err != nil {
		badRequest(w, "invalid cart item")
		return
	}
	if req.ID == "" {
		badRequest(w, "id is required")
		return
	}

	s.Cart.Add(cart.Item{ID: req.ID, Title: req.Title, Image: req.Image, Price: req.Price})
	writeJSON(w, http.StatusOK, map[string]int{"quantity": s.Cart.ItemCount(req.ID)})
}

// cartIncrease handles the cart page's "+" affordance, gated by the stock
// snapshot. A gated increase is not an error: the response simply reports
// allowed=false and the unchanged quantity.
func (h *Handler) cartIncrease(w http.ResponseWriter, r *http.Request) {
	s := h.sess(w, r)
	id := r.PathValue("id")

	current := s.Cart.ItemCount(id)
	if current == 0 {
		writeJSON(w, http.StatusNotFound, errorResponse{Code: http.StatusNotFound, Message: "item not in cart"})
		return
	}

	if !s.Stock.CanIncrease(id, current) {
		writeJSON(w, http.StatusOK, map[string]any{"allowed": false, "quantity": current})
		return
	}

	s.Cart.Add(cart.Item{ID: id})
	writeJSON(w, http.StatusOK, map[string]any{"allowed": true, "quantity": s.Cart.ItemCount(id)})
}

// cartRemove handles the "-" affordance: decrement, deleting the line at
// quantity one. Removing an unknown id is a no-op.
func (h *Handler) cartRemove(w http.ResponseWriter, r *http.Request) {
	s := h.sess(w, r)
	id := r.PathValue("id")

	s.Cart.Remove(id)
	writeJSON(w, http.StatusOK, map[string]int{"quantity": s.Cart.ItemCount(id)})
}

func (h *Handler) cartClear(w http.ResponseWriter, r *http.Request) {
	s := h.sess(w, r)
	s.Cart.Clear()
	w.WriteHeader(http.StatusNoContent)
}

// cartBadge serves the navigation badge count.
func (h *Handler) cartBadge(w http.ResponseWriter, r *http.Request) {
	s := h.sess(w, r)
	writeJSON(w, http.StatusOK, map[string]int{"count": s.Cart.TotalCount()})
}

// checkoutSubmit summarizes the cart, submits the order through the
// backend, and clears the cart on success.
func (h *Handler) checkoutSubmit(w http.ResponseWriter, r *http.Request) {
	s := h.sess(w, r)

	svc := h.checkoutFor(s)
	orderID, err := svc.Submit(r.Context(), s.Cart)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	s.AddFlash("order placed")
	writeJSON(w, http.StatusCreated, map[string]string{"orderId": orderID})
}
