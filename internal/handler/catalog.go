package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/AnasBaqai/cozy-glam/internal/domain/catalog"
)

type categoryResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Slug  string `json:"slug"`
	Image string `json:"image,omitempty"`
}

func (h *Handler) categories(w http.ResponseWriter, r *http.Request) {
	cats, err := h.client.Categories(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	out := make([]categoryResponse, 0, len(cats))
	for _, c := range cats {
		out = append(out, categoryResponse{ID: c.ID, Name: c.Name, Slug: c.Slug(), Image: c.Image})
	}
	writeJSON(w, http.StatusOK, out)
}

type subCategoryResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Slug  string `json:"slug"`
	Image string `json:"image,omitempty"`
}

func (h *Handler) subCategories(w http.ResponseWriter, r *http.Request) {
	categoryID, err := h.resolver.CategoryID(r.Context(), r.PathValue("categorySlug"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	subs, err := h.client.SubCategories(r.Context(), categoryID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	out := make([]subCategoryResponse, 0, len(subs))
	for _, s := range subs {
		out = append(out, subCategoryResponse{ID: s.ID, Name: s.Name, Slug: s.Slug(), Image: s.Image})
	}
	writeJSON(w, http.StatusOK, out)
}

type hoverRequest struct {
	CategorySlug string `json:"categorySlug"`
}

// navHover signals hover intent over a navigation category. The actual
// subcategory fetch is debounced and raced against retargeting by the
// session's prefetcher; this endpoint returns immediately.
func (h *Handler) navHover(w http.ResponseWriter, r *http.Request) {
	s := h.sess(w, r)

	var req hoverRequest
	if err := decodeBody(r, &req); err != nil || req.CategorySlug == "" {
		badRequest(w, "categorySlug is required")
		return
	}

	categoryID, err := h.resolver.CategoryID(r.Context(), req.CategorySlug)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	// The fetch may outlive this request; it must not inherit the request
	// context.
	s.Flyout.Hover(context.WithoutCancel(r.Context()), categoryID)
	w.WriteHeader(http.StatusAccepted)
}

func (h *Handler) navLeave(w http.ResponseWriter, r *http.Request) {
	s := h.sess(w, r)
	s.Flyout.Leave()
	w.WriteHeader(http.StatusNoContent)
}

type flyoutResponse struct {
	Phase string                `json:"phase"`
	Items []subCategoryResponse `json:"items,omitempty"`
}

// navFlyout reports the flyout state for the session's current hover
// target: a skeleton while loading, the subcategory list when ready, or an
// empty state (which also covers swallowed fetch errors).
func (h *Handler) navFlyout(w http.ResponseWriter, r *http.Request) {
	s := h.sess(w, r)

	state := s.Flyout.State()
	resp := flyoutResponse{Phase: string(state.Phase)}
	for _, sub := range state.Items {
		resp.Items = append(resp.Items, subCategoryResponse{
			ID: sub.ID, Name: sub.Name, Slug: sub.Slug(), Image: sub.Image,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

type productResponse struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Image       string `json:"image,omitempty"`
	Price       string `json:"price"`
	Quantity    int    `json:"quantity"`
}

type productListResponse struct {
	Items      []productResponse `json:"items"`
	Total      int               `json:"total"`
	Page       int               `json:"page"`
	TotalPages int               `json:"totalPages"`
}

// products lists products, optionally scoped to a category or subcategory
// slug, with client-side pagination, sorting and title filtering applied to
// the fetched list.
func (h *Handler) products(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var (
		items []catalog.Product
		err   error
	)
	switch {
	case q.Get("category") != "":
		var categoryID string
		categoryID, err = h.resolver.CategoryID(r.Context(), q.Get("category"))
		if err == nil {
			if sub := q.Get("subcategory"); sub != "" {
				var subID string
				subID, err = h.resolver.SubCategoryID(r.Context(), categoryID, sub)
				if err == nil {
					items, err = h.client.ProductsBySubCategory(r.Context(), subID)
				}
			} else {
				items, err = h.client.ProductsByCategory(r.Context(), categoryID)
			}
		}
	default:
		items, err = h.client.Products(r.Context())
	}
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	page := catalog.ApplyListing(items, catalog.ListParams{
		Page:    atoiOrZero(q.Get("page")),
		PerPage: atoiOrZero(q.Get("perPage")),
		Sort:    q.Get("sort"),
		Query:   q.Get("q"),
	})

	resp := productListResponse{
		Items:      make([]productResponse, 0, len(page.Items)),
		Total:      page.Total,
		Page:       page.Page,
		TotalPages: page.TotalPages,
	}
	for _, p := range page.Items {
		resp.Items = append(resp.Items, toProductResponse(p))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) productByID(w http.ResponseWriter, r *http.Request) {
	p, err := h.client.ProductByID(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toProductResponse(*p))
}

func toProductResponse(p catalog.Product) productResponse {
	return productResponse{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Image:       p.Image,
		Price:       p.Price.String(),
		Quantity:    p.Quantity,
	}
}

func atoiOrZero(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
