package handler

import (
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/AnasBaqai/cozy-glam/internal/backend"
	"github.com/AnasBaqai/cozy-glam/internal/domain/onboarding"
	"github.com/AnasBaqai/cozy-glam/internal/session"
)

// maxOnboardingForm caps the in-memory size of onboarding multipart forms.
const maxOnboardingForm = 32 << 20

// requireSeller resolves the session and rejects callers without a seller
// login. A nil session means the rejection was already written.
func (h *Handler) requireSeller(w http.ResponseWriter, r *http.Request) *session.Session {
	s := h.sess(w, r)
	if s.Token() == "" {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Code: http.StatusUnauthorized, Message: "not logged in"})
		return nil
	}
	if u := s.User(); u == nil || u.Role != "seller" {
		writeJSON(w, http.StatusForbidden, errorResponse{Code: http.StatusForbidden, Message: "seller account required"})
		return nil
	}
	return s
}

type sellerStoreResponse struct {
	ID        string `json:"id"`
	StoreName string `json:"storeName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	City      string `json:"city"`
	Country   string `json:"country"`
	LogoURL   string `json:"logoUrl,omitempty"`
	Verified  bool   `json:"verified"`
}

// sellerStore reports the seller's store, or 404 when onboarding has not
// reached store creation yet.
func (h *Handler) sellerStore(w http.ResponseWriter, r *http.Request) {
	s := h.requireSeller(w, r)
	if s == nil {
		return
	}

	store, err := h.authed(s).FetchStore(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if store == nil {
		s.SetStoreCreated(false)
		writeJSON(w, http.StatusNotFound, errorResponse{Code: http.StatusNotFound, Message: "store not created"})
		return
	}

	s.SetStoreCreated(true)
	writeJSON(w, http.StatusOK, sellerStoreResponse{
		ID:        store.ID,
		StoreName: store.StoreName,
		Email:     store.Email,
		Phone:     store.Phone,
		City:      store.City,
		Country:   store.Country,
		LogoURL:   store.LogoURL,
		Verified:  store.Verified,
	})
}

// sellerStoreCreate runs the business-info form through the onboarding
// pipeline: validate, upload the logo if present, submit.
func (h *Handler) sellerStoreCreate(w http.ResponseWriter, r *http.Request) {
	s := h.requireSeller(w, r)
	if s == nil {
		return
	}

	form, err := parseBusinessInfoForm(r)
	if err != nil {
		badRequest(w, "invalid store form")
		return
	}

	client := h.authed(s)
	storeID, err := onboarding.NewPipeline(client, client).SubmitBusinessInfo(r.Context(), form)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	s.SetStoreCreated(true)
	s.AddFlash("store created")
	writeJSON(w, http.StatusCreated, map[string]string{"storeId": storeID})
}

// sellerStoreUpdate edits an existing store through the same form and wire
// payload as creation.
func (h *Handler) sellerStoreUpdate(w http.ResponseWriter, r *http.Request) {
	s := h.requireSeller(w, r)
	if s == nil {
		return
	}

	form, err := parseBusinessInfoForm(r)
	if err != nil {
		badRequest(w, "invalid store form")
		return
	}

	client := h.authed(s)
	if form.Logo != nil && form.Logo.URL == "" {
		url, err := client.UploadFile(r.Context(), form.Logo.Name, form.Logo.Content)
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		form.Logo.URL = url
	}

	payload := onboarding.StorePayload{
		StoreName:   form.StoreName,
		Email:       form.Email,
		Phone:       form.Phone,
		Address:     form.Address,
		City:        form.City,
		State:       form.State,
		Postcode:    form.PostalCode,
		Country:     form.Country,
		Description: form.Description,
		Instagram:   form.Instagram,
		Facebook:    form.Facebook,
	}
	if form.Logo != nil {
		payload.LogoURL = form.Logo.URL
	}

	if err := client.UpdateStore(r.Context(), r.PathValue("id"), payload); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// sellerVerification runs the document form through the onboarding pipeline.
func (h *Handler) sellerVerification(w http.ResponseWriter, r *http.Request) {
	s := h.requireSeller(w, r)
	if s == nil {
		return
	}

	if err := r.ParseMultipartForm(maxOnboardingForm); err != nil {
		badRequest(w, "invalid verification form")
		return
	}

	form := &onboarding.Verification{StoreID: r.PathValue("id")}
	for _, fh := range r.MultipartForm.File["documents"] {
		doc, err := readFormAsset(fh)
		if err != nil {
			badRequest(w, "invalid verification form")
			return
		}
		form.Documents = append(form.Documents, doc)
	}

	client := h.authed(s)
	if err := onboarding.NewPipeline(client, client).SubmitVerification(r.Context(), form); err != nil {
		h.writeError(w, r, err)
		return
	}

	s.AddFlash("verification submitted")
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) sellerProducts(w http.ResponseWriter, r *http.Request) {
	s := h.requireSeller(w, r)
	if s == nil {
		return
	}

	items, err := h.authed(s).SellerProducts(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	out := make([]productResponse, 0, len(items))
	for _, p := range items {
		out = append(out, toProductResponse(p))
	}
	writeJSON(w, http.StatusOK, out)
}

type productRequest struct {
	Title         string          `json:"title"`
	Description   string          `json:"description"`
	Image         string          `json:"image"`
	Price         decimal.Decimal `json:"price"`
	Quantity      int             `json:"quantity"`
	CategoryID    string          `json:"categoryId"`
	SubCategoryID string          `json:"subCategoryId"`
}

func (r productRequest) input() backend.ProductInput {
	return backend.ProductInput{
		Title:         r.Title,
		Description:   r.Description,
		Image:         r.Image,
		Price:         r.Price,
		Quantity:      r.Quantity,
		CategoryID:    r.CategoryID,
		SubCategoryID: r.SubCategoryID,
	}
}

func (h *Handler) sellerProductCreate(w http.ResponseWriter, r *http.Request) {
	s := h.requireSeller(w, r)
	if s == nil {
		return
	}

	var req productRequest
	if err := decodeBody(r, &req); err != nil {
		badRequest(w, "invalid product")
		return
	}
	if req.Title == "" {
		badRequest(w, "title is required")
		return
	}

	id, err := h.authed(s).CreateProduct(r.Context(), req.input())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	s.AddFlash("product created")
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (h *Handler) sellerProductUpdate(w http.ResponseWriter, r *http.Request) {
	s := h.requireSeller(w, r)
	if s == nil {
		return
	}

	var req productRequest
	if err := decodeBody(r, &req); err != nil {
		badRequest(w, "invalid product")
		return
	}

	if err := h.authed(s).UpdateProduct(r.Context(), r.PathValue("id"), req.input()); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) sellerProductDelete(w http.ResponseWriter, r *http.Request) {
	s := h.requireSeller(w, r)
	if s == nil {
		return
	}

	if err := h.authed(s).DeleteProduct(r.Context(), r.PathValue("id")); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type orderLineResponse struct {
	ProductID string `json:"productId"`
	Title     string `json:"title,omitempty"`
	Price     string `json:"price"`
	Quantity  int    `json:"quantity"`
}

type orderResponse struct {
	ID        string              `json:"id"`
	Items     []orderLineResponse `json:"items"`
	Total     string              `json:"total"`
	Status    string              `json:"status"`
	CreatedAt string              `json:"createdAt"`
}

func (h *Handler) sellerOrders(w http.ResponseWriter, r *http.Request) {
	s := h.requireSeller(w, r)
	if s == nil {
		return
	}

	orders, err := h.authed(s).SellerOrders(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	out := make([]orderResponse, 0, len(orders))
	for _, o := range orders {
		resp := orderResponse{
			ID:        o.ID,
			Items:     make([]orderLineResponse, 0, len(o.Lines)),
			Total:     o.Total.String(),
			Status:    o.Status,
			CreatedAt: o.CreatedAt.Format(time.RFC3339),
		}
		for _, line := range o.Lines {
			resp.Items = append(resp.Items, orderLineResponse{
				ProductID: line.ProductID,
				Title:     line.Title,
				Price:     line.Price.String(),
				Quantity:  line.Quantity,
			})
		}
		out = append(out, resp)
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) sellerOrderAccept(w http.ResponseWriter, r *http.Request) {
	s := h.requireSeller(w, r)
	if s == nil {
		return
	}

	if err := h.authed(s).AcceptOrder(r.Context(), r.PathValue("id")); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// parseBusinessInfoForm reads the multipart business-info form, including the
// optional logo file.
func parseBusinessInfoForm(r *http.Request) (*onboarding.BusinessInfo, error) {
	if err := r.ParseMultipartForm(maxOnboardingForm); err != nil {
		return nil, errors.Wrap(err, "parse multipart form")
	}

	form := &onboarding.BusinessInfo{
		StoreName:   r.FormValue("storeName"),
		Email:       r.FormValue("email"),
		Phone:       r.FormValue("phone"),
		Address:     r.FormValue("address"),
		City:        r.FormValue("city"),
		State:       r.FormValue("state"),
		PostalCode:  r.FormValue("postalCode"),
		Country:     r.FormValue("country"),
		Description: r.FormValue("description"),
		Instagram:   r.FormValue("instagram"),
		Facebook:    r.FormValue("facebook"),
	}

	if files := r.MultipartForm.File["logo"]; len(files) > 0 {
		logo, err := readFormAsset(files[0])
		if err != nil {
			return nil, err
		}
		form.Logo = logo
	}
	return form, nil
}

func readFormAsset(fh *multipart.FileHeader) (*onboarding.Asset, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, errors.Wrap(err, "open form file")
	}
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil {
		return nil, errors.Wrap(err, "read form file")
	}
	return &onboarding.Asset{Name: fh.Filename, Content: content}, nil
}
