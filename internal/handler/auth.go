package handler

import (
	"net/http"

	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/AnasBaqai/cozy-glam/internal/backend"
	"github.com/AnasBaqai/cozy-glam/internal/session"
)

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type authResponse struct {
	User         userResponse `json:"user"`
	StoreCreated bool         `json:"storeCreated"`
}

func (h *Handler) signup(w http.ResponseWriter, r *http.Request) {
	s := h.sess(w, r)

	var req signupRequest
	if err := decodeBody(r, &req); err != nil {
		badRequest(w, "invalid signup request")
		return
	}
	if req.Role == "" {
		req.Role = "buyer"
	}

	res, err := h.client.Signup(r.Context(), req.Name, req.Email, req.Password, req.Role)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.establishAuth(r, s, res)
	writeJSON(w, http.StatusCreated, authResponse{
		User:         toUserResponse(res.User),
		StoreCreated: s.StoreCreated(),
	})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	s := h.sess(w, r)

	var req loginRequest
	if err := decodeBody(r, &req); err != nil {
		badRequest(w, "invalid login request")
		return
	}

	res, err := h.client.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.establishAuth(r, s, res)
	writeJSON(w, http.StatusOK, authResponse{
		User:         toUserResponse(res.User),
		StoreCreated: s.StoreCreated(),
	})
}

// establishAuth records the credentials on the session and, for sellers,
// probes whether a store already exists so the dashboard can route to the
// right onboarding step. The probe is best-effort: a failure leaves the flag
// unset and the dashboard re-checks.
func (h *Handler) establishAuth(r *http.Request, s *session.Session, res *backend.AuthResult) {
	s.SetAuth(res.Token, res.User)

	if res.User.Role != "seller" {
		return
	}
	store, err := h.authed(s).FetchStore(r.Context())
	if err != nil {
		zctx.From(r.Context()).Warn("store probe failed", zap.Error(err))
		return
	}
	s.SetStoreCreated(store != nil)
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	s := h.sess(w, r)
	s.ClearAuth()
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) profile(w http.ResponseWriter, r *http.Request) {
	s := h.sess(w, r)
	if s.Token() == "" {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Code: http.StatusUnauthorized, Message: "not logged in"})
		return
	}

	u, err := h.authed(s).Profile(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(*u))
}

type updateProfileRequest struct {
	Name string `json:"name"`
}

func (h *Handler) updateProfile(w http.ResponseWriter, r *http.Request) {
	s := h.sess(w, r)
	if s.Token() == "" {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Code: http.StatusUnauthorized, Message: "not logged in"})
		return
	}

	var req updateProfileRequest
	if err := decodeBody(r, &req); err != nil || req.Name == "" {
		badRequest(w, "name is required")
		return
	}

	client := h.authed(s)
	if err := client.UpdateProfile(r.Context(), req.Name); err != nil {
		h.writeError(w, r, err)
		return
	}

	u, err := client.Profile(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if cur := s.User(); cur != nil {
		s.SetAuth(s.Token(), *u)
	}
	writeJSON(w, http.StatusOK, toUserResponse(*u))
}

// flash drains the session's one-shot messages.
func (h *Handler) flash(w http.ResponseWriter, r *http.Request) {
	s := h.sess(w, r)
	msgs := s.PopFlashes()
	if msgs == nil {
		msgs = []string{}
	}
	writeJSON(w, http.StatusOK, map[string][]string{"messages": msgs})
}

func toUserResponse(u backend.User) userResponse {
	return userResponse{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}
