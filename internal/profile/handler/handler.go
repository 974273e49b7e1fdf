// Package handler exposes profile operations over HTTP. The profile is
// addressed as a singleton under /profile; the owner comes from the token.
package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"larder/internal/profile/models"
	"larder/pkg/apperr"
	id "larder/pkg/domain"
	"larder/pkg/platform/httputil"
	"larder/pkg/requestcontext"
)

// Service is the profile surface the handler needs.
type Service interface {
	Create(ctx context.Context, ins models.ProfileInsert) (*models.Profile, error)
	Get(ctx context.Context, userID id.UserID) (*models.Profile, error)
	Update(ctx context.Context, userID id.UserID, upd models.ProfileUpdate) (*models.Profile, error)
	Delete(ctx context.Context, userID id.UserID) error
}

type Handler struct {
	service Service
}

func New(service Service) *Handler {
	return &Handler{service: service}
}

// Routes mounts the profile endpoints. Callers must already be authenticated.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.get)
	r.Post("/", h.create)
	r.Patch("/", h.update)
	r.Delete("/", h.delete)
	return r
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var ins models.ProfileInsert
	if err := decode(r, &ins); err != nil {
		httputil.WriteError(w, err)
		return
	}
	ins.UserID = requestcontext.UserID(r.Context())

	p, err := h.service.Create(r.Context(), ins)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, p)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	p, err := h.service.Get(r.Context(), requestcontext.UserID(r.Context()))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, p)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	var upd models.ProfileUpdate
	if err := decode(r, &upd); err != nil {
		httputil.WriteError(w, err)
		return
	}
	p, err := h.service.Update(r.Context(), requestcontext.UserID(r.Context()), upd)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, p)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), requestcontext.UserID(r.Context())); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apperr.Wrap(apperr.CodeInvalidInput, "invalid request body", err)
	}
	return nil
}
