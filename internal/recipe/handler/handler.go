// Package handler exposes recipe operations over HTTP, including the
// pantry-match endpoint.
package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"larder/internal/recipe/models"
	"larder/pkg/apperr"
	id "larder/pkg/domain"
	"larder/pkg/platform/httputil"
	"larder/pkg/requestcontext"
)

// Service is the recipe surface the handler needs.
type Service interface {
	Create(ctx context.Context, ins models.RecipeInsert) (*models.Recipe, error)
	Get(ctx context.Context, userID id.UserID, recipeID id.RecipeID) (*models.Recipe, error)
	List(ctx context.Context, userID id.UserID) ([]models.Recipe, error)
	Update(ctx context.Context, userID id.UserID, recipeID id.RecipeID, upd models.RecipeUpdate) (*models.Recipe, error)
	Delete(ctx context.Context, userID id.UserID, recipeID id.RecipeID) error
	Match(ctx context.Context, userID id.UserID, minPercent float64, limit, offset int) ([]models.Match, error)
}

type Handler struct {
	service Service
}

func New(service Service) *Handler {
	return &Handler{service: service}
}

// Routes mounts the recipe endpoints. Callers must already be authenticated.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/match", h.match)
	r.Get("/{recipeID}", h.get)
	r.Patch("/{recipeID}", h.update)
	r.Delete("/{recipeID}", h.delete)
	return r
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var ins models.RecipeInsert
	if err := decode(r, &ins); err != nil {
		httputil.WriteError(w, err)
		return
	}
	ins.UserID = requestcontext.UserID(r.Context())

	recipe, err := h.service.Create(r.Context(), ins)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, recipe)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	recipeID, err := id.ParseRecipeID(chi.URLParam(r, "recipeID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	recipe, err := h.service.Get(r.Context(), requestcontext.UserID(r.Context()), recipeID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, recipe)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	recipes, err := h.service.List(r.Context(), requestcontext.UserID(r.Context()))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, recipes)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	recipeID, err := id.ParseRecipeID(chi.URLParam(r, "recipeID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	var upd models.RecipeUpdate
	if err := decode(r, &upd); err != nil {
		httputil.WriteError(w, err)
		return
	}
	recipe, err := h.service.Update(r.Context(), requestcontext.UserID(r.Context()), recipeID, upd)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, recipe)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	recipeID, err := id.ParseRecipeID(chi.URLParam(r, "recipeID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.service.Delete(r.Context(), requestcontext.UserID(r.Context()), recipeID); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) match(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	minPercent, err := parseFloat(q.Get("min_percent"), 0)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	limit, err := parseInt(q.Get("limit"), 50)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	offset, err := parseInt(q.Get("offset"), 0)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	matches, err := h.service.Match(r.Context(), requestcontext.UserID(r.Context()), minPercent, limit, offset)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, matches)
}

func parseFloat(raw string, fallback float64) (float64, error) {
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, apperr.Newf(apperr.CodeInvalidInput, "%q is not a number", raw)
	}
	return v, nil
}

func parseInt(raw string, fallback int) (int, error) {
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, apperr.Newf(apperr.CodeInvalidInput, "%q must be a non-negative integer", raw)
	}
	return v, nil
}

func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apperr.Wrap(apperr.CodeInvalidInput, "invalid request body", err)
	}
	return nil
}
