// Package handler exposes pantry operations over HTTP.
package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"larder/internal/pantry/models"
	"larder/pkg/apperr"
	id "larder/pkg/domain"
	"larder/pkg/platform/httputil"
	"larder/pkg/requestcontext"
)

// Service is the pantry surface the handler needs.
type Service interface {
	CreateIngredient(ctx context.Context, ins models.IngredientInsert) (*models.Ingredient, error)
	GetIngredient(ctx context.Context, userID id.UserID, ingredientID id.IngredientID) (*models.Ingredient, error)
	ListIngredients(ctx context.Context, userID id.UserID) ([]models.Ingredient, error)
	UpdateIngredient(ctx context.Context, userID id.UserID, ingredientID id.IngredientID, upd models.IngredientUpdate) (*models.Ingredient, error)
	DeleteIngredient(ctx context.Context, userID id.UserID, ingredientID id.IngredientID) error
	ExpiringIngredients(ctx context.Context, userID id.UserID, days int) ([]models.Ingredient, error)

	CreateLeftover(ctx context.Context, ins models.LeftoverInsert) (*models.Leftover, error)
	GetLeftover(ctx context.Context, userID id.UserID, leftoverID id.LeftoverID) (*models.Leftover, error)
	ListLeftovers(ctx context.Context, userID id.UserID) ([]models.Leftover, error)
	UpdateLeftover(ctx context.Context, userID id.UserID, leftoverID id.LeftoverID, upd models.LeftoverUpdate) (*models.Leftover, error)
	DeleteLeftover(ctx context.Context, userID id.UserID, leftoverID id.LeftoverID) error
	ExpiringLeftovers(ctx context.Context, userID id.UserID, days int) ([]models.Leftover, error)
}

type Handler struct {
	service Service
}

func New(service Service) *Handler {
	return &Handler{service: service}
}

// Routes mounts the pantry endpoints. Callers must already be authenticated.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Route("/ingredients", func(r chi.Router) {
		r.Get("/", h.listIngredients)
		r.Post("/", h.createIngredient)
		r.Get("/expiring", h.expiringIngredients)
		r.Get("/{ingredientID}", h.getIngredient)
		r.Patch("/{ingredientID}", h.updateIngredient)
		r.Delete("/{ingredientID}", h.deleteIngredient)
	})
	r.Route("/leftovers", func(r chi.Router) {
		r.Get("/", h.listLeftovers)
		r.Post("/", h.createLeftover)
		r.Get("/expiring", h.expiringLeftovers)
		r.Get("/{leftoverID}", h.getLeftover)
		r.Patch("/{leftoverID}", h.updateLeftover)
		r.Delete("/{leftoverID}", h.deleteLeftover)
	})
	return r
}

func (h *Handler) createIngredient(w http.ResponseWriter, r *http.Request) {
	var ins models.IngredientInsert
	if err := decode(r, &ins); err != nil {
		httputil.WriteError(w, err)
		return
	}
	ins.UserID = requestcontext.UserID(r.Context())

	ing, err := h.service.CreateIngredient(r.Context(), ins)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, ing)
}

func (h *Handler) getIngredient(w http.ResponseWriter, r *http.Request) {
	ingredientID, err := id.ParseIngredientID(chi.URLParam(r, "ingredientID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	ing, err := h.service.GetIngredient(r.Context(), requestcontext.UserID(r.Context()), ingredientID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, ing)
}

func (h *Handler) listIngredients(w http.ResponseWriter, r *http.Request) {
	ingredients, err := h.service.ListIngredients(r.Context(), requestcontext.UserID(r.Context()))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, ingredients)
}

func (h *Handler) updateIngredient(w http.ResponseWriter, r *http.Request) {
	ingredientID, err := id.ParseIngredientID(chi.URLParam(r, "ingredientID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	var upd models.IngredientUpdate
	if err := decode(r, &upd); err != nil {
		httputil.WriteError(w, err)
		return
	}
	ing, err := h.service.UpdateIngredient(r.Context(), requestcontext.UserID(r.Context()), ingredientID, upd)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, ing)
}

func (h *Handler) deleteIngredient(w http.ResponseWriter, r *http.Request) {
	ingredientID, err := id.ParseIngredientID(chi.URLParam(r, "ingredientID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.service.DeleteIngredient(r.Context(), requestcontext.UserID(r.Context()), ingredientID); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) expiringIngredients(w http.ResponseWriter, r *http.Request) {
	days, err := parseDays(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	ingredients, err := h.service.ExpiringIngredients(r.Context(), requestcontext.UserID(r.Context()), days)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, ingredients)
}

func (h *Handler) createLeftover(w http.ResponseWriter, r *http.Request) {
	var ins models.LeftoverInsert
	if err := decode(r, &ins); err != nil {
		httputil.WriteError(w, err)
		return
	}
	ins.UserID = requestcontext.UserID(r.Context())

	left, err := h.service.CreateLeftover(r.Context(), ins)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, left)
}

func (h *Handler) getLeftover(w http.ResponseWriter, r *http.Request) {
	leftoverID, err := id.ParseLeftoverID(chi.URLParam(r, "leftoverID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	left, err := h.service.GetLeftover(r.Context(), requestcontext.UserID(r.Context()), leftoverID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, left)
}

func (h *Handler) listLeftovers(w http.ResponseWriter, r *http.Request) {
	leftovers, err := h.service.ListLeftovers(r.Context(), requestcontext.UserID(r.Context()))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, leftovers)
}

func (h *Handler) updateLeftover(w http.ResponseWriter, r *http.Request) {
	leftoverID, err := id.ParseLeftoverID(chi.URLParam(r, "leftoverID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	var upd models.LeftoverUpdate
	if err := decode(r, &upd); err != nil {
		httputil.WriteError(w, err)
		return
	}
	left, err := h.service.UpdateLeftover(r.Context(), requestcontext.UserID(r.Context()), leftoverID, upd)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, left)
}

func (h *Handler) deleteLeftover(w http.ResponseWriter, r *http.Request) {
	leftoverID, err := id.ParseLeftoverID(chi.URLParam(r, "leftoverID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.service.DeleteLeftover(r.Context(), requestcontext.UserID(r.Context()), leftoverID); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) expiringLeftovers(w http.ResponseWriter, r *http.Request) {
	days, err := parseDays(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	leftovers, err := h.service.ExpiringLeftovers(r.Context(), requestcontext.UserID(r.Context()), days)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, leftovers)
}

const defaultExpiryDays = 7

func parseDays(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("days")
	if raw == "" {
		return defaultExpiryDays, nil
	}
	days, err := strconv.Atoi(raw)
	if err != nil || days < 0 {
		return 0, apperr.Newf(apperr.CodeInvalidInput, "days %q must be a non-negative integer", raw)
	}
	return days, nil
}

func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apperr.Wrap(apperr.CodeInvalidInput, "invalid request body", err)
	}
	return nil
}
