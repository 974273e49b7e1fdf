// Package handler exposes shopping list operations over HTTP.
package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"larder/internal/shopping/models"
	"larder/pkg/apperr"
	id "larder/pkg/domain"
	"larder/pkg/platform/httputil"
	"larder/pkg/requestcontext"
)

// Service is the shopping surface the handler needs.
type Service interface {
	CreateList(ctx context.Context, ins models.ListInsert) (*models.List, error)
	GetList(ctx context.Context, userID id.UserID, listID id.ListID) (*models.List, error)
	ListLists(ctx context.Context, userID id.UserID) ([]models.List, error)
	UpdateList(ctx context.Context, userID id.UserID, listID id.ListID, upd models.ListUpdate) (*models.List, error)
	DeleteList(ctx context.Context, userID id.UserID, listID id.ListID) error

	AddItem(ctx context.Context, userID id.UserID, ins models.ItemInsert) (*models.Item, error)
	ListItems(ctx context.Context, userID id.UserID, listID id.ListID) ([]models.Item, error)
	UpdateItem(ctx context.Context, userID id.UserID, itemID id.ListItemID, upd models.ItemUpdate) (*models.Item, error)
	DeleteItem(ctx context.Context, userID id.UserID, itemID id.ListItemID) error

	GenerateFromRecipe(ctx context.Context, userID id.UserID, recipeID id.RecipeID) (*models.List, []models.Item, error)
}

type Handler struct {
	service Service
}

func New(service Service) *Handler {
	return &Handler{service: service}
}

// Routes mounts the shopping endpoints. Callers must already be authenticated.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.listLists)
	r.Post("/", h.createList)
	r.Post("/generate", h.generate)
	r.Route("/{listID}", func(r chi.Router) {
		r.Get("/", h.getList)
		r.Patch("/", h.updateList)
		r.Delete("/", h.deleteList)
		r.Get("/items", h.listItems)
		r.Post("/items", h.addItem)
	})
	r.Patch("/items/{itemID}", h.updateItem)
	r.Delete("/items/{itemID}", h.deleteItem)
	return r
}

func (h *Handler) createList(w http.ResponseWriter, r *http.Request) {
	var ins models.ListInsert
	if err := decode(r, &ins); err != nil {
		httputil.WriteError(w, err)
		return
	}
	ins.UserID = requestcontext.UserID(r.Context())

	l, err := h.service.CreateList(r.Context(), ins)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, l)
}

func (h *Handler) getList(w http.ResponseWriter, r *http.Request) {
	listID, err := id.ParseListID(chi.URLParam(r, "listID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	l, err := h.service.GetList(r.Context(), requestcontext.UserID(r.Context()), listID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, l)
}

func (h *Handler) listLists(w http.ResponseWriter, r *http.Request) {
	lists, err := h.service.ListLists(r.Context(), requestcontext.UserID(r.Context()))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, lists)
}

func (h *Handler) updateList(w http.ResponseWriter, r *http.Request) {
	listID, err := id.ParseListID(chi.URLParam(r, "listID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	var upd models.ListUpdate
	if err := decode(r, &upd); err != nil {
		httputil.WriteError(w, err)
		return
	}
	l, err := h.service.UpdateList(r.Context(), requestcontext.UserID(r.Context()), listID, upd)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, l)
}

func (h *Handler) deleteList(w http.ResponseWriter, r *http.Request) {
	listID, err := id.ParseListID(chi.URLParam(r, "listID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.service.DeleteList(r.Context(), requestcontext.UserID(r.Context()), listID); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) addItem(w http.ResponseWriter, r *http.Request) {
	listID, err := id.ParseListID(chi.URLParam(r, "listID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	var ins models.ItemInsert
	if err := decode(r, &ins); err != nil {
		httputil.WriteError(w, err)
		return
	}
	ins.ListID = listID

	item, err := h.service.AddItem(r.Context(), requestcontext.UserID(r.Context()), ins)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, item)
}

func (h *Handler) listItems(w http.ResponseWriter, r *http.Request) {
	listID, err := id.ParseListID(chi.URLParam(r, "listID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	items, err := h.service.ListItems(r.Context(), requestcontext.UserID(r.Context()), listID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, items)
}

func (h *Handler) updateItem(w http.ResponseWriter, r *http.Request) {
	itemID, err := id.ParseListItemID(chi.URLParam(r, "itemID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	var upd models.ItemUpdate
	if err := decode(r, &upd); err != nil {
		httputil.WriteError(w, err)
		return
	}
	item, err := h.service.UpdateItem(r.Context(), requestcontext.UserID(r.Context()), itemID, upd)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, item)
}

func (h *Handler) deleteItem(w http.ResponseWriter, r *http.Request) {
	itemID, err := id.ParseListItemID(chi.URLParam(r, "itemID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.service.DeleteItem(r.Context(), requestcontext.UserID(r.Context()), itemID); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) generate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RecipeID string `json:"recipe_id"`
	}
	if err := decode(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}
	recipeID, err := id.ParseRecipeID(req.RecipeID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	l, items, err := h.service.GenerateFromRecipe(r.Context(), requestcontext.UserID(r.Context()), recipeID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, map[string]any{
		"list":  l,
		"items": items,
	})
}

func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apperr.Wrap(apperr.CodeInvalidInput, "invalid request body", err)
	}
	return nil
}
