// Package handler exposes assistant conversations over HTTP.
package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"larder/internal/chat/models"
	"larder/internal/chat/service"
	"larder/pkg/apperr"
	id "larder/pkg/domain"
	"larder/pkg/platform/httputil"
	"larder/pkg/requestcontext"
)

// Service is the chat surface the handler needs.
type Service interface {
	CreateConversation(ctx context.Context, ins models.ConversationInsert) (*models.Conversation, error)
	GetConversation(ctx context.Context, userID id.UserID, conversationID id.ConversationID) (*models.Conversation, error)
	ListConversations(ctx context.Context, userID id.UserID) ([]models.Conversation, error)
	RenameConversation(ctx context.Context, userID id.UserID, conversationID id.ConversationID, upd models.ConversationUpdate) (*models.Conversation, error)
	DeleteConversation(ctx context.Context, userID id.UserID, conversationID id.ConversationID) error
	ListMessages(ctx context.Context, userID id.UserID, conversationID id.ConversationID) ([]models.Message, error)
	Start(ctx context.Context, userID id.UserID, content string) (*models.Conversation, *service.Exchange, error)
	Send(ctx context.Context, userID id.UserID, conversationID id.ConversationID, content string) (*service.Exchange, error)
}

type Handler struct {
	service Service
}

func New(svc Service) *Handler {
	return &Handler{service: svc}
}

// Routes mounts the chat endpoints. Callers must already be authenticated.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.list)
	r.Post("/", h.start)
	r.Route("/{conversationID}", func(r chi.Router) {
		r.Get("/", h.get)
		r.Patch("/", h.rename)
		r.Delete("/", h.delete)
		r.Get("/messages", h.listMessages)
		r.Post("/messages", h.send)
	})
	return r
}

type messageRequest struct {
	Content string `json:"content"`
}

func (h *Handler) start(w http.ResponseWriter, r *http.Request) {
	var req messageRequest
	if err := decode(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}

	c, exchange, err := h.service.Start(r.Context(), requestcontext.UserID(r.Context()), req.Content)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, map[string]any{
		"conversation": c,
		"exchange":     exchange,
	})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	conversationID, err := id.ParseConversationID(chi.URLParam(r, "conversationID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	c, err := h.service.GetConversation(r.Context(), requestcontext.UserID(r.Context()), conversationID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, c)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	conversations, err := h.service.ListConversations(r.Context(), requestcontext.UserID(r.Context()))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, conversations)
}

func (h *Handler) rename(w http.ResponseWriter, r *http.Request) {
	conversationID, err := id.ParseConversationID(chi.URLParam(r, "conversationID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	var upd models.ConversationUpdate
	if err := decode(r, &upd); err != nil {
		httputil.WriteError(w, err)
		return
	}
	c, err := h.service.RenameConversation(r.Context(), requestcontext.UserID(r.Context()), conversationID, upd)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, c)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	conversationID, err := id.ParseConversationID(chi.URLParam(r, "conversationID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.service.DeleteConversation(r.Context(), requestcontext.UserID(r.Context()), conversationID); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) listMessages(w http.ResponseWriter, r *http.Request) {
	conversationID, err := id.ParseConversationID(chi.URLParam(r, "conversationID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	messages, err := h.service.ListMessages(r.Context(), requestcontext.UserID(r.Context()), conversationID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, messages)
}

func (h *Handler) send(w http.ResponseWriter, r *http.Request) {
	conversationID, err := id.ParseConversationID(chi.URLParam(r, "conversationID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	var req messageRequest
	if err := decode(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}
	exchange, err := h.service.Send(r.Context(), requestcontext.UserID(r.Context()), conversationID, req.Content)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, exchange)
}

func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apperr.Wrap(apperr.CodeInvalidInput, "invalid request body", err)
	}
	return nil
}
