// Package service orchestrates assistant conversations. The assistant's
// replies go through the same validation gate as user input: a reply whose
// embedded recipes fail validation never reaches the store.
package service

import (
	"context"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"larder/internal/chat/assistant"
	"larder/internal/chat/models"
	"larder/internal/chat/store"
	"larder/internal/events"
	pantrymodels "larder/internal/pantry/models"
	"larder/internal/platform/metrics"
	"larder/pkg/apperr"
	id "larder/pkg/domain"
	"larder/pkg/requestcontext"
	"larder/pkg/sanitize"
	"larder/pkg/validation"
)

// Titles derived from a first message are cut at this many runes. Escaping
// can grow a rune to five bytes, so 50 keeps the escaped title within the
// 255-character cap.
const maxDerivedTitle = 50

// PantryReader supplies the caller's pantry holdings so the assistant can
// suggest recipes around what is on hand.
type PantryReader interface {
	ListByUser(ctx context.Context, userID id.UserID) ([]pantrymodels.Ingredient, error)
}

// Exchange is the pair of messages produced by one Send call.
type Exchange struct {
	UserMessage *models.Message `json:"user_message"`
	Reply       *models.Message `json:"reply"`
}

// Service owns conversation workflows.
type Service struct {
	conversations store.ConversationStore
	messages      store.MessageStore
	assistant     assistant.Assistant
	pantry        PantryReader
	logger        *slog.Logger
	publisher     events.Publisher
	metrics       *metrics.Metrics
	tracer        trace.Tracer
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithPublisher(publisher events.Publisher) Option {
	return func(s *Service) { s.publisher = publisher }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithPantry lets the assistant see current pantry holdings.
func WithPantry(pantry PantryReader) Option {
	return func(s *Service) { s.pantry = pantry }
}

// New constructs a Service.
func New(conversations store.ConversationStore, messages store.MessageStore, asst assistant.Assistant, opts ...Option) *Service {
	s := &Service{
		conversations: conversations,
		messages:      messages,
		assistant:     asst,
		logger:        slog.Default(),
		tracer:        otel.Tracer("larder/chat"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) CreateConversation(ctx context.Context, ins models.ConversationInsert) (*models.Conversation, error) {
	// Escape before validating so length limits bind the stored form.
	ins.Title = sanitize.String(ins.Title)
	validated, err := validation.MustValidate(&ins)
	if err != nil {
		s.countValidationFailure()
		return nil, err
	}
	if validated.Device == "" {
		validated.Device = requestcontext.DeviceLabel(ctx)
	}

	c := models.NewConversation(id.ConversationID(uuid.New()), *validated, requestcontext.Now(ctx))
	if _, err := validation.MustValidate(c); err != nil {
		return nil, err
	}
	if err := s.conversations.Create(ctx, c); err != nil {
		return nil, apperr.FromSentinel(err, "conversation")
	}

	if s.metrics != nil {
		s.metrics.EntitiesCreated.WithLabelValues("conversation").Inc()
	}
	s.emit(ctx, events.ActionCreated, c.ID.String(), c.UserID)
	return c, nil
}

func (s *Service) GetConversation(ctx context.Context, userID id.UserID, conversationID id.ConversationID) (*models.Conversation, error) {
	c, err := s.conversations.FindByID(ctx, conversationID)
	if err != nil {
		return nil, apperr.FromSentinel(err, "conversation")
	}
	if c.UserID != userID {
		return nil, apperr.New(apperr.CodeNotFound, "conversation not found")
	}
	return validation.MustValidate(c)
}

func (s *Service) ListConversations(ctx context.Context, userID id.UserID) ([]models.Conversation, error) {
	conversations, err := s.conversations.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperr.FromSentinel(err, "conversation")
	}
	return validation.MustValidateSlice(conversations)
}

func (s *Service) RenameConversation(ctx context.Context, userID id.UserID, conversationID id.ConversationID, upd models.ConversationUpdate) (*models.Conversation, error) {
	if upd.Title != nil {
		cleaned := sanitize.String(*upd.Title)
		upd.Title = &cleaned
	}
	validated, err := validation.MustValidate(&upd)
	if err != nil {
		s.countValidationFailure()
		return nil, err
	}

	c, err := s.GetConversation(ctx, userID, conversationID)
	if err != nil {
		return nil, err
	}
	c.Apply(*validated, requestcontext.Now(ctx))
	if _, err := validation.MustValidate(c); err != nil {
		return nil, err
	}
	if err := s.conversations.Update(ctx, c); err != nil {
		return nil, apperr.FromSentinel(err, "conversation")
	}
	s.emit(ctx, events.ActionUpdated, c.ID.String(), c.UserID)
	return c, nil
}

func (s *Service) DeleteConversation(ctx context.Context, userID id.UserID, conversationID id.ConversationID) error {
	c, err := s.GetConversation(ctx, userID, conversationID)
	if err != nil {
		return err
	}
	if err := s.conversations.Delete(ctx, c.ID); err != nil {
		return apperr.FromSentinel(err, "conversation")
	}
	s.emit(ctx, events.ActionDeleted, c.ID.String(), c.UserID)
	return nil
}

func (s *Service) ListMessages(ctx context.Context, userID id.UserID, conversationID id.ConversationID) ([]models.Message, error) {
	if _, err := s.GetConversation(ctx, userID, conversationID); err != nil {
		return nil, err
	}
	messages, err := s.messages.ListByConversation(ctx, conversationID)
	if err != nil {
		return nil, apperr.FromSentinel(err, "message")
	}
	return validation.MustValidateSlice(messages)
}

// Start opens a conversation titled after the first message and sends it.
func (s *Service) Start(ctx context.Context, userID id.UserID, content string) (*models.Conversation, *Exchange, error) {
	c, err := s.CreateConversation(ctx, models.ConversationInsert{
		UserID: userID,
		Title:  deriveTitle(content),
	})
	if err != nil {
		return nil, nil, err
	}
	exchange, err := s.Send(ctx, userID, c.ID, content)
	if err != nil {
		return nil, nil, err
	}
	return c, exchange, nil
}

// Send records the user's turn, asks the assistant for a reply, validates it
// and records it. The user's message survives even when the assistant call
// fails, so retrying Send does not lose history.
func (s *Service) Send(ctx context.Context, userID id.UserID, conversationID id.ConversationID, content string) (*Exchange, error) {
	ctx, span := s.tracer.Start(ctx, "chat.send",
		trace.WithAttributes(attribute.String("conversation.id", conversationID.String())))
	defer span.End()

	c, err := s.GetConversation(ctx, userID, conversationID)
	if err != nil {
		return nil, err
	}
	history, err := s.messages.ListByConversation(ctx, conversationID)
	if err != nil {
		return nil, apperr.FromSentinel(err, "message")
	}

	userMsg, err := s.appendMessage(ctx, models.MessageInsert{
		ConversationID: conversationID,
		Sender:         models.SenderUser,
		Content:        content,
	})
	if err != nil {
		return nil, err
	}

	resp, err := s.assistant.Reply(ctx, assistant.Request{
		UserID:  userID.String(),
		Message: userMsg.Content,
		History: toTurns(history),
		Pantry:  s.pantryNames(ctx, userID),
	})
	if err != nil {
		return nil, err
	}

	reply, err := s.appendMessage(ctx, models.MessageInsert{
		ConversationID: conversationID,
		Sender:         models.SenderAI,
		Content:        resp.Content,
		Recipes:        resp.Recipes,
	})
	if err != nil {
		return nil, err
	}

	c.UpdatedAt = requestcontext.Now(ctx)
	if err := s.conversations.Update(ctx, c); err != nil {
		s.logger.WarnContext(ctx, "conversation timestamp update failed", "error", err)
	}
	s.emit(ctx, events.ActionUpdated, c.ID.String(), c.UserID)
	return &Exchange{UserMessage: userMsg, Reply: reply}, nil
}

func (s *Service) appendMessage(ctx context.Context, ins models.MessageInsert) (*models.Message, error) {
	ins.Content = sanitize.String(ins.Content)
	validated, err := validation.MustValidate(&ins)
	if err != nil {
		s.countValidationFailure()
		return nil, err
	}

	m := models.NewMessage(id.MessageID(uuid.New()), *validated, requestcontext.Now(ctx))
	if _, err := validation.MustValidate(m); err != nil {
		return nil, err
	}
	if err := s.messages.Create(ctx, m); err != nil {
		return nil, apperr.FromSentinel(err, "message")
	}
	return m, nil
}

func (s *Service) pantryNames(ctx context.Context, userID id.UserID) []string {
	if s.pantry == nil {
		return nil
	}
	holdings, err := s.pantry.ListByUser(ctx, userID)
	if err != nil {
		// Pantry context is a nice-to-have; the chat still works without it.
		s.logger.WarnContext(ctx, "pantry lookup for chat failed", "error", err)
		return nil
	}
	names := make([]string, 0, len(holdings))
	for _, ing := range holdings {
		names = append(names, ing.Name)
	}
	return names
}

func toTurns(messages []models.Message) []assistant.Turn {
	turns := make([]assistant.Turn, 0, len(messages))
	for _, m := range messages {
		turns = append(turns, assistant.Turn{Sender: m.Sender, Content: m.Content})
	}
	return turns
}

// deriveTitle truncates on rune boundaries; cutting mid-rune would store a
// title that is not valid UTF-8.
func deriveTitle(content string) string {
	title := strings.TrimSpace(content)
	if utf8.RuneCountInString(title) > maxDerivedTitle {
		runes := []rune(title)
		title = strings.TrimSpace(string(runes[:maxDerivedTitle]))
	}
	return title
}

func (s *Service) emit(ctx context.Context, action events.Action, conversationID string, userID id.UserID) {
	if s.publisher == nil {
		return
	}
	event := events.Event{
		Timestamp: requestcontext.Now(ctx),
		UserID:    userID.String(),
		Action:    action,
		Entity:    "conversation",
		EntityID:  conversationID,
		Device:    requestcontext.DeviceLabel(ctx),
	}
	if err := s.publisher.Emit(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "event emit failed", "entity", "conversation", "error", err)
	}
}

func (s *Service) countValidationFailure() {
	if s.metrics != nil {
		s.metrics.ValidationFailures.WithLabelValues("conversation").Inc()
	}
}
