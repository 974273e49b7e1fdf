// Package service orchestrates pantry operations. Validation brackets every
// trust-boundary crossing in both directions: inserts and updates are
// validated before they reach the store, rows are validated after they come
// back, so malformed data surfaces immediately instead of propagating into
// callers.
package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"larder/internal/events"
	"larder/internal/pantry/models"
	"larder/internal/pantry/store"
	"larder/internal/platform/metrics"
	"larder/pkg/apperr"
	id "larder/pkg/domain"
	"larder/pkg/requestcontext"
	"larder/pkg/sanitize"
	"larder/pkg/validation"
)

// Service owns ingredient and leftover workflows.
type Service struct {
	ingredients store.IngredientStore
	leftovers   store.LeftoverStore
	logger      *slog.Logger
	publisher   events.Publisher
	metrics     *metrics.Metrics
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

// New constructs a Service.
func New(ingredients store.IngredientStore, leftovers store.LeftoverStore, opts ...Option) *Service {
	s := &Service{ingredients: ingredients, leftovers: leftovers, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) CreateIngredient(ctx context.Context, ins models.IngredientInsert) (*models.Ingredient, error) {
	// Escape before validating so length limits bind the stored form.
	ins.Notes = sanitize.String(ins.Notes)
	validated, err := validation.MustValidate(&ins)
	if err != nil {
		s.countValidationFailure("ingredient")
		return nil, err
	}

	ing := models.NewIngredient(id.IngredientID(uuid.New()), *validated, requestcontext.Now(ctx))
	if _, err := validation.MustValidate(ing); err != nil {
		return nil, err
	}
	if err := s.ingredients.Create(ctx, ing); err != nil {
		return nil, apperr.FromSentinel(err, "ingredient")
	}

	s.countCreated("ingredient")
	s.emit(ctx, events.ActionCreated, "ingredient", ing.ID.String(), ing.UserID)
	return ing, nil
}

func (s *Service) GetIngredient(ctx context.Context, userID id.UserID, ingredientID id.IngredientID) (*models.Ingredient, error) {
	ing, err := s.ingredients.FindByID(ctx, ingredientID)
	if err != nil {
		return nil, apperr.FromSentinel(err, "ingredient")
	}
	if ing.UserID != userID {
		return nil, apperr.New(apperr.CodeNotFound, "ingredient not found")
	}
	return validation.MustValidate(ing)
}

func (s *Service) ListIngredients(ctx context.Context, userID id.UserID) ([]models.Ingredient, error) {
	items, err := s.ingredients.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperr.FromSentinel(err, "ingredient")
	}
	return validation.MustValidateSlice(items)
}

func (s *Service) UpdateIngredient(ctx context.Context, userID id.UserID, ingredientID id.IngredientID, upd models.IngredientUpdate) (*models.Ingredient, error) {
	if upd.Notes != nil {
		cleaned := sanitize.String(*upd.Notes)
		upd.Notes = &cleaned
	}
	validated, err := validation.MustValidate(&upd)
	if err != nil {
		s.countValidationFailure("ingredient")
		return nil, err
	}

	ing, err := s.GetIngredient(ctx, userID, ingredientID)
	if err != nil {
		return nil, err
	}
	ing.Apply(*validated, requestcontext.Now(ctx))
	if _, err := validation.MustValidate(ing); err != nil {
		return nil, err
	}
	if err := s.ingredients.Update(ctx, ing); err != nil {
		return nil, apperr.FromSentinel(err, "ingredient")
	}

	s.emit(ctx, events.ActionUpdated, "ingredient", ing.ID.String(), ing.UserID)
	return ing, nil
}

func (s *Service) DeleteIngredient(ctx context.Context, userID id.UserID, ingredientID id.IngredientID) error {
	ing, err := s.GetIngredient(ctx, userID, ingredientID)
	if err != nil {
		return err
	}
	if err := s.ingredients.Delete(ctx, ing.ID); err != nil {
		return apperr.FromSentinel(err, "ingredient")
	}
	s.emit(ctx, events.ActionDeleted, "ingredient", ing.ID.String(), ing.UserID)
	return nil
}

// ExpiringIngredients returns ingredients expiring within the next `days`
// calendar days.
func (s *Service) ExpiringIngredients(ctx context.Context, userID id.UserID, days int) ([]models.Ingredient, error) {
	if days < 0 {
		return nil, apperr.New(apperr.CodeInvalidInput, "days must not be negative")
	}
	cutoff := requestcontext.Now(ctx).AddDate(0, 0, days)
	items, err := s.ingredients.ListExpiring(ctx, userID, cutoff)
	if err != nil {
		return nil, apperr.FromSentinel(err, "ingredient")
	}
	return validation.MustValidateSlice(items)
}

func (s *Service) CreateLeftover(ctx context.Context, ins models.LeftoverInsert) (*models.Leftover, error) {
	ins.Notes = sanitize.String(ins.Notes)
	validated, err := validation.MustValidate(&ins)
	if err != nil {
		s.countValidationFailure("leftover")
		return nil, err
	}

	l := models.NewLeftover(id.LeftoverID(uuid.New()), *validated, requestcontext.Now(ctx))
	if _, err := validation.MustValidate(l); err != nil {
		return nil, err
	}
	if err := s.leftovers.Create(ctx, l); err != nil {
		return nil, apperr.FromSentinel(err, "leftover")
	}

	s.countCreated("leftover")
	s.emit(ctx, events.ActionCreated, "leftover", l.ID.String(), l.UserID)
	return l, nil
}

func (s *Service) GetLeftover(ctx context.Context, userID id.UserID, leftoverID id.LeftoverID) (*models.Leftover, error) {
	l, err := s.leftovers.FindByID(ctx, leftoverID)
	if err != nil {
		return nil, apperr.FromSentinel(err, "leftover")
	}
	if l.UserID != userID {
		return nil, apperr.New(apperr.CodeNotFound, "leftover not found")
	}
	return validation.MustValidate(l)
}

func (s *Service) ListLeftovers(ctx context.Context, userID id.UserID) ([]models.Leftover, error) {
	items, err := s.leftovers.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperr.FromSentinel(err, "leftover")
	}
	return validation.MustValidateSlice(items)
}

func (s *Service) UpdateLeftover(ctx context.Context, userID id.UserID, leftoverID id.LeftoverID, upd models.LeftoverUpdate) (*models.Leftover, error) {
	if upd.Notes != nil {
		cleaned := sanitize.String(*upd.Notes)
		upd.Notes = &cleaned
	}
	validated, err := validation.MustValidate(&upd)
	if err != nil {
		s.countValidationFailure("leftover")
		return nil, err
	}

	l, err := s.GetLeftover(ctx, userID, leftoverID)
	if err != nil {
		return nil, err
	}
	l.Apply(*validated, requestcontext.Now(ctx))
	if _, err := validation.MustValidate(l); err != nil {
		return nil, err
	}
	if err := s.leftovers.Update(ctx, l); err != nil {
		return nil, apperr.FromSentinel(err, "leftover")
	}

	s.emit(ctx, events.ActionUpdated, "leftover", l.ID.String(), l.UserID)
	return l, nil
}

func (s *Service) DeleteLeftover(ctx context.Context, userID id.UserID, leftoverID id.LeftoverID) error {
	l, err := s.GetLeftover(ctx, userID, leftoverID)
	if err != nil {
		return err
	}
	if err := s.leftovers.Delete(ctx, l.ID); err != nil {
		return apperr.FromSentinel(err, "leftover")
	}
	s.emit(ctx, events.ActionDeleted, "leftover", l.ID.String(), l.UserID)
	return nil
}

func (s *Service) ExpiringLeftovers(ctx context.Context, userID id.UserID, days int) ([]models.Leftover, error) {
	if days < 0 {
		return nil, apperr.New(apperr.CodeInvalidInput, "days must not be negative")
	}
	cutoff := requestcontext.Now(ctx).AddDate(0, 0, days)
	items, err := s.leftovers.ListExpiring(ctx, userID, cutoff)
	if err != nil {
		return nil, apperr.FromSentinel(err, "leftover")
	}
	return validation.MustValidateSlice(items)
}

func (s *Service) emit(ctx context.Context, action events.Action, entity, entityID string, userID id.UserID) {
	if s.publisher == nil {
		return
	}
	event := events.Event{
		Timestamp: requestcontext.Now(ctx),
		UserID:    userID.String(),
		Action:    action,
		Entity:    entity,
		EntityID:  entityID,
		Device:    requestcontext.DeviceLabel(ctx),
	}
	if err := s.publisher.Emit(ctx, event); err != nil {
		// Event delivery is best effort; the write already succeeded.
		s.logger.WarnContext(ctx, "event emit failed",
			"entity", entity,
			"action", string(action),
			"error", err,
		)
	}
}

func (s *Service) countValidationFailure(entity string) {
	if s.metrics != nil {
		s.metrics.ValidationFailures.WithLabelValues(entity).Inc()
	}
}

func (s *Service) countCreated(entity string) {
	if s.metrics != nil {
		s.metrics.EntitiesCreated.WithLabelValues(entity).Inc()
	}
}
