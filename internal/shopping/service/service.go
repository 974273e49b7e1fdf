// Package service orchestrates shopping list workflows, including generating
// a list from a recipe's missing ingredients.
package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"larder/internal/events"
	pantrymodels "larder/internal/pantry/models"
	"larder/internal/platform/metrics"
	recipemodels "larder/internal/recipe/models"
	"larder/internal/shopping/models"
	"larder/internal/shopping/store"
	"larder/pkg/apperr"
	id "larder/pkg/domain"
	"larder/pkg/requestcontext"
	"larder/pkg/sanitize"
	"larder/pkg/validation"
)

// RecipeReader fetches a recipe on behalf of its owner.
type RecipeReader interface {
	Get(ctx context.Context, userID id.UserID, recipeID id.RecipeID) (*recipemodels.Recipe, error)
}

// PantryReader supplies the caller's pantry holdings so generated lists skip
// ingredients already on hand.
type PantryReader interface {
	ListByUser(ctx context.Context, userID id.UserID) ([]pantrymodels.Ingredient, error)
}

// Service owns shopping list workflows.
type Service struct {
	lists     store.ListStore
	items     store.ItemStore
	recipes   RecipeReader
	pantry    PantryReader
	logger    *slog.Logger
	publisher events.Publisher
	metrics   *metrics.Metrics
	tracer    trace.Tracer
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

// New constructs a Service. recipes and pantry are only needed for
// GenerateFromRecipe and may be nil in deployments without recipes.
func New(lists store.ListStore, items store.ItemStore, recipes RecipeReader, pantry PantryReader, opts ...Option) *Service {
	s := &Service{
		lists:   lists,
		items:   items,
		recipes: recipes,
		pantry:  pantry,
		logger:  slog.Default(),
		tracer:  otel.Tracer("larder/shopping"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) CreateList(ctx context.Context, ins models.ListInsert) (*models.List, error) {
	validated, err := validation.MustValidate(&ins)
	if err != nil {
		s.countValidationFailure()
		return nil, err
	}

	l := models.NewList(id.ListID(uuid.New()), *validated, requestcontext.Now(ctx))
	if _, err := validation.MustValidate(l); err != nil {
		return nil, err
	}
	if err := s.lists.Create(ctx, l); err != nil {
		return nil, apperr.FromSentinel(err, "shopping list")
	}

	if s.metrics != nil {
		s.metrics.EntitiesCreated.WithLabelValues("shopping_list").Inc()
	}
	s.emit(ctx, events.ActionCreated, l.ID.String(), l.UserID)
	return l, nil
}

func (s *Service) GetList(ctx context.Context, userID id.UserID, listID id.ListID) (*models.List, error) {
	l, err := s.lists.FindByID(ctx, listID)
	if err != nil {
		return nil, apperr.FromSentinel(err, "shopping list")
	}
	if l.UserID != userID {
		return nil, apperr.New(apperr.CodeNotFound, "shopping list not found")
	}
	return validation.MustValidate(l)
}

func (s *Service) ListLists(ctx context.Context, userID id.UserID) ([]models.List, error) {
	lists, err := s.lists.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperr.FromSentinel(err, "shopping list")
	}
	return validation.MustValidateSlice(lists)
}

func (s *Service) UpdateList(ctx context.Context, userID id.UserID, listID id.ListID, upd models.ListUpdate) (*models.List, error) {
	validated, err := validation.MustValidate(&upd)
	if err != nil {
		s.countValidationFailure()
		return nil, err
	}

	l, err := s.GetList(ctx, userID, listID)
	if err != nil {
		return nil, err
	}
	l.Apply(*validated, requestcontext.Now(ctx))
	if _, err := validation.MustValidate(l); err != nil {
		return nil, err
	}
	if err := s.lists.Update(ctx, l); err != nil {
		return nil, apperr.FromSentinel(err, "shopping list")
	}
	s.emit(ctx, events.ActionUpdated, l.ID.String(), l.UserID)
	return l, nil
}

func (s *Service) DeleteList(ctx context.Context, userID id.UserID, listID id.ListID) error {
	l, err := s.GetList(ctx, userID, listID)
	if err != nil {
		return err
	}
	if err := s.lists.Delete(ctx, l.ID); err != nil {
		return apperr.FromSentinel(err, "shopping list")
	}
	s.emit(ctx, events.ActionDeleted, l.ID.String(), l.UserID)
	return nil
}

func (s *Service) AddItem(ctx context.Context, userID id.UserID, ins models.ItemInsert) (*models.Item, error) {
	// Escape before validating so length limits bind the stored form.
	ins.Notes = sanitize.String(ins.Notes)
	validated, err := validation.MustValidate(&ins)
	if err != nil {
		s.countValidationFailure()
		return nil, err
	}

	// Ownership rides on the list; an item is reachable only through it.
	l, err := s.GetList(ctx, userID, validated.ListID)
	if err != nil {
		return nil, err
	}

	item := models.NewItem(id.ListItemID(uuid.New()), *validated, requestcontext.Now(ctx))
	if _, err := validation.MustValidate(item); err != nil {
		return nil, err
	}
	if err := s.items.Create(ctx, item); err != nil {
		return nil, apperr.FromSentinel(err, "shopping item")
	}
	s.emit(ctx, events.ActionUpdated, l.ID.String(), l.UserID)
	return item, nil
}

func (s *Service) ListItems(ctx context.Context, userID id.UserID, listID id.ListID) ([]models.Item, error) {
	if _, err := s.GetList(ctx, userID, listID); err != nil {
		return nil, err
	}
	items, err := s.items.ListByList(ctx, listID)
	if err != nil {
		return nil, apperr.FromSentinel(err, "shopping item")
	}
	return validation.MustValidateSlice(items)
}

func (s *Service) UpdateItem(ctx context.Context, userID id.UserID, itemID id.ListItemID, upd models.ItemUpdate) (*models.Item, error) {
	if upd.Notes != nil {
		cleaned := sanitize.String(*upd.Notes)
		upd.Notes = &cleaned
	}
	validated, err := validation.MustValidate(&upd)
	if err != nil {
		s.countValidationFailure()
		return nil, err
	}

	item, err := s.getOwnedItem(ctx, userID, itemID)
	if err != nil {
		return nil, err
	}
	item.Apply(*validated, requestcontext.Now(ctx))
	if _, err := validation.MustValidate(item); err != nil {
		return nil, err
	}
	if err := s.items.Update(ctx, item); err != nil {
		return nil, apperr.FromSentinel(err, "shopping item")
	}
	s.emit(ctx, events.ActionUpdated, item.ListID.String(), userID)
	return item, nil
}

func (s *Service) DeleteItem(ctx context.Context, userID id.UserID, itemID id.ListItemID) error {
	item, err := s.getOwnedItem(ctx, userID, itemID)
	if err != nil {
		return err
	}
	if err := s.items.Delete(ctx, item.ID); err != nil {
		return apperr.FromSentinel(err, "shopping item")
	}
	s.emit(ctx, events.ActionUpdated, item.ListID.String(), userID)
	return nil
}

// GenerateFromRecipe builds a new list holding the recipe's required
// ingredients that are absent from the user's pantry. Optional ingredients
// are never added. The list is created even when nothing is missing, so the
// caller can tell "generated empty" apart from "recipe not found".
func (s *Service) GenerateFromRecipe(ctx context.Context, userID id.UserID, recipeID id.RecipeID) (*models.List, []models.Item, error) {
	ctx, span := s.tracer.Start(ctx, "shopping.generate_from_recipe",
		trace.WithAttributes(attribute.String("recipe.id", recipeID.String())))
	defer span.End()

	if s.recipes == nil || s.pantry == nil {
		return nil, nil, apperr.New(apperr.CodeInternal, "list generation is not configured")
	}

	r, err := s.recipes.Get(ctx, userID, recipeID)
	if err != nil {
		return nil, nil, err
	}
	holdings, err := s.pantry.ListByUser(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	onHand := make(map[string]struct{}, len(holdings))
	for _, ing := range holdings {
		onHand[normalizeName(ing.Name)] = struct{}{}
	}

	l, err := s.CreateList(ctx, models.ListInsert{
		UserID: userID,
		Name:   "Shopping for " + r.Title,
	})
	if err != nil {
		return nil, nil, err
	}

	items := make([]models.Item, 0)
	for _, ing := range r.Ingredients {
		if ing.Optional {
			continue
		}
		if _, ok := onHand[normalizeName(ing.Name)]; ok {
			continue
		}
		item, err := s.AddItem(ctx, userID, models.ItemInsert{
			ListID:   l.ID,
			Name:     ing.Name,
			Quantity: ing.Quantity,
			Unit:     ing.Unit,
		})
		if err != nil {
			return nil, nil, err
		}
		items = append(items, *item)
	}

	span.SetAttributes(attribute.Int("shopping.items_generated", len(items)))
	s.emit(ctx, events.ActionGenerated, l.ID.String(), userID)
	return l, items, nil
}

func (s *Service) getOwnedItem(ctx context.Context, userID id.UserID, itemID id.ListItemID) (*models.Item, error) {
	item, err := s.items.FindByID(ctx, itemID)
	if err != nil {
		return nil, apperr.FromSentinel(err, "shopping item")
	}
	if _, err := s.GetList(ctx, userID, item.ListID); err != nil {
		return nil, apperr.New(apperr.CodeNotFound, "shopping item not found")
	}
	return item, nil
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func (s *Service) emit(ctx context.Context, action events.Action, listID string, userID id.UserID) {
	if s.publisher == nil {
		return
	}
	event := events.Event{
		Timestamp: requestcontext.Now(ctx),
		UserID:    userID.String(),
		Action:    action,
		Entity:    "shopping_list",
		EntityID:  listID,
		Device:    requestcontext.DeviceLabel(ctx),
	}
	if err := s.publisher.Emit(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "event emit failed", "entity", "shopping_list", "error", err)
	}
}

func (s *Service) countValidationFailure() {
	if s.metrics != nil {
		s.metrics.ValidationFailures.WithLabelValues("shopping_list").Inc()
	}
}
