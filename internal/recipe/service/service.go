// Package service orchestrates recipe workflows: CRUD bracketed by
// validation, plus the pantry-match computation with memoized results.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"larder/internal/events"
	pantrymodels "larder/internal/pantry/models"
	"larder/internal/platform/cache"
	"larder/internal/platform/config"
	"larder/internal/platform/metrics"
	"larder/internal/recipe/models"
	"larder/internal/recipe/store"
	"larder/pkg/apperr"
	id "larder/pkg/domain"
	"larder/pkg/requestcontext"
	"larder/pkg/sanitize"
	"larder/pkg/validation"
)

// PantryReader supplies the caller's pantry holdings for match scoring.
type PantryReader interface {
	ListByUser(ctx context.Context, userID id.UserID) ([]pantrymodels.Ingredient, error)
}

// Service owns recipe workflows.
type Service struct {
	recipes   store.RecipeStore
	pantry    PantryReader
	logger    *slog.Logger
	publisher events.Publisher
	metrics   *metrics.Metrics
	loader    *cache.Loader
	cache     cache.Cache
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

// WithCache memoizes match results in c until invalidated by a recipe write
// or expiry.
func WithCache(c cache.Cache) Option {
	return func(s *Service) {
		s.cache = c
		s.loader = cache.NewLoader(c)
	}
}

// New constructs a Service.
func New(recipes store.RecipeStore, pantry PantryReader, opts ...Option) *Service {
	s := &Service{
		recipes: recipes,
		pantry:  pantry,
		logger:  slog.Default(),
		tracer:  otel.Tracer("larder/recipe"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Create(ctx context.Context, ins models.RecipeInsert) (*models.Recipe, error) {
	// Escape before validating so length limits bind the stored form.
	ins.Description = sanitize.String(ins.Description)
	for i := range ins.Instructions {
		ins.Instructions[i].Text = sanitize.String(ins.Instructions[i].Text)
	}
	validated, err := validation.MustValidate(&ins)
	if err != nil {
		s.countValidationFailure()
		return nil, err
	}

	r := models.NewRecipe(id.RecipeID(uuid.New()), *validated, requestcontext.Now(ctx))
	if _, err := validation.MustValidate(r); err != nil {
		return nil, err
	}
	if err := s.recipes.Create(ctx, r); err != nil {
		return nil, apperr.FromSentinel(err, "recipe")
	}

	if s.metrics != nil {
		s.metrics.EntitiesCreated.WithLabelValues("recipe").Inc()
	}
	s.invalidateMatches(ctx, r.UserID)
	s.emit(ctx, events.ActionCreated, r.ID.String(), r.UserID)
	return r, nil
}

func (s *Service) Get(ctx context.Context, userID id.UserID, recipeID id.RecipeID) (*models.Recipe, error) {
	r, err := s.recipes.FindByID(ctx, recipeID)
	if err != nil {
		return nil, apperr.FromSentinel(err, "recipe")
	}
	if r.UserID != userID {
		return nil, apperr.New(apperr.CodeNotFound, "recipe not found")
	}
	return validation.MustValidate(r)
}

func (s *Service) List(ctx context.Context, userID id.UserID) ([]models.Recipe, error) {
	recipes, err := s.recipes.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperr.FromSentinel(err, "recipe")
	}
	return validation.MustValidateSlice(recipes)
}

func (s *Service) Update(ctx context.Context, userID id.UserID, recipeID id.RecipeID, upd models.RecipeUpdate) (*models.Recipe, error) {
	if upd.Description != nil {
		cleaned := sanitize.String(*upd.Description)
		upd.Description = &cleaned
	}
	if upd.Instructions != nil {
		steps := *upd.Instructions
		for i := range steps {
			steps[i].Text = sanitize.String(steps[i].Text)
		}
	}
	validated, err := validation.MustValidate(&upd)
	if err != nil {
		s.countValidationFailure()
		return nil, err
	}

	r, err := s.Get(ctx, userID, recipeID)
	if err != nil {
		return nil, err
	}
	r.Apply(*validated, requestcontext.Now(ctx))
	if _, err := validation.MustValidate(r); err != nil {
		return nil, err
	}
	if err := s.recipes.Update(ctx, r); err != nil {
		return nil, apperr.FromSentinel(err, "recipe")
	}

	s.invalidateMatches(ctx, r.UserID)
	s.emit(ctx, events.ActionUpdated, r.ID.String(), r.UserID)
	return r, nil
}

func (s *Service) Delete(ctx context.Context, userID id.UserID, recipeID id.RecipeID) error {
	r, err := s.Get(ctx, userID, recipeID)
	if err != nil {
		return err
	}
	if err := s.recipes.Delete(ctx, r.ID); err != nil {
		return apperr.FromSentinel(err, "recipe")
	}
	s.invalidateMatches(ctx, r.UserID)
	s.emit(ctx, events.ActionDeleted, r.ID.String(), r.UserID)
	return nil
}

// Match scores the user's recipes against their current pantry. Results are
// memoized per (user, params) until a recipe write bumps the user's match
// generation or the cache entry expires.
func (s *Service) Match(ctx context.Context, userID id.UserID, minPercent float64, limit, offset int) ([]models.Match, error) {
	ctx, span := s.tracer.Start(ctx, "recipe.match",
		trace.WithAttributes(
			attribute.Float64("match.min_percent", minPercent),
			attribute.Int("match.limit", limit),
			attribute.Int("match.offset", offset),
		))
	defer span.End()

	if minPercent < 0 || minPercent > 100 {
		return nil, apperr.New(apperr.CodeInvalidInput, "min percent must be between 0 and 100")
	}
	if limit < 0 || offset < 0 {
		return nil, apperr.New(apperr.CodeInvalidInput, "limit and offset must not be negative")
	}

	if s.loader == nil {
		return s.computeMatches(ctx, userID, minPercent, limit, offset)
	}

	gen, err := s.matchGeneration(ctx, userID)
	if err != nil {
		// Cache trouble must not take down the read path.
		s.logger.WarnContext(ctx, "match cache unavailable", "error", err)
		return s.computeMatches(ctx, userID, minPercent, limit, offset)
	}

	key := fmt.Sprintf("recipe_match:%s:%s:%g:%d:%d", userID, gen, minPercent, limit, offset)
	payload, hit, err := s.loader.GetOrLoad(ctx, key, config.MatchCacheTTL, func(ctx context.Context) ([]byte, error) {
		matches, err := s.computeMatches(ctx, userID, minPercent, limit, offset)
		if err != nil {
			return nil, err
		}
		return json.Marshal(matches)
	})
	if err != nil {
		return nil, err
	}
	s.countCache(hit)

	var matches []models.Match
	if err := json.Unmarshal(payload, &matches); err != nil {
		return nil, apperr.Wrap(apperr.CodeInternal, "decode cached matches", err)
	}
	return matches, nil
}

func (s *Service) computeMatches(ctx context.Context, userID id.UserID, minPercent float64, limit, offset int) ([]models.Match, error) {
	holdings, err := s.pantry.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperr.FromSentinel(err, "pantry")
	}
	pantry := make([]string, 0, len(holdings))
	for _, ing := range holdings {
		pantry = append(pantry, normalizeName(ing.Name))
	}

	matches, err := s.recipes.Match(ctx, userID, store.MatchParams{
		Pantry:     pantry,
		MinPercent: minPercent,
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		return nil, apperr.FromSentinel(err, "recipe")
	}
	return matches, nil
}

// matchGeneration returns the user's current match generation, minting one
// when absent. Writes invalidate by deleting the generation key, which
// orphans every match key derived from the old generation.
func (s *Service) matchGeneration(ctx context.Context, userID id.UserID) (string, error) {
	genKey := matchGenKey(userID)
	if val, ok, err := s.cache.Get(ctx, genKey); err != nil {
		return "", err
	} else if ok {
		return string(val), nil
	}
	gen := uuid.NewString()
	if err := s.cache.Set(ctx, genKey, []byte(gen), config.MatchCacheTTL); err != nil {
		return "", err
	}
	return gen, nil
}

func (s *Service) invalidateMatches(ctx context.Context, userID id.UserID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, matchGenKey(userID)); err != nil {
		s.logger.WarnContext(ctx, "match cache invalidation failed", "error", err)
	}
}

func matchGenKey(userID id.UserID) string {
	return "recipe_match_gen:" + userID.String()
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func (s *Service) emit(ctx context.Context, action events.Action, recipeID string, userID id.UserID) {
	if s.publisher == nil {
		return
	}
	event := events.Event{
		Timestamp: requestcontext.Now(ctx),
		UserID:    userID.String(),
		Action:    action,
		Entity:    "recipe",
		EntityID:  recipeID,
		Device:    requestcontext.DeviceLabel(ctx),
	}
	if err := s.publisher.Emit(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "event emit failed", "entity", "recipe", "error", err)
	}
}

func (s *Service) countValidationFailure() {
	if s.metrics != nil {
		s.metrics.ValidationFailures.WithLabelValues("recipe").Inc()
	}
}

func (s *Service) countCache(hit bool) {
	if s.metrics == nil {
		return
	}
	if hit {
		s.metrics.CacheHits.Inc()
	} else {
		s.metrics.CacheMisses.Inc()
	}
}
