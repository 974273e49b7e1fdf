// Package service orchestrates profile workflows.
package service

import (
	"context"
	"log/slog"

	"larder/internal/events"
	"larder/internal/platform/metrics"
	"larder/internal/profile/models"
	"larder/internal/profile/store"
	"larder/pkg/apperr"
	id "larder/pkg/domain"
	platformstrings "larder/pkg/platform/strings"
	"larder/pkg/requestcontext"
	"larder/pkg/sanitize"
	"larder/pkg/validation"
)

// Service owns profile workflows.
type Service struct {
	profiles  store.ProfileStore
	logger    *slog.Logger
	publisher events.Publisher
	metrics   *metrics.Metrics
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
func New(profiles store.ProfileStore, opts ...Option) *Service {
	s := &Service{
		profiles: profiles,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Create(ctx context.Context, ins models.ProfileInsert) (*models.Profile, error) {
	// Escape before validating so length limits bind the stored form.
	ins.DisplayName = sanitize.String(ins.DisplayName)
	validated, err := validation.MustValidate(&ins)
	if err != nil {
		s.countValidationFailure()
		return nil, err
	}
	validated.DietaryRestrictions = platformstrings.DedupeAndTrim(validated.DietaryRestrictions)
	validated.Allergies = platformstrings.DedupeAndTrim(validated.Allergies)
	validated.KitchenEquipment = platformstrings.DedupeAndTrim(validated.KitchenEquipment)

	p := models.NewProfile(*validated, requestcontext.Now(ctx))
	if _, err := validation.MustValidate(p); err != nil {
		return nil, err
	}
	if err := s.profiles.Create(ctx, p); err != nil {
		return nil, apperr.FromSentinel(err, "profile")
	}

	if s.metrics != nil {
		s.metrics.EntitiesCreated.WithLabelValues("profile").Inc()
	}
	s.emit(ctx, events.ActionCreated, p.UserID)
	return p, nil
}

func (s *Service) Get(ctx context.Context, userID id.UserID) (*models.Profile, error) {
	p, err := s.profiles.FindByUser(ctx, userID)
	if err != nil {
		return nil, apperr.FromSentinel(err, "profile")
	}
	return validation.MustValidate(p)
}

func (s *Service) Update(ctx context.Context, userID id.UserID, upd models.ProfileUpdate) (*models.Profile, error) {
	if upd.DisplayName != nil {
		cleaned := sanitize.String(*upd.DisplayName)
		upd.DisplayName = &cleaned
	}
	validated, err := validation.MustValidate(&upd)
	if err != nil {
		s.countValidationFailure()
		return nil, err
	}
	dedupe(validated.DietaryRestrictions)
	dedupe(validated.Allergies)
	dedupe(validated.KitchenEquipment)

	p, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	p.Apply(*validated, requestcontext.Now(ctx))
	if _, err := validation.MustValidate(p); err != nil {
		return nil, err
	}
	if err := s.profiles.Update(ctx, p); err != nil {
		return nil, apperr.FromSentinel(err, "profile")
	}
	s.emit(ctx, events.ActionUpdated, p.UserID)
	return p, nil
}

func (s *Service) Delete(ctx context.Context, userID id.UserID) error {
	if err := s.profiles.Delete(ctx, userID); err != nil {
		return apperr.FromSentinel(err, "profile")
	}
	s.emit(ctx, events.ActionDeleted, userID)
	return nil
}

func dedupe(values *[]string) {
	if values != nil {
		*values = platformstrings.DedupeAndTrim(*values)
	}
}

func (s *Service) emit(ctx context.Context, action events.Action, userID id.UserID) {
	if s.publisher == nil {
		return
	}
	event := events.Event{
		Timestamp: requestcontext.Now(ctx),
		UserID:    userID.String(),
		Action:    action,
		Entity:    "profile",
		EntityID:  userID.String(),
		Device:    requestcontext.DeviceLabel(ctx),
	}
	if err := s.publisher.Emit(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "event emit failed", "entity", "profile", "error", err)
	}
}

func (s *Service) countValidationFailure() {
	if s.metrics != nil {
		s.metrics.ValidationFailures.WithLabelValues("profile").Inc()
	}
}
