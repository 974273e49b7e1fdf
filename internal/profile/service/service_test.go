package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"larder/internal/events"
	"larder/internal/profile/models"
	"larder/internal/profile/store"
	"larder/pkg/apperr"
	id "larder/pkg/domain"
	"larder/pkg/requestcontext"
)

type ServiceSuite struct {
	suite.Suite
	ctx     context.Context
	spy     *events.Memory
	service *Service
	userID  id.UserID
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	s.ctx = requestcontext.WithTime(context.Background(), now)
	s.userID = id.UserID(uuid.New())
	s.spy = events.NewMemory(100)
	s.service = New(store.NewInMemory(), WithPublisher(s.spy))
}

func (s *ServiceSuite) validInsert() models.ProfileInsert {
	return models.ProfileInsert{
		UserID:            s.userID,
		DisplayName:       "Alex",
		FamilySize:        3,
		MeasurementSystem: models.MeasurementMetric,
	}
}

func (s *ServiceSuite) TestCreate() {
	s.Run("dedupes preference arrays", func() {
		ins := s.validInsert()
		ins.DietaryRestrictions = []string{" vegan ", "vegan", "gluten-free"}
		ins.Allergies = []string{"peanuts", " peanuts"}

		p, err := s.service.Create(s.ctx, ins)
		s.Require().NoError(err)
		s.Equal([]string{"vegan", "gluten-free"}, p.DietaryRestrictions)
		s.Equal([]string{"peanuts"}, p.Allergies)
		s.Empty(p.KitchenEquipment)
	})

	s.Run("escapes markup in the display name", func() {
		s.userID = id.UserID(uuid.New())
		ins := s.validInsert()
		ins.DisplayName = "<b>Alex</b>"

		p, err := s.service.Create(s.ctx, ins)
		s.Require().NoError(err)
		s.Equal("&lt;b&gt;Alex&lt;/b&gt;", p.DisplayName)
	})

	s.Run("a second profile for the same user conflicts", func() {
		s.userID = id.UserID(uuid.New())
		_, err := s.service.Create(s.ctx, s.validInsert())
		s.Require().NoError(err)

		_, err = s.service.Create(s.ctx, s.validInsert())
		s.True(apperr.HasCode(err, apperr.CodeConflict))
	})

	s.Run("zero family size is invalid", func() {
		ins := s.validInsert()
		ins.UserID = id.UserID(uuid.New())
		ins.FamilySize = 0
		_, err := s.service.Create(s.ctx, ins)
		s.True(apperr.HasCode(err, apperr.CodeInvalidInput))
	})
}

func (s *ServiceSuite) TestUpdate() {
	_, err := s.service.Create(s.ctx, s.validInsert())
	s.Require().NoError(err)

	s.Run("applies only present fields", func() {
		system := models.MeasurementImperial
		p, err := s.service.Update(s.ctx, s.userID, models.ProfileUpdate{MeasurementSystem: &system})
		s.Require().NoError(err)
		s.Equal(models.MeasurementImperial, p.MeasurementSystem)
		s.Equal("Alex", p.DisplayName)
		s.Equal(3, p.FamilySize)
	})

	s.Run("dedupes replacement arrays", func() {
		equipment := []string{"oven", " oven ", "blender"}
		p, err := s.service.Update(s.ctx, s.userID, models.ProfileUpdate{KitchenEquipment: &equipment})
		s.Require().NoError(err)
		s.Equal([]string{"oven", "blender"}, p.KitchenEquipment)
	})

	s.Run("missing profile is not found", func() {
		size := 2
		_, err := s.service.Update(s.ctx, id.UserID(uuid.New()), models.ProfileUpdate{FamilySize: &size})
		s.True(apperr.HasCode(err, apperr.CodeNotFound))
	})
}

func (s *ServiceSuite) TestDelete() {
	_, err := s.service.Create(s.ctx, s.validInsert())
	s.Require().NoError(err)

	s.Require().NoError(s.service.Delete(s.ctx, s.userID))
	_, err = s.service.Get(s.ctx, s.userID)
	s.True(apperr.HasCode(err, apperr.CodeNotFound))

	deleted := false
	for _, e := range s.spy.ListByUser(s.ctx, s.userID.String()) {
		if e.Action == events.ActionDeleted {
			deleted = true
		}
	}
	s.True(deleted)
}
