package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	id "larder/pkg/domain"
	"larder/pkg/validation"
)

type ProfileSuite struct {
	suite.Suite
	now time.Time
}

func TestProfileSuite(t *testing.T) {
	suite.Run(t, new(ProfileSuite))
}

func (s *ProfileSuite) SetupTest() {
	s.now = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
}

func (s *ProfileSuite) validInsert() ProfileInsert {
	return ProfileInsert{
		UserID:            id.UserID(uuid.New()),
		DisplayName:       "Sam",
		FamilySize:        3,
		MeasurementSystem: MeasurementMetric,
		Allergies:         []string{"peanuts"},
	}
}

func (s *ProfileSuite) TestValidation() {
	s.Run("valid insert passes", func() {
		ins := s.validInsert()
		s.True(validation.Validate(&ins).Ok())
	})

	s.Run("zero family size is rejected", func() {
		ins := s.validInsert()
		ins.FamilySize = 0
		res := validation.Validate(&ins)
		s.Require().False(res.Ok())
		s.Equal("family_size", res.Errors()[0].Field)
	})

	s.Run("measurement system is a closed set", func() {
		ins := s.validInsert()
		ins.MeasurementSystem = "Cups"
		res := validation.Validate(&ins)
		s.Require().False(res.Ok())
		s.Equal("must be one of: Metric, Imperial", res.Errors()[0].Message)
	})

	s.Run("nil preference arrays become empty", func() {
		ins := s.validInsert()
		ins.Allergies = nil
		res := validation.Validate(&ins)
		s.Require().True(res.Ok())
		s.NotNil(res.Data().Allergies)
	})
}

func (s *ProfileSuite) TestNewProfileKeysOnUser() {
	ins := s.validInsert()
	p := NewProfile(ins, s.now)

	s.Equal(ins.UserID, p.ID)
	s.Equal(ins.UserID, p.UserID)
	s.True(validation.Validate(p).Ok())
}

func (s *ProfileSuite) TestApply() {
	p := NewProfile(s.validInsert(), s.now)

	system := MeasurementImperial
	equipment := []string{"air fryer"}
	later := s.now.Add(time.Hour)
	p.Apply(ProfileUpdate{MeasurementSystem: &system, KitchenEquipment: &equipment}, later)

	s.Equal(MeasurementImperial, p.MeasurementSystem)
	s.Equal([]string{"air fryer"}, p.KitchenEquipment)
	s.Equal(3, p.FamilySize)
	s.Equal(later, p.UpdatedAt)
}
