// Package models defines the user profile shape. Preference arrays default
// to empty collections when absent rather than failing validation; the
// service also dedupes them, so "vegan, vegan" stores once.
package models

import (
	"time"

	id "larder/pkg/domain"
)

// Measurement systems form a closed set.
const (
	MeasurementMetric   = "Metric"
	MeasurementImperial = "Imperial"
)

// Profile is the read shape.
type Profile struct {
	ID                  id.UserID `json:"id" validate:"required"`
	UserID              id.UserID `json:"user_id" validate:"required"`
	DisplayName         string    `json:"display_name" validate:"max=100"`
	FamilySize          int       `json:"family_size" validate:"required,gt=0"`
	MeasurementSystem   string    `json:"measurement_system" validate:"required,oneof=Metric Imperial"`
	DietaryRestrictions []string  `json:"dietary_restrictions" validate:"dive,max=100"`
	Allergies           []string  `json:"allergies" validate:"dive,max=100"`
	KitchenEquipment    []string  `json:"kitchen_equipment" validate:"dive,max=100"`
	CreatedAt           time.Time `json:"created_at" validate:"required"`
	UpdatedAt           time.Time `json:"updated_at" validate:"required"`
}

type ProfileInsert struct {
	UserID              id.UserID `json:"user_id" validate:"required"`
	DisplayName         string    `json:"display_name" validate:"max=100"`
	FamilySize          int       `json:"family_size" validate:"required,gt=0"`
	MeasurementSystem   string    `json:"measurement_system" validate:"required,oneof=Metric Imperial"`
	DietaryRestrictions []string  `json:"dietary_restrictions" validate:"dive,max=100"`
	Allergies           []string  `json:"allergies" validate:"dive,max=100"`
	KitchenEquipment    []string  `json:"kitchen_equipment" validate:"dive,max=100"`
}

type ProfileUpdate struct {
	DisplayName         *string   `json:"display_name,omitempty" validate:"omitempty,max=100"`
	FamilySize          *int      `json:"family_size,omitempty" validate:"omitempty,gt=0"`
	MeasurementSystem   *string   `json:"measurement_system,omitempty" validate:"omitempty,oneof=Metric Imperial"`
	DietaryRestrictions *[]string `json:"dietary_restrictions,omitempty" validate:"omitempty,dive,max=100"`
	Allergies           *[]string `json:"allergies,omitempty" validate:"omitempty,dive,max=100"`
	KitchenEquipment    *[]string `json:"kitchen_equipment,omitempty" validate:"omitempty,dive,max=100"`
}

func NewProfile(ins ProfileInsert, now time.Time) *Profile {
	return &Profile{
		ID:                  ins.UserID,
		UserID:              ins.UserID,
		DisplayName:         ins.DisplayName,
		FamilySize:          ins.FamilySize,
		MeasurementSystem:   ins.MeasurementSystem,
		DietaryRestrictions: ins.DietaryRestrictions,
		Allergies:           ins.Allergies,
		KitchenEquipment:    ins.KitchenEquipment,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
}

func (p *Profile) Apply(upd ProfileUpdate, now time.Time) {
	if upd.DisplayName != nil {
		p.DisplayName = *upd.DisplayName
	}
	if upd.FamilySize != nil {
		p.FamilySize = *upd.FamilySize
	}
	if upd.MeasurementSystem != nil {
		p.MeasurementSystem = *upd.MeasurementSystem
	}
	if upd.DietaryRestrictions != nil {
		p.DietaryRestrictions = *upd.DietaryRestrictions
	}
	if upd.Allergies != nil {
		p.Allergies = *upd.Allergies
	}
	if upd.KitchenEquipment != nil {
		p.KitchenEquipment = *upd.KitchenEquipment
	}
	p.UpdatedAt = now
}
