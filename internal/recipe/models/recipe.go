// Package models defines recipe shapes. A recipe embeds its ingredients and
// instructions as full values, not references, so validating a recipe
// transitively validates every embedded row. The same holds for recipes
// embedded in chat messages.
package models

import (
	"strings"
	"time"

	id "larder/pkg/domain"
)

// Difficulty levels form a closed set; violations name all three options.
const (
	DifficultyEasy   = "Easy"
	DifficultyMedium = "Medium"
	DifficultyHard   = "Hard"
)

// Recipe is the read shape, including server-generated fields.
//
// ImageURL accepts a valid absolute URL or the empty string: "no image set"
// is a legal state, an unparseable URL is not.
type Recipe struct {
	ID              id.RecipeID        `json:"id" validate:"required"`
	UserID          id.UserID          `json:"user_id" validate:"required"`
	Title           string             `json:"title" validate:"required,min=1,max=255"`
	Description     string             `json:"description" validate:"max=2000"`
	Difficulty      string             `json:"difficulty" validate:"required,oneof=Easy Medium Hard"`
	PrepTimeMinutes int                `json:"prep_time_minutes" validate:"gte=0"`
	CookTimeMinutes int                `json:"cook_time_minutes" validate:"gte=0"`
	Servings        int                `json:"servings" validate:"required,gt=0"`
	ImageURL        string             `json:"image_url" validate:"omitempty,url"`
	SourceURL       string             `json:"source_url" validate:"omitempty,url"`
	Ingredients     []RecipeIngredient `json:"recipe_ingredients" validate:"dive"`
	Instructions    []Instruction      `json:"recipe_instructions" validate:"dive"`
	CreatedAt       time.Time          `json:"created_at" validate:"required"`
	UpdatedAt       time.Time          `json:"updated_at" validate:"required"`
}

// RecipeIngredient is one line of a recipe's ingredient list.
type RecipeIngredient struct {
	Name     string  `json:"name" validate:"required,min=1,max=255"`
	Quantity float64 `json:"quantity" validate:"required,gt=0"`
	Unit     string  `json:"unit" validate:"required,max=50"`
	Optional bool    `json:"optional"`
}

// Instruction is one numbered step. Step numbers are whole and positive.
type Instruction struct {
	StepNumber int    `json:"step_number" validate:"required,gt=0"`
	Text       string `json:"text" validate:"required,min=1,max=2000"`
}

// RecipeInsert is the caller-supplied creation shape. Embedded ingredient
// and instruction lines share the read shapes since they carry no
// server-generated fields of their own.
type RecipeInsert struct {
	UserID          id.UserID          `json:"user_id" validate:"required"`
	Title           string             `json:"title" validate:"required,min=1,max=255"`
	Description     string             `json:"description" validate:"max=2000"`
	Difficulty      string             `json:"difficulty" validate:"required,oneof=Easy Medium Hard"`
	PrepTimeMinutes int                `json:"prep_time_minutes" validate:"gte=0"`
	CookTimeMinutes int                `json:"cook_time_minutes" validate:"gte=0"`
	Servings        int                `json:"servings" validate:"required,gt=0"`
	ImageURL        string             `json:"image_url" validate:"omitempty,url"`
	SourceURL       string             `json:"source_url" validate:"omitempty,url"`
	Ingredients     []RecipeIngredient `json:"recipe_ingredients" validate:"dive"`
	Instructions    []Instruction      `json:"recipe_instructions" validate:"dive"`
}

// RecipeUpdate is the partial-modification shape; ownership is immutable.
type RecipeUpdate struct {
	Title           *string             `json:"title,omitempty" validate:"omitempty,min=1,max=255"`
	Description     *string             `json:"description,omitempty" validate:"omitempty,max=2000"`
	Difficulty      *string             `json:"difficulty,omitempty" validate:"omitempty,oneof=Easy Medium Hard"`
	PrepTimeMinutes *int                `json:"prep_time_minutes,omitempty" validate:"omitempty,gte=0"`
	CookTimeMinutes *int                `json:"cook_time_minutes,omitempty" validate:"omitempty,gte=0"`
	Servings        *int                `json:"servings,omitempty" validate:"omitempty,gt=0"`
	ImageURL        *string             `json:"image_url,omitempty" validate:"omitempty,url"`
	SourceURL       *string             `json:"source_url,omitempty" validate:"omitempty,url"`
	Ingredients     *[]RecipeIngredient `json:"recipe_ingredients,omitempty" validate:"omitempty,dive"`
	Instructions    *[]Instruction      `json:"recipe_instructions,omitempty" validate:"omitempty,dive"`
}

func NewRecipe(recipeID id.RecipeID, ins RecipeInsert, now time.Time) *Recipe {
	return &Recipe{
		ID:              recipeID,
		UserID:          ins.UserID,
		Title:           ins.Title,
		Description:     ins.Description,
		Difficulty:      ins.Difficulty,
		PrepTimeMinutes: ins.PrepTimeMinutes,
		CookTimeMinutes: ins.CookTimeMinutes,
		Servings:        ins.Servings,
		ImageURL:        ins.ImageURL,
		SourceURL:       ins.SourceURL,
		Ingredients:     ins.Ingredients,
		Instructions:    ins.Instructions,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

func (r *Recipe) Apply(upd RecipeUpdate, now time.Time) {
	if upd.Title != nil {
		r.Title = *upd.Title
	}
	if upd.Description != nil {
		r.Description = *upd.Description
	}
	if upd.Difficulty != nil {
		r.Difficulty = *upd.Difficulty
	}
	if upd.PrepTimeMinutes != nil {
		r.PrepTimeMinutes = *upd.PrepTimeMinutes
	}
	if upd.CookTimeMinutes != nil {
		r.CookTimeMinutes = *upd.CookTimeMinutes
	}
	if upd.Servings != nil {
		r.Servings = *upd.Servings
	}
	if upd.ImageURL != nil {
		r.ImageURL = *upd.ImageURL
	}
	if upd.SourceURL != nil {
		r.SourceURL = *upd.SourceURL
	}
	if upd.Ingredients != nil {
		r.Ingredients = *upd.Ingredients
	}
	if upd.Instructions != nil {
		r.Instructions = *upd.Instructions
	}
	r.UpdatedAt = now
}

// IngredientNames returns the lowercased, trimmed names of the recipe's
// required (non-optional) ingredients, the unit the pantry-match computation
// works in.
func (r *Recipe) IngredientNames() []string {
	names := make([]string, 0, len(r.Ingredients))
	for _, ing := range r.Ingredients {
		if ing.Optional {
			continue
		}
		names = append(names, strings.ToLower(strings.TrimSpace(ing.Name)))
	}
	return names
}

// Match is a recipe scored against a pantry: the percentage of its required
// ingredients the pantry covers, and how many are missing.
type Match struct {
	Recipe       Recipe  `json:"recipe"`
	MatchPercent float64 `json:"match_percent"`
	MissingCount int     `json:"missing_count"`
}
