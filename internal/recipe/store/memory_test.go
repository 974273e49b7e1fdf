package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"larder/internal/recipe/models"
	id "larder/pkg/domain"
	"larder/pkg/platform/sentinel"
)

type MemorySuite struct {
	suite.Suite
	ctx    context.Context
	store  *InMemory
	userID id.UserID
	now    time.Time
}

func TestMemorySuite(t *testing.T) {
	suite.Run(t, new(MemorySuite))
}

func (s *MemorySuite) SetupTest() {
	s.ctx = context.Background()
	s.store = NewInMemory()
	s.userID = id.UserID(uuid.New())
	s.now = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
}

// SetupSubTest gives each s.Run subtest a fresh store.
func (s *MemorySuite) SetupSubTest() {
	s.SetupTest()
}

func (s *MemorySuite) addRecipe(title string, ingredients ...models.RecipeIngredient) *models.Recipe {
	r := models.NewRecipe(id.RecipeID(uuid.New()), models.RecipeInsert{
		UserID:      s.userID,
		Title:       title,
		Difficulty:  models.DifficultyEasy,
		Servings:    2,
		Ingredients: ingredients,
	}, s.now)
	s.Require().NoError(s.store.Create(s.ctx, r))
	return r
}

func line(name string, optional bool) models.RecipeIngredient {
	return models.RecipeIngredient{Name: name, Quantity: 1, Unit: "pcs", Optional: optional}
}

func (s *MemorySuite) TestCRUD() {
	s.Run("create then find", func() {
		r := s.addRecipe("Toast", line("bread", false))
		got, err := s.store.FindByID(s.ctx, r.ID)
		s.NoError(err)
		s.Equal("Toast", got.Title)
	})

	s.Run("duplicate create conflicts", func() {
		r := s.addRecipe("Toast", line("bread", false))
		s.ErrorIs(s.store.Create(s.ctx, r), sentinel.ErrConflict)
	})

	s.Run("find missing returns not found", func() {
		_, err := s.store.FindByID(s.ctx, id.RecipeID(uuid.New()))
		s.ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("list is scoped to the user and sorted by title", func() {
		s.addRecipe("Waffles", line("flour", false))
		s.addRecipe("Pancakes", line("flour", false))

		other := models.NewRecipe(id.RecipeID(uuid.New()), models.RecipeInsert{
			UserID:     id.UserID(uuid.New()),
			Title:      "Not mine",
			Difficulty: models.DifficultyEasy,
			Servings:   1,
		}, s.now)
		s.Require().NoError(s.store.Create(s.ctx, other))

		recipes, err := s.store.ListByUser(s.ctx, s.userID)
		s.NoError(err)
		s.Require().Len(recipes, 2)
		s.Equal("Pancakes", recipes[0].Title)
		s.Equal("Waffles", recipes[1].Title)
	})

	s.Run("delete removes the recipe", func() {
		r := s.addRecipe("Toast", line("bread", false))
		s.NoError(s.store.Delete(s.ctx, r.ID))
		s.ErrorIs(s.store.Delete(s.ctx, r.ID), sentinel.ErrNotFound)
	})
}

func (s *MemorySuite) TestMatch() {
	s.Run("scores required-ingredient coverage", func() {
		s.addRecipe("Omelette", line("eggs", false), line("butter", false))
		s.addRecipe("Scrambled eggs", line("eggs", false))

		matches, err := s.store.Match(s.ctx, s.userID, MatchParams{Pantry: []string{"eggs"}})
		s.NoError(err)
		s.Require().Len(matches, 2)

		// Full coverage sorts first.
		s.Equal("Scrambled eggs", matches[0].Recipe.Title)
		s.Equal(100.0, matches[0].MatchPercent)
		s.Equal(0, matches[0].MissingCount)

		s.Equal("Omelette", matches[1].Recipe.Title)
		s.Equal(50.0, matches[1].MatchPercent)
		s.Equal(1, matches[1].MissingCount)
	})

	s.Run("optional ingredients do not count against the score", func() {
		s.addRecipe("Pancakes", line("flour", false), line("maple syrup", true))

		matches, err := s.store.Match(s.ctx, s.userID, MatchParams{Pantry: []string{"flour"}})
		s.NoError(err)
		s.Require().Len(matches, 1)
		s.Equal(100.0, matches[0].MatchPercent)
	})

	s.Run("min percent filters low scores", func() {
		s.addRecipe("Omelette", line("eggs", false), line("butter", false))
		s.addRecipe("Scrambled eggs", line("eggs", false))

		matches, err := s.store.Match(s.ctx, s.userID, MatchParams{
			Pantry:     []string{"eggs"},
			MinPercent: 75,
		})
		s.NoError(err)
		s.Require().Len(matches, 1)
		s.Equal("Scrambled eggs", matches[0].Recipe.Title)
	})

	s.Run("recipes with no required ingredients are skipped", func() {
		s.addRecipe("Empty", line("garnish", true))

		matches, err := s.store.Match(s.ctx, s.userID, MatchParams{Pantry: []string{"garnish"}})
		s.NoError(err)
		s.Empty(matches)
	})

	s.Run("ties sort by title and paging applies after sorting", func() {
		s.addRecipe("Beans on toast", line("beans", false))
		s.addRecipe("Avocado toast", line("avocado", false))
		s.addRecipe("Cheese toast", line("cheese", false))

		matches, err := s.store.Match(s.ctx, s.userID, MatchParams{
			Pantry: []string{"beans", "avocado", "cheese"},
			Limit:  2,
		})
		s.NoError(err)
		s.Require().Len(matches, 2)
		s.Equal("Avocado toast", matches[0].Recipe.Title)
		s.Equal("Beans on toast", matches[1].Recipe.Title)

		rest, err := s.store.Match(s.ctx, s.userID, MatchParams{
			Pantry: []string{"beans", "avocado", "cheese"},
			Limit:  2,
			Offset: 2,
		})
		s.NoError(err)
		s.Require().Len(rest, 1)
		s.Equal("Cheese toast", rest[0].Recipe.Title)

		past, err := s.store.Match(s.ctx, s.userID, MatchParams{
			Pantry: []string{"beans"},
			Offset: 99,
		})
		s.NoError(err)
		s.Empty(past)
	})

	s.Run("negative offset reads from the start", func() {
		s.addRecipe("Lentil soup", line("lentils", false))

		matches, err := s.store.Match(s.ctx, s.userID, MatchParams{
			Pantry: []string{"lentils"},
			Offset: -3,
		})
		s.NoError(err)
		s.Require().Len(matches, 1)
		s.Equal("Lentil soup", matches[0].Recipe.Title)
	})
}
