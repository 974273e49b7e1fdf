package service

import (
	"context"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	pantrymodels "larder/internal/pantry/models"
	"larder/internal/platform/cache"
	"larder/internal/recipe/models"
	"larder/internal/recipe/store"
	"larder/pkg/apperr"
	id "larder/pkg/domain"
	"larder/pkg/requestcontext"
)

// stubPantry serves a fixed set of holdings and counts how often the match
// path consults it.
type stubPantry struct {
	holdings []pantrymodels.Ingredient
	calls    atomic.Int32
}

func (p *stubPantry) ListByUser(context.Context, id.UserID) ([]pantrymodels.Ingredient, error) {
	p.calls.Add(1)
	return p.holdings, nil
}

type ServiceSuite struct {
	suite.Suite
	ctx     context.Context
	service *Service
	pantry  *stubPantry
	userID  id.UserID
	now     time.Time
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.now = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	s.ctx = requestcontext.WithTime(context.Background(), s.now)
	s.userID = id.UserID(uuid.New())
	s.pantry = &stubPantry{holdings: []pantrymodels.Ingredient{
		{Name: "Eggs"}, {Name: " Butter "},
	}}
	s.service = New(store.NewInMemory(), s.pantry, WithCache(cache.NewMemory(64)))
}

func (s *ServiceSuite) validInsert(title string, ingredients ...models.RecipeIngredient) models.RecipeInsert {
	return models.RecipeInsert{
		UserID:      s.userID,
		Title:       title,
		Difficulty:  models.DifficultyEasy,
		Servings:    2,
		Ingredients: ingredients,
	}
}

func line(name string) models.RecipeIngredient {
	return models.RecipeIngredient{Name: name, Quantity: 1, Unit: "pcs"}
}

func (s *ServiceSuite) TestCreate() {
	s.Run("sanitizes description and instruction text", func() {
		ins := s.validInsert("Omelette", line("eggs"))
		ins.Description = "  <b>fluffy</b>  "
		ins.Instructions = []models.Instruction{{StepNumber: 1, Text: "Whisk <well>"}}

		r, err := s.service.Create(s.ctx, ins)
		s.Require().NoError(err)
		s.Equal("&lt;b&gt;fluffy&lt;/b&gt;", r.Description)
		s.Equal("Whisk &lt;well&gt;", r.Instructions[0].Text)
	})

	s.Run("rejects invalid embedded lines", func() {
		ins := s.validInsert("Bad", models.RecipeIngredient{Name: "x", Quantity: -1, Unit: "g"})
		_, err := s.service.Create(s.ctx, ins)
		s.True(apperr.HasCode(err, apperr.CodeInvalidInput))
	})

	s.Run("length limits bind the escaped form", func() {
		ins := s.validInsert("Plain", line("eggs"))
		ins.Description = strings.Repeat("a", 2000)
		_, err := s.service.Create(s.ctx, ins)
		s.NoError(err)

		ins = s.validInsert("Markup", line("eggs"))
		ins.Description = strings.Repeat("&", 500)
		_, err = s.service.Create(s.ctx, ins)
		s.True(apperr.HasCode(err, apperr.CodeInvalidInput))
		s.Contains(apperr.MessageOf(err), "at most 2000 characters")
	})
}

func (s *ServiceSuite) TestUpdate() {
	s.Run("sanitizes replacement instruction text", func() {
		r, err := s.service.Create(s.ctx, s.validInsert("Soup", line("beans")))
		s.Require().NoError(err)

		steps := []models.Instruction{{StepNumber: 1, Text: "<script>alert(1)</script> simmer"}}
		got, err := s.service.Update(s.ctx, s.userID, r.ID, models.RecipeUpdate{Instructions: &steps})
		s.Require().NoError(err)
		s.Require().Len(got.Instructions, 1)
		s.Equal("&lt;script&gt;alert(1)&lt;/script&gt; simmer", got.Instructions[0].Text)

		stored, err := s.service.Get(s.ctx, s.userID, r.ID)
		s.Require().NoError(err)
		s.Equal("&lt;script&gt;alert(1)&lt;/script&gt; simmer", stored.Instructions[0].Text)
	})

	s.Run("sanitizes a replacement description", func() {
		r, err := s.service.Create(s.ctx, s.validInsert("Stew", line("beef")))
		s.Require().NoError(err)

		desc := `<img src=x onerror="steal()">`
		got, err := s.service.Update(s.ctx, s.userID, r.ID, models.RecipeUpdate{Description: &desc})
		s.Require().NoError(err)
		s.Equal("&lt;img src=x onerror=&quot;steal()&quot;&gt;", got.Description)
	})
}

func (s *ServiceSuite) TestMatch() {
	s.Run("bounds min percent", func() {
		_, err := s.service.Match(s.ctx, s.userID, 150, 10, 0)
		s.True(apperr.HasCode(err, apperr.CodeInvalidInput))
		_, err = s.service.Match(s.ctx, s.userID, -1, 10, 0)
		s.True(apperr.HasCode(err, apperr.CodeInvalidInput))
	})

	s.Run("rejects negative paging", func() {
		s.NotPanics(func() {
			_, err := s.service.Match(s.ctx, s.userID, 0, 10, -1)
			s.True(apperr.HasCode(err, apperr.CodeInvalidInput))
			_, err = s.service.Match(s.ctx, s.userID, 0, -1, 0)
			s.True(apperr.HasCode(err, apperr.CodeInvalidInput))
		})
	})

	s.Run("normalizes pantry names before scoring", func() {
		_, err := s.service.Create(s.ctx, s.validInsert("Eggs and butter", line("eggs"), line("butter")))
		s.Require().NoError(err)

		matches, err := s.service.Match(s.ctx, s.userID, 0, 10, 0)
		s.Require().NoError(err)
		s.Require().Len(matches, 1)
		s.Equal(100.0, matches[0].MatchPercent)
	})

	s.Run("repeated queries hit the cache", func() {
		_, err := s.service.Create(s.ctx, s.validInsert("Scramble", line("eggs")))
		s.Require().NoError(err)

		_, err = s.service.Match(s.ctx, s.userID, 0, 10, 0)
		s.Require().NoError(err)
		before := s.pantry.calls.Load()

		_, err = s.service.Match(s.ctx, s.userID, 0, 10, 0)
		s.Require().NoError(err)
		s.Equal(before, s.pantry.calls.Load())
	})

	s.Run("a recipe write invalidates cached matches", func() {
		r, err := s.service.Create(s.ctx, s.validInsert("Scramble", line("eggs")))
		s.Require().NoError(err)

		first, err := s.service.Match(s.ctx, s.userID, 0, 10, 0)
		s.Require().NoError(err)

		title := "Scramble deluxe"
		_, err = s.service.Update(s.ctx, s.userID, r.ID, models.RecipeUpdate{Title: &title})
		s.Require().NoError(err)

		second, err := s.service.Match(s.ctx, s.userID, 0, 10, 0)
		s.Require().NoError(err)
		s.NotEqual(titles(first), titles(second))
		s.Contains(titles(second), "Scramble deluxe")
	})

	s.Run("works without a cache configured", func() {
		bare := New(store.NewInMemory(), s.pantry)
		matches, err := bare.Match(s.ctx, s.userID, 0, 10, 0)
		s.NoError(err)
		s.Empty(matches)
	})
}

func titles(matches []models.Match) []string {
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, m.Recipe.Title)
	}
	return out
}
