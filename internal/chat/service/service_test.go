package service

import (
	"context"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"larder/internal/chat/assistant"
	"larder/internal/chat/models"
	"larder/internal/chat/store"
	"larder/internal/events"
	pantrymodels "larder/internal/pantry/models"
	recipemodels "larder/internal/recipe/models"
	"larder/pkg/apperr"
	id "larder/pkg/domain"
	"larder/pkg/requestcontext"
)

type fixedPantry struct {
	holdings []pantrymodels.Ingredient
}

func (p *fixedPantry) ListByUser(context.Context, id.UserID) ([]pantrymodels.Ingredient, error) {
	return p.holdings, nil
}

type ServiceSuite struct {
	suite.Suite
	ctx    context.Context
	canned *assistant.Canned
	spy    *events.Memory
	userID id.UserID
	now    time.Time
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.now = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	s.ctx = requestcontext.WithTime(context.Background(), s.now)
	s.userID = id.UserID(uuid.New())
	s.canned = assistant.NewCanned()
	s.spy = events.NewMemory(100)
}

func (s *ServiceSuite) newService(opts ...Option) *Service {
	conversations := store.NewInMemoryConversations()
	messages := store.NewInMemoryMessages()
	conversations.AttachMessages(messages)
	opts = append(opts, WithPublisher(s.spy))
	return New(conversations, messages, s.canned, opts...)
}

func (s *ServiceSuite) TestStart() {
	svc := s.newService()

	s.Run("derives the title from the first message", func() {
		c, exchange, err := svc.Start(s.ctx, s.userID, "What can I cook with eggs tonight?")
		s.Require().NoError(err)
		s.Equal("What can I cook with eggs tonight?", c.Title)
		s.Equal(models.SenderUser, exchange.UserMessage.Sender)
		s.Equal(models.SenderAI, exchange.Reply.Sender)
	})

	s.Run("long first messages are truncated", func() {
		long := strings.Repeat("cook ", 40)
		c, _, err := svc.Start(s.ctx, s.userID, long)
		s.Require().NoError(err)
		s.LessOrEqual(len(c.Title), 80)
	})

	s.Run("derived titles keep multi-byte runes whole", func() {
		c, _, err := svc.Start(s.ctx, s.userID, strings.Repeat("é", 60))
		s.Require().NoError(err)
		s.True(utf8.ValidString(c.Title))
		s.Equal(maxDerivedTitle, utf8.RuneCountInString(c.Title))
	})

	s.Run("markup-heavy first messages still fit the title cap", func() {
		c, _, err := svc.Start(s.ctx, s.userID, strings.Repeat("&", 120))
		s.Require().NoError(err)
		s.LessOrEqual(len(c.Title), 255)
	})
}

func (s *ServiceSuite) TestSend() {
	s.Run("round-trips through the assistant with history and pantry", func() {
		pantry := &fixedPantry{holdings: []pantrymodels.Ingredient{{Name: "Eggs"}}}
		svc := s.newService(WithPantry(pantry))

		c, _, err := svc.Start(s.ctx, s.userID, "Hello")
		s.Require().NoError(err)

		_, err = svc.Send(s.ctx, s.userID, c.ID, "Suggest dinner")
		s.Require().NoError(err)

		requests := s.canned.Requests()
		s.Require().Len(requests, 2)
		second := requests[1]
		s.Equal("Suggest dinner", second.Message)
		s.Equal([]string{"Eggs"}, second.Pantry)
		// History covers the first exchange, oldest first.
		s.Require().Len(second.History, 2)
		s.Equal(models.SenderUser, second.History[0].Sender)
		s.Equal(models.SenderAI, second.History[1].Sender)
	})

	s.Run("stores both turns and keeps them ordered", func() {
		svc := s.newService()
		c, _, err := svc.Start(s.ctx, s.userID, "Hello")
		s.Require().NoError(err)

		messages, err := svc.ListMessages(s.ctx, s.userID, c.ID)
		s.Require().NoError(err)
		s.Require().Len(messages, 2)
		s.Equal(models.SenderUser, messages[0].Sender)
		s.Equal(models.SenderAI, messages[1].Sender)
	})

	s.Run("a reply with invalid recipes never reaches the store", func() {
		s.canned = assistant.NewCanned(assistant.Response{
			Content: "Try this",
			Recipes: []recipemodels.Recipe{{Title: "No difficulty set"}},
		})
		svc := s.newService()
		c, err := svc.CreateConversation(s.ctx, models.ConversationInsert{UserID: s.userID, Title: "Dinner"})
		s.Require().NoError(err)

		_, err = svc.Send(s.ctx, s.userID, c.ID, "Suggest dinner")
		s.Require().Error(err)
		s.True(apperr.HasCode(err, apperr.CodeInvalidInput))

		// The user's turn survives; only the reply was refused.
		messages, err := svc.ListMessages(s.ctx, s.userID, c.ID)
		s.Require().NoError(err)
		s.Require().Len(messages, 1)
		s.Equal(models.SenderUser, messages[0].Sender)
	})

	s.Run("sending into a stranger's conversation is not found", func() {
		svc := s.newService()
		c, _, err := svc.Start(s.ctx, s.userID, "Hello")
		s.Require().NoError(err)

		_, err = svc.Send(s.ctx, id.UserID(uuid.New()), c.ID, "hi")
		s.True(apperr.HasCode(err, apperr.CodeNotFound))
	})
}

func (s *ServiceSuite) TestConversationLifecycle() {
	svc := s.newService()
	c, _, err := svc.Start(s.ctx, s.userID, "Hello")
	s.Require().NoError(err)

	title := "Dinner planning"
	renamed, err := svc.RenameConversation(s.ctx, s.userID, c.ID, models.ConversationUpdate{Title: &title})
	s.Require().NoError(err)
	s.Equal("Dinner planning", renamed.Title)

	s.Require().NoError(svc.DeleteConversation(s.ctx, s.userID, c.ID))
	_, err = svc.GetConversation(s.ctx, s.userID, c.ID)
	s.True(apperr.HasCode(err, apperr.CodeNotFound))

	_, err = svc.ListMessages(s.ctx, s.userID, c.ID)
	s.True(apperr.HasCode(err, apperr.CodeNotFound))
}
