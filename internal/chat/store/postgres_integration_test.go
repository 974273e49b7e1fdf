//go:build integration

package store

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"larder/internal/chat/models"
	"larder/internal/platform/db"
	recipemodels "larder/internal/recipe/models"
	id "larder/pkg/domain"
	"larder/pkg/platform/sentinel"
	"larder/pkg/testutil/containers"
)

type PostgresSuite struct {
	suite.Suite
	ctx           context.Context
	pool          *sql.DB
	url           string
	conversations *PostgresConversations
	messages      *PostgresMessages
	userID        id.UserID
	now           time.Time
}

func TestPostgresSuite(t *testing.T) {
	suite.Run(t, new(PostgresSuite))
}

func (s *PostgresSuite) SetupSuite() {
	s.ctx = context.Background()
	s.url = containers.GetManager().GetPostgres(s.T())

	pool, err := db.Open(s.ctx, s.url)
	s.Require().NoError(err)
	s.pool = pool
	s.conversations = NewPostgresConversations(pool)
	s.messages = NewPostgresMessages(pool)
}

func (s *PostgresSuite) TearDownSuite() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func (s *PostgresSuite) SetupTest() {
	containers.TruncateTables(s.T(), s.url)
	s.userID = id.UserID(uuid.New())
	s.now = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
}

func (s *PostgresSuite) newConversation(title string) *models.Conversation {
	c := models.NewConversation(id.ConversationID(uuid.New()), models.ConversationInsert{
		UserID: s.userID, Title: title, Device: "Chrome on macOS",
	}, s.now)
	s.Require().NoError(s.conversations.Create(s.ctx, c))
	return c
}

func (s *PostgresSuite) newMessage(conversationID id.ConversationID, sender, content string, at time.Time) *models.Message {
	m := models.NewMessage(id.MessageID(uuid.New()), models.MessageInsert{
		ConversationID: conversationID, Sender: sender, Content: content,
	}, at)
	s.Require().NoError(s.messages.Create(s.ctx, m))
	return m
}

func (s *PostgresSuite) TestConversationRoundTrip() {
	c := s.newConversation("Dinner ideas")

	got, err := s.conversations.FindByID(s.ctx, c.ID)
	s.Require().NoError(err)
	s.Equal("Dinner ideas", got.Title)
	s.Equal("Chrome on macOS", got.Device)

	got.Title = "Weeknight dinners"
	got.UpdatedAt = s.now.Add(time.Hour)
	s.Require().NoError(s.conversations.Update(s.ctx, got))

	listed, err := s.conversations.ListByUser(s.ctx, s.userID)
	s.Require().NoError(err)
	s.Require().Len(listed, 1)
	s.Equal("Weeknight dinners", listed[0].Title)
}

func (s *PostgresSuite) TestListByUserOrdersByActivity() {
	old := s.newConversation("Old")
	fresh := s.newConversation("Fresh")
	fresh.UpdatedAt = s.now.Add(2 * time.Hour)
	s.Require().NoError(s.conversations.Update(s.ctx, fresh))

	listed, err := s.conversations.ListByUser(s.ctx, s.userID)
	s.Require().NoError(err)
	s.Require().Len(listed, 2)
	s.Equal(fresh.ID, listed[0].ID)
	s.Equal(old.ID, listed[1].ID)
}

func (s *PostgresSuite) TestMessagesKeepExchangeOrder() {
	c := s.newConversation("Dinner ideas")

	// Both turns of an exchange share the request clock; insertion order
	// must break the tie.
	s.newMessage(c.ID, models.SenderUser, "What can I cook?", s.now)
	s.newMessage(c.ID, models.SenderAI, "How about pancakes?", s.now)
	s.newMessage(c.ID, models.SenderUser, "Anything savoury?", s.now.Add(time.Minute))

	listed, err := s.messages.ListByConversation(s.ctx, c.ID)
	s.Require().NoError(err)
	s.Require().Len(listed, 3)
	s.Equal("What can I cook?", listed[0].Content)
	s.Equal("How about pancakes?", listed[1].Content)
	s.Equal("Anything savoury?", listed[2].Content)
}

func (s *PostgresSuite) TestRecipesColumnRoundTrip() {
	c := s.newConversation("Dinner ideas")

	suggestion := *recipemodels.NewRecipe(id.RecipeID(uuid.New()), recipemodels.RecipeInsert{
		UserID:     s.userID,
		Title:      "Pancakes",
		Difficulty: recipemodels.DifficultyEasy,
		Servings:   2,
		Ingredients: []recipemodels.RecipeIngredient{
			{Name: "Flour", Quantity: 200, Unit: "g"},
		},
	}, s.now)

	m := models.NewMessage(id.MessageID(uuid.New()), models.MessageInsert{
		ConversationID: c.ID,
		Sender:         models.SenderAI,
		Content:        "Try these",
		Recipes:        []recipemodels.Recipe{suggestion},
	}, s.now)
	s.Require().NoError(s.messages.Create(s.ctx, m))

	listed, err := s.messages.ListByConversation(s.ctx, c.ID)
	s.Require().NoError(err)
	s.Require().Len(listed, 1)
	s.Require().Len(listed[0].Recipes, 1)
	s.Equal("Pancakes", listed[0].Recipes[0].Title)
	s.Equal("Flour", listed[0].Recipes[0].Ingredients[0].Name)
}

func (s *PostgresSuite) TestDeleteCascadesToMessages() {
	c := s.newConversation("Dinner ideas")
	s.newMessage(c.ID, models.SenderUser, "Hello", s.now)

	s.Require().NoError(s.conversations.Delete(s.ctx, c.ID))

	var orphans int
	err := s.pool.QueryRowContext(s.ctx,
		`SELECT count(*) FROM chat_messages WHERE conversation_id = $1`, uuid.UUID(c.ID)).Scan(&orphans)
	s.Require().NoError(err)
	s.Zero(orphans)
	s.ErrorIs(s.conversations.Delete(s.ctx, c.ID), sentinel.ErrNotFound)
}
