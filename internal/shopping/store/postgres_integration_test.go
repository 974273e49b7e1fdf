//go:build integration

package store

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"larder/internal/platform/db"
	"larder/internal/shopping/models"
	id "larder/pkg/domain"
	"larder/pkg/platform/sentinel"
	"larder/pkg/testutil/containers"
)

type PostgresSuite struct {
	suite.Suite
	ctx    context.Context
	pool   *sql.DB
	url    string
	lists  *PostgresLists
	items  *PostgresItems
	userID id.UserID
	now    time.Time
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
	s.lists = NewPostgresLists(pool)
	s.items = NewPostgresItems(pool)
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

func (s *PostgresSuite) newList(name string) *models.List {
	l := models.NewList(id.ListID(uuid.New()), models.ListInsert{
		UserID: s.userID, Name: name,
	}, s.now)
	s.Require().NoError(s.lists.Create(s.ctx, l))
	return l
}

func (s *PostgresSuite) newItem(listID id.ListID, name string) *models.Item {
	item := models.NewItem(id.ListItemID(uuid.New()), models.ItemInsert{
		ListID: listID, Name: name, Quantity: 1, Unit: "pcs",
	}, s.now)
	s.Require().NoError(s.items.Create(s.ctx, item))
	return item
}

func (s *PostgresSuite) TestListRoundTrip() {
	l := s.newList("Weekly shop")

	got, err := s.lists.FindByID(s.ctx, l.ID)
	s.Require().NoError(err)
	s.Equal("Weekly shop", got.Name)
	s.Equal(s.userID, got.UserID)

	got.Name = "Weekend shop"
	got.UpdatedAt = s.now.Add(time.Hour)
	s.Require().NoError(s.lists.Update(s.ctx, got))

	listed, err := s.lists.ListByUser(s.ctx, s.userID)
	s.Require().NoError(err)
	s.Require().Len(listed, 1)
	s.Equal("Weekend shop", listed[0].Name)
}

func (s *PostgresSuite) TestDeleteCascadesToItems() {
	l := s.newList("Groceries")
	other := s.newList("Hardware")
	s.newItem(l.ID, "Eggs")
	s.newItem(l.ID, "Milk")
	kept := s.newItem(other.ID, "Screws")

	s.Require().NoError(s.lists.Delete(s.ctx, l.ID))

	var orphans int
	err := s.pool.QueryRowContext(s.ctx,
		`SELECT count(*) FROM shopping_list_items WHERE list_id = $1`, uuid.UUID(l.ID)).Scan(&orphans)
	s.Require().NoError(err)
	s.Zero(orphans)

	got, err := s.items.FindByID(s.ctx, kept.ID)
	s.Require().NoError(err)
	s.Equal("Screws", got.Name)
}

func (s *PostgresSuite) TestItemRoundTrip() {
	l := s.newList("Groceries")
	item := s.newItem(l.ID, "Eggs")

	item.Purchased = true
	item.Notes = "free range"
	item.UpdatedAt = s.now.Add(time.Hour)
	s.Require().NoError(s.items.Update(s.ctx, item))

	listed, err := s.items.ListByList(s.ctx, l.ID)
	s.Require().NoError(err)
	s.Require().Len(listed, 1)
	s.True(listed[0].Purchased)
	s.Equal("free range", listed[0].Notes)

	s.Require().NoError(s.items.Delete(s.ctx, item.ID))
	_, err = s.items.FindByID(s.ctx, item.ID)
	s.ErrorIs(err, sentinel.ErrNotFound)
	s.ErrorIs(s.items.Delete(s.ctx, item.ID), sentinel.ErrNotFound)
}
