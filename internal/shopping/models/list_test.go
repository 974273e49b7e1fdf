package models

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	id "larder/pkg/domain"
	"larder/pkg/validation"
)

type ListSuite struct {
	suite.Suite
	now time.Time
}

func TestListSuite(t *testing.T) {
	suite.Run(t, new(ListSuite))
}

func (s *ListSuite) SetupTest() {
	s.now = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
}

func (s *ListSuite) TestListRoundTrip() {
	ins := ListInsert{UserID: id.UserID(uuid.New()), Name: "Weekly shop"}
	l := NewList(id.ListID(uuid.New()), ins, s.now)

	res := validation.Validate(l)
	s.Require().True(res.Ok())
	s.Equal("Weekly shop", l.Name)
}

func (s *ListSuite) TestItemValidation() {
	s.Run("valid item passes", func() {
		ins := ItemInsert{ListID: id.ListID(uuid.New()), Name: "Eggs", Quantity: 12, Unit: "pcs"}
		item := NewItem(id.ListItemID(uuid.New()), ins, s.now)
		s.True(validation.Validate(item).Ok())
		s.False(item.Purchased)
	})

	s.Run("zero quantity is rejected", func() {
		ins := ItemInsert{ListID: id.ListID(uuid.New()), Name: "Eggs", Quantity: 0, Unit: "pcs"}
		res := validation.Validate(&ins)
		s.Require().False(res.Ok())
		s.Equal("quantity", res.Errors()[0].Field)
	})
}

func (s *ListSuite) TestItemApply() {
	ins := ItemInsert{ListID: id.ListID(uuid.New()), Name: "Eggs", Quantity: 12, Unit: "pcs"}
	item := NewItem(id.ListItemID(uuid.New()), ins, s.now)

	purchased := true
	later := s.now.Add(time.Minute)
	item.Apply(ItemUpdate{Purchased: &purchased}, later)

	s.True(item.Purchased)
	s.Equal("Eggs", item.Name)
	s.Equal(later, item.UpdatedAt)
}

// Items cannot be moved between lists through a partial update.
func (s *ListSuite) TestItemUpdateOmitsListID() {
	t := reflect.TypeOf(ItemUpdate{})
	for i := 0; i < t.NumField(); i++ {
		name := strings.SplitN(t.Field(i).Tag.Get("json"), ",", 2)[0]
		s.NotEqual("list_id", name)
	}
}
