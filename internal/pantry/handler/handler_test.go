package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"

	"larder/internal/pantry/service"
	"larder/internal/pantry/store"
	id "larder/pkg/domain"
	"larder/pkg/requestcontext"
	"larder/pkg/testutil"
)

type HandlerSuite struct {
	suite.Suite
	server *httptest.Server
	userID id.UserID
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	s.userID = testutil.NewUserID()

	svc := service.New(store.NewInMemoryIngredients(), store.NewInMemoryLeftovers())
	routes := New(svc).Routes()

	// Stands in for the auth and request-time middleware on the real router.
	s.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := requestcontext.WithUserID(r.Context(), s.userID)
		ctx = requestcontext.WithTime(ctx, testutil.FixedTime)
		routes.ServeHTTP(w, r.WithContext(ctx))
	}))
	s.T().Cleanup(s.server.Close)
}

func (s *HandlerSuite) do(method, path, body string) (*http.Response, map[string]any) {
	req, err := http.NewRequest(method, s.server.URL+path, strings.NewReader(body))
	s.Require().NoError(err)
	resp, err := s.server.Client().Do(req)
	s.Require().NoError(err)
	s.T().Cleanup(func() { resp.Body.Close() })

	if resp.StatusCode == http.StatusNoContent {
		return resp, nil
	}
	var decoded map[string]any
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&decoded))
	return resp, decoded
}

func (s *HandlerSuite) TestIngredientLifecycle() {
	resp, created := s.do(http.MethodPost, "/ingredients/",
		`{"name":"Flour","quantity":2,"unit":"kg","category":"Baking"}`)
	s.Require().Equal(http.StatusCreated, resp.StatusCode)
	s.Equal("Flour", created["name"])
	s.Equal(s.userID.String(), created["user_id"])

	ingredientID := created["id"].(string)

	resp, got := s.do(http.MethodGet, "/ingredients/"+ingredientID, "")
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	s.Equal("Flour", got["name"])

	resp, updated := s.do(http.MethodPatch, "/ingredients/"+ingredientID, `{"quantity":1.5}`)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	s.Equal(1.5, updated["quantity"])

	resp, _ = s.do(http.MethodDelete, "/ingredients/"+ingredientID, "")
	s.Require().Equal(http.StatusNoContent, resp.StatusCode)

	resp, body := s.do(http.MethodGet, "/ingredients/"+ingredientID, "")
	s.Require().Equal(http.StatusNotFound, resp.StatusCode)
	s.Equal("not_found", body["error"])
}

func (s *HandlerSuite) TestCreateValidationError() {
	resp, body := s.do(http.MethodPost, "/ingredients/",
		`{"name":"","quantity":-1,"unit":"kg","category":"Baking"}`)
	s.Require().Equal(http.StatusBadRequest, resp.StatusCode)
	s.Equal("invalid_input", body["error"])
	s.Contains(body["error_description"], "name")
}

func (s *HandlerSuite) TestMalformedBody() {
	resp, body := s.do(http.MethodPost, "/ingredients/", `{"name":`)
	s.Require().Equal(http.StatusBadRequest, resp.StatusCode)
	s.Equal("invalid_input", body["error"])
}

func (s *HandlerSuite) TestUserIDFromBodyIsIgnored() {
	resp, created := s.do(http.MethodPost, "/ingredients/",
		`{"user_id":"11111111-1111-1111-1111-111111111111","name":"Salt","quantity":1,"unit":"kg","category":"Spices"}`)
	s.Require().Equal(http.StatusCreated, resp.StatusCode)
	s.Equal(s.userID.String(), created["user_id"])
}

func (s *HandlerSuite) TestExpiringQuery() {
	resp, _ := s.do(http.MethodPost, "/ingredients/",
		`{"name":"Milk","quantity":1,"unit":"l","category":"Dairy","expiration_date":"2025-06-18"}`)
	s.Require().Equal(http.StatusCreated, resp.StatusCode)

	req, err := http.NewRequest(http.MethodGet, s.server.URL+"/ingredients/expiring?days=5", nil)
	s.Require().NoError(err)
	resp2, err := s.server.Client().Do(req)
	s.Require().NoError(err)
	defer resp2.Body.Close()
	s.Require().Equal(http.StatusOK, resp2.StatusCode)

	var listed []map[string]any
	s.Require().NoError(json.NewDecoder(resp2.Body).Decode(&listed))
	s.Require().Len(listed, 1)
	s.Equal("Milk", listed[0]["name"])

	s.Run("negative days is rejected", func() {
		resp, body := s.do(http.MethodGet, "/ingredients/expiring?days=-1", "")
		s.Require().Equal(http.StatusBadRequest, resp.StatusCode)
		s.Equal("invalid_input", body["error"])
	})
}

func (s *HandlerSuite) TestLeftovers() {
	resp, created := s.do(http.MethodPost, "/leftovers/",
		`{"name":"Lasagna","quantity":2,"unit":"portions","expiration_date":"2025-06-17"}`)
	s.Require().Equal(http.StatusCreated, resp.StatusCode)
	s.Equal("Lasagna", created["name"])

	s.Run("expiration date is mandatory", func() {
		resp, body := s.do(http.MethodPost, "/leftovers/",
			`{"name":"Stew","quantity":1,"unit":"portions"}`)
		s.Require().Equal(http.StatusBadRequest, resp.StatusCode)
		s.Contains(body["error_description"], "expiration_date")
	})
}
