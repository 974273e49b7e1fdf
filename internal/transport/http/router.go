// Package http assembles the application's HTTP surface: middleware chain,
// domain routes, health and metrics endpoints.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	chathandler "larder/internal/chat/handler"
	pantryhandler "larder/internal/pantry/handler"
	profilehandler "larder/internal/profile/handler"
	recipehandler "larder/internal/recipe/handler"
	shoppinghandler "larder/internal/shopping/handler"
	"larder/pkg/platform/httputil"
	"larder/pkg/platform/middleware/auth"
	"larder/pkg/platform/middleware/device"
	"larder/pkg/platform/middleware/metadata"
	"larder/pkg/platform/middleware/requesttime"
)

// Handlers collects the domain handlers the router mounts.
type Handlers struct {
	Pantry   *pantryhandler.Handler
	Recipes  *recipehandler.Handler
	Shopping *shoppinghandler.Handler
	Profile  *profilehandler.Handler
	Chat     *chathandler.Handler
}

// New builds the router. Every domain route sits behind JWT auth; health and
// metrics stay open for probes and scrapers.
func New(h Handlers, jwtSigningKey []byte) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(requesttime.Middleware)
	r.Use(metadata.ClientMetadata)
	r.Use(device.Label)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(auth.RequireUser(jwtSigningKey))
		r.Mount("/pantry", h.Pantry.Routes())
		r.Mount("/recipes", h.Recipes.Routes())
		r.Mount("/shopping-lists", h.Shopping.Routes())
		r.Mount("/profile", h.Profile.Routes())
		r.Mount("/conversations", h.Chat.Routes())
	})
	return r
}
