package router

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/mkravets/nutrilog-server/internal/api/http/handler"
	"github.com/mkravets/nutrilog-server/internal/api/http/middleware"
	"github.com/mkravets/nutrilog-server/internal/logger"
)

// Router assembles the HTTP surface from the individual handlers.
type Router struct {
	auth       *handler.Auth
	food       *handler.Food
	stats      *handler.Stats
	settings   *handler.Settings
	authGuard  *middleware.Auth
	logging    *middleware.Logging
	corsOrigin string
}

func New(
	auth *handler.Auth,
	food *handler.Food,
	stats *handler.Stats,
	settings *handler.Settings,
	authGuard *middleware.Auth,
	logger *logger.Logger,
	corsOrigin string,
) *Router {
	return &Router{
		auth:       auth,
		food:       food,
		stats:      stats,
		settings:   settings,
		authGuard:  authGuard,
		logging:    middleware.NewLogging(logger),
		corsOrigin: corsOrigin,
	}
}

// Register wires all routes and returns the root handler.
func (rt *Router) Register() http.Handler {
	r := chi.NewRouter()

	r.Use(rt.logging.Handle)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   splitOrigins(rt.corsOrigin),
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Post("/api/auth/signup", rt.auth.Signup)
	r.Post("/api/auth/login", rt.auth.Login)
	r.Post("/api/auth/logout", rt.auth.Logout)

	r.Get("/api/theme", rt.settings.GetTheme)
	r.Put("/api/theme", rt.settings.SetTheme)
	r.Post("/api/theme/toggle", rt.settings.ToggleTheme)

	r.Group(func(r chi.Router) {
		r.Use(rt.authGuard.Handle)

		r.Get("/api/auth/me", rt.auth.Me)
		r.Get("/api/logs/{date}", rt.food.GetLog)
		r.Post("/api/foods", rt.food.AddFood)
		r.Get("/api/stats/daily", rt.stats.Daily)
		r.Get("/api/stats/weekly", rt.stats.Weekly)
		r.Put("/api/goal", rt.settings.UpdateGoal)
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	return r
}

func splitOrigins(origins string) []string {
	var out []string
	for _, p := range strings.Split(origins, ",") {
		if o := strings.TrimRight(strings.TrimSpace(p), "/"); o != "" {
			out = append(out, o)
		}
	}
	return out
}
