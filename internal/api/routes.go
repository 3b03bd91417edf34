package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/zapponejosh/shengxiao-api/internal/config"
)

// SetupRoutes configures all HTTP routes and returns the router.
//
// Route structure:
//
//	GET    /health
//	GET    /api/v1/zodiac                      ?year=&month=&day=&rule=
//	GET    /api/v1/zodiac/date/{date}          ?rule=
//	GET    /api/v1/zodiac/years/{year}
//	GET    /api/v1/zodiac/table
//	GET    /api/v1/festival/{year}
//	POST   /api/v1/festival/self-test
//	GET    /api/v1/festival/overrides
//	PUT    /api/v1/festival/overrides/{year}   (API key)
//	DELETE /api/v1/festival/overrides/{year}   (API key)
func SetupRoutes(handlers *Handlers, cfg *config.Config, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(
		RecoveryMiddleware(logger),
		RequestIDMiddleware(),
		LoggingMiddleware(logger),
		CORSMiddleware(),
	)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		WriteNotFound(w, "Route not found")
	})

	r.Get("/health", handlers.HealthCheck)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/zodiac", func(r chi.Router) {
			r.Get("/", handlers.GetZodiac)
			r.Get("/date/{date}", handlers.GetZodiacByDate)
			r.Get("/years/{year}", handlers.GetIdentity)
			r.Get("/table", handlers.GetTable)
		})

		r.Route("/festival", func(r chi.Router) {
			r.Post("/self-test", handlers.SelfTest)
			r.Get("/overrides", handlers.ListOverrides)

			r.Group(func(r chi.Router) {
				r.Use(AuthMiddleware(cfg, logger))
				r.Put("/overrides/{year}", handlers.PutOverride)
				r.Delete("/overrides/{year}", handlers.DeleteOverride)
			})

			r.Get("/{year}", handlers.GetFestival)
		})
	})

	return r
}
