package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// SetupRoutes configures all HTTP routes and returns the router.
//
// Route structure:
//
//	GET /health
//	GET /api/v1/today
//	GET /api/v1/hijri/{date}        civil YYYY-MM-DD to Hijri
//	GET /api/v1/gregorian/{date}    Hijri YYYY-MM-DD to civil
//	GET /api/v1/newmoon/{lunation}
func SetupRoutes(handlers *Handlers, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.RequestID,
		RecoveryMiddleware(logger),
		LoggingMiddleware(logger),
		CORSMiddleware(),
	)
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		WriteNotFound(w, "Not found")
	})

	r.Get("/health", handlers.HealthCheck)
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/today", handlers.GetToday)
		r.Get("/hijri/{date}", handlers.GetHijri)
		r.Get("/gregorian/{date}", handlers.GetGregorian)
		r.Get("/newmoon/{lunation}", handlers.GetNewMoon)
	})
	return r
}
