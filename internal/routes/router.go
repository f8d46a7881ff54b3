package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"skyops/copilot/internal/api"
	"skyops/copilot/internal/db"
	"skyops/copilot/internal/logging"
	"skyops/copilot/internal/metrics"
	"skyops/copilot/internal/middleware"
)

// RegisterRoutes builds the chi router with global middleware, health
// check and the v1 API tree. It returns the handler plus the metrics
// registry and dependency container so main can wire workers.
func RegisterRoutes(upSince time.Time) (http.Handler, *metrics.MetricsRegistry, *api.Dependencies) {

	r := chi.NewRouter()

	metricsReg := metrics.NewMetricsRegistry()

	// global middleware
	r.Use(middleware.RequestIDMiddleware)
	r.Use(middleware.MetricsMiddleware(metricsReg))
	r.Use(middleware.RateLimitMiddleware)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://localhost:3000", "http://localhost:5173"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Link", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	logging.Info("Router initialized with metrics and logging middleware")

	r.Get("/healthCheck", api.HealthCheckHandler(db.DB, upSince))

	deps, err := api.InitDependencies(metricsReg)
	if err != nil {
		panic("Failed to initialize dependencies: " + err.Error())
	}

	handlers := api.NewHandlers(deps)

	RegisterAPIRoutes(r, handlers)

	return r, metricsReg, deps
}
