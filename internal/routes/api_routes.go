package routes

import (
	"github.com/go-chi/chi/v5"

	"skyops/copilot/internal/api"
	"skyops/copilot/internal/middleware"
)

// RegisterAPIRoutes registers the v1 API tree. Read endpoints are open;
// everything that mutates fleet state sits behind operator auth.
func RegisterAPIRoutes(r chi.Router, handlers *api.Handlers) {
	r.Route("/api/v1", func(v1 chi.Router) {
		// Read-only surface
		v1.Get("/data", handlers.GetData())
		v1.Get("/status", handlers.Status())
		v1.Post("/command", handlers.Command())

		v1.Get("/analytics/fatigue/{pilot_id}", handlers.FatigueTrend())
		v1.Get("/analytics/costs", handlers.DisruptionCosts())
		v1.Get("/analytics/predictions", handlers.Predictions())
		v1.Get("/analytics/report", handlers.Report())

		v1.Get("/passenger/flight/{flight_id}", handlers.PassengerStatus())
		v1.Post("/passenger/request-option", handlers.PassengerOption())

		v1.Post("/auth/login", handlers.OperatorLogin())

		// Operator surface
		v1.Group(func(ops chi.Router) {
			ops.Use(middleware.OperatorAuthMiddleware)

			ops.Get("/seed", handlers.Seed())
			ops.Post("/simulate", handlers.Simulate())

			ops.Post("/roster/optimize", handlers.OptimizeRoster())
			ops.Post("/roster/heal", handlers.HealRoster())

			ops.Post("/heal", handlers.Heal())
			ops.Post("/resolve", handlers.Resolve())

			ops.Post("/crew/rest", handlers.CrewRest())
			ops.Post("/crew/cost", handlers.CrewCost())
		})
	})
}
