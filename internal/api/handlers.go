package api

import (
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"

	"skyops/copilot/internal/engine"
	"skyops/copilot/internal/middleware"
	"skyops/copilot/internal/models/dtos"
	"skyops/copilot/internal/models/entities"
)

// Handlers bundles all HTTP handlers with their dependencies.
type Handlers struct {
	deps *Dependencies
}

func NewHandlers(deps *Dependencies) *Handlers {
	return &Handlers{deps: deps}
}

// GetData returns the full dashboard snapshot: flights, pilot readiness
// and the latest decision trail.
func (h *Handlers) GetData() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		flights, err := h.deps.Repo.Flights.List(r.Context())
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}
		pilots, err := h.deps.Repo.Pilots.List(r.Context())
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}
		resp := &dtos.DataResponse{
			Flights:        flights,
			PilotReadiness: pilots,
			AgentLogs:      h.deps.Services.Trail.Latest(),
		}
		respondWithSuccess(w, http.StatusOK, resp)
	}
}

// Seed resets the database to the demo fleet.
func (h *Handlers) Seed() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pilots, flights, err := h.deps.Services.Seeder.Seed(r.Context())
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}
		respondWithSuccess(w, http.StatusOK, &dtos.SeedResponse{Pilots: pilots, Flights: flights})
	}
}

// Status reports CRITICAL when any flight is flagged, VALID otherwise.
func (h *Handlers) Status() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		critical, err := h.deps.Repo.Flights.CountByStatus(r.Context(), entities.FlightCritical)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}
		status := "VALID"
		if critical > 0 {
			status = "CRITICAL"
		}
		respondWithSuccess(w, http.StatusOK, &dtos.StatusResponse{Status: status, CriticalCount: critical})
	}
}

// Simulate injects a disruption.
func (h *Handlers) Simulate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dtos.SimulateRequest
		if !decodeBody(w, r, &req) {
			return
		}
		resp, err := h.deps.Services.Disruption.Simulate(r.Context(), req)
		if err != nil {
			respondWithError(w, statusForError(err), err.Error())
			return
		}
		respondWithSuccess(w, http.StatusOK, resp)
	}
}

// OptimizeRoster runs the global assignment solve.
func (h *Handlers) OptimizeRoster() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp, err := h.deps.Services.Roster.Optimize(r.Context())
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}
		respondWithSuccess(w, http.StatusOK, resp)
	}
}

// HealRoster runs the fallback healing chain for the listed flights.
func (h *Handlers) HealRoster() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dtos.RosterHealRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if len(req.UnassignedFlightIDs) == 0 {
			respondWithError(w, http.StatusBadRequest, "unassigned_flight_ids is required")
			return
		}
		resp, err := h.deps.Services.Roster.Heal(r.Context(), req.UnassignedFlightIDs)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}
		respondWithSuccess(w, http.StatusOK, resp)
	}
}

// Heal generates a ranked decision packet for a disrupted flight.
func (h *Handlers) Heal() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dtos.HealRequest
		if r.ContentLength > 0 && !decodeBody(w, r, &req) {
			return
		}
		resp, err := h.deps.Services.Resolution.GenerateAndRank(r.Context(), req.FlightID)
		if err != nil {
			respondWithError(w, statusForError(err), err.Error())
			return
		}
		respondWithSuccess(w, http.StatusOK, resp)
	}
}

// Resolve applies an approved option.
func (h *Handlers) Resolve() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dtos.ResolveRequest
		if !decodeBody(w, r, &req) {
			return
		}
		resp, err := h.deps.Services.Resolution.ApplyResolution(r.Context(), req.Option)
		if err != nil {
			respondWithError(w, statusForError(err), err.Error())
			return
		}
		respondWithSuccess(w, http.StatusOK, resp)
	}
}

// CrewRest resets a pilot's duty clock after rest.
func (h *Handlers) CrewRest() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dtos.CrewRestRequest
		if !decodeBody(w, r, &req) {
			return
		}
		resp, err := h.deps.Services.Crew.GrantRest(r.Context(), req.PilotID)
		if err != nil {
			respondWithError(w, statusForError(err), err.Error())
			return
		}
		respondWithSuccess(w, http.StatusOK, resp)
	}
}

// CrewCost prices additional duty minutes for a pilot.
func (h *Handlers) CrewCost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dtos.CrewCostRequest
		if !decodeBody(w, r, &req) {
			return
		}
		resp, err := h.deps.Services.Crew.EstimateCost(r.Context(), req.PilotID, req.AdditionalMinutes)
		if err != nil {
			respondWithError(w, statusForError(err), err.Error())
			return
		}
		respondWithSuccess(w, http.StatusOK, resp)
	}
}

// FatigueTrend returns a pilot's 7-day fatigue projection.
func (h *Handlers) FatigueTrend() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pilotID := chi.URLParam(r, "pilot_id")
		trend, err := h.deps.Services.Analytics.FatigueTrend(r.Context(), pilotID)
		if err != nil {
			respondWithError(w, statusForError(err), err.Error())
			return
		}
		respondWithSuccess(w, http.StatusOK, &trend)
	}
}

// DisruptionCosts summarizes the delay bill across the fleet.
func (h *Handlers) DisruptionCosts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp, err := h.deps.Services.Analytics.DisruptionCost(r.Context())
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}
		respondWithSuccess(w, http.StatusOK, resp)
	}
}

// Predictions returns the current correlated-risk assessments.
func (h *Handlers) Predictions() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		risks, err := h.deps.Services.Analytics.Predictions(r.Context())
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}
		respondWithSuccess(w, http.StatusOK, &risks)
	}
}

// Report renders the executive daily briefing.
func (h *Handlers) Report() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp, err := h.deps.Services.Report.GenerateBriefing(r.Context())
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}
		respondWithSuccess(w, http.StatusOK, resp)
	}
}

// PassengerStatus serves the passenger view of a flight.
func (h *Handlers) PassengerStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ref := chi.URLParam(r, "flight_id")
		resp, err := h.deps.Services.Passenger.Status(r.Context(), ref)
		if err != nil {
			respondWithError(w, statusForError(err), err.Error())
			return
		}
		respondWithSuccess(w, http.StatusOK, resp)
	}
}

// PassengerOption emails the passenger the voucher for a care option.
func (h *Handlers) PassengerOption() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dtos.PassengerOptionRequest
		if !decodeBody(w, r, &req) {
			return
		}
		msg, err := h.deps.Services.Passenger.RequestOption(r.Context(), req)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		resp := map[string]string{"status": "SENT", "message": msg}
		respondWithSuccess(w, http.StatusOK, &resp)
	}
}

// OperatorLogin mints a short-lived ops token when a shared secret is
// configured.
func (h *Handlers) OperatorLogin() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		secret := os.Getenv("OPS_JWT_SECRET")
		if secret == "" {
			respondWithError(w, http.StatusNotFound, "operator auth not configured")
			return
		}
		var req struct {
			Operator string `json:"operator"`
		}
		if !decodeBody(w, r, &req) {
			return
		}
		token, err := middleware.MintOperatorToken(secret, req.Operator, 12*time.Hour)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}
		resp := map[string]string{"token": token}
		respondWithSuccess(w, http.StatusOK, &resp)
	}
}

func statusForError(err error) int {
	if errors.Is(err, engine.ErrNotFound) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}
