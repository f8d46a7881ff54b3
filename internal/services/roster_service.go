package services

import (
	"context"
	"time"

	"skyops/copilot/internal/common"
	"skyops/copilot/internal/db/repositories"
	"skyops/copilot/internal/engine"
	"skyops/copilot/internal/logging"
	"skyops/copilot/internal/metrics"
	"skyops/copilot/internal/models/dtos"
	"skyops/copilot/internal/models/entities"
)

// DefaultSolveTimeout bounds the delegated solve; expiry is treated as
// infeasibility, not as an error.
const DefaultSolveTimeout = 5 * time.Second

// RosterService runs the global optimizer and the fallback healing chain
// over the stored fleet snapshot.
type RosterService struct {
	pilots  *repositories.PilotRepository
	flights *repositories.FlightRepository
	solver  engine.Solver
	trail   *common.TrailService
	metrics *metrics.MetricsRegistry
}

func NewRosterService(
	pilots *repositories.PilotRepository,
	flights *repositories.FlightRepository,
	solver engine.Solver,
	trail *common.TrailService,
	metricsReg *metrics.MetricsRegistry,
) *RosterService {
	return &RosterService{
		pilots:  pilots,
		flights: flights,
		solver:  solver,
		trail:   trail,
		metrics: metricsReg,
	}
}

// Optimize loads the active snapshot and delegates the assignment solve.
func (s *RosterService) Optimize(ctx context.Context) (*dtos.RosterResponse, error) {
	pilots, flights, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	solveCtx, cancel := context.WithTimeout(ctx, DefaultSolveTimeout)
	defer cancel()

	start := time.Now()
	result := engine.OptimizeRoster(solveCtx, s.solver, pilots, flights)
	s.metrics.SolverDuration.Observe(time.Since(start).Seconds())
	s.metrics.RosterOptimizationsTotal.WithLabelValues(string(result.Status)).Inc()

	logging.Info("roster optimization finished",
		"status", string(result.Status),
		"flights", len(flights),
		"pilots", len(pilots),
		"diagnosed", len(result.Diagnosed),
	)

	resp := &dtos.RosterResponse{Result: result}
	if result.Status == engine.AssignmentValid {
		if err := s.persistAssignments(ctx, result.Assignments); err != nil {
			return nil, err
		}
		s.trail.Append("OPTIMIZER: Roster solved. All flights covered.")
	} else {
		s.trail.Append("OPTIMIZER: Roster INFEASIBLE. Escalating to healing chain.")
	}
	return resp, nil
}

// Heal runs the fallback chain for the given unassigned flights and persists
// whatever it managed to place. The chain's audit log is part of the
// response, and its tail is cached for the dashboard.
func (s *RosterService) Heal(ctx context.Context, unassigned []string) (*dtos.HealChainResponse, error) {
	pilots, flights, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	result := engine.HealUnassigned(unassigned, pilots, flights)

	if err := s.persistAssignments(ctx, result.Assignments); err != nil {
		return nil, err
	}

	var unhealed []string
	for _, fid := range unassigned {
		if _, ok := result.Assignments[fid]; !ok {
			unhealed = append(unhealed, fid)
		}
	}
	s.metrics.FlightsHealedTotal.Add(float64(len(result.Assignments)))
	s.metrics.FlightsUnhealedTotal.Add(float64(len(unhealed)))
	s.trail.Append(result.Log...)

	return &dtos.HealChainResponse{
		Assignments: result.Assignments,
		Unhealed:    unhealed,
		Log:         result.Log,
	}, nil
}

func (s *RosterService) snapshot(ctx context.Context) ([]entities.Pilot, []entities.Flight, error) {
	pilots, err := s.pilots.List(ctx)
	if err != nil {
		return nil, nil, err
	}
	flights, err := s.flights.ListActive(ctx)
	if err != nil {
		return nil, nil, err
	}
	return pilots, flights, nil
}

func (s *RosterService) persistAssignments(ctx context.Context, assignments map[string]string) error {
	for flightID, pilotID := range assignments {
		pilot, err := s.pilots.Get(ctx, pilotID)
		if err != nil {
			return err
		}
		err = s.flights.UpdateFields(ctx, flightID, map[string]interface{}{
			"assigned_pilot_id": pilot.ID,
			"pilot_name":        pilot.Name,
			"status":            entities.FlightScheduled,
		})
		if err != nil {
			return err
		}
	}
	return nil
}
