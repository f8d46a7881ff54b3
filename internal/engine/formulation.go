package engine

import (
	"context"

	"skyops/copilot/internal/constants"
	"skyops/copilot/internal/logging"
	"skyops/copilot/internal/models/entities"
)

// AssignmentStatus is the roster optimization outcome.
type AssignmentStatus string

const (
	AssignmentValid      AssignmentStatus = "VALID"
	AssignmentInfeasible AssignmentStatus = "INFEASIBLE"
)

// PairVar identifies the boolean decision variable "pilot flies flight".
type PairVar struct {
	PilotID  string
	FlightID string
}

// Formulation is the 0/1 assignment problem handed to the solver capability.
// One boolean per (pilot, flight) pair; every flight takes exactly one pilot;
// forbidden pairs are forced false; the objective minimizes summed cost.
// With AllowSlack set, a flight may instead go unassigned at SlackPenalty,
// which must exceed any achievable assignment cost.
type Formulation struct {
	PilotIDs     []string
	FlightIDs    []string
	Forbidden    map[PairVar]bool
	Cost         map[PairVar]float64
	AllowSlack   bool
	SlackPenalty float64
}

// Solution is the solver's answer to a Formulation.
type Solution struct {
	Feasible    bool
	Assignments map[string]string // flight id -> pilot id
	Unassigned  []string          // flights covered by slack (relaxed mode only)
}

// Solver is the delegated boolean optimization capability. Implementations
// must honor ctx cancellation; a timeout is reported as an error and treated
// conservatively as infeasibility by the caller.
type Solver interface {
	Solve(ctx context.Context, f Formulation) (Solution, error)
}

// AssignmentResult is the optimizer outcome. On INFEASIBLE, Unassigned lists
// every flight in the batch (the exactly-one constraint makes partial
// feasibility undetectable in the strict model); Diagnosed narrows that to
// the flights a slack-relaxed re-solve could not cover.
type AssignmentResult struct {
	Status      AssignmentStatus  `json:"status"`
	Assignments map[string]string `json:"assignments,omitempty"`
	Unassigned  []string          `json:"unassignedFlights,omitempty"`
	Diagnosed   []string          `json:"diagnosedFlights,omitempty"`
}

// Formulate builds the strict roster assignment model. Only the pairwise hard
// rules (fatigue ceiling, night-duty adjacency) force variables false here;
// the remaining rules are revalidated downstream by the healing chain.
func Formulate(pilots []entities.Pilot, flights []entities.Flight) Formulation {
	f := Formulation{
		Forbidden: make(map[PairVar]bool),
		Cost:      make(map[PairVar]float64),
	}
	for _, p := range pilots {
		f.PilotIDs = append(f.PilotIDs, p.ID)
	}
	for _, fl := range flights {
		f.FlightIDs = append(f.FlightIDs, fl.ID)
	}
	for _, p := range pilots {
		for _, fl := range flights {
			v := PairVar{PilotID: p.ID, FlightID: fl.ID}
			f.Cost[v] = p.FatigueScore
			if p.FatigueScore > constants.FatigueHardLimit {
				f.Forbidden[v] = true
			}
			if p.LastNightDuty && fl.IsNightDuty {
				f.Forbidden[v] = true
			}
		}
	}
	return f
}

// OptimizeRoster formulates and delegates the global assignment. A feasible
// or optimal solve yields VALID with the induced mapping. Infeasibility (or a
// solver timeout) yields INFEASIBLE with the whole batch flagged, plus a
// diagnostic re-solve under slack relaxation to pinpoint the flights no
// pilot can legally cover.
func OptimizeRoster(ctx context.Context, solver Solver, pilots []entities.Pilot, flights []entities.Flight) AssignmentResult {
	if len(flights) == 0 {
		return AssignmentResult{Status: AssignmentValid, Assignments: map[string]string{}}
	}

	form := Formulate(pilots, flights)
	sol, err := solver.Solve(ctx, form)
	if err != nil {
		logging.Warn("roster solve failed, treating as infeasible", "error", err.Error())
		sol = Solution{Feasible: false}
	}

	if sol.Feasible {
		return AssignmentResult{
			Status:      AssignmentValid,
			Assignments: sol.Assignments,
		}
	}

	result := AssignmentResult{
		Status:     AssignmentInfeasible,
		Unassigned: append([]string(nil), form.FlightIDs...),
	}

	// Diagnostic pass: allow per-flight slack at a penalty above any real
	// assignment cost so slack is chosen only where no pilot is eligible.
	relaxed := form
	relaxed.AllowSlack = true
	relaxed.SlackPenalty = 101*float64(len(flights)) + 1
	if diag, derr := solver.Solve(ctx, relaxed); derr == nil && diag.Feasible {
		result.Diagnosed = diag.Unassigned
	}
	return result
}
