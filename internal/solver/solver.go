// Package solver provides the in-process implementation of the boolean
// assignment capability the roster optimizer delegates to. The formulation's
// only coupling constraint is exactly-one-pilot-per-flight, so the decision
// variables decompose per flight and an exact solve reduces to choosing the
// minimum-cost eligible pilot for each flight independently. The package
// stays behind the engine.Solver interface so a real CP/MIP backend can be
// substituted without touching the optimizer.
package solver

import (
	"context"
	"fmt"
	"sort"

	"skyops/copilot/internal/engine"
)

type AssignmentSolver struct{}

func New() *AssignmentSolver {
	return &AssignmentSolver{}
}

var _ engine.Solver = (*AssignmentSolver)(nil)

// Solve finds the fatigue-minimal total assignment. In strict mode a flight
// with no eligible pilot makes the whole model infeasible. With slack
// enabled, such flights are reported unassigned instead (the penalty exceeds
// any achievable assignment cost, so slack is never preferred over a legal
// pilot). Context cancellation aborts with an error.
func (s *AssignmentSolver) Solve(ctx context.Context, f engine.Formulation) (engine.Solution, error) {
	sol := engine.Solution{Assignments: make(map[string]string)}

	for _, flightID := range f.FlightIDs {
		if err := ctx.Err(); err != nil {
			return engine.Solution{}, fmt.Errorf("solve aborted: %w", err)
		}

		best, found := "", false
		bestCost := 0.0
		for _, pilotID := range f.PilotIDs {
			v := engine.PairVar{PilotID: pilotID, FlightID: flightID}
			if f.Forbidden[v] {
				continue
			}
			cost := f.Cost[v]
			if !found || cost < bestCost {
				best, bestCost, found = pilotID, cost, true
			}
		}

		if found {
			sol.Assignments[flightID] = best
			continue
		}
		if !f.AllowSlack {
			return engine.Solution{Feasible: false}, nil
		}
		sol.Unassigned = append(sol.Unassigned, flightID)
	}

	sort.Strings(sol.Unassigned)
	sol.Feasible = true
	return sol, nil
}
