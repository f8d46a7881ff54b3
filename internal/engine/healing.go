package engine

import (
	"fmt"
	"sort"

	"skyops/copilot/internal/constants"
	"skyops/copilot/internal/models/entities"
)

// Stage-1 screening decisions.
const (
	screenReject         = "REJECT"
	screenAccept         = "ACCEPT"
	screenAcceptWithRest = "ACCEPT_WITH_REST"
)

// HealResult carries the committed assignments and the full audit trail. The
// trail is a required output: every per-pilot decision, acceptance rationale
// and terminal failure appears as an ordered human-readable line.
type HealResult struct {
	Assignments map[string]string `json:"assignments"`
	Log         []string          `json:"log"`
}

// HealUnassigned walks each unassigned flight, in input order, through the
// candidate pilots sorted by ascending fatigue. Every candidate passes a
// two-stage decision: a heuristic screen followed by an independent
// hard-constraint gatekeeper. The first pilot clearing both stages is
// committed; a flight with no such pilot is left unassigned with a terminal
// log line, and healing continues with the next flight.
func HealUnassigned(unassignedFlightIDs []string, pilots []entities.Pilot, flights []entities.Flight) HealResult {
	res := HealResult{Assignments: make(map[string]string)}

	flightsByID := make(map[string]*entities.Flight, len(flights))
	for i := range flights {
		flightsByID[flights[i].ID] = &flights[i]
	}

	sorted := append([]entities.Pilot(nil), pilots...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].FatigueScore < sorted[j].FatigueScore
	})

	for _, fid := range unassignedFlightIDs {
		flight, ok := flightsByID[fid]
		if !ok {
			continue
		}
		res.log("SchedulerAgent", "Flight %s unassigned. Initiating search.", fid)

		assigned := false
		for i := range sorted {
			pilot := &sorted[i]

			decision, reason := screenCandidate(pilot, flight)
			if decision == screenReject {
				res.log("PilotAgent-"+pilot.ID, "Fatigue %g -> REJECT (%s)", pilot.FatigueScore, reason)
				continue
			}

			if !gatekeeperValidate(pilot, flight) {
				res.log("SafetyAgent", "Block assignment %s -> %s. Constraints violated.", pilot.ID, fid)
				continue
			}

			decisionText := "ACCEPT"
			if decision == screenAcceptWithRest {
				decisionText = "ACCEPT WITH 48h REST"
			}
			res.log("PilotAgent-"+pilot.ID, "Fatigue %g -> %s", pilot.FatigueScore, decisionText)
			res.log("SafetyAgent", "All DGCA constraints satisfied")
			res.log("System", "Roster healed. Flight %s assigned to %s.", fid, pilot.ID)

			res.Assignments[fid] = pilot.ID
			assigned = true
			break
		}

		if !assigned {
			res.log("SchedulerAgent", "CRITICAL: Could not heal flight %s. No pilots available.", fid)
		}
	}
	return res
}

func (r *HealResult) log(agent, format string, args ...interface{}) {
	r.Log = append(r.Log, fmt.Sprintf("[%s] ", agent)+fmt.Sprintf(format, args...))
}

// screenCandidate is the stage-1 heuristic screen on the canonical 0-100
// fatigue scale.
func screenCandidate(pilot *entities.Pilot, flight *entities.Flight) (string, string) {
	if pilot.FatigueScore > constants.FatigueHardLimit {
		return screenReject, "Fatigue > 80"
	}
	if flight.IsNightDuty && pilot.LastNightDuty {
		return screenReject, "Back-to-back Night Duty"
	}
	if pilot.FatigueScore >= constants.FatigueAdvisoryFloor && pilot.FatigueScore <= constants.FatigueHardLimit {
		return screenAcceptWithRest, "accept with mandated 48h rest"
	}
	return screenAccept, "OK"
}

// gatekeeperValidate is the stage-2 final gate. It revalidates the hard
// constraints independently of stage 1 and may reject candidates the screen
// let through.
func gatekeeperValidate(pilot *entities.Pilot, flight *entities.Flight) bool {
	if pilot.FatigueScore > constants.FatigueHardLimit {
		return false
	}
	if flight.IsNightDuty && pilot.LastNightDuty {
		return false
	}
	if flight.IsNightDuty && flight.Landings > constants.NightLandingsCap {
		return false
	}
	return true
}
