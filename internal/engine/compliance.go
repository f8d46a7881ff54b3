package engine

import (
	"skyops/copilot/internal/constants"
	"skyops/copilot/internal/models/entities"
)

// Disqualification reasons surfaced by the compliance evaluator.
const (
	ReasonFatigueExceedsLimit = "fatigue exceeds limit"
	ReasonBackToBackNightDuty = "back-to-back night duty"
	ReasonLandingsExceedCap   = "landings exceed night-duty cap"
	ReasonCrewIncapacitated   = "crew incapacitated"
	ReasonDutyCeilingExceeded = "duty-time ceiling exceeded"

	AdvisoryMandatedRest = "accept with mandated rest"
)

// Evaluation is the outcome of a legality check for one (pilot, flight) pair.
type Evaluation struct {
	Legal    bool     `json:"legal"`
	Reasons  []string `json:"reasons,omitempty"`
	Advisory string   `json:"advisory,omitempty"`
}

// EvaluateCompliance applies the DGCA hard rules. Each rule disqualifies
// independently; all violated rules are reported. The 60-80 fatigue band is
// advisory only and never disqualifies on its own.
func EvaluateCompliance(pilot *entities.Pilot, flight *entities.Flight) Evaluation {
	ev := Evaluation{Legal: true}

	if pilot.FatigueScore > constants.FatigueHardLimit {
		ev.Reasons = append(ev.Reasons, ReasonFatigueExceedsLimit)
	}
	if flight.IsNightDuty && pilot.LastNightDuty {
		ev.Reasons = append(ev.Reasons, ReasonBackToBackNightDuty)
	}
	// Property of the flight itself: a night flight with more than two
	// landings is unassignable for every pilot.
	if flight.IsNightDuty && flight.Landings > constants.NightLandingsCap {
		ev.Reasons = append(ev.Reasons, ReasonLandingsExceedCap)
	}
	if pilot.Status == entities.PilotSick {
		ev.Reasons = append(ev.Reasons, ReasonCrewIncapacitated)
	}
	projected := pilot.CurrentDutyMinutes + flight.FlightDurationMinutes + flight.DelayMinutes
	if projected > pilot.MaxLegalDutyMinutes {
		ev.Reasons = append(ev.Reasons, ReasonDutyCeilingExceeded)
	}

	ev.Legal = len(ev.Reasons) == 0

	if pilot.FatigueScore >= constants.FatigueAdvisoryFloor && pilot.FatigueScore <= constants.FatigueHardLimit {
		ev.Advisory = AdvisoryMandatedRest
	}
	return ev
}
