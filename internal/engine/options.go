package engine

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"skyops/copilot/internal/constants"
	"skyops/copilot/internal/models/entities"
)

// ActionType enumerates the remediation action kinds.
type ActionType string

const (
	ActionAssign      ActionType = "ASSIGN"
	ActionSwapFlight  ActionType = "SWAP_FLIGHT"
	ActionDelayApply  ActionType = "DELAY_APPLY"
	ActionDelayManual ActionType = "DELAY_MANUAL"
	ActionCancel      ActionType = "CANCEL"
)

// RiskLevel annotates an option for operator display.
type RiskLevel string

const (
	RiskLow    RiskLevel = "LOW"
	RiskMedium RiskLevel = "MEDIUM"
	RiskHigh   RiskLevel = "HIGH"
	RiskVaries RiskLevel = "VARIES"
)

// Payload carries the action-specific references. It is the wire shape;
// the applier converts it to a typed action before touching state.
type Payload struct {
	FlightID       string `json:"flight_id"`
	PilotID        string `json:"pilot_id,omitempty"`
	TargetFlightID string `json:"target_flight_id,omitempty"`
	Minutes        int    `json:"minutes,omitempty"`
}

// CO2Impact is the derived environmental-impact estimate for an option.
type CO2Impact struct {
	Kg    int    `json:"kg"`
	Value string `json:"value"`
	Score string `json:"score"`
}

// Option is a candidate remediation action awaiting operator approval.
// Ephemeral: generated per request, never persisted.
type Option struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	ActionType  ActionType `json:"action_type"`
	RiskLevel   RiskLevel  `json:"risk_level"`
	Payload     Payload    `json:"payload"`
	Reasoning   string     `json:"reasoning"`
	CO2         CO2Impact  `json:"co2_impact"`
}

// Cause is the classified disruption root cause.
type Cause string

const (
	CauseNone        Cause = "NONE"
	CauseCrewSick    Cause = "CREW_INCAPACITATION"
	CauseOperational Cause = "OPERATIONAL"
	CauseDutyLimit   Cause = "DUTY_EXHAUSTION"
)

// ClassifyCause resolves the disruption category. An explicit cause tag set
// at injection time wins; otherwise keyword matching over the combined
// failure/delay reason text decides, with fixed precedence
// sickness > operational > duty-exhaustion (first match wins).
func ClassifyCause(flight *entities.Flight) Cause {
	switch flight.CauseTag {
	case entities.CauseTagCrewSick:
		return CauseCrewSick
	case entities.CauseTagOperational:
		return CauseOperational
	case entities.CauseTagDutyLimit:
		return CauseDutyLimit
	}

	reason := strings.ToLower(flight.CombinedReason())
	if strings.Contains(reason, constants.SicknessKeyword) {
		return CauseCrewSick
	}
	for _, kw := range constants.OperationalKeywords {
		if strings.Contains(reason, kw) {
			return CauseOperational
		}
	}
	if strings.Contains(reason, constants.DutyLimitKeyword) {
		return CauseDutyLimit
	}
	return CauseNone
}

// GenerateOptions produces the category-specific remediation set for a
// disrupted flight. Deterministic over the snapshot: candidate queries sort
// by fatigue (crew) or soonest departure (swaps) and cap at three. An empty
// slice means no action can be proposed.
func GenerateOptions(flight *entities.Flight, pilots []entities.Pilot, flights []entities.Flight, now time.Time) []Option {
	var options []Option

	switch ClassifyCause(flight) {
	case CauseCrewSick:
		options = append(options, assignOptions(flight, pilots, sickAssignReasoning)...)

	case CauseOperational:
		options = append(options, swapOptions(flight, flights, now)...)
		if opt, ok := operationalFallback(flight); ok {
			options = append(options, opt)
		}
		options = append(options, cancelOption(flight), manualDelayOption(flight))

	case CauseDutyLimit:
		options = append(options, assignOptions(flight, pilots, fdtlAssignReasoning)...)
		options = append(options, swapOptions(flight, flights, now)...)
		options = append(options, cancelOption(flight), manualDelayOption(flight))

	default:
		return nil
	}

	for i := range options {
		options[i].CO2 = estimateImpact(&options[i])
	}
	return options
}

const (
	sickAssignReasoning = "Standard Protocol: Crew Incapacitation requires immediate replacement with fresh reserve."
	fdtlAssignReasoning = "FDTL Exceeded: Fresh crew required to operate within flight-duty legalities."
)

func assignOptions(flight *entities.Flight, pilots []entities.Pilot, reasoning string) []Option {
	var candidates []entities.Pilot
	for _, p := range pilots {
		if p.Status == entities.PilotAvailable &&
			p.CurrentDutyMinutes < constants.ReserveDutyCeilingMins &&
			p.Base == flight.Origin {
			candidates = append(candidates, p)
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].FatigueScore < candidates[j].FatigueScore
	})
	if len(candidates) > constants.MaxCandidates {
		candidates = candidates[:constants.MaxCandidates]
	}

	opts := make([]Option, 0, len(candidates))
	for _, c := range candidates {
		opts = append(opts, Option{
			ID:          "OPT_ASSIGN_" + c.ID,
			Title:       fmt.Sprintf("Assign Reserve: %s", c.Name),
			Description: fmt.Sprintf("Ready at %s. Duty: %dm. Fatigue: %g", c.Base, c.CurrentDutyMinutes, c.FatigueScore),
			ActionType:  ActionAssign,
			RiskLevel:   RiskLow,
			Payload:     Payload{FlightID: flight.ID, PilotID: c.ID},
			Reasoning:   reasoning,
		})
	}
	return opts
}

func swapOptions(flight *entities.Flight, flights []entities.Flight, now time.Time) []Option {
	horizon := now.Add(constants.SwapWindow)

	var candidates []entities.Flight
	for _, f := range flights {
		if f.ID == flight.ID || f.Origin != flight.Origin {
			continue
		}
		if f.Status != entities.FlightOnTime && f.Status != entities.FlightScheduled {
			continue
		}
		if f.ScheduledDeparture.Before(now) || f.ScheduledDeparture.After(horizon) {
			continue
		}
		candidates = append(candidates, f)
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].ScheduledDeparture.Before(candidates[j].ScheduledDeparture)
	})
	if len(candidates) > constants.MaxCandidates {
		candidates = candidates[:constants.MaxCandidates]
	}

	opts := make([]Option, 0, len(candidates))
	for _, c := range candidates {
		opts = append(opts, Option{
			ID:          "OPT_SWAP_FLIGHT_" + c.ID,
			Title:       fmt.Sprintf("Swap w/ Flight %s", c.FlightNumber),
			Description: fmt.Sprintf("Use aircraft from %s (Dep: %s)", c.FlightNumber, c.ScheduledDeparture.Format("15:04")),
			ActionType:  ActionSwapFlight,
			RiskLevel:   RiskLow,
			Payload:     Payload{FlightID: flight.ID, TargetFlightID: c.ID},
			Reasoning:   fmt.Sprintf("Optimal Solution: Unaffected aircraft/slot available from %s.", c.FlightNumber),
		})
	}
	return opts
}

// operationalFallback picks the single category-specific delay option.
func operationalFallback(flight *entities.Flight) (Option, bool) {
	reason := strings.ToLower(flight.CombinedReason())
	switch {
	case strings.Contains(reason, "weather") || strings.Contains(reason, "fog") ||
		strings.Contains(reason, "thunderstorm") || strings.Contains(reason, "storm"):
		return Option{
			ID:          "OPT_HOLD",
			Title:       fmt.Sprintf("Hold Pattern (Wait %dm)", constants.WeatherHoldMinutes),
			Description: "Wait for conditions to improve.",
			ActionType:  ActionDelayApply,
			RiskLevel:   RiskMedium,
			Payload:     Payload{FlightID: flight.ID, Minutes: constants.WeatherHoldMinutes},
			Reasoning:   "Holding is safer than diverting, but impacts fuel.",
		}, true
	case strings.Contains(reason, "technical") || strings.Contains(reason, "hydraulic"):
		return Option{
			ID:          "OPT_FIX",
			Title:       fmt.Sprintf("Quick Repair (%dm)", constants.TechnicalFixMinutes),
			Description: "Attempt minor repair.",
			ActionType:  ActionDelayApply,
			RiskLevel:   RiskMedium,
			Payload:     Payload{FlightID: flight.ID, Minutes: constants.TechnicalFixMinutes},
			Reasoning:   "Repair is viable but carries risk of further delay.",
		}, true
	case strings.Contains(reason, "atc"):
		return Option{
			ID:          "OPT_DELAY_ATC",
			Title:       fmt.Sprintf("Wait for Slot (%dm)", constants.ATCSlotMinutes),
			Description: "Ground hold until ATC clearance.",
			ActionType:  ActionDelayApply,
			RiskLevel:   RiskLow,
			Payload:     Payload{FlightID: flight.ID, Minutes: constants.ATCSlotMinutes},
			Reasoning:   "Compliance with ATC mandate is mandatory.",
		}, true
	}
	return Option{}, false
}

func cancelOption(flight *entities.Flight) Option {
	return Option{
		ID:          "OPT_CANCEL",
		Title:       "Cancel Flight",
		Description: "Cease operations for this flight.",
		ActionType:  ActionCancel,
		RiskLevel:   RiskHigh,
		Payload:     Payload{FlightID: flight.ID},
		Reasoning:   "Last resort to prevent cascading failures.",
	}
}

func manualDelayOption(flight *entities.Flight) Option {
	return Option{
		ID:          "OPT_DELAY_MANUAL",
		Title:       "Custom Delay",
		Description: "Manually set delay duration.",
		ActionType:  ActionDelayManual,
		RiskLevel:   RiskVaries,
		Payload:     Payload{FlightID: flight.ID},
		Reasoning:   "Operator discretion for non-standard situations.",
	}
}

func estimateImpact(opt *Option) CO2Impact {
	kg := 0
	switch opt.ActionType {
	case ActionCancel:
		kg = constants.ImpactCancelKg
	case ActionDelayApply:
		mins := opt.Payload.Minutes
		if mins <= 0 {
			mins = constants.DefaultDelayMinutes
		}
		kg = mins * constants.ImpactPerDelayMinKg
	case ActionSwapFlight:
		kg = constants.ImpactSwapFlightKg
	case ActionAssign:
		kg = constants.ImpactAssignKg
	}

	score := "LOW"
	if kg > constants.ImpactHighThreshold {
		score = "HIGH"
	} else if kg > constants.ImpactMediumThreshold {
		score = "MEDIUM"
	}
	return CO2Impact{
		Kg:    kg,
		Value: fmt.Sprintf("+%dkg CO2", kg),
		Score: score,
	}
}
