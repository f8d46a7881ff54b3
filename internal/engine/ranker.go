package engine

import (
	"fmt"

	"skyops/copilot/internal/constants"
	"skyops/copilot/internal/models/entities"
)

// Sustainability is the aggregate emissions-avoided estimate for the
// recommended strategy, derived from a fixed per-action time-saved heuristic.
type Sustainability struct {
	CO2SavedKg      float64 `json:"co2_saved_kg"`
	FuelSavedLiters float64 `json:"fuel_saved_liters"`
	Note            string  `json:"energy_efficiency_note"`
}

// DecisionPacket is the ranked output handed to the operator. Nothing in it
// has been executed; approval is a precondition for the applier.
type DecisionPacket struct {
	Recommended      *Option        `json:"recommended_strategy"`
	Options          []Option       `json:"options"`
	ReasoningTrace   []string       `json:"reasoning_trace"`
	Sustainability   Sustainability `json:"sustainability_impact"`
	ApprovalRequired bool           `json:"approval_required"`
}

// RankOptions selects the recommended option by fixed priority: any
// SWAP_FLIGHT first, then any crew ASSIGN, then any DELAY_APPLY, then the
// first option in list order as last resort. Within a category, list order
// decides (the generator sorts swap candidates by soonest departure). Returns
// nil for an empty list.
func RankOptions(options []Option) *Option {
	for _, action := range []ActionType{ActionSwapFlight, ActionAssign, ActionDelayApply} {
		for i := range options {
			if options[i].ActionType == action {
				return &options[i]
			}
		}
	}
	if len(options) > 0 {
		return &options[0]
	}
	return nil
}

// BuildDecisionPacket ranks the options and assembles the reasoning trace and
// sustainability estimate. Returns nil when there are no options (caller
// signals no-action).
func BuildDecisionPacket(flight *entities.Flight, options []Option) *DecisionPacket {
	recommended := RankOptions(options)
	if recommended == nil {
		return nil
	}

	check := "WARNING"
	if flight.PredictedFailure {
		check = "VIOLATION"
	}
	trace := []string{
		fmt.Sprintf("Detailed Analysis for Flight %s", flight.FlightNumber),
		fmt.Sprintf("Input State: %s", flight.CombinedReason()),
		fmt.Sprintf("Safety Rule Check: %s", check),
		fmt.Sprintf("Evaluation: Selected '%s' as optimal path.", recommended.Title),
		fmt.Sprintf("Justification: %s", recommended.Reasoning),
	}

	return &DecisionPacket{
		Recommended:      recommended,
		Options:          options,
		ReasoningTrace:   trace,
		Sustainability:   estimateSustainability(recommended),
		ApprovalRequired: true,
	}
}

func estimateSustainability(opt *Option) Sustainability {
	savedMinutes := constants.SavedMinutesDefault
	switch opt.ActionType {
	case ActionCancel:
		savedMinutes = constants.SavedMinutesCancel
	case ActionAssign:
		savedMinutes = constants.SavedMinutesAssign
	}
	co2 := float64(savedMinutes) * constants.CO2PerMinuteSavedKg
	return Sustainability{
		CO2SavedKg:      co2,
		FuelSavedLiters: co2 * constants.FuelLitersPerCO2Kg,
		Note:            "Optimized resource allocation prevents idle waste.",
	}
}
