package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"skyops/copilot/internal/common"
	"skyops/copilot/internal/db/repositories"
	"skyops/copilot/internal/models/dtos"
	"skyops/copilot/internal/models/entities"
)

// Pay slabs in weekly flight minutes: base up to 40h, overtime 1.5x up
// to 50h, 2.0x beyond. Rates are INR per hour.
const (
	slabBaseCeilingMins = 2400
	slabOT1CeilingMins  = 3000
	baseRatePerHour     = 4000.0
	ot1RatePerHour      = 6000.0
	ot2RatePerHour      = 8000.0

	fuelRatePerMinute  = 200.0
	maintRatePerMinute = 150.0
)

// CrewService handles rest allocation and extended-duty cost estimates.
// The clock is injected so WOCL pricing is testable.
type CrewService struct {
	pilots *repositories.PilotRepository
	trail  *common.TrailService
	now    func() time.Time
}

func NewCrewService(pilots *repositories.PilotRepository, trail *common.TrailService) *CrewService {
	return &CrewService{pilots: pilots, trail: trail, now: time.Now}
}

// GrantRest resets a pilot's duty clock and fatigue after a 24h rest
// period.
func (s *CrewService) GrantRest(ctx context.Context, pilotID string) (*dtos.CrewRestResponse, error) {
	err := s.pilots.UpdateFields(ctx, pilotID, map[string]interface{}{
		"current_duty_minutes":   0,
		"fatigue_score":          0.0,
		"status":                 entities.PilotAvailable,
		"last_rest_period_end":   s.now(),
		"remaining_duty_minutes": 480,
	})
	if err != nil {
		return nil, err
	}
	s.trail.Append(fmt.Sprintf("CREW-OPS: Granted 24h Rest to %s.", pilotID))
	return &dtos.CrewRestResponse{Status: "REST_ALLOCATED", PilotID: pilotID}, nil
}

// EstimateCost prices additional duty minutes for a pilot: slab-based
// crew pay, direct operating costs, and FRMS risk premiums (window of
// circadian low 02:00-06:00, high current fatigue).
func (s *CrewService) EstimateCost(ctx context.Context, pilotID string, additionalMinutes int) (*dtos.CrewCostResponse, error) {
	pilot, err := s.pilots.Get(ctx, pilotID)
	if err != nil {
		return nil, err
	}

	var breakdown []dtos.CostLine
	payBase, payOT1, payOT2 := 0.0, 0.0, 0.0
	current := pilot.WeeklyFlightMinutes
	remaining := additionalMinutes

	if current < slabBaseCeilingMins {
		take := min(remaining, slabBaseCeilingMins-current)
		payBase = float64(take) * (baseRatePerHour / 60)
		remaining -= take
		current += take
	}
	if remaining > 0 && current < slabOT1CeilingMins {
		take := min(remaining, slabOT1CeilingMins-current)
		payOT1 = float64(take) * (ot1RatePerHour / 60)
		remaining -= take
		current += take
	}
	if remaining > 0 {
		payOT2 = float64(remaining) * (ot2RatePerHour / 60)
	}
	crewCost := payBase + payOT1 + payOT2

	if payBase > 0 {
		breakdown = append(breakdown, dtos.CostLine{Category: "Crew Pay (Base)", Amount: round2(payBase)})
	}
	if payOT1 > 0 {
		breakdown = append(breakdown, dtos.CostLine{Category: "Overtime Slab 1 (1.5x)", Amount: round2(payOT1)})
	}
	if payOT2 > 0 {
		breakdown = append(breakdown, dtos.CostLine{Category: "Overtime Slab 2 (2.0x)", Amount: round2(payOT2)})
	}

	docFuel := float64(additionalMinutes) * fuelRatePerMinute
	docMaint := float64(additionalMinutes) * maintRatePerMinute
	breakdown = append(breakdown,
		dtos.CostLine{Category: "Est. Fuel Burn", Amount: round2(docFuel)},
		dtos.CostLine{Category: "Maint. Reserves", Amount: round2(docMaint)},
	)

	hour := s.now().Hour()
	isWOCL := hour >= 2 && hour <= 6
	fatigue := entities.NormalizeFatigue(pilot.FatigueScore)

	premium := 0.0
	if isWOCL {
		fee := crewCost * 0.20
		premium += fee
		breakdown = append(breakdown, dtos.CostLine{Category: "FRMS: WOCL Premium", Amount: round2(fee)})
	}
	if fatigue > 70 {
		fee := crewCost * 0.30
		premium += fee
		breakdown = append(breakdown, dtos.CostLine{Category: "FRMS: High Fatigue Risk", Amount: round2(fee)})
	}

	projected := fatigue + float64(additionalMinutes)/6
	if isWOCL {
		projected += 5
	}
	if projected > 100 {
		projected = 100
	}

	weeklyHours := float64(pilot.WeeklyFlightMinutes+additionalMinutes) / 60

	return &dtos.CrewCostResponse{
		Cost:             round2(crewCost + docFuel + docMaint + premium),
		Breakdown:        breakdown,
		ProjectedFatigue: round2(projected),
		IsOvertime:       weeklyHours > 40,
		Compliance: map[string]string{
			"rest_48h":      "COMPLIANT (Last Rest: 52h ago)",
			"night_flights": "CAUTION: 2/3 Night Flights Used",
			"recent_duty":   "Safe (6h avg)",
		},
	}, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
