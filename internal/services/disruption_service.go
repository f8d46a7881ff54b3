package services

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"skyops/copilot/internal/common"
	"skyops/copilot/internal/constants"
	"skyops/copilot/internal/db/repositories"
	"skyops/copilot/internal/engine"
	"skyops/copilot/internal/logging"
	"skyops/copilot/internal/models/dtos"
	"skyops/copilot/internal/models/entities"
)

// DisruptionService injects simulated disruptions and recomputes the
// predicted-failure impact on affected flights. Injection is where the
// explicit cause tag is attached; reason text stays as the display field.
type DisruptionService struct {
	pilots   *repositories.PilotRepository
	flights  *repositories.FlightRepository
	notifier engine.Notifier
	trail    *common.TrailService
}

func NewDisruptionService(
	pilots *repositories.PilotRepository,
	flights *repositories.FlightRepository,
	notifier engine.Notifier,
	trail *common.TrailService,
) *DisruptionService {
	return &DisruptionService{pilots: pilots, flights: flights, notifier: notifier, trail: trail}
}

// Simulate applies the requested disruption. CREW/Sickness needs a flight id
// (the assigned pilot goes SICK); other types hit one flight or, without an
// id, every flight departing the given airport.
func (s *DisruptionService) Simulate(ctx context.Context, req dtos.SimulateRequest) (*dtos.SimulateResponse, error) {
	if req.Type == "CREW" || req.SubType == "Sickness" {
		if req.FlightID == "" {
			return nil, fmt.Errorf("sickness injection requires a flight id")
		}
		if err := s.injectSickness(ctx, req.FlightID); err != nil {
			return nil, err
		}
		return &dtos.SimulateResponse{Status: "SIMULATED_SICKNESS", AffectedFlights: []string{req.FlightID}}, nil
	}

	delay, ok := constants.DelayInjectionMinutes[req.SubType]
	if !ok {
		delay = constants.DefaultInjectionDelayMinutes
	}
	label := req.SubType
	if label == "" {
		label = req.Type
	}
	reason := "Heavy " + label

	if req.FlightID != "" {
		if err := s.injectDisruption(ctx, req.FlightID, delay, reason); err != nil {
			return nil, err
		}
		s.trail.Append(fmt.Sprintf("INJECT: %s on Flight %s.", reason, req.FlightID))
		return &dtos.SimulateResponse{Status: "SIMULATED", AffectedFlights: []string{req.FlightID}}, nil
	}

	airport := req.Airport
	if airport == "" {
		airport = "DEL"
	}
	affected, err := s.flights.ListByOrigin(ctx, airport)
	if err != nil {
		return nil, err
	}

	// Fan out per flight; injection plus impact recalculation are
	// independent across flights.
	g, gctx := errgroup.WithContext(ctx)
	ids := make([]string, 0, len(affected))
	for _, flight := range affected {
		if !flight.Active() {
			continue
		}
		ids = append(ids, flight.ID)
		flightID := flight.ID
		g.Go(func() error {
			return s.injectDisruption(gctx, flightID, delay, reason)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	s.trail.Append(fmt.Sprintf("CRISIS-LAB: %s at %s.", reason, airport))
	return &dtos.SimulateResponse{Status: "SIMULATED", AffectedFlights: ids}, nil
}

func (s *DisruptionService) injectSickness(ctx context.Context, flightID string) error {
	flight, err := s.flights.Get(ctx, flightID)
	if err != nil {
		return err
	}
	if flight.AssignedPilotID == nil {
		return fmt.Errorf("flight %s has no assigned pilot", flightID)
	}
	err = s.pilots.UpdateFields(ctx, *flight.AssignedPilotID, map[string]interface{}{
		"status":        entities.PilotSick,
		"fatigue_score": 100.0,
	})
	if err != nil {
		return err
	}
	err = s.flights.UpdateFields(ctx, flightID, map[string]interface{}{
		"status":                   entities.FlightCritical,
		"predicted_failure":        true,
		"predicted_failure_reason": constants.ReasonPilotIncapacitated,
		"cause_tag":                entities.CauseTagCrewSick,
		"boarding_allowed":         false,
	})
	if err != nil {
		return err
	}
	s.trail.Append(fmt.Sprintf("INJECT: Pilot SICK on %s.", flightID))
	return nil
}

func (s *DisruptionService) injectDisruption(ctx context.Context, flightID string, delay int, reason string) error {
	flight, err := s.flights.Get(ctx, flightID)
	if err != nil {
		return err
	}
	err = s.flights.UpdateFields(ctx, flightID, map[string]interface{}{
		"delay_minutes":            delay,
		"delay_reason":             reason,
		"status":                   entities.FlightCritical,
		"predicted_failure":        true,
		"predicted_failure_reason": reason,
		"cause_tag":                entities.CauseTagOperational,
	})
	if err != nil {
		return err
	}

	if err := s.notifier.Notify(ctx, engine.Notification{
		FlightID:    flightID,
		Origin:      flight.Origin,
		Destination: flight.Destination,
		StatusType:  "DELAYED",
		Reason:      reason,
		Detail:      fmt.Sprintf("Delay of %d mins", delay),
	}); err != nil {
		logging.Warn("disruption notification failed", "flight_id", flightID, "error", err.Error())
	}

	return s.RecalculateImpact(ctx, flightID)
}

// RecalculateImpact projects duty time at landing for the assigned pilot and
// flags the flight CRITICAL when the ceiling would be exceeded (or the pilot
// is sick). Flights without a pilot are left untouched.
func (s *DisruptionService) RecalculateImpact(ctx context.Context, flightID string) error {
	flight, err := s.flights.Get(ctx, flightID)
	if err != nil {
		return err
	}
	if flight.AssignedPilotID == nil {
		return nil
	}
	pilot, err := s.pilots.Get(ctx, *flight.AssignedPilotID)
	if err != nil {
		return err
	}

	duration := flight.FlightDurationMinutes
	if duration == 0 {
		duration = 120
	}
	projected := pilot.CurrentDutyMinutes + duration + flight.DelayMinutes
	violation := projected > pilot.MaxLegalDutyMinutes

	fields := map[string]interface{}{
		"predicted_failure":             violation,
		"predicted_failure_probability": 0.1,
		"boarding_allowed":              !violation,
	}
	if violation {
		fields["predicted_failure_probability"] = 0.95
		fields["predicted_failure_reason"] = constants.ReasonFDTLExceeded
		fields["cause_tag"] = entities.CauseTagDutyLimit
	}
	if pilot.Status == entities.PilotSick {
		violation = true
		fields["predicted_failure"] = true
		fields["predicted_failure_reason"] = constants.ReasonPilotIncapacitated
		fields["cause_tag"] = entities.CauseTagCrewSick
		fields["boarding_allowed"] = false
	}
	if violation {
		fields["status"] = entities.FlightCritical
		s.trail.Append(fmt.Sprintf("PREDICTION: Flight %s will fail. Reason: %v", flightID, fields["predicted_failure_reason"]))
	}

	return s.flights.UpdateFields(ctx, flightID, fields)
}
