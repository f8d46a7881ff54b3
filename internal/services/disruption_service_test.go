package services

import (
	"context"
	"testing"

	"skyops/copilot/internal/db/repositories"
	"skyops/copilot/internal/models/dtos"
	"skyops/copilot/internal/models/entities"
)

func newDisruptionFixture(t *testing.T) (*DisruptionService, *repositories.PilotRepository, *repositories.FlightRepository, *recordingNotifier) {
	t.Helper()
	db := newTestDB(t)
	pilots := repositories.NewPilotRepository(db)
	flights := repositories.NewFlightRepository(db)
	notifier := &recordingNotifier{}
	svc := NewDisruptionService(pilots, flights, notifier, newTestTrail())
	return svc, pilots, flights, notifier
}

func TestSimulate_Sickness(t *testing.T) {
	svc, pilots, flights, _ := newDisruptionFixture(t)
	pid := "P1"
	createPilot(t, pilots, entities.Pilot{ID: pid, Name: "A. Sharma", Status: entities.PilotAvailable, FatigueScore: 20})
	createFlight(t, flights, entities.Flight{ID: "F1", FlightNumber: "AI-501", Origin: "DEL", AssignedPilotID: &pid, BoardingAllowed: true})

	resp, err := svc.Simulate(context.Background(), dtos.SimulateRequest{Type: "CREW", SubType: "Sickness", FlightID: "F1"})
	if err != nil {
		t.Fatalf("simulate: %v", err)
	}
	if resp.Status != "SIMULATED_SICKNESS" {
		t.Errorf("status = %s", resp.Status)
	}

	pilot, _ := pilots.Get(context.Background(), pid)
	if pilot.Status != entities.PilotSick || pilot.FatigueScore != 100 {
		t.Errorf("pilot = %+v", pilot)
	}
	flight, _ := flights.Get(context.Background(), "F1")
	if flight.Status != entities.FlightCritical || !flight.PredictedFailure {
		t.Errorf("flight = %+v", flight)
	}
	if flight.PredictedFailureReason == nil || *flight.PredictedFailureReason != "Pilot Incapacitated (Sick)" {
		t.Errorf("reason = %v", flight.PredictedFailureReason)
	}
	if flight.CauseTag != entities.CauseTagCrewSick {
		t.Errorf("cause tag = %s", flight.CauseTag)
	}
	if flight.BoardingAllowed {
		t.Error("boarding must be blocked")
	}
}

func TestSimulate_SicknessRequiresFlight(t *testing.T) {
	svc, _, _, _ := newDisruptionFixture(t)
	if _, err := svc.Simulate(context.Background(), dtos.SimulateRequest{Type: "CREW", SubType: "Sickness"}); err == nil {
		t.Fatal("expected error without flight id")
	}
}

func TestSimulate_SingleFlightDelay(t *testing.T) {
	svc, pilots, flights, notifier := newDisruptionFixture(t)
	pid := "P1"
	createPilot(t, pilots, entities.Pilot{ID: pid, Name: "A. Sharma", Status: entities.PilotAvailable, CurrentDutyMinutes: 100})
	createFlight(t, flights, entities.Flight{
		ID: "F1", FlightNumber: "AI-501", Origin: "DEL", Destination: "BOM",
		FlightDurationMinutes: 120, AssignedPilotID: &pid, BoardingAllowed: true,
	})

	resp, err := svc.Simulate(context.Background(), dtos.SimulateRequest{Type: "WEATHER", SubType: "Fog", FlightID: "F1"})
	if err != nil {
		t.Fatalf("simulate: %v", err)
	}
	if len(resp.AffectedFlights) != 1 {
		t.Errorf("affected = %v", resp.AffectedFlights)
	}

	flight, _ := flights.Get(context.Background(), "F1")
	if flight.DelayMinutes != 240 {
		t.Errorf("delay = %d, want Fog category 240", flight.DelayMinutes)
	}
	if flight.DelayReason == nil || *flight.DelayReason != "Heavy Fog" {
		t.Errorf("reason = %v", flight.DelayReason)
	}
	if flight.CauseTag != entities.CauseTagOperational {
		t.Errorf("cause tag = %s", flight.CauseTag)
	}
	if len(notifier.sent) != 1 || notifier.sent[0].StatusType != "DELAYED" {
		t.Errorf("notifications = %+v", notifier.sent)
	}
}

func TestSimulate_UnknownSubTypeDefaultDelay(t *testing.T) {
	svc, _, flights, _ := newDisruptionFixture(t)
	createFlight(t, flights, entities.Flight{ID: "F1", FlightNumber: "AI-501", Origin: "DEL", BoardingAllowed: true})

	if _, err := svc.Simulate(context.Background(), dtos.SimulateRequest{Type: "WEATHER", SubType: "Hail", FlightID: "F1"}); err != nil {
		t.Fatalf("simulate: %v", err)
	}
	flight, _ := flights.Get(context.Background(), "F1")
	if flight.DelayMinutes != 180 {
		t.Errorf("delay = %d, want default 180", flight.DelayMinutes)
	}
}

func TestSimulate_AirportWide(t *testing.T) {
	svc, _, flights, _ := newDisruptionFixture(t)
	createFlight(t, flights, entities.Flight{ID: "F1", FlightNumber: "AI-501", Origin: "DEL", BoardingAllowed: true})
	createFlight(t, flights, entities.Flight{ID: "F2", FlightNumber: "AI-502", Origin: "DEL", BoardingAllowed: true})
	createFlight(t, flights, entities.Flight{ID: "F3", FlightNumber: "AI-503", Origin: "BOM", BoardingAllowed: true})
	createFlight(t, flights, entities.Flight{ID: "F4", FlightNumber: "AI-504", Origin: "DEL", Status: entities.FlightCancelled})

	resp, err := svc.Simulate(context.Background(), dtos.SimulateRequest{Type: "WEATHER", SubType: "Thunderstorm", Airport: "DEL"})
	if err != nil {
		t.Fatalf("simulate: %v", err)
	}
	if len(resp.AffectedFlights) != 2 {
		t.Errorf("affected = %v", resp.AffectedFlights)
	}

	untouched, _ := flights.Get(context.Background(), "F3")
	if untouched.DelayMinutes != 0 {
		t.Errorf("other airport mutated: %+v", untouched)
	}
}

func TestRecalculateImpact_DutyViolation(t *testing.T) {
	svc, pilots, flights, _ := newDisruptionFixture(t)
	pid := "P1"
	createPilot(t, pilots, entities.Pilot{ID: pid, Name: "A. Sharma", Status: entities.PilotAvailable, CurrentDutyMinutes: 400})
	createFlight(t, flights, entities.Flight{
		ID: "F1", FlightNumber: "AI-501", Origin: "DEL",
		FlightDurationMinutes: 120, DelayMinutes: 60, AssignedPilotID: &pid, BoardingAllowed: true,
	})

	if err := svc.RecalculateImpact(context.Background(), "F1"); err != nil {
		t.Fatalf("recalculate: %v", err)
	}

	flight, _ := flights.Get(context.Background(), "F1")
	if !flight.PredictedFailure || flight.PredictedFailureProbability != 0.95 {
		t.Errorf("prediction = %v %g", flight.PredictedFailure, flight.PredictedFailureProbability)
	}
	if flight.PredictedFailureReason == nil || *flight.PredictedFailureReason != "Maximum FDTL Exceeded" {
		t.Errorf("reason = %v", flight.PredictedFailureReason)
	}
	if flight.Status != entities.FlightCritical || flight.BoardingAllowed {
		t.Errorf("status=%s boarding=%v", flight.Status, flight.BoardingAllowed)
	}
	if flight.CauseTag != entities.CauseTagDutyLimit {
		t.Errorf("cause tag = %s", flight.CauseTag)
	}
}

func TestRecalculateImpact_WithinLimits(t *testing.T) {
	svc, pilots, flights, _ := newDisruptionFixture(t)
	pid := "P1"
	createPilot(t, pilots, entities.Pilot{ID: pid, Name: "A. Sharma", Status: entities.PilotAvailable, CurrentDutyMinutes: 100})
	createFlight(t, flights, entities.Flight{
		ID: "F1", FlightNumber: "AI-501", Origin: "DEL",
		FlightDurationMinutes: 120, AssignedPilotID: &pid, BoardingAllowed: true,
	})

	if err := svc.RecalculateImpact(context.Background(), "F1"); err != nil {
		t.Fatalf("recalculate: %v", err)
	}
	flight, _ := flights.Get(context.Background(), "F1")
	if flight.PredictedFailure || !flight.BoardingAllowed {
		t.Errorf("flight = %+v", flight)
	}
}
