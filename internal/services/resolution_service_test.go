package services

import (
	"context"
	"testing"
	"time"

	"skyops/copilot/internal/db/repositories"
	"skyops/copilot/internal/engine"
	"skyops/copilot/internal/models/entities"
)

type recordingNotifier struct {
	sent []engine.Notification
}

func (n *recordingNotifier) Notify(ctx context.Context, msg engine.Notification) error {
	n.sent = append(n.sent, msg)
	return nil
}

func newResolutionFixture(t *testing.T) (*ResolutionService, *repositories.PilotRepository, *repositories.FlightRepository, *recordingNotifier) {
	t.Helper()
	db := newTestDB(t)
	pilots := repositories.NewPilotRepository(db)
	flights := repositories.NewFlightRepository(db)
	notifier := &recordingNotifier{}
	svc := NewResolutionService(pilots, flights, repositories.NewRecordStore(db), notifier, newTestTrail(), testMetrics)
	return svc, pilots, flights, notifier
}

func TestGenerateAndRank_OperationalDisruption(t *testing.T) {
	svc, _, flights, _ := newResolutionFixture(t)
	now := time.Now()
	svc.now = func() time.Time { return now }

	reason := "Heavy Fog"
	createFlight(t, flights, entities.Flight{
		ID: "F1", FlightNumber: "AI-501", Origin: "DEL", Destination: "BOM",
		Status: entities.FlightCritical, DelayMinutes: 240, DelayReason: &reason,
		CauseTag: entities.CauseTagOperational, PredictedFailure: true,
	})
	createFlight(t, flights, entities.Flight{
		ID: "F2", FlightNumber: "AI-502", Origin: "DEL",
		ScheduledDeparture: now.Add(2 * time.Hour),
	})

	resp, err := svc.GenerateAndRank(context.Background(), "")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if resp.Status != "OPTIONS_GENERATED" {
		t.Fatalf("status = %s", resp.Status)
	}
	if resp.Flight == nil || resp.Flight.ID != "F1" {
		t.Fatalf("picked flight = %+v", resp.Flight)
	}
	if resp.Packet == nil || resp.Packet.Recommended == nil {
		t.Fatal("expected packet with recommendation")
	}
	if resp.Packet.Recommended.ActionType != engine.ActionSwapFlight {
		t.Errorf("recommended = %+v", resp.Packet.Recommended)
	}
	if !resp.Packet.ApprovalRequired {
		t.Error("approval must be required")
	}
}

func TestGenerateAndRank_NoDisruption(t *testing.T) {
	svc, _, flights, _ := newResolutionFixture(t)
	createFlight(t, flights, entities.Flight{ID: "F1", FlightNumber: "AI-501", Origin: "DEL"})

	resp, err := svc.GenerateAndRank(context.Background(), "")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if resp.Status != "NO_ACTION" {
		t.Errorf("status = %s", resp.Status)
	}
}

func TestGenerateAndRank_NoOptions(t *testing.T) {
	svc, _, flights, _ := newResolutionFixture(t)
	// Critical but unclassifiable: no tag, no reason text.
	createFlight(t, flights, entities.Flight{ID: "F1", FlightNumber: "AI-501", Origin: "DEL", Status: entities.FlightCritical})

	resp, err := svc.GenerateAndRank(context.Background(), "F1")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if resp.Status != "NO_OPTIONS_FOUND" {
		t.Errorf("status = %s", resp.Status)
	}
}

func TestGenerateAndRank_FallsBackToDelayed(t *testing.T) {
	svc, _, flights, _ := newResolutionFixture(t)
	reason := "ATC congestion"
	createFlight(t, flights, entities.Flight{
		ID: "F1", FlightNumber: "AI-501", Origin: "DEL",
		Status: entities.FlightDelayed, DelayMinutes: 90, DelayReason: &reason,
	})

	resp, err := svc.GenerateAndRank(context.Background(), "")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if resp.Status != "OPTIONS_GENERATED" || resp.Flight.ID != "F1" {
		t.Errorf("resp = %+v", resp)
	}
}

func TestApplyResolution_QueuesNotification(t *testing.T) {
	svc, _, flights, notifier := newResolutionFixture(t)
	createFlight(t, flights, entities.Flight{ID: "F1", FlightNumber: "AI-501", Origin: "DEL", Destination: "BOM", Status: entities.FlightCritical})

	resp, err := svc.ApplyResolution(context.Background(), engine.Option{
		ID: "OPT_CANCEL", ActionType: engine.ActionCancel,
		Payload: engine.Payload{FlightID: "F1"},
	})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if resp.Status != "RESOLVED" || len(resp.Log) == 0 {
		t.Errorf("resp = %+v", resp)
	}

	flight, _ := flights.Get(context.Background(), "F1")
	if flight.Status != entities.FlightCancelled {
		t.Errorf("status = %s", flight.Status)
	}
	if len(notifier.sent) != 1 {
		t.Errorf("notifications = %+v", notifier.sent)
	}
}
