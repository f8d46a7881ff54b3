package engine

import (
	"testing"
	"time"

	"skyops/copilot/internal/models/entities"
)

func strptr(s string) *string { return &s }

var optionsNow = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

func sickFlight() *entities.Flight {
	return &entities.Flight{
		ID:                     "F1",
		FlightNumber:           "AI-501",
		Origin:                 "DEL",
		Destination:            "BOM",
		Status:                 entities.FlightCritical,
		PredictedFailure:       true,
		PredictedFailureReason: strptr("Pilot Incapacitated (Sick)"),
	}
}

func TestClassifyCause(t *testing.T) {
	cases := []struct {
		name   string
		flight entities.Flight
		want   Cause
	}{
		{"explicit tag wins", entities.Flight{CauseTag: entities.CauseTagDutyLimit, DelayReason: strptr("Heavy Fog")}, CauseDutyLimit},
		{"sick keyword", entities.Flight{PredictedFailureReason: strptr("Pilot Incapacitated (Sick)")}, CauseCrewSick},
		{"fog keyword", entities.Flight{DelayReason: strptr("Heavy Fog")}, CauseOperational},
		{"atc keyword", entities.Flight{DelayReason: strptr("ATC congestion")}, CauseOperational},
		{"fdtl keyword", entities.Flight{PredictedFailureReason: strptr("Maximum FDTL Exceeded")}, CauseDutyLimit},
		{"sick beats operational", entities.Flight{DelayReason: strptr("Fog"), PredictedFailureReason: strptr("Pilot Incapacitated (Sick)")}, CauseCrewSick},
		{"no signal", entities.Flight{}, CauseNone},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ClassifyCause(&tc.flight); got != tc.want {
				t.Errorf("got %s, want %s", got, tc.want)
			}
		})
	}
}

func TestGenerateOptions_SicknessOnlyAssigns(t *testing.T) {
	pilots := []entities.Pilot{
		{ID: "P1", Name: "A", Base: "DEL", Status: entities.PilotAvailable, CurrentDutyMinutes: 100, FatigueScore: 40},
		{ID: "P2", Name: "B", Base: "DEL", Status: entities.PilotAvailable, CurrentDutyMinutes: 50, FatigueScore: 10},
		{ID: "P3", Name: "C", Base: "DEL", Status: entities.PilotAvailable, CurrentDutyMinutes: 350, FatigueScore: 5},  // over reserve ceiling
		{ID: "P4", Name: "D", Base: "BOM", Status: entities.PilotAvailable, CurrentDutyMinutes: 10, FatigueScore: 5},   // wrong base
		{ID: "P5", Name: "E", Base: "DEL", Status: entities.PilotSick, CurrentDutyMinutes: 10, FatigueScore: 5},        // sick
		{ID: "P6", Name: "F", Base: "DEL", Status: entities.PilotAvailable, CurrentDutyMinutes: 100, FatigueScore: 60},
		{ID: "P7", Name: "G", Base: "DEL", Status: entities.PilotAvailable, CurrentDutyMinutes: 100, FatigueScore: 70},
	}

	opts := GenerateOptions(sickFlight(), pilots, nil, optionsNow)

	if len(opts) != 3 {
		t.Fatalf("expected top-3 candidates only, got %d", len(opts))
	}
	// Sorted by fatigue ascending: P2 (10), P1 (40), P6 (60).
	wantIDs := []string{"OPT_ASSIGN_P2", "OPT_ASSIGN_P1", "OPT_ASSIGN_P6"}
	for i, want := range wantIDs {
		if opts[i].ID != want {
			t.Errorf("opts[%d].ID = %s, want %s", i, opts[i].ID, want)
		}
		if opts[i].ActionType != ActionAssign {
			t.Errorf("sickness must yield ASSIGN only, got %s", opts[i].ActionType)
		}
	}
	if opts[0].CO2.Kg != 80 {
		t.Errorf("assign impact = %d", opts[0].CO2.Kg)
	}
}

func TestGenerateOptions_OperationalFog(t *testing.T) {
	flight := &entities.Flight{
		ID: "F1", FlightNumber: "AI-501", Origin: "DEL", Destination: "BOM",
		Status: entities.FlightCritical, DelayMinutes: 240, DelayReason: strptr("Heavy Fog"),
	}
	flights := []entities.Flight{
		*flight,
		{ID: "F2", FlightNumber: "AI-502", Origin: "DEL", Status: entities.FlightOnTime, ScheduledDeparture: optionsNow.Add(3 * time.Hour)},
		{ID: "F3", FlightNumber: "AI-503", Origin: "DEL", Status: entities.FlightScheduled, ScheduledDeparture: optionsNow.Add(1 * time.Hour)},
		{ID: "F4", FlightNumber: "AI-504", Origin: "DEL", Status: entities.FlightOnTime, ScheduledDeparture: optionsNow.Add(7 * time.Hour)},  // outside window
		{ID: "F5", FlightNumber: "AI-505", Origin: "BOM", Status: entities.FlightOnTime, ScheduledDeparture: optionsNow.Add(2 * time.Hour)},  // wrong origin
		{ID: "F6", FlightNumber: "AI-506", Origin: "DEL", Status: entities.FlightDelayed, ScheduledDeparture: optionsNow.Add(2 * time.Hour)}, // disrupted itself
		{ID: "F7", FlightNumber: "AI-507", Origin: "DEL", Status: entities.FlightOnTime, ScheduledDeparture: optionsNow.Add(5 * time.Hour)},
	}

	opts := GenerateOptions(flight, nil, flights, optionsNow)

	// 3 swaps + hold + cancel + manual delay.
	if len(opts) != 6 {
		t.Fatalf("got %d options: %+v", len(opts), opts)
	}
	// Swaps first, soonest departure first.
	if opts[0].ID != "OPT_SWAP_FLIGHT_F3" || opts[1].ID != "OPT_SWAP_FLIGHT_F2" || opts[2].ID != "OPT_SWAP_FLIGHT_F7" {
		t.Errorf("swap order: %s, %s, %s", opts[0].ID, opts[1].ID, opts[2].ID)
	}
	if opts[3].ID != "OPT_HOLD" || opts[3].Payload.Minutes != 60 {
		t.Errorf("fallback = %+v", opts[3])
	}
	if opts[4].ID != "OPT_CANCEL" || opts[5].ID != "OPT_DELAY_MANUAL" {
		t.Errorf("tail options: %s, %s", opts[4].ID, opts[5].ID)
	}

	// Impact estimates.
	if opts[0].CO2.Kg != 50 || opts[0].CO2.Score != "LOW" {
		t.Errorf("swap impact = %+v", opts[0].CO2)
	}
	if opts[3].CO2.Kg != 600 || opts[3].CO2.Score != "HIGH" {
		t.Errorf("hold impact = %+v", opts[3].CO2)
	}
	if opts[4].CO2.Kg != 120 || opts[4].CO2.Score != "MEDIUM" {
		t.Errorf("cancel impact = %+v", opts[4].CO2)
	}
}

func TestGenerateOptions_OperationalFallbacks(t *testing.T) {
	cases := []struct {
		reason  string
		id      string
		minutes int
	}{
		{"Heavy Technical", "OPT_FIX", 45},
		{"Hydraulic leak", "OPT_FIX", 45},
		{"ATC flow control", "OPT_DELAY_ATC", 90},
		{"Thunderstorm cell", "OPT_HOLD", 60},
	}
	for _, tc := range cases {
		flight := &entities.Flight{ID: "F1", FlightNumber: "AI-501", Origin: "DEL", DelayReason: strptr(tc.reason)}
		opts := GenerateOptions(flight, nil, nil, optionsNow)
		found := false
		for _, o := range opts {
			if o.ID == tc.id {
				found = true
				if o.Payload.Minutes != tc.minutes {
					t.Errorf("%s: minutes = %d, want %d", tc.reason, o.Payload.Minutes, tc.minutes)
				}
			}
		}
		if !found {
			t.Errorf("%s: fallback %s not generated in %+v", tc.reason, tc.id, opts)
		}
	}
}

func TestGenerateOptions_DutyLimitUnion(t *testing.T) {
	flight := &entities.Flight{
		ID: "F1", FlightNumber: "AI-501", Origin: "DEL",
		Status: entities.FlightCritical, PredictedFailureReason: strptr("Maximum FDTL Exceeded"),
	}
	pilots := []entities.Pilot{
		{ID: "P1", Name: "A", Base: "DEL", Status: entities.PilotAvailable, CurrentDutyMinutes: 50, FatigueScore: 10},
	}
	flights := []entities.Flight{
		{ID: "F2", FlightNumber: "AI-502", Origin: "DEL", Status: entities.FlightOnTime, ScheduledDeparture: optionsNow.Add(2 * time.Hour)},
	}

	opts := GenerateOptions(flight, pilots, flights, optionsNow)
	// assign + swap + cancel + manual
	if len(opts) != 4 {
		t.Fatalf("got %d options", len(opts))
	}
	types := map[ActionType]bool{}
	for _, o := range opts {
		types[o.ActionType] = true
	}
	for _, want := range []ActionType{ActionAssign, ActionSwapFlight, ActionCancel, ActionDelayManual} {
		if !types[want] {
			t.Errorf("missing %s in %+v", want, opts)
		}
	}
}

func TestGenerateOptions_NoCause(t *testing.T) {
	flight := &entities.Flight{ID: "F1", Status: entities.FlightOnTime}
	if opts := GenerateOptions(flight, nil, nil, optionsNow); opts != nil {
		t.Errorf("expected nil for unclassified flight, got %+v", opts)
	}
}
