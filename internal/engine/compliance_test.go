package engine

import (
	"testing"

	"skyops/copilot/internal/models/entities"
)

func freshPilot() *entities.Pilot {
	return &entities.Pilot{
		ID:                  "P1",
		Name:                "A. Sharma",
		FatigueScore:        20,
		Status:              entities.PilotAvailable,
		CurrentDutyMinutes:  100,
		MaxLegalDutyMinutes: 480,
	}
}

func dayFlight() *entities.Flight {
	return &entities.Flight{
		ID:                    "F1",
		FlightNumber:          "AI-501",
		Origin:                "DEL",
		Destination:           "BOM",
		FlightDurationMinutes: 120,
		Status:                entities.FlightOnTime,
	}
}

func TestEvaluateCompliance_Legal(t *testing.T) {
	ev := EvaluateCompliance(freshPilot(), dayFlight())
	if !ev.Legal {
		t.Fatalf("expected legal, got reasons %v", ev.Reasons)
	}
	if ev.Advisory != "" {
		t.Errorf("unexpected advisory %q", ev.Advisory)
	}
}

func TestEvaluateCompliance_FatigueHardLimit(t *testing.T) {
	p := freshPilot()
	p.FatigueScore = 81
	ev := EvaluateCompliance(p, dayFlight())
	if ev.Legal {
		t.Fatal("expected illegal")
	}
	if len(ev.Reasons) != 1 || ev.Reasons[0] != ReasonFatigueExceedsLimit {
		t.Errorf("reasons = %v", ev.Reasons)
	}

	// Boundary: exactly 80 is still legal.
	p.FatigueScore = 80
	if ev := EvaluateCompliance(p, dayFlight()); !ev.Legal {
		t.Errorf("fatigue 80 should be legal, got %v", ev.Reasons)
	}
}

func TestEvaluateCompliance_NightDutyAdjacency(t *testing.T) {
	p := freshPilot()
	p.LastNightDuty = true

	f := dayFlight()
	f.IsNightDuty = true
	ev := EvaluateCompliance(p, f)
	if ev.Legal {
		t.Fatal("expected illegal")
	}
	if ev.Reasons[0] != ReasonBackToBackNightDuty {
		t.Errorf("reasons = %v", ev.Reasons)
	}

	// Adjacency only applies when the flight itself is a night duty.
	if ev := EvaluateCompliance(p, dayFlight()); !ev.Legal {
		t.Errorf("day flight after night duty should be legal, got %v", ev.Reasons)
	}
}

func TestEvaluateCompliance_NightLandingsCap(t *testing.T) {
	f := dayFlight()
	f.IsNightDuty = true
	f.Landings = 3
	ev := EvaluateCompliance(freshPilot(), f)
	if ev.Legal {
		t.Fatal("expected illegal")
	}
	if ev.Reasons[0] != ReasonLandingsExceedCap {
		t.Errorf("reasons = %v", ev.Reasons)
	}

	// Same landings on a day flight are fine.
	f2 := dayFlight()
	f2.Landings = 3
	if ev := EvaluateCompliance(freshPilot(), f2); !ev.Legal {
		t.Errorf("day flight landings should be legal, got %v", ev.Reasons)
	}
}

func TestEvaluateCompliance_SickPilot(t *testing.T) {
	p := freshPilot()
	p.Status = entities.PilotSick
	ev := EvaluateCompliance(p, dayFlight())
	if ev.Legal || ev.Reasons[0] != ReasonCrewIncapacitated {
		t.Errorf("legal=%v reasons=%v", ev.Legal, ev.Reasons)
	}
}

func TestEvaluateCompliance_DutyCeiling(t *testing.T) {
	p := freshPilot()
	p.CurrentDutyMinutes = 400

	f := dayFlight()
	f.DelayMinutes = 0
	// 400 + 120 > 480
	ev := EvaluateCompliance(p, f)
	if ev.Legal || ev.Reasons[0] != ReasonDutyCeilingExceeded {
		t.Errorf("legal=%v reasons=%v", ev.Legal, ev.Reasons)
	}

	// Delay counts toward the projection.
	p.CurrentDutyMinutes = 300
	f.DelayMinutes = 100
	if ev := EvaluateCompliance(p, f); ev.Legal {
		t.Error("expected delay to push projection over the ceiling")
	}

	// Exactly at the ceiling is legal.
	f.DelayMinutes = 60
	if ev := EvaluateCompliance(p, f); !ev.Legal {
		t.Errorf("projection equal to ceiling should be legal, got %v", ev.Reasons)
	}
}

func TestEvaluateCompliance_AdvisoryBand(t *testing.T) {
	p := freshPilot()
	p.FatigueScore = 65
	ev := EvaluateCompliance(p, dayFlight())
	if !ev.Legal {
		t.Fatalf("advisory band must not disqualify, got %v", ev.Reasons)
	}
	if ev.Advisory != AdvisoryMandatedRest {
		t.Errorf("advisory = %q", ev.Advisory)
	}
}

func TestEvaluateCompliance_MultipleReasons(t *testing.T) {
	p := freshPilot()
	p.FatigueScore = 90
	p.Status = entities.PilotSick
	ev := EvaluateCompliance(p, dayFlight())
	if len(ev.Reasons) != 2 {
		t.Errorf("expected both violations reported, got %v", ev.Reasons)
	}
}
