package services

import (
	"context"
	"testing"

	"skyops/copilot/internal/db/repositories"
	"skyops/copilot/internal/models/entities"
)

func newAnalyticsFixture(t *testing.T) (*AnalyticsService, *repositories.PilotRepository, *repositories.FlightRepository) {
	t.Helper()
	db := newTestDB(t)
	pilots := repositories.NewPilotRepository(db)
	flights := repositories.NewFlightRepository(db)
	return NewAnalyticsService(pilots, flights, nil), pilots, flights
}

func TestFatigueTrend_BoundsAndRisk(t *testing.T) {
	svc, pilots, _ := newAnalyticsFixture(t)
	createPilot(t, pilots, entities.Pilot{ID: "P1", Name: "A. Sharma", Status: entities.PilotAvailable, FatigueScore: 0.9})

	trend, err := svc.FatigueTrend(context.Background(), "P1")
	if err != nil {
		t.Fatalf("trend: %v", err)
	}
	if len(trend) != 7 {
		t.Fatalf("trend length = %d", len(trend))
	}
	for _, point := range trend {
		if point.Score < 5 || point.Score > 95 {
			t.Errorf("score %g out of bounds", point.Score)
		}
		want := "LOW"
		if point.Score > 70 {
			want = "HIGH"
		} else if point.Score > 40 {
			want = "MEDIUM"
		}
		if point.Risk != want {
			t.Errorf("score %g risk = %s, want %s", point.Score, point.Risk, want)
		}
		if point.Day == "" {
			t.Error("empty day label")
		}
	}
}

func TestFatigueTrend_HighScoreForcesRest(t *testing.T) {
	svc, pilots, _ := newAnalyticsFixture(t)
	createPilot(t, pilots, entities.Pilot{ID: "P1", Name: "A. Sharma", Status: entities.PilotAvailable, FatigueScore: 95})

	trend, err := svc.FatigueTrend(context.Background(), "P1")
	if err != nil {
		t.Fatalf("trend: %v", err)
	}
	// 95 is above the rest threshold, so day one must drop by 30.
	if trend[0].Score != 65 {
		t.Errorf("day one score = %g, want 65", trend[0].Score)
	}
}

func TestDisruptionCost(t *testing.T) {
	svc, _, flights := newAnalyticsFixture(t)
	createFlight(t, flights, entities.Flight{ID: "F1", FlightNumber: "AI-501", Origin: "DEL", DelayMinutes: 240})
	createFlight(t, flights, entities.Flight{ID: "F2", FlightNumber: "AI-502", Origin: "BOM", DelayMinutes: 60})

	summary, err := svc.DisruptionCost(context.Background())
	if err != nil {
		t.Fatalf("cost: %v", err)
	}
	if summary.CurrentWaste != 30000 {
		t.Errorf("waste = %d", summary.CurrentWaste)
	}
	if summary.ProjectedSavings != 7500 {
		t.Errorf("savings = %d", summary.ProjectedSavings)
	}
	if summary.EfficiencyScore != 97 {
		t.Errorf("efficiency = %d", summary.EfficiencyScore)
	}
}

func TestPredictions_CongestionAndWeather(t *testing.T) {
	svc, _, flights := newAnalyticsFixture(t)
	fog := "Heavy Fog"
	rain := "Heavy Rain"
	for i, reason := range []*string{&fog, &fog, &rain} {
		createFlight(t, flights, entities.Flight{
			ID: string(rune('A' + i)), FlightNumber: "AI-50" + string(rune('1'+i)),
			Origin: "DEL", Status: entities.FlightDelayed, DelayMinutes: 90, DelayReason: reason,
		})
	}

	risks, err := svc.Predictions(context.Background())
	if err != nil {
		t.Fatalf("predictions: %v", err)
	}
	if len(risks) != 2 {
		t.Fatalf("risks = %+v", risks)
	}
	// Sorted by probability: weather front (85) before DEL congestion (70).
	if risks[0].Type != "Weather Front" || risks[0].Probability != 85 {
		t.Errorf("risks[0] = %+v", risks[0])
	}
	if risks[1].Location != "DEL" || risks[1].Probability != 70 {
		t.Errorf("risks[1] = %+v", risks[1])
	}
	if risks[1].RootCause != "Accumulation of 3 delayed flights" {
		t.Errorf("root cause = %s", risks[1].RootCause)
	}
}

func TestPredictions_CrewDepth(t *testing.T) {
	svc, pilots, _ := newAnalyticsFixture(t)
	for _, id := range []string{"P1", "P2", "P3", "P4"} {
		createPilot(t, pilots, entities.Pilot{ID: id, Name: id, Status: entities.PilotAvailable, FatigueScore: 85})
	}

	risks, err := svc.Predictions(context.Background())
	if err != nil {
		t.Fatalf("predictions: %v", err)
	}
	if len(risks) != 1 || risks[0].Type != "Crew Depth Risk" {
		t.Fatalf("risks = %+v", risks)
	}
	if risks[0].RootCause != "4 pilots near duty limits" {
		t.Errorf("root cause = %s", risks[0].RootCause)
	}
}

func TestPredictions_StableDefault(t *testing.T) {
	svc, _, _ := newAnalyticsFixture(t)

	risks, err := svc.Predictions(context.Background())
	if err != nil {
		t.Fatalf("predictions: %v", err)
	}
	if len(risks) != 1 || risks[0].Type != "Stable Operations" || risks[0].Probability != 5 {
		t.Fatalf("risks = %+v", risks)
	}
}
