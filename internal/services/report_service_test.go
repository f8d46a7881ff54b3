package services

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"skyops/copilot/internal/db/repositories"
	"skyops/copilot/internal/models/entities"
)

type stubGenerator struct {
	prompt string
	out    string
	err    error
}

func (g *stubGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	g.prompt = prompt
	return g.out, g.err
}

func TestGenerateBriefing(t *testing.T) {
	db := newTestDB(t)
	pilots := repositories.NewPilotRepository(db)
	flights := repositories.NewFlightRepository(db)
	gen := &stubGenerator{out: "## 1. Executive Summary\nAll clear."}
	svc := NewReportService(pilots, flights, gen)

	createPilot(t, pilots, entities.Pilot{ID: "P1", Name: "A. Sharma", Status: entities.PilotSick, FatigueScore: 90})
	reason := "Heavy Fog"
	createFlight(t, flights, entities.Flight{
		ID: "F1", FlightNumber: "AI-501", Origin: "DEL", Destination: "BOM",
		Status: entities.FlightDelayed, DelayMinutes: 120, DelayReason: &reason,
	})

	resp, err := svc.GenerateBriefing(context.Background())
	if err != nil {
		t.Fatalf("briefing: %v", err)
	}
	if resp.Error != "" || resp.ReportMarkdown != gen.out {
		t.Errorf("resp = %+v", resp)
	}

	for _, want := range []string{
		"Total Flights Monitored: 1",
		"Active Delays: 1",
		"Pilots Unavailable (Sick): 1",
		"High Fatigue Risk Pilots: 1",
		"AI-501 (DEL-BOM): Heavy Fog",
		"## 2. Root Cause Analysis",
	} {
		if !strings.Contains(gen.prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestGenerateBriefing_NoGenerator(t *testing.T) {
	db := newTestDB(t)
	svc := NewReportService(repositories.NewPilotRepository(db), repositories.NewFlightRepository(db), nil)

	resp, err := svc.GenerateBriefing(context.Background())
	if err != nil {
		t.Fatalf("briefing: %v", err)
	}
	if resp.Error != "OPENAI_API_KEY not configured" {
		t.Errorf("error = %q", resp.Error)
	}
}

func TestGenerateBriefing_GeneratorFailure(t *testing.T) {
	db := newTestDB(t)
	gen := &stubGenerator{err: fmt.Errorf("rate limited")}
	svc := NewReportService(repositories.NewPilotRepository(db), repositories.NewFlightRepository(db), gen)

	resp, err := svc.GenerateBriefing(context.Background())
	if err != nil {
		t.Fatalf("generation failure must not surface as transport error: %v", err)
	}
	if !strings.HasPrefix(resp.Error, "AI Generation Failed:") {
		t.Errorf("error = %q", resp.Error)
	}
}
