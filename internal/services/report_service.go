package services

import (
	"context"
	"fmt"
	"os"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"skyops/copilot/internal/db/repositories"
	"skyops/copilot/internal/logging"
	"skyops/copilot/internal/models/dtos"
	"skyops/copilot/internal/models/entities"
)

// TextGenerator produces free-form text from a prompt. The production
// implementation talks to a hosted model; tests substitute a stub.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// OpenAIGenerator is the chat-completion backed TextGenerator.
type OpenAIGenerator struct {
	client *openai.Client
	model  string
}

// NewOpenAIGenerator reads OPENAI_API_KEY and OPENAI_MODEL from the
// environment. It returns nil when no key is configured; the report
// endpoint then degrades to a structured error instead of failing boot.
func NewOpenAIGenerator() *OpenAIGenerator {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return nil
	}
	model := os.Getenv("OPENAI_MODEL")
	if model == "" {
		model = openai.GPT4oMini
	}
	return &OpenAIGenerator{client: openai.NewClient(apiKey), model: model}
}

func (g *OpenAIGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// ReportService renders the executive daily briefing from the current
// fleet snapshot.
type ReportService struct {
	pilots    *repositories.PilotRepository
	flights   *repositories.FlightRepository
	generator TextGenerator
}

func NewReportService(
	pilots *repositories.PilotRepository,
	flights *repositories.FlightRepository,
	generator TextGenerator,
) *ReportService {
	return &ReportService{pilots: pilots, flights: flights, generator: generator}
}

// GenerateBriefing builds the operational prompt and asks the generator
// for a markdown briefing. Generation failures are reported in the
// response body, never as a transport error.
func (s *ReportService) GenerateBriefing(ctx context.Context) (*dtos.ReportResponse, error) {
	if s.generator == nil {
		return &dtos.ReportResponse{Error: "OPENAI_API_KEY not configured"}, nil
	}

	flights, err := s.flights.List(ctx)
	if err != nil {
		return nil, err
	}
	pilots, err := s.pilots.List(ctx)
	if err != nil {
		return nil, err
	}

	report, err := s.generator.Generate(ctx, buildBriefingPrompt(flights, pilots))
	if err != nil {
		logging.Warn("briefing generation failed", "error", err.Error())
		return &dtos.ReportResponse{Error: "AI Generation Failed: " + err.Error()}, nil
	}
	return &dtos.ReportResponse{ReportMarkdown: report}, nil
}

func buildBriefingPrompt(flights []entities.Flight, pilots []entities.Pilot) string {
	var delayed, cancelled []entities.Flight
	for _, f := range flights {
		switch f.Status {
		case entities.FlightDelayed, entities.FlightCritical:
			delayed = append(delayed, f)
		case entities.FlightCancelled:
			cancelled = append(cancelled, f)
		}
	}
	sick, highFatigue := 0, 0
	for _, p := range pilots {
		if p.Status == entities.PilotSick {
			sick++
		}
		if entities.NormalizeFatigue(p.FatigueScore) > 70 {
			highFatigue++
		}
	}

	var samples []string
	for i, f := range delayed {
		if i == 10 {
			break
		}
		reason := "Unknown"
		if f.DelayReason != nil {
			reason = *f.DelayReason
		}
		samples = append(samples, fmt.Sprintf("%s (%s-%s): %s", f.FlightNumber, f.Origin, f.Destination, reason))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You are the Chief Operations AI for a major airline. Analyze the following operational data and generate a detailed \"Executive Daily Briefing\".\n\n")
	fmt.Fprintf(&b, "Current Operational Snapshot:\n")
	fmt.Fprintf(&b, "- Total Flights Monitored: %d\n", len(flights))
	fmt.Fprintf(&b, "- Active Delays: %d\n", len(delayed))
	fmt.Fprintf(&b, "- Cancellations: %d\n", len(cancelled))
	fmt.Fprintf(&b, "- Pilots Unavailable (Sick): %d\n", sick)
	fmt.Fprintf(&b, "- High Fatigue Risk Pilots: %d\n\n", highFatigue)
	fmt.Fprintf(&b, "Specific Disruption details (Sample):\n%s\n\n", strings.Join(samples, "\n"))
	b.WriteString(`Structure your response in Markdown:
## 1. Executive Summary
(High-level health of the network, mentioning critical KPIs)

## 2. Root Cause Analysis
(Analyze the disruption reasons provided. Identify patterns like weather, technical issues, or crew shortages.)

## 3. Strategic Recommendations
(Propose 3 specific, actionable steps to recover the schedule or prevent further decay.)

## 4. Resource Optimization
(Comment on crew fatigue and fleet utilization efficiency.)

Use professional, concise aviation industry terminology.`)
	return b.String()
}
