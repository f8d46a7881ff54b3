package services

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"time"

	"skyops/copilot/internal/db/repositories"
	"skyops/copilot/internal/models/dtos"
	"skyops/copilot/internal/models/entities"
)

// Cost model: fuel burn + crew pay + passenger compensation per delay
// minute, and the optimizer's historical recovery rate.
const (
	costPerDelayMinute = 100
	savingsRate        = 0.25
)

// AnalyticsService derives trend, cost and risk summaries from the
// stored fleet state. Stats is optional; when the reporting database is
// not configured the aggregates fall back to in-process counting.
type AnalyticsService struct {
	pilots  *repositories.PilotRepository
	flights *repositories.FlightRepository
	stats   *repositories.StatsRepository
}

func NewAnalyticsService(
	pilots *repositories.PilotRepository,
	flights *repositories.FlightRepository,
	stats *repositories.StatsRepository,
) *AnalyticsService {
	return &AnalyticsService{pilots: pilots, flights: flights, stats: stats}
}

// FatigueTrend projects a pilot's fatigue over the next seven days with a
// bounded random walk over a mock future roster: high scores trigger
// mandatory rest, low scores pick up duty days.
func (s *AnalyticsService) FatigueTrend(ctx context.Context, pilotID string) ([]dtos.TrendPoint, error) {
	pilot, err := s.pilots.Get(ctx, pilotID)
	if err != nil {
		return nil, err
	}

	running := entities.NormalizeFatigue(pilot.FatigueScore)
	trend := make([]dtos.TrendPoint, 0, 7)
	for i := 0; i < 7; i++ {
		switch {
		case running > 80:
			running -= 30
		case running < 40:
			running += float64(10 + rand.Intn(16))
		default:
			running += []float64{-15, 15, 20}[rand.Intn(3)]
		}
		if running < 5 {
			running = 5
		}
		if running > 95 {
			running = 95
		}
		risk := "LOW"
		if running > 70 {
			risk = "HIGH"
		} else if running > 40 {
			risk = "MEDIUM"
		}
		trend = append(trend, dtos.TrendPoint{
			Day:   time.Now().AddDate(0, 0, i).Format("Mon"),
			Score: running,
			Risk:  risk,
		})
	}
	return trend, nil
}

// DisruptionCost sums delay minutes across the fleet and prices them.
func (s *AnalyticsService) DisruptionCost(ctx context.Context) (*dtos.CostSummary, error) {
	totalDelay, err := s.totalDelayMinutes(ctx)
	if err != nil {
		return nil, err
	}

	waste := totalDelay * costPerDelayMinute
	efficiency := 100 - totalDelay/100
	if efficiency < 0 {
		efficiency = 0
	}
	return &dtos.CostSummary{
		CurrentWaste:     waste,
		ProjectedSavings: int(float64(waste) * savingsRate),
		EfficiencyScore:  efficiency,
	}, nil
}

func (s *AnalyticsService) totalDelayMinutes(ctx context.Context) (int, error) {
	if s.stats != nil {
		return s.stats.TotalDelayMinutes(ctx)
	}
	flights, err := s.flights.List(ctx)
	if err != nil {
		return 0, err
	}
	total := 0
	for _, f := range flights {
		total += f.DelayMinutes
	}
	return total, nil
}

// Predictions scans current delays and crew state for correlated risk:
// origin-airport congestion, weather fronts and crew-depth exhaustion.
func (s *AnalyticsService) Predictions(ctx context.Context) ([]dtos.RiskPrediction, error) {
	flights, err := s.flights.List(ctx)
	if err != nil {
		return nil, err
	}
	pilots, err := s.pilots.List(ctx)
	if err != nil {
		return nil, err
	}

	var delayed []entities.Flight
	for _, f := range flights {
		if f.Status == entities.FlightDelayed || f.Status == entities.FlightCritical {
			delayed = append(delayed, f)
		}
	}

	var risks []dtos.RiskPrediction

	originCounts := map[string]int{}
	for _, f := range delayed {
		originCounts[f.Origin]++
	}
	origins := make([]string, 0, len(originCounts))
	for airport := range originCounts {
		origins = append(origins, airport)
	}
	sort.Strings(origins)
	for _, airport := range origins {
		count := originCounts[airport]
		if count < 2 {
			continue
		}
		probability := 40 + count*10
		if probability > 95 {
			probability = 95
		}
		impact := "MEDIUM"
		if count > 5 {
			impact = "HIGH"
		}
		risks = append(risks, dtos.RiskPrediction{
			Location:       airport,
			Probability:    probability,
			Type:           "Airport Congestion",
			Impact:         impact,
			RootCause:      fmt.Sprintf("Accumulation of %d delayed flights", count),
			Recommendation: "Initiate Ground Stop Program",
			Details:        "Congestion detected at " + airport + ".",
		})
	}

	weatherCount := 0
	for _, f := range delayed {
		if f.DelayReason == nil {
			continue
		}
		for _, kw := range []string{"Fog", "Rain", "Storm", "Wind"} {
			if strings.Contains(*f.DelayReason, kw) {
				weatherCount++
				break
			}
		}
	}
	if weatherCount > 2 {
		risks = append(risks, dtos.RiskPrediction{
			Location:       "REGION-NORTH",
			Probability:    85,
			Type:           "Weather Front",
			Impact:         "HIGH",
			RootCause:      "Multiple weather delays detected",
			Recommendation: "Activate Winter Ops Protocol",
			Details:        "Correlated weather disruptions across network.",
		})
	}

	fatigued := 0
	for _, p := range pilots {
		if entities.NormalizeFatigue(p.FatigueScore) > 70 {
			fatigued++
		}
	}
	if fatigued > 3 {
		risks = append(risks, dtos.RiskPrediction{
			Location:       "NETWORK",
			Probability:    75,
			Type:           "Crew Depth Risk",
			Impact:         "HIGH",
			RootCause:      fmt.Sprintf("%d pilots near duty limits", fatigued),
			Recommendation: "Call in Reserve Crew 24h early",
			Details:        "High probability of crew timeout cascades.",
		})
	}

	if len(risks) == 0 {
		risks = append(risks, dtos.RiskPrediction{
			Location:       "SYSTEM",
			Probability:    5,
			Type:           "Stable Operations",
			Impact:         "LOW",
			RootCause:      "N/A",
			Recommendation: "Continue Standard Monitoring",
			Details:        "No major risks detected in current telemetry.",
		})
	}

	sort.SliceStable(risks, func(i, j int) bool {
		return risks[i].Probability > risks[j].Probability
	})
	return risks, nil
}
