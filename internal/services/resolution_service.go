package services

import (
	"context"
	"fmt"
	"time"

	"skyops/copilot/internal/common"
	"skyops/copilot/internal/db/repositories"
	"skyops/copilot/internal/engine"
	"skyops/copilot/internal/logging"
	"skyops/copilot/internal/metrics"
	"skyops/copilot/internal/models/dtos"
	"skyops/copilot/internal/models/entities"
)

// ResolutionService runs the disruption pipeline: classify the flagged
// flight, generate and rank remediation options, and apply an approved
// option. Generation never mutates; apply requires operator approval.
type ResolutionService struct {
	pilots   *repositories.PilotRepository
	flights  *repositories.FlightRepository
	store    engine.Store
	notifier engine.Notifier
	trail    *common.TrailService
	metrics  *metrics.MetricsRegistry
	now      func() time.Time
}

func NewResolutionService(
	pilots *repositories.PilotRepository,
	flights *repositories.FlightRepository,
	store engine.Store,
	notifier engine.Notifier,
	trail *common.TrailService,
	metricsReg *metrics.MetricsRegistry,
) *ResolutionService {
	return &ResolutionService{
		pilots:   pilots,
		flights:  flights,
		store:    store,
		notifier: notifier,
		trail:    trail,
		metrics:  metricsReg,
		now:      time.Now,
	}
}

// GenerateAndRank builds the decision packet for the given flight, or for
// the first CRITICAL (else DELAYED) flight when no id is supplied. A nil
// packet with status NO_ACTION means nothing is disrupted; NO_OPTIONS_FOUND
// means the cause produced no candidates.
func (s *ResolutionService) GenerateAndRank(ctx context.Context, flightID string) (*dtos.DecisionResponse, error) {
	flight, err := s.pickDisrupted(ctx, flightID)
	if err != nil {
		return nil, err
	}
	if flight == nil {
		return &dtos.DecisionResponse{Status: "NO_ACTION"}, nil
	}

	pilots, err := s.pilots.List(ctx)
	if err != nil {
		return nil, err
	}
	flights, err := s.flights.List(ctx)
	if err != nil {
		return nil, err
	}

	cause := engine.ClassifyCause(flight)
	options := engine.GenerateOptions(flight, pilots, flights, s.now())
	s.metrics.OptionsGeneratedTotal.WithLabelValues(string(cause)).Add(float64(len(options)))

	packet := engine.BuildDecisionPacket(flight, options)
	if packet == nil {
		return &dtos.DecisionResponse{Status: "NO_OPTIONS_FOUND", Flight: flight}, nil
	}

	s.trail.Append(fmt.Sprintf("CO-PILOT: Recommended Strategy Generated: %s", packet.Recommended.Title))
	logging.Info("decision packet generated",
		"flight_id", flight.ID,
		"cause", string(cause),
		"options", len(options),
		"recommended", packet.Recommended.ID,
	)

	return &dtos.DecisionResponse{Status: "OPTIONS_GENERATED", Flight: flight, Packet: packet}, nil
}

// ApplyResolution executes an approved option against the record store.
func (s *ResolutionService) ApplyResolution(ctx context.Context, opt engine.Option) (*dtos.ResolveResponse, error) {
	effect, err := engine.ApplyResolution(ctx, s.store, s.notifier, opt)
	if err != nil {
		return nil, err
	}
	s.metrics.ResolutionsAppliedTotal.WithLabelValues(string(opt.ActionType)).Inc()
	for _, line := range effect.Log {
		s.trail.Append("MANUAL: " + line)
	}
	return &dtos.ResolveResponse{Status: "RESOLVED", Log: effect.Log}, nil
}

func (s *ResolutionService) pickDisrupted(ctx context.Context, flightID string) (*entities.Flight, error) {
	if flightID != "" {
		return s.flights.Get(ctx, flightID)
	}
	flight, err := s.flights.FirstWithStatus(ctx, entities.FlightCritical)
	if err != nil {
		return nil, err
	}
	if flight == nil {
		flight, err = s.flights.FirstWithStatus(ctx, entities.FlightDelayed)
		if err != nil {
			return nil, err
		}
	}
	return flight, nil
}
