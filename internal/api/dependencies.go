package api

import (
	"os"

	"skyops/copilot/internal/common"
	"skyops/copilot/internal/db"
	"skyops/copilot/internal/db/repositories"
	"skyops/copilot/internal/logging"
	"skyops/copilot/internal/metrics"
	"skyops/copilot/internal/notify"
	"skyops/copilot/internal/seed"
	"skyops/copilot/internal/services"
	"skyops/copilot/internal/solver"
	"skyops/copilot/internal/workers"
)

type Repositories struct {
	Pilots  *repositories.PilotRepository
	Flights *repositories.FlightRepository
	Store   *repositories.RecordStore
	Stats   *repositories.StatsRepository
}

type Services struct {
	Cache      common.CacheInterface
	Trail      *common.TrailService
	Roster     *services.RosterService
	Disruption *services.DisruptionService
	Resolution *services.ResolutionService
	Analytics  *services.AnalyticsService
	Report     *services.ReportService
	Crew       *services.CrewService
	Passenger  *services.PassengerService
	Seeder     *seed.Seeder
}

type Dependencies struct {
	Repo     *Repositories
	Services *Services
}

func InitDependencies(metricsReg *metrics.MetricsRegistry) (*Dependencies, error) {
	repos := &Repositories{
		Pilots:  repositories.NewPilotRepository(db.ORM),
		Flights: repositories.NewFlightRepository(db.ORM),
		Store:   repositories.NewRecordStore(db.ORM),
	}
	if db.DB != nil {
		repos.Stats = repositories.NewStatsRepository(db.DB)
	}

	var cache common.CacheInterface
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		redisCache, err := common.NewRedisCacheService(addr, os.Getenv("REDIS_PASSWORD"))
		if err != nil {
			logging.Warn("redis unavailable, falling back to in-memory cache", "error", err.Error())
			cache = common.NewCacheService(60000, 600)
		} else {
			cache = redisCache
		}
	} else {
		cache = common.NewCacheService(60000, 600)
	}

	trail := common.NewTrailService(cache)
	notifier := &workers.QueueNotifier{}

	svcs := &Services{
		Cache:      cache,
		Trail:      trail,
		Roster:     services.NewRosterService(repos.Pilots, repos.Flights, solver.New(), trail, metricsReg),
		Disruption: services.NewDisruptionService(repos.Pilots, repos.Flights, notifier, trail),
		Resolution: services.NewResolutionService(repos.Pilots, repos.Flights, repos.Store, notifier, trail, metricsReg),
		Analytics:  services.NewAnalyticsService(repos.Pilots, repos.Flights, repos.Stats),
		Report:     services.NewReportService(repos.Pilots, repos.Flights, reportGenerator()),
		Crew:       services.NewCrewService(repos.Pilots, trail),
		Passenger:  services.NewPassengerService(repos.Flights, notify.NewMailerFromEnv()),
		Seeder:     seed.NewSeeder(repos.Pilots, repos.Flights, trail),
	}

	return &Dependencies{Repo: repos, Services: svcs}, nil
}

func reportGenerator() services.TextGenerator {
	gen := services.NewOpenAIGenerator()
	if gen == nil {
		return nil
	}
	return gen
}
