package repositories

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"skyops/copilot/internal/constants"
)

// StatsRepository serves the fleet counters over the raw sqlx handle. Only
// wired when Postgres is configured; callers fall back to the GORM
// repositories otherwise.
type StatsRepository struct {
	db *sqlx.DB
}

func NewStatsRepository(db *sqlx.DB) *StatsRepository {
	return &StatsRepository{db: db}
}

type statusCount struct {
	Status string `db:"status"`
	Total  int    `db:"total"`
}

func (r *StatsRepository) FlightCountsByStatus(ctx context.Context) (map[string]int, error) {
	var rows []statusCount
	if err := r.db.SelectContext(ctx, &rows, constants.CountFlightsByStatus); err != nil {
		return nil, fmt.Errorf("flight status counts: %w", err)
	}
	counts := make(map[string]int, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Total
	}
	return counts, nil
}

func (r *StatsRepository) PilotCountsByStatus(ctx context.Context) (map[string]int, error) {
	var rows []statusCount
	if err := r.db.SelectContext(ctx, &rows, constants.CountPilotsByStatus); err != nil {
		return nil, fmt.Errorf("pilot status counts: %w", err)
	}
	counts := make(map[string]int, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Total
	}
	return counts, nil
}

func (r *StatsRepository) TotalDelayMinutes(ctx context.Context) (int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, constants.TotalDelayMinutes); err != nil {
		return 0, fmt.Errorf("total delay minutes: %w", err)
	}
	return total, nil
}
