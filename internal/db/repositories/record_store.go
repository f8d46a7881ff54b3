package repositories

import (
	"context"

	"gorm.io/gorm"

	"skyops/copilot/internal/engine"
	"skyops/copilot/internal/models/entities"
)

// RecordStore adapts the GORM repositories to the engine's store contract.
// Atomically wraps the callback in a database transaction, which is what
// makes the two-flight swap an all-or-nothing pair.
type RecordStore struct {
	db      *gorm.DB
	pilots  *PilotRepository
	flights *FlightRepository
}

var _ engine.Store = (*RecordStore)(nil)

func NewRecordStore(db *gorm.DB) *RecordStore {
	return &RecordStore{
		db:      db,
		pilots:  NewPilotRepository(db),
		flights: NewFlightRepository(db),
	}
}

func (s *RecordStore) GetFlight(ctx context.Context, id string) (*entities.Flight, error) {
	return s.flights.Get(ctx, id)
}

func (s *RecordStore) UpdateFlightFields(ctx context.Context, id string, fields map[string]interface{}) error {
	return s.flights.UpdateFields(ctx, id, fields)
}

func (s *RecordStore) GetPilot(ctx context.Context, id string) (*entities.Pilot, error) {
	return s.pilots.Get(ctx, id)
}

func (s *RecordStore) UpdatePilotFields(ctx context.Context, id string, fields map[string]interface{}) error {
	return s.pilots.UpdateFields(ctx, id, fields)
}

func (s *RecordStore) Atomically(ctx context.Context, fn func(engine.Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRecordStore(tx))
	})
}
