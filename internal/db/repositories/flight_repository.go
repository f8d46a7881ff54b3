package repositories

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"skyops/copilot/internal/engine"
	"skyops/copilot/internal/models/entities"
)

type FlightRepository struct {
	db *gorm.DB
}

func NewFlightRepository(db *gorm.DB) *FlightRepository {
	return &FlightRepository{db: db}
}

func (r *FlightRepository) List(ctx context.Context) ([]entities.Flight, error) {
	var flights []entities.Flight
	if err := r.db.WithContext(ctx).Order("scheduled_departure").Find(&flights).Error; err != nil {
		return nil, fmt.Errorf("list flights: %w", err)
	}
	return flights, nil
}

// ListActive returns flights still eligible for rostering (not CANCELLED,
// not SWAPPED).
func (r *FlightRepository) ListActive(ctx context.Context) ([]entities.Flight, error) {
	var flights []entities.Flight
	err := r.db.WithContext(ctx).
		Where("status NOT IN ?", []entities.FlightStatus{entities.FlightCancelled, entities.FlightSwapped}).
		Order("scheduled_departure").
		Find(&flights).Error
	if err != nil {
		return nil, fmt.Errorf("list active flights: %w", err)
	}
	return flights, nil
}

func (r *FlightRepository) Get(ctx context.Context, id string) (*entities.Flight, error) {
	var flight entities.Flight
	err := r.db.WithContext(ctx).First(&flight, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("flight %s: %w", id, engine.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get flight %s: %w", id, err)
	}
	return &flight, nil
}

// GetByIDOrNumber looks a flight up by primary key first, then by flight
// number case-insensitively. Passenger lookups come in either form.
func (r *FlightRepository) GetByIDOrNumber(ctx context.Context, ref string) (*entities.Flight, error) {
	flight, err := r.Get(ctx, ref)
	if err == nil {
		return flight, nil
	}
	if !errors.Is(err, engine.ErrNotFound) {
		return nil, err
	}
	var byNumber entities.Flight
	err = r.db.WithContext(ctx).Where("LOWER(flight_number) = LOWER(?)", ref).First(&byNumber).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("flight %s: %w", ref, engine.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get flight %s: %w", ref, err)
	}
	return &byNumber, nil
}

// FirstWithStatus returns the earliest-departing flight in the given status,
// or nil when none match.
func (r *FlightRepository) FirstWithStatus(ctx context.Context, status entities.FlightStatus) (*entities.Flight, error) {
	var flight entities.Flight
	err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Order("scheduled_departure").
		First(&flight).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find %s flight: %w", status, err)
	}
	return &flight, nil
}

func (r *FlightRepository) ListByOrigin(ctx context.Context, origin string) ([]entities.Flight, error) {
	var flights []entities.Flight
	if err := r.db.WithContext(ctx).Where("origin = ?", origin).Find(&flights).Error; err != nil {
		return nil, fmt.Errorf("list flights from %s: %w", origin, err)
	}
	return flights, nil
}

func (r *FlightRepository) CountByStatus(ctx context.Context, status entities.FlightStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.Flight{}).Where("status = ?", status).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("count %s flights: %w", status, err)
	}
	return count, nil
}

func (r *FlightRepository) Create(ctx context.Context, flight *entities.Flight) error {
	if err := r.db.WithContext(ctx).Create(flight).Error; err != nil {
		return fmt.Errorf("create flight %s: %w", flight.ID, err)
	}
	return nil
}

func (r *FlightRepository) UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error {
	res := r.db.WithContext(ctx).Model(&entities.Flight{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return fmt.Errorf("update flight %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("flight %s: %w", id, engine.ErrNotFound)
	}
	return nil
}

func (r *FlightRepository) DeleteAll(ctx context.Context) error {
	if err := r.db.WithContext(ctx).Where("1 = 1").Delete(&entities.Flight{}).Error; err != nil {
		return fmt.Errorf("delete flights: %w", err)
	}
	return nil
}
