package repositories

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"skyops/copilot/internal/engine"
	"skyops/copilot/internal/models/entities"
)

type PilotRepository struct {
	db *gorm.DB
}

func NewPilotRepository(db *gorm.DB) *PilotRepository {
	return &PilotRepository{db: db}
}

func (r *PilotRepository) List(ctx context.Context) ([]entities.Pilot, error) {
	var pilots []entities.Pilot
	if err := r.db.WithContext(ctx).Order("id").Find(&pilots).Error; err != nil {
		return nil, fmt.Errorf("list pilots: %w", err)
	}
	return pilots, nil
}

func (r *PilotRepository) Get(ctx context.Context, id string) (*entities.Pilot, error) {
	var pilot entities.Pilot
	err := r.db.WithContext(ctx).First(&pilot, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("pilot %s: %w", id, engine.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get pilot %s: %w", id, err)
	}
	return &pilot, nil
}

func (r *PilotRepository) Create(ctx context.Context, pilot *entities.Pilot) error {
	if err := r.db.WithContext(ctx).Create(pilot).Error; err != nil {
		return fmt.Errorf("create pilot %s: %w", pilot.ID, err)
	}
	return nil
}

func (r *PilotRepository) UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error {
	res := r.db.WithContext(ctx).Model(&entities.Pilot{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return fmt.Errorf("update pilot %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("pilot %s: %w", id, engine.ErrNotFound)
	}
	return nil
}

func (r *PilotRepository) DeleteAll(ctx context.Context) error {
	if err := r.db.WithContext(ctx).Where("1 = 1").Delete(&entities.Pilot{}).Error; err != nil {
		return fmt.Errorf("delete pilots: %w", err)
	}
	return nil
}
