package missionrepo

import (
	"context"
	"errors"

	"fleetops/internal/core/domain/model/kernel"
	"fleetops/internal/core/domain/model/mission"
	"fleetops/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormMissionRepository implements MissionRepository using GORM.
type GormMissionRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormMissionRepository creates a new GORM mission repository.
func NewGormMissionRepository(db *gorm.DB, tracker aggregateTracker) *GormMissionRepository {
	return &GormMissionRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a newly created mission to the database.
func (r *GormMissionRepository) Add(ctx context.Context, aggregate *mission.Mission) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update saves an existing mission to the database.
func (r *GormMissionRepository) Update(ctx context.Context, aggregate *mission.Mission) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).
		Model(&MissionDTO{}).
		Where("id = ?", dto.ID).
		Select("*").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves a mission by ID.
func (r *GormMissionRepository) Get(ctx context.Context, id kernel.UUID) (*mission.Mission, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto MissionDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("mission", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetAllInProgress retrieves every live mission.
func (r *GormMissionRepository) GetAllInProgress(ctx context.Context) ([]*mission.Mission, error) {
	var dtos []MissionDTO
	err := r.db.WithContext(ctx).
		Find(&dtos, "status = ?", mission.InProgress.String()).Error
	if err != nil {
		return nil, err
	}

	missions := make([]*mission.Mission, 0, len(dtos))
	for _, dto := range dtos {
		m, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		missions = append(missions, m)
	}

	return missions, nil
}
