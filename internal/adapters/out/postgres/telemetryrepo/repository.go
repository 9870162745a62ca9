package telemetryrepo

import (
	"context"

	"fleetops/internal/core/domain/model/kernel"
	"fleetops/internal/core/ports"

	"gorm.io/gorm"
)

// GormTelemetryRepository implements TelemetryRepository using GORM.
type GormTelemetryRepository struct {
	db *gorm.DB
}

// NewGormTelemetryRepository creates a new GORM telemetry repository.
func NewGormTelemetryRepository(db *gorm.DB) *GormTelemetryRepository {
	return &GormTelemetryRepository{db: db}
}

// AddSample appends a heartbeat to the history.
func (r *GormTelemetryRepository) AddSample(ctx context.Context, sample ports.TelemetrySample) error {
	if err := sample.DroneID.Validate(); err != nil {
		return err
	}
	if err := sample.Position.Validate(); err != nil {
		return err
	}

	dto := fromDomain(sample)
	return r.db.WithContext(ctx).Create(&dto).Error
}

// GetRecentByDrone retrieves the newest samples for a drone, newest
// first, up to limit.
func (r *GormTelemetryRepository) GetRecentByDrone(
	ctx context.Context,
	droneID kernel.UUID,
	limit int,
) ([]ports.TelemetrySample, error) {
	if err := droneID.Validate(); err != nil {
		return nil, err
	}

	var dtos []TelemetrySampleDTO
	err := r.db.WithContext(ctx).
		Where("drone_id = ?", droneID.Bytes()).
		Order("at DESC").
		Limit(limit).
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	samples := make([]ports.TelemetrySample, 0, len(dtos))
	for _, dto := range dtos {
		sample, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		samples = append(samples, sample)
	}

	return samples, nil
}
