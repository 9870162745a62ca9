package coderepo

import (
	"context"
	"errors"
	"time"

	"fleetops/internal/core/domain/model/deliverycode"
	"fleetops/internal/core/domain/model/kernel"
	"fleetops/internal/core/ports"
	"fleetops/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormCodeRepository implements CodeRepository using GORM.
type GormCodeRepository struct {
	db *gorm.DB
}

// NewGormCodeRepository creates a new GORM code repository.
func NewGormCodeRepository(db *gorm.DB) *GormCodeRepository {
	return &GormCodeRepository{db: db}
}

// Add saves a newly generated active code.
func (r *GormCodeRepository) Add(ctx context.Context, aggregate *deliverycode.Code) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	return r.db.WithContext(ctx).Create(&dto).Error
}

// Update saves attempt and status changes on an active code.
func (r *GormCodeRepository) Update(ctx context.Context, aggregate *deliverycode.Code) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).
		Model(&ActiveCodeDTO{}).
		Where("order_id = ?", dto.OrderID).
		Select("*").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

// GetByOrder retrieves the code protecting an order.
func (r *GormCodeRepository) GetByOrder(ctx context.Context, orderID kernel.UUID) (*deliverycode.Code, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	var dto ActiveCodeDTO
	if err := r.db.WithContext(ctx).First(&dto, "order_id = ?", orderID.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("deliveryCode", orderID.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetAllActive retrieves every code still in Active status.
func (r *GormCodeRepository) GetAllActive(ctx context.Context) ([]*deliverycode.Code, error) {
	var dtos []ActiveCodeDTO
	err := r.db.WithContext(ctx).
		Find(&dtos, "status = ?", deliverycode.Active.String()).Error
	if err != nil {
		return nil, err
	}

	codes := make([]*deliverycode.Code, 0, len(dtos))
	for _, dto := range dtos {
		c, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		codes = append(codes, c)
	}

	return codes, nil
}

// Archive moves a terminal code out of the active table into the
// archive with its final outcome. Deleting and inserting stay in the
// caller's transaction, so a failed archive leaves the active row
// untouched.
func (r *GormCodeRepository) Archive(
	ctx context.Context,
	aggregate *deliverycode.Code,
	outcome deliverycode.ArchiveStatus,
	at time.Time,
) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	orderID := aggregate.Order().Bytes()

	result := r.db.WithContext(ctx).Delete(&ActiveCodeDTO{}, "order_id = ?", orderID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	archived := ArchivedCodeDTO{
		OrderID:    orderID,
		Value:      aggregate.Value(),
		Outcome:    string(outcome),
		CreatedAt:  aggregate.CreatedAt(),
		ArchivedAt: at,
	}
	return r.db.WithContext(ctx).Create(&archived).Error
}

// AddAudit appends an entry to the code audit trail.
func (r *GormCodeRepository) AddAudit(ctx context.Context, record ports.CodeAuditRecord) error {
	dto := CodeHistoryDTO{
		OrderID: record.OrderID.Bytes(),
		Event:   string(record.Event),
		Detail:  record.Detail,
		At:      record.At,
	}
	return r.db.WithContext(ctx).Create(&dto).Error
}

// GetAuditByOrder retrieves the audit trail for an order's code,
// oldest first.
func (r *GormCodeRepository) GetAuditByOrder(
	ctx context.Context,
	orderID kernel.UUID,
) ([]ports.CodeAuditRecord, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	var dtos []CodeHistoryDTO
	err := r.db.WithContext(ctx).
		Order("id").
		Find(&dtos, "order_id = ?", orderID.Bytes()).Error
	if err != nil {
		return nil, err
	}

	records := make([]ports.CodeAuditRecord, 0, len(dtos))
	for _, dto := range dtos {
		record, err := auditToDomain(dto)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	return records, nil
}
