// Package coderepo persists delivery codes. Active codes live in their
// own table keyed by order; finished codes move to an archive table with
// the final outcome; every lifecycle event lands in code_history.
package coderepo

import (
	"time"

	"fleetops/internal/core/domain/model/deliverycode"
	"fleetops/internal/core/domain/model/kernel"
	"fleetops/internal/core/ports"

	"github.com/google/uuid"
)

// ActiveCodeDTO is a delivery code still guarding a handover.
type ActiveCodeDTO struct {
	OrderID      uuid.UUID `gorm:"type:uuid;primaryKey"`
	Value        string    `gorm:"type:varchar(16);not null"`
	Status       string    `gorm:"type:varchar(16);not null"`
	AttemptsLeft int       `gorm:"not null"`
	CreatedAt    time.Time `gorm:"not null"`
	ExpiresAt    time.Time `gorm:"index;not null"`
}

// TableName overrides GORM's default naming to use "active_codes".
func (ActiveCodeDTO) TableName() string {
	return "active_codes"
}

// ArchivedCodeDTO is a finished delivery code and its outcome.
type ArchivedCodeDTO struct {
	OrderID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	Value      string    `gorm:"type:varchar(16);not null"`
	Outcome    string    `gorm:"type:varchar(16);not null"`
	CreatedAt  time.Time `gorm:"not null"`
	ArchivedAt time.Time `gorm:"not null"`
}

// TableName overrides GORM's default naming to use "archived_codes".
func (ArchivedCodeDTO) TableName() string {
	return "archived_codes"
}

// CodeHistoryDTO is one audit entry in a code's lifecycle.
type CodeHistoryDTO struct {
	ID      uint      `gorm:"primaryKey;autoIncrement"`
	OrderID uuid.UUID `gorm:"type:uuid;index;not null"`
	Event   string    `gorm:"type:varchar(16);not null"`
	Detail  string    `gorm:"type:varchar(255)"`
	At      time.Time `gorm:"not null"`
}

// TableName overrides GORM's default naming to use "code_history".
func (CodeHistoryDTO) TableName() string {
	return "code_history"
}

// fromDomain converts a code aggregate to its active-table row.
func fromDomain(aggregate *deliverycode.Code) ActiveCodeDTO {
	return ActiveCodeDTO{
		OrderID:      aggregate.Order().Bytes(),
		Value:        aggregate.Value(),
		Status:       aggregate.Status().String(),
		AttemptsLeft: aggregate.AttemptsLeft(),
		CreatedAt:    aggregate.CreatedAt(),
		ExpiresAt:    aggregate.ExpiresAt(),
	}
}

// toDomain reconstructs a code aggregate from an active-table row.
func toDomain(dto ActiveCodeDTO) (*deliverycode.Code, error) {
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}

	status, err := deliverycode.StatusFromString(dto.Status)
	if err != nil {
		return nil, err
	}

	return deliverycode.RestoreCode(
		orderID,
		dto.Value,
		status,
		dto.AttemptsLeft,
		dto.CreatedAt,
		dto.ExpiresAt,
	)
}

// auditToDomain converts one history row to its port record.
func auditToDomain(dto CodeHistoryDTO) (ports.CodeAuditRecord, error) {
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return ports.CodeAuditRecord{}, err
	}

	return ports.CodeAuditRecord{
		OrderID: orderID,
		Event:   deliverycode.Event(dto.Event),
		Detail:  dto.Detail,
		At:      dto.At,
	}, nil
}
