package ports

import (
	"context"
	"time"

	"fleetops/internal/core/domain/model/deliverycode"
	"fleetops/internal/core/domain/model/kernel"
)

// CodeAuditRecord is one entry in a delivery code's audit trail.
type CodeAuditRecord struct {
	// OrderID is the order whose code the event belongs to.
	OrderID kernel.UUID
	// Event names what happened.
	Event deliverycode.Event
	// Detail carries optional context, e.g. attempts remaining.
	Detail string
	// At is when the event happened.
	At time.Time
}

// CodeRepository defines the persistence contract for delivery codes,
// their audit trail and the archive of finished codes.
type CodeRepository interface {
	// Add persists a newly generated active code.
	Add(ctx context.Context, aggregate *deliverycode.Code) error

	// Update persists attempt and status changes on an active code.
	Update(ctx context.Context, aggregate *deliverycode.Code) error

	// GetByOrder retrieves the code protecting an order, active or not.
	GetByOrder(ctx context.Context, orderID kernel.UUID) (*deliverycode.Code, error)

	// GetAllActive retrieves every code still in Active status.
	// Used by the expiry sweep and to rebuild the in-memory registry.
	GetAllActive(ctx context.Context) ([]*deliverycode.Code, error)

	// Archive moves a terminal code out of the active table into the
	// archive with its final outcome.
	Archive(ctx context.Context, aggregate *deliverycode.Code, outcome deliverycode.ArchiveStatus, at time.Time) error

	// AddAudit appends an entry to the code audit trail.
	AddAudit(ctx context.Context, record CodeAuditRecord) error

	// GetAuditByOrder retrieves the audit trail for an order's code,
	// oldest first.
	GetAuditByOrder(ctx context.Context, orderID kernel.UUID) ([]CodeAuditRecord, error)
}
