// Package codes orchestrates the delivery code lifecycle: generation,
// verification, completion and the expiry sweep, with an audit record
// for every step.
package codes

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"fleetops/internal/core/domain/model/deliverycode"
	"fleetops/internal/core/domain/model/kernel"
	"fleetops/internal/core/fleet"
	"fleetops/internal/core/ports"
	"fleetops/internal/pkg/errs"
)

// Unit of work contract for code persistence.
type (
	// CodeUoW manages transactions for code operations.
	CodeUoW interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
		CodeRepository() ports.CodeRepository
	}

	// CodeUoWFactory creates new code unit of work instances.
	CodeUoWFactory interface {
		Create() CodeUoW
	}
)

// ErrOutcomeMismatch is returned when a delivery is closed out as a
// success but the code was never verified.
var ErrOutcomeMismatch = errors.New("delivery outcome does not match code state")

// Manager owns active delivery codes: it generates them, verifies
// candidate entries, closes them out into the archive and sweeps
// expired ones. The in-memory registry holds the authoritative code
// state; every committed transition is mirrored synchronously through
// the unit of work, together with its audit record.
type Manager struct {
	registry   *fleet.Registry
	uowFactory CodeUoWFactory
	logger     *slog.Logger
}

// NewManager creates a code manager.
func NewManager(registry *fleet.Registry, uowFactory CodeUoWFactory, logger *slog.Logger) *Manager {
	return &Manager{
		registry:   registry,
		uowFactory: uowFactory,
		logger:     logger.With("component", "code-manager"),
	}
}

// How many fresh values Generate draws before giving up on a
// collision-free one.
const maxGenerateAttempts = 5

// Generate creates and registers an Active code for an order and
// persists it with a GENERATED audit record. An order can hold only
// one active code at a time, and no two active codes share a value;
// a drawn value that collides with another order's code is discarded
// and redrawn.
func (m *Manager) Generate(ctx context.Context, orderID kernel.UUID, now time.Time) (*deliverycode.Code, error) {
	var code *deliverycode.Code
	for attempt := 0; attempt < maxGenerateAttempts; attempt++ {
		value, err := deliverycode.NewValue()
		if err != nil {
			return nil, err
		}

		candidate, err := deliverycode.NewCode(orderID, value, now)
		if err != nil {
			return nil, err
		}

		err = m.registry.AddCode(candidate)
		if errors.Is(err, fleet.ErrCodeValueTaken) {
			continue
		}
		if err != nil {
			return nil, err
		}
		code = candidate
		break
	}
	if code == nil {
		return nil, fleet.ErrCodeValueTaken
	}

	if err := m.persist(ctx, func(repo ports.CodeRepository) error {
		if err := repo.Add(ctx, code); err != nil {
			return err
		}
		return repo.AddAudit(ctx, ports.CodeAuditRecord{
			OrderID: orderID,
			Event:   deliverycode.EventGenerated,
			At:      now,
		})
	}); err != nil {
		m.registry.RemoveCode(orderID)
		return nil, err
	}

	m.logger.Info("delivery code generated", "orderId", orderID.String())
	return code, nil
}

// Verify checks a candidate entry against the order's active code and
// records the outcome in the audit trail.
//
// The returned error is the domain verification outcome: nil on
// success, or one of deliverycode.ErrCodeMismatch, ErrCodeLocked,
// ErrCodeExpired, ErrCodeNotActive. Registry misses surface as
// fleet.ErrCodeNotFound.
func (m *Manager) Verify(ctx context.Context, orderID kernel.UUID, candidate string, now time.Time) error {
	var outcome error

	err := m.registry.WithCode(orderID, func(c *deliverycode.Code) error {
		outcome = c.Verify(candidate, now)

		record := ports.CodeAuditRecord{OrderID: orderID, At: now}
		switch {
		case outcome == nil:
			record.Event = deliverycode.EventVerified
		case errors.Is(outcome, deliverycode.ErrCodeMismatch):
			record.Event = deliverycode.EventVerifyFailed
			record.Detail = fmt.Sprintf("%d attempts left", c.AttemptsLeft())
		case errors.Is(outcome, deliverycode.ErrCodeLocked):
			record.Event = deliverycode.EventLocked
		case errors.Is(outcome, deliverycode.ErrCodeExpired):
			record.Event = deliverycode.EventExpired
		default:
			// Already terminal; nothing changed, nothing to persist.
			return nil
		}

		return m.persist(ctx, func(repo ports.CodeRepository) error {
			if err := repo.Update(ctx, c); err != nil {
				return err
			}
			return repo.AddAudit(ctx, record)
		})
	})
	if err != nil {
		return err
	}

	return outcome
}

// CompleteDelivery closes out an order's code: archives it with its
// final outcome, appends a COMPLETED audit record and drops it from
// the active set.
//
// A success close-out requires the code to be Verified. A failure
// close-out accepts any other state, including a still-active code on
// a mission that was forced down.
func (m *Manager) CompleteDelivery(ctx context.Context, orderID kernel.UUID, success bool, now time.Time) error {
	err := m.registry.WithCode(orderID, func(c *deliverycode.Code) error {
		var archive deliverycode.ArchiveStatus
		switch {
		case success && c.Status() == deliverycode.Verified:
			archive = deliverycode.ArchiveSuccess
		case success:
			return ErrOutcomeMismatch
		case c.Status() == deliverycode.Verified:
			return ErrOutcomeMismatch
		case c.Status() == deliverycode.Expired:
			archive = deliverycode.ArchiveExpired
		default:
			archive = deliverycode.ArchiveFailed
		}

		return m.persist(ctx, func(repo ports.CodeRepository) error {
			if err := repo.Archive(ctx, c, archive, now); err != nil {
				return err
			}
			return repo.AddAudit(ctx, ports.CodeAuditRecord{
				OrderID: orderID,
				Event:   deliverycode.EventCompleted,
				Detail:  string(archive),
				At:      now,
			})
		})
	})
	if err != nil {
		return err
	}

	m.registry.RemoveCode(orderID)
	m.logger.Info("delivery code archived", "orderId", orderID.String(), "success", success)
	return nil
}

// ArchiveExpired sweeps the active set for codes past their TTL,
// archives each with the EXPIRED outcome and returns the affected
// order IDs so the caller can fail the deliveries they protect.
func (m *Manager) ArchiveExpired(ctx context.Context, now time.Time) ([]kernel.UUID, error) {
	var expired []kernel.UUID
	var firstErr error

	for _, orderID := range m.registry.CodeOrderIDs() {
		var didExpire bool

		err := m.registry.WithCode(orderID, func(c *deliverycode.Code) error {
			if !c.MarkExpired(now) {
				return nil
			}
			didExpire = true

			return m.persist(ctx, func(repo ports.CodeRepository) error {
				if err := repo.Update(ctx, c); err != nil {
					return err
				}
				if err := repo.AddAudit(ctx, ports.CodeAuditRecord{
					OrderID: orderID,
					Event:   deliverycode.EventExpired,
					At:      now,
				}); err != nil {
					return err
				}
				return repo.Archive(ctx, c, deliverycode.ArchiveExpired, now)
			})
		})
		switch {
		case errors.Is(err, fleet.ErrCodeNotFound):
			// Raced with a concurrent close-out; nothing to do.
			continue
		case err != nil:
			if firstErr == nil {
				firstErr = err
			}
			m.logger.Error("expiry sweep failed for order", "orderId", orderID.String(), "error", err)
			continue
		}

		if didExpire {
			m.registry.RemoveCode(orderID)
			expired = append(expired, orderID)
		}
	}

	if len(expired) > 0 {
		m.logger.Info("expired delivery codes archived", "count", len(expired))
	}
	return expired, firstErr
}

// Audit returns the audit trail for an order's code, oldest first.
func (m *Manager) Audit(ctx context.Context, orderID kernel.UUID) ([]ports.CodeAuditRecord, error) {
	if err := orderID.Validate(); err != nil {
		return nil, errs.NewValueIsInvalidErrorWithCause("orderId", err)
	}

	uow := m.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer func() { _ = uow.Rollback(ctx) }()

	records, err := uow.CodeRepository().GetAuditByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := uow.Commit(ctx); err != nil {
		return nil, err
	}
	return records, nil
}

// persist runs fn inside one committed unit of work.
func (m *Manager) persist(ctx context.Context, fn func(ports.CodeRepository) error) error {
	uow := m.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err := fn(uow.CodeRepository()); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
