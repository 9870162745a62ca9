package commands

import (
	"context"
	"time"

	"fleetops/internal/core/domain/model/deliverycode"
	"fleetops/internal/core/domain/model/kernel"
)

// CodeService is the slice of the delivery-code manager the command
// handlers depend on. Satisfied by codes.Manager.
type CodeService interface {
	Generate(ctx context.Context, orderID kernel.UUID, now time.Time) (*deliverycode.Code, error)
	Verify(ctx context.Context, orderID kernel.UUID, candidate string, now time.Time) error
	CompleteDelivery(ctx context.Context, orderID kernel.UUID, success bool, now time.Time) error
}
