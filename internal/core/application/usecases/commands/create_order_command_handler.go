package commands

import (
	"context"

	"fleetops/internal/core/domain/model/order"
	"fleetops/internal/core/fleet"
	"fleetops/internal/pkg/clock"
)

// CreateOrderCommandHandler handles the business logic for order creation.
// New orders start in "pending" status awaiting drone assignment.
//
// Example:
//
//	handler := NewCreateOrderCommandHandler(registry, uowFactory, clock.System())
//	cmd, _ := NewCreateOrderCommand(kernel.NewUUID(), "Asha Verma",
//	    "+91-9000000001", "14 Lake Road, Ranchi", destination, 2.5, order.Standard)
//
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("order creation failed: %w", err)
//	}
type CreateOrderCommandHandler struct {
	registry   *fleet.Registry
	uowFactory OrderUoWFactory
	clock      clock.Clock
}

// NewCreateOrderCommandHandler creates a handler for order creation operations.
func NewCreateOrderCommandHandler(
	registry *fleet.Registry,
	uowFactory OrderUoWFactory,
	clk clock.Clock,
) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		registry:   registry,
		uowFactory: uowFactory,
		clock:      clk,
	}
}

// Handle processes the order creation command. The order is mirrored to
// storage first and registered in memory only after the commit, so a
// persistence failure leaves no trace.
func (h *CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	newOrder, err := order.NewOrder(
		cmd.OrderID(),
		cmd.CustomerName(),
		cmd.CustomerPhone(),
		cmd.Address(),
		cmd.Destination(),
		cmd.WeightKg(),
		cmd.Priority(),
		h.clock.Now(),
	)
	if err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.OrderRepository().Add(ctx, newOrder); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	return h.registry.AddOrder(newOrder)
}
