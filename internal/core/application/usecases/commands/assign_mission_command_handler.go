package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"fleetops/internal/core/domain/model/drone"
	"fleetops/internal/core/domain/model/kernel"
	"fleetops/internal/core/domain/model/mission"
	"fleetops/internal/core/domain/model/order"
	"fleetops/internal/core/domain/services"
	"fleetops/internal/core/fleet"
	"fleetops/internal/core/ports"
	"fleetops/internal/pkg/clock"
)

var (
	// ErrOrderNotAssignable is returned when the order is not pending,
	// either because it was already assigned or because it is terminal.
	ErrOrderNotAssignable = errors.New("order is not awaiting assignment")
	// ErrNoDroneAvailable is returned when no idle, charged drone can
	// carry the order.
	ErrNoDroneAvailable = errors.New("no drone can take the order")

	errDroneBusy = errors.New("selected drone was taken")
)

// How many times the handler re-runs selection when a concurrent
// assignment steals the chosen drone.
const maxAssignAttempts = 3

// WeatherUnsafeError reports an assignment refused by the weather gate.
// Reasons list every limit the current reading violates.
type WeatherUnsafeError struct {
	Reasons []string
}

func (e *WeatherUnsafeError) Error() string {
	return fmt.Sprintf("weather unsafe for flight: %s", strings.Join(e.Reasons, "; "))
}

// AssignMissionResult reports a successful assignment back to the caller.
// Code is the delivery code the customer must present on completion.
type AssignMissionResult struct {
	MissionID kernel.UUID
	DroneID   kernel.UUID
	DroneName string
	Code      string
}

// AssignMissionCommandHandler matches pending orders with drones.
//
// The flow is: check the order is pending, fetch and gate the weather at
// the drop-off point, pick the nearest capable drone (or take the one
// the caller requested), then reserve the pair atomically under the
// order and drone locks. Availability is
// re-checked under the locks, so two concurrent assignments can never
// reserve the same drone. The weather lookup happens before any lock is
// taken and mirror writes happen after release.
type AssignMissionCommandHandler struct {
	registry   *fleet.Registry
	dispatcher services.DroneDispatcher
	gate       services.WeatherGate
	weather    ports.WeatherSource
	codes      CodeService
	uowFactory DeliveryUoWFactory
	clock      clock.Clock
}

// NewAssignMissionCommandHandler creates a handler for mission assignment.
func NewAssignMissionCommandHandler(
	registry *fleet.Registry,
	dispatcher services.DroneDispatcher,
	gate services.WeatherGate,
	weather ports.WeatherSource,
	codes CodeService,
	uowFactory DeliveryUoWFactory,
	clk clock.Clock,
) AssignMissionCommandHandler {
	return AssignMissionCommandHandler{
		registry:   registry,
		dispatcher: dispatcher,
		gate:       gate,
		weather:    weather,
		codes:      codes,
		uowFactory: uowFactory,
		clock:      clk,
	}
}

// Handle processes the assignment command. On success the order is
// assigned, the drone holds a live mission and a fresh delivery code is
// active for the order.
func (h *AssignMissionCommandHandler) Handle(
	ctx context.Context,
	cmd AssignMissionCommand,
) (AssignMissionResult, error) {
	if err := cmd.Validate(); err != nil {
		return AssignMissionResult{}, err
	}

	destination, err := h.pendingDestination(cmd.OrderID())
	if err != nil {
		return AssignMissionResult{}, err
	}

	reading, err := h.weather.Current(ctx, destination)
	if err != nil {
		return AssignMissionResult{}, err
	}
	safe, reasons, err := h.gate.Evaluate(reading)
	if err != nil {
		return AssignMissionResult{}, err
	}
	if !safe {
		return AssignMissionResult{}, &WeatherUnsafeError{Reasons: reasons}
	}

	now := h.clock.Now()

	var (
		newMission *mission.Mission
		droneName  string
	)
	if requested := cmd.DroneID(); requested != nil {
		// The caller named a drone; its availability is checked under
		// the same locks a dispatched reservation uses. There is no
		// other candidate to fall back to, so a busy drone is a refusal.
		newMission, droneName, err = h.reserve(cmd.OrderID(), *requested, now)
		if errors.Is(err, errDroneBusy) {
			return AssignMissionResult{}, ErrNoDroneAvailable
		}
		if err != nil {
			return AssignMissionResult{}, err
		}
	} else {
		for attempt := 0; attempt < maxAssignAttempts; attempt++ {
			candidate, dispatchErr := h.selectDrone(cmd.OrderID())
			if dispatchErr != nil {
				return AssignMissionResult{}, dispatchErr
			}

			newMission, droneName, err = h.reserve(cmd.OrderID(), candidate, now)
			if errors.Is(err, errDroneBusy) {
				continue
			}
			if err != nil {
				return AssignMissionResult{}, err
			}
			break
		}
	}
	if newMission == nil {
		return AssignMissionResult{}, ErrNoDroneAvailable
	}

	if err = h.registry.AddMission(newMission); err != nil {
		return AssignMissionResult{}, err
	}

	code, err := h.codes.Generate(ctx, cmd.OrderID(), now)
	if err != nil {
		return AssignMissionResult{}, err
	}

	if err = h.persist(ctx, cmd.OrderID(), newMission); err != nil {
		return AssignMissionResult{}, err
	}

	return AssignMissionResult{
		MissionID: newMission.ID(),
		DroneID:   newMission.Drone(),
		DroneName: droneName,
		Code:      code.Value(),
	}, nil
}

// pendingDestination checks the order is awaiting assignment and returns
// its drop-off point for the weather lookup.
func (h *AssignMissionCommandHandler) pendingDestination(orderID kernel.UUID) (kernel.GeoPoint, error) {
	var destination kernel.GeoPoint
	err := h.registry.WithOrder(orderID, func(o *order.Order) error {
		if o.Status() != order.Pending {
			return ErrOrderNotAssignable
		}
		destination = o.Destination()
		return nil
	})
	return destination, err
}

// selectDrone runs the dispatcher over the current fleet snapshot.
func (h *AssignMissionCommandHandler) selectDrone(orderID kernel.UUID) (kernel.UUID, error) {
	candidates := h.registry.Drones()

	var selected kernel.UUID
	err := h.registry.WithOrder(orderID, func(o *order.Order) error {
		if o.Status() != order.Pending {
			return ErrOrderNotAssignable
		}
		best, dispatchErr := h.dispatcher.Dispatch(o, candidates)
		if dispatchErr != nil {
			return dispatchErr
		}
		selected = best.ID()
		return nil
	})
	if errors.Is(err, services.ErrDroneNotFound) {
		return kernel.UUID{}, ErrNoDroneAvailable
	}
	return selected, err
}

// reserve atomically binds the order to the drone and starts a mission.
// The drone snapshot used for selection is stale by definition, so
// availability and capacity are re-checked under the locks; a lost race
// surfaces as errDroneBusy and the caller reselects.
func (h *AssignMissionCommandHandler) reserve(
	orderID kernel.UUID,
	droneID kernel.UUID,
	now time.Time,
) (*mission.Mission, string, error) {
	var (
		newMission *mission.Mission
		droneName  string
	)
	err := h.registry.WithOrderAndDrone(orderID, droneID, func(o *order.Order, d *drone.Drone) error {
		if o.Status() != order.Pending {
			return ErrOrderNotAssignable
		}
		if !d.IsAvailable() || !d.CanCarry(o.WeightKg()) {
			return errDroneBusy
		}

		distanceKm, distErr := d.Position().DistanceKm(o.Destination())
		if distErr != nil {
			return distErr
		}

		missionID := kernel.NewUUID()
		m, missionErr := mission.NewMission(missionID, o.ID(), d.ID(), distanceKm, now)
		if missionErr != nil {
			return missionErr
		}

		if assignErr := d.Assign(missionID, o.WeightKg(), now); assignErr != nil {
			return assignErr
		}
		if assignErr := o.Assign(d.ID(), now); assignErr != nil {
			return assignErr
		}

		newMission = m
		droneName = d.Name()
		return nil
	})
	if err != nil {
		return nil, "", err
	}
	return newMission, droneName, nil
}

// persist mirrors the three mutated aggregates in one transaction.
func (h *AssignMissionCommandHandler) persist(
	ctx context.Context,
	orderID kernel.UUID,
	newMission *mission.Mission,
) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	err := h.registry.WithOrder(orderID, func(o *order.Order) error {
		return uow.OrderRepository().Update(ctx, o)
	})
	if err != nil {
		return err
	}

	err = h.registry.WithDrone(newMission.Drone(), func(d *drone.Drone) error {
		return uow.DroneRepository().Update(ctx, d)
	})
	if err != nil {
		return err
	}

	if err = uow.MissionRepository().Add(ctx, newMission); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
