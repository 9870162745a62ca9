package fleet

import (
	"errors"
	"sync"

	"github.com/google/uuid"

	"fleetops/internal/core/domain/model/deliverycode"
	"fleetops/internal/core/domain/model/drone"
	"fleetops/internal/core/domain/model/kernel"
	"fleetops/internal/core/domain/model/mission"
	"fleetops/internal/core/domain/model/order"
)

// Registry errors.
var (
	// ErrOrderNotFound is returned when an order ID is not registered.
	ErrOrderNotFound = errors.New("order not found in registry")
	// ErrDroneNotFound is returned when a drone ID is not registered.
	ErrDroneNotFound = errors.New("drone not found in registry")
	// ErrMissionNotFound is returned when a mission ID is not registered.
	ErrMissionNotFound = errors.New("mission not found in registry")
	// ErrCodeNotFound is returned when no code is registered for an order.
	ErrCodeNotFound = errors.New("delivery code not found in registry")
	// ErrAlreadyRegistered is returned when adding a duplicate entity.
	ErrAlreadyRegistered = errors.New("entity already registered")
	// ErrCodeValueTaken is returned when another order's active code
	// already carries the same value.
	ErrCodeValueTaken = errors.New("delivery code value already active")
)

type orderEntry struct {
	mu  sync.Mutex
	agg *order.Order
}

type droneEntry struct {
	mu  sync.Mutex
	agg *drone.Drone
}

type missionEntry struct {
	mu  sync.Mutex
	agg *mission.Mission
}

type codeEntry struct {
	mu  sync.Mutex
	agg *deliverycode.Code
}

// Registry is the authoritative in-memory state of the fleet: orders,
// drones, live missions and active delivery codes.
//
// Locking model:
//   - The registry mutex guards only the entity tables and indexes.
//     It is never held while an entity is being mutated.
//   - Each entity entry has its own mutex. All reads and writes of an
//     aggregate go through WithX closures that hold that mutex.
//   - Multi-entity closures acquire locks in a fixed global order:
//     order, then drone, then mission, then code. Deadlock is
//     impossible as long as every caller goes through the registry.
//
// Closures must not perform I/O while holding entity locks; mirror
// writes happen after release. Keep them short.
type Registry struct {
	mu       sync.RWMutex
	orders   map[uuid.UUID]*orderEntry
	drones   map[uuid.UUID]*droneEntry
	missions map[uuid.UUID]*missionEntry
	// codes is keyed by order ID: one active code per order.
	codes map[uuid.UUID]*codeEntry
	// droneNames maps call signs to drone IDs for uniqueness and lookup.
	droneNames map[string]uuid.UUID
	// codeValues holds the values of all active codes so a fresh code
	// can never collide with one a customer may still present.
	codeValues map[string]uuid.UUID
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		orders:     make(map[uuid.UUID]*orderEntry),
		drones:     make(map[uuid.UUID]*droneEntry),
		missions:   make(map[uuid.UUID]*missionEntry),
		codes:      make(map[uuid.UUID]*codeEntry),
		droneNames: make(map[string]uuid.UUID),
		codeValues: make(map[string]uuid.UUID),
	}
}

// AddOrder registers an order. Fails if the ID is already present.
func (r *Registry) AddOrder(o *order.Order) error {
	if err := o.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	key := o.ID().Bytes()
	if _, exists := r.orders[key]; exists {
		return ErrAlreadyRegistered
	}
	r.orders[key] = &orderEntry{agg: o}
	return nil
}

// AddDrone registers a drone. Fails if the ID or the call sign is
// already present.
func (r *Registry) AddDrone(d *drone.Drone) error {
	if err := d.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	key := d.ID().Bytes()
	if _, exists := r.drones[key]; exists {
		return ErrAlreadyRegistered
	}
	if _, exists := r.droneNames[d.Name()]; exists {
		return ErrAlreadyRegistered
	}
	r.drones[key] = &droneEntry{agg: d}
	r.droneNames[d.Name()] = key
	return nil
}

// AddMission registers a live mission.
func (r *Registry) AddMission(m *mission.Mission) error {
	if err := m.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	key := m.ID().Bytes()
	if _, exists := r.missions[key]; exists {
		return ErrAlreadyRegistered
	}
	r.missions[key] = &missionEntry{agg: m}
	return nil
}

// AddCode registers the active code for an order. Fails if the order
// already has one, or with ErrCodeValueTaken if another active code
// carries the same value.
func (r *Registry) AddCode(c *deliverycode.Code) error {
	if err := c.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	key := c.Order().Bytes()
	if _, exists := r.codes[key]; exists {
		return ErrAlreadyRegistered
	}
	if _, exists := r.codeValues[c.Value()]; exists {
		return ErrCodeValueTaken
	}
	r.codes[key] = &codeEntry{agg: c}
	r.codeValues[c.Value()] = key
	return nil
}

// RemoveCode drops the active code for an order, typically after it
// has been archived.
func (r *Registry) RemoveCode(orderID kernel.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := orderID.Bytes()
	if e, exists := r.codes[key]; exists {
		delete(r.codeValues, e.agg.Value())
	}
	delete(r.codes, key)
}

// RemoveMission drops a finished mission from the live table.
func (r *Registry) RemoveMission(missionID kernel.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.missions, missionID.Bytes())
}

func (r *Registry) orderEntry(id kernel.UUID) (*orderEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.orders[id.Bytes()]
	if !ok {
		return nil, ErrOrderNotFound
	}
	return e, nil
}

func (r *Registry) droneEntry(id kernel.UUID) (*droneEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.drones[id.Bytes()]
	if !ok {
		return nil, ErrDroneNotFound
	}
	return e, nil
}

func (r *Registry) missionEntry(id kernel.UUID) (*missionEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.missions[id.Bytes()]
	if !ok {
		return nil, ErrMissionNotFound
	}
	return e, nil
}

func (r *Registry) codeEntry(orderID kernel.UUID) (*codeEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.codes[orderID.Bytes()]
	if !ok {
		return nil, ErrCodeNotFound
	}
	return e, nil
}

// WithOrder runs fn with exclusive access to the order.
func (r *Registry) WithOrder(id kernel.UUID, fn func(*order.Order) error) error {
	e, err := r.orderEntry(id)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(e.agg)
}

// WithDrone runs fn with exclusive access to the drone.
func (r *Registry) WithDrone(id kernel.UUID, fn func(*drone.Drone) error) error {
	e, err := r.droneEntry(id)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(e.agg)
}

// WithMission runs fn with exclusive access to the mission.
func (r *Registry) WithMission(id kernel.UUID, fn func(*mission.Mission) error) error {
	e, err := r.missionEntry(id)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(e.agg)
}

// WithCode runs fn with exclusive access to the order's active code.
func (r *Registry) WithCode(orderID kernel.UUID, fn func(*deliverycode.Code) error) error {
	e, err := r.codeEntry(orderID)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(e.agg)
}

// WithOrderAndDrone runs fn holding both entity locks, acquired in the
// global order (order first).
func (r *Registry) WithOrderAndDrone(
	orderID kernel.UUID,
	droneID kernel.UUID,
	fn func(*order.Order, *drone.Drone) error,
) error {
	oe, err := r.orderEntry(orderID)
	if err != nil {
		return err
	}
	de, err := r.droneEntry(droneID)
	if err != nil {
		return err
	}

	oe.mu.Lock()
	defer oe.mu.Unlock()
	de.mu.Lock()
	defer de.mu.Unlock()
	return fn(oe.agg, de.agg)
}

// WithDelivery runs fn holding the order, drone and mission locks,
// acquired in the global order.
func (r *Registry) WithDelivery(
	orderID kernel.UUID,
	droneID kernel.UUID,
	missionID kernel.UUID,
	fn func(*order.Order, *drone.Drone, *mission.Mission) error,
) error {
	oe, err := r.orderEntry(orderID)
	if err != nil {
		return err
	}
	de, err := r.droneEntry(droneID)
	if err != nil {
		return err
	}
	me, err := r.missionEntry(missionID)
	if err != nil {
		return err
	}

	oe.mu.Lock()
	defer oe.mu.Unlock()
	de.mu.Lock()
	defer de.mu.Unlock()
	me.mu.Lock()
	defer me.mu.Unlock()
	return fn(oe.agg, de.agg, me.agg)
}

// Drones returns the registered drone aggregates. The pointers are
// live; callers must only read obviously-stable fields (ID) or
// re-check state under a WithDrone lock before acting on it.
func (r *Registry) Drones() []*drone.Drone {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*drone.Drone, 0, len(r.drones))
	for _, e := range r.drones {
		out = append(out, e.agg)
	}
	return out
}

// DroneIDs returns the IDs of every registered drone.
func (r *Registry) DroneIDs() []kernel.UUID {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]kernel.UUID, 0, len(r.drones))
	for _, e := range r.drones {
		out = append(out, e.agg.ID())
	}
	return out
}

// DroneIDByName resolves a call sign to a drone ID.
func (r *Registry) DroneIDByName(name string) (kernel.UUID, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	key, ok := r.droneNames[name]
	if !ok {
		return kernel.UUID{}, false
	}
	return r.drones[key].agg.ID(), true
}

// MissionIDs returns the IDs of every live mission in the registry.
func (r *Registry) MissionIDs() []kernel.UUID {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]kernel.UUID, 0, len(r.missions))
	for _, e := range r.missions {
		out = append(out, e.agg.ID())
	}
	return out
}

// CodeOrderIDs returns the order IDs that currently hold an active
// code entry. Used by the expiry sweep.
func (r *Registry) CodeOrderIDs() []kernel.UUID {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]kernel.UUID, 0, len(r.codes))
	for _, e := range r.codes {
		out = append(out, e.agg.Order())
	}
	return out
}

// Counts returns the number of registered orders, drones, missions and
// active codes.
func (r *Registry) Counts() (orders, drones, missions, codes int) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.orders), len(r.drones), len(r.missions), len(r.codes)
}
