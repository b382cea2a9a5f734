package agent

import (
	"errors"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

// Domain errors for delivery agent operations.
var (
	// ErrNameIsRequired is returned when attempting to create an agent without a name.
	ErrNameIsRequired = errs.NewValueIsRequiredError("name")
	// ErrAgentIsNotConstructed is returned when using an improperly initialized DeliveryAgent.
	ErrAgentIsNotConstructed = errors.New("DeliveryAgent must be created via NewDeliveryAgent constructor")
	// ErrAgentNotAvailable is returned when dispatching to an agent that is
	// offline or already carrying an order.
	ErrAgentNotAvailable = errs.NewBusinessError(errs.CodeAgentNotAvailable,
		"delivery agent is not available for assignment")
	// ErrNoActiveOrder is returned when releasing an agent with nothing in hand.
	ErrNoActiveOrder = errors.New("agent has no active order to release")
)

// VehicleType is the agent's mode of transport. It is informational only;
// dispatch does not discriminate by vehicle.
type VehicleType string

const (
	VehicleBicycle    VehicleType = "bicycle"
	VehicleMotorcycle VehicleType = "motorcycle"
	VehicleCar        VehicleType = "car"
	VehicleVan        VehicleType = "van"
)

// DeliveryAgent is an aggregate root managing one agent's dispatch state.
//
// Business rules:
//   - an agent carries at most one forward order at a time
//   - dispatch requires the agent to be available with empty hands
//   - completion counters only grow; they feed dispatch ranking
//
// Availability is self-reported (the agent toggles it from their app);
// carrying an order does not flip the flag, the dispatcher checks both.
type DeliveryAgent struct {
	// id uniquely identifies the agent
	id kernel.UUID
	// name is the human-readable name of the agent
	name string
	// phone is the agent's normalized contact number
	phone kernel.Phone
	// vehicle is the agent's declared mode of transport
	vehicle VehicleType
	// isAvailable is the self-reported on-duty flag
	isAvailable bool
	// currentOrderID is the forward order in hand, nil when free
	currentOrderID *kernel.UUID
	// lastLocation is the most recent position report, nil until first report
	lastLocation *kernel.GeoPoint
	// completedPickups counts pickups verified by this agent
	completedPickups int
	// completedDeliveries counts deliveries completed by this agent
	completedDeliveries int
	// version is the optimistic concurrency stamp
	version int
	// guard ensures the agent was properly constructed
	guard guard.ConstructorGuard
}

// NewDeliveryAgent creates a new DeliveryAgent. Fresh agents start
// unavailable with empty hands; they go on duty explicitly.
//
// Parameters:
//   - id: unique identifier (must be a valid UUID)
//   - name: human-readable name (must be non-empty)
//   - phone: normalized contact number
//   - vehicle: declared mode of transport
func NewDeliveryAgent(id kernel.UUID, name string, phone kernel.Phone, vehicle VehicleType) (*DeliveryAgent, error) {
	agent := &DeliveryAgent{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		agent.setID(id),
		agent.setName(name),
		agent.setPhone(phone),
		agent.setVehicle(vehicle),
	); err != nil {
		return nil, err
	}

	return agent, nil
}

// RestoreDeliveryAgent reconstructs a DeliveryAgent from persistent storage,
// including its dispatch state and counters.
func RestoreDeliveryAgent(
	id kernel.UUID,
	name string,
	phone kernel.Phone,
	vehicle VehicleType,
	isAvailable bool,
	currentOrderID *kernel.UUID,
	lastLocation *kernel.GeoPoint,
	completedPickups int,
	completedDeliveries int,
	version int,
) (*DeliveryAgent, error) {
	agent := &DeliveryAgent{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		agent.setID(id),
		agent.setName(name),
		agent.setPhone(phone),
		agent.setVehicle(vehicle),
	); err != nil {
		return nil, err
	}

	agent.isAvailable = isAvailable
	agent.currentOrderID = currentOrderID
	agent.lastLocation = lastLocation
	agent.completedPickups = completedPickups
	agent.completedDeliveries = completedDeliveries
	agent.version = version
	return agent, nil
}

// IsEqual compares two agents by their unique identifiers.
func (a *DeliveryAgent) IsEqual(other *DeliveryAgent) bool {
	if other == nil {
		return false
	}
	return a.id.IsEqual(other.id)
}

// Validate checks if the DeliveryAgent was properly constructed.
// The zero value is invalid and fails this validation.
func (a *DeliveryAgent) Validate() error {
	if a == nil {
		return ErrAgentIsNotConstructed
	}
	return a.guard.Validate(ErrAgentIsNotConstructed)
}

// ID returns the unique identifier of the agent.
func (a *DeliveryAgent) ID() kernel.UUID {
	return a.id
}

// Name returns the human-readable name of the agent.
func (a *DeliveryAgent) Name() string {
	return a.name
}

// Phone returns the agent's normalized contact number.
func (a *DeliveryAgent) Phone() kernel.Phone {
	return a.phone
}

// Vehicle returns the agent's declared mode of transport.
func (a *DeliveryAgent) Vehicle() VehicleType {
	return a.vehicle
}

// IsAvailable reports whether the agent is on duty.
func (a *DeliveryAgent) IsAvailable() bool {
	return a.isAvailable
}

// CurrentOrderID returns the order in hand, or nil when the agent is free.
func (a *DeliveryAgent) CurrentOrderID() *kernel.UUID {
	return a.currentOrderID
}

// LastLocation returns the most recent position report, or nil.
func (a *DeliveryAgent) LastLocation() *kernel.GeoPoint {
	return a.lastLocation
}

// CompletedPickups returns the lifetime pickup counter.
func (a *DeliveryAgent) CompletedPickups() int {
	return a.completedPickups
}

// CompletedDeliveries returns the lifetime delivery counter.
func (a *DeliveryAgent) CompletedDeliveries() int {
	return a.completedDeliveries
}

// Version returns the optimistic concurrency stamp.
func (a *DeliveryAgent) Version() int {
	return a.version
}

// GoOnDuty marks the agent available for dispatch.
func (a *DeliveryAgent) GoOnDuty() {
	a.isAvailable = true
}

// GoOffDuty marks the agent unavailable. An order already in hand stays with
// the agent; going off duty only stops new dispatches.
func (a *DeliveryAgent) GoOffDuty() {
	a.isAvailable = false
}

// CanTakeOrder reports whether the dispatcher may hand this agent an order:
// on duty and nothing currently in hand.
func (a *DeliveryAgent) CanTakeOrder() bool {
	return a.isAvailable && a.currentOrderID == nil
}

// TakeOrder commits an order to the agent. Use CanTakeOrder first for
// dispatch candidate selection; this method re-checks and fails closed.
func (a *DeliveryAgent) TakeOrder(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	if !a.CanTakeOrder() {
		return ErrAgentNotAvailable
	}

	a.currentOrderID = &orderID
	return nil
}

// ReleaseOrder frees the agent's hands without crediting a completion. Used
// when the agent rejects an assignment or the order is cancelled mid-flight.
func (a *DeliveryAgent) ReleaseOrder() error {
	if a.currentOrderID == nil {
		return ErrNoActiveOrder
	}

	a.currentOrderID = nil
	return nil
}

// RecordPickup credits a verified pickup. The order stays in hand; pickup is
// the midpoint of the trip, not the end.
func (a *DeliveryAgent) RecordPickup() {
	a.completedPickups++
}

// RecordDelivery credits a completed delivery and frees the agent's hands.
func (a *DeliveryAgent) RecordDelivery() error {
	if a.currentOrderID == nil {
		return ErrNoActiveOrder
	}

	a.completedDeliveries++
	a.currentOrderID = nil
	return nil
}

// ReportLocation stores the agent's latest position.
func (a *DeliveryAgent) ReportLocation(point kernel.GeoPoint) error {
	if err := point.Validate(); err != nil {
		return err
	}

	a.lastLocation = &point
	return nil
}

// setID sets the agent's unique identifier with validation.
func (a *DeliveryAgent) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	a.id = id
	return nil
}

// setName sets the agent's name with validation.
func (a *DeliveryAgent) setName(name string) error {
	if name == "" {
		return ErrNameIsRequired
	}

	a.name = name
	return nil
}

// setPhone sets the agent's contact number with validation.
func (a *DeliveryAgent) setPhone(phone kernel.Phone) error {
	if err := phone.Validate(); err != nil {
		return err
	}

	a.phone = phone
	return nil
}

// setVehicle sets the agent's vehicle with validation.
func (a *DeliveryAgent) setVehicle(vehicle VehicleType) error {
	switch vehicle {
	case VehicleBicycle, VehicleMotorcycle, VehicleCar, VehicleVan:
		a.vehicle = vehicle
		return nil
	default:
		return errs.NewValueIsInvalidError("vehicle")
	}
}
