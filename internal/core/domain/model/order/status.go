package order

import (
	"fmt"

	"marketplace/internal/pkg/errs"
)

// Status represents the lifecycle state of an order. It implements a state
// machine with defined transitions to ensure orders follow the fulfilment
// workflow and never move backwards.
//
// State transitions:
//
//	Created ─> Confirmed ─> Processing ─> PickupReady ─> Assigned ─> Accepted ─> OutForDelivery ─> Delivered
//	                                          ▲              │
//	                                          └──────────────┘
//	                                        (assignment rejected)
//
// Cancelled is reachable from every status before OutForDelivery. Delivered
// and Cancelled are terminal for the forward flow; a return sub-machine
// (ReturnStatus) is reachable only from Delivered.
type Status int

const (
	// StatusUnknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	StatusUnknown Status = iota

	// Created is the initial status when the buyer places the order.
	Created

	// Confirmed means the seller has acknowledged the order.
	Confirmed

	// Processing means the seller is preparing the items.
	Processing

	// PickupReady means the package is packed and waiting for an agent.
	PickupReady

	// Assigned means an agent has been assigned and has not yet responded.
	Assigned

	// Accepted means the assigned agent accepted the job.
	Accepted

	// OutForDelivery means the agent completed pickup and is en route to the buyer.
	OutForDelivery

	// Delivered is the terminal success state.
	Delivered

	// Cancelled is the terminal state for orders abandoned before dispatch.
	Cancelled
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		StatusUnknown:  "Unknown",
		Created:        "Created",
		Confirmed:      "Confirmed",
		Processing:     "Processing",
		PickupReady:    "Pickup_Ready",
		Assigned:       "Assigned",
		Accepted:       "Accepted",
		OutForDelivery: "Out_for_Delivery",
		Delivered:      "Delivered",
		Cancelled:      "Cancelled",
	}
}

// statusTransitions is the exhaustive forward-transition table. A transition
// absent from this table is invalid; there is no other path through the graph.
func statusTransitions() map[Status][]Status {
	return map[Status][]Status{
		Created:     {Confirmed, Cancelled},
		Confirmed:   {Processing, Cancelled},
		Processing:  {PickupReady, Cancelled},
		PickupReady: {Assigned, Cancelled},
		Assigned:    {Accepted, PickupReady, OutForDelivery, Cancelled},
		Accepted:    {OutForDelivery, Cancelled},
		// OutForDelivery orders can no longer be cancelled; the package is
		// physically with the agent.
		OutForDelivery: {Delivered},
		Delivered:      {},
		Cancelled:      {},
	}
}

// String returns the persisted name of the status, matching the wire format
// used by clients ("Out_for_Delivery", "Pickup_Ready", ...).
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// Validate checks if the Status value is one of the defined lifecycle states.
func (s Status) Validate() error {
	if s == StatusUnknown {
		return errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%d is not a valid status", s))
	}
	if _, ok := getStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// CanTransitionTo reports whether the forward-transition table permits moving
// from s to target.
func (s Status) CanTransitionTo(target Status) bool {
	for _, allowed := range statusTransitions()[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// TransitionTo returns target after checking the transition table.
func (s Status) TransitionTo(target Status) (Status, error) {
	if !s.CanTransitionTo(target) {
		return StatusUnknown, errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("transition %s -> %s is not allowed", s, target))
	}
	return target, nil
}

// IsTerminal reports whether the forward flow permits no further transitions.
func (s Status) IsTerminal() bool {
	return s == Delivered || s == Cancelled
}

// AllowsCancellation reports whether the order may still be cancelled. Only
// statuses preceding OutForDelivery qualify.
func (s Status) AllowsCancellation() bool {
	return s.CanTransitionTo(Cancelled)
}

// AllowsPickup reports whether pickup completion is permitted. Pickup may be
// completed once the order is with an agent, whether or not the agent has
// explicitly accepted.
func (s Status) AllowsPickup() bool {
	return s == Assigned || s == Accepted
}
