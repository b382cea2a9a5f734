package order

import (
	"fmt"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
)

// DefaultReturnWindow is the period after delivery during which a buyer may
// request a return.
const DefaultReturnWindow = 24 * time.Hour

// ReturnStatus is the state of the reverse-logistics sub-machine. It runs in
// parallel to the order's terminal Delivered status and never changes the
// order status itself.
//
// State transitions:
//
//	Requested ─> Approved ─> AgentAssigned ─> Accepted ─> PickedUp ─> ReturnedToSeller ─> Completed
//	    │            │             ▲              │
//	    │            │             └──────────────┤ (assignment rejected)
//	    ▼            ▼                            ▼
//	 Rejected     Rejected                  PickupFailed
type ReturnStatus int

const (
	// ReturnStatusUnknown represents an invalid or undefined status.
	ReturnStatusUnknown ReturnStatus = iota
	// ReturnRequested means the buyer asked for a return within the window.
	ReturnRequested
	// ReturnApproved means an admin approved the request.
	ReturnApproved
	// ReturnAgentAssigned means a reverse-logistics agent has been assigned.
	ReturnAgentAssigned
	// ReturnAccepted means the assigned agent accepted the job.
	ReturnAccepted
	// ReturnPickedUp means the agent collected the package from the buyer.
	ReturnPickedUp
	// ReturnedToSeller means the package reached the seller.
	ReturnedToSeller
	// ReturnCompleted is the terminal success state of the return.
	ReturnCompleted
	// ReturnRejected is the terminal state for declined requests.
	ReturnRejected
	// ReturnPickupFailed is the terminal state when the buyer was unreachable.
	ReturnPickupFailed
)

func getReturnStatusStrings() map[ReturnStatus]string {
	return map[ReturnStatus]string{
		ReturnStatusUnknown: "unknown",
		ReturnRequested:     "requested",
		ReturnApproved:      "approved",
		ReturnAgentAssigned: "assigned",
		ReturnAccepted:      "accepted",
		ReturnPickedUp:      "picked_up",
		ReturnedToSeller:    "returned_to_seller",
		ReturnCompleted:     "completed",
		ReturnRejected:      "rejected",
		ReturnPickupFailed:  "pickup_failed",
	}
}

func returnStatusTransitions() map[ReturnStatus][]ReturnStatus {
	return map[ReturnStatus][]ReturnStatus{
		ReturnRequested:     {ReturnApproved, ReturnRejected},
		ReturnApproved:      {ReturnAgentAssigned, ReturnRejected},
		ReturnAgentAssigned: {ReturnAccepted, ReturnApproved},
		ReturnAccepted:      {ReturnPickedUp, ReturnPickupFailed},
		ReturnPickedUp:      {ReturnedToSeller},
		ReturnedToSeller:    {ReturnCompleted},
		ReturnCompleted:     {},
		ReturnRejected:      {},
		ReturnPickupFailed:  {},
	}
}

// String returns the lowercase persisted name of the status.
func (s ReturnStatus) String() string {
	if str, ok := getReturnStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// Validate checks if the ReturnStatus value is one of the defined states.
func (s ReturnStatus) Validate() error {
	if s == ReturnStatusUnknown {
		return errs.NewValueIsInvalidErrorWithCause("return status",
			fmt.Errorf("%d is not a valid return status", s))
	}
	if _, ok := getReturnStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("return status",
			fmt.Errorf("%d is not a valid return status", s))
	}
	return nil
}

// CanTransitionTo reports whether the return transition table permits moving
// from s to target.
func (s ReturnStatus) CanTransitionTo(target ReturnStatus) bool {
	for _, allowed := range returnStatusTransitions()[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// TransitionTo returns target after checking the transition table.
func (s ReturnStatus) TransitionTo(target ReturnStatus) (ReturnStatus, error) {
	if !s.CanTransitionTo(target) {
		return ReturnStatusUnknown, errs.NewValueIsInvalidErrorWithCause("return status",
			fmt.Errorf("transition %s -> %s is not allowed", s, target))
	}
	return target, nil
}

// ReturnEligibleAt is the single eligibility predicate for requesting a
// return: within the window measured from the delivery timestamp. Every code
// path that asks about eligibility — the request command, status rendering,
// anything else — must call this function so two paths can never disagree.
func ReturnEligibleAt(deliveredAt time.Time, now time.Time, window time.Duration) bool {
	return now.Sub(deliveredAt) <= window
}

// ReturnDetails is the embedded reverse-logistics record, present once a
// return has been requested. The handoff fields mirror the forward flow:
// agent assignment, pickup from the buyer, and delivery back to the seller,
// each with optional OTP audit references and geolocation.
type ReturnDetails struct {
	status      ReturnStatus
	reason      string
	requestedAt time.Time

	reviewedAt   *time.Time
	reviewNote   string
	agentID      *kernel.UUID
	assignedAt   *time.Time
	respondedAt  *time.Time
	pickedUpAt   *time.Time
	pickupNotes  string
	pickupPoint  *kernel.GeoPoint
	pickupOtpID  *kernel.UUID
	returnedAt   *time.Time
	dropNotes    string
	dropPoint    *kernel.GeoPoint
	dropOtpID    *kernel.UUID
	completedAt  *time.Time
	failureNote  string
}

// newReturnDetails starts the sub-machine in Requested state.
func newReturnDetails(reason string, requestedAt time.Time) *ReturnDetails {
	return &ReturnDetails{
		status:      ReturnRequested,
		reason:      reason,
		requestedAt: requestedAt,
	}
}

// RestoreReturnDetails reconstructs the record from persistence.
func RestoreReturnDetails(
	status ReturnStatus,
	reason string,
	requestedAt time.Time,
	reviewedAt *time.Time,
	reviewNote string,
	agentID *kernel.UUID,
	assignedAt *time.Time,
	respondedAt *time.Time,
	pickedUpAt *time.Time,
	pickupNotes string,
	pickupPoint *kernel.GeoPoint,
	pickupOtpID *kernel.UUID,
	returnedAt *time.Time,
	dropNotes string,
	dropPoint *kernel.GeoPoint,
	dropOtpID *kernel.UUID,
	completedAt *time.Time,
	failureNote string,
) (*ReturnDetails, error) {
	if err := status.Validate(); err != nil {
		return nil, err
	}

	return &ReturnDetails{
		status:      status,
		reason:      reason,
		requestedAt: requestedAt,
		reviewedAt:  reviewedAt,
		reviewNote:  reviewNote,
		agentID:     agentID,
		assignedAt:  assignedAt,
		respondedAt: respondedAt,
		pickedUpAt:  pickedUpAt,
		pickupNotes: pickupNotes,
		pickupPoint: pickupPoint,
		pickupOtpID: pickupOtpID,
		returnedAt:  returnedAt,
		dropNotes:   dropNotes,
		dropPoint:   dropPoint,
		dropOtpID:   dropOtpID,
		completedAt: completedAt,
		failureNote: failureNote,
	}, nil
}

// Status returns the sub-machine state.
func (r *ReturnDetails) Status() ReturnStatus { return r.status }

// Reason returns the buyer's stated reason for the return.
func (r *ReturnDetails) Reason() string { return r.reason }

// RequestedAt returns when the return was requested.
func (r *ReturnDetails) RequestedAt() time.Time { return r.requestedAt }

// ReviewedAt returns when an admin reviewed the request.
func (r *ReturnDetails) ReviewedAt() *time.Time { return r.reviewedAt }

// ReviewNote returns the admin's approval or rejection note.
func (r *ReturnDetails) ReviewNote() string { return r.reviewNote }

// AgentID returns the reverse-logistics agent, or nil when unassigned.
func (r *ReturnDetails) AgentID() *kernel.UUID { return r.agentID }

// AssignedAt returns the agent assignment timestamp.
func (r *ReturnDetails) AssignedAt() *time.Time { return r.assignedAt }

// RespondedAt returns the agent's response timestamp.
func (r *ReturnDetails) RespondedAt() *time.Time { return r.respondedAt }

// PickedUpAt returns when the package was collected from the buyer.
func (r *ReturnDetails) PickedUpAt() *time.Time { return r.pickedUpAt }

// PickupNotes returns the agent's notes from the buyer pickup.
func (r *ReturnDetails) PickupNotes() string { return r.pickupNotes }

// PickupPoint returns the geolocation recorded at the buyer pickup.
func (r *ReturnDetails) PickupPoint() *kernel.GeoPoint { return r.pickupPoint }

// PickupOtpID references the OTP audit record for the buyer pickup, if used.
func (r *ReturnDetails) PickupOtpID() *kernel.UUID { return r.pickupOtpID }

// ReturnedAt returns when the package reached the seller.
func (r *ReturnDetails) ReturnedAt() *time.Time { return r.returnedAt }

// DropNotes returns the agent's notes from the seller drop-off.
func (r *ReturnDetails) DropNotes() string { return r.dropNotes }

// DropPoint returns the geolocation recorded at the seller drop-off.
func (r *ReturnDetails) DropPoint() *kernel.GeoPoint { return r.dropPoint }

// DropOtpID references the OTP audit record for the seller drop-off, if used.
func (r *ReturnDetails) DropOtpID() *kernel.UUID { return r.dropOtpID }

// CompletedAt returns when the return was closed.
func (r *ReturnDetails) CompletedAt() *time.Time { return r.completedAt }

// FailureNote returns the agent's note for a failed buyer pickup.
func (r *ReturnDetails) FailureNote() string { return r.failureNote }

// isAssignedTo reports whether agentID is the current reverse-logistics agent.
func (r *ReturnDetails) isAssignedTo(agentID kernel.UUID) bool {
	return r.agentID != nil && r.agentID.IsEqual(agentID)
}
