package order

import (
	"fmt"
	"strings"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/payout"
	"marketplace/internal/pkg/errs"
)

// PaymentStatus is the state of the buyer's payment for the order.
type PaymentStatus int

const (
	// PaymentUnknown represents an invalid or undefined status.
	PaymentUnknown PaymentStatus = iota
	// PaymentPending means the buyer has not paid yet.
	PaymentPending
	// PaymentCompleted means the payment gateway confirmed the charge.
	PaymentCompleted
	// PaymentFailed means the charge failed or was refunded.
	PaymentFailed
)

func getPaymentStatusStrings() map[PaymentStatus]string {
	return map[PaymentStatus]string{
		PaymentUnknown:   "unknown",
		PaymentPending:   "pending",
		PaymentCompleted: "completed",
		PaymentFailed:    "failed",
	}
}

// String returns the lowercase persisted name of the status.
func (s PaymentStatus) String() string {
	if str, ok := getPaymentStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// Validate checks that the status is one of the three valid states.
func (s PaymentStatus) Validate() error {
	switch s {
	case PaymentPending, PaymentCompleted, PaymentFailed:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("payment status",
			fmt.Errorf("%d is not a valid payment status", s))
	}
}

// Item is one ordered line: a product name, quantity, and unit price.
type Item struct {
	Name      string
	Quantity  int
	UnitPrice kernel.Money
}

// Validate checks the line's fields.
func (i Item) Validate() error {
	if strings.TrimSpace(i.Name) == "" {
		return errs.NewValueIsRequiredError("item name")
	}
	if i.Quantity <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("item quantity",
			fmt.Errorf("%d is not greater than 0", i.Quantity))
	}
	return nil
}

// AssignmentStatus is the assigned agent's response state.
type AssignmentStatus int

const (
	// AssignmentNone means no agent is currently assigned.
	AssignmentNone AssignmentStatus = iota
	// AssignmentPending means the agent has been assigned and not yet responded.
	AssignmentPending
	// AssignmentAccepted means the agent accepted the job.
	AssignmentAccepted
)

func getAssignmentStatusStrings() map[AssignmentStatus]string {
	return map[AssignmentStatus]string{
		AssignmentNone:     "none",
		AssignmentPending:  "pending",
		AssignmentAccepted: "accepted",
	}
}

// String returns the lowercase persisted name of the status.
func (s AssignmentStatus) String() string {
	if str, ok := getAssignmentStatusStrings()[s]; ok {
		return str
	}
	return "none"
}

// Assignment is the embedded agent-assignment record. A rejected assignment is
// cleared back to the zero record, so the order is never stuck with an agent
// who declined it.
type Assignment struct {
	agentID     *kernel.UUID
	status      AssignmentStatus
	assignedAt  *time.Time
	respondedAt *time.Time
}

// AgentID returns the assigned agent, or nil when unassigned.
func (a Assignment) AgentID() *kernel.UUID { return a.agentID }

// Status returns the assignment response state.
func (a Assignment) Status() AssignmentStatus { return a.status }

// AssignedAt returns the assignment timestamp.
func (a Assignment) AssignedAt() *time.Time { return a.assignedAt }

// RespondedAt returns the agent's response timestamp.
func (a Assignment) RespondedAt() *time.Time { return a.respondedAt }

// isAssignedTo reports whether agentID is the currently assigned agent.
func (a Assignment) isAssignedTo(agentID kernel.UUID) bool {
	return a.agentID != nil && a.agentID.IsEqual(agentID)
}

// RestoreAssignment reconstructs an assignment record from persistence.
func RestoreAssignment(
	agentID *kernel.UUID,
	status AssignmentStatus,
	assignedAt *time.Time,
	respondedAt *time.Time,
) Assignment {
	return Assignment{agentID: agentID, status: status, assignedAt: assignedAt, respondedAt: respondedAt}
}

// Pickup is the embedded pickup handoff record. IsCompleted flips true at most
// once; the recorded agent is never overwritten.
type Pickup struct {
	isCompleted bool
	completedAt *time.Time
	agentID     *kernel.UUID
	notes       string
}

// IsCompleted reports whether pickup has been completed.
func (p Pickup) IsCompleted() bool { return p.isCompleted }

// CompletedAt returns the pickup timestamp.
func (p Pickup) CompletedAt() *time.Time { return p.completedAt }

// AgentID returns the agent who completed the pickup.
func (p Pickup) AgentID() *kernel.UUID { return p.agentID }

// Notes returns the agent's free-text notes recorded at pickup.
func (p Pickup) Notes() string { return p.notes }

// RestorePickup reconstructs a pickup record from persistence.
func RestorePickup(isCompleted bool, completedAt *time.Time, agentID *kernel.UUID, notes string) Pickup {
	return Pickup{isCompleted: isCompleted, completedAt: completedAt, agentID: agentID, notes: notes}
}

// Delivery is the embedded delivery handoff record.
type Delivery struct {
	deliveredAt       *time.Time
	location          *kernel.GeoPoint
	otpVerificationID *kernel.UUID
}

// DeliveredAt returns the delivery timestamp; the payout eligibility clock and
// the return window both start here.
func (d Delivery) DeliveredAt() *time.Time { return d.deliveredAt }

// Location returns the geolocation recorded at handoff, if any.
func (d Delivery) Location() *kernel.GeoPoint { return d.location }

// OtpVerificationID references the durable OTP audit record for the handoff.
func (d Delivery) OtpVerificationID() *kernel.UUID { return d.otpVerificationID }

// RestoreDelivery reconstructs a delivery record from persistence.
func RestoreDelivery(deliveredAt *time.Time, location *kernel.GeoPoint, otpVerificationID *kernel.UUID) Delivery {
	return Delivery{deliveredAt: deliveredAt, location: location, otpVerificationID: otpVerificationID}
}

// Cancellation records who abandoned the order and why.
type Cancellation struct {
	Actor       string
	Reason      string
	CancelledAt time.Time
}

// PayoutMirror is the order-side mirror of the seller payout. The Payout
// aggregate is the source of truth; the mirror exists so order reads do not
// join the payout store. Processed flips true at most once.
type PayoutMirror struct {
	processed  bool
	transferID string
	status     payout.TransferStatus
}

// Processed reports whether a payout has been created for this order.
func (m PayoutMirror) Processed() bool { return m.processed }

// TransferID returns the payout's transfer identifier.
func (m PayoutMirror) TransferID() string { return m.transferID }

// Status returns the mirrored transfer status.
func (m PayoutMirror) Status() payout.TransferStatus { return m.status }

// RestorePayoutMirror reconstructs a payout mirror from persistence.
func RestorePayoutMirror(processed bool, transferID string, status payout.TransferStatus) PayoutMirror {
	return PayoutMirror{processed: processed, transferID: transferID, status: status}
}

// TimelineEntry is one append-only audit line recording a transition.
type TimelineEntry struct {
	Status string
	Actor  string
	Note   string
	At     time.Time
}
