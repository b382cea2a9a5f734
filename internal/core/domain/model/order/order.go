package order

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/payout"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

// ErrOrderIsNotConstructed is returned when an Order instance was not created
// through the NewOrder or RestoreOrder factory methods.
var ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder constructor")

// Business errors shared across handlers. Each carries a stable machine code;
// handlers return these exact values so errors.Is comparisons work.
var (
	// ErrOrderNotFound is returned when no such order exists, or when the
	// caller has no relationship to it (existence is not leaked to strangers).
	ErrOrderNotFound = errs.NewBusinessError(errs.CodeOrderNotFound, "order does not exist")

	// ErrUnauthorizedOrder is returned when the order exists but the calling
	// agent is not the one assigned to it.
	ErrUnauthorizedOrder = errs.NewBusinessError(errs.CodeUnauthorizedOrder, "order is not assigned to this agent")

	// ErrMissingOrderIDVerification is returned when the plain-text pickup
	// confirmation is absent or empty.
	ErrMissingOrderIDVerification = errs.NewBusinessError(errs.CodeMissingOrderIDVerification,
		"order number confirmation is required")

	// ErrOrderIDMismatch is returned when the plain-text pickup confirmation
	// does not match the stored order number. No state changes; the order
	// remains retryable.
	ErrOrderIDMismatch = errs.NewBusinessError(errs.CodeOrderIDMismatch,
		"order number confirmation does not match")

	// ErrPickupAlreadyCompleted is returned on pickup re-entry. First writer
	// wins; the recorded agent is never overwritten.
	ErrPickupAlreadyCompleted = errs.NewBusinessError(errs.CodePickupAlreadyCompleted,
		"pickup has already been completed")

	// ErrReturnNotEligible is returned when the return window has expired or
	// the order is not delivered.
	ErrReturnNotEligible = errs.NewBusinessError(errs.CodeReturnNotEligible,
		"order is not eligible for return")

	// ErrPayoutAlreadyProcessed is returned when a payout exists for the order
	// already. The processed flag flips true at most once.
	ErrPayoutAlreadyProcessed = errs.NewBusinessError(errs.CodePayoutAlreadyProcessed,
		"payout has already been processed for this order")

	// ErrPayoutNotEligible is returned when a payout is requested before the
	// order is delivered, paid and past the payout delay.
	ErrPayoutNotEligible = errs.NewBusinessError(errs.CodePayoutNotEligible,
		"order is not eligible for payout")
)

// NewInvalidStateError builds the INVALID_ORDER_STATE error for an operation
// attempted outside its permitted statuses.
func NewInvalidStateError(operation string, current fmt.Stringer) *errs.BusinessError {
	return errs.NewBusinessError(errs.CodeInvalidOrderState,
		fmt.Sprintf("%s is not allowed while the order is %s", operation, current))
}

// Order is the root aggregate of the fulfilment core. It owns the embedded
// pickup, assignment, delivery, cancellation, return, and payout-mirror
// sub-records exclusively and serializes every transition through the
// guard-clause pattern: each mutating method re-checks current state, so a
// concurrent writer holding a stale copy loses with a semantic error instead
// of corrupting state.
//
// Invariants:
//   - status transitions are monotonic along the lifecycle graph
//   - pickup.IsCompleted flips true at most once; the verifying agent is never overwritten
//   - the payout mirror's processed flag flips true at most once
//   - the return sub-machine exists only after a Delivered order requested one
type Order struct {
	id          kernel.UUID
	orderNumber string
	buyerID     kernel.UUID
	buyerPhone  kernel.Phone
	sellerID    kernel.UUID
	items       []Item
	total       kernel.Money
	isPaid      bool
	payment     PaymentStatus
	status      Status

	pickup        Pickup
	assignment    Assignment
	delivery      Delivery
	cancellation  *Cancellation
	returnDetails *ReturnDetails
	payoutMirror  PayoutMirror
	timeline      []TimelineEntry

	// version is the optimistic concurrency stamp; the repository refuses an
	// update whose stored version differs.
	version int

	guard guard.ConstructorGuard
}

// NewOrder creates a new Order in Created status with payment pending.
//
// Parameters:
//   - id: unique identifier for the order
//   - orderNumber: human-readable number (e.g. "ORD123456789") used as the
//     plain-text pickup confirmation
//   - buyerID, buyerPhone, sellerID: the transacting parties
//   - items: the ordered lines (must be non-empty, each valid)
//   - total: the order total in minor units
func NewOrder(
	id kernel.UUID,
	orderNumber string,
	buyerID kernel.UUID,
	buyerPhone kernel.Phone,
	sellerID kernel.UUID,
	items []Item,
	total kernel.Money,
	now time.Time,
) (*Order, error) {
	o := &Order{
		status:  Created,
		payment: PaymentPending,
		guard:   guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setID(id),
		o.setOrderNumber(orderNumber),
		o.setParties(buyerID, buyerPhone, sellerID),
		o.setItems(items),
	); err != nil {
		return nil, err
	}

	o.total = total
	o.appendTimeline(Created.String(), "buyer", "order placed", now)
	return o, nil
}

// RestoreOrder reconstructs an Order aggregate from persistent storage.
// Unlike NewOrder it accepts the full persisted state, including sub-records
// and the optimistic concurrency version.
func RestoreOrder(
	id kernel.UUID,
	orderNumber string,
	buyerID kernel.UUID,
	buyerPhone kernel.Phone,
	sellerID kernel.UUID,
	items []Item,
	total kernel.Money,
	isPaid bool,
	payment PaymentStatus,
	status Status,
	pickup Pickup,
	assignment Assignment,
	delivery Delivery,
	cancellation *Cancellation,
	returnDetails *ReturnDetails,
	payoutMirror PayoutMirror,
	timeline []TimelineEntry,
	version int,
) (*Order, error) {
	if err := status.Validate(); err != nil {
		return nil, err
	}
	if err := payment.Validate(); err != nil {
		return nil, err
	}

	o := &Order{
		status:  status,
		payment: PaymentPending,
		guard:   guard.NewConstructorGuard(),
	}
	if err := errors.Join(
		o.setID(id),
		o.setOrderNumber(orderNumber),
		o.setParties(buyerID, buyerPhone, sellerID),
		o.setItems(items),
	); err != nil {
		return nil, err
	}

	o.total = total
	o.isPaid = isPaid
	o.payment = payment
	o.pickup = pickup
	o.assignment = assignment
	o.delivery = delivery
	o.cancellation = cancellation
	o.returnDetails = returnDetails
	o.payoutMirror = payoutMirror
	o.timeline = timeline
	o.version = version
	return o, nil
}

// Validate ensures the Order instance was properly constructed.
func (o *Order) Validate() error {
	if o == nil || o.guard.Validate(ErrOrderIsNotConstructed) != nil {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// IsEqual compares two orders by their unique identifiers.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order's unique identifier.
func (o *Order) ID() kernel.UUID { return o.id }

// OrderNumber returns the human-readable order number.
func (o *Order) OrderNumber() string { return o.orderNumber }

// BuyerID returns the buyer's identifier.
func (o *Order) BuyerID() kernel.UUID { return o.buyerID }

// BuyerPhone returns the buyer's normalized phone number.
func (o *Order) BuyerPhone() kernel.Phone { return o.buyerPhone }

// SellerID returns the seller's identifier.
func (o *Order) SellerID() kernel.UUID { return o.sellerID }

// Items returns the ordered lines.
func (o *Order) Items() []Item { return o.items }

// Total returns the order total.
func (o *Order) Total() kernel.Money { return o.total }

// IsPaid reports whether the buyer's payment is confirmed.
func (o *Order) IsPaid() bool { return o.isPaid }

// PaymentStatus returns the payment state.
func (o *Order) PaymentStatus() PaymentStatus { return o.payment }

// Status returns the current lifecycle status.
func (o *Order) Status() Status { return o.status }

// PickupRecord returns the embedded pickup record.
func (o *Order) PickupRecord() Pickup { return o.pickup }

// AssignmentRecord returns the embedded agent-assignment record.
func (o *Order) AssignmentRecord() Assignment { return o.assignment }

// DeliveryRecord returns the embedded delivery record.
func (o *Order) DeliveryRecord() Delivery { return o.delivery }

// CancellationRecord returns the cancellation record, or nil.
func (o *Order) CancellationRecord() *Cancellation { return o.cancellation }

// ReturnDetails returns the reverse-logistics record, or nil when no return
// has been requested.
func (o *Order) ReturnDetails() *ReturnDetails { return o.returnDetails }

// PayoutMirror returns the order-side payout mirror.
func (o *Order) PayoutMirror() PayoutMirror { return o.payoutMirror }

// Timeline returns the append-only transition audit trail.
func (o *Order) Timeline() []TimelineEntry { return o.timeline }

// Version returns the optimistic concurrency stamp.
func (o *Order) Version() int { return o.version }

// MarkPaid records the payment gateway's confirmation of the buyer's charge.
func (o *Order) MarkPaid(now time.Time) {
	o.isPaid = true
	o.payment = PaymentCompleted
	o.appendTimeline(o.status.String(), "system", "payment confirmed", now)
}

// Confirm advances Created -> Confirmed (seller acknowledgement).
func (o *Order) Confirm(now time.Time) error {
	return o.advance(Confirmed, "seller", "order confirmed", now)
}

// StartProcessing advances Confirmed -> Processing.
func (o *Order) StartProcessing(now time.Time) error {
	return o.advance(Processing, "seller", "preparing items", now)
}

// ReadyForPickup advances Processing -> PickupReady.
func (o *Order) ReadyForPickup(now time.Time) error {
	return o.advance(PickupReady, "seller", "package ready for pickup", now)
}

// AssignAgent assigns a delivery agent. Requires PickupReady status; sets the
// assignment pending and advances to Assigned.
func (o *Order) AssignAgent(agentID kernel.UUID, now time.Time) error {
	if err := agentID.Validate(); err != nil {
		return err
	}
	if o.status != PickupReady {
		return NewInvalidStateError("agent assignment", o.status)
	}

	newStatus, err := o.status.TransitionTo(Assigned)
	if err != nil {
		return err
	}

	o.status = newStatus
	assignedAt := now
	o.assignment = Assignment{
		agentID:    &agentID,
		status:     AssignmentPending,
		assignedAt: &assignedAt,
	}
	o.appendTimeline(Assigned.String(), "admin", "delivery agent assigned", now)
	return nil
}

// AcceptAssignment records the assigned agent accepting the job and advances
// Assigned -> Accepted. Only the assigned agent may respond.
func (o *Order) AcceptAssignment(agentID kernel.UUID, now time.Time) error {
	if !o.assignment.isAssignedTo(agentID) {
		return ErrUnauthorizedOrder
	}
	if o.status != Assigned || o.assignment.status != AssignmentPending {
		return NewInvalidStateError("assignment response", o.status)
	}

	o.status = Accepted
	respondedAt := now
	o.assignment.status = AssignmentAccepted
	o.assignment.respondedAt = &respondedAt
	o.appendTimeline(Accepted.String(), "agent", "assignment accepted", now)
	return nil
}

// RejectAssignment records the assigned agent declining the job. The
// assignment is cleared and the order reverts to PickupReady so it can be
// reassigned — a rejection never leaves the order stuck.
func (o *Order) RejectAssignment(agentID kernel.UUID, reason string, now time.Time) error {
	if !o.assignment.isAssignedTo(agentID) {
		return ErrUnauthorizedOrder
	}
	if o.status != Assigned || o.assignment.status != AssignmentPending {
		return NewInvalidStateError("assignment response", o.status)
	}

	o.status = PickupReady
	o.assignment = Assignment{}
	o.appendTimeline(PickupReady.String(), "agent",
		fmt.Sprintf("assignment rejected: %s", reason), now)
	return nil
}

// CompletePickup verifies the plain-text order-number confirmation and marks
// the pickup complete, advancing to OutForDelivery.
//
// The confirmation is trimmed of surrounding whitespace and compared
// case-sensitively with the stored order number. Pickup happens at a known
// seller location, which is why this handoff uses a plain-text match while
// delivery uses a gateway-verified OTP.
//
// Fails closed on re-entry: once pickup is completed a retry returns
// ErrPickupAlreadyCompleted and changes nothing, so the first writer's agent
// and timestamp always survive concurrent attempts.
func (o *Order) CompletePickup(agentID kernel.UUID, orderIDVerification, notes string, now time.Time) error {
	if !o.assignment.isAssignedTo(agentID) {
		return ErrUnauthorizedOrder
	}
	if o.pickup.isCompleted {
		return ErrPickupAlreadyCompleted
	}
	if !o.status.AllowsPickup() {
		return NewInvalidStateError("pickup completion", o.status)
	}

	trimmed := strings.TrimSpace(orderIDVerification)
	if trimmed == "" {
		return ErrMissingOrderIDVerification
	}
	if trimmed != o.orderNumber {
		return ErrOrderIDMismatch
	}

	newStatus, err := o.status.TransitionTo(OutForDelivery)
	if err != nil {
		return err
	}

	completedAt := now
	o.pickup = Pickup{
		isCompleted: true,
		completedAt: &completedAt,
		agentID:     &agentID,
		notes:       notes,
	}
	o.status = newStatus
	o.appendTimeline(OutForDelivery.String(), "agent", "pickup completed", now)
	return nil
}

// CompleteDelivery marks the order Delivered. The handler verifies the
// delivery OTP with the SMS gateway first and passes the audit record's id;
// the aggregate only records the outcome.
func (o *Order) CompleteDelivery(
	agentID kernel.UUID,
	location *kernel.GeoPoint,
	otpVerificationID kernel.UUID,
	now time.Time,
) error {
	if !o.assignment.isAssignedTo(agentID) {
		return ErrUnauthorizedOrder
	}
	if o.status != OutForDelivery {
		return NewInvalidStateError("delivery completion", o.status)
	}
	if err := otpVerificationID.Validate(); err != nil {
		return err
	}

	newStatus, err := o.status.TransitionTo(Delivered)
	if err != nil {
		return err
	}

	deliveredAt := now
	o.delivery = Delivery{
		deliveredAt:       &deliveredAt,
		location:          location,
		otpVerificationID: &otpVerificationID,
	}
	o.status = newStatus
	o.appendTimeline(Delivered.String(), "agent", "delivered to buyer", now)
	return nil
}

// Cancel abandons the order. Valid only while the status precedes
// OutForDelivery; once the package is physically with an agent the order can
// no longer be cancelled.
func (o *Order) Cancel(actor, reason string, now time.Time) error {
	if !o.status.AllowsCancellation() {
		return NewInvalidStateError("cancellation", o.status)
	}

	o.status = Cancelled
	o.cancellation = &Cancellation{Actor: actor, Reason: reason, CancelledAt: now}
	o.appendTimeline(Cancelled.String(), actor, reason, now)
	return nil
}

// RequestReturn opens the reverse-logistics sub-machine. Only a Delivered
// order within the eligibility window qualifies, and only one return may ever
// be requested per order.
func (o *Order) RequestReturn(reason string, now time.Time, window time.Duration) error {
	if o.status != Delivered || o.delivery.deliveredAt == nil {
		return ErrReturnNotEligible
	}
	if o.returnDetails != nil {
		return NewInvalidStateError("return request", o.returnDetails.status)
	}
	if !ReturnEligibleAt(*o.delivery.deliveredAt, now, window) {
		return ErrReturnNotEligible
	}
	if strings.TrimSpace(reason) == "" {
		return errs.NewValueIsRequiredError("return reason")
	}

	o.returnDetails = newReturnDetails(reason, now)
	o.appendTimeline("return_"+ReturnRequested.String(), "buyer", reason, now)
	return nil
}

// ApproveReturn records an admin approving the return request.
func (o *Order) ApproveReturn(note string, now time.Time) error {
	ret, err := o.activeReturn()
	if err != nil {
		return err
	}

	newStatus, err := ret.status.TransitionTo(ReturnApproved)
	if err != nil {
		return NewInvalidStateError("return approval", ret.status)
	}

	reviewedAt := now
	ret.status = newStatus
	ret.reviewedAt = &reviewedAt
	ret.reviewNote = note
	o.appendTimeline("return_"+ReturnApproved.String(), "admin", note, now)
	return nil
}

// RejectReturn records an admin declining the return request. Terminal for
// the sub-machine.
func (o *Order) RejectReturn(note string, now time.Time) error {
	ret, err := o.activeReturn()
	if err != nil {
		return err
	}

	newStatus, err := ret.status.TransitionTo(ReturnRejected)
	if err != nil {
		return NewInvalidStateError("return rejection", ret.status)
	}

	reviewedAt := now
	ret.status = newStatus
	ret.reviewedAt = &reviewedAt
	ret.reviewNote = note
	o.appendTimeline("return_"+ReturnRejected.String(), "admin", note, now)
	return nil
}

// AssignReturnAgent assigns a reverse-logistics agent to an approved return.
func (o *Order) AssignReturnAgent(agentID kernel.UUID, now time.Time) error {
	if err := agentID.Validate(); err != nil {
		return err
	}
	ret, err := o.activeReturn()
	if err != nil {
		return err
	}

	newStatus, err := ret.status.TransitionTo(ReturnAgentAssigned)
	if err != nil {
		return NewInvalidStateError("return agent assignment", ret.status)
	}

	assignedAt := now
	ret.status = newStatus
	ret.agentID = &agentID
	ret.assignedAt = &assignedAt
	ret.respondedAt = nil
	o.appendTimeline("return_"+ReturnAgentAssigned.String(), "admin", "return agent assigned", now)
	return nil
}

// AcceptReturnAssignment records the return agent accepting the job.
func (o *Order) AcceptReturnAssignment(agentID kernel.UUID, now time.Time) error {
	ret, err := o.activeReturn()
	if err != nil {
		return err
	}
	if !ret.isAssignedTo(agentID) {
		return ErrUnauthorizedOrder
	}

	newStatus, err := ret.status.TransitionTo(ReturnAccepted)
	if err != nil {
		return NewInvalidStateError("return assignment response", ret.status)
	}

	respondedAt := now
	ret.status = newStatus
	ret.respondedAt = &respondedAt
	o.appendTimeline("return_"+ReturnAccepted.String(), "agent", "return assignment accepted", now)
	return nil
}

// RejectReturnAssignment records the return agent declining the job. The
// return reverts to Approved with the agent cleared, so it can be reassigned.
func (o *Order) RejectReturnAssignment(agentID kernel.UUID, reason string, now time.Time) error {
	ret, err := o.activeReturn()
	if err != nil {
		return err
	}
	if !ret.isAssignedTo(agentID) {
		return ErrUnauthorizedOrder
	}

	newStatus, err := ret.status.TransitionTo(ReturnApproved)
	if err != nil {
		return NewInvalidStateError("return assignment response", ret.status)
	}

	ret.status = newStatus
	ret.agentID = nil
	ret.assignedAt = nil
	ret.respondedAt = nil
	o.appendTimeline("return_"+ReturnApproved.String(), "agent",
		fmt.Sprintf("return assignment rejected: %s", reason), now)
	return nil
}

// CompleteReturnPickup records the package collected from the buyer. The
// handler verifies the optional OTP first and passes the audit record's id.
func (o *Order) CompleteReturnPickup(
	agentID kernel.UUID,
	notes string,
	location *kernel.GeoPoint,
	otpVerificationID *kernel.UUID,
	now time.Time,
) error {
	ret, err := o.activeReturn()
	if err != nil {
		return err
	}
	if !ret.isAssignedTo(agentID) {
		return ErrUnauthorizedOrder
	}

	newStatus, err := ret.status.TransitionTo(ReturnPickedUp)
	if err != nil {
		return NewInvalidStateError("return pickup", ret.status)
	}

	pickedUpAt := now
	ret.status = newStatus
	ret.pickedUpAt = &pickedUpAt
	ret.pickupNotes = notes
	ret.pickupPoint = location
	ret.pickupOtpID = otpVerificationID
	o.appendTimeline("return_"+ReturnPickedUp.String(), "agent", "collected from buyer", now)
	return nil
}

// FailReturnPickup records that the buyer was unreachable at pickup. Terminal
// for the sub-machine.
func (o *Order) FailReturnPickup(agentID kernel.UUID, reason string, now time.Time) error {
	ret, err := o.activeReturn()
	if err != nil {
		return err
	}
	if !ret.isAssignedTo(agentID) {
		return ErrUnauthorizedOrder
	}

	newStatus, err := ret.status.TransitionTo(ReturnPickupFailed)
	if err != nil {
		return NewInvalidStateError("return pickup failure", ret.status)
	}

	ret.status = newStatus
	ret.failureNote = reason
	o.appendTimeline("return_"+ReturnPickupFailed.String(), "agent", reason, now)
	return nil
}

// CompleteReturnDelivery records the package handed back to the seller.
func (o *Order) CompleteReturnDelivery(
	agentID kernel.UUID,
	notes string,
	location *kernel.GeoPoint,
	otpVerificationID *kernel.UUID,
	now time.Time,
) error {
	ret, err := o.activeReturn()
	if err != nil {
		return err
	}
	if !ret.isAssignedTo(agentID) {
		return ErrUnauthorizedOrder
	}

	newStatus, err := ret.status.TransitionTo(ReturnedToSeller)
	if err != nil {
		return NewInvalidStateError("return delivery", ret.status)
	}

	returnedAt := now
	ret.status = newStatus
	ret.returnedAt = &returnedAt
	ret.dropNotes = notes
	ret.dropPoint = location
	ret.dropOtpID = otpVerificationID
	o.appendTimeline("return_"+ReturnedToSeller.String(), "agent", "returned to seller", now)
	return nil
}

// CloseReturn completes the return after the seller has the package back.
func (o *Order) CloseReturn(now time.Time) error {
	ret, err := o.activeReturn()
	if err != nil {
		return err
	}

	newStatus, err := ret.status.TransitionTo(ReturnCompleted)
	if err != nil {
		return NewInvalidStateError("return close", ret.status)
	}

	completedAt := now
	ret.status = newStatus
	ret.completedAt = &completedAt
	o.appendTimeline("return_"+ReturnCompleted.String(), "admin", "return completed", now)
	return nil
}

// IsPayoutEligible is the payout eligibility predicate: Delivered, paid, past
// the payout delay (which absorbs the return window), and not already
// processed or failed.
func (o *Order) IsPayoutEligible(now time.Time, delay time.Duration) bool {
	if o.status != Delivered || !o.isPaid || o.payment != PaymentCompleted {
		return false
	}
	if o.delivery.deliveredAt == nil || now.Sub(*o.delivery.deliveredAt) < delay {
		return false
	}
	if o.payoutMirror.processed || o.payoutMirror.status == payout.TransferFailed {
		return false
	}
	return true
}

// MarkPayoutProcessed flips the payout mirror's processed flag. At most once:
// re-entry fails closed with ErrPayoutAlreadyProcessed.
func (o *Order) MarkPayoutProcessed(transferID string, status payout.TransferStatus, now time.Time) error {
	if o.payoutMirror.processed {
		return ErrPayoutAlreadyProcessed
	}
	if err := status.Validate(); err != nil {
		return err
	}

	o.payoutMirror = PayoutMirror{processed: true, transferID: transferID, status: status}
	o.appendTimeline(o.status.String(), "system", "seller payout initiated", now)
	return nil
}

// SyncPayoutStatus mirrors a webhook-driven transfer status change onto the
// order. The Payout aggregate has already rejected regressions, so the mirror
// applies the status as given.
func (o *Order) SyncPayoutStatus(status payout.TransferStatus) error {
	if err := status.Validate(); err != nil {
		return err
	}
	o.payoutMirror.status = status
	return nil
}

// advance moves the order along the forward lifecycle graph and appends a
// timeline entry.
func (o *Order) advance(target Status, actor, note string, now time.Time) error {
	newStatus, err := o.status.TransitionTo(target)
	if err != nil {
		return NewInvalidStateError("status advance to "+target.String(), o.status)
	}
	o.status = newStatus
	o.appendTimeline(target.String(), actor, note, now)
	return nil
}

// activeReturn returns the return record or ErrReturnNotEligible when no
// return was ever requested.
func (o *Order) activeReturn() (*ReturnDetails, error) {
	if o.returnDetails == nil {
		return nil, ErrReturnNotEligible
	}
	return o.returnDetails, nil
}

func (o *Order) appendTimeline(status, actor, note string, at time.Time) {
	o.timeline = append(o.timeline, TimelineEntry{Status: status, Actor: actor, Note: note, At: at})
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setOrderNumber(orderNumber string) error {
	if strings.TrimSpace(orderNumber) == "" {
		return errs.NewValueIsRequiredError("order number")
	}
	if orderNumber != strings.TrimSpace(orderNumber) {
		return errs.NewValueIsInvalidErrorWithCause("order number",
			errors.New("order number must not carry surrounding whitespace"))
	}
	o.orderNumber = orderNumber
	return nil
}

func (o *Order) setParties(buyerID kernel.UUID, buyerPhone kernel.Phone, sellerID kernel.UUID) error {
	if err := errors.Join(buyerID.Validate(), buyerPhone.Validate(), sellerID.Validate()); err != nil {
		return err
	}
	o.buyerID = buyerID
	o.buyerPhone = buyerPhone
	o.sellerID = sellerID
	return nil
}

func (o *Order) setItems(items []Item) error {
	if len(items) == 0 {
		return errs.NewValueIsRequiredError("items")
	}
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return err
		}
	}
	o.items = items
	return nil
}
