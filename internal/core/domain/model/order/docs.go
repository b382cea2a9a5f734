// Package order provides domain entities and business logic for retail order
// fulfilment. It implements the Order aggregate root with its pickup/delivery
// state machine, the agent assignment record, the parallel return sub-machine,
// and the payout mirror.
//
// The package includes:
//   - Order: The aggregate root managing identity, payment, lifecycle, and embedded sub-records
//   - Status: A state machine enforcing the monotonic fulfilment workflow
//   - ReturnStatus / ReturnDetails: The reverse-logistics sub-machine reachable only from Delivered
//
// Key business rules:
//   - Status transitions are monotonic along the fulfilment graph; Cancelled is
//     reachable from every status before OutForDelivery
//   - Pickup completion requires the order's human-readable order number as a
//     plain-text confirmation, trimmed of whitespace and compared case-sensitively
//   - pickup.IsCompleted and the payout mirror's processed flag flip true at most
//     once; re-entry fails closed with a stable business code
//   - The return window is a pure function of the delivery timestamp, computed
//     identically wherever eligibility is asked
package order
