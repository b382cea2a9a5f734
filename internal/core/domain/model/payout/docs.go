// Package payout provides domain entities and business logic for seller
// payouts. It implements the Payout, PayoutBatch, and Beneficiary aggregates
// together with the deterministic commission split applied to every order
// total before funds move.
//
// Key business rules:
//   - A payout exists only for a delivered, paid order past the payout delay
//   - The commission split is recomputed from the order total, never stored-then-trusted
//   - sellerAmount + platformCommission + gst always equals the order total
//   - Transfer identifiers are derived from the order number so gateway retries are idempotent
//   - Terminal transfer states never regress; re-applying the same terminal state is a no-op
package payout
