// Package services contains stateless domain services coordinating logic
// that spans aggregates: dispatching orders to delivery agents and deciding
// return eligibility. Services hold configuration only, never state.
package services
