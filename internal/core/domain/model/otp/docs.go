// Package otp contains the one-time-password domain model.
//
// Two shapes live here. Session is the short-lived server-side record backing
// auth flows (login, password reset, registration): it is stored in a
// TTL-capable session store, burns on successful verification, and dies on
// attempt exhaustion. Verification is the durable audit row backing physical
// handoffs (delivery and return confirmation): it is never deleted, only
// marked, because the authoritative check happens at the SMS gateway and the
// row records what the gateway said.
package otp
