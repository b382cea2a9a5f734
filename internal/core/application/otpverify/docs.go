// Package otpverify is the OTP verification application service. It runs in
// two modes: session mode for authentication flows, where codes live in a
// short-lived keyed store and are checked locally, and gateway mode for
// delivery handoffs, where the SMS provider's verify endpoint is the
// authority and a durable audit row records its answer.
package otpverify
