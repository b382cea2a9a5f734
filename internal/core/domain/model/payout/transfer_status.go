package payout

import (
	"fmt"
	"strings"

	"marketplace/internal/pkg/errs"
)

// TransferStatus represents the state of a money transfer as tracked locally.
// Gateway statuses are mapped through this closed vocabulary; the raw gateway
// string never leaks into domain state.
//
// State transitions:
//
//	Pending ──> Processing ──> Completed
//	   │             │
//	   └─────────────┴──────> Failed
//
// Completed and Failed are terminal. A webhook carrying a terminal status may
// be re-delivered; re-applying it is a no-op, and a late non-terminal status
// never regresses a terminal one.
type TransferStatus int

const (
	// TransferUnknown represents an invalid or undefined status.
	TransferUnknown TransferStatus = iota

	// TransferPending means the transfer is recorded locally but not yet
	// acknowledged by the gateway (or is awaiting beneficiary verification).
	TransferPending

	// TransferProcessing means the gateway accepted the transfer and is
	// moving funds.
	TransferProcessing

	// TransferCompleted means funds reached the beneficiary. Terminal.
	TransferCompleted

	// TransferFailed means the gateway rejected or reversed the transfer. Terminal.
	TransferFailed
)

func getTransferStatusStrings() map[TransferStatus]string {
	return map[TransferStatus]string{
		TransferUnknown:    "unknown",
		TransferPending:    "pending",
		TransferProcessing: "processing",
		TransferCompleted:  "completed",
		TransferFailed:     "failed",
	}
}

// String returns the lowercase persisted name of the status.
func (s TransferStatus) String() string {
	if str, ok := getTransferStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// Validate checks that the status is one of the four valid states.
func (s TransferStatus) Validate() error {
	switch s {
	case TransferPending, TransferProcessing, TransferCompleted, TransferFailed:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("transfer status",
			fmt.Errorf("%d is not a valid transfer status", s))
	}
}

// IsTerminal reports whether the status permits no further transitions.
func (s TransferStatus) IsTerminal() bool {
	return s == TransferCompleted || s == TransferFailed
}

// MapGatewayStatus converts the payment gateway's status vocabulary to the
// local one. Unrecognized values map to TransferUnknown so callers can reject
// them explicitly instead of guessing.
func MapGatewayStatus(gatewayStatus string) TransferStatus {
	switch strings.ToUpper(strings.TrimSpace(gatewayStatus)) {
	case "PENDING", "RECEIVED", "ACCEPTED":
		return TransferPending
	case "PROCESSING", "IN_PROGRESS", "QUEUED":
		return TransferProcessing
	case "SUCCESS", "COMPLETED", "SETTLED":
		return TransferCompleted
	case "FAILED", "ERROR", "REJECTED", "REVERSED", "CANCELLED":
		return TransferFailed
	default:
		return TransferUnknown
	}
}

// retryableGatewayErrors is the subset of the gateway's failure taxonomy that
// a retry job may safely re-submit. Everything else needs manual intervention.
var retryableGatewayErrors = map[string]bool{
	"BENEFICIARY_BANK_OFFLINE": true,
	"GATEWAY_UNREACHABLE":      true,
	"GATEWAY_TIMEOUT":          true,
	"IMPS_MODE_FAIL":           true,
	"NPCI_UNAVAILABLE":         true,
	"TEMPORARY_ERROR":          true,
	"INSUFFICIENT_BALANCE":     true,
}

// IsRetryableGatewayError reports whether a gateway failure code is safe to
// retry automatically.
func IsRetryableGatewayError(errorCode string) bool {
	return retryableGatewayErrors[strings.ToUpper(strings.TrimSpace(errorCode))]
}
