package ports

import (
	"context"

	"marketplace/internal/core/domain/model/kernel"
)

// SmsGateway sends and verifies one-time passwords through the SMS provider.
// For handoff confirmations the provider's verify endpoint is the authority;
// local audit rows only record what it said.
type SmsGateway interface {
	// SendOtp delivers a code to the phone using the named template and
	// returns the provider's message reference.
	SendOtp(ctx context.Context, phone kernel.Phone, templateID, code string) (string, error)

	// VerifyOtp asks the provider whether the code matches the one it last
	// delivered to the phone. The message accompanies a false result.
	VerifyOtp(ctx context.Context, phone kernel.Phone, code string) (bool, string, error)
}

// BeneficiaryRequest carries a seller's bank details to the payment gateway.
type BeneficiaryRequest struct {
	BeneficiaryID string
	Name          string
	Email         string
	Phone         string
	BankAccount   string
	IFSC          string
	Address       string
}

// BeneficiaryResult is the gateway's answer to beneficiary registration.
type BeneficiaryResult struct {
	GatewayRef string
	// Status is the provider's raw verification status string.
	Status string
}

// TransferRequest is one money movement to a registered beneficiary.
type TransferRequest struct {
	TransferID    string
	BeneficiaryID string
	Amount        kernel.Money
	Remarks       string
}

// TransferResult is the gateway's answer to a transfer submission or status
// poll. Status is the provider's raw string; the domain maps it.
type TransferResult struct {
	ReferenceID string
	Status      string
	UTR         string
	ErrorCode   string
	Message     string
}

// BatchTransferResult is the gateway's answer to a batch submission: one
// result per transfer id plus the batch-level reference.
type BatchTransferResult struct {
	BatchRef  string
	Transfers map[string]TransferResult
}

// PaymentGateway moves money to sellers. Transfer ids are caller-derived and
// idempotent at the provider: re-submitting an id the provider has seen
// returns the original transfer instead of paying twice.
type PaymentGateway interface {
	// CreateBeneficiary registers a seller's bank details and returns the
	// provider's reference and verification status.
	CreateBeneficiary(ctx context.Context, req BeneficiaryRequest) (BeneficiaryResult, error)

	// CreateTransfer submits a single transfer.
	CreateTransfer(ctx context.Context, req TransferRequest) (TransferResult, error)

	// CreateBatchTransfer submits many transfers under one batch reference.
	CreateBatchTransfer(ctx context.Context, batchRef string, transfers []TransferRequest) (BatchTransferResult, error)

	// GetTransferStatus polls the provider for a transfer's current state.
	GetTransferStatus(ctx context.Context, transferID string) (TransferResult, error)
}

// Notification is one fire-and-forget event for a recipient.
type Notification struct {
	Event string
	Data  map[string]string
}

// NotificationGateway emits events to the three audiences. Delivery is
// at-least-once and failures must not fail the calling command; adapters log
// and drop.
type NotificationGateway interface {
	EmitToUser(ctx context.Context, userID kernel.UUID, notification Notification) error
	EmitToSeller(ctx context.Context, sellerID kernel.UUID, notification Notification) error
	EmitToAgent(ctx context.Context, agentID kernel.UUID, notification Notification) error
}

// SellerContact is the read-only seller record needed for beneficiary
// registration.
type SellerContact struct {
	SellerID    kernel.UUID
	Name        string
	Email       string
	Phone       string
	BankAccount string
	IFSC        string
	Address     string
}

// SellerDirectory looks up seller contact and bank details. Sellers are
// managed outside the fulfilment core; this port is read-only.
type SellerDirectory interface {
	GetSeller(ctx context.Context, sellerID kernel.UUID) (SellerContact, error)
}
