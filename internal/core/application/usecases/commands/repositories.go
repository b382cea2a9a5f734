// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS architecture.
// All commands follow a consistent pattern: validation, transaction management, and persistence.
package commands

import (
	"context"

	"marketplace/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
// Each handler depends on the narrowest composition it needs, so its mocks
// stay small and its transaction scope is visible in the signature.
type (
	// TxManager handles database transaction lifecycle.
	// Ensures atomic operations across multiple repository calls.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// OrderRepoFactory provides access to the order repository within a transaction.
	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	// AgentRepoFactory provides access to the agent repository within a transaction.
	AgentRepoFactory interface {
		AgentRepository() ports.AgentRepository
	}

	// PayoutRepoFactory provides access to the payout repository within a transaction.
	PayoutRepoFactory interface {
		PayoutRepository() ports.PayoutRepository
	}

	// BeneficiaryRepoFactory provides access to the beneficiary repository within a transaction.
	BeneficiaryRepoFactory interface {
		BeneficiaryRepository() ports.BeneficiaryRepository
	}

	// VerificationRepoFactory provides access to the OTP audit repository within a transaction.
	VerificationRepoFactory interface {
		VerificationRepository() ports.VerificationRepository
	}

	// OrderUoW manages transactions for order-only operations.
	OrderUoW interface {
		TxManager
		OrderRepoFactory
	}

	// OrderUoWFactory creates new order unit of work instances.
	OrderUoWFactory interface {
		Create() OrderUoW
	}

	// DispatchUoW manages transactions spanning the order and agent
	// aggregates: assignment, pickup, and delivery completion.
	DispatchUoW interface {
		TxManager
		OrderRepoFactory
		AgentRepoFactory
	}

	// DispatchUoWFactory creates new dispatch unit of work instances.
	DispatchUoWFactory interface {
		Create() DispatchUoW
	}

	// PayoutUoW manages transactions spanning orders, payouts, and
	// beneficiaries: single and batch payout processing and webhook
	// status updates.
	PayoutUoW interface {
		TxManager
		OrderRepoFactory
		PayoutRepoFactory
		BeneficiaryRepoFactory
	}

	// PayoutUoWFactory creates new payout unit of work instances.
	PayoutUoWFactory interface {
		Create() PayoutUoW
	}
)
