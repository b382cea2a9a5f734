// Package postgres provides the GORM-based implementation of the Unit of Work
// pattern. A unit of work spans one business transaction: every repository it
// hands out is bound to the same database transaction, and the aggregates
// those repositories touch are tracked so callers can process them after a
// successful commit.
//
// Usage:
//
//	factory := NewGormUnitOfWorkFactory(db)
//	uow := factory.Create()
//
//	if err := uow.Begin(ctx); err != nil {
//	    return err
//	}
//	defer func() {
//	    _ = uow.Rollback(ctx)
//	}()
//
//	if err := uow.OrderRepository().Update(ctx, order); err != nil {
//	    return err
//	}
//
//	return uow.Commit(ctx)
package postgres

import (
	"context"

	"marketplace/internal/adapters/out/postgres/agentrepo"
	"marketplace/internal/adapters/out/postgres/orderrepo"
	"marketplace/internal/adapters/out/postgres/otprepo"
	"marketplace/internal/adapters/out/postgres/payoutrepo"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/ports"

	"gorm.io/gorm"
)

// trackedAggregate represents an aggregate modified during the unit of work.
type trackedAggregate struct {
	ID        kernel.UUID
	Aggregate interface{}
}

// GormUnitOfWorkFactory creates UnitOfWork instances using a GORM database
// connection. Each business operation gets a fresh instance with its own
// transaction state, isolated from concurrent operations.
type GormUnitOfWorkFactory struct {
	db *gorm.DB
}

// NewGormUnitOfWorkFactory creates a factory for GORM-based unit of work
// instances.
func NewGormUnitOfWorkFactory(db *gorm.DB) *GormUnitOfWorkFactory {
	return &GormUnitOfWorkFactory{db: db}
}

// Create produces a new UnitOfWork ready for business transaction management.
func (f *GormUnitOfWorkFactory) Create() ports.UnitOfWork {
	return &GormUnitOfWork{
		db:                f.db,
		trackedAggregates: make([]trackedAggregate, 0),
	}
}

// GormUnitOfWork coordinates a database transaction across the repositories
// of one business operation and tracks the aggregates modified within it.
type GormUnitOfWork struct {
	db                *gorm.DB
	tx                *gorm.DB
	trackedAggregates []trackedAggregate
}

// Begin initiates a new database transaction. Repeated calls on the same
// instance are safe and will not create nested transactions.
func (uow *GormUnitOfWork) Begin(ctx context.Context) error {
	if uow.tx != nil {
		return nil
	}

	uow.tx = uow.db.WithContext(ctx).Begin()
	if uow.tx.Error != nil {
		return uow.tx.Error
	}

	return nil
}

// Commit finalizes all changes made within the current transaction. Returns
// an error if no transaction is active or the commit fails.
func (uow *GormUnitOfWork) Commit(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Commit().Error
	uow.tx = nil
	return err
}

// Rollback discards all changes made within the current transaction. Returns
// an error if no transaction is active or the rollback fails.
func (uow *GormUnitOfWork) Rollback(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Rollback().Error
	uow.tx = nil
	return err
}

// session returns the active transaction, or the base connection when no
// transaction has been started.
func (uow *GormUnitOfWork) session() *gorm.DB {
	if uow.tx != nil {
		return uow.tx
	}
	return uow.db
}

// OrderRepository returns an order repository bound to the current
// transaction.
func (uow *GormUnitOfWork) OrderRepository() ports.OrderRepository {
	return orderrepo.NewGormOrderRepository(uow.session(), uow)
}

// AgentRepository returns an agent repository bound to the current
// transaction.
func (uow *GormUnitOfWork) AgentRepository() ports.AgentRepository {
	return agentrepo.NewGormAgentRepository(uow.session(), uow)
}

// PayoutRepository returns a payout repository bound to the current
// transaction.
func (uow *GormUnitOfWork) PayoutRepository() ports.PayoutRepository {
	return payoutrepo.NewGormPayoutRepository(uow.session(), uow)
}

// BeneficiaryRepository returns a beneficiary repository bound to the current
// transaction.
func (uow *GormUnitOfWork) BeneficiaryRepository() ports.BeneficiaryRepository {
	return payoutrepo.NewGormBeneficiaryRepository(uow.session(), uow)
}

// VerificationRepository returns an OTP verification repository bound to the
// current transaction.
func (uow *GormUnitOfWork) VerificationRepository() ports.VerificationRepository {
	return otprepo.NewGormVerificationRepository(uow.session(), uow)
}

// TrackAggregate registers a domain aggregate as modified within this unit of
// work. Repository implementations call it on Add and Update.
func (uow *GormUnitOfWork) TrackAggregate(id kernel.UUID, aggregate interface{}) {
	uow.trackedAggregates = append(uow.trackedAggregates, trackedAggregate{
		ID:        id,
		Aggregate: aggregate,
	})
}

// GetTrackedAggregates returns the aggregates modified within this unit of
// work, in the order they were touched.
func (uow *GormUnitOfWork) GetTrackedAggregates() []trackedAggregate {
	return uow.trackedAggregates
}
