package port

import (
	"context"
	"errors"

	"github.com/Romeo-CEO/intellifin-loan-management-system-sub008/internal/domain/event"
	"github.com/Romeo-CEO/intellifin-loan-management-system-sub008/internal/domain/model"
)

// ---------------------------------------------------------------------------
// Sentinel errors
// ---------------------------------------------------------------------------

var (
	// ErrValidation marks rejected input; nothing was written.
	ErrValidation = errors.New("validation failed")

	// ErrScheduleNotFound is returned when a loan has no repayment schedule.
	ErrScheduleNotFound = errors.New("repayment schedule not found")

	// ErrTransactionNotFound is returned when no payment transaction matches
	// the given reference.
	ErrTransactionNotFound = errors.New("payment transaction not found")

	// ErrNoClassification is returned when a loan has no classification
	// history; callers treat such loans as CURRENT.
	ErrNoClassification = errors.New("no classification history")
)

// ---------------------------------------------------------------------------
// Repository ports (driven/secondary adapters)
// ---------------------------------------------------------------------------

// ScheduleRepository persists and retrieves repayment schedules together
// with their installments. Save writes schedule and installments in one
// atomic commit.
type ScheduleRepository interface {
	Save(ctx context.Context, schedule model.RepaymentSchedule) error
	FindByLoanID(ctx context.Context, loanID string) (model.RepaymentSchedule, error)
	ListLoanIDs(ctx context.Context) ([]string, error)
}

// PaymentRepository persists payment transactions. SaveAllocation writes the
// transaction, the updated installments and the optional reconciliation task
// in one atomic commit.
type PaymentRepository interface {
	SaveAllocation(ctx context.Context, txn model.PaymentTransaction, installments []model.Installment, task *model.ReconciliationTask) error
	FindByReference(ctx context.Context, reference string) (model.PaymentTransaction, error)
	ListByLoanID(ctx context.Context, loanID string) ([]model.PaymentTransaction, error)
	ListOpenTasksByLoanID(ctx context.Context, loanID string) ([]model.ReconciliationTask, error)
}

// ClassificationRepository persists the append-only classification ledger.
// SaveClassification writes the ledger row and the refreshed installment
// arrears state in one atomic commit.
type ClassificationRepository interface {
	SaveClassification(ctx context.Context, record model.ArrearsClassificationRecord, loanID string, installments []model.Installment) error
	FindLatestByLoanID(ctx context.Context, loanID string) (model.ArrearsClassificationRecord, error)
	ListByLoanID(ctx context.Context, loanID string) ([]model.ArrearsClassificationRecord, error)
}

// ---------------------------------------------------------------------------
// Event publisher port
// ---------------------------------------------------------------------------

// EventPublisher publishes domain events to external consumers.
type EventPublisher interface {
	Publish(ctx context.Context, events ...event.DomainEvent) error
}
