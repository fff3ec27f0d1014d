package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/Romeo-CEO/intellifin-loan-management-system-sub008/internal/application/dto"
	"github.com/Romeo-CEO/intellifin-loan-management-system-sub008/internal/domain/event"
	"github.com/Romeo-CEO/intellifin-loan-management-system-sub008/internal/domain/model"
	"github.com/Romeo-CEO/intellifin-loan-management-system-sub008/internal/domain/port"
	"github.com/Romeo-CEO/intellifin-loan-management-system-sub008/internal/domain/service"
)

// ApplyPaymentUseCase allocates one received payment across a loan's unpaid
// installments, interest first, earliest installment first. Application is
// at-most-once per transaction reference. The financial write commits before
// any side effect fires; audit and notification failures are logged and
// never roll it back.
type ApplyPaymentUseCase struct {
	scheduleRepo port.ScheduleRepository
	paymentRepo  port.PaymentRepository
	locker       *service.LoanLocker
	publisher    port.EventPublisher
	audit        port.AuditSink
	notifier     port.NotificationSink
	clock        port.Clock
	logger       *slog.Logger
}

// NewApplyPaymentUseCase wires dependencies.
func NewApplyPaymentUseCase(
	scheduleRepo port.ScheduleRepository,
	paymentRepo port.PaymentRepository,
	locker *service.LoanLocker,
	publisher port.EventPublisher,
	audit port.AuditSink,
	notifier port.NotificationSink,
	clock port.Clock,
	logger *slog.Logger,
) *ApplyPaymentUseCase {
	return &ApplyPaymentUseCase{
		scheduleRepo: scheduleRepo,
		paymentRepo:  paymentRepo,
		locker:       locker,
		publisher:    publisher,
		audit:        audit,
		notifier:     notifier,
		clock:        clock,
		logger:       logger,
	}
}

// Execute processes a payment against a loan.
func (uc *ApplyPaymentUseCase) Execute(
	ctx context.Context,
	req dto.ApplyPaymentRequest,
) (dto.PaymentResponse, error) {
	if err := validatePaymentRequest(req); err != nil {
		return dto.PaymentResponse{}, err
	}

	// Serialise with other payments and classification on this loan: the
	// waterfall reads installment state across several rows before writing.
	unlock := uc.locker.Lock(req.LoanID)
	defer unlock()

	// Idempotency: a seen reference returns the original transaction.
	if existing, err := uc.paymentRepo.FindByReference(ctx, req.TransactionReference); err == nil {
		resp := transactionToResponse(existing)
		resp.Duplicate = true
		return resp, nil
	} else if !errors.Is(err, port.ErrTransactionNotFound) {
		return dto.PaymentResponse{}, fmt.Errorf("find transaction: %w", err)
	}

	schedule, err := uc.scheduleRepo.FindByLoanID(ctx, req.LoanID)
	if err != nil {
		return dto.PaymentResponse{}, fmt.Errorf("find schedule: %w", err)
	}

	now := uc.clock.Now()
	updated, alloc := schedule.Allocate(req.Amount, now)

	txn, err := model.NewPaymentTransaction(
		req.LoanID, req.ClientID, req.TransactionReference,
		req.Method, req.Source, req.Amount, req.TransactionDate,
		alloc.PrincipalApplied, alloc.InterestApplied, alloc.SettledNumber,
		req.ExternalReference, req.Notes, req.Actor, req.CorrelationID, now,
	)
	if err != nil {
		return dto.PaymentResponse{}, fmt.Errorf("%w: %s", port.ErrValidation, err)
	}

	var task *model.ReconciliationTask
	if alloc.RequiresReconciliation() {
		t := model.NewOverpaymentTask(
			txn.ID(), req.LoanID,
			alloc.Applied, req.Amount,
			req.Actor, req.CorrelationID, now,
		)
		task = &t
	}

	touched := updated.InstallmentsByNumber(alloc.Touched)
	if err := uc.paymentRepo.SaveAllocation(ctx, txn, touched, task); err != nil {
		return dto.PaymentResponse{}, fmt.Errorf("save allocation: %w", err)
	}

	uc.emitSideEffects(ctx, txn, alloc, task, req)

	resp := transactionToResponse(txn)
	resp.OutstandingBalance = alloc.OutstandingAfter
	if task != nil {
		resp.ReconciliationTaskID = task.ID()
	}
	return resp, nil
}

func (uc *ApplyPaymentUseCase) emitSideEffects(
	ctx context.Context,
	txn model.PaymentTransaction,
	alloc model.Allocation,
	task *model.ReconciliationTask,
	req dto.ApplyPaymentRequest,
) {
	now := uc.clock.Now()

	if err := uc.audit.LogEvent(ctx, port.AuditEntry{
		Timestamp:     now,
		Actor:         req.Actor,
		Action:        "PAYMENT_APPLIED",
		EntityType:    "PaymentTransaction",
		EntityID:      txn.ID(),
		CorrelationID: req.CorrelationID,
		Data: map[string]any{
			"loan_id":               txn.LoanID(),
			"transaction_reference": txn.Reference(),
			"amount":                txn.Amount().String(),
			"principal_portion":     txn.PrincipalPortion().String(),
			"interest_portion":      txn.InterestPortion().String(),
		},
	}); err != nil {
		uc.logger.Warn("audit sink unreachable", "action", "PAYMENT_APPLIED", "loan_id", txn.LoanID(), "error", err)
	}

	if err := uc.notifier.Notify(ctx, port.Notification{
		Kind:     port.NotificationPaymentConfirmation,
		LoanID:   txn.LoanID(),
		ClientID: txn.ClientID(),
		Payload: map[string]any{
			"amount":              txn.Amount().String(),
			"outstanding_balance": alloc.OutstandingAfter.String(),
			"reference":           txn.Reference(),
		},
		CorrelationID: req.CorrelationID,
	}); err != nil {
		uc.logger.Warn("notification sink unreachable", "kind", port.NotificationPaymentConfirmation, "loan_id", txn.LoanID(), "error", err)
	}

	evts := []event.DomainEvent{
		event.NewPaymentApplied(
			txn.ID(), txn.LoanID(), txn.ClientID(), txn.Reference(),
			txn.Amount(), txn.PrincipalPortion(), txn.InterestPortion(),
			alloc.OutstandingAfter, req.CorrelationID, now,
		),
	}
	if task != nil {
		evts = append(evts, event.NewOverpaymentDetected(
			task.ID(), txn.ID(), txn.LoanID(),
			task.Expected(), task.Actual(), task.Variance(),
			req.CorrelationID, now,
		))
	}
	if err := uc.publisher.Publish(ctx, evts...); err != nil {
		uc.logger.Warn("event publish failed", "loan_id", txn.LoanID(), "error", err)
	}
}

func validatePaymentRequest(req dto.ApplyPaymentRequest) error {
	switch {
	case req.LoanID == "":
		return fmt.Errorf("%w: loan ID is required", port.ErrValidation)
	case req.TransactionReference == "":
		return fmt.Errorf("%w: transaction reference is required", port.ErrValidation)
	case req.Amount.LessThanOrEqual(decimal.Zero):
		return fmt.Errorf("%w: amount must be positive", port.ErrValidation)
	}
	return nil
}

func transactionToResponse(txn model.PaymentTransaction) dto.PaymentResponse {
	return dto.PaymentResponse{
		TransactionID:        txn.ID(),
		LoanID:               txn.LoanID(),
		TransactionReference: txn.Reference(),
		Status:               txn.Status().String(),
		Amount:               txn.Amount(),
		PrincipalPortion:     txn.PrincipalPortion(),
		InterestPortion:      txn.InterestPortion(),
	}
}
