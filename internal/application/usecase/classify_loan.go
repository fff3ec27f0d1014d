package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Romeo-CEO/intellifin-loan-management-system-sub008/internal/application/dto"
	"github.com/Romeo-CEO/intellifin-loan-management-system-sub008/internal/domain/event"
	"github.com/Romeo-CEO/intellifin-loan-management-system-sub008/internal/domain/model"
	"github.com/Romeo-CEO/intellifin-loan-management-system-sub008/internal/domain/port"
	"github.com/Romeo-CEO/intellifin-loan-management-system-sub008/internal/domain/service"
	"github.com/Romeo-CEO/intellifin-loan-management-system-sub008/internal/domain/valueobject"
)

// ClassifyLoanUseCase evaluates one loan's delinquency bucket as of the
// injected clock's today. An evaluation that lands in the current bucket is
// a pure no-op: no ledger row, no write, no notification. A change appends
// one immutable ledger row and persists refreshed installment arrears state
// in the same commit. Borrower notifications fire only for non-accrual
// buckets; the audit trail records every change.
type ClassifyLoanUseCase struct {
	scheduleRepo port.ScheduleRepository
	classRepo    port.ClassificationRepository
	locker       *service.LoanLocker
	publisher    port.EventPublisher
	audit        port.AuditSink
	notifier     port.NotificationSink
	clock        port.Clock
	logger       *slog.Logger
}

// NewClassifyLoanUseCase wires dependencies.
func NewClassifyLoanUseCase(
	scheduleRepo port.ScheduleRepository,
	classRepo port.ClassificationRepository,
	locker *service.LoanLocker,
	publisher port.EventPublisher,
	audit port.AuditSink,
	notifier port.NotificationSink,
	clock port.Clock,
	logger *slog.Logger,
) *ClassifyLoanUseCase {
	return &ClassifyLoanUseCase{
		scheduleRepo: scheduleRepo,
		classRepo:    classRepo,
		locker:       locker,
		publisher:    publisher,
		audit:        audit,
		notifier:     notifier,
		clock:        clock,
		logger:       logger,
	}
}

// Execute classifies a single loan.
func (uc *ClassifyLoanUseCase) Execute(
	ctx context.Context,
	req dto.ClassifyLoanRequest,
) (dto.ClassificationResponse, error) {
	if req.LoanID == "" {
		return dto.ClassificationResponse{}, fmt.Errorf("%w: loan ID is required", port.ErrValidation)
	}

	// Same serialisation domain as payment allocation: installment state
	// must not move between the DPD read and the history write.
	unlock := uc.locker.Lock(req.LoanID)
	defer unlock()

	schedule, err := uc.scheduleRepo.FindByLoanID(ctx, req.LoanID)
	if err != nil {
		return dto.ClassificationResponse{}, fmt.Errorf("find schedule: %w", err)
	}

	today := uc.clock.Now()
	updated, maxDPD := schedule.MarkArrears(today)
	classification := valueobject.ClassificationForDaysPastDue(maxDPD)

	current := valueobject.ClassificationCurrent
	if latest, err := uc.classRepo.FindLatestByLoanID(ctx, req.LoanID); err == nil {
		current = latest.Current()
	} else if !errors.Is(err, port.ErrNoClassification) {
		return dto.ClassificationResponse{}, fmt.Errorf("find latest classification: %w", err)
	}

	outstanding := updated.OutstandingBalance()

	if classification.Equal(current) {
		return dto.ClassificationResponse{
			LoanID:             req.LoanID,
			Classification:     classification.String(),
			Previous:           current.String(),
			Changed:            false,
			DaysPastDue:        maxDPD,
			OutstandingBalance: outstanding,
			ProvisionRate:      classification.ProvisionRate(),
			ProvisionAmount:    outstanding.Mul(classification.ProvisionRate()).Round(2),
			NonAccrual:         classification.IsNonAccrual(),
		}, nil
	}

	reason := fmt.Sprintf("max days past due %d as of %s", maxDPD, today.UTC().Format("2006-01-02"))
	record := model.NewArrearsClassificationRecord(
		req.LoanID, current, classification, maxDPD, outstanding,
		req.Actor, reason, req.CorrelationID, today,
	)

	if err := uc.classRepo.SaveClassification(ctx, record, req.LoanID, updated.Installments()); err != nil {
		return dto.ClassificationResponse{}, fmt.Errorf("save classification: %w", err)
	}

	uc.emitSideEffects(ctx, record, updated, req)

	return dto.ClassificationResponse{
		LoanID:             req.LoanID,
		Classification:     classification.String(),
		Previous:           current.String(),
		Changed:            true,
		DaysPastDue:        maxDPD,
		OutstandingBalance: outstanding,
		ProvisionRate:      record.ProvisionRate(),
		ProvisionAmount:    record.ProvisionAmount(),
		NonAccrual:         record.NonAccrual(),
	}, nil
}

func (uc *ClassifyLoanUseCase) emitSideEffects(
	ctx context.Context,
	record model.ArrearsClassificationRecord,
	schedule model.RepaymentSchedule,
	req dto.ClassifyLoanRequest,
) {
	now := uc.clock.Now()

	// Audit fires on every change, including recoveries and SPECIAL_MENTION.
	if err := uc.audit.LogEvent(ctx, port.AuditEntry{
		Timestamp:     now,
		Actor:         req.Actor,
		Action:        "LOAN_CLASSIFIED",
		EntityType:    "ArrearsClassificationRecord",
		EntityID:      record.ID(),
		CorrelationID: req.CorrelationID,
		Data: map[string]any{
			"loan_id":                 record.LoanID(),
			"previous_classification": record.Previous().String(),
			"new_classification":      record.Current().String(),
			"days_past_due":           record.DaysPastDue(),
			"provision_amount":        record.ProvisionAmount().String(),
		},
	}); err != nil {
		uc.logger.Warn("audit sink unreachable", "action", "LOAN_CLASSIFIED", "loan_id", record.LoanID(), "error", err)
	}

	// Borrowers hear only about the regulatory-severity buckets.
	if record.Current().IsNonAccrual() {
		if err := uc.notifier.Notify(ctx, port.Notification{
			Kind:     port.NotificationClassificationChange,
			LoanID:   record.LoanID(),
			ClientID: schedule.ClientID(),
			Payload: map[string]any{
				"classification":      record.Current().String(),
				"days_past_due":       record.DaysPastDue(),
				"outstanding_balance": record.OutstandingBalance().String(),
			},
			CorrelationID: req.CorrelationID,
		}); err != nil {
			uc.logger.Warn("notification sink unreachable", "kind", port.NotificationClassificationChange, "loan_id", record.LoanID(), "error", err)
		}
	}

	evt := event.NewLoanClassified(
		record.ID(), record.LoanID(),
		record.Previous().String(), record.Current().String(),
		record.DaysPastDue(), record.OutstandingBalance(), record.ProvisionAmount(),
		record.NonAccrual(), req.CorrelationID, now,
	)
	if err := uc.publisher.Publish(ctx, evt); err != nil {
		uc.logger.Warn("event publish failed", "event_type", evt.EventType(), "loan_id", record.LoanID(), "error", err)
	}
}
