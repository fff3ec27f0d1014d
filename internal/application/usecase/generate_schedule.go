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
)

// GenerateScheduleUseCase builds the amortization schedule for a newly
// disbursed loan. Generation is idempotent per loan: a second call returns
// the existing schedule without writing anything.
type GenerateScheduleUseCase struct {
	scheduleRepo port.ScheduleRepository
	publisher    port.EventPublisher
	audit        port.AuditSink
	clock        port.Clock
	logger       *slog.Logger
}

// NewGenerateScheduleUseCase wires dependencies.
func NewGenerateScheduleUseCase(
	scheduleRepo port.ScheduleRepository,
	publisher port.EventPublisher,
	audit port.AuditSink,
	clock port.Clock,
	logger *slog.Logger,
) *GenerateScheduleUseCase {
	return &GenerateScheduleUseCase{
		scheduleRepo: scheduleRepo,
		publisher:    publisher,
		audit:        audit,
		clock:        clock,
		logger:       logger,
	}
}

// Execute generates and persists the schedule, or returns the existing one.
func (uc *GenerateScheduleUseCase) Execute(
	ctx context.Context,
	req dto.GenerateScheduleRequest,
) (dto.ScheduleResponse, error) {
	if err := validateGenerateRequest(req); err != nil {
		return dto.ScheduleResponse{}, err
	}

	// Idempotency: one schedule per loan.
	existing, err := uc.scheduleRepo.FindByLoanID(ctx, req.LoanID)
	switch {
	case err == nil:
		resp := scheduleToResponse(existing)
		resp.AlreadyExisted = true
		return resp, nil
	case !errors.Is(err, port.ErrScheduleNotFound):
		return dto.ScheduleResponse{}, fmt.Errorf("find schedule: %w", err)
	}

	now := uc.clock.Now()
	schedule, err := model.NewRepaymentSchedule(
		req.LoanID, req.ClientID, req.ProductCode,
		req.Principal, req.AnnualRate, req.TermMonths,
		req.FirstPaymentDate, req.Actor, req.CorrelationID, now,
	)
	if err != nil {
		return dto.ScheduleResponse{}, fmt.Errorf("%w: %s", port.ErrValidation, err)
	}

	if err := uc.scheduleRepo.Save(ctx, schedule); err != nil {
		return dto.ScheduleResponse{}, fmt.Errorf("save schedule: %w", err)
	}

	uc.emitSideEffects(ctx, schedule, req)

	return scheduleToResponse(schedule), nil
}

func (uc *GenerateScheduleUseCase) emitSideEffects(
	ctx context.Context,
	schedule model.RepaymentSchedule,
	req dto.GenerateScheduleRequest,
) {
	now := uc.clock.Now()

	if err := uc.audit.LogEvent(ctx, port.AuditEntry{
		Timestamp:     now,
		Actor:         req.Actor,
		Action:        "SCHEDULE_GENERATED",
		EntityType:    "RepaymentSchedule",
		EntityID:      schedule.ID(),
		CorrelationID: req.CorrelationID,
		Data: map[string]any{
			"loan_id":     schedule.LoanID(),
			"principal":   schedule.Principal().String(),
			"term_months": schedule.TermMonths(),
		},
	}); err != nil {
		uc.logger.Warn("audit sink unreachable", "action", "SCHEDULE_GENERATED", "loan_id", schedule.LoanID(), "error", err)
	}

	evt := event.NewScheduleGenerated(
		schedule.ID(), schedule.LoanID(), schedule.ClientID(),
		schedule.Principal(), schedule.AnnualRate(), schedule.TermMonths(),
		schedule.FirstPaymentDate(), schedule.MaturityDate(),
		req.CorrelationID, now,
	)
	if err := uc.publisher.Publish(ctx, evt); err != nil {
		uc.logger.Warn("event publish failed", "event_type", evt.EventType(), "loan_id", schedule.LoanID(), "error", err)
	}
}

func validateGenerateRequest(req dto.GenerateScheduleRequest) error {
	switch {
	case req.LoanID == "":
		return fmt.Errorf("%w: loan ID is required", port.ErrValidation)
	case req.ClientID == "":
		return fmt.Errorf("%w: client ID is required", port.ErrValidation)
	case req.Principal.LessThanOrEqual(decimal.Zero):
		return fmt.Errorf("%w: principal must be positive", port.ErrValidation)
	case req.AnnualRate.IsNegative():
		return fmt.Errorf("%w: annual rate must not be negative", port.ErrValidation)
	case req.TermMonths < 1:
		return fmt.Errorf("%w: term months must be at least 1", port.ErrValidation)
	case req.FirstPaymentDate.IsZero():
		return fmt.Errorf("%w: first payment date is required", port.ErrValidation)
	}
	return nil
}

func scheduleToResponse(s model.RepaymentSchedule) dto.ScheduleResponse {
	installments := s.Installments()
	views := make([]dto.InstallmentView, 0, len(installments))
	for _, inst := range installments {
		views = append(views, dto.InstallmentView{
			Number:           inst.Number,
			DueDate:          inst.DueDate,
			PrincipalDue:     inst.PrincipalDue,
			InterestDue:      inst.InterestDue,
			TotalDue:         inst.TotalDue,
			PrincipalPaid:    inst.PrincipalPaid,
			InterestPaid:     inst.InterestPaid,
			TotalPaid:        inst.TotalPaid,
			PrincipalBalance: inst.PrincipalBalance,
			Status:           inst.Status.String(),
			DaysPastDue:      inst.DaysPastDue,
		})
	}

	return dto.ScheduleResponse{
		ScheduleID:       s.ID(),
		LoanID:           s.LoanID(),
		ClientID:         s.ClientID(),
		ProductCode:      s.ProductCode(),
		Principal:        s.Principal(),
		AnnualRate:       s.AnnualRate(),
		TermMonths:       s.TermMonths(),
		FirstPaymentDate: s.FirstPaymentDate(),
		MaturityDate:     s.MaturityDate(),
		Installments:     views,
	}
}
