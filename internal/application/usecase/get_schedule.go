package usecase

import (
	"context"
	"fmt"

	"github.com/Romeo-CEO/intellifin-loan-management-system-sub008/internal/application/dto"
	"github.com/Romeo-CEO/intellifin-loan-management-system-sub008/internal/domain/port"
)

// GetScheduleUseCase retrieves a loan's repayment schedule.
type GetScheduleUseCase struct {
	scheduleRepo port.ScheduleRepository
}

// NewGetScheduleUseCase wires dependencies.
func NewGetScheduleUseCase(scheduleRepo port.ScheduleRepository) *GetScheduleUseCase {
	return &GetScheduleUseCase{scheduleRepo: scheduleRepo}
}

// Execute loads the schedule with its installments.
func (uc *GetScheduleUseCase) Execute(
	ctx context.Context,
	req dto.GetScheduleRequest,
) (dto.ScheduleResponse, error) {
	if req.LoanID == "" {
		return dto.ScheduleResponse{}, fmt.Errorf("%w: loan ID is required", port.ErrValidation)
	}

	schedule, err := uc.scheduleRepo.FindByLoanID(ctx, req.LoanID)
	if err != nil {
		return dto.ScheduleResponse{}, fmt.Errorf("find schedule: %w", err)
	}

	return scheduleToResponse(schedule), nil
}
