package usecase

import (
	"context"
	"fmt"

	"github.com/Romeo-CEO/intellifin-loan-management-system-sub008/internal/application/dto"
	"github.com/Romeo-CEO/intellifin-loan-management-system-sub008/internal/domain/port"
)

// GetClassificationHistoryUseCase lists a loan's classification ledger.
type GetClassificationHistoryUseCase struct {
	classRepo port.ClassificationRepository
}

// NewGetClassificationHistoryUseCase wires dependencies.
func NewGetClassificationHistoryUseCase(classRepo port.ClassificationRepository) *GetClassificationHistoryUseCase {
	return &GetClassificationHistoryUseCase{classRepo: classRepo}
}

// Execute loads the ledger rows, newest first. A loan with no rows returns
// an empty list; callers treat such loans as CURRENT.
func (uc *GetClassificationHistoryUseCase) Execute(
	ctx context.Context,
	req dto.GetClassificationHistoryRequest,
) (dto.ClassificationHistoryResponse, error) {
	if req.LoanID == "" {
		return dto.ClassificationHistoryResponse{}, fmt.Errorf("%w: loan ID is required", port.ErrValidation)
	}

	records, err := uc.classRepo.ListByLoanID(ctx, req.LoanID)
	if err != nil {
		return dto.ClassificationHistoryResponse{}, fmt.Errorf("list classification history: %w", err)
	}

	entries := make([]dto.ClassificationHistoryEntry, 0, len(records))
	for _, r := range records {
		entries = append(entries, dto.ClassificationHistoryEntry{
			RecordID:           r.ID(),
			Previous:           r.Previous().String(),
			Current:            r.Current().String(),
			DaysPastDue:        r.DaysPastDue(),
			OutstandingBalance: r.OutstandingBalance(),
			ProvisionRate:      r.ProvisionRate(),
			ProvisionAmount:    r.ProvisionAmount(),
			NonAccrual:         r.NonAccrual(),
			ClassifiedAt:       r.ClassifiedAt(),
			ClassifiedBy:       r.ClassifiedBy(),
			Reason:             r.Reason(),
		})
	}

	return dto.ClassificationHistoryResponse{
		LoanID:  req.LoanID,
		Records: entries,
	}, nil
}
