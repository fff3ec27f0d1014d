package usecase

import (
	"context"
	"fmt"

	"github.com/Romeo-CEO/intellifin-loan-management-system-sub008/internal/application/dto"
	"github.com/Romeo-CEO/intellifin-loan-management-system-sub008/internal/domain/port"
)

// GetPaymentHistoryUseCase lists the payments recorded against a loan.
type GetPaymentHistoryUseCase struct {
	paymentRepo port.PaymentRepository
}

// NewGetPaymentHistoryUseCase wires dependencies.
func NewGetPaymentHistoryUseCase(paymentRepo port.PaymentRepository) *GetPaymentHistoryUseCase {
	return &GetPaymentHistoryUseCase{paymentRepo: paymentRepo}
}

// Execute loads the loan's payment transactions, newest first.
func (uc *GetPaymentHistoryUseCase) Execute(
	ctx context.Context,
	req dto.GetPaymentHistoryRequest,
) (dto.PaymentHistoryResponse, error) {
	if req.LoanID == "" {
		return dto.PaymentHistoryResponse{}, fmt.Errorf("%w: loan ID is required", port.ErrValidation)
	}

	payments, err := uc.paymentRepo.ListByLoanID(ctx, req.LoanID)
	if err != nil {
		return dto.PaymentHistoryResponse{}, fmt.Errorf("list payments: %w", err)
	}

	entries := make([]dto.PaymentHistoryEntry, 0, len(payments))
	for _, p := range payments {
		entries = append(entries, dto.PaymentHistoryEntry{
			TransactionID:        p.ID(),
			TransactionReference: p.Reference(),
			Method:               p.Method(),
			Source:               p.Source(),
			Amount:               p.Amount(),
			PrincipalPortion:     p.PrincipalPortion(),
			InterestPortion:      p.InterestPortion(),
			TransactionDate:      p.TransactionDate(),
			ReceivedAt:           p.ReceivedAt(),
			Status:               p.Status().String(),
			Reconciled:           p.Reconciled(),
		})
	}

	return dto.PaymentHistoryResponse{
		LoanID:   req.LoanID,
		Payments: entries,
	}, nil
}
