package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/Romeo-CEO/intellifin-loan-management-system-sub008/internal/application/dto"
	"github.com/Romeo-CEO/intellifin-loan-management-system-sub008/internal/domain/port"
)

// ClassifyAllLoansUseCase runs the nightly classification pass over the
// whole loan book through a bounded worker pool. A failure on one loan is
// recorded and does not stop the remaining loans; each loan's classification
// is independently idempotent, so the pass is safely re-runnable.
// Cancellation is cooperative and checked between loans, never mid-loan.
type ClassifyAllLoansUseCase struct {
	scheduleRepo port.ScheduleRepository
	classify     *ClassifyLoanUseCase
	workers      int
	logger       *slog.Logger
}

// NewClassifyAllLoansUseCase wires dependencies. workers bounds the pool to
// respect downstream persistence and notification rate limits.
func NewClassifyAllLoansUseCase(
	scheduleRepo port.ScheduleRepository,
	classify *ClassifyLoanUseCase,
	workers int,
	logger *slog.Logger,
) *ClassifyAllLoansUseCase {
	if workers < 1 {
		workers = 1
	}
	return &ClassifyAllLoansUseCase{
		scheduleRepo: scheduleRepo,
		classify:     classify,
		workers:      workers,
		logger:       logger,
	}
}

// Execute classifies every loan with an active schedule.
func (uc *ClassifyAllLoansUseCase) Execute(
	ctx context.Context,
	req dto.ClassifyAllLoansRequest,
) (dto.ClassifyAllLoansResponse, error) {
	loanIDs, err := uc.scheduleRepo.ListLoanIDs(ctx)
	if err != nil {
		return dto.ClassifyAllLoansResponse{}, fmt.Errorf("list loans: %w", err)
	}

	jobs := make(chan string)
	var (
		mu   sync.Mutex
		resp dto.ClassifyAllLoansResponse
		wg   sync.WaitGroup
	)

	for i := 0; i < uc.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for loanID := range jobs {
				// Cancellation between loans, never mid-loan.
				if ctx.Err() != nil {
					return
				}

				result, err := uc.classify.Execute(ctx, dto.ClassifyLoanRequest{
					LoanID:        loanID,
					Actor:         req.Actor,
					CorrelationID: req.CorrelationID,
				})

				mu.Lock()
				resp.Visited++
				if err != nil {
					resp.Failures = append(resp.Failures, dto.LoanFailure{
						LoanID: loanID,
						Error:  err.Error(),
					})
				} else {
					resp.Classified++
					if result.Changed {
						resp.Changed++
					}
				}
				mu.Unlock()

				if err != nil {
					uc.logger.Error("loan classification failed", "loan_id", loanID, "error", err)
				}
			}
		}()
	}

feed:
	for _, loanID := range loanIDs {
		select {
		case <-ctx.Done():
			break feed
		case jobs <- loanID:
		}
	}
	close(jobs)
	wg.Wait()

	uc.logger.Info("classification pass completed",
		"visited", resp.Visited,
		"classified", resp.Classified,
		"changed", resp.Changed,
		"failed", len(resp.Failures),
	)

	return resp, nil
}
