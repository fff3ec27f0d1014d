package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Romeo-CEO/intellifin-loan-management-system-sub008/internal/application/dto"
	"github.com/Romeo-CEO/intellifin-loan-management-system-sub008/internal/application/usecase"
	"github.com/Romeo-CEO/intellifin-loan-management-system-sub008/internal/domain/model"
	"github.com/Romeo-CEO/intellifin-loan-management-system-sub008/internal/domain/port"
	"github.com/Romeo-CEO/intellifin-loan-management-system-sub008/internal/domain/service"
)

func TestClassifyAllLoans_Execute(t *testing.T) {
	newBatch := func(scheduleRepo *mockScheduleRepository, classRepo *mockClassificationRepository, workers int) *usecase.ClassifyAllLoansUseCase {
		classify := usecase.NewClassifyLoanUseCase(
			scheduleRepo, classRepo, service.NewLoanLocker(),
			&mockEventPublisher{}, &mockAuditSink{}, &mockNotificationSink{},
			fixedClock{now: time.Date(2025, 2, 1, 2, 0, 0, 0, time.UTC)}, testLogger(),
		)
		return usecase.NewClassifyAllLoansUseCase(scheduleRepo, classify, workers, testLogger())
	}

	t.Run("classifies every loan in the book", func(t *testing.T) {
		schedule := testSchedule(t)
		scheduleRepo := &mockScheduleRepository{
			listLoanIDsFunc: func(ctx context.Context) ([]string, error) {
				return []string{"loan-001", "loan-002", "loan-003"}, nil
			},
			findByLoanIDFunc: func(ctx context.Context, loanID string) (model.RepaymentSchedule, error) {
				return schedule, nil
			},
		}
		classRepo := &mockClassificationRepository{}

		uc := newBatch(scheduleRepo, classRepo, 2)

		resp, err := uc.Execute(context.Background(), dto.ClassifyAllLoansRequest{Actor: "system", CorrelationID: "corr-1"})

		require.NoError(t, err)
		assert.Equal(t, 3, resp.Visited)
		assert.Equal(t, 3, resp.Classified)
		// Every loan is 17 days past due and moves to SPECIAL_MENTION.
		assert.Equal(t, 3, resp.Changed)
		assert.Empty(t, resp.Failures)
		assert.Len(t, classRepo.savedClassifications, 3)
	})

	t.Run("one failing loan does not stop the pass", func(t *testing.T) {
		schedule := testSchedule(t)
		scheduleRepo := &mockScheduleRepository{
			listLoanIDsFunc: func(ctx context.Context) ([]string, error) {
				return []string{"loan-001", "loan-broken", "loan-003"}, nil
			},
			findByLoanIDFunc: func(ctx context.Context, loanID string) (model.RepaymentSchedule, error) {
				if loanID == "loan-broken" {
					return model.RepaymentSchedule{}, port.ErrScheduleNotFound
				}
				return schedule, nil
			},
		}
		classRepo := &mockClassificationRepository{}

		uc := newBatch(scheduleRepo, classRepo, 2)

		resp, err := uc.Execute(context.Background(), dto.ClassifyAllLoansRequest{Actor: "system", CorrelationID: "corr-1"})

		require.NoError(t, err)
		assert.Equal(t, 3, resp.Visited)
		assert.Equal(t, 2, resp.Classified)
		require.Len(t, resp.Failures, 1)
		assert.Equal(t, "loan-broken", resp.Failures[0].LoanID)
		assert.Contains(t, resp.Failures[0].Error, "find schedule")
	})

	t.Run("fails fast when the loan book cannot be listed", func(t *testing.T) {
		scheduleRepo := &mockScheduleRepository{
			listLoanIDsFunc: func(ctx context.Context) ([]string, error) {
				return nil, assert.AnError
			},
		}

		uc := newBatch(scheduleRepo, &mockClassificationRepository{}, 2)

		_, err := uc.Execute(context.Background(), dto.ClassifyAllLoansRequest{Actor: "system"})
		require.Error(t, err)
	})

	t.Run("stops feeding loans once cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		schedule := testSchedule(t)
		scheduleRepo := &mockScheduleRepository{
			listLoanIDsFunc: func(ctx context.Context) ([]string, error) {
				return []string{"loan-001", "loan-002", "loan-003"}, nil
			},
			findByLoanIDFunc: func(ctx context.Context, loanID string) (model.RepaymentSchedule, error) {
				return schedule, nil
			},
		}
		classRepo := &mockClassificationRepository{}

		uc := newBatch(scheduleRepo, classRepo, 2)

		resp, err := uc.Execute(ctx, dto.ClassifyAllLoansRequest{Actor: "system"})

		require.NoError(t, err)
		assert.Equal(t, 0, resp.Visited)
		assert.Empty(t, classRepo.savedClassifications)
	})
}
