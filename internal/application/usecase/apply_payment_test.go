package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Romeo-CEO/intellifin-loan-management-system-sub008/internal/application/dto"
	"github.com/Romeo-CEO/intellifin-loan-management-system-sub008/internal/application/usecase"
	"github.com/Romeo-CEO/intellifin-loan-management-system-sub008/internal/domain/event"
	"github.com/Romeo-CEO/intellifin-loan-management-system-sub008/internal/domain/model"
	"github.com/Romeo-CEO/intellifin-loan-management-system-sub008/internal/domain/port"
	"github.com/Romeo-CEO/intellifin-loan-management-system-sub008/internal/domain/service"
)

func paymentRequest(amount decimal.Decimal) dto.ApplyPaymentRequest {
	return dto.ApplyPaymentRequest{
		LoanID:               "loan-001",
		ClientID:             "client-001",
		TransactionReference: "TXN-0001",
		Method:               "MOBILE_MONEY",
		Source:               "MNO_CALLBACK",
		Amount:               amount,
		TransactionDate:      time.Date(2025, 1, 20, 9, 30, 0, 0, time.UTC),
		Actor:                "officer-1",
		CorrelationID:        "corr-1",
	}
}

func newApplyPaymentFixture(t *testing.T) (*usecase.ApplyPaymentUseCase, *mockScheduleRepository, *mockPaymentRepository, *mockEventPublisher, *mockAuditSink, *mockNotificationSink) {
	t.Helper()
	schedule := testSchedule(t)
	scheduleRepo := &mockScheduleRepository{
		findByLoanIDFunc: func(ctx context.Context, loanID string) (model.RepaymentSchedule, error) {
			return schedule, nil
		},
	}
	paymentRepo := &mockPaymentRepository{}
	publisher := &mockEventPublisher{}
	audit := &mockAuditSink{}
	notifier := &mockNotificationSink{}
	clock := fixedClock{now: time.Date(2025, 1, 20, 10, 0, 0, 0, time.UTC)}

	uc := usecase.NewApplyPaymentUseCase(
		scheduleRepo, paymentRepo, service.NewLoanLocker(),
		publisher, audit, notifier, clock, testLogger(),
	)
	return uc, scheduleRepo, paymentRepo, publisher, audit, notifier
}

func TestApplyPayment_Execute(t *testing.T) {
	t.Run("allocates interest before principal", func(t *testing.T) {
		uc, _, paymentRepo, publisher, audit, notifier := newApplyPaymentFixture(t)

		// 200.00 against installment 1: interest 12.00, principal 188.00.
		resp, err := uc.Execute(context.Background(), paymentRequest(decimal.NewFromInt(200)))

		require.NoError(t, err)
		assert.False(t, resp.Duplicate)
		assert.Equal(t, "CONFIRMED", resp.Status)
		assert.True(t, decimal.NewFromFloat(12.00).Equal(resp.InterestPortion),
			"interest portion should be 12.00, got %s", resp.InterestPortion)
		assert.True(t, decimal.NewFromFloat(188.00).Equal(resp.PrincipalPortion),
			"principal portion should be 188.00, got %s", resp.PrincipalPortion)
		assert.True(t, decimal.NewFromFloat(1024.08).Equal(resp.OutstandingBalance),
			"outstanding should be 1024.08, got %s", resp.OutstandingBalance)
		assert.Empty(t, resp.ReconciliationTaskID)

		require.Len(t, paymentRepo.savedAllocations, 1)
		saved := paymentRepo.savedAllocations[0]
		assert.Nil(t, saved.task)
		require.Len(t, saved.installments, 1)
		assert.Equal(t, 1, saved.installments[0].Number)

		require.Len(t, audit.entries, 1)
		assert.Equal(t, "PAYMENT_APPLIED", audit.entries[0].Action)
		require.Len(t, notifier.notifications, 1)
		assert.Equal(t, port.NotificationPaymentConfirmation, notifier.notifications[0].Kind)
		require.Len(t, publisher.publishedEvents, 1)
		assert.Equal(t, "servicing.payment.applied", publisher.publishedEvents[0].EventType())
	})

	t.Run("records settled installment on the transaction", func(t *testing.T) {
		uc, _, paymentRepo, _, _, _ := newApplyPaymentFixture(t)

		_, err := uc.Execute(context.Background(), paymentRequest(decimal.NewFromFloat(408.03)))

		require.NoError(t, err)
		require.Len(t, paymentRepo.savedAllocations, 1)
		assert.Equal(t, 1, paymentRepo.savedAllocations[0].txn.SettledInstallment())
	})

	t.Run("returns the original transaction for a duplicate reference", func(t *testing.T) {
		uc, _, paymentRepo, publisher, audit, _ := newApplyPaymentFixture(t)
		original, err := model.NewPaymentTransaction(
			"loan-001", "client-001", "TXN-0001", "MOBILE_MONEY", "MNO_CALLBACK",
			decimal.NewFromInt(200), time.Date(2025, 1, 20, 9, 30, 0, 0, time.UTC),
			decimal.NewFromFloat(188.00), decimal.NewFromFloat(12.00), 0,
			"", "", "officer-1", "corr-1",
			time.Date(2025, 1, 20, 10, 0, 0, 0, time.UTC),
		)
		require.NoError(t, err)
		paymentRepo.findByReferenceFunc = func(ctx context.Context, reference string) (model.PaymentTransaction, error) {
			return original, nil
		}

		resp, err := uc.Execute(context.Background(), paymentRequest(decimal.NewFromInt(200)))

		require.NoError(t, err)
		assert.True(t, resp.Duplicate)
		assert.Equal(t, original.ID(), resp.TransactionID)
		assert.Empty(t, paymentRepo.savedAllocations, "duplicate must not write")
		assert.Empty(t, audit.entries)
		assert.Empty(t, publisher.publishedEvents)
	})

	t.Run("opens a reconciliation task for an overpayment", func(t *testing.T) {
		uc, _, paymentRepo, publisher, _, _ := newApplyPaymentFixture(t)

		// Loan absorbs 1224.08; 75.92 is left over.
		resp, err := uc.Execute(context.Background(), paymentRequest(decimal.NewFromInt(1300)))

		require.NoError(t, err)
		assert.NotEmpty(t, resp.ReconciliationTaskID)
		assert.True(t, resp.OutstandingBalance.Equal(decimal.Zero))

		require.Len(t, paymentRepo.savedAllocations, 1)
		task := paymentRepo.savedAllocations[0].task
		require.NotNil(t, task)
		assert.True(t, decimal.NewFromFloat(1224.08).Equal(task.Expected()))
		assert.True(t, decimal.NewFromInt(1300).Equal(task.Actual()))
		assert.True(t, decimal.NewFromFloat(75.92).Equal(task.Variance()),
			"variance should be 75.92, got %s", task.Variance())

		// Both the payment event and the overpayment event are published.
		require.Len(t, publisher.publishedEvents, 2)
		assert.Equal(t, "servicing.payment.overpayment_detected", publisher.publishedEvents[1].EventType())
	})

	t.Run("commits the payment even when all sinks fail", func(t *testing.T) {
		uc, _, paymentRepo, publisher, audit, notifier := newApplyPaymentFixture(t)
		audit.logEventFunc = func(ctx context.Context, entry port.AuditEntry) error { return assert.AnError }
		notifier.notifyFunc = func(ctx context.Context, n port.Notification) error { return assert.AnError }
		publisher.publishFunc = func(ctx context.Context, events ...event.DomainEvent) error { return assert.AnError }

		resp, err := uc.Execute(context.Background(), paymentRequest(decimal.NewFromInt(200)))

		require.NoError(t, err)
		assert.False(t, resp.Duplicate)
		require.Len(t, paymentRepo.savedAllocations, 1)
	})

	t.Run("fails when the loan has no schedule", func(t *testing.T) {
		uc, scheduleRepo, paymentRepo, _, _, _ := newApplyPaymentFixture(t)
		scheduleRepo.findByLoanIDFunc = func(ctx context.Context, loanID string) (model.RepaymentSchedule, error) {
			return model.RepaymentSchedule{}, port.ErrScheduleNotFound
		}

		_, err := uc.Execute(context.Background(), paymentRequest(decimal.NewFromInt(200)))

		require.Error(t, err)
		assert.ErrorIs(t, err, port.ErrScheduleNotFound)
		assert.Empty(t, paymentRepo.savedAllocations)
	})

	t.Run("rejects a non-positive amount", func(t *testing.T) {
		uc, _, _, _, _, _ := newApplyPaymentFixture(t)

		_, err := uc.Execute(context.Background(), paymentRequest(decimal.Zero))

		require.Error(t, err)
		assert.ErrorIs(t, err, port.ErrValidation)
	})

	t.Run("does not persist when the repository fails", func(t *testing.T) {
		uc, _, paymentRepo, publisher, audit, _ := newApplyPaymentFixture(t)
		paymentRepo.saveAllocationFunc = func(ctx context.Context, txn model.PaymentTransaction, installments []model.Installment, task *model.ReconciliationTask) error {
			return assert.AnError
		}

		_, err := uc.Execute(context.Background(), paymentRequest(decimal.NewFromInt(200)))

		require.Error(t, err)
		assert.Empty(t, audit.entries, "no side effects after a failed write")
		assert.Empty(t, publisher.publishedEvents)
	})
}
