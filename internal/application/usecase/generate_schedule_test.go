package usecase_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
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
)

// --- Mock implementations ---

// The batch pass exercises these mocks from several goroutines, so every
// recording append is guarded.

type mockScheduleRepository struct {
	mu               sync.Mutex
	saveFunc         func(ctx context.Context, schedule model.RepaymentSchedule) error
	findByLoanIDFunc func(ctx context.Context, loanID string) (model.RepaymentSchedule, error)
	listLoanIDsFunc  func(ctx context.Context) ([]string, error)
	savedSchedules   []model.RepaymentSchedule
}

func (m *mockScheduleRepository) Save(ctx context.Context, schedule model.RepaymentSchedule) error {
	if m.saveFunc != nil {
		return m.saveFunc(ctx, schedule)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.savedSchedules = append(m.savedSchedules, schedule)
	return nil
}

func (m *mockScheduleRepository) FindByLoanID(ctx context.Context, loanID string) (model.RepaymentSchedule, error) {
	if m.findByLoanIDFunc != nil {
		return m.findByLoanIDFunc(ctx, loanID)
	}
	return model.RepaymentSchedule{}, port.ErrScheduleNotFound
}

func (m *mockScheduleRepository) ListLoanIDs(ctx context.Context) ([]string, error) {
	if m.listLoanIDsFunc != nil {
		return m.listLoanIDsFunc(ctx)
	}
	return nil, nil
}

type savedAllocation struct {
	txn          model.PaymentTransaction
	installments []model.Installment
	task         *model.ReconciliationTask
}

type mockPaymentRepository struct {
	mu                  sync.Mutex
	saveAllocationFunc  func(ctx context.Context, txn model.PaymentTransaction, installments []model.Installment, task *model.ReconciliationTask) error
	findByReferenceFunc func(ctx context.Context, reference string) (model.PaymentTransaction, error)
	savedAllocations    []savedAllocation
}

func (m *mockPaymentRepository) SaveAllocation(ctx context.Context, txn model.PaymentTransaction, installments []model.Installment, task *model.ReconciliationTask) error {
	if m.saveAllocationFunc != nil {
		return m.saveAllocationFunc(ctx, txn, installments, task)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.savedAllocations = append(m.savedAllocations, savedAllocation{txn: txn, installments: installments, task: task})
	return nil
}

func (m *mockPaymentRepository) FindByReference(ctx context.Context, reference string) (model.PaymentTransaction, error) {
	if m.findByReferenceFunc != nil {
		return m.findByReferenceFunc(ctx, reference)
	}
	return model.PaymentTransaction{}, port.ErrTransactionNotFound
}

func (m *mockPaymentRepository) ListByLoanID(_ context.Context, _ string) ([]model.PaymentTransaction, error) {
	return nil, nil
}

func (m *mockPaymentRepository) ListOpenTasksByLoanID(_ context.Context, _ string) ([]model.ReconciliationTask, error) {
	return nil, nil
}

type savedClassification struct {
	record       model.ArrearsClassificationRecord
	loanID       string
	installments []model.Installment
}

type mockClassificationRepository struct {
	mu                     sync.Mutex
	saveClassificationFunc func(ctx context.Context, record model.ArrearsClassificationRecord, loanID string, installments []model.Installment) error
	findLatestFunc         func(ctx context.Context, loanID string) (model.ArrearsClassificationRecord, error)
	savedClassifications   []savedClassification
}

func (m *mockClassificationRepository) SaveClassification(ctx context.Context, record model.ArrearsClassificationRecord, loanID string, installments []model.Installment) error {
	if m.saveClassificationFunc != nil {
		return m.saveClassificationFunc(ctx, record, loanID, installments)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.savedClassifications = append(m.savedClassifications, savedClassification{record: record, loanID: loanID, installments: installments})
	return nil
}

func (m *mockClassificationRepository) FindLatestByLoanID(ctx context.Context, loanID string) (model.ArrearsClassificationRecord, error) {
	if m.findLatestFunc != nil {
		return m.findLatestFunc(ctx, loanID)
	}
	return model.ArrearsClassificationRecord{}, port.ErrNoClassification
}

func (m *mockClassificationRepository) ListByLoanID(_ context.Context, _ string) ([]model.ArrearsClassificationRecord, error) {
	return nil, nil
}

type mockEventPublisher struct {
	mu              sync.Mutex
	publishFunc     func(ctx context.Context, events ...event.DomainEvent) error
	publishedEvents []event.DomainEvent
}

func (m *mockEventPublisher) Publish(ctx context.Context, evts ...event.DomainEvent) error {
	if m.publishFunc != nil {
		return m.publishFunc(ctx, evts...)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.publishedEvents = append(m.publishedEvents, evts...)
	return nil
}

type mockAuditSink struct {
	mu           sync.Mutex
	logEventFunc func(ctx context.Context, entry port.AuditEntry) error
	entries      []port.AuditEntry
}

func (m *mockAuditSink) LogEvent(ctx context.Context, entry port.AuditEntry) error {
	if m.logEventFunc != nil {
		return m.logEventFunc(ctx, entry)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, entry)
	return nil
}

type mockNotificationSink struct {
	mu            sync.Mutex
	notifyFunc    func(ctx context.Context, n port.Notification) error
	notifications []port.Notification
}

func (m *mockNotificationSink) Notify(ctx context.Context, n port.Notification) error {
	if m.notifyFunc != nil {
		return m.notifyFunc(ctx, n)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notifications = append(m.notifications, n)
	return nil
}

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// testSchedule builds 1200.00 at 12% over 3 months due from Jan 15 2025.
func testSchedule(t *testing.T) model.RepaymentSchedule {
	t.Helper()
	s, err := model.NewRepaymentSchedule(
		"loan-001", "client-001", "PL-STD",
		decimal.NewFromInt(1200), decimal.NewFromFloat(0.12), 3,
		time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
		"officer-1", "corr-1",
		time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)
	return s
}

// --- GenerateScheduleUseCase ---

func TestGenerateSchedule_Execute(t *testing.T) {
	clock := fixedClock{now: time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC)}

	validRequest := func() dto.GenerateScheduleRequest {
		return dto.GenerateScheduleRequest{
			LoanID:           "loan-001",
			ClientID:         "client-001",
			ProductCode:      "PL-STD",
			Principal:        decimal.NewFromInt(12000),
			AnnualRate:       decimal.NewFromFloat(0.24),
			TermMonths:       12,
			FirstPaymentDate: time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
			Actor:            "officer-1",
			CorrelationID:    "corr-1",
		}
	}

	t.Run("generates and persists a schedule", func(t *testing.T) {
		scheduleRepo := &mockScheduleRepository{}
		publisher := &mockEventPublisher{}
		audit := &mockAuditSink{}

		uc := usecase.NewGenerateScheduleUseCase(scheduleRepo, publisher, audit, clock, testLogger())

		resp, err := uc.Execute(context.Background(), validRequest())

		require.NoError(t, err)
		assert.Equal(t, "loan-001", resp.LoanID)
		assert.False(t, resp.AlreadyExisted)
		require.Len(t, resp.Installments, 12)
		assert.True(t, decimal.NewFromFloat(1134.72).Equal(resp.Installments[0].TotalDue),
			"first payment should be 1134.72, got %s", resp.Installments[0].TotalDue)

		require.Len(t, scheduleRepo.savedSchedules, 1)
		require.Len(t, audit.entries, 1)
		assert.Equal(t, "SCHEDULE_GENERATED", audit.entries[0].Action)
		require.Len(t, publisher.publishedEvents, 1)
		assert.Equal(t, "servicing.schedule.generated", publisher.publishedEvents[0].EventType())
	})

	t.Run("returns the existing schedule without writing", func(t *testing.T) {
		existing := testSchedule(t)
		scheduleRepo := &mockScheduleRepository{
			findByLoanIDFunc: func(ctx context.Context, loanID string) (model.RepaymentSchedule, error) {
				return existing, nil
			},
		}
		publisher := &mockEventPublisher{}
		audit := &mockAuditSink{}

		uc := usecase.NewGenerateScheduleUseCase(scheduleRepo, publisher, audit, clock, testLogger())

		resp, err := uc.Execute(context.Background(), validRequest())

		require.NoError(t, err)
		assert.True(t, resp.AlreadyExisted)
		assert.Equal(t, existing.ID(), resp.ScheduleID)
		assert.Empty(t, scheduleRepo.savedSchedules)
		assert.Empty(t, audit.entries)
		assert.Empty(t, publisher.publishedEvents)
	})

	t.Run("rejects invalid input", func(t *testing.T) {
		scheduleRepo := &mockScheduleRepository{}
		uc := usecase.NewGenerateScheduleUseCase(scheduleRepo, &mockEventPublisher{}, &mockAuditSink{}, clock, testLogger())

		req := validRequest()
		req.Principal = decimal.Zero
		_, err := uc.Execute(context.Background(), req)

		require.Error(t, err)
		assert.ErrorIs(t, err, port.ErrValidation)
		assert.Empty(t, scheduleRepo.savedSchedules)
	})

	t.Run("succeeds even when side effects fail", func(t *testing.T) {
		scheduleRepo := &mockScheduleRepository{}
		publisher := &mockEventPublisher{
			publishFunc: func(ctx context.Context, events ...event.DomainEvent) error {
				return assert.AnError
			},
		}
		audit := &mockAuditSink{
			logEventFunc: func(ctx context.Context, entry port.AuditEntry) error {
				return assert.AnError
			},
		}

		uc := usecase.NewGenerateScheduleUseCase(scheduleRepo, publisher, audit, clock, testLogger())

		resp, err := uc.Execute(context.Background(), validRequest())

		require.NoError(t, err)
		assert.False(t, resp.AlreadyExisted)
		require.Len(t, scheduleRepo.savedSchedules, 1)
	})
}
