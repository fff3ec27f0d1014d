package model_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Romeo-CEO/intellifin-loan-management-system-sub008/internal/domain/model"
	"github.com/Romeo-CEO/intellifin-loan-management-system-sub008/internal/domain/valueobject"
)

var genTime = time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC)

// threeMonthSchedule builds 1200.00 at 12% over 3 months. The annuity payment
// is 408.03; installment 3 absorbs rounding and totals 408.02.
func threeMonthSchedule(t *testing.T) model.RepaymentSchedule {
	t.Helper()
	s, err := model.NewRepaymentSchedule(
		"loan-001", "client-001", "PL-STD",
		decimal.NewFromInt(1200), decimal.NewFromFloat(0.12), 3,
		time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
		"officer-1", "corr-1", genTime,
	)
	require.NoError(t, err)
	return s
}

func TestNewRepaymentSchedule_AnnuityTwelveMonths(t *testing.T) {
	// 12000.00 at 24% nominal annual over 12 months: monthly rate 2%,
	// fixed payment 1134.72.
	principal := decimal.NewFromInt(12000)
	firstDue := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)

	s, err := model.NewRepaymentSchedule(
		"loan-001", "client-001", "PL-STD",
		principal, decimal.NewFromFloat(0.24), 12,
		firstDue, "officer-1", "corr-1", genTime,
	)
	require.NoError(t, err)

	installments := s.Installments()
	require.Len(t, installments, 12)

	first := installments[0]
	assert.Equal(t, 1, first.Number)
	assert.Equal(t, firstDue, first.DueDate)
	assert.True(t, decimal.NewFromFloat(240.00).Equal(first.InterestDue),
		"first interest should be 240.00, got %s", first.InterestDue)
	assert.True(t, decimal.NewFromFloat(894.72).Equal(first.PrincipalDue),
		"first principal should be 894.72, got %s", first.PrincipalDue)
	assert.True(t, decimal.NewFromFloat(1134.72).Equal(first.TotalDue),
		"first payment should be 1134.72, got %s", first.TotalDue)

	// Due dates advance by one calendar month per installment.
	for i, inst := range installments {
		assert.Equal(t, firstDue.AddDate(0, i, 0), inst.DueDate)
		assert.True(t, inst.TotalDue.Equal(inst.PrincipalDue.Add(inst.InterestDue)))
		assert.True(t, inst.Status.Equal(valueobject.InstallmentStatusPending))
	}
	assert.Equal(t, firstDue.AddDate(0, 11, 0), s.MaturityDate())

	// Interest declines as the balance amortizes.
	for i := 1; i < len(installments); i++ {
		assert.True(t, installments[i].InterestDue.LessThan(installments[i-1].InterestDue),
			"interest should decline at installment %d", i+1)
	}

	// Principal portions sum exactly to the loan principal; the final
	// installment absorbs the rounding drift and clears the balance.
	totalPrincipal := decimal.Zero
	for _, inst := range installments {
		totalPrincipal = totalPrincipal.Add(inst.PrincipalDue)
	}
	assert.True(t, totalPrincipal.Equal(principal),
		"principal portions should sum to 12000.00 exactly, got %s", totalPrincipal)
	assert.True(t, installments[11].PrincipalBalance.Equal(decimal.Zero))
}

func TestNewRepaymentSchedule_ZeroRate(t *testing.T) {
	s, err := model.NewRepaymentSchedule(
		"loan-002", "client-001", "PL-STAFF",
		decimal.NewFromInt(1200), decimal.Zero, 12,
		time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		"officer-1", "corr-1", genTime,
	)
	require.NoError(t, err)

	for _, inst := range s.Installments() {
		assert.True(t, inst.InterestDue.Equal(decimal.Zero))
		assert.True(t, inst.PrincipalDue.Equal(decimal.NewFromInt(100)))
	}
	assert.True(t, s.OutstandingBalance().Equal(decimal.NewFromInt(1200)))
}

func TestNewRepaymentSchedule_Validation(t *testing.T) {
	firstDue := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name       string
		loanID     string
		principal  decimal.Decimal
		rate       decimal.Decimal
		termMonths int
	}{
		{"empty loan ID", "", decimal.NewFromInt(1000), decimal.NewFromFloat(0.1), 12},
		{"zero principal", "loan-001", decimal.Zero, decimal.NewFromFloat(0.1), 12},
		{"negative principal", "loan-001", decimal.NewFromInt(-50), decimal.NewFromFloat(0.1), 12},
		{"negative rate", "loan-001", decimal.NewFromInt(1000), decimal.NewFromFloat(-0.1), 12},
		{"zero term", "loan-001", decimal.NewFromInt(1000), decimal.NewFromFloat(0.1), 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := model.NewRepaymentSchedule(
				tc.loanID, "client-001", "PL-STD",
				tc.principal, tc.rate, tc.termMonths,
				firstDue, "officer-1", "corr-1", genTime,
			)
			assert.Error(t, err)
		})
	}
}

func TestAllocate_InterestBeforePrincipal(t *testing.T) {
	s := threeMonthSchedule(t)
	now := time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC)

	// 200.00 against installment 1 (interest 12.00, principal 396.03).
	updated, alloc := s.Allocate(decimal.NewFromInt(200), now)

	assert.True(t, decimal.NewFromFloat(12.00).Equal(alloc.InterestApplied),
		"interest applied should be 12.00, got %s", alloc.InterestApplied)
	assert.True(t, decimal.NewFromFloat(188.00).Equal(alloc.PrincipalApplied),
		"principal applied should be 188.00, got %s", alloc.PrincipalApplied)
	assert.True(t, alloc.Remainder.Equal(decimal.Zero))
	assert.Equal(t, []int{1}, alloc.Touched)
	assert.Equal(t, 0, alloc.SettledNumber)
	assert.False(t, alloc.RequiresReconciliation())

	first := updated.Installments()[0]
	assert.True(t, first.Status.Equal(valueobject.InstallmentStatusPartiallyPaid))
	assert.True(t, decimal.NewFromInt(200).Equal(first.TotalPaid))

	// The receiver is untouched.
	assert.True(t, s.Installments()[0].TotalPaid.Equal(decimal.Zero))
}

func TestAllocate_SettlesExactlyOneInstallment(t *testing.T) {
	s := threeMonthSchedule(t)
	now := time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC)

	updated, alloc := s.Allocate(decimal.NewFromFloat(408.03), now)

	assert.Equal(t, 1, alloc.SettledNumber)
	assert.Equal(t, []int{1}, alloc.Touched)
	assert.True(t, decimal.NewFromFloat(12.00).Equal(alloc.InterestApplied))
	assert.True(t, decimal.NewFromFloat(396.03).Equal(alloc.PrincipalApplied))

	first := updated.Installments()[0]
	assert.True(t, first.Status.Equal(valueobject.InstallmentStatusPaid))
	assert.Equal(t, 0, first.DaysPastDue)
}

func TestAllocate_SpillsAcrossInstallments(t *testing.T) {
	s := threeMonthSchedule(t)
	now := time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC)

	// 1000.00 settles installments 1 and 2 (408.03 each) and leaves 183.94
	// on installment 3.
	updated, alloc := s.Allocate(decimal.NewFromInt(1000), now)

	assert.Equal(t, []int{1, 2, 3}, alloc.Touched)
	// Two installments settled, so no single-settlement link is recorded.
	assert.Equal(t, 0, alloc.SettledNumber)
	assert.True(t, alloc.Applied.Equal(decimal.NewFromInt(1000)))
	assert.True(t, alloc.Remainder.Equal(decimal.Zero))

	installments := updated.Installments()
	assert.True(t, installments[0].Status.Equal(valueobject.InstallmentStatusPaid))
	assert.True(t, installments[1].Status.Equal(valueobject.InstallmentStatusPaid))
	assert.True(t, installments[2].Status.Equal(valueobject.InstallmentStatusPartiallyPaid))
	assert.True(t, decimal.NewFromFloat(183.94).Equal(installments[2].TotalPaid),
		"installment 3 should hold 183.94, got %s", installments[2].TotalPaid)
}

func TestAllocate_OverpaymentLeavesRemainder(t *testing.T) {
	s := threeMonthSchedule(t)
	now := time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC)

	// Total due over the life of the loan is 1224.08.
	updated, alloc := s.Allocate(decimal.NewFromInt(1300), now)

	assert.True(t, decimal.NewFromFloat(1224.08).Equal(alloc.Applied),
		"applied should be 1224.08, got %s", alloc.Applied)
	assert.True(t, decimal.NewFromFloat(75.92).Equal(alloc.Remainder),
		"remainder should be 75.92, got %s", alloc.Remainder)
	assert.True(t, alloc.RequiresReconciliation())
	assert.True(t, alloc.OutstandingAfter.Equal(decimal.Zero))

	for _, inst := range updated.Installments() {
		assert.True(t, inst.Status.Equal(valueobject.InstallmentStatusPaid))
		assert.True(t, inst.TotalPaid.Equal(inst.TotalDue), "paid must never exceed due")
	}
}

func TestAllocate_FullySettledLoanAbsorbsNothing(t *testing.T) {
	s := threeMonthSchedule(t)
	now := time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC)

	settled, _ := s.Allocate(decimal.NewFromFloat(1224.08), now)
	_, alloc := settled.Allocate(decimal.NewFromInt(50), now)

	assert.True(t, alloc.Applied.Equal(decimal.Zero))
	assert.True(t, alloc.Remainder.Equal(decimal.NewFromInt(50)))
	assert.True(t, alloc.RequiresReconciliation())
	assert.Empty(t, alloc.Touched)
}

func TestMarkArrears_ComputesDaysPastDue(t *testing.T) {
	s := threeMonthSchedule(t)

	// Due dates are Jan 15, Feb 15, Mar 15 2025.
	today := time.Date(2025, 4, 20, 3, 0, 0, 0, time.UTC)
	updated, maxDPD := s.MarkArrears(today)

	assert.Equal(t, 95, maxDPD)

	installments := updated.Installments()
	assert.Equal(t, 95, installments[0].DaysPastDue)
	assert.Equal(t, 64, installments[1].DaysPastDue)
	assert.Equal(t, 36, installments[2].DaysPastDue)
	for _, inst := range installments {
		assert.True(t, inst.Status.Equal(valueobject.InstallmentStatusOverdue))
	}
}

func TestMarkArrears_PaidInstallmentsStayClean(t *testing.T) {
	s := threeMonthSchedule(t)
	payday := time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC)

	// Settle installment 1, then run arrears well past every due date.
	paid, alloc := s.Allocate(decimal.NewFromFloat(408.03), payday)
	require.Equal(t, 1, alloc.SettledNumber)

	today := time.Date(2025, 4, 20, 3, 0, 0, 0, time.UTC)
	updated, maxDPD := paid.MarkArrears(today)

	installments := updated.Installments()
	assert.True(t, installments[0].Status.Equal(valueobject.InstallmentStatusPaid))
	assert.Equal(t, 0, installments[0].DaysPastDue)
	assert.Equal(t, 64, maxDPD, "max DPD should come from installment 2")
}

func TestMarkArrears_FutureDueDatesStayPending(t *testing.T) {
	s := threeMonthSchedule(t)

	today := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	updated, maxDPD := s.MarkArrears(today)

	assert.Equal(t, 0, maxDPD)
	for _, inst := range updated.Installments() {
		assert.True(t, inst.Status.Equal(valueobject.InstallmentStatusPending))
		assert.Equal(t, 0, inst.DaysPastDue)
	}
}

func TestMarkArrears_PartiallyPaidStaysPartiallyPaid(t *testing.T) {
	s := threeMonthSchedule(t)
	payday := time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC)

	partial, _ := s.Allocate(decimal.NewFromInt(200), payday)

	today := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	updated, maxDPD := partial.MarkArrears(today)

	first := updated.Installments()[0]
	assert.True(t, first.Status.Equal(valueobject.InstallmentStatusPartiallyPaid))
	assert.Equal(t, 17, first.DaysPastDue)
	assert.Equal(t, 17, maxDPD)
}

func TestOutstandingBalance(t *testing.T) {
	s := threeMonthSchedule(t)
	assert.True(t, decimal.NewFromFloat(1224.08).Equal(s.OutstandingBalance()),
		"outstanding should be 1224.08, got %s", s.OutstandingBalance())

	paid, _ := s.Allocate(decimal.NewFromInt(200), genTime)
	assert.True(t, decimal.NewFromFloat(1024.08).Equal(paid.OutstandingBalance()))
}

func TestInstallmentsByNumber(t *testing.T) {
	s := threeMonthSchedule(t)

	picked := s.InstallmentsByNumber([]int{3, 1})
	require.Len(t, picked, 2)
	assert.Equal(t, 1, picked[0].Number)
	assert.Equal(t, 3, picked[1].Number)
}
