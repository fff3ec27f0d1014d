package model

import (
	"errors"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Romeo-CEO/intellifin-loan-management-system-sub008/internal/domain/valueobject"
)

// overpaymentEpsilon is the largest unapplied remainder tolerated before a
// payment is flagged for reconciliation.
var overpaymentEpsilon = decimal.NewFromFloat(0.01)

// ---------------------------------------------------------------------------
// Installment entity
// ---------------------------------------------------------------------------

// Installment is one period of a repayment schedule. Number is strictly
// increasing from 1 and unique within a schedule. TotalPaid never exceeds
// TotalDue.
type Installment struct {
	Number           int
	DueDate          time.Time
	PrincipalDue     decimal.Decimal
	InterestDue      decimal.Decimal
	TotalDue         decimal.Decimal
	PrincipalPaid    decimal.Decimal
	InterestPaid     decimal.Decimal
	TotalPaid        decimal.Decimal
	PrincipalBalance decimal.Decimal
	Status           valueobject.InstallmentStatus
	DaysPastDue      int
	UpdatedAt        time.Time
}

// Outstanding returns the unpaid portion of this installment.
func (i Installment) Outstanding() decimal.Decimal {
	return i.TotalDue.Sub(i.TotalPaid)
}

// statusFor derives installment status from paid amounts and the due date.
// Paid wins over everything; a partially funded installment stays
// PARTIALLY_PAID even past its due date.
func statusFor(totalPaid, totalDue decimal.Decimal, dueDate, today time.Time) valueobject.InstallmentStatus {
	switch {
	case totalPaid.GreaterThanOrEqual(totalDue):
		return valueobject.InstallmentStatusPaid
	case totalPaid.GreaterThan(decimal.Zero):
		return valueobject.InstallmentStatusPartiallyPaid
	case daysBetween(dueDate, today) > 0:
		return valueobject.InstallmentStatusOverdue
	default:
		return valueobject.InstallmentStatusPending
	}
}

// daysBetween returns the whole days from due until today, comparing calendar
// dates in UTC. Negative when due lies in the future.
func daysBetween(due, today time.Time) int {
	d := atMidnightUTC(today).Sub(atMidnightUTC(due))
	return int(d.Hours() / 24)
}

func atMidnightUTC(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// ---------------------------------------------------------------------------
// RepaymentSchedule aggregate root
// ---------------------------------------------------------------------------

// RepaymentSchedule is an immutable aggregate owning the ordered sequence of
// installments for one loan. Mutations return a new copy. Exactly one
// schedule exists per loan.
type RepaymentSchedule struct {
	id               string
	loanID           string
	clientID         string
	productCode      string
	principal        decimal.Decimal
	annualRate       decimal.Decimal
	termMonths       int
	firstPaymentDate time.Time
	maturityDate     time.Time
	generatedAt      time.Time
	generatedBy      string
	correlationID    string
	installments     []Installment
}

// NewRepaymentSchedule validates inputs and generates the amortization
// schedule for a freshly disbursed loan.
//
// The fixed monthly payment follows the standard annuity formula
//
//	payment = P * r * (1+r)^n / ((1+r)^n - 1)    with r = annualRate/12,
//
// falling back to an even split when r is zero. All monetary amounts are
// rounded to 2 decimal places with decimal.Round (round half away from
// zero); the final installment's principal absorbs accumulated rounding
// drift so that the principal portions sum exactly to the loan principal.
func NewRepaymentSchedule(
	loanID, clientID, productCode string,
	principal, annualRate decimal.Decimal,
	termMonths int,
	firstPaymentDate time.Time,
	generatedBy, correlationID string,
	now time.Time,
) (RepaymentSchedule, error) {
	if loanID == "" {
		return RepaymentSchedule{}, errors.New("loan ID is required")
	}
	if clientID == "" {
		return RepaymentSchedule{}, errors.New("client ID is required")
	}
	if principal.LessThanOrEqual(decimal.Zero) {
		return RepaymentSchedule{}, errors.New("principal must be positive")
	}
	if annualRate.IsNegative() {
		return RepaymentSchedule{}, errors.New("annual rate must not be negative")
	}
	if termMonths < 1 {
		return RepaymentSchedule{}, errors.New("term months must be at least 1")
	}
	if firstPaymentDate.IsZero() {
		return RepaymentSchedule{}, errors.New("first payment date is required")
	}

	installments := buildInstallments(principal, annualRate, termMonths, firstPaymentDate, now)

	return RepaymentSchedule{
		id:               uuid.New().String(),
		loanID:           loanID,
		clientID:         clientID,
		productCode:      productCode,
		principal:        principal,
		annualRate:       annualRate,
		termMonths:       termMonths,
		firstPaymentDate: firstPaymentDate,
		maturityDate:     installments[len(installments)-1].DueDate,
		generatedAt:      now,
		generatedBy:      generatedBy,
		correlationID:    correlationID,
		installments:     installments,
	}, nil
}

// ReconstructRepaymentSchedule rebuilds a schedule from persistence.
func ReconstructRepaymentSchedule(
	id, loanID, clientID, productCode string,
	principal, annualRate decimal.Decimal,
	termMonths int,
	firstPaymentDate, maturityDate, generatedAt time.Time,
	generatedBy, correlationID string,
	installments []Installment,
) RepaymentSchedule {
	return RepaymentSchedule{
		id:               id,
		loanID:           loanID,
		clientID:         clientID,
		productCode:      productCode,
		principal:        principal,
		annualRate:       annualRate,
		termMonths:       termMonths,
		firstPaymentDate: firstPaymentDate,
		maturityDate:     maturityDate,
		generatedAt:      generatedAt,
		generatedBy:      generatedBy,
		correlationID:    correlationID,
		installments:     installments,
	}
}

func buildInstallments(
	principal, annualRate decimal.Decimal,
	termMonths int,
	firstPaymentDate time.Time,
	now time.Time,
) []Installment {
	monthlyRate := annualRate.Div(decimal.NewFromInt(12))

	var payment decimal.Decimal
	if monthlyRate.IsZero() {
		payment = principal.Div(decimal.NewFromInt(int64(termMonths))).Round(2)
	} else {
		// The power term uses float64; monetary arithmetic stays decimal.
		r := monthlyRate.InexactFloat64()
		factor := math.Pow(1+r, float64(termMonths))
		payment = decimal.NewFromFloat(principal.InexactFloat64() * r * factor / (factor - 1)).Round(2)
	}

	installments := make([]Installment, 0, termMonths)
	remaining := principal

	for number := 1; number <= termMonths; number++ {
		dueDate := firstPaymentDate.AddDate(0, number-1, 0)

		interest := remaining.Mul(monthlyRate).Round(2)
		principalPart := payment.Sub(interest)

		// Final installment clears the remaining balance exactly.
		if number == termMonths {
			principalPart = remaining
		}

		remaining = remaining.Sub(principalPart)
		if remaining.IsNegative() {
			remaining = decimal.Zero
		}

		installments = append(installments, Installment{
			Number:           number,
			DueDate:          dueDate,
			PrincipalDue:     principalPart,
			InterestDue:      interest,
			TotalDue:         principalPart.Add(interest),
			PrincipalPaid:    decimal.Zero,
			InterestPaid:     decimal.Zero,
			TotalPaid:        decimal.Zero,
			PrincipalBalance: remaining,
			Status:           valueobject.InstallmentStatusPending,
			UpdatedAt:        now,
		})
	}

	return installments
}

// ---------------------------------------------------------------------------
// Payment allocation
// ---------------------------------------------------------------------------

// Allocation summarises how a single payment was applied across installments.
type Allocation struct {
	InterestApplied  decimal.Decimal
	PrincipalApplied decimal.Decimal
	Applied          decimal.Decimal
	Remainder        decimal.Decimal
	OutstandingAfter decimal.Decimal
	Touched          []int
	// SettledNumber is the installment fully settled by this payment when
	// exactly one was; zero otherwise.
	SettledNumber int
}

// RequiresReconciliation reports whether the unapplied remainder exceeds the
// tolerated epsilon and must be routed to a reconciliation task.
func (a Allocation) RequiresReconciliation() bool {
	return a.Remainder.GreaterThan(overpaymentEpsilon)
}

// Allocate applies a payment amount against unpaid installments in ascending
// installment-number order, interest before principal within each one. It
// returns a copy of the schedule with updated paid amounts and statuses plus
// the allocation breakdown. TotalPaid never exceeds TotalDue on any
// installment; whatever cannot be absorbed is reported as Remainder.
func (s RepaymentSchedule) Allocate(amount decimal.Decimal, now time.Time) (RepaymentSchedule, Allocation) {
	next := s
	next.installments = make([]Installment, len(s.installments))
	copy(next.installments, s.installments)

	alloc := Allocation{
		InterestApplied:  decimal.Zero,
		PrincipalApplied: decimal.Zero,
		Applied:          decimal.Zero,
		Remainder:        decimal.Zero,
	}

	remaining := amount
	var settled []int

	for idx := range next.installments {
		if !remaining.GreaterThan(decimal.Zero) {
			break
		}

		inst := &next.installments[idx]
		outstanding := inst.Outstanding()
		if !outstanding.GreaterThan(decimal.Zero) {
			continue
		}

		portion := decimal.Min(remaining, outstanding)
		interestPortion := decimal.Min(portion, inst.InterestDue.Sub(inst.InterestPaid))
		principalPortion := portion.Sub(interestPortion)

		inst.InterestPaid = inst.InterestPaid.Add(interestPortion)
		inst.PrincipalPaid = inst.PrincipalPaid.Add(principalPortion)
		inst.TotalPaid = inst.TotalPaid.Add(portion)
		inst.Status = statusFor(inst.TotalPaid, inst.TotalDue, inst.DueDate, now)
		if inst.Status.IsSettled() {
			inst.DaysPastDue = 0
			settled = append(settled, inst.Number)
		}
		inst.UpdatedAt = now

		remaining = remaining.Sub(portion)
		alloc.InterestApplied = alloc.InterestApplied.Add(interestPortion)
		alloc.PrincipalApplied = alloc.PrincipalApplied.Add(principalPortion)
		alloc.Applied = alloc.Applied.Add(portion)
		alloc.Touched = append(alloc.Touched, inst.Number)
	}

	alloc.Remainder = remaining
	alloc.OutstandingAfter = next.OutstandingBalance()
	if len(settled) == 1 {
		alloc.SettledNumber = settled[0]
	}

	return next, alloc
}

// ---------------------------------------------------------------------------
// Arrears
// ---------------------------------------------------------------------------

// MarkArrears recomputes days-past-due for every unpaid installment as of
// today, flipping PENDING to OVERDUE where due. Settled installments stay
// PAID with zero days past due regardless of their due date. It returns the
// updated copy and the maximum days-past-due across unpaid installments.
func (s RepaymentSchedule) MarkArrears(today time.Time) (RepaymentSchedule, int) {
	next := s
	next.installments = make([]Installment, len(s.installments))
	copy(next.installments, s.installments)

	maxDPD := 0
	for idx := range next.installments {
		inst := &next.installments[idx]

		if inst.Status.IsSettled() {
			inst.DaysPastDue = 0
			continue
		}

		dpd := daysBetween(inst.DueDate, today)
		if dpd < 0 {
			dpd = 0
		}
		if dpd != inst.DaysPastDue || dpd > 0 {
			inst.DaysPastDue = dpd
			inst.Status = statusFor(inst.TotalPaid, inst.TotalDue, inst.DueDate, today)
			inst.UpdatedAt = today
		}
		if dpd > maxDPD {
			maxDPD = dpd
		}
	}

	return next, maxDPD
}

// OutstandingBalance returns the unpaid remainder summed over all
// installments.
func (s RepaymentSchedule) OutstandingBalance() decimal.Decimal {
	total := decimal.Zero
	for _, inst := range s.installments {
		total = total.Add(inst.Outstanding())
	}
	return total
}

// ---------------------------------------------------------------------------
// Accessors
// ---------------------------------------------------------------------------

func (s RepaymentSchedule) ID() string                  { return s.id }
func (s RepaymentSchedule) LoanID() string              { return s.loanID }
func (s RepaymentSchedule) ClientID() string            { return s.clientID }
func (s RepaymentSchedule) ProductCode() string         { return s.productCode }
func (s RepaymentSchedule) Principal() decimal.Decimal  { return s.principal }
func (s RepaymentSchedule) AnnualRate() decimal.Decimal { return s.annualRate }
func (s RepaymentSchedule) TermMonths() int             { return s.termMonths }
func (s RepaymentSchedule) FirstPaymentDate() time.Time { return s.firstPaymentDate }
func (s RepaymentSchedule) MaturityDate() time.Time     { return s.maturityDate }
func (s RepaymentSchedule) GeneratedAt() time.Time      { return s.generatedAt }
func (s RepaymentSchedule) GeneratedBy() string         { return s.generatedBy }
func (s RepaymentSchedule) CorrelationID() string       { return s.correlationID }

// Installments returns a defensive copy of the installment sequence.
func (s RepaymentSchedule) Installments() []Installment {
	if s.installments == nil {
		return nil
	}
	out := make([]Installment, len(s.installments))
	copy(out, s.installments)
	return out
}

// InstallmentsByNumber returns copies of the installments with the given
// numbers, preserving ascending order.
func (s RepaymentSchedule) InstallmentsByNumber(numbers []int) []Installment {
	wanted := make(map[int]struct{}, len(numbers))
	for _, n := range numbers {
		wanted[n] = struct{}{}
	}
	var out []Installment
	for _, inst := range s.installments {
		if _, ok := wanted[inst.Number]; ok {
			out = append(out, inst)
		}
	}
	return out
}
