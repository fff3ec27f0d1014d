package event

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Romeo-CEO/intellifin-loan-management-system-sub008/pkg/events"
)

// DomainEvent is an alias for the shared pkg/events.DomainEvent interface.
type DomainEvent = events.DomainEvent

// ---------------------------------------------------------------------------
// Schedule events
// ---------------------------------------------------------------------------

// ScheduleGenerated is raised when an amortization schedule is created for a
// newly disbursed loan.
type ScheduleGenerated struct {
	events.BaseEvent
	LoanID           string          `json:"loan_id"`
	ClientID         string          `json:"client_id"`
	Principal        decimal.Decimal `json:"principal"`
	AnnualRate       decimal.Decimal `json:"annual_rate"`
	TermMonths       int             `json:"term_months"`
	FirstPaymentDate time.Time       `json:"first_payment_date"`
	MaturityDate     time.Time       `json:"maturity_date"`
}

func NewScheduleGenerated(
	scheduleID, loanID, clientID string,
	principal, annualRate decimal.Decimal,
	termMonths int,
	firstPaymentDate, maturityDate time.Time,
	correlationID string, now time.Time,
) ScheduleGenerated {
	return ScheduleGenerated{
		BaseEvent:        events.NewBaseEvent("servicing.schedule.generated", scheduleID, "RepaymentSchedule", correlationID, now),
		LoanID:           loanID,
		ClientID:         clientID,
		Principal:        principal,
		AnnualRate:       annualRate,
		TermMonths:       termMonths,
		FirstPaymentDate: firstPaymentDate,
		MaturityDate:     maturityDate,
	}
}

// ---------------------------------------------------------------------------
// Payment events
// ---------------------------------------------------------------------------

// PaymentApplied is raised when a payment has been allocated across a loan's
// installments.
type PaymentApplied struct {
	events.BaseEvent
	LoanID             string          `json:"loan_id"`
	ClientID           string          `json:"client_id"`
	Reference          string          `json:"transaction_reference"`
	Amount             decimal.Decimal `json:"amount"`
	PrincipalPortion   decimal.Decimal `json:"principal_portion"`
	InterestPortion    decimal.Decimal `json:"interest_portion"`
	OutstandingBalance decimal.Decimal `json:"outstanding_balance"`
}

func NewPaymentApplied(
	transactionID, loanID, clientID, reference string,
	amount, principalPortion, interestPortion, outstandingBalance decimal.Decimal,
	correlationID string, now time.Time,
) PaymentApplied {
	return PaymentApplied{
		BaseEvent:          events.NewBaseEvent("servicing.payment.applied", transactionID, "PaymentTransaction", correlationID, now),
		LoanID:             loanID,
		ClientID:           clientID,
		Reference:          reference,
		Amount:             amount,
		PrincipalPortion:   principalPortion,
		InterestPortion:    interestPortion,
		OutstandingBalance: outstandingBalance,
	}
}

// OverpaymentDetected is raised alongside PaymentApplied when a payment
// exceeded the loan's total outstanding and a reconciliation task was opened.
type OverpaymentDetected struct {
	events.BaseEvent
	TransactionID string          `json:"transaction_id"`
	LoanID        string          `json:"loan_id"`
	Expected      decimal.Decimal `json:"expected_amount"`
	Actual        decimal.Decimal `json:"actual_amount"`
	Variance      decimal.Decimal `json:"variance"`
}

func NewOverpaymentDetected(
	taskID, transactionID, loanID string,
	expected, actual, variance decimal.Decimal,
	correlationID string, now time.Time,
) OverpaymentDetected {
	return OverpaymentDetected{
		BaseEvent:     events.NewBaseEvent("servicing.payment.overpayment_detected", taskID, "ReconciliationTask", correlationID, now),
		TransactionID: transactionID,
		LoanID:        loanID,
		Expected:      expected,
		Actual:        actual,
		Variance:      variance,
	}
}

// ---------------------------------------------------------------------------
// Classification events
// ---------------------------------------------------------------------------

// LoanClassified is raised when a loan moves to a different delinquency
// bucket. Unchanged evaluations raise nothing.
type LoanClassified struct {
	events.BaseEvent
	LoanID             string          `json:"loan_id"`
	Previous           string          `json:"previous_classification"`
	Current            string          `json:"new_classification"`
	DaysPastDue        int             `json:"days_past_due"`
	OutstandingBalance decimal.Decimal `json:"outstanding_balance"`
	ProvisionAmount    decimal.Decimal `json:"provision_amount"`
	NonAccrual         bool            `json:"non_accrual"`
}

func NewLoanClassified(
	recordID, loanID, previous, current string,
	daysPastDue int,
	outstandingBalance, provisionAmount decimal.Decimal,
	nonAccrual bool,
	correlationID string, now time.Time,
) LoanClassified {
	return LoanClassified{
		BaseEvent:          events.NewBaseEvent("servicing.loan.classified", recordID, "ArrearsClassificationRecord", correlationID, now),
		LoanID:             loanID,
		Previous:           previous,
		Current:            current,
		DaysPastDue:        daysPastDue,
		OutstandingBalance: outstandingBalance,
		ProvisionAmount:    provisionAmount,
		NonAccrual:         nonAccrual,
	}
}
