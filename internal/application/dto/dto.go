package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// Requests
// ---------------------------------------------------------------------------

// GenerateScheduleRequest asks for an amortization schedule for a newly
// disbursed loan.
type GenerateScheduleRequest struct {
	LoanID           string
	ClientID         string
	ProductCode      string
	Principal        decimal.Decimal
	AnnualRate       decimal.Decimal
	TermMonths       int
	FirstPaymentDate time.Time
	Actor            string
	CorrelationID    string
}

// ApplyPaymentRequest applies one received payment against a loan.
type ApplyPaymentRequest struct {
	LoanID               string
	ClientID             string
	TransactionReference string
	Method               string
	Source               string
	Amount               decimal.Decimal
	TransactionDate      time.Time
	ExternalReference    string
	Notes                string
	Actor                string
	CorrelationID        string
}

// ClassifyLoanRequest evaluates one loan's delinquency bucket.
type ClassifyLoanRequest struct {
	LoanID        string
	Actor         string
	CorrelationID string
}

// ClassifyAllLoansRequest runs the classification pass over the loan book.
type ClassifyAllLoansRequest struct {
	Actor         string
	CorrelationID string
}

// GetScheduleRequest retrieves a loan's schedule with installments.
type GetScheduleRequest struct {
	LoanID string
}

// GetPaymentHistoryRequest retrieves all payments recorded for a loan.
type GetPaymentHistoryRequest struct {
	LoanID string
}

// GetClassificationHistoryRequest retrieves a loan's classification ledger.
type GetClassificationHistoryRequest struct {
	LoanID string
}

// ---------------------------------------------------------------------------
// Responses
// ---------------------------------------------------------------------------

// InstallmentView is the read model of one installment.
type InstallmentView struct {
	Number           int             `json:"number"`
	DueDate          time.Time       `json:"due_date"`
	PrincipalDue     decimal.Decimal `json:"principal_due"`
	InterestDue      decimal.Decimal `json:"interest_due"`
	TotalDue         decimal.Decimal `json:"total_due"`
	PrincipalPaid    decimal.Decimal `json:"principal_paid"`
	InterestPaid     decimal.Decimal `json:"interest_paid"`
	TotalPaid        decimal.Decimal `json:"total_paid"`
	PrincipalBalance decimal.Decimal `json:"principal_balance"`
	Status           string          `json:"status"`
	DaysPastDue      int             `json:"days_past_due"`
}

// ScheduleResponse is the read model of a repayment schedule.
type ScheduleResponse struct {
	ScheduleID       string            `json:"schedule_id"`
	LoanID           string            `json:"loan_id"`
	ClientID         string            `json:"client_id"`
	ProductCode      string            `json:"product_code"`
	Principal        decimal.Decimal   `json:"principal"`
	AnnualRate       decimal.Decimal   `json:"annual_rate"`
	TermMonths       int               `json:"term_months"`
	FirstPaymentDate time.Time         `json:"first_payment_date"`
	MaturityDate     time.Time         `json:"maturity_date"`
	Installments     []InstallmentView `json:"installments"`
	// AlreadyExisted is true when generation found an existing schedule and
	// returned it unchanged.
	AlreadyExisted bool `json:"already_existed,omitempty"`
}

// PaymentResponse reports the outcome of a payment application.
type PaymentResponse struct {
	TransactionID        string          `json:"transaction_id"`
	LoanID               string          `json:"loan_id"`
	TransactionReference string          `json:"transaction_reference"`
	Status               string          `json:"status"`
	Amount               decimal.Decimal `json:"amount"`
	PrincipalPortion     decimal.Decimal `json:"principal_portion"`
	InterestPortion      decimal.Decimal `json:"interest_portion"`
	OutstandingBalance   decimal.Decimal `json:"outstanding_balance"`
	ReconciliationTaskID string          `json:"reconciliation_task_id,omitempty"`
	// Duplicate is true when the transaction reference was already processed
	// and the original transaction is returned untouched.
	Duplicate bool `json:"duplicate,omitempty"`
}

// ClassificationResponse reports one classification evaluation.
type ClassificationResponse struct {
	LoanID             string          `json:"loan_id"`
	Classification     string          `json:"classification"`
	Previous           string          `json:"previous_classification"`
	Changed            bool            `json:"changed"`
	DaysPastDue        int             `json:"days_past_due"`
	OutstandingBalance decimal.Decimal `json:"outstanding_balance"`
	ProvisionRate      decimal.Decimal `json:"provision_rate"`
	ProvisionAmount    decimal.Decimal `json:"provision_amount"`
	NonAccrual         bool            `json:"non_accrual"`
}

// LoanFailure records one loan the batch could not classify.
type LoanFailure struct {
	LoanID string `json:"loan_id"`
	Error  string `json:"error"`
}

// ClassifyAllLoansResponse summarises a batch run. Classified counts loans
// whose evaluation completed, whether or not the bucket changed.
type ClassifyAllLoansResponse struct {
	Visited    int           `json:"visited"`
	Classified int           `json:"classified"`
	Changed    int           `json:"changed"`
	Failures   []LoanFailure `json:"failures,omitempty"`
}

// PaymentHistoryEntry is the read model of one recorded payment.
type PaymentHistoryEntry struct {
	TransactionID        string          `json:"transaction_id"`
	TransactionReference string          `json:"transaction_reference"`
	Method               string          `json:"method"`
	Source               string          `json:"source"`
	Amount               decimal.Decimal `json:"amount"`
	PrincipalPortion     decimal.Decimal `json:"principal_portion"`
	InterestPortion      decimal.Decimal `json:"interest_portion"`
	TransactionDate      time.Time       `json:"transaction_date"`
	ReceivedAt           time.Time       `json:"received_at"`
	Status               string          `json:"status"`
	Reconciled           bool            `json:"reconciled"`
}

// PaymentHistoryResponse lists a loan's payments, newest first.
type PaymentHistoryResponse struct {
	LoanID   string                `json:"loan_id"`
	Payments []PaymentHistoryEntry `json:"payments"`
}

// ClassificationHistoryEntry is the read model of one ledger row.
type ClassificationHistoryEntry struct {
	RecordID           string          `json:"record_id"`
	Previous           string          `json:"previous_classification"`
	Current            string          `json:"new_classification"`
	DaysPastDue        int             `json:"days_past_due"`
	OutstandingBalance decimal.Decimal `json:"outstanding_balance"`
	ProvisionRate      decimal.Decimal `json:"provision_rate"`
	ProvisionAmount    decimal.Decimal `json:"provision_amount"`
	NonAccrual         bool            `json:"non_accrual"`
	ClassifiedAt       time.Time       `json:"classified_at"`
	ClassifiedBy       string          `json:"classified_by"`
	Reason             string          `json:"reason"`
}

// ClassificationHistoryResponse lists a loan's ledger, newest first.
type ClassificationHistoryResponse struct {
	LoanID  string                       `json:"loan_id"`
	Records []ClassificationHistoryEntry `json:"records"`
}
