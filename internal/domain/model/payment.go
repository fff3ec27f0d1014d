package model

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Romeo-CEO/intellifin-loan-management-system-sub008/internal/domain/valueobject"
)

// ---------------------------------------------------------------------------
// PaymentTransaction entity
// ---------------------------------------------------------------------------

// PaymentTransaction records one received payment and how it was split
// across principal and interest. The transaction reference is the natural
// idempotency key and is globally unique. Once created a transaction is
// immutable except for the reconciliation fields.
type PaymentTransaction struct {
	id                 string
	loanID             string
	clientID           string
	reference          string
	method             string
	source             string
	amount             decimal.Decimal
	transactionDate    time.Time
	receivedAt         time.Time
	status             valueobject.PaymentTransactionStatus
	principalPortion   decimal.Decimal
	interestPortion    decimal.Decimal
	settledInstallment int
	externalReference  string
	notes              string
	createdBy          string
	correlationID      string
	reconciled         bool
	reconciledAt       time.Time
	reconciledBy       string
}

// NewPaymentTransaction creates a confirmed transaction for an allocated
// payment. settledInstallment is zero unless the payment fully settled
// exactly one installment.
func NewPaymentTransaction(
	loanID, clientID, reference, method, source string,
	amount decimal.Decimal,
	transactionDate time.Time,
	principalPortion, interestPortion decimal.Decimal,
	settledInstallment int,
	externalReference, notes, createdBy, correlationID string,
	now time.Time,
) (PaymentTransaction, error) {
	if loanID == "" {
		return PaymentTransaction{}, errors.New("loan ID is required")
	}
	if reference == "" {
		return PaymentTransaction{}, errors.New("transaction reference is required")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return PaymentTransaction{}, errors.New("amount must be positive")
	}

	return PaymentTransaction{
		id:                 uuid.New().String(),
		loanID:             loanID,
		clientID:           clientID,
		reference:          reference,
		method:             method,
		source:             source,
		amount:             amount,
		transactionDate:    transactionDate,
		receivedAt:         now,
		status:             valueobject.PaymentTransactionStatusConfirmed,
		principalPortion:   principalPortion,
		interestPortion:    interestPortion,
		settledInstallment: settledInstallment,
		externalReference:  externalReference,
		notes:              notes,
		createdBy:          createdBy,
		correlationID:      correlationID,
	}, nil
}

// ReconstructPaymentTransaction rebuilds a transaction from persistence.
func ReconstructPaymentTransaction(
	id, loanID, clientID, reference, method, source string,
	amount decimal.Decimal,
	transactionDate, receivedAt time.Time,
	status valueobject.PaymentTransactionStatus,
	principalPortion, interestPortion decimal.Decimal,
	settledInstallment int,
	externalReference, notes, createdBy, correlationID string,
	reconciled bool,
	reconciledAt time.Time,
	reconciledBy string,
) PaymentTransaction {
	return PaymentTransaction{
		id:                 id,
		loanID:             loanID,
		clientID:           clientID,
		reference:          reference,
		method:             method,
		source:             source,
		amount:             amount,
		transactionDate:    transactionDate,
		receivedAt:         receivedAt,
		status:             status,
		principalPortion:   principalPortion,
		interestPortion:    interestPortion,
		settledInstallment: settledInstallment,
		externalReference:  externalReference,
		notes:              notes,
		createdBy:          createdBy,
		correlationID:      correlationID,
		reconciled:         reconciled,
		reconciledAt:       reconciledAt,
		reconciledBy:       reconciledBy,
	}
}

// MarkReconciled flags the transaction as reviewed by the reconciliation
// workflow. The only permitted mutation after creation.
func (t PaymentTransaction) MarkReconciled(actor string, now time.Time) PaymentTransaction {
	next := t
	next.reconciled = true
	next.reconciledAt = now
	next.reconciledBy = actor
	return next
}

func (t PaymentTransaction) ID() string                { return t.id }
func (t PaymentTransaction) LoanID() string            { return t.loanID }
func (t PaymentTransaction) ClientID() string          { return t.clientID }
func (t PaymentTransaction) Reference() string         { return t.reference }
func (t PaymentTransaction) Method() string            { return t.method }
func (t PaymentTransaction) Source() string            { return t.source }
func (t PaymentTransaction) Amount() decimal.Decimal   { return t.amount }
func (t PaymentTransaction) TransactionDate() time.Time { return t.transactionDate }
func (t PaymentTransaction) ReceivedAt() time.Time     { return t.receivedAt }
func (t PaymentTransaction) Status() valueobject.PaymentTransactionStatus { return t.status }
func (t PaymentTransaction) PrincipalPortion() decimal.Decimal            { return t.principalPortion }
func (t PaymentTransaction) InterestPortion() decimal.Decimal             { return t.interestPortion }
func (t PaymentTransaction) SettledInstallment() int   { return t.settledInstallment }
func (t PaymentTransaction) ExternalReference() string { return t.externalReference }
func (t PaymentTransaction) Notes() string             { return t.notes }
func (t PaymentTransaction) CreatedBy() string         { return t.createdBy }
func (t PaymentTransaction) CorrelationID() string     { return t.correlationID }
func (t PaymentTransaction) Reconciled() bool          { return t.reconciled }
func (t PaymentTransaction) ReconciledAt() time.Time   { return t.reconciledAt }
func (t PaymentTransaction) ReconciledBy() string      { return t.reconciledBy }

// ---------------------------------------------------------------------------
// ReconciliationTask entity
// ---------------------------------------------------------------------------

// ReconciliationTask is opened when a payment cannot be fully allocated.
// Resolution belongs to the external reconciliation workflow.
type ReconciliationTask struct {
	id            string
	transactionID string
	loanID        string
	taskType      valueobject.ReconciliationTaskType
	status        valueobject.ReconciliationTaskStatus
	expected      decimal.Decimal
	actual        decimal.Decimal
	variance      decimal.Decimal
	createdBy     string
	correlationID string
	createdAt     time.Time
}

// NewOverpaymentTask opens a task for the unapplied remainder of a payment.
// expected is the amount the loan could absorb, actual the amount received.
func NewOverpaymentTask(
	transactionID, loanID string,
	expected, actual decimal.Decimal,
	createdBy, correlationID string,
	now time.Time,
) ReconciliationTask {
	return ReconciliationTask{
		id:            uuid.New().String(),
		transactionID: transactionID,
		loanID:        loanID,
		taskType:      valueobject.ReconciliationTaskTypeOverPayment,
		status:        valueobject.ReconciliationTaskStatusOpen,
		expected:      expected,
		actual:        actual,
		variance:      actual.Sub(expected),
		createdBy:     createdBy,
		correlationID: correlationID,
		createdAt:     now,
	}
}

// ReconstructReconciliationTask rebuilds a task from persistence.
func ReconstructReconciliationTask(
	id, transactionID, loanID string,
	taskType valueobject.ReconciliationTaskType,
	status valueobject.ReconciliationTaskStatus,
	expected, actual decimal.Decimal,
	createdBy, correlationID string,
	createdAt time.Time,
) ReconciliationTask {
	return ReconciliationTask{
		id:            id,
		transactionID: transactionID,
		loanID:        loanID,
		taskType:      taskType,
		status:        status,
		expected:      expected,
		actual:        actual,
		variance:      actual.Sub(expected),
		createdBy:     createdBy,
		correlationID: correlationID,
		createdAt:     createdAt,
	}
}

func (r ReconciliationTask) ID() string                { return r.id }
func (r ReconciliationTask) TransactionID() string     { return r.transactionID }
func (r ReconciliationTask) LoanID() string            { return r.loanID }
func (r ReconciliationTask) TaskType() valueobject.ReconciliationTaskType     { return r.taskType }
func (r ReconciliationTask) Status() valueobject.ReconciliationTaskStatus     { return r.status }
func (r ReconciliationTask) Expected() decimal.Decimal { return r.expected }
func (r ReconciliationTask) Actual() decimal.Decimal   { return r.actual }
func (r ReconciliationTask) Variance() decimal.Decimal { return r.variance }
func (r ReconciliationTask) CreatedBy() string         { return r.createdBy }
func (r ReconciliationTask) CorrelationID() string     { return r.correlationID }
func (r ReconciliationTask) CreatedAt() time.Time      { return r.createdAt }
