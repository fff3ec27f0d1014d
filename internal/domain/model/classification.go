package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Romeo-CEO/intellifin-loan-management-system-sub008/internal/domain/valueobject"
)

// ---------------------------------------------------------------------------
// ArrearsClassificationRecord entity
// ---------------------------------------------------------------------------

// ArrearsClassificationRecord is one row of the append-only classification
// ledger, written only when a loan's bucket changes. The most recent record
// is the loan's current classification; a loan with no records is CURRENT.
// Records are immutable once written.
type ArrearsClassificationRecord struct {
	id                 string
	loanID             string
	previous           valueobject.ArrearsClassification
	current            valueobject.ArrearsClassification
	daysPastDue        int
	outstandingBalance decimal.Decimal
	provisionRate      decimal.Decimal
	provisionAmount    decimal.Decimal
	nonAccrual         bool
	classifiedAt       time.Time
	classifiedBy       string
	reason             string
	correlationID      string
}

// NewArrearsClassificationRecord builds a ledger row for a bucket change.
// Provision amount is derived from the outstanding balance and the target
// bucket's provision rate, rounded to 2 decimal places.
func NewArrearsClassificationRecord(
	loanID string,
	previous, current valueobject.ArrearsClassification,
	daysPastDue int,
	outstandingBalance decimal.Decimal,
	classifiedBy, reason, correlationID string,
	now time.Time,
) ArrearsClassificationRecord {
	rate := current.ProvisionRate()
	return ArrearsClassificationRecord{
		id:                 uuid.New().String(),
		loanID:             loanID,
		previous:           previous,
		current:            current,
		daysPastDue:        daysPastDue,
		outstandingBalance: outstandingBalance,
		provisionRate:      rate,
		provisionAmount:    outstandingBalance.Mul(rate).Round(2),
		nonAccrual:         current.IsNonAccrual(),
		classifiedAt:       now,
		classifiedBy:       classifiedBy,
		reason:             reason,
		correlationID:      correlationID,
	}
}

// ReconstructArrearsClassificationRecord rebuilds a record from persistence.
func ReconstructArrearsClassificationRecord(
	id, loanID string,
	previous, current valueobject.ArrearsClassification,
	daysPastDue int,
	outstandingBalance, provisionRate, provisionAmount decimal.Decimal,
	nonAccrual bool,
	classifiedAt time.Time,
	classifiedBy, reason, correlationID string,
) ArrearsClassificationRecord {
	return ArrearsClassificationRecord{
		id:                 id,
		loanID:             loanID,
		previous:           previous,
		current:            current,
		daysPastDue:        daysPastDue,
		outstandingBalance: outstandingBalance,
		provisionRate:      provisionRate,
		provisionAmount:    provisionAmount,
		nonAccrual:         nonAccrual,
		classifiedAt:       classifiedAt,
		classifiedBy:       classifiedBy,
		reason:             reason,
		correlationID:      correlationID,
	}
}

func (r ArrearsClassificationRecord) ID() string     { return r.id }
func (r ArrearsClassificationRecord) LoanID() string { return r.loanID }
func (r ArrearsClassificationRecord) Previous() valueobject.ArrearsClassification {
	return r.previous
}
func (r ArrearsClassificationRecord) Current() valueobject.ArrearsClassification {
	return r.current
}
func (r ArrearsClassificationRecord) DaysPastDue() int { return r.daysPastDue }
func (r ArrearsClassificationRecord) OutstandingBalance() decimal.Decimal {
	return r.outstandingBalance
}
func (r ArrearsClassificationRecord) ProvisionRate() decimal.Decimal   { return r.provisionRate }
func (r ArrearsClassificationRecord) ProvisionAmount() decimal.Decimal { return r.provisionAmount }
func (r ArrearsClassificationRecord) NonAccrual() bool                 { return r.nonAccrual }
func (r ArrearsClassificationRecord) ClassifiedAt() time.Time          { return r.classifiedAt }
func (r ArrearsClassificationRecord) ClassifiedBy() string             { return r.classifiedBy }
func (r ArrearsClassificationRecord) Reason() string                   { return r.reason }
func (r ArrearsClassificationRecord) CorrelationID() string            { return r.correlationID }
