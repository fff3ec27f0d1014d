package valueobject

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// ArrearsClassification – immutable value object
// ---------------------------------------------------------------------------

// ArrearsClassification is the regulatory delinquency bucket of a loan.
type ArrearsClassification struct {
	value string
}

const (
	classificationCurrent        = "CURRENT"
	classificationSpecialMention = "SPECIAL_MENTION"
	classificationSubstandard    = "SUBSTANDARD"
	classificationDoubtful       = "DOUBTFUL"
	classificationLoss           = "LOSS"
)

var (
	ClassificationCurrent        = ArrearsClassification{value: classificationCurrent}
	ClassificationSpecialMention = ArrearsClassification{value: classificationSpecialMention}
	ClassificationSubstandard    = ArrearsClassification{value: classificationSubstandard}
	ClassificationDoubtful       = ArrearsClassification{value: classificationDoubtful}
	ClassificationLoss           = ArrearsClassification{value: classificationLoss}
)

var validClassifications = map[string]ArrearsClassification{
	classificationCurrent:        ClassificationCurrent,
	classificationSpecialMention: ClassificationSpecialMention,
	classificationSubstandard:    ClassificationSubstandard,
	classificationDoubtful:       ClassificationDoubtful,
	classificationLoss:           ClassificationLoss,
}

// NewArrearsClassification creates an ArrearsClassification from a raw string.
func NewArrearsClassification(s string) (ArrearsClassification, error) {
	v, ok := validClassifications[s]
	if !ok {
		return ArrearsClassification{}, fmt.Errorf("invalid arrears classification: %q", s)
	}
	return v, nil
}

// ClassificationForDaysPastDue maps the maximum days-past-due of a loan to
// its regulatory bucket. Total over all integers: negative input counts as
// zero days past due.
//
//	0        CURRENT
//	1–89     SPECIAL_MENTION
//	90–179   SUBSTANDARD
//	180–364  DOUBTFUL
//	>=365    LOSS
func ClassificationForDaysPastDue(dpd int) ArrearsClassification {
	switch {
	case dpd <= 0:
		return ClassificationCurrent
	case dpd < 90:
		return ClassificationSpecialMention
	case dpd < 180:
		return ClassificationSubstandard
	case dpd < 365:
		return ClassificationDoubtful
	default:
		return ClassificationLoss
	}
}

// String returns the string representation of the classification.
func (c ArrearsClassification) String() string { return c.value }

// IsZero returns true if the classification has not been initialised.
func (c ArrearsClassification) IsZero() bool { return c.value == "" }

// Equal returns true when both classifications carry the same value.
func (c ArrearsClassification) Equal(other ArrearsClassification) bool {
	return c.value == other.value
}

// ProvisionRate returns the fraction of outstanding balance to reserve for
// this bucket.
func (c ArrearsClassification) ProvisionRate() decimal.Decimal {
	switch c.value {
	case classificationSubstandard:
		return decimal.NewFromFloat(0.20)
	case classificationDoubtful:
		return decimal.NewFromFloat(0.50)
	case classificationLoss:
		return decimal.NewFromInt(1)
	default:
		return decimal.Zero
	}
}

// IsNonAccrual reports whether interest income recognition is suspended for
// this bucket. The same three buckets carry borrower notifications on entry.
func (c ArrearsClassification) IsNonAccrual() bool {
	switch c.value {
	case classificationSubstandard, classificationDoubtful, classificationLoss:
		return true
	default:
		return false
	}
}
