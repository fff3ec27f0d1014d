package valueobject

import (
	"errors"
	"fmt"
)

// ---------------------------------------------------------------------------
// InstallmentStatus – immutable value object
// ---------------------------------------------------------------------------

// InstallmentStatus represents the settlement state of a single installment.
type InstallmentStatus struct {
	value string
}

const (
	installmentStatusPending       = "PENDING"
	installmentStatusOverdue       = "OVERDUE"
	installmentStatusPartiallyPaid = "PARTIALLY_PAID"
	installmentStatusPaid          = "PAID"
)

var (
	InstallmentStatusPending       = InstallmentStatus{value: installmentStatusPending}
	InstallmentStatusOverdue       = InstallmentStatus{value: installmentStatusOverdue}
	InstallmentStatusPartiallyPaid = InstallmentStatus{value: installmentStatusPartiallyPaid}
	InstallmentStatusPaid          = InstallmentStatus{value: installmentStatusPaid}
)

var validInstallmentStatuses = map[string]InstallmentStatus{
	installmentStatusPending:       InstallmentStatusPending,
	installmentStatusOverdue:       InstallmentStatusOverdue,
	installmentStatusPartiallyPaid: InstallmentStatusPartiallyPaid,
	installmentStatusPaid:          InstallmentStatusPaid,
}

// NewInstallmentStatus creates an InstallmentStatus from a raw string.
func NewInstallmentStatus(s string) (InstallmentStatus, error) {
	v, ok := validInstallmentStatuses[s]
	if !ok {
		return InstallmentStatus{}, fmt.Errorf("invalid installment status: %q", s)
	}
	return v, nil
}

// String returns the string representation of the status.
func (s InstallmentStatus) String() string { return s.value }

// IsZero returns true if the status has not been initialised.
func (s InstallmentStatus) IsZero() bool { return s.value == "" }

// Equal returns true when both statuses carry the same value.
func (s InstallmentStatus) Equal(other InstallmentStatus) bool { return s.value == other.value }

// IsSettled reports whether the installment is fully paid.
func (s InstallmentStatus) IsSettled() bool { return s.value == installmentStatusPaid }

// ---------------------------------------------------------------------------
// PaymentTransactionStatus – immutable value object
// ---------------------------------------------------------------------------

// PaymentTransactionStatus represents the processing state of a payment.
type PaymentTransactionStatus struct {
	value string
}

const (
	paymentStatusPending   = "PENDING"
	paymentStatusConfirmed = "CONFIRMED"
)

var (
	PaymentTransactionStatusPending   = PaymentTransactionStatus{value: paymentStatusPending}
	PaymentTransactionStatusConfirmed = PaymentTransactionStatus{value: paymentStatusConfirmed}
)

var validPaymentTransactionStatuses = map[string]PaymentTransactionStatus{
	paymentStatusPending:   PaymentTransactionStatusPending,
	paymentStatusConfirmed: PaymentTransactionStatusConfirmed,
}

// NewPaymentTransactionStatus creates a PaymentTransactionStatus from a raw string.
func NewPaymentTransactionStatus(s string) (PaymentTransactionStatus, error) {
	v, ok := validPaymentTransactionStatuses[s]
	if !ok {
		return PaymentTransactionStatus{}, fmt.Errorf("invalid payment transaction status: %q", s)
	}
	return v, nil
}

// String returns the string representation of the status.
func (s PaymentTransactionStatus) String() string { return s.value }

// IsZero returns true if the status has not been initialised.
func (s PaymentTransactionStatus) IsZero() bool { return s.value == "" }

// Equal returns true when both statuses carry the same value.
func (s PaymentTransactionStatus) Equal(other PaymentTransactionStatus) bool {
	return s.value == other.value
}

// ---------------------------------------------------------------------------
// Sentinel errors
// ---------------------------------------------------------------------------

var (
	ErrInvalidStatusTransition = errors.New("invalid status transition")
)
