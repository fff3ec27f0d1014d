package valueobject

import "fmt"

// ---------------------------------------------------------------------------
// ReconciliationTaskType – immutable value object
// ---------------------------------------------------------------------------

// ReconciliationTaskType identifies why a payment requires manual review.
type ReconciliationTaskType struct {
	value string
}

const (
	reconciliationTaskOverPayment = "OVER_PAYMENT"
)

var (
	ReconciliationTaskTypeOverPayment = ReconciliationTaskType{value: reconciliationTaskOverPayment}
)

var validReconciliationTaskTypes = map[string]ReconciliationTaskType{
	reconciliationTaskOverPayment: ReconciliationTaskTypeOverPayment,
}

// NewReconciliationTaskType creates a ReconciliationTaskType from a raw string.
func NewReconciliationTaskType(s string) (ReconciliationTaskType, error) {
	v, ok := validReconciliationTaskTypes[s]
	if !ok {
		return ReconciliationTaskType{}, fmt.Errorf("invalid reconciliation task type: %q", s)
	}
	return v, nil
}

// String returns the string representation of the type.
func (t ReconciliationTaskType) String() string { return t.value }

// IsZero returns true if the type has not been initialised.
func (t ReconciliationTaskType) IsZero() bool { return t.value == "" }

// Equal returns true when both types carry the same value.
func (t ReconciliationTaskType) Equal(other ReconciliationTaskType) bool {
	return t.value == other.value
}

// ---------------------------------------------------------------------------
// ReconciliationTaskStatus – immutable value object
// ---------------------------------------------------------------------------

// ReconciliationTaskStatus is the workflow state of a reconciliation task.
type ReconciliationTaskStatus struct {
	value string
}

const (
	reconciliationStatusOpen     = "OPEN"
	reconciliationStatusResolved = "RESOLVED"
)

var (
	ReconciliationTaskStatusOpen     = ReconciliationTaskStatus{value: reconciliationStatusOpen}
	ReconciliationTaskStatusResolved = ReconciliationTaskStatus{value: reconciliationStatusResolved}
)

var validReconciliationTaskStatuses = map[string]ReconciliationTaskStatus{
	reconciliationStatusOpen:     ReconciliationTaskStatusOpen,
	reconciliationStatusResolved: ReconciliationTaskStatusResolved,
}

// NewReconciliationTaskStatus creates a ReconciliationTaskStatus from a raw string.
func NewReconciliationTaskStatus(s string) (ReconciliationTaskStatus, error) {
	v, ok := validReconciliationTaskStatuses[s]
	if !ok {
		return ReconciliationTaskStatus{}, fmt.Errorf("invalid reconciliation task status: %q", s)
	}
	return v, nil
}

// String returns the string representation of the status.
func (s ReconciliationTaskStatus) String() string { return s.value }

// IsZero returns true if the status has not been initialised.
func (s ReconciliationTaskStatus) IsZero() bool { return s.value == "" }

// Equal returns true when both statuses carry the same value.
func (s ReconciliationTaskStatus) Equal(other ReconciliationTaskStatus) bool {
	return s.value == other.value
}
