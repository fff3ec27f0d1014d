package port

import (
	"context"
	"time"
)

// ---------------------------------------------------------------------------
// External collaborator ports
// ---------------------------------------------------------------------------

// AuditEntry describes one auditable action.
type AuditEntry struct {
	Timestamp     time.Time
	Actor         string
	Action        string
	EntityType    string
	EntityID      string
	CorrelationID string
	Data          map[string]any
}

// AuditSink records audit events. Fire-and-forget from the engine's
// perspective: failures are logged by the caller and never block the
// financial operation.
type AuditSink interface {
	LogEvent(ctx context.Context, entry AuditEntry) error
}

// Notification kinds emitted by the servicing engine.
const (
	NotificationPaymentConfirmation  = "PAYMENT_CONFIRMATION"
	NotificationClassificationChange = "CLASSIFICATION_CHANGE"
)

// Notification describes one borrower-facing message.
type Notification struct {
	Kind          string
	LoanID        string
	ClientID      string
	Payload       map[string]any
	CorrelationID string
}

// NotificationSink delivers borrower notifications. Best-effort and
// non-blocking; delivery failures never roll back the triggering write.
type NotificationSink interface {
	Notify(ctx context.Context, n Notification) error
}

// Clock supplies the reference "today" for days-past-due computation so
// classification stays deterministic under test.
type Clock interface {
	Now() time.Time
}
