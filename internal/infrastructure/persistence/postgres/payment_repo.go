package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/Romeo-CEO/intellifin-loan-management-system-sub008/internal/domain/model"
	"github.com/Romeo-CEO/intellifin-loan-management-system-sub008/internal/domain/port"
	"github.com/Romeo-CEO/intellifin-loan-management-system-sub008/internal/domain/valueobject"
	pkgpostgres "github.com/Romeo-CEO/intellifin-loan-management-system-sub008/pkg/postgres"
)

// PaymentRepo implements port.PaymentRepository.
type PaymentRepo struct {
	pool *pgxpool.Pool
}

// NewPaymentRepo creates a PostgreSQL-backed payment repository.
func NewPaymentRepo(pool *pgxpool.Pool) *PaymentRepo {
	return &PaymentRepo{pool: pool}
}

// SaveAllocation commits a payment and its effects atomically: the
// transaction row, the touched installments, and the reconciliation task
// when the payment overpaid the loan.
func (r *PaymentRepo) SaveAllocation(
	ctx context.Context,
	txn model.PaymentTransaction,
	installments []model.Installment,
	task *model.ReconciliationTask,
) error {
	return pkgpostgres.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		txnQuery := `
			INSERT INTO payment_transactions (
				id, loan_id, client_id, reference, method, source,
				amount, transaction_date, received_at, status,
				principal_portion, interest_portion, settled_installment,
				external_reference, notes, created_by, correlation_id,
				reconciled, reconciled_at, reconciled_by
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20)
		`
		var reconciledAt *time.Time
		if !txn.ReconciledAt().IsZero() {
			t := txn.ReconciledAt()
			reconciledAt = &t
		}
		_, err := tx.Exec(ctx, txnQuery,
			txn.ID(), txn.LoanID(), txn.ClientID(), txn.Reference(), txn.Method(), txn.Source(),
			txn.Amount(), txn.TransactionDate(), txn.ReceivedAt(), txn.Status().String(),
			txn.PrincipalPortion(), txn.InterestPortion(), txn.SettledInstallment(),
			txn.ExternalReference(), txn.Notes(), txn.CreatedBy(), txn.CorrelationID(),
			txn.Reconciled(), reconciledAt, txn.ReconciledBy(),
		)
		if err != nil {
			return fmt.Errorf("save transaction: %w", err)
		}

		if err := updateInstallments(ctx, tx, txn.LoanID(), installments); err != nil {
			return err
		}

		if task == nil {
			return nil
		}
		taskQuery := `
			INSERT INTO reconciliation_tasks (
				id, transaction_id, loan_id, task_type, status,
				expected_amount, actual_amount, variance,
				created_by, correlation_id, created_at
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		`
		_, err = tx.Exec(ctx, taskQuery,
			task.ID(), task.TransactionID(), task.LoanID(),
			task.TaskType().String(), task.Status().String(),
			task.Expected(), task.Actual(), task.Variance(),
			task.CreatedBy(), task.CorrelationID(), task.CreatedAt(),
		)
		if err != nil {
			return fmt.Errorf("save reconciliation task: %w", err)
		}
		return nil
	})
}

// FindByReference looks a transaction up by its idempotency key.
func (r *PaymentRepo) FindByReference(ctx context.Context, reference string) (model.PaymentTransaction, error) {
	query := transactionSelect + ` WHERE reference = $1`
	txn, err := scanTransaction(r.pool.QueryRow(ctx, query, reference))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.PaymentTransaction{}, port.ErrTransactionNotFound
		}
		return model.PaymentTransaction{}, fmt.Errorf("scan transaction: %w", err)
	}
	return txn, nil
}

// ListByLoanID returns a loan's payment history, most recent first.
func (r *PaymentRepo) ListByLoanID(ctx context.Context, loanID string) ([]model.PaymentTransaction, error) {
	query := transactionSelect + ` WHERE loan_id = $1 ORDER BY received_at DESC`
	rows, err := r.pool.Query(ctx, query, loanID)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	var txns []model.PaymentTransaction
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		txns = append(txns, txn)
	}
	return txns, rows.Err()
}

// ListOpenTasksByLoanID returns a loan's unresolved reconciliation tasks.
func (r *PaymentRepo) ListOpenTasksByLoanID(ctx context.Context, loanID string) ([]model.ReconciliationTask, error) {
	query := `
		SELECT id, transaction_id, loan_id, task_type, status,
		       expected_amount, actual_amount,
		       created_by, correlation_id, created_at
		FROM reconciliation_tasks
		WHERE loan_id = $1 AND status = $2
		ORDER BY created_at
	`
	rows, err := r.pool.Query(ctx, query, loanID, valueobject.ReconciliationTaskStatusOpen.String())
	if err != nil {
		return nil, fmt.Errorf("query reconciliation tasks: %w", err)
	}
	defer rows.Close()

	var tasks []model.ReconciliationTask
	for rows.Next() {
		var (
			id, transactionID, scannedLoanID string
			taskTypeStr, statusStr           string
			expected, actual                 decimal.Decimal
			createdBy, correlationID         string
			createdAt                        time.Time
		)
		err := rows.Scan(
			&id, &transactionID, &scannedLoanID, &taskTypeStr, &statusStr,
			&expected, &actual, &createdBy, &correlationID, &createdAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan reconciliation task: %w", err)
		}
		taskType, err := valueobject.NewReconciliationTaskType(taskTypeStr)
		if err != nil {
			return nil, fmt.Errorf("parse task type: %w", err)
		}
		status, err := valueobject.NewReconciliationTaskStatus(statusStr)
		if err != nil {
			return nil, fmt.Errorf("parse task status: %w", err)
		}
		tasks = append(tasks, model.ReconstructReconciliationTask(
			id, transactionID, scannedLoanID, taskType, status,
			expected, actual, createdBy, correlationID, createdAt,
		))
	}
	return tasks, rows.Err()
}

const transactionSelect = `
	SELECT id, loan_id, client_id, reference, method, source,
	       amount, transaction_date, received_at, status,
	       principal_portion, interest_portion, settled_installment,
	       external_reference, notes, created_by, correlation_id,
	       reconciled, reconciled_at, reconciled_by
	FROM payment_transactions
`

func scanTransaction(row pgx.Row) (model.PaymentTransaction, error) {
	var (
		id, loanID, clientID, reference, method, source string
		amount                                          decimal.Decimal
		transactionDate, receivedAt                     time.Time
		statusStr                                       string
		principalPortion, interestPortion               decimal.Decimal
		settledInstallment                              int
		externalReference, notes                        string
		createdBy, correlationID                        string
		reconciled                                      bool
		reconciledAt                                    *time.Time
		reconciledBy                                    string
	)
	err := row.Scan(
		&id, &loanID, &clientID, &reference, &method, &source,
		&amount, &transactionDate, &receivedAt, &statusStr,
		&principalPortion, &interestPortion, &settledInstallment,
		&externalReference, &notes, &createdBy, &correlationID,
		&reconciled, &reconciledAt, &reconciledBy,
	)
	if err != nil {
		return model.PaymentTransaction{}, err
	}
	status, err := valueobject.NewPaymentTransactionStatus(statusStr)
	if err != nil {
		return model.PaymentTransaction{}, fmt.Errorf("parse transaction status: %w", err)
	}
	var reconciledAtValue time.Time
	if reconciledAt != nil {
		reconciledAtValue = *reconciledAt
	}
	return model.ReconstructPaymentTransaction(
		id, loanID, clientID, reference, method, source,
		amount, transactionDate, receivedAt, status,
		principalPortion, interestPortion, settledInstallment,
		externalReference, notes, createdBy, correlationID,
		reconciled, reconciledAtValue, reconciledBy,
	), nil
}

// updateInstallments rewrites the mutable allocation and arrears columns of
// the given installments. Shared by the payment and classification repos.
func updateInstallments(ctx context.Context, tx pgx.Tx, loanID string, installments []model.Installment) error {
	query := `
		UPDATE installments SET
			principal_paid = $3,
			interest_paid = $4,
			total_paid = $5,
			status = $6,
			days_past_due = $7,
			updated_at = $8
		WHERE loan_id = $1 AND number = $2
	`
	for _, inst := range installments {
		tag, err := tx.Exec(ctx, query,
			loanID, inst.Number,
			inst.PrincipalPaid, inst.InterestPaid, inst.TotalPaid,
			inst.Status.String(), inst.DaysPastDue, inst.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("update installment %d: %w", inst.Number, err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("update installment %d: no row for loan %s", inst.Number, loanID)
		}
	}
	return nil
}
