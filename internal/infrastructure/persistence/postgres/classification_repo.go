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

// ClassificationRepo implements port.ClassificationRepository.
type ClassificationRepo struct {
	pool *pgxpool.Pool
}

// NewClassificationRepo creates a PostgreSQL-backed classification repository.
func NewClassificationRepo(pool *pgxpool.Pool) *ClassificationRepo {
	return &ClassificationRepo{pool: pool}
}

// SaveClassification appends a ledger row and refreshes the installments'
// arrears state in one transaction.
func (r *ClassificationRepo) SaveClassification(
	ctx context.Context,
	record model.ArrearsClassificationRecord,
	loanID string,
	installments []model.Installment,
) error {
	return pkgpostgres.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		query := `
			INSERT INTO arrears_classification_history (
				id, loan_id, previous_classification, new_classification,
				days_past_due, outstanding_balance,
				provision_rate, provision_amount, non_accrual,
				classified_at, classified_by, reason, correlation_id
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
		`
		_, err := tx.Exec(ctx, query,
			record.ID(), record.LoanID(), record.Previous().String(), record.Current().String(),
			record.DaysPastDue(), record.OutstandingBalance(),
			record.ProvisionRate(), record.ProvisionAmount(), record.NonAccrual(),
			record.ClassifiedAt(), record.ClassifiedBy(), record.Reason(), record.CorrelationID(),
		)
		if err != nil {
			return fmt.Errorf("save classification: %w", err)
		}

		return updateInstallments(ctx, tx, loanID, installments)
	})
}

// FindLatestByLoanID returns the most recent ledger row for a loan, or
// port.ErrNoClassification if the loan has never been downgraded.
func (r *ClassificationRepo) FindLatestByLoanID(ctx context.Context, loanID string) (model.ArrearsClassificationRecord, error) {
	query := classificationSelect + ` WHERE loan_id = $1 ORDER BY classified_at DESC LIMIT 1`
	record, err := scanClassification(r.pool.QueryRow(ctx, query, loanID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.ArrearsClassificationRecord{}, port.ErrNoClassification
		}
		return model.ArrearsClassificationRecord{}, fmt.Errorf("scan classification: %w", err)
	}
	return record, nil
}

// ListByLoanID returns a loan's full classification history, most recent first.
func (r *ClassificationRepo) ListByLoanID(ctx context.Context, loanID string) ([]model.ArrearsClassificationRecord, error) {
	query := classificationSelect + ` WHERE loan_id = $1 ORDER BY classified_at DESC`
	rows, err := r.pool.Query(ctx, query, loanID)
	if err != nil {
		return nil, fmt.Errorf("query classifications: %w", err)
	}
	defer rows.Close()

	var records []model.ArrearsClassificationRecord
	for rows.Next() {
		record, err := scanClassification(rows)
		if err != nil {
			return nil, fmt.Errorf("scan classification: %w", err)
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

const classificationSelect = `
	SELECT id, loan_id, previous_classification, new_classification,
	       days_past_due, outstanding_balance,
	       provision_rate, provision_amount, non_accrual,
	       classified_at, classified_by, reason, correlation_id
	FROM arrears_classification_history
`

func scanClassification(row pgx.Row) (model.ArrearsClassificationRecord, error) {
	var (
		id, loanID                                    string
		previousStr, currentStr                       string
		daysPastDue                                   int
		outstandingBalance, provisionRate, provAmount decimal.Decimal
		nonAccrual                                    bool
		classifiedAt                                  time.Time
		classifiedBy, reason, correlationID           string
	)
	err := row.Scan(
		&id, &loanID, &previousStr, &currentStr,
		&daysPastDue, &outstandingBalance,
		&provisionRate, &provAmount, &nonAccrual,
		&classifiedAt, &classifiedBy, &reason, &correlationID,
	)
	if err != nil {
		return model.ArrearsClassificationRecord{}, err
	}
	previous, err := valueobject.NewArrearsClassification(previousStr)
	if err != nil {
		return model.ArrearsClassificationRecord{}, fmt.Errorf("parse previous classification: %w", err)
	}
	current, err := valueobject.NewArrearsClassification(currentStr)
	if err != nil {
		return model.ArrearsClassificationRecord{}, fmt.Errorf("parse classification: %w", err)
	}
	return model.ReconstructArrearsClassificationRecord(
		id, loanID, previous, current,
		daysPastDue, outstandingBalance, provisionRate, provAmount,
		nonAccrual, classifiedAt, classifiedBy, reason, correlationID,
	), nil
}
