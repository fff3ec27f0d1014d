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

// ScheduleRepo implements port.ScheduleRepository.
type ScheduleRepo struct {
	pool *pgxpool.Pool
}

// NewScheduleRepo creates a PostgreSQL-backed schedule repository.
func NewScheduleRepo(pool *pgxpool.Pool) *ScheduleRepo {
	return &ScheduleRepo{pool: pool}
}

// Save persists a schedule and its installments in one transaction. The
// unique constraint on loan_id enforces the one-schedule-per-loan invariant
// at the storage level as well.
func (r *ScheduleRepo) Save(ctx context.Context, schedule model.RepaymentSchedule) error {
	return pkgpostgres.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		scheduleQuery := `
			INSERT INTO repayment_schedules (
				id, loan_id, client_id, product_code,
				principal, annual_rate, term_months,
				first_payment_date, maturity_date,
				generated_at, generated_by, correlation_id
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
		`
		_, err := tx.Exec(ctx, scheduleQuery,
			schedule.ID(), schedule.LoanID(), schedule.ClientID(), schedule.ProductCode(),
			schedule.Principal(), schedule.AnnualRate(), schedule.TermMonths(),
			schedule.FirstPaymentDate(), schedule.MaturityDate(),
			schedule.GeneratedAt(), schedule.GeneratedBy(), schedule.CorrelationID(),
		)
		if err != nil {
			return fmt.Errorf("save schedule: %w", err)
		}

		installmentQuery := `
			INSERT INTO installments (
				loan_id, number, due_date,
				principal_due, interest_due, total_due,
				principal_paid, interest_paid, total_paid,
				principal_balance, status, days_past_due, updated_at
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
		`
		for _, inst := range schedule.Installments() {
			_, err := tx.Exec(ctx, installmentQuery,
				schedule.LoanID(), inst.Number, inst.DueDate,
				inst.PrincipalDue, inst.InterestDue, inst.TotalDue,
				inst.PrincipalPaid, inst.InterestPaid, inst.TotalPaid,
				inst.PrincipalBalance, inst.Status.String(), inst.DaysPastDue, inst.UpdatedAt,
			)
			if err != nil {
				return fmt.Errorf("save installment %d: %w", inst.Number, err)
			}
		}
		return nil
	})
}

// FindByLoanID retrieves a schedule and its installments.
func (r *ScheduleRepo) FindByLoanID(ctx context.Context, loanID string) (model.RepaymentSchedule, error) {
	query := `
		SELECT id, loan_id, client_id, product_code,
		       principal, annual_rate, term_months,
		       first_payment_date, maturity_date,
		       generated_at, generated_by, correlation_id
		FROM repayment_schedules
		WHERE loan_id = $1
	`

	var (
		id, scannedLoanID, clientID, productCode string
		principal, annualRate                    decimal.Decimal
		termMonths                               int
		firstPaymentDate, maturityDate           time.Time
		generatedAt                              time.Time
		generatedBy, correlationID               string
	)
	err := r.pool.QueryRow(ctx, query, loanID).Scan(
		&id, &scannedLoanID, &clientID, &productCode,
		&principal, &annualRate, &termMonths,
		&firstPaymentDate, &maturityDate,
		&generatedAt, &generatedBy, &correlationID,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.RepaymentSchedule{}, port.ErrScheduleNotFound
		}
		return model.RepaymentSchedule{}, fmt.Errorf("scan schedule: %w", err)
	}

	installments, err := r.loadInstallments(ctx, loanID)
	if err != nil {
		return model.RepaymentSchedule{}, err
	}

	return model.ReconstructRepaymentSchedule(
		id, scannedLoanID, clientID, productCode,
		principal, annualRate, termMonths,
		firstPaymentDate, maturityDate, generatedAt,
		generatedBy, correlationID, installments,
	), nil
}

// ListLoanIDs returns the loan IDs of all schedules, for the nightly pass.
func (r *ScheduleRepo) ListLoanIDs(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT loan_id FROM repayment_schedules ORDER BY loan_id`)
	if err != nil {
		return nil, fmt.Errorf("query loan ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan loan id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *ScheduleRepo) loadInstallments(ctx context.Context, loanID string) ([]model.Installment, error) {
	query := `
		SELECT number, due_date,
		       principal_due, interest_due, total_due,
		       principal_paid, interest_paid, total_paid,
		       principal_balance, status, days_past_due, updated_at
		FROM installments
		WHERE loan_id = $1
		ORDER BY number
	`
	rows, err := r.pool.Query(ctx, query, loanID)
	if err != nil {
		return nil, fmt.Errorf("query installments: %w", err)
	}
	defer rows.Close()

	var installments []model.Installment
	for rows.Next() {
		var (
			inst      model.Installment
			statusStr string
		)
		err := rows.Scan(
			&inst.Number, &inst.DueDate,
			&inst.PrincipalDue, &inst.InterestDue, &inst.TotalDue,
			&inst.PrincipalPaid, &inst.InterestPaid, &inst.TotalPaid,
			&inst.PrincipalBalance, &statusStr, &inst.DaysPastDue, &inst.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan installment: %w", err)
		}
		inst.Status, err = valueobject.NewInstallmentStatus(statusStr)
		if err != nil {
			return nil, fmt.Errorf("parse installment status: %w", err)
		}
		installments = append(installments, inst)
	}
	return installments, rows.Err()
}
