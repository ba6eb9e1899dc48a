// Package repository implements payment persistence for PostgreSQL and MySQL.
//
// The UNIQUE (provider, external_invoice_id) constraint is the last line of the
// idempotency guard: when two deliveries of the same invoice race past the lookup,
// the loser's insert fails and Create reports domain.ErrPaymentAlreadyRecorded.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/allisson/webhooks/internal/database"
	apperrors "github.com/allisson/webhooks/internal/errors"
	paymentDomain "github.com/allisson/webhooks/internal/payment/domain"
)

const paymentColumns = `id, provider, external_invoice_id, external_customer_id, amount, currency,
			  source_event_id, paid_at, created_at`

// PostgreSQLPaymentRepository implements payment persistence for PostgreSQL.
type PostgreSQLPaymentRepository struct {
	db *sql.DB
}

// Create inserts a payment. A unique violation is returned as ErrPaymentAlreadyRecorded.
func (p *PostgreSQLPaymentRepository) Create(ctx context.Context, payment *paymentDomain.Payment) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO payments (` + paymentColumns + `)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := querier.ExecContext(
		ctx,
		query,
		payment.ID,
		payment.Provider,
		payment.ExternalInvoiceID,
		payment.ExternalCustomerID,
		payment.Amount,
		payment.Currency,
		payment.SourceEventID,
		payment.PaidAt,
		payment.CreatedAt,
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return paymentDomain.ErrPaymentAlreadyRecorded
		}
		return apperrors.Wrap(err, "failed to create payment")
	}
	return nil
}

// Get retrieves a payment by ID.
func (p *PostgreSQLPaymentRepository) Get(ctx context.Context, paymentID uuid.UUID) (*paymentDomain.Payment, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1`

	return scanPostgreSQLPayment(querier.QueryRowContext(ctx, query, paymentID), "failed to get payment")
}

// GetByExternalInvoiceID retrieves the payment recorded for a provider invoice.
func (p *PostgreSQLPaymentRepository) GetByExternalInvoiceID(
	ctx context.Context,
	provider, externalInvoiceID string,
) (*paymentDomain.Payment, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + paymentColumns + ` FROM payments WHERE provider = $1 AND external_invoice_id = $2`

	return scanPostgreSQLPayment(
		querier.QueryRowContext(ctx, query, provider, externalInvoiceID),
		"failed to get payment by external invoice id",
	)
}

// List retrieves payments ordered by creation time descending with pagination.
func (p *PostgreSQLPaymentRepository) List(ctx context.Context, offset, limit int) ([]*paymentDomain.Payment, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + paymentColumns + ` FROM payments ORDER BY created_at DESC, id DESC LIMIT $1 OFFSET $2`

	rows, err := querier.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list payments")
	}
	defer func() {
		_ = rows.Close()
	}()

	payments := make([]*paymentDomain.Payment, 0)
	for rows.Next() {
		var payment paymentDomain.Payment
		if err := rows.Scan(
			&payment.ID,
			&payment.Provider,
			&payment.ExternalInvoiceID,
			&payment.ExternalCustomerID,
			&payment.Amount,
			&payment.Currency,
			&payment.SourceEventID,
			&payment.PaidAt,
			&payment.CreatedAt,
		); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan payment")
		}
		payments = append(payments, &payment)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate payments")
	}

	return payments, nil
}

func scanPostgreSQLPayment(row *sql.Row, message string) (*paymentDomain.Payment, error) {
	var payment paymentDomain.Payment
	err := row.Scan(
		&payment.ID,
		&payment.Provider,
		&payment.ExternalInvoiceID,
		&payment.ExternalCustomerID,
		&payment.Amount,
		&payment.Currency,
		&payment.SourceEventID,
		&payment.PaidAt,
		&payment.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, paymentDomain.ErrPaymentNotFound
		}
		return nil, apperrors.Wrap(err, message)
	}
	return &payment, nil
}

// NewPostgreSQLPaymentRepository creates a new PostgreSQL payment repository.
func NewPostgreSQLPaymentRepository(db *sql.DB) *PostgreSQLPaymentRepository {
	return &PostgreSQLPaymentRepository{db: db}
}
