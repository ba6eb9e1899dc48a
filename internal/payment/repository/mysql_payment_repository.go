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

// MySQLPaymentRepository implements payment persistence for MySQL. IDs are stored as BINARY(16).
type MySQLPaymentRepository struct {
	db *sql.DB
}

// Create inserts a payment. A duplicate entry is returned as ErrPaymentAlreadyRecorded.
func (m *MySQLPaymentRepository) Create(ctx context.Context, payment *paymentDomain.Payment) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO payments (` + paymentColumns + `)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	id, err := payment.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal payment id")
	}

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
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
func (m *MySQLPaymentRepository) Get(ctx context.Context, paymentID uuid.UUID) (*paymentDomain.Payment, error) {
	querier := database.GetTx(ctx, m.db)

	id, err := paymentID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal payment id")
	}

	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id = ?`

	return scanMySQLPayment(querier.QueryRowContext(ctx, query, id), "failed to get payment")
}

// GetByExternalInvoiceID retrieves the payment recorded for a provider invoice.
func (m *MySQLPaymentRepository) GetByExternalInvoiceID(
	ctx context.Context,
	provider, externalInvoiceID string,
) (*paymentDomain.Payment, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT ` + paymentColumns + ` FROM payments WHERE provider = ? AND external_invoice_id = ?`

	return scanMySQLPayment(
		querier.QueryRowContext(ctx, query, provider, externalInvoiceID),
		"failed to get payment by external invoice id",
	)
}

// List retrieves payments ordered by creation time descending with pagination.
func (m *MySQLPaymentRepository) List(ctx context.Context, offset, limit int) ([]*paymentDomain.Payment, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT ` + paymentColumns + ` FROM payments ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`

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
		var id []byte
		if err := rows.Scan(
			&id,
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
		if err := payment.ID.UnmarshalBinary(id); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal payment id")
		}
		payments = append(payments, &payment)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate payments")
	}

	return payments, nil
}

func scanMySQLPayment(row *sql.Row, message string) (*paymentDomain.Payment, error) {
	var payment paymentDomain.Payment
	var id []byte
	err := row.Scan(
		&id,
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

	if err := payment.ID.UnmarshalBinary(id); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal payment id")
	}

	return &payment, nil
}

// NewMySQLPaymentRepository creates a new MySQL payment repository.
func NewMySQLPaymentRepository(db *sql.DB) *MySQLPaymentRepository {
	return &MySQLPaymentRepository{db: db}
}
