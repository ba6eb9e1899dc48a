package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	accountDomain "github.com/allisson/webhooks/internal/account/domain"
	"github.com/allisson/webhooks/internal/database"
	apperrors "github.com/allisson/webhooks/internal/errors"
)

// MySQLAccountRepository implements account persistence for MySQL. IDs are stored as BINARY(16).
type MySQLAccountRepository struct {
	db *sql.DB
}

// Create inserts an account. A duplicate entry is returned as ErrAccountAlreadyExists.
func (m *MySQLAccountRepository) Create(ctx context.Context, account *accountDomain.Account) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO accounts (` + accountColumns + `)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	id, err := account.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal account id")
	}

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
		account.Provider,
		account.ExternalCustomerID,
		account.Email,
		account.Name,
		account.IsActive,
		account.LastEventAt,
		account.CreatedAt,
		account.UpdatedAt,
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return accountDomain.ErrAccountAlreadyExists
		}
		return apperrors.Wrap(err, "failed to create account")
	}
	return nil
}

// Get retrieves an account by ID.
func (m *MySQLAccountRepository) Get(ctx context.Context, accountID uuid.UUID) (*accountDomain.Account, error) {
	querier := database.GetTx(ctx, m.db)

	id, err := accountID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal account id")
	}

	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = ?`

	return scanMySQLAccount(querier.QueryRowContext(ctx, query, id), "failed to get account")
}

// GetByExternalCustomerID retrieves the account for a provider customer.
func (m *MySQLAccountRepository) GetByExternalCustomerID(
	ctx context.Context,
	provider, externalCustomerID string,
) (*accountDomain.Account, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT ` + accountColumns + ` FROM accounts WHERE provider = ? AND external_customer_id = ?`
	if _, ok := querier.(*sql.Tx); ok {
		query += ` FOR UPDATE`
	}

	return scanMySQLAccount(
		querier.QueryRowContext(ctx, query, provider, externalCustomerID),
		"failed to get account by external customer id",
	)
}

// Deactivate marks an active account inactive if eventAt is not older than the last
// applied event. It returns ErrAccountNotDeactivated when no row qualifies.
func (m *MySQLAccountRepository) Deactivate(
	ctx context.Context,
	provider, externalCustomerID string,
	eventAt, now time.Time,
) error {
	querier := database.GetTx(ctx, m.db)

	query := `UPDATE accounts SET is_active = FALSE, last_event_at = ?, updated_at = ?
			  WHERE provider = ? AND external_customer_id = ? AND is_active = TRUE AND last_event_at <= ?`

	result, err := querier.ExecContext(ctx, query, eventAt, now, provider, externalCustomerID, eventAt)
	if err != nil {
		return apperrors.Wrap(err, "failed to deactivate account")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get rows affected")
	}
	if rows == 0 {
		return accountDomain.ErrAccountNotDeactivated
	}
	return nil
}

func scanMySQLAccount(row *sql.Row, message string) (*accountDomain.Account, error) {
	var account accountDomain.Account
	var id []byte
	err := row.Scan(
		&id,
		&account.Provider,
		&account.ExternalCustomerID,
		&account.Email,
		&account.Name,
		&account.IsActive,
		&account.LastEventAt,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, accountDomain.ErrAccountNotFound
		}
		return nil, apperrors.Wrap(err, message)
	}

	if err := account.ID.UnmarshalBinary(id); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal account id")
	}

	return &account, nil
}

// NewMySQLAccountRepository creates a new MySQL account repository.
func NewMySQLAccountRepository(db *sql.DB) *MySQLAccountRepository {
	return &MySQLAccountRepository{db: db}
}
