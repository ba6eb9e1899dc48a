// Package repository implements account persistence for PostgreSQL and MySQL.
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

const accountColumns = `id, provider, external_customer_id, email, name, is_active, last_event_at,
			  created_at, updated_at`

// PostgreSQLAccountRepository implements account persistence for PostgreSQL.
type PostgreSQLAccountRepository struct {
	db *sql.DB
}

// Create inserts an account. A unique violation is returned as ErrAccountAlreadyExists.
func (p *PostgreSQLAccountRepository) Create(ctx context.Context, account *accountDomain.Account) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO accounts (` + accountColumns + `)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := querier.ExecContext(
		ctx,
		query,
		account.ID,
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
func (p *PostgreSQLAccountRepository) Get(ctx context.Context, accountID uuid.UUID) (*accountDomain.Account, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`

	return scanPostgreSQLAccount(querier.QueryRowContext(ctx, query, accountID), "failed to get account")
}

// GetByExternalCustomerID retrieves the account for a provider customer.
func (p *PostgreSQLAccountRepository) GetByExternalCustomerID(
	ctx context.Context,
	provider, externalCustomerID string,
) (*accountDomain.Account, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + accountColumns + ` FROM accounts WHERE provider = $1 AND external_customer_id = $2`

	// Lock the row when called inside a transaction so deactivation checks and
	// the update observe the same state.
	if _, ok := querier.(*sql.Tx); ok {
		query += ` FOR UPDATE`
	}

	return scanPostgreSQLAccount(
		querier.QueryRowContext(ctx, query, provider, externalCustomerID),
		"failed to get account by external customer id",
	)
}

// Deactivate marks an active account inactive if eventAt is not older than the last
// applied event. It returns ErrAccountNotDeactivated when no row qualifies.
func (p *PostgreSQLAccountRepository) Deactivate(
	ctx context.Context,
	provider, externalCustomerID string,
	eventAt, now time.Time,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE accounts SET is_active = FALSE, last_event_at = $1, updated_at = $2
			  WHERE provider = $3 AND external_customer_id = $4 AND is_active = TRUE AND last_event_at <= $1`

	result, err := querier.ExecContext(ctx, query, eventAt, now, provider, externalCustomerID)
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

func scanPostgreSQLAccount(row *sql.Row, message string) (*accountDomain.Account, error) {
	var account accountDomain.Account
	err := row.Scan(
		&account.ID,
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
	return &account, nil
}

// NewPostgreSQLAccountRepository creates a new PostgreSQL account repository.
func NewPostgreSQLAccountRepository(db *sql.DB) *PostgreSQLAccountRepository {
	return &PostgreSQLAccountRepository{db: db}
}
