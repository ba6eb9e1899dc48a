// Package repository implements subscription persistence for PostgreSQL and MySQL.
//
// Event names are stored as a JSON array and signing secrets only as keeper ciphertext.
package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/webhooks/internal/database"
	apperrors "github.com/allisson/webhooks/internal/errors"
	subscriptionDomain "github.com/allisson/webhooks/internal/subscription/domain"
)

const subscriptionColumns = `id, url, events, description, secret_ciphertext, is_active, created_at, updated_at`

// PostgreSQLSubscriptionRepository implements subscription persistence for PostgreSQL.
type PostgreSQLSubscriptionRepository struct {
	db *sql.DB
}

// Create inserts a subscription.
func (p *PostgreSQLSubscriptionRepository) Create(
	ctx context.Context,
	subscription *subscriptionDomain.Subscription,
) error {
	querier := database.GetTx(ctx, p.db)

	events, err := json.Marshal(subscription.Events)
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal subscription events")
	}

	query := `INSERT INTO webhook_subscriptions (` + subscriptionColumns + `)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err = querier.ExecContext(
		ctx,
		query,
		subscription.ID,
		subscription.URL,
		events,
		subscription.Description,
		subscription.EncryptedSecret,
		subscription.IsActive,
		subscription.CreatedAt,
		subscription.UpdatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create subscription")
	}
	return nil
}

// Get retrieves a subscription by ID.
func (p *PostgreSQLSubscriptionRepository) Get(
	ctx context.Context,
	subscriptionID uuid.UUID,
) (*subscriptionDomain.Subscription, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + subscriptionColumns + ` FROM webhook_subscriptions WHERE id = $1`

	var subscription subscriptionDomain.Subscription
	var events []byte
	err := querier.QueryRowContext(ctx, query, subscriptionID).Scan(
		&subscription.ID,
		&subscription.URL,
		&events,
		&subscription.Description,
		&subscription.EncryptedSecret,
		&subscription.IsActive,
		&subscription.CreatedAt,
		&subscription.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, subscriptionDomain.ErrSubscriptionNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get subscription")
	}

	if err := json.Unmarshal(events, &subscription.Events); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal subscription events")
	}
	return &subscription, nil
}

// List retrieves subscriptions ordered by creation time descending with pagination.
func (p *PostgreSQLSubscriptionRepository) List(
	ctx context.Context,
	offset, limit int,
) ([]*subscriptionDomain.Subscription, error) {
	query := `SELECT ` + subscriptionColumns + ` FROM webhook_subscriptions
			  ORDER BY created_at DESC, id DESC LIMIT $1 OFFSET $2`

	return p.query(ctx, "failed to list subscriptions", query, limit, offset)
}

// ListActive retrieves every active subscription, oldest first.
func (p *PostgreSQLSubscriptionRepository) ListActive(ctx context.Context) ([]*subscriptionDomain.Subscription, error) {
	query := `SELECT ` + subscriptionColumns + ` FROM webhook_subscriptions
			  WHERE is_active = TRUE ORDER BY created_at ASC, id ASC`

	return p.query(ctx, "failed to list active subscriptions", query)
}

// Deactivate marks an active subscription inactive. It returns ErrSubscriptionNotFound
// when no active subscription has the ID.
func (p *PostgreSQLSubscriptionRepository) Deactivate(
	ctx context.Context,
	subscriptionID uuid.UUID,
	now time.Time,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE webhook_subscriptions SET is_active = FALSE, updated_at = $1
			  WHERE id = $2 AND is_active = TRUE`

	result, err := querier.ExecContext(ctx, query, now, subscriptionID)
	if err != nil {
		return apperrors.Wrap(err, "failed to deactivate subscription")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get rows affected")
	}
	if rows == 0 {
		return subscriptionDomain.ErrSubscriptionNotFound
	}
	return nil
}

func (p *PostgreSQLSubscriptionRepository) query(
	ctx context.Context,
	message, query string,
	args ...any,
) ([]*subscriptionDomain.Subscription, error) {
	querier := database.GetTx(ctx, p.db)

	rows, err := querier.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Wrap(err, message)
	}
	defer func() {
		_ = rows.Close()
	}()

	subscriptions := make([]*subscriptionDomain.Subscription, 0)
	for rows.Next() {
		var subscription subscriptionDomain.Subscription
		var events []byte
		if err := rows.Scan(
			&subscription.ID,
			&subscription.URL,
			&events,
			&subscription.Description,
			&subscription.EncryptedSecret,
			&subscription.IsActive,
			&subscription.CreatedAt,
			&subscription.UpdatedAt,
		); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan subscription")
		}
		if err := json.Unmarshal(events, &subscription.Events); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal subscription events")
		}
		subscriptions = append(subscriptions, &subscription)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate subscriptions")
	}

	return subscriptions, nil
}

// NewPostgreSQLSubscriptionRepository creates a new PostgreSQL subscription repository.
func NewPostgreSQLSubscriptionRepository(db *sql.DB) *PostgreSQLSubscriptionRepository {
	return &PostgreSQLSubscriptionRepository{db: db}
}
