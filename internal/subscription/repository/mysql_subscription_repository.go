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

// MySQLSubscriptionRepository implements subscription persistence for MySQL. IDs are stored as BINARY(16).
type MySQLSubscriptionRepository struct {
	db *sql.DB
}

// Create inserts a subscription.
func (m *MySQLSubscriptionRepository) Create(
	ctx context.Context,
	subscription *subscriptionDomain.Subscription,
) error {
	querier := database.GetTx(ctx, m.db)

	id, err := subscription.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal subscription id")
	}

	events, err := json.Marshal(subscription.Events)
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal subscription events")
	}

	query := `INSERT INTO webhook_subscriptions (` + subscriptionColumns + `)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
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
func (m *MySQLSubscriptionRepository) Get(
	ctx context.Context,
	subscriptionID uuid.UUID,
) (*subscriptionDomain.Subscription, error) {
	querier := database.GetTx(ctx, m.db)

	id, err := subscriptionID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal subscription id")
	}

	query := `SELECT ` + subscriptionColumns + ` FROM webhook_subscriptions WHERE id = ?`

	subscription, err := scanMySQLSubscription(querier.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, subscriptionDomain.ErrSubscriptionNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get subscription")
	}
	return subscription, nil
}

// List retrieves subscriptions ordered by creation time descending with pagination.
func (m *MySQLSubscriptionRepository) List(
	ctx context.Context,
	offset, limit int,
) ([]*subscriptionDomain.Subscription, error) {
	query := `SELECT ` + subscriptionColumns + ` FROM webhook_subscriptions
			  ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`

	return m.query(ctx, "failed to list subscriptions", query, limit, offset)
}

// ListActive retrieves every active subscription, oldest first.
func (m *MySQLSubscriptionRepository) ListActive(ctx context.Context) ([]*subscriptionDomain.Subscription, error) {
	query := `SELECT ` + subscriptionColumns + ` FROM webhook_subscriptions
			  WHERE is_active = TRUE ORDER BY created_at ASC, id ASC`

	return m.query(ctx, "failed to list active subscriptions", query)
}

// Deactivate marks an active subscription inactive. It returns ErrSubscriptionNotFound
// when no active subscription has the ID.
func (m *MySQLSubscriptionRepository) Deactivate(
	ctx context.Context,
	subscriptionID uuid.UUID,
	now time.Time,
) error {
	querier := database.GetTx(ctx, m.db)

	id, err := subscriptionID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal subscription id")
	}

	query := `UPDATE webhook_subscriptions SET is_active = FALSE, updated_at = ?
			  WHERE id = ? AND is_active = TRUE`

	result, err := querier.ExecContext(ctx, query, now, id)
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

func (m *MySQLSubscriptionRepository) query(
	ctx context.Context,
	message, query string,
	args ...any,
) ([]*subscriptionDomain.Subscription, error) {
	querier := database.GetTx(ctx, m.db)

	rows, err := querier.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Wrap(err, message)
	}
	defer func() {
		_ = rows.Close()
	}()

	subscriptions := make([]*subscriptionDomain.Subscription, 0)
	for rows.Next() {
		subscription, err := scanMySQLSubscription(rows)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan subscription")
		}
		subscriptions = append(subscriptions, subscription)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate subscriptions")
	}

	return subscriptions, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanMySQLSubscription(row scanner) (*subscriptionDomain.Subscription, error) {
	var subscription subscriptionDomain.Subscription
	var id, events []byte
	if err := row.Scan(
		&id,
		&subscription.URL,
		&events,
		&subscription.Description,
		&subscription.EncryptedSecret,
		&subscription.IsActive,
		&subscription.CreatedAt,
		&subscription.UpdatedAt,
	); err != nil {
		return nil, err
	}

	if err := subscription.ID.UnmarshalBinary(id); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal subscription id")
	}
	if err := json.Unmarshal(events, &subscription.Events); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal subscription events")
	}
	return &subscription, nil
}

// NewMySQLSubscriptionRepository creates a new MySQL subscription repository.
func NewMySQLSubscriptionRepository(db *sql.DB) *MySQLSubscriptionRepository {
	return &MySQLSubscriptionRepository{db: db}
}
