package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/allisson/webhooks/internal/errors"
	subscriptionDomain "github.com/allisson/webhooks/internal/subscription/domain"
)

var columns = []string{
	"id", "url", "events", "description", "secret_ciphertext", "is_active", "created_at", "updated_at",
}

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return db, mock
}

func testSubscription() *subscriptionDomain.Subscription {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	return &subscriptionDomain.Subscription{
		ID:              uuid.Must(uuid.NewV7()),
		URL:             "https://hooks.example.com",
		Events:          []string{"payment.recorded"},
		Description:     "billing",
		EncryptedSecret: []byte("ciphertext"),
		IsActive:        true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

func TestPostgreSQLSubscriptionRepository_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_EventsStoredAsJSON", func(t *testing.T) {
		db, mock := newMockDB(t)
		sub := testSubscription()

		mock.ExpectExec("INSERT INTO webhook_subscriptions").
			WithArgs(sub.ID, sub.URL, []byte(`["payment.recorded"]`), "billing", []byte("ciphertext"),
				true, sub.CreatedAt, sub.UpdatedAt).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, NewPostgreSQLSubscriptionRepository(db).Create(ctx, sub))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Error", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectExec("INSERT INTO webhook_subscriptions").WillReturnError(errors.New("disk full"))

		err := NewPostgreSQLSubscriptionRepository(db).Create(ctx, testSubscription())
		assert.ErrorContains(t, err, "failed to create subscription")
	})
}

func TestPostgreSQLSubscriptionRepository_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		db, mock := newMockDB(t)
		sub := testSubscription()

		mock.ExpectQuery("SELECT (.+) FROM webhook_subscriptions WHERE id").
			WithArgs(sub.ID).
			WillReturnRows(sqlmock.NewRows(columns).AddRow(
				sub.ID.String(), sub.URL, []byte(`["payment.recorded","*"]`), sub.Description, sub.EncryptedSecret,
				true, sub.CreatedAt, sub.UpdatedAt,
			))

		got, err := NewPostgreSQLSubscriptionRepository(db).Get(ctx, sub.ID)
		require.NoError(t, err)
		assert.Equal(t, sub.ID, got.ID)
		assert.Equal(t, []string{"payment.recorded", "*"}, got.Events)
		assert.Equal(t, []byte("ciphertext"), got.EncryptedSecret)
	})

	t.Run("Error_NotFound", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery("SELECT (.+) FROM webhook_subscriptions").WillReturnError(sql.ErrNoRows)

		_, err := NewPostgreSQLSubscriptionRepository(db).Get(ctx, uuid.New())
		assert.ErrorIs(t, err, subscriptionDomain.ErrSubscriptionNotFound)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})
}

func TestPostgreSQLSubscriptionRepository_ListActive(t *testing.T) {
	db, mock := newMockDB(t)
	first, second := testSubscription(), testSubscription()

	mock.ExpectQuery("SELECT (.+) FROM webhook_subscriptions\\s+WHERE is_active = TRUE").
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(first.ID.String(), first.URL, []byte(`["*"]`), "", first.EncryptedSecret, true,
				first.CreatedAt, first.UpdatedAt).
			AddRow(second.ID.String(), second.URL, []byte(`["payment.recorded"]`), "", second.EncryptedSecret, true,
				second.CreatedAt, second.UpdatedAt))

	subs, err := NewPostgreSQLSubscriptionRepository(db).ListActive(context.Background())
	require.NoError(t, err)
	require.Len(t, subs, 2)
	assert.Equal(t, []string{"*"}, subs[0].Events)
	assert.Equal(t, second.ID, subs[1].ID)
}

func TestPostgreSQLSubscriptionRepository_List(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery("SELECT (.+) FROM webhook_subscriptions\\s+ORDER BY created_at DESC").
		WithArgs(10, 20).
		WillReturnRows(sqlmock.NewRows(columns))

	subs, err := NewPostgreSQLSubscriptionRepository(db).List(context.Background(), 20, 10)
	require.NoError(t, err)
	assert.Empty(t, subs)
}

func TestPostgreSQLSubscriptionRepository_Deactivate(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()

	t.Run("Success", func(t *testing.T) {
		db, mock := newMockDB(t)
		id := uuid.New()

		mock.ExpectExec("UPDATE webhook_subscriptions SET is_active = FALSE").
			WithArgs(now, id).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, NewPostgreSQLSubscriptionRepository(db).Deactivate(ctx, id, now))
	})

	t.Run("Error_NotFoundOrInactive", func(t *testing.T) {
		db, mock := newMockDB(t)

		mock.ExpectExec("UPDATE webhook_subscriptions").WillReturnResult(sqlmock.NewResult(0, 0))

		err := NewPostgreSQLSubscriptionRepository(db).Deactivate(ctx, uuid.New(), now)
		assert.ErrorIs(t, err, subscriptionDomain.ErrSubscriptionNotFound)
	})
}

func TestMySQLSubscriptionRepository_Create(t *testing.T) {
	db, mock := newMockDB(t)
	sub := testSubscription()
	id, err := sub.ID.MarshalBinary()
	require.NoError(t, err)

	mock.ExpectExec("INSERT INTO webhook_subscriptions").
		WithArgs(id, sub.URL, []byte(`["payment.recorded"]`), "billing", []byte("ciphertext"),
			true, sub.CreatedAt, sub.UpdatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, NewMySQLSubscriptionRepository(db).Create(context.Background(), sub))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLSubscriptionRepository_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_BinaryID", func(t *testing.T) {
		db, mock := newMockDB(t)
		sub := testSubscription()
		id, err := sub.ID.MarshalBinary()
		require.NoError(t, err)

		mock.ExpectQuery("SELECT (.+) FROM webhook_subscriptions WHERE id = ?").
			WithArgs(id).
			WillReturnRows(sqlmock.NewRows(columns).AddRow(
				id, sub.URL, []byte(`["payment.recorded"]`), "", sub.EncryptedSecret, false,
				sub.CreatedAt, sub.UpdatedAt,
			))

		got, err := NewMySQLSubscriptionRepository(db).Get(ctx, sub.ID)
		require.NoError(t, err)
		assert.Equal(t, sub.ID, got.ID)
		assert.False(t, got.IsActive)
	})

	t.Run("Error_NotFound", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery("SELECT (.+) FROM webhook_subscriptions").WillReturnError(sql.ErrNoRows)

		_, err := NewMySQLSubscriptionRepository(db).Get(ctx, uuid.New())
		assert.ErrorIs(t, err, subscriptionDomain.ErrSubscriptionNotFound)
	})
}

func TestMySQLSubscriptionRepository_Deactivate(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectExec("UPDATE webhook_subscriptions").WillReturnResult(sqlmock.NewResult(0, 0))

	err := NewMySQLSubscriptionRepository(db).Deactivate(context.Background(), uuid.New(), time.Now())
	assert.ErrorIs(t, err, subscriptionDomain.ErrSubscriptionNotFound)
}
