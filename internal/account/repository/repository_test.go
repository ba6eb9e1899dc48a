package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	accountDomain "github.com/allisson/webhooks/internal/account/domain"
	"github.com/allisson/webhooks/internal/database"
	apperrors "github.com/allisson/webhooks/internal/errors"
)

var columns = []string{
	"id", "provider", "external_customer_id", "email", "name", "is_active", "last_event_at",
	"created_at", "updated_at",
}

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return db, mock
}

func testAccount() *accountDomain.Account {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	return &accountDomain.Account{
		ID:                 uuid.Must(uuid.NewV7()),
		Provider:           "stripe",
		ExternalCustomerID: "cus_123",
		Email:              "jane@example.com",
		Name:               "Jane",
		IsActive:           true,
		LastEventAt:        now,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
}

func TestPostgreSQLAccountRepository_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		db, mock := newMockDB(t)
		account := testAccount()

		mock.ExpectExec("INSERT INTO accounts").
			WithArgs(account.ID, "stripe", "cus_123", "jane@example.com", "Jane", true,
				account.LastEventAt, account.CreatedAt, account.UpdatedAt).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, NewPostgreSQLAccountRepository(db).Create(ctx, account))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Error_UniqueViolation", func(t *testing.T) {
		db, mock := newMockDB(t)

		mock.ExpectExec("INSERT INTO accounts").WillReturnError(&pq.Error{Code: "23505"})

		err := NewPostgreSQLAccountRepository(db).Create(ctx, testAccount())
		assert.ErrorIs(t, err, accountDomain.ErrAccountAlreadyExists)
		assert.ErrorIs(t, err, apperrors.ErrConflict)
	})
}

func TestPostgreSQLAccountRepository_GetByExternalCustomerID(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_WithoutTransaction", func(t *testing.T) {
		db, mock := newMockDB(t)
		account := testAccount()

		mock.ExpectQuery(`SELECT (.+) FROM accounts WHERE provider = \$1 AND external_customer_id = \$2$`).
			WithArgs("stripe", "cus_123").
			WillReturnRows(sqlmock.NewRows(columns).AddRow(
				account.ID.String(), "stripe", "cus_123", "jane@example.com", "Jane", true,
				account.LastEventAt, account.CreatedAt, account.UpdatedAt,
			))

		found, err := NewPostgreSQLAccountRepository(db).GetByExternalCustomerID(ctx, "stripe", "cus_123")
		require.NoError(t, err)
		assert.Equal(t, account.ID, found.ID)
		assert.True(t, found.IsActive)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Success_LocksInsideTransaction", func(t *testing.T) {
		db, mock := newMockDB(t)
		account := testAccount()

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT (.+) FROM accounts WHERE (.+) FOR UPDATE`).
			WithArgs("stripe", "cus_123").
			WillReturnRows(sqlmock.NewRows(columns).AddRow(
				account.ID.String(), "stripe", "cus_123", "", "", true,
				account.LastEventAt, account.CreatedAt, account.UpdatedAt,
			))
		mock.ExpectCommit()

		repo := NewPostgreSQLAccountRepository(db)
		err := database.NewTxManager(db).WithTx(ctx, func(txCtx context.Context) error {
			_, err := repo.GetByExternalCustomerID(txCtx, "stripe", "cus_123")
			return err
		})
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Error_NotFound", func(t *testing.T) {
		db, mock := newMockDB(t)

		mock.ExpectQuery("SELECT (.+) FROM accounts").WillReturnError(sql.ErrNoRows)

		_, err := NewPostgreSQLAccountRepository(db).GetByExternalCustomerID(ctx, "stripe", "cus_404")
		assert.ErrorIs(t, err, accountDomain.ErrAccountNotFound)
	})
}

func TestPostgreSQLAccountRepository_Deactivate(t *testing.T) {
	ctx := context.Background()
	eventAt := time.Unix(1700000100, 0).UTC()
	now := time.Unix(1700000200, 0).UTC()

	t.Run("Success", func(t *testing.T) {
		db, mock := newMockDB(t)

		mock.ExpectExec("UPDATE accounts SET is_active = FALSE").
			WithArgs(eventAt, now, "stripe", "cus_123").
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, NewPostgreSQLAccountRepository(db).Deactivate(ctx, "stripe", "cus_123", eventAt, now))
	})

	t.Run("Error_NoRowQualifies", func(t *testing.T) {
		db, mock := newMockDB(t)

		mock.ExpectExec("UPDATE accounts SET is_active = FALSE").WillReturnResult(sqlmock.NewResult(0, 0))

		err := NewPostgreSQLAccountRepository(db).Deactivate(ctx, "stripe", "cus_123", eventAt, now)
		assert.ErrorIs(t, err, accountDomain.ErrAccountNotDeactivated)
		assert.ErrorIs(t, err, apperrors.ErrConflict)
	})

	t.Run("Error_Exec", func(t *testing.T) {
		db, mock := newMockDB(t)

		mock.ExpectExec("UPDATE accounts").WillReturnError(assert.AnError)

		err := NewPostgreSQLAccountRepository(db).Deactivate(ctx, "stripe", "cus_123", eventAt, now)
		assert.ErrorIs(t, err, assert.AnError)
		assert.NotErrorIs(t, err, apperrors.ErrConflict)
	})
}

func TestMySQLAccountRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("Create_DuplicateEntry", func(t *testing.T) {
		db, mock := newMockDB(t)

		mock.ExpectExec("INSERT INTO accounts").WillReturnError(&mysql.MySQLError{Number: 1062})

		err := NewMySQLAccountRepository(db).Create(ctx, testAccount())
		assert.ErrorIs(t, err, accountDomain.ErrAccountAlreadyExists)
	})

	t.Run("Get_Success", func(t *testing.T) {
		db, mock := newMockDB(t)
		account := testAccount()
		id, _ := account.ID.MarshalBinary()

		mock.ExpectQuery("SELECT (.+) FROM accounts WHERE id = ?").
			WithArgs(id).
			WillReturnRows(sqlmock.NewRows(columns).AddRow(
				id, "stripe", "cus_123", "jane@example.com", "Jane", false,
				account.LastEventAt, account.CreatedAt, account.UpdatedAt,
			))

		found, err := NewMySQLAccountRepository(db).Get(ctx, account.ID)
		require.NoError(t, err)
		assert.Equal(t, account.ID, found.ID)
		assert.False(t, found.IsActive)
	})

	t.Run("Deactivate_PassesEventTimeTwice", func(t *testing.T) {
		db, mock := newMockDB(t)
		eventAt := time.Unix(1700000100, 0).UTC()
		now := time.Unix(1700000200, 0).UTC()

		mock.ExpectExec("UPDATE accounts SET is_active = FALSE").
			WithArgs(eventAt, now, "stripe", "cus_123", eventAt).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, NewMySQLAccountRepository(db).Deactivate(ctx, "stripe", "cus_123", eventAt, now))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
