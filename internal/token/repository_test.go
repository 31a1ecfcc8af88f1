package token

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

func setupTokenMock(t *testing.T) (Repository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	repo := NewRepository(sqlxDB)

	closer := func() { sqlxDB.Close() }
	return repo, mock, closer
}

func tokenRows(id, bookingID int, value string, expiresAt time.Time, consumedAt, revokedAt *time.Time) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "booking_id", "token", "issued_at", "expires_at", "consumed_at", "revoked_at"}).
		AddRow(id, bookingID, value, time.Now(), expiresAt, consumedAt, revokedAt)
}

func TestCreateToken_RevokesPriorLiveTokens(t *testing.T) {
	repo, mock, close := setupTokenMock(t)
	defer close()

	expiresAt := time.Now().Add(30 * time.Minute)

	mock.ExpectBegin()

	// any live token for the booking gets revoked first
	mock.ExpectExec("SET revoked_at = NOW()").
		WithArgs(7).
		WillReturnResult(sqlmock.NewResult(0, 1))

	mock.ExpectQuery("INSERT INTO redemption_tokens").
		WithArgs(7, "abc123", expiresAt).
		WillReturnRows(tokenRows(2, 7, "abc123", expiresAt, nil, nil))

	mock.ExpectCommit()

	tok, err := repo.CreateToken(context.Background(), 7, "abc123", expiresAt)
	require.NoError(t, err)
	require.Equal(t, 7, tok.BookingID)
	require.True(t, tok.Live(time.Now()))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByValue_NotFound(t *testing.T) {
	repo, mock, close := setupTokenMock(t)
	defer close()

	mock.ExpectQuery("FROM redemption_tokens").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByValue(context.Background(), "missing")
	require.ErrorIs(t, err, ErrTokenNotFound)
}

func TestConsume_Success(t *testing.T) {
	repo, mock, close := setupTokenMock(t)
	defer close()

	now := time.Now()
	mock.ExpectQuery("SET consumed_at = NOW()").
		WithArgs("abc123").
		WillReturnRows(tokenRows(2, 7, "abc123", now.Add(10*time.Minute), &now, nil))

	tok, err := repo.Consume(context.Background(), "abc123")
	require.NoError(t, err)
	require.NotNil(t, tok.ConsumedAt)
	require.False(t, tok.Live(time.Now()))
}

func TestConsume_AlreadyUsed(t *testing.T) {
	repo, mock, close := setupTokenMock(t)
	defer close()

	// CAS matches no row, re-select explains why
	mock.ExpectQuery("SET consumed_at = NOW()").
		WithArgs("abc123").
		WillReturnError(sql.ErrNoRows)

	used := time.Now().Add(-5 * time.Minute)
	mock.ExpectQuery("FROM redemption_tokens").
		WithArgs("abc123").
		WillReturnRows(tokenRows(2, 7, "abc123", time.Now().Add(10*time.Minute), &used, nil))

	_, err := repo.Consume(context.Background(), "abc123")
	require.ErrorIs(t, err, ErrTokenAlreadyUsed)
}

func TestConsume_Expired(t *testing.T) {
	repo, mock, close := setupTokenMock(t)
	defer close()

	mock.ExpectQuery("SET consumed_at = NOW()").
		WithArgs("abc123").
		WillReturnError(sql.ErrNoRows)

	mock.ExpectQuery("FROM redemption_tokens").
		WithArgs("abc123").
		WillReturnRows(tokenRows(2, 7, "abc123", time.Now().Add(-time.Minute), nil, nil))

	_, err := repo.Consume(context.Background(), "abc123")
	require.ErrorIs(t, err, ErrTokenExpired)
}

func TestConsume_RevokedReadsAsNotFound(t *testing.T) {
	repo, mock, close := setupTokenMock(t)
	defer close()

	mock.ExpectQuery("SET consumed_at = NOW()").
		WithArgs("abc123").
		WillReturnError(sql.ErrNoRows)

	revoked := time.Now().Add(-time.Minute)
	mock.ExpectQuery("FROM redemption_tokens").
		WithArgs("abc123").
		WillReturnRows(tokenRows(2, 7, "abc123", time.Now().Add(10*time.Minute), nil, &revoked))

	_, err := repo.Consume(context.Background(), "abc123")
	require.ErrorIs(t, err, ErrTokenNotFound)
}

func TestConsume_UnknownToken(t *testing.T) {
	repo, mock, close := setupTokenMock(t)
	defer close()

	mock.ExpectQuery("SET consumed_at = NOW()").
		WithArgs("nope").
		WillReturnError(sql.ErrNoRows)

	mock.ExpectQuery("FROM redemption_tokens").
		WithArgs("nope").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.Consume(context.Background(), "nope")
	require.ErrorIs(t, err, ErrTokenNotFound)
}

func TestToken_Live(t *testing.T) {
	now := time.Now()
	used := now.Add(-time.Minute)

	fresh := &Token{ExpiresAt: now.Add(time.Hour)}
	require.True(t, fresh.Live(now))

	expired := &Token{ExpiresAt: now.Add(-time.Second)}
	require.False(t, expired.Live(now))

	consumed := &Token{ExpiresAt: now.Add(time.Hour), ConsumedAt: &used}
	require.False(t, consumed.Live(now))

	revoked := &Token{ExpiresAt: now.Add(time.Hour), RevokedAt: &used}
	require.False(t, revoked.Live(now))
}
