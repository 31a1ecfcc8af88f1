package token

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
)

var (
	ErrTokenNotFound    = errors.New("token not found")
	ErrTokenExpired     = errors.New("token expired")
	ErrTokenAlreadyUsed = errors.New("token already used")
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

// CreateToken stores a fresh token and revokes any prior live token for
// the same booking in the same transaction, keeping at most one live
// token per booking.
func (r *repository) CreateToken(ctx context.Context, bookingID int, value string, expiresAt time.Time) (*Token, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		UPDATE redemption_tokens
		SET revoked_at = NOW()
		WHERE booking_id = $1 AND consumed_at IS NULL AND revoked_at IS NULL
	`, bookingID)
	if err != nil {
		return nil, err
	}

	var tok Token
	err = tx.QueryRowxContext(ctx, `
		INSERT INTO redemption_tokens (booking_id, token, expires_at)
		VALUES ($1, $2, $3)
		RETURNING id, booking_id, token, issued_at, expires_at, consumed_at, revoked_at
	`, bookingID, value, expiresAt).StructScan(&tok)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &tok, nil
}

func (r *repository) GetByValue(ctx context.Context, value string) (*Token, error) {
	var tok Token
	err := r.db.GetContext(ctx, &tok, `
		SELECT id, booking_id, token, issued_at, expires_at, consumed_at, revoked_at
		FROM redemption_tokens
		WHERE token = $1
	`, value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTokenNotFound
		}
		return nil, err
	}

	return &tok, nil
}

// Consume is the single atomic check-and-set on the token. The consumed
// flag is the sole arbiter between concurrent validation attempts: of N
// racing calls for the same token, exactly one gets the row.
func (r *repository) Consume(ctx context.Context, value string) (*Token, error) {
	var tok Token
	err := r.db.QueryRowxContext(ctx, `
		UPDATE redemption_tokens
		SET consumed_at = NOW()
		WHERE token = $1 AND consumed_at IS NULL AND revoked_at IS NULL AND expires_at > NOW()
		RETURNING id, booking_id, token, issued_at, expires_at, consumed_at, revoked_at
	`, value).StructScan(&tok)
	if err == nil {
		return &tok, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	return nil, r.classifyMiss(ctx, value)
}

// classifyMiss explains why the consume CAS matched no row. Revoked
// (superseded) tokens read as unknown.
func (r *repository) classifyMiss(ctx context.Context, value string) error {
	var tok Token
	err := r.db.GetContext(ctx, &tok, `
		SELECT id, booking_id, token, issued_at, expires_at, consumed_at, revoked_at
		FROM redemption_tokens
		WHERE token = $1
	`, value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrTokenNotFound
		}
		return err
	}

	switch {
	case tok.ConsumedAt != nil:
		return ErrTokenAlreadyUsed
	case tok.RevokedAt != nil:
		return ErrTokenNotFound
	default:
		return ErrTokenExpired
	}
}
