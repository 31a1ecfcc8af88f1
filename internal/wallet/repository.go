package wallet

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) GetOrCreateWallet(ctx context.Context, userID int) (*Wallet, error) {
	w := &Wallet{}
	err := r.db.GetContext(ctx, w, `SELECT * FROM wallets WHERE user_id = $1`, userID)
	if err == nil {
		return w, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	err = r.db.QueryRowxContext(ctx,
		`INSERT INTO wallets (user_id)
		 VALUES ($1)
		 RETURNING id, user_id, balance_cents, version, currency, created_at, updated_at`,
		userID,
	).StructScan(w)

	if err != nil {
		return nil, err
	}

	return w, nil
}

// lockWallet takes the per-wallet row lock that serializes all balance
// writes. Creates the wallet if the user does not have one yet.
func (r *Repository) lockWallet(ctx context.Context, tx *sqlx.Tx, userID int) (*Wallet, error) {
	var w Wallet
	err := tx.QueryRowxContext(ctx,
		`SELECT id, user_id, balance_cents, version, currency, created_at, updated_at
		 FROM wallets
		 WHERE user_id = $1
		 FOR UPDATE`,
		userID,
	).StructScan(&w)
	if err == nil {
		return &w, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	err = tx.QueryRowxContext(ctx,
		`INSERT INTO wallets (user_id)
		 VALUES ($1)
		 RETURNING id, user_id, balance_cents, version, currency, created_at, updated_at`,
		userID,
	).StructScan(&w)
	if err != nil {
		return nil, err
	}

	return &w, nil
}

func (r *Repository) appendEntry(ctx context.Context, tx *sqlx.Tx, w *Wallet, kind EntryKind, amountCents int64, reference string, newBalance int64) (*Entry, error) {
	_, err := tx.ExecContext(ctx,
		`UPDATE wallets
		 SET balance_cents = $1, version = version + 1, updated_at = NOW()
		 WHERE id = $2`,
		newBalance, w.ID,
	)
	if err != nil {
		return nil, err
	}

	var entry Entry
	err = tx.QueryRowxContext(ctx,
		`INSERT INTO wallet_entries (wallet_id, kind, amount_cents, reference, balance_after)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, wallet_id, kind, amount_cents, reference, balance_after, created_at`,
		w.ID, kind, amountCents, reference, newBalance,
	).StructScan(&entry)
	if err != nil {
		return nil, err
	}

	return &entry, nil
}

// CreditTx appends a credit entry inside the caller's transaction.
func (r *Repository) CreditTx(ctx context.Context, tx *sqlx.Tx, userID int, amountCents int64, reference string) (*Entry, error) {
	if amountCents <= 0 {
		return nil, ErrInvalidAmount
	}

	w, err := r.lockWallet(ctx, tx, userID)
	if err != nil {
		return nil, err
	}

	return r.appendEntry(ctx, tx, w, EntryCredit, amountCents, reference, w.BalanceCents+amountCents)
}

// DebitTx appends a debit entry inside the caller's transaction. The
// balance can never go negative: the row lock held by lockWallet makes
// the balance check and the write one serialized step.
func (r *Repository) DebitTx(ctx context.Context, tx *sqlx.Tx, userID int, amountCents int64, reference string) (*Entry, error) {
	if amountCents <= 0 {
		return nil, ErrInvalidAmount
	}

	w, err := r.lockWallet(ctx, tx, userID)
	if err != nil {
		return nil, err
	}

	if w.BalanceCents < amountCents {
		return nil, &InsufficientBalanceError{ShortfallCents: amountCents - w.BalanceCents}
	}

	return r.appendEntry(ctx, tx, w, EntryDebit, amountCents, reference, w.BalanceCents-amountCents)
}

func (r *Repository) Credit(ctx context.Context, userID int, amountCents int64, reference string) (*Entry, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	entry, err := r.CreditTx(ctx, tx, userID, amountCents, reference)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return entry, nil
}

func (r *Repository) Debit(ctx context.Context, userID int, amountCents int64, reference string) (*Entry, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	entry, err := r.DebitTx(ctx, tx, userID, amountCents, reference)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return entry, nil
}

// Refund credits back a previously charged amount, referencing the
// original charge.
func (r *Repository) Refund(ctx context.Context, userID int, amountCents int64, reference string) (*Entry, error) {
	return r.Credit(ctx, userID, amountCents, reference)
}

func (r *Repository) GetEntries(ctx context.Context, userID int, limit, offset int) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}

	var walletID int
	err := r.db.GetContext(ctx, &walletID, `SELECT id FROM wallets WHERE user_id = $1`, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return []Entry{}, nil
		}
		return nil, err
	}

	var entries []Entry
	err = r.db.SelectContext(ctx, &entries, `
		SELECT id, wallet_id, kind, amount_cents, reference, balance_after, created_at
		FROM wallet_entries
		WHERE wallet_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`, walletID, limit, offset)
	if err != nil {
		return nil, err
	}

	return entries, nil
}
