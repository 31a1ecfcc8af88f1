package wallet

import (
	"context"

	"github.com/jmoiron/sqlx"
)

type Store interface {
	GetOrCreateWallet(ctx context.Context, userID int) (*Wallet, error)
	Credit(ctx context.Context, userID int, amountCents int64, reference string) (*Entry, error)
	Debit(ctx context.Context, userID int, amountCents int64, reference string) (*Entry, error)
	Refund(ctx context.Context, userID int, amountCents int64, reference string) (*Entry, error)
	CreditTx(ctx context.Context, tx *sqlx.Tx, userID int, amountCents int64, reference string) (*Entry, error)
	DebitTx(ctx context.Context, tx *sqlx.Tx, userID int, amountCents int64, reference string) (*Entry, error)
	GetEntries(ctx context.Context, userID int, limit, offset int) ([]Entry, error)
}
