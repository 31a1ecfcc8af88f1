package wallet

import "time"

type Wallet struct {
	ID           int       `db:"id" json:"id"`
	UserID       int       `db:"user_id" json:"user_id"`
	BalanceCents int64     `db:"balance_cents" json:"balance_cents"`
	Version      int64     `db:"version" json:"version"`
	Currency     string    `db:"currency" json:"currency"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

type EntryKind string

const (
	EntryCredit EntryKind = "credit"
	EntryDebit  EntryKind = "debit"
)

// Entry is one immutable row of the wallet ledger. The balance is always
// the sum of committed entries; corrections are new compensating entries,
// never edits.
type Entry struct {
	ID           int       `db:"id" json:"id"`
	WalletID     int       `db:"wallet_id" json:"wallet_id"`
	Kind         EntryKind `db:"kind" json:"kind"`
	AmountCents  int64     `db:"amount_cents" json:"amount_cents"`
	Reference    string    `db:"reference" json:"reference"` // causing event, e.g. booking:42, topup:<uuid>
	BalanceAfter int64     `db:"balance_after" json:"balance_after"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

type TopUpRequest struct {
	AmountCents int64 `json:"amount_cents" binding:"required,gt=0"`
}
