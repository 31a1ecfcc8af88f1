package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"messmate/internal/menu"
	"messmate/internal/wallet"

	"github.com/jmoiron/sqlx"
)

// bookingColumns presents lazily-expired status on every read: a booking
// still 'booked' after its window has fully elapsed reads as 'expired'
// without waiting for the sweeper.
const bookingColumns = `
	id, user_id, menu_item_id, meal_type, meal_date, window_start, window_end,
	quantity, unit_price_cents, total_cents,
	CASE WHEN status = 'booked' AND window_end < NOW() THEN 'expired' ELSE status END AS status,
	created_at, cancelled_at, served_at
`

type repository struct {
	db      *sqlx.DB
	wallets wallet.Store
}

func NewRepository(db *sqlx.DB, wallets wallet.Store) Repository {
	return &repository{db: db, wallets: wallets}
}

// CreateBooking debits the wallet and inserts the booking in one
// transaction. A failed debit leaves neither a booking row nor a ledger
// entry behind.
func (r *repository) CreateBooking(ctx context.Context, userID int, item *menu.Item, quantity int) (*Booking, *wallet.Entry, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, nil, err
	}
	defer tx.Rollback()

	total := item.PriceCents * int64(quantity)

	var booking Booking
	err = tx.QueryRowxContext(ctx, `
		INSERT INTO bookings (user_id, menu_item_id, meal_type, meal_date, window_start, window_end,
		                      quantity, unit_price_cents, total_cents, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, 'booked')
		RETURNING id, user_id, menu_item_id, meal_type, meal_date, window_start, window_end,
		          quantity, unit_price_cents, total_cents, status, created_at, cancelled_at, served_at
	`, userID, item.ID, item.MealType, item.MealDate, item.WindowStart, item.WindowEnd,
		quantity, item.PriceCents, total,
	).StructScan(&booking)
	if err != nil {
		return nil, nil, err
	}

	entry, err := r.wallets.DebitTx(ctx, tx, userID, total, fmt.Sprintf("booking:%d", booking.ID))
	if err != nil {
		return nil, nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, err
	}

	return &booking, entry, nil
}

func (r *repository) GetBookingByID(ctx context.Context, id int) (*Booking, error) {
	var booking Booking
	err := r.db.GetContext(ctx, &booking,
		`SELECT `+bookingColumns+` FROM bookings WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}

	return &booking, nil
}

// CancelBooking flips a booked booking to cancelled and refunds the
// original charge in the same transaction. The guarded UPDATE is the
// serialization point against a racing redeem.
func (r *repository) CancelBooking(ctx context.Context, id int) (*Booking, *wallet.Entry, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, nil, err
	}
	defer tx.Rollback()

	var booking Booking
	err = tx.QueryRowxContext(ctx, `
		UPDATE bookings
		SET status = 'cancelled', cancelled_at = NOW()
		WHERE id = $1 AND status = 'booked' AND window_end >= NOW()
		RETURNING id, user_id, menu_item_id, meal_type, meal_date, window_start, window_end,
		          quantity, unit_price_cents, total_cents, status, created_at, cancelled_at, served_at
	`, id).StructScan(&booking)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, r.classifyConflict(ctx, id)
		}
		return nil, nil, err
	}

	entry, err := r.wallets.CreditTx(ctx, tx, booking.UserID, booking.TotalCents, fmt.Sprintf("refund:booking:%d", booking.ID))
	if err != nil {
		return nil, nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, err
	}

	return &booking, entry, nil
}

// RedeemBooking marks a booked booking served. The guarded UPDATE makes
// cancel/redeem races resolve to exactly one winner; the loser gets a
// state-conflict error, never corrupted state.
func (r *repository) RedeemBooking(ctx context.Context, id int) (*Booking, error) {
	var booking Booking
	err := r.db.QueryRowxContext(ctx, `
		UPDATE bookings
		SET status = 'served', served_at = NOW()
		WHERE id = $1 AND status = 'booked' AND window_end >= NOW()
		RETURNING id, user_id, menu_item_id, meal_type, meal_date, window_start, window_end,
		          quantity, unit_price_cents, total_cents, status, created_at, cancelled_at, served_at
	`, id).StructScan(&booking)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, r.classifyConflict(ctx, id)
		}
		return nil, err
	}

	return &booking, nil
}

// classifyConflict turns a zero-row guarded UPDATE into the specific
// state-conflict error the caller must surface.
func (r *repository) classifyConflict(ctx context.Context, id int) error {
	var status Status
	err := r.db.GetContext(ctx, &status, `
		SELECT CASE WHEN status = 'booked' AND window_end < NOW() THEN 'expired' ELSE status END
		FROM bookings WHERE id = $1
	`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrBookingNotFound
		}
		return err
	}

	switch status {
	case StatusServed:
		return ErrAlreadyRedeemed
	default:
		return ErrBookingNotRedeemable
	}
}

// ExpireDue settles bookings whose meal window has fully elapsed.
// No refund: a no-show forfeits the meal.
func (r *repository) ExpireDue(ctx context.Context) (int64, error) {
	result, err := r.db.ExecContext(ctx, `
		UPDATE bookings
		SET status = 'expired'
		WHERE status = 'booked' AND window_end < NOW()
	`)
	if err != nil {
		return 0, err
	}

	return result.RowsAffected()
}

func (r *repository) CountActiveForItem(ctx context.Context, menuItemID int) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `
		SELECT COALESCE(SUM(quantity), 0)
		FROM bookings
		WHERE menu_item_id = $1 AND status = 'booked'
	`, menuItemID)
	if err != nil {
		return 0, err
	}

	return count, nil
}

func (r *repository) UserHasBookingForItem(ctx context.Context, userID, menuItemID int) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `
		SELECT EXISTS(
			SELECT 1 FROM bookings
			WHERE user_id = $1 AND menu_item_id = $2 AND status = 'booked'
		)
	`, userID, menuItemID)
	if err != nil {
		return false, err
	}

	return exists, nil
}

func (r *repository) GetUserBookings(ctx context.Context, userID int) ([]Booking, error) {
	var bookings []Booking
	err := r.db.SelectContext(ctx, &bookings,
		`SELECT `+bookingColumns+` FROM bookings WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}

	return bookings, nil
}

func (r *repository) GetBookingsByDate(ctx context.Context, date string) ([]Booking, error) {
	var bookings []Booking
	err := r.db.SelectContext(ctx, &bookings,
		`SELECT `+bookingColumns+` FROM bookings WHERE meal_date = $1 ORDER BY window_start ASC, created_at DESC`, date)
	if err != nil {
		return nil, err
	}

	return bookings, nil
}
