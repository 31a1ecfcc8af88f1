package booking

import (
	"context"

	"messmate/internal/menu"
	"messmate/internal/wallet"
)

type Repository interface {
	CreateBooking(ctx context.Context, userID int, item *menu.Item, quantity int) (*Booking, *wallet.Entry, error)
	GetBookingByID(ctx context.Context, id int) (*Booking, error)
	CancelBooking(ctx context.Context, id int) (*Booking, *wallet.Entry, error)
	RedeemBooking(ctx context.Context, id int) (*Booking, error)
	ExpireDue(ctx context.Context) (int64, error)
	CountActiveForItem(ctx context.Context, menuItemID int) (int, error)
	UserHasBookingForItem(ctx context.Context, userID, menuItemID int) (bool, error)
	GetUserBookings(ctx context.Context, userID int) ([]Booking, error)
	GetBookingsByDate(ctx context.Context, date string) ([]Booking, error)
}
