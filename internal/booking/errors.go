package booking

import "errors"

var (
	ErrBookingNotFound          = errors.New("booking not found")
	ErrBookingNotRedeemable     = errors.New("booking is not redeemable")
	ErrAlreadyRedeemed          = errors.New("booking already redeemed")
	ErrCancellationWindowClosed = errors.New("cancellation window closed")

	ErrItemUnavailable = errors.New("menu item not available")
	ErrMealWindowOver  = errors.New("meal window has already ended")
	ErrMealFull        = errors.New("meal is fully booked")
	ErrAlreadyBooked   = errors.New("user already has a booking for this meal")
	ErrNotOwner        = errors.New("can only cancel own bookings")
)
