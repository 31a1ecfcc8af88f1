package booking

import (
	"time"

	"messmate/internal/menu"
	"messmate/internal/wallet"
)

type Status string

const (
	// StatusBooked is the only state a redemption token can be consumed from.
	StatusBooked    Status = "booked"
	StatusServed    Status = "served"
	StatusCancelled Status = "cancelled"
	StatusExpired   Status = "expired"
)

// Terminal reports whether a booking can never change state again.
func (s Status) Terminal() bool {
	return s == StatusServed || s == StatusCancelled || s == StatusExpired
}

// Booking is one meal reservation. Pricing is captured at creation time:
// UnitPriceCents and TotalCents never change even if the menu item is
// repriced later.
type Booking struct {
	ID             int           `db:"id" json:"id"`
	UserID         int           `db:"user_id" json:"user_id"`
	MenuItemID     int           `db:"menu_item_id" json:"menu_item_id"`
	MealType       menu.MealType `db:"meal_type" json:"meal_type"`
	MealDate       time.Time     `db:"meal_date" json:"meal_date"`
	WindowStart    time.Time     `db:"window_start" json:"window_start"`
	WindowEnd      time.Time     `db:"window_end" json:"window_end"`
	Quantity       int           `db:"quantity" json:"quantity"`
	UnitPriceCents int64         `db:"unit_price_cents" json:"unit_price_cents"`
	TotalCents     int64         `db:"total_cents" json:"total_cents"`
	Status         Status        `db:"status" json:"status"`
	CreatedAt      time.Time     `db:"created_at" json:"created_at"`
	CancelledAt    *time.Time    `db:"cancelled_at" json:"cancelled_at,omitempty"`
	ServedAt       *time.Time    `db:"served_at" json:"served_at,omitempty"`
}

type CreateBookingRequest struct {
	MenuItemID int `json:"menu_item_id" binding:"required"`
	Quantity   int `json:"quantity" binding:"required,min=1,max=10"`
}

type CreateBookingResponse struct {
	Booking      *Booking      `json:"booking"`
	Charged      *wallet.Entry `json:"charged"`
	BalanceCents int64         `json:"balance_cents"`
}

type CancelBookingResponse struct {
	Booking  *Booking      `json:"booking"`
	Refunded *wallet.Entry `json:"refunded"`
}
