package token

import "time"

// Token is a short-lived, single-use credential authorizing pickup of
// one specific booking. The server is the sole authority on issuance,
// expiry and consumption; anything embedded in the QR payload is
// display data only.
type Token struct {
	ID         int        `db:"id" json:"id"`
	BookingID  int        `db:"booking_id" json:"booking_id"`
	Value      string     `db:"token" json:"-"`
	IssuedAt   time.Time  `db:"issued_at" json:"issued_at"`
	ExpiresAt  time.Time  `db:"expires_at" json:"expires_at"`
	ConsumedAt *time.Time `db:"consumed_at" json:"consumed_at,omitempty"`
	RevokedAt  *time.Time `db:"revoked_at" json:"revoked_at,omitempty"`
}

// Live reports whether the token can still be consumed at t.
func (t *Token) Live(at time.Time) bool {
	return t.ConsumedAt == nil && t.RevokedAt == nil && at.Before(t.ExpiresAt)
}

// DisplayPayload is the advisory data rendered next to the QR code.
type DisplayPayload struct {
	BookingID   int       `json:"booking_id"`
	MealType    string    `json:"meal_type"`
	MealDate    string    `json:"meal_date"`
	WindowStart time.Time `json:"window_start"`
	WindowEnd   time.Time `json:"window_end"`
	Quantity    int       `json:"quantity"`
	IssuedAt    time.Time `json:"issued_at"`
}

type IssueResponse struct {
	Token       string         `json:"token"`
	ExpiresAt   time.Time      `json:"expires_at"`
	Display     DisplayPayload `json:"display"`
	QRPNGBase64 string         `json:"qr_png_base64"`
}
