package token

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"time"

	"messmate/internal/booking"
	"messmate/internal/metrics"

	qrcode "github.com/skip2/go-qrcode"
)

const tokenBytes = 32

type Service interface {
	Issue(ctx context.Context, bookingID int) (*IssueResponse, error)
	Validate(ctx context.Context, value string) (*Token, error)
}

type service struct {
	repo     Repository
	bookings booking.Service
	ttl      time.Duration
}

func NewService(repo Repository, bookings booking.Service, ttl time.Duration) Service {
	return &service{
		repo:     repo,
		bookings: bookings,
		ttl:      ttl,
	}
}

func generateValue() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// Issue mints a fresh single-use token for a booked meal. Reissuing
// immediately invalidates the previous token, so a photographed QR code
// goes stale the moment the owner regenerates it.
func (s *service) Issue(ctx context.Context, bookingID int) (*IssueResponse, error) {
	b, err := s.bookings.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if b.Status != booking.StatusBooked {
		return nil, booking.ErrBookingNotRedeemable
	}

	value, err := generateValue()
	if err != nil {
		return nil, err
	}

	tok, err := s.repo.CreateToken(ctx, bookingID, value, time.Now().Add(s.ttl))
	if err != nil {
		return nil, err
	}

	png, err := qrcode.Encode(value, qrcode.Medium, 256)
	if err != nil {
		return nil, err
	}

	metrics.RecordTokenIssued()

	return &IssueResponse{
		Token:     value,
		ExpiresAt: tok.ExpiresAt,
		Display: DisplayPayload{
			BookingID:   b.ID,
			MealType:    string(b.MealType),
			MealDate:    b.MealDate.Format("2006-01-02"),
			WindowStart: b.WindowStart,
			WindowEnd:   b.WindowEnd,
			Quantity:    b.Quantity,
			IssuedAt:    tok.IssuedAt,
		},
		QRPNGBase64: base64.StdEncoding.EncodeToString(png),
	}, nil
}

// Validate consumes the token if and only if it is live and its booking
// is still redeemable. The repository's check-and-set is the
// serialization point between concurrent scans.
func (s *service) Validate(ctx context.Context, value string) (*Token, error) {
	tok, err := s.repo.GetByValue(ctx, value)
	if err != nil {
		return nil, err
	}

	b, err := s.bookings.GetBooking(ctx, tok.BookingID)
	if err != nil {
		return nil, err
	}

	if b.Status != booking.StatusBooked {
		if b.Status == booking.StatusServed {
			return nil, booking.ErrAlreadyRedeemed
		}
		return nil, booking.ErrBookingNotRedeemable
	}

	return s.repo.Consume(ctx, value)
}
