package booking

import (
	"context"
	"time"

	"messmate/internal/menu"
	"messmate/internal/metrics"
)

// Notifier is the fire-and-forget publish channel for booking events.
// Delivery failure is never a transactional failure.
type Notifier interface {
	BookingConfirmed(ctx context.Context, userID int, mealType string, when time.Time, totalCents int64)
	BookingCancelled(ctx context.Context, userID int, mealType string, when time.Time, refundCents int64)
	RedemptionConfirmed(ctx context.Context, userID int, mealType string, quantity int)
	LowBalance(ctx context.Context, userID int, balanceCents int64)
}

type Service interface {
	CreateBooking(ctx context.Context, userID int, req CreateBookingRequest) (*CreateBookingResponse, error)
	CancelBooking(ctx context.Context, userID, bookingID int) (*CancelBookingResponse, error)
	Redeem(ctx context.Context, bookingID int) (*Booking, error)
	GetBooking(ctx context.Context, bookingID int) (*Booking, error)
	GetUserBookings(ctx context.Context, userID int) ([]Booking, error)
	GetBookingsByDate(ctx context.Context, date string) ([]Booking, error)
	ExpireDue(ctx context.Context) (int64, error)
}

type service struct {
	repo     Repository
	menuRepo menu.Repository
	notifier Notifier

	cancelCutoff             time.Duration
	lowBalanceThresholdCents int64
}

func NewService(repo Repository, menuRepo menu.Repository, notifier Notifier, cancelCutoff time.Duration, lowBalanceThresholdCents int64) Service {
	return &service{
		repo:                     repo,
		menuRepo:                 menuRepo,
		notifier:                 notifier,
		cancelCutoff:             cancelCutoff,
		lowBalanceThresholdCents: lowBalanceThresholdCents,
	}
}

func (s *service) CreateBooking(ctx context.Context, userID int, req CreateBookingRequest) (*CreateBookingResponse, error) {
	item, err := s.menuRepo.GetItemByID(ctx, req.MenuItemID)
	if err != nil {
		return nil, ErrItemUnavailable
	}

	if !item.Available {
		return nil, ErrItemUnavailable
	}

	if time.Now().After(item.WindowEnd) {
		return nil, ErrMealWindowOver
	}

	hasBooking, err := s.repo.UserHasBookingForItem(ctx, userID, item.ID)
	if err != nil {
		return nil, err
	}
	if hasBooking {
		return nil, ErrAlreadyBooked
	}

	bookedCount, err := s.repo.CountActiveForItem(ctx, item.ID)
	if err != nil {
		return nil, err
	}
	if bookedCount+req.Quantity > item.Capacity {
		return nil, ErrMealFull
	}

	booking, entry, err := s.repo.CreateBooking(ctx, userID, item, req.Quantity)
	if err != nil {
		return nil, err
	}

	metrics.RecordBooking(string(booking.MealType))
	s.notifier.BookingConfirmed(ctx, userID, string(booking.MealType), booking.WindowStart, booking.TotalCents)
	if entry.BalanceAfter < s.lowBalanceThresholdCents {
		s.notifier.LowBalance(ctx, userID, entry.BalanceAfter)
	}

	return &CreateBookingResponse{
		Booking:      booking,
		Charged:      entry,
		BalanceCents: entry.BalanceAfter,
	}, nil
}

func (s *service) CancelBooking(ctx context.Context, userID, bookingID int) (*CancelBookingResponse, error) {
	booking, err := s.repo.GetBookingByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if booking.UserID != userID {
		return nil, ErrNotOwner
	}

	switch booking.Status {
	case StatusBooked:
	case StatusExpired:
		return nil, ErrCancellationWindowClosed
	default:
		return nil, ErrBookingNotRedeemable
	}

	if time.Now().After(booking.WindowStart.Add(-s.cancelCutoff)) {
		return nil, ErrCancellationWindowClosed
	}

	cancelled, refund, err := s.repo.CancelBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	metrics.RecordBookingCancellation()
	s.notifier.BookingCancelled(ctx, userID, string(cancelled.MealType), cancelled.WindowStart, refund.AmountCents)

	return &CancelBookingResponse{
		Booking:  cancelled,
		Refunded: refund,
	}, nil
}

// Redeem transitions a booking to served. Invoked by the redemption
// endpoint after token validation; idempotency lives in the guarded
// repository update.
func (s *service) Redeem(ctx context.Context, bookingID int) (*Booking, error) {
	booking, err := s.repo.RedeemBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	s.notifier.RedemptionConfirmed(ctx, booking.UserID, string(booking.MealType), booking.Quantity)

	return booking, nil
}

func (s *service) GetBooking(ctx context.Context, bookingID int) (*Booking, error) {
	return s.repo.GetBookingByID(ctx, bookingID)
}

func (s *service) GetUserBookings(ctx context.Context, userID int) ([]Booking, error) {
	return s.repo.GetUserBookings(ctx, userID)
}

func (s *service) GetBookingsByDate(ctx context.Context, date string) ([]Booking, error) {
	return s.repo.GetBookingsByDate(ctx, date)
}

func (s *service) ExpireDue(ctx context.Context) (int64, error) {
	return s.repo.ExpireDue(ctx)
}
