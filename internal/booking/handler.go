package booking

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"messmate/internal/auth"
	"messmate/internal/wallet"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// CreateBooking godoc
// @Summary      Book a meal
// @Description  Charges the wallet and creates a booking in one atomic step.
// @Tags         bookings
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      CreateBookingRequest  true  "Meal and quantity"
// @Success      201      {object}  CreateBookingResponse
// @Failure      400      {object}  gin.H
// @Failure      402      {object}  gin.H
// @Failure      409      {object}  gin.H
// @Router       /bookings [post]
func (h *Handler) CreateBooking(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.service.CreateBooking(c.Request.Context(), userID, req)
	if err != nil {
		var insufficient *wallet.InsufficientBalanceError
		switch {
		case errors.As(err, &insufficient):
			c.JSON(http.StatusPaymentRequired, gin.H{
				"error":           "insufficient wallet balance",
				"shortfall_cents": insufficient.ShortfallCents,
			})
		case errors.Is(err, ErrItemUnavailable):
			c.JSON(http.StatusNotFound, gin.H{"error": "menu item not available"})
		case errors.Is(err, ErrMealWindowOver):
			c.JSON(http.StatusBadRequest, gin.H{"error": "meal window has already ended"})
		case errors.Is(err, ErrMealFull):
			c.JSON(http.StatusConflict, gin.H{"error": "meal is fully booked"})
		case errors.Is(err, ErrAlreadyBooked):
			c.JSON(http.StatusConflict, gin.H{"error": "you already have a booking for this meal"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create booking"})
		}
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// CancelBooking godoc
// @Summary      Cancel booking
// @Description  Cancels a booked meal and refunds the original charge.
// @Tags         bookings
// @Security     BearerAuth
// @Produce      json
// @Param        bookingID  path      int  true  "Booking ID"
// @Success      200        {object}  CancelBookingResponse
// @Failure      400        {object}  gin.H
// @Failure      403        {object}  gin.H
// @Failure      404        {object}  gin.H
// @Failure      409        {object}  gin.H
// @Router       /bookings/{bookingID}/cancel [post]
func (h *Handler) CancelBooking(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	bookingID, err := strconv.Atoi(c.Param("bookingID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking ID"})
		return
	}

	resp, err := h.service.CancelBooking(c.Request.Context(), userID, bookingID)
	if err != nil {
		switch {
		case errors.Is(err, ErrBookingNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "booking not found"})
		case errors.Is(err, ErrNotOwner):
			c.JSON(http.StatusForbidden, gin.H{"error": "you can only cancel your own bookings"})
		case errors.Is(err, ErrCancellationWindowClosed):
			c.JSON(http.StatusConflict, gin.H{"error": "cancellation window closed"})
		case errors.Is(err, ErrAlreadyRedeemed):
			c.JSON(http.StatusConflict, gin.H{"error": "booking already redeemed"})
		case errors.Is(err, ErrBookingNotRedeemable):
			c.JSON(http.StatusConflict, gin.H{"error": "booking is not cancellable"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to cancel booking"})
		}
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ListMyBookings godoc
// @Summary      List my bookings
// @Tags         bookings
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}   Booking
// @Router       /bookings [get]
func (h *Handler) ListMyBookings(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	bookings, err := h.service.GetUserBookings(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch bookings"})
		return
	}

	c.JSON(http.StatusOK, bookings)
}

// ListBookingsByDate godoc
// @Summary      List bookings for a date
// @Description  Returns all bookings scheduled on a date. Admin only.
// @Tags         bookings
// @Security     BearerAuth
// @Produce      json
// @Param        date  query     string  false  "Date (YYYY-MM-DD), defaults to today"
// @Success      200   {array}   Booking
// @Failure      400   {object}  gin.H
// @Router       /admin/bookings [get]
func (h *Handler) ListBookingsByDate(c *gin.Context) {
	dateStr := c.DefaultQuery("date", time.Now().Format("2006-01-02"))
	if _, err := time.Parse("2006-01-02", dateStr); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, use YYYY-MM-DD"})
		return
	}

	bookings, err := h.service.GetBookingsByDate(c.Request.Context(), dateStr)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch bookings"})
		return
	}

	c.JSON(http.StatusOK, bookings)
}
