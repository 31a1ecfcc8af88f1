package token

import (
	"errors"
	"net/http"
	"strconv"

	"messmate/internal/auth"
	"messmate/internal/booking"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service  Service
	bookings booking.Service
}

func NewHandler(service Service, bookings booking.Service) *Handler {
	return &Handler{
		service:  service,
		bookings: bookings,
	}
}

// IssueToken godoc
// @Summary      Issue QR redemption token
// @Description  Mints a fresh single-use token for one of the user's booked meals. Any previous token for the booking is invalidated.
// @Tags         tokens
// @Security     BearerAuth
// @Produce      json
// @Param        bookingID  path      int  true  "Booking ID"
// @Success      201        {object}  IssueResponse
// @Failure      400        {object}  gin.H
// @Failure      403        {object}  gin.H
// @Failure      404        {object}  gin.H
// @Failure      409        {object}  gin.H
// @Router       /bookings/{bookingID}/token [post]
func (h *Handler) IssueToken(c *gin.Context) {
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

	b, err := h.bookings.GetBooking(c.Request.Context(), bookingID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "booking not found"})
		return
	}

	if b.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "you can only request tokens for your own bookings"})
		return
	}

	resp, err := h.service.Issue(c.Request.Context(), bookingID)
	if err != nil {
		switch {
		case errors.Is(err, booking.ErrBookingNotRedeemable):
			c.JSON(http.StatusConflict, gin.H{"error": "booking is not redeemable"})
		case errors.Is(err, booking.ErrBookingNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "booking not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to issue token"})
		}
		return
	}

	c.JSON(http.StatusCreated, resp)
}
