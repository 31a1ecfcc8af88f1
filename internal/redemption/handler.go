package redemption

import (
	"errors"
	"net/http"
	"time"

	"messmate/internal/auth"
	"messmate/internal/booking"
	"messmate/internal/logger"
	"messmate/internal/metrics"
	"messmate/internal/token"

	"github.com/gin-gonic/gin"
)

// Handler is the counter-side coordinator: it owns no state and only
// sequences token validation and the booking transition.
type Handler struct {
	tokens   token.Service
	bookings booking.Service
}

func NewHandler(tokens token.Service, bookings booking.Service) *Handler {
	return &Handler{
		tokens:   tokens,
		bookings: bookings,
	}
}

type RedeemRequest struct {
	Token string `json:"token" binding:"required"`
}

type RedeemResponse struct {
	BookingID int       `json:"booking_id"`
	MealType  string    `json:"meal_type"`
	Quantity  int       `json:"quantity"`
	ServedAt  time.Time `json:"served_at"`
}

// Redeem godoc
// @Summary      Redeem a scanned token
// @Description  Validates a scanned or manually entered token and marks the booking served.
// @Tags         redemption
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      RedeemRequest  true  "Opaque token value"
// @Success      200      {object}  RedeemResponse
// @Failure      400      {object}  gin.H
// @Failure      404      {object}  gin.H
// @Failure      409      {object}  gin.H
// @Failure      410      {object}  gin.H
// @Router       /redeem [post]
func (h *Handler) Redeem(c *gin.Context) {
	staffID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req RedeemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "token is required"})
		return
	}

	tok, err := h.tokens.Validate(c.Request.Context(), req.Token)
	if err != nil {
		h.respondError(c, staffID, err)
		return
	}

	served, err := h.bookings.Redeem(c.Request.Context(), tok.BookingID)
	if err != nil {
		h.respondError(c, staffID, err)
		return
	}

	metrics.RecordRedemption("served")
	logger.Info("Meal redeemed",
		"booking_id", served.ID,
		"meal_type", served.MealType,
		"quantity", served.Quantity,
		"staff_id", staffID,
	)

	servedAt := time.Now()
	if served.ServedAt != nil {
		servedAt = *served.ServedAt
	}

	c.JSON(http.StatusOK, RedeemResponse{
		BookingID: served.ID,
		MealType:  string(served.MealType),
		Quantity:  served.Quantity,
		ServedAt:  servedAt,
	})
}

func (h *Handler) respondError(c *gin.Context, staffID int, err error) {
	var status int
	var msg, result string

	switch {
	case errors.Is(err, token.ErrTokenNotFound):
		status, msg, result = http.StatusNotFound, "token not found", "token_not_found"
	case errors.Is(err, token.ErrTokenExpired):
		status, msg, result = http.StatusGone, "token expired, ask the student to reissue", "token_expired"
	case errors.Is(err, token.ErrTokenAlreadyUsed):
		status, msg, result = http.StatusConflict, "token already used", "token_already_used"
	case errors.Is(err, booking.ErrAlreadyRedeemed):
		status, msg, result = http.StatusConflict, "booking already redeemed", "already_redeemed"
	case errors.Is(err, booking.ErrBookingNotRedeemable):
		status, msg, result = http.StatusConflict, "booking is not redeemable", "not_redeemable"
	case errors.Is(err, booking.ErrBookingNotFound):
		status, msg, result = http.StatusNotFound, "booking not found", "booking_not_found"
	default:
		status, msg, result = http.StatusInternalServerError, "redemption failed", "error"
	}

	metrics.RecordRedemption(result)
	logger.Info("Redemption rejected", "result", result, "staff_id", staffID)

	c.JSON(status, gin.H{"error": msg})
}
