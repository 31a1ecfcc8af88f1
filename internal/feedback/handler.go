package feedback

import (
	"net/http"
	"time"

	"messmate/internal/auth"
	"messmate/internal/menu"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

type Handler struct {
	repo *Repository
}

func NewHandler(db *sqlx.DB) *Handler {
	return &Handler{
		repo: NewRepository(db),
	}
}

// CreateFeedback godoc
// @Summary      Submit meal feedback
// @Tags         feedback
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      CreateFeedbackRequest  true  "Feedback"
// @Success      201      {object}  Feedback
// @Failure      400      {object}  gin.H
// @Router       /feedback [post]
func (h *Handler) CreateFeedback(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req CreateFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	mealType := menu.MealType(req.MealType)
	if !mealType.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid meal type"})
		return
	}

	mealDate, err := time.Parse("2006-01-02", req.MealDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid meal_date, use YYYY-MM-DD"})
		return
	}

	fb, err := h.repo.Create(c.Request.Context(), userID, mealType, mealDate, req.Rating, req.Comment)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to submit feedback"})
		return
	}

	c.JSON(http.StatusCreated, fb)
}

// ListMyFeedback godoc
// @Summary      List my feedback
// @Tags         feedback
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}  Feedback
// @Router       /feedback [get]
func (h *Handler) ListMyFeedback(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	items, err := h.repo.ListByUser(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load feedback"})
		return
	}

	c.JSON(http.StatusOK, items)
}

// ListFeedbackByDate godoc
// @Summary      List feedback for a date
// @Description  Admin only.
// @Tags         feedback
// @Security     BearerAuth
// @Produce      json
// @Param        date  query     string  false  "Date (YYYY-MM-DD), defaults to today"
// @Success      200   {array}   FeedbackWithUser
// @Failure      400   {object}  gin.H
// @Router       /admin/feedback [get]
func (h *Handler) ListFeedbackByDate(c *gin.Context) {
	dateStr := c.DefaultQuery("date", time.Now().Format("2006-01-02"))
	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, use YYYY-MM-DD"})
		return
	}

	items, err := h.repo.ListByDate(c.Request.Context(), date)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load feedback"})
		return
	}

	c.JSON(http.StatusOK, items)
}
