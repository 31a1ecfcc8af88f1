package menu

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

type Handler struct {
	service Service
}

func NewHandler(db *sqlx.DB) *Handler {
	return &Handler{
		service: NewService(NewRepository(db)),
	}
}

// GetMenu godoc
// @Summary      Daily menu
// @Description  Returns the menu for a date with per-item availability.
// @Tags         menu
// @Security     BearerAuth
// @Produce      json
// @Param        date  query     string  false  "Date (YYYY-MM-DD), defaults to today"
// @Success      200   {array}   ItemWithAvailability
// @Failure      400   {object}  gin.H
// @Router       /menu [get]
func (h *Handler) GetMenu(c *gin.Context) {
	dateStr := c.DefaultQuery("date", time.Now().Format("2006-01-02"))
	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, use YYYY-MM-DD"})
		return
	}

	items, err := h.service.GetMenuForDate(c.Request.Context(), date)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load menu"})
		return
	}

	c.JSON(http.StatusOK, items)
}

// CreateItem godoc
// @Summary      Add menu item
// @Description  Creates a meal offering for a date. Admin only.
// @Tags         menu
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      CreateItemRequest  true  "Menu item"
// @Success      201      {object}  Item
// @Failure      400      {object}  gin.H
// @Router       /admin/menu [post]
func (h *Handler) CreateItem(c *gin.Context) {
	var req CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item, err := h.service.CreateItem(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, ErrItemInvalid) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid menu item"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create menu item"})
		return
	}

	c.JSON(http.StatusCreated, item)
}

// SetAvailability godoc
// @Summary      Toggle item availability
// @Description  Marks a menu item available or sold out. Admin only.
// @Tags         menu
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        itemID   path      int                        true  "Menu item ID"
// @Param        request  body      UpdateAvailabilityRequest  true  "Availability"
// @Success      200      {object}  gin.H
// @Failure      400      {object}  gin.H
// @Failure      404      {object}  gin.H
// @Router       /admin/menu/{itemID}/availability [patch]
func (h *Handler) SetAvailability(c *gin.Context) {
	itemID, err := strconv.Atoi(c.Param("itemID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid item ID"})
		return
	}

	var req UpdateAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Available == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "available is required"})
		return
	}

	if err := h.service.SetAvailability(c.Request.Context(), itemID, *req.Available); err != nil {
		if errors.Is(err, ErrItemNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "menu item not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update availability"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "availability updated"})
}
