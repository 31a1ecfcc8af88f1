package menu

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestCreateItemRequest_Validation(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.POST("/", func(c *gin.Context) {
		var req CreateItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, req)
	})

	w := httptest.NewRecorder()
	reqBody := bytes.NewBuffer([]byte(`{}`))
	req, _ := http.NewRequest(http.MethodPost, "/", reqBody)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Name")
	assert.Contains(t, w.Body.String(), "required")
}

func TestCreateItemRequest_RejectsUnknownMealType(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.POST("/", func(c *gin.Context) {
		var req CreateItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, req)
	})

	body := `{"name": "Thali", "meal_type": "brunch", "meal_date": "2026-09-02",
		"window_start": "2026-09-02T12:00:00+05:30", "window_end": "2026-09-02T14:00:00+05:30",
		"price_cents": 6000, "capacity": 100}`

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/", bytes.NewBufferString(body))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "mealtype")
}

func TestUpdateAvailabilityRequest_Validation(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.PATCH("/", func(c *gin.Context) {
		var req UpdateAvailabilityRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, req)
	})

	// false is a legal value, it must bind through the pointer
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPatch, "/", bytes.NewBufferString(`{"available": false}`))
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest(http.MethodPatch, "/", bytes.NewBufferString(`{}`))
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
