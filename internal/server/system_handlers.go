package server

import (
	"net/http"

	"messmate/internal/api"
	"messmate/internal/metrics"
	"messmate/internal/notify"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200 {object} api.HealthResponse
// @Router       /health [get]
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, api.HealthResponse{Status: "ok"})
}

// @Summary      Prometheus metrics
// @Description  Exposes Prometheus metrics in text format
// @Tags         system
// @Produce      text/plain
// @Success      200 {string} string
// @Router       /metrics [get]
func Metrics() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}

// @Summary      Notification queue length
// @Tags         system
// @Produce      json
// @Success      200 {object} gin.H
// @Router       /queue-length [get]
func QueueLength(notifier *notify.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		length := notifier.QueueLength(c.Request.Context())
		metrics.NotificationQueueLength.Set(float64(length))
		c.JSON(http.StatusOK, gin.H{"queue_length": length})
	}
}
