package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "messmate_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "messmate_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	BookingsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "messmate_bookings_total",
			Help: "Total number of meal bookings",
		},
		[]string{"meal_type"},
	)

	BookingCancellationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "messmate_booking_cancellations_total",
			Help: "Total number of booking cancellations",
		},
	)

	BookingsExpiredTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "messmate_bookings_expired_total",
			Help: "Total number of no-show bookings settled as expired",
		},
	)

	TokensIssuedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "messmate_redemption_tokens_issued_total",
			Help: "Total number of QR redemption tokens issued",
		},
	)

	RedemptionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "messmate_redemptions_total",
			Help: "Total number of redemption attempts by result",
		},
		[]string{"result"},
	)

	WalletTopUpsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "messmate_wallet_topups_total",
			Help: "Total number of wallet top-ups",
		},
	)

	NotificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "messmate_notifications_total",
			Help: "Total number of notifications by kind and status",
		},
		[]string{"kind", "status"},
	)

	NotificationQueueLength = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "messmate_notification_queue_length",
			Help: "Current length of the notification queue",
		},
	)
)

func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

func RecordBooking(mealType string) {
	BookingsTotal.WithLabelValues(mealType).Inc()
}

func RecordBookingCancellation() {
	BookingCancellationsTotal.Inc()
}

func RecordExpiredBookings(count int64) {
	BookingsExpiredTotal.Add(float64(count))
}

func RecordTokenIssued() {
	TokensIssuedTotal.Inc()
}

func RecordRedemption(result string) {
	RedemptionsTotal.WithLabelValues(result).Inc()
}

func RecordWalletTopUp() {
	WalletTopUpsTotal.Inc()
}

func RecordNotification(kind, status string) {
	NotificationsTotal.WithLabelValues(kind, status).Inc()
}
