package server

import (
	"context"
	"net/http"
	"time"

	"messmate/internal/auth"
	"messmate/internal/booking"
	"messmate/internal/config"
	"messmate/internal/feedback"
	"messmate/internal/menu"
	"messmate/internal/notify"
	"messmate/internal/redemption"
	"messmate/internal/token"
	"messmate/internal/user"
	"messmate/internal/wallet"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

type Server struct {
	router *gin.Engine
	http   *http.Server
	db     *sqlx.DB
	config *config.Config
}

func New(db *sqlx.DB, cfg *config.Config, notifier *notify.Service, bookingService booking.Service) *Server {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())
	router.Use(RequestIDMiddleware())
	router.Use(RequestLoggingMiddleware())
	router.Use(MetricsMiddleware())

	userService := user.NewService(user.NewRepository(db), cfg.JWTSecret)
	userHandler := user.NewHandler(userService)
	menuHandler := menu.NewHandler(db)
	walletHandler := wallet.NewHandler(db)
	bookingHandler := booking.NewHandler(bookingService)
	feedbackHandler := feedback.NewHandler(db)

	tokenService := token.NewService(token.NewRepository(db), bookingService, cfg.TokenTTL)
	tokenHandler := token.NewHandler(tokenService, bookingService)
	redemptionHandler := redemption.NewHandler(tokenService, bookingService)

	public := router.Group("/auth")
	{
		public.POST("/register", userHandler.Register)
		public.POST("/login", userHandler.Login)
		public.POST("/refresh", userHandler.RefreshToken)
	}

	authMiddleware := auth.AuthMiddleware(cfg.JWTSecret)
	protected := router.Group("/")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", userHandler.GetMe)
		protected.GET("/menu", menuHandler.GetMenu)

		protected.GET("/wallet", walletHandler.GetBalance)
		protected.POST("/wallet/topup", walletHandler.TopUp)
		protected.GET("/wallet/entries", walletHandler.ListEntries)

		protected.POST("/bookings", bookingHandler.CreateBooking)
		protected.GET("/bookings", bookingHandler.ListMyBookings)
		protected.POST("/bookings/:bookingID/cancel", bookingHandler.CancelBooking)
		protected.POST("/bookings/:bookingID/token", tokenHandler.IssueToken)

		protected.POST("/feedback", feedbackHandler.CreateFeedback)
		protected.GET("/feedback", feedbackHandler.ListMyFeedback)
	}

	// Counter-side scan endpoint. Rate limited so a misbehaving scanner
	// cannot brute-force token values.
	counter := router.Group("/redeem")
	counter.Use(authMiddleware, auth.RequireAnyRole(user.RoleStaff, user.RoleAdmin), RateLimitMiddleware(5, 10))
	{
		counter.POST("", redemptionHandler.Redeem)
	}

	adminMiddleware := auth.RequireRole(user.RoleAdmin)
	admin := router.Group("/admin")
	admin.Use(authMiddleware, adminMiddleware)
	{
		admin.POST("/menu", menuHandler.CreateItem)
		admin.PATCH("/menu/:itemID/availability", menuHandler.SetAvailability)
		admin.GET("/bookings", bookingHandler.ListBookingsByDate)
		admin.GET("/feedback", feedbackHandler.ListFeedbackByDate)
	}

	router.GET("/health", Health)
	router.GET("/metrics", Metrics())
	router.GET("/queue-length", QueueLength(notifier))

	return &Server{
		router: router,
		db:     db,
		config: cfg,
	}
}

func (s *Server) Start(port string) error {
	s.http = &http.Server{
		Addr:              ":" + port,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s.http.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
