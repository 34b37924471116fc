package api

import (
	"log"
	stdhttp "net/http"

	intconfig "backend/internal/config"
	h "backend/internal/http/handlers"
	"backend/internal/http/middleware"

	"github.com/gin-gonic/gin"
)

func NewRouter(env intconfig.Env) *gin.Engine {
	h.SetJWTSecret([]byte(env.JWTSecret))

	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), gin.Recovery(), middleware.CORS(env.CORSOrigins))

	if err := r.SetTrustedProxies(nil); err != nil {
		log.Printf("warning: failed to set trusted proxies: %v", err)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"error":  "rota não encontrada",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})

	staffOnly := middleware.RequireStaff([]byte(env.JWTSecret))
	optionalAuth := middleware.OptionalAuth([]byte(env.JWTSecret))

	api := r.Group("/api")
	{
		api.GET("/health", h.Health)
		api.GET("/db-check", h.DBCheck)
		api.GET("/routes", h.Routes)

		// Auth
		auth := api.Group("/auth")
		auth.POST("/login", h.Login)
		auth.POST("/register", h.Register)

		// Adventures (leitura aberta; escrita só staff)
		adventures := api.Group("/adventures")
		adventures.GET("", h.GetAdventures)
		adventures.GET("/:id", h.GetAdventureByID)
		adventures.GET("/:id/times", h.GetAdventureTimes)
		adventures.POST("", staffOnly, h.CreateAdventure)
		adventures.PUT("/:id", staffOnly, h.UpdateAdventure)
		adventures.DELETE("/:id", staffOnly, h.DeactivateAdventure)

		// Agencies
		agencies := api.Group("/agencies", staffOnly)
		agencies.GET("", h.GetAgencies)
		agencies.GET("/:id", h.GetAgencyByID)
		agencies.POST("", h.CreateAgency)
		agencies.PUT("/:id", h.UpdateAgency)

		// Availability (advisory) & quote
		api.POST("/availability/check", h.CheckAvailability)

		// Bookings
		bookings := api.Group("/bookings")
		bookings.POST("/quote", h.GetBookingQuote)
		bookings.POST("", optionalAuth, h.SubmitBooking)
		bookings.GET("", staffOnly, h.GetBookingsBySlot)
		bookings.GET("/:id", h.GetBookingByID)
		bookings.GET("/:id/voucher", h.GetBookingVoucherPDF)
		bookings.GET("/:id/invoice", h.GetBookingInvoicePDF)
		bookings.PUT("/:id/status", staffOnly, h.UpdateBookingStatus)
		bookings.PUT("/:id/payment-status", staffOnly, h.UpdateBookingPaymentStatus)
	}

	h.SetRouter(r)
	return r
}
