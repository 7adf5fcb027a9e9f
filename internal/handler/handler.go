package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"patient-booking-api/internal/booking"
	"patient-booking-api/internal/middleware"
)

type Handler struct {
	svc *booking.Service
}

func New(svc *booking.Service) *Handler {
	return &Handler{svc: svc}
}

// Mount wires all routes onto the engine. Credential endpoints get the rate
// limiter; everything under the auth group requires a valid bearer token.
func (h *Handler) Mount(r *gin.Engine, secret string, rl *middleware.RateLimiter) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.POST("/register", middleware.RateLimit(rl), h.Register)
	r.POST("/login", middleware.RateLimit(rl), h.Login)
	r.GET("/slots/available", h.ListAvailableSlots)

	authed := r.Group("/")
	authed.Use(middleware.Auth(secret))
	authed.POST("/slots/book", h.Book)
	authed.GET("/slots/booked", h.MyBookings)
	authed.GET("/me", h.Me)
}

// token returns the raw bearer token placed in the context by the auth
// middleware.
func token(c *gin.Context) string {
	return c.GetString(middleware.TokenKey)
}
