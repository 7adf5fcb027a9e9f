package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"patient-booking-api/internal/booking"
	"patient-booking-api/internal/model"
)

type bookRequest struct {
	SlotID int64 `json:"slot_id"`
}

func (h *Handler) ListAvailableSlots(c *gin.Context) {
	slots, err := h.svc.AvailableSlots(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	if slots == nil {
		slots = []model.Slot{}
	}
	c.JSON(http.StatusOK, slots)
}

func (h *Handler) Book(c *gin.Context) {
	var req bookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.SlotID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "slot_id required"})
		return
	}

	claim, err := h.svc.Book(c.Request.Context(), token(c), req.SlotID)
	switch {
	case errors.Is(err, booking.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	case errors.Is(err, booking.ErrSlotUnavailable):
		c.JSON(http.StatusConflict, gin.H{"error": "slot not found or already booked"})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"msg": "slot booked", "claim": claim})
}

func (h *Handler) MyBookings(c *gin.Context) {
	slots, err := h.svc.MyBookings(c.Request.Context(), token(c))
	if errors.Is(err, booking.ErrUnauthenticated) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	if slots == nil {
		slots = []model.Slot{}
	}
	c.JSON(http.StatusOK, slots)
}
