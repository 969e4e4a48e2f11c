package handlers

import (
	"net/http"

	"introcall/models"
	"introcall/services/calls"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CallHandler serves availability and call endpoints.
type CallHandler struct {
	Calls calls.CallService
}

func NewCallHandler(cs calls.CallService) *CallHandler {
	return &CallHandler{Calls: cs}
}

// AvailabilityHandler handles POST /api/availability.
func (h *CallHandler) AvailabilityHandler(c *gin.Context) {
	u, ok := currentUser(c)
	if !ok {
		return
	}
	var req models.AvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	resp, err := h.Calls.GetAvailability(c.Request.Context(), u, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// PreviewHandler handles POST /api/availability/preview.
func (h *CallHandler) PreviewHandler(c *gin.Context) {
	var req models.PreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	slots, err := h.Calls.Preview(req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"slots": slots})
}

// ConfirmHandler handles POST /api/calls/confirm.
func (h *CallHandler) ConfirmHandler(c *gin.Context) {
	u, ok := currentUser(c)
	if !ok {
		return
	}
	var req models.ConfirmBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	resp, err := h.Calls.BookCall(c.Request.Context(), u, req)
	if err != nil {
		writeError(c, err)
		return
	}
	getLogger(c).Info("Call confirmed", zap.String("callID", resp.Call.ID), zap.String("eventRef", resp.EventRef))
	c.JSON(http.StatusCreated, resp)
}

// ListHandler handles GET /api/calls.
func (h *CallHandler) ListHandler(c *gin.Context) {
	u, ok := currentUser(c)
	if !ok {
		return
	}
	list, err := h.Calls.ListCalls(c.Request.Context(), u)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// GetHandler handles GET /api/calls/:id.
func (h *CallHandler) GetHandler(c *gin.Context) {
	u, ok := currentUser(c)
	if !ok {
		return
	}
	call, err := h.Calls.GetCall(c.Request.Context(), u, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, call)
}

// CancelHandler handles POST /api/calls/:id/cancel.
func (h *CallHandler) CancelHandler(c *gin.Context) {
	u, ok := currentUser(c)
	if !ok {
		return
	}
	call, err := h.Calls.CancelCall(c.Request.Context(), u, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, call)
}

// CompleteHandler handles POST /api/calls/:id/complete.
func (h *CallHandler) CompleteHandler(c *gin.Context) {
	u, ok := currentUser(c)
	if !ok {
		return
	}
	call, err := h.Calls.CompleteCall(c.Request.Context(), u, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, call)
}
