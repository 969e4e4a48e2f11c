package handlers

import (
	"net/http"

	"introcall/models"
	"introcall/services/invitation"

	"github.com/gin-gonic/gin"
)

// InvitationHandler serves invitation endpoints.
type InvitationHandler struct {
	Invitations invitation.InvitationService
}

func NewInvitationHandler(is invitation.InvitationService) *InvitationHandler {
	return &InvitationHandler{Invitations: is}
}

// CreateHandler handles POST /api/invitations.
func (h *InvitationHandler) CreateHandler(c *gin.Context) {
	u, ok := currentUser(c)
	if !ok {
		return
	}
	var req models.CreateInvitationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	inv, err := h.Invitations.Create(c.Request.Context(), u, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, inv)
}

// ListHandler handles GET /api/invitations.
func (h *InvitationHandler) ListHandler(c *gin.Context) {
	u, ok := currentUser(c)
	if !ok {
		return
	}
	list, err := h.Invitations.ListForUser(c.Request.Context(), u)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// GetHandler handles GET /api/invitations/:id.
func (h *InvitationHandler) GetHandler(c *gin.Context) {
	u, ok := currentUser(c)
	if !ok {
		return
	}
	inv, err := h.Invitations.Get(c.Request.Context(), u, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, inv)
}

// DeclineHandler handles POST /api/invitations/:id/decline.
func (h *InvitationHandler) DeclineHandler(c *gin.Context) {
	u, ok := currentUser(c)
	if !ok {
		return
	}
	inv, err := h.Invitations.Decline(c.Request.Context(), u, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, inv)
}

// CancelHandler handles POST /api/invitations/:id/cancel.
func (h *InvitationHandler) CancelHandler(c *gin.Context) {
	u, ok := currentUser(c)
	if !ok {
		return
	}
	inv, err := h.Invitations.Cancel(c.Request.Context(), u, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, inv)
}
