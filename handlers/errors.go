package handlers

import (
	"errors"
	"net/http"

	"introcall/middleware"
	"introcall/models"
	"introcall/services/availability"
	"introcall/services/calls"
	"introcall/services/invitation"
	"introcall/services/user"
	"introcall/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var errorStatuses = []struct {
	err    error
	status int
}{
	{calls.ErrSessionNotFound, http.StatusGone},
	{calls.ErrSlotNotOffered, http.StatusConflict},
	{calls.ErrCallNotFound, http.StatusNotFound},
	{calls.ErrForbidden, http.StatusForbidden},
	{calls.ErrInvalidTransition, http.StatusConflict},
	{calls.ErrCalendarNotConnected, http.StatusPreconditionFailed},
	{invitation.ErrNotFound, http.StatusNotFound},
	{invitation.ErrForbidden, http.StatusForbidden},
	{invitation.ErrInvalidTransition, http.StatusConflict},
	{invitation.ErrClosed, http.StatusGone},
	{invitation.ErrSelfInvite, http.StatusBadRequest},
	{invitation.ErrCalendarNotConnected, http.StatusPreconditionFailed},
	{user.ErrEmailTaken, http.StatusConflict},
	{user.ErrInvalidCredentials, http.StatusUnauthorized},
	{user.ErrUserNotFound, http.StatusNotFound},
	{user.ErrInvalidTimeZone, http.StatusBadRequest},
	{user.ErrGoogleNotEnabled, http.StatusServiceUnavailable},
	{user.ErrRoleNotAllowed, http.StatusBadRequest},
	{user.ErrPasswordTooLong, http.StatusBadRequest},
}

// statusFor returns the HTTP status of a known service error, or 0.
func statusFor(err error) int {
	for _, e := range errorStatuses {
		if errors.Is(err, e.err) {
			return e.status
		}
	}
	return 0
}

// writeError renders err. Scheduling errors use the {kind, detail} payload, known
// service errors their mapped status, anything else a 500.
func writeError(c *gin.Context, err error) {
	if writeSchedulingError(c, err) {
		return
	}
	if status := statusFor(err); status != 0 {
		utils.JSONError(c, status, err.Error(), "")
		return
	}
	getLogger(c).Error("Request failed", zap.String("path", c.FullPath()), zap.Error(err))
	utils.JSONError(c, http.StatusInternalServerError, "Internal server error", "")
}

// schedulingStatus maps a scheduling error kind to an HTTP status.
func schedulingStatus(kind availability.Kind) int {
	switch kind {
	case availability.KindValidation:
		return http.StatusBadRequest
	case availability.KindSlotMismatch:
		return http.StatusConflict
	case availability.KindBookingFailed:
		return http.StatusUnprocessableEntity
	case availability.KindProviderUnavailable:
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// writeSchedulingError writes err as {kind, detail} when it is a scheduling error
// and reports whether it did.
func writeSchedulingError(c *gin.Context, err error) bool {
	var se *availability.SchedulingError
	if !errors.As(err, &se) {
		return false
	}
	status := schedulingStatus(se.Kind)
	getLogger(c).Warn("scheduling error",
		zap.String("kind", string(se.Kind)),
		zap.String("detail", se.Detail),
		zap.Int("status", status))
	c.AbortWithStatusJSON(status, gin.H{"kind": se.Kind, "detail": se.Detail})
	return true
}

func bindError(c *gin.Context, err error) {
	utils.JSONError(c, http.StatusBadRequest, "Invalid request", err.Error())
}

func currentUser(c *gin.Context) (*models.User, bool) {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "Insufficient authorization", "")
	}
	return u, ok
}
