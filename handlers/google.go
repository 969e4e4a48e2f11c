package handlers

import (
	"net/http"

	"introcall/services/user"
	"introcall/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthURLer builds the Google consent URL.
type AuthURLer interface {
	AuthURL(state string) string
}

// GoogleHandler runs the calendar OAuth flow. The state parameter is a short lived
// token naming the user who started it.
type GoogleHandler struct {
	UserService user.UserService
	OAuth       AuthURLer
	State       *utils.TokenIssuer
}

func NewGoogleHandler(us user.UserService, oauth AuthURLer, state *utils.TokenIssuer) *GoogleHandler {
	return &GoogleHandler{UserService: us, OAuth: oauth, State: state}
}

// ConnectHandler handles GET /api/google/connect.
func (h *GoogleHandler) ConnectHandler(c *gin.Context) {
	u, ok := currentUser(c)
	if !ok {
		return
	}
	if h.OAuth == nil {
		writeError(c, user.ErrGoogleNotEnabled)
		return
	}
	state, err := h.State.GenerateToken(u.ID, u.Role, u.Email)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": h.OAuth.AuthURL(state)})
}

// CallbackHandler handles GET /api/google/callback.
func (h *GoogleHandler) CallbackHandler(c *gin.Context) {
	logger := getLogger(c)
	if errParam := c.Query("error"); errParam != "" {
		utils.JSONError(c, http.StatusBadRequest, "Google authorization was not granted", errParam)
		return
	}
	code := c.Query("code")
	if code == "" {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", "missing code")
		return
	}
	claims, err := h.State.ValidateToken(c.Query("state"))
	if err != nil {
		logger.Warn("Invalid OAuth state", zap.Error(err))
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", "invalid or expired state")
		return
	}

	u, err := h.UserService.ConnectGoogle(c.Request.Context(), claims.Subject, code)
	if err != nil {
		writeError(c, err)
		return
	}
	logger.Info("Google calendar connected", zap.String("userID", u.ID))
	c.JSON(http.StatusOK, gin.H{"connected": true, "calendarId": u.CalendarID, "timeZone": u.TimeZone})
}
