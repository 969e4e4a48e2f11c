package handlers

import (
	"net/http"
	"strconv"

	"introcall/services/user"

	"github.com/gin-gonic/gin"
)

// AdminHandler encapsulates elevated admin-level operations.
type AdminHandler struct {
	UserService user.UserService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(us user.UserService) *AdminHandler {
	return &AdminHandler{UserService: us}
}

// GetAllUsersHandler handles GET /api/admin/users?role=&limit=&skip=.
func (ah *AdminHandler) GetAllUsersHandler(c *gin.Context) {
	limit, err := strconv.ParseInt(c.DefaultQuery("limit", "50"), 10, 64)
	if err != nil || limit <= 0 || limit > 200 {
		bindError(c, errInvalidQuery("limit must be between 1 and 200"))
		return
	}
	skip, err := strconv.ParseInt(c.DefaultQuery("skip", "0"), 10, 64)
	if err != nil || skip < 0 {
		bindError(c, errInvalidQuery("skip must not be negative"))
		return
	}

	users, err := ah.UserService.ListUsers(c.Request.Context(), c.Query("role"), limit, skip)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

type errInvalidQuery string

func (e errInvalidQuery) Error() string { return string(e) }
