package middleware

import (
	"errors"
	"net/http"
	"strings"

	"introcall/database"
	userRepo "introcall/database/repository/user"
	"introcall/models"
	"introcall/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// JWTAuthMiddleware validates the bearer token and loads the user it was issued to.
func JWTAuthMiddleware(tokens *utils.TokenIssuer, users userRepo.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			utils.JSONError(c, http.StatusUnauthorized, "Insufficient authorization", "missing bearer token")
			return
		}
		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))

		claims, err := tokens.ValidateToken(tokenString)
		if err != nil {
			utils.GetLogger().Warn("Rejected bearer token",
				zap.String("tokenFingerprint", utils.TokenFingerprint(tokenString)),
				zap.String("ip", getClientIP(c)),
				zap.Error(err))
			utils.JSONError(c, http.StatusUnauthorized, "Insufficient authorization", "invalid token")
			return
		}

		u, err := users.GetByID(c.Request.Context(), claims.Subject)
		if errors.Is(err, database.ErrNotFound) {
			utils.GetLogger().Warn("Token issued to a deleted user",
				zap.String("userID", claims.Subject),
				zap.String("tokenFingerprint", utils.TokenFingerprint(tokenString)))
			utils.JSONError(c, http.StatusUnauthorized, "Insufficient authorization", "user no longer exists")
			return
		}
		if err != nil {
			utils.GetLogger().Error("Auth user lookup failed", zap.String("userID", claims.Subject), zap.Error(err))
			utils.JSONError(c, http.StatusInternalServerError, "Internal server error", "")
			return
		}

		c.Set(utils.ContextUserID, u.ID)
		c.Set(utils.ContextRole, u.Role)
		c.Set(utils.ContextEmail, u.Email)
		c.Set(utils.ContextUser, u)
		c.Next()
	}
}

// CurrentUser returns the user set by JWTAuthMiddleware.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	v, ok := c.Get(utils.ContextUser)
	if !ok {
		return nil, false
	}
	u, ok := v.(*models.User)
	return u, ok && u != nil
}
