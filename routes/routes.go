package routes

import (
	"slices"
	"time"

	"introcall/handlers"
	"introcall/middleware"
	"introcall/models"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterAuthRoutes registers account endpoints.
func RegisterAuthRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/auth")
	{
		api.POST("/register", hb.RegisterHandler)
		api.POST("/login", hb.LoginHandler)
	}

	users := r.Group("/api/users")
	{
		users.Use(middleware.JWTAuthMiddleware(hb.Tokens, hb.UserRepo))
		users.GET("/me", hb.MeHandler)
	}
}

// RegisterGoogleRoutes registers the calendar OAuth flow. The callback is reached
// by Google's redirect and carries no bearer token.
func RegisterGoogleRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/google")
	{
		api.GET("/callback", hb.GoogleCallbackHandler)
		api.GET("/connect", middleware.JWTAuthMiddleware(hb.Tokens, hb.UserRepo), hb.GoogleConnectHandler)
	}
}

// RegisterAvailabilityRoutes registers slot queries.
func RegisterAvailabilityRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/availability")
	{
		api.Use(middleware.JWTAuthMiddleware(hb.Tokens, hb.UserRepo))
		api.POST("", hb.AvailabilityHandler)
		api.POST("/preview", hb.PreviewHandler)
	}
}

// RegisterCallRoutes registers booking and call lifecycle endpoints.
func RegisterCallRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/calls")
	{
		api.Use(middleware.JWTAuthMiddleware(hb.Tokens, hb.UserRepo))
		api.POST("/confirm", hb.ConfirmCallHandler)
		api.GET("", hb.ListCallsHandler)
		api.GET("/:id", hb.GetCallHandler)
		api.POST("/:id/cancel", hb.CancelCallHandler)
		api.POST("/:id/complete", hb.CompleteCallHandler)
	}
}

// RegisterInvitationRoutes registers invitation endpoints. Only sales reps create them.
func RegisterInvitationRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/invitations")
	{
		api.Use(middleware.JWTAuthMiddleware(hb.Tokens, hb.UserRepo))
		api.POST("", middleware.RequireRole(models.RoleSalesRep), hb.CreateInvitationHandler)
		api.GET("", hb.ListInvitationsHandler)
		api.GET("/:id", hb.GetInvitationHandler)
		api.POST("/:id/decline", hb.DeclineInvitationHandler)
		api.POST("/:id/cancel", hb.CancelInvitationHandler)
	}
}

// RegisterAdminRoutes sets up endpoints for admin operations.
func RegisterAdminRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	adminGroup := r.Group("/api/admin")
	{
		adminGroup.Use(middleware.JWTAuthMiddleware(hb.Tokens, hb.UserRepo), middleware.RequireAdmin())
		adminGroup.GET("/users", hb.ListUsersHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/health", hb.HealthHandler)
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle, allowedOrigins []string) {
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: !slices.Contains(allowedOrigins, "*"),
		MaxAge:           12 * time.Hour,
	}))

	RegisterHealthRoute(r, hb)
	RegisterAuthRoutes(r, hb)
	RegisterGoogleRoutes(r, hb)
	RegisterAvailabilityRoutes(r, hb)
	RegisterCallRoutes(r, hb)
	RegisterInvitationRoutes(r, hb)
	RegisterAdminRoutes(r, hb)
}
