package handlers

import (
	userRepoPkg "introcall/database/repository/user"
	"introcall/utils"

	"github.com/gin-gonic/gin"
)

// HandlerBundle groups all endpoint handlers and what the route middleware needs.
type HandlerBundle struct {
	Tokens   *utils.TokenIssuer
	UserRepo userRepoPkg.UserRepository

	// Auth endpoints
	RegisterHandler gin.HandlerFunc
	LoginHandler    gin.HandlerFunc
	MeHandler       gin.HandlerFunc

	// Google endpoints
	GoogleConnectHandler  gin.HandlerFunc
	GoogleCallbackHandler gin.HandlerFunc

	// Availability and call endpoints
	AvailabilityHandler gin.HandlerFunc
	PreviewHandler      gin.HandlerFunc
	ConfirmCallHandler  gin.HandlerFunc
	ListCallsHandler    gin.HandlerFunc
	GetCallHandler      gin.HandlerFunc
	CancelCallHandler   gin.HandlerFunc
	CompleteCallHandler gin.HandlerFunc

	// Invitation endpoints
	CreateInvitationHandler  gin.HandlerFunc
	ListInvitationsHandler   gin.HandlerFunc
	GetInvitationHandler     gin.HandlerFunc
	DeclineInvitationHandler gin.HandlerFunc
	CancelInvitationHandler  gin.HandlerFunc

	// Admin endpoints
	ListUsersHandler gin.HandlerFunc

	HealthHandler gin.HandlerFunc
}

// NewHandlerBundle wires the handler structs into a bundle.
func NewHandlerBundle(
	tokens *utils.TokenIssuer,
	users userRepoPkg.UserRepository,
	uh *UserHandler,
	gh *GoogleHandler,
	ch *CallHandler,
	ih *InvitationHandler,
	ah *AdminHandler,
) *HandlerBundle {
	return &HandlerBundle{
		Tokens:   tokens,
		UserRepo: users,

		RegisterHandler: uh.RegisterHandler,
		LoginHandler:    uh.LoginHandler,
		MeHandler:       uh.MeHandler,

		GoogleConnectHandler:  gh.ConnectHandler,
		GoogleCallbackHandler: gh.CallbackHandler,

		AvailabilityHandler: ch.AvailabilityHandler,
		PreviewHandler:      ch.PreviewHandler,
		ConfirmCallHandler:  ch.ConfirmHandler,
		ListCallsHandler:    ch.ListHandler,
		GetCallHandler:      ch.GetHandler,
		CancelCallHandler:   ch.CancelHandler,
		CompleteCallHandler: ch.CompleteHandler,

		CreateInvitationHandler:  ih.CreateHandler,
		ListInvitationsHandler:   ih.ListHandler,
		GetInvitationHandler:     ih.GetHandler,
		DeclineInvitationHandler: ih.DeclineHandler,
		CancelInvitationHandler:  ih.CancelHandler,

		ListUsersHandler: ah.GetAllUsersHandler,

		HealthHandler: HealthHandler,
	}
}
