package user

import (
	"context"

	userRepo "introcall/database/repository/user"
	"introcall/models"
	"introcall/utils"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/oauth2"
)

type UserService interface {
	// Registration and authentication
	Register(ctx context.Context, req models.RegisterRequest) (*models.User, error)
	Authenticate(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error)

	// User management
	GetUserByID(ctx context.Context, userID string) (*models.User, error)
	ListUsers(ctx context.Context, role string, limit, skip int64) ([]models.User, error)

	// Google calendar
	ConnectGoogle(ctx context.Context, userID, code string) (*models.User, error)
}

// GoogleLinker completes the Google OAuth flow for a user.
type GoogleLinker interface {
	Exchange(ctx context.Context, code string) (*oauth2.Token, error)
	PrimaryTimeZone(ctx context.Context, tok *oauth2.Token) (string, error)
}

// DefaultUserService is the production implementation.
type DefaultUserService struct {
	Repo   userRepo.UserRepository
	Tokens *utils.TokenIssuer
	Google GoogleLinker

	hashCost int
}

func NewDefaultUserService(repo userRepo.UserRepository, tokens *utils.TokenIssuer, google GoogleLinker) *DefaultUserService {
	return &DefaultUserService{Repo: repo, Tokens: tokens, Google: google, hashCost: bcrypt.DefaultCost}
}
