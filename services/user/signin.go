package user

import (
	"context"
	"fmt"

	"introcall/models"
	"introcall/utils"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Authenticate checks credentials and issues an access token.
func (s *DefaultUserService) Authenticate(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	userRec, err := s.Repo.GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		utils.GetLogger().Error("Authenticate: failed to fetch user", zap.Error(err))
		return nil, fmt.Errorf("authentication failed, please try again")
	}
	if userRec == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(userRec.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.Tokens.GenerateToken(userRec.ID, userRec.Role, userRec.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}
	return &models.AuthResponse{ID: userRec.ID, Role: userRec.Role, Token: token}, nil
}
