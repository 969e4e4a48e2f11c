package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"introcall/database"
	"introcall/models"
	"introcall/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// bcrypt rejects longer inputs
const maxPasswordBytes = 72

// Register creates a sales rep or decision maker account.
func (s *DefaultUserService) Register(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	email := normalizeEmail(req.Email)
	if req.Role != models.RoleSalesRep && req.Role != models.RoleDecisionMaker {
		return nil, fmt.Errorf("%w: %q", ErrRoleNotAllowed, req.Role)
	}
	if len(req.Password) > maxPasswordBytes {
		return nil, ErrPasswordTooLong
	}
	if req.TimeZone != "" {
		if _, err := time.LoadLocation(req.TimeZone); err != nil {
			return nil, fmt.Errorf("%w: %s", ErrInvalidTimeZone, req.TimeZone)
		}
	}

	existing, err := s.Repo.GetByEmail(ctx, email)
	if err != nil {
		utils.GetLogger().Error("Register: failed to check email", zap.Error(err))
		return nil, fmt.Errorf("registration failed, please try again")
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cost())
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	u := &models.User{
		ID:           uuid.New().String(),
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: string(hash),
		Role:         req.Role,
		Company:      req.Company,
		Title:        req.Title,
		TimeZone:     req.TimeZone,
	}
	if err := s.Repo.Create(ctx, u); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	utils.GetLogger().Info("User registered", zap.String("userID", u.ID), zap.String("role", u.Role))
	safe := u.SafeView()
	return &safe, nil
}

func (s *DefaultUserService) cost() int {
	if s.hashCost == 0 {
		return bcrypt.DefaultCost
	}
	return s.hashCost
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
