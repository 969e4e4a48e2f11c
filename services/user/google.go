package user

import (
	"context"
	"errors"
	"fmt"

	"introcall/database"
	"introcall/models"
	"introcall/utils"

	"go.uber.org/zap"
)

const primaryCalendar = "primary"

// ConnectGoogle exchanges an OAuth code and links the user's primary calendar.
func (s *DefaultUserService) ConnectGoogle(ctx context.Context, userID, code string) (*models.User, error) {
	if s.Google == nil {
		return nil, ErrGoogleNotEnabled
	}
	tok, err := s.Google.Exchange(ctx, code)
	if err != nil {
		return nil, err
	}

	// The zone is informative; a failed lookup still links the calendar.
	zone, err := s.Google.PrimaryTimeZone(ctx, tok)
	if err != nil {
		utils.GetLogger().Warn("ConnectGoogle: calendar time zone lookup failed",
			zap.String("userID", userID), zap.Error(err))
		zone = ""
	}

	if err := s.Repo.SetGoogleToken(ctx, userID, models.NewOAuthToken(tok), primaryCalendar, zone); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to store google token: %w", err)
	}

	u, err := s.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	utils.GetLogger().Info("Google calendar connected", zap.String("userID", userID), zap.String("timeZone", u.TimeZone))
	safe := u.SafeView()
	return &safe, nil
}
