package calls

import (
	"context"
	"errors"

	"introcall/models"
	"introcall/services/gcal"
)

type googleCalendars struct {
	factory *gcal.Factory
}

// NewGoogleCalendars exposes a gcal.Factory as a CalendarFactory.
func NewGoogleCalendars(f *gcal.Factory) CalendarFactory {
	return googleCalendars{factory: f}
}

func (g googleCalendars) ForUser(ctx context.Context, u *models.User) (CalendarProvider, error) {
	client, err := g.factory.ForUser(ctx, u)
	if errors.Is(err, gcal.ErrNotConnected) {
		return nil, ErrCalendarNotConnected
	}
	if err != nil {
		return nil, err
	}
	return client, nil
}
