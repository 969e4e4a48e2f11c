package gcal

import (
	"context"
	"errors"
	"fmt"

	"introcall/models"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// ErrNotConnected is returned for users who never linked a Google calendar.
var ErrNotConnected = errors.New("google calendar not connected")

// OAuth wraps the Google OAuth2 web flow for calendar access.
type OAuth struct {
	cfg *oauth2.Config
}

// NewOAuth builds the OAuth config for the calendar scopes.
func NewOAuth(clientID, clientSecret, redirectURL string) *OAuth {
	return &OAuth{cfg: &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		Endpoint:     google.Endpoint,
		Scopes:       []string{calendar.CalendarEventsScope, calendar.CalendarReadonlyScope},
	}}
}

// AuthURL returns the consent URL. Offline access and forced approval make Google
// return a refresh token on every connect.
func (o *OAuth) AuthURL(state string) string {
	return o.cfg.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
}

// Exchange trades an authorization code for a token.
func (o *OAuth) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	tok, err := o.cfg.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchange authorization code: %w", err)
	}
	return tok, nil
}

// TokenSource refreshes tok as needed.
func (o *OAuth) TokenSource(ctx context.Context, tok *oauth2.Token) oauth2.TokenSource {
	return o.cfg.TokenSource(ctx, tok)
}

// Factory builds per-user calendar clients.
type Factory struct {
	OAuth *OAuth
	// Options are appended to every client, e.g. a test endpoint.
	Options []option.ClientOption
}

// NewFactory returns a Factory using o for token refresh.
func NewFactory(o *OAuth, opts ...option.ClientOption) *Factory {
	return &Factory{OAuth: o, Options: opts}
}

// ForUser returns a client acting with the user's stored Google token.
func (f *Factory) ForUser(ctx context.Context, u *models.User) (*Client, error) {
	if u == nil || !u.GoogleConnected() {
		return nil, ErrNotConnected
	}
	return f.ForToken(ctx, u.GoogleToken.OAuth2())
}

// ForToken returns a client acting with tok.
func (f *Factory) ForToken(ctx context.Context, tok *oauth2.Token) (*Client, error) {
	opts := []option.ClientOption{option.WithTokenSource(f.OAuth.TokenSource(ctx, tok))}
	opts = append(opts, f.Options...)
	svc, err := calendar.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create calendar service: %w", err)
	}
	return NewClient(svc), nil
}

// Linker completes the OAuth flow and inspects the newly linked calendar.
type Linker struct {
	Factory *Factory
}

// Exchange trades an authorization code for a token.
func (l *Linker) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	return l.Factory.OAuth.Exchange(ctx, code)
}

// PrimaryTimeZone returns the zone of the primary calendar behind tok.
func (l *Linker) PrimaryTimeZone(ctx context.Context, tok *oauth2.Token) (string, error) {
	client, err := l.Factory.ForToken(ctx, tok)
	if err != nil {
		return "", err
	}
	return client.CalendarTimeZone(ctx, "primary")
}
