package models

import (
	"time"

	"golang.org/x/oauth2"
)

// User roles.
const (
	RoleSalesRep        = "sales_rep"
	RoleDecisionMaker   = "decision_maker"
	RoleAdmin           = "admin"
	RoleEnterpriseAdmin = "enterprise_admin"
)

// User represents a platform user.
type User struct {
	ID           string      `bson:"id" json:"id"`
	Name         string      `bson:"name" json:"name"`
	Email        string      `bson:"email" json:"email"`
	Password     string      `bson:"-" json:"password,omitempty"`
	PasswordHash string      `bson:"passwordHash" json:"-"`
	Role         string      `bson:"role" json:"role"`
	Company      string      `bson:"company,omitempty" json:"company,omitempty"`
	Title        string      `bson:"title,omitempty" json:"title,omitempty"`
	CalendarID   string      `bson:"calendarId,omitempty" json:"calendarId,omitempty"`
	TimeZone     string      `bson:"timeZone,omitempty" json:"timeZone,omitempty"`
	GoogleToken  *OAuthToken `bson:"googleToken,omitempty" json:"-"`
	CreatedAt    time.Time   `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time   `bson:"updatedAt" json:"updatedAt"`
}

// OAuthToken is the persisted form of a Google OAuth token.
type OAuthToken struct {
	AccessToken  string    `bson:"accessToken"`
	RefreshToken string    `bson:"refreshToken"`
	TokenType    string    `bson:"tokenType"`
	Expiry       time.Time `bson:"expiry"`
}

// NewOAuthToken copies the fields worth persisting.
func NewOAuthToken(t *oauth2.Token) *OAuthToken {
	if t == nil {
		return nil
	}
	return &OAuthToken{
		AccessToken:  t.AccessToken,
		RefreshToken: t.RefreshToken,
		TokenType:    t.TokenType,
		Expiry:       t.Expiry,
	}
}

// OAuth2 converts back to an oauth2.Token.
func (t *OAuthToken) OAuth2() *oauth2.Token {
	return &oauth2.Token{
		AccessToken:  t.AccessToken,
		RefreshToken: t.RefreshToken,
		TokenType:    t.TokenType,
		Expiry:       t.Expiry,
	}
}

// GoogleConnected reports whether the user has linked a Google calendar.
func (u *User) GoogleConnected() bool {
	return u.GoogleToken != nil && (u.GoogleToken.RefreshToken != "" || u.GoogleToken.AccessToken != "")
}

// IsAdmin reports whether the user may manage other users.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin || u.Role == RoleEnterpriseAdmin
}

// SafeView returns a copy without credentials.
func (u User) SafeView() User {
	u.Password = ""
	u.PasswordHash = ""
	u.GoogleToken = nil
	return u
}

// RegisterRequest is the payload for account creation.
type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=72"`
	Role     string `json:"role" binding:"required,oneof=sales_rep decision_maker"`
	Company  string `json:"company"`
	Title    string `json:"title"`
	TimeZone string `json:"timeZone"`
}

// LoginRequest is the payload for authentication.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse contains the user's ID, role and JWT token.
type AuthResponse struct {
	ID    string `json:"id"`
	Role  string `json:"role"`
	Token string `json:"token"`
}
