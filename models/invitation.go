package models

import "time"

// Invitation statuses.
const (
	InvitationPending   = "pending"
	InvitationAccepted  = "accepted"
	InvitationDeclined  = "declined"
	InvitationExpired   = "expired"
	InvitationCancelled = "cancelled"
)

// Invitation is a sales rep's request for an introductory call with a decision maker.
type Invitation struct {
	ID                 string    `bson:"id" json:"id"`
	SalesRepID         string    `bson:"salesRepId" json:"salesRepId"`
	SalesRepName       string    `bson:"salesRepName,omitempty" json:"salesRepName,omitempty"`
	DecisionMakerEmail string    `bson:"decisionMakerEmail" json:"decisionMakerEmail"`
	DecisionMakerName  string    `bson:"decisionMakerName,omitempty" json:"decisionMakerName,omitempty"`
	Message            string    `bson:"message,omitempty" json:"message,omitempty"`
	DurationMinutes    int       `bson:"durationMinutes" json:"durationMinutes"`
	Status             string    `bson:"status" json:"status"`
	CallID             string    `bson:"callId,omitempty" json:"callId,omitempty"`
	ExpiresAt          time.Time `bson:"expiresAt" json:"expiresAt"`
	CreatedAt          time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt          time.Time `bson:"updatedAt" json:"updatedAt"`
}

// CanTransition reports whether an invitation may move from one status to another.
// Only pending invitations change state.
func CanTransition(from, to string) bool {
	if from != InvitationPending {
		return false
	}
	switch to {
	case InvitationAccepted, InvitationDeclined, InvitationExpired, InvitationCancelled:
		return true
	}
	return false
}

// CreateInvitationRequest is the payload a sales rep sends to invite a decision maker.
type CreateInvitationRequest struct {
	DecisionMakerEmail string `json:"decisionMakerEmail" binding:"required,email"`
	DecisionMakerName  string `json:"decisionMakerName"`
	Message            string `json:"message" binding:"max=2000"`
	DurationMinutes    int    `json:"durationMinutes" binding:"omitempty,min=15,max=120"`
}
