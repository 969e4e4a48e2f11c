package models

import "time"

// Call statuses.
const (
	CallScheduled = "scheduled"
	CallCompleted = "completed"
	CallCancelled = "cancelled"
)

// Call is a booked introductory call backed by a calendar event.
type Call struct {
	ID                 string    `bson:"id" json:"id"`
	InvitationID       string    `bson:"invitationId,omitempty" json:"invitationId,omitempty"`
	SalesRepID         string    `bson:"salesRepId" json:"salesRepId"`
	DecisionMakerEmail string    `bson:"decisionMakerEmail" json:"decisionMakerEmail"`
	BookedBy           string    `bson:"bookedBy" json:"bookedBy"`
	CalendarID         string    `bson:"calendarId" json:"calendarId"`
	EventRef           string    `bson:"eventRef" json:"eventRef"`
	ConferenceLink     string    `bson:"conferenceLink,omitempty" json:"conferenceLink,omitempty"`
	Subject            string    `bson:"subject" json:"subject"`
	Start              time.Time `bson:"start" json:"start"`
	End                time.Time `bson:"end" json:"end"`
	DurationMinutes    int       `bson:"durationMinutes" json:"durationMinutes"`
	Status             string    `bson:"status" json:"status"`
	CreatedAt          time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt          time.Time `bson:"updatedAt" json:"updatedAt"`
}

// HasParticipant reports whether the user took part in the call.
func (c *Call) HasParticipant(userID, email string) bool {
	return c.SalesRepID == userID || c.BookedBy == userID || (email != "" && c.DecisionMakerEmail == email)
}
