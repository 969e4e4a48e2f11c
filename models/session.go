package models

import (
	"time"

	"introcall/services/availability"
)

// AvailabilitySession records the slots surfaced to one requester for one calendar.
// It is replaced wholesale on every availability query and removed explicitly once a
// booking succeeds.
type AvailabilitySession struct {
	ID           string                       `json:"id"`
	RequesterID  string                       `json:"requesterId"`
	SalesRepID   string                       `json:"salesRepId"`
	InvitationID string                       `json:"invitationId,omitempty"`
	CalendarID   string                       `json:"calendarId"`
	TimeZone     string                       `json:"timeZone"`
	Slots        []availability.CandidateSlot `json:"slots"`
	CreatedAt    time.Time                    `json:"createdAt"`
}

// Offers reports whether slot was among the surfaced slots.
func (s *AvailabilitySession) Offers(slot availability.CandidateSlot) bool {
	for _, offered := range s.Slots {
		if offered.Equal(slot) {
			return true
		}
	}
	return false
}
