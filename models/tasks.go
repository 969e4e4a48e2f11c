package models

// InvitationEmailPayload is the task payload for sending an invitation e-mail.
type InvitationEmailPayload struct {
	InvitationID string `json:"invitationId"`
}

// CallReminderPayload is the task payload for a call reminder.
type CallReminderPayload struct {
	CallID string `json:"callId"`
}
