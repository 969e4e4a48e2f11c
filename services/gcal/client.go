// Package gcal adapts Google Calendar to the availability and booking interfaces.
package gcal

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"introcall/services/availability"

	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
)

// Client talks to one user's Google Calendar.
type Client struct {
	svc *calendar.Service
}

// NewClient wraps an authenticated calendar service.
func NewClient(svc *calendar.Service) *Client {
	return &Client{svc: svc}
}

// ListEvents returns every single event intersecting [timeMin, timeMax). Events the
// calendar owner marked as free or declined do not block time and are left out.
func (c *Client) ListEvents(ctx context.Context, calendarID string, timeMin, timeMax time.Time) ([]availability.ProviderEvent, error) {
	var out []availability.ProviderEvent
	call := c.svc.Events.List(calendarID).
		TimeMin(timeMin.Format(time.RFC3339)).
		TimeMax(timeMax.Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime").
		MaxResults(250)

	err := call.Pages(ctx, func(page *calendar.Events) error {
		for _, ev := range page.Items {
			if ev.Transparency == "transparent" || declinedBySelf(ev) {
				continue
			}
			out = append(out, toProviderEvent(ev))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list events on %s: %w", calendarID, err)
	}
	return out, nil
}

// CalendarTimeZone returns the IANA zone configured on the calendar.
func (c *Client) CalendarTimeZone(ctx context.Context, calendarID string) (string, error) {
	cal, err := c.svc.Calendars.Get(calendarID).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("get calendar %s: %w", calendarID, err)
	}
	return cal.TimeZone, nil
}

// CreateEvent inserts an event with a Meet conference and notifies attendees.
func (c *Client) CreateEvent(ctx context.Context, calendarID string, body availability.EventBody) (availability.ProviderEvent, error) {
	ev := &calendar.Event{
		Summary:     body.Subject,
		Description: body.Description,
		Start:       eventTime(body.Start, body.TimeZone),
		End:         eventTime(body.End, body.TimeZone),
	}
	for _, email := range body.AttendeeEmails {
		ev.Attendees = append(ev.Attendees, &calendar.EventAttendee{Email: email})
	}
	if body.ConferenceRequestID != "" {
		ev.ConferenceData = &calendar.ConferenceData{
			CreateRequest: &calendar.CreateConferenceRequest{
				RequestId:             body.ConferenceRequestID,
				ConferenceSolutionKey: &calendar.ConferenceSolutionKey{Type: "hangoutsMeet"},
			},
		}
	}

	created, err := c.svc.Events.Insert(calendarID, ev).
		ConferenceDataVersion(1).
		SendUpdates("all").
		Context(ctx).
		Do()
	if err != nil {
		return availability.ProviderEvent{}, classifyWrite("insert event", err)
	}
	return toProviderEvent(created), nil
}

// DeleteEvent removes an event and notifies attendees. An event that is already
// gone counts as deleted.
func (c *Client) DeleteEvent(ctx context.Context, calendarID, eventID string) error {
	err := c.svc.Events.Delete(calendarID, eventID).SendUpdates("all").Context(ctx).Do()
	if err == nil {
		return nil
	}
	var gerr *googleapi.Error
	if errors.As(err, &gerr) && (gerr.Code == http.StatusNotFound || gerr.Code == http.StatusGone) {
		return nil
	}
	return classifyWrite("delete event", err)
}

// classifyWrite turns a refused request into a ProviderRejection. Auth failures,
// throttling, timeouts and server errors stay transport errors.
func classifyWrite(op string, err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) && gerr.Code >= 400 && gerr.Code < 500 {
		switch gerr.Code {
		case http.StatusUnauthorized, http.StatusRequestTimeout, http.StatusTooManyRequests:
		default:
			reason := gerr.Message
			if reason == "" {
				reason = http.StatusText(gerr.Code)
			}
			return fmt.Errorf("%s: %w", op, &availability.ProviderRejection{Reason: reason})
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}

func toProviderEvent(ev *calendar.Event) availability.ProviderEvent {
	return availability.ProviderEvent{
		ID:             ev.Id,
		Start:          parseEventTime(ev.Start),
		End:            parseEventTime(ev.End),
		ConferenceLink: conferenceLink(ev),
		Status:         ev.Status,
	}
}

// parseEventTime returns nil for all-day events, which only carry a Date.
func parseEventTime(t *calendar.EventDateTime) *time.Time {
	if t == nil || t.DateTime == "" {
		return nil
	}
	parsed, err := time.Parse(time.RFC3339, t.DateTime)
	if err != nil {
		return nil
	}
	return &parsed
}

func eventTime(t time.Time, zone string) *calendar.EventDateTime {
	return &calendar.EventDateTime{DateTime: t.Format(time.RFC3339), TimeZone: zone}
}

func conferenceLink(ev *calendar.Event) string {
	if ev.HangoutLink != "" {
		return ev.HangoutLink
	}
	if ev.ConferenceData != nil {
		for _, ep := range ev.ConferenceData.EntryPoints {
			if ep.EntryPointType == "video" && ep.Uri != "" {
				return ep.Uri
			}
		}
	}
	return ""
}

func declinedBySelf(ev *calendar.Event) bool {
	for _, a := range ev.Attendees {
		if a.Self && a.ResponseStatus == "declined" {
			return true
		}
	}
	return false
}
