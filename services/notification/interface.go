package notification

import (
	"bytes"
	"context"
	"fmt"
	"text/template"
	"time"

	"introcall/models"
)

// NotificationService sends the e-mails of the invitation and call lifecycle.
type NotificationService interface {
	SendInvitation(ctx context.Context, inv *models.Invitation, rep *models.User) error
	SendCallReminder(ctx context.Context, call *models.Call, rep *models.User) error
	SendCallCancelled(ctx context.Context, call *models.Call, rep *models.User) error
}

// DefaultNotificationService renders templates and hands them to a Mailer.
type DefaultNotificationService struct {
	mailer  Mailer
	baseURL string
}

func NewDefaultNotificationService(mailer Mailer, baseURL string) (*DefaultNotificationService, error) {
	if mailer == nil {
		return nil, fmt.Errorf("notification service initialization error: mailer is nil")
	}
	return &DefaultNotificationService{mailer: mailer, baseURL: baseURL}, nil
}

var (
	invitationTmpl = template.Must(template.New("invitation").Parse(
		`Hi{{if .Invitation.DecisionMakerName}} {{.Invitation.DecisionMakerName}}{{end}},

{{.RepName}}{{if .RepCompany}} from {{.RepCompany}}{{end}} would like a {{.Invitation.DurationMinutes}} minute introductory call with you.
{{if .Invitation.Message}}
"{{.Invitation.Message}}"
{{end}}
Pick a time that suits you: {{.Link}}

This invitation expires on {{.Expires}}.
`))

	reminderTmpl = template.Must(template.New("reminder").Parse(
		`Reminder: "{{.Call.Subject}}" with {{.RepName}} starts at {{.Start}}.
{{if .Call.ConferenceLink}}
Join: {{.Call.ConferenceLink}}
{{end}}`))

	cancelledTmpl = template.Must(template.New("cancelled").Parse(
		`"{{.Call.Subject}}" with {{.RepName}} scheduled for {{.Start}} has been cancelled.
`))
)

func render(t *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render %s: %w", t.Name(), err)
	}
	return buf.String(), nil
}

func displayName(u *models.User) string {
	if u == nil {
		return "Your contact"
	}
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}

// SendInvitation e-mails the decision maker a link to pick a slot.
func (s *DefaultNotificationService) SendInvitation(ctx context.Context, inv *models.Invitation, rep *models.User) error {
	data := struct {
		Invitation *models.Invitation
		RepName    string
		RepCompany string
		Link       string
		Expires    string
	}{
		Invitation: inv,
		RepName:    displayName(rep),
		Link:       fmt.Sprintf("%s/invitations/%s", s.baseURL, inv.ID),
		Expires:    inv.ExpiresAt.UTC().Format(time.RFC1123),
	}
	if rep != nil {
		data.RepCompany = rep.Company
	}
	body, err := render(invitationTmpl, data)
	if err != nil {
		return err
	}
	subject := fmt.Sprintf("%s invited you to an introductory call", data.RepName)
	return s.mailer.Send(ctx, []string{inv.DecisionMakerEmail}, subject, body)
}

// SendCallReminder e-mails both sides shortly before a call.
func (s *DefaultNotificationService) SendCallReminder(ctx context.Context, call *models.Call, rep *models.User) error {
	body, err := render(reminderTmpl, callData(call, rep))
	if err != nil {
		return err
	}
	return s.mailer.Send(ctx, recipients(call, rep), "Upcoming call: "+call.Subject, body)
}

// SendCallCancelled tells both sides a call was called off.
func (s *DefaultNotificationService) SendCallCancelled(ctx context.Context, call *models.Call, rep *models.User) error {
	body, err := render(cancelledTmpl, callData(call, rep))
	if err != nil {
		return err
	}
	return s.mailer.Send(ctx, recipients(call, rep), "Cancelled: "+call.Subject, body)
}

type callTemplateData struct {
	Call    *models.Call
	RepName string
	Start   string
}

func callData(call *models.Call, rep *models.User) callTemplateData {
	return callTemplateData{
		Call:    call,
		RepName: displayName(rep),
		Start:   call.Start.UTC().Format(time.RFC1123),
	}
}

func recipients(call *models.Call, rep *models.User) []string {
	to := []string{}
	if call.DecisionMakerEmail != "" {
		to = append(to, call.DecisionMakerEmail)
	}
	if rep != nil && rep.Email != "" && rep.Email != call.DecisionMakerEmail {
		to = append(to, rep.Email)
	}
	return to
}
