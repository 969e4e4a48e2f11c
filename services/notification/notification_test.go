package notification

import (
	"context"
	"errors"
	"net/smtp"
	"strings"
	"testing"
	"time"

	"introcall/models"
)

type sentMail struct {
	to      []string
	subject string
	body    string
}

type fakeMailer struct{ sent []sentMail }

func (f *fakeMailer) Send(_ context.Context, to []string, subject, body string) error {
	f.sent = append(f.sent, sentMail{to, subject, body})
	return nil
}

func TestSendInvitation(t *testing.T) {
	m := &fakeMailer{}
	svc, err := NewDefaultNotificationService(m, "https://app.example.com")
	if err != nil {
		t.Fatal(err)
	}
	inv := &models.Invitation{
		ID:                 "inv-1",
		DecisionMakerEmail: "dm@example.com",
		DecisionMakerName:  "Dana",
		Message:            "Loved your talk",
		DurationMinutes:    30,
		ExpiresAt:          time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC),
	}
	rep := &models.User{Name: "Riley", Company: "Acme", Email: "rep@example.com"}

	if err := svc.SendInvitation(context.Background(), inv, rep); err != nil {
		t.Fatal(err)
	}
	if len(m.sent) != 1 || m.sent[0].to[0] != "dm@example.com" {
		t.Fatalf("unexpected mail %+v", m.sent)
	}
	body := m.sent[0].body
	for _, want := range []string{"Hi Dana", "Riley from Acme", "30 minute", "Loved your talk", "https://app.example.com/invitations/inv-1"} {
		if !strings.Contains(body, want) {
			t.Fatalf("body missing %q:\n%s", want, body)
		}
	}
}

func TestSendCallReminder_BothSides(t *testing.T) {
	m := &fakeMailer{}
	svc, _ := NewDefaultNotificationService(m, "")
	call := &models.Call{
		Subject:            "Intro",
		DecisionMakerEmail: "dm@example.com",
		ConferenceLink:     "https://meet.example/x",
		Start:              time.Date(2026, 10, 12, 10, 0, 0, 0, time.UTC),
	}
	if err := svc.SendCallReminder(context.Background(), call, &models.User{Email: "rep@example.com"}); err != nil {
		t.Fatal(err)
	}
	if len(m.sent[0].to) != 2 {
		t.Fatalf("expected two recipients, got %v", m.sent[0].to)
	}
	if !strings.Contains(m.sent[0].body, "https://meet.example/x") {
		t.Fatal("reminder should carry the conference link")
	}
}

func TestSMTPMailer_BuildsMessage(t *testing.T) {
	var gotAddr string
	var gotMsg []byte
	m := NewSMTPMailer("smtp.example.com", 587, "user", "pass", "no-reply@example.com")
	m.sendMail = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotMsg = addr, msg
		if a == nil {
			return errors.New("expected auth")
		}
		return nil
	}
	if err := m.Send(context.Background(), []string{"dm@example.com"}, "Hello\r\nBcc: x@y", "line1\nline2"); err != nil {
		t.Fatal(err)
	}
	if gotAddr != "smtp.example.com:587" {
		t.Fatalf("unexpected addr %s", gotAddr)
	}
	msg := string(gotMsg)
	if strings.Contains(msg, "\r\nBcc:") {
		t.Fatal("subject newlines must not inject headers")
	}
	if !strings.Contains(msg, "line1\r\nline2") {
		t.Fatalf("unexpected body encoding: %q", msg)
	}
}

func TestSMTPMailer_RequiresRecipients(t *testing.T) {
	m := NewSMTPMailer("smtp.example.com", 25, "", "", "a@example.com")
	if err := m.Send(context.Background(), nil, "s", "b"); err == nil {
		t.Fatal("expected error without recipients")
	}
}
