package invitation

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"introcall/database"
	userRepo "introcall/database/repository/user"
	"introcall/models"
	"introcall/services/availability"
)

type memInvitations struct {
	mu   sync.Mutex
	byID map[string]*models.Invitation
}

func (m *memInvitations) Create(_ context.Context, inv *models.Invitation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *inv
	m.byID[inv.ID] = &cp
	return nil
}

func (m *memInvitations) GetByID(_ context.Context, id string) (*models.Invitation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	inv, ok := m.byID[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	cp := *inv
	return &cp, nil
}

func (m *memInvitations) list(keep func(*models.Invitation) bool) []models.Invitation {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Invitation{}
	for _, inv := range m.byID {
		if keep(inv) {
			out = append(out, *inv)
		}
	}
	return out
}

func (m *memInvitations) ListBySalesRep(_ context.Context, id string) ([]models.Invitation, error) {
	return m.list(func(i *models.Invitation) bool { return i.SalesRepID == id }), nil
}

func (m *memInvitations) ListByEmail(_ context.Context, email string) ([]models.Invitation, error) {
	return m.list(func(i *models.Invitation) bool { return i.DecisionMakerEmail == email }), nil
}

func (m *memInvitations) ListExpired(_ context.Context, now time.Time) ([]models.Invitation, error) {
	return m.list(func(i *models.Invitation) bool {
		return i.Status == models.InvitationPending && !i.ExpiresAt.After(now)
	}), nil
}

func (m *memInvitations) UpdateStatus(_ context.Context, id, from, to, callID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	inv, ok := m.byID[id]
	if !ok || inv.Status != from {
		return database.ErrStatusConflict
	}
	inv.Status = to
	if callID != "" {
		inv.CallID = callID
	}
	return nil
}

func (m *memInvitations) EnsureIndexes(context.Context) error { return nil }

type memUsers struct {
	userRepo.UserRepository
	users map[string]*models.User
}

func (m memUsers) GetByID(_ context.Context, id string) (*models.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	return u, nil
}

type fakeEnqueuer struct {
	emails []string
	err    error
}

func (f *fakeEnqueuer) EnqueueInvitationEmail(_ context.Context, id string) error {
	f.emails = append(f.emails, id)
	return f.err
}

func (f *fakeEnqueuer) EnqueueCallReminder(context.Context, *models.Call) error { return nil }

type fakeNotifier struct{ invitations []string }

func (f *fakeNotifier) SendInvitation(_ context.Context, inv *models.Invitation, _ *models.User) error {
	f.invitations = append(f.invitations, inv.ID)
	return nil
}
func (f *fakeNotifier) SendCallReminder(context.Context, *models.Call, *models.User) error  { return nil }
func (f *fakeNotifier) SendCallCancelled(context.Context, *models.Call, *models.User) error { return nil }

var now = time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)

var (
	rep = &models.User{ID: "rep", Email: "rep@example.com", Name: "Riley", Role: models.RoleSalesRep,
		GoogleToken: &models.OAuthToken{RefreshToken: "rt"}}
	dm       = &models.User{ID: "dm", Email: "dm@example.com", Role: models.RoleDecisionMaker}
	stranger = &models.User{ID: "x", Email: "x@example.com", Role: models.RoleDecisionMaker}
	admin    = &models.User{ID: "adm", Email: "admin@example.com", Role: models.RoleAdmin}
)

func newTestService() (*DefaultInvitationService, *memInvitations, *fakeEnqueuer, *fakeNotifier) {
	repo := &memInvitations{byID: map[string]*models.Invitation{}}
	enq := &fakeEnqueuer{}
	notifier := &fakeNotifier{}
	users := memUsers{users: map[string]*models.User{rep.ID: rep, dm.ID: dm}}
	svc := NewDefaultInvitationService(repo, users, enq, notifier, 24*time.Hour, 30)
	svc.Now = func() time.Time { return now }
	return svc, repo, enq, notifier
}

func create(t *testing.T, svc *DefaultInvitationService) *models.Invitation {
	t.Helper()
	inv, err := svc.Create(context.Background(), rep, models.CreateInvitationRequest{
		DecisionMakerEmail: " DM@example.com ",
	})
	if err != nil {
		t.Fatal(err)
	}
	return inv
}

func TestCreate(t *testing.T) {
	svc, _, enq, _ := newTestService()
	inv := create(t, svc)
	if inv.Status != models.InvitationPending || inv.DurationMinutes != 30 {
		t.Fatalf("unexpected invitation %+v", inv)
	}
	if inv.DecisionMakerEmail != "dm@example.com" {
		t.Fatalf("email not normalised: %q", inv.DecisionMakerEmail)
	}
	if !inv.ExpiresAt.Equal(now.Add(24 * time.Hour)) {
		t.Fatalf("unexpected expiry %s", inv.ExpiresAt)
	}
	if len(enq.emails) != 1 || enq.emails[0] != inv.ID {
		t.Fatalf("expected email task for %s, got %v", inv.ID, enq.emails)
	}
}

func TestCreate_EnqueueFailureKeepsInvitation(t *testing.T) {
	svc, repo, enq, _ := newTestService()
	enq.err = errors.New("redis down")
	inv := create(t, svc)
	if _, err := repo.GetByID(context.Background(), inv.ID); err != nil {
		t.Fatal("invitation should be stored even when the email task fails")
	}
}

func TestCreate_Rejections(t *testing.T) {
	svc, _, _, _ := newTestService()
	ctx := context.Background()
	disconnected := &models.User{ID: "r2", Email: "r2@example.com", Role: models.RoleSalesRep}

	cases := []struct {
		name string
		by   *models.User
		req  models.CreateInvitationRequest
		want error
	}{
		{"decision maker", dm, models.CreateInvitationRequest{DecisionMakerEmail: "a@example.com"}, ErrForbidden},
		{"no calendar", disconnected, models.CreateInvitationRequest{DecisionMakerEmail: "a@example.com"}, ErrCalendarNotConnected},
		{"self", rep, models.CreateInvitationRequest{DecisionMakerEmail: "REP@example.com"}, ErrSelfInvite},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Create(ctx, tc.by, tc.req); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}

	if _, err := svc.Create(ctx, rep, models.CreateInvitationRequest{DecisionMakerEmail: "a@example.com", DurationMinutes: 5}); !errors.Is(err, availability.ErrValidation) {
		t.Fatalf("expected a validation error, got %v", err)
	}
}

func TestGet_Visibility(t *testing.T) {
	svc, _, _, _ := newTestService()
	inv := create(t, svc)
	ctx := context.Background()
	for _, u := range []*models.User{rep, dm, admin} {
		if _, err := svc.Get(ctx, u, inv.ID); err != nil {
			t.Fatalf("%s should see the invitation: %v", u.ID, err)
		}
	}
	if _, err := svc.Get(ctx, stranger, inv.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if _, err := svc.Get(ctx, rep, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeclineAndCancel(t *testing.T) {
	svc, _, _, _ := newTestService()
	ctx := context.Background()

	inv := create(t, svc)
	if _, err := svc.Decline(ctx, rep, inv.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("rep must not decline, got %v", err)
	}
	declined, err := svc.Decline(ctx, dm, inv.ID)
	if err != nil || declined.Status != models.InvitationDeclined {
		t.Fatalf("decline failed: %v", err)
	}
	if _, err := svc.Cancel(ctx, rep, inv.ID); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}

	other := create(t, svc)
	if _, err := svc.Cancel(ctx, dm, other.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("decision maker must not cancel, got %v", err)
	}
	if _, err := svc.Cancel(ctx, rep, other.ID); err != nil {
		t.Fatal(err)
	}
}

func TestGetOpen(t *testing.T) {
	svc, _, _, _ := newTestService()
	ctx := context.Background()
	inv := create(t, svc)
	if _, err := svc.GetOpen(ctx, dm, inv.ID); err != nil {
		t.Fatal(err)
	}
	svc.Now = func() time.Time { return now.Add(25 * time.Hour) }
	if _, err := svc.GetOpen(ctx, dm, inv.ID); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed after expiry, got %v", err)
	}
}

func TestMarkAcceptedOnce(t *testing.T) {
	svc, repo, _, _ := newTestService()
	ctx := context.Background()
	inv := create(t, svc)
	if err := svc.MarkAccepted(ctx, inv.ID, "call-1"); err != nil {
		t.Fatal(err)
	}
	stored, _ := repo.GetByID(ctx, inv.ID)
	if stored.Status != models.InvitationAccepted || stored.CallID != "call-1" {
		t.Fatalf("unexpected stored invitation %+v", stored)
	}
	if err := svc.MarkAccepted(ctx, inv.ID, "call-2"); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("second accept must fail, got %v", err)
	}
}

func TestExpireOverdue(t *testing.T) {
	svc, repo, _, _ := newTestService()
	ctx := context.Background()
	a := create(t, svc)
	b := create(t, svc)
	if _, err := svc.Decline(ctx, dm, b.ID); err != nil {
		t.Fatal(err)
	}

	n, err := svc.ExpireOverdue(ctx, now.Add(48*time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Fatalf("expected 1 expired, got %d", n)
	}
	stored, _ := repo.GetByID(ctx, a.ID)
	if stored.Status != models.InvitationExpired {
		t.Fatalf("expected expired, got %s", stored.Status)
	}
}

func TestSendInvitationEmail(t *testing.T) {
	svc, _, _, notifier := newTestService()
	ctx := context.Background()
	inv := create(t, svc)
	if err := svc.SendInvitationEmail(ctx, inv.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Cancel(ctx, rep, inv.ID); err != nil {
		t.Fatal(err)
	}
	if err := svc.SendInvitationEmail(ctx, inv.ID); err != nil {
		t.Fatal(err)
	}
	if len(notifier.invitations) != 1 {
		t.Fatalf("cancelled invitations must not be mailed, sent %v", notifier.invitations)
	}
}
