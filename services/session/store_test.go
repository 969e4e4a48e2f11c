package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"introcall/models"
	"introcall/services/availability"
	"introcall/utils"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
)

func newStore(t *testing.T, ttl time.Duration) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStore(client, ttl), mr
}

func sampleSession() *models.AvailabilitySession {
	start := time.Date(2026, 10, 12, 10, 0, 0, 0, time.UTC)
	return &models.AvailabilitySession{
		ID:          "s1",
		RequesterID: "dm",
		SalesRepID:  "rep",
		CalendarID:  "primary",
		TimeZone:    "UTC",
		Slots:       []availability.CandidateSlot{availability.NewCandidateSlot(start, 30)},
		CreatedAt:   start,
	}
}

func TestRedisStore_SaveGetInvalidate(t *testing.T) {
	store, mr := newStore(t, time.Minute)
	ctx := context.Background()

	if err := store.Save(ctx, sampleSession()); err != nil {
		t.Fatal(err)
	}
	if !mr.Exists(utils.SessionKeyPrefix + "s1") {
		t.Fatal("expected session key in redis")
	}

	got, err := store.Get(ctx, "s1")
	if err != nil {
		t.Fatal(err)
	}
	if got.SalesRepID != "rep" || len(got.Slots) != 1 || !got.Offers(sampleSession().Slots[0]) {
		t.Fatalf("unexpected session %+v", got)
	}

	if err := store.Invalidate(ctx, "s1"); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Get(ctx, "s1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after invalidate, got %v", err)
	}
	if err := store.Invalidate(ctx, "s1"); err != nil {
		t.Fatalf("invalidating twice should succeed, got %v", err)
	}
}

func TestRedisStore_Expiry(t *testing.T) {
	store, mr := newStore(t, time.Minute)
	ctx := context.Background()
	if err := store.Save(ctx, sampleSession()); err != nil {
		t.Fatal(err)
	}
	mr.FastForward(2 * time.Minute)
	if _, err := store.Get(ctx, "s1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected expired session, got %v", err)
	}
}

func TestRedisStore_GetDoesNotRefreshTTL(t *testing.T) {
	store, mr := newStore(t, time.Minute)
	ctx := context.Background()
	if err := store.Save(ctx, sampleSession()); err != nil {
		t.Fatal(err)
	}
	mr.FastForward(40 * time.Second)
	if _, err := store.Get(ctx, "s1"); err != nil {
		t.Fatal(err)
	}
	if ttl := mr.TTL(utils.SessionKeyPrefix + "s1"); ttl > 20*time.Second {
		t.Fatalf("read refreshed the ttl to %s", ttl)
	}
}

func TestRedisStore_SaveReplaces(t *testing.T) {
	store, _ := newStore(t, time.Minute)
	ctx := context.Background()
	s := sampleSession()
	if err := store.Save(ctx, s); err != nil {
		t.Fatal(err)
	}
	s.Slots = nil
	if err := store.Save(ctx, s); err != nil {
		t.Fatal(err)
	}
	got, err := store.Get(ctx, "s1")
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Slots) != 0 {
		t.Fatalf("expected replaced session, got %d slots", len(got.Slots))
	}
}
