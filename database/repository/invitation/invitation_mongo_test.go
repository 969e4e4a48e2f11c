package invitationRepo

import (
	"context"
	"errors"
	"testing"
	"time"

	"introcall/database"
	"introcall/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestMongoInvitationRepo(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()
	ns := "introcall.invitations"

	mt.Run("create", func(mt *mtest.T) {
		repo := NewMongoInvitationRepoWithCollection(mt.Coll)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		inv := &models.Invitation{ID: "i1", SalesRepID: "rep", Status: models.InvitationPending}
		if err := repo.Create(ctx, inv); err != nil {
			mt.Fatalf("unexpected error: %v", err)
		}
	})

	mt.Run("get missing", func(mt *mtest.T) {
		repo := NewMongoInvitationRepoWithCollection(mt.Coll)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		if _, err := repo.GetByID(ctx, "i1"); !errors.Is(err, database.ErrNotFound) {
			mt.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	mt.Run("list by email", func(mt *mtest.T) {
		repo := NewMongoInvitationRepoWithCollection(mt.Coll)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
			bson.D{{Key: "id", Value: "i1"}, {Key: "decisionMakerEmail", Value: "dm@example.com"}},
		))

		invs, err := repo.ListByEmail(ctx, "dm@example.com")
		if err != nil {
			mt.Fatalf("unexpected error: %v", err)
		}
		if len(invs) != 1 || invs[0].ID != "i1" {
			mt.Fatalf("unexpected invitations %+v", invs)
		}
	})

	mt.Run("list expired", func(mt *mtest.T) {
		repo := NewMongoInvitationRepoWithCollection(mt.Coll)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
			bson.D{{Key: "id", Value: "i1"}, {Key: "status", Value: models.InvitationPending}},
			bson.D{{Key: "id", Value: "i2"}, {Key: "status", Value: models.InvitationPending}},
		))

		invs, err := repo.ListExpired(ctx, time.Now())
		if err != nil {
			mt.Fatalf("unexpected error: %v", err)
		}
		if len(invs) != 2 {
			mt.Fatalf("expected 2 invitations, got %d", len(invs))
		}
	})

	mt.Run("conditional update applied", func(mt *mtest.T) {
		repo := NewMongoInvitationRepoWithCollection(mt.Coll)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1}))

		if err := repo.UpdateStatus(ctx, "i1", models.InvitationPending, models.InvitationAccepted, "c1"); err != nil {
			mt.Fatalf("unexpected error: %v", err)
		}
	})

	mt.Run("conditional update lost", func(mt *mtest.T) {
		repo := NewMongoInvitationRepoWithCollection(mt.Coll)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}))

		err := repo.UpdateStatus(ctx, "i1", models.InvitationPending, models.InvitationDeclined, "")
		if !errors.Is(err, database.ErrStatusConflict) {
			mt.Fatalf("expected ErrStatusConflict, got %v", err)
		}
	})
}
