package invitationRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"introcall/database"
	"introcall/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoInvitationRepo implements InvitationRepository using MongoDB.
type MongoInvitationRepo struct {
	coll *mongo.Collection
}

// NewMongoInvitationRepo creates an InvitationRepository on the application database.
func NewMongoInvitationRepo() InvitationRepository {
	return NewMongoInvitationRepoWithCollection(database.DB().Collection("invitations"))
}

// NewMongoInvitationRepoWithCollection creates an InvitationRepository on coll.
func NewMongoInvitationRepoWithCollection(coll *mongo.Collection) *MongoInvitationRepo {
	return &MongoInvitationRepo{coll: coll}
}

func newContext(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, timeout)
}

// EnsureIndexes creates indexes for fields frequently used in queries.
func (r *MongoInvitationRepo) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := newContext(ctx, 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "salesRepId", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "decisionMakerEmail", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "expiresAt", Value: 1}}},
	}

	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// Create inserts a new invitation document.
func (r *MongoInvitationRepo) Create(ctx context.Context, inv *models.Invitation) error {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	now := time.Now()
	inv.CreatedAt = now
	inv.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, inv); err != nil {
		return fmt.Errorf("failed to create invitation: %w", err)
	}
	return nil
}

// GetByID retrieves an invitation by its ID.
func (r *MongoInvitationRepo) GetByID(ctx context.Context, id string) (*models.Invitation, error) {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	var inv models.Invitation
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&inv); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("invitation %s: %w", id, database.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch invitation %s: %w", id, err)
	}
	return &inv, nil
}

// ListBySalesRep returns the invitations a sales rep sent, newest first.
func (r *MongoInvitationRepo) ListBySalesRep(ctx context.Context, salesRepID string) ([]models.Invitation, error) {
	return r.find(ctx, bson.M{"salesRepId": salesRepID})
}

// ListByEmail returns the invitations addressed to email, newest first.
func (r *MongoInvitationRepo) ListByEmail(ctx context.Context, email string) ([]models.Invitation, error) {
	return r.find(ctx, bson.M{"decisionMakerEmail": email})
}

// ListExpired returns pending invitations past their expiry.
func (r *MongoInvitationRepo) ListExpired(ctx context.Context, now time.Time) ([]models.Invitation, error) {
	return r.find(ctx, bson.M{
		"status":    models.InvitationPending,
		"expiresAt": bson.M{"$lte": now},
	})
}

// UpdateStatus performs a conditional status transition.
func (r *MongoInvitationRepo) UpdateStatus(ctx context.Context, id, from, to, callID string) error {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	set := bson.M{"status": to, "updatedAt": time.Now()}
	if callID != "" {
		set["callId"] = callID
	}
	filter := bson.M{"id": id, "status": from}

	result, err := r.coll.UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to update invitation %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("invitation %s is no longer %s: %w", id, from, database.ErrStatusConflict)
	}
	return nil
}

func (r *MongoInvitationRepo) find(ctx context.Context, filter bson.M) ([]models.Invitation, error) {
	ctx, cancel := newContext(ctx, 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query invitations: %w", err)
	}
	defer cursor.Close(ctx)

	invitations := []models.Invitation{}
	if err := cursor.All(ctx, &invitations); err != nil {
		return nil, fmt.Errorf("failed to decode invitations: %w", err)
	}
	return invitations, nil
}
