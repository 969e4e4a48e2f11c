package callRepo

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

// MongoCallRepo implements CallRepository using MongoDB.
type MongoCallRepo struct {
	coll *mongo.Collection
}

// NewMongoCallRepo creates a CallRepository on the application database.
func NewMongoCallRepo() CallRepository {
	return NewMongoCallRepoWithCollection(database.DB().Collection("calls"))
}

// NewMongoCallRepoWithCollection creates a CallRepository on coll.
func NewMongoCallRepoWithCollection(coll *mongo.Collection) *MongoCallRepo {
	return &MongoCallRepo{coll: coll}
}

func newContext(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, timeout)
}

// EnsureIndexes creates indexes for fields frequently used in queries.
func (r *MongoCallRepo) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := newContext(ctx, 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "eventRef", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "salesRepId", Value: 1}, {Key: "start", Value: -1}}},
		{Keys: bson.D{{Key: "decisionMakerEmail", Value: 1}, {Key: "start", Value: -1}}},
		// one scheduled call per invitation
		{
			Keys: bson.D{{Key: "invitationId", Value: 1}},
			Options: options.Index().SetUnique(true).SetPartialFilterExpression(bson.D{
				{Key: "invitationId", Value: bson.D{{Key: "$exists", Value: true}}},
				{Key: "status", Value: models.CallScheduled},
			}),
		},
	}

	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// Create inserts a new call document.
func (r *MongoCallRepo) Create(ctx context.Context, call *models.Call) error {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	now := time.Now()
	call.CreatedAt = now
	call.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, call); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("call for event %s: %w", call.EventRef, database.ErrDuplicate)
		}
		return fmt.Errorf("failed to create call: %w", err)
	}
	return nil
}

// GetByID retrieves a call by its ID.
func (r *MongoCallRepo) GetByID(ctx context.Context, id string) (*models.Call, error) {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	var call models.Call
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&call); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("call %s: %w", id, database.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch call %s: %w", id, err)
	}
	return &call, nil
}

// ListByParticipant returns the user's calls, most recent start first.
func (r *MongoCallRepo) ListByParticipant(ctx context.Context, userID, email string) ([]models.Call, error) {
	ctx, cancel := newContext(ctx, 10*time.Second)
	defer cancel()

	or := bson.A{bson.M{"salesRepId": userID}, bson.M{"bookedBy": userID}}
	if email != "" {
		or = append(or, bson.M{"decisionMakerEmail": email})
	}
	opts := options.Find().SetSort(bson.D{{Key: "start", Value: -1}})

	cursor, err := r.coll.Find(ctx, bson.M{"$or": or}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query calls: %w", err)
	}
	defer cursor.Close(ctx)

	calls := []models.Call{}
	if err := cursor.All(ctx, &calls); err != nil {
		return nil, fmt.Errorf("failed to decode calls: %w", err)
	}
	return calls, nil
}

// UpdateStatus performs a conditional status transition.
func (r *MongoCallRepo) UpdateStatus(ctx context.Context, id, from, to string) error {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	result, err := r.coll.UpdateOne(ctx,
		bson.M{"id": id, "status": from},
		bson.M{"$set": bson.M{"status": to, "updatedAt": time.Now()}})
	if err != nil {
		return fmt.Errorf("failed to update call %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("call %s is no longer %s: %w", id, from, database.ErrStatusConflict)
	}
	return nil
}
