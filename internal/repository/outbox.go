package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Faheem-Musthafa/campuslink-backend/internal/models"
)

type OutboxRepo struct {
	coll *mongo.Collection
}

func NewOutboxRepo(db *mongo.Database) *OutboxRepo {
	return &OutboxRepo{coll: db.Collection(ColOutbox)}
}

func (r *OutboxRepo) Enqueue(ctx context.Context, kind models.OutboxKind, payload map[string]any) error {
	now := time.Now().UTC()
	_, err := r.coll.InsertOne(ctx, &models.OutboxEntry{
		Kind:      kind,
		Payload:   payload,
		Status:    models.OutboxPending,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return fmt.Errorf("enqueue outbox: %w", err)
	}
	return nil
}

func (r *OutboxRepo) FetchPending(ctx context.Context, limit int64) ([]*models.OutboxEntry, error) {
	opts := options.Find().SetSort(bson.D{{Key: "updated_at", Value: 1}}).SetLimit(limit)
	cur, err := r.coll.Find(ctx, bson.M{"status": models.OutboxPending}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []*models.OutboxEntry
	for cur.Next(ctx) {
		var e models.OutboxEntry
		if err := cur.Decode(&e); err != nil {
			return nil, err
		}
		out = append(out, &e)
	}
	return out, cur.Err()
}

func (r *OutboxRepo) MarkDone(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"status": models.OutboxDone, "updated_at": time.Now().UTC()},
	})
	return err
}

// RecordFailure bumps the attempt counter; once attempts reach maxAttempts the
// entry is parked as failed and only surfaces through metrics.
func (r *OutboxRepo) RecordFailure(ctx context.Context, id primitive.ObjectID, attempt int, maxAttempts int, cause error) error {
	status := models.OutboxPending
	if attempt >= maxAttempts {
		status = models.OutboxFailed
	}
	_, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{
			"status":     status,
			"attempts":   attempt,
			"last_error": cause.Error(),
			"updated_at": time.Now().UTC(),
		},
	})
	return err
}
