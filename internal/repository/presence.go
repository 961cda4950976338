package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Faheem-Musthafa/campuslink-backend/internal/models"
)

type PresenceRepo struct {
	coll *mongo.Collection
}

func NewPresenceRepo(db *mongo.Database) *PresenceRepo {
	return &PresenceRepo{coll: db.Collection(ColPresence)}
}

// Heartbeat upserts the user's presence document with a fresh last_seen.
func (r *PresenceRepo) Heartbeat(ctx context.Context, userID string, status models.PresenceStatus) error {
	_, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$set": bson.M{"status": status, "last_seen": time.Now().UTC()}},
		options.Update().SetUpsert(true),
	)
	return err
}

func (r *PresenceRepo) Get(ctx context.Context, userID string) (*models.Presence, error) {
	var p models.Presence
	if err := r.coll.FindOne(ctx, bson.M{"_id": userID}).Decode(&p); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *PresenceRepo) GetMany(ctx context.Context, userIDs []string) ([]*models.Presence, error) {
	cur, err := r.coll.Find(ctx, bson.M{"_id": bson.M{"$in": userIDs}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []*models.Presence
	for cur.Next(ctx) {
		var p models.Presence
		if err := cur.Decode(&p); err != nil {
			return nil, err
		}
		out = append(out, &p)
	}
	return out, cur.Err()
}
