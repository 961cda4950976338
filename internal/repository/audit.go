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

// AuditRepo is append-only; entries are never updated or removed.
type AuditRepo struct {
	coll *mongo.Collection
}

func NewAuditRepo(db *mongo.Database) *AuditRepo {
	return &AuditRepo{coll: db.Collection(ColAuditLogs)}
}

func (r *AuditRepo) Append(ctx context.Context, entry *models.AdminActivityLog) error {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}
	res, err := r.coll.InsertOne(ctx, entry)
	if err != nil {
		return fmt.Errorf("append audit log: %w", err)
	}
	entry.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *AuditRepo) List(ctx context.Context, limit int64) ([]*models.AdminActivityLog, error) {
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}}).SetLimit(limit)
	cur, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []*models.AdminActivityLog
	for cur.Next(ctx) {
		var e models.AdminActivityLog
		if err := cur.Decode(&e); err != nil {
			return nil, err
		}
		out = append(out, &e)
	}
	return out, cur.Err()
}
