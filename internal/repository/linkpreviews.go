package repository

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Faheem-Musthafa/campuslink-backend/internal/models"
)

// LinkPreviewRepo caches Open Graph metadata keyed by URL hash so repeated
// shares of the same link skip the fetch.
type LinkPreviewRepo struct {
	coll *mongo.Collection
}

func NewLinkPreviewRepo(db *mongo.Database) *LinkPreviewRepo {
	return &LinkPreviewRepo{coll: db.Collection(ColLinkPreviews)}
}

func urlKey(url string) string {
	sum := sha256.Sum256([]byte(url))
	return hex.EncodeToString(sum[:])
}

type cachedPreview struct {
	ID        string             `bson:"_id"`
	Preview   models.LinkPreview `bson:"preview"`
	FetchedAt time.Time          `bson:"fetched_at"`
}

func (r *LinkPreviewRepo) Get(ctx context.Context, url string) (*models.LinkPreview, error) {
	var c cachedPreview
	if err := r.coll.FindOne(ctx, bson.M{"_id": urlKey(url)}).Decode(&c); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c.Preview, nil
}

func (r *LinkPreviewRepo) Put(ctx context.Context, url string, p *models.LinkPreview) error {
	_, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": urlKey(url)},
		bson.M{"$set": bson.M{"preview": p, "fetched_at": time.Now().UTC()}},
		options.Update().SetUpsert(true),
	)
	return err
}
