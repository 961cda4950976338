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

type ConversationRepo struct {
	coll *mongo.Collection
}

func NewConversationRepo(db *mongo.Database) *ConversationRepo {
	return &ConversationRepo{coll: db.Collection(ColConversations)}
}

// CreateOrGet upserts the conversation for the pair. Both sides of a
// double-create race land on the same document through the unique pair_key.
func (r *ConversationRepo) CreateOrGet(ctx context.Context, a, b string) (*models.Conversation, error) {
	now := time.Now().UTC()
	key := models.PairKey(a, b)
	filter := bson.M{"pair_key": key}
	update := bson.M{
		"$setOnInsert": bson.M{
			"pair_key":     key,
			"participants": []string{a, b},
			"created_at":   now,
			"updated_at":   now,
		},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	var conv models.Conversation
	if err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&conv); err != nil {
		return nil, fmt.Errorf("create conversation: %w", err)
	}
	return &conv, nil
}

func (r *ConversationRepo) GetByID(ctx context.Context, id string) (*models.Conversation, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	var conv models.Conversation
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&conv); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &conv, nil
}

// GetBetweenUsers is symmetric in its arguments by construction of the pair key.
func (r *ConversationRepo) GetBetweenUsers(ctx context.Context, a, b string) (*models.Conversation, error) {
	var conv models.Conversation
	if err := r.coll.FindOne(ctx, bson.M{"pair_key": models.PairKey(a, b)}).Decode(&conv); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &conv, nil
}

func (r *ConversationRepo) ListForUser(ctx context.Context, userID string, limit int64) ([]*models.Conversation, error) {
	opts := options.Find().SetSort(bson.D{{Key: "updated_at", Value: -1}}).SetLimit(limit)
	cur, err := r.coll.Find(ctx, bson.M{"participants": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []*models.Conversation
	for cur.Next(ctx) {
		var c models.Conversation
		if err := cur.Decode(&c); err != nil {
			return nil, err
		}
		out = append(out, &c)
	}
	return out, cur.Err()
}

// SetFlag adds or removes userID from one of the per-user flag sets. $addToSet
// and $pull are atomic on the server, so concurrent togglers cannot lose each
// other's update and repeating a toggle is a no-op.
func (r *ConversationRepo) SetFlag(ctx context.Context, convID, field, userID string, on bool) error {
	oid, err := primitive.ObjectIDFromHex(convID)
	if err != nil {
		return ErrNotFound
	}
	var update bson.M
	if on {
		update = bson.M{"$addToSet": bson.M{field: userID}}
	} else {
		update = bson.M{"$pull": bson.M{field: userID}}
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return fmt.Errorf("toggle %s: %w", field, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ConversationRepo) TogglePin(ctx context.Context, convID, userID string, on bool) error {
	return r.SetFlag(ctx, convID, "pinned_by", userID, on)
}

func (r *ConversationRepo) ToggleMute(ctx context.Context, convID, userID string, on bool) error {
	return r.SetFlag(ctx, convID, "muted_by", userID, on)
}

func (r *ConversationRepo) ToggleArchive(ctx context.Context, convID, userID string, on bool) error {
	return r.SetFlag(ctx, convID, "archived_by", userID, on)
}

// ClearHistory records the cut-off for userID's view. Messages at or before
// the mark stay in the store; the other participant's view is untouched.
func (r *ConversationRepo) ClearHistory(ctx context.Context, convID, userID string, at time.Time) error {
	oid, err := primitive.ObjectIDFromHex(convID)
	if err != nil {
		return ErrNotFound
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{
		"$set": bson.M{"cleared_by." + userID: at},
	})
	if err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// SetLastMessage refreshes the denormalized preview. Best effort; the caller
// logs failures instead of failing the send.
func (r *ConversationRepo) SetLastMessage(ctx context.Context, convID string, lm *models.LastMessage) error {
	oid, err := primitive.ObjectIDFromHex(convID)
	if err != nil {
		return ErrNotFound
	}
	_, err = r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{
		"$set": bson.M{"last_message": lm, "updated_at": time.Now().UTC()},
	})
	return err
}
