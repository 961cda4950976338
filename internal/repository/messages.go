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

type MessageRepo struct {
	coll *mongo.Collection
}

func NewMessageRepo(db *mongo.Database) *MessageRepo {
	return &MessageRepo{coll: db.Collection(ColMessages)}
}

func (r *MessageRepo) Insert(ctx context.Context, m *models.Message) (*models.Message, error) {
	if m.Timestamp.IsZero() {
		m.Timestamp = time.Now().UTC()
	}
	m.Status = models.StatusSent
	m.Read = false
	res, err := r.coll.InsertOne(ctx, m)
	if err != nil {
		return nil, fmt.Errorf("insert message: %w", err)
	}
	m.ID = res.InsertedID.(primitive.ObjectID)
	return m, nil
}

func (r *MessageRepo) GetByID(ctx context.Context, id string) (*models.Message, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	var m models.Message
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&m); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}

// List returns up to limit messages before the given time, oldest first.
func (r *MessageRepo) List(ctx context.Context, convID string, limit int64, before time.Time) ([]*models.Message, error) {
	filter := bson.M{"conversation_id": convID}
	if !before.IsZero() {
		filter["timestamp"] = bson.M{"$lt": before}
	}
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}}).SetLimit(limit)
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []*models.Message
	for cur.Next(ctx) {
		var m models.Message
		if err := cur.Decode(&m); err != nil {
			return nil, err
		}
		out = append(out, &m)
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}

// MarkDelivered progresses sent -> delivered. The status guard in the filter
// makes a late delivered event after read a no-op rather than a regression.
func (r *MessageRepo) MarkDelivered(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": oid, "status": models.StatusSent},
		bson.M{"$set": bson.M{"status": models.StatusDelivered}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkRead progresses to read from sent or delivered and keeps the legacy
// read bool in step. Idempotent under multi-device races.
func (r *MessageRepo) MarkRead(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": oid, "status": bson.M{"$in": []models.MessageStatus{models.StatusSent, models.StatusDelivered}}},
		bson.M{"$set": bson.M{"status": models.StatusRead, "read": true}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkConversationDelivered applies the delivered transition to every pending
// inbound message in one UpdateMany instead of a per-message fan-out.
func (r *MessageRepo) MarkConversationDelivered(ctx context.Context, convID, userID string) (int64, error) {
	res, err := r.coll.UpdateMany(ctx,
		bson.M{"conversation_id": convID, "receiver_id": userID, "status": models.StatusSent},
		bson.M{"$set": bson.M{"status": models.StatusDelivered}},
	)
	if err != nil {
		return 0, fmt.Errorf("mark delivered: %w", err)
	}
	return res.ModifiedCount, nil
}

func (r *MessageRepo) MarkConversationRead(ctx context.Context, convID, userID string) (int64, error) {
	res, err := r.coll.UpdateMany(ctx,
		bson.M{
			"conversation_id": convID,
			"receiver_id":     userID,
			"status":          bson.M{"$in": []models.MessageStatus{models.StatusSent, models.StatusDelivered}},
		},
		bson.M{"$set": bson.M{"status": models.StatusRead, "read": true}},
	)
	if err != nil {
		return 0, fmt.Errorf("mark read: %w", err)
	}
	return res.ModifiedCount, nil
}

// UnreadCount counts inbound unread messages after the user's clear mark, so
// the badge never exceeds what the message view shows.
func (r *MessageRepo) UnreadCount(ctx context.Context, convID, userID string, after time.Time) (int64, error) {
	filter := bson.M{
		"conversation_id": convID,
		"receiver_id":     userID,
		"status":          bson.M{"$ne": models.StatusRead},
		"deleted":         false,
	}
	if !after.IsZero() {
		filter["timestamp"] = bson.M{"$gt": after}
	}
	return r.coll.CountDocuments(ctx, filter)
}

// SoftDelete overwrites the content with the placeholder. Irreversible.
func (r *MessageRepo) SoftDelete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{
		"$set":   bson.M{"content": models.DeletedPlaceholder, "deleted": true},
		"$unset": bson.M{"media": "", "link_preview": ""},
	})
	if err != nil {
		return fmt.Errorf("delete message: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MessageRepo) ApplyEdit(ctx context.Context, id, content string, at time.Time) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid, "deleted": false}, bson.M{
		"$set": bson.M{"content": content, "edited": true, "edited_at": at},
	})
	if err != nil {
		return fmt.Errorf("edit message: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ToggleReaction flips userID's reaction on the emoji with two guarded
// single-document updates. Each update is atomic on the server, so users
// reacting with different emojis at once cannot clobber each other's entry
// the way a read-then-overwrite of the whole map could.
func (r *MessageRepo) ToggleReaction(ctx context.Context, id, emoji, userID, userName string) (added bool, err error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, ErrNotFound
	}
	usersField := "reactions." + emoji + ".users"
	countField := "reactions." + emoji + ".count"

	// try removal first: only matches when the user already reacted
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": oid, usersField + ".user_id": userID},
		bson.M{
			"$pull": bson.M{usersField: bson.M{"user_id": userID}},
			"$inc":  bson.M{countField: -1},
		},
	)
	if err != nil {
		return false, fmt.Errorf("toggle reaction: %w", err)
	}
	if res.ModifiedCount > 0 {
		// drop the emoji entry once nobody is left on it
		_, _ = r.coll.UpdateOne(ctx,
			bson.M{"_id": oid, countField: bson.M{"$lte": 0}},
			bson.M{"$unset": bson.M{"reactions." + emoji: ""}},
		)
		return false, nil
	}

	res, err = r.coll.UpdateOne(ctx,
		bson.M{"_id": oid, usersField + ".user_id": bson.M{"$ne": userID}},
		bson.M{
			"$push": bson.M{usersField: models.ReactionUser{UserID: userID, UserName: userName, Timestamp: time.Now().UTC()}},
			"$inc":  bson.M{countField: 1},
		},
	)
	if err != nil {
		return false, fmt.Errorf("toggle reaction: %w", err)
	}
	if res.MatchedCount == 0 {
		return false, ErrNotFound
	}
	return true, nil
}
