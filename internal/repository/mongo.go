package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Faheem-Musthafa/campuslink-backend/internal/config"
)

var ErrNotFound = errors.New("not found")

// Collection names are the wire contract shared with the rest of the platform.
const (
	ColUsers         = "users"
	ColProfiles      = "profiles"
	ColConversations = "conversations"
	ColMessages      = "messages"
	ColVerifications = "verificationRequests"
	ColUserReports   = "userReports"
	ColChatReports   = "chatReports"
	ColAuditLogs     = "adminActivityLogs"
	ColJobPostings   = "jobPostings"
	ColApplications  = "jobApplications"
	ColMentorships   = "mentorshipRequests"
	ColPresence      = "userPresence"
	ColBlocked       = "blockedUsers"
	ColLinkPreviews  = "linkPreviews"
	ColOutbox        = "outbox"
)

func NewMongoClient(ctx context.Context, cfg *config.Config) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.Mongo.URI))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, err
	}
	return client, nil
}

// EnsureIndexes creates the indexes the repositories depend on. The unique
// pair_key index is what makes conversation creation idempotent.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(ColConversations).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "pair_key", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("pair_key_uniq"),
		},
		{
			Keys:    bson.D{{Key: "participants", Value: 1}, {Key: "updated_at", Value: -1}},
			Options: options.Index().SetName("participants_updated_idx"),
		},
	})
	if err != nil {
		return err
	}
	_, err = db.Collection(ColMessages).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "conversation_id", Value: 1}, {Key: "timestamp", Value: -1}},
			Options: options.Index().SetName("conv_ts_idx"),
		},
		{
			Keys:    bson.D{{Key: "receiver_id", Value: 1}, {Key: "status", Value: 1}},
			Options: options.Index().SetName("receiver_status_idx"),
		},
	})
	if err != nil {
		return err
	}
	_, err = db.Collection(ColBlocked).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "blocker_id", Value: 1}, {Key: "blocked_id", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("block_pair_uniq"),
	})
	if err != nil {
		return err
	}
	_, err = db.Collection(ColApplications).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "job_id", Value: 1}, {Key: "applicant_id", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("job_applicant_uniq"),
	})
	if err != nil {
		return err
	}
	_, err = db.Collection(ColOutbox).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "status", Value: 1}, {Key: "updated_at", Value: 1}},
		Options: options.Index().SetName("outbox_pending_idx"),
	})
	return err
}
