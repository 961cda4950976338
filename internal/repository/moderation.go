package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Faheem-Musthafa/campuslink-backend/internal/apperr"
	"github.com/Faheem-Musthafa/campuslink-backend/internal/models"
)

type ModerationRepo struct {
	verifications *mongo.Collection
	userReports   *mongo.Collection
	chatReports   *mongo.Collection
	blocked       *mongo.Collection
	users         *mongo.Collection
	profiles      *mongo.Collection
}

func NewModerationRepo(db *mongo.Database) *ModerationRepo {
	return &ModerationRepo{
		verifications: db.Collection(ColVerifications),
		userReports:   db.Collection(ColUserReports),
		chatReports:   db.Collection(ColChatReports),
		blocked:       db.Collection(ColBlocked),
		users:         db.Collection(ColUsers),
		profiles:      db.Collection(ColProfiles),
	}
}

func (r *ModerationRepo) InsertVerification(ctx context.Context, v *models.VerificationRequest) (*models.VerificationRequest, error) {
	v.Status = models.ReviewPending
	v.CreatedAt = time.Now().UTC()
	res, err := r.verifications.InsertOne(ctx, v)
	if err != nil {
		return nil, fmt.Errorf("insert verification: %w", err)
	}
	v.ID = res.InsertedID.(primitive.ObjectID)
	return v, nil
}

func (r *ModerationRepo) GetVerification(ctx context.Context, id string) (*models.VerificationRequest, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	var v models.VerificationRequest
	if err := r.verifications.FindOne(ctx, bson.M{"_id": oid}).Decode(&v); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &v, nil
}

func (r *ModerationRepo) ListPendingVerifications(ctx context.Context, limit int64) ([]*models.VerificationRequest, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}).SetLimit(limit)
	cur, err := r.verifications.Find(ctx, bson.M{"status": models.ReviewPending}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []*models.VerificationRequest
	for cur.Next(ctx) {
		var v models.VerificationRequest
		if err := cur.Decode(&v); err != nil {
			return nil, err
		}
		out = append(out, &v)
	}
	return out, cur.Err()
}

// ReviewVerification transitions pending -> approved|rejected. The pending
// guard in the filter makes the transition terminal: a second reviewer gets
// ErrAlreadyReviewed instead of overwriting the first decision.
func (r *ModerationRepo) ReviewVerification(ctx context.Context, id string, status models.ReviewStatus, reviewer, reason string) (*models.VerificationRequest, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	now := time.Now().UTC()
	set := bson.M{"status": status, "reviewed_by": reviewer, "reviewed_at": now}
	if reason != "" {
		set["rejection_reason"] = reason
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var v models.VerificationRequest
	err = r.verifications.FindOneAndUpdate(ctx,
		bson.M{"_id": oid, "status": models.ReviewPending},
		bson.M{"$set": set}, opts,
	).Decode(&v)
	if err == mongo.ErrNoDocuments {
		// either missing or already reviewed
		if _, gerr := r.GetVerification(ctx, id); gerr == nil {
			return nil, apperr.ErrAlreadyReviewed
		}
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("review verification: %w", err)
	}
	return &v, nil
}

func (r *ModerationRepo) InsertUserReport(ctx context.Context, rep *models.UserReport) (*models.UserReport, error) {
	rep.Status = models.ReviewPending
	rep.CreatedAt = time.Now().UTC()
	res, err := r.userReports.InsertOne(ctx, rep)
	if err != nil {
		return nil, fmt.Errorf("insert report: %w", err)
	}
	rep.ID = res.InsertedID.(primitive.ObjectID)
	return rep, nil
}

func (r *ModerationRepo) ListPendingReports(ctx context.Context, limit int64) ([]*models.UserReport, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}).SetLimit(limit)
	cur, err := r.userReports.Find(ctx, bson.M{"status": models.ReviewPending}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []*models.UserReport
	for cur.Next(ctx) {
		var rep models.UserReport
		if err := cur.Decode(&rep); err != nil {
			return nil, err
		}
		out = append(out, &rep)
	}
	return out, cur.Err()
}

// ReviewReport transitions pending -> resolved|dismissed, terminal like
// verification review.
func (r *ModerationRepo) ReviewReport(ctx context.Context, id string, status models.ReviewStatus, reviewer, action string) (*models.UserReport, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var rep models.UserReport
	err = r.userReports.FindOneAndUpdate(ctx,
		bson.M{"_id": oid, "status": models.ReviewPending},
		bson.M{"$set": bson.M{"status": status, "reviewed_by": reviewer, "action": action}},
		opts,
	).Decode(&rep)
	if err == mongo.ErrNoDocuments {
		var existing models.UserReport
		if ferr := r.userReports.FindOne(ctx, bson.M{"_id": oid}).Decode(&existing); ferr == nil {
			return nil, apperr.ErrAlreadyReviewed
		}
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("review report: %w", err)
	}
	return &rep, nil
}

func (r *ModerationRepo) InsertChatReport(ctx context.Context, rep *models.ChatReport) (*models.ChatReport, error) {
	rep.Status = models.ReviewPending
	rep.CreatedAt = time.Now().UTC()
	res, err := r.chatReports.InsertOne(ctx, rep)
	if err != nil {
		return nil, fmt.Errorf("insert chat report: %w", err)
	}
	rep.ID = res.InsertedID.(primitive.ObjectID)
	return rep, nil
}

func (r *ModerationRepo) Block(ctx context.Context, blocker, blocked string) error {
	_, err := r.blocked.UpdateOne(ctx,
		bson.M{"blocker_id": blocker, "blocked_id": blocked},
		bson.M{"$setOnInsert": bson.M{"blocker_id": blocker, "blocked_id": blocked, "created_at": time.Now().UTC()}},
		options.Update().SetUpsert(true),
	)
	return err
}

func (r *ModerationRepo) Unblock(ctx context.Context, blocker, blocked string) error {
	_, err := r.blocked.DeleteOne(ctx, bson.M{"blocker_id": blocker, "blocked_id": blocked})
	return err
}

// IsBlockedEither reports whether a block exists in either direction between
// the two users; sends are suppressed both ways.
func (r *ModerationRepo) IsBlockedEither(ctx context.Context, a, b string) (bool, error) {
	n, err := r.blocked.CountDocuments(ctx, bson.M{"$or": []bson.M{
		{"blocker_id": a, "blocked_id": b},
		{"blocker_id": b, "blocked_id": a},
	}})
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// SetUserVerificationStatus is the denormalized secondary write applied by the
// outbox worker after a review decision.
func (r *ModerationRepo) SetUserVerificationStatus(ctx context.Context, userID, status string) error {
	_, err := r.users.UpdateOne(ctx, bson.M{"_id": userID},
		bson.M{"$set": bson.M{"verification_status": status}})
	return err
}

func (r *ModerationRepo) SetProfileVerified(ctx context.Context, userID string, verified bool) error {
	// a user without a profile document is fine; the update matches nothing
	_, err := r.profiles.UpdateOne(ctx, bson.M{"_id": userID},
		bson.M{"$set": bson.M{"verified": verified, "updated_at": time.Now().UTC()}})
	return err
}
