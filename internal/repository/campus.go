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

type CampusRepo struct {
	jobs         *mongo.Collection
	applications *mongo.Collection
	mentorships  *mongo.Collection
}

func NewCampusRepo(db *mongo.Database) *CampusRepo {
	return &CampusRepo{
		jobs:         db.Collection(ColJobPostings),
		applications: db.Collection(ColApplications),
		mentorships:  db.Collection(ColMentorships),
	}
}

func (r *CampusRepo) InsertJob(ctx context.Context, j *models.JobPosting) (*models.JobPosting, error) {
	now := time.Now().UTC()
	j.Open = true
	j.CreatedAt = now
	j.UpdatedAt = now
	res, err := r.jobs.InsertOne(ctx, j)
	if err != nil {
		return nil, fmt.Errorf("insert job: %w", err)
	}
	j.ID = res.InsertedID.(primitive.ObjectID)
	return j, nil
}

func (r *CampusRepo) ListOpenJobs(ctx context.Context, limit int64) ([]*models.JobPosting, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}).SetLimit(limit)
	cur, err := r.jobs.Find(ctx, bson.M{"open": true}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []*models.JobPosting
	for cur.Next(ctx) {
		var j models.JobPosting
		if err := cur.Decode(&j); err != nil {
			return nil, err
		}
		out = append(out, &j)
	}
	return out, cur.Err()
}

// CloseJob is owner-only; the filter carries the ownership check.
func (r *CampusRepo) CloseJob(ctx context.Context, jobID, ownerID string) error {
	oid, err := primitive.ObjectIDFromHex(jobID)
	if err != nil {
		return ErrNotFound
	}
	res, err := r.jobs.UpdateOne(ctx,
		bson.M{"_id": oid, "posted_by": ownerID},
		bson.M{"$set": bson.M{"open": false, "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return fmt.Errorf("close job: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Apply inserts one application per (job, applicant); the unique index turns a
// duplicate into ErrAlreadyApplied.
func (r *CampusRepo) Apply(ctx context.Context, a *models.JobApplication) (*models.JobApplication, error) {
	a.Status = models.ApplicationPending
	a.CreatedAt = time.Now().UTC()
	res, err := r.applications.InsertOne(ctx, a)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, apperr.ErrAlreadyApplied
		}
		return nil, fmt.Errorf("insert application: %w", err)
	}
	a.ID = res.InsertedID.(primitive.ObjectID)
	return a, nil
}

func (r *CampusRepo) ListApplications(ctx context.Context, jobID string) ([]*models.JobApplication, error) {
	cur, err := r.applications.Find(ctx, bson.M{"job_id": jobID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []*models.JobApplication
	for cur.Next(ctx) {
		var a models.JobApplication
		if err := cur.Decode(&a); err != nil {
			return nil, err
		}
		out = append(out, &a)
	}
	return out, cur.Err()
}

func (r *CampusRepo) InsertMentorship(ctx context.Context, m *models.MentorshipRequest) (*models.MentorshipRequest, error) {
	now := time.Now().UTC()
	m.Status = models.MentorshipPending
	m.CreatedAt = now
	m.UpdatedAt = now
	res, err := r.mentorships.InsertOne(ctx, m)
	if err != nil {
		return nil, fmt.Errorf("insert mentorship: %w", err)
	}
	m.ID = res.InsertedID.(primitive.ObjectID)
	return m, nil
}

// AnswerMentorship transitions pending -> accepted|declined; terminal, and
// only the addressed mentor can answer.
func (r *CampusRepo) AnswerMentorship(ctx context.Context, reqID, mentorID string, status models.MentorshipStatus) error {
	oid, err := primitive.ObjectIDFromHex(reqID)
	if err != nil {
		return ErrNotFound
	}
	res, err := r.mentorships.UpdateOne(ctx,
		bson.M{"_id": oid, "mentor_id": mentorID, "status": models.MentorshipPending},
		bson.M{"$set": bson.M{"status": status, "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return fmt.Errorf("answer mentorship: %w", err)
	}
	if res.MatchedCount == 0 {
		return apperr.ErrAlreadyReviewed
	}
	return nil
}

func (r *CampusRepo) ListMentorshipsForMentor(ctx context.Context, mentorID string) ([]*models.MentorshipRequest, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.mentorships.Find(ctx, bson.M{"mentor_id": mentorID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []*models.MentorshipRequest
	for cur.Next(ctx) {
		var m models.MentorshipRequest
		if err := cur.Decode(&m); err != nil {
			return nil, err
		}
		out = append(out, &m)
	}
	return out, cur.Err()
}
