package service

import (
	"context"
	"strings"

	"github.com/Faheem-Musthafa/campuslink-backend/internal/apperr"
	"github.com/Faheem-Musthafa/campuslink-backend/internal/models"
)

type CampusStore interface {
	InsertJob(ctx context.Context, j *models.JobPosting) (*models.JobPosting, error)
	ListOpenJobs(ctx context.Context, limit int64) ([]*models.JobPosting, error)
	CloseJob(ctx context.Context, jobID, ownerID string) error
	Apply(ctx context.Context, a *models.JobApplication) (*models.JobApplication, error)
	ListApplications(ctx context.Context, jobID string) ([]*models.JobApplication, error)
	InsertMentorship(ctx context.Context, m *models.MentorshipRequest) (*models.MentorshipRequest, error)
	AnswerMentorship(ctx context.Context, reqID, mentorID string, status models.MentorshipStatus) error
	ListMentorshipsForMentor(ctx context.Context, mentorID string) ([]*models.MentorshipRequest, error)
}

type CampusService struct {
	store CampusStore
}

func NewCampusService(store CampusStore) *CampusService {
	return &CampusService{store: store}
}

func (s *CampusService) PostJob(ctx context.Context, j *models.JobPosting) (*models.JobPosting, error) {
	if strings.TrimSpace(j.Title) == "" || strings.TrimSpace(j.Company) == "" || j.PostedBy == "" {
		return nil, apperr.ErrBadRequest
	}
	return s.store.InsertJob(ctx, j)
}

func (s *CampusService) OpenJobs(ctx context.Context, limit int64) ([]*models.JobPosting, error) {
	return s.store.ListOpenJobs(ctx, limit)
}

func (s *CampusService) CloseJob(ctx context.Context, jobID, ownerID string) error {
	return s.store.CloseJob(ctx, jobID, ownerID)
}

func (s *CampusService) ApplyToJob(ctx context.Context, a *models.JobApplication) (*models.JobApplication, error) {
	if a.JobID == "" || a.ApplicantID == "" {
		return nil, apperr.ErrBadRequest
	}
	return s.store.Apply(ctx, a)
}

func (s *CampusService) Applications(ctx context.Context, jobID string) ([]*models.JobApplication, error) {
	return s.store.ListApplications(ctx, jobID)
}

func (s *CampusService) RequestMentorship(ctx context.Context, m *models.MentorshipRequest) (*models.MentorshipRequest, error) {
	if m.MenteeID == "" || m.MentorID == "" {
		return nil, apperr.ErrBadRequest
	}
	if m.MenteeID == m.MentorID {
		return nil, apperr.ErrBadRequest
	}
	return s.store.InsertMentorship(ctx, m)
}

func (s *CampusService) AnswerMentorship(ctx context.Context, reqID, mentorID string, accept bool) error {
	status := models.MentorshipDeclined
	if accept {
		status = models.MentorshipAccepted
	}
	return s.store.AnswerMentorship(ctx, reqID, mentorID, status)
}

func (s *CampusService) MentorInbox(ctx context.Context, mentorID string) ([]*models.MentorshipRequest, error) {
	return s.store.ListMentorshipsForMentor(ctx, mentorID)
}
