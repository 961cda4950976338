package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type JobPosting struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	PostedBy    string             `bson:"posted_by" json:"posted_by"`
	Title       string             `bson:"title" json:"title"`
	Company     string             `bson:"company" json:"company"`
	Location    string             `bson:"location,omitempty" json:"location,omitempty"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Open        bool               `bson:"open" json:"open"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updated_at"`
}

type ApplicationStatus string

const (
	ApplicationPending  ApplicationStatus = "pending"
	ApplicationAccepted ApplicationStatus = "accepted"
	ApplicationRejected ApplicationStatus = "rejected"
)

type JobApplication struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	JobID       string             `bson:"job_id" json:"job_id"`
	ApplicantID string             `bson:"applicant_id" json:"applicant_id"`
	CoverNote   string             `bson:"cover_note,omitempty" json:"cover_note,omitempty"`
	ResumeURL   string             `bson:"resume_url,omitempty" json:"resume_url,omitempty"`
	Status      ApplicationStatus  `bson:"status" json:"status"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
}

type MentorshipStatus string

const (
	MentorshipPending  MentorshipStatus = "pending"
	MentorshipAccepted MentorshipStatus = "accepted"
	MentorshipDeclined MentorshipStatus = "declined"
)

// MentorshipRequest links an aspirant to an alumni mentor. Terminal once
// answered, like the review workflows.
type MentorshipRequest struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	MenteeID  string             `bson:"mentee_id" json:"mentee_id"`
	MentorID  string             `bson:"mentor_id" json:"mentor_id"`
	Message   string             `bson:"message,omitempty" json:"message,omitempty"`
	Status    MentorshipStatus   `bson:"status" json:"status"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}
