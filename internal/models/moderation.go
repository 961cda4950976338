package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type VerificationType string

const (
	VerificationIDCard   VerificationType = "id_card"
	VerificationPhoneOTP VerificationType = "phone_otp"
)

type ReviewStatus string

const (
	ReviewPending  ReviewStatus = "pending"
	ReviewApproved ReviewStatus = "approved"
	ReviewRejected ReviewStatus = "rejected"

	// report review outcomes
	ReviewResolved  ReviewStatus = "resolved"
	ReviewDismissed ReviewStatus = "dismissed"
)

type VerificationRequest struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID           string             `bson:"user_id" json:"user_id"`
	Role             string             `bson:"role" json:"role"`
	VerificationType VerificationType   `bson:"verification_type" json:"verification_type"`
	DocumentURL      string             `bson:"document_url,omitempty" json:"document_url,omitempty"`
	Status           ReviewStatus       `bson:"status" json:"status"`
	RejectionReason  string             `bson:"rejection_reason,omitempty" json:"rejection_reason,omitempty"`
	ReviewedBy       string             `bson:"reviewed_by,omitempty" json:"reviewed_by,omitempty"`
	ReviewedAt       *time.Time         `bson:"reviewed_at,omitempty" json:"reviewed_at,omitempty"`
	CreatedAt        time.Time          `bson:"created_at" json:"created_at"`
}

type UserReport struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ReporterID   string             `bson:"reporter_id" json:"reporter_id"`
	ReporterName string             `bson:"reporter_name" json:"reporter_name"`
	ReportedID   string             `bson:"reported_id" json:"reported_id"`
	ReportedName string             `bson:"reported_name" json:"reported_name"`
	Reason       string             `bson:"reason" json:"reason"`
	Description  string             `bson:"description,omitempty" json:"description,omitempty"`
	Status       ReviewStatus       `bson:"status" json:"status"`
	ReviewedBy   string             `bson:"reviewed_by,omitempty" json:"reviewed_by,omitempty"`
	Action       string             `bson:"action,omitempty" json:"action,omitempty"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
}

// ChatReport flags a single message from inside a conversation.
type ChatReport struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ReporterID     string             `bson:"reporter_id" json:"reporter_id"`
	ReportedID     string             `bson:"reported_id" json:"reported_id"`
	ConversationID string             `bson:"conversation_id" json:"conversation_id"`
	MessageID      string             `bson:"message_id" json:"message_id"`
	Reason         string             `bson:"reason" json:"reason"`
	Status         ReviewStatus       `bson:"status" json:"status"`
	CreatedAt      time.Time          `bson:"created_at" json:"created_at"`
}

type BlockedUser struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	BlockerID string             `bson:"blocker_id" json:"blocker_id"`
	BlockedID string             `bson:"blocked_id" json:"blocked_id"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}

type AdminAction string

const (
	ActionVerificationApproved AdminAction = "verification_approved"
	ActionVerificationRejected AdminAction = "verification_rejected"
	ActionReportResolved       AdminAction = "report_resolved"
	ActionReportDismissed      AdminAction = "report_dismissed"
	ActionUserBlocked          AdminAction = "user_blocked"
	ActionMessageRemoved       AdminAction = "message_removed"
)

// AdminActivityLog is the append-only audit trail behind the admin console.
type AdminActivityLog struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	AdminID    string             `bson:"admin_id" json:"admin_id"`
	AdminEmail string             `bson:"admin_email" json:"admin_email"`
	AdminName  string             `bson:"admin_name" json:"admin_name"`
	Action     AdminAction        `bson:"action" json:"action"`
	TargetType string             `bson:"target_type" json:"target_type"`
	TargetID   string             `bson:"target_id" json:"target_id"`
	Details    string             `bson:"details,omitempty" json:"details,omitempty"`
	Metadata   map[string]any     `bson:"metadata,omitempty" json:"metadata,omitempty"`
	Timestamp  time.Time          `bson:"timestamp" json:"timestamp"`
}
