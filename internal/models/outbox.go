package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type OutboxKind string

const (
	OutboxUserVerificationStatus OutboxKind = "user_verification_status"
	OutboxProfileVerified        OutboxKind = "profile_verified"
	OutboxAuditLog               OutboxKind = "audit_log"
)

type OutboxStatus string

const (
	OutboxPending OutboxStatus = "pending"
	OutboxDone    OutboxStatus = "done"
	OutboxFailed  OutboxStatus = "failed"
)

// OutboxEntry is a persisted side effect that must eventually be applied.
// Review decisions enqueue their denormalized writes here instead of firing
// them best-effort, so a failed secondary write is retried rather than lost.
type OutboxEntry struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Kind      OutboxKind         `bson:"kind" json:"kind"`
	Payload   map[string]any     `bson:"payload" json:"payload"`
	Status    OutboxStatus       `bson:"status" json:"status"`
	Attempts  int                `bson:"attempts" json:"attempts"`
	LastError string             `bson:"last_error,omitempty" json:"last_error,omitempty"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}
