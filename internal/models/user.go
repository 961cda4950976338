package models

import "time"

type User struct {
	ID                 string    `bson:"_id" json:"id"`
	Name               string    `bson:"name" json:"name"`
	Email              string    `bson:"email" json:"email"`
	Role               string    `bson:"role" json:"role"` // student, alumni, aspirant, admin
	VerificationStatus string    `bson:"verification_status,omitempty" json:"verification_status,omitempty"`
	CreatedAt          time.Time `bson:"created_at" json:"created_at"`
}

type Profile struct {
	UserID    string    `bson:"_id" json:"user_id"`
	Headline  string    `bson:"headline,omitempty" json:"headline,omitempty"`
	AvatarURL string    `bson:"avatar_url,omitempty" json:"avatar_url,omitempty"`
	Skills    []string  `bson:"skills,omitempty" json:"skills,omitempty"`
	Verified  bool      `bson:"verified" json:"verified"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
