package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type MessageStatus string

const (
	StatusSent      MessageStatus = "sent"
	StatusDelivered MessageStatus = "delivered"
	StatusRead      MessageStatus = "read"
)

// statusRank orders the delivery states; transitions only move forward.
func statusRank(s MessageStatus) int {
	switch s {
	case StatusSent:
		return 0
	case StatusDelivered:
		return 1
	case StatusRead:
		return 2
	}
	return -1
}

// CanTransition reports whether a status change from cur to next is a forward
// move. Duplicate or late events (delivered after read) are rejected.
func CanTransition(cur, next MessageStatus) bool {
	return statusRank(next) > statusRank(cur)
}

type MessageType string

const (
	TypeText     MessageType = "text"
	TypeFile     MessageType = "file"
	TypeImage    MessageType = "image"
	TypeVoice    MessageType = "voice"
	TypeVideo    MessageType = "video"
	TypeDocument MessageType = "document"
	TypeSystem   MessageType = "system"
)

func ValidMessageType(t MessageType) bool {
	switch t {
	case TypeText, TypeFile, TypeImage, TypeVoice, TypeVideo, TypeDocument, TypeSystem:
		return true
	}
	return false
}

// DeletedPlaceholder replaces the content of a soft-deleted message. The
// original text is not kept anywhere.
const DeletedPlaceholder = "This message was deleted"

// EditWindow is how long after sending a message its sender may edit it.
const EditWindow = 15 * time.Minute

type ReactionUser struct {
	UserID    string    `bson:"user_id" json:"user_id"`
	UserName  string    `bson:"user_name" json:"user_name"`
	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
}

type Reaction struct {
	Count int            `bson:"count" json:"count"`
	Users []ReactionUser `bson:"users" json:"users"`
}

// LinkPreview is cached Open Graph metadata attached to a message.
type LinkPreview struct {
	URL         string `bson:"url" json:"url"`
	Title       string `bson:"title,omitempty" json:"title,omitempty"`
	Description string `bson:"description,omitempty" json:"description,omitempty"`
	ImageURL    string `bson:"image_url,omitempty" json:"image_url,omitempty"`
	SiteName    string `bson:"site_name,omitempty" json:"site_name,omitempty"`
}

type MediaAttachment struct {
	URL          string `bson:"url" json:"url"`
	ThumbnailURL string `bson:"thumbnail_url,omitempty" json:"thumbnail_url,omitempty"`
	FileName     string `bson:"file_name,omitempty" json:"file_name,omitempty"`
	Size         int64  `bson:"size,omitempty" json:"size,omitempty"`
	ContentType  string `bson:"content_type,omitempty" json:"content_type,omitempty"`
}

type Message struct {
	ID             primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	ConversationID string              `bson:"conversation_id" json:"conversation_id"`
	SenderID       string              `bson:"sender_id" json:"sender_id"`
	ReceiverID     string              `bson:"receiver_id" json:"receiver_id"`
	Content        string              `bson:"content" json:"content"`
	Type           MessageType         `bson:"type" json:"type"`
	Status         MessageStatus       `bson:"status" json:"status"`
	Read           bool                `bson:"read" json:"read"` // legacy bool, derived from Status
	Deleted        bool                `bson:"deleted" json:"deleted"`
	Edited         bool                `bson:"edited" json:"edited"`
	EditedAt       *time.Time          `bson:"edited_at,omitempty" json:"edited_at,omitempty"`
	Reactions      map[string]Reaction `bson:"reactions,omitempty" json:"reactions,omitempty"`
	ReplyTo        string              `bson:"reply_to,omitempty" json:"reply_to,omitempty"`
	Media          *MediaAttachment    `bson:"media,omitempty" json:"media,omitempty"`
	LinkPreview    *LinkPreview        `bson:"link_preview,omitempty" json:"link_preview,omitempty"`
	Timestamp      time.Time           `bson:"timestamp" json:"timestamp"`
}

// CanEdit reports whether callerID may still edit a message sent by senderID
// at sentAt. Only the sender may edit, and only inside the edit window.
func CanEdit(sentAt time.Time, senderID, callerID string, now time.Time) bool {
	if callerID != senderID {
		return false
	}
	return now.Sub(sentAt) <= EditWindow
}

// ToggleReaction adds callerID to the emoji's user list, or removes it when
// already present, keeping count equal to len(users). Returns true when the
// reaction was added.
func ToggleReaction(reactions map[string]Reaction, emoji, userID, userName string, now time.Time) (map[string]Reaction, bool) {
	if reactions == nil {
		reactions = make(map[string]Reaction)
	}
	r := reactions[emoji]
	for i, u := range r.Users {
		if u.UserID == userID {
			r.Users = append(r.Users[:i], r.Users[i+1:]...)
			r.Count = len(r.Users)
			if r.Count == 0 {
				delete(reactions, emoji)
			} else {
				reactions[emoji] = r
			}
			return reactions, false
		}
	}
	r.Users = append(r.Users, ReactionUser{UserID: userID, UserName: userName, Timestamp: now})
	r.Count = len(r.Users)
	reactions[emoji] = r
	return reactions, true
}
