package models

import (
	"sort"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LastMessage is the denormalized preview stored on the conversation so the
// list view renders without a join. The messages collection stays authoritative.
type LastMessage struct {
	Content   string    `bson:"content" json:"content"`
	SenderID  string    `bson:"sender_id" json:"sender_id"`
	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
}

type Conversation struct {
	ID           primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	PairKey      string               `bson:"pair_key" json:"-"`
	Participants []string             `bson:"participants" json:"participants"`
	LastMessage  *LastMessage         `bson:"last_message,omitempty" json:"last_message,omitempty"`
	PinnedBy     []string             `bson:"pinned_by,omitempty" json:"pinned_by,omitempty"`
	MutedBy      []string             `bson:"muted_by,omitempty" json:"muted_by,omitempty"`
	ArchivedBy   []string             `bson:"archived_by,omitempty" json:"archived_by,omitempty"`
	ClearedBy    map[string]time.Time `bson:"cleared_by,omitempty" json:"cleared_by,omitempty"`
	CreatedAt    time.Time            `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time            `bson:"updated_at" json:"updated_at"`
}

// PairKey derives the conversation identity from the unordered participant
// pair, so (a,b) and (b,a) map to the same document and double-creation
// collapses on the unique index.
func PairKey(a, b string) string {
	p := []string{a, b}
	sort.Strings(p)
	return strings.Join(p, ":")
}

func (c *Conversation) HasParticipant(userID string) bool {
	for _, p := range c.Participants {
		if p == userID {
			return true
		}
	}
	return false
}

// OtherParticipant returns the peer of userID in a 1:1 conversation.
func (c *Conversation) OtherParticipant(userID string) string {
	for _, p := range c.Participants {
		if p != userID {
			return p
		}
	}
	return ""
}

func (c *Conversation) PinnedFor(userID string) bool   { return contains(c.PinnedBy, userID) }
func (c *Conversation) MutedFor(userID string) bool    { return contains(c.MutedBy, userID) }
func (c *Conversation) ArchivedFor(userID string) bool { return contains(c.ArchivedBy, userID) }

// ClearedAt returns the cut-off below which userID no longer sees history.
func (c *Conversation) ClearedAt(userID string) (time.Time, bool) {
	if c.ClearedBy == nil {
		return time.Time{}, false
	}
	t, ok := c.ClearedBy[userID]
	return t, ok
}

func contains(s []string, v string) bool {
	for _, e := range s {
		if e == v {
			return true
		}
	}
	return false
}
