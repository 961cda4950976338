package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPairKey(t *testing.T) {
	assert.Equal(t, "alice:bob", PairKey("alice", "bob"))
	assert.Equal(t, PairKey("alice", "bob"), PairKey("bob", "alice"))
	assert.NotEqual(t, PairKey("alice", "bob"), PairKey("alice", "carol"))
}

func TestConversationParticipants(t *testing.T) {
	c := &Conversation{Participants: []string{"alice", "bob"}}

	assert.True(t, c.HasParticipant("alice"))
	assert.True(t, c.HasParticipant("bob"))
	assert.False(t, c.HasParticipant("mallory"))

	assert.Equal(t, "bob", c.OtherParticipant("alice"))
	assert.Equal(t, "alice", c.OtherParticipant("bob"))
}

func TestConversationPerUserFlags(t *testing.T) {
	c := &Conversation{
		Participants: []string{"alice", "bob"},
		PinnedBy:     []string{"alice"},
		MutedBy:      []string{"bob"},
		ArchivedBy:   []string{"alice"},
	}

	assert.True(t, c.PinnedFor("alice"))
	assert.False(t, c.PinnedFor("bob"))
	assert.True(t, c.MutedFor("bob"))
	assert.False(t, c.MutedFor("alice"))
	assert.True(t, c.ArchivedFor("alice"))
	assert.False(t, c.ArchivedFor("bob"))
}

func TestClearedAt(t *testing.T) {
	mark := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	c := &Conversation{ClearedBy: map[string]time.Time{"alice": mark}}

	at, ok := c.ClearedAt("alice")
	assert.True(t, ok)
	assert.Equal(t, mark, at)

	// the other side carries no mark
	_, ok = c.ClearedAt("bob")
	assert.False(t, ok)

	empty := &Conversation{}
	_, ok = empty.ClearedAt("alice")
	assert.False(t, ok)
}
