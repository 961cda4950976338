package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faheem-Musthafa/campuslink-backend/internal/apperr"
	"github.com/Faheem-Musthafa/campuslink-backend/internal/models"
)

func TestVisibleMessages(t *testing.T) {
	mark := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	msgs := []*models.Message{
		{Content: "before", Timestamp: mark.Add(-time.Hour)},
		{Content: "at mark", Timestamp: mark},
		{Content: "after", Timestamp: mark.Add(time.Minute)},
	}

	t.Run("no clear mark shows everything", func(t *testing.T) {
		assert.Len(t, VisibleMessages(msgs, time.Time{}), 3)
	})

	t.Run("messages at or before the mark are hidden", func(t *testing.T) {
		visible := VisibleMessages(msgs, mark)
		require.Len(t, visible, 1)
		assert.Equal(t, "after", visible[0].Content)
	})
}

func TestClearHistoryOnlyAffectsClearer(t *testing.T) {
	convs := newMemConvStore()
	msgs := newMemMsgStore()
	chat := NewChatService(convs, msgs, &fakeBlocks{}, &fakePublisher{}, testLogger())
	feed := NewFeedService(convs, msgs)
	ctx := context.Background()

	base := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	step := 0
	chat.now = func() time.Time {
		step++
		return base.Add(time.Duration(step) * time.Minute)
	}

	conv, _ := chat.StartConversation(ctx, "alice", "bob")
	id := conv.ID.Hex()
	for _, text := range []string{"one", "two"} {
		_, err := chat.SendMessage(ctx, SendMessageInput{ConversationID: id, SenderID: "alice", Content: text})
		require.NoError(t, err)
	}

	require.NoError(t, chat.ClearHistory(ctx, id, "bob"))
	_, err := chat.SendMessage(ctx, SendMessageInput{ConversationID: id, SenderID: "alice", Content: "three"})
	require.NoError(t, err)

	// bob only sees what came after his clear mark
	bobView, err := feed.MessagesFor(ctx, id, "bob", 50, time.Time{})
	require.NoError(t, err)
	require.Len(t, bobView, 1)
	assert.Equal(t, "three", bobView[0].Content)

	// alice's view is untouched
	aliceView, err := feed.MessagesFor(ctx, id, "alice", 50, time.Time{})
	require.NoError(t, err)
	assert.Len(t, aliceView, 3)
}

func TestUnreadCountRespectsClearMark(t *testing.T) {
	convs := newMemConvStore()
	msgs := newMemMsgStore()
	chat := NewChatService(convs, msgs, &fakeBlocks{}, &fakePublisher{}, testLogger())
	feed := NewFeedService(convs, msgs)
	ctx := context.Background()

	base := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	step := 0
	chat.now = func() time.Time {
		step++
		return base.Add(time.Duration(step) * time.Minute)
	}

	conv, _ := chat.StartConversation(ctx, "alice", "bob")
	id := conv.ID.Hex()
	for _, text := range []string{"one", "two"} {
		_, err := chat.SendMessage(ctx, SendMessageInput{ConversationID: id, SenderID: "alice", Content: text})
		require.NoError(t, err)
	}

	require.NoError(t, chat.ClearHistory(ctx, id, "bob"))
	_, err := chat.SendMessage(ctx, SendMessageInput{ConversationID: id, SenderID: "alice", Content: "three"})
	require.NoError(t, err)

	// the badge matches what bob's message view shows: one message after his clear
	views, err := feed.ConversationList(ctx, "bob", 50)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.EqualValues(t, 1, views[0].UnreadCount)
}

func TestMessagesForRequiresParticipant(t *testing.T) {
	convs := newMemConvStore()
	msgs := newMemMsgStore()
	chat := NewChatService(convs, msgs, &fakeBlocks{}, &fakePublisher{}, testLogger())
	feed := NewFeedService(convs, msgs)
	ctx := context.Background()

	conv, _ := chat.StartConversation(ctx, "alice", "bob")
	_, err := feed.MessagesFor(ctx, conv.ID.Hex(), "mallory", 50, time.Time{})
	assert.ErrorIs(t, err, apperr.ErrNotParticipant)
}

func TestConversationList(t *testing.T) {
	convs := newMemConvStore()
	msgs := newMemMsgStore()
	chat := NewChatService(convs, msgs, &fakeBlocks{}, &fakePublisher{}, testLogger())
	feed := NewFeedService(convs, msgs)
	ctx := context.Background()

	withBob, _ := chat.StartConversation(ctx, "alice", "bob")
	withCarol, _ := chat.StartConversation(ctx, "alice", "carol")
	withDave, _ := chat.StartConversation(ctx, "alice", "dave")

	// two unread messages from carol
	for i := 0; i < 2; i++ {
		_, err := chat.SendMessage(ctx, SendMessageInput{
			ConversationID: withCarol.ID.Hex(), SenderID: "carol", Content: "ping",
		})
		require.NoError(t, err)
	}

	require.NoError(t, chat.TogglePin(ctx, withCarol.ID.Hex(), "alice", true))
	require.NoError(t, chat.ToggleArchive(ctx, withDave.ID.Hex(), "alice", true))

	views, err := feed.ConversationList(ctx, "alice", 50)
	require.NoError(t, err)
	require.Len(t, views, 2) // archived one is hidden

	// pinned floats to the top
	assert.Equal(t, withCarol.ID, views[0].Conversation.ID)
	assert.True(t, views[0].Pinned)
	assert.EqualValues(t, 2, views[0].UnreadCount)
	assert.Equal(t, withBob.ID, views[1].Conversation.ID)
	assert.EqualValues(t, 0, views[1].UnreadCount)

	archived, err := feed.ArchivedConversations(ctx, "alice", 50)
	require.NoError(t, err)
	require.Len(t, archived, 1)
	assert.Equal(t, withDave.ID, archived[0].ID)

	// the same rows from bob's perspective carry none of alice's flags
	bobViews, err := feed.ConversationList(ctx, "bob", 50)
	require.NoError(t, err)
	require.Len(t, bobViews, 1)
	assert.False(t, bobViews[0].Pinned)
}
