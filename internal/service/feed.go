package service

import (
	"context"
	"sort"
	"time"

	"github.com/Faheem-Musthafa/campuslink-backend/internal/apperr"
	"github.com/Faheem-Musthafa/campuslink-backend/internal/models"
)

// FeedService builds the per-user read model: server snapshots filtered down
// to what this user should see.
type FeedService struct {
	convs ConversationStore
	msgs  MessageStore
}

func NewFeedService(convs ConversationStore, msgs MessageStore) *FeedService {
	return &FeedService{convs: convs, msgs: msgs}
}

// VisibleMessages drops messages at or before the user's clear mark. A zero
// clearedAt means nothing was cleared. Pure; the other participant's view is
// computed from their own mark.
func VisibleMessages(msgs []*models.Message, clearedAt time.Time) []*models.Message {
	if clearedAt.IsZero() {
		return msgs
	}
	out := make([]*models.Message, 0, len(msgs))
	for _, m := range msgs {
		if m.Timestamp.After(clearedAt) {
			out = append(out, m)
		}
	}
	return out
}

// MessagesFor lists conversation messages as userID sees them.
func (s *FeedService) MessagesFor(ctx context.Context, convID, userID string, limit int64, before time.Time) ([]*models.Message, error) {
	conv, err := s.convs.GetByID(ctx, convID)
	if err != nil {
		return nil, err
	}
	if !conv.HasParticipant(userID) {
		return nil, apperr.ErrNotParticipant
	}
	msgs, err := s.msgs.List(ctx, convID, limit, before)
	if err != nil {
		return nil, err
	}
	clearedAt, _ := conv.ClearedAt(userID)
	return VisibleMessages(msgs, clearedAt), nil
}

// ConversationView is one row of the user's conversation list.
type ConversationView struct {
	Conversation *models.Conversation `json:"conversation"`
	Pinned       bool                 `json:"pinned"`
	Muted        bool                 `json:"muted"`
	UnreadCount  int64                `json:"unread_count"`
}

// ConversationList returns the user's non-archived conversations, pinned ones
// first, each with its unread count.
func (s *FeedService) ConversationList(ctx context.Context, userID string, limit int64) ([]*ConversationView, error) {
	convs, err := s.convs.ListForUser(ctx, userID, limit)
	if err != nil {
		return nil, err
	}
	views := make([]*ConversationView, 0, len(convs))
	for _, c := range convs {
		if c.ArchivedFor(userID) {
			continue
		}
		clearedAt, _ := c.ClearedAt(userID)
		unread, err := s.msgs.UnreadCount(ctx, c.ID.Hex(), userID, clearedAt)
		if err != nil {
			return nil, err
		}
		views = append(views, &ConversationView{
			Conversation: c,
			Pinned:       c.PinnedFor(userID),
			Muted:        c.MutedFor(userID),
			UnreadCount:  unread,
		})
	}
	// stable: pinned float to the top, recency order preserved within groups
	sort.SliceStable(views, func(i, j int) bool {
		return views[i].Pinned && !views[j].Pinned
	})
	return views, nil
}

// ArchivedConversations lists the rows hidden from the main view.
func (s *FeedService) ArchivedConversations(ctx context.Context, userID string, limit int64) ([]*models.Conversation, error) {
	convs, err := s.convs.ListForUser(ctx, userID, limit)
	if err != nil {
		return nil, err
	}
	var out []*models.Conversation
	for _, c := range convs {
		if c.ArchivedFor(userID) {
			out = append(out, c)
		}
	}
	return out, nil
}
