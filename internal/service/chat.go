package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Faheem-Musthafa/campuslink-backend/internal/apperr"
	"github.com/Faheem-Musthafa/campuslink-backend/internal/events"
	"github.com/Faheem-Musthafa/campuslink-backend/internal/metrics"
	"github.com/Faheem-Musthafa/campuslink-backend/internal/models"
	"github.com/Faheem-Musthafa/campuslink-backend/internal/repository"
)

type ConversationStore interface {
	CreateOrGet(ctx context.Context, a, b string) (*models.Conversation, error)
	GetByID(ctx context.Context, id string) (*models.Conversation, error)
	GetBetweenUsers(ctx context.Context, a, b string) (*models.Conversation, error)
	ListForUser(ctx context.Context, userID string, limit int64) ([]*models.Conversation, error)
	TogglePin(ctx context.Context, convID, userID string, on bool) error
	ToggleMute(ctx context.Context, convID, userID string, on bool) error
	ToggleArchive(ctx context.Context, convID, userID string, on bool) error
	ClearHistory(ctx context.Context, convID, userID string, at time.Time) error
	SetLastMessage(ctx context.Context, convID string, lm *models.LastMessage) error
}

type MessageStore interface {
	Insert(ctx context.Context, m *models.Message) (*models.Message, error)
	GetByID(ctx context.Context, id string) (*models.Message, error)
	List(ctx context.Context, convID string, limit int64, before time.Time) ([]*models.Message, error)
	MarkDelivered(ctx context.Context, id string) error
	MarkRead(ctx context.Context, id string) error
	MarkConversationDelivered(ctx context.Context, convID, userID string) (int64, error)
	MarkConversationRead(ctx context.Context, convID, userID string) (int64, error)
	UnreadCount(ctx context.Context, convID, userID string, after time.Time) (int64, error)
	SoftDelete(ctx context.Context, id string) error
	ApplyEdit(ctx context.Context, id, content string, at time.Time) error
	ToggleReaction(ctx context.Context, id, emoji, userID, userName string) (bool, error)
}

type BlockChecker interface {
	IsBlockedEither(ctx context.Context, a, b string) (bool, error)
}

type Publisher interface {
	Publish(ctx context.Context, env *events.Envelope) error
}

type ChatService struct {
	convs    ConversationStore
	msgs     MessageStore
	blocks   BlockChecker
	producer Publisher
	log      *zap.SugaredLogger
	now      func() time.Time
}

func NewChatService(convs ConversationStore, msgs MessageStore, blocks BlockChecker, producer Publisher, log *zap.SugaredLogger) *ChatService {
	return &ChatService{
		convs:    convs,
		msgs:     msgs,
		blocks:   blocks,
		producer: producer,
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// StartConversation returns the single conversation for the pair, creating it
// when absent. Safe to call from both sides at once.
func (s *ChatService) StartConversation(ctx context.Context, a, b string) (*models.Conversation, error) {
	if a == "" || b == "" {
		return nil, apperr.ErrBadRequest
	}
	if a == b {
		return nil, apperr.ErrSelfConversation
	}
	blocked, err := s.blocks.IsBlockedEither(ctx, a, b)
	if err != nil {
		return nil, fmt.Errorf("block check: %w", err)
	}
	if blocked {
		return nil, apperr.ErrBlocked
	}
	return s.convs.CreateOrGet(ctx, a, b)
}

func (s *ChatService) ConversationBetween(ctx context.Context, a, b string) (*models.Conversation, error) {
	return s.convs.GetBetweenUsers(ctx, a, b)
}

type SendMessageInput struct {
	ConversationID string
	SenderID       string
	Content        string
	Type           models.MessageType
	Media          *models.MediaAttachment
	LinkPreview    *models.LinkPreview
	ReplyTo        string
}

// SendMessage appends the message and refreshes the conversation preview. The
// preview write is best effort: the messages collection stays authoritative,
// so a failure there only leaves the list view briefly stale.
func (s *ChatService) SendMessage(ctx context.Context, in SendMessageInput) (*models.Message, error) {
	if strings.TrimSpace(in.Content) == "" && in.Media == nil {
		return nil, apperr.ErrBadRequest
	}
	if in.Type == "" {
		in.Type = models.TypeText
	}
	if !models.ValidMessageType(in.Type) {
		return nil, apperr.ErrBadRequest
	}
	conv, err := s.convs.GetByID(ctx, in.ConversationID)
	if err != nil {
		return nil, err
	}
	if !conv.HasParticipant(in.SenderID) {
		return nil, apperr.ErrNotParticipant
	}
	receiver := conv.OtherParticipant(in.SenderID)

	blocked, err := s.blocks.IsBlockedEither(ctx, in.SenderID, receiver)
	if err != nil {
		return nil, fmt.Errorf("block check: %w", err)
	}
	if blocked {
		return nil, apperr.ErrBlocked
	}

	if in.ReplyTo != "" {
		if _, err := s.msgs.GetByID(ctx, in.ReplyTo); err != nil {
			return nil, fmt.Errorf("reply target: %w", err)
		}
	}

	msg := &models.Message{
		ConversationID: in.ConversationID,
		SenderID:       in.SenderID,
		ReceiverID:     receiver,
		Content:        in.Content,
		Type:           in.Type,
		Media:          in.Media,
		LinkPreview:    in.LinkPreview,
		ReplyTo:        in.ReplyTo,
		Timestamp:      s.now(),
	}
	msg, err = s.msgs.Insert(ctx, msg)
	if err != nil {
		return nil, err
	}
	metrics.MessagesSent.Inc()

	if err := s.convs.SetLastMessage(ctx, in.ConversationID, &models.LastMessage{
		Content:   msg.Content,
		SenderID:  msg.SenderID,
		Timestamp: msg.Timestamp,
	}); err != nil {
		s.log.Warnw("last message write-through failed", "conversation", in.ConversationID, "err", err)
	}

	s.publish(ctx, events.TypeMessageSent, receiver, in.ConversationID, msg)
	return msg, nil
}

// MarkDelivered advances the message to delivered. Only the receiver moves
// delivery state; nobody else gets to fire receipts at the sender.
func (s *ChatService) MarkDelivered(ctx context.Context, msgID, callerID string) error {
	m, err := s.msgs.GetByID(ctx, msgID)
	if err != nil {
		return err
	}
	if m.ReceiverID != callerID {
		return apperr.ErrForbidden
	}
	if err := s.msgs.MarkDelivered(ctx, msgID); err != nil {
		return err
	}
	if m, err := s.msgs.GetByID(ctx, msgID); err == nil {
		s.publish(ctx, events.TypeMessageDelivered, m.SenderID, m.ConversationID, m)
	}
	return nil
}

// MarkRead is receiver-only, same as MarkDelivered.
func (s *ChatService) MarkRead(ctx context.Context, msgID, callerID string) error {
	m, err := s.msgs.GetByID(ctx, msgID)
	if err != nil {
		return err
	}
	if m.ReceiverID != callerID {
		return apperr.ErrForbidden
	}
	if err := s.msgs.MarkRead(ctx, msgID); err != nil {
		return err
	}
	if m, err := s.msgs.GetByID(ctx, msgID); err == nil {
		s.publish(ctx, events.TypeMessageRead, m.SenderID, m.ConversationID, m)
	}
	return nil
}

// MarkConversationRead marks every inbound message read for userID and tells
// the peer how many flipped.
func (s *ChatService) MarkConversationRead(ctx context.Context, convID, userID string) (int64, error) {
	conv, err := s.convs.GetByID(ctx, convID)
	if err != nil {
		return 0, err
	}
	if !conv.HasParticipant(userID) {
		return 0, apperr.ErrNotParticipant
	}
	n, err := s.msgs.MarkConversationRead(ctx, convID, userID)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.publish(ctx, events.TypeMessageRead, conv.OtherParticipant(userID), convID,
			map[string]any{"count": n, "reader_id": userID})
	}
	return n, nil
}

func (s *ChatService) MarkConversationDelivered(ctx context.Context, convID, userID string) (int64, error) {
	return s.msgs.MarkConversationDelivered(ctx, convID, userID)
}

// DeleteMessage is sender-only soft delete; the content is gone for good.
func (s *ChatService) DeleteMessage(ctx context.Context, msgID, callerID string) error {
	m, err := s.msgs.GetByID(ctx, msgID)
	if err != nil {
		return err
	}
	if m.SenderID != callerID {
		return apperr.ErrNotMessageSender
	}
	if err := s.msgs.SoftDelete(ctx, msgID); err != nil {
		return err
	}
	s.publish(ctx, events.TypeMessageDeleted, m.ReceiverID, m.ConversationID,
		map[string]any{"message_id": msgID})
	return nil
}

// EditMessage re-validates against stored state before applying: sender,
// window, not deleted, and the content actually changed.
func (s *ChatService) EditMessage(ctx context.Context, msgID, callerID, content string) (*models.Message, error) {
	if strings.TrimSpace(content) == "" {
		return nil, apperr.ErrBadRequest
	}
	m, err := s.msgs.GetByID(ctx, msgID)
	if err != nil {
		return nil, err
	}
	if m.Deleted {
		return nil, apperr.ErrMessageDeleted
	}
	if m.SenderID != callerID {
		return nil, apperr.ErrNotMessageSender
	}
	if !models.CanEdit(m.Timestamp, m.SenderID, callerID, s.now()) {
		return nil, apperr.ErrEditWindowExpired
	}
	if m.Content == content {
		return nil, apperr.ErrContentUnchanged
	}
	if err := s.msgs.ApplyEdit(ctx, msgID, content, s.now()); err != nil {
		return nil, err
	}
	edited, err := s.msgs.GetByID(ctx, msgID)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.TypeMessageEdited, m.ReceiverID, m.ConversationID, edited)
	return edited, nil
}

func (s *ChatService) ToggleReaction(ctx context.Context, msgID, emoji, userID, userName string) (bool, error) {
	if emoji == "" {
		return false, apperr.ErrBadRequest
	}
	m, err := s.msgs.GetByID(ctx, msgID)
	if err != nil {
		return false, err
	}
	added, err := s.msgs.ToggleReaction(ctx, msgID, emoji, userID, userName)
	if err != nil {
		return false, err
	}
	peer := m.ReceiverID
	if userID == m.ReceiverID {
		peer = m.SenderID
	}
	s.publish(ctx, events.TypeReactionUpdated, peer, m.ConversationID,
		map[string]any{"message_id": msgID, "emoji": emoji, "user_id": userID, "added": added})
	return added, nil
}

func (s *ChatService) TogglePin(ctx context.Context, convID, userID string, on bool) error {
	return s.toggleFlag(ctx, convID, userID, on, s.convs.TogglePin)
}

func (s *ChatService) ToggleMute(ctx context.Context, convID, userID string, on bool) error {
	return s.toggleFlag(ctx, convID, userID, on, s.convs.ToggleMute)
}

func (s *ChatService) ToggleArchive(ctx context.Context, convID, userID string, on bool) error {
	return s.toggleFlag(ctx, convID, userID, on, s.convs.ToggleArchive)
}

func (s *ChatService) toggleFlag(ctx context.Context, convID, userID string, on bool, f func(context.Context, string, string, bool) error) error {
	conv, err := s.convs.GetByID(ctx, convID)
	if err != nil {
		return err
	}
	if !conv.HasParticipant(userID) {
		return apperr.ErrNotParticipant
	}
	return f(ctx, convID, userID, on)
}

func (s *ChatService) ClearHistory(ctx context.Context, convID, userID string) error {
	conv, err := s.convs.GetByID(ctx, convID)
	if err != nil {
		return err
	}
	if !conv.HasParticipant(userID) {
		return apperr.ErrNotParticipant
	}
	return s.convs.ClearHistory(ctx, convID, userID, s.now())
}

func (s *ChatService) publish(ctx context.Context, typ, userID, convID string, payload any) {
	env, err := events.NewEnvelope(typ, userID, convID, payload)
	if err != nil {
		s.log.Warnw("envelope marshal", "type", typ, "err", err)
		return
	}
	if err := s.producer.Publish(ctx, env); err != nil {
		s.log.Warnw("event publish failed", "type", typ, "user", userID, "err", err)
	}
}

// IsNotFound lets handlers map repo misses to 404 without importing the repo
// error directly.
func IsNotFound(err error) bool {
	return errors.Is(err, repository.ErrNotFound)
}
