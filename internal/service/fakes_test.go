package service

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/Faheem-Musthafa/campuslink-backend/internal/apperr"
	"github.com/Faheem-Musthafa/campuslink-backend/internal/events"
	"github.com/Faheem-Musthafa/campuslink-backend/internal/models"
	"github.com/Faheem-Musthafa/campuslink-backend/internal/repository"
)

// In-memory stores mirroring the repository layer's update semantics, so the
// services can be exercised without a database.

type memConvStore struct {
	mu    sync.Mutex
	convs map[string]*models.Conversation // by hex id
	byKey map[string]*models.Conversation
}

func newMemConvStore() *memConvStore {
	return &memConvStore{
		convs: make(map[string]*models.Conversation),
		byKey: make(map[string]*models.Conversation),
	}
}

func (s *memConvStore) CreateOrGet(_ context.Context, a, b string) (*models.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := models.PairKey(a, b)
	if c, ok := s.byKey[key]; ok {
		return c, nil
	}
	c := &models.Conversation{
		ID:           primitive.NewObjectID(),
		PairKey:      key,
		Participants: []string{a, b},
		CreatedAt:    time.Now().UTC(),
	}
	s.convs[c.ID.Hex()] = c
	s.byKey[key] = c
	return c, nil
}

func (s *memConvStore) GetByID(_ context.Context, id string) (*models.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.convs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return c, nil
}

func (s *memConvStore) GetBetweenUsers(_ context.Context, a, b string) (*models.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.byKey[models.PairKey(a, b)]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return c, nil
}

func (s *memConvStore) ListForUser(_ context.Context, userID string, _ int64) ([]*models.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.Conversation
	for _, c := range s.convs {
		if c.HasParticipant(userID) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *memConvStore) setFlag(id, userID string, on bool, get func(*models.Conversation) *[]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.convs[id]
	if !ok {
		return repository.ErrNotFound
	}
	list := get(c)
	for i, u := range *list {
		if u == userID {
			if !on {
				*list = append((*list)[:i], (*list)[i+1:]...)
			}
			return nil
		}
	}
	if on {
		*list = append(*list, userID)
	}
	return nil
}

func (s *memConvStore) TogglePin(_ context.Context, id, userID string, on bool) error {
	return s.setFlag(id, userID, on, func(c *models.Conversation) *[]string { return &c.PinnedBy })
}

func (s *memConvStore) ToggleMute(_ context.Context, id, userID string, on bool) error {
	return s.setFlag(id, userID, on, func(c *models.Conversation) *[]string { return &c.MutedBy })
}

func (s *memConvStore) ToggleArchive(_ context.Context, id, userID string, on bool) error {
	return s.setFlag(id, userID, on, func(c *models.Conversation) *[]string { return &c.ArchivedBy })
}

func (s *memConvStore) ClearHistory(_ context.Context, id, userID string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.convs[id]
	if !ok {
		return repository.ErrNotFound
	}
	if c.ClearedBy == nil {
		c.ClearedBy = make(map[string]time.Time)
	}
	c.ClearedBy[userID] = at
	return nil
}

func (s *memConvStore) SetLastMessage(_ context.Context, id string, lm *models.LastMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.convs[id]
	if !ok {
		return repository.ErrNotFound
	}
	c.LastMessage = lm
	return nil
}

type memMsgStore struct {
	mu   sync.Mutex
	msgs map[string]*models.Message
}

func newMemMsgStore() *memMsgStore {
	return &memMsgStore{msgs: make(map[string]*models.Message)}
}

func (s *memMsgStore) Insert(_ context.Context, m *models.Message) (*models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m.ID = primitive.NewObjectID()
	m.Status = models.StatusSent
	s.msgs[m.ID.Hex()] = m
	return m, nil
}

func (s *memMsgStore) GetByID(_ context.Context, id string) (*models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.msgs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *m
	return &cp, nil
}

func (s *memMsgStore) List(_ context.Context, convID string, _ int64, _ time.Time) ([]*models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.Message
	for _, m := range s.msgs {
		if m.ConversationID == convID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (s *memMsgStore) MarkDelivered(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.msgs[id]
	if !ok || m.Status != models.StatusSent {
		return repository.ErrNotFound
	}
	m.Status = models.StatusDelivered
	return nil
}

func (s *memMsgStore) MarkRead(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.msgs[id]
	if !ok || m.Status == models.StatusRead {
		return repository.ErrNotFound
	}
	m.Status = models.StatusRead
	m.Read = true
	return nil
}

func (s *memMsgStore) MarkConversationDelivered(_ context.Context, convID, userID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, m := range s.msgs {
		if m.ConversationID == convID && m.ReceiverID == userID && m.Status == models.StatusSent {
			m.Status = models.StatusDelivered
			n++
		}
	}
	return n, nil
}

func (s *memMsgStore) MarkConversationRead(_ context.Context, convID, userID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, m := range s.msgs {
		if m.ConversationID == convID && m.ReceiverID == userID && m.Status != models.StatusRead {
			m.Status = models.StatusRead
			m.Read = true
			n++
		}
	}
	return n, nil
}

func (s *memMsgStore) UnreadCount(_ context.Context, convID, userID string, after time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, m := range s.msgs {
		if m.ConversationID == convID && m.ReceiverID == userID && m.Status != models.StatusRead && !m.Deleted &&
			(after.IsZero() || m.Timestamp.After(after)) {
			n++
		}
	}
	return n, nil
}

func (s *memMsgStore) SoftDelete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.msgs[id]
	if !ok {
		return repository.ErrNotFound
	}
	m.Deleted = true
	m.Content = models.DeletedPlaceholder
	m.Media = nil
	m.LinkPreview = nil
	return nil
}

func (s *memMsgStore) ApplyEdit(_ context.Context, id, content string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.msgs[id]
	if !ok {
		return repository.ErrNotFound
	}
	m.Content = content
	m.Edited = true
	m.EditedAt = &at
	return nil
}

func (s *memMsgStore) ToggleReaction(_ context.Context, id, emoji, userID, userName string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.msgs[id]
	if !ok {
		return false, repository.ErrNotFound
	}
	reactions, added := models.ToggleReaction(m.Reactions, emoji, userID, userName, time.Now().UTC())
	m.Reactions = reactions
	return added, nil
}

type fakeBlocks struct {
	pairs map[string]bool // pair key -> blocked
}

func (f *fakeBlocks) IsBlockedEither(_ context.Context, a, b string) (bool, error) {
	return f.pairs[models.PairKey(a, b)], nil
}

func (f *fakeBlocks) block(a, b string) {
	if f.pairs == nil {
		f.pairs = make(map[string]bool)
	}
	f.pairs[models.PairKey(a, b)] = true
}

type capturedEvent struct {
	Type   string
	UserID string
	ConvID string
}

type fakePublisher struct {
	mu     sync.Mutex
	events []capturedEvent
}

func (f *fakePublisher) Publish(_ context.Context, env *events.Envelope) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, capturedEvent{Type: env.Type, UserID: env.UserID, ConvID: env.ConversationID})
	return nil
}

func (f *fakePublisher) ofType(typ string) []capturedEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []capturedEvent
	for _, e := range f.events {
		if e.Type == typ {
			out = append(out, e)
		}
	}
	return out
}

type memModerationStore struct {
	mu            sync.Mutex
	verifications map[string]*models.VerificationRequest
	reports       map[string]*models.UserReport
	chatReports   []*models.ChatReport
	blocks        *fakeBlocks
}

func newMemModerationStore() *memModerationStore {
	return &memModerationStore{
		verifications: make(map[string]*models.VerificationRequest),
		reports:       make(map[string]*models.UserReport),
		blocks:        &fakeBlocks{},
	}
}

func (s *memModerationStore) InsertVerification(_ context.Context, v *models.VerificationRequest) (*models.VerificationRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v.ID = primitive.NewObjectID()
	v.Status = models.ReviewPending
	v.CreatedAt = time.Now().UTC()
	s.verifications[v.ID.Hex()] = v
	return v, nil
}

func (s *memModerationStore) GetVerification(_ context.Context, id string) (*models.VerificationRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.verifications[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return v, nil
}

func (s *memModerationStore) ListPendingVerifications(_ context.Context, _ int64) ([]*models.VerificationRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.VerificationRequest
	for _, v := range s.verifications {
		if v.Status == models.ReviewPending {
			out = append(out, v)
		}
	}
	return out, nil
}

func (s *memModerationStore) ReviewVerification(_ context.Context, id string, status models.ReviewStatus, reviewer, reason string) (*models.VerificationRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.verifications[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if v.Status != models.ReviewPending {
		return nil, apperr.ErrAlreadyReviewed
	}
	now := time.Now().UTC()
	v.Status = status
	v.ReviewedBy = reviewer
	v.ReviewedAt = &now
	v.RejectionReason = reason
	return v, nil
}

func (s *memModerationStore) InsertUserReport(_ context.Context, rep *models.UserReport) (*models.UserReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rep.ID = primitive.NewObjectID()
	rep.Status = models.ReviewPending
	rep.CreatedAt = time.Now().UTC()
	s.reports[rep.ID.Hex()] = rep
	return rep, nil
}

func (s *memModerationStore) ListPendingReports(_ context.Context, _ int64) ([]*models.UserReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.UserReport
	for _, r := range s.reports {
		if r.Status == models.ReviewPending {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *memModerationStore) ReviewReport(_ context.Context, id string, status models.ReviewStatus, reviewer, action string) (*models.UserReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.reports[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if r.Status != models.ReviewPending {
		return nil, apperr.ErrAlreadyReviewed
	}
	r.Status = status
	r.ReviewedBy = reviewer
	r.Action = action
	return r, nil
}

func (s *memModerationStore) InsertChatReport(_ context.Context, rep *models.ChatReport) (*models.ChatReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rep.ID = primitive.NewObjectID()
	rep.Status = models.ReviewPending
	s.chatReports = append(s.chatReports, rep)
	return rep, nil
}

func (s *memModerationStore) Block(_ context.Context, blocker, blocked string) error {
	s.blocks.block(blocker, blocked)
	return nil
}

func (s *memModerationStore) Unblock(_ context.Context, blocker, blocked string) error {
	delete(s.blocks.pairs, models.PairKey(blocker, blocked))
	return nil
}

func (s *memModerationStore) IsBlockedEither(ctx context.Context, a, b string) (bool, error) {
	return s.blocks.IsBlockedEither(ctx, a, b)
}

type memOutbox struct {
	mu      sync.Mutex
	entries []*models.OutboxEntry
}

func (o *memOutbox) Enqueue(_ context.Context, kind models.OutboxKind, payload map[string]any) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.entries = append(o.entries, &models.OutboxEntry{
		ID:        primitive.NewObjectID(),
		Kind:      kind,
		Payload:   payload,
		Status:    models.OutboxPending,
		CreatedAt: time.Now().UTC(),
	})
	return nil
}

func (o *memOutbox) ofKind(kind models.OutboxKind) []*models.OutboxEntry {
	o.mu.Lock()
	defer o.mu.Unlock()
	var out []*models.OutboxEntry
	for _, e := range o.entries {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

type memPresenceStore struct {
	mu   sync.Mutex
	data map[string]*models.Presence
}

func newMemPresenceStore() *memPresenceStore {
	return &memPresenceStore{data: make(map[string]*models.Presence)}
}

func (s *memPresenceStore) Heartbeat(_ context.Context, userID string, status models.PresenceStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[userID] = &models.Presence{UserID: userID, Status: status, LastSeen: time.Now().UTC()}
	return nil
}

func (s *memPresenceStore) Get(_ context.Context, userID string) (*models.Presence, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.data[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return p, nil
}

func (s *memPresenceStore) GetMany(_ context.Context, userIDs []string) ([]*models.Presence, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.Presence
	for _, id := range userIDs {
		if p, ok := s.data[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

type memTypingStore struct {
	mu   sync.Mutex
	keys map[string]map[string]bool // convID -> userID
}

func newMemTypingStore() *memTypingStore {
	return &memTypingStore{keys: make(map[string]map[string]bool)}
}

func (s *memTypingStore) SetTyping(_ context.Context, convID, userID string, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.keys[convID] == nil {
		s.keys[convID] = make(map[string]bool)
	}
	s.keys[convID][userID] = true
	return nil
}

func (s *memTypingStore) ClearTyping(_ context.Context, convID, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.keys[convID], userID)
	return nil
}

func (s *memTypingStore) TypingUsers(_ context.Context, convID string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []string
	for u := range s.keys[convID] {
		out = append(out, u)
	}
	return out, nil
}

func testLogger() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}
