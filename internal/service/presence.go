package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Faheem-Musthafa/campuslink-backend/internal/apperr"
	"github.com/Faheem-Musthafa/campuslink-backend/internal/events"
	"github.com/Faheem-Musthafa/campuslink-backend/internal/models"
)

type PresenceStore interface {
	Heartbeat(ctx context.Context, userID string, status models.PresenceStatus) error
	Get(ctx context.Context, userID string) (*models.Presence, error)
	GetMany(ctx context.Context, userIDs []string) ([]*models.Presence, error)
}

type TypingStore interface {
	SetTyping(ctx context.Context, convID, userID string, ttl time.Duration) error
	ClearTyping(ctx context.Context, convID, userID string) error
	TypingUsers(ctx context.Context, convID string) ([]string, error)
}

type PresenceService struct {
	presence     PresenceStore
	typing       TypingStore
	blocks       BlockChecker
	producer     Publisher
	log          *zap.SugaredLogger
	offlineAfter time.Duration
	typingTTL    time.Duration
	now          func() time.Time
}

func NewPresenceService(p PresenceStore, t TypingStore, blocks BlockChecker, producer Publisher, log *zap.SugaredLogger, offlineAfter, typingTTL time.Duration) *PresenceService {
	return &PresenceService{
		presence:     p,
		typing:       t,
		blocks:       blocks,
		producer:     producer,
		log:          log,
		offlineAfter: offlineAfter,
		typingTTL:    typingTTL,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

func (s *PresenceService) Heartbeat(ctx context.Context, userID string, status models.PresenceStatus) error {
	switch status {
	case models.PresenceOnline, models.PresenceAway, models.PresenceOffline:
	default:
		return apperr.ErrBadRequest
	}
	return s.presence.Heartbeat(ctx, userID, status)
}

// StatusFor is the viewer-facing read: a blocked pair sees each other as
// offline, hiding real presence.
func (s *PresenceService) StatusFor(ctx context.Context, viewerID, userID string) (models.PresenceStatus, error) {
	if viewerID != "" && viewerID != userID {
		blocked, err := s.blocks.IsBlockedEither(ctx, viewerID, userID)
		if err != nil {
			return "", err
		}
		if blocked {
			return models.PresenceOffline, nil
		}
	}
	return s.Status(ctx, userID)
}

// Status reads the user's presence through the staleness rule. An unknown
// user reads as offline rather than erroring.
func (s *PresenceService) Status(ctx context.Context, userID string) (models.PresenceStatus, error) {
	p, err := s.presence.Get(ctx, userID)
	if err != nil {
		if IsNotFound(err) {
			return models.PresenceOffline, nil
		}
		return "", err
	}
	return p.EffectiveStatus(s.now(), s.offlineAfter), nil
}

func (s *PresenceService) StatusMany(ctx context.Context, userIDs []string) (map[string]models.PresenceStatus, error) {
	out := make(map[string]models.PresenceStatus, len(userIDs))
	for _, id := range userIDs {
		out[id] = models.PresenceOffline
	}
	ps, err := s.presence.GetMany(ctx, userIDs)
	if err != nil {
		return nil, err
	}
	now := s.now()
	for _, p := range ps {
		out[p.UserID] = p.EffectiveStatus(now, s.offlineAfter)
	}
	return out, nil
}

// StartTyping refreshes the typing key; repeated keypress calls just extend
// the TTL.
func (s *PresenceService) StartTyping(ctx context.Context, convID, userID, peerID string) error {
	if err := s.typing.SetTyping(ctx, convID, userID, s.typingTTL); err != nil {
		return err
	}
	s.notifyTyping(ctx, convID, userID, peerID, true)
	return nil
}

func (s *PresenceService) StopTyping(ctx context.Context, convID, userID, peerID string) error {
	if err := s.typing.ClearTyping(ctx, convID, userID); err != nil {
		return err
	}
	s.notifyTyping(ctx, convID, userID, peerID, false)
	return nil
}

func (s *PresenceService) TypingUsers(ctx context.Context, convID string) ([]string, error) {
	return s.typing.TypingUsers(ctx, convID)
}

func (s *PresenceService) notifyTyping(ctx context.Context, convID, userID, peerID string, typing bool) {
	env, err := events.NewEnvelope(events.TypeTyping, peerID, convID,
		map[string]any{"user_id": userID, "is_typing": typing})
	if err != nil {
		return
	}
	if err := s.producer.Publish(ctx, env); err != nil {
		s.log.Debugw("typing publish failed", "err", err)
	}
}
