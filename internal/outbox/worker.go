package outbox

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/Faheem-Musthafa/campuslink-backend/internal/metrics"
	"github.com/Faheem-Musthafa/campuslink-backend/internal/models"
)

type Queue interface {
	FetchPending(ctx context.Context, limit int64) ([]*models.OutboxEntry, error)
	MarkDone(ctx context.Context, id primitive.ObjectID) error
	RecordFailure(ctx context.Context, id primitive.ObjectID, attempt, maxAttempts int, cause error) error
}

// Effects are the denormalized writes the worker knows how to apply.
type Effects interface {
	SetUserVerificationStatus(ctx context.Context, userID, status string) error
	SetProfileVerified(ctx context.Context, userID string, verified bool) error
}

type AuditSink interface {
	Append(ctx context.Context, entry *models.AdminActivityLog) error
}

// Worker drains the outbox on an interval, retrying each entry until it
// applies or exhausts its attempts. This is what turns the review workflows'
// secondary writes from best-effort into eventually consistent.
type Worker struct {
	queue       Queue
	effects     Effects
	audit       AuditSink
	log         *zap.SugaredLogger
	interval    time.Duration
	batchSize   int64
	maxAttempts int
}

func NewWorker(queue Queue, effects Effects, audit AuditSink, log *zap.SugaredLogger, interval time.Duration, batchSize int64, maxAttempts int) *Worker {
	return &Worker{
		queue:       queue,
		effects:     effects,
		audit:       audit,
		log:         log,
		interval:    interval,
		batchSize:   batchSize,
		maxAttempts: maxAttempts,
	}
}

func (w *Worker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.drain(ctx)
		}
	}
}

func (w *Worker) drain(ctx context.Context) {
	entries, err := w.queue.FetchPending(ctx, w.batchSize)
	if err != nil {
		w.log.Warnw("outbox fetch failed", "err", err)
		return
	}
	for _, e := range entries {
		if err := w.apply(ctx, e); err != nil {
			attempt := e.Attempts + 1
			if attempt >= w.maxAttempts {
				metrics.OutboxParked.Inc()
				w.log.Errorw("outbox entry parked", "kind", e.Kind, "id", e.ID.Hex(), "err", err)
			} else {
				metrics.OutboxRetries.Inc()
			}
			if rerr := w.queue.RecordFailure(ctx, e.ID, attempt, w.maxAttempts, err); rerr != nil {
				w.log.Warnw("outbox failure record failed", "id", e.ID.Hex(), "err", rerr)
			}
			continue
		}
		if err := w.queue.MarkDone(ctx, e.ID); err != nil {
			w.log.Warnw("outbox mark done failed", "id", e.ID.Hex(), "err", err)
		}
	}
}

func (w *Worker) apply(ctx context.Context, e *models.OutboxEntry) error {
	switch e.Kind {
	case models.OutboxUserVerificationStatus:
		userID, _ := e.Payload["user_id"].(string)
		status, _ := e.Payload["status"].(string)
		if userID == "" || status == "" {
			return fmt.Errorf("malformed payload for %s", e.Kind)
		}
		return w.effects.SetUserVerificationStatus(ctx, userID, status)
	case models.OutboxProfileVerified:
		userID, _ := e.Payload["user_id"].(string)
		verified, _ := e.Payload["verified"].(bool)
		if userID == "" {
			return fmt.Errorf("malformed payload for %s", e.Kind)
		}
		return w.effects.SetProfileVerified(ctx, userID, verified)
	case models.OutboxAuditLog:
		entry := &models.AdminActivityLog{
			AdminID:    str(e.Payload, "admin_id"),
			AdminEmail: str(e.Payload, "admin_email"),
			AdminName:  str(e.Payload, "admin_name"),
			Action:     models.AdminAction(str(e.Payload, "action")),
			TargetType: str(e.Payload, "target_type"),
			TargetID:   str(e.Payload, "target_id"),
			Details:    str(e.Payload, "details"),
			Timestamp:  e.CreatedAt,
		}
		if entry.AdminID == "" || entry.Action == "" {
			return fmt.Errorf("malformed payload for %s", e.Kind)
		}
		return w.audit.Append(ctx, entry)
	default:
		return fmt.Errorf("unknown outbox kind %q", e.Kind)
	}
}

func str(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}
