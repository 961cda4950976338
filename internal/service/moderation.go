package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/Faheem-Musthafa/campuslink-backend/internal/apperr"
	"github.com/Faheem-Musthafa/campuslink-backend/internal/metrics"
	"github.com/Faheem-Musthafa/campuslink-backend/internal/models"
)

type ModerationStore interface {
	InsertVerification(ctx context.Context, v *models.VerificationRequest) (*models.VerificationRequest, error)
	GetVerification(ctx context.Context, id string) (*models.VerificationRequest, error)
	ListPendingVerifications(ctx context.Context, limit int64) ([]*models.VerificationRequest, error)
	ReviewVerification(ctx context.Context, id string, status models.ReviewStatus, reviewer, reason string) (*models.VerificationRequest, error)
	InsertUserReport(ctx context.Context, rep *models.UserReport) (*models.UserReport, error)
	ListPendingReports(ctx context.Context, limit int64) ([]*models.UserReport, error)
	ReviewReport(ctx context.Context, id string, status models.ReviewStatus, reviewer, action string) (*models.UserReport, error)
	InsertChatReport(ctx context.Context, rep *models.ChatReport) (*models.ChatReport, error)
	Block(ctx context.Context, blocker, blocked string) error
	Unblock(ctx context.Context, blocker, blocked string) error
	IsBlockedEither(ctx context.Context, a, b string) (bool, error)
}

type OutboxStore interface {
	Enqueue(ctx context.Context, kind models.OutboxKind, payload map[string]any) error
}

type Admin struct {
	ID    string
	Email string
	Name  string
}

type ModerationService struct {
	store  ModerationStore
	outbox OutboxStore
	log    *zap.SugaredLogger
}

func NewModerationService(store ModerationStore, outbox OutboxStore, log *zap.SugaredLogger) *ModerationService {
	return &ModerationService{store: store, outbox: outbox, log: log}
}

func (s *ModerationService) SubmitVerification(ctx context.Context, v *models.VerificationRequest) (*models.VerificationRequest, error) {
	if v.UserID == "" {
		return nil, apperr.ErrBadRequest
	}
	switch v.VerificationType {
	case models.VerificationIDCard, models.VerificationPhoneOTP:
	default:
		return nil, apperr.ErrBadRequest
	}
	if v.VerificationType == models.VerificationIDCard && v.DocumentURL == "" {
		return nil, apperr.ErrBadRequest
	}
	return s.store.InsertVerification(ctx, v)
}

func (s *ModerationService) PendingVerifications(ctx context.Context, limit int64) ([]*models.VerificationRequest, error) {
	return s.store.ListPendingVerifications(ctx, limit)
}

// ApproveVerification flips the request to approved and queues the
// denormalized writes. The request update is the authoritative step; the user
// status, profile flag, and audit entry follow through the outbox so a failed
// secondary write gets retried instead of silently dropped.
func (s *ModerationService) ApproveVerification(ctx context.Context, reqID string, admin Admin) (*models.VerificationRequest, error) {
	v, err := s.store.ReviewVerification(ctx, reqID, models.ReviewApproved, admin.ID, "")
	if err != nil {
		return nil, err
	}
	metrics.ModerationDecisions.WithLabelValues("verification", "approved").Inc()
	s.enqueueVerificationEffects(ctx, v, admin, models.ActionVerificationApproved, "approved")
	return v, nil
}

func (s *ModerationService) RejectVerification(ctx context.Context, reqID string, admin Admin, reason string) (*models.VerificationRequest, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, apperr.ErrBadRequest
	}
	v, err := s.store.ReviewVerification(ctx, reqID, models.ReviewRejected, admin.ID, reason)
	if err != nil {
		return nil, err
	}
	metrics.ModerationDecisions.WithLabelValues("verification", "rejected").Inc()
	s.enqueueVerificationEffects(ctx, v, admin, models.ActionVerificationRejected, "rejected")
	return v, nil
}

func (s *ModerationService) enqueueVerificationEffects(ctx context.Context, v *models.VerificationRequest, admin Admin, action models.AdminAction, status string) {
	effects := []struct {
		kind    models.OutboxKind
		payload map[string]any
	}{
		{models.OutboxUserVerificationStatus, map[string]any{"user_id": v.UserID, "status": status}},
		{models.OutboxAuditLog, map[string]any{
			"admin_id":    admin.ID,
			"admin_email": admin.Email,
			"admin_name":  admin.Name,
			"action":      string(action),
			"target_type": "verification_request",
			"target_id":   v.ID.Hex(),
			"details":     v.RejectionReason,
		}},
	}
	if status == "approved" {
		effects = append(effects, struct {
			kind    models.OutboxKind
			payload map[string]any
		}{models.OutboxProfileVerified, map[string]any{"user_id": v.UserID, "verified": true}})
	}
	for _, e := range effects {
		if err := s.outbox.Enqueue(ctx, e.kind, e.payload); err != nil {
			// the worker never sees it; log loudly, the decision itself stands
			s.log.Errorw("outbox enqueue failed", "kind", e.kind, "err", err)
		}
	}
}

func (s *ModerationService) SubmitUserReport(ctx context.Context, rep *models.UserReport) (*models.UserReport, error) {
	if rep.ReporterID == "" || rep.ReportedID == "" || strings.TrimSpace(rep.Reason) == "" {
		return nil, apperr.ErrBadRequest
	}
	return s.store.InsertUserReport(ctx, rep)
}

func (s *ModerationService) PendingReports(ctx context.Context, limit int64) ([]*models.UserReport, error) {
	return s.store.ListPendingReports(ctx, limit)
}

func (s *ModerationService) ResolveReport(ctx context.Context, repID string, admin Admin, action string) (*models.UserReport, error) {
	return s.reviewReport(ctx, repID, models.ReviewResolved, admin, action, models.ActionReportResolved)
}

func (s *ModerationService) DismissReport(ctx context.Context, repID string, admin Admin, action string) (*models.UserReport, error) {
	return s.reviewReport(ctx, repID, models.ReviewDismissed, admin, action, models.ActionReportDismissed)
}

func (s *ModerationService) reviewReport(ctx context.Context, repID string, status models.ReviewStatus, admin Admin, action string, auditAction models.AdminAction) (*models.UserReport, error) {
	rep, err := s.store.ReviewReport(ctx, repID, status, admin.ID, action)
	if err != nil {
		return nil, err
	}
	metrics.ModerationDecisions.WithLabelValues("report", string(status)).Inc()
	if err := s.outbox.Enqueue(ctx, models.OutboxAuditLog, map[string]any{
		"admin_id":    admin.ID,
		"admin_email": admin.Email,
		"admin_name":  admin.Name,
		"action":      string(auditAction),
		"target_type": "user_report",
		"target_id":   rep.ID.Hex(),
		"details":     action,
	}); err != nil {
		s.log.Errorw("outbox enqueue failed", "kind", models.OutboxAuditLog, "err", err)
	}
	return rep, nil
}

func (s *ModerationService) ReportMessage(ctx context.Context, rep *models.ChatReport) (*models.ChatReport, error) {
	if rep.ReporterID == "" || rep.MessageID == "" || strings.TrimSpace(rep.Reason) == "" {
		return nil, apperr.ErrBadRequest
	}
	return s.store.InsertChatReport(ctx, rep)
}

func (s *ModerationService) BlockUser(ctx context.Context, blocker, blocked string) error {
	if blocker == blocked {
		return apperr.ErrBadRequest
	}
	return s.store.Block(ctx, blocker, blocked)
}

func (s *ModerationService) UnblockUser(ctx context.Context, blocker, blocked string) error {
	return s.store.Unblock(ctx, blocker, blocked)
}
