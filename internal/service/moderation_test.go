package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faheem-Musthafa/campuslink-backend/internal/apperr"
	"github.com/Faheem-Musthafa/campuslink-backend/internal/models"
)

var testAdmin = Admin{ID: "admin-1", Email: "admin@campus.edu", Name: "Admin"}

func newModerationFixture() (*ModerationService, *memModerationStore, *memOutbox) {
	store := newMemModerationStore()
	outbox := &memOutbox{}
	svc := NewModerationService(store, outbox, testLogger())
	return svc, store, outbox
}

func TestSubmitVerificationValidation(t *testing.T) {
	svc, _, _ := newModerationFixture()
	ctx := context.Background()

	_, err := svc.SubmitVerification(ctx, &models.VerificationRequest{
		UserID: "u1", VerificationType: "carrier_pigeon",
	})
	assert.ErrorIs(t, err, apperr.ErrBadRequest)

	// id card review needs the document
	_, err = svc.SubmitVerification(ctx, &models.VerificationRequest{
		UserID: "u1", VerificationType: models.VerificationIDCard,
	})
	assert.ErrorIs(t, err, apperr.ErrBadRequest)

	v, err := svc.SubmitVerification(ctx, &models.VerificationRequest{
		UserID: "u1", VerificationType: models.VerificationIDCard, DocumentURL: "https://cdn/id.jpg",
	})
	require.NoError(t, err)
	assert.Equal(t, models.ReviewPending, v.Status)

	// phone otp carries no document
	_, err = svc.SubmitVerification(ctx, &models.VerificationRequest{
		UserID: "u2", VerificationType: models.VerificationPhoneOTP,
	})
	require.NoError(t, err)
}

func TestApproveVerification(t *testing.T) {
	svc, _, outbox := newModerationFixture()
	ctx := context.Background()

	v, err := svc.SubmitVerification(ctx, &models.VerificationRequest{
		UserID: "u1", VerificationType: models.VerificationPhoneOTP,
	})
	require.NoError(t, err)

	approved, err := svc.ApproveVerification(ctx, v.ID.Hex(), testAdmin)
	require.NoError(t, err)
	assert.Equal(t, models.ReviewApproved, approved.Status)
	assert.Equal(t, testAdmin.ID, approved.ReviewedBy)
	require.NotNil(t, approved.ReviewedAt)

	// approval queues user status, profile flag, and the audit entry
	statusWrites := outbox.ofKind(models.OutboxUserVerificationStatus)
	require.Len(t, statusWrites, 1)
	assert.Equal(t, "approved", statusWrites[0].Payload["status"])

	profileWrites := outbox.ofKind(models.OutboxProfileVerified)
	require.Len(t, profileWrites, 1)
	assert.Equal(t, true, profileWrites[0].Payload["verified"])

	auditWrites := outbox.ofKind(models.OutboxAuditLog)
	require.Len(t, auditWrites, 1)
	assert.Equal(t, string(models.ActionVerificationApproved), auditWrites[0].Payload["action"])

	// pending list no longer carries it
	pending, err := svc.PendingVerifications(ctx, 50)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestRejectVerification(t *testing.T) {
	svc, _, outbox := newModerationFixture()
	ctx := context.Background()

	v, _ := svc.SubmitVerification(ctx, &models.VerificationRequest{
		UserID: "u1", VerificationType: models.VerificationPhoneOTP,
	})

	// rejection without a reason is refused
	_, err := svc.RejectVerification(ctx, v.ID.Hex(), testAdmin, "  ")
	assert.ErrorIs(t, err, apperr.ErrBadRequest)

	rejected, err := svc.RejectVerification(ctx, v.ID.Hex(), testAdmin, "document unreadable")
	require.NoError(t, err)
	assert.Equal(t, models.ReviewRejected, rejected.Status)
	assert.Equal(t, "document unreadable", rejected.RejectionReason)

	statusWrites := outbox.ofKind(models.OutboxUserVerificationStatus)
	require.Len(t, statusWrites, 1)
	assert.Equal(t, "rejected", statusWrites[0].Payload["status"])

	// no profile flag on rejection
	assert.Empty(t, outbox.ofKind(models.OutboxProfileVerified))
}

func TestReviewIsTerminal(t *testing.T) {
	svc, _, _ := newModerationFixture()
	ctx := context.Background()

	v, _ := svc.SubmitVerification(ctx, &models.VerificationRequest{
		UserID: "u1", VerificationType: models.VerificationPhoneOTP,
	})
	_, err := svc.ApproveVerification(ctx, v.ID.Hex(), testAdmin)
	require.NoError(t, err)

	// the second admin racing on the same request loses cleanly
	_, err = svc.RejectVerification(ctx, v.ID.Hex(), testAdmin, "changed my mind")
	assert.ErrorIs(t, err, apperr.ErrAlreadyReviewed)

	_, err = svc.ApproveVerification(ctx, v.ID.Hex(), testAdmin)
	assert.ErrorIs(t, err, apperr.ErrAlreadyReviewed)
}

func TestReportReview(t *testing.T) {
	svc, _, outbox := newModerationFixture()
	ctx := context.Background()

	_, err := svc.SubmitUserReport(ctx, &models.UserReport{ReporterID: "u1", ReportedID: "u2"})
	assert.ErrorIs(t, err, apperr.ErrBadRequest)

	rep, err := svc.SubmitUserReport(ctx, &models.UserReport{
		ReporterID: "u1", ReportedID: "u2", Reason: "spam",
	})
	require.NoError(t, err)

	resolved, err := svc.ResolveReport(ctx, rep.ID.Hex(), testAdmin, "warning issued")
	require.NoError(t, err)
	assert.Equal(t, models.ReviewResolved, resolved.Status)
	assert.Equal(t, "warning issued", resolved.Action)

	auditWrites := outbox.ofKind(models.OutboxAuditLog)
	require.Len(t, auditWrites, 1)
	assert.Equal(t, string(models.ActionReportResolved), auditWrites[0].Payload["action"])

	_, err = svc.DismissReport(ctx, rep.ID.Hex(), testAdmin, "")
	assert.ErrorIs(t, err, apperr.ErrAlreadyReviewed)
}

func TestDismissReport(t *testing.T) {
	svc, _, _ := newModerationFixture()
	ctx := context.Background()

	rep, _ := svc.SubmitUserReport(ctx, &models.UserReport{
		ReporterID: "u1", ReportedID: "u2", Reason: "disagreement",
	})
	dismissed, err := svc.DismissReport(ctx, rep.ID.Hex(), testAdmin, "not actionable")
	require.NoError(t, err)
	assert.Equal(t, models.ReviewDismissed, dismissed.Status)
}

func TestBlockUnblock(t *testing.T) {
	svc, store, _ := newModerationFixture()
	ctx := context.Background()

	assert.ErrorIs(t, svc.BlockUser(ctx, "u1", "u1"), apperr.ErrBadRequest)

	require.NoError(t, svc.BlockUser(ctx, "u1", "u2"))
	blocked, err := store.IsBlockedEither(ctx, "u2", "u1")
	require.NoError(t, err)
	assert.True(t, blocked)

	require.NoError(t, svc.UnblockUser(ctx, "u1", "u2"))
	blocked, _ = store.IsBlockedEither(ctx, "u1", "u2")
	assert.False(t, blocked)
}

func TestReportMessage(t *testing.T) {
	svc, store, _ := newModerationFixture()
	ctx := context.Background()

	_, err := svc.ReportMessage(ctx, &models.ChatReport{ReporterID: "u1", Reason: "abuse"})
	assert.ErrorIs(t, err, apperr.ErrBadRequest)

	_, err = svc.ReportMessage(ctx, &models.ChatReport{
		ReporterID: "u1", ReportedID: "u2", MessageID: "m1", Reason: "abuse",
	})
	require.NoError(t, err)
	assert.Len(t, store.chatReports, 1)
}
