package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/Faheem-Musthafa/campuslink-backend/internal/models"
	"github.com/Faheem-Musthafa/campuslink-backend/internal/service"
)

type AuditLister interface {
	List(ctx context.Context, limit int64) ([]*models.AdminActivityLog, error)
}

// AdminHandler backs the admin console: verification review, report review,
// and the audit trail.
type AdminHandler struct {
	moderation *service.ModerationService
	audit      AuditLister
}

func NewAdminHandler(moderation *service.ModerationService, audit AuditLister) *AdminHandler {
	return &AdminHandler{moderation: moderation, audit: audit}
}

func (h *AdminHandler) PendingVerifications(c *fiber.Ctx) error {
	reqs, err := h.moderation.PendingVerifications(c.Context(), int64(c.QueryInt("limit", 50)))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(reqs)
}

func (h *AdminHandler) ApproveVerification(c *fiber.Ctx) error {
	v, err := h.moderation.ApproveVerification(c.Context(), c.Params("id"), adminFromCtx(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(v)
}

func (h *AdminHandler) RejectVerification(c *fiber.Ctx) error {
	var body struct {
		Reason string `json:"reason"`
	}
	if err := c.BodyParser(&body); err != nil {
		return fiber.ErrBadRequest
	}
	v, err := h.moderation.RejectVerification(c.Context(), c.Params("id"), adminFromCtx(c), body.Reason)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(v)
}

func (h *AdminHandler) PendingReports(c *fiber.Ctx) error {
	reps, err := h.moderation.PendingReports(c.Context(), int64(c.QueryInt("limit", 50)))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(reps)
}

func (h *AdminHandler) ResolveReport(c *fiber.Ctx) error {
	var body struct {
		Action string `json:"action"`
	}
	if err := c.BodyParser(&body); err != nil {
		return fiber.ErrBadRequest
	}
	rep, err := h.moderation.ResolveReport(c.Context(), c.Params("id"), adminFromCtx(c), body.Action)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(rep)
}

func (h *AdminHandler) DismissReport(c *fiber.Ctx) error {
	var body struct {
		Action string `json:"action"`
	}
	if err := c.BodyParser(&body); err != nil {
		return fiber.ErrBadRequest
	}
	rep, err := h.moderation.DismissReport(c.Context(), c.Params("id"), adminFromCtx(c), body.Action)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(rep)
}

func (h *AdminHandler) AuditLog(c *fiber.Ctx) error {
	entries, err := h.audit.List(c.Context(), int64(c.QueryInt("limit", 100)))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(entries)
}
