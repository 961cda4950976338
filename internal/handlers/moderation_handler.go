package handlers

import (
	"io"

	"github.com/gofiber/fiber/v2"

	"github.com/Faheem-Musthafa/campuslink-backend/internal/models"
	"github.com/Faheem-Musthafa/campuslink-backend/internal/service"
)

// ModerationHandler covers the user-facing moderation surface: submitting
// verification requests and reports, and blocking.
type ModerationHandler struct {
	moderation *service.ModerationService
	media      *service.MediaService
}

func NewModerationHandler(moderation *service.ModerationService, media *service.MediaService) *ModerationHandler {
	return &ModerationHandler{moderation: moderation, media: media}
}

func (h *ModerationHandler) SubmitVerification(c *fiber.Ctx) error {
	var body struct {
		Role             string                  `json:"role"`
		VerificationType models.VerificationType `json:"verification_type"`
		DocumentURL      string                  `json:"document_url,omitempty"`
	}
	if err := c.BodyParser(&body); err != nil {
		return fiber.ErrBadRequest
	}
	v, err := h.moderation.SubmitVerification(c.Context(), &models.VerificationRequest{
		UserID:           userID(c),
		Role:             body.Role,
		VerificationType: body.VerificationType,
		DocumentURL:      body.DocumentURL,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(v)
}

// UploadVerificationDocument takes the ID-card image as a multipart file and
// returns the stored URL for the follow-up submit call.
func (h *ModerationHandler) UploadVerificationDocument(c *fiber.Ctx) error {
	file, err := c.FormFile("document")
	if err != nil {
		return fiber.ErrBadRequest
	}
	f, err := file.Open()
	if err != nil {
		return fail(c, err)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return fail(c, err)
	}
	url, err := h.media.UploadVerificationDocument(c.Context(), userID(c), file.Filename, file.Header.Get("Content-Type"), data)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"document_url": url})
}

func (h *ModerationHandler) SubmitUserReport(c *fiber.Ctx) error {
	var body struct {
		ReportedID   string `json:"reported_id"`
		ReportedName string `json:"reported_name"`
		Reason       string `json:"reason"`
		Description  string `json:"description"`
	}
	if err := c.BodyParser(&body); err != nil {
		return fiber.ErrBadRequest
	}
	name, _ := c.Locals("name").(string)
	rep, err := h.moderation.SubmitUserReport(c.Context(), &models.UserReport{
		ReporterID:   userID(c),
		ReporterName: name,
		ReportedID:   body.ReportedID,
		ReportedName: body.ReportedName,
		Reason:       body.Reason,
		Description:  body.Description,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(rep)
}

func (h *ModerationHandler) ReportMessage(c *fiber.Ctx) error {
	var body struct {
		ReportedID     string `json:"reported_id"`
		ConversationID string `json:"conversation_id"`
		MessageID      string `json:"message_id"`
		Reason         string `json:"reason"`
	}
	if err := c.BodyParser(&body); err != nil {
		return fiber.ErrBadRequest
	}
	rep, err := h.moderation.ReportMessage(c.Context(), &models.ChatReport{
		ReporterID:     userID(c),
		ReportedID:     body.ReportedID,
		ConversationID: body.ConversationID,
		MessageID:      body.MessageID,
		Reason:         body.Reason,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(rep)
}

func (h *ModerationHandler) Block(c *fiber.Ctx) error {
	if err := h.moderation.BlockUser(c.Context(), userID(c), c.Params("userId")); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"status": "blocked"})
}

func (h *ModerationHandler) Unblock(c *fiber.Ctx) error {
	if err := h.moderation.UnblockUser(c.Context(), userID(c), c.Params("userId")); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"status": "unblocked"})
}
