package handlers

import (
	"io"

	"github.com/gofiber/fiber/v2"

	"github.com/Faheem-Musthafa/campuslink-backend/internal/models"
	"github.com/Faheem-Musthafa/campuslink-backend/internal/service"
)

type MediaHandler struct {
	media *service.MediaService
}

func NewMediaHandler(media *service.MediaService) *MediaHandler {
	return &MediaHandler{media: media}
}

// UploadChatMedia accepts a multipart file and returns the stored attachment
// for inclusion in a subsequent send.
func (h *MediaHandler) UploadChatMedia(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
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
	att, err := h.media.UploadChatMedia(c.Context(), c.Params("id"), userID(c), file.Filename, file.Header.Get("Content-Type"), data)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(att)
}

func (h *MediaHandler) LinkPreview(c *fiber.Ctx) error {
	var body struct {
		URL     string              `json:"url"`
		Preview *models.LinkPreview `json:"preview,omitempty"`
	}
	if err := c.BodyParser(&body); err != nil {
		return fiber.ErrBadRequest
	}
	p, err := h.media.CachedLinkPreview(c.Context(), body.URL, body.Preview)
	if err != nil {
		return fail(c, err)
	}
	if p == nil {
		return c.Status(fiber.StatusNoContent).Send(nil)
	}
	return c.JSON(p)
}
