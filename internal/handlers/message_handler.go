package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Faheem-Musthafa/campuslink-backend/internal/models"
	"github.com/Faheem-Musthafa/campuslink-backend/internal/service"
)

type MessageHandler struct {
	chat *service.ChatService
}

func NewMessageHandler(chat *service.ChatService) *MessageHandler {
	return &MessageHandler{chat: chat}
}

func (h *MessageHandler) Send(c *fiber.Ctx) error {
	var body struct {
		ConversationID string                  `json:"conversation_id"`
		Content        string                  `json:"content"`
		Type           models.MessageType      `json:"type"`
		Media          *models.MediaAttachment `json:"media,omitempty"`
		LinkPreview    *models.LinkPreview     `json:"link_preview,omitempty"`
		ReplyTo        string                  `json:"reply_to,omitempty"`
	}
	if err := c.BodyParser(&body); err != nil {
		return fiber.ErrBadRequest
	}
	msg, err := h.chat.SendMessage(c.Context(), service.SendMessageInput{
		ConversationID: body.ConversationID,
		SenderID:       userID(c),
		Content:        body.Content,
		Type:           body.Type,
		Media:          body.Media,
		LinkPreview:    body.LinkPreview,
		ReplyTo:        body.ReplyTo,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(msg)
}

func (h *MessageHandler) Edit(c *fiber.Ctx) error {
	var body struct {
		Content string `json:"content"`
	}
	if err := c.BodyParser(&body); err != nil {
		return fiber.ErrBadRequest
	}
	msg, err := h.chat.EditMessage(c.Context(), c.Params("id"), userID(c), body.Content)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(msg)
}

func (h *MessageHandler) Delete(c *fiber.Ctx) error {
	if err := h.chat.DeleteMessage(c.Context(), c.Params("id"), userID(c)); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"status": "deleted"})
}

func (h *MessageHandler) ToggleReaction(c *fiber.Ctx) error {
	var body struct {
		Emoji    string `json:"emoji"`
		UserName string `json:"user_name"`
	}
	if err := c.BodyParser(&body); err != nil {
		return fiber.ErrBadRequest
	}
	added, err := h.chat.ToggleReaction(c.Context(), c.Params("id"), body.Emoji, userID(c), body.UserName)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"added": added})
}
