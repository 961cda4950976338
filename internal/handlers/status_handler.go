package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Faheem-Musthafa/campuslink-backend/internal/models"
	"github.com/Faheem-Musthafa/campuslink-backend/internal/service"
)

// StatusHandler covers delivery-state transitions and typing indicators.
type StatusHandler struct {
	chat     *service.ChatService
	presence *service.PresenceService
}

func NewStatusHandler(chat *service.ChatService, presence *service.PresenceService) *StatusHandler {
	return &StatusHandler{chat: chat, presence: presence}
}

func (h *StatusHandler) MarkDelivered(c *fiber.Ctx) error {
	if err := h.chat.MarkDelivered(c.Context(), c.Params("id"), userID(c)); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"status": "ok"})
}

func (h *StatusHandler) MarkRead(c *fiber.Ctx) error {
	if err := h.chat.MarkRead(c.Context(), c.Params("id"), userID(c)); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"status": "ok"})
}

func (h *StatusHandler) MarkConversationRead(c *fiber.Ctx) error {
	n, err := h.chat.MarkConversationRead(c.Context(), c.Params("id"), userID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"updated": n})
}

func (h *StatusHandler) MarkConversationDelivered(c *fiber.Ctx) error {
	n, err := h.chat.MarkConversationDelivered(c.Context(), c.Params("id"), userID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"updated": n})
}

func (h *StatusHandler) SetTyping(c *fiber.Ctx) error {
	var body struct {
		PeerID   string `json:"peer_id"`
		IsTyping bool   `json:"is_typing"`
	}
	if err := c.BodyParser(&body); err != nil {
		return fiber.ErrBadRequest
	}
	var err error
	if body.IsTyping {
		err = h.presence.StartTyping(c.Context(), c.Params("id"), userID(c), body.PeerID)
	} else {
		err = h.presence.StopTyping(c.Context(), c.Params("id"), userID(c), body.PeerID)
	}
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"status": "ok"})
}

func (h *StatusHandler) TypingUsers(c *fiber.Ctx) error {
	users, err := h.presence.TypingUsers(c.Context(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	if users == nil {
		users = []string{}
	}
	return c.JSON(fiber.Map{"typing": users})
}

// PresenceHandler exposes heartbeat and status lookups.
type PresenceHandler struct {
	presence *service.PresenceService
}

func NewPresenceHandler(presence *service.PresenceService) *PresenceHandler {
	return &PresenceHandler{presence: presence}
}

func (h *PresenceHandler) Heartbeat(c *fiber.Ctx) error {
	var body struct {
		Status models.PresenceStatus `json:"status"`
	}
	if err := c.BodyParser(&body); err != nil {
		return fiber.ErrBadRequest
	}
	if body.Status == "" {
		body.Status = models.PresenceOnline
	}
	if err := h.presence.Heartbeat(c.Context(), userID(c), body.Status); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"status": "ok"})
}

func (h *PresenceHandler) Status(c *fiber.Ctx) error {
	status, err := h.presence.StatusFor(c.Context(), userID(c), c.Params("userId"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"user_id": c.Params("userId"), "status": status})
}
