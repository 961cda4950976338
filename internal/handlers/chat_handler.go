package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/Faheem-Musthafa/campuslink-backend/internal/service"
)

type ChatHandler struct {
	chat *service.ChatService
	feed *service.FeedService
}

func NewChatHandler(chat *service.ChatService, feed *service.FeedService) *ChatHandler {
	return &ChatHandler{chat: chat, feed: feed}
}

func (h *ChatHandler) StartConversation(c *fiber.Ctx) error {
	var body struct {
		PeerID string `json:"peer_id"`
	}
	if err := c.BodyParser(&body); err != nil {
		return fiber.ErrBadRequest
	}
	conv, err := h.chat.StartConversation(c.Context(), userID(c), body.PeerID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(conv)
}

func (h *ChatHandler) GetConversationWith(c *fiber.Ctx) error {
	conv, err := h.chat.ConversationBetween(c.Context(), userID(c), c.Params("peerId"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(conv)
}

func (h *ChatHandler) ListConversations(c *fiber.Ctx) error {
	views, err := h.feed.ConversationList(c.Context(), userID(c), int64(c.QueryInt("limit", 50)))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(views)
}

func (h *ChatHandler) ListArchived(c *fiber.Ctx) error {
	convs, err := h.feed.ArchivedConversations(c.Context(), userID(c), int64(c.QueryInt("limit", 50)))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(convs)
}

func (h *ChatHandler) ListMessages(c *fiber.Ctx) error {
	var before time.Time
	if ts := c.Query("before"); ts != "" {
		parsed, err := time.Parse(time.RFC3339, ts)
		if err != nil {
			return fiber.ErrBadRequest
		}
		before = parsed
	}
	msgs, err := h.feed.MessagesFor(c.Context(), c.Params("id"), userID(c), int64(c.QueryInt("limit", 50)), before)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(msgs)
}

func (h *ChatHandler) toggle(c *fiber.Ctx, f func(ctxc *fiber.Ctx, convID, uid string, on bool) error) error {
	var body struct {
		State bool `json:"state"`
	}
	if err := c.BodyParser(&body); err != nil {
		return fiber.ErrBadRequest
	}
	if err := f(c, c.Params("id"), userID(c), body.State); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"status": "ok"})
}

func (h *ChatHandler) TogglePin(c *fiber.Ctx) error {
	return h.toggle(c, func(cc *fiber.Ctx, convID, uid string, on bool) error {
		return h.chat.TogglePin(cc.Context(), convID, uid, on)
	})
}

func (h *ChatHandler) ToggleMute(c *fiber.Ctx) error {
	return h.toggle(c, func(cc *fiber.Ctx, convID, uid string, on bool) error {
		return h.chat.ToggleMute(cc.Context(), convID, uid, on)
	})
}

func (h *ChatHandler) ToggleArchive(c *fiber.Ctx) error {
	return h.toggle(c, func(cc *fiber.Ctx, convID, uid string, on bool) error {
		return h.chat.ToggleArchive(cc.Context(), convID, uid, on)
	})
}

func (h *ChatHandler) ClearHistory(c *fiber.Ctx) error {
	if err := h.chat.ClearHistory(c.Context(), c.Params("id"), userID(c)); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"status": "cleared"})
}
