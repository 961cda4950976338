package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/Faheem-Musthafa/campuslink-backend/internal/apperr"
	"github.com/Faheem-Musthafa/campuslink-backend/internal/service"
)

func userID(c *fiber.Ctx) string {
	uid, _ := c.Locals("user_id").(string)
	return uid
}

func adminFromCtx(c *fiber.Ctx) service.Admin {
	email, _ := c.Locals("email").(string)
	name, _ := c.Locals("name").(string)
	return service.Admin{ID: userID(c), Email: email, Name: name}
}

// fail maps service errors to HTTP statuses. Business-rule errors keep their
// message so the client can show it.
func fail(c *fiber.Ctx, err error) error {
	switch {
	case service.IsNotFound(err):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
	case errors.Is(err, apperr.ErrBadRequest):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request"})
	case errors.Is(err, apperr.ErrNotParticipant),
		errors.Is(err, apperr.ErrNotMessageSender),
		errors.Is(err, apperr.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, apperr.ErrSelfConversation),
		errors.Is(err, apperr.ErrBlocked),
		errors.Is(err, apperr.ErrEditWindowExpired),
		errors.Is(err, apperr.ErrContentUnchanged),
		errors.Is(err, apperr.ErrMessageDeleted),
		errors.Is(err, apperr.ErrAlreadyReviewed),
		errors.Is(err, apperr.ErrAlreadyApplied):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal error"})
	}
}
