package middleware

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/Faheem-Musthafa/campuslink-backend/internal/auth"
)

func JWTAuth(verifier *auth.Verifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get("Authorization")
		if header == "" {
			return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": "missing authorization"})
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 {
			return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": "invalid authorization"})
		}
		claims, err := verifier.VerifyToken(parts[1])
		if err != nil {
			return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": "invalid token"})
		}
		c.Locals("claims", claims)
		if sub, ok := auth.GetStringClaim(claims, "sub"); ok {
			c.Locals("user_id", sub)
		}
		if role, ok := auth.GetStringClaim(claims, "role"); ok {
			c.Locals("role", role)
		}
		if email, ok := auth.GetStringClaim(claims, "email"); ok {
			c.Locals("email", email)
		}
		if name, ok := auth.GetStringClaim(claims, "name"); ok {
			c.Locals("name", name)
		}
		return c.Next()
	}
}

// RequireAdmin gates the admin console routes on the role claim.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if role, _ := c.Locals("role").(string); role != "admin" {
			return c.Status(http.StatusForbidden).JSON(fiber.Map{"error": "admin only"})
		}
		return c.Next()
	}
}
