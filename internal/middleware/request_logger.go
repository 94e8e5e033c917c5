package middleware

import (
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/campus-governance/internal/logging"
	"github.com/gofiber/fiber/v2"
)

// RequestLogger puts a logger tagged with the request id into the user
// context. It must run after the requestid middleware.
func RequestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		l := slog.Default()
		if rid, ok := c.Locals("requestid").(string); ok && rid != "" {
			l = l.With("request_id", rid)
		}
		c.SetUserContext(logging.With(c.UserContext(), l))
		return c.Next()
	}
}
