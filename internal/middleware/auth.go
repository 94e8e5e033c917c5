package middleware

import (
	"github.com/ahmetcoskunkizilkaya/campus-governance/internal/config"
	"github.com/ahmetcoskunkizilkaya/campus-governance/internal/dto"
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
)

// JWTProtected verifies the bearer token. Requests carrying a valid
// X-Admin-Token skip verification; AdminRequired accepts them on its own.
func JWTProtected(cfg *config.Config) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey: jwtware.SigningKey{JWTAlg: jwtware.HS256, Key: []byte(cfg.JWTSecret)},
		Filter: func(c *fiber.Ctx) bool {
			return validAdminToken(cfg, c.Get(AdminTokenHeader))
		},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error:   true,
				Message: "Unauthorized: invalid or expired token",
			})
		},
	})
}
