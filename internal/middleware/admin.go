package middleware

import (
	"crypto/subtle"

	"github.com/ahmetcoskunkizilkaya/campus-governance/internal/config"
	"github.com/ahmetcoskunkizilkaya/campus-governance/internal/dto"
	"github.com/ahmetcoskunkizilkaya/campus-governance/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const (
	AdminTokenHeader = "X-Admin-Token"
	adminLocalKey    = "admin"
)

// AdminRequired admits either the static admin token or a JWT carrying the
// admin role, and stores the resulting AdminIdentity for the handlers.
func AdminRequired(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if validAdminToken(cfg, c.Get(AdminTokenHeader)) {
			c.Locals(adminLocalKey, services.AdminIdentity{Subject: "admin-token", Method: "static_token"})
			return c.Next()
		}

		token, ok := c.Locals("user").(*jwt.Token)
		if !ok || token == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized",
			})
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Invalid claims",
			})
		}

		role, _ := claims["role"].(string)
		email, _ := claims["email"].(string)
		sub, _ := claims["sub"].(string)
		if role != services.AdminRole || (email == "" && sub == "") {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error: true, Message: "Admin access required",
			})
		}

		subject := email
		if subject == "" {
			subject = sub
		}
		c.Locals(adminLocalKey, services.AdminIdentity{Subject: subject, Method: "jwt"})
		return c.Next()
	}
}

// GetAdmin returns the identity stored by AdminRequired, or the zero value.
func GetAdmin(c *fiber.Ctx) services.AdminIdentity {
	if admin, ok := c.Locals(adminLocalKey).(services.AdminIdentity); ok {
		return admin
	}
	return services.AdminIdentity{}
}

func validAdminToken(cfg *config.Config, presented string) bool {
	if cfg.AdminToken == "" || presented == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(presented), []byte(cfg.AdminToken)) == 1
}
