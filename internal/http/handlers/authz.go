package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"pawmart/internal/auth"
	"pawmart/internal/domain"
	"pawmart/internal/log"
	"pawmart/internal/repos"
)

const identityKey = "identity"

// RequireToken verifies the bearer token and stores the caller's identity in Locals.
// Role and email are re-read from the store so a role change applies to tokens
// already issued.
func RequireToken(tokens *auth.Tokens, users *repos.UserRepo) fiber.Handler {
	return func(c *fiber.Ctx) error {
		h := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
		raw := ""
		if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
			raw = strings.TrimSpace(h[7:])
		}
		if raw == "" {
			c.Status(fiber.StatusUnauthorized)
			log.Security(c, "auth.token.missing", nil)
			return c.JSON(fiber.Map{"error": "Access denied. No token provided."})
		}
		id, err := tokens.Verify(raw)
		if err != nil {
			c.Status(fiber.StatusBadRequest)
			log.Security(c, "auth.token.invalid", nil)
			return c.JSON(fiber.Map{"error": "Invalid token."})
		}
		c.Locals(log.UserIDKey, id.UserID)

		u, err := users.ByID(c.UserContext(), id.UserID)
		if errors.Is(err, domain.ErrNotFound) {
			c.Status(fiber.StatusBadRequest)
			log.Security(c, "auth.token.unknown_user", nil)
			return c.JSON(fiber.Map{"error": "Invalid token."})
		}
		if err != nil {
			return fail(c, "auth.token", err)
		}
		if u.Role != id.Role {
			log.Audit(c, "auth.role.refresh", map[string]any{"claimed_role": id.Role, "role": u.Role})
		}
		id.Role = u.Role
		id.Email = u.Email
		c.Locals(identityKey, id)
		c.Locals(log.RoleKey, string(u.Role))
		return c.Next()
	}
}

// RequireRole admits callers whose current role is one of roles. Must run after RequireToken.
func RequireRole(roles ...domain.Role) fiber.Handler {
	msg := "Access denied."
	switch {
	case len(roles) == 1 && roles[0] == domain.RoleAdmin:
		msg = "Access denied. Admin privileges required."
	case len(roles) > 0 && roles[0] == domain.RoleSeller:
		msg = "Access denied. Seller privileges required."
	}
	return func(c *fiber.Ctx) error {
		id := identity(c)
		for _, r := range roles {
			if id.Role == r {
				return c.Next()
			}
		}
		c.Status(fiber.StatusForbidden)
		log.Security(c, "access.denied.role", map[string]any{"need": roles})
		return c.JSON(fiber.Map{"error": msg})
	}
}

func identity(c *fiber.Ctx) auth.Identity {
	id, _ := c.Locals(identityKey).(auth.Identity)
	return id
}
