package handlers

import (
	"github.com/gofiber/fiber/v2"

	"pawmart/internal/log"
	"pawmart/internal/services"
)

type AuthHandler struct {
	Auth *services.AuthService
}

// POST /auth/register
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var in services.RegisterInput
	if err := bind(c, &in); err != nil {
		return fail(c, "auth.register", err)
	}
	u, tok, err := h.Auth.Register(c.UserContext(), in)
	if err != nil {
		return fail(c, "auth.register", err)
	}
	c.Locals(log.UserIDKey, u.ID)
	c.Status(fiber.StatusCreated)
	log.Audit(c, "auth.register", map[string]any{"email": u.Email, "role": u.Role})
	return c.JSON(fiber.Map{"message": "User registered successfully", "token": tok, "user": u})
}

// POST /auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in services.LoginInput
	if err := bind(c, &in); err != nil {
		return fail(c, "auth.login", err)
	}
	u, tok, err := h.Auth.Login(c.UserContext(), in)
	if err != nil {
		log.Security(c, "auth.login.fail", map[string]any{"email": in.Email})
		return fail(c, "auth.login", err)
	}
	c.Locals(log.UserIDKey, u.ID)
	log.Audit(c, "auth.login.success", map[string]any{"email": u.Email})
	return c.JSON(fiber.Map{"message": "Login successful", "token": tok, "user": u})
}

// GET /auth/profile
func (h *AuthHandler) Profile(c *fiber.Ctx) error {
	u, err := h.Auth.Profile(c.UserContext(), identity(c))
	if err != nil {
		return fail(c, "auth.profile", err)
	}
	return c.JSON(u)
}

// PUT /auth/profile
func (h *AuthHandler) UpdateProfile(c *fiber.Ctx) error {
	var in services.ProfileInput
	if err := bind(c, &in); err != nil {
		return fail(c, "auth.profile.update", err)
	}
	u, err := h.Auth.UpdateProfile(c.UserContext(), identity(c), in)
	if err != nil {
		return fail(c, "auth.profile.update", err)
	}
	log.Audit(c, "auth.profile.update", nil)
	return c.JSON(fiber.Map{"message": "Profile updated successfully", "user": u})
}
