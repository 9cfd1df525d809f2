package handlers

import (
	"github.com/gofiber/fiber/v2"

	"pawmart/internal/log"
	"pawmart/internal/services"
)

type AdminHandler struct {
	Admin    *services.AdminService
	Listings *services.ListingService
}

// GET /admin/users
func (h *AdminHandler) Users(c *fiber.Ctx) error {
	page, err := h.Admin.ListUsers(c.UserContext(), identity(c), c.Query("page"), c.Query("limit"))
	if err != nil {
		return fail(c, "admin.users", err)
	}
	return c.JSON(page)
}

// GET /admin/stats
func (h *AdminHandler) Stats(c *fiber.Ctx) error {
	s, err := h.Admin.Overview(c.UserContext(), identity(c))
	if err != nil {
		return fail(c, "admin.stats", err)
	}
	return c.JSON(s)
}

// PUT /admin/users/:id/role
func (h *AdminHandler) ChangeRole(c *fiber.Ctx) error {
	var body struct {
		Role string `json:"role"`
	}
	if err := bind(c, &body); err != nil {
		return fail(c, "admin.role", err)
	}
	u, err := h.Admin.ChangeRole(c.UserContext(), identity(c), c.Params("id"), body.Role)
	if err != nil {
		return fail(c, "admin.role", err)
	}
	log.Audit(c, "admin.role.change", map[string]any{"target": u.ID, "role": u.Role})
	return c.JSON(fiber.Map{"message": "User role updated successfully", "user": u})
}

// GET /admin/listings
func (h *AdminHandler) AdminListings(c *fiber.Ctx) error {
	page, err := h.Listings.AdminList(c.UserContext(), identity(c), listingParams(c))
	if err != nil {
		return fail(c, "admin.listings", err)
	}
	return c.JSON(page)
}
