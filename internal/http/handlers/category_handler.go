package handlers

import (
	"github.com/gofiber/fiber/v2"

	"pawmart/internal/domain"
	"pawmart/internal/services"
)

type CategoryHandler struct {
	Listings *services.ListingService
}

// GET /categories
func (h *CategoryHandler) List(c *fiber.Ctx) error {
	return c.JSON(domain.Categories)
}

// GET /listings/category/:name
func (h *CategoryHandler) ByCategory(c *fiber.Ctx) error {
	page, err := h.Listings.ByCategory(c.UserContext(), param(c, "name"), listingParams(c))
	if err != nil {
		return fail(c, "listings.by_category", err)
	}
	return c.JSON(page)
}
