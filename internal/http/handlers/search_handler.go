package handlers

import (
	"github.com/gofiber/fiber/v2"

	"pawmart/internal/services"
)

type SearchHandler struct {
	Listings *services.ListingService
}

// GET /search?q=
func (h *SearchHandler) Search(c *fiber.Ctx) error {
	p := listingParams(c)
	p.Search = c.Query("q")
	page, err := h.Listings.Search(c.UserContext(), p)
	if err != nil {
		return fail(c, "search", err)
	}
	return c.JSON(page)
}
