package handlers

import (
	"github.com/gofiber/fiber/v2"

	"pawmart/internal/log"
	"pawmart/internal/services"
)

type ReviewHandler struct {
	Reviews *services.ReviewService
}

// POST /reviews
func (h *ReviewHandler) Create(c *fiber.Ctx) error {
	var in services.ReviewInput
	if err := bind(c, &in); err != nil {
		return fail(c, "reviews.create", err)
	}
	rv, err := h.Reviews.Create(c.UserContext(), identity(c), in)
	if err != nil {
		return fail(c, "reviews.create", err)
	}
	c.Status(fiber.StatusCreated)
	log.Audit(c, "reviews.create", map[string]any{"review_id": rv.ID, "listing_id": rv.ListingID, "rating": rv.Rating})
	return c.JSON(rv)
}

// GET /reviews/:listingId
func (h *ReviewHandler) List(c *fiber.Ctx) error {
	list, err := h.Reviews.ForListing(c.UserContext(), c.Params("listingId"))
	if err != nil {
		return fail(c, "reviews.list", err)
	}
	return c.JSON(list)
}
