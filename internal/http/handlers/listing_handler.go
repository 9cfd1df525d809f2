package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"pawmart/internal/domain"
	"pawmart/internal/log"
	"pawmart/internal/query"
	"pawmart/internal/services"
)

type ListingHandler struct {
	Listings *services.ListingService
}

// GET /listings
// Store failures degrade to an empty page; bad parameters are still a 400.
func (h *ListingHandler) Index(c *fiber.Ctx) error {
	page, err := h.Listings.Browse(c.UserContext(), listingParams(c))
	if err != nil {
		var ve *domain.ValidationError
		if errors.As(err, &ve) {
			return fail(c, "listings.index", err)
		}
		log.Error(c, "listings.index.fail", err, nil)
		return c.JSON(services.ListingPage{
			Listings:   []domain.Listing{},
			Pagination: query.NewPagination(1, query.DefaultLimit, 0),
		})
	}
	return c.JSON(page)
}

// GET /recent-listings
func (h *ListingHandler) Recent(c *fiber.Ctx) error {
	items, err := h.Listings.Recent(c.UserContext(), c.Query("limit"))
	if err != nil {
		log.Error(c, "listings.recent.fail", err, nil)
		items = []domain.Listing{}
	}
	return c.JSON(items)
}

// GET /listings/:id
func (h *ListingHandler) Detail(c *fiber.Ctx) error {
	d, err := h.Listings.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return fail(c, "listings.detail", err)
	}
	return c.JSON(d)
}

// POST /listings
func (h *ListingHandler) Create(c *fiber.Ctx) error {
	var in services.ListingInput
	if err := bind(c, &in); err != nil {
		return fail(c, "listings.create", err)
	}
	l, err := h.Listings.Create(c.UserContext(), identity(c), in)
	if err != nil {
		return fail(c, "listings.create", err)
	}
	c.Status(fiber.StatusCreated)
	log.Audit(c, "listings.create", map[string]any{"listing_id": l.ID, "category": l.Category})
	return c.JSON(l)
}

// PUT /listings/:id
func (h *ListingHandler) Update(c *fiber.Ctx) error {
	var in services.ListingInput
	if err := bind(c, &in); err != nil {
		return fail(c, "listings.update", err)
	}
	l, err := h.Listings.Update(c.UserContext(), identity(c), c.Params("id"), in)
	if err != nil {
		return fail(c, "listings.update", err)
	}
	log.Audit(c, "listings.update", map[string]any{"listing_id": l.ID})
	return c.JSON(l)
}

// DELETE /listings/:id
func (h *ListingHandler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.Listings.Delete(c.UserContext(), identity(c), id); err != nil {
		return fail(c, "listings.delete", err)
	}
	log.Audit(c, "listings.delete", map[string]any{"listing_id": id})
	return c.JSON(fiber.Map{"message": "Listing deleted successfully"})
}

// GET /listings/user/:email
func (h *ListingHandler) ByUser(c *fiber.Ctx) error {
	page, err := h.Listings.ByUser(c.UserContext(), identity(c), param(c, "email"), listingParams(c))
	if err != nil {
		return fail(c, "listings.by_user", err)
	}
	return c.JSON(page)
}
