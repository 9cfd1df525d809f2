package handlers

import (
	"github.com/gofiber/fiber/v2"

	"pawmart/internal/log"
	"pawmart/internal/services"
)

type OrderHandler struct {
	Orders *services.OrderService
}

// POST /orders
func (h *OrderHandler) Place(c *fiber.Ctx) error {
	var in services.OrderInput
	if err := bind(c, &in); err != nil {
		return fail(c, "orders.place", err)
	}
	o, err := h.Orders.Place(c.UserContext(), identity(c), in)
	if err != nil {
		return fail(c, "orders.place", err)
	}
	c.Status(fiber.StatusCreated)
	log.Audit(c, "orders.place", map[string]any{"order_id": o.ID, "listing_id": o.ListingID, "qty": o.Quantity, "total": o.Total})
	return c.JSON(o)
}

// GET /orders/:email
func (h *OrderHandler) List(c *fiber.Ctx) error {
	orders, err := h.Orders.ListForBuyer(c.UserContext(), identity(c), param(c, "email"))
	if err != nil {
		return fail(c, "orders.list", err)
	}
	return c.JSON(orders)
}

// PUT /orders/:id/status
func (h *OrderHandler) UpdateStatus(c *fiber.Ctx) error {
	var body struct {
		Status string `json:"status"`
	}
	if err := bind(c, &body); err != nil {
		return fail(c, "orders.status", err)
	}
	o, err := h.Orders.UpdateStatus(c.UserContext(), identity(c), c.Params("id"), body.Status)
	if err != nil {
		return fail(c, "orders.status", err)
	}
	log.Audit(c, "orders.status", map[string]any{"order_id": o.ID, "status": o.Status})
	return c.JSON(o)
}
