package handlers

import (
	"errors"
	"net/url"

	"github.com/gofiber/fiber/v2"

	"pawmart/internal/authz"
	"pawmart/internal/domain"
	"pawmart/internal/log"
	"pawmart/internal/query"
)

// fail maps a service error to a status code and a client-safe body. Unexpected
// errors are logged with their cause and answered with a generic 500.
func fail(c *fiber.Ctx, action string, err error) error {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		c.Status(fiber.StatusBadRequest)
		log.Security(c, "validation.fail", map[string]any{"op": action, "details": ve.Details})
		return c.JSON(fiber.Map{"error": "Validation failed", "details": ve.Details})
	case errors.Is(err, domain.ErrInvalidCredentials):
		c.Status(fiber.StatusUnauthorized)
		return c.JSON(fiber.Map{"error": "Invalid email or password"})
	case errors.Is(err, authz.ErrAccessDenied):
		c.Status(fiber.StatusForbidden)
		log.Security(c, "access.denied", map[string]any{"op": action})
		return c.JSON(fiber.Map{"error": "Access denied"})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Resource not found"})
	case errors.Is(err, domain.ErrDuplicateEmail):
		c.Status(fiber.StatusBadRequest)
		log.Security(c, "auth.register.duplicate", nil)
		return c.JSON(fiber.Map{"error": "User already exists with this email"})
	case errors.Is(err, domain.ErrDuplicateReview):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "You have already reviewed this listing"})
	case errors.Is(err, domain.ErrInvalidTransition):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Order status transition not allowed"})
	case errors.Is(err, domain.ErrInactiveListing):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Listing is not available"})
	}
	c.Status(fiber.StatusInternalServerError)
	log.Error(c, action+".fail", err, nil)
	return c.JSON(fiber.Map{"error": "Internal server error"})
}

// ErrorHandler answers errors that escape a handler (fiber errors, panics turned
// into errors by the recover middleware) in the API's JSON shape.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	msg := "Internal server error"
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		if code < fiber.StatusInternalServerError {
			msg = fe.Message
		}
	}
	c.Status(code)
	if code >= fiber.StatusInternalServerError {
		log.Error(c, "server.error", err, nil)
	}
	return c.JSON(fiber.Map{"error": msg})
}

// bind decodes a JSON body into v.
func bind(c *fiber.Ctx, v any) error {
	if err := c.BodyParser(v); err != nil {
		return domain.Invalid("request body must be a valid JSON object")
	}
	return nil
}

func listingParams(c *fiber.Ctx) query.Params {
	return query.Params{
		Page:      c.Query("page"),
		Limit:     c.Query("limit"),
		Category:  c.Query("category"),
		Search:    c.Query("search"),
		MinPrice:  c.Query("minPrice"),
		MaxPrice:  c.Query("maxPrice"),
		Location:  c.Query("location"),
		SortBy:    c.Query("sortBy"),
		SortOrder: c.Query("sortOrder"),
		Status:    c.Query("status"),
	}
}

// param returns a path parameter with percent-encoding removed ("Pet%20Food").
func param(c *fiber.Ctx, key string) string {
	raw := c.Params(key)
	if v, err := url.PathUnescape(raw); err == nil {
		return v
	}
	return raw
}
