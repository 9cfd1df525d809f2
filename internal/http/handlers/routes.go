package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"pawmart/internal/domain"
	"pawmart/internal/log"
)

// Limits configures the per-IP rate limiters. A nil Storage keeps counters in memory.
type Limits struct {
	Max     int
	AuthMax int
	Window  time.Duration
	Storage fiber.Storage
}

// Routes mounts the API on app.
func Routes(app *fiber.App, d *Deps, lim Limits) {
	if lim.Window <= 0 {
		lim.Window = 15 * time.Minute
	}

	app.Get("/health", d.HealthHandler.Health)

	app.Use(limiter.New(limiter.Config{
		Max:               lim.Max,
		Expiration:        lim.Window,
		Storage:           lim.Storage,
		LimiterMiddleware: limiter.SlidingWindow{},
		LimitReached: func(c *fiber.Ctx) error {
			c.Status(fiber.StatusTooManyRequests)
			log.Security(c, "rate.hit", nil)
			return c.JSON(fiber.Map{"error": "Too many requests from this IP, please try again later."})
		},
	}))
	authLimiter := limiter.New(limiter.Config{
		Max:               lim.AuthMax,
		Expiration:        lim.Window,
		Storage:           lim.Storage,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP() + "|auth"
		},
		LimitReached: func(c *fiber.Ctx) error {
			c.Status(fiber.StatusTooManyRequests)
			log.Security(c, "rate.auth.hit", nil)
			return c.JSON(fiber.Map{"error": "Too many authentication attempts, please try again later."})
		},
	})

	token := RequireToken(d.Tokens, d.Users)
	sellerOnly := RequireRole(domain.RoleSeller, domain.RoleAdmin)
	adminOnly := RequireRole(domain.RoleAdmin)

	a := app.Group("/auth")
	a.Post("/register", authLimiter, d.AuthHandler.Register)
	a.Post("/login", authLimiter, d.AuthHandler.Login)
	a.Get("/profile", token, d.AuthHandler.Profile)
	a.Put("/profile", token, d.AuthHandler.UpdateProfile)

	app.Get("/categories", d.CategoryHandler.List)
	app.Get("/listings", d.ListingHandler.Index)
	app.Get("/listings/category/:name", d.CategoryHandler.ByCategory)
	app.Get("/listings/user/:email", token, d.ListingHandler.ByUser)
	app.Get("/listings/:id", d.ListingHandler.Detail)
	app.Post("/listings", token, sellerOnly, d.ListingHandler.Create)
	app.Put("/listings/:id", token, d.ListingHandler.Update)
	app.Delete("/listings/:id", token, d.ListingHandler.Delete)
	app.Get("/recent-listings", d.ListingHandler.Recent)
	app.Get("/search", d.SearchHandler.Search)

	app.Post("/orders", token, d.OrderHandler.Place)
	app.Get("/orders/:email", token, d.OrderHandler.List)
	app.Put("/orders/:id/status", token, d.OrderHandler.UpdateStatus)

	app.Post("/reviews", token, d.ReviewHandler.Create)
	app.Get("/reviews/:listingId", d.ReviewHandler.List)

	admin := app.Group("/admin", token, adminOnly)
	admin.Get("/users", d.AdminHandler.Users)
	admin.Get("/stats", d.AdminHandler.Stats)
	admin.Put("/users/:id/role", d.AdminHandler.ChangeRole)
	admin.Get("/listings", d.AdminHandler.AdminListings)

	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Route not found"})
	})
}
