package http

import (
	"time"

	"github.com/flaskinni/inni/internal/auth"
	"github.com/flaskinni/inni/internal/config"
	"github.com/flaskinni/inni/internal/http/handlers"
	"github.com/flaskinni/inni/internal/middleware"
	"github.com/flaskinni/inni/internal/models"
	"github.com/flaskinni/inni/internal/services"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func SetupRouter(
	app *fiber.App,
	cfg *config.Config,
	log *zap.Logger,
	rdb *redis.Client,
	identity *services.IdentityService,
	buzz *services.BuzzService,
	blocklist *auth.Blocklist,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	postHandler *handlers.PostHandler,
	buzzHandler *handlers.BuzzHandler,
	buzzFeed *handlers.BuzzFeed,
) {
	// Global middleware
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Request-ID",
	}))
	app.Use(middleware.RequestIDMiddleware())
	app.Use(middleware.LoggerMiddleware(log))

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api/v1")
	api.Use(middleware.RateLimitMiddleware(rdb, 100, time.Minute))
	api.Use(middleware.Authenticate(cfg, identity, blocklist, log))

	// Auth (public)
	api.Post("/auth/register", authHandler.Register)
	api.Post("/auth/login", authHandler.Login)

	// Blog reads are public; visibility rules live in the service.
	api.Get("/posts", postHandler.List)
	api.Get("/posts/:slug", postHandler.GetBySlug)

	// Public profiles (anonymous allowed, hidden profiles 404)
	api.Get("/users/:id", userHandler.GetProfile)

	// Authenticated endpoints
	protected := api.Group("", middleware.RequireAuth())

	protected.Post("/auth/logout", authHandler.Logout)
	protected.Post("/auth/change-password", authHandler.ChangePassword)

	protected.Get("/me", userHandler.GetMe)
	protected.Put("/me", userHandler.UpdateMe)

	protected.Post("/posts", postHandler.Create)
	protected.Put("/posts/:id", postHandler.Update)
	protected.Delete("/posts/:id", postHandler.Delete)

	// Admin panel
	admin := api.Group("/admin", middleware.RequireAuth(), middleware.RequireRoles(buzz, models.RoleAdmin))

	admin.Get("/users", userHandler.List)
	admin.Get("/roles", userHandler.ListRoles)
	admin.Post("/users/:id/roles", userHandler.GrantRole)
	admin.Delete("/users/:id/roles", userHandler.RevokeRole)
	admin.Put("/users/:id/active", userHandler.SetActive)

	admin.Get("/buzz", buzzHandler.Recent)
	admin.Get("/buzz/type/:type", buzzHandler.ByType)
	admin.Get("/buzz/actor/:id", buzzHandler.ByActor)

	// Live event feed (admin, token via query param)
	app.Use("/ws/buzz", handlers.WSUpgradeMiddleware())
	app.Get("/ws/buzz", websocket.New(buzzFeed.HandleWS))
}
