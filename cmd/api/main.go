package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/flaskinni/inni/internal/auth"
	"github.com/flaskinni/inni/internal/config"
	"github.com/flaskinni/inni/internal/db"
	"github.com/flaskinni/inni/internal/events"
	apphttp "github.com/flaskinni/inni/internal/http"
	"github.com/flaskinni/inni/internal/http/handlers"
	"github.com/flaskinni/inni/internal/repositories"
	"github.com/flaskinni/inni/internal/services"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func main() {
	log, _ := zap.NewProduction()
	defer log.Sync()

	cfg := config.Load()
	cfg.Validate(log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Database
	pool, err := db.NewPostgresPool(ctx, cfg.PostgresDSN, log)
	if err != nil {
		log.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer pool.Close()

	// Run migrations
	if err := db.RunMigrations(ctx, pool, "migrations", log); err != nil {
		log.Fatal("failed to run migrations", zap.Error(err))
	}

	// Redis
	rdb, err := db.NewRedisClient(ctx, cfg.RedisURL, log)
	if err != nil {
		log.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer rdb.Close()

	// Repositories
	userRepo := repositories.NewUserRepo(pool, cfg.LastSeenInterval)
	buzzRepo := repositories.NewBuzzRepo(pool, cfg.BuzzQueryLimit)
	postRepo := repositories.NewPostRepo(pool)

	// Events
	publisher := events.NewRedisPublisher(rdb, log)
	subscriber := events.NewRedisSubscriber(rdb, log)

	// Services
	blocklist := auth.NewBlocklist(rdb)
	buzzService := services.NewBuzzService(buzzRepo, publisher, log)
	identityService := services.NewIdentityService(userRepo, buzzService, blocklist, cfg, log)
	postService := services.NewPostService(postRepo, buzzService, log)

	if err := identityService.Bootstrap(ctx); err != nil {
		log.Fatal("bootstrap failed", zap.Error(err))
	}

	// Handlers
	authHandler := handlers.NewAuthHandler(identityService, log)
	userHandler := handlers.NewUserHandler(userRepo, identityService, log)
	postHandler := handlers.NewPostHandler(postService, log)
	buzzHandler := handlers.NewBuzzHandler(buzzService, log)
	buzzFeed := handlers.NewBuzzFeed(cfg, identityService, subscriber, blocklist, log)

	// Start live buzz feed
	buzzFeed.Start(ctx)

	// Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{"error": err.Error()})
		},
	})

	apphttp.SetupRouter(app, cfg, log, rdb, identityService, buzzService, blocklist, authHandler, userHandler, postHandler, buzzHandler, buzzFeed)

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")
		cancel()
		_ = app.Shutdown()
	}()

	addr := fmt.Sprintf(":%s", cfg.APIPort)
	log.Info("starting API server", zap.String("addr", addr))
	if err := app.Listen(addr); err != nil {
		log.Fatal("server error", zap.Error(err))
	}
}
