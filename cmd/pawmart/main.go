package main

import (
	"context"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"pawmart/internal/config"
	"pawmart/internal/http/handlers"
	"pawmart/internal/notify"
	"pawmart/internal/ratelimit"
	"pawmart/internal/repos"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[config] %v", err)
	}

	// Optional file logging
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Printf("[warn] could not open log file %s: %v", cfg.LogFile, err)
		} else {
			defer f.Close()
			log.SetOutput(io.MultiWriter(os.Stdout, f))
		}
	}

	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	if cfg.SeedDemo {
		if err := repos.SeedDemo(context.Background(), db, cfg.BcryptCost); err != nil {
			log.Fatalf("[seed] %v", err)
		}
	}

	// Notifications: AMQP when configured, otherwise the log.
	var sender notify.Sender = notify.NewLogSender()
	if cfg.RabbitURL != "" {
		s, err := notify.NewAMQPSender(cfg.RabbitURL, cfg.MailExchange)
		if err != nil {
			log.Printf("[warn] rabbitmq unavailable, mail goes to the log: %v", err)
		} else {
			defer s.Close()
			sender = s
			log.Printf("[notify] publishing mail to exchange %s", cfg.MailExchange)
		}
	}
	mailer, err := notify.NewMailer(sender, cfg.MailFrom)
	if err != nil {
		log.Fatal(err)
	}

	// Limiter counters: shared in Redis when configured.
	limits := handlers.Limits{Max: cfg.RateLimitMax, AuthMax: cfg.AuthRateLimitMax, Window: cfg.RateLimitWindow}
	if cfg.RedisAddr != "" {
		store := ratelimit.NewRedisStorage(ratelimit.NewRedisClient(cfg.RedisAddr), "")
		if err := store.Ping(context.Background()); err != nil {
			log.Printf("[warn] redis unavailable, rate limits are per instance: %v", err)
			_ = store.Close()
		} else {
			defer store.Close()
			limits.Storage = store
		}
	}

	app := fiber.New(fiber.Config{
		AppName:      "PawMart",
		BodyLimit:    1 << 20, // 1 MiB
		ErrorHandler: handlers.ErrorHandler,
	})

	// ---------- Middlewares ----------
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(helmet.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	deps := handlers.NewDeps(db, cfg, mailer)
	handlers.Routes(app, deps, limits)

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		log.Println("[server] shutting down")
		_ = app.ShutdownWithTimeout(10 * time.Second)
	}()

	log.Printf("[server] listening on :%s", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
	mailer.Wait()
}
