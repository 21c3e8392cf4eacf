package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/arnold/taskboard/internal/config"
	"github.com/arnold/taskboard/internal/database"
	"github.com/arnold/taskboard/internal/handlers"
	"github.com/arnold/taskboard/internal/models"
	"github.com/arnold/taskboard/internal/routes"
	"github.com/arnold/taskboard/internal/services"
	"github.com/arnold/taskboard/internal/stats"
)

func main() {
	cfg := config.Load()
	if cfg.Debug {
		log.SetLevel(log.LevelDebug)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	clock := models.NewClock(cfg.Location())
	svc := services.NewService(db, clock)
	engine := stats.NewEngine(db, clock)

	admin, generated, err := svc.EnsureAdmin(context.Background(), cfg.AdminLogin, cfg.AdminPassword)
	if err != nil {
		log.Fatalf("Failed to seed admin account: %v", err)
	}
	if generated != "" {
		log.Warnf("Created admin %q with one-time password %s; change it after logging in", admin.Login, generated)
	}

	app := fiber.New(fiber.Config{
		AppName: "taskboard",
	})
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	routes.Setup(app, handlers.New(svc, engine, cfg), cfg.JWTSecret)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		log.Info("Shutting down")
		if err := app.Shutdown(); err != nil {
			log.Errorf("Shutdown failed: %v", err)
		}
	}()

	log.Infof("Server starting on port %s", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}
