// Package main is the entry point for the affiliate service. It loads
// configuration, connects postgres and redis, and starts the HTTP
// server.
package main

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"

	"vendora/internal/config"
	"vendora/internal/repositories"
	"vendora/internal/repositories/cache"
	"vendora/internal/routes"
)

func main() {
	config.LoadEnv()

	db, err := repositories.InitDB()
	if err != nil {
		log.Fatalf("database init failed: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("failed to get database instance: %v", err)
	}
	defer sqlDB.Close()

	if err := sqlDB.Ping(); err != nil {
		log.Fatalf("failed to ping database: %v", err)
	}
	log.Println("postgres connected, migrations applied")

	redisClient := cache.NewClient(&cache.Config{
		Host:     config.GetEnv("REDIS_HOST", "localhost"),
		Port:     config.GetEnv("REDIS_PORT", "6379"),
		Password: config.GetEnv("REDIS_PASSWORD", ""),
		DB:       config.GetIntEnv("REDIS_DB", 0),
	})
	cacheSvc := cache.NewService(redisClient, 5*time.Minute)
	if err := cacheSvc.HealthCheck(context.Background()); err != nil {
		log.Printf("redis unavailable, running without read cache: %v", err)
		cacheSvc = nil
	}
	if cacheSvc != nil {
		defer cacheSvc.Close()
	}

	app := fiber.New()

	// In production CORS origins must be configured explicitly; the
	// localhost default only covers the local dashboard dev server.
	corsOrigins := config.GetEnv("CORS_ORIGINS", "")
	if corsOrigins == "" && !config.IsProduction() {
		corsOrigins = "http://localhost:5173"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: corsOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,HEAD,PUT,DELETE,PATCH",
	}))
	if !config.IsProduction() {
		app.Use(logger.New(logger.Config{
			Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
		}))
	}

	routes.SetupRoutes(app, db, cacheSvc)

	log.Fatal(app.Listen(":" + config.GetEnv("PORT", "3000")))
}
