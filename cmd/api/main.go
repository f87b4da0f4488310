package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/rumbo-transit/rumbo_core/internal/api"
	"github.com/rumbo-transit/rumbo_core/internal/cache"
	"github.com/rumbo-transit/rumbo_core/internal/db"
	"github.com/rumbo-transit/rumbo_core/internal/graph"
	"github.com/rumbo-transit/rumbo_core/internal/loader"
	"github.com/rumbo-transit/rumbo_core/internal/middleware"
	"github.com/rumbo-transit/rumbo_core/internal/models"
)

func main() {
	log.Println("Starting Rumbo API server...")

	// Load the network definition
	cfg, err := loadNetworkConfig()
	if err != nil {
		log.Fatalf("Failed to load network: %v", err)
	}

	network, err := graph.NewNetwork(cfg)
	if err != nil {
		log.Fatalf("Invalid network configuration: %v", err)
	}
	log.Printf("✓ Network built (%d stations, %d links)", len(network.Stations()), network.LinkCount())

	// Initialize Redis connection (route cache + rate limiter)
	cacheEnabled := getEnv("CACHE_ENABLED", "true") == "true"
	if cacheEnabled {
		if _, err := cache.GetClient(); err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer cache.Close()
		log.Println("✓ Redis connection established")
	}

	server := api.NewServer(network, cacheEnabled)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Rumbo API",
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorHandler: customErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format:     "${time} | ${status} | ${latency} | ${method} ${path}\n",
		TimeFormat: "15:04:05",
		TimeZone:   "Local",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept",
	}))

	if cacheEnabled {
		rdb, _ := cache.GetClient()
		perSecond, _ := strconv.Atoi(getEnv("RATE_LIMIT_PER_SECOND", "10"))
		perMinute, _ := strconv.Atoi(getEnv("RATE_LIMIT_PER_MINUTE", "300"))
		app.Use(middleware.RateLimit(rdb, perSecond, perMinute))
	}

	// Routes
	app.Get("/health", server.Health)
	app.Get("/v1/route", server.RouteSearch)
	app.Get("/v1/stations", server.Stations)
	app.Get("/v1/stations/:name", server.StationDetail)

	// 404 handler
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(404).JSON(fiber.Map{
			"error": "endpoint not found",
		})
	})

	port := getEnv("API_PORT", "8080")
	addr := fmt.Sprintf(":%s", port)

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down gracefully...")
		if err := app.Shutdown(); err != nil {
			log.Printf("Error during shutdown: %v", err)
		}
	}()

	log.Printf("🚀 Server listening on http://localhost%s", addr)
	log.Printf("📍 Route search: http://localhost%s/v1/route?from=NAME&to=NAME&criterion=time", addr)
	log.Printf("❤️  Health check: http://localhost%s/health", addr)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// loadNetworkConfig reads the network definition from the configured
// source: a JSON file (default) or PostgreSQL.
func loadNetworkConfig() (models.NetworkConfig, error) {
	source := getEnv("NETWORK_SOURCE", "file")

	switch source {
	case "file":
		path := getEnv("NETWORK_FILE", "data/bogota_sitp.json")
		log.Printf("Loading network from %s", path)
		return loader.LoadFile(path)
	case "postgres":
		pool, err := db.GetDB()
		if err != nil {
			return models.NetworkConfig{}, fmt.Errorf("failed to connect to database: %w", err)
		}
		log.Println("Loading network from PostgreSQL")
		return loader.LoadNetwork(context.Background(), pool)
	default:
		return models.NetworkConfig{}, fmt.Errorf("unknown NETWORK_SOURCE %q (want file or postgres)", source)
	}
}

// customErrorHandler handles errors returned from handlers
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	log.Printf("Error: %v", err)

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
	})
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
