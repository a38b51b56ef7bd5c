package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"recruitmate/match-engine/internal/config"
	"recruitmate/match-engine/internal/handlers"
	"recruitmate/match-engine/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()
	log.Println("✅ Config loaded successfully")

	// Initialize NLP pipeline
	nlp, err := services.NewNLPPipeline()
	if err != nil {
		log.Fatalf("❌ Failed to initialize NLP pipeline: %v", err)
	}
	log.Println("✅ NLP pipeline initialized successfully")

	// Initialize skill ruleset
	ruleset, err := services.NewSkillRuleset(cfg.Skills)
	if err != nil {
		log.Fatalf("❌ Failed to build skill ruleset: %v", err)
	}
	log.Printf("✅ Skill ruleset loaded (%d entries, version %s)", ruleset.Size(), ruleset.Version())

	// Initialize embedder
	var embedder services.Embedder
	switch cfg.Embedding.Provider {
	case "gemini":
		embedder, err = services.NewGeminiEmbedder(cfg.Embedding.GeminiAPIKey, cfg.Embedding.GeminiModel)
		if err != nil {
			log.Fatalf("❌ Failed to initialize Gemini embedder: %v", err)
		}
		log.Println("✅ Gemini embedder initialized successfully")
	default:
		embedder = services.NewLocalEmbedder(cfg.Embedding.LocalDims)
		log.Println("✅ Local embedder initialized successfully")
	}

	// Initialize matching services
	nerProcessor := services.NewNERProcessor(ruleset, &cfg.Engine)
	semanticProcessor := services.NewSemanticProcessor(embedder, &cfg.Engine)
	fallbackProcessor := services.NewFallbackProcessor()
	pdfParser := services.NewPDFParserService()
	curator := services.NewResponseCurator(&cfg.Engine)
	log.Println("✅ Services initialized successfully")

	engine := services.NewHybridMatchEngine(
		nlp,
		nerProcessor,
		semanticProcessor,
		fallbackProcessor,
		&cfg.Engine,
	)
	log.Println("✅ Match engine initialized")

	// Initialize dispatcher
	dispatcher := services.NewMatchDispatcher(
		engine,
		cfg.Worker.Concurrency,
		cfg.Worker.QueueSize,
	)

	// Start dispatcher
	ctx := context.Background()
	dispatcher.Start(ctx)
	log.Println("✅ Dispatcher started successfully")

	// Initialize Handlers
	matchHandler := handlers.NewMatchHandler(
		dispatcher,
		pdfParser,
		curator,
		&cfg.Engine,
	)
	log.Println("✅ Handlers initialized")

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Hybrid Match Engine API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		ErrorHandler: customErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	// Routes
	api := app.Group("/api/v1")

	// Health check
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	// API endpoints
	api.Post("/match", matchHandler.HandleMatch)
	api.Post("/match/pdf", matchHandler.HandleMatchPDF)

	// Root route
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Hybrid Match Engine API",
			"version": "1.0.0",
			"endpoints": []string{
				"POST /api/v1/match",
				"POST /api/v1/match/pdf",
			},
		})
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("\n🛑 Shutting down server...")
		dispatcher.Stop()
		if err := app.Shutdown(); err != nil {
			log.Printf("❌ Server forced to shutdown: %v", err)
		}
	}()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("🚀 Server starting on %s\n", addr)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
		"code":  code,
	})
}
