package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jetmil/dreamcapture/api"
	"github.com/jetmil/dreamcapture/config"
	"github.com/jetmil/dreamcapture/database"
	"github.com/jetmil/dreamcapture/middleware"
	"github.com/jetmil/dreamcapture/models"
	"github.com/jetmil/dreamcapture/repository"
	"github.com/jetmil/dreamcapture/services"
	"github.com/jetmil/dreamcapture/stream"

	"gorm.io/gorm"
)

func main() {
	// Load application configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("FATAL: [Main] Failed to load configuration: %v", err)
	}

	// Initialize database connection
	db, err := database.Init(cfg.Database.DSN)
	if err != nil {
		log.Fatalf("FATAL: [Main] Failed to initialize database: %v", err)
	}

	// Auto-migrate database schema
	runMigrations(db)

	// Initialize Repositories
	userRepo := repository.NewUserRepository(db)
	dreamRepo := repository.NewDreamRepository(db)
	momentRepo := repository.NewMomentRepository(db)
	resonanceRepo := repository.NewResonanceRepository(db)
	savedRepo := repository.NewSavedContentRepository(db)
	log.Println("INFO: [Main] Repositories initialized.")

	// Initialize the live stream fabric: broker for in-process publish,
	// hub for websocket fan-out, relay between the two.
	broker := stream.NewBroker()
	hub := stream.NewHub()
	relay := stream.NewRelay(broker, hub)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run()
	go relay.Run(ctx)

	// Initialize Services
	aiService := services.NewAIService(cfg.AI)
	moderationService := services.NewModerationService(cfg.AI)
	quotaService := services.NewQuotaService(dreamRepo, momentRepo, cfg.Stream)
	enrichmentService := services.NewEnrichmentService(dreamRepo, momentRepo, aiService, cfg.Stream.EnrichmentQueueSize)
	enrichmentService.Start(ctx)
	cleanupService := services.NewCleanupService(dreamRepo, momentRepo, time.Duration(cfg.Stream.CleanupIntervalSecs)*time.Second)
	cleanupService.Start(ctx)

	dreamService := services.NewDreamService(dreamRepo, quotaService, moderationService, enrichmentService, cfg.AI)
	momentService := services.NewMomentService(momentRepo, quotaService, moderationService, enrichmentService, broker, cfg.Stream, cfg.AI)
	resonanceService := services.NewResonanceService(resonanceRepo, dreamRepo, momentRepo, aiService, cfg.Stream)
	savedService := services.NewSavedContentService(savedRepo, userRepo, dreamRepo, momentRepo, resonanceRepo)
	log.Println("INFO: [Main] Services initialized.")

	// Initialize API Handler with all dependencies
	apiHandler := api.NewAPIHandler(dreamService, momentService, resonanceService, savedService, hub, cfg.AI.Enabled)
	log.Println("INFO: [Main] API Handler initialized.")

	// Create Gin engine
	r := gin.New()
	r.Use(gin.Recovery())
	r.SetTrustedProxies(nil)

	// Register middlewares
	r.Use(middleware.Logger())
	r.Use(middleware.Cors())
	log.Println("INFO: [Main] Middlewares registered.")

	// Register routes
	registerRoutes(r, apiHandler)
	// Generated dream images are persisted locally and served from here.
	r.Static("/uploads/dreams", cfg.AI.UploadDir)
	log.Println("INFO: [Main] Routes registered.")

	// Start the server
	serverPort := ":" + cfg.Server.Port
	log.Printf("INFO: [Main] Starting server on port %s", serverPort)
	if err := r.Run(serverPort); err != nil {
		log.Fatalf("FATAL: [Main] Server failed to start: %v", err)
	}
}

func runMigrations(db *gorm.DB) {
	log.Println("INFO: [Main] Running database migrations...")
	err := db.AutoMigrate(
		&models.User{},
		&models.Dream{},
		&models.Moment{},
		&models.Resonance{},
		&models.SavedContent{},
	)
	if err != nil {
		log.Fatalf("FATAL: [Main] Failed to auto-migrate database: %v", err)
	}
	log.Println("INFO: [Main] Database migration completed.")
}

func registerRoutes(r *gin.Engine, handler *api.APIHandler) {
	r.GET("/", handler.RootHandler)
	r.GET("/health", handler.HealthHandler)

	// The websocket stream sits outside the API group: it carries no user
	// identity and only pushes public moment identifiers.
	r.GET("/ws/stream", handler.StreamHandler)

	apiGroup := r.Group("/api")
	apiGroup.Use(middleware.RequireUser())
	{
		dreamGroup := apiGroup.Group("/dreams")
		{
			dreamGroup.POST("", handler.CreateDreamHandler)
			dreamGroup.GET("", handler.ListDreamsHandler)
			dreamGroup.GET("/my", handler.ListMyDreamsHandler)
			dreamGroup.GET("/:id", handler.GetDreamHandler)
			dreamGroup.DELETE("/:id", handler.DeleteDreamHandler)
		}

		momentGroup := apiGroup.Group("/moments")
		{
			momentGroup.POST("", handler.CreateMomentHandler)
			momentGroup.GET("", handler.ListMomentsHandler)
			momentGroup.GET("/:id", handler.GetMomentHandler)
		}

		resonanceGroup := apiGroup.Group("/resonances")
		{
			resonanceGroup.POST("", handler.CreateResonanceHandler)
			resonanceGroup.GET("/my", handler.ListMyResonancesHandler)
			resonanceGroup.POST("/:id/save", handler.SaveResonanceHandler)
		}

		savedGroup := apiGroup.Group("/saved")
		{
			savedGroup.POST("", handler.SaveContentHandler)
			savedGroup.GET("/my", handler.ListMySavedHandler)
		}
	}
}
