package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"

	"github.com/MuhamadAgungGumelar/crm-engagement-be/internal/core/llm"
	"github.com/MuhamadAgungGumelar/crm-engagement-be/internal/core/metrics"
	"github.com/MuhamadAgungGumelar/crm-engagement-be/internal/core/scheduler"
	"github.com/MuhamadAgungGumelar/crm-engagement-be/internal/modules/crm/handlers"
	"github.com/MuhamadAgungGumelar/crm-engagement-be/internal/modules/crm/models"
	"github.com/MuhamadAgungGumelar/crm-engagement-be/internal/modules/crm/repositories"
	"github.com/MuhamadAgungGumelar/crm-engagement-be/internal/modules/crm/services"
	"github.com/MuhamadAgungGumelar/crm-engagement-be/internal/shared/config"
	"github.com/MuhamadAgungGumelar/crm-engagement-be/internal/shared/database"
	"github.com/MuhamadAgungGumelar/crm-engagement-be/internal/shared/utils"

	_ "github.com/MuhamadAgungGumelar/crm-engagement-be/cmd/crm-api/docs"
)

// @title CRM Engagement API
// @version 1.0
// @description Client engagement tracking with AI analysis and automatic inactivation
// @termsOfService http://swagger.io/terms/
// @contact.name API Support
// @license.name MIT
// @host localhost:8080
// @BasePath /
func main() {
	// Load config
	cfg := config.LoadConfig()
	utils.InitLogger(cfg.Env, cfg.LogLevel)
	utils.LogInfo("🚀 Starting crm-api", map[string]interface{}{"port": cfg.Port, "env": cfg.Env})

	// Init database
	db, err := database.NewDB(cfg.DatabaseURL, cfg.IsDevelopment())
	if err != nil {
		utils.LogError("❌ Failed to connect to database", err, nil)
		os.Exit(1)
	}
	defer db.Close()

	if cfg.AutoMigrate {
		if err := models.AutoMigrate(db.GORM); err != nil {
			utils.LogError("❌ Auto-migration failed", err, nil)
			os.Exit(1)
		}
		utils.LogInfo("✅ CRM tables migrated", nil)
	}

	// Init repositories (use GORM instance)
	clientRepo := repositories.NewClientRepo(db.GORM)
	runRepo := repositories.NewAutomationRunRepo(db.GORM)

	// Init LLM service (multi-provider support). Without it every analysis
	// comes from the local engagement rules.
	llmService, err := llm.NewServiceFromEnv(context.Background())
	if err != nil {
		utils.LogWarn("⚠️ LLM provider unavailable, using local analysis only", map[string]interface{}{"error": err.Error()})
		llmService = nil
	}
	aiProvider := services.SourceFallback
	if llmService != nil {
		aiProvider = llmService.GetProviderName()
	} else {
		utils.LogWarn("⚠️ LLM_PROVIDER not configured, analyses use local rules", nil)
	}

	// Init services
	clientService := services.NewClientService(clientRepo)
	analysisService := services.NewAnalysisService(llmService, cfg.AnalysisTimeout)
	inactivationService := services.NewInactivationService(clientRepo, runRepo)

	// Init scheduler
	sched := scheduler.NewScheduler()
	automationHandler := handlers.NewAutomationHandler(inactivationService, sched)
	if cfg.AutomationSchedule != "" {
		if _, err := sched.Add("env-default", cfg.AutomationSchedule, handlers.MarkInactiveJob, automationHandler.ScheduledJob()); err != nil {
			utils.LogError("❌ Invalid AUTOMATION_SCHEDULE", err, map[string]interface{}{"cron": cfg.AutomationSchedule})
			os.Exit(1)
		}
	}
	sched.Start()
	defer sched.Stop()

	// Init Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "CRM Engagement API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: cfg.AnalysisTimeout + 10*time.Second,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New())
	app.Use(metrics.Middleware())

	// Swagger & metrics
	app.Get("/swagger/*", swagger.HandlerDefault)
	app.Get("/metrics", metrics.Handler())

	handlers.Routes{
		Health:     handlers.NewHealthHandler(cfg.ServiceName, aiProvider, db),
		Clients:    handlers.NewClientHandler(clientService, analysisService),
		Analysis:   handlers.NewAnalysisHandler(analysisService),
		Automation: automationHandler,
	}.Register(app)

	// Graceful shutdown
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit

		utils.LogInfo("🛑 Shutting down crm-api...", nil)
		if err := app.ShutdownWithTimeout(15 * time.Second); err != nil {
			utils.LogError("❌ Shutdown failed", err, nil)
		}
	}()

	utils.LogInfo("✅ crm-api running", map[string]interface{}{
		"port":    cfg.Port,
		"swagger": "http://localhost:" + cfg.Port + "/swagger/",
	})
	if err := app.Listen(":" + cfg.Port); err != nil {
		utils.LogError("❌ Server stopped", err, nil)
	}
}
