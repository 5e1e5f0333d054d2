package app

import (
	"context"
	"fmt"
	"time"

	"talentflow_backend/internal/classify"
	"talentflow_backend/internal/config"
	"talentflow_backend/internal/email"
	"talentflow_backend/internal/handlers"
	"talentflow_backend/internal/logger"
	"talentflow_backend/internal/middleware"
	"talentflow_backend/internal/models"
	"talentflow_backend/internal/repositories"
	"talentflow_backend/internal/routes"
	"talentflow_backend/internal/services"
	"talentflow_backend/internal/validator"
	"talentflow_backend/internal/workers"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	logger.Info("Connecting to database...")
	gormDB, err := gorm.Open(postgres.Open(cfg.Database.DSN), &gorm.Config{})
	if err != nil {
		logger.Fatal("Failed to connect to GORM", "error", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatal("Failed to get *sql.DB from GORM", "error", err)
	}
	if err = sqlDB.Ping(); err != nil {
		logger.Fatal("Database unavailable", "error", err)
	}
	logger.Info("Database connected")

	if err := migrate(gormDB); err != nil {
		logger.Fatal("Failed to run migrations", "error", err)
	}

	serviceContainer := initializeServices(cfg, gormDB)

	ginRouter := SetupRouter(cfg, gormDB, serviceContainer)

	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()
	reminderWorker := workers.NewReminderWorker(
		serviceContainer.ReminderService,
		time.Duration(cfg.Reminders.SweepInterval)*time.Minute,
	)
	reminderWorker.Start(workerCtx)

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info(fmt.Sprintf("Server starting on %s", address))
	if err := ginRouter.Run(address); err != nil {
		logger.Fatal("Server startup error", "error", err)
	}
}

func SetupRouter(cfg *config.Config, gormDB *gorm.DB, serviceContainer *services.ServiceContainer) *gin.Engine {
	appHandlers := initializeHandlers(serviceContainer)

	ginRouter := initializeGinRouter(cfg, gormDB)
	routes.RegisterRoutes(ginRouter, appHandlers)

	return ginRouter
}

func initializeServices(cfg *config.Config, gormDB *gorm.DB) *services.ServiceContainer {
	classifier := classify.NewClient(classify.ClientOptions{
		Endpoint:       cfg.Classification.Endpoint,
		Model:          cfg.Classification.Model,
		APIKey:         cfg.Classification.APIKey,
		TimeoutSeconds: cfg.Classification.TimeoutSeconds,
	})

	return services.NewServiceContainer(gormDB, classifier, initializeEmailProvider(cfg), cfg)
}

func initializeEmailProvider(cfg *config.Config) email.Provider {
	smtpConfig := email.DefaultConfig()
	smtpConfig.Host = cfg.Email.SMTPHost
	smtpConfig.Port = cfg.Email.SMTPPort
	smtpConfig.Username = cfg.Email.SMTPUsername
	smtpConfig.Password = cfg.Email.SMTPPassword
	smtpConfig.FromEmail = cfg.Email.FromEmail
	smtpConfig.FromName = cfg.Email.FromName
	smtpConfig.UseTLS = cfg.Email.UseTLS

	switch cfg.Email.Provider {
	case "gomail":
		logger.Info("Email provider: gomail", "host", smtpConfig.Host)
		return email.NewGomailProvider(smtpConfig)
	case "mock":
		logger.Warn("Email provider: MOCK, no mail will be delivered")
		return &MockEmailProvider{}
	default:
		logger.Info("Email provider: smtp", "host", smtpConfig.Host)
		return email.NewSMTPProvider(smtpConfig)
	}
}

func initializeHandlers(serviceContainer *services.ServiceContainer) *handlers.AppHandlers {
	customValidator := validator.New()
	baseHandler := handlers.NewBaseHandler(customValidator)

	return &handlers.AppHandlers{
		AnalysisHandler:     handlers.NewAnalysisHandler(baseHandler, serviceContainer.AnalysisService),
		MatchingHandler:     handlers.NewMatchingHandler(baseHandler, serviceContainer.MatchingService),
		NotificationHandler: handlers.NewNotificationHandler(baseHandler, serviceContainer.NotificationService),
		ReminderHandler:     handlers.NewReminderHandler(baseHandler, serviceContainer.ReminderService),
		HealthHandler:       handlers.NewHealthHandler(baseHandler),
	}
}

func initializeGinRouter(cfg *config.Config, db *gorm.DB) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.DBMiddleware(db))
	return router
}

func migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Candidate{},
		&models.User{},
		&models.JobRequirement{},
		&models.Application{},
		&models.AnalysisResult{},
		&models.Skill{},
		&models.MatchResult{},
		&models.NotificationRecord{},
		&models.Reminder{},
		&repositories.NotificationTemplate{},
	)
}
