package app

import (
	"context"
	"fmt"
	"time"

	"anamny_backend/internal/ai"
	"anamny_backend/internal/auth"
	"anamny_backend/internal/config"
	"anamny_backend/internal/email"
	"anamny_backend/internal/handlers"
	"anamny_backend/internal/logger"
	"anamny_backend/internal/middleware"
	"anamny_backend/internal/models"
	"anamny_backend/internal/repositories"
	"anamny_backend/internal/routes"
	"anamny_backend/internal/services"
	"anamny_backend/internal/validator"
	"anamny_backend/internal/workers"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func Run() {
	cfg := config.Load()
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

	if err := AutoMigrate(gormDB); err != nil {
		logger.Fatal("Failed to run migrations", "error", err)
	}
	logger.Info("Migrations applied")

	aiProvider := buildAIProvider(cfg)
	emailProvider := buildEmailProvider(cfg)

	ginRouter := SetupRouter(cfg, gormDB, aiProvider, emailProvider)

	// Фоновые воркеры живут до остановки процесса
	workerCtx := context.Background()
	workers.NewCleanupWorker(gormDB, repositories.NewResetTokenRepository()).Start(workerCtx)
	workers.NewReminderWorker(gormDB).Start(workerCtx)

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info(fmt.Sprintf("🚀 Server starting on %s", address))
	if err := ginRouter.Run(address); err != nil {
		logger.Fatal("Server startup error", "error", err)
	}
}

// AutoMigrate создает схему БД по моделям приложения.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.PasswordResetToken{},
		&models.ChatSession{},
		&models.ChatMessage{},
	)
}

// SetupRouter собирает готовый *gin.Engine. AI и email провайдеры
// передаются снаружи, чтобы тесты могли подставить заглушки.
func SetupRouter(cfg *config.Config, gormDB *gorm.DB, aiProvider ai.Provider, emailProvider email.Provider) *gin.Engine {
	// 1. Инициализируем сервисы
	serviceContainer := initializeServices(cfg, aiProvider, emailProvider)

	// 2. Инициализируем хэндлеры
	appHandlers := initializeHandlers(serviceContainer)

	// 3. Инициализируем Gin
	ginRouter := initializeGinRouter(gormDB)

	// 4. Делегируем регистрацию маршрутов пакету 'routes'
	routes.RegisterRoutes(ginRouter, appHandlers)

	return ginRouter
}

func buildAIProvider(cfg *config.Config) ai.Provider {
	if cfg.AI.APIKey == "" {
		logger.Warn("--- AI API key is not set. Using MOCK provider. ---")
		return &MockAIProvider{}
	}
	return ai.NewGeminiClient(cfg.AI.APIKey, cfg.AI.Model, cfg.AI.BaseURL)
}

func buildEmailProvider(cfg *config.Config) email.Provider {
	if cfg.Email.SMTPHost == "" {
		logger.Warn("--- Email-сервис отключен. Используется MOCK. ---")
		return &MockEmailProvider{}
	}
	return email.NewSMTPProvider(&email.Config{
		SMTPHost:     cfg.Email.SMTPHost,
		SMTPPort:     cfg.Email.SMTPPort,
		SMTPUsername: cfg.Email.SMTPUsername,
		SMTPPassword: cfg.Email.SMTPPassword,
		FromEmail:    cfg.Email.FromEmail,
		FromName:     cfg.Email.FromName,
		ResetBaseURL: cfg.Email.ResetBaseURL,
	})
}

func initializeServices(cfg *config.Config, aiProvider ai.Provider, emailProvider email.Provider) *services.ServiceContainer {
	// --- Инициализация репозиториев ---
	userRepo := repositories.NewUserRepository()
	resetRepo := repositories.NewResetTokenRepository()
	chatRepo := repositories.NewChatRepository()

	tokens := auth.NewTokenManager(
		cfg.JWT.Secret,
		time.Duration(cfg.JWT.TTLMinutes)*time.Minute,
	)

	// --- Инициализация сервисов ---
	authService := services.NewAuthService(
		userRepo,
		resetRepo,
		tokens,
		emailProvider,
		time.Duration(cfg.ResetToken.TTLMinutes)*time.Minute,
	)
	chatService := services.NewChatService(chatRepo, aiProvider)

	return &services.ServiceContainer{
		AuthService:  authService,
		ChatService:  chatService,
		EmailService: emailProvider,
	}
}

func initializeHandlers(container *services.ServiceContainer) *handlers.AppHandlers {
	customValidator := validator.New()

	return &handlers.AppHandlers{
		AuthHandler: handlers.NewAuthHandler(customValidator, container.AuthService),
		ChatHandler: handlers.NewChatHandler(customValidator, container.ChatService, container.AuthService),
	}
}

func initializeGinRouter(db *gorm.DB) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.DBMiddleware(db))
	return router
}
