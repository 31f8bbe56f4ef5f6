package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	gormlogger "gorm.io/gorm/logger"

	"alethiq-server/services/chat-api/internal/config"
	"alethiq-server/services/chat-api/internal/domain/chat"
	"alethiq-server/services/chat-api/internal/domain/identity"
	"alethiq-server/services/chat-api/internal/infrastructure/aiprovider"
	"alethiq-server/services/chat-api/internal/infrastructure/auth"
	"alethiq-server/services/chat-api/internal/infrastructure/database"
	"alethiq-server/services/chat-api/internal/infrastructure/logger"
	"alethiq-server/services/chat-api/internal/infrastructure/observability"
	conversationrepo "alethiq-server/services/chat-api/internal/infrastructure/repository/conversation"
	userrepo "alethiq-server/services/chat-api/internal/infrastructure/repository/user"
	"alethiq-server/services/chat-api/internal/interfaces/httpserver"
)

// @title Chat API
// @version 1.0
// @description Streams generated answers from the inference backend and persists completed exchanges as conversations.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
type Application struct {
	httpServer *httpserver.HttpServer
	log        zerolog.Logger
}

func NewApplication(httpServer *httpserver.HttpServer, log zerolog.Logger) *Application {
	return &Application{
		httpServer: httpServer,
		log:        log,
	}
}

func (a *Application) Start(ctx context.Context) error {
	return a.httpServer.Run(ctx)
}

func main() {
	loadEnvFiles()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := observability.Setup(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize observability")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := shutdownTelemetry(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("shutdown telemetry")
		}
	}()

	db, err := database.Connect(database.Config{
		DSN:             cfg.DatabaseURL,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		ConnMaxLifetime: cfg.DBConnLifetime,
		LogLevel:        gormlogger.Warn,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("connect database")
	}

	if err := database.AutoMigrate(ctx, db, log); err != nil {
		log.Fatal().Err(err).Msg("migrate database")
	}

	authValidator, err := auth.NewValidator(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize auth validator")
	}

	conversationRepository := conversationrepo.NewRepository(db)
	userRepository := userrepo.NewRepository(db)

	identityService := identity.NewService(userRepository, identity.TokenConfig{
		Secret: cfg.JWTSecret,
		Issuer: cfg.AuthIssuer,
		TTL:    cfg.JWTTTL,
	}, log)

	chatService := chat.NewService(conversationRepository, log)
	aiClient := aiprovider.NewClient(cfg.AIServiceURL, cfg.AIStreamMode, cfg.AIStreamTimeout)
	streamService := chat.NewStreamService(aiClient, chatService, log)

	httpServer := httpserver.New(cfg, log, streamService, chatService, identityService, authValidator, aiClient)
	app := NewApplication(httpServer, log)

	if err := app.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("application stopped with error")
	}

	log.Info().Msg("application exited cleanly")
}

func loadEnvFiles() {
	paths := []string{".env", "../.env"}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Overload(path); err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to load %s: %v\n", path, err)
			}
		}
	}
}
