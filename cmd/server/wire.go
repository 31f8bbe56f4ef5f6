//go:build wireinject

package main

import (
	"context"

	"github.com/google/wire"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"alethiq-server/services/chat-api/internal/config"
	"alethiq-server/services/chat-api/internal/domain/chat"
	"alethiq-server/services/chat-api/internal/domain/identity"
	"alethiq-server/services/chat-api/internal/infrastructure/aiprovider"
	"alethiq-server/services/chat-api/internal/infrastructure/auth"
	"alethiq-server/services/chat-api/internal/infrastructure/database"
	"alethiq-server/services/chat-api/internal/infrastructure/logger"
	conversationrepo "alethiq-server/services/chat-api/internal/infrastructure/repository/conversation"
	userrepo "alethiq-server/services/chat-api/internal/infrastructure/repository/user"
	"alethiq-server/services/chat-api/internal/interfaces/httpserver"
)

var chatSet = wire.NewSet(
	conversationrepo.NewRepository,
	wire.Bind(new(chat.Repository), new(*conversationrepo.Repository)),
	userrepo.NewRepository,
	wire.Bind(new(identity.Repository), new(*userrepo.Repository)),
	newIdentityService,
	chat.NewService,
	newAIClient,
	wire.Bind(new(chat.Provider), new(*aiprovider.Client)),
	wire.Bind(new(httpserver.UpstreamProber), new(*aiprovider.Client)),
	chat.NewStreamService,
	wire.Bind(new(chat.Streamer), new(*chat.StreamService)),
)

// BuildApplication demonstrates how to assemble the chat service with Wire.
func BuildApplication(ctx context.Context) (*Application, error) {
	wire.Build(
		config.Load,
		logger.New,
		newDatabaseConfig,
		newGormDB,
		newAuthValidator,
		chatSet,
		httpserver.New,
		NewApplication,
	)
	return nil, nil
}

func newDatabaseConfig(cfg *config.Config) database.Config {
	return database.Config{
		DSN:             cfg.DatabaseURL,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		ConnMaxLifetime: cfg.DBConnLifetime,
		LogLevel:        gormlogger.Warn,
	}
}

func newGormDB(ctx context.Context, cfg database.Config, log zerolog.Logger) (*gorm.DB, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, err
	}
	if err := database.AutoMigrate(ctx, db, log); err != nil {
		return nil, err
	}
	return db, nil
}

func newAuthValidator(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*auth.Validator, error) {
	return auth.NewValidator(ctx, cfg, log)
}

func newAIClient(cfg *config.Config) *aiprovider.Client {
	return aiprovider.NewClient(cfg.AIServiceURL, cfg.AIStreamMode, cfg.AIStreamTimeout)
}

func newIdentityService(cfg *config.Config, repo identity.Repository, log zerolog.Logger) identity.Service {
	return identity.NewService(repo, identity.TokenConfig{
		Secret: cfg.JWTSecret,
		Issuer: cfg.AuthIssuer,
		TTL:    cfg.JWTTTL,
	}, log)
}
