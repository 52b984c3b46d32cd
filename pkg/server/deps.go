package server

import (
	"context"
	"fmt"

	"github.com/arnavshah/double-bubble-api-go/pkg/auth"
	"github.com/arnavshah/double-bubble-api-go/pkg/config"
	"github.com/arnavshah/double-bubble-api-go/pkg/database"
	"github.com/arnavshah/double-bubble-api-go/pkg/handlers"
	"github.com/arnavshah/double-bubble-api-go/pkg/results"
	"go.uber.org/zap"
)

// NewHandler opens the database and result store described by cfg. The
// returned cleanup closes the result store connection, if any.
func NewHandler(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*handlers.Handler, func(), error) {
	db, err := database.Open(cfg.DatabaseURL, cfg.DataPath)
	if err != nil {
		return nil, nil, err
	}

	created, err := auth.EnsureAdminExists(db, cfg.AdminUsername, cfg.AdminPassword)
	if err != nil {
		return nil, nil, fmt.Errorf("ensure admin: %w", err)
	}
	if created {
		logger.Info("default admin user created", zap.String("username", cfg.AdminUsername))
	}

	cleanup := func() {}
	var store results.Store
	if cfg.RedisURL != "" {
		rs, err := results.NewRedisStore(ctx, cfg.RedisURL, cfg.ResultTTL)
		if err != nil {
			return nil, nil, err
		}
		store = rs
		cleanup = func() { _ = rs.Close() }
		logger.Info("publishing runs to redis")
	} else {
		store = results.NewMemoryStore(cfg.ResultTTL)
		logger.Info("publishing runs in memory")
	}

	if cfg.JWTSecret == "" || cfg.APIMasterSecret == "" {
		logger.Warn("JWT_SECRET or API_MASTER_SECRET is empty; tokens and keys are not secure")
	}

	return &handlers.Handler{
		DB:            db,
		Signer:        auth.NewSigner(cfg.JWTSecret, cfg.APIMasterSecret),
		Store:         store,
		Logger:        logger,
		Defaults:      cfg.Analysis,
		AdminUsername: cfg.AdminUsername,
		AdminPassword: cfg.AdminPassword,
	}, cleanup, nil
}
