package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/identikit/identity-server/internal/api"
	"github.com/identikit/identity-server/internal/core/ports"
	"github.com/identikit/identity-server/internal/infrastructure/db/mongo"
	"github.com/identikit/identity-server/internal/infrastructure/db/mysql"
	"github.com/identikit/identity-server/internal/infrastructure/db/redis"
	"github.com/identikit/identity-server/internal/infrastructure/queue"
	"github.com/identikit/identity-server/internal/pkg/config"
	"github.com/identikit/identity-server/pkg/logger"
)

// @title Identity Server API
// @version 1.0
// @description User registration, authentication, and role management service.
// @BasePath /
func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.Env == "development",
		Service: "identity-server",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := mysql.Open(mysql.Config{
		Host:     cfg.MySQL.Host,
		Port:     cfg.MySQL.Port,
		User:     cfg.MySQL.User,
		Password: cfg.MySQL.Password,
		Database: cfg.MySQL.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mysql connection failed")
	}
	defer db.Close()

	// Redis backs the role cache. The service runs without it; reads just
	// go straight to MySQL.
	rdb, err := redis.Connect(ctx, redis.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Warn().Err(err).Msg("redis unavailable, role cache disabled")
		rdb = nil
	} else {
		defer rdb.Close()
	}

	// MongoDB holds the audit trail. Like the cache it is optional: without
	// it audit events are simply not recorded.
	var audit ports.AuditRecorder
	mongoClient, mongoDB, err := mongo.Connect(ctx, mongo.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Warn().Err(err).Msg("mongodb unavailable, audit trail disabled")
		mongoDB = nil
	} else {
		defer mongoClient.Disconnect(context.Background())
		dispatcher := queue.NewAuditDispatcher(cfg.AuditWorkers, mongo.NewAuditRepository(mongoDB), log)
		dispatcher.Start(ctx)
		audit = dispatcher
	}

	e := api.NewRouter(api.Config{
		DB:            db,
		Redis:         rdb,
		Mongo:         mongoDB,
		Audit:         audit,
		JWTSecret:     cfg.JWT.Secret,
		JWTIssuer:     cfg.JWT.Issuer,
		JWTAudience:   cfg.JWT.Audience,
		TokenTTL:      cfg.JWT.TTL,
		DefaultRoleID: cfg.DefaultRoleID,
		Log:           log,
	})

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("identity server started")

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), api.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
