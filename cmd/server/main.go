// Package main starts the to-do list web server.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/99minutos/todolist/internal/api"
	"github.com/99minutos/todolist/internal/api/handler"
	"github.com/99minutos/todolist/internal/core/service"
	mongodb "github.com/99minutos/todolist/internal/infrastructure/db/mongo"
	redisdb "github.com/99minutos/todolist/internal/infrastructure/db/redis"
	"github.com/99minutos/todolist/internal/infrastructure/queue"
	"github.com/99minutos/todolist/internal/pkg/config"
	"github.com/99minutos/todolist/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "todolist",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return err
	}
	defer func() {
		dctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := mongoClient.Disconnect(dctx); err != nil {
			log.Error().Err(err).Msg("mongo disconnect")
		}
	}()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	if err != nil {
		return err
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			log.Error().Err(err).Msg("redis close")
		}
	}()

	users := mongodb.NewUserRepository(db)
	lists := mongodb.NewListRepository(db)
	if err := mongodb.EnsureIndexes(ctx, users, lists); err != nil {
		return err
	}

	dispatcher := queue.NewDispatcher(cfg.Lists.Workers, log)
	dispatcher.Start(context.WithoutCancel(ctx))
	defer dispatcher.Stop()

	listService := service.NewListService(lists, dispatcher, cfg.Lists.AllowAnonymousDelete, log)
	authService := service.NewAuthService(users, redisdb.NewSessionStore(rdb), listService, service.AuthConfig{
		SessionSecret: cfg.Session.Secret,
		SessionTTL:    cfg.Session.TTL,
		BcryptCost:    cfg.Session.BcryptCost,
	}, log)

	e := api.NewRouter(api.Deps{
		Auth:  authService,
		Lists: listService,
		Checks: []handler.Check{
			{Name: "mongodb", Ping: func(ctx context.Context) error { return mongoClient.Ping(ctx, nil) }},
			{Name: "redis", Ping: func(ctx context.Context) error { return rdb.Ping(ctx).Err() }},
		},
		Log: log,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Msg("server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(sctx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}
