package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	"task-board-backend/pkg/auth"
	"task-board-backend/pkg/config"
	"task-board-backend/pkg/core"
	"task-board-backend/pkg/database"
	"task-board-backend/pkg/handlers"
	"task-board-backend/pkg/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	logger := newLogger(cfg)

	store, closeStore, err := newStore(cfg, logger)
	if err != nil {
		logger.Fatalf("init store: %v", err)
	}
	defer closeStore()

	svc := core.NewService(store, auth.NewPasswordManager(), logger)
	jwtService := utils.NewJWTService(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	router := handlers.NewRouter(cfg, svc, jwtService, logger)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.WithFields(log.Fields{
			"port":        cfg.Port,
			"environment": cfg.Environment,
		}).Info("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Errorf("forced shutdown: %v", err)
	}
}

func newLogger(cfg *config.Config) *log.Logger {
	logger := log.New()
	if cfg.IsProduction() {
		logger.SetFormatter(&log.JSONFormatter{})
	} else {
		logger.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = log.InfoLevel
	}
	if cfg.Debug {
		level = log.DebugLevel
	}
	logger.SetLevel(level)
	return logger
}

func newStore(cfg *config.Config, logger *log.Logger) (core.Store, func(), error) {
	if cfg.UseMemoryStore {
		logger.Warn("using in-memory store; data will not survive restarts")
		return database.NewMemoryStore(), func() {}, nil
	}

	pg, err := database.NewPostgresStore(cfg.PostgresDSN)
	if err != nil {
		return nil, nil, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pg.Ping(ctx); err != nil {
		pg.Close()
		return nil, nil, err
	}
	return pg, func() { pg.Close() }, nil
}
