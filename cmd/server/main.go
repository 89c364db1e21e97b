package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"nepa-bknd/internal/config"
	"nepa-bknd/internal/database"
	"nepa-bknd/internal/events"
	"nepa-bknd/internal/logger"
	"nepa-bknd/internal/notify"
	"nepa-bknd/internal/realtime"
	"nepa-bknd/internal/routes"

	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()
	logr := logger.New(cfg)
	db, err := database.New(cfg.DatabaseURL, cfg)
	if err != nil {
		logr.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	bus := events.NewBus()

	runCtx, stop := context.WithCancel(context.Background())
	defer stop()

	hub := realtime.NewHub(bus, logr.Logger, cfg.AllowedOrigins)
	go hub.Run(runCtx)

	dispatcher := notify.NewLogDispatcher(logr.Logger)
	go notify.NewRunner(bus, dispatcher, logr.Logger).Run(runCtx)

	r := routes.NewRouter(db, cfg, logr, bus, hub)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logr.Info("server started", zap.String("port", cfg.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logr.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logr.Info("shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logr.Fatal("server forced to shutdown", zap.Error(err))
	}

	stop()
	_ = db.Close()
	logr.Info("server exited gracefully")
}
