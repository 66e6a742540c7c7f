package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"fittrack/fitness-app/internal/api"
	"fittrack/fitness-app/internal/app"
	"fittrack/fitness-app/internal/config"

	"github.com/gin-gonic/gin"
)

const shutdownGrace = 5 * time.Second

func main() {
	if err := run(); err != nil {
		log.Fatalf("FATAL: %v", err)
	}
	log.Println("Server exiting.")
}

func run() error {
	log.Println("Starting FitTrack Server...")

	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("could not load config: %w", err)
	}
	if cfg.JWT.Secret == "" {
		return errors.New("jwt.secret (JWT_SECRET) must be set for the server")
	}
	log.Printf("INFO: Configuration loaded (storage driver %s, coach %s)", cfg.Storage.Driver, cfg.Coach.Provider)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	startCtx, cancelStart := context.WithTimeout(ctx, time.Minute)
	application, err := app.New(startCtx, cfg)
	cancelStart()
	if err != nil {
		return fmt.Errorf("could not initialize application: %w", err)
	}
	defer func() {
		if err := application.Close(); err != nil {
			log.Printf("ERROR: Failed to close storage: %v", err)
		}
	}()

	// GIN_MODE=release switches off debug output.
	router := gin.Default()
	api.SetupRoutes(router, application.Services)

	// Plan generation waits on the coach, so responses get its timeout plus headroom.
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      api.WithCORS(router, cfg.Server.CORSOrigins),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.Coach.Timeout + 30*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Printf("INFO: Listening on %s", cfg.Server.Address)
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Println("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("ERROR: Server forced to shutdown: %v", err)
	}
	return nil
}
