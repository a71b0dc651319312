package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goaltrack/backend/internal/client"
	"github.com/goaltrack/backend/internal/config"
	"github.com/goaltrack/backend/internal/db"
	"github.com/goaltrack/backend/internal/handler"
	"github.com/goaltrack/backend/internal/migrations"
	"github.com/goaltrack/backend/internal/service"
	"github.com/joho/godotenv"
)

// @title           goaltrack API
// @version         1.0
// @description     Task and goal tracking API with dual-token sessions.
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("[Main] No .env file loaded: %v", err)
	}

	cfg := config.Load()
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dsn, err := db.BuildPostgresURL()
	if err != nil {
		log.Fatalf("[Main] Invalid database config: %v", err)
	}
	if err := migrations.Run(ctx, dsn); err != nil {
		log.Fatalf("[Main] Migrations failed: %v", err)
	}

	pool, err := db.NewPostgresPool(ctx)
	if err != nil {
		log.Fatalf("[Main] Failed to connect to postgres: %v", err)
	}
	defer pool.Close()
	store := db.New(pool)

	googleVerifier, err := client.NewGoogleVerifier(ctx, cfg.Google)
	if err != nil {
		log.Fatalf("[Main] Failed to init google verifier: %v", err)
	}

	authService, err := service.NewAuthService(store, googleVerifier, cfg.Auth)
	if err != nil {
		log.Fatalf("[Main] Failed to init auth service: %v", err)
	}
	taskService := service.NewTaskService(store)
	goalService := service.NewGoalService(store)

	handlers := handler.Handlers{
		Auth: handler.NewAuthHandler(authService),
		Task: handler.NewTaskHandler(taskService),
		Goal: handler.NewGoalHandler(goalService),
	}

	// The suggestion feature degrades gracefully when no AI key is set.
	if suggestClient, err := client.NewSuggestClient(cfg.Suggest); err != nil {
		log.Printf("[Main] Suggestions disabled: %v", err)
	} else {
		handlers.Suggest = handler.NewSuggestHandler(service.NewSuggestionService(store, suggestClient))
	}

	sweepInterval, err := time.ParseDuration(cfg.Auth.SweepInterval)
	if err != nil {
		log.Fatalf("[Main] Invalid TOKEN_SWEEP_INTERVAL: %v", err)
	}
	go service.NewTokenSweeper(store, sweepInterval).Run(ctx)

	router := gin.Default()
	origins := strings.Split(cfg.Server.AllowedOrigins, ",")
	handler.Register(router, handlers, authService.Issuer(), store, origins)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		log.Printf("[Main] Server starting on port :%s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("[Main] Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("[Main] Shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[Main] Forced shutdown: %v", err)
		os.Exit(1)
	}
	log.Println("[Main] Server exited")
}
