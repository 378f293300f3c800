package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/CLDWare/methods-lab/api"
	"github.com/CLDWare/methods-lab/config"
	"github.com/CLDWare/methods-lab/internal/i18n"
	"github.com/CLDWare/methods-lab/internal/janitor"
	"github.com/CLDWare/methods-lab/internal/realtime"
	"github.com/CLDWare/methods-lab/internal/scenario"
	models "github.com/CLDWare/methods-lab/pkg/db"
	"github.com/CLDWare/methods-lab/pkg/logger"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file if it exists
	envErr := godotenv.Load()

	// Force reload configuration after .env is loaded
	config.ForceReload()

	// Load configuration
	cfg := config.Get()

	// Initialize logger with the updated configuration
	logger.Init()
	if envErr != nil {
		logger.Info(".env file not found, proceeding with environment variables")
	}

	if err := scenario.Validate(); err != nil {
		logger.Err("Scenario catalog is inconsistent:", err)
		os.Exit(1)
	}
	if err := i18n.Init(cfg.App.Language); err != nil {
		logger.Err(err)
		os.Exit(1)
	}

	// Initialise Database
	db, err := models.InitialiseDatabase(cfg.Database.Path)
	if err != nil {
		logger.Err(err)
		os.Exit(1)
	}

	// Change feed shared by the api and the janitor
	hub := realtime.NewHub(cfg.Realtime.Buffer)
	defer hub.Close()

	// Create interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// Create API instance
	apiInstance := api.NewAPI(cfg, db, hub)

	// Initialize the janitor
	jan := janitor.NewJanitor(cfg, apiInstance.Store(), false)
	jan.Start()
	defer jan.Stop()

	// Create mux with routes
	mux := apiInstance.CreateMux()

	// Apply middleware
	handler := api.ApplyMiddleware(mux)

	// Server configuration
	server := &http.Server{
		Addr:         cfg.GetServerAddress(),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}
	// websockets are tracked by the realtime handler, not the server
	server.RegisterOnShutdown(apiInstance.Close)

	// Start server in a goroutine
	go func() {
		logger.Info("Starting server on", server.Addr)
		logger.Info("Public URL:", cfg.Server.PublicURL)
		logger.Info("Environment:", cfg.App.Environment)
		logger.Info("Debug mode:", cfg.App.Debug)
		logger.Info("Presenter login:", cfg.OAuth.Enabled())
		logger.Info("Application:", cfg.App.Name, "v"+cfg.App.Version)

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Err("Server failed to start:", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	<-quit

	logger.Info("Shutting down server...")

	// Create a deadline for shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Attempt graceful shutdown
	if err := server.Shutdown(ctx); err != nil {
		logger.Err("Server forced to shutdown:", err)
		os.Exit(1)
	}

	logger.Info("Server exited")
}
