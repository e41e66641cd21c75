package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	cfgPkg "smart-contact-form/config"
	"smart-contact-form/internal/database"
	handlerPkg "smart-contact-form/internal/handler"
	metricsPkg "smart-contact-form/internal/metrics"
	"smart-contact-form/internal/router"
	"smart-contact-form/internal/service"
	"smart-contact-form/internal/stats"
	"smart-contact-form/internal/store"
	"smart-contact-form/internal/token"
)

func main() {
	uninstall := flag.Bool("uninstall", false, "drop the submissions table and exit")
	flag.Parse()

	// Configure logging
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetLevel(logrus.InfoLevel)

	logrus.Info("Starting Smart Contact Form Service")

	// Load configuration
	cfg, err := cfgPkg.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		logrus.Fatalf("Configuration validation failed: %v", err)
	}

	// Open database connection
	db, err := database.Open(cfg.Database)
	if err != nil {
		logrus.Fatalf("Failed to open database: %v", err)
	}

	submissionStore := store.New(db)

	// Uninstall mode: tear down storage and exit
	if *uninstall {
		if err := submissionStore.DropAll(); err != nil {
			logrus.Fatalf("Uninstall failed: %v", err)
		}
		logrus.Info("Uninstall completed")
		return
	}

	// Install: ensure the submissions table exists
	if err := submissionStore.EnsureSchema(); err != nil {
		logrus.Fatalf("Failed to ensure schema: %v", err)
	}

	// Initialize metrics
	metrics := metricsPkg.NewMetrics()

	// Initialize submission service
	submissionService := service.New(submissionStore, metrics)

	// Initialize form token issuer
	tokens := token.NewIssuer(cfg.Security.TokenSecret, cfg.Security.TokenTTL)

	// Initialize stats refresher
	refresher := stats.NewRefresher(cfg.Stats.IntervalMinutes, submissionStore, metrics)

	// Initialize HTTP handlers
	handlers := handlerPkg.NewHandlers(db, submissionService, refresher, tokens, metrics, cfg)

	// Setup HTTP server
	r := router.SetupRouter(handlers)
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start stats refresher
	if err := refresher.Start(); err != nil {
		logrus.Fatalf("Failed to start stats refresher: %v", err)
	}

	// Start HTTP server in a goroutine
	go func() {
		logrus.Infof("Starting HTTP server on port %s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("HTTP server error: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Stop stats refresher
	if err := refresher.Stop(); err != nil {
		logrus.Errorf("Failed to stop stats refresher: %v", err)
	}

	// Shutdown HTTP server
	if err := server.Shutdown(ctx); err != nil {
		logrus.Errorf("HTTP server shutdown error: %v", err)
	}

	logrus.Info("Server stopped gracefully")
}
