package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/wanderlyst/backend/internal/adapters/database"
	"github.com/wanderlyst/backend/internal/api/handlers"
	"github.com/wanderlyst/backend/internal/api/routes"
	"github.com/wanderlyst/backend/internal/application/services"
	"github.com/wanderlyst/backend/internal/domain/providers"
	"github.com/wanderlyst/backend/internal/infrastructure/auth"
	"github.com/wanderlyst/backend/internal/infrastructure/clients/postgres"
	"github.com/wanderlyst/backend/internal/infrastructure/media"
	"github.com/wanderlyst/backend/internal/infrastructure/notifications"
	"github.com/wanderlyst/backend/internal/infrastructure/observability"
	"github.com/wanderlyst/backend/pkg/config"
)

func main() {

	// Load configuration

	cfg, err := config.Load()

	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	observability.InitLogger(cfg.OTEL.ServiceName, os.Getenv("APP_ENV"))

	// Set up context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry if enabled
	if cfg.OTEL.Enabled {
		shutdown, err := observability.Setup(
			ctx,
			cfg.OTEL.ServiceName,
			cfg.OTEL.ServiceVersion,
		)
		if err != nil {
			log.Printf("Warning: Failed to set up OpenTelemetry: %v", err)
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					log.Printf("Error shutting down OpenTelemetry: %v", err)
				}
			}()
			log.Println("OpenTelemetry initialized successfully")
		}
	}

	// Initialize metrics
	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatalf("Failed to initialize metrics: %v", err)
	}

	// Initialize database client
	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize PostgreSQL client: %v", err)
	}
	defer pgClient.Close()
	log.Println("PostgreSQL client initialized successfully")

	// Initialize adapters

	userAdapter := database.NewUserAdapter(pgClient)
	signupTokenAdapter := database.NewSignupTokenAdapter(pgClient)
	tourAdapter := database.NewTourAdapter(pgClient)
	bookingAdapter := database.NewBookingAdapter(pgClient)
	reviewAdapter := database.NewReviewAdapter(pgClient)
	queryAdapter := database.NewQueryAdapter(pgClient)

	// Initialize providers

	tokenProvider, err := auth.NewJWTProvider(&cfg.Auth)
	if err != nil {
		log.Fatalf("Failed to initialize token provider: %v", err)
	}

	hasher := auth.NewBcryptHasher()

	imageStore, err := media.NewLocalStore(&cfg.Media)
	if err != nil {
		log.Fatalf("Failed to initialize image store: %v", err)
	}

	var mailer providers.Mailer
	if cfg.Mail.APIURL == "" || cfg.Mail.APIKey == "" {
		log.Println("Warning: mail API not configured; outbound mail will only be logged")
		mailer = notifications.NewLogMailer()
	} else {
		mailer, err = notifications.NewHTTPMailSender(&cfg.Mail)
		if err != nil {
			log.Fatalf("Failed to initialize mail sender: %v", err)
		}
		log.Println("Mail sender initialized successfully")
	}

	// Initialize services

	userService := services.NewUserService(
		userAdapter,
		signupTokenAdapter,
		hasher,
		tokenProvider,
		mailer,
		imageStore,
	)

	tourService := services.NewTourService(tourAdapter, userAdapter, imageStore)

	bookingService := services.NewBookingService(bookingAdapter, tourAdapter, userAdapter)

	reviewService := services.NewReviewService(reviewAdapter, tourAdapter)

	queryService := services.NewQueryService(queryAdapter, mailer)

	// Initialize handlers

	userHandler := handlers.NewUserHandler(userService)

	tourHandler := handlers.NewTourHandler(tourService)

	bookingHandler := handlers.NewBookingHandler(bookingService, metrics)

	reviewHandler := handlers.NewReviewHandler(reviewService, metrics)

	queryHandler := handlers.NewQueryHandler(queryService)

	// Set up router

	router := routes.NewRouter(
		userHandler,
		tourHandler,
		bookingHandler,
		reviewHandler,
		queryHandler,
		tokenProvider,
		metrics,
	)

	handler := router.SetupRoutes()

	// Serve uploaded images next to the API
	root := http.NewServeMux()
	root.Handle("/media/", http.StripPrefix("/media/", http.FileServer(http.Dir(cfg.Media.BaseDir))))
	root.Handle("/", handler)

	// Create HTTP server
	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      root,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Server starting on %s", serverAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error during server shutdown: %v", err)
	}

	log.Println("Server stopped")
}
