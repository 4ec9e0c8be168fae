package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/wardstock/wardstock-backend/internal/rebalance/client"
	"github.com/wardstock/wardstock-backend/internal/rebalance/events"
	"github.com/wardstock/wardstock-backend/internal/rebalance/handler"
	"github.com/wardstock/wardstock-backend/internal/rebalance/repository"
	"github.com/wardstock/wardstock-backend/internal/rebalance/service"
	"github.com/wardstock/wardstock-backend/pkg/config"
	"github.com/wardstock/wardstock-backend/pkg/database"
	"github.com/wardstock/wardstock-backend/pkg/httputil"
	"github.com/wardstock/wardstock-backend/pkg/logger"
	"github.com/wardstock/wardstock-backend/pkg/messaging"
)

func main() {
	// Load configuration with validation (fails fast in production if required config is missing)
	cfg, err := config.LoadWithValidation("rebalance-service")
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New("rebalance-service", cfg.Server.Environment)
	log.Info().Msg("starting Rebalance Service")

	// Connect to database
	db, err := database.New(&cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	// Connect to RabbitMQ
	rmq, err := messaging.New(&cfg.RabbitMQ, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to RabbitMQ")
	}
	defer rmq.Close()

	// Initialize event publisher
	publisher, err := events.NewRebalanceEventPublisher(rmq, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create event publisher")
	}

	// Initialize repositories
	stockRepo := repository.NewStockRepository(db)
	transferRepo := repository.NewTransferRepository(db)

	// Initialize the external AI recommender when enabled
	var remote service.RemoteRecommender
	if cfg.Recommender.Enabled {
		remote = client.NewRecommendationClient(cfg.Recommender.URL, cfg.Recommender.Timeout)
		log.Info().Str("url", cfg.Recommender.URL).Msg("AI recommender enabled")
	}

	// Initialize service
	rebalanceService := service.NewRebalanceService(remote, stockRepo, transferRepo, publisher, service.Options{
		SurplusMultiplier: cfg.Engine.SurplusMultiplier,
		SafetyMargin:      cfg.Engine.SafetyMargin,
		TopRoutes:         cfg.Engine.TopRoutes,
		MaxSuggestions:    cfg.Engine.MaxSuggestions,
		RemoteTimeout:     cfg.Recommender.Timeout,
	}, log)

	// Initialize handlers
	suggestionHandler := handler.NewSuggestionHandler(rebalanceService, log)
	analyticsHandler := handler.NewAnalyticsHandler(rebalanceService, log)

	// Create router
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RealIP)
	r.Use(httputil.RequestID)
	r.Use(httputil.Logger(log))
	r.Use(httputil.Recoverer(log))
	r.Use(cors.Handler(cors.Options{
		AllowOriginFunc: func(r *http.Request, origin string) bool {
			// The dashboard dev servers
			if origin == "http://localhost:3000" || origin == "http://localhost:5173" {
				return true
			}
			return strings.HasSuffix(origin, ".wardstock.app")
		},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.JSON(w, http.StatusOK, map[string]interface{}{
			"status":   "healthy",
			"service":  "rebalance-service",
			"database": db.Health(r.Context()),
			"rabbitmq": rmq.Health(),
		})
	})

	// API routes
	r.Route("/api/v1/rebalance", func(r chi.Router) {
		r.Route("/suggestions", func(r chi.Router) {
			r.Get("/", suggestionHandler.GenerateFromStore)
			r.Post("/", suggestionHandler.Generate)
		})

		r.Route("/analytics", func(r chi.Router) {
			r.Get("/report", analyticsHandler.ReportFromStore)
			r.Post("/report", analyticsHandler.Report)
		})
	})

	// Create server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server
	go func() {
		log.Info().Str("addr", addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
