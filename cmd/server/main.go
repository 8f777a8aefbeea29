package main

import (
	"context"
	"errors"
	"mcjmccartney/practice-app/internal/api"
	"mcjmccartney/practice-app/internal/config"
	"mcjmccartney/practice-app/internal/repository/mongo"
	"mcjmccartney/practice-app/internal/service"
	"mcjmccartney/practice-app/internal/storage"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// --- Logging ---
	output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	log.Logger = zerolog.New(output).With().Timestamp().Logger()

	log.Info().Msg("Starting practice app server...")

	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatal().Err(err).Msg("Could not load config")
	}
	log.Info().Msg("Configuration loaded.")

	// --- Database Connection ---
	dbClient, err := mongo.ConnectDB(cfg.Database.URI)
	if err != nil {
		log.Fatal().Err(err).Msg("Could not connect to MongoDB")
	}
	defer func() {
		log.Info().Msg("Disconnecting MongoDB...")
		if err := mongo.DisconnectDB(dbClient); err != nil {
			log.Error().Err(err).Msg("Failed to disconnect MongoDB")
		}
	}()
	appDB := dbClient.Database(cfg.Database.Name)
	log.Info().Msg("Database connection established.")

	// --- Ensure Indexes ---
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
		defer cancel()
		mongo.EnsureClientIndexes(ctx, appDB.Collection("clients"))
		mongo.EnsureSessionIndexes(ctx, appDB.Collection("sessions"))
		mongo.EnsureStaffIndexes(ctx, appDB.Collection("staff"))
		log.Info().Msg("Index creation process completed.")
	}()

	// --- Initialize Storage ---
	fileStorage, err := storage.NewS3Storage(cfg.S3)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize S3 storage")
	}

	// --- Initialize Repositories ---
	clientRepo := mongo.NewMongoClientRepository(appDB)
	sessionRepo := mongo.NewMongoSessionRepository(appDB)
	staffRepo := mongo.NewMongoStaffRepository(appDB)

	// --- Initialize Services ---
	summaryUpdater := service.NewSummaryUpdater(clientRepo, sessionRepo)
	authService := service.NewAuthService(staffRepo, cfg.JWT.Secret, cfg.JWT.Expiration)
	clientService := service.NewClientService(clientRepo, fileStorage, summaryUpdater)
	sessionService := service.NewSessionService(sessionRepo, clientRepo, summaryUpdater)
	financeService := service.NewFinanceService(sessionRepo)

	// --- Initialize Gin Engine ---
	// gin.SetMode(gin.ReleaseMode) // Uncomment for production
	router := gin.New()
	router.Use(api.RequestLogger(), gin.Recovery())

	// --- Setup Routes ---
	api.SetupRoutes(router, cfg.JWT.Secret, cfg.Intake.Token, authService, clientService, sessionService, financeService)

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	log.Info().Str("address", cfg.Server.Address).Msg("Server starting")

	// --- Graceful Shutdown ---
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("ListenAndServe error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	// Give in-flight requests 5 seconds to finish
	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exiting.")
}
