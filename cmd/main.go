package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rallydesk/rallydesk/config"
	"github.com/rallydesk/rallydesk/db"
	"github.com/rallydesk/rallydesk/engine"
	"github.com/rallydesk/rallydesk/handlers"
	"github.com/rallydesk/rallydesk/live"
	"github.com/rallydesk/rallydesk/repositories"
	api "github.com/rallydesk/rallydesk/routes"
	"github.com/rallydesk/rallydesk/services"
	"github.com/rallydesk/rallydesk/storage"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		}
	}()
	logger.Info("database connection established")

	var uploader storage.FileUploader
	if cfg.R2Configured() {
		uploader, err = storage.NewCloudflareR2Uploader(storage.CloudflareR2UploaderConfig{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			BucketName:      cfg.R2BucketName,
			PublicBaseURL:   cfg.R2PublicBaseURL,
		})
		if err != nil {
			logger.Error("failed to initialize Cloudflare R2 uploader", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("Cloudflare R2 uploader initialized")
	} else {
		logger.Warn("object storage not configured, logo uploads disabled")
	}

	hub := live.NewHub(logger)
	go hub.Run()
	logger.Info("websocket hub started")

	userRepo := repositories.NewPostgresUserRepository()
	playerRepo := repositories.NewPostgresPlayerRepository()
	teamRepo := repositories.NewPostgresTeamRepository()
	tournamentRepo := repositories.NewPostgresTournamentRepository()
	divisionRepo := repositories.NewPostgresDivisionRepository()
	resourceRepo := repositories.NewPostgresResourceRepository()
	competitionRepo := repositories.NewPostgresCompetitionRepository()
	matchRepo := repositories.NewPostgresMatchRepository()

	jwtSecret := []byte(cfg.JWTSecretKey)
	emailSender := services.NewSMTPEmailSender(cfg)
	orderer := engine.NewSeedOrderer(nil)

	authService := services.NewAuthService(dbConn, userRepo, emailSender, jwtSecret, logger)
	tournamentService := services.NewTournamentService(dbConn, tournamentRepo, competitionRepo, divisionRepo, uploader, logger)
	divisionService := services.NewDivisionService(dbConn, divisionRepo, tournamentRepo)
	resourceService := services.NewResourceService(dbConn, resourceRepo, tournamentRepo)
	playerService := services.NewPlayerService(dbConn, playerRepo)
	teamService := services.NewTeamService(dbConn, teamRepo, playerRepo)
	csvService := services.NewCSVService(dbConn, playerRepo, divisionRepo)
	competitionService := services.NewCompetitionService(dbConn, competitionRepo, tournamentRepo)
	drawService := services.NewDrawService(dbConn, competitionRepo, matchRepo, playerRepo, orderer, hub, logger)
	matchService := services.NewMatchService(dbConn, matchRepo, competitionRepo, playerRepo, teamRepo, hub, logger)
	standingsService := services.NewStandingsService(dbConn, matchRepo, competitionRepo)
	dashboardService := services.NewDashboardService(dbConn, playerRepo, teamRepo, competitionRepo, matchRepo, tournamentRepo)
	logger.Info("services initialized")

	authHandler := handlers.NewAuthHandler(authService)
	tournamentHandler := handlers.NewTournamentHandler(tournamentService, divisionService, resourceService)
	playerHandler := handlers.NewPlayerHandler(playerService, teamService, csvService)
	competitionHandler := handlers.NewCompetitionHandler(competitionService, drawService, standingsService)
	matchHandler := handlers.NewMatchHandler(matchService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)
	webSocketHandler := handlers.NewWebSocketHandler(hub, logger)

	router := chi.NewRouter()
	api.SetupRoutes(
		router,
		jwtSecret,
		authHandler,
		tournamentHandler,
		playerHandler,
		competitionHandler,
		matchHandler,
		dashboardHandler,
		webSocketHandler,
	)
	logger.Info("routes configured")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			os.Exit(1)
		}
		logger.Info("server shutdown complete")
	}
}
