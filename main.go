package main

import (
	"context"
	"time"

	"go.uber.org/zap"

	api "omnicall-backend/cmd/api"
	devicedomain "omnicall-backend/internal/device/domain"
	deviceRepo "omnicall-backend/internal/device/repository"
	deviceUsecase "omnicall-backend/internal/device/usecase"
	feedbackdomain "omnicall-backend/internal/feedback/domain"
	feedbackRepo "omnicall-backend/internal/feedback/repository"
	feedbackUsecase "omnicall-backend/internal/feedback/usecase"
	"omnicall-backend/internal/notify/ingest"
	notifyRepo "omnicall-backend/internal/notify/repository"
	notifyUsecase "omnicall-backend/internal/notify/usecase"
	pairingdomain "omnicall-backend/internal/pairing/domain"
	pairingRepo "omnicall-backend/internal/pairing/repository"
	pairingUsecase "omnicall-backend/internal/pairing/usecase"
	statsdomain "omnicall-backend/internal/stats/domain"
	statsRepo "omnicall-backend/internal/stats/repository"
	statsUsecase "omnicall-backend/internal/stats/usecase"
	"omnicall-backend/pkg/config"
	"omnicall-backend/pkg/database"
	"omnicall-backend/pkg/fcm"
)

func main() {
	// Load configuration
	cfg := config.Load()

	logger, _ := zap.NewProduction()
	defer func() { _ = logger.Sync() }()

	// Initialize database
	db, err := database.NewPostgresConnection(cfg)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}

	// Auto-migrate database schemas
	if err := db.AutoMigrate(
		&pairingdomain.User{},
		&devicedomain.DeviceToken{},
		&statsdomain.GlobalStats{},
		&statsdomain.DailyStats{},
		&feedbackdomain.Feedback{},
	); err != nil {
		logger.Fatal("failed to migrate database", zap.Error(err))
	}

	// Day buckets for usersToday are computed in a fixed reference zone.
	loc, err := time.LoadLocation(cfg.StatsTimezone)
	if err != nil {
		logger.Fatal("invalid stats timezone", zap.String("timezone", cfg.StatsTimezone), zap.Error(err))
	}

	// Initialize repositories (dependency injection)
	userRepository := pairingRepo.NewUserRepository(db)
	tokenRepository := deviceRepo.NewTokenRepository(db)
	dedupRepository := notifyRepo.NewDedupRepository(db)
	statsRepository := statsRepo.NewStatsRepository(db, loc)
	feedbackRepository := feedbackRepo.NewFeedbackRepository(db)

	// Initialize FCM client. The server runs without it for local development,
	// but every dispatch will fail at the transport boundary.
	var pushSender notifyUsecase.PushSender
	if cfg.FirebaseCredentials != "" {
		fcmClient, err := fcm.NewClient(cfg.FirebaseCredentials, logger)
		if err != nil {
			logger.Fatal("failed to initialize FCM client", zap.Error(err))
		}
		pushSender = fcmClient
	} else {
		logger.Warn("no Firebase credentials configured, push delivery disabled")
		pushSender = fcm.NoopSender{}
	}

	// Initialize use cases (dependency injection)
	statsUc := statsUsecase.NewStatsUsecase(statsRepository, userRepository, logger)
	pairingUc := pairingUsecase.NewPairingUsecase(userRepository, statsRepository, cfg.PairingBaseURL, logger)
	deviceUc := deviceUsecase.NewDeviceUsecase(tokenRepository, userRepository, logger)
	notifyUc := notifyUsecase.NewNotifyUsecase(tokenRepository, dedupRepository, pushSender, statsUc, cfg.PairingBaseURL, logger)
	feedbackUc := feedbackUsecase.NewFeedbackUsecase(feedbackRepository, logger)

	// Optional Pub/Sub ingestion of detector match events
	if cfg.GoogleProjectID != "" {
		subscriber, err := ingest.NewSubscriber(cfg.GoogleProjectID, cfg.PubSubTopic, notifyUc, cfg.FirebaseCredentials, logger)
		if err != nil {
			logger.Error("failed to initialize match event subscriber", zap.Error(err))
		} else {
			go subscriber.Start(context.Background())
		}
	} else {
		logger.Info("GOOGLE_PROJECT_ID not configured, match event subscriber disabled")
	}

	// Initialize HTTP handler and start server
	handler := api.NewHandler(pairingUc, deviceUc, notifyUc, statsUc, feedbackUc, cfg)

	logger.Info("server starting", zap.String("port", cfg.Port))
	if err := handler.Start(":" + cfg.Port); err != nil {
		logger.Fatal("failed to start server", zap.Error(err))
	}
}
