package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/caffeinepub/smartcare-connect/internal/authz"
	"github.com/caffeinepub/smartcare-connect/internal/config"
	adminHandler "github.com/caffeinepub/smartcare-connect/internal/handler/admin"
	delegationHandler "github.com/caffeinepub/smartcare-connect/internal/handler/delegation"
	doctorHandler "github.com/caffeinepub/smartcare-connect/internal/handler/doctor"
	profileHandler "github.com/caffeinepub/smartcare-connect/internal/handler/profile"
	recordHandler "github.com/caffeinepub/smartcare-connect/internal/handler/record"
	"github.com/caffeinepub/smartcare-connect/internal/identity"
	"github.com/caffeinepub/smartcare-connect/internal/middleware"
	"github.com/caffeinepub/smartcare-connect/internal/repository"
	"github.com/caffeinepub/smartcare-connect/internal/repository/memory"
	"github.com/caffeinepub/smartcare-connect/internal/repository/postgres"
	"github.com/caffeinepub/smartcare-connect/internal/router"
	adminService "github.com/caffeinepub/smartcare-connect/internal/service/admin"
	delegationService "github.com/caffeinepub/smartcare-connect/internal/service/delegation"
	"github.com/caffeinepub/smartcare-connect/internal/service/doctorview"
	"github.com/caffeinepub/smartcare-connect/internal/service/notification"
	profileService "github.com/caffeinepub/smartcare-connect/internal/service/profile"
	recordService "github.com/caffeinepub/smartcare-connect/internal/service/record"
	"github.com/caffeinepub/smartcare-connect/pkg/logger"
	"github.com/caffeinepub/smartcare-connect/pkg/messaging"
	redisbroker "github.com/caffeinepub/smartcare-connect/pkg/messaging/redis"
	"github.com/caffeinepub/smartcare-connect/pkg/metrics"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.NewLogger(&logger.Config{
		Level:      logger.ParseLevel(cfg.Log.Level),
		TimeFormat: time.RFC3339,
		Output:     os.Stdout,
	})

	// Initialize repositories
	profileRepo, recordRepo, delegationRepo, tierRepo, closeStore, err := buildStores(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize storage")
	}
	defer closeStore()

	// Initialize metrics
	appMetrics := metrics.NewMetrics("smartcare", "core")

	// Initialize message broker
	var broker messaging.Broker
	if cfg.Redis.URL != "" {
		broker, err = redisbroker.NewRedisBroker(redisbroker.Config{
			URL:          cfg.Redis.URL,
			MaxRetries:   3,
			RetryBackoff: 100 * time.Millisecond,
			PoolSize:     10,
			MinIdleConns: 2,
		}, appLogger.Zerolog())
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to Redis")
		}
		defer broker.Close()
	}

	// Initialize notifier
	var notifier notification.Service = notification.NoopService{}
	if cfg.SMTP.Host != "" {
		notifier = notification.NewEmailService(notification.SMTPConfig{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
		}, appLogger.Zerolog())
	}

	// Initialize services
	resolver := identity.NewResolver(profileRepo)
	engine := authz.NewEngine(profileRepo, delegationRepo, appMetrics)
	profileSvc := profileService.NewService(profileRepo, engine)
	recordSvc := recordService.NewService(recordRepo, profileRepo, engine, broker, notifier, appMetrics, appLogger.Zerolog())
	delegationSvc := delegationService.NewService(delegationRepo, profileRepo)
	doctorSvc := doctorview.NewService(profileRepo, recordRepo, resolver, appMetrics)
	adminSvc := adminService.NewService(tierRepo, profileRepo, cfg.Admin.BootstrapSecretHash)

	// Fresh alerts show up on the assigned doctor's next poll.
	recordSvc.OnAlert(doctorSvc.InvalidatePatient)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret)

	// Setup router
	r := router.NewRouter(
		authMiddleware,
		router.Config{
			RateLimit:  rate.Limit(cfg.RateLimit.RPS),
			RateBurst:  cfg.RateLimit.Burst,
			CORSConfig: middleware.DefaultCORSConfig(),
		},
		profileHandler.NewHandler(profileSvc, resolver),
		recordHandler.NewHandler(recordSvc),
		delegationHandler.NewHandler(delegationSvc),
		doctorHandler.NewHandler(doctorSvc),
		adminHandler.NewHandler(adminSvc),
	)
	r.Setup()

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: r.Engine(),
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Str("storage", cfg.Storage.Driver).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}

func buildStores(cfg *config.Config) (
	repository.ProfileRepository,
	repository.RecordRepository,
	repository.DelegationRepository,
	repository.TierRepository,
	func(),
	error,
) {
	switch cfg.Storage.Driver {
	case "", "memory":
		return memory.NewProfileStore(),
			memory.NewRecordStore(),
			memory.NewDelegationStore(),
			memory.NewTierStore(),
			func() {},
			nil
	case "postgres":
		db, err := postgres.NewDB(cfg.Storage.Database.DSN())
		if err != nil {
			return nil, nil, nil, nil, nil, err
		}
		if err := postgres.Migrate(db); err != nil {
			db.Close()
			return nil, nil, nil, nil, nil, err
		}
		return postgres.NewProfileRepository(db),
			postgres.NewRecordRepository(db),
			postgres.NewDelegationRepository(db),
			postgres.NewTierRepository(db),
			func() { db.Close() },
			nil
	default:
		return nil, nil, nil, nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}
