package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog/log"

	"github.com/myway/panel-api/internal/config"
	authHandler "github.com/myway/panel-api/internal/handler/auth"
	backupHandler "github.com/myway/panel-api/internal/handler/backup"
	collectionHandler "github.com/myway/panel-api/internal/handler/collection"
	documentHandler "github.com/myway/panel-api/internal/handler/document"
	"github.com/myway/panel-api/internal/handler/health"
	notificationHandler "github.com/myway/panel-api/internal/handler/notification"
	patientHandler "github.com/myway/panel-api/internal/handler/patient"
	promHandler "github.com/myway/panel-api/internal/handler/prometheus"
	queueHandler "github.com/myway/panel-api/internal/handler/queue"
	"github.com/myway/panel-api/internal/middleware"
	"github.com/myway/panel-api/internal/repository/postgres"
	"github.com/myway/panel-api/internal/router"
	authService "github.com/myway/panel-api/internal/service/auth"
	backupService "github.com/myway/panel-api/internal/service/backup"
	"github.com/myway/panel-api/internal/service/document"
	notificationService "github.com/myway/panel-api/internal/service/notification"
	patientService "github.com/myway/panel-api/internal/service/patient"
	queueService "github.com/myway/panel-api/internal/service/queue"
	"github.com/myway/panel-api/internal/service/store"
	"github.com/myway/panel-api/pkg/auth"
	"github.com/myway/panel-api/pkg/logger"
	"github.com/myway/panel-api/pkg/messaging"
	"github.com/myway/panel-api/pkg/messaging/memory"
	"github.com/myway/panel-api/pkg/messaging/redis"
	"github.com/myway/panel-api/pkg/metrics"
	"github.com/myway/panel-api/pkg/security"
)

const metricsNamespace = "myway_api"

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	appLog := logger.NewLogger(cfg.Log.ToLoggerConfig())
	log.Logger = *appLog.Zerolog()

	// Initialize database
	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	// Change events fan out through Redis so every API instance refreshes
	// its subscribers. Without Redis a single instance works in-process.
	var broker messaging.Broker
	var brokerCheck health.Check
	if cfg.Redis.URL != "" {
		rb, err := redis.NewRedisBroker(cfg.Redis.ToBrokerConfig(), appLog.Zerolog())
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to Redis")
		}
		broker, brokerCheck = rb, rb.Ping
	} else {
		appLog.Warn("redis.url is empty, using in-process broker")
		broker = memory.NewBroker()
	}
	defer broker.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.NewMetrics(metricsNamespace, reg)

	// Initialize repositories
	tx := postgres.NewTransactor(db)
	patientRepo := postgres.NewPatientRepository(db)
	queueRepo := postgres.NewQueueRepository(db)
	jobRepo := postgres.NewNotificationJobRepository(db)
	operatorRepo := postgres.NewOperatorRepository(db)

	// Initialize services
	hub := store.NewHub(broker, patientRepo, queueRepo, appLog, m)
	notifier := notificationService.NewService(jobRepo, appLog, m)
	patientSvc := patientService.NewService(tx, patientRepo, hub, notifier, appLog)
	queueSvc := queueService.NewService(tx, queueRepo, patientRepo, hub, notifier, appLog)
	backupSvc := backupService.NewService(tx, patientRepo, queueRepo, hub, appLog)
	documentSvc := document.NewService(document.NewFontLoader(cfg.Documents.ToFontConfig()), appLog, m)
	authSvc := authService.NewService(
		operatorRepo,
		security.NewBcryptHasher(cfg.Auth.BcryptCost),
		auth.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.TokenTTL),
		authService.NewAllowList(cfg.Auth.AllowedEmails),
		cfg.Auth.TokenTTL,
		appLog,
	)

	checks := map[string]health.Check{"database": db.PingContext}
	if brokerCheck != nil {
		checks["redis"] = brokerCheck
	}

	handlers := router.Handlers{
		Auth:          authHandler.NewHandler(authSvc),
		Patients:      patientHandler.NewHandler(patientSvc, documentSvc),
		Queue:         queueHandler.NewHandler(queueSvc),
		Collections:   collectionHandler.NewHandler(hub),
		Documents:     documentHandler.NewHandler(documentSvc),
		Backup:        backupHandler.NewHandler(backupSvc),
		Notifications: notificationHandler.NewHandler(notifier),
		Health:        health.NewHandler(checks),
		Metrics:       promHandler.New(reg, m),
	}

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowOrigins = cfg.CORS.AllowedOrigins

	r := router.NewRouter(middleware.NewAuthMiddleware(authSvc), handlers, router.RouterConfig{
		RateLimitEnabled: cfg.RateLimit.Enabled,
		RateLimit: middleware.RateLimiterConfig{
			RPS:   cfg.RateLimit.RequestsPerSecond,
			Burst: cfg.RateLimit.Burst,
		},
		CORS:           corsCfg,
		Security:       middleware.DefaultSecurityConfig(),
		Validation:     middleware.DefaultValidationConfig(),
		RequestTimeout: cfg.Server.RequestTimeout,
		MaxBodyBytes:   cfg.Server.MaxBodyBytes,
		MaxImportBytes: cfg.Server.MaxImportBytes,
	})
	r.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	// WriteTimeout stays zero by default; snapshot streams are long lived.
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		BaseContext:  func(_ net.Listener) context.Context { return ctx },
	}

	go func() {
		appLog.Info("server listening", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	// Cancelling the base context ends open streams so Shutdown can finish.
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}
