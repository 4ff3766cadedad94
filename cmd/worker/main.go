package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog/log"

	"github.com/myway/panel-api/internal/config"
	"github.com/myway/panel-api/internal/email"
	"github.com/myway/panel-api/internal/handler/health"
	promHandler "github.com/myway/panel-api/internal/handler/prometheus"
	"github.com/myway/panel-api/internal/integration/getresponse"
	"github.com/myway/panel-api/internal/integration/mywaypoint"
	"github.com/myway/panel-api/internal/integration/resend"
	"github.com/myway/panel-api/internal/middleware"
	"github.com/myway/panel-api/internal/repository/postgres"
	"github.com/myway/panel-api/internal/service/notification"
	jobWorker "github.com/myway/panel-api/internal/worker"
	"github.com/myway/panel-api/pkg/logger"
	"github.com/myway/panel-api/pkg/metrics"
	"github.com/myway/panel-api/pkg/worker"
)

const (
	metricsNamespace = "myway_worker"
	cleanupInterval  = time.Hour
)

func newMailer(cfg config.NotificationsConfig) (email.Sender, error) {
	switch cfg.Transport {
	case "resend", "":
		if cfg.Resend.APIKey == "" {
			return nil, errors.New("notifications.resend.api_key is required (set MYWAY_RESEND_API_KEY)")
		}
		client := resend.NewClient(resend.Config{
			BaseURL: cfg.Resend.BaseURL,
			APIKey:  cfg.Resend.APIKey,
			Timeout: cfg.Resend.Timeout,
		})
		return email.NewResendSender(client, cfg.AlertSender), nil
	case "smtp":
		return email.NewSMTPSender(email.SMTPConfig{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
		}, cfg.AlertSender), nil
	default:
		return nil, fmt.Errorf("unknown notifications.transport %q", cfg.Transport)
	}
}

// serveOps exposes health and metrics for the worker.
func serveOps(port int, checks map[string]health.Check, reg *prometheus.Registry, m *metrics.Metrics) *http.Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(middleware.Recovery())

	health.NewHandler(checks).RegisterRoutes(engine)
	engine.GET("/metrics", promHandler.New(reg, m).Handler())

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           engine,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("ops server failed")
		}
	}()
	return srv
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	appLog := logger.NewLogger(cfg.Log.ToLoggerConfig())
	log.Logger = *appLog.Zerolog()

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	mailer, err := newMailer(cfg.Notifications)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to configure mail transport")
	}

	if cfg.Notifications.GetResponse.APIKey == "" {
		appLog.Warn("getresponse api key is empty, enrollment jobs will fail")
	}
	gr := cfg.Notifications.GetResponse
	marketing := getresponse.NewClient(getresponse.Config{
		BaseURL:        gr.BaseURL,
		APIKey:         gr.APIKey,
		Campaigns:      gr.Campaigns,
		AllCampaign:    gr.AllCampaign,
		FromFieldID:    gr.FromFieldID,
		PackageFieldID: gr.PackageFieldID,
		PhoneFieldID:   gr.PhoneFieldID,
		SendDelay:      gr.SendDelay,
		Timeout:        gr.Timeout,
	})
	booking := mywaypoint.NewClient(cfg.Notifications.CRMSync.URL, cfg.Notifications.CRMSync.Timeout)

	relay := notification.NewRelay(notification.RelayConfig{
		AlertRecipient: cfg.Notifications.AlertRecipient,
		ContactDelay:   gr.ContactLookupDelay,
		TotalSessions:  cfg.Notifications.CRMSync.TotalSessions,
	}, marketing, mailer, booking, appLog)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.NewMetrics(metricsNamespace, reg)

	jobRepo := postgres.NewNotificationJobRepository(db)
	processor, err := worker.NewJobProcessor(
		jobRepo,
		cfg.Worker.ToWorkerConfig(),
		appLog,
		m,
	)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create job processor")
	}
	relay.Register(processor)

	cleanup := jobWorker.NewJobCleanupWorker(jobRepo, cfg.Worker.RetainProcessed, cleanupInterval, appLog)

	ops := serveOps(cfg.Server.MetricsPort, map[string]health.Check{"database": db.PingContext}, reg, m)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		appLog.Info("Shutting down...")
		cancel()
	}()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		processor.Start(ctx)
	}()
	go func() {
		defer wg.Done()
		cleanup.Start(ctx)
	}()
	wg.Wait()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := ops.Shutdown(shutdownCtx); err != nil {
		appLog.Error(err, "ops server forced to shutdown")
	}
}
