package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Egor213/LogVault/internal/broker"
	kafkabroker "github.com/Egor213/LogVault/internal/broker/kafka"
	"github.com/Egor213/LogVault/internal/config"
	httpv1 "github.com/Egor213/LogVault/internal/controller/http/v1"
	"github.com/Egor213/LogVault/internal/healthcheck"
	"github.com/Egor213/LogVault/internal/metrics"
	"github.com/Egor213/LogVault/internal/repo"
	"github.com/Egor213/LogVault/internal/service"
	"github.com/Egor213/LogVault/internal/store"
	errorsUtils "github.com/Egor213/LogVault/pkg/errors"
	"github.com/Egor213/LogVault/pkg/httpserver"
	"github.com/Egor213/LogVault/pkg/logger"
	"github.com/Egor213/LogVault/pkg/postgres"
	"github.com/labstack/echo/v4"
	"github.com/robfig/cron/v3"

	log "github.com/sirupsen/logrus"
)

func Run() {
	// Config

	cfg, err := config.New()
	if err != nil {
		log.Fatal(errorsUtils.WrapPathErr(err))
	}

	// Logger
	logger.SetupLogger(cfg.Log.Level)
	log.Info("Logger has been set up")

	// Migrations
	Migrate(cfg.PG.URL)

	// DB connecting
	log.Info("Connecting to DB")
	pg, err := postgres.New(cfg.PG.URL, postgres.MaxPoolSize(cfg.PG.MaxPoolSize))
	if err != nil {
		log.Fatal(errorsUtils.WrapPathErr(err))
	}
	defer pg.Close()
	log.Info("Connected to DB")

	// Repos
	repositories := repo.NewRepositories(pg)

	// Metrics
	counters := metrics.New()

	// Kafka producer
	var producer broker.Producer
	var kafkaProducer *kafkabroker.Producer
	if cfg.Kafka.Enabled {
		log.Info("Starting Kafka producer...")
		kafkaProducer = kafkabroker.NewProducer(kafkabroker.ProducerConfig{
			Brokers: cfg.Kafka.Brokers,
			Topic:   cfg.Kafka.Topic,
		})
		producer = kafkaProducer
	}

	// Store hub
	hub := store.NewHub(store.Deps{
		Entries:  repositories.Entry,
		Stats:    repositories.Stats,
		Health:   repositories.Health,
		Producer: producer,
		Counters: counters,
	})

	// Services
	deps := service.ServicesDependencies{
		Repos:              repositories,
		StatsRetentionDays: cfg.Retention.StatsDays,
		EntryRetentionDays: cfg.Retention.EntryDays,
	}
	services := service.NewServices(deps)

	// Schedulers
	log.Info("Starting schedulers...")
	checker := healthcheck.NewChecker(hub, repositories.Health, time.Duration(cfg.Health.TimeoutSeconds)*time.Second)
	scheduler := cron.New()
	if _, err := scheduler.AddFunc(cfg.Health.Schedule, func() {
		checker.RunOnce(context.Background())
	}); err != nil {
		log.Fatal(errorsUtils.WrapPathErr(err))
	}
	if _, err := scheduler.AddFunc(cfg.Retention.Schedule, func() {
		services.Retention.Sweep(context.Background())
	}); err != nil {
		log.Fatal(errorsUtils.WrapPathErr(err))
	}
	scheduler.Start()

	// API server
	log.Infof("Starting API server...")
	log.Debugf("Server port: %s", cfg.HTTP.Port)
	apiHandler := echo.New()
	httpv1.ConfigureRouter(apiHandler, services, hub, cfg.Auth.AdminKey)
	apiServer := httpserver.New(apiHandler, httpserver.Port(cfg.HTTP.Port))

	// Prometheus server
	log.Infof("Starting metrics server...")
	log.Debugf("Server port: %s", cfg.Prometheus.Port)
	metricsHandler := echo.New()
	metrics.ConfigureRouter(metricsHandler)
	metricsServer := httpserver.New(metricsHandler, httpserver.Port(cfg.Prometheus.Port))

	// Waiting signal
	log.Info("Configuring graceful shutdown")
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	select {
	case s := <-interrupt:
		log.Info("app - Run - signal: " + s.String())
	case err := <-apiServer.Notify():
		log.Info(errorsUtils.WrapPathErr(err))
	case err := <-metricsServer.Notify():
		log.Info(errorsUtils.WrapPathErr(err))
	}

	// Graceful shutdown
	log.Info("Shutting down...")
	scheduler.Stop()
	if err := apiServer.Shutdown(); err != nil {
		log.Error(errorsUtils.WrapPathErr(err))
	}
	if err := metricsServer.Shutdown(); err != nil {
		log.Error(errorsUtils.WrapPathErr(err))
	}
	hub.Close()
	if kafkaProducer != nil {
		if err := kafkaProducer.Close(); err != nil {
			log.Error(errorsUtils.WrapPathErr(err))
		}
	}
}
