package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Domenick1991/airline-booking/config"
	"github.com/Domenick1991/airline-booking/internal/email"
	"github.com/Domenick1991/airline-booking/internal/kafka"
	"github.com/Domenick1991/airline-booking/internal/logger"
	"github.com/Domenick1991/airline-booking/internal/repository"
	"github.com/Domenick1991/airline-booking/internal/service/purchase"
	"github.com/Domenick1991/airline-booking/internal/worker"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		logrus.Fatalf("load config: %v", err)
	}
	logger.Init(cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		logrus.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	purchaseService := purchase.NewPurchaseService(
		repository.NewPurchaseRepository(pool),
		repository.NewFlightRepository(pool),
		nil,
		"",
	)

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.TicketsTopic, cfg.Kafka.FlightsTopic)
	defer consumer.Close()
	notifier := worker.NewNotifier(email.NewSender(), producer, cfg.Kafka.NotificationsTopic)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return consumer.Consume(gctx, notifier.Handle)
	})
	g.Go(func() error {
		worker.RunReconciler(gctx, purchaseService, time.Duration(cfg.Worker.ReconcileSweepMinutes)*time.Minute)
		return nil
	})

	logrus.WithField("topics", []string{cfg.Kafka.TicketsTopic, cfg.Kafka.FlightsTopic}).Info("worker started")
	if err := g.Wait(); err != nil {
		logrus.Fatalf("worker stopped: %v", err)
	}
	logrus.Info("worker stopped")
}
