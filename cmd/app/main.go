package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/Domenick1991/airline-booking/api"
	"github.com/Domenick1991/airline-booking/config"
	"github.com/Domenick1991/airline-booking/internal/auth"
	"github.com/Domenick1991/airline-booking/internal/bootstrap"
	"github.com/Domenick1991/airline-booking/internal/cache"
	"github.com/Domenick1991/airline-booking/internal/kafka"
	"github.com/Domenick1991/airline-booking/internal/logger"
	"github.com/Domenick1991/airline-booking/internal/repository"
	"github.com/Domenick1991/airline-booking/internal/service/accounts"
	"github.com/Domenick1991/airline-booking/internal/service/flights"
	"github.com/Domenick1991/airline-booking/internal/service/purchase"
	"github.com/Domenick1991/airline-booking/internal/service/reports"
	"github.com/Domenick1991/airline-booking/internal/session"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
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

	poolCfg, err := pgxpool.ParseConfig(cfg.Database.DSN())
	if err != nil {
		logrus.Fatalf("parse database config: %v", err)
	}
	poolCfg.MaxConns = cfg.Database.MaxConns
	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		logrus.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()
	if err := pool.Ping(ctx); err != nil {
		logrus.Fatalf("ping postgres: %v", err)
	}
	if cfg.Database.Migrate {
		if err := repository.Migrate(ctx, pool); err != nil {
			logrus.Fatalf("migrate: %v", err)
		}
	}

	redisClient := cache.NewClient(cfg.Redis)
	defer redisClient.Close()
	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	flightRepo := repository.NewFlightRepository(pool)
	accountRepo := repository.NewAccountRepository(pool)
	reportRepo := repository.NewReportRepository(pool)

	flightService := flights.NewFlightService(
		flightRepo,
		repository.NewFleetRepository(pool),
		accountRepo,
		flights.WithCache(cache.NewRedisCache(redisClient, cfg.Booking.CacheTTL())),
		flights.WithStatusEvents(producer, cfg.Kafka.FlightsTopic, reportRepo),
		flights.WithLimits(cfg.Booking.LiveSearchLimit, cfg.Booking.StatusLimit),
	)
	purchaseService := purchase.NewPurchaseService(
		repository.NewPurchaseRepository(pool),
		flightRepo,
		producer,
		cfg.Kafka.TicketsTopic,
	)
	reportService := reports.NewReportService(reportRepo, nil)
	accountService := accounts.NewAccountService(
		accountRepo,
		session.NewRedisStore(redisClient, cfg.Session.TTL()),
		auth.NewHasher(cfg.Session.PasswordCost),
	)

	router := api.NewRouter(api.Handlers{
		Auth:       api.NewAuthHandler(accountService, cfg.Session),
		Public:     api.NewPublicHandler(flightService),
		Customer:   api.NewCustomerHandler(flightService, purchaseService, reportService),
		Agent:      api.NewAgentHandler(flightService, purchaseService, reportService),
		Staff:      api.NewStaffHandler(flightService, purchaseService, reportService),
		CookieName: cfg.Session.CookieName,
		Checks: map[string]api.HealthCheck{
			"postgres": pool.Ping,
			"redis":    func(ctx context.Context) error { return redisClient.Ping(ctx).Err() },
			"kafka":    producer.CheckConnection,
		},
	})

	if err := bootstrap.Run(ctx, cfg, router, purchaseService, accountService); err != nil {
		logrus.Fatalf("server error: %v", err)
	}
}
